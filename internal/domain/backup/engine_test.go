package backup

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopbooks/internal/core/sequence"
	"shopbooks/internal/store"
)

func newEngine(t *testing.T) (*Engine, *store.Memory, *sequence.Generator) {
	t.Helper()
	mem := store.NewMemory()
	kv := store.NewMemoryKV()
	seq := sequence.New(kv)
	return NewEngine(mem, kv, seq), mem, seq
}

func seed(t *testing.T, mem *store.Memory, collection string, recs ...store.Record) {
	t.Helper()
	for _, rec := range recs {
		_, err := mem.Insert(context.Background(), collection, rec)
		require.NoError(t, err)
	}
}

func TestSnapshotCoversScope(t *testing.T) {
	engine, mem, _ := newEngine(t)
	ctx := context.Background()

	seed(t, mem, "stockLots", store.Record{"id": "l1", "name": "fabric"})
	seed(t, mem, "customers", store.Record{"id": "c1", "name": "Acme Traders"})

	doc, err := engine.Snapshot(ctx, ScopeStock, nil)
	require.NoError(t, err)
	assert.Equal(t, Version, doc.Metadata.Version)
	assert.Equal(t, "stock", doc.Metadata.Type)
	require.Len(t, doc.Data, 1)
	assert.Len(t, doc.Data["stockLots"], 1)

	// Full scope includes every known collection, empty ones as [].
	full, err := engine.Snapshot(ctx, ScopeAll, nil)
	require.NoError(t, err)
	assert.Len(t, full.Data, len(knownCollections))
	assert.NotNil(t, full.Data["bills"])
	assert.Empty(t, full.Data["bills"])
}

func TestRestoreReplaceRoundTrip(t *testing.T) {
	engine, mem, _ := newEngine(t)
	ctx := context.Background()

	seed(t, mem, "customers", store.Record{"id": "c1", "name": "Acme Traders"})
	seed(t, mem, "bills", store.Record{"id": "BILL-00003", "amount": "100"})

	doc, err := engine.Snapshot(ctx, ScopeAll, nil)
	require.NoError(t, err)

	// Mutate the live data, then restore the snapshot.
	seed(t, mem, "customers", store.Record{"id": "c2", "name": "Intruder"})
	require.NoError(t, mem.Remove(ctx, "bills", store.Query{"id": "BILL-00003"}))

	res, err := engine.Restore(ctx, doc, ModeReplace, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, len(knownCollections), res.Collections)
	assert.Equal(t, 2, res.Inserted)

	customers, err := mem.Get(ctx, "customers")
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "c1", customers[0]["id"])

	bills, err := mem.Get(ctx, "bills")
	require.NoError(t, err)
	require.Len(t, bills, 1)
}

func TestRestoreMergeSkipsExistingIDs(t *testing.T) {
	engine, mem, _ := newEngine(t)
	ctx := context.Background()

	seed(t, mem, "customers", store.Record{"id": "c1", "name": "Acme Traders"})

	doc := Document{
		Metadata: Metadata{Version: Version, Type: "all"},
		Data: map[string][]store.Record{
			"customers": {
				{"id": "c1", "name": "Acme Traders (stale copy)"},
				{"id": "c2", "name": "Mills Ltd"},
			},
		},
	}

	res, err := engine.Restore(ctx, doc, ModeMerge, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 1, res.Skipped)

	// The existing record keeps its live values.
	rec, err := mem.GetOne(ctx, "customers", store.Query{"id": "c1"})
	require.NoError(t, err)
	assert.Equal(t, "Acme Traders", rec["name"])

	// Re-running the same merge is a no-op.
	res, err = engine.Restore(ctx, doc, ModeMerge, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Inserted)
	assert.Equal(t, 2, res.Skipped)
}

func TestRestoreAssignsIDsToIDlessRecords(t *testing.T) {
	engine, mem, _ := newEngine(t)
	ctx := context.Background()

	doc := Document{
		Data: map[string][]store.Record{
			"customers": {{"name": "Nameless Import"}},
		},
	}

	_, err := engine.Restore(ctx, doc, ModeMerge, nil)
	require.NoError(t, err)

	recs, err := mem.Get(ctx, "customers")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.NotEmpty(t, store.RecordID(recs[0]))
}

func TestRestoreBumpsSequencesPastRestoredNumbers(t *testing.T) {
	engine, _, seq := newEngine(t)
	ctx := context.Background()

	doc := Document{
		Data: map[string][]store.Record{
			"bills":    {{"id": "BILL-00007"}, {"id": "BILL-00012"}},
			"expenses": {{"id": "EXP-00003"}},
		},
	}

	_, err := engine.Restore(ctx, doc, ModeMerge, nil)
	require.NoError(t, err)

	next, err := seq.Next(ctx, "BILL")
	require.NoError(t, err)
	assert.Equal(t, "BILL-00013", next)

	next, err = seq.Next(ctx, "EXP")
	require.NoError(t, err)
	assert.Equal(t, "EXP-00004", next)
}

func TestRestoreReportsProgress(t *testing.T) {
	engine, _, _ := newEngine(t)

	doc := Document{
		Data: map[string][]store.Record{
			"customers": {{"id": "c1"}},
			"vendors":   {{"id": "v1"}},
		},
	}

	var fractions []float64
	_, err := engine.Restore(context.Background(), doc, ModeMerge, func(f float64, _ string) {
		fractions = append(fractions, f)
	})
	require.NoError(t, err)
	require.Len(t, fractions, 2)
	assert.Equal(t, 0.5, fractions[0])
	assert.Equal(t, 1.0, fractions[1])
}

func TestWriteFileRoundTrip(t *testing.T) {
	engine, mem, _ := newEngine(t)
	ctx := context.Background()

	seed(t, mem, "customers", store.Record{"id": "c1", "name": "Acme Traders"})

	doc, err := engine.Snapshot(ctx, ScopeCustomers, nil)
	require.NoError(t, err)

	dir := t.TempDir()
	for _, name := range []string{"backup.json", "backup.json.gz"} {
		path := filepath.Join(dir, name)
		require.NoError(t, engine.WriteFile(ctx, doc, path))

		got, err := ReadFile(path)
		require.NoError(t, err, name)
		assert.Equal(t, doc.Metadata.Type, got.Metadata.Type, name)
		require.Len(t, got.Data["customers"], 1, name)
		assert.Equal(t, "c1", store.RecordID(got.Data["customers"][0]), name)
	}
}

func TestWriteGzipProducesSmallerOutput(t *testing.T) {
	engine, mem, _ := newEngine(t)
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		seed(t, mem, "customers", store.Record{
			"id":   fmt.Sprintf("c%d", i),
			"name": "A customer with a reasonably repetitive name",
		})
	}
	doc, err := engine.Snapshot(ctx, ScopeCustomers, nil)
	require.NoError(t, err)

	var plain, packed bytes.Buffer
	require.NoError(t, engine.Write(doc, &plain))
	require.NoError(t, engine.WriteGzip(doc, &packed))
	assert.Less(t, packed.Len(), plain.Len())
}

func TestHistoryRollsOver(t *testing.T) {
	engine, mem, _ := newEngine(t)
	ctx := context.Background()

	seed(t, mem, "customers", store.Record{"id": "c1"})
	doc, err := engine.Snapshot(ctx, ScopeCustomers, nil)
	require.NoError(t, err)

	dir := t.TempDir()
	for i := 0; i < maxHistory+3; i++ {
		path := filepath.Join(dir, fmt.Sprintf("backup-%d.json", i))
		require.NoError(t, engine.WriteFile(ctx, doc, path))
	}

	history, err := engine.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, maxHistory)
	// Oldest entries fall off; the newest is last.
	assert.Contains(t, history[len(history)-1].Filename, "backup-12.json")

	last, err := engine.LastBackup(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, last)
}

func TestFilenameConvention(t *testing.T) {
	at := time.Date(2026, 8, 30, 14, 5, 9, 0, time.UTC)
	name := Filename(ScopeAll, at)
	assert.Equal(t, "inventory_backup_all_2026-08-30T14-05-09Z.json", name)
	assert.NotContains(t, name, ":")
}
