package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryUnknownCollectionIsEmpty(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	recs, err := m.Get(ctx, "nope")
	require.NoError(t, err)
	assert.Empty(t, recs)

	rec, err := m.GetOne(ctx, "nope", Query{"id": "x"})
	require.NoError(t, err)
	assert.Nil(t, rec)

	n, err := m.Count(ctx, "nope")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestMemoryInsertAndQuery(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.Insert(ctx, "bills", Record{"id": "BILL-00001", "amount": "100"})
	require.NoError(t, err)
	_, err = m.Insert(ctx, "bills", Record{"id": "BILL-00002", "amount": "200"})
	require.NoError(t, err)

	rec, err := m.GetOne(ctx, "bills", Query{"id": "BILL-00002"})
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "200", rec["amount"])

	n, err := m.Count(ctx, "bills")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestMemoryMatchesNormalizesNumbers(t *testing.T) {
	// Records that went through JSON come back with float64 values; queries
	// built in code may carry int. Both must match.
	m := NewMemory()
	ctx := context.Background()

	_, err := m.Insert(ctx, "stockLots", Record{"id": "l1", "quantity": float64(5)})
	require.NoError(t, err)

	rec, err := m.GetOne(ctx, "stockLots", Query{"quantity": 5})
	require.NoError(t, err)
	assert.NotNil(t, rec)
}

func TestMemoryUpdatePatchesAllMatches(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.Insert(ctx, "expenses", Record{"id": "e1", "status": "open"})
	require.NoError(t, err)
	_, err = m.Insert(ctx, "expenses", Record{"id": "e2", "status": "open"})
	require.NoError(t, err)

	err = m.Update(ctx, "expenses", Query{"status": "open"}, Record{"status": "closed"})
	require.NoError(t, err)

	recs, err := m.Get(ctx, "expenses")
	require.NoError(t, err)
	for _, r := range recs {
		assert.Equal(t, "closed", r["status"])
	}
}

func TestMemoryRemove(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.Insert(ctx, "bills", Record{"id": "b1"})
	require.NoError(t, err)
	_, err = m.Insert(ctx, "bills", Record{"id": "b2"})
	require.NoError(t, err)

	require.NoError(t, m.Remove(ctx, "bills", Query{"id": "b1"}))

	recs, err := m.Get(ctx, "bills")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "b2", recs[0]["id"])
}

func TestMemoryReturnsCopies(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.Insert(ctx, "bills", Record{"id": "b1", "amount": "100"})
	require.NoError(t, err)

	recs, err := m.Get(ctx, "bills")
	require.NoError(t, err)
	recs[0]["amount"] = "tampered"

	rec, err := m.GetOne(ctx, "bills", Query{"id": "b1"})
	require.NoError(t, err)
	assert.Equal(t, "100", rec["amount"])
}

func TestMemorySaveAndLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	ctx := context.Background()

	m := NewMemory()
	_, err := m.Insert(ctx, "bills", Record{"id": "b1", "amount": "100"})
	require.NoError(t, err)
	require.NoError(t, m.SaveFile(path))

	loaded := NewMemory()
	require.NoError(t, loaded.LoadFile(path))

	rec, err := loaded.GetOne(ctx, "bills", Query{"id": "b1"})
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "100", rec["amount"])
}

func TestMemoryLoadFileMissingIsNoop(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.LoadFile(filepath.Join(t.TempDir(), "absent.json")))
}

func TestRecordID(t *testing.T) {
	assert.Equal(t, "a", RecordID(Record{"id": "a"}))
	assert.Equal(t, "b", RecordID(Record{"_id": "b"}))
	assert.Equal(t, "a", RecordID(Record{"id": "a", "_id": "b"}))
	assert.Equal(t, "", RecordID(Record{"name": "x"}))
}
