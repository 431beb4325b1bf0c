package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenStore fails every call.
type brokenStore struct{}

var errBroken = errors.New("store down")

func (brokenStore) Get(ctx context.Context, collection string) ([]Record, error) {
	return nil, errBroken
}
func (brokenStore) GetOne(ctx context.Context, collection string, query Query) (Record, error) {
	return nil, errBroken
}
func (brokenStore) Insert(ctx context.Context, collection string, rec Record) (Record, error) {
	return nil, errBroken
}
func (brokenStore) Update(ctx context.Context, collection string, query Query, patch Record) error {
	return errBroken
}
func (brokenStore) Remove(ctx context.Context, collection string, query Query) error {
	return errBroken
}
func (brokenStore) Set(ctx context.Context, collection string, recs []Record) error {
	return errBroken
}
func (brokenStore) Count(ctx context.Context, collection string) (int, error) {
	return 0, errBroken
}

func newTestReplicated(t *testing.T) (*Replicated, *Memory, *Memory) {
	t.Helper()
	primary := NewMemory()
	side := NewMemory()
	r := NewReplicated(
		Home{Store: primary, Collection: "receivables"},
		Home{Store: primary, Collection: "tradeReceivable"},
		Home{Store: side, Collection: "receivables"},
	)
	return r, primary, side
}

func TestReplicatedInsertFansOut(t *testing.T) {
	r, primary, side := newTestReplicated(t)
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, Record{"id": "r1", "amount": "50"}))

	for _, coll := range []string{"receivables", "tradeReceivable"} {
		rec, err := primary.GetOne(ctx, coll, Query{"id": "r1"})
		require.NoError(t, err)
		assert.NotNil(t, rec, coll)
	}
	rec, err := side.GetOne(ctx, "receivables", Query{"id": "r1"})
	require.NoError(t, err)
	assert.NotNil(t, rec)
}

func TestReplicatedListDeduplicatesFirstSeenWins(t *testing.T) {
	r, primary, side := newTestReplicated(t)
	ctx := context.Background()

	// The same id with diverged contents across homes: the earlier home wins.
	_, err := primary.Insert(ctx, "receivables", Record{"id": "r1", "status": "current"})
	require.NoError(t, err)
	_, err = side.Insert(ctx, "receivables", Record{"id": "r1", "status": "paid"})
	require.NoError(t, err)
	_, err = side.Insert(ctx, "receivables", Record{"id": "r2", "status": "current"})
	require.NoError(t, err)

	recs, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	byID := map[string]Record{}
	for _, rec := range recs {
		byID[RecordID(rec)] = rec
	}
	assert.Equal(t, "current", byID["r1"]["status"])
	assert.NotNil(t, byID["r2"])
}

func TestReplicatedSurvivesPartialHomeFailure(t *testing.T) {
	healthy := NewMemory()
	r := NewReplicated(
		Home{Store: brokenStore{}, Collection: "receivables"},
		Home{Store: healthy, Collection: "receivables"},
	)
	ctx := context.Background()

	// Insert succeeds as long as one home accepts the record.
	require.NoError(t, r.Insert(ctx, Record{"id": "r1"}))

	recs, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestReplicatedFailsWhenAllHomesFail(t *testing.T) {
	r := NewReplicated(
		Home{Store: brokenStore{}, Collection: "receivables"},
		Home{Store: brokenStore{}, Collection: "tradeReceivable"},
	)
	ctx := context.Background()

	require.Error(t, r.Insert(ctx, Record{"id": "r1"}))
	_, err := r.List(ctx)
	require.Error(t, err)
}

func TestReplicatedUpdateReachesEveryHome(t *testing.T) {
	r, primary, side := newTestReplicated(t)
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, Record{"id": "r1", "status": "current"}))
	require.NoError(t, r.Update(ctx, "r1", Record{"status": "paid"}))

	rec, err := primary.GetOne(ctx, "tradeReceivable", Query{"id": "r1"})
	require.NoError(t, err)
	assert.Equal(t, "paid", rec["status"])

	rec, err = side.GetOne(ctx, "receivables", Query{"id": "r1"})
	require.NoError(t, err)
	assert.Equal(t, "paid", rec["status"])
}

func TestReplicatedRemoveReachesEveryHome(t *testing.T) {
	r, primary, side := newTestReplicated(t)
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, Record{"id": "r1"}))
	require.NoError(t, r.Remove(ctx, "r1"))

	recs, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, recs)

	n, err := primary.Count(ctx, "receivables")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	n, err = side.Count(ctx, "receivables")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
