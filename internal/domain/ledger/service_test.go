package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopbooks/internal/core/types"
	"shopbooks/internal/store"
)

// removeBlockedStore wraps a store whose deletes always fail, forcing the
// reversal fallback path.
type removeBlockedStore struct {
	store.Store
}

func (s removeBlockedStore) Remove(ctx context.Context, collection string, query store.Query) error {
	return errors.New("delete rejected")
}

func TestPostStampsRunningBalance(t *testing.T) {
	svc := NewService(store.NewMemory())
	ctx := context.Background()

	first, err := svc.Post(ctx, Cash, Entry{Description: "opening", In: types.MustMoney("100")})
	require.NoError(t, err)
	assert.True(t, first.Balance.Equal(types.MustMoney("100")))

	second, err := svc.Post(ctx, Cash, Entry{Description: "supplies", Out: types.MustMoney("30")})
	require.NoError(t, err)
	assert.True(t, second.Balance.Equal(types.MustMoney("70")))
}

func TestPostRejectsNegativeAmounts(t *testing.T) {
	svc := NewService(store.NewMemory())
	ctx := context.Background()

	_, err := svc.Post(ctx, Cash, Entry{Description: "bad", In: types.MustMoney("-5")})
	require.Error(t, err)
}

func TestLedgersAreIndependent(t *testing.T) {
	svc := NewService(store.NewMemory())
	ctx := context.Background()

	_, err := svc.Post(ctx, Cash, Entry{Description: "cash in", In: types.MustMoney("10")})
	require.NoError(t, err)
	_, err = svc.Post(ctx, Bank, Entry{Description: "deposit", In: types.MustMoney("25")})
	require.NoError(t, err)

	cash, err := svc.Balance(ctx, Cash)
	require.NoError(t, err)
	assert.True(t, cash.Equal(types.MustMoney("10")))

	bank, err := svc.Balance(ctx, Bank)
	require.NoError(t, err)
	assert.True(t, bank.Equal(types.MustMoney("25")))
}

func TestBalanceIgnoresDriftedCachedBalances(t *testing.T) {
	mem := store.NewMemory()
	svc := NewService(mem)
	ctx := context.Background()

	_, err := svc.Post(ctx, Cash, Entry{Description: "a", In: types.MustMoney("100")})
	require.NoError(t, err)
	_, err = svc.Post(ctx, Cash, Entry{Description: "b", In: types.MustMoney("50")})
	require.NoError(t, err)

	// Corrupt every cached balance; the derived balance must not change.
	require.NoError(t, mem.Update(ctx, "cashTransactions", store.Query{}, store.Record{"balance": "99999"}))

	balance, err := svc.Balance(ctx, Cash)
	require.NoError(t, err)
	assert.True(t, balance.Equal(types.MustMoney("150")))
}

func TestReverseRemovesEntry(t *testing.T) {
	mem := store.NewMemory()
	svc := NewService(mem)
	ctx := context.Background()

	_, err := svc.Post(ctx, Cash, Entry{Description: "sale", Reference: "BILL-00001", In: types.MustMoney("80")})
	require.NoError(t, err)

	require.NoError(t, svc.Reverse(ctx, Cash, "BILL-00001"))

	entries, err := svc.Entries(ctx, Cash)
	require.NoError(t, err)
	assert.Empty(t, entries)

	balance, err := svc.Balance(ctx, Cash)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestReverseUnknownReferenceFails(t *testing.T) {
	svc := NewService(store.NewMemory())
	require.Error(t, svc.Reverse(context.Background(), Cash, "nope"))
}

func TestReverseFallsBackToCompensatingEntry(t *testing.T) {
	mem := store.NewMemory()
	svc := NewService(removeBlockedStore{mem})
	ctx := context.Background()

	_, err := svc.Post(ctx, Cash, Entry{Description: "sale", Reference: "BILL-00001", In: types.MustMoney("80")})
	require.NoError(t, err)

	require.NoError(t, svc.Reverse(ctx, Cash, "BILL-00001"))

	// The original entry stays; a swapped REV- entry zeroes the effect.
	entries, err := svc.Entries(ctx, Cash)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	rev := entries[1]
	assert.Equal(t, ReversalPrefix+"BILL-00001", rev.Reference)
	assert.True(t, rev.Out.Equal(types.MustMoney("80")))
	assert.True(t, rev.In.IsZero())

	balance, err := svc.Balance(ctx, Cash)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestFindByReference(t *testing.T) {
	svc := NewService(store.NewMemory())
	ctx := context.Background()

	_, err := svc.Post(ctx, Bank, Entry{Description: "x", Reference: "EXP-00001", Out: types.MustMoney("12")})
	require.NoError(t, err)

	entry, found, err := svc.FindByReference(ctx, Bank, "EXP-00001")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "x", entry.Description)

	_, found, err = svc.FindByReference(ctx, Bank, "absent")
	require.NoError(t, err)
	assert.False(t, found)
}
