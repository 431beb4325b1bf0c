package expense

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopbooks/internal/core/sequence"
	"shopbooks/internal/core/types"
	"shopbooks/internal/domain/ledger"
	"shopbooks/internal/store"
)

func newService(t *testing.T) (*Service, *ledger.Service) {
	t.Helper()
	mem := store.NewMemory()
	ledgers := ledger.NewService(mem)
	seq := sequence.New(store.NewMemoryKV())
	return NewService(mem, ledgers, seq), ledgers
}

func TestCreatePostsLedgerOutflow(t *testing.T) {
	svc, ledgers := newService(t)
	ctx := context.Background()

	e, err := svc.Create(ctx, Expense{
		Title:       "Shop rent",
		Amount:      types.MustMoney("500"),
		PaymentMode: ModeCash,
	})
	require.NoError(t, err)
	assert.Equal(t, "EXP-00001", e.ID)
	assert.Equal(t, 1, e.Revision)
	assert.Equal(t, e.ID, e.LedgerRef)

	balance, err := ledgers.Balance(ctx, ledger.Cash)
	require.NoError(t, err)
	assert.True(t, balance.Equal(types.MustMoney("-500")))
}

func TestCreateValidates(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, Expense{Amount: types.MustMoney("10"), PaymentMode: ModeCash})
	require.Error(t, err)

	_, err = svc.Create(ctx, Expense{Title: "x", Amount: types.MustMoney("0"), PaymentMode: ModeCash})
	require.Error(t, err)

	_, err = svc.Create(ctx, Expense{Title: "x", Amount: types.MustMoney("10"), PaymentMode: "Barter"})
	require.Error(t, err)
}

func TestUpdateTitleOnlyPatchesInPlace(t *testing.T) {
	svc, ledgers := newService(t)
	ctx := context.Background()

	e, err := svc.Create(ctx, Expense{
		Title:       "Rnt",
		Amount:      types.MustMoney("500"),
		PaymentMode: ModeCash,
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, e.ID, Expense{
		Title:       "Rent",
		Amount:      types.MustMoney("500"),
		PaymentMode: ModeCash,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Revision)
	assert.Equal(t, e.ID, updated.LedgerRef)

	// No new ledger traffic for a cosmetic edit.
	entries, err := ledgers.Entries(ctx, ledger.Cash)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestUpdateAmountRepostsUnderNewRevision(t *testing.T) {
	svc, ledgers := newService(t)
	ctx := context.Background()

	e, err := svc.Create(ctx, Expense{
		Title:       "Electricity",
		Amount:      types.MustMoney("50"),
		PaymentMode: ModeCash,
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, e.ID, Expense{
		Title:       "Electricity",
		Amount:      types.MustMoney("80"),
		PaymentMode: ModeCash,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Revision)
	assert.Equal(t, e.ID+"/2", updated.LedgerRef)

	// Original entry, its reversal, and the corrected entry all stay in
	// the log; only the new amount affects the balance.
	entries, err := ledgers.Entries(ctx, ledger.Cash)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, ledger.ReversalPrefix+e.ID, entries[1].Reference)
	assert.True(t, entries[1].In.Equal(types.MustMoney("50")))
	assert.Equal(t, e.ID+"/2", entries[2].Reference)

	balance, err := ledgers.Balance(ctx, ledger.Cash)
	require.NoError(t, err)
	assert.True(t, balance.Equal(types.MustMoney("-80")))
}

func TestUpdateModeMovesBetweenLedgers(t *testing.T) {
	svc, ledgers := newService(t)
	ctx := context.Background()

	e, err := svc.Create(ctx, Expense{
		Title:       "Transport",
		Amount:      types.MustMoney("120"),
		PaymentMode: ModeCash,
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, e.ID, Expense{
		Title:       "Transport",
		Amount:      types.MustMoney("120"),
		PaymentMode: ModeBank,
	})
	require.NoError(t, err)

	cash, err := ledgers.Balance(ctx, ledger.Cash)
	require.NoError(t, err)
	assert.True(t, cash.IsZero())

	bank, err := ledgers.Balance(ctx, ledger.Bank)
	require.NoError(t, err)
	assert.True(t, bank.Equal(types.MustMoney("-120")))
}

func TestDeleteReversesLiveEntry(t *testing.T) {
	svc, ledgers := newService(t)
	ctx := context.Background()

	e, err := svc.Create(ctx, Expense{
		Title:       "Packaging",
		Amount:      types.MustMoney("40"),
		PaymentMode: ModeBank,
	})
	require.NoError(t, err)

	// Edit first so the live entry carries a revision suffix.
	updated, err := svc.Update(ctx, e.ID, Expense{
		Title:       "Packaging",
		Amount:      types.MustMoney("45"),
		PaymentMode: ModeBank,
	})
	require.NoError(t, err)
	require.Equal(t, e.ID+"/2", updated.LedgerRef)

	require.NoError(t, svc.Delete(ctx, e.ID))

	_, err = svc.GetByID(ctx, e.ID)
	require.Error(t, err)

	balance, err := ledgers.Balance(ctx, ledger.Bank)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}
