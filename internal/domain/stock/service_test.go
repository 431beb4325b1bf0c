package stock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopbooks/internal/core/types"
	"shopbooks/internal/store"
)

func addLot(t *testing.T, svc *Service, name, color string, qty int64, price, date string) Lot {
	t.Helper()
	lot, err := svc.AddLot(context.Background(), Lot{
		Name:     name,
		Color:    color,
		Quantity: qty,
		Price:    types.MustMoney(price),
		Date:     date,
	})
	require.NoError(t, err)
	return lot
}

func TestConsumeTakesOldestLotsFirst(t *testing.T) {
	mem := store.NewMemory()
	svc := NewService(mem)
	ctx := context.Background()

	first := addLot(t, svc, "fabric", "blue", 5, "10", "2026-01-01")
	second := addLot(t, svc, "fabric", "blue", 3, "12", "2026-02-01")

	consumed, err := svc.Consume(ctx, "fabric", "blue", 6)
	require.NoError(t, err)
	require.Len(t, consumed, 2)

	// Oldest lot fully consumed and deleted, newer lot decremented to 2.
	assert.Equal(t, first.ID, consumed[0].LotID)
	assert.Equal(t, int64(5), consumed[0].Quantity)
	assert.True(t, consumed[0].Deleted)
	assert.Equal(t, second.ID, consumed[1].LotID)
	assert.Equal(t, int64(1), consumed[1].Quantity)
	assert.False(t, consumed[1].Deleted)

	lots, err := svc.Lots(ctx)
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.Equal(t, second.ID, lots[0].ID)
	assert.Equal(t, int64(2), lots[0].Quantity)

	onHand, err := svc.OnHand(ctx, "fabric", "blue")
	require.NoError(t, err)
	assert.Equal(t, int64(2), onHand)
}

func TestConsumeDistinguishesColors(t *testing.T) {
	svc := NewService(store.NewMemory())
	ctx := context.Background()

	addLot(t, svc, "fabric", "blue", 5, "10", "2026-01-01")
	addLot(t, svc, "fabric", "red", 5, "10", "2026-01-01")

	_, err := svc.Consume(ctx, "fabric", "blue", 5)
	require.NoError(t, err)

	onHand, err := svc.OnHand(ctx, "fabric", "red")
	require.NoError(t, err)
	assert.Equal(t, int64(5), onHand)
}

func TestConsumePastZeroLeavesNegativeLot(t *testing.T) {
	svc := NewService(store.NewMemory())
	ctx := context.Background()

	addLot(t, svc, "fabric", "blue", 4, "10", "2026-01-01")

	_, err := svc.Consume(ctx, "fabric", "blue", 6)
	require.NoError(t, err)

	onHand, err := svc.OnHand(ctx, "fabric", "blue")
	require.NoError(t, err)
	assert.Equal(t, int64(-2), onHand)

	lots, err := svc.Lots(ctx)
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.Equal(t, int64(-2), lots[0].Quantity)
	assert.Equal(t, "oversold", lots[0].Note)
}

func TestRestoreUndoesConsumption(t *testing.T) {
	svc := NewService(store.NewMemory())
	ctx := context.Background()

	addLot(t, svc, "fabric", "blue", 5, "10", "2026-01-01")
	consumed, err := svc.Consume(ctx, "fabric", "blue", 5)
	require.NoError(t, err)

	require.NoError(t, svc.Restore(ctx, consumed))

	onHand, err := svc.OnHand(ctx, "fabric", "blue")
	require.NoError(t, err)
	assert.Equal(t, int64(5), onHand)
}

func TestInsertReductionRecordsNegativeLot(t *testing.T) {
	svc := NewService(store.NewMemory())
	ctx := context.Background()

	addLot(t, svc, "fabric", "blue", 5, "10", "2026-01-01")

	lot, err := svc.InsertReduction(ctx, "fabric", "blue", 2, "damaged")
	require.NoError(t, err)
	assert.Equal(t, int64(-2), lot.Quantity)

	// The original lot is untouched; the aggregate reflects the reduction.
	lots, err := svc.Lots(ctx)
	require.NoError(t, err)
	assert.Len(t, lots, 2)

	onHand, err := svc.OnHand(ctx, "fabric", "blue")
	require.NoError(t, err)
	assert.Equal(t, int64(3), onHand)
}

func TestItemsAggregatesLots(t *testing.T) {
	svc := NewService(store.NewMemory())
	ctx := context.Background()

	addLot(t, svc, "fabric", "blue", 5, "10", "2026-01-01")
	addLot(t, svc, "fabric", "blue", 3, "12", "2026-02-01")
	addLot(t, svc, "thread", "", 100, "0.5", "2026-01-15")

	items, err := svc.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)

	byName := map[string]Item{}
	for _, i := range items {
		byName[i.Name] = i
	}
	fabric := byName["fabric"]
	assert.Equal(t, int64(8), fabric.Quantity)
	assert.True(t, fabric.Value.Equal(types.MustMoney("86"))) // 5*10 + 3*12

	thread := byName["thread"]
	assert.Equal(t, int64(100), thread.Quantity)
	assert.True(t, thread.Value.Equal(types.MustMoney("50")))
}
