package purchase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopbooks/internal/core/sequence"
	"shopbooks/internal/core/types"
	"shopbooks/internal/domain/instrument"
	"shopbooks/internal/domain/ledger"
	"shopbooks/internal/domain/party"
	"shopbooks/internal/domain/stock"
	"shopbooks/internal/store"
)

type fixture struct {
	stock    *stock.Service
	ledgers  *ledger.Service
	vendors  *party.Service
	payables *instrument.Service
	svc      *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := store.NewMemory()
	kv := store.NewMemoryKV()
	side := store.NewKVStore(kv, "replica/")
	ledgers := ledger.NewService(mem)
	vendors := party.NewService(mem, "vendors")
	seq := sequence.New(kv)
	stockSvc := stock.NewService(mem)
	payables := instrument.NewPayables(mem, side, ledgers, vendors, seq)
	return &fixture{
		stock:    stockSvc,
		ledgers:  ledgers,
		vendors:  vendors,
		payables: payables,
		svc:      NewService(mem, stockSvc, ledgers, vendors, payables, seq),
	}
}

func cashPurchase(vendor string) Purchase {
	return Purchase{
		Vendor:       vendor,
		PurchaseType: TypeCash,
		Amount:       types.MustMoney("200"),
		Items: []LineItem{{
			Name:     "fabric",
			Color:    "blue",
			Quantity: 10,
			Price:    types.MustMoney("20"),
			Total:    types.MustMoney("200"),
		}},
	}
}

func TestCreateCashPurchaseAddsStockAndPaysOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, cashPurchase("Mills Ltd"))
	require.NoError(t, err)
	assert.Equal(t, "PUR-00001", created.ID)

	onHand, err := f.stock.OnHand(ctx, "fabric", "blue")
	require.NoError(t, err)
	assert.Equal(t, int64(10), onHand)

	balance, err := f.ledgers.Balance(ctx, ledger.Cash)
	require.NoError(t, err)
	assert.True(t, balance.Equal(types.MustMoney("-200")))
}

func TestCreateCreditPurchaseRaisesPayable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	v, err := f.vendors.Create(ctx, "Mills Ltd")
	require.NoError(t, err)

	p := cashPurchase(v.Name)
	p.PurchaseType = TypeCredit
	p.VendorID = v.ID
	p.DueDate = "2026-11-30"

	created, err := f.svc.Create(ctx, p)
	require.NoError(t, err)

	// No cash moves on credit; we owe the vendor instead.
	balance, err := f.ledgers.Balance(ctx, ledger.Cash)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())

	vend, err := f.vendors.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.True(t, vend.TotalCredit.Equal(types.MustMoney("200")))

	insts, err := f.payables.FindByDocument(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, insts, 1)
	assert.Equal(t, instrument.StatusCurrent, insts[0].Status)
}

func TestCreateCreditRequiresVendorID(t *testing.T) {
	f := newFixture(t)

	p := cashPurchase("Mills Ltd")
	p.PurchaseType = TypeCredit

	_, err := f.svc.Create(context.Background(), p)
	require.Error(t, err)
}

func TestDeleteCashPurchaseNetsToZero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, cashPurchase("Mills Ltd"))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, created.ID))

	_, err = f.svc.GetByID(ctx, created.ID)
	require.Error(t, err)

	onHand, err := f.stock.OnHand(ctx, "fabric", "blue")
	require.NoError(t, err)
	assert.Equal(t, int64(0), onHand)

	balance, err := f.ledgers.Balance(ctx, ledger.Cash)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestDeleteCreditPurchaseReversesPayable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	v, err := f.vendors.Create(ctx, "Mills Ltd")
	require.NoError(t, err)

	p := cashPurchase(v.Name)
	p.PurchaseType = TypeCredit
	p.VendorID = v.ID

	created, err := f.svc.Create(ctx, p)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, created.ID))

	vend, err := f.vendors.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.True(t, vend.Balance().IsZero())

	insts, err := f.payables.FindByDocument(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, insts, 1)
	assert.Equal(t, instrument.StatusReversed, insts[0].Status)
}
