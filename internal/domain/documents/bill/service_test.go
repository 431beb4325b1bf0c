package bill

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
	store       *store.Memory
	stock       *stock.Service
	ledgers     *ledger.Service
	customers   *party.Service
	receivables *instrument.Service
	svc         *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := store.NewMemory()
	kv := store.NewMemoryKV()
	side := store.NewKVStore(kv, "replica/")
	ledgers := ledger.NewService(mem)
	customers := party.NewService(mem, "customers")
	seq := sequence.New(kv)
	stockSvc := stock.NewService(mem)
	receivables := instrument.NewReceivables(mem, side, ledgers, customers, seq)
	return &fixture{
		store:       mem,
		stock:       stockSvc,
		ledgers:     ledgers,
		customers:   customers,
		receivables: receivables,
		svc:         NewService(mem, stockSvc, ledgers, customers, receivables, seq),
	}
}

func (f *fixture) seedStock(t *testing.T, name string, qty int64) {
	t.Helper()
	_, err := f.stock.AddLot(context.Background(), stock.Lot{
		Name:     name,
		Quantity: qty,
		Price:    types.MustMoney("10"),
		Date:     "2026-01-01",
	})
	require.NoError(t, err)
}

func cashBill(customer string) Bill {
	return Bill{
		Customer:    customer,
		PaymentMode: ModeCash,
		Amount:      types.MustMoney("100"),
		Items: []LineItem{{
			Name:     "fabric",
			Quantity: 4,
			Price:    types.MustMoney("25"),
			Total:    types.MustMoney("100"),
		}},
	}
}

func TestCreateCashBill(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedStock(t, "fabric", 10)

	created, err := f.svc.Create(ctx, cashBill("Acme Traders"))
	require.NoError(t, err)
	assert.Equal(t, "BILL-00001", created.ID)

	// Stock consumed.
	onHand, err := f.stock.OnHand(ctx, "fabric", "")
	require.NoError(t, err)
	assert.Equal(t, int64(6), onHand)

	// Cash ledger gained the amount under the bill's reference.
	entry, found, err := f.ledgers.FindByReference(ctx, ledger.Cash, created.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, entry.In.Equal(types.MustMoney("100")))
}

func TestCreateCreditBillRaisesReceivable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedStock(t, "fabric", 10)

	cust, err := f.customers.Create(ctx, "Acme Traders")
	require.NoError(t, err)

	b := cashBill(cust.Name)
	b.PaymentMode = ModeCredit
	b.CustomerID = cust.ID
	b.DueDate = "2026-12-31"

	created, err := f.svc.Create(ctx, b)
	require.NoError(t, err)

	// No ledger movement for credit sales.
	balance, err := f.ledgers.Balance(ctx, ledger.Cash)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())

	// Customer debited.
	got, err := f.customers.GetByID(ctx, cust.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance().Equal(types.MustMoney("100")))

	// Current receivable tied to the bill.
	insts, err := f.receivables.FindByDocument(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, insts, 1)
	assert.Equal(t, instrument.StatusCurrent, insts[0].Status)
	assert.Equal(t, "2026-12-31", insts[0].DueDate)
}

func TestCreateValidatesAmountAgainstItems(t *testing.T) {
	f := newFixture(t)

	b := cashBill("Acme Traders")
	b.Amount = types.MustMoney("999")

	_, err := f.svc.Create(context.Background(), b)
	require.Error(t, err)
}

func TestCreateCreditRequiresCustomerID(t *testing.T) {
	f := newFixture(t)

	b := cashBill("Acme Traders")
	b.PaymentMode = ModeCredit

	_, err := f.svc.Create(context.Background(), b)
	require.Error(t, err)
}

func TestDeleteCashBillNetsToZero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedStock(t, "fabric", 10)

	created, err := f.svc.Create(ctx, cashBill("Acme Traders"))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, created.ID))

	// Document gone.
	_, err = f.svc.GetByID(ctx, created.ID)
	require.Error(t, err)

	// Stock restored.
	onHand, err := f.stock.OnHand(ctx, "fabric", "")
	require.NoError(t, err)
	assert.Equal(t, int64(10), onHand)

	// Ledger effect undone.
	balance, err := f.ledgers.Balance(ctx, ledger.Cash)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestDeleteCreditBillReversesReceivable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedStock(t, "fabric", 10)

	cust, err := f.customers.Create(ctx, "Acme Traders")
	require.NoError(t, err)

	b := cashBill(cust.Name)
	b.PaymentMode = ModeCredit
	b.CustomerID = cust.ID

	created, err := f.svc.Create(ctx, b)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, created.ID))

	// Customer balance back to zero via a compensating credit.
	got, err := f.customers.GetByID(ctx, cust.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance().IsZero())
	assert.Len(t, got.Transactions, 2)

	// Receivable kept for audit, flipped to reversed.
	insts, err := f.receivables.FindByDocument(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, insts, 1)
	assert.Equal(t, instrument.StatusReversed, insts[0].Status)
}

func TestDeleteKeepsPaidReceivable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedStock(t, "fabric", 10)

	cust, err := f.customers.Create(ctx, "Acme Traders")
	require.NoError(t, err)

	b := cashBill(cust.Name)
	b.PaymentMode = ModeCredit
	b.CustomerID = cust.ID

	created, err := f.svc.Create(ctx, b)
	require.NoError(t, err)

	insts, err := f.receivables.FindByDocument(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, insts, 1)
	_, err = f.receivables.RecordPayment(ctx, insts[0].ID, instrument.PaymentDetails{Method: "Cash"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, created.ID))

	// A settled receivable is not touched by the bill deletion.
	insts, err = f.receivables.FindByDocument(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, insts, 1)
	assert.Equal(t, instrument.StatusPaid, insts[0].Status)
}

func TestSequentialNumbersSkipDeleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedStock(t, "fabric", 20)

	first, err := f.svc.Create(ctx, cashBill("Acme Traders"))
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(ctx, first.ID))

	// The number of a deleted bill is never reissued.
	second, err := f.svc.Create(ctx, cashBill("Acme Traders"))
	require.NoError(t, err)
	assert.Equal(t, "BILL-00002", second.ID)
}
