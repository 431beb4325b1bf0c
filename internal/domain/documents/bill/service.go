package bill

import (
	"context"
	"fmt"
	"time"

	"shopbooks/internal/core/apperror"
	"shopbooks/internal/core/saga"
	"shopbooks/internal/core/sequence"
	"shopbooks/internal/domain/instrument"
	"shopbooks/internal/domain/ledger"
	"shopbooks/internal/domain/party"
	"shopbooks/internal/domain/stock"
	"shopbooks/internal/store"
	"shopbooks/pkg/logger"
)

// NumberPrefix is the sequence prefix for bill numbers.
const NumberPrefix = "BILL"

// Service composes the billing lifecycle out of the stock, ledger, party,
// and receivable engines.
type Service struct {
	store       store.Store
	stock       *stock.Service
	ledgers     *ledger.Service
	customers   *party.Service
	receivables *instrument.Service
	seq         *sequence.Generator
}

// NewService creates a billing service.
func NewService(
	st store.Store,
	stockSvc *stock.Service,
	ledgers *ledger.Service,
	customers *party.Service,
	receivables *instrument.Service,
	seq *sequence.Generator,
) *Service {
	return &Service{
		store:       st,
		stock:       stockSvc,
		ledgers:     ledgers,
		customers:   customers,
		receivables: receivables,
		seq:         seq,
	}
}

// Create validates and persists a bill, consumes stock FIFO per line, and
// posts exactly one financial leg: a cash or bank ledger entry, or — for
// credit bills — a customer debit plus a current receivable. The created
// bill is returned for immediate preview.
func (s *Service) Create(ctx context.Context, b Bill) (Bill, error) {
	if err := b.Validate(ctx); err != nil {
		return Bill{}, err
	}

	if b.ID == "" {
		number, err := s.seq.Next(ctx, NumberPrefix)
		if err != nil {
			return Bill{}, fmt.Errorf("generate bill number: %w", err)
		}
		b.ID = number
	}
	if b.Date == "" {
		b.Date = time.Now().Format("2006-01-02")
	}
	b.CreatedAt = time.Now()

	if _, err := s.store.Insert(ctx, Collection, encodeBill(b)); err != nil {
		return Bill{}, apperror.NewStoreUnavailable(Collection, err)
	}

	for _, item := range b.Items {
		if _, err := s.stock.Consume(ctx, item.Name, item.Color, item.Quantity); err != nil {
			return Bill{}, fmt.Errorf("consume stock for %s: %w", item.Name, err)
		}
	}

	switch b.PaymentMode {
	case ModeCash, ModeBank:
		entry := ledger.Entry{
			Date:        b.Date,
			Description: fmt.Sprintf("Bill %s to %s", b.ID, b.Customer),
			Reference:   b.ID,
			In:          b.Amount,
		}
		if _, err := s.ledgers.Post(ctx, ledgerKind(b.PaymentMode), entry); err != nil {
			return Bill{}, fmt.Errorf("post bill ledger entry: %w", err)
		}

	case ModeCredit:
		tx := party.Transaction{
			Date:        b.Date,
			Description: fmt.Sprintf("Bill %s", b.ID),
			Type:        "bill",
			Debit:       b.Amount,
		}
		if _, err := s.customers.PostTransaction(ctx, b.CustomerID, tx); err != nil {
			return Bill{}, fmt.Errorf("post customer transaction: %w", err)
		}

		inst := instrument.Instrument{
			Date:       b.Date,
			PartyID:    b.CustomerID,
			PartyName:  b.Customer,
			DocumentID: b.ID,
			DueDate:    b.DueDate,
			Amount:     b.Amount,
		}
		if _, err := s.receivables.Create(ctx, inst); err != nil {
			return Bill{}, fmt.Errorf("create receivable: %w", err)
		}
	}

	logger.Info(ctx, "bill created",
		"id", b.ID,
		"customer", b.Customer,
		"amount", b.Amount.String(),
		"mode", b.PaymentMode,
	)
	return b, nil
}

// GetByID loads a bill.
func (s *Service) GetByID(ctx context.Context, billID string) (Bill, error) {
	rec, err := s.store.GetOne(ctx, Collection, store.Query{"id": billID})
	if err != nil {
		return Bill{}, apperror.NewStoreUnavailable(Collection, err)
	}
	if rec == nil {
		return Bill{}, apperror.NewNotFound("bill", billID)
	}
	return decodeBill(rec), nil
}

// List returns all bills. A failed read degrades to empty.
func (s *Service) List(ctx context.Context) ([]Bill, error) {
	recs, err := s.store.Get(ctx, Collection)
	if err != nil {
		logger.Warn(ctx, "bill list read failed, treating as empty", "error", err)
		return nil, nil
	}
	bills := make([]Bill, 0, len(recs))
	for _, rec := range recs {
		bills = append(bills, decodeBill(rec))
	}
	return bills, nil
}

// Delete reverses the bill's side effects best-effort, then removes the
// document. A failed step does not stop the remaining steps; the aggregated
// error reports which steps failed and already-applied reversals stay.
func (s *Service) Delete(ctx context.Context, billID string) error {
	b, err := s.GetByID(ctx, billID)
	if err != nil {
		return err
	}

	steps := []saga.Step{
		{
			Name: "restore_stock",
			Run: func(ctx context.Context) error {
				for _, item := range b.Items {
					_, err := s.stock.AddLot(ctx, stock.Lot{
						Name:     item.Name,
						Color:    item.Color,
						Quantity: item.Quantity,
						Price:    item.Price,
						Date:     b.Date,
						Note:     "restored",
					})
					if err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			Name: "reverse_financials",
			Run: func(ctx context.Context) error {
				return s.reverseFinancials(ctx, b)
			},
		},
		{
			Name: "remove_document",
			Run: func(ctx context.Context) error {
				return s.store.Remove(ctx, Collection, store.Query{"id": b.ID})
			},
		},
	}

	_, err = saga.Run(ctx, "delete bill "+b.ID, steps)
	if err == nil {
		logger.Info(ctx, "bill deleted", "id", b.ID)
	}
	return err
}

func (s *Service) reverseFinancials(ctx context.Context, b Bill) error {
	switch b.PaymentMode {
	case ModeCash, ModeBank:
		return s.ledgers.Reverse(ctx, ledgerKind(b.PaymentMode), b.ID)

	case ModeCredit:
		tx := party.Transaction{
			Date:        time.Now().Format("2006-01-02"),
			Description: fmt.Sprintf("Reversal of bill %s", b.ID),
			Type:        "bill-reversal",
			Credit:      b.Amount,
		}
		if _, err := s.customers.PostTransaction(ctx, b.CustomerID, tx); err != nil {
			return fmt.Errorf("reverse customer transaction: %w", err)
		}

		insts, err := s.receivables.FindByDocument(ctx, b.ID)
		if err != nil {
			return err
		}
		for _, inst := range insts {
			if inst.Status != instrument.StatusCurrent {
				continue
			}
			if _, err := s.receivables.Reverse(ctx, inst.ID); err != nil {
				return fmt.Errorf("reverse receivable %s: %w", inst.ID, err)
			}
		}
		return nil
	}
	return nil
}

func ledgerKind(mode string) ledger.Kind {
	if mode == ModeBank {
		return ledger.Bank
	}
	return ledger.Cash
}
