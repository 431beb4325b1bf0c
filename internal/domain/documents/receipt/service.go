package receipt

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
	"shopbooks/internal/store"
	"shopbooks/pkg/logger"
)

// NumberPrefix is the sequence prefix for receipt numbers.
const NumberPrefix = "RCPT"

// Service composes the receipt lifecycle.
type Service struct {
	store       store.Store
	ledgers     *ledger.Service
	customers   *party.Service
	receivables *instrument.Service
	seq         *sequence.Generator
}

// NewService creates a receipt service.
func NewService(
	st store.Store,
	ledgers *ledger.Service,
	customers *party.Service,
	receivables *instrument.Service,
	seq *sequence.Generator,
) *Service {
	return &Service{
		store:       st,
		ledgers:     ledgers,
		customers:   customers,
		receivables: receivables,
		seq:         seq,
	}
}

// Create persists the receipt and posts the ledger inflow. When tied to a
// customer it also credits the customer account and records a receivable
// marked paid on arrival.
func (s *Service) Create(ctx context.Context, r Receipt) (Receipt, error) {
	if err := r.Validate(ctx); err != nil {
		return Receipt{}, err
	}

	if r.ID == "" {
		number, err := s.seq.Next(ctx, NumberPrefix)
		if err != nil {
			return Receipt{}, fmt.Errorf("generate receipt number: %w", err)
		}
		r.ID = number
	}
	if r.Date == "" {
		r.Date = time.Now().Format("2006-01-02")
	}
	r.CreatedAt = time.Now()

	if _, err := s.store.Insert(ctx, Collection, encodeReceipt(r)); err != nil {
		return Receipt{}, apperror.NewStoreUnavailable(Collection, err)
	}

	description := r.Title
	if description == "" {
		description = fmt.Sprintf("Receipt from %s", r.Customer)
	}
	entry := ledger.Entry{
		Date:        r.Date,
		Description: description,
		Reference:   r.ID,
		In:          r.Amount,
	}
	if _, err := s.ledgers.Post(ctx, ledgerKind(r.ReceiptType), entry); err != nil {
		return Receipt{}, fmt.Errorf("post receipt ledger entry: %w", err)
	}

	if r.CustomerID != "" {
		tx := party.Transaction{
			Date:        r.Date,
			Description: fmt.Sprintf("Receipt %s", r.ID),
			Type:        "receipt",
			Credit:      r.Amount,
		}
		if _, err := s.customers.PostTransaction(ctx, r.CustomerID, tx); err != nil {
			return Receipt{}, fmt.Errorf("post customer transaction: %w", err)
		}

		inst := instrument.Instrument{
			Date:       r.Date,
			PartyID:    r.CustomerID,
			PartyName:  r.Customer,
			DocumentID: r.ID,
			Amount:     r.Amount,
		}
		details := instrument.PaymentDetails{
			Date:         r.Date,
			Method:       r.ReceiptType,
			Reference:    r.ID,
			ChequeNumber: r.ChequeNumber,
		}
		if _, err := s.receivables.CreatePaid(ctx, inst, details); err != nil {
			return Receipt{}, fmt.Errorf("record paid receivable: %w", err)
		}
	}

	logger.Info(ctx, "receipt created",
		"id", r.ID,
		"amount", r.Amount.String(),
		"type", r.ReceiptType,
	)
	return r, nil
}

// GetByID loads a receipt.
func (s *Service) GetByID(ctx context.Context, receiptID string) (Receipt, error) {
	rec, err := s.store.GetOne(ctx, Collection, store.Query{"id": receiptID})
	if err != nil {
		return Receipt{}, apperror.NewStoreUnavailable(Collection, err)
	}
	if rec == nil {
		return Receipt{}, apperror.NewNotFound("receipt", receiptID)
	}
	return decodeReceipt(rec), nil
}

// List returns all receipts. A failed read degrades to empty.
func (s *Service) List(ctx context.Context) ([]Receipt, error) {
	recs, err := s.store.Get(ctx, Collection)
	if err != nil {
		logger.Warn(ctx, "receipt list read failed, treating as empty", "error", err)
		return nil, nil
	}
	receipts := make([]Receipt, 0, len(recs))
	for _, rec := range recs {
		receipts = append(receipts, decodeReceipt(rec))
	}
	return receipts, nil
}

// Delete reverses the receipt best-effort, then removes the record.
func (s *Service) Delete(ctx context.Context, receiptID string) error {
	r, err := s.GetByID(ctx, receiptID)
	if err != nil {
		return err
	}

	steps := []saga.Step{
		{
			Name: "reverse_ledger",
			Run: func(ctx context.Context) error {
				return s.ledgers.Reverse(ctx, ledgerKind(r.ReceiptType), r.ID)
			},
		},
		{
			Name: "reverse_party",
			Run: func(ctx context.Context) error {
				if r.CustomerID == "" {
					return nil
				}
				tx := party.Transaction{
					Date:        time.Now().Format("2006-01-02"),
					Description: fmt.Sprintf("Reversal of receipt %s", r.ID),
					Type:        "receipt-reversal",
					Debit:       r.Amount,
				}
				_, err := s.customers.PostTransaction(ctx, r.CustomerID, tx)
				return err
			},
		},
		{
			Name: "remove_instruments",
			Run: func(ctx context.Context) error {
				if r.CustomerID == "" {
					return nil
				}
				insts, err := s.receivables.FindByDocument(ctx, r.ID)
				if err != nil {
					return err
				}
				for _, inst := range insts {
					if err := s.receivables.Remove(ctx, inst.ID); err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			Name: "remove_document",
			Run: func(ctx context.Context) error {
				return s.store.Remove(ctx, Collection, store.Query{"id": r.ID})
			},
		},
	}

	_, err = saga.Run(ctx, "delete receipt "+r.ID, steps)
	if err == nil {
		logger.Info(ctx, "receipt deleted", "id", r.ID)
	}
	return err
}

func ledgerKind(method string) ledger.Kind {
	switch method {
	case MethodBank, MethodCheque:
		return ledger.Bank
	default:
		return ledger.Cash
	}
}
