package payment

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

// NumberPrefix is the sequence prefix for payment numbers.
const NumberPrefix = "PAY"

// Service composes the payment lifecycle.
type Service struct {
	store    store.Store
	ledgers  *ledger.Service
	vendors  *party.Service
	payables *instrument.Service
	seq      *sequence.Generator
}

// NewService creates a payment service.
func NewService(
	st store.Store,
	ledgers *ledger.Service,
	vendors *party.Service,
	payables *instrument.Service,
	seq *sequence.Generator,
) *Service {
	return &Service{
		store:    st,
		ledgers:  ledgers,
		vendors:  vendors,
		payables: payables,
		seq:      seq,
	}
}

// Create persists the payment and posts the ledger outflow. When the payment
// is tied to a vendor it also debits the vendor account and records a
// payable marked paid on arrival, so the trade history shows the settlement.
func (s *Service) Create(ctx context.Context, p Payment) (Payment, error) {
	if err := p.Validate(ctx); err != nil {
		return Payment{}, err
	}

	if p.ID == "" {
		number, err := s.seq.Next(ctx, NumberPrefix)
		if err != nil {
			return Payment{}, fmt.Errorf("generate payment number: %w", err)
		}
		p.ID = number
	}
	if p.Date == "" {
		p.Date = time.Now().Format("2006-01-02")
	}
	p.CreatedAt = time.Now()

	if _, err := s.store.Insert(ctx, Collection, encodePayment(p)); err != nil {
		return Payment{}, apperror.NewStoreUnavailable(Collection, err)
	}

	description := p.Title
	if description == "" {
		description = fmt.Sprintf("Payment to %s", p.Vendor)
	}
	entry := ledger.Entry{
		Date:        p.Date,
		Description: description,
		Reference:   p.ID,
		Out:         p.Amount,
	}
	if _, err := s.ledgers.Post(ctx, ledgerKind(p.Type), entry); err != nil {
		return Payment{}, fmt.Errorf("post payment ledger entry: %w", err)
	}

	if p.VendorID != "" {
		tx := party.Transaction{
			Date:        p.Date,
			Description: fmt.Sprintf("Payment %s", p.ID),
			Type:        "payment",
			Debit:       p.Amount,
		}
		if _, err := s.vendors.PostTransaction(ctx, p.VendorID, tx); err != nil {
			return Payment{}, fmt.Errorf("post vendor transaction: %w", err)
		}

		inst := instrument.Instrument{
			Date:       p.Date,
			PartyID:    p.VendorID,
			PartyName:  p.Vendor,
			DocumentID: p.ID,
			Amount:     p.Amount,
		}
		details := instrument.PaymentDetails{
			Date:         p.Date,
			Method:       p.Type,
			Reference:    p.ID,
			ChequeNumber: p.ChequeNumber,
		}
		if _, err := s.payables.CreatePaid(ctx, inst, details); err != nil {
			return Payment{}, fmt.Errorf("record paid payable: %w", err)
		}
	}

	logger.Info(ctx, "payment created",
		"id", p.ID,
		"amount", p.Amount.String(),
		"type", p.Type,
	)
	return p, nil
}

// GetByID loads a payment.
func (s *Service) GetByID(ctx context.Context, paymentID string) (Payment, error) {
	rec, err := s.store.GetOne(ctx, Collection, store.Query{"id": paymentID})
	if err != nil {
		return Payment{}, apperror.NewStoreUnavailable(Collection, err)
	}
	if rec == nil {
		return Payment{}, apperror.NewNotFound("payment", paymentID)
	}
	return decodePayment(rec), nil
}

// List returns all payments. A failed read degrades to empty.
func (s *Service) List(ctx context.Context) ([]Payment, error) {
	recs, err := s.store.Get(ctx, Collection)
	if err != nil {
		logger.Warn(ctx, "payment list read failed, treating as empty", "error", err)
		return nil, nil
	}
	payments := make([]Payment, 0, len(recs))
	for _, rec := range recs {
		payments = append(payments, decodePayment(rec))
	}
	return payments, nil
}

// Delete reverses the payment best-effort: ledger first, then the vendor
// counter-entry and any instrument raised by this payment, then the record.
func (s *Service) Delete(ctx context.Context, paymentID string) error {
	p, err := s.GetByID(ctx, paymentID)
	if err != nil {
		return err
	}

	steps := []saga.Step{
		{
			Name: "reverse_ledger",
			Run: func(ctx context.Context) error {
				return s.ledgers.Reverse(ctx, ledgerKind(p.Type), p.ID)
			},
		},
		{
			Name: "reverse_party",
			Run: func(ctx context.Context) error {
				if p.VendorID == "" {
					return nil
				}
				tx := party.Transaction{
					Date:        time.Now().Format("2006-01-02"),
					Description: fmt.Sprintf("Reversal of payment %s", p.ID),
					Type:        "payment-reversal",
					Credit:      p.Amount,
				}
				_, err := s.vendors.PostTransaction(ctx, p.VendorID, tx)
				return err
			},
		},
		{
			Name: "remove_instruments",
			Run: func(ctx context.Context) error {
				if p.VendorID == "" {
					return nil
				}
				insts, err := s.payables.FindByDocument(ctx, p.ID)
				if err != nil {
					return err
				}
				for _, inst := range insts {
					if err := s.payables.Remove(ctx, inst.ID); err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			Name: "remove_document",
			Run: func(ctx context.Context) error {
				return s.store.Remove(ctx, Collection, store.Query{"id": p.ID})
			},
		},
	}

	_, err = saga.Run(ctx, "delete payment "+p.ID, steps)
	if err == nil {
		logger.Info(ctx, "payment deleted", "id", p.ID)
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
