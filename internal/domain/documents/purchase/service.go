package purchase

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

// NumberPrefix is the sequence prefix for purchase numbers.
const NumberPrefix = "PUR"

// Service composes the purchasing lifecycle.
type Service struct {
	store    store.Store
	stock    *stock.Service
	ledgers  *ledger.Service
	vendors  *party.Service
	payables *instrument.Service
	seq      *sequence.Generator
}

// NewService creates a purchasing service.
func NewService(
	st store.Store,
	stockSvc *stock.Service,
	ledgers *ledger.Service,
	vendors *party.Service,
	payables *instrument.Service,
	seq *sequence.Generator,
) *Service {
	return &Service{
		store:    st,
		stock:    stockSvc,
		ledgers:  ledgers,
		vendors:  vendors,
		payables: payables,
		seq:      seq,
	}
}

// Create validates and persists a purchase, adds one stock lot per line, and
// posts exactly one financial leg: a cash ledger outflow, or — for credit
// purchases — a vendor credit plus a current payable.
func (s *Service) Create(ctx context.Context, p Purchase) (Purchase, error) {
	if err := p.Validate(ctx); err != nil {
		return Purchase{}, err
	}

	if p.ID == "" {
		number, err := s.seq.Next(ctx, NumberPrefix)
		if err != nil {
			return Purchase{}, fmt.Errorf("generate purchase number: %w", err)
		}
		p.ID = number
	}
	if p.Date == "" {
		p.Date = time.Now().Format("2006-01-02")
	}
	p.CreatedAt = time.Now()

	if _, err := s.store.Insert(ctx, Collection, encodePurchase(p)); err != nil {
		return Purchase{}, apperror.NewStoreUnavailable(Collection, err)
	}

	for _, item := range p.Items {
		_, err := s.stock.AddLot(ctx, stock.Lot{
			Name:     item.Name,
			Color:    item.Color,
			Quantity: item.Quantity,
			Price:    item.Price,
			Date:     p.Date,
		})
		if err != nil {
			return Purchase{}, fmt.Errorf("add stock lot for %s: %w", item.Name, err)
		}
	}

	switch p.PurchaseType {
	case TypeCash:
		entry := ledger.Entry{
			Date:        p.Date,
			Description: fmt.Sprintf("Purchase %s from %s", p.ID, p.Vendor),
			Reference:   p.ID,
			Out:         p.Amount,
		}
		if _, err := s.ledgers.Post(ctx, ledger.Cash, entry); err != nil {
			return Purchase{}, fmt.Errorf("post purchase ledger entry: %w", err)
		}

	case TypeCredit:
		tx := party.Transaction{
			Date:        p.Date,
			Description: fmt.Sprintf("Purchase %s", p.ID),
			Type:        "purchase",
			Credit:      p.Amount,
		}
		if _, err := s.vendors.PostTransaction(ctx, p.VendorID, tx); err != nil {
			return Purchase{}, fmt.Errorf("post vendor transaction: %w", err)
		}

		inst := instrument.Instrument{
			Date:       p.Date,
			PartyID:    p.VendorID,
			PartyName:  p.Vendor,
			DocumentID: p.ID,
			DueDate:    p.DueDate,
			Amount:     p.Amount,
		}
		if _, err := s.payables.Create(ctx, inst); err != nil {
			return Purchase{}, fmt.Errorf("create payable: %w", err)
		}
	}

	logger.Info(ctx, "purchase created",
		"id", p.ID,
		"vendor", p.Vendor,
		"amount", p.Amount.String(),
		"type", p.PurchaseType,
	)
	return p, nil
}

// GetByID loads a purchase.
func (s *Service) GetByID(ctx context.Context, purchaseID string) (Purchase, error) {
	rec, err := s.store.GetOne(ctx, Collection, store.Query{"id": purchaseID})
	if err != nil {
		return Purchase{}, apperror.NewStoreUnavailable(Collection, err)
	}
	if rec == nil {
		return Purchase{}, apperror.NewNotFound("purchase", purchaseID)
	}
	return decodePurchase(rec), nil
}

// List returns all purchases. A failed read degrades to empty.
func (s *Service) List(ctx context.Context) ([]Purchase, error) {
	recs, err := s.store.Get(ctx, Collection)
	if err != nil {
		logger.Warn(ctx, "purchase list read failed, treating as empty", "error", err)
		return nil, nil
	}
	purchases := make([]Purchase, 0, len(recs))
	for _, rec := range recs {
		purchases = append(purchases, decodePurchase(rec))
	}
	return purchases, nil
}

// Delete reverses the purchase best-effort: consumes the added stock back
// out FIFO, reverses the financial leg, then removes the document.
func (s *Service) Delete(ctx context.Context, purchaseID string) error {
	p, err := s.GetByID(ctx, purchaseID)
	if err != nil {
		return err
	}

	steps := []saga.Step{
		{
			Name: "reverse_stock",
			Run: func(ctx context.Context) error {
				for _, item := range p.Items {
					if _, err := s.stock.Consume(ctx, item.Name, item.Color, item.Quantity); err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			Name: "reverse_financials",
			Run: func(ctx context.Context) error {
				return s.reverseFinancials(ctx, p)
			},
		},
		{
			Name: "remove_document",
			Run: func(ctx context.Context) error {
				return s.store.Remove(ctx, Collection, store.Query{"id": p.ID})
			},
		},
	}

	_, err = saga.Run(ctx, "delete purchase "+p.ID, steps)
	if err == nil {
		logger.Info(ctx, "purchase deleted", "id", p.ID)
	}
	return err
}

func (s *Service) reverseFinancials(ctx context.Context, p Purchase) error {
	switch p.PurchaseType {
	case TypeCash:
		return s.ledgers.Reverse(ctx, ledger.Cash, p.ID)

	case TypeCredit:
		tx := party.Transaction{
			Date:        time.Now().Format("2006-01-02"),
			Description: fmt.Sprintf("Reversal of purchase %s", p.ID),
			Type:        "purchase-reversal",
			Debit:       p.Amount,
		}
		if _, err := s.vendors.PostTransaction(ctx, p.VendorID, tx); err != nil {
			return fmt.Errorf("reverse vendor transaction: %w", err)
		}

		insts, err := s.payables.FindByDocument(ctx, p.ID)
		if err != nil {
			return err
		}
		for _, inst := range insts {
			if inst.Status != instrument.StatusCurrent {
				continue
			}
			if _, err := s.payables.Reverse(ctx, inst.ID); err != nil {
				return fmt.Errorf("reverse payable %s: %w", inst.ID, err)
			}
		}
		return nil
	}
	return nil
}
