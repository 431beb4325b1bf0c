package expense

import (
	"context"
	"fmt"
	"time"

	"shopbooks/internal/core/apperror"
	"shopbooks/internal/core/saga"
	"shopbooks/internal/core/sequence"
	"shopbooks/internal/domain/ledger"
	"shopbooks/internal/store"
	"shopbooks/pkg/logger"
)

// NumberPrefix is the sequence prefix for expense numbers.
const NumberPrefix = "EXP"

// Service composes the expense lifecycle.
type Service struct {
	store   store.Store
	ledgers *ledger.Service
	seq     *sequence.Generator
}

// NewService creates an expense service.
func NewService(st store.Store, ledgers *ledger.Service, seq *sequence.Generator) *Service {
	return &Service{store: st, ledgers: ledgers, seq: seq}
}

// Create persists the expense and posts the ledger outflow.
func (s *Service) Create(ctx context.Context, e Expense) (Expense, error) {
	if err := e.Validate(ctx); err != nil {
		return Expense{}, err
	}

	if e.ID == "" {
		number, err := s.seq.Next(ctx, NumberPrefix)
		if err != nil {
			return Expense{}, fmt.Errorf("generate expense number: %w", err)
		}
		e.ID = number
	}
	if e.Date == "" {
		e.Date = time.Now().Format("2006-01-02")
	}
	e.CreatedAt = time.Now()
	e.Revision = 1
	e.LedgerRef = e.ID

	if _, err := s.store.Insert(ctx, Collection, encodeExpense(e)); err != nil {
		return Expense{}, apperror.NewStoreUnavailable(Collection, err)
	}

	entry := ledger.Entry{
		Date:        e.Date,
		Description: e.Title,
		Reference:   e.LedgerRef,
		Out:         e.Amount,
	}
	if _, err := s.ledgers.Post(ctx, ledgerKind(e.PaymentMode), entry); err != nil {
		return Expense{}, fmt.Errorf("post expense ledger entry: %w", err)
	}

	logger.Info(ctx, "expense created",
		"id", e.ID,
		"amount", e.Amount.String(),
		"mode", e.PaymentMode,
	)
	return e, nil
}

// GetByID loads an expense.
func (s *Service) GetByID(ctx context.Context, expenseID string) (Expense, error) {
	rec, err := s.store.GetOne(ctx, Collection, store.Query{"id": expenseID})
	if err != nil {
		return Expense{}, apperror.NewStoreUnavailable(Collection, err)
	}
	if rec == nil {
		return Expense{}, apperror.NewNotFound("expense", expenseID)
	}
	return decodeExpense(rec), nil
}

// List returns all expenses. A failed read degrades to empty.
func (s *Service) List(ctx context.Context) ([]Expense, error) {
	recs, err := s.store.Get(ctx, Collection)
	if err != nil {
		logger.Warn(ctx, "expense list read failed, treating as empty", "error", err)
		return nil, nil
	}
	expenses := make([]Expense, 0, len(recs))
	for _, rec := range recs {
		expenses = append(expenses, decodeExpense(rec))
	}
	return expenses, nil
}

// Update edits an expense. When neither the amount nor the payment mode
// changed the record is patched in place. When either changed, the original
// ledger entry is fully reversed and a fresh entry posted for the new
// values under a new revisioned reference — two entries, no in-place
// correction.
func (s *Service) Update(ctx context.Context, expenseID string, updated Expense) (Expense, error) {
	existing, err := s.GetByID(ctx, expenseID)
	if err != nil {
		return Expense{}, err
	}

	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if updated.Date == "" {
		updated.Date = existing.Date
	}
	if err := updated.Validate(ctx); err != nil {
		return Expense{}, err
	}

	moneyMoved := !updated.Amount.Equal(existing.Amount) || updated.PaymentMode != existing.PaymentMode

	if !moneyMoved {
		updated.LedgerRef = existing.LedgerRef
		updated.Revision = existing.Revision
		patch := encodeExpense(updated)
		delete(patch, "id")
		delete(patch, "createdAt")
		if err := s.store.Update(ctx, Collection, store.Query{"id": existing.ID}, patch); err != nil {
			return Expense{}, apperror.NewStoreUnavailable(Collection, err)
		}
		return updated, nil
	}

	original, found, err := s.ledgers.FindByReference(ctx, ledgerKind(existing.PaymentMode), existing.LedgerRef)
	if err != nil {
		return Expense{}, err
	}
	if !found {
		return Expense{}, apperror.NewNotFound("ledger entry", existing.LedgerRef)
	}
	if err := s.ledgers.PostReversal(ctx, ledgerKind(existing.PaymentMode), original); err != nil {
		return Expense{}, err
	}

	updated.Revision = existing.Revision + 1
	updated.LedgerRef = fmt.Sprintf("%s/%d", existing.ID, updated.Revision)

	entry := ledger.Entry{
		Date:        updated.Date,
		Description: updated.Title,
		Reference:   updated.LedgerRef,
		Out:         updated.Amount,
	}
	if _, err := s.ledgers.Post(ctx, ledgerKind(updated.PaymentMode), entry); err != nil {
		return Expense{}, fmt.Errorf("post corrected expense entry: %w", err)
	}

	patch := encodeExpense(updated)
	delete(patch, "id")
	delete(patch, "createdAt")
	if err := s.store.Update(ctx, Collection, store.Query{"id": existing.ID}, patch); err != nil {
		return Expense{}, apperror.NewStoreUnavailable(Collection, err)
	}

	logger.Info(ctx, "expense corrected",
		"id", existing.ID,
		"revision", updated.Revision,
		"amount", updated.Amount.String(),
		"mode", updated.PaymentMode,
	)
	return updated, nil
}

// Delete reverses the expense's live ledger entry and removes the record.
func (s *Service) Delete(ctx context.Context, expenseID string) error {
	e, err := s.GetByID(ctx, expenseID)
	if err != nil {
		return err
	}

	steps := []saga.Step{
		{
			Name: "reverse_ledger",
			Run: func(ctx context.Context) error {
				return s.ledgers.Reverse(ctx, ledgerKind(e.PaymentMode), e.LedgerRef)
			},
		},
		{
			Name: "remove_document",
			Run: func(ctx context.Context) error {
				return s.store.Remove(ctx, Collection, store.Query{"id": e.ID})
			},
		},
	}

	_, err = saga.Run(ctx, "delete expense "+e.ID, steps)
	if err == nil {
		logger.Info(ctx, "expense deleted", "id", e.ID)
	}
	return err
}

func ledgerKind(mode string) ledger.Kind {
	if mode == ModeBank {
		return ledger.Bank
	}
	return ledger.Cash
}
