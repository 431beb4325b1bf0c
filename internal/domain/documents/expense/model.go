// Package expense provides expense records. Expenses are the only editable
// cash-flow document: an edit that changes the amount or payment mode posts
// a full reversal of the original ledger entry and then a fresh entry for
// the new values, never an in-place correction, so the ledger log stays
// append-only and auditable.
package expense

import (
	"context"
	"time"

	"shopbooks/internal/core/apperror"
	"shopbooks/internal/core/types"
	"shopbooks/internal/store"
)

// Collection is the backing collection name.
const Collection = "expenses"

// Payment modes.
const (
	ModeCash = "Cash"
	ModeBank = "Bank"
)

// Expense is an expense record.
type Expense struct {
	ID          string
	Date        string
	Title       string
	Category    string
	Amount      types.Money
	PaymentMode string
	Reference   string
	CreatedAt   time.Time

	// LedgerRef is the reference of the expense's live ledger entry. The
	// first entry uses the expense id; each edit that reposts the entry
	// bumps the revision suffix so references stay unique in the log.
	LedgerRef string
	Revision  int
}

// Validate checks the expense before any write happens.
func (e *Expense) Validate(ctx context.Context) error {
	if e.Title == "" {
		return apperror.NewValidation("expense title is required").
			WithDetail("field", "title")
	}
	if e.Amount.Sign() <= 0 {
		return apperror.NewValidation("amount must be positive").
			WithDetail("field", "amount")
	}
	switch e.PaymentMode {
	case ModeCash, ModeBank:
	default:
		return apperror.NewValidation("payment mode must be Cash or Bank").
			WithDetail("field", "paymentMode")
	}
	return nil
}

func encodeExpense(e Expense) store.Record {
	rec := store.Record{
		"id":          e.ID,
		"date":        e.Date,
		"title":       e.Title,
		"amount":      e.Amount.String(),
		"paymentMode": e.PaymentMode,
		"ledgerRef":   e.LedgerRef,
		"revision":    e.Revision,
		"createdAt":   e.CreatedAt.UTC().Format(time.RFC3339),
	}
	if e.Category != "" {
		rec["category"] = e.Category
	}
	if e.Reference != "" {
		rec["reference"] = e.Reference
	}
	return rec
}

func decodeExpense(rec store.Record) Expense {
	createdAt, _ := time.Parse(time.RFC3339, store.StringField(rec, "createdAt"))
	revision, _ := types.ToInt64(rec["revision"])
	e := Expense{
		ID:          store.StringField(rec, "id"),
		Date:        store.StringField(rec, "date"),
		Title:       store.StringField(rec, "title"),
		Category:    store.StringField(rec, "category"),
		Amount:      types.MoneyOrZero(rec["amount"]),
		PaymentMode: store.StringField(rec, "paymentMode"),
		Reference:   store.StringField(rec, "reference"),
		LedgerRef:   store.StringField(rec, "ledgerRef"),
		Revision:    int(revision),
		CreatedAt:   createdAt,
	}
	if e.LedgerRef == "" {
		e.LedgerRef = e.ID
	}
	if e.Revision == 0 {
		e.Revision = 1
	}
	return e
}
