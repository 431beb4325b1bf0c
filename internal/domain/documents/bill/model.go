// Package bill provides the billing lifecycle: creating a sales bill with
// its stock, ledger, party, and receivable side effects, and deleting it by
// reversing them.
package bill

import (
	"context"
	"time"

	"shopbooks/internal/core/apperror"
	"shopbooks/internal/core/types"
	"shopbooks/internal/store"
)

// Collection is the backing collection name.
const Collection = "bills"

// Payment modes.
const (
	ModeCash   = "Cash"
	ModeBank   = "Bank"
	ModeCredit = "Credit"
)

// LineItem is one sold line.
type LineItem struct {
	Name     string
	Color    string
	Quantity int64
	Price    types.Money
	Total    types.Money
}

// Bill is a sales bill. Immutable once created; corrections go through
// delete and recreate.
type Bill struct {
	ID          string
	Date        string
	Customer    string
	CustomerID  string
	Items       []LineItem
	Amount      types.Money
	PaymentMode string
	DueDate     string
	CreatedAt   time.Time
}

// Validate checks the bill before any write happens.
func (b *Bill) Validate(ctx context.Context) error {
	if len(b.Items) == 0 {
		return apperror.NewValidation("at least one line item is required").
			WithDetail("field", "items")
	}
	if b.Customer == "" {
		return apperror.NewValidation("customer is required").
			WithDetail("field", "customer")
	}
	if b.Amount.Sign() <= 0 {
		return apperror.NewValidation("amount must be positive").
			WithDetail("field", "amount")
	}

	sum := types.Zero()
	for i, item := range b.Items {
		if item.Name == "" {
			return apperror.NewValidation("item name is required").
				WithDetail("field", "items").
				WithDetail("line", i+1)
		}
		if item.Quantity <= 0 {
			return apperror.NewValidation("item quantity must be positive").
				WithDetail("field", "items").
				WithDetail("line", i+1)
		}
		sum = sum.Add(item.Total)
	}
	if !sum.Equal(b.Amount) {
		return apperror.NewValidation("amount must equal the sum of item totals").
			WithDetail("field", "amount").
			WithDetail("expected", sum.String())
	}

	switch b.PaymentMode {
	case ModeCash, ModeBank:
	case ModeCredit:
		if b.CustomerID == "" {
			return apperror.NewValidation("credit bills require a selected customer").
				WithDetail("field", "customerId")
		}
	default:
		return apperror.NewValidation("payment mode must be Cash, Bank, or Credit").
			WithDetail("field", "paymentMode")
	}
	return nil
}

func encodeItem(i LineItem) store.Record {
	return store.Record{
		"name":     i.Name,
		"color":    i.Color,
		"quantity": i.Quantity,
		"price":    i.Price.String(),
		"total":    i.Total.String(),
	}
}

func decodeItem(rec store.Record) LineItem {
	qty, _ := types.ToInt64(rec["quantity"])
	return LineItem{
		Name:     store.StringField(rec, "name"),
		Color:    store.StringField(rec, "color"),
		Quantity: qty,
		Price:    types.MoneyOrZero(rec["price"]),
		Total:    types.MoneyOrZero(rec["total"]),
	}
}

func encodeBill(b Bill) store.Record {
	items := make([]any, 0, len(b.Items))
	for _, item := range b.Items {
		items = append(items, encodeItem(item))
	}
	rec := store.Record{
		"id":          b.ID,
		"date":        b.Date,
		"customer":    b.Customer,
		"items":       items,
		"amount":      b.Amount.String(),
		"paymentMode": b.PaymentMode,
		"createdAt":   b.CreatedAt.UTC().Format(time.RFC3339),
	}
	if b.CustomerID != "" {
		rec["customerId"] = b.CustomerID
	}
	if b.DueDate != "" {
		rec["dueDate"] = b.DueDate
	}
	return rec
}

func decodeBill(rec store.Record) Bill {
	createdAt, _ := time.Parse(time.RFC3339, store.StringField(rec, "createdAt"))
	b := Bill{
		ID:          store.StringField(rec, "id"),
		Date:        store.StringField(rec, "date"),
		Customer:    store.StringField(rec, "customer"),
		CustomerID:  store.StringField(rec, "customerId"),
		Amount:      types.MoneyOrZero(rec["amount"]),
		PaymentMode: store.StringField(rec, "paymentMode"),
		DueDate:     store.StringField(rec, "dueDate"),
		CreatedAt:   createdAt,
	}
	if raw, ok := rec["items"].([]any); ok {
		for _, item := range raw {
			if itemRec, ok := item.(map[string]any); ok {
				b.Items = append(b.Items, decodeItem(itemRec))
			}
		}
	}
	return b
}
