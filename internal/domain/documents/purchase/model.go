// Package purchase provides the purchasing lifecycle: the inverse of
// billing. A purchase adds stock lots and either pays out of a ledger or
// raises a payable against the vendor.
package purchase

import (
	"context"
	"time"

	"shopbooks/internal/core/apperror"
	"shopbooks/internal/core/types"
	"shopbooks/internal/store"
)

// Collection is the backing collection name.
const Collection = "purchases"

// Purchase types.
const (
	TypeCash   = "cash"
	TypeCredit = "credit"
)

// LineItem is one purchased line.
type LineItem struct {
	Name     string
	Color    string
	Quantity int64
	Price    types.Money
	Total    types.Money
}

// Purchase is a purchase document.
type Purchase struct {
	ID           string
	Date         string
	Vendor       string
	VendorID     string
	Items        []LineItem
	Amount       types.Money
	PurchaseType string
	DueDate      string
	Reference    string
	Notes        string
	CreatedAt    time.Time
}

// Validate checks the purchase before any write happens.
func (p *Purchase) Validate(ctx context.Context) error {
	if len(p.Items) == 0 {
		return apperror.NewValidation("at least one line item is required").
			WithDetail("field", "items")
	}
	if p.Vendor == "" {
		return apperror.NewValidation("vendor is required").
			WithDetail("field", "vendor")
	}
	if p.Amount.Sign() <= 0 {
		return apperror.NewValidation("amount must be positive").
			WithDetail("field", "amount")
	}

	sum := types.Zero()
	for i, item := range p.Items {
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
	if !sum.Equal(p.Amount) {
		return apperror.NewValidation("amount must equal the sum of item totals").
			WithDetail("field", "amount").
			WithDetail("expected", sum.String())
	}

	switch p.PurchaseType {
	case TypeCash:
	case TypeCredit:
		if p.VendorID == "" {
			return apperror.NewValidation("credit purchases require a selected vendor").
				WithDetail("field", "vendorId")
		}
	default:
		return apperror.NewValidation("purchase type must be cash or credit").
			WithDetail("field", "purchaseType")
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

func encodePurchase(p Purchase) store.Record {
	items := make([]any, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, encodeItem(item))
	}
	rec := store.Record{
		"id":           p.ID,
		"date":         p.Date,
		"vendor":       p.Vendor,
		"items":        items,
		"amount":       p.Amount.String(),
		"purchaseType": p.PurchaseType,
		"notes":        p.Notes,
		"createdAt":    p.CreatedAt.UTC().Format(time.RFC3339),
	}
	if p.VendorID != "" {
		rec["vendorId"] = p.VendorID
	}
	if p.DueDate != "" {
		rec["dueDate"] = p.DueDate
	}
	if p.Reference != "" {
		rec["reference"] = p.Reference
	}
	return rec
}

func decodePurchase(rec store.Record) Purchase {
	createdAt, _ := time.Parse(time.RFC3339, store.StringField(rec, "createdAt"))
	p := Purchase{
		ID:           store.StringField(rec, "id"),
		Date:         store.StringField(rec, "date"),
		Vendor:       store.StringField(rec, "vendor"),
		VendorID:     store.StringField(rec, "vendorId"),
		Amount:       types.MoneyOrZero(rec["amount"]),
		PurchaseType: store.StringField(rec, "purchaseType"),
		DueDate:      store.StringField(rec, "dueDate"),
		Reference:    store.StringField(rec, "reference"),
		Notes:        store.StringField(rec, "notes"),
		CreatedAt:    createdAt,
	}
	if raw, ok := rec["items"].([]any); ok {
		for _, item := range raw {
			if itemRec, ok := item.(map[string]any); ok {
				p.Items = append(p.Items, decodeItem(itemRec))
			}
		}
	}
	return p
}
