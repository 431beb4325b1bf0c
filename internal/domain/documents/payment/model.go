// Package payment provides standalone outgoing payments: one-sided
// cash-flow records, optionally tied to a vendor, in which case a payable
// marked paid on arrival keeps the trade history complete.
package payment

import (
	"context"
	"time"

	"shopbooks/internal/core/apperror"
	"shopbooks/internal/core/types"
	"shopbooks/internal/store"
)

// Collection is the backing collection name.
const Collection = "payments"

// Payment methods.
const (
	MethodCash   = "Cash"
	MethodBank   = "Bank"
	MethodCheque = "Cheque"
)

// Payment is an outgoing payment record.
type Payment struct {
	ID           string
	Date         string
	Vendor       string
	VendorID     string
	Title        string
	Amount       types.Money
	Type         string // payment method
	Reference    string
	ChequeNumber string
	CreatedAt    time.Time
}

// Validate checks the payment before any write happens.
func (p *Payment) Validate(ctx context.Context) error {
	if p.Title == "" && p.Vendor == "" {
		return apperror.NewValidation("payment needs a title or a vendor").
			WithDetail("field", "title")
	}
	if p.Amount.Sign() <= 0 {
		return apperror.NewValidation("amount must be positive").
			WithDetail("field", "amount")
	}
	switch p.Type {
	case MethodCash, MethodBank, MethodCheque:
	default:
		return apperror.NewValidation("payment type must be Cash, Bank, or Cheque").
			WithDetail("field", "type")
	}
	if p.Type == MethodCheque && p.ChequeNumber == "" {
		return apperror.NewValidation("cheque payments require a cheque number").
			WithDetail("field", "chequeNumber")
	}
	return nil
}

func encodePayment(p Payment) store.Record {
	rec := store.Record{
		"id":        p.ID,
		"date":      p.Date,
		"title":     p.Title,
		"amount":    p.Amount.String(),
		"type":      p.Type,
		"createdAt": p.CreatedAt.UTC().Format(time.RFC3339),
	}
	if p.Vendor != "" {
		rec["vendor"] = p.Vendor
	}
	if p.VendorID != "" {
		rec["vendorId"] = p.VendorID
	}
	if p.Reference != "" {
		rec["reference"] = p.Reference
	}
	if p.ChequeNumber != "" {
		rec["chequeNumber"] = p.ChequeNumber
	}
	return rec
}

func decodePayment(rec store.Record) Payment {
	createdAt, _ := time.Parse(time.RFC3339, store.StringField(rec, "createdAt"))
	return Payment{
		ID:           store.StringField(rec, "id"),
		Date:         store.StringField(rec, "date"),
		Vendor:       store.StringField(rec, "vendor"),
		VendorID:     store.StringField(rec, "vendorId"),
		Title:        store.StringField(rec, "title"),
		Amount:       types.MoneyOrZero(rec["amount"]),
		Type:         store.StringField(rec, "type"),
		Reference:    store.StringField(rec, "reference"),
		ChequeNumber: store.StringField(rec, "chequeNumber"),
		CreatedAt:    createdAt,
	}
}
