// Package receipt provides standalone incoming receipts: one-sided
// cash-flow records, optionally tied to a customer, in which case a
// receivable marked paid on arrival keeps the trade history complete.
package receipt

import (
	"context"
	"time"

	"shopbooks/internal/core/apperror"
	"shopbooks/internal/core/types"
	"shopbooks/internal/store"
)

// Collection is the backing collection name.
const Collection = "receipts"

// Receipt methods.
const (
	MethodCash   = "Cash"
	MethodBank   = "Bank"
	MethodCheque = "Cheque"
)

// Receipt is an incoming money record.
type Receipt struct {
	ID           string
	Date         string
	Customer     string
	CustomerID   string
	Title        string
	Amount       types.Money
	ReceiptType  string // receipt method
	Reference    string
	ChequeNumber string
	CreatedAt    time.Time
}

// Validate checks the receipt before any write happens.
func (r *Receipt) Validate(ctx context.Context) error {
	if r.Title == "" && r.Customer == "" {
		return apperror.NewValidation("receipt needs a title or a customer").
			WithDetail("field", "title")
	}
	if r.Amount.Sign() <= 0 {
		return apperror.NewValidation("amount must be positive").
			WithDetail("field", "amount")
	}
	switch r.ReceiptType {
	case MethodCash, MethodBank, MethodCheque:
	default:
		return apperror.NewValidation("receipt type must be Cash, Bank, or Cheque").
			WithDetail("field", "receiptType")
	}
	if r.ReceiptType == MethodCheque && r.ChequeNumber == "" {
		return apperror.NewValidation("cheque receipts require a cheque number").
			WithDetail("field", "chequeNumber")
	}
	return nil
}

func encodeReceipt(r Receipt) store.Record {
	rec := store.Record{
		"id":          r.ID,
		"date":        r.Date,
		"title":       r.Title,
		"amount":      r.Amount.String(),
		"receiptType": r.ReceiptType,
		"createdAt":   r.CreatedAt.UTC().Format(time.RFC3339),
	}
	if r.Customer != "" {
		rec["customer"] = r.Customer
	}
	if r.CustomerID != "" {
		rec["customerId"] = r.CustomerID
	}
	if r.Reference != "" {
		rec["reference"] = r.Reference
	}
	if r.ChequeNumber != "" {
		rec["chequeNumber"] = r.ChequeNumber
	}
	return rec
}

func decodeReceipt(rec store.Record) Receipt {
	createdAt, _ := time.Parse(time.RFC3339, store.StringField(rec, "createdAt"))
	return Receipt{
		ID:           store.StringField(rec, "id"),
		Date:         store.StringField(rec, "date"),
		Customer:     store.StringField(rec, "customer"),
		CustomerID:   store.StringField(rec, "customerId"),
		Title:        store.StringField(rec, "title"),
		Amount:       types.MoneyOrZero(rec["amount"]),
		ReceiptType:  store.StringField(rec, "receiptType"),
		Reference:    store.StringField(rec, "reference"),
		ChequeNumber: store.StringField(rec, "chequeNumber"),
		CreatedAt:    createdAt,
	}
}
