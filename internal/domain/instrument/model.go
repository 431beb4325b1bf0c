// Package instrument provides trade receivables and payables: mutable
// state-machine records tied to the bills, purchases, payments, and receipts
// that originate them.
//
// State machine per instrument:
//
//	current --(record payment)-->  paid      (terminal)
//	current --(owning doc deleted)--> reversed (terminal)
//	current --(dueDate < today)--> overdue   (derived at read time, never stored)
//
// Unlike the ledgers, instruments are compensated by flipping the status
// field in place, not by appending new rows.
package instrument

import (
	"shopbooks/internal/core/types"
	"shopbooks/internal/store"
)

// Kind selects receivables (customers owe us) or payables (we owe vendors).
type Kind string

const (
	Receivable Kind = "receivable"
	Payable    Kind = "payable"
)

// Status is the stored instrument state.
type Status string

const (
	StatusCurrent  Status = "current"
	StatusPaid     Status = "paid"
	StatusReversed Status = "reversed"

	// StatusOverdue is derived at read time only: status is current and the
	// due date has passed. It is never written to a record.
	StatusOverdue Status = "overdue"
)

// DateFormat is the stored date shape. ISO dates compare correctly as
// strings, which the overdue derivation relies on.
const DateFormat = "2006-01-02"

// Instrument is one receivable or payable.
type Instrument struct {
	ID         string
	Kind       Kind
	Date       string
	PartyID    string
	PartyName  string
	DocumentID string // originating bill or purchase id
	DueDate    string
	Amount     types.Money
	Status     Status

	PaymentDate      string
	PaymentMethod    string
	PaymentReference string
	ChequeNumber     string

	ReversalDate string
}

// EffectiveStatus derives the read-time status: a current instrument whose
// due date lies strictly before today is overdue. Every call site that
// classifies instruments must go through this method so summary and detail
// views can never diverge.
func (i Instrument) EffectiveStatus(today string) Status {
	if i.Status == StatusCurrent && i.DueDate != "" && i.DueDate < today {
		return StatusOverdue
	}
	return i.Status
}

// Open reports whether the instrument still counts toward outstanding
// totals: paid and reversed instruments are settled and excluded.
func (i Instrument) Open() bool {
	return i.Status != StatusPaid && i.Status != StatusReversed
}

// Receivables name the customer and bill; payables the vendor and purchase.
// The stored field names differ per kind and must survive backup round-trips.
func fieldNames(k Kind) (partyID, partyName, documentID string) {
	if k == Payable {
		return "vendorId", "vendor", "purchaseId"
	}
	return "customerId", "customer", "billId"
}

func encodeInstrument(i Instrument) store.Record {
	partyIDField, partyNameField, docIDField := fieldNames(i.Kind)
	rec := store.Record{
		"id":          i.ID,
		"date":        i.Date,
		partyIDField:  i.PartyID,
		partyNameField: i.PartyName,
		docIDField:    i.DocumentID,
		"dueDate":     i.DueDate,
		"amount":      i.Amount.String(),
		"status":      string(i.Status),
	}
	if i.PaymentDate != "" {
		rec["paymentDate"] = i.PaymentDate
		rec["paymentMethod"] = i.PaymentMethod
		rec["paymentReference"] = i.PaymentReference
	}
	if i.ChequeNumber != "" {
		rec["chequeNumber"] = i.ChequeNumber
	}
	if i.ReversalDate != "" {
		rec["reversalDate"] = i.ReversalDate
	}
	return rec
}

func decodeInstrument(k Kind, rec store.Record) Instrument {
	partyIDField, partyNameField, docIDField := fieldNames(k)
	status := Status(store.StringField(rec, "status"))
	if status == "" {
		status = StatusCurrent
	}
	return Instrument{
		ID:               store.StringField(rec, "id"),
		Kind:             k,
		Date:             store.StringField(rec, "date"),
		PartyID:          store.StringField(rec, partyIDField),
		PartyName:        store.StringField(rec, partyNameField),
		DocumentID:       store.StringField(rec, docIDField),
		DueDate:          store.StringField(rec, "dueDate"),
		Amount:           types.MoneyOrZero(rec["amount"]),
		Status:           status,
		PaymentDate:      store.StringField(rec, "paymentDate"),
		PaymentMethod:    store.StringField(rec, "paymentMethod"),
		PaymentReference: store.StringField(rec, "paymentReference"),
		ChequeNumber:     store.StringField(rec, "chequeNumber"),
		ReversalDate:     store.StringField(rec, "reversalDate"),
	}
}

// Summary aggregates open instruments. Paid and reversed amounts are
// excluded from all three figures.
type Summary struct {
	Total   types.Money
	Current types.Money
	Overdue types.Money
	Count   int
}

// PaymentDetails describes how an instrument was settled.
type PaymentDetails struct {
	Date         string
	Method       string // Cash, Bank, Cheque
	Reference    string
	ChequeNumber string
}
