package dto

import (
	"shopbooks/internal/core/types"
	"shopbooks/internal/domain/instrument"
)

// CreateInstrumentRequest raises a receivable or payable directly, outside a
// bill or purchase.
type CreateInstrumentRequest struct {
	Date       string      `json:"date"`
	PartyID    string      `json:"partyId" binding:"required"`
	PartyName  string      `json:"partyName"`
	DocumentID string      `json:"documentId"`
	DueDate    string      `json:"dueDate"`
	Amount     types.Money `json:"amount" binding:"required"`
}

// ToInstrument converts the request to an instrument.
func (r CreateInstrumentRequest) ToInstrument() instrument.Instrument {
	return instrument.Instrument{
		Date:       r.Date,
		PartyID:    r.PartyID,
		PartyName:  r.PartyName,
		DocumentID: r.DocumentID,
		DueDate:    r.DueDate,
		Amount:     r.Amount,
	}
}

// PayInstrumentRequest settles a current instrument.
type PayInstrumentRequest struct {
	Date         string `json:"date"`
	Method       string `json:"method" binding:"required"`
	Reference    string `json:"reference"`
	ChequeNumber string `json:"chequeNumber"`
}

// ToPaymentDetails converts the request to payment details.
func (r PayInstrumentRequest) ToPaymentDetails() instrument.PaymentDetails {
	return instrument.PaymentDetails{
		Date:         r.Date,
		Method:       r.Method,
		Reference:    r.Reference,
		ChequeNumber: r.ChequeNumber,
	}
}

// InstrumentResponse is one receivable or payable. Status carries the
// read-time classification, so a current instrument past its due date
// reports "overdue" here even though the stored status stays "current".
type InstrumentResponse struct {
	ID               string `json:"id"`
	Kind             string `json:"kind"`
	Date             string `json:"date"`
	PartyID          string `json:"partyId"`
	PartyName        string `json:"partyName"`
	DocumentID       string `json:"documentId,omitempty"`
	DueDate          string `json:"dueDate,omitempty"`
	Amount           string `json:"amount"`
	Status           string `json:"status"`
	PaymentDate      string `json:"paymentDate,omitempty"`
	PaymentMethod    string `json:"paymentMethod,omitempty"`
	PaymentReference string `json:"paymentReference,omitempty"`
	ChequeNumber     string `json:"chequeNumber,omitempty"`
	ReversalDate     string `json:"reversalDate,omitempty"`
}

// FromInstrument creates InstrumentResponse, deriving the effective status
// as of today.
func FromInstrument(i instrument.Instrument, today string) InstrumentResponse {
	return InstrumentResponse{
		ID:               i.ID,
		Kind:             string(i.Kind),
		Date:             i.Date,
		PartyID:          i.PartyID,
		PartyName:        i.PartyName,
		DocumentID:       i.DocumentID,
		DueDate:          i.DueDate,
		Amount:           i.Amount.String(),
		Status:           string(i.EffectiveStatus(today)),
		PaymentDate:      i.PaymentDate,
		PaymentMethod:    i.PaymentMethod,
		PaymentReference: i.PaymentReference,
		ChequeNumber:     i.ChequeNumber,
		ReversalDate:     i.ReversalDate,
	}
}

// InstrumentSummaryResponse aggregates open instruments.
type InstrumentSummaryResponse struct {
	Total   string `json:"total"`
	Current string `json:"current"`
	Overdue string `json:"overdue"`
	Count   int    `json:"count"`
}

// FromSummary creates InstrumentSummaryResponse from a summary.
func FromSummary(s instrument.Summary) InstrumentSummaryResponse {
	return InstrumentSummaryResponse{
		Total:   s.Total.String(),
		Current: s.Current.String(),
		Overdue: s.Overdue.String(),
		Count:   s.Count,
	}
}
