package dto

import (
	"shopbooks/internal/core/types"
	"shopbooks/internal/domain/ledger"
)

// CreateEntryRequest posts a manual ledger entry.
type CreateEntryRequest struct {
	Date        string      `json:"date"`
	Description string      `json:"description" binding:"required"`
	Reference   string      `json:"reference"`
	In          types.Money `json:"in"`
	Out         types.Money `json:"out"`
}

// ToEntry converts the request to a ledger entry.
func (r CreateEntryRequest) ToEntry() ledger.Entry {
	return ledger.Entry{
		Date:        r.Date,
		Description: r.Description,
		Reference:   r.Reference,
		In:          r.In,
		Out:         r.Out,
	}
}

// EntryResponse is one ledger row.
type EntryResponse struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Reference   string `json:"reference,omitempty"`
	In          string `json:"in"`
	Out         string `json:"out"`
	Balance     string `json:"balance"`
}

// FromEntry creates EntryResponse from a ledger entry.
func FromEntry(e ledger.Entry) EntryResponse {
	return EntryResponse{
		ID:          e.ID,
		Date:        e.Date,
		Description: e.Description,
		Reference:   e.Reference,
		In:          e.In.String(),
		Out:         e.Out.String(),
		Balance:     e.Balance.String(),
	}
}

// LedgerResponse is the full log plus the derived balance.
type LedgerResponse struct {
	Entries []EntryResponse `json:"entries"`
	Balance string          `json:"balance"`
}
