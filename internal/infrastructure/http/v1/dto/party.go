package dto

import (
	"shopbooks/internal/core/types"
	"shopbooks/internal/domain/party"
)

// CreatePartyRequest creates a customer or vendor account.
type CreatePartyRequest struct {
	Name string `json:"name" binding:"required"`
}

// PostTransactionRequest appends a transaction to a party account.
type PostTransactionRequest struct {
	Date        string      `json:"date"`
	Description string      `json:"description" binding:"required"`
	Type        string      `json:"type"`
	Debit       types.Money `json:"debit"`
	Credit      types.Money `json:"credit"`
}

// ToTransaction converts the request to a party transaction.
func (r PostTransactionRequest) ToTransaction() party.Transaction {
	return party.Transaction{
		Date:        r.Date,
		Description: r.Description,
		Type:        r.Type,
		Debit:       r.Debit,
		Credit:      r.Credit,
	}
}

// TransactionResponse is one row of a party's embedded ledger.
type TransactionResponse struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Debit       string `json:"debit"`
	Credit      string `json:"credit"`
	Balance     string `json:"balance"`
}

// PartyResponse is a customer or vendor account with derived balance.
type PartyResponse struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	TotalDebit   string                `json:"totalDebit"`
	TotalCredit  string                `json:"totalCredit"`
	Balance      string                `json:"balance"`
	Transactions []TransactionResponse `json:"transactions"`
}

// FromParty creates PartyResponse from a party account.
func FromParty(p party.Party) PartyResponse {
	txs := make([]TransactionResponse, 0, len(p.Transactions))
	for _, t := range p.Transactions {
		txs = append(txs, TransactionResponse{
			Date:        t.Date,
			Description: t.Description,
			Type:        t.Type,
			Debit:       t.Debit.String(),
			Credit:      t.Credit.String(),
			Balance:     t.Balance.String(),
		})
	}
	return PartyResponse{
		ID:           p.ID,
		Name:         p.Name,
		TotalDebit:   p.TotalDebit.String(),
		TotalCredit:  p.TotalCredit.String(),
		Balance:      p.Balance().String(),
		Transactions: txs,
	}
}
