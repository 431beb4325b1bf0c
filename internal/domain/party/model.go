// Package party maintains customer and vendor accounts: each party record
// embeds an append-only transaction history plus running debit/credit totals.
package party

import (
	"time"

	"shopbooks/internal/core/types"
	"shopbooks/internal/store"
)

// Transaction is one row in a party's embedded ledger. The Balance field is
// advisory: it is stamped with the running totals at append time, but readers
// derive the authoritative balance as totalDebit − totalCredit.
type Transaction struct {
	Date        string
	Description string
	Type        string
	Debit       types.Money
	Credit      types.Money
	Balance     types.Money
}

// Party is a customer or vendor account. The same shape serves both roles;
// which collection it lives in decides the role.
type Party struct {
	ID           string
	Name         string
	TotalDebit   types.Money
	TotalCredit  types.Money
	Transactions []Transaction
	CreatedAt    time.Time
}

// Balance returns the party's current balance: totalDebit − totalCredit.
// Positive means the party owes us (customer), negative means we owe them.
func (p Party) Balance() types.Money {
	return p.TotalDebit.Sub(p.TotalCredit)
}

func encodeTransaction(t Transaction) store.Record {
	return store.Record{
		"date":        t.Date,
		"description": t.Description,
		"type":        t.Type,
		"debit":       t.Debit.String(),
		"credit":      t.Credit.String(),
		"balance":     t.Balance.String(),
	}
}

func decodeTransaction(rec store.Record) Transaction {
	return Transaction{
		Date:        store.StringField(rec, "date"),
		Description: store.StringField(rec, "description"),
		Type:        store.StringField(rec, "type"),
		Debit:       types.MoneyOrZero(rec["debit"]),
		Credit:      types.MoneyOrZero(rec["credit"]),
		Balance:     types.MoneyOrZero(rec["balance"]),
	}
}

func encodeParty(p Party) store.Record {
	txs := make([]any, 0, len(p.Transactions))
	for _, t := range p.Transactions {
		txs = append(txs, encodeTransaction(t))
	}
	return store.Record{
		"_id":         p.ID,
		"name":        p.Name,
		"totalDebit":  p.TotalDebit.String(),
		"totalCredit": p.TotalCredit.String(),
		"transactions": txs,
		"createdAt":   p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func decodeParty(rec store.Record) Party {
	createdAt, _ := time.Parse(time.RFC3339, store.StringField(rec, "createdAt"))
	p := Party{
		ID:          store.RecordID(rec),
		Name:        store.StringField(rec, "name"),
		TotalDebit:  types.MoneyOrZero(rec["totalDebit"]),
		TotalCredit: types.MoneyOrZero(rec["totalCredit"]),
		CreatedAt:   createdAt,
	}
	if raw, ok := rec["transactions"].([]any); ok {
		for _, item := range raw {
			if txRec, ok := item.(map[string]any); ok {
				p.Transactions = append(p.Transactions, decodeTransaction(txRec))
			}
		}
	}
	return p
}
