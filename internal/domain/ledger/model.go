// Package ledger provides the cash and bank transaction logs. Both are
// append-only: a ledger effect is undone by removing the original entry when
// it can be found by reference, otherwise by appending a compensating entry
// with inflow and outflow swapped. History is never truncated.
package ledger

import (
	"time"

	"shopbooks/internal/core/types"
	"shopbooks/internal/store"
)

// Kind selects which ledger an entry belongs to.
type Kind string

const (
	Cash Kind = "cash"
	Bank Kind = "bank"
)

// ReversalPrefix marks compensating entries appended by the fallback
// reversal path.
const ReversalPrefix = "REV-"

// Entry is a single ledger row. The Balance field is stamped at post time
// from the full prior history; it is a denormalized convenience value. The
// authoritative balance is always re-derived by summing the whole log.
type Entry struct {
	ID          string
	Date        string
	Description string
	Reference   string
	In          types.Money
	Out         types.Money
	Balance     types.Money
	CreatedAt   time.Time
}

// Net returns the entry's effect on the ledger balance.
func (e Entry) Net() types.Money {
	return e.In.Sub(e.Out)
}

// collectionFor maps a ledger kind to its collection name.
func collectionFor(k Kind) string {
	if k == Bank {
		return "bankTransactions"
	}
	return "cashTransactions"
}

// Cash entries persist inflow/outflow as cashIn/cashOut; bank entries as
// deposit/withdrawal. The shapes come from the stored document format and
// must survive backup round-trips unchanged.
func fieldNames(k Kind) (in, out string) {
	if k == Bank {
		return "deposit", "withdrawal"
	}
	return "cashIn", "cashOut"
}

func encodeEntry(k Kind, e Entry) store.Record {
	inField, outField := fieldNames(k)
	return store.Record{
		"id":          e.ID,
		"date":        e.Date,
		"description": e.Description,
		"reference":   e.Reference,
		inField:       e.In.String(),
		outField:      e.Out.String(),
		"balance":     e.Balance.String(),
		"createdAt":   e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func decodeEntry(k Kind, rec store.Record) Entry {
	inField, outField := fieldNames(k)
	createdAt, _ := time.Parse(time.RFC3339, store.StringField(rec, "createdAt"))
	return Entry{
		ID:          store.StringField(rec, "id"),
		Date:        store.StringField(rec, "date"),
		Description: store.StringField(rec, "description"),
		Reference:   store.StringField(rec, "reference"),
		In:          types.MoneyOrZero(rec[inField]),
		Out:         types.MoneyOrZero(rec[outField]),
		Balance:     types.MoneyOrZero(rec["balance"]),
		CreatedAt:   createdAt,
	}
}
