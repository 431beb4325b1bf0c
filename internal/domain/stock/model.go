// Package stock maintains stock lots. A logical item is the group of lots
// sharing (name, color); on-hand quantity is the sum over the group's lots
// and may legitimately go negative — there is no stock-out prevention.
package stock

import (
	"time"

	"shopbooks/internal/core/types"
	"shopbooks/internal/store"
)

// Collection is the backing collection name.
const Collection = "stockLots"

// Lot is one stock lot. Negative quantities represent recorded reductions.
type Lot struct {
	ID        string
	Name      string
	Color     string
	Quantity  int64
	Price     types.Money
	Date      string
	Note      string
	CreatedAt time.Time
}

// Consumption records how much was taken from one lot, so a deletion path
// can restore exactly what was consumed.
type Consumption struct {
	LotID    string
	Name     string
	Color    string
	Quantity int64
	Price    types.Money
	Date     string
	Deleted  bool // the lot was removed because it hit zero
}

// Item is the aggregated view of all lots sharing (name, color).
type Item struct {
	Name     string
	Color    string
	Quantity int64
	Value    types.Money
}

func encodeLot(l Lot) store.Record {
	rec := store.Record{
		"id":        l.ID,
		"name":      l.Name,
		"color":     l.Color,
		"quantity":  l.Quantity,
		"price":     l.Price.String(),
		"date":      l.Date,
		"createdAt": l.CreatedAt.UTC().Format(time.RFC3339),
	}
	if l.Note != "" {
		rec["note"] = l.Note
	}
	return rec
}

func decodeLot(rec store.Record) Lot {
	createdAt, _ := time.Parse(time.RFC3339, store.StringField(rec, "createdAt"))
	qty, _ := types.ToInt64(rec["quantity"])
	return Lot{
		ID:        store.StringField(rec, "id"),
		Name:      store.StringField(rec, "name"),
		Color:     store.StringField(rec, "color"),
		Quantity:  qty,
		Price:     types.MoneyOrZero(rec["price"]),
		Date:      store.StringField(rec, "date"),
		Note:      store.StringField(rec, "note"),
		CreatedAt: createdAt,
	}
}
