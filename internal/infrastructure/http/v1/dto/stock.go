package dto

import (
	"shopbooks/internal/core/types"
	"shopbooks/internal/domain/stock"
)

// AddLotRequest adds stock manually.
type AddLotRequest struct {
	Name     string      `json:"name" binding:"required"`
	Color    string      `json:"color"`
	Quantity int64       `json:"quantity" binding:"required,min=1"`
	Price    types.Money `json:"price"`
	Date     string      `json:"date"`
	Note     string      `json:"note"`
}

// ToLot converts the request to a stock lot.
func (r AddLotRequest) ToLot() stock.Lot {
	return stock.Lot{
		Name:     r.Name,
		Color:    r.Color,
		Quantity: r.Quantity,
		Price:    r.Price,
		Date:     r.Date,
		Note:     r.Note,
	}
}

// ReduceStockRequest records a manual stock reduction.
type ReduceStockRequest struct {
	Name     string `json:"name" binding:"required"`
	Color    string `json:"color"`
	Quantity int64  `json:"quantity" binding:"required,min=1"`
	Note     string `json:"note"`
}

// LotResponse is one stock lot.
type LotResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color,omitempty"`
	Quantity int64  `json:"quantity"`
	Price    string `json:"price"`
	Date     string `json:"date"`
	Note     string `json:"note,omitempty"`
}

// FromLot creates LotResponse from a stock lot.
func FromLot(l stock.Lot) LotResponse {
	return LotResponse{
		ID:       l.ID,
		Name:     l.Name,
		Color:    l.Color,
		Quantity: l.Quantity,
		Price:    l.Price.String(),
		Date:     l.Date,
		Note:     l.Note,
	}
}

// ItemResponse is the aggregate view of an item's lots.
type ItemResponse struct {
	Name     string `json:"name"`
	Color    string `json:"color,omitempty"`
	Quantity int64  `json:"quantity"`
	Value    string `json:"value"`
}

// FromItem creates ItemResponse from an aggregated item.
func FromItem(i stock.Item) ItemResponse {
	return ItemResponse{
		Name:     i.Name,
		Color:    i.Color,
		Quantity: i.Quantity,
		Value:    i.Value.String(),
	}
}
