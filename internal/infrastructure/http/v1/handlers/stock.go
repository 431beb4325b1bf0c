package handlers

import (
	"github.com/gin-gonic/gin"

	"shopbooks/internal/domain/stock"
	"shopbooks/internal/infrastructure/http/v1/dto"
)

// StockHandler handles HTTP requests for stock lots.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, service *stock.Service) *StockHandler {
	return &StockHandler{BaseHandler: base, service: service}
}

// ListLots handles GET /stock/lots - every lot, reductions included.
func (h *StockHandler) ListLots(c *gin.Context) {
	lots, err := h.service.Lots(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	out := make([]dto.LotResponse, 0, len(lots))
	for _, l := range lots {
		out = append(out, dto.FromLot(l))
	}
	h.OK(c, out)
}

// ListItems handles GET /stock/items - aggregated per (name, color).
func (h *StockHandler) ListItems(c *gin.Context) {
	items, err := h.service.Items(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for _, i := range items {
		out = append(out, dto.FromItem(i))
	}
	h.OK(c, out)
}

// AddLot handles POST /stock/lots - manual stock addition.
func (h *StockHandler) AddLot(c *gin.Context) {
	var req dto.AddLotRequest
	if !h.BindJSON(c, &req) {
		return
	}

	lot, err := h.service.AddLot(c.Request.Context(), req.ToLot())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromLot(lot))
}

// Reduce handles POST /stock/reductions - manual stock reduction, recorded
// as a negative lot.
func (h *StockHandler) Reduce(c *gin.Context) {
	var req dto.ReduceStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	lot, err := h.service.InsertReduction(c.Request.Context(), req.Name, req.Color, req.Quantity, req.Note)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromLot(lot))
}
