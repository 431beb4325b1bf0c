package handlers

import (
	"github.com/gin-gonic/gin"

	"shopbooks/internal/domain/documents/bill"
	"shopbooks/internal/infrastructure/http/v1/dto"
)

// BillHandler handles HTTP requests for sales bills.
type BillHandler struct {
	*BaseHandler
	service *bill.Service
}

// NewBillHandler creates a new bill handler.
func NewBillHandler(base *BaseHandler, service *bill.Service) *BillHandler {
	return &BillHandler{BaseHandler: base, service: service}
}

// Create handles POST /bills.
func (h *BillHandler) Create(c *gin.Context) {
	var req dto.CreateBillRequest
	if !h.BindJSON(c, &req) {
		return
	}

	created, err := h.service.Create(c.Request.Context(), req.ToBill())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromBill(created))
}

// List handles GET /bills.
func (h *BillHandler) List(c *gin.Context) {
	bills, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	out := make([]dto.BillResponse, 0, len(bills))
	for _, b := range bills {
		out = append(out, dto.FromBill(b))
	}
	h.OK(c, out)
}

// Get handles GET /bills/:id.
func (h *BillHandler) Get(c *gin.Context) {
	b, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromBill(b))
}

// Delete handles DELETE /bills/:id.
func (h *BillHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "bill deleted")
}
