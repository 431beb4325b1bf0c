package handlers

import (
	"github.com/gin-gonic/gin"

	"shopbooks/internal/domain/documents/payment"
	"shopbooks/internal/infrastructure/http/v1/dto"
)

// PaymentHandler handles HTTP requests for standalone payments.
type PaymentHandler struct {
	*BaseHandler
	service *payment.Service
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(base *BaseHandler, service *payment.Service) *PaymentHandler {
	return &PaymentHandler{BaseHandler: base, service: service}
}

// Create handles POST /payments.
func (h *PaymentHandler) Create(c *gin.Context) {
	var req dto.CreatePaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	created, err := h.service.Create(c.Request.Context(), req.ToPayment())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromPayment(created))
}

// List handles GET /payments.
func (h *PaymentHandler) List(c *gin.Context) {
	payments, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	out := make([]dto.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, dto.FromPayment(p))
	}
	h.OK(c, out)
}

// Get handles GET /payments/:id.
func (h *PaymentHandler) Get(c *gin.Context) {
	p, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromPayment(p))
}

// Delete handles DELETE /payments/:id.
func (h *PaymentHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "payment deleted")
}
