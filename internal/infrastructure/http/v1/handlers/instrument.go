package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"shopbooks/internal/domain/instrument"
	"shopbooks/internal/infrastructure/http/v1/dto"
)

// InstrumentHandler handles HTTP requests for one instrument kind. The same
// handler serves receivables and payables; the routes decide which.
type InstrumentHandler struct {
	*BaseHandler
	service *instrument.Service
}

// NewInstrumentHandler creates a new instrument handler.
func NewInstrumentHandler(base *BaseHandler, service *instrument.Service) *InstrumentHandler {
	return &InstrumentHandler{BaseHandler: base, service: service}
}

func today() string {
	return time.Now().Format(instrument.DateFormat)
}

// List handles GET - all instruments with read-time status.
func (h *InstrumentHandler) List(c *gin.Context) {
	insts, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	now := today()
	out := make([]dto.InstrumentResponse, 0, len(insts))
	for _, inst := range insts {
		out = append(out, dto.FromInstrument(inst, now))
	}
	h.OK(c, out)
}

// Get handles GET /:id.
func (h *InstrumentHandler) Get(c *gin.Context) {
	inst, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromInstrument(inst, today()))
}

// Create handles POST - raise an instrument outside a document.
func (h *InstrumentHandler) Create(c *gin.Context) {
	var req dto.CreateInstrumentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	inst, err := h.service.Create(c.Request.Context(), req.ToInstrument())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromInstrument(inst, today()))
}

// Pay handles POST /:id/payments - settle a current instrument.
func (h *InstrumentHandler) Pay(c *gin.Context) {
	var req dto.PayInstrumentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	inst, err := h.service.RecordPayment(c.Request.Context(), c.Param("id"), req.ToPaymentDetails())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromInstrument(inst, today()))
}

// Reverse handles POST /:id/reverse - void a current instrument.
func (h *InstrumentHandler) Reverse(c *gin.Context) {
	inst, err := h.service.Reverse(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromInstrument(inst, today()))
}

// Summary handles GET /summary - open totals split current/overdue.
func (h *InstrumentHandler) Summary(c *gin.Context) {
	sum, err := h.service.Summarize(c.Request.Context(), today())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSummary(sum))
}
