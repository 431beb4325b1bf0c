package handlers

import (
	"github.com/gin-gonic/gin"

	"shopbooks/internal/domain/party"
	"shopbooks/internal/infrastructure/http/v1/dto"
)

// PartyHandler handles HTTP requests for one party collection. The same
// handler serves customers and vendors; the routes decide which.
type PartyHandler struct {
	*BaseHandler
	service *party.Service
}

// NewPartyHandler creates a new party handler.
func NewPartyHandler(base *BaseHandler, service *party.Service) *PartyHandler {
	return &PartyHandler{BaseHandler: base, service: service}
}

// List handles GET - all accounts.
func (h *PartyHandler) List(c *gin.Context) {
	parties, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	out := make([]dto.PartyResponse, 0, len(parties))
	for _, p := range parties {
		out = append(out, dto.FromParty(p))
	}
	h.OK(c, out)
}

// Get handles GET /:id - one account with its transaction history.
func (h *PartyHandler) Get(c *gin.Context) {
	p, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromParty(p))
}

// Create handles POST - open a new account.
func (h *PartyHandler) Create(c *gin.Context) {
	var req dto.CreatePartyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.Create(c.Request.Context(), req.Name)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromParty(p))
}

// PostTransaction handles POST /:id/transactions - append to the account.
func (h *PartyHandler) PostTransaction(c *gin.Context) {
	var req dto.PostTransactionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.PostTransaction(c.Request.Context(), c.Param("id"), req.ToTransaction())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromParty(p))
}
