package handlers

import (
	"github.com/gin-gonic/gin"

	"shopbooks/internal/core/apperror"
	"shopbooks/internal/domain/ledger"
	"shopbooks/internal/infrastructure/http/v1/dto"
)

// LedgerHandler handles HTTP requests for the cash and bank ledgers.
type LedgerHandler struct {
	*BaseHandler
	service *ledger.Service
}

// NewLedgerHandler creates a new ledger handler.
func NewLedgerHandler(base *BaseHandler, service *ledger.Service) *LedgerHandler {
	return &LedgerHandler{BaseHandler: base, service: service}
}

func ledgerKindParam(c *gin.Context) (ledger.Kind, bool) {
	switch c.Param("kind") {
	case "cash":
		return ledger.Cash, true
	case "bank":
		return ledger.Bank, true
	default:
		return "", false
	}
}

// List handles GET /ledgers/:kind - the full log plus the derived balance.
func (h *LedgerHandler) List(c *gin.Context) {
	kind, ok := ledgerKindParam(c)
	if !ok {
		h.Error(c, apperror.NewValidation("ledger kind must be cash or bank"))
		return
	}
	ctx := c.Request.Context()

	entries, err := h.service.Entries(ctx, kind)
	if err != nil {
		h.Error(c, err)
		return
	}
	balance, err := h.service.Balance(ctx, kind)
	if err != nil {
		h.Error(c, err)
		return
	}

	out := make([]dto.EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.FromEntry(e))
	}
	h.OK(c, dto.LedgerResponse{Entries: out, Balance: balance.String()})
}

// Post handles POST /ledgers/:kind - append a manual entry.
func (h *LedgerHandler) Post(c *gin.Context) {
	kind, ok := ledgerKindParam(c)
	if !ok {
		h.Error(c, apperror.NewValidation("ledger kind must be cash or bank"))
		return
	}

	var req dto.CreateEntryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	entry, err := h.service.Post(c.Request.Context(), kind, req.ToEntry())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromEntry(entry))
}

// Reverse handles DELETE /ledgers/:kind/entries/:reference - undo an entry.
func (h *LedgerHandler) Reverse(c *gin.Context) {
	kind, ok := ledgerKindParam(c)
	if !ok {
		h.Error(c, apperror.NewValidation("ledger kind must be cash or bank"))
		return
	}

	if err := h.service.Reverse(c.Request.Context(), kind, c.Param("reference")); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "entry reversed")
}
