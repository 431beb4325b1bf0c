package handlers

import (
	"github.com/gin-gonic/gin"

	"shopbooks/internal/core/apperror"
	"shopbooks/internal/domain/backup"
	"shopbooks/internal/infrastructure/http/v1/dto"
)

// BackupHandler handles HTTP requests for backup and restore.
type BackupHandler struct {
	*BaseHandler
	engine *backup.Engine
}

// NewBackupHandler creates a new backup handler.
func NewBackupHandler(base *BaseHandler, engine *backup.Engine) *BackupHandler {
	return &BackupHandler{BaseHandler: base, engine: engine}
}

func scopeParam(c *gin.Context) (backup.Scope, bool) {
	switch backup.Scope(c.DefaultQuery("type", "all")) {
	case backup.ScopeAll:
		return backup.ScopeAll, true
	case backup.ScopeStock:
		return backup.ScopeStock, true
	case backup.ScopeCustomers:
		return backup.ScopeCustomers, true
	case backup.ScopeTransactions:
		return backup.ScopeTransactions, true
	default:
		return "", false
	}
}

// Export handles GET /backup?type=all - a downloadable backup document.
func (h *BackupHandler) Export(c *gin.Context) {
	scope, ok := scopeParam(c)
	if !ok {
		h.Error(c, apperror.NewValidation("type must be all, stock, customers, or transactions"))
		return
	}

	doc, err := h.engine.Snapshot(c.Request.Context(), scope, nil)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromBackupDocument(doc))
}

// Restore handles POST /backup/restore - apply an uploaded document.
func (h *BackupHandler) Restore(c *gin.Context) {
	var req dto.RestoreRequest
	if !h.BindJSON(c, &req) {
		return
	}

	mode := backup.Mode(req.Mode)
	switch mode {
	case backup.ModeReplace, backup.ModeMerge:
	case "":
		mode = backup.ModeMerge
	default:
		h.Error(c, apperror.NewValidation("mode must be replace or merge"))
		return
	}

	res, err := h.engine.Restore(c.Request.Context(), req.ToDocument(), mode, nil)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromRestoreResult(res))
}

// History handles GET /backup/history - the rolling backup history.
func (h *BackupHandler) History(c *gin.Context) {
	ctx := c.Request.Context()

	history, err := h.engine.History(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}
	last, err := h.engine.LastBackup(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}
	if history == nil {
		history = []backup.HistoryEntry{}
	}
	h.OK(c, dto.BackupHistoryResponse{LastBackup: last, History: history})
}
