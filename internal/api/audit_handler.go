package api

import (
	"net/http"

	"github.com/maildeck/maildeck/internal/audit"
	"github.com/maildeck/maildeck/internal/webutil"
	"github.com/maildeck/maildeck/pkg/models"
)

// AuditHandler serves the audit log endpoint
type AuditHandler struct {
	audit *audit.Service
}

// NewAuditHandler creates an audit handler
func NewAuditHandler(auditSvc *audit.Service) *AuditHandler {
	return &AuditHandler{audit: auditSvc}
}

func (h *AuditHandler) HandleList(w http.ResponseWriter, r *http.Request) error {
	entries, err := h.audit.List(r.Context(), r.URL.Query().Get("accountId"))
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []*models.AuditLogEntry{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, entries)
	return nil
}
