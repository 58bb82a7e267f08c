package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/maildeck/maildeck/internal/account"
	"github.com/maildeck/maildeck/internal/database"
	"github.com/maildeck/maildeck/internal/mailtm"
	"github.com/maildeck/maildeck/internal/webutil"
	"github.com/maildeck/maildeck/pkg/models"
)

// AccountHandler serves the account CRUD endpoints
type AccountHandler struct {
	db      *database.DB
	service *account.Service
}

// NewAccountHandler creates an account handler
func NewAccountHandler(db *database.DB, service *account.Service) *AccountHandler {
	return &AccountHandler{db: db, service: service}
}

func (h *AccountHandler) HandleList(w http.ResponseWriter, r *http.Request) error {
	accounts, err := h.db.ListAccounts(r.Context())
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		accounts = []*models.Account{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, accounts)
	return nil
}

func (h *AccountHandler) HandleCreate(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.FirstName == "" || req.LastName == "" {
		return webutil.ErrBadRequest("firstName and lastName are required")
	}

	created, err := h.service.Provision(r.Context(), req.FirstName, req.LastName, clientIP(r))
	if err != nil {
		return translateProviderError("failed to create account", err)
	}

	webutil.RespondWithJSON(w, http.StatusCreated, created)
	return nil
}

func (h *AccountHandler) HandleGet(w http.ResponseWriter, r *http.Request) error {
	acct, err := h.db.GetAccountByID(r.Context(), chi.URLParam(r, paramID))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return webutil.ErrNotFound("account not found")
		}
		return err
	}
	webutil.RespondWithJSON(w, http.StatusOK, acct)
	return nil
}

func (h *AccountHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) error {
	accountID := chi.URLParam(r, paramID)

	var req struct {
		Status string `json:"status"`
	}
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	if req.Status != models.StatusActive && req.Status != models.StatusInactive {
		return webutil.ErrBadRequest("status must be \"active\" or \"inactive\"")
	}

	if err := h.db.UpdateAccountStatus(r.Context(), accountID, req.Status); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return webutil.ErrNotFound("account not found")
		}
		return err
	}

	acct, err := h.db.GetAccountByID(r.Context(), accountID)
	if err != nil {
		return err
	}
	webutil.RespondWithJSON(w, http.StatusOK, acct)
	return nil
}

func (h *AccountHandler) HandleDelete(w http.ResponseWriter, r *http.Request) error {
	err := h.service.Delete(r.Context(), chi.URLParam(r, paramID), clientIP(r))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return webutil.ErrNotFound("account not found")
		}
		return translateProviderError("failed to delete account", err)
	}
	webutil.RespondWithJSON(w, http.StatusNoContent, nil)
	return nil
}

func (h *AccountHandler) HandleLogin(w http.ResponseWriter, r *http.Request) error {
	acct, err := h.service.RefreshToken(r.Context(), chi.URLParam(r, paramID), clientIP(r))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return webutil.ErrNotFound("account not found")
		}
		return translateProviderError("failed to refresh token", err)
	}
	webutil.RespondWithJSON(w, http.StatusOK, acct)
	return nil
}

// clientIP returns the request origin with the port stripped. RealIP
// middleware has already resolved forwarded headers.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// translateProviderError maps mail provider failures onto HTTP statuses
func translateProviderError(message string, err error) error {
	var fetchErr *mailtm.FetchError
	switch {
	case errors.Is(err, mailtm.ErrAuthentication):
		return webutil.ErrUnauthorized(message+": provider rejected credentials", err)
	case errors.Is(err, mailtm.ErrNotFound):
		return webutil.ErrNotFound(message + ": not found at provider")
	case errors.As(err, &fetchErr):
		return webutil.ErrBadGateway(message+": "+fetchErr.Error(), err)
	}
	return err
}
