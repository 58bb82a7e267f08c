package api

import (
	"encoding/json"
	"net/http"

	"github.com/maildeck/maildeck/internal/database"
	"github.com/maildeck/maildeck/internal/webutil"
	"github.com/maildeck/maildeck/pkg/models"
)

// SettingsHandler serves the dashboard settings endpoints
type SettingsHandler struct {
	db *database.DB
}

// NewSettingsHandler creates a settings handler
func NewSettingsHandler(db *database.DB) *SettingsHandler {
	return &SettingsHandler{db: db}
}

func (h *SettingsHandler) HandleGet(w http.ResponseWriter, r *http.Request) error {
	settings, err := h.db.GetSettings(r.Context())
	if err != nil {
		return err
	}
	webutil.RespondWithJSON(w, http.StatusOK, settings)
	return nil
}

func (h *SettingsHandler) HandleSave(w http.ResponseWriter, r *http.Request) error {
	var settings models.Settings
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&settings); err != nil {
		return webutil.ErrBadRequest("invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	if err := settings.Validate(); err != nil {
		return webutil.ErrBadRequest(err.Error())
	}

	if err := h.db.SaveSettings(r.Context(), &settings); err != nil {
		return err
	}
	webutil.RespondWithJSON(w, http.StatusOK, &settings)
	return nil
}
