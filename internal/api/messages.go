package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/maildeck/maildeck/internal/database"
	"github.com/maildeck/maildeck/internal/mailtm"
	"github.com/maildeck/maildeck/internal/parser"
	"github.com/maildeck/maildeck/internal/webutil"
	"github.com/maildeck/maildeck/pkg/models"
)

// MessageHandler proxies mailbox reads to the mail provider
type MessageHandler struct {
	db           *database.DB
	mail         *mailtm.Client
	htmlParser   *parser.HTMLParser
	codeDetector *parser.CodeDetector
}

// NewMessageHandler creates a message handler
func NewMessageHandler(db *database.DB, mail *mailtm.Client, htmlParser *parser.HTMLParser, codeDetector *parser.CodeDetector) *MessageHandler {
	return &MessageHandler{
		db:           db,
		mail:         mail,
		htmlParser:   htmlParser,
		codeDetector: codeDetector,
	}
}

func (h *MessageHandler) HandleList(w http.ResponseWriter, r *http.Request) error {
	acct, err := h.db.GetAccountByID(r.Context(), chi.URLParam(r, paramID))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return webutil.ErrNotFound("account not found")
		}
		return err
	}

	messages, err := h.mail.Messages(r.Context(), acct.Token)
	if err != nil {
		return translateProviderError("failed to fetch messages", err)
	}
	if messages == nil {
		messages = []mailtm.Message{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, messages)
	return nil
}

type messageDetailResponse struct {
	mailtm.MessageDetail
	Preview       string                `json:"preview"`
	DetectedCodes []models.DetectedCode `json:"detectedCodes"`
}

// HandleGet returns one message with a plain-text preview and any
// verification codes found in the body.
func (h *MessageHandler) HandleGet(w http.ResponseWriter, r *http.Request) error {
	acct, err := h.db.GetAccountByID(r.Context(), chi.URLParam(r, paramID))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return webutil.ErrNotFound("account not found")
		}
		return err
	}

	detail, err := h.mail.Message(r.Context(), acct.Token, chi.URLParam(r, paramMsgID))
	if err != nil {
		return translateProviderError("failed to fetch message", err)
	}

	preview := detail.Text
	if preview == "" && len(detail.HTML) > 0 {
		parsed, perr := h.htmlParser.Parse(strings.Join(detail.HTML, "\n"))
		if perr == nil {
			preview = parsed
		}
	}

	webutil.RespondWithJSON(w, http.StatusOK, messageDetailResponse{
		MessageDetail: *detail,
		Preview:       preview,
		DetectedCodes: h.codeDetector.DetectCodes(preview),
	})
	return nil
}
