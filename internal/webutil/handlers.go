package webutil

import (
	"errors"
	"log/slog"
	"net/http"
)

// AppHandler is a handler function that returns an error instead of
// writing error responses itself.
type AppHandler func(w http.ResponseWriter, r *http.Request) error

// MakeHandler adapts an AppHandler to http.HandlerFunc, translating
// returned errors into JSON error responses.
func MakeHandler(handler AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := handler(w, r)
		if err == nil {
			return
		}

		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			level := slog.LevelWarn
			if httpErr.Code >= 500 {
				level = slog.LevelError
			}
			slog.Log(r.Context(), level, "request failed",
				"code", httpErr.Code,
				"msg", httpErr.Message,
				"path", r.URL.Path,
				"method", r.Method,
				"cause", httpErr.Cause,
			)
			RespondWithError(w, httpErr.Code, httpErr.Message)
			return
		}

		slog.Error("internal error",
			"path", r.URL.Path,
			"method", r.Method,
			"error", err,
		)
		RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
