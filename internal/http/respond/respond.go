// Package respond writes the JSON bodies shared by every API handler.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendtrack/internal/auth"
	"github.com/MrJamesThe3rd/spendtrack/internal/database"
	"github.com/MrJamesThe3rd/spendtrack/internal/expense"
	"github.com/MrJamesThe3rd/spendtrack/internal/logger"
)

// Error codes clients switch on.
const (
	CodeStorageNotInitialized = "storage_not_initialized"
	CodeUnauthorized          = "unauthorized"
	CodeBadRequest            = "bad_request"
	CodeNotFound              = "not_found"
	CodeConflict              = "conflict"
	CodeInternal              = "internal"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error().Err(err).Msg("failed to encode response")
	}
}

func Error(w http.ResponseWriter, status int, code, msg string) {
	JSON(w, status, errorResponse{Error: code, Message: msg})
}

func BadRequest(w http.ResponseWriter, msg string) {
	Error(w, http.StatusBadRequest, CodeBadRequest, msg)
}

// StoreError reports a failed store call. A missing schema becomes 503 so clients can
// offer the setup step; anything else is logged and hidden behind a 500.
func StoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, expense.ErrStorageNotInitialized) || database.IsUndefinedTable(err) {
		Error(w, http.StatusServiceUnavailable, CodeStorageNotInitialized,
			"the database has not been set up yet, run the setup command")
		return
	}

	logger.Log.Error().
		Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("store call failed")

	Error(w, http.StatusInternalServerError, CodeInternal, "internal error")
}

// Owner returns the signed-in user. It writes a 401 when the request carries no session.
func Owner(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	sess, ok := auth.SessionFrom(r.Context())
	if !ok || sess.UserID == uuid.Nil {
		Error(w, http.StatusUnauthorized, CodeUnauthorized, "sign in first")
		return uuid.Nil, false
	}

	return sess.UserID, true
}
