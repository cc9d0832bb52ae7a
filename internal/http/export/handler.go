package export

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/spendtrack/internal/expense"
	"github.com/MrJamesThe3rd/spendtrack/internal/export"
	"github.com/MrJamesThe3rd/spendtrack/internal/http/respond"
	"github.com/MrJamesThe3rd/spendtrack/internal/logger"
)

type Handler struct {
	svc *export.Service
	now func() time.Time
}

func NewHandler(svc *export.Service, now func() time.Time) *Handler {
	return &Handler{svc: svc, now: now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
}

// download streams ?month=YYYY-MM (default: current month) as a CSV attachment.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	owner, ok := respond.Owner(w, r)
	if !ok {
		return
	}

	month := expense.MonthOf(h.now())

	if s := r.URL.Query().Get("month"); s != "" {
		m, err := expense.ParseMonth(s)
		if err != nil {
			respond.BadRequest(w, err.Error())
			return
		}

		month = m
	}

	// Buffer so a store failure can still be reported as JSON.
	var buf bytes.Buffer

	n, err := h.svc.Month(r.Context(), owner, month, &buf)
	if err != nil {
		respond.StoreError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(month)))

	if _, err := buf.WriteTo(w); err != nil {
		logger.Log.Error().Err(err).Msg("failed to write export")
		return
	}

	logger.Log.Info().
		Str("user", logger.HashID(owner)).
		Str("month", month.String()).
		Int("rows", n).
		Msg("expenses exported")
}
