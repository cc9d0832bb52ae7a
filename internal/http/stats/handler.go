package stats

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/spendtrack/internal/chart"
	"github.com/MrJamesThe3rd/spendtrack/internal/expense"
	"github.com/MrJamesThe3rd/spendtrack/internal/http/respond"
	"github.com/MrJamesThe3rd/spendtrack/internal/logger"
	"github.com/MrJamesThe3rd/spendtrack/internal/report"
)

type Handler struct {
	reports *report.Service
	now     func() time.Time
}

// NewHandler serves report views. now supplies the instant whose calendar day counts as
// today; pass a clock already converted to the configured timezone.
func NewHandler(reports *report.Service, now func() time.Time) *Handler {
	return &Handler{reports: reports, now: now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/dashboard", h.dashboard)
	r.Get("/activity", h.activity)
	r.Get("/categories", h.categories)
	r.Get("/categories/chart.png", h.categoryChart)
	r.Get("/regret", h.regret)
	r.Get("/wrapped", h.wrapped)
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	owner, ok := respond.Owner(w, r)
	if !ok {
		return
	}

	st, err := h.reports.Dashboard(r.Context(), owner, h.now())
	if err != nil {
		respond.StoreError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toDashboardResponse(st))
}

func (h *Handler) activity(w http.ResponseWriter, r *http.Request) {
	owner, ok := respond.Owner(w, r)
	if !ok {
		return
	}

	days, err := h.reports.Activity(r.Context(), owner, h.now())
	if err != nil {
		respond.StoreError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toActivityResponse(days))
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	owner, ok := respond.Owner(w, r)
	if !ok {
		return
	}

	month, ok := h.month(w, r)
	if !ok {
		return
	}

	shares, err := h.reports.Categories(r.Context(), owner, month)
	if err != nil {
		respond.StoreError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, categoriesResponse{
		Month:      month.String(),
		Categories: toShareResponses(shares),
	})
}

func (h *Handler) categoryChart(w http.ResponseWriter, r *http.Request) {
	owner, ok := respond.Owner(w, r)
	if !ok {
		return
	}

	month, ok := h.month(w, r)
	if !ok {
		return
	}

	shares, err := h.reports.Categories(r.Context(), owner, month)
	if err != nil {
		respond.StoreError(w, r, err)
		return
	}

	png, err := chart.CategoryPie(shares, "Spending by category, "+month.Label())
	if err != nil {
		if errors.Is(err, chart.ErrNoData) {
			respond.Error(w, http.StatusNotFound, respond.CodeNotFound, "no expenses in "+month.Label())
			return
		}

		logger.Log.Error().Err(err).Msg("failed to render category chart")
		respond.Error(w, http.StatusInternalServerError, respond.CodeInternal, "internal error")

		return
	}

	w.Header().Set("Content-Type", chart.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=\"categories_%s.png\"", month))

	if _, err := w.Write(png); err != nil {
		logger.Log.Error().Err(err).Msg("failed to write chart")
	}
}

func (h *Handler) regret(w http.ResponseWriter, r *http.Request) {
	owner, ok := respond.Owner(w, r)
	if !ok {
		return
	}

	month, ok := h.month(w, r)
	if !ok {
		return
	}

	st, err := h.reports.Regret(r.Context(), owner, month)
	if err != nil {
		respond.StoreError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toRegretResponse(month, st))
}

func (h *Handler) wrapped(w http.ResponseWriter, r *http.Request) {
	owner, ok := respond.Owner(w, r)
	if !ok {
		return
	}

	year := h.now().Year()

	if s := r.URL.Query().Get("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil || y < 1 || y > 9999 {
			respond.BadRequest(w, "year must be a four digit number")
			return
		}

		year = y
	}

	st, err := h.reports.Wrapped(r.Context(), owner, year)
	if err != nil {
		respond.StoreError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toWrappedResponse(st))
}

// month reads ?month=YYYY-MM, defaulting to the current month.
func (h *Handler) month(w http.ResponseWriter, r *http.Request) (expense.Month, bool) {
	s := r.URL.Query().Get("month")
	if s == "" {
		return expense.MonthOf(h.now()), true
	}

	m, err := expense.ParseMonth(s)
	if err != nil {
		respond.BadRequest(w, err.Error())
		return expense.Month{}, false
	}

	return m, true
}
