package expense

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendtrack/internal/expense"
	"github.com/MrJamesThe3rd/spendtrack/internal/http/respond"
	"github.com/MrJamesThe3rd/spendtrack/internal/logger"
	"github.com/MrJamesThe3rd/spendtrack/internal/matching"
)

type Handler struct {
	svc   *expense.Service
	hints *matching.Service
	now   func() time.Time
}

// NewHandler serves the owner's expenses. now decides which calendar day a new expense
// without a date is filed under.
func NewHandler(svc *expense.Service, hints *matching.Service, now func() time.Time) *Handler {
	return &Handler{svc: svc, hints: hints, now: now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/categories", h.categories)
	r.Get("/suggest", h.suggest)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}/regret", h.updateRegret)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	owner, ok := respond.Owner(w, r)
	if !ok {
		return
	}

	var month *expense.Month

	if s := r.URL.Query().Get("month"); s != "" {
		m, err := expense.ParseMonth(s)
		if err != nil {
			respond.BadRequest(w, err.Error())
			return
		}

		month = &m
	}

	es, err := h.svc.List(r.Context(), owner, month)
	if err != nil {
		respond.StoreError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(es))
}

type createExpenseRequest struct {
	Amount   *decimal.Decimal `json:"amount"`
	Category expense.Category `json:"category"`
	Note     *string          `json:"note,omitempty"`
	Date     string           `json:"date"`
	IsRegret bool             `json:"is_regret"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	owner, ok := respond.Owner(w, r)
	if !ok {
		return
	}

	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}

	if req.Amount == nil {
		respond.BadRequest(w, "amount is required")
		return
	}

	if req.Date == "" {
		req.Date = expense.FormatDate(h.now())
	}

	if req.Note != nil {
		if trimmed := strings.TrimSpace(*req.Note); trimmed != "" {
			req.Note = &trimmed
		} else {
			req.Note = nil
		}
	}

	e, err := h.svc.Create(r.Context(), owner, expense.CreateParams{
		Amount:   *req.Amount,
		Category: req.Category,
		Note:     req.Note,
		Date:     req.Date,
		IsRegret: req.IsRegret,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	if e.Note != nil {
		if err := h.hints.Learn(r.Context(), owner, *e.Note, e.Category); err != nil {
			logger.Log.Warn().
				Err(err).
				Str("user", logger.HashID(owner)).
				Msg("failed to learn category hint")
		}
	}

	respond.JSON(w, http.StatusCreated, toResponse(e))
}

type categoriesResponse struct {
	Version    int                `json:"version"`
	Default    expense.Category   `json:"default"`
	Categories []expense.Category `json:"categories"`
}

func (h *Handler) categories(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, categoriesResponse{
		Version:    expense.CategorySetVersion,
		Default:    expense.DefaultCategory,
		Categories: expense.Categories,
	})
}

type suggestResponse struct {
	Note     string           `json:"note"`
	Category expense.Category `json:"category"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	owner, ok := respond.Owner(w, r)
	if !ok {
		return
	}

	note := r.URL.Query().Get("note")
	if note == "" {
		respond.BadRequest(w, "note query parameter is required")
		return
	}

	c, err := h.hints.Suggest(r.Context(), owner, note)
	if err != nil {
		respond.StoreError(w, r, err)
		return
	}

	if c == "" {
		c = expense.DefaultCategory
	}

	respond.JSON(w, http.StatusOK, suggestResponse{Note: note, Category: c})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	owner, ok := respond.Owner(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "invalid id")
		return
	}

	if err := h.svc.Delete(r.Context(), owner, id); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type updateRegretRequest struct {
	IsRegret *bool `json:"is_regret"`
}

func (h *Handler) updateRegret(w http.ResponseWriter, r *http.Request) {
	owner, ok := respond.Owner(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "invalid id")
		return
	}

	var req updateRegretRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IsRegret == nil {
		respond.BadRequest(w, "is_regret is required")
		return
	}

	if err := h.svc.SetRegret(r.Context(), owner, id, *req.IsRegret); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, expense.ErrNotFound):
		respond.Error(w, http.StatusNotFound, respond.CodeNotFound, "expense not found")
	case errors.Is(err, expense.ErrInvalidDate), errors.Is(err, expense.ErrMissingCategory):
		respond.BadRequest(w, err.Error())
	default:
		respond.StoreError(w, r, err)
	}
}
