package importcsv

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendtrack/internal/expense"
	"github.com/MrJamesThe3rd/spendtrack/internal/http/respond"
	"github.com/MrJamesThe3rd/spendtrack/internal/importer"
	"github.com/MrJamesThe3rd/spendtrack/internal/logger"
)

const maxUploadSize = 10 << 20

type Handler struct {
	importSvc  *importer.Service
	expenseSvc *expense.Service
}

func NewHandler(importSvc *importer.Service, expenseSvc *expense.Service) *Handler {
	return &Handler{
		importSvc:  importSvc,
		expenseSvc: expenseSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/confirm", h.confirmImport)
}

type expenseResponse struct {
	ID       string           `json:"id"`
	Amount   string           `json:"amount"`
	Category expense.Category `json:"category"`
	Note     *string          `json:"note"`
	Date     string           `json:"date"`
	IsRegret bool             `json:"is_regret"`
}

type importSuccessResponse struct {
	Imported int               `json:"imported"`
	Expenses []expenseResponse `json:"expenses"`
}

type createParamsDTO struct {
	Amount   *decimal.Decimal `json:"amount"`
	Category expense.Category `json:"category"`
	Note     *string          `json:"note"`
	Date     string           `json:"date"`
	IsRegret bool             `json:"is_regret"`
}

type conflictDTO struct {
	Incoming createParamsDTO `json:"incoming"`
	Existing expenseResponse `json:"existing"`
}

type importConflictResponse struct {
	New       []createParamsDTO `json:"new"`
	Conflicts []conflictDTO     `json:"conflicts"`
}

type confirmRequest struct {
	Params []createParamsDTO `json:"params"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	owner, ok := respond.Owner(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respond.BadRequest(w, "failed to parse form: "+err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.BadRequest(w, "file field is required")
		return
	}
	defer file.Close()

	result, err := h.importSvc.Import(r.Context(), owner, file)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if len(result.Conflicts) > 0 {
		resp := importConflictResponse{
			New:       make([]createParamsDTO, 0, len(result.New)),
			Conflicts: make([]conflictDTO, 0, len(result.Conflicts)),
		}

		for _, p := range result.New {
			resp.New = append(resp.New, toParamsDTO(p))
		}

		for _, c := range result.Conflicts {
			resp.Conflicts = append(resp.Conflicts, conflictDTO{
				Incoming: toParamsDTO(c.Incoming),
				Existing: toResponse(c.Existing),
			})
		}

		respond.JSON(w, http.StatusConflict, resp)

		return
	}

	logger.Log.Info().
		Str("user", logger.HashID(owner)).
		Int("rows", len(result.Imported)).
		Msg("expenses imported")

	respond.JSON(w, http.StatusCreated, toSuccessResponse(result.Imported))
}

// confirmImport stores the rows the user kept after reviewing conflicts.
func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	owner, ok := respond.Owner(w, r)
	if !ok {
		return
	}

	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}

	params := make([]expense.CreateParams, 0, len(req.Params))
	for _, p := range req.Params {
		if p.Amount == nil {
			respond.BadRequest(w, "amount is required")
			return
		}

		params = append(params, expense.CreateParams{
			Amount:   *p.Amount,
			Category: p.Category,
			Note:     p.Note,
			Date:     p.Date,
			IsRegret: p.IsRegret,
		})
	}

	es, err := h.expenseSvc.CreateBatch(r.Context(), owner, params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toSuccessResponse(es))
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, importer.ErrNoHeader),
		errors.Is(err, importer.ErrInvalidAmount),
		errors.Is(err, expense.ErrInvalidDate),
		errors.Is(err, expense.ErrMissingCategory):
		respond.BadRequest(w, err.Error())
	default:
		respond.StoreError(w, r, err)
	}
}

func toSuccessResponse(es []*expense.Expense) importSuccessResponse {
	responses := make([]expenseResponse, 0, len(es))
	for _, e := range es {
		responses = append(responses, toResponse(e))
	}

	return importSuccessResponse{
		Imported: len(es),
		Expenses: responses,
	}
}

func toResponse(e *expense.Expense) expenseResponse {
	return expenseResponse{
		ID:       e.ID.String(),
		Amount:   e.Amount.StringFixed(2),
		Category: e.Category,
		Note:     e.Note,
		Date:     e.Date,
		IsRegret: e.IsRegret,
	}
}

func toParamsDTO(p expense.CreateParams) createParamsDTO {
	return createParamsDTO{
		Amount:   &p.Amount,
		Category: p.Category,
		Note:     p.Note,
		Date:     p.Date,
		IsRegret: p.IsRegret,
	}
}
