package importcsv_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/spendtrack/internal/auth"
	"github.com/MrJamesThe3rd/spendtrack/internal/expense"
	"github.com/MrJamesThe3rd/spendtrack/internal/http/importcsv"
	"github.com/MrJamesThe3rd/spendtrack/internal/importer"
)

var owner = uuid.MustParse("9a1b2c3d-4e5f-4a6b-8c7d-0e1f2a3b4c5d")

const exported = "Date,Category,Amount (INR),Note\n" +
	`"2026-10-02","Transport",200.00,"auto to station"` + "\n" +
	`"2026-10-05","Groceries",850.25,""` + "\n"

func setup(t *testing.T) (*gomock.Controller, *expense.MockRepository, http.Handler) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := expense.NewMockRepository(ctrl)
	svc := expense.NewService(repo)

	r := chi.NewRouter()
	r.Route("/import", importcsv.NewHandler(importer.NewService(svc), svc).Routes)

	return ctrl, repo, r
}

func upload(t *testing.T, h http.Handler, content string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer

	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "expenses_October_2026.csv")
	require.NoError(t, err)
	_, err = io.WriteString(fw, content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = req.WithContext(auth.WithSession(req.Context(), auth.Session{UserID: owner}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Import(t *testing.T) {
	ctrl, repo, h := setup(t)

	itx := expense.NewMockImportTx(ctrl)
	itx.EXPECT().FindDuplicates(gomock.Any(), gomock.Len(2)).Return(nil, nil)
	itx.EXPECT().CreateExpenses(gomock.Any(), gomock.Len(2)).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	repo.EXPECT().BeginImport(gomock.Any(), owner, "2026-10-02", "2026-10-05").Return(itx, nil)

	rec := upload(t, h, exported)
	require.Equal(t, http.StatusCreated, rec.Code)

	var got struct {
		Imported int `json:"imported"`
		Expenses []struct {
			Amount   string `json:"amount"`
			Category string `json:"category"`
		} `json:"expenses"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, 2, got.Imported)
	assert.Equal(t, "850.25", got.Expenses[1].Amount)
}

func TestHandler_ImportConflicts(t *testing.T) {
	ctrl, repo, h := setup(t)

	note := "auto to station"
	existing := &expense.Expense{
		ID:       uuid.New(),
		Owner:    owner,
		Amount:   decimal.RequireFromString("200"),
		Category: expense.CategoryTransport,
		Note:     &note,
		Date:     "2026-10-02",
	}

	itx := expense.NewMockImportTx(ctrl)
	itx.EXPECT().FindDuplicates(gomock.Any(), gomock.Any()).Return([]*expense.Expense{existing}, nil)
	itx.EXPECT().Rollback().Return(nil)

	repo.EXPECT().BeginImport(gomock.Any(), owner, gomock.Any(), gomock.Any()).Return(itx, nil)

	rec := upload(t, h, exported)
	require.Equal(t, http.StatusConflict, rec.Code)

	var got struct {
		New       []map[string]any `json:"new"`
		Conflicts []struct {
			Existing struct {
				ID string `json:"id"`
			} `json:"existing"`
		} `json:"conflicts"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Len(t, got.New, 1)
	require.Len(t, got.Conflicts, 1)
	assert.Equal(t, existing.ID.String(), got.Conflicts[0].Existing.ID)
}

func TestHandler_ImportBadFile(t *testing.T) {
	_, _, h := setup(t)

	rec := upload(t, h, "this is not an export\n")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no header row")
}

func TestHandler_ImportMissingFile(t *testing.T) {
	_, _, h := setup(t)

	req := httptest.NewRequest(http.MethodPost, "/import", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	req = req.WithContext(auth.WithSession(req.Context(), auth.Session{UserID: owner}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Confirm(t *testing.T) {
	ctrl, repo, h := setup(t)

	itx := expense.NewMockImportTx(ctrl)
	itx.EXPECT().CreateExpenses(gomock.Any(), gomock.Len(1)).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	repo.EXPECT().BeginImport(gomock.Any(), owner, "2026-10-05", "2026-10-05").Return(itx, nil)

	req := httptest.NewRequest(http.MethodPost, "/import/confirm",
		strings.NewReader(`{"params":[{"amount":"850.25","category":"Groceries","note":null,"date":"2026-10-05"}]}`))
	req = req.WithContext(auth.WithSession(req.Context(), auth.Session{UserID: owner}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"imported":1`)
}

func TestHandler_ConfirmMissingAmount(t *testing.T) {
	_, _, h := setup(t)

	req := httptest.NewRequest(http.MethodPost, "/import/confirm",
		strings.NewReader(`{"params":[{"category":"Groceries","date":"2026-10-05"}]}`))
	req = req.WithContext(auth.WithSession(req.Context(), auth.Session{UserID: owner}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "amount is required")
}
