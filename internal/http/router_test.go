package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrJamesThe3rd/spendtrack/internal/auth"
	"github.com/MrJamesThe3rd/spendtrack/internal/expense"
	"github.com/MrJamesThe3rd/spendtrack/internal/export"
	apihttp "github.com/MrJamesThe3rd/spendtrack/internal/http"
	authHandler "github.com/MrJamesThe3rd/spendtrack/internal/http/auth"
	expenseHandler "github.com/MrJamesThe3rd/spendtrack/internal/http/expense"
	exportHandler "github.com/MrJamesThe3rd/spendtrack/internal/http/export"
	"github.com/MrJamesThe3rd/spendtrack/internal/http/importcsv"
	statsHandler "github.com/MrJamesThe3rd/spendtrack/internal/http/stats"
	"github.com/MrJamesThe3rd/spendtrack/internal/importer"
	"github.com/MrJamesThe3rd/spendtrack/internal/matching"
	"github.com/MrJamesThe3rd/spendtrack/internal/report"
)

type fixture struct {
	users    *auth.MockRepository
	expenses *expense.MockRepository
	router   http.Handler
}

func setup(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		users:    auth.NewMockRepository(ctrl),
		expenses: expense.NewMockRepository(ctrl),
	}

	now := func() time.Time { return time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC) }

	authSvc := auth.NewService(f.users, auth.Options{
		Secret:     []byte("router-secret-router-secret-xxxx"),
		Issuer:     "spendtrack-test",
		SessionTTL: time.Hour,
		BcryptCost: bcrypt.MinCost,
	})
	expenseSvc := expense.NewService(f.expenses)

	f.router = apihttp.New(
		apihttp.Options{AllowedOrigins: []string{"http://localhost:5173"}},
		authHandler.NewHandler(authSvc),
		expenseHandler.NewHandler(expenseSvc, matching.NewService(matching.NewMockRepository(ctrl)), now),
		statsHandler.NewHandler(report.NewService(expenseSvc), now),
		exportHandler.NewHandler(export.NewService(expenseSvc), now),
		importcsv.NewHandler(importer.NewService(expenseSvc), expenseSvc),
	)

	return f
}

func (f fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func TestRouter_Healthz(t *testing.T) {
	rec := setup(t).do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Content-Type"))
}

func TestRouter_ProtectedRoutesNeedToken(t *testing.T) {
	f := setup(t)

	for _, path := range []string{
		"/api/v1/expenses",
		"/api/v1/stats/dashboard",
		"/api/v1/export",
	} {
		rec := f.do(httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/expenses", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec := setup(t).do(req)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_SignInThenListExpenses(t *testing.T) {
	f := setup(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)

	userID := uuid.New()
	f.users.EXPECT().
		GetUserByEmail(gomock.Any(), "asha@example.com").
		Return(&auth.User{ID: userID, Email: "asha@example.com", PasswordHash: string(hash)}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signin",
		strings.NewReader(`{"email":"asha@example.com","password":"hunter22"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var sess struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&sess))

	f.users.EXPECT().IsTokenRevoked(gomock.Any(), gomock.Any()).Return(false, nil)
	f.expenses.EXPECT().
		ListExpenses(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter expense.ListFilter) ([]*expense.Expense, error) {
			assert.Equal(t, userID, filter.Owner, "queries are scoped to the session's user")
			return nil, nil
		})

	req = httptest.NewRequest(http.MethodGet, "/api/v1/expenses", nil)
	req.Header.Set("Authorization", "Bearer "+sess.Token)

	rec = f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("Content-Type"))
}
