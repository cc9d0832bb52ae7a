package matching_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/spendtrack/internal/expense"
	"github.com/MrJamesThe3rd/spendtrack/internal/matching"
)

var owner = uuid.MustParse("a3d7c7f2-52f1-4b0b-9a55-0f4d8f9a1e21")

func TestService_Suggest(t *testing.T) {
	tests := []struct {
		name      string
		note      string
		setupMock func(m *matching.MockRepository)
		want      expense.Category
		wantErr   error
	}{
		{
			name: "NormalizesBeforeLookup",
			note: "  Swiggy   ORDER ",
			setupMock: func(m *matching.MockRepository) {
				m.EXPECT().FindMatch(gomock.Any(), owner, "swiggy order").Return(expense.CategoryFoodDelivery, nil)
			},
			want: expense.CategoryFoodDelivery,
		},
		{
			name: "NoMatch",
			note: "something new",
			setupMock: func(m *matching.MockRepository) {
				m.EXPECT().FindMatch(gomock.Any(), owner, "something new").Return(expense.Category(""), nil)
			},
		},
		{
			name: "TooShortSkipsLookup",
			note: "ok",
		},
		{
			name: "MissingTable",
			note: "metro",
			setupMock: func(m *matching.MockRepository) {
				m.EXPECT().FindMatch(gomock.Any(), owner, "metro").Return(expense.Category(""), &pgconn.PgError{Code: "42P01"})
			},
			wantErr: expense.ErrStorageNotInitialized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := matching.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := matching.NewService(repo).Suggest(context.Background(), owner, tt.note)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Learn(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := matching.NewMockRepository(ctrl)
	repo.EXPECT().UpsertHint(gomock.Any(), owner, "apollo pharmacy", expense.CategoryPharmacy).Return(nil)
	repo.EXPECT().UpsertHint(gomock.Any(), owner, "jio recharge", expense.CategoryRecharge).Return(errors.New("db down"))

	svc := matching.NewService(repo)

	require.NoError(t, svc.Learn(context.Background(), owner, "Apollo  Pharmacy", expense.CategoryPharmacy))
	require.NoError(t, svc.Learn(context.Background(), owner, "x", expense.CategoryOther))
	require.NoError(t, svc.Learn(context.Background(), owner, "bus pass", ""))

	err := svc.Learn(context.Background(), owner, "Jio recharge", expense.CategoryRecharge)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "learn category")
}
