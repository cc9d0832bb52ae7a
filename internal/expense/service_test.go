package expense_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/spendtrack/internal/expense"
)

var owner = uuid.MustParse("6f1c2a8e-1d4b-4c57-9a0e-6b1f0f3c2d11")

func undefinedTable() error {
	return fmt.Errorf("listing expenses: %w", &pgconn.PgError{
		Code:    "42P01",
		Message: `relation "expenses" does not exist`,
	})
}

func TestService_Create(t *testing.T) {
	note := "dinner"

	type testCase struct {
		name      string
		owner     uuid.UUID
		params    expense.CreateParams
		setupMock func(m *expense.MockRepository)
		wantErr   error
		anyErr    bool
	}

	tests := []testCase{
		{
			name:  "Success",
			owner: owner,
			params: expense.CreateParams{
				Amount:   decimal.RequireFromString("249.50"),
				Category: expense.CategoryFoodDelivery,
				Note:     &note,
				Date:     "2026-10-18",
			},
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().
					CreateExpense(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, e *expense.Expense) error {
						assert.Equal(t, owner, e.Owner)
						assert.False(t, e.IsRegret)
						e.ID = uuid.New()
						e.CreatedAt = time.Now()
						return nil
					})
			},
		},
		{
			name:  "NormalizesDate",
			owner: owner,
			params: expense.CreateParams{
				Amount:   decimal.NewFromInt(10),
				Category: expense.CategoryOther,
				Date:     " 2026-10-18 ",
			},
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().
					CreateExpense(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, e *expense.Expense) error {
						assert.Equal(t, "2026-10-18", e.Date)
						return nil
					})
			},
		},
		{
			name:    "MissingOwner",
			owner:   uuid.Nil,
			params:  expense.CreateParams{Category: expense.CategoryRent, Date: "2026-10-18"},
			wantErr: expense.ErrMissingOwner,
		},
		{
			name:    "MissingCategory",
			owner:   owner,
			params:  expense.CreateParams{Date: "2026-10-18"},
			wantErr: expense.ErrMissingCategory,
		},
		{
			name:    "InvalidDate",
			owner:   owner,
			params:  expense.CreateParams{Category: expense.CategoryRent, Date: "18/10/2026"},
			wantErr: expense.ErrInvalidDate,
		},
		{
			name:   "RepoError",
			owner:  owner,
			params: expense.CreateParams{Category: expense.CategoryRent, Date: "2026-10-01"},
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().
					CreateExpense(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			anyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := expense.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := expense.NewService(repo)
			got, err := svc.Create(context.Background(), tt.owner, tt.params)

			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			case tt.anyErr:
				require.Error(t, err)
				assert.NotErrorIs(t, err, expense.ErrStorageNotInitialized)
			default:
				require.NoError(t, err)
				require.NotNil(t, got)
				assert.True(t, tt.params.Amount.Equal(got.Amount))
				assert.Equal(t, tt.params.Category, got.Category)
			}
		})
	}
}

func TestService_List(t *testing.T) {
	month := expense.Month{Year: 2026, Month: time.December}

	tests := []struct {
		name       string
		month      *expense.Month
		wantFilter expense.ListFilter
	}{
		{
			name:       "AllRecords",
			wantFilter: expense.ListFilter{Owner: owner},
		},
		{
			name:  "MonthIsHalfOpen",
			month: &month,
			wantFilter: expense.ListFilter{
				Owner:  owner,
				From:   new("2026-12-01"),
				Before: new("2027-01-01"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := expense.NewMockRepository(ctrl)
			repo.EXPECT().
				ListExpenses(gomock.Any(), tt.wantFilter).
				Return([]*expense.Expense{}, nil)

			got, err := expense.NewService(repo).List(context.Background(), owner, tt.month)
			require.NoError(t, err)
			assert.NotNil(t, got)
		})
	}
}

func TestService_YearRecords(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := expense.NewMockRepository(ctrl)
	repo.EXPECT().
		ListExpenses(gomock.Any(), expense.ListFilter{
			Owner:   owner,
			From:    new("2026-01-01"),
			Through: new("2026-12-31"),
		}).
		Return([]*expense.Expense{}, nil)

	_, err := expense.NewService(repo).YearRecords(context.Background(), owner, 2026)
	require.NoError(t, err)
}

func TestService_BetweenBoundsBothEnds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := expense.NewMockRepository(ctrl)
	repo.EXPECT().
		ListExpenses(gomock.Any(), expense.ListFilter{
			Owner:   owner,
			From:    new("2026-01-01"),
			Through: new("2026-10-18"),
		}).
		Return([]*expense.Expense{}, nil)

	_, err := expense.NewService(repo).Between(context.Background(), owner, "2026-01-01", "2026-10-18")
	require.NoError(t, err)
}

func TestService_Delete(t *testing.T) {
	id := uuid.New()

	t.Run("MissingRowIsSuccess", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := expense.NewMockRepository(ctrl)
		repo.EXPECT().DeleteExpense(gomock.Any(), owner, id).Return(nil).Times(2)

		svc := expense.NewService(repo)
		require.NoError(t, svc.Delete(context.Background(), owner, id))
		require.NoError(t, svc.Delete(context.Background(), owner, id))
	})

	t.Run("MissingOwner", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		err := expense.NewService(expense.NewMockRepository(ctrl)).Delete(context.Background(), uuid.Nil, id)
		assert.ErrorIs(t, err, expense.ErrMissingOwner)
	})
}

func TestService_SetRegret(t *testing.T) {
	id := uuid.New()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := expense.NewMockRepository(ctrl)
	repo.EXPECT().UpdateRegret(gomock.Any(), owner, id, true).Return(nil)
	repo.EXPECT().UpdateRegret(gomock.Any(), owner, id, false).Return(expense.ErrNotFound)

	svc := expense.NewService(repo)
	require.NoError(t, svc.SetRegret(context.Background(), owner, id, true))
	assert.ErrorIs(t, svc.SetRegret(context.Background(), owner, id, false), expense.ErrNotFound)
}

func TestService_StorageNotInitialized(t *testing.T) {
	params := expense.CreateParams{
		Amount:   decimal.NewFromInt(100),
		Category: expense.CategoryRent,
		Date:     "2026-10-01",
	}

	tests := []struct {
		name      string
		setupMock func(m *expense.MockRepository)
		call      func(svc *expense.Service) error
	}{
		{
			name: "List",
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().ListExpenses(gomock.Any(), gomock.Any()).Return(nil, undefinedTable())
			},
			call: func(svc *expense.Service) error {
				_, err := svc.List(context.Background(), owner, nil)
				return err
			},
		},
		{
			name: "MonthRecords",
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().ListExpenses(gomock.Any(), gomock.Any()).Return(nil, undefinedTable())
			},
			call: func(svc *expense.Service) error {
				_, err := svc.MonthRecords(context.Background(), owner, expense.Month{Year: 2026, Month: time.October})
				return err
			},
		},
		{
			name: "YearRecords",
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().ListExpenses(gomock.Any(), gomock.Any()).Return(nil, undefinedTable())
			},
			call: func(svc *expense.Service) error {
				_, err := svc.YearRecords(context.Background(), owner, 2026)
				return err
			},
		},
		{
			name: "Between",
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().ListExpenses(gomock.Any(), gomock.Any()).Return(nil, undefinedTable())
			},
			call: func(svc *expense.Service) error {
				_, err := svc.Between(context.Background(), owner, "2026-01-01", "2026-10-18")
				return err
			},
		},
		{
			name: "Recent",
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().ListExpenses(gomock.Any(), gomock.Any()).Return(nil, undefinedTable())
			},
			call: func(svc *expense.Service) error {
				_, err := svc.Recent(context.Background(), owner, expense.RecentLimit)
				return err
			},
		},
		{
			name: "Create",
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().CreateExpense(gomock.Any(), gomock.Any()).Return(undefinedTable())
			},
			call: func(svc *expense.Service) error {
				_, err := svc.Create(context.Background(), owner, params)
				return err
			},
		},
		{
			name: "Delete",
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().DeleteExpense(gomock.Any(), gomock.Any(), gomock.Any()).Return(undefinedTable())
			},
			call: func(svc *expense.Service) error {
				return svc.Delete(context.Background(), owner, uuid.New())
			},
		},
		{
			name: "SetRegret",
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().UpdateRegret(gomock.Any(), gomock.Any(), gomock.Any(), true).Return(undefinedTable())
			},
			call: func(svc *expense.Service) error {
				return svc.SetRegret(context.Background(), owner, uuid.New(), true)
			},
		},
		{
			name: "ImportBatch",
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().BeginImport(gomock.Any(), owner, "2026-10-01", "2026-10-01").Return(nil, undefinedTable())
			},
			call: func(svc *expense.Service) error {
				_, err := svc.ImportBatch(context.Background(), owner, []expense.CreateParams{params})
				return err
			},
		},
		{
			name: "MessageFallback",
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().ListExpenses(gomock.Any(), gomock.Any()).
					Return(nil, errors.New(`ERROR: relation "expenses" does not exist`))
			},
			call: func(svc *expense.Service) error {
				_, err := svc.List(context.Background(), owner, nil)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := expense.NewMockRepository(ctrl)
			tt.setupMock(repo)

			err := tt.call(expense.NewService(repo))
			require.ErrorIs(t, err, expense.ErrStorageNotInitialized)

			var pgErr *pgconn.PgError
			assert.False(t, errors.As(err, &pgErr), "raw store error leaked")
		})
	}
}

func TestService_OtherErrorsPropagate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	boom := &pgconn.PgError{Code: "57014", Message: "canceling statement due to statement timeout"}

	repo := expense.NewMockRepository(ctrl)
	repo.EXPECT().ListExpenses(gomock.Any(), gomock.Any()).Return(nil, boom)

	_, err := expense.NewService(repo).List(context.Background(), owner, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, expense.ErrStorageNotInitialized)
}

func TestService_ImportBatch(t *testing.T) {
	note := "metro card"

	params := []expense.CreateParams{
		{Amount: decimal.RequireFromString("200"), Category: expense.CategoryTransport, Note: &note, Date: " 2026-10-02"},
		{Amount: decimal.RequireFromString("80"), Category: expense.CategoryPharmacy, Date: "2026-10-05"},
	}

	t.Run("NoDuplicatesCommits", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		itx := expense.NewMockImportTx(ctrl)
		itx.EXPECT().FindDuplicates(gomock.Any(), gomock.Any()).Return(nil, nil)
		itx.EXPECT().CreateExpenses(gomock.Any(), gomock.Len(2)).Return(nil)
		itx.EXPECT().Commit().Return(nil)
		itx.EXPECT().Rollback().Return(nil)

		repo := expense.NewMockRepository(ctrl)
		repo.EXPECT().BeginImport(gomock.Any(), owner, "2026-10-02", "2026-10-05").Return(itx, nil)

		res, err := expense.NewService(repo).ImportBatch(context.Background(), owner, params)
		require.NoError(t, err)
		assert.Len(t, res.Imported, 2)
		assert.Empty(t, res.Conflicts)
		assert.Equal(t, " 2026-10-02", params[0].Date, "caller params must not be modified")
	})

	t.Run("DuplicatesAbort", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		existing := &expense.Expense{
			ID:       uuid.New(),
			Owner:    owner,
			Amount:   decimal.RequireFromString("200.00"),
			Category: expense.CategoryTransport,
			Note:     &note,
			Date:     "2026-10-02",
		}

		itx := expense.NewMockImportTx(ctrl)
		itx.EXPECT().FindDuplicates(gomock.Any(), gomock.Any()).Return([]*expense.Expense{existing}, nil)
		itx.EXPECT().Rollback().Return(nil)

		repo := expense.NewMockRepository(ctrl)
		repo.EXPECT().BeginImport(gomock.Any(), owner, gomock.Any(), gomock.Any()).Return(itx, nil)

		res, err := expense.NewService(repo).ImportBatch(context.Background(), owner, params)
		require.NoError(t, err)
		assert.Empty(t, res.Imported)
		require.Len(t, res.Conflicts, 1)
		assert.Equal(t, existing, res.Conflicts[0].Existing)
		require.Len(t, res.New, 1)
		assert.Equal(t, expense.CategoryPharmacy, res.New[0].Category)
	})

	t.Run("InvalidRow", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		bad := []expense.CreateParams{{Category: expense.CategoryRent, Date: "not-a-date"}}

		_, err := expense.NewService(expense.NewMockRepository(ctrl)).ImportBatch(context.Background(), owner, bad)
		require.ErrorIs(t, err, expense.ErrInvalidDate)
		assert.Contains(t, err.Error(), "row 1")
	})

	t.Run("Empty", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		res, err := expense.NewService(expense.NewMockRepository(ctrl)).ImportBatch(context.Background(), owner, nil)
		require.NoError(t, err)
		assert.Empty(t, res.Imported)
	})
}
