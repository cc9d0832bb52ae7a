package store_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/MrJamesThe3rd/spendtrack/internal/database"
	"github.com/MrJamesThe3rd/spendtrack/internal/expense"
	"github.com/MrJamesThe3rd/spendtrack/internal/matching"
	"github.com/MrJamesThe3rd/spendtrack/internal/matching/store"
)

type HintStoreTestSuite struct {
	suite.Suite
	svc   *matching.Service
	owner uuid.UUID
	other uuid.UUID
}

func (s *HintStoreTestSuite) SetupTest() {
	db := database.TestDB(s.T())
	database.CleanupTables(s.T(), db)

	s.owner = uuid.MustParse(database.CreateTestUser(s.T(), db, "owner@example.com"))
	s.other = uuid.MustParse(database.CreateTestUser(s.T(), db, "other@example.com"))
	s.svc = matching.NewService(store.New(db))
}

func (s *HintStoreTestSuite) TestLongestPatternWins() {
	ctx := context.Background()

	require.NoError(s.T(), s.svc.Learn(ctx, s.owner, "uber", expense.CategoryTransport))
	require.NoError(s.T(), s.svc.Learn(ctx, s.owner, "uber eats", expense.CategoryFoodDelivery))

	got, err := s.svc.Suggest(ctx, s.owner, "Uber Eats dinner")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), expense.CategoryFoodDelivery, got)

	got, err = s.svc.Suggest(ctx, s.owner, "uber to airport")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), expense.CategoryTransport, got)
}

func (s *HintStoreTestSuite) TestRelearnReplacesCategory() {
	ctx := context.Background()

	require.NoError(s.T(), s.svc.Learn(ctx, s.owner, "amazon", expense.CategoryShopping))
	require.NoError(s.T(), s.svc.Learn(ctx, s.owner, "Amazon", expense.CategoryOther))

	got, err := s.svc.Suggest(ctx, s.owner, "amazon order")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), expense.CategoryOther, got)
}

func (s *HintStoreTestSuite) TestPatternsAreLiteralAndOwnerScoped() {
	ctx := context.Background()

	require.NoError(s.T(), s.svc.Learn(ctx, s.owner, "50% off", expense.CategoryShopping))

	got, err := s.svc.Suggest(ctx, s.owner, "500 off")
	require.NoError(s.T(), err)
	assert.Empty(s.T(), got)

	got, err = s.svc.Suggest(ctx, s.other, "50% off sale")
	require.NoError(s.T(), err)
	assert.Empty(s.T(), got)
}

func TestHintStoreTestSuite(t *testing.T) {
	suite.Run(t, new(HintStoreTestSuite))
}
