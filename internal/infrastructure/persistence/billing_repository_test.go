package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/siesson1991/adtracking-saas/internal/domain/billing"
	"github.com/siesson1991/adtracking-saas/internal/domain/shared"
	"github.com/siesson1991/adtracking-saas/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

var testRate = decimal.RequireFromString("0.005")

func TestBillingAccountRepository_GetOrCreate(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewGormBillingAccountRepository(db)
	ctx := context.Background()

	t.Run("creates an active account with the free quota on first touch", func(t *testing.T) {
		userID := uuid.New()

		account, err := repo.GetOrCreate(ctx, userID, 100)
		require.NoError(t, err)
		assert.Equal(t, userID, account.UserID)
		assert.Equal(t, billing.AccountStatusActive, account.Status)
		assert.Equal(t, int64(100), account.FreeQuota)
	})

	t.Run("returns the existing account on later calls", func(t *testing.T) {
		userID := uuid.New()

		first, err := repo.GetOrCreate(ctx, userID, 100)
		require.NoError(t, err)
		second, err := repo.GetOrCreate(ctx, userID, 500)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, int64(100), second.FreeQuota)
	})

	t.Run("concurrent first touches converge on one row", func(t *testing.T) {
		userID := uuid.New()
		ids := make([]uuid.UUID, 8)

		var g errgroup.Group
		for i := range ids {
			g.Go(func() error {
				account, err := repo.GetOrCreate(ctx, userID, 100)
				if err != nil {
					return err
				}
				ids[i] = account.ID
				return nil
			})
		}
		require.NoError(t, g.Wait())

		for _, id := range ids {
			assert.Equal(t, ids[0], id)
		}
	})

	t.Run("rejects nil user", func(t *testing.T) {
		_, err := repo.GetOrCreate(ctx, uuid.Nil, 100)
		assert.ErrorIs(t, err, billing.ErrInvalidUserID)
	})
}

func TestBillingAccountRepository_UpdateStatus(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewGormBillingAccountRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	_, err := repo.GetOrCreate(ctx, userID, 100)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStatus(ctx, userID, billing.AccountStatusInactive))
	account, err := repo.GetOrCreate(ctx, userID, 100)
	require.NoError(t, err)
	assert.False(t, account.IsActive())

	assert.ErrorIs(t, repo.UpdateStatus(ctx, uuid.New(), billing.AccountStatusActive), shared.ErrNotFound)
	assert.Error(t, repo.UpdateStatus(ctx, userID, billing.AccountStatus("PAUSED")))
}

func TestUsageCounterRepository_Increment(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewGormUsageCounterRepository(db)
	ctx := context.Background()
	period := billing.BillingPeriod{Year: 2024, Month: 3}

	t.Run("first increment creates the counter", func(t *testing.T) {
		userID := uuid.New()

		counter, err := repo.Increment(ctx, userID, period, testRate)
		require.NoError(t, err)
		assert.Equal(t, int64(1), counter.EventCount)
		assert.True(t, counter.EstimatedCost.Equal(decimal.RequireFromString("0.005")), counter.EstimatedCost.String())
		assert.Equal(t, period, counter.Period)
	})

	t.Run("cost tracks the count", func(t *testing.T) {
		userID := uuid.New()

		var counter *billing.UsageCounter
		var err error
		for range 3 {
			counter, err = repo.Increment(ctx, userID, period, testRate)
			require.NoError(t, err)
		}
		assert.Equal(t, int64(3), counter.EventCount)
		assert.True(t, counter.EstimatedCost.Equal(decimal.RequireFromString("0.015")))
	})

	t.Run("periods are counted separately", func(t *testing.T) {
		userID := uuid.New()
		next := billing.BillingPeriod{Year: 2024, Month: 4}

		_, err := repo.Increment(ctx, userID, period, testRate)
		require.NoError(t, err)
		counter, err := repo.Increment(ctx, userID, next, testRate)
		require.NoError(t, err)
		assert.Equal(t, int64(1), counter.EventCount)
	})

	t.Run("concurrent increments are not lost", func(t *testing.T) {
		userID := uuid.New()
		const n = 25

		var g errgroup.Group
		for range n {
			g.Go(func() error {
				_, err := repo.Increment(ctx, userID, period, testRate)
				return err
			})
		}
		require.NoError(t, g.Wait())

		counter, err := repo.GetOrCreate(ctx, userID, period)
		require.NoError(t, err)
		assert.Equal(t, int64(n), counter.EventCount)
		assert.True(t, counter.EstimatedCost.Equal(billing.EstimateCost(n, testRate)))
	})
}

func TestUsageCounterRepository_GetOrCreate(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewGormUsageCounterRepository(db)
	ctx := context.Background()
	userID := uuid.New()
	period := billing.PeriodOf(time.Now())

	counter, err := repo.GetOrCreate(ctx, userID, period)
	require.NoError(t, err)
	assert.Zero(t, counter.EventCount)
	assert.True(t, counter.EstimatedCost.IsZero())

	again, err := repo.GetOrCreate(ctx, userID, period)
	require.NoError(t, err)
	assert.Equal(t, counter.ID, again.ID)
}

func TestUsageCounterRepository_FindHistory(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewGormUsageCounterRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	periods := []billing.BillingPeriod{
		{Year: 2023, Month: 11},
		{Year: 2024, Month: 2},
		{Year: 2023, Month: 12},
		{Year: 2024, Month: 1},
	}
	for _, p := range periods {
		_, err := repo.Increment(ctx, userID, p, testRate)
		require.NoError(t, err)
	}
	_, err := repo.Increment(ctx, uuid.New(), billing.BillingPeriod{Year: 2024, Month: 5}, testRate)
	require.NoError(t, err)

	history, err := repo.FindHistory(ctx, userID, 3)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "2024-02", history[0].Period.String())
	assert.Equal(t, "2024-01", history[1].Period.String())
	assert.Equal(t, "2023-12", history[2].Period.String())
}

func TestUsageCounterRepository_Increment_DatabaseFailure(t *testing.T) {
	mdb := testutil.NewMockDB(t)
	defer mdb.Close()
	repo := NewGormUsageCounterRepository(mdb.DB)

	mdb.Mock.ExpectBegin().WillReturnError(assert.AnError)

	_, err := repo.Increment(context.Background(), uuid.New(), billing.BillingPeriod{Year: 2024, Month: 1}, testRate)
	assert.ErrorIs(t, err, assert.AnError)
	mdb.ExpectationsWereMet(t)
}

func TestStoreRepository_FindByID_DatabaseFailure(t *testing.T) {
	mdb := testutil.NewMockDB(t)
	defer mdb.Close()
	repo := NewGormStoreRepository(mdb.DB)

	mdb.Mock.ExpectQuery(`SELECT \* FROM "stores"`).WillReturnError(assert.AnError)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, shared.ErrNotFound)
	mdb.ExpectationsWereMet(t)
}
