package billing_test

import (
	"context"
	"errors"
	"testing"

	appbilling "github.com/siesson1991/adtracking-saas/internal/application/billing"
	"github.com/siesson1991/adtracking-saas/internal/domain/billing"
	"github.com/siesson1991/adtracking-saas/internal/infrastructure/persistence"
	"github.com/siesson1991/adtracking-saas/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockBillingAccountRepository struct {
	mock.Mock
}

func (m *mockBillingAccountRepository) GetOrCreate(ctx context.Context, userID uuid.UUID, freeQuota int64) (*billing.BillingAccount, error) {
	args := m.Called(ctx, userID, freeQuota)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.BillingAccount), args.Error(1)
}

func (m *mockBillingAccountRepository) UpdateStatus(ctx context.Context, userID uuid.UUID, status billing.AccountStatus) error {
	return m.Called(ctx, userID, status).Error(0)
}

func TestBillingGate_Admit_DoesNoLookup(t *testing.T) {
	repo := new(mockBillingAccountRepository)
	gate := appbilling.NewBillingGate(repo, 100, zap.NewNop())
	account := &billing.BillingAccount{UserID: uuid.New(), Status: billing.AccountStatusInactive, FreeQuota: 100}

	assert.True(t, gate.Admit(account, 99).Allowed)
	denied := gate.Admit(account, 100)
	assert.False(t, denied.Allowed)
	assert.Equal(t, billing.QuotaExceededReason, denied.Reason)

	repo.AssertNotCalled(t, "GetOrCreate", mock.Anything, mock.Anything, mock.Anything)
}

func TestBillingGate_CanTrackEvent(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	accounts := persistence.NewGormBillingAccountRepository(db)
	gate := appbilling.NewBillingGate(accounts, 100, zap.NewNop())
	ctx := context.Background()

	activeUser := uuid.New()
	inactiveUser := uuid.New()
	_, err := gate.Account(ctx, inactiveUser)
	require.NoError(t, err)
	require.NoError(t, accounts.UpdateStatus(ctx, inactiveUser, billing.AccountStatusInactive))

	tests := []struct {
		name    string
		userID  uuid.UUID
		usage   int64
		allowed bool
	}{
		{"active below quota", activeUser, 5, true},
		{"active far above quota", activeUser, 10_000, true},
		{"inactive below quota", inactiveUser, 99, true},
		{"inactive at quota", inactiveUser, 100, false},
		{"inactive above quota", inactiveUser, 150, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision, err := gate.CanTrackEvent(ctx, tt.userID, tt.usage)
			require.NoError(t, err)
			assert.Equal(t, tt.allowed, decision.Allowed)
			if !tt.allowed {
				assert.Equal(t, billing.QuotaExceededReason, decision.Reason)
			}
		})
	}
}

func TestBillingGate_CreatesAccountOnFirstUse(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	gate := appbilling.NewBillingGate(persistence.NewGormBillingAccountRepository(db), 0, nil)
	userID := uuid.New()

	status, err := gate.GetBillingStatus(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, billing.AccountStatusActive, status.Status)
	assert.Equal(t, billing.DefaultFreeQuota, status.FreeQuota)
	assert.True(t, status.IsActive)

	var count int64
	require.NoError(t, db.Table("billing_accounts").Where("user_id = ?", userID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestBillingGate_GetRemainingQuota(t *testing.T) {
	gate := appbilling.NewBillingGate(new(mockBillingAccountRepository), 100, nil)

	assert.Equal(t, int64(100), gate.GetRemainingQuota(100, 0))
	assert.Equal(t, int64(1), gate.GetRemainingQuota(100, 99))
	assert.Equal(t, int64(0), gate.GetRemainingQuota(100, 100))
	assert.Equal(t, int64(0), gate.GetRemainingQuota(100, 250))
}

func TestBillingGate_RepositoryError(t *testing.T) {
	repo := new(mockBillingAccountRepository)
	gate := appbilling.NewBillingGate(repo, 100, nil)
	userID := uuid.New()
	boom := errors.New("db down")
	repo.On("GetOrCreate", mock.Anything, userID, int64(100)).Return(nil, boom)

	_, err := gate.CanTrackEvent(context.Background(), userID, 1)
	assert.ErrorIs(t, err, boom)

	_, err = gate.GetBillingStatus(context.Background(), userID)
	assert.ErrorIs(t, err, boom)
}

func TestUsageQueryService_Current(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	accounts := persistence.NewGormBillingAccountRepository(db)
	ledger := appbilling.NewUsageLedger(persistence.NewGormUsageCounterRepository(db), nil, appbilling.DefaultUsageLedgerConfig())
	gate := appbilling.NewBillingGate(accounts, 100, nil)
	svc := appbilling.NewUsageQueryService(ledger, gate)
	ctx := context.Background()
	userID := uuid.New()

	for range 3 {
		_, err := ledger.IncrementUsage(ctx, userID)
		require.NoError(t, err)
	}

	summary, err := svc.Current(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.Counter.EventCount)
	assert.Equal(t, int64(97), summary.RemainingQuota)
	assert.True(t, summary.Billing.IsActive)

	history, err := svc.History(ctx, userID, 0)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	_, err = svc.Current(ctx, uuid.Nil)
	assert.ErrorIs(t, err, billing.ErrInvalidUserID)
}
