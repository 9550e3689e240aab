package tracking_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"testing"

	appbilling "github.com/siesson1991/adtracking-saas/internal/application/billing"
	apptracking "github.com/siesson1991/adtracking-saas/internal/application/tracking"
	"github.com/siesson1991/adtracking-saas/internal/domain/identity"
	"github.com/siesson1991/adtracking-saas/internal/domain/tracking"
	"github.com/siesson1991/adtracking-saas/internal/infrastructure/marketplace"
	"github.com/siesson1991/adtracking-saas/internal/infrastructure/persistence"
	"github.com/siesson1991/adtracking-saas/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

// fixture wires the application services to an in-memory SQLite database
type fixture struct {
	t        *testing.T
	db       *gorm.DB
	accounts *persistence.GormAccountRepository
	stores   *persistence.GormStoreRepository
	audit    *persistence.GormWebhookEventRepository
	events   *persistence.GormTrackedEventRepository
	billing  *persistence.GormBillingAccountRepository
	ledger   *appbilling.UsageLedger
	gate     *appbilling.BillingGate
	scope    *persistence.GormTransactionScope
	recorder *recordingRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	billingAccounts := persistence.NewGormBillingAccountRepository(db)
	return &fixture{
		t:        t,
		db:       db,
		accounts: persistence.NewGormAccountRepository(db),
		stores:   persistence.NewGormStoreRepository(db),
		audit:    persistence.NewGormWebhookEventRepository(db),
		events:   persistence.NewGormTrackedEventRepository(db),
		billing:  billingAccounts,
		ledger:   appbilling.NewUsageLedger(persistence.NewGormUsageCounterRepository(db), nil, appbilling.DefaultUsageLedgerConfig()),
		gate:     appbilling.NewBillingGate(billingAccounts, 100, nil),
		scope:    persistence.NewGormTransactionScope(db),
		recorder: &recordingRecorder{},
	}
}

func (f *fixture) newOwner(suspended bool) *identity.Account {
	f.t.Helper()
	account, err := identity.NewAccount(uuid.NewString()[:8] + "@merchant.test")
	require.NoError(f.t, err)
	if suspended {
		account.Suspend()
	}
	require.NoError(f.t, f.accounts.Save(context.Background(), account))
	return account
}

func (f *fixture) newStore(ownerID uuid.UUID, m tracking.Marketplace) *tracking.Store {
	f.t.Helper()
	store, err := tracking.NewStore(ownerID, m, "Test Store", "https://shop.example.com")
	require.NoError(f.t, err)
	require.NoError(f.t, f.stores.Create(context.Background(), store))
	return store
}

func (f *fixture) processor(opts ...apptracking.WebhookProcessorOption) *apptracking.WebhookProcessor {
	opts = append([]apptracking.WebhookProcessorOption{apptracking.WithOutcomeRecorder(f.recorder)}, opts...)
	return apptracking.NewWebhookProcessor(
		f.stores,
		f.accounts,
		f.audit,
		marketplace.NewDefaultRegistry(),
		f.scope,
		f.ledger,
		zaptest.NewLogger(f.t),
		opts...,
	)
}

func (f *fixture) usage(userID uuid.UUID) int64 {
	f.t.Helper()
	counter, err := f.ledger.GetCurrentPeriodUsage(context.Background(), userID)
	require.NoError(f.t, err)
	return counter.EventCount
}

func (f *fixture) deliveries(storeID uuid.UUID) []*tracking.WebhookEvent {
	f.t.Helper()
	rows, err := f.audit.FindByStore(context.Background(), storeID, 100)
	require.NoError(f.t, err)
	return rows
}

// signedRequest builds a delivery carrying a valid signature for store
func signedRequest(store *tracking.Store, body string) apptracking.WebhookRequest {
	req := apptracking.WebhookRequest{
		Marketplace: store.Marketplace.PathSegment(),
		StoreID:     store.ID.String(),
		RawBody:     []byte(body),
		Header:      http.Header{},
		Query:       url.Values{},
	}
	switch store.Marketplace {
	case tracking.MarketplaceShopify:
		req.Header.Set(marketplace.HeaderShopifyHmac, marketplace.SignBase64(req.RawBody, store.WebhookSecret))
	case tracking.MarketplaceWooCommerce:
		req.Header.Set(marketplace.HeaderWooCommerceSignature, marketplace.SignBase64(req.RawBody, store.WebhookSecret))
	case tracking.MarketplaceBigCommerce:
		req.Header.Set(marketplace.HeaderBigCommerceSignature, marketplace.SignHex(req.RawBody, store.WebhookSecret))
	case tracking.MarketplaceMagento:
		req.Query.Set(marketplace.QueryMagentoSecret, store.WebhookSecret)
	}
	return req
}

type recordedOutcome struct {
	Marketplace string
	Kind        apptracking.OutcomeKind
	Reason      string
}

type recordingRecorder struct {
	mu       sync.Mutex
	outcomes []recordedOutcome
	tracked  []string
}

func (r *recordingRecorder) RecordWebhookOutcome(_ context.Context, m string, kind apptracking.OutcomeKind, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, recordedOutcome{Marketplace: m, Kind: kind, Reason: reason})
}

func (r *recordingRecorder) RecordTrackedEvent(_ context.Context, source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tracked = append(r.tracked, source)
}

func (r *recordingRecorder) last() recordedOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outcomes[len(r.outcomes)-1]
}

type memoryArchive struct {
	mu      sync.Mutex
	objects map[string][]byte
	fail    bool
}

func (a *memoryArchive) Archive(_ context.Context, key string, body []byte) error {
	if a.fail {
		return errors.New("bucket unavailable")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.objects == nil {
		a.objects = map[string][]byte{}
	}
	a.objects[key] = body
	return nil
}

type failingAudit struct{}

func (failingAudit) Create(context.Context, *tracking.WebhookEvent) error {
	return errors.New("audit table locked")
}

func (failingAudit) FindByStore(context.Context, uuid.UUID, int) ([]*tracking.WebhookEvent, error) {
	return nil, errors.New("audit table locked")
}
