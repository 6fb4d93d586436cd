package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"talentpay/internal/models"
	"talentpay/internal/payout"
	"talentpay/internal/providers"
	"talentpay/internal/services"
	"talentpay/internal/storage"
	"talentpay/internal/testutil"
	"testing"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

var (
	adminIdentity  = models.Identity{UserID: "admin-1", Role: models.RoleAdmin}
	talentIdentity = models.Identity{UserID: "user-ana", Role: models.RoleTalent}
	otherIdentity  = models.Identity{UserID: "user-bea", Role: models.RoleTalent}
)

type env struct {
	store    *storage.MemoryStore
	cache    *testutil.MockCache
	metrics  *testutil.MockMetrics
	ledger   *testutil.MockLedger
	payouts  *PayoutController
	admin    *AdminController
	talentID string
	periodID string
}

// newEnv seeds Ana (user-ana) with one March period on a 10000-token
// non-weekly platform, and Bea (user-bea) with nothing.
func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	e := &env{
		store:   storage.NewMemoryStore(),
		cache:   testutil.NewMockCache(),
		metrics: &testutil.MockMetrics{},
		ledger:  &testutil.MockLedger{},
	}
	logger := &testutil.MockLogger{}
	engine := payout.NewEngineWithTiers(nil, "")

	ana := models.Talent{DisplayName: "Ana", UserID: "user-ana"}
	require.NoError(t, e.store.CreateTalent(ctx, &ana))
	require.NoError(t, e.store.CreateTalent(ctx, &models.Talent{DisplayName: "Bea", UserID: "user-bea"}))

	period := models.Period{TalentID: ana.ID, Name: "March", WeeksCount: 3, Percent: testutil.Float(60), UsdToLocalRate: testutil.Float(4000)}
	require.NoError(t, e.store.CreatePeriod(ctx, &period))
	require.NoError(t, e.store.UpsertPlatform(ctx, &models.Platform{ID: "cb", Name: "Chaturbate", Currency: models.CurrencyToken, UnitToUsd: 0.05, HasTraffic: true}))
	require.NoError(t, e.store.UpsertLink(ctx, &models.PlatformLink{PeriodID: period.ID, PlatformID: "cb", Premium: models.PremiumNone}))
	require.NoError(t, e.store.UpsertProduction(ctx, &models.ProductionEntry{PeriodID: period.ID, PlatformID: "cb", Total: 10000}))

	e.talentID, e.periodID = ana.ID, period.ID

	payoutSvc := services.NewPayoutService(e.store, e.ledger, engine, logger)
	adminSvc := services.NewAdminService(e.store, engine, logger)
	e.payouts = NewPayoutController(logger, payoutSvc, services.NewProductionService(e.store, engine, logger), adminSvc, e.cache, e.metrics)
	e.admin = NewAdminController(logger, adminSvc, e.cache)
	return e
}

// call routes one request through chi so URL params resolve, with the
// caller identity already attached.
func call(t *testing.T, method, pattern string, handler http.HandlerFunc, path, body string, id models.Identity) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Method(method, pattern, handler)

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	req = req.WithContext(providers.WithIdentity(req.Context(), id))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}
