package services

import (
	"context"
	"talentpay/internal/models"
	"talentpay/internal/payout"
	"talentpay/internal/storage"
	"talentpay/internal/testutil"
	"testing"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	store  *storage.MemoryStore
	talent models.Talent
	period models.Period
	ledger *testutil.MockLedger
	logger *testutil.MockLogger
	engine *payout.Engine
}

// newFixture seeds a talent with one period: 60%, 4000 local per USD,
// groceries over March 2024, and a non-weekly token platform with bots
// traffic enabled.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{
		store:  storage.NewMemoryStore(),
		ledger: &testutil.MockLedger{Enabled: true},
		logger: &testutil.MockLogger{},
		engine: payout.NewEngineWithTiers(nil, ""),
	}

	f.talent = models.Talent{DisplayName: "Ana", UserID: "user-ana", PercentDefault: testutil.Float(55), Active: true}
	require.NoError(t, f.store.CreateTalent(ctx, &f.talent))

	f.period = models.Period{
		TalentID:         f.talent.ID,
		Name:             "March",
		WeeksCount:       3,
		Percent:          testutil.Float(60),
		UsdToLocalRate:   testutil.Float(4000),
		GroceriesEnabled: true,
		StartDate:        testutil.Date("2024-03-01"),
		EndDate:          testutil.Date("2024-03-31"),
	}
	require.NoError(t, f.store.CreatePeriod(ctx, &f.period))

	require.NoError(t, f.store.UpsertPlatform(ctx, &models.Platform{ID: "cb", Name: "Chaturbate", Currency: models.CurrencyToken, UnitToUsd: 0.05, HasTraffic: true}))
	require.NoError(t, f.store.UpsertPlatform(ctx, &models.Platform{ID: "sc", Name: "Stripchat", Currency: models.CurrencyToken, UnitToUsd: 0.05, Weekly: true}))
	require.NoError(t, f.store.UpsertPlatform(ctx, &models.Platform{ID: "lj", Name: "LiveJasmin", Currency: models.CurrencyUSD, UnitToUsd: 1}))

	require.NoError(t, f.store.UpsertLink(ctx, &models.PlatformLink{PeriodID: f.period.ID, PlatformID: "cb", Premium: models.PremiumNone, TrafficBots: true}))
	require.NoError(t, f.store.UpsertLink(ctx, &models.PlatformLink{PeriodID: f.period.ID, PlatformID: "sc", Premium: models.PremiumNone}))
	return f
}

func (f *fixture) payout() PayoutServiceInterface {
	return NewPayoutService(f.store, f.ledger, f.engine, f.logger)
}

func (f *fixture) production() ProductionServiceInterface {
	return NewProductionService(f.store, f.engine, f.logger)
}

func (f *fixture) admin() AdminServiceInterface {
	return NewAdminService(f.store, f.engine, f.logger)
}
