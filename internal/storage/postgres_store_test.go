package storage

import (
	"context"
	"os"
	"talentpay/internal/models"
	"talentpay/internal/testutil"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a disposable database named by TALENTPAY_TEST_DATABASE_URL.
func postgresStore(t *testing.T) *PostgresStore {
	t.Helper()
	url := os.Getenv("TALENTPAY_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TALENTPAY_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	store := NewPostgresStore(pool)
	require.NoError(t, store.Migrate(ctx))
	return store
}

func TestPostgresStore_PeriodLifecycle(t *testing.T) {
	s := postgresStore(t)
	ctx := context.Background()
	suffix := uuid.NewString()[:8]

	talent := models.Talent{DisplayName: "Ana", UserID: "user-" + suffix, Active: true}
	require.NoError(t, s.CreateTalent(ctx, &talent))
	t.Cleanup(func() { _ = s.DeleteTalent(context.Background(), talent.ID) })

	period := models.Period{TalentID: talent.ID, Name: "March", State: "open", WeeksCount: 3, Percent: testutil.Float(60)}
	require.NoError(t, s.CreatePeriod(ctx, &period))

	platformID := "sc-" + suffix
	require.NoError(t, s.UpsertPlatform(ctx, &models.Platform{ID: platformID, Name: "Stripchat", Currency: models.CurrencyToken, UnitToUsd: 0.05, Weekly: true}))

	link := models.PlatformLink{PeriodID: period.ID, PlatformID: platformID, Premium: models.Premium25}
	require.NoError(t, s.UpsertLink(ctx, &link))
	assert.Equal(t, "Stripchat", link.Platform.Name)

	entry := models.ProductionEntry{PeriodID: period.ID, PlatformID: platformID, Weeks: [3]float64{100, 200, 300}}
	require.NoError(t, s.UpsertProduction(ctx, &entry))
	entry.Weeks[0] = 150
	require.NoError(t, s.UpsertProduction(ctx, &entry))

	production, err := s.ListProduction(ctx, period.ID)
	require.NoError(t, err)
	require.Len(t, production, 1)
	assert.Equal(t, 150.0, production[0].Weeks[0])

	traffic := models.DiscountEntry{PeriodID: period.ID, Key: models.TrafficDiscountKey(platformID, "bots"), Source: models.DiscountTraffic, Name: "Bots", Amount: 75000}
	require.NoError(t, s.UpsertDiscount(ctx, &traffic))
	traffic.Amount = 150000
	require.NoError(t, s.UpsertDiscount(ctx, &traffic))

	manual := models.DiscountEntry{PeriodID: period.ID, Source: models.DiscountManual, Name: "Advance", Amount: 10000}
	require.NoError(t, s.UpsertDiscount(ctx, &manual))
	assert.True(t, manual.Editable)
	require.NoError(t, s.UpdateDiscountAmount(ctx, manual.ID, 12000))

	discounts, err := s.ListDiscounts(ctx, period.ID)
	require.NoError(t, err)
	require.Len(t, discounts, 2)
	assert.Equal(t, 150000.0, discounts[0].Amount)
	assert.Equal(t, 12000.0, discounts[1].Amount)

	require.NoError(t, s.DeleteDiscount(ctx, period.ID, traffic.Key))
	discounts, err = s.ListDiscounts(ctx, period.ID)
	require.NoError(t, err)
	require.Len(t, discounts, 1)

	require.NoError(t, s.DeletePeriod(ctx, period.ID))
	_, err = s.GetPeriod(ctx, period.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	links, err := s.ListLinks(ctx, period.ID)
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestPostgresStore_MissingParent(t *testing.T) {
	s := postgresStore(t)
	ctx := context.Background()

	err := s.CreatePeriod(ctx, &models.Period{TalentID: "missing-" + uuid.NewString(), Name: "x"})
	assert.ErrorIs(t, err, models.ErrNotFound)

	err = s.UpdateDiscountAmount(ctx, uuid.NewString(), 1)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
