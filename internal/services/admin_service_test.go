package services

import (
	"context"
	"talentpay/internal/models"
	"talentpay/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminService_CreateTalent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.admin()

	talent, err := svc.CreateTalent(ctx, models.TalentInput{DisplayName: "  Bea  "})
	require.NoError(t, err)
	assert.Equal(t, "Bea", talent.DisplayName)
	assert.Equal(t, float64(models.DefaultTalentPercent), *talent.PercentDefault)
	assert.True(t, talent.Active)

	talent, err = svc.CreateTalent(ctx, models.TalentInput{DisplayName: "Cleo", Percent: testutil.Float(140)})
	require.NoError(t, err)
	assert.Equal(t, 100.0, *talent.PercentDefault)

	_, err = svc.CreateTalent(ctx, models.TalentInput{DisplayName: "Ana again", UserID: "user-ana"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = svc.CreateTalent(ctx, models.TalentInput{})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	page, err := svc.ListTalents(ctx, models.TalentQuery{Search: "e"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
}

func TestAdminService_TalentUpdates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.admin()

	require.NoError(t, svc.SetTalentActive(ctx, f.talent.ID, false))
	require.NoError(t, svc.SetTalentPercent(ctx, f.talent.ID, testutil.Float(-3)))

	got, err := f.store.GetTalent(ctx, f.talent.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.Equal(t, 0.0, *got.PercentDefault)

	assert.ErrorIs(t, svc.SetTalentActive(ctx, "missing", true), models.ErrNotFound)

	require.NoError(t, svc.DeleteTalent(ctx, f.talent.ID))
	_, err = f.store.GetPeriod(ctx, f.period.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAdminService_CreatePeriod(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.admin()

	p, err := svc.CreatePeriod(ctx, f.talent.ID, models.PeriodInput{Name: "April", WeeksCount: 5})
	require.NoError(t, err)
	assert.Equal(t, 3, p.WeeksCount)
	assert.Equal(t, 55.0, *p.Percent, "inherits the talent default")
	assert.Equal(t, "open", p.State)
	assert.Equal(t, models.PeriodTypeCustom, p.Type)

	p, err = svc.CreatePeriod(ctx, f.talent.ID, models.PeriodInput{Name: "May", WeeksCount: -2, Percent: testutil.Float(70)})
	require.NoError(t, err)
	assert.Equal(t, 1, p.WeeksCount)
	assert.Equal(t, 70.0, *p.Percent)

	periods, err := svc.ListPeriods(ctx, f.talent.ID)
	require.NoError(t, err)
	assert.Len(t, periods, 3)
}

func TestAdminService_CreatePeriodValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.admin()

	cases := map[string]models.PeriodInput{
		"no name":            {},
		"groceries no dates": {Name: "x", GroceriesEnabled: true, StartDate: "2024-03-01"},
		"start after end":    {Name: "x", StartDate: "2024-03-31", EndDate: "2024-03-01"},
		"bad date":           {Name: "x", StartDate: "2024-02-30"},
		"negative rate":      {Name: "x", UsdToLocalRate: testutil.Float(-1)},
		"negative goal":      {Name: "x", Goal: -10},
		"unknown state":      {Name: "x", State: "archived"},
	}
	for name, in := range cases {
		_, err := svc.CreatePeriod(ctx, f.talent.ID, in)
		assert.ErrorIs(t, err, models.ErrInvalidInput, name)
	}

	_, err := svc.CreatePeriod(ctx, "missing", models.PeriodInput{Name: "x"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAdminService_UpdateSettings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.admin()

	_, err := svc.UpdateSettings(ctx, f.period.ID, models.PeriodSettings{})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = svc.UpdateSettings(ctx, f.period.ID, models.PeriodSettings{HoursWorked: testutil.Float(-1)})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	p, err := svc.UpdateSettings(ctx, f.period.ID, models.PeriodSettings{Percent: testutil.Float(150), HoursWorked: testutil.Float(40)})
	require.NoError(t, err)
	assert.Equal(t, 100.0, *p.Percent)
	assert.Equal(t, 40.0, *p.HoursWorked)
	assert.Equal(t, 4000.0, *p.UsdToLocalRate)

	_, err = svc.UpdateSettings(ctx, "missing", models.PeriodSettings{Goal: testutil.Float(1)})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAdminService_DuplicatePeriod(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.admin()

	_, err := svc.CreateDiscount(ctx, f.period.ID, models.DiscountInput{Name: "Rent", Amount: 100000})
	require.NoError(t, err)
	_, err = svc.CreateDiscount(ctx, f.period.ID, models.DiscountInput{Name: "Loan", Amount: 20000, Currency: "usd"})
	require.NoError(t, err)
	require.NoError(t, f.store.UpsertDiscount(ctx, &models.DiscountEntry{
		PeriodID: f.period.ID,
		Key:      models.TrafficDiscountKey("cb", "bots"),
		Source:   models.DiscountTraffic,
		Amount:   75000,
	}))

	copied, err := svc.DuplicatePeriod(ctx, f.period.ID, models.DuplicateInput{Name: "April", StartDate: "2024-04-01", EndDate: "2024-04-30"})
	require.NoError(t, err)
	assert.NotEqual(t, f.period.ID, copied.ID)
	assert.Equal(t, f.talent.ID, copied.TalentID)
	assert.Equal(t, 60.0, *copied.Percent)
	assert.Equal(t, 4000.0, *copied.UsdToLocalRate)
	assert.True(t, copied.GroceriesEnabled)

	links, err := f.store.ListLinks(ctx, copied.ID)
	require.NoError(t, err)
	assert.Len(t, links, 2)
	assert.True(t, links[0].TrafficBots)

	discounts, err := f.store.ListDiscounts(ctx, copied.ID)
	require.NoError(t, err)
	require.Len(t, discounts, 2)
	currencies := map[string]string{}
	for _, d := range discounts {
		assert.Equal(t, models.DiscountManual, d.Source)
		assert.Equal(t, models.ManualDiscountKey(d.ID), d.Key)
		assert.True(t, d.Editable)
		currencies[d.Name] = d.Currency
	}
	assert.Equal(t, map[string]string{"Rent": "COP", "Loan": "USD"}, currencies)

	// groceries need a date range
	_, err = svc.DuplicatePeriod(ctx, f.period.ID, models.DuplicateInput{Name: "May"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestAdminService_Platforms(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.admin()

	rows, err := svc.PeriodPlatforms(ctx, f.period.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	enabled := map[string]bool{}
	for _, r := range rows {
		enabled[r.ID] = r.Enabled
	}
	assert.Equal(t, map[string]bool{"cb": true, "sc": true, "lj": false}, enabled)

	_, err = svc.EnablePlatform(ctx, f.period.ID, "lj", models.LinkInput{TrafficBots: true})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	link, err := svc.EnablePlatform(ctx, f.period.ID, "lj", models.LinkInput{Premium: "premium_25"})
	require.NoError(t, err)
	assert.Equal(t, models.Premium25, link.Premium)
	assert.Equal(t, "LiveJasmin", link.Platform.Name)

	require.NoError(t, svc.DisablePlatform(ctx, f.period.ID, "sc"))
	links, err := f.store.ListLinks(ctx, f.period.ID)
	require.NoError(t, err)
	assert.Len(t, links, 2)

	_, err = svc.EnablePlatform(ctx, f.period.ID, "nope", models.LinkInput{})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAdminService_ClearingTrafficFlagsDropsSurcharges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.admin()

	_, err := f.production().Save(ctx, f.period.ID, []models.ProductionInputEntry{{PlatformID: "cb", Total: 7000}})
	require.NoError(t, err)
	report, err := f.payout().Report(ctx, f.period.ID)
	require.NoError(t, err)
	assert.Equal(t, 150000.0, report.Breakdown.TotalDiscounts)

	_, err = svc.EnablePlatform(ctx, f.period.ID, "cb", models.LinkInput{})
	require.NoError(t, err)

	discounts, err := svc.ListDiscounts(ctx, f.period.ID)
	require.NoError(t, err)
	assert.Empty(t, discounts)
	report, err = f.payout().Report(ctx, f.period.ID)
	require.NoError(t, err)
	assert.Zero(t, report.Breakdown.TotalDiscounts)
	assert.Empty(t, report.Breakdown.Discounts)
}

func TestAdminService_DisablePlatformDropsSurcharges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.UpsertDiscount(ctx, &models.DiscountEntry{PeriodID: f.period.ID, Source: models.DiscountManual, Name: "Rent", Amount: 100000}))

	_, err := f.production().Save(ctx, f.period.ID, []models.ProductionInputEntry{{PlatformID: "cb", Total: 7000}})
	require.NoError(t, err)
	require.NoError(t, f.admin().DisablePlatform(ctx, f.period.ID, "cb"))

	discounts, err := f.store.ListDiscounts(ctx, f.period.ID)
	require.NoError(t, err)
	require.Len(t, discounts, 1)
	assert.Equal(t, models.DiscountManual, discounts[0].Source)

	report, err := f.payout().Report(ctx, f.period.ID)
	require.NoError(t, err)
	assert.Equal(t, 100000.0, report.Breakdown.TotalDiscounts)
}

func TestAdminService_UpsertPlatform(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.admin()

	p, err := svc.UpsertPlatform(ctx, "bc", models.PlatformInput{Name: "BongaCams", Currency: "tokens", UnitToUsd: 0.02, HasTraffic: true})
	require.NoError(t, err)
	assert.Equal(t, models.CurrencyToken, p.Currency)

	_, err = svc.UpsertPlatform(ctx, "bc", models.PlatformInput{Name: "BongaCams", Currency: "TOKEN", UnitToUsd: 0})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = svc.UpsertPlatform(ctx, "bc", models.PlatformInput{Name: "BongaCams", Currency: "GBP", UnitToUsd: 1})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	all, err := svc.ListPlatforms(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestAdminService_Discounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.admin()

	d, err := svc.CreateDiscount(ctx, f.period.ID, models.DiscountInput{Name: "Rent", Amount: 100000})
	require.NoError(t, err)
	assert.Equal(t, "COP", d.Currency)
	assert.True(t, d.Editable)

	_, err = svc.CreateDiscount(ctx, f.period.ID, models.DiscountInput{Name: "Credit", Amount: -5})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	updated, err := svc.UpdateDiscountAmount(ctx, d.ID, testutil.Float(90000))
	require.NoError(t, err)
	assert.Equal(t, 90000.0, updated.Amount)
	assert.Equal(t, f.period.ID, updated.PeriodID)

	_, err = svc.UpdateDiscountAmount(ctx, d.ID, testutil.Float(-1))
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	_, err = svc.UpdateDiscountAmount(ctx, d.ID, nil)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	_, err = svc.UpdateDiscountAmount(ctx, "missing", testutil.Float(1))
	assert.ErrorIs(t, err, models.ErrNotFound)

	traffic := &models.DiscountEntry{PeriodID: f.period.ID, Key: models.TrafficDiscountKey("cb", "bots"), Source: models.DiscountTraffic, Amount: 75000}
	require.NoError(t, f.store.UpsertDiscount(ctx, traffic))
	_, err = svc.UpdateDiscountAmount(ctx, traffic.ID, testutil.Float(1))
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	list, err := svc.ListDiscounts(ctx, f.period.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
