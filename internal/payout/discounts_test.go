package payout

import (
	"talentpay/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrafficUnits(t *testing.T) {
	assert.Equal(t, 3000.0, TrafficUnits(models.ProductionEntry{Weeks: [3]float64{1000, 2000, 0}}, 3))
	assert.Equal(t, 700.0, TrafficUnits(models.ProductionEntry{Total: 700}, 3))
	assert.Equal(t, 50.0, TrafficUnits(models.ProductionEntry{Weeks: [3]float64{-5, 0, 50}, Total: 9}, 3))
}

func TestTrafficUnits_OnlyConfiguredWeeks(t *testing.T) {
	prod := models.ProductionEntry{Weeks: [3]float64{1000, 2000, 5000}}
	assert.Equal(t, 3000.0, TrafficUnits(prod, 2))
	assert.Equal(t, 1000.0, TrafficUnits(prod, 1))
	assert.Equal(t, 8000.0, TrafficUnits(prod, 7))
	assert.Zero(t, TrafficUnits(prod, 0))
}

func TestEngine_TrafficDiscountsIgnoreWeeksBeyondPeriod(t *testing.T) {
	e := NewEngineWithTiers(nil, "")
	link := tokenLink("sc", models.PremiumNone)
	link.Platform.Weekly = true
	link.TrafficBots = true
	prod := map[string]models.ProductionEntry{"sc": {Weeks: [3]float64{1000, 1500, 9000}}}

	out := e.TrafficDiscounts(models.Period{ID: "p1", WeeksCount: 2}, []models.PlatformLink{link}, prod)
	require.Len(t, out, 1)
	assert.Zero(t, out[0].Amount)

	out = e.TrafficDiscounts(models.Period{ID: "p1", WeeksCount: 3}, []models.PlatformLink{link}, prod)
	require.Len(t, out, 1)
	assert.Equal(t, 150000.0, out[0].Amount)
}

func TestEngine_TrafficDiscounts(t *testing.T) {
	e := NewEngineWithTiers(nil, "COP")
	link := tokenLink("sc", models.PremiumNone)
	link.Platform.Name = "Stripchat"
	link.TrafficBots = true
	link.TrafficMassive = true
	link.TrafficPositioning = true

	out := e.TrafficDiscounts(models.Period{ID: "p1"}, []models.PlatformLink{link, tokenLink("plain", models.PremiumNone)},
		map[string]models.ProductionEntry{"sc": {Total: 4500}})

	require.Len(t, out, 3)
	assert.Equal(t, "traffic:sc:positioning", out[0].Key)
	assert.Equal(t, 60000.0, out[0].Amount)
	assert.Equal(t, "traffic:sc:bots", out[1].Key)
	assert.Equal(t, 75000.0, out[1].Amount)
	assert.Equal(t, "traffic:sc:massive", out[2].Key)
	assert.Equal(t, 50000.0, out[2].Amount)
	for _, d := range out {
		assert.Equal(t, models.DiscountTraffic, d.Source)
		assert.Equal(t, "COP", d.Currency)
		assert.Equal(t, "p1", d.PeriodID)
		assert.Contains(t, d.Name, "Stripchat")
		assert.False(t, d.Editable)
	}
}

func TestEngine_TrafficDiscountsLowVolume(t *testing.T) {
	e := NewEngineWithTiers(nil, "")
	link := tokenLink("sc", models.PremiumNone)
	link.TrafficBots = true
	out := e.TrafficDiscounts(models.Period{ID: "p1"}, []models.PlatformLink{link}, nil)
	require.Len(t, out, 1)
	assert.Zero(t, out[0].Amount)
}

func TestEngine_TrafficDiscountsAreStableAcrossRuns(t *testing.T) {
	e := NewEngineWithTiers(nil, "")
	link := tokenLink("sc", models.PremiumNone)
	link.TrafficMassive = true
	prod := map[string]models.ProductionEntry{"sc": {Total: 9000}}

	first := e.TrafficDiscounts(models.Period{ID: "p1"}, []models.PlatformLink{link}, prod)
	second := e.TrafficDiscounts(models.Period{ID: "p1"}, []models.PlatformLink{link}, prod)

	out := e.Compute(Input{Period: scenarioPeriod(), Discounts: append(first, second...)})
	assert.Equal(t, 100000.0, out.TotalDiscounts)
}

func TestEngine_LedgerDiscount(t *testing.T) {
	e := NewEngineWithTiers(nil, "")
	d := e.LedgerDiscount("p9", 12500)
	assert.Equal(t, "groceries:p9", d.Key)
	assert.Equal(t, models.DiscountLedger, d.Source)
	assert.Equal(t, 12500.0, d.Amount)
	assert.Equal(t, DefaultLocalCurrency, d.Currency)

	assert.Zero(t, e.LedgerDiscount("p9", -1).Amount)
}
