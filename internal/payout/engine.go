package payout

import (
	"math"
	"talentpay/internal/models"
	"talentpay/internal/structures"
)

const DefaultLocalCurrency = "COP"

// Input is an immutable snapshot of everything a payout depends on.
// Production is keyed by platform id.
type Input struct {
	Period     models.Period
	Links      []models.PlatformLink
	Production map[string]models.ProductionEntry
	Discounts  []models.DiscountEntry
}

type Engine struct {
	tiers    TierTable
	currency string
}

func NewEngine(conf *structures.Config) *Engine {
	return NewEngineWithTiers(TierTableFromConfig(conf.Discounts.Tiers), conf.Discounts.Currency)
}

func NewEngineWithTiers(tiers TierTable, currency string) *Engine {
	if tiers == nil {
		tiers = DefaultTierTable()
	}
	if currency == "" {
		currency = DefaultLocalCurrency
	}
	return &Engine{tiers: tiers, currency: currency}
}

func (e *Engine) Currency() string {
	return e.currency
}

// EffectiveUnitToUsd converts one native unit of the linked platform to USD.
// EUR platforms go through the period's EUR rate.
func EffectiveUnitToUsd(link models.PlatformLink, period models.Period) float64 {
	factor := link.Platform.UnitToUsd
	if math.IsNaN(factor) || math.IsInf(factor, 0) || factor <= 0 {
		factor = 1
	}
	if link.Platform.Currency == models.CurrencyEUR {
		return factor * rateOrDefault(period.EurToUsdRate)
	}
	return factor
}

// Compute turns a period snapshot into a payout breakdown. It never fails:
// malformed numbers are coerced to safe defaults.
func (e *Engine) Compute(in Input) models.PayoutBreakdown {
	usdToLocal := rateOrDefault(in.Period.UsdToLocalRate)
	percent := percentOf(in.Period.Percent)
	weeks := min(max(in.Period.WeeksCount, 0), models.MaxWeeks)

	out := models.PayoutBreakdown{
		Platforms: make([]models.PlatformBreakdown, 0, len(in.Links)),
	}
	for _, link := range in.Links {
		row := platformRow(link, in.Production[link.PlatformID], weeks, EffectiveUnitToUsd(link, in.Period))
		out.GrandUsd += row.Usd
		out.GrandTokens += row.Tokens
		out.Platforms = append(out.Platforms, row)
	}

	out.GrossLocal = finite(out.GrandUsd * usdToLocal * percent / 100)

	out.Discounts = Dedupe(in.Discounts)
	for _, d := range out.Discounts {
		out.TotalDiscounts += d.Amount
	}
	out.TotalDiscounts = finite(out.TotalDiscounts)
	out.NetPayout = out.GrossLocal - out.TotalDiscounts

	out.ShortfallLocal = finite(in.Period.Goal) - out.NetPayout
	out.ShortfallTokens, out.ShortfallTokensDefined = shortfallTokens(out.ShortfallLocal, percent, usdToLocal)
	out.AvgTokensPerHour = tokensPerHour(out.GrandTokens, in.Period.HoursWorked)

	return out
}

func platformRow(link models.PlatformLink, prod models.ProductionEntry, weeks int, unitToUsd float64) models.PlatformBreakdown {
	row := models.PlatformBreakdown{
		PlatformID: link.PlatformID,
		Name:       link.Platform.Name,
		Weekly:     link.Platform.Weekly,
		Premium:    link.Premium,
		UnitToUsd:  unitToUsd,
	}
	pct := link.Premium.Percent()

	if link.Platform.Weekly {
		if weeks == 0 {
			return row
		}
		row.Weeks = make([]models.WeekBreakdown, 0, weeks)
		for i := 0; i < weeks; i++ {
			gross := nonNegative(prod.Weeks[i])
			res := ApplyPremium(gross, pct)
			usd := res.Net * unitToUsd
			row.Weeks = append(row.Weeks, models.WeekBreakdown{
				Week:      i + 1,
				Gross:     gross,
				Deduction: res.Deduction,
				Net:       res.Net,
				Usd:       usd,
				Tokens:    toTokens(usd),
			})
			row.Gross += gross
		}
	} else {
		row.Gross = nonNegative(prod.Total)
	}

	res := ApplyPremium(row.Gross, pct)
	row.Deduction = res.Deduction
	row.Net = res.Net
	row.Usd = finite(res.Net * unitToUsd)
	row.Tokens = toTokens(row.Usd)
	return row
}

// shortfallTokens inverts the split and conversion chain. The bool is false
// when percent or rate is zero and the inversion has no meaning.
func shortfallTokens(shortfall, percent, usdToLocal float64) (int64, bool) {
	if percent <= 0 || usdToLocal <= 0 {
		return 0, false
	}
	perToken := percent * usdToLocal * UsdPerToken / 100
	raw := finite(shortfall / perToken)
	switch {
	case raw > 0:
		return int64(math.Ceil(raw)), true
	case raw < 0:
		return int64(math.Floor(raw)), true
	default:
		return 0, true
	}
}

func tokensPerHour(tokens int64, hours *float64) *float64 {
	if hours == nil {
		return nil
	}
	h := finite(*hours)
	if h <= 0 {
		return nil
	}
	avg := float64(tokens) / h
	return &avg
}

// Dedupe keeps the first discount of every key and coerces amounts to
// finite numbers. Entries without a key are always kept.
func Dedupe(entries []models.DiscountEntry) []models.DiscountEntry {
	out := make([]models.DiscountEntry, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, d := range entries {
		if d.Key != "" {
			if _, ok := seen[d.Key]; ok {
				continue
			}
			seen[d.Key] = struct{}{}
		}
		d.Amount = finite(d.Amount)
		out = append(out, d)
	}
	return out
}
