package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"talentpay/internal/models"
	"talentpay/internal/payout"
	"talentpay/internal/providers"
	"talentpay/internal/storage/interfaces"
	"time"
)

type AdminServiceInterface interface {
	ListTalents(ctx context.Context, q models.TalentQuery) (models.TalentPage, error)
	CreateTalent(ctx context.Context, in models.TalentInput) (*models.Talent, error)
	SetTalentActive(ctx context.Context, id string, active bool) error
	SetTalentPercent(ctx context.Context, id string, percent *float64) error
	DeleteTalent(ctx context.Context, id string) error

	ListPeriods(ctx context.Context, talentID string) ([]models.Period, error)
	CreatePeriod(ctx context.Context, talentID string, in models.PeriodInput) (*models.Period, error)
	UpdatePeriod(ctx context.Context, id string, in models.PeriodInput) (*models.Period, error)
	UpdateSettings(ctx context.Context, id string, settings models.PeriodSettings) (*models.Period, error)
	DuplicatePeriod(ctx context.Context, id string, in models.DuplicateInput) (*models.Period, error)
	DeletePeriod(ctx context.Context, id string) error

	ListPlatforms(ctx context.Context) ([]models.Platform, error)
	UpsertPlatform(ctx context.Context, id string, in models.PlatformInput) (*models.Platform, error)
	PeriodPlatforms(ctx context.Context, periodID string) ([]models.LinkedPlatform, error)
	EnablePlatform(ctx context.Context, periodID, platformID string, in models.LinkInput) (*models.PlatformLink, error)
	DisablePlatform(ctx context.Context, periodID, platformID string) error

	ListDiscounts(ctx context.Context, periodID string) ([]models.DiscountEntry, error)
	CreateDiscount(ctx context.Context, periodID string, in models.DiscountInput) (*models.DiscountEntry, error)
	UpdateDiscountAmount(ctx context.Context, id string, amount *float64) (*models.DiscountEntry, error)
}

type AdminService struct {
	repo   interfaces.RepositoryInterface
	engine *payout.Engine
	logger providers.Logger
}

func NewAdminService(repo interfaces.RepositoryInterface, engine *payout.Engine, logger providers.Logger) AdminServiceInterface {
	return &AdminService{repo: repo, engine: engine, logger: logger}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), models.ErrInvalidInput)
}

// --- talents ---

func (s *AdminService) ListTalents(ctx context.Context, q models.TalentQuery) (models.TalentPage, error) {
	return s.repo.ListTalents(ctx, q.Normalize())
}

func (s *AdminService) CreateTalent(ctx context.Context, in models.TalentInput) (*models.Talent, error) {
	if err := models.Validate(&in); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.DisplayName)
	if name == "" {
		return nil, invalid("display name is empty")
	}

	percent := float64(models.DefaultTalentPercent)
	if in.Percent != nil {
		p, err := checkPercent(*in.Percent)
		if err != nil {
			return nil, err
		}
		percent = p
	}

	if in.UserID != "" {
		if _, err := s.repo.GetTalentByUserID(ctx, in.UserID); err == nil {
			return nil, invalid("user %s already has a talent record", in.UserID)
		}
	}

	talent := &models.Talent{
		DisplayName:    name,
		UserID:         in.UserID,
		PercentDefault: &percent,
		Active:         true,
	}
	if err := s.repo.CreateTalent(ctx, talent); err != nil {
		return nil, err
	}
	s.logger.Infof(providers.TypePost, "Created talent %s (%s)", talent.ID, talent.DisplayName)
	return talent, nil
}

func (s *AdminService) SetTalentActive(ctx context.Context, id string, active bool) error {
	return s.repo.SetTalentActive(ctx, id, active)
}

func (s *AdminService) SetTalentPercent(ctx context.Context, id string, percent *float64) error {
	if percent != nil {
		p, err := checkPercent(*percent)
		if err != nil {
			return err
		}
		percent = &p
	}
	return s.repo.SetTalentPercent(ctx, id, percent)
}

func (s *AdminService) DeleteTalent(ctx context.Context, id string) error {
	if err := s.repo.DeleteTalent(ctx, id); err != nil {
		return err
	}
	s.logger.Infof(providers.TypePost, "Deleted talent %s", id)
	return nil
}

// --- periods ---

func (s *AdminService) ListPeriods(ctx context.Context, talentID string) ([]models.Period, error) {
	if _, err := s.repo.GetTalent(ctx, talentID); err != nil {
		return nil, err
	}
	return s.repo.ListPeriods(ctx, talentID)
}

func (s *AdminService) CreatePeriod(ctx context.Context, talentID string, in models.PeriodInput) (*models.Period, error) {
	talent, err := s.repo.GetTalent(ctx, talentID)
	if err != nil {
		return nil, err
	}

	period := &models.Period{TalentID: talentID, Type: models.PeriodTypeCustom, State: "open"}
	if in.Percent == nil {
		in.Percent = talent.PercentDefault
	}
	if in.Percent == nil {
		p := float64(models.DefaultTalentPercent)
		in.Percent = &p
	}
	if err := applyPeriodInput(period, in); err != nil {
		return nil, err
	}

	if err := s.repo.CreatePeriod(ctx, period); err != nil {
		return nil, err
	}
	s.logger.Infof(providers.TypePost, "Created period %s for talent %s", period.ID, talentID)
	return period, nil
}

func (s *AdminService) UpdatePeriod(ctx context.Context, id string, in models.PeriodInput) (*models.Period, error) {
	period, err := s.repo.GetPeriod(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Percent == nil {
		in.Percent = period.Percent
	}
	if err := applyPeriodInput(period, in); err != nil {
		return nil, err
	}
	if err := s.repo.UpdatePeriod(ctx, period); err != nil {
		return nil, err
	}
	return period, nil
}

func (s *AdminService) UpdateSettings(ctx context.Context, id string, settings models.PeriodSettings) (*models.Period, error) {
	if settings.Empty() {
		return nil, invalid("no settings to update")
	}
	if settings.Percent != nil {
		p, err := checkPercent(*settings.Percent)
		if err != nil {
			return nil, err
		}
		settings.Percent = &p
	}
	for name, v := range map[string]*float64{
		"usd_to_local_rate": settings.UsdToLocalRate,
		"eur_to_usd_rate":   settings.EurToUsdRate,
		"goal":              settings.Goal,
		"hours_worked":      settings.HoursWorked,
	} {
		if err := checkNonNegative(name, v); err != nil {
			return nil, err
		}
	}

	if err := s.repo.UpdatePeriodSettings(ctx, id, settings); err != nil {
		return nil, err
	}
	return s.repo.GetPeriod(ctx, id)
}

// DuplicatePeriod copies a period with its platform links and manual
// discounts. Production is not copied; the new period starts empty.
func (s *AdminService) DuplicatePeriod(ctx context.Context, id string, in models.DuplicateInput) (*models.Period, error) {
	if err := models.Validate(&in); err != nil {
		return nil, err
	}
	source, err := s.repo.GetPeriod(ctx, id)
	if err != nil {
		return nil, err
	}
	links, err := s.repo.ListLinks(ctx, id)
	if err != nil {
		return nil, err
	}
	discounts, err := s.repo.ListDiscounts(ctx, id)
	if err != nil {
		return nil, err
	}

	copied := models.Period{
		TalentID:         source.TalentID,
		Name:             strings.TrimSpace(in.Name),
		Type:             source.Type,
		State:            "open",
		WeeksCount:       source.WeeksCount,
		Percent:          source.Percent,
		UsdToLocalRate:   source.UsdToLocalRate,
		EurToUsdRate:     source.EurToUsdRate,
		Goal:             source.Goal,
		GroceriesEnabled: source.GroceriesEnabled,
	}
	if in.WeeksCount != 0 {
		copied.WeeksCount = periodWeeks(in.WeeksCount)
	}
	if in.Percent != nil {
		p, err := checkPercent(*in.Percent)
		if err != nil {
			return nil, err
		}
		copied.Percent = &p
	}
	if copied.StartDate, copied.EndDate, err = parseRange(in.StartDate, in.EndDate, copied.GroceriesEnabled); err != nil {
		return nil, err
	}

	if err := s.repo.CreatePeriod(ctx, &copied); err != nil {
		return nil, err
	}

	for _, l := range links {
		l.PeriodID = copied.ID
		if err := s.repo.UpsertLink(ctx, &l); err != nil {
			return nil, fmt.Errorf("copy link %s: %w", l.PlatformID, err)
		}
	}

	for _, d := range payout.Dedupe(discounts) {
		if d.Source != models.DiscountManual {
			continue
		}
		d.ID, d.Key, d.CreatedAt, d.PeriodID = "", "", nil, copied.ID
		if err := s.repo.UpsertDiscount(ctx, &d); err != nil {
			return nil, fmt.Errorf("copy discount %q: %w", d.Name, err)
		}
	}

	s.logger.Infof(providers.TypePost, "Duplicated period %s into %s (%d links)", id, copied.ID, len(links))
	return &copied, nil
}

func (s *AdminService) DeletePeriod(ctx context.Context, id string) error {
	if err := s.repo.DeletePeriod(ctx, id); err != nil {
		return err
	}
	s.logger.Infof(providers.TypePost, "Deleted period %s", id)
	return nil
}

// --- platforms ---

func (s *AdminService) ListPlatforms(ctx context.Context) ([]models.Platform, error) {
	return s.repo.ListPlatforms(ctx)
}

func (s *AdminService) UpsertPlatform(ctx context.Context, id string, in models.PlatformInput) (*models.Platform, error) {
	if err := models.Validate(&in); err != nil {
		return nil, err
	}
	if math.IsNaN(in.UnitToUsd) || math.IsInf(in.UnitToUsd, 0) || in.UnitToUsd <= 0 {
		return nil, invalid("unit_to_usd must be positive")
	}
	platform := &models.Platform{
		ID:         id,
		Name:       strings.TrimSpace(in.Name),
		Currency:   models.ParseCurrency(in.Currency),
		UnitToUsd:  in.UnitToUsd,
		Weekly:     in.Weekly,
		HasTraffic: in.HasTraffic,
	}
	if err := s.repo.UpsertPlatform(ctx, platform); err != nil {
		return nil, err
	}
	return platform, nil
}

// PeriodPlatforms lists the whole catalog with the link state of one period.
func (s *AdminService) PeriodPlatforms(ctx context.Context, periodID string) ([]models.LinkedPlatform, error) {
	if _, err := s.repo.GetPeriod(ctx, periodID); err != nil {
		return nil, err
	}
	catalog, err := s.repo.ListPlatforms(ctx)
	if err != nil {
		return nil, err
	}
	links, err := s.repo.ListLinks(ctx, periodID)
	if err != nil {
		return nil, err
	}

	byPlatform := make(map[string]models.PlatformLink, len(links))
	for _, l := range links {
		byPlatform[l.PlatformID] = l
	}

	out := make([]models.LinkedPlatform, 0, len(catalog))
	for _, p := range catalog {
		row := models.LinkedPlatform{Platform: p}
		if l, ok := byPlatform[p.ID]; ok {
			row.Enabled = true
			row.Link = &l
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *AdminService) EnablePlatform(ctx context.Context, periodID, platformID string, in models.LinkInput) (*models.PlatformLink, error) {
	if err := models.Validate(&in); err != nil {
		return nil, err
	}
	platform, err := s.repo.GetPlatform(ctx, platformID)
	if err != nil {
		return nil, err
	}
	if !platform.HasTraffic && (in.TrafficBots || in.TrafficMassive || in.TrafficPositioning) {
		return nil, invalid("platform %s has no traffic options", platformID)
	}

	link := &models.PlatformLink{
		PeriodID:           periodID,
		PlatformID:         platformID,
		Premium:            models.ParsePremiumTier(in.Premium),
		TrafficBots:        in.TrafficBots,
		TrafficMassive:     in.TrafficMassive,
		TrafficPositioning: in.TrafficPositioning,
	}
	if err := s.repo.UpsertLink(ctx, link); err != nil {
		return nil, err
	}
	cleared := map[payout.FlagType]bool{
		payout.FlagBots:        !link.TrafficBots,
		payout.FlagMassive:     !link.TrafficMassive,
		payout.FlagPositioning: !link.TrafficPositioning,
	}
	if err := s.dropTrafficDiscounts(ctx, periodID, platformID, cleared); err != nil {
		return nil, err
	}
	return link, nil
}

func (s *AdminService) DisablePlatform(ctx context.Context, periodID, platformID string) error {
	if _, err := s.repo.GetPeriod(ctx, periodID); err != nil {
		return err
	}
	if err := s.repo.DeleteLink(ctx, periodID, platformID); err != nil {
		return err
	}
	return s.dropTrafficDiscounts(ctx, periodID, platformID, map[payout.FlagType]bool{
		payout.FlagBots:        true,
		payout.FlagMassive:     true,
		payout.FlagPositioning: true,
	})
}

// dropTrafficDiscounts removes the persisted surcharges of the flags marked
// true for one platform of a period.
func (s *AdminService) dropTrafficDiscounts(ctx context.Context, periodID, platformID string, flags map[payout.FlagType]bool) error {
	for flag, drop := range flags {
		if !drop {
			continue
		}
		if err := s.repo.DeleteDiscount(ctx, periodID, models.TrafficDiscountKey(platformID, string(flag))); err != nil {
			return err
		}
	}
	return nil
}

// --- discounts ---

func (s *AdminService) ListDiscounts(ctx context.Context, periodID string) ([]models.DiscountEntry, error) {
	if _, err := s.repo.GetPeriod(ctx, periodID); err != nil {
		return nil, err
	}
	return s.repo.ListDiscounts(ctx, periodID)
}

func (s *AdminService) CreateDiscount(ctx context.Context, periodID string, in models.DiscountInput) (*models.DiscountEntry, error) {
	if err := models.Validate(&in); err != nil {
		return nil, err
	}
	if err := checkNonNegative("amount", &in.Amount); err != nil {
		return nil, err
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = s.engine.Currency()
	}

	d := &models.DiscountEntry{
		PeriodID: periodID,
		Source:   models.DiscountManual,
		Name:     strings.TrimSpace(in.Name),
		Currency: currency,
		Amount:   in.Amount,
	}
	if err := s.repo.UpsertDiscount(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// UpdateDiscountAmount edits a manual discount. Derived discounts are
// recomputed from their source and cannot be edited.
func (s *AdminService) UpdateDiscountAmount(ctx context.Context, id string, amount *float64) (*models.DiscountEntry, error) {
	if amount == nil {
		return nil, invalid("amount is required")
	}
	if err := checkNonNegative("amount", amount); err != nil {
		return nil, err
	}
	d, err := s.repo.GetDiscount(ctx, id)
	if err != nil {
		return nil, err
	}
	if !d.Editable {
		return nil, invalid("discount %s is not editable", id)
	}
	if err := s.repo.UpdateDiscountAmount(ctx, id, *amount); err != nil {
		return nil, err
	}
	d.Amount = *amount
	return d, nil
}

// --- input checks ---

func applyPeriodInput(p *models.Period, in models.PeriodInput) error {
	if err := models.Validate(&in); err != nil {
		return err
	}
	if in.Percent != nil {
		pct, err := checkPercent(*in.Percent)
		if err != nil {
			return err
		}
		p.Percent = &pct
	}
	for name, v := range map[string]*float64{
		"usd_to_local_rate": in.UsdToLocalRate,
		"eur_to_usd_rate":   in.EurToUsdRate,
		"goal":              &in.Goal,
	} {
		if err := checkNonNegative(name, v); err != nil {
			return err
		}
	}

	start, end, err := parseRange(in.StartDate, in.EndDate, in.GroceriesEnabled)
	if err != nil {
		return err
	}

	p.Name = strings.TrimSpace(in.Name)
	p.WeeksCount = periodWeeks(in.WeeksCount)
	p.UsdToLocalRate = in.UsdToLocalRate
	p.EurToUsdRate = in.EurToUsdRate
	p.Goal = in.Goal
	p.GroceriesEnabled = in.GroceriesEnabled
	p.StartDate, p.EndDate = start, end
	if in.State != "" {
		p.State = in.State
	}
	return nil
}

// periodWeeks clamps the number of weeks of a period to [1,3]. Zero means
// not given and selects the full three weeks.
func periodWeeks(n int) int {
	if n == 0 {
		return models.MaxWeeks
	}
	return min(max(n, models.MinWeeks), models.MaxWeeks)
}

func checkPercent(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, invalid("percent must be a number")
	}
	return min(max(v, 0), 100), nil
}

func checkNonNegative(name string, v *float64) error {
	if v == nil {
		return nil
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0 {
		return invalid("%s must be a non-negative number", name)
	}
	return nil
}

// parseRange parses the ledger date range of a period. Groceries need both
// dates; either way start must not be after end.
func parseRange(from, to string, required bool) (*time.Time, *time.Time, error) {
	start, err := parseDate("start_date", from)
	if err != nil {
		return nil, nil, err
	}
	end, err := parseDate("end_date", to)
	if err != nil {
		return nil, nil, err
	}
	if required && (start == nil || end == nil) {
		return nil, nil, invalid("groceries need start_date and end_date")
	}
	if start != nil && end != nil && start.After(*end) {
		return nil, nil, invalid("start_date %s is after end_date %s", from, to)
	}
	return start, end, nil
}

func parseDate(name, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return nil, invalid("%s must be YYYY-MM-DD", name)
	}
	return &t, nil
}
