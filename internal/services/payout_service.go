package services

import (
	"context"
	"errors"
	"fmt"
	"talentpay/internal/ledger"
	"talentpay/internal/models"
	"talentpay/internal/payout"
	"talentpay/internal/providers"
	"talentpay/internal/storage/interfaces"

	"github.com/sourcegraph/conc/pool"
)

type PayoutServiceInterface interface {
	Report(ctx context.Context, periodID string) (*models.PayoutReport, error)
	Groceries(ctx context.Context, periodID string) (models.LedgerResult, error)
	// Authorize returns the period when identity may read and edit it.
	Authorize(ctx context.Context, identity models.Identity, periodID string) (*models.Period, error)
	// OwnPeriods lists the periods of the talent bound to identity.
	OwnPeriods(ctx context.Context, identity models.Identity) (*models.Talent, []models.Period, error)
}

// PayoutService is the single place where stored records, the grocery
// ledger and the payout engine meet.
type PayoutService struct {
	repo   interfaces.RepositoryInterface
	ledger ledger.ClientInterface
	engine *payout.Engine
	logger providers.Logger
}

func NewPayoutService(repo interfaces.RepositoryInterface, ledgerClient ledger.ClientInterface, engine *payout.Engine, logger providers.Logger) PayoutServiceInterface {
	return &PayoutService{
		repo:   repo,
		ledger: ledgerClient,
		engine: engine,
		logger: logger,
	}
}

type periodRecords struct {
	talent     *models.Talent
	links      []models.PlatformLink
	production []models.ProductionEntry
	stored     []models.DiscountEntry
	ledger     float64
}

func (s *PayoutService) Report(ctx context.Context, periodID string) (*models.PayoutReport, error) {
	period, err := s.repo.GetPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}

	rec, err := s.load(ctx, period)
	if err != nil {
		return nil, err
	}

	production := make(map[string]models.ProductionEntry, len(rec.production))
	for _, e := range rec.production {
		production[e.PlatformID] = e
	}

	discounts := s.engine.TrafficDiscounts(*period, rec.links, production)
	if rec.ledger > 0 {
		discounts = append(discounts, s.engine.LedgerDiscount(period.ID, rec.ledger))
	}
	for _, d := range rec.stored {
		// traffic surcharges always follow the links' current flags
		if d.Source == models.DiscountTraffic {
			continue
		}
		discounts = append(discounts, d)
	}

	breakdown := s.engine.Compute(payout.Input{
		Period:     *period,
		Links:      rec.links,
		Production: production,
		Discounts:  discounts,
	})

	return &models.PayoutReport{Period: *period, Talent: rec.talent, Breakdown: breakdown}, nil
}

// load reads everything a report needs besides the period itself. The
// reads are independent, so they run concurrently and the first failure
// cancels the rest.
func (s *PayoutService) load(ctx context.Context, period *models.Period) (*periodRecords, error) {
	rec := &periodRecords{}
	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()

	p.Go(func(ctx context.Context) error {
		talent, err := s.repo.GetTalent(ctx, period.TalentID)
		if err != nil {
			return fmt.Errorf("talent of period %s: %w", period.ID, err)
		}
		rec.talent = talent
		rec.ledger = s.ledgerTotal(ctx, period, talent)
		return nil
	})
	p.Go(func(ctx context.Context) error {
		links, err := s.repo.ListLinks(ctx, period.ID)
		rec.links = links
		return err
	})
	p.Go(func(ctx context.Context) error {
		production, err := s.repo.ListProduction(ctx, period.ID)
		rec.production = production
		return err
	})
	p.Go(func(ctx context.Context) error {
		stored, err := s.repo.ListDiscounts(ctx, period.ID)
		rec.stored = stored
		return err
	})

	if err := p.Wait(); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *PayoutService) ledgerTotal(ctx context.Context, period *models.Period, talent *models.Talent) float64 {
	if !period.GroceriesEnabled || !s.ledger.IsEnabled() {
		return 0
	}
	from, to, ok := period.LedgerRange()
	if !ok {
		s.logger.Warnf(providers.TypeLedger, "Period %s has groceries enabled but no date range", period.ID)
		return 0
	}
	return s.ledger.FetchTotal(ctx, talent.DisplayName, from, to)
}

func (s *PayoutService) Groceries(ctx context.Context, periodID string) (models.LedgerResult, error) {
	empty := models.LedgerResult{Items: []models.GroceryItem{}}

	period, err := s.repo.GetPeriod(ctx, periodID)
	if err != nil {
		return empty, err
	}
	if !period.GroceriesEnabled || !s.ledger.IsEnabled() {
		return empty, nil
	}
	from, to, ok := period.LedgerRange()
	if !ok {
		return empty, nil
	}
	talent, err := s.repo.GetTalent(ctx, period.TalentID)
	if err != nil {
		return empty, err
	}
	return s.ledger.Fetch(ctx, talent.DisplayName, from, to), nil
}

func (s *PayoutService) Authorize(ctx context.Context, identity models.Identity, periodID string) (*models.Period, error) {
	period, err := s.repo.GetPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if identity.IsAdmin() {
		return period, nil
	}

	talent, err := s.ownTalent(ctx, identity)
	if err != nil {
		return nil, err
	}
	if talent.ID != period.TalentID {
		return nil, fmt.Errorf("period %s: %w", periodID, models.ErrForbidden)
	}
	return period, nil
}

func (s *PayoutService) OwnPeriods(ctx context.Context, identity models.Identity) (*models.Talent, []models.Period, error) {
	talent, err := s.ownTalent(ctx, identity)
	if err != nil {
		return nil, nil, err
	}
	periods, err := s.repo.ListPeriods(ctx, talent.ID)
	if err != nil {
		return nil, nil, err
	}
	return talent, periods, nil
}

// ownTalent resolves the talent record bound to a login. A login without
// a talent record has nothing to see.
func (s *PayoutService) ownTalent(ctx context.Context, identity models.Identity) (*models.Talent, error) {
	if identity.UserID == "" {
		return nil, models.ErrForbidden
	}
	talent, err := s.repo.GetTalentByUserID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("user %s has no talent record: %w", identity.UserID, models.ErrForbidden)
		}
		return nil, err
	}
	return talent, nil
}
