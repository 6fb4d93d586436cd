package services

import (
	"context"
	"fmt"
	"math"
	"talentpay/internal/models"
	"talentpay/internal/payout"
	"talentpay/internal/providers"
	"talentpay/internal/storage/interfaces"
)

type ProductionServiceInterface interface {
	Save(ctx context.Context, periodID string, entries []models.ProductionInputEntry) ([]models.ProductionEntry, error)
}

type ProductionService struct {
	repo   interfaces.RepositoryInterface
	engine *payout.Engine
	logger providers.Logger
}

func NewProductionService(repo interfaces.RepositoryInterface, engine *payout.Engine, logger providers.Logger) ProductionServiceInterface {
	return &ProductionService{repo: repo, engine: engine, logger: logger}
}

// Save stores the reported production of a period and refreshes the traffic
// surcharges derived from it. Weekly platforms keep only the weeks of the
// period; the others keep only the total.
func (s *ProductionService) Save(ctx context.Context, periodID string, entries []models.ProductionInputEntry) ([]models.ProductionEntry, error) {
	period, err := s.repo.GetPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}
	links, err := s.repo.ListLinks(ctx, periodID)
	if err != nil {
		return nil, err
	}

	linked := make(map[string]models.PlatformLink, len(links))
	for _, l := range links {
		linked[l.PlatformID] = l
	}

	weeks := clampWeeks(period.WeeksCount)
	rows := make([]models.ProductionEntry, 0, len(entries))
	for _, in := range entries {
		link, ok := linked[in.PlatformID]
		if !ok {
			return nil, fmt.Errorf("platform %q is not enabled for period %s: %w", in.PlatformID, periodID, models.ErrInvalidInput)
		}
		if len(in.Weeks) > models.MaxWeeks {
			return nil, fmt.Errorf("platform %q: at most %d weeks: %w", in.PlatformID, models.MaxWeeks, models.ErrInvalidInput)
		}

		row := models.ProductionEntry{PeriodID: periodID, PlatformID: in.PlatformID}
		if link.Platform.Weekly {
			for i := 0; i < weeks && i < len(in.Weeks); i++ {
				row.Weeks[i] = units(in.Weeks[i])
			}
		} else {
			row.Total = units(in.Total)
		}
		rows = append(rows, row)
	}

	for i := range rows {
		if err := s.repo.UpsertProduction(ctx, &rows[i]); err != nil {
			return nil, err
		}
	}

	if err := s.refreshTrafficDiscounts(ctx, period, links); err != nil {
		return nil, err
	}
	s.logger.Infof(providers.TypePost, "Saved %d production rows for period %s", len(rows), periodID)
	return rows, nil
}

// refreshTrafficDiscounts persists the non-zero surcharges under their
// stable keys, so repeated saves update rather than duplicate them. A
// surcharge that fell to a zero tier is removed.
func (s *ProductionService) refreshTrafficDiscounts(ctx context.Context, period *models.Period, links []models.PlatformLink) error {
	stored, err := s.repo.ListProduction(ctx, period.ID)
	if err != nil {
		return err
	}
	production := make(map[string]models.ProductionEntry, len(stored))
	for _, e := range stored {
		production[e.PlatformID] = e
	}

	for _, d := range s.engine.TrafficDiscounts(*period, links, production) {
		if d.Amount <= 0 {
			if err := s.repo.DeleteDiscount(ctx, period.ID, d.Key); err != nil {
				return fmt.Errorf("drop traffic discount %s: %w", d.Key, err)
			}
			continue
		}
		if err := s.repo.UpsertDiscount(ctx, &d); err != nil {
			return fmt.Errorf("store traffic discount %s: %w", d.Key, err)
		}
	}
	return nil
}

func units(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func clampWeeks(n int) int {
	return min(max(n, 0), models.MaxWeeks)
}
