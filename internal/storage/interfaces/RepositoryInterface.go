package interfaces

import (
	"context"
	"talentpay/internal/models"
)

type TalentRepository interface {
	ListTalents(ctx context.Context, q models.TalentQuery) (models.TalentPage, error)
	GetTalent(ctx context.Context, id string) (*models.Talent, error)
	GetTalentByUserID(ctx context.Context, userID string) (*models.Talent, error)
	CreateTalent(ctx context.Context, t *models.Talent) error
	SetTalentActive(ctx context.Context, id string, active bool) error
	SetTalentPercent(ctx context.Context, id string, percent *float64) error
	// DeleteTalent removes the talent together with all of its periods.
	DeleteTalent(ctx context.Context, id string) error
}

type PeriodRepository interface {
	// ListPeriods returns the periods of a talent, newest first.
	ListPeriods(ctx context.Context, talentID string) ([]models.Period, error)
	GetPeriod(ctx context.Context, id string) (*models.Period, error)
	CreatePeriod(ctx context.Context, p *models.Period) error
	UpdatePeriod(ctx context.Context, p *models.Period) error
	UpdatePeriodSettings(ctx context.Context, id string, s models.PeriodSettings) error
	// DeletePeriod cascades to links, production and discounts.
	DeletePeriod(ctx context.Context, id string) error
}

type PlatformRepository interface {
	ListPlatforms(ctx context.Context) ([]models.Platform, error)
	GetPlatform(ctx context.Context, id string) (*models.Platform, error)
	UpsertPlatform(ctx context.Context, p *models.Platform) error
}

type LinkRepository interface {
	// ListLinks returns the links of a period with their catalog entry
	// filled in.
	ListLinks(ctx context.Context, periodID string) ([]models.PlatformLink, error)
	UpsertLink(ctx context.Context, l *models.PlatformLink) error
	DeleteLink(ctx context.Context, periodID, platformID string) error
}

type ProductionRepository interface {
	ListProduction(ctx context.Context, periodID string) ([]models.ProductionEntry, error)
	UpsertProduction(ctx context.Context, e *models.ProductionEntry) error
}

type DiscountRepository interface {
	ListDiscounts(ctx context.Context, periodID string) ([]models.DiscountEntry, error)
	GetDiscount(ctx context.Context, id string) (*models.DiscountEntry, error)
	// UpsertDiscount inserts or replaces the discount with the same
	// (period, key). An empty key on a manual discount gets one derived
	// from the new id.
	UpsertDiscount(ctx context.Context, d *models.DiscountEntry) error
	UpdateDiscountAmount(ctx context.Context, id string, amount float64) error
	// DeleteDiscount removes the discount stored under (period, key). A
	// missing row is not an error.
	DeleteDiscount(ctx context.Context, periodID, key string) error
}

type RepositoryInterface interface {
	TalentRepository
	PeriodRepository
	PlatformRepository
	LinkRepository
	ProductionRepository
	DiscountRepository
	Ping(ctx context.Context) error
}
