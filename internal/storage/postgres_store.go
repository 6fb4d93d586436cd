package storage

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"talentpay/internal/models"
	"talentpay/internal/storage/interfaces"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

const pgForeignKeyViolation = "23503"

// PostgresStore implements the repositories with hand-written SQL over a
// pgx pool. Every call is independent; concurrent writers race and the last
// one wins.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

var _ interfaces.RepositoryInterface = (*PostgresStore)(nil)

func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// mapError turns driver errors into repository sentinels.
func mapError(err error, entity, id string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound(entity, id)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return fmt.Errorf("%s %s references a missing row: %w", entity, id, models.ErrNotFound)
	}
	return err
}

func expectRow(tag pgconn.CommandTag, entity, id string) error {
	if tag.RowsAffected() == 0 {
		return notFound(entity, id)
	}
	return nil
}

// --- talents ---

const talentColumns = `id, display_name, COALESCE(user_id, ''), percent_default, active, created_at`

func scanTalent(row pgx.Row) (models.Talent, error) {
	var t models.Talent
	err := row.Scan(&t.ID, &t.DisplayName, &t.UserID, &t.PercentDefault, &t.Active, &t.CreatedAt)
	return t, err
}

func (s *PostgresStore) ListTalents(ctx context.Context, q models.TalentQuery) (models.TalentPage, error) {
	q = q.Normalize()
	page := models.TalentPage{Items: []models.Talent{}, Page: q.Page, Size: q.Size}
	pattern := "%" + q.Search + "%"

	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM talents WHERE display_name ILIKE $1`, pattern).Scan(&page.Total)
	if err != nil {
		return page, err
	}

	rows, err := s.db.Query(ctx, `
        SELECT `+talentColumns+`
        FROM talents
        WHERE display_name ILIKE $1
        ORDER BY LOWER(display_name), id
        LIMIT $2 OFFSET $3
    `, pattern, q.Size, q.Offset())
	if err != nil {
		return page, err
	}
	defer rows.Close()

	for rows.Next() {
		t, err := scanTalent(rows)
		if err != nil {
			return page, err
		}
		page.Items = append(page.Items, t)
	}
	return page, rows.Err()
}

func (s *PostgresStore) GetTalent(ctx context.Context, id string) (*models.Talent, error) {
	t, err := scanTalent(s.db.QueryRow(ctx, `SELECT `+talentColumns+` FROM talents WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err, "talent", id)
	}
	return &t, nil
}

func (s *PostgresStore) GetTalentByUserID(ctx context.Context, userID string) (*models.Talent, error) {
	t, err := scanTalent(s.db.QueryRow(ctx, `SELECT `+talentColumns+` FROM talents WHERE user_id = $1`, userID))
	if err != nil {
		return nil, mapError(err, "talent for user", userID)
	}
	return &t, nil
}

func (s *PostgresStore) CreateTalent(ctx context.Context, t *models.Talent) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return s.db.QueryRow(ctx, `
        INSERT INTO talents (id, display_name, user_id, percent_default, active)
        VALUES ($1, $2, NULLIF($3, ''), $4, $5)
        RETURNING created_at
    `, t.ID, t.DisplayName, t.UserID, t.PercentDefault, t.Active).Scan(&t.CreatedAt)
}

func (s *PostgresStore) SetTalentActive(ctx context.Context, id string, active bool) error {
	tag, err := s.db.Exec(ctx, `UPDATE talents SET active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	return expectRow(tag, "talent", id)
}

func (s *PostgresStore) SetTalentPercent(ctx context.Context, id string, percent *float64) error {
	tag, err := s.db.Exec(ctx, `UPDATE talents SET percent_default = $2 WHERE id = $1`, id, percent)
	if err != nil {
		return err
	}
	return expectRow(tag, "talent", id)
}

func (s *PostgresStore) DeleteTalent(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM talents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectRow(tag, "talent", id)
}

// --- periods ---

const periodColumns = `id, talent_id, name, type, state, weeks_count, percent, usd_to_local_rate,
        eur_to_usd_rate, goal, hours_worked, groceries_enabled, start_date, end_date, created_at`

func scanPeriod(row pgx.Row) (models.Period, error) {
	var p models.Period
	err := row.Scan(&p.ID, &p.TalentID, &p.Name, &p.Type, &p.State, &p.WeeksCount, &p.Percent,
		&p.UsdToLocalRate, &p.EurToUsdRate, &p.Goal, &p.HoursWorked, &p.GroceriesEnabled,
		&p.StartDate, &p.EndDate, &p.CreatedAt)
	return p, err
}

func (s *PostgresStore) ListPeriods(ctx context.Context, talentID string) ([]models.Period, error) {
	rows, err := s.db.Query(ctx, `
        SELECT `+periodColumns+`
        FROM periods
        WHERE talent_id = $1
        ORDER BY created_at DESC, id
    `, talentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Period, 0)
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetPeriod(ctx context.Context, id string) (*models.Period, error) {
	p, err := scanPeriod(s.db.QueryRow(ctx, `SELECT `+periodColumns+` FROM periods WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err, "period", id)
	}
	return &p, nil
}

func (s *PostgresStore) CreatePeriod(ctx context.Context, p *models.Period) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	err := s.db.QueryRow(ctx, `
        INSERT INTO periods (id, talent_id, name, type, state, weeks_count, percent, usd_to_local_rate,
            eur_to_usd_rate, goal, hours_worked, groceries_enabled, start_date, end_date)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
        RETURNING created_at
    `, p.ID, p.TalentID, p.Name, p.Type, p.State, p.WeeksCount, p.Percent, p.UsdToLocalRate,
		p.EurToUsdRate, p.Goal, p.HoursWorked, p.GroceriesEnabled, p.StartDate, p.EndDate).Scan(&p.CreatedAt)
	return mapError(err, "talent", p.TalentID)
}

func (s *PostgresStore) UpdatePeriod(ctx context.Context, p *models.Period) error {
	tag, err := s.db.Exec(ctx, `
        UPDATE periods SET
            name = $2, type = $3, state = $4, weeks_count = $5, percent = $6, usd_to_local_rate = $7,
            eur_to_usd_rate = $8, goal = $9, hours_worked = $10, groceries_enabled = $11,
            start_date = $12, end_date = $13
        WHERE id = $1
    `, p.ID, p.Name, p.Type, p.State, p.WeeksCount, p.Percent, p.UsdToLocalRate, p.EurToUsdRate,
		p.Goal, p.HoursWorked, p.GroceriesEnabled, p.StartDate, p.EndDate)
	if err != nil {
		return err
	}
	return expectRow(tag, "period", p.ID)
}

func (s *PostgresStore) UpdatePeriodSettings(ctx context.Context, id string, settings models.PeriodSettings) error {
	tag, err := s.db.Exec(ctx, `
        UPDATE periods SET
            percent = COALESCE($2, percent),
            usd_to_local_rate = COALESCE($3, usd_to_local_rate),
            eur_to_usd_rate = COALESCE($4, eur_to_usd_rate),
            goal = COALESCE($5, goal),
            hours_worked = COALESCE($6, hours_worked)
        WHERE id = $1
    `, id, settings.Percent, settings.UsdToLocalRate, settings.EurToUsdRate, settings.Goal, settings.HoursWorked)
	if err != nil {
		return err
	}
	return expectRow(tag, "period", id)
}

func (s *PostgresStore) DeletePeriod(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM periods WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectRow(tag, "period", id)
}

// --- platforms ---

const platformColumns = `id, name, currency, unit_to_usd, weekly, has_traffic`

func scanPlatform(row pgx.Row) (models.Platform, error) {
	var p models.Platform
	var currency string
	err := row.Scan(&p.ID, &p.Name, &currency, &p.UnitToUsd, &p.Weekly, &p.HasTraffic)
	p.Currency = models.ParseCurrency(currency)
	return p, err
}

func (s *PostgresStore) ListPlatforms(ctx context.Context) ([]models.Platform, error) {
	rows, err := s.db.Query(ctx, `SELECT `+platformColumns+` FROM platforms ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Platform, 0)
	for rows.Next() {
		p, err := scanPlatform(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetPlatform(ctx context.Context, id string) (*models.Platform, error) {
	p, err := scanPlatform(s.db.QueryRow(ctx, `SELECT `+platformColumns+` FROM platforms WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err, "platform", id)
	}
	return &p, nil
}

func (s *PostgresStore) UpsertPlatform(ctx context.Context, p *models.Platform) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := s.db.Exec(ctx, `
        INSERT INTO platforms (id, name, currency, unit_to_usd, weekly, has_traffic)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (id) DO UPDATE SET
            name = EXCLUDED.name,
            currency = EXCLUDED.currency,
            unit_to_usd = EXCLUDED.unit_to_usd,
            weekly = EXCLUDED.weekly,
            has_traffic = EXCLUDED.has_traffic
    `, p.ID, p.Name, string(p.Currency), p.UnitToUsd, p.Weekly, p.HasTraffic)
	return err
}

// --- links ---

func (s *PostgresStore) ListLinks(ctx context.Context, periodID string) ([]models.PlatformLink, error) {
	rows, err := s.db.Query(ctx, `
        SELECT l.period_id, l.platform_id, l.premium, l.traffic_bots, l.traffic_massive, l.traffic_positioning,
            p.id, p.name, p.currency, p.unit_to_usd, p.weekly, p.has_traffic
        FROM period_platforms l
        JOIN platforms p ON p.id = l.platform_id
        WHERE l.period_id = $1
        ORDER BY p.name, p.id
    `, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.PlatformLink, 0)
	for rows.Next() {
		var l models.PlatformLink
		var premium, currency string
		err := rows.Scan(&l.PeriodID, &l.PlatformID, &premium, &l.TrafficBots, &l.TrafficMassive, &l.TrafficPositioning,
			&l.Platform.ID, &l.Platform.Name, &currency, &l.Platform.UnitToUsd, &l.Platform.Weekly, &l.Platform.HasTraffic)
		if err != nil {
			return nil, err
		}
		l.Premium = models.ParsePremiumTier(premium)
		l.Platform.Currency = models.ParseCurrency(currency)
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpsertLink(ctx context.Context, l *models.PlatformLink) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO period_platforms (period_id, platform_id, premium, traffic_bots, traffic_massive, traffic_positioning)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (period_id, platform_id) DO UPDATE SET
            premium = EXCLUDED.premium,
            traffic_bots = EXCLUDED.traffic_bots,
            traffic_massive = EXCLUDED.traffic_massive,
            traffic_positioning = EXCLUDED.traffic_positioning
    `, l.PeriodID, l.PlatformID, string(l.Premium), l.TrafficBots, l.TrafficMassive, l.TrafficPositioning)
	if err != nil {
		return mapError(err, "link", l.PeriodID+"/"+l.PlatformID)
	}
	platform, err := s.GetPlatform(ctx, l.PlatformID)
	if err != nil {
		return err
	}
	l.Platform = *platform
	return nil
}

func (s *PostgresStore) DeleteLink(ctx context.Context, periodID, platformID string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM period_platforms WHERE period_id = $1 AND platform_id = $2`, periodID, platformID)
	return err
}

// --- production ---

func (s *PostgresStore) ListProduction(ctx context.Context, periodID string) ([]models.ProductionEntry, error) {
	rows, err := s.db.Query(ctx, `
        SELECT period_id, platform_id, week1, week2, week3, total
        FROM production
        WHERE period_id = $1
        ORDER BY platform_id
    `, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.ProductionEntry, 0)
	for rows.Next() {
		var e models.ProductionEntry
		if err := rows.Scan(&e.PeriodID, &e.PlatformID, &e.Weeks[0], &e.Weeks[1], &e.Weeks[2], &e.Total); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpsertProduction(ctx context.Context, e *models.ProductionEntry) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO production (period_id, platform_id, week1, week2, week3, total)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (period_id, platform_id) DO UPDATE SET
            week1 = EXCLUDED.week1,
            week2 = EXCLUDED.week2,
            week3 = EXCLUDED.week3,
            total = EXCLUDED.total,
            updated_at = NOW()
    `, e.PeriodID, e.PlatformID, e.Weeks[0], e.Weeks[1], e.Weeks[2], e.Total)
	return mapError(err, "production", e.PeriodID+"/"+e.PlatformID)
}

// --- discounts ---

const discountColumns = `id, period_id, key, source, name, currency, amount, created_at`

func scanDiscount(row pgx.Row) (models.DiscountEntry, error) {
	var d models.DiscountEntry
	var source string
	err := row.Scan(&d.ID, &d.PeriodID, &d.Key, &source, &d.Name, &d.Currency, &d.Amount, &d.CreatedAt)
	d.Source = models.DiscountSource(source)
	return withEditable(d), err
}

func (s *PostgresStore) ListDiscounts(ctx context.Context, periodID string) ([]models.DiscountEntry, error) {
	rows, err := s.db.Query(ctx, `
        SELECT `+discountColumns+`
        FROM discounts
        WHERE period_id = $1
        ORDER BY created_at, id
    `, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.DiscountEntry, 0)
	for rows.Next() {
		d, err := scanDiscount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetDiscount(ctx context.Context, id string) (*models.DiscountEntry, error) {
	d, err := scanDiscount(s.db.QueryRow(ctx, `SELECT `+discountColumns+` FROM discounts WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err, "discount", id)
	}
	return &d, nil
}

func (s *PostgresStore) UpsertDiscount(ctx context.Context, d *models.DiscountEntry) error {
	id := uuid.NewString()
	if d.Key == "" {
		d.Key = models.ManualDiscountKey(id)
	}
	row := s.db.QueryRow(ctx, `
        INSERT INTO discounts (id, period_id, key, source, name, currency, amount)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (period_id, key) DO UPDATE SET
            source = EXCLUDED.source,
            name = EXCLUDED.name,
            currency = EXCLUDED.currency,
            amount = EXCLUDED.amount
        RETURNING `+discountColumns+`
    `, id, d.PeriodID, d.Key, string(d.Source), d.Name, d.Currency, d.Amount)

	stored, err := scanDiscount(row)
	if err != nil {
		return mapError(err, "period", d.PeriodID)
	}
	*d = stored
	return nil
}

func (s *PostgresStore) UpdateDiscountAmount(ctx context.Context, id string, amount float64) error {
	tag, err := s.db.Exec(ctx, `UPDATE discounts SET amount = $2 WHERE id = $1`, id, amount)
	if err != nil {
		return err
	}
	return expectRow(tag, "discount", id)
}

func (s *PostgresStore) DeleteDiscount(ctx context.Context, periodID, key string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM discounts WHERE period_id = $1 AND key = $2`, periodID, key)
	return err
}
