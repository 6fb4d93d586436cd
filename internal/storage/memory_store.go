package storage

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"talentpay/internal/models"
	"talentpay/internal/storage/interfaces"
	"time"

	"github.com/google/uuid"
)

type linkKey struct {
	periodID   string
	platformID string
}

// MemoryStore keeps every entity in maps guarded by one RWMutex. It backs
// the file driver, which snapshots it to disk.
type MemoryStore struct {
	mu         sync.RWMutex
	talents    map[string]models.Talent
	periods    map[string]models.Period
	platforms  map[string]models.Platform
	links      map[linkKey]models.PlatformLink
	production map[linkKey]models.ProductionEntry
	discounts  map[string]models.DiscountEntry
	now        func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		talents:    make(map[string]models.Talent),
		periods:    make(map[string]models.Period),
		platforms:  make(map[string]models.Platform),
		links:      make(map[linkKey]models.PlatformLink),
		production: make(map[linkKey]models.ProductionEntry),
		discounts:  make(map[string]models.DiscountEntry),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

var _ interfaces.RepositoryInterface = (*MemoryStore)(nil)

func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}

func notFound(entity, id string) error {
	return fmt.Errorf("%s %s: %w", entity, id, models.ErrNotFound)
}

// --- talents ---

func (s *MemoryStore) ListTalents(_ context.Context, q models.TalentQuery) (models.TalentPage, error) {
	q = q.Normalize()
	needle := strings.ToLower(strings.TrimSpace(q.Search))

	s.mu.RLock()
	matched := make([]models.Talent, 0, len(s.talents))
	for _, t := range s.talents {
		if needle == "" || strings.Contains(strings.ToLower(t.DisplayName), needle) {
			matched = append(matched, t)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(matched, func(a, b models.Talent) int {
		if c := strings.Compare(strings.ToLower(a.DisplayName), strings.ToLower(b.DisplayName)); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	page := models.TalentPage{Items: []models.Talent{}, Total: len(matched), Page: q.Page, Size: q.Size}
	if from := q.Offset(); from < len(matched) {
		page.Items = matched[from:min(from+q.Size, len(matched))]
	}
	return page, nil
}

func (s *MemoryStore) GetTalent(_ context.Context, id string) (*models.Talent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.talents[id]
	if !ok {
		return nil, notFound("talent", id)
	}
	return &t, nil
}

func (s *MemoryStore) GetTalentByUserID(_ context.Context, userID string) (*models.Talent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.talents {
		if userID != "" && t.UserID == userID {
			return &t, nil
		}
	}
	return nil, notFound("talent for user", userID)
}

func (s *MemoryStore) CreateTalent(_ context.Context, t *models.Talent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.now()
	}
	s.talents[t.ID] = *t
	return nil
}

func (s *MemoryStore) SetTalentActive(_ context.Context, id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.talents[id]
	if !ok {
		return notFound("talent", id)
	}
	t.Active = active
	s.talents[id] = t
	return nil
}

func (s *MemoryStore) SetTalentPercent(_ context.Context, id string, percent *float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.talents[id]
	if !ok {
		return notFound("talent", id)
	}
	t.PercentDefault = cloneFloat(percent)
	s.talents[id] = t
	return nil
}

func (s *MemoryStore) DeleteTalent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.talents[id]; !ok {
		return notFound("talent", id)
	}
	for pid, p := range s.periods {
		if p.TalentID == id {
			s.deletePeriodLocked(pid)
		}
	}
	delete(s.talents, id)
	return nil
}

// --- periods ---

func (s *MemoryStore) ListPeriods(_ context.Context, talentID string) ([]models.Period, error) {
	s.mu.RLock()
	out := make([]models.Period, 0)
	for _, p := range s.periods {
		if p.TalentID == talentID {
			out = append(out, p)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b models.Period) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (s *MemoryStore) GetPeriod(_ context.Context, id string) (*models.Period, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.periods[id]
	if !ok {
		return nil, notFound("period", id)
	}
	return &p, nil
}

func (s *MemoryStore) CreatePeriod(_ context.Context, p *models.Period) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.talents[p.TalentID]; !ok {
		return notFound("talent", p.TalentID)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	s.periods[p.ID] = *p
	return nil
}

func (s *MemoryStore) UpdatePeriod(_ context.Context, p *models.Period) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.periods[p.ID]
	if !ok {
		return notFound("period", p.ID)
	}
	p.TalentID = current.TalentID
	p.CreatedAt = current.CreatedAt
	s.periods[p.ID] = *p
	return nil
}

func (s *MemoryStore) UpdatePeriodSettings(_ context.Context, id string, settings models.PeriodSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.periods[id]
	if !ok {
		return notFound("period", id)
	}
	if settings.Percent != nil {
		p.Percent = cloneFloat(settings.Percent)
	}
	if settings.UsdToLocalRate != nil {
		p.UsdToLocalRate = cloneFloat(settings.UsdToLocalRate)
	}
	if settings.EurToUsdRate != nil {
		p.EurToUsdRate = cloneFloat(settings.EurToUsdRate)
	}
	if settings.Goal != nil {
		p.Goal = *settings.Goal
	}
	if settings.HoursWorked != nil {
		p.HoursWorked = cloneFloat(settings.HoursWorked)
	}
	s.periods[id] = p
	return nil
}

func (s *MemoryStore) DeletePeriod(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.periods[id]; !ok {
		return notFound("period", id)
	}
	s.deletePeriodLocked(id)
	return nil
}

func (s *MemoryStore) deletePeriodLocked(id string) {
	for k := range s.links {
		if k.periodID == id {
			delete(s.links, k)
		}
	}
	for k := range s.production {
		if k.periodID == id {
			delete(s.production, k)
		}
	}
	for did, d := range s.discounts {
		if d.PeriodID == id {
			delete(s.discounts, did)
		}
	}
	delete(s.periods, id)
}

// --- platforms ---

func (s *MemoryStore) ListPlatforms(_ context.Context) ([]models.Platform, error) {
	s.mu.RLock()
	out := make([]models.Platform, 0, len(s.platforms))
	for _, p := range s.platforms {
		out = append(out, p)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, comparePlatforms)
	return out, nil
}

func comparePlatforms(a, b models.Platform) int {
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

func (s *MemoryStore) GetPlatform(_ context.Context, id string) (*models.Platform, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.platforms[id]
	if !ok {
		return nil, notFound("platform", id)
	}
	return &p, nil
}

func (s *MemoryStore) UpsertPlatform(_ context.Context, p *models.Platform) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	s.platforms[p.ID] = *p
	return nil
}

// --- links ---

func (s *MemoryStore) ListLinks(_ context.Context, periodID string) ([]models.PlatformLink, error) {
	s.mu.RLock()
	out := make([]models.PlatformLink, 0)
	for k, l := range s.links {
		if k.periodID != periodID {
			continue
		}
		l.Platform = s.platforms[k.platformID]
		out = append(out, l)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b models.PlatformLink) int {
		return comparePlatforms(a.Platform, b.Platform)
	})
	return out, nil
}

func (s *MemoryStore) UpsertLink(_ context.Context, l *models.PlatformLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.periods[l.PeriodID]; !ok {
		return notFound("period", l.PeriodID)
	}
	platform, ok := s.platforms[l.PlatformID]
	if !ok {
		return notFound("platform", l.PlatformID)
	}
	stored := *l
	stored.Platform = models.Platform{}
	s.links[linkKey{l.PeriodID, l.PlatformID}] = stored
	l.Platform = platform
	return nil
}

func (s *MemoryStore) DeleteLink(_ context.Context, periodID, platformID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.links, linkKey{periodID, platformID})
	return nil
}

// --- production ---

func (s *MemoryStore) ListProduction(_ context.Context, periodID string) ([]models.ProductionEntry, error) {
	s.mu.RLock()
	out := make([]models.ProductionEntry, 0)
	for k, e := range s.production {
		if k.periodID == periodID {
			out = append(out, e)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b models.ProductionEntry) int {
		return strings.Compare(a.PlatformID, b.PlatformID)
	})
	return out, nil
}

func (s *MemoryStore) UpsertProduction(_ context.Context, e *models.ProductionEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.periods[e.PeriodID]; !ok {
		return notFound("period", e.PeriodID)
	}
	if _, ok := s.platforms[e.PlatformID]; !ok {
		return notFound("platform", e.PlatformID)
	}
	s.production[linkKey{e.PeriodID, e.PlatformID}] = *e
	return nil
}

// --- discounts ---

func (s *MemoryStore) ListDiscounts(_ context.Context, periodID string) ([]models.DiscountEntry, error) {
	s.mu.RLock()
	out := make([]models.DiscountEntry, 0)
	for _, d := range s.discounts {
		if d.PeriodID == periodID {
			out = append(out, withEditable(d))
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(out, compareDiscounts)
	return out, nil
}

func compareDiscounts(a, b models.DiscountEntry) int {
	at, bt := timeOrZero(a.CreatedAt), timeOrZero(b.CreatedAt)
	if c := at.Compare(bt); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

func (s *MemoryStore) GetDiscount(_ context.Context, id string) (*models.DiscountEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.discounts[id]
	if !ok {
		return nil, notFound("discount", id)
	}
	d = withEditable(d)
	return &d, nil
}

func (s *MemoryStore) DeleteDiscount(_ context.Context, periodID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, d := range s.discounts {
		if d.PeriodID == periodID && d.Key == key {
			delete(s.discounts, id)
		}
	}
	return nil
}

func (s *MemoryStore) UpsertDiscount(_ context.Context, d *models.DiscountEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.periods[d.PeriodID]; !ok {
		return notFound("period", d.PeriodID)
	}

	if d.Key != "" {
		for id, existing := range s.discounts {
			if existing.PeriodID == d.PeriodID && existing.Key == d.Key {
				d.ID = id
				d.CreatedAt = existing.CreatedAt
				s.discounts[id] = *d
				*d = withEditable(*d)
				return nil
			}
		}
	}

	d.ID = uuid.NewString()
	if d.Key == "" {
		d.Key = models.ManualDiscountKey(d.ID)
	}
	if d.CreatedAt == nil {
		now := s.now()
		d.CreatedAt = &now
	}
	s.discounts[d.ID] = *d
	*d = withEditable(*d)
	return nil
}

func (s *MemoryStore) UpdateDiscountAmount(_ context.Context, id string, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.discounts[id]
	if !ok {
		return notFound("discount", id)
	}
	d.Amount = amount
	s.discounts[id] = d
	return nil
}

// --- snapshot ---

// Snapshot copies the whole store into a persistable envelope with a
// stable ordering.
func (s *MemoryStore) Snapshot() *models.Storage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := &models.Storage{
		Version:    models.StorageVersion,
		Talents:    make([]models.Talent, 0, len(s.talents)),
		Periods:    make([]models.Period, 0, len(s.periods)),
		Platforms:  make([]models.Platform, 0, len(s.platforms)),
		Links:      make([]models.PlatformLink, 0, len(s.links)),
		Production: make([]models.ProductionEntry, 0, len(s.production)),
		Discounts:  make([]models.DiscountEntry, 0, len(s.discounts)),
	}
	for _, t := range s.talents {
		out.Talents = append(out.Talents, t)
	}
	for _, p := range s.periods {
		out.Periods = append(out.Periods, p)
	}
	for _, p := range s.platforms {
		out.Platforms = append(out.Platforms, p)
	}
	for _, l := range s.links {
		out.Links = append(out.Links, l)
	}
	for _, e := range s.production {
		out.Production = append(out.Production, e)
	}
	for _, d := range s.discounts {
		d.Editable = false
		out.Discounts = append(out.Discounts, d)
	}

	slices.SortFunc(out.Talents, func(a, b models.Talent) int { return strings.Compare(a.ID, b.ID) })
	slices.SortFunc(out.Periods, func(a, b models.Period) int { return strings.Compare(a.ID, b.ID) })
	slices.SortFunc(out.Platforms, func(a, b models.Platform) int { return strings.Compare(a.ID, b.ID) })
	slices.SortFunc(out.Links, func(a, b models.PlatformLink) int {
		return strings.Compare(a.PeriodID+"/"+a.PlatformID, b.PeriodID+"/"+b.PlatformID)
	})
	slices.SortFunc(out.Production, func(a, b models.ProductionEntry) int {
		return strings.Compare(a.PeriodID+"/"+a.PlatformID, b.PeriodID+"/"+b.PlatformID)
	})
	slices.SortFunc(out.Discounts, func(a, b models.DiscountEntry) int { return strings.Compare(a.ID, b.ID) })
	return out
}

// Restore replaces the store content with a snapshot.
func (s *MemoryStore) Restore(snapshot *models.Storage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.talents = make(map[string]models.Talent, len(snapshot.Talents))
	s.periods = make(map[string]models.Period, len(snapshot.Periods))
	s.platforms = make(map[string]models.Platform, len(snapshot.Platforms))
	s.links = make(map[linkKey]models.PlatformLink, len(snapshot.Links))
	s.production = make(map[linkKey]models.ProductionEntry, len(snapshot.Production))
	s.discounts = make(map[string]models.DiscountEntry, len(snapshot.Discounts))

	for _, t := range snapshot.Talents {
		s.talents[t.ID] = t
	}
	for _, p := range snapshot.Periods {
		s.periods[p.ID] = p
	}
	for _, p := range snapshot.Platforms {
		s.platforms[p.ID] = p
	}
	for _, l := range snapshot.Links {
		l.Platform = models.Platform{}
		s.links[linkKey{l.PeriodID, l.PlatformID}] = l
	}
	for _, e := range snapshot.Production {
		s.production[linkKey{e.PeriodID, e.PlatformID}] = e
	}
	for _, d := range snapshot.Discounts {
		s.discounts[d.ID] = d
	}
}

func withEditable(d models.DiscountEntry) models.DiscountEntry {
	d.Editable = d.Source == models.DiscountManual && d.ID != ""
	return d
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
