package controllers

import (
	"net/http"
	"talentpay/internal/models"
	"talentpay/internal/providers"
	"talentpay/internal/services"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
)

// PayoutController serves the talent surface. Admins reach the same
// handlers and may open any period.
type PayoutController struct {
	logger     providers.Logger
	payouts    services.PayoutServiceInterface
	production services.ProductionServiceInterface
	admin      services.AdminServiceInterface
	cache      providers.CacheProviderInterface
	metrics    providers.MetricsProviderInterface
}

func NewPayoutController(logger providers.Logger, payouts services.PayoutServiceInterface, production services.ProductionServiceInterface, admin services.AdminServiceInterface, cache providers.CacheProviderInterface, metrics providers.MetricsProviderInterface) *PayoutController {
	return &PayoutController{
		logger:     logger,
		payouts:    payouts,
		production: production,
		admin:      admin,
		cache:      cache,
		metrics:    metrics,
	}
}

type ownPeriodsResponse struct {
	Talent  *models.Talent  `json:"talent"`
	Periods []models.Period `json:"periods"`
}

func (pc *PayoutController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) error {
	if data, ok := pc.cache.Get(cacheKey); ok {
		writeRaw(w, http.StatusOK, data)
		return nil
	}

	result, err := compute()
	if err != nil {
		return err
	}

	gson, err := json.Marshal(result)
	if err != nil {
		return err
	}

	pc.cache.Set(cacheKey, gson)
	writeRaw(w, http.StatusOK, gson)
	return nil
}

// authorize resolves the period in the URL for the caller, writing the
// error response itself when access is refused.
func (pc *PayoutController) authorize(w http.ResponseWriter, r *http.Request) (*models.Period, bool) {
	period, err := pc.payouts.Authorize(r.Context(), identity(r), chi.URLParam(r, "periodID"))
	if err != nil {
		writeError(w, r, pc.logger, err)
		return nil, false
	}
	return period, true
}

func (pc *PayoutController) MyPeriods(w http.ResponseWriter, r *http.Request) {
	talent, periods, err := pc.payouts.OwnPeriods(r.Context(), identity(r))
	if err != nil {
		writeError(w, r, pc.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ownPeriodsResponse{Talent: talent, Periods: periods})
}

func (pc *PayoutController) Payout(w http.ResponseWriter, r *http.Request) {
	period, ok := pc.authorize(w, r)
	if !ok {
		return
	}
	surface := string(identity(r).Role)

	err := pc.serveFromCacheOrCompute(w, payoutCacheKey(period.ID), func() (any, error) {
		pc.metrics.IncPayoutComputations(surface)
		return pc.payouts.Report(r.Context(), period.ID)
	})
	if err != nil {
		writeError(w, r, pc.logger, err)
	}
}

func (pc *PayoutController) SaveProduction(w http.ResponseWriter, r *http.Request) {
	period, ok := pc.authorize(w, r)
	if !ok {
		return
	}
	var payload models.ProductionInput
	if err := decodeBody(w, r, &payload); err != nil {
		writeError(w, r, pc.logger, err)
		return
	}

	if _, err := pc.production.Save(r.Context(), period.ID, payload.Entries); err != nil {
		writeError(w, r, pc.logger, err)
		return
	}
	pc.cache.Del(payoutCacheKey(period.ID))

	report, err := pc.payouts.Report(r.Context(), period.ID)
	if err != nil {
		writeError(w, r, pc.logger, err)
		return
	}
	pc.metrics.IncPayoutComputations(string(identity(r).Role))
	writeJSON(w, http.StatusOK, report)
}

func (pc *PayoutController) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	period, ok := pc.authorize(w, r)
	if !ok {
		return
	}
	var payload models.PeriodSettings
	if err := decodeBody(w, r, &payload); err != nil {
		writeError(w, r, pc.logger, err)
		return
	}

	updated, err := pc.admin.UpdateSettings(r.Context(), period.ID, payload)
	if err != nil {
		writeError(w, r, pc.logger, err)
		return
	}
	pc.cache.Del(payoutCacheKey(period.ID))
	writeJSON(w, http.StatusOK, updated)
}

func (pc *PayoutController) Groceries(w http.ResponseWriter, r *http.Request) {
	period, ok := pc.authorize(w, r)
	if !ok {
		return
	}
	res, err := pc.payouts.Groceries(r.Context(), period.ID)
	if err != nil {
		writeError(w, r, pc.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
