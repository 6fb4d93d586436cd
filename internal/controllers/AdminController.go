package controllers

import (
	"net/http"
	"strconv"
	"talentpay/internal/models"
	"talentpay/internal/providers"
	"talentpay/internal/services"

	"github.com/go-chi/chi/v5"
)

type AdminController struct {
	logger providers.Logger
	admin  services.AdminServiceInterface
	cache  providers.CacheProviderInterface
}

func NewAdminController(logger providers.Logger, admin services.AdminServiceInterface, cache providers.CacheProviderInterface) *AdminController {
	return &AdminController{
		logger: logger,
		admin:  admin,
		cache:  cache,
	}
}

// respond writes body with status, or the mapped error.
func (ac *AdminController) respond(w http.ResponseWriter, r *http.Request, status int, body any, err error) {
	if err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	writeJSON(w, status, body)
}

// --- talents ---

func (ac *AdminController) ListTalents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("page_size"))

	result, err := ac.admin.ListTalents(r.Context(), models.TalentQuery{Search: q.Get("q"), Page: page, Size: size})
	ac.respond(w, r, http.StatusOK, result, err)
}

func (ac *AdminController) CreateTalent(w http.ResponseWriter, r *http.Request) {
	var payload models.TalentInput
	if err := decodeBody(w, r, &payload); err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	talent, err := ac.admin.CreateTalent(r.Context(), payload)
	ac.respond(w, r, http.StatusCreated, talent, err)
}

func (ac *AdminController) SetTalentActive(w http.ResponseWriter, r *http.Request) {
	var payload models.ActiveInput
	if err := decodeBody(w, r, &payload); err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	err := ac.admin.SetTalentActive(r.Context(), chi.URLParam(r, "talentID"), payload.Active)
	ac.respond(w, r, http.StatusNoContent, nil, err)
}

func (ac *AdminController) SetTalentPercent(w http.ResponseWriter, r *http.Request) {
	var payload models.PercentInput
	if err := decodeBody(w, r, &payload); err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	err := ac.admin.SetTalentPercent(r.Context(), chi.URLParam(r, "talentID"), payload.Percent)
	ac.respond(w, r, http.StatusNoContent, nil, err)
}

func (ac *AdminController) DeleteTalent(w http.ResponseWriter, r *http.Request) {
	err := ac.admin.DeleteTalent(r.Context(), chi.URLParam(r, "talentID"))
	if err == nil {
		ac.cache.Clear()
	}
	ac.respond(w, r, http.StatusNoContent, nil, err)
}

// --- periods ---

func (ac *AdminController) ListPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := ac.admin.ListPeriods(r.Context(), chi.URLParam(r, "talentID"))
	ac.respond(w, r, http.StatusOK, periods, err)
}

func (ac *AdminController) CreatePeriod(w http.ResponseWriter, r *http.Request) {
	var payload models.PeriodInput
	if err := decodeBody(w, r, &payload); err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	period, err := ac.admin.CreatePeriod(r.Context(), chi.URLParam(r, "talentID"), payload)
	ac.respond(w, r, http.StatusCreated, period, err)
}

func (ac *AdminController) UpdatePeriod(w http.ResponseWriter, r *http.Request) {
	var payload models.PeriodInput
	if err := decodeBody(w, r, &payload); err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	periodID := chi.URLParam(r, "periodID")
	period, err := ac.admin.UpdatePeriod(r.Context(), periodID, payload)
	ac.cache.Del(payoutCacheKey(periodID))
	ac.respond(w, r, http.StatusOK, period, err)
}

func (ac *AdminController) DuplicatePeriod(w http.ResponseWriter, r *http.Request) {
	var payload models.DuplicateInput
	if err := decodeBody(w, r, &payload); err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	period, err := ac.admin.DuplicatePeriod(r.Context(), chi.URLParam(r, "periodID"), payload)
	ac.respond(w, r, http.StatusCreated, period, err)
}

func (ac *AdminController) DeletePeriod(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "periodID")
	err := ac.admin.DeletePeriod(r.Context(), periodID)
	ac.cache.Del(payoutCacheKey(periodID))
	ac.respond(w, r, http.StatusNoContent, nil, err)
}

// --- platforms ---

func (ac *AdminController) ListPlatforms(w http.ResponseWriter, r *http.Request) {
	platforms, err := ac.admin.ListPlatforms(r.Context())
	ac.respond(w, r, http.StatusOK, platforms, err)
}

func (ac *AdminController) UpsertPlatform(w http.ResponseWriter, r *http.Request) {
	var payload models.PlatformInput
	if err := decodeBody(w, r, &payload); err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	platform, err := ac.admin.UpsertPlatform(r.Context(), chi.URLParam(r, "platformID"), payload)
	if err == nil {
		// catalog rates feed every period
		ac.cache.Clear()
	}
	ac.respond(w, r, http.StatusOK, platform, err)
}

func (ac *AdminController) PeriodPlatforms(w http.ResponseWriter, r *http.Request) {
	rows, err := ac.admin.PeriodPlatforms(r.Context(), chi.URLParam(r, "periodID"))
	ac.respond(w, r, http.StatusOK, rows, err)
}

func (ac *AdminController) EnablePlatform(w http.ResponseWriter, r *http.Request) {
	var payload models.LinkInput
	if err := decodeBody(w, r, &payload); err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	periodID := chi.URLParam(r, "periodID")
	link, err := ac.admin.EnablePlatform(r.Context(), periodID, chi.URLParam(r, "platformID"), payload)
	ac.cache.Del(payoutCacheKey(periodID))
	ac.respond(w, r, http.StatusOK, link, err)
}

func (ac *AdminController) DisablePlatform(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "periodID")
	err := ac.admin.DisablePlatform(r.Context(), periodID, chi.URLParam(r, "platformID"))
	ac.cache.Del(payoutCacheKey(periodID))
	ac.respond(w, r, http.StatusNoContent, nil, err)
}

// --- discounts ---

func (ac *AdminController) ListDiscounts(w http.ResponseWriter, r *http.Request) {
	discounts, err := ac.admin.ListDiscounts(r.Context(), chi.URLParam(r, "periodID"))
	ac.respond(w, r, http.StatusOK, discounts, err)
}

func (ac *AdminController) CreateDiscount(w http.ResponseWriter, r *http.Request) {
	var payload models.DiscountInput
	if err := decodeBody(w, r, &payload); err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	periodID := chi.URLParam(r, "periodID")
	discount, err := ac.admin.CreateDiscount(r.Context(), periodID, payload)
	ac.cache.Del(payoutCacheKey(periodID))
	ac.respond(w, r, http.StatusCreated, discount, err)
}

func (ac *AdminController) UpdateDiscount(w http.ResponseWriter, r *http.Request) {
	var payload models.AmountInput
	if err := decodeBody(w, r, &payload); err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	discount, err := ac.admin.UpdateDiscountAmount(r.Context(), chi.URLParam(r, "discountID"), payload.Amount)
	if err == nil {
		ac.cache.Del(payoutCacheKey(discount.PeriodID))
	}
	ac.respond(w, r, http.StatusOK, discount, err)
}
