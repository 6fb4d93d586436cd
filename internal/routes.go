package internal

import (
	"net/http"
	"talentpay/internal/controllers"
	"talentpay/internal/models"
	"talentpay/internal/providers"
)

var (
	anyRole   = []string{string(models.RoleAdmin), string(models.RoleTalent)}
	adminOnly = []string{string(models.RoleAdmin)}
)

func InitRoutes(payoutController *controllers.PayoutController, adminController *controllers.AdminController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	// talent surface
	routers.Get("/me/periods", http.HandlerFunc(payoutController.MyPeriods), anyRole...)
	routers.Get("/periods/{periodID}/payout", http.HandlerFunc(payoutController.Payout), anyRole...)
	routers.Put("/periods/{periodID}/production", http.HandlerFunc(payoutController.SaveProduction), anyRole...)
	routers.Put("/periods/{periodID}/settings", http.HandlerFunc(payoutController.UpdateSettings), anyRole...)
	routers.Get("/periods/{periodID}/groceries", http.HandlerFunc(payoutController.Groceries), anyRole...)

	// admin surface
	routers.Get("/admin/talents", http.HandlerFunc(adminController.ListTalents), adminOnly...)
	routers.Post("/admin/talents", http.HandlerFunc(adminController.CreateTalent), adminOnly...)
	routers.Put("/admin/talents/{talentID}/active", http.HandlerFunc(adminController.SetTalentActive), adminOnly...)
	routers.Put("/admin/talents/{talentID}/percent", http.HandlerFunc(adminController.SetTalentPercent), adminOnly...)
	routers.Delete("/admin/talents/{talentID}", http.HandlerFunc(adminController.DeleteTalent), adminOnly...)
	routers.Get("/admin/talents/{talentID}/periods", http.HandlerFunc(adminController.ListPeriods), adminOnly...)
	routers.Post("/admin/talents/{talentID}/periods", http.HandlerFunc(adminController.CreatePeriod), adminOnly...)
	routers.Put("/admin/periods/{periodID}", http.HandlerFunc(adminController.UpdatePeriod), adminOnly...)
	routers.Delete("/admin/periods/{periodID}", http.HandlerFunc(adminController.DeletePeriod), adminOnly...)
	routers.Post("/admin/periods/{periodID}/duplicate", http.HandlerFunc(adminController.DuplicatePeriod), adminOnly...)
	routers.Get("/admin/periods/{periodID}/payout", http.HandlerFunc(payoutController.Payout), adminOnly...)
	routers.Get("/admin/platforms", http.HandlerFunc(adminController.ListPlatforms), adminOnly...)
	routers.Put("/admin/platforms/{platformID}", http.HandlerFunc(adminController.UpsertPlatform), adminOnly...)
	routers.Get("/admin/periods/{periodID}/platforms", http.HandlerFunc(adminController.PeriodPlatforms), adminOnly...)
	routers.Put("/admin/periods/{periodID}/platforms/{platformID}", http.HandlerFunc(adminController.EnablePlatform), adminOnly...)
	routers.Delete("/admin/periods/{periodID}/platforms/{platformID}", http.HandlerFunc(adminController.DisablePlatform), adminOnly...)
	routers.Get("/admin/periods/{periodID}/discounts", http.HandlerFunc(adminController.ListDiscounts), adminOnly...)
	routers.Post("/admin/periods/{periodID}/discounts", http.HandlerFunc(adminController.CreateDiscount), adminOnly...)
	routers.Put("/admin/discounts/{discountID}", http.HandlerFunc(adminController.UpdateDiscount), adminOnly...)
	return routers
}
