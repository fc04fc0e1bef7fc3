// Package routes defines the API routing configuration. It wires
// repositories, services, and handlers together and applies the
// authentication middleware per route group.
package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"delivra/internal/config"
	"delivra/internal/gateway"
	"delivra/internal/handlers"
	"delivra/internal/middleware"
	"delivra/internal/models"
	"delivra/internal/repositories"
	"delivra/internal/repositories/cache"
	"delivra/internal/services/loyalty"
	"delivra/internal/services/order"
	"delivra/internal/services/payout"
	"delivra/internal/services/provider"
	"delivra/internal/services/reconciler"
)

// SetupRoutes configures all application routes. cacheService may be nil
// when redis is unavailable; partner lookups then go straight to the
// database and loyalty awards are skipped.
func SetupRoutes(app *fiber.App, db *gorm.DB, cacheService *cache.CacheService) {
	orderRepo := repositories.NewOrderRepository(db)
	payoutRepo := repositories.NewPayoutRepository(db)
	partnerRepo := repositories.NewPartnerRepository(db, cacheService)

	var loyaltyService *loyalty.Service
	if cacheService != nil {
		loyaltyService = loyalty.NewService(cacheService.Client())
	}

	orderService := order.NewService(orderRepo, loyaltyService)

	gatewayClient := gateway.NewClient(
		config.GetEnv("PAYMENT_API_URL", "https://api.payment.example.com"),
		config.GetEnv("PAYMENT_ACCESS_TOKEN", ""),
	)
	reconcilerService := reconciler.NewService(
		orderRepo,
		gatewayClient,
		config.CommissionRate(),
		config.WebhookSecret(),
	)

	payoutService := payout.NewService(payoutRepo, partnerRepo, transferProvider())

	orderHandler := handlers.NewOrderHandler(orderService)
	paymentHandler := handlers.NewPaymentHandler(reconcilerService)
	payoutHandler := handlers.NewPayoutHandler(payoutService)
	healthHandler := handlers.NewHealthHandler(db)

	app.Get("/health", healthHandler.Check)

	api := app.Group("/api")

	// Gateway notifications authenticate via signature, not JWT.
	api.Post("/payment/webhook", paymentHandler.Webhook)

	orders := api.Group("/orders", middleware.AuthMiddleware)
	orders.Get("/", orderHandler.ListOrders)
	orders.Get("/:id", orderHandler.GetOrder)
	orders.Post("/:id/status", middleware.RequireRole(models.RoleRestaurant), orderHandler.UpdateStatus)
	orders.Post("/:id/accept", middleware.RequireRole(models.RoleCourier), orderHandler.Accept)
	orders.Post("/:id/pickup", middleware.RequireRole(models.RoleCourier), orderHandler.Pickup)
	orders.Post("/:id/complete", middleware.RequireRole(models.RoleCourier), orderHandler.Complete)

	admin := api.Group("/admin", middleware.AuthMiddleware, middleware.AdminAuthMiddleware)
	admin.Post("/payouts/process", payoutHandler.Process)
	admin.Post("/payouts/disburse", payoutHandler.Disburse)
	admin.Get("/payouts", payoutHandler.List)
}

// transferProvider selects the transfer backend. A configured stripe key
// enables real transfers; otherwise the deterministic mock is used, which
// keeps development and staging runs offline.
func transferProvider() provider.Provider {
	if key := config.GetEnv("STRIPE_SECRET_KEY", ""); key != "" {
		return provider.NewStripe(key, config.GetEnv("PAYOUT_CURRENCY", "brl"))
	}
	if config.IsProduction() {
		log.Println("STRIPE_SECRET_KEY not set in production, transfers will use the mock provider")
	}
	return provider.NewMock()
}
