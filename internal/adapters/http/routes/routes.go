package routes

import (
	"josenian-borrowease/internal/adapters/http/handlers"
	"josenian-borrowease/internal/adapters/http/middleware"
	"josenian-borrowease/internal/adapters/persistence/repositories"
	"josenian-borrowease/internal/config"
	"josenian-borrowease/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	itemRepo := repositories.NewItemRepository(db)
	requestRepo := repositories.NewRequestRepository(db)

	// Initialize services
	feedService := services.NewFeedService(itemRepo, requestRepo)
	authService := services.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.AccessTokenMins)
	itemService := services.NewItemService(db, itemRepo, feedService)
	requestService := services.NewRequestService(requestRepo, itemRepo, feedService)
	lifecycleService := services.NewLifecycleService(db, feedService)
	statsService := services.NewStatsService(itemRepo, requestRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService)
	itemHandler := handlers.NewItemHandler(itemService)
	requestHandler := handlers.NewRequestHandler(requestService, lifecycleService)
	feedHandler := handlers.NewFeedHandler(feedService)
	statsHandler := handlers.NewStatsHandler(statsService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, healthHandler, authHandler, itemHandler,
		requestHandler, feedHandler, statsHandler, cfg)
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	itemHandler *handlers.ItemHandler,
	requestHandler *handlers.RequestHandler,
	feedHandler *handlers.FeedHandler,
	statsHandler *handlers.StatsHandler,
	cfg *config.Config,
) {
	// API Info
	router.Get("/", healthHandler.APIInfo)

	// Auth routes (public, rate limited)
	authRoutes := router.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Item registry routes
	itemRoutes := router.Group("/items")
	setupItemRoutes(itemRoutes, itemHandler, cfg)

	// Borrow request routes
	requestRoutes := router.Group("/requests")
	setupRequestRoutes(requestRoutes, requestHandler, cfg)

	// Live view feed routes (public — read-only snapshot stream)
	feedRoutes := router.Group("/feed")
	setupFeedRoutes(feedRoutes, feedHandler)

	// Stats routes
	statsRoutes := router.Group("/stats")
	statsRoutes.Use(middleware.AuthMiddleware(cfg))
	statsRoutes.Get("/summary", statsHandler.Summary)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
}

// setupItemRoutes configures item registry routes
func setupItemRoutes(router fiber.Router, handler *handlers.ItemHandler, cfg *config.Config) {
	// Public reads — the catalog is browsable without login
	router.Get("/", handler.List)
	router.Get("/search", handler.Search)
	router.Get("/:id", handler.GetByID)

	// Protected writes
	router.Post("/", middleware.AuthMiddleware(cfg), handler.Create)
	router.Delete("/:id", middleware.AuthMiddleware(cfg), middleware.StrictRateLimiter(), handler.Delete)
}

// setupRequestRoutes configures borrow request routes
func setupRequestRoutes(router fiber.Router, handler *handlers.RequestHandler, cfg *config.Config) {
	// Public: anyone may submit and inspect requests
	router.Post("/", handler.Submit)
	router.Get("/", handler.List)
	router.Get("/:id", handler.GetByID)

	// Protected lifecycle transitions
	router.Put("/:id/approve", middleware.AuthMiddleware(cfg), handler.Approve)
	router.Put("/:id/reject", middleware.AuthMiddleware(cfg), handler.Reject)
	router.Put("/:id/return", middleware.AuthMiddleware(cfg), handler.Return)
	router.Put("/:id/cancel", middleware.AuthMiddleware(cfg), handler.Cancel)
}

// setupFeedRoutes configures SSE feed routes
func setupFeedRoutes(router fiber.Router, handler *handlers.FeedHandler) {
	router.Get("/items", handler.ItemsFeed)
	router.Get("/requests", handler.RequestsFeed)
}
