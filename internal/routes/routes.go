package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/example/sokoni/internal/handlers"
	"github.com/example/sokoni/internal/metrics"
	"github.com/example/sokoni/internal/middleware"
	"github.com/example/sokoni/internal/services"
)

// Deps lists everything the HTTP surface is built from.
type Deps struct {
	Auth       *services.AuthService
	Listing    *services.Listing
	Submission *services.Submission
	Lifecycle  *services.Lifecycle
	Console    *services.Console
	Metrics    *metrics.Metrics
	Log        *zap.Logger
	// Ping checks the database for /healthz; nil means always healthy.
	Ping func(ctx context.Context) error
}

// Register wires up all HTTP routes.
func Register(app *fiber.App, d Deps) {
	authHandler := handlers.NewAuthHandler(d.Auth)
	catalogHandler := handlers.NewCatalogHandler(d.Listing)
	adHandler := handlers.NewAdHandler(d.Listing, d.Submission, d.Lifecycle, d.Log)
	profileHandler := handlers.NewProfileHandler(d.Auth)
	adminHandler := handlers.NewAdminHandler(d.Console, d.Lifecycle)

	if d.Metrics != nil {
		app.Get("/metrics", d.Metrics.Handler())
	}
	app.Get("/healthz", healthz(d.Ping))

	api := app.Group("/api", middleware.Session(d.Auth))
	signedIn := middleware.RequireSession()

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/session", signedIn, authHandler.Session)

	// Catalog routes
	categories := api.Group("/categories")
	categories.Get("/", catalogHandler.ListCategories)
	categories.Get("/:id", catalogHandler.GetCategory)

	// Ads; fixed paths before /:id
	ads := api.Group("/ads")
	ads.Get("/", adHandler.ListAds)
	ads.Get("/recent", adHandler.RecentAds)
	ads.Get("/featured", adHandler.FeaturedAds)
	ads.Get("/new", signedIn, adHandler.NewAdForm)
	ads.Post("/images", signedIn, adHandler.UploadImages)
	ads.Post("/", signedIn, adHandler.CreateAd)
	ads.Get("/:id", adHandler.GetAd)
	ads.Delete("/:id", signedIn, adHandler.DeleteAd)

	// Signed-in user routes
	api.Get("/dashboard", signedIn, adHandler.Dashboard)
	api.Get("/profile", signedIn, profileHandler.GetProfile)
	api.Put("/profile", signedIn, profileHandler.UpdateProfile)

	// Admin console
	admin := api.Group("/admin", middleware.RequireAdmin())
	admin.Get("/dashboard", adminHandler.Dashboard)
	admin.Get("/ads", adminHandler.ListAds)
	admin.Post("/ads/:id/approve", adminHandler.ApproveAd)
	admin.Post("/ads/:id/reject", adminHandler.RejectAd)
	admin.Post("/ads/:id/feature", adminHandler.ToggleFeatured)
	admin.Post("/ads/:id/reorder", adminHandler.ReorderAd)
	admin.Delete("/ads/:id", adminHandler.DeleteAd)
	admin.Put("/users/:id/approval", adminHandler.SetApproval)
	admin.Put("/users/:id/premium", adminHandler.SetPremium)
	admin.Delete("/users/:id", adminHandler.DeleteUser)
}

func healthz(ping func(ctx context.Context) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"success": false, "error": "database unavailable"})
			}
		}
		return c.JSON(fiber.Map{"success": true, "status": "ok"})
	}
}
