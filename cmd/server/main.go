package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/example/sokoni/internal/config"
	"github.com/example/sokoni/internal/database"
	"github.com/example/sokoni/internal/handlers"
	"github.com/example/sokoni/internal/logger"
	"github.com/example/sokoni/internal/metrics"
	"github.com/example/sokoni/internal/middleware"
	"github.com/example/sokoni/internal/models"
	"github.com/example/sokoni/internal/repository"
	"github.com/example/sokoni/internal/routes"
	"github.com/example/sokoni/internal/services"
	"github.com/example/sokoni/internal/storage"
)

func main() {
	cfg := config.Load()

	zlog := logger.New(cfg.LogLevel, cfg.LogEncoding)
	defer func() { _ = zlog.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL, cfg.DBLogSQL, zlog)
	if err != nil {
		zlog.Fatal("database connect failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ads := repository.NewAdRepository(db)
	profiles := repository.NewProfileRepository(db)
	roles := repository.NewRoleRepository(db)
	categories := repository.NewCategoryRepository(db)

	if err := categories.SeedDefaults(ctx, models.DefaultCategories); err != nil {
		zlog.Fatal("category seed failed", zap.Error(err))
	}

	images, err := storage.NewMinioStorage(ctx, storage.Config{
		Endpoint:  cfg.MinIOEndpoint,
		AccessKey: cfg.MinIOAccessKey,
		SecretKey: cfg.MinIOSecretKey,
		Bucket:    cfg.MinIOBucket,
		UseSSL:    cfg.MinIOUseSSL,
		PublicURL: cfg.MinIOPublicURL,
	}, zlog)
	if err != nil {
		zlog.Fatal("object storage init failed", zap.Error(err))
	}

	m := metrics.New("sokoni")
	telegram := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat, zlog)

	deps := routes.Deps{
		Auth: services.NewAuthService(profiles, roles, services.AuthConfig{
			JWTSecret:         cfg.JWTSecret,
			TokenTTL:          cfg.TokenExpires,
			ApprovedByDefault: cfg.AccountsApprovedByDefault,
			IsAdminEmail:      cfg.IsAdminEmail,
		}, zlog),
		Listing:    services.NewListing(ads, categories, zlog),
		Submission: services.NewSubmission(ads, profiles, categories, images, telegram, m, zlog),
		Lifecycle:  services.NewLifecycle(ads, m, zlog),
		Console:    services.NewConsole(ads, profiles, m, zlog),
		Metrics:    m,
		Log:        zlog,
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}

	app := fiber.New(fiber.Config{
		AppName:      "Sokoni Backend",
		ErrorHandler: handlers.ErrorHandler(zlog),
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))
	app.Use(middleware.RequestLogger(zlog, m))

	routes.Register(app, deps)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		zlog.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			zlog.Error("shutdown failed", zap.Error(err))
		}
	}()

	zlog.Info("starting server", zap.String("port", cfg.AppPort))
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}
