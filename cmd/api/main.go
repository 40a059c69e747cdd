package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/arsavista/teklif-api/internal/config"
	"github.com/arsavista/teklif-api/internal/database"
	"github.com/arsavista/teklif-api/internal/handlers"
	"github.com/arsavista/teklif-api/internal/jobs"
	"github.com/arsavista/teklif-api/internal/middleware"
	"github.com/arsavista/teklif-api/internal/repository"
	"github.com/arsavista/teklif-api/internal/services"
	"github.com/arsavista/teklif-api/internal/storage"
	"github.com/arsavista/teklif-api/pkg/logger"
)

// @title Teklif API
// @version 1.0
// @description REST API for Arsavista land proposal management

// @host localhost:8081
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	// Initialize storage
	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized local storage")

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, worker, store, cfg, db)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs, repos)

	// Initialize handlers
	h := handlers.NewHandlers(svcs)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Shutdown background worker
	worker.Shutdown()
	logger.Info("Background worker stopped")

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// Uploaded files (land photos, avatars)
	router.Static("/uploads", cfg.StoragePath+"/uploads")

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Redirect root to swagger
		router.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
		})

		// Swagger documentation
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Authentication (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		// Catalog browsing and share links are public: the proposal token is
		// the credential, and customers open both without an account
		v1.GET("/lands", h.Land.Index)
		v1.GET("/lands/:land_id", h.Land.Show)
		v1.GET("/proposals/:proposal_id", h.Proposal.Show)
		v1.GET("/proposals/:proposal_id/pdf", h.Proposal.PDF)

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Admin-only routes
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				// Catalog management
				admin.POST("/lands", h.Land.Create)
				admin.PUT("/lands/:land_id", h.Land.Update)
				admin.DELETE("/lands/:land_id", h.Land.Delete)
				admin.GET("/lands/export", h.Land.Export)
				admin.POST("/lands/import", h.Land.Import)
				admin.POST("/lands/:land_id/image", h.Land.UploadImage)

				// User management
				admin.GET("/users", h.User.Index)
				admin.POST("/users", h.User.Create)

				// Operational
				admin.GET("/proposals/expired/count", h.Proposal.ExpiredCount)
				admin.GET("/audits", h.Audit.Index)
			}

			// Proposal building (any authenticated agent)
			protected.POST("/proposals/draft", h.Proposal.Draft)
			protected.POST("/proposals/draft/edit", h.Proposal.EditDraft)
			protected.POST("/proposals", h.Proposal.Create)
			protected.GET("/proposals", h.Proposal.Index)

			// Profile (admin or owner)
			protected.GET("/me", h.User.Me)
			protected.GET("/users/:user_id", middleware.RequireAdminOrOwner(), h.User.Show)
			protected.PUT("/users/:user_id", middleware.RequireAdminOrOwner(), h.User.Update)
			protected.PUT("/users/:user_id/password", middleware.RequireAdminOrOwner(), h.User.ChangePassword)
			protected.POST("/users/:user_id/avatar", middleware.RequireAdminOrOwner(), h.User.UploadAvatar)
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services, repos *repository.Repositories) {
	// Purge expired refresh tokens daily
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		purged, err := repos.RefreshToken.DeleteExpired(ctx)
		if err != nil {
			return err
		}
		logger.Info("[Job] Purged expired refresh tokens", "count", purged)
		return nil
	})

	// Nightly sweep: log how many proposals have lapsed
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		count, err := svcs.Proposal.CountExpired(ctx, time.Now())
		if err != nil {
			return err
		}
		logger.Info("[Job] Expired proposal sweep", "expired", count)
		return nil
	})

	logger.Info("Scheduled recurring jobs")
}
