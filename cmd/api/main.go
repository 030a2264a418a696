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

	"github.com/prestadero/prestamos-api/internal/config"
	"github.com/prestadero/prestamos-api/internal/database"
	"github.com/prestadero/prestamos-api/internal/handlers"
	"github.com/prestadero/prestamos-api/internal/jobs"
	"github.com/prestadero/prestamos-api/internal/metrics"
	"github.com/prestadero/prestamos-api/internal/middleware"
	"github.com/prestadero/prestamos-api/internal/repository"
	"github.com/prestadero/prestamos-api/internal/services"
	"github.com/prestadero/prestamos-api/pkg/logger"
)

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

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Pick the cache backend: Redis when configured, in-process otherwise
	var cache repository.CacheRepository
	if cfg.RedisAddr != "" {
		cache = repository.NewRedisCache(cfg.RedisAddr)
		logger.Info("Using Redis cache", "addr", cfg.RedisAddr)
	} else {
		cache = repository.NewMemoryCache()
	}

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, worker, cache, cfg)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs)

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

	// Shutdown HTTP server
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

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Authentication (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Admin-only routes
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				// User management
				admin.GET("/users", h.User.Index)
				admin.POST("/users", h.User.Create)
				admin.DELETE("/users/:user_id", h.User.Destroy)
				admin.PUT("/users/:user_id/toggle_status", h.User.ToggleStatus)

				// Destructive ledger operations
				admin.DELETE("/loans/:loan_id", h.Loan.Destroy)
				admin.DELETE("/payments/:payment_id", h.Payment.Destroy)
				admin.DELETE("/clients/:client_id", h.Client.Destroy)

				// Business profile
				admin.PUT("/settings", h.Setting.Update)

				// Audit trail and worker status
				admin.GET("/audits", h.Audit.Index)
				admin.GET("/jobs/status", h.Job.Status)
			}

			// User profile access (admin or the account owner)
			protected.GET("/users/:user_id", middleware.RequireAdminOrOwner(), h.User.Show)
			protected.PUT("/users/:user_id", middleware.RequireAdminOrOwner(), h.User.Update)
			protected.PATCH("/users/:user_id/change_password", middleware.RequireAdminOrOwner(), h.User.ChangePassword)

			// Client directory
			clients := protected.Group("/clients")
			{
				clients.GET("", h.Client.Index)
				clients.POST("", h.Client.Create)
				clients.GET("/:client_id", h.Client.Show)
				clients.PUT("/:client_id", h.Client.Update)
				clients.GET("/:client_id/loans", h.Client.IndexLoans)
			}

			// Loan ledger
			loans := protected.Group("/loans")
			{
				loans.GET("", h.Loan.Index)
				loans.POST("", h.Loan.Create)
				loans.POST("/quote", h.Loan.Quote)
				loans.GET("/:loan_id", h.Loan.Show)
				loans.PUT("/:loan_id", h.Loan.Update)
				loans.GET("/:loan_id/payments", h.Loan.IndexPayments)
				loans.POST("/:loan_id/payments", h.Loan.CreatePayment)
			}

			// Payments
			payments := protected.Group("/payments")
			{
				payments.GET("/:payment_id", h.Payment.Show)
				payments.PUT("/:payment_id", h.Payment.Update)
			}

			// Reports
			reports := protected.Group("/reports")
			{
				reports.GET("/payments", h.Report.Payments)
				reports.GET("/loans", h.Report.Loans)
				reports.GET("/cash_count", h.Report.CashCount)
				reports.GET("/overdue", h.Report.Overdue)
			}

			// Dashboard
			protected.GET("/stats", h.Stats.Portfolio)

			// Business profile (any authenticated user may read it)
			protected.GET("/settings", h.Setting.Show)
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services) {
	// Refresh delay day counters every hour
	worker.ScheduleEvery(1*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Recalculating loan delays...")
		return svcs.Loan.RecalculateDelays(ctx)
	})

	// Refresh the dashboard cache every 15 minutes
	worker.ScheduleEvery(15*time.Minute, func(ctx context.Context) error {
		logger.Info("[Job] Refreshing portfolio stats...")
		_, err := svcs.Stats.Refresh(ctx)
		return err
	})

	logger.Info("Scheduled recurring jobs")
}
