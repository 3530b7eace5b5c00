package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"storefront/internal"
	"storefront/internal/bootstrap"
	"storefront/internal/handler"
	"storefront/internal/middleware"
	"storefront/internal/postgres"
	"storefront/internal/router"
	"storefront/internal/routes"
	"storefront/internal/service"
	"storefront/internal/session"
	"storefront/internal/store"
	"storefront/internal/store/memory"
)

func run() error {
	ctx := context.Background()

	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// ==========================================================================
	// Storage
	// ==========================================================================

	var st *store.Store
	switch cfg.StoreDriver {
	case internal.StoreMemory:
		logger.Warn().Msg("Using in-memory storage; nothing will survive a restart")
		st = memory.New()

	default:
		logger.Info().Msg("Connecting to database...")
		sqlDB, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer sqlDB.Close()

		if err := sqlDB.Ping(); err != nil {
			return fmt.Errorf("database ping failed: %w", err)
		}

		logger.Info().Msg("Running database migrations...")
		if err := internal.RunMigrations(sqlDB); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		logger.Info().Msg("Database migrations completed")

		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to create connection pool: %w", err)
		}
		defer pool.Close()

		st = postgres.New(pool)
	}

	// Seed the superadmin account on first boot.
	adminCfg := &bootstrap.AdminConfig{
		Email:     cfg.Admin.Email,
		Password:  cfg.Admin.Password,
		FirstName: cfg.Admin.FirstName,
		LastName:  cfg.Admin.LastName,
	}
	if err := bootstrap.EnsureSuperAdmin(ctx, st.Customers, adminCfg, logger); err != nil {
		return fmt.Errorf("bootstrap failed: %w", err)
	}

	// ==========================================================================
	// Services and handlers
	// ==========================================================================

	sessions := session.NewManager()

	catalogService := service.NewCatalogService(st)
	cartService := service.NewCartService(st)
	customerService := service.NewCustomerService(st)
	carouselService := service.NewCarouselService(st)
	reconciler := service.NewReconciler(st)
	statsService := service.NewStatsService(st)
	auditService := service.NewAuditService(st)

	deps := routes.Deps{
		Storefront: handler.NewStorefront(catalogService, cartService, customerService, carouselService, reconciler, sessions),
		Admin:      handler.NewAdmin(catalogService, customerService, carouselService, statsService, auditService),
		Sessions:   sessions,
	}

	// ==========================================================================
	// Router
	// ==========================================================================

	metrics := middleware.NewMetrics("storefront")

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		metrics.Middleware,
		router.Logger(logger),
	)

	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		metrics.Handler().ServeHTTP(w, req)
	})

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	routes.Register(r, deps)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info().Str("address", addr).Msg("Starting server")

	if err := http.ListenAndServe(addr, r); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
