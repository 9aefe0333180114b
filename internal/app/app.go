package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/tradebook/config"
	"github.com/guttosm/tradebook/internal/api"
	"github.com/guttosm/tradebook/internal/ingestion"
	"github.com/guttosm/tradebook/internal/service"
	"github.com/guttosm/tradebook/internal/storage"
)

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Resolves the account views and report timezone from config.
//   - Connects to PostgreSQL using InitPostgres().
//   - Initializes the repository and settlement service.
//   - Configures the Gin router with all API routes.
//   - Registers health and readiness probes.
//   - Provides a cleanup function to close resources (e.g., DB connection).
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp() (*gin.Engine, func(), error) {
	// Load global configuration
	cfg := config.AppConfig

	runCfg, err := NewRunConfig(cfg, false)
	if err != nil {
		return nil, nil, err
	}
	loc, err := Location(cfg)
	if err != nil {
		return nil, nil, err
	}

	// Connect to PostgreSQL
	// indirection for unit testing
	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	repo := storage.NewTradesRepository(db)
	svc := service.NewSettlementService(repo, runCfg.Views())

	// Requests without a date read the most recent trading day in the report zone
	lastTradingDay := func() time.Time {
		return ingestion.LastNTradingDays(1, time.Now().In(loc))[0]
	}
	handler := api.NewHandler(svc, lastTradingDay)

	router := api.NewRouter(handler)

	// Register health and readiness probes
	healthHandler := api.NewHealthHandler(db.PingContext)
	healthHandler.Register(router)

	// Cleanup resources on shutdown
	cleanup := func() {
		_ = db.Close()
	}

	return router, cleanup, nil
}
