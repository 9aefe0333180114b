package main

//
//  @title           tradebook API
//  @version         1.0
//  @description     Daily brokerage settlement reports and settled trades.
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        trades
//  @tag.description Settled trades per date and view
//
//  @tag.name        report
//  @tag.description Daily settlement report in text or HTML
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // report timezone on hosts without a zoneinfo database

	"github.com/guttosm/tradebook/config"
	_ "github.com/guttosm/tradebook/docs" // swagger docs
	"github.com/guttosm/tradebook/internal/app"
	"github.com/guttosm/tradebook/internal/logger"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (e.g., DB connections).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// parseDate reads --date (YYYY-MM-DD) in loc. Empty means zero time, which
// RunSettlement resolves to today.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation("2006-01-02", s, loc)
}

// settle runs one daily settlement and logs its outcome.
func settle(ctx context.Context, date string, force bool) error {
	loc, err := app.Location(config.AppConfig)
	if err != nil {
		return err
	}
	asOf, err := parseDate(date, loc)
	if err != nil {
		return err
	}

	sum, err := app.RunSettlement(ctx, asOf, force)
	if err != nil {
		return err
	}
	if sum.Skipped {
		logger.L().Info().Time("date", sum.Date).Str("reason", sum.SkipReason).Msg("settlement skipped")
		return nil
	}
	for _, v := range sum.Views {
		logger.L().Info().
			Str("view", v.Label).
			Int("buys", v.Buys).
			Int("sells", v.Sells).
			Str("buy_total", v.BuyTotal.String()).
			Str("sell_total", v.SellTotal.String()).
			Msg("view settled")
	}
	logger.L().Info().Str("report", sum.ReportPath).Int("trades", sum.Trades).Msg("settlement completed successfully")
	return nil
}

// main is the entry point of the tradebook application.
//
// Modes (selected via --mode flag):
//   - settle: Settles one day from the saved order books and writes the daily report.
//   - api:    Starts the REST API over settled trades and reports.
//
// Flags:
//   - --mode:  Execution mode ("settle" or "api"). Default: "settle".
//   - --date:  Settlement date (YYYY-MM-DD) in REPORT_TIMEZONE. Default: today.
//   - --force: Settle non-trading days and replace an existing settlement.
//   - --port:  Port for the API server. Defaults to value from config (SERVER_PORT).
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	// Parse CLI flags (override config defaults if provided)
	mode := flag.String("mode", "settle", "Mode: settle or api")
	date := flag.String("date", "", "Settlement date YYYY-MM-DD (default: today in REPORT_TIMEZONE)")
	force := flag.Bool("force", false, "Settle even on non-trading days and replace an existing settlement for the date")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	flag.Parse()

	switch *mode {
	case "settle":
		logger.L().Info().Str("date", *date).Bool("force", *force).Msg("running settlement")
		if err := settle(ctx, *date, *force); err != nil {
			logger.L().Fatal().Err(err).Msg("settlement failed")
		}

	case "api":
		// API mode: start the HTTP server
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(ctx, server, cleanup)

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
