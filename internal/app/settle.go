package app

import (
	"context"
	"fmt"
	"time"

	"github.com/guttosm/tradebook/config"
	"github.com/guttosm/tradebook/internal/ingestion"
	"github.com/guttosm/tradebook/internal/settlement"
)

// NewRunConfig maps the application config onto a daily run configuration.
// It fails on an unknown attribution policy.
func NewRunConfig(cfg config.Config, force bool) (ingestion.RunConfig, error) {
	policy, err := settlement.ParseAttributionPolicy(cfg.Settlement.Attribution)
	if err != nil {
		return ingestion.RunConfig{}, fmt.Errorf("ATTRIBUTION_POLICY: %w", err)
	}
	return ingestion.RunConfig{
		OrderBookDir: cfg.Settlement.OrderBookDir,
		ReportDir:    cfg.Settlement.ReportDir,
		Shared: ingestion.AccountSource{
			Label:         cfg.Accounts.Shared.Label,
			ClientCode:    cfg.Accounts.Shared.ClientCode,
			OrderBookFile: cfg.Accounts.Shared.OrderBookFile,
		},
		Primary: ingestion.AccountSource{
			Label:         cfg.Accounts.Primary.Label,
			ClientCode:    cfg.Accounts.Primary.ClientCode,
			OrderBookFile: cfg.Accounts.Primary.OrderBookFile,
		},
		ActualSharedLabel: cfg.Accounts.ActualSharedLabel,
		Policy:            policy,
		Force:             force,
	}, nil
}

// Location returns the zone the run date is taken in. An empty zone is UTC.
func Location(cfg config.Config) (*time.Location, error) {
	loc, err := time.LoadLocation(cfg.Settlement.Timezone)
	if err != nil {
		return nil, fmt.Errorf("REPORT_TIMEZONE: %w", err)
	}
	return loc, nil
}

// RunSettlement settles asOf using the global configuration.
// A zero asOf means today in the configured zone.
func RunSettlement(ctx context.Context, asOf time.Time, force bool) (*ingestion.Summary, error) {
	cfg := config.AppConfig

	runCfg, err := NewRunConfig(cfg, force)
	if err != nil {
		return nil, err
	}
	if asOf.IsZero() {
		loc, err := Location(cfg)
		if err != nil {
			return nil, err
		}
		asOf = time.Now().In(loc)
	}

	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}
	defer func() { _ = db.Close() }()

	return ingestion.Run(ctx, runCfg, db, asOf)
}
