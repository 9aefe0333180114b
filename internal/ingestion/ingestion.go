package ingestion

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/guttosm/tradebook/internal/domain/models"
	"github.com/guttosm/tradebook/internal/logger"
	"github.com/guttosm/tradebook/internal/report"
	"github.com/guttosm/tradebook/internal/settlement"
	"github.com/guttosm/tradebook/internal/storage"
)

const defaultBatchSize = 5000

// repoCtor is an indirection for creating the repository; tests can override this.
var repoCtor = func(db *sql.DB) storage.TradesRepository {
	return storage.NewTradesRepository(db)
}

// nowFunc is the clock used for report timestamps; tests can override this.
var nowFunc = time.Now

// AccountSource is one brokerage account and the order-book file fetched for it.
type AccountSource struct {
	Label         string
	ClientCode    string
	OrderBookFile string
}

// RunConfig holds everything a daily settlement run needs.
//
// Fields:
//   - OrderBookDir: directory holding the two order-book files.
//   - ReportDir: root of the daily report tree.
//   - Shared: account split 50/50 with Primary; reported under its own label
//     and again unsplit under ActualSharedLabel.
//   - Primary: account reported as-is.
//   - Policy: price attribution for multi-fill orders.
//   - Force: settle non-trading days and replace an existing settlement.
type RunConfig struct {
	OrderBookDir      string
	ReportDir         string
	Shared            AccountSource
	Primary           AccountSource
	ActualSharedLabel string
	Policy            settlement.AttributionPolicy
	Force             bool
}

// Views returns the account views of a run in report order.
func (c RunConfig) Views() []models.AccountView {
	return []models.AccountView{
		{Label: c.Shared.Label, ClientCode: c.Shared.ClientCode, IsShared: true},
		{Label: c.Primary.Label, ClientCode: c.Primary.ClientCode},
		{Label: c.ActualSharedLabel, ClientCode: c.Shared.ClientCode},
	}
}

// ViewSummary is the outcome of one view of a run.
type ViewSummary struct {
	Label     string
	Buys      int
	Sells     int
	BuyTotal  decimal.Decimal
	SellTotal decimal.Decimal
}

// Summary describes a finished (or skipped) daily run.
type Summary struct {
	Date       time.Time
	Skipped    bool
	SkipReason string
	ReportPath string
	Trades     int
	Views      []ViewSummary
	Document   report.Document
}

// Run opens the repository on db and settles asOf. See ProcessDay.
func Run(ctx context.Context, cfg RunConfig, db *sql.DB, asOf time.Time) (*Summary, error) {
	// use indirection to allow tests to swap repository constructor
	return ProcessDay(ctx, cfg, repoCtor(db), asOf)
}

// ProcessDay settles one trading day.
//
// Behavior:
//   - Non-trading days are skipped unless cfg.Force.
//   - A day already present in the settlement log is skipped unless cfg.Force,
//     in which case its stored trades are deleted and the day is settled again.
//   - Both order books are loaded concurrently, then the three views run concurrently.
//   - Any malformed record aborts the run before anything is written.
//   - The composed report is written to disk, trades are persisted in batches,
//     and the settlement log is upserted last.
//
// Returns:
//   - *Summary: counts per view and the report document.
//   - error: first error encountered (if any).
func ProcessDay(ctx context.Context, cfg RunConfig, repo storage.TradesRepository, asOf time.Time) (*Summary, error) {
	day := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	sum := &Summary{Date: day}
	log := logger.Component("settlement").With().Str("date", day.Format("2006-01-02")).Logger()

	if !IsTradingDay(day) && !cfg.Force {
		sum.Skipped, sum.SkipReason = true, "non-trading day"
		log.Info().Bool("skipped", true).Msg("not a trading day")
		return sum, nil
	}

	// Idempotency: skip if already settled, unless force
	exists, err := repo.HasSettlementForDate(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("check settlement log: %w", err)
	}
	if exists && !cfg.Force {
		sum.Skipped, sum.SkipReason = true, "already settled"
		log.Info().Bool("skipped", true).Msg("already settled")
		return sum, nil
	}

	books, err := loadBooks(ctx, cfg)
	if err != nil {
		return nil, err
	}

	results, err := settleViews(ctx, cfg, books, day)
	if err != nil {
		return nil, err
	}

	sections := make([]settlement.Section, 0, len(results))
	var trades []models.AggregatedTrade
	for _, res := range results {
		for _, w := range res.Warnings {
			var empty *settlement.EmptyResultWarning
			if errors.As(w, &empty) {
				log.Warn().Str("view", res.View.Label).Str("type", string(empty.Type)).Msg(w.Error())
			}
		}
		sections = append(sections, settlement.Section{Label: res.View.Label, Report: res.Report})
		trades = append(trades, res.Buys...)
		trades = append(trades, res.Sells...)
		sum.Views = append(sum.Views, ViewSummary{
			Label:     res.View.Label,
			Buys:      len(res.Buys),
			Sells:     len(res.Sells),
			BuyTotal:  res.BuyTotal,
			SellTotal: res.SellTotal,
		})
	}
	text := settlement.ComposeDaily(sections)

	if exists {
		// Delete existing data for that date and reprocess
		if err := repo.DeleteTradesByDate(ctx, day); err != nil {
			return nil, fmt.Errorf("delete existing trades: %w", err)
		}
	}

	path, err := report.WriteDaily(cfg.ReportDir, day, text)
	if err != nil {
		return nil, err
	}
	sum.ReportPath = path

	if err := persist(ctx, repo, trades, defaultBatchSize); err != nil {
		return nil, err
	}
	sum.Trades = len(trades)

	if err := repo.UpsertSettlementLog(ctx, day, path, len(trades)); err != nil {
		return nil, fmt.Errorf("upsert settlement log: %w", err)
	}

	sum.Document = report.Document{
		Date:        day,
		GeneratedAt: nowFunc(),
		Summary:     summarize(cfg, books, results),
		Report:      text,
	}

	log.Info().Str("report", path).Int("trades", len(trades)).Bool("force", cfg.Force).Msg("settlement done")
	return sum, nil
}

type orderBooks struct {
	shared  []models.ExecutionRecord
	primary []models.ExecutionRecord
}

func loadBooks(ctx context.Context, cfg RunConfig) (orderBooks, error) {
	var books orderBooks
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		recs, err := LoadOrderBook(filepath.Join(cfg.OrderBookDir, cfg.Shared.OrderBookFile))
		if err != nil {
			return fmt.Errorf("%s order book: %w", cfg.Shared.Label, err)
		}
		books.shared = recs
		return nil
	})
	g.Go(func() error {
		recs, err := LoadOrderBook(filepath.Join(cfg.OrderBookDir, cfg.Primary.OrderBookFile))
		if err != nil {
			return fmt.Errorf("%s order book: %w", cfg.Primary.Label, err)
		}
		books.primary = recs
		return nil
	})

	if err := g.Wait(); err != nil {
		return orderBooks{}, err
	}
	lg := logger.Component("settlement")
	lg.Info().Int("shared_orders", len(books.shared)).Int("primary_orders", len(books.primary)).Msg("order books loaded")
	return books, nil
}

// settleViews runs every view concurrently; results keep report order.
func settleViews(ctx context.Context, cfg RunConfig, books orderBooks, day time.Time) ([]*settlement.Result, error) {
	agg := settlement.New(settlement.WithAttribution(cfg.Policy))
	views := cfg.Views()
	inputs := [][]models.ExecutionRecord{books.shared, books.primary, books.shared}
	results := make([]*settlement.Result, len(views))

	g, gctx := errgroup.WithContext(ctx)
	for i := range views {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := agg.Aggregate(inputs[i], views[i], day)
			if err != nil {
				return fmt.Errorf("view %s: %w", views[i].Label, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// persist inserts trades in batches of batchSize.
func persist(ctx context.Context, repo storage.TradesRepository, trades []models.AggregatedTrade, batchSize int) error {
	for start := 0; start < len(trades); start += batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(start+batchSize, len(trades))
		if err := repo.InsertTradesBatch(ctx, trades[start:end]); err != nil {
			return fmt.Errorf("insert trades [%d:%d]: %w", start, end, err)
		}
	}
	return nil
}

// summarize counts raw orders per account and settled transactions over the
// split shared view and the primary view. The unsplit view repeats the shared
// orders and is left out of the counts.
func summarize(cfg RunConfig, books orderBooks, results []*settlement.Result) report.Summary {
	s := report.Summary{
		Accounts: []report.AccountOrders{
			{Label: cfg.Shared.Label, ClientCode: cfg.Shared.ClientCode, Orders: len(books.shared)},
			{Label: cfg.Primary.Label, ClientCode: cfg.Primary.ClientCode, Orders: len(books.primary)},
		},
	}
	for _, res := range results[:2] {
		s.Buys += len(res.Buys)
		s.Sells += len(res.Sells)
	}
	return s
}
