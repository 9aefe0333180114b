package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/tradebook/internal/domain/models"
	"github.com/guttosm/tradebook/internal/report"
	"github.com/guttosm/tradebook/internal/settlement"
	"github.com/guttosm/tradebook/internal/storage"
)

// ErrNotSettled is returned when no trades are stored for the requested date.
var ErrNotSettled = errors.New("date not settled")

// SettlementService exposes settled trades and rebuilds daily reports from storage.
type SettlementService interface {
	ListTrades(ctx context.Context, date time.Time, view string) ([]models.AggregatedTrade, error)
	RenderReport(ctx context.Context, date time.Time) (*report.Document, error)
}

type settlementService struct {
	repo  storage.TradesRepository
	views []models.AccountView
	now   func() time.Time
}

// NewSettlementService builds the service. views is the report order used by
// RenderReport and must match the order the daily run writes.
func NewSettlementService(repo storage.TradesRepository, views []models.AccountView) SettlementService {
	return &settlementService{repo: repo, views: views, now: time.Now}
}

func (s *settlementService) ListTrades(ctx context.Context, date time.Time, view string) ([]models.AggregatedTrade, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.repo.ListTrades(ctx, date, view)
}

// RenderReport re-renders the daily file of date from stored trades. The text
// is identical to the file written by the run that settled the date.
func (s *settlementService) RenderReport(ctx context.Context, date time.Time) (*report.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	trades, err := s.repo.ListTrades(ctx, date, "")
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	if len(trades) == 0 {
		return nil, ErrNotSettled
	}

	type sides struct{ buys, sells []models.AggregatedTrade }
	byView := make(map[string]*sides, len(s.views))
	for _, t := range trades {
		sd, ok := byView[t.View]
		if !ok {
			sd = &sides{}
			byView[t.View] = sd
		}
		if t.TransactionType == models.Buy {
			sd.buys = append(sd.buys, t)
		} else {
			sd.sells = append(sd.sells, t)
		}
	}

	sections := make([]settlement.Section, 0, len(s.views))
	sum := report.Summary{}
	counted := map[string]bool{}
	for _, v := range s.views {
		sd := byView[v.Label]
		if sd == nil {
			sd = &sides{}
		}
		settlement.SortBySecurity(sd.buys)
		settlement.SortBySecurity(sd.sells)
		sections = append(sections, settlement.Section{
			Label:  v.Label,
			Report: settlement.RenderTrades(date, sd.buys, sd.sells, v.IsShared),
		})

		// an account reported under several views is counted once, on its first view
		if counted[v.ClientCode] {
			continue
		}
		counted[v.ClientCode] = true
		sum.Accounts = append(sum.Accounts, report.AccountOrders{
			Label:      v.Label,
			ClientCode: v.ClientCode,
			Orders:     len(sd.buys) + len(sd.sells),
		})
		sum.Buys += len(sd.buys)
		sum.Sells += len(sd.sells)
	}

	return &report.Document{
		Date:        date,
		GeneratedAt: s.now(),
		Summary:     sum,
		Report:      settlement.ComposeDaily(sections),
	}, nil
}
