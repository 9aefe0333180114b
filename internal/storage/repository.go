package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	pq "github.com/lib/pq"

	"github.com/guttosm/tradebook/internal/domain/models"
)

// TradesRepository defines contract for DB operations on settled trades.
// Every call is bound to ctx, so a request deadline cancels the query in flight.
type TradesRepository interface {
	InsertTradesBatch(ctx context.Context, trades []models.AggregatedTrade) error
	ListTrades(ctx context.Context, date time.Time, view string) ([]models.AggregatedTrade, error)
	HasSettlementForDate(ctx context.Context, date time.Time) (bool, error)
	UpsertSettlementLog(ctx context.Context, date time.Time, reportPath string, rowCount int) error
	DeleteTradesByDate(ctx context.Context, date time.Time) error
}

type tradesRepository struct {
	db *sql.DB
}

func NewTradesRepository(db *sql.DB) TradesRepository {
	return &tradesRepository{db: db}
}

// InsertTradesBatch inserts multiple settled trades into DB in a single transaction.
func (r *tradesRepository) InsertTradesBatch(ctx context.Context, trades []models.AggregatedTrade) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	// Small optimization for bulk load
	if _, err := tx.ExecContext(ctx, `SET LOCAL synchronous_commit = OFF`); err != nil {
		_ = tx.Rollback()
		return err
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(
		"settled_trades",
		"settlement_date",
		"client_code",
		"view",
		"transaction_type",
		"security_id",
		"price",
		"quantity",
		"exchange_code",
		"ref_id",
		"trade_time",
		"trade_type",
		"is_active",
	))
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	// unparseable broker timestamps are stored as NULL
	toNullDate := func(d time.Time) interface{} {
		if d.IsZero() {
			return nil
		}
		return d
	}

	for _, rec := range trades {
		if _, err := stmt.ExecContext(ctx,
			rec.Date,
			rec.ClientCode,
			rec.View,
			string(rec.TransactionType),
			rec.SecurityID,
			rec.Price,
			rec.Quantity,
			rec.ExchangeCode,
			rec.RefID,
			toNullDate(rec.TradeTime),
			rec.TradeType,
			rec.IsActive,
		); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return err
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return err
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// ListTrades returns the trades settled on date in insertion order. An empty
// view returns every view of that date.
func (r *tradesRepository) ListTrades(ctx context.Context, date time.Time, view string) ([]models.AggregatedTrade, error) {
	query := `
		SELECT settlement_date, client_code, view, transaction_type, security_id,
		       price, quantity, exchange_code, ref_id, trade_time, trade_type, is_active
		FROM settled_trades
		WHERE settlement_date = $1`
	args := []interface{}{date}
	if view != "" {
		query += fmt.Sprintf(" AND view = $%d", len(args)+1)
		args = append(args, view)
	}
	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.AggregatedTrade
	for rows.Next() {
		var (
			t         models.AggregatedTrade
			side      string
			tradeTime sql.NullTime
		)
		if err := rows.Scan(
			&t.Date, &t.ClientCode, &t.View, &side, &t.SecurityID,
			&t.Price, &t.Quantity, &t.ExchangeCode, &t.RefID, &tradeTime, &t.TradeType, &t.IsActive,
		); err != nil {
			return nil, err
		}
		t.TransactionType = models.TransactionType(side)
		if tradeTime.Valid {
			t.TradeTime = tradeTime.Time
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// HasSettlementForDate checks if a settlement run was already recorded for a given day.
func (r *tradesRepository) HasSettlementForDate(ctx context.Context, date time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM settlement_log WHERE settlement_date = $1)`, date).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// UpsertSettlementLog records (or updates) a settlement entry for a given day.
func (r *tradesRepository) UpsertSettlementLog(ctx context.Context, date time.Time, reportPath string, rowCount int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settlement_log (settlement_date, report_path, row_count)
		VALUES ($1, $2, $3)
		ON CONFLICT (settlement_date)
		DO UPDATE SET report_path = EXCLUDED.report_path,
					  row_count = EXCLUDED.row_count,
					  settled_at = NOW()
	`, date, reportPath, rowCount)
	return err
}

// DeleteTradesByDate removes all settled trades for a given settlement_date.
func (r *tradesRepository) DeleteTradesByDate(ctx context.Context, date time.Time) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM settled_trades WHERE settlement_date = $1`, date)
	return err
}
