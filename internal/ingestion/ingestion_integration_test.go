//go:build integration
// +build integration

package ingestion

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	goose "github.com/pressly/goose/v3"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres spins up a Postgres container and returns a DSN and terminate func.
func startPostgres(t *testing.T) (dsn string, terminate func()) {
	t.Helper()
	ctx := context.Background()

	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "tradebook",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
		},
		WaitingFor: wait.ForSQL("5432/tcp", "postgres", func(host string, port nat.Port) string {
			return fmt.Sprintf("host=%s port=%s user=postgres password=postgres dbname=tradebook sslmode=disable", host, port.Port())
		}).WithStartupTimeout(60 * time.Second),
	}

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("container start: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", "postgres", "postgres", host, port.Port(), "tradebook")
	terminate = func() { _ = container.Terminate(context.Background()) }
	return dsn, terminate
}

func openDB(t *testing.T, dsn string) *sql.DB {
	t.Helper()
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	return db
}

func runMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("dialect: %v", err)
	}
	// migrations path relative to this test file (internal/ingestion → ../../db/migrations)
	path := filepath.Join("..", "..", "db", "migrations")
	if err := goose.Up(db, path); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
}

func TestIngestion_EndToEnd_ProcessDay(t *testing.T) {
	dsn, terminate := startPostgres(t)
	defer terminate()
	db := openDB(t, dsn)
	defer db.Close()
	runMigrations(t, db)

	cfg := newRunConfig(t, sharedBook, primaryBook)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	sum, err := Run(ctx, cfg, db, settleDay)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Assert data inserted
	var cnt int
	if err := db.QueryRow("SELECT COUNT(*) FROM settled_trades WHERE settlement_date=$1", settleDay).Scan(&cnt); err != nil {
		t.Fatalf("count trades: %v", err)
	}
	if cnt != sum.Trades || cnt != 5 {
		t.Fatalf("expected 5 trades, got %d (summary %d)", cnt, sum.Trades)
	}

	// Assert settlement log upserted
	var rows int
	if err := db.QueryRow("SELECT row_count FROM settlement_log WHERE settlement_date=$1", settleDay).Scan(&rows); err != nil {
		t.Fatalf("check settlement_log: %v", err)
	}
	if rows != 5 {
		t.Fatalf("expected settlement_log row_count 5, got %d", rows)
	}

	// Second run is a no-op; a forced run replaces the day without duplicates.
	again, err := Run(ctx, cfg, db, settleDay)
	if err != nil || !again.Skipped {
		t.Fatalf("expected skip on rerun, got %+v err=%v", again, err)
	}
	cfg.Force = true
	if _, err := Run(ctx, cfg, db, settleDay); err != nil {
		t.Fatalf("forced Run: %v", err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM settled_trades WHERE settlement_date=$1", settleDay).Scan(&cnt); err != nil {
		t.Fatalf("count trades: %v", err)
	}
	if cnt != 5 {
		t.Fatalf("expected 5 trades after forced rerun, got %d", cnt)
	}
}
