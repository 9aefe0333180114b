package app

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/tradebook/config"
)

func partsConfig() config.Config {
	return config.Config{Postgres: config.PostgresConfig{
		User: "tradebook", Password: "secret", Host: "db", Port: 5433, DBName: "settlements", SSLMode: "disable",
	}}
}

// stubOpener swaps sqlOpener for one that records the DSN and hands out a sqlmock handle.
func stubOpener(t *testing.T, pingErr error) *string {
	t.Helper()
	var dsn string
	old := sqlOpener
	sqlOpener = func(driverName, dataSourceName string) (*sql.DB, error) {
		assert.Equal(t, "postgres", driverName)
		dsn = dataSourceName
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		exp := mock.ExpectPing()
		if pingErr != nil {
			exp.WillReturnError(pingErr)
		}
		return db, nil
	}
	t.Cleanup(func() { sqlOpener = old })
	return &dsn
}

func TestInitPostgres_DSN(t *testing.T) {
	t.Run("built from parts", func(t *testing.T) {
		dsn := stubOpener(t, nil)
		db, err := InitPostgres(partsConfig())
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })
		assert.Equal(t, "postgres://tradebook:secret@db:5433/settlements?sslmode=disable", *dsn)
		assert.Equal(t, 10, db.Stats().MaxOpenConnections)
	})

	t.Run("url takes precedence", func(t *testing.T) {
		dsn := stubOpener(t, nil)
		cfg := partsConfig()
		cfg.Postgres.URL = "postgres://other@elsewhere/tradebook?sslmode=require"
		db, err := InitPostgres(cfg)
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })
		assert.Equal(t, cfg.Postgres.URL, *dsn)
	})
}

func TestInitPostgres_OpenError(t *testing.T) {
	old := sqlOpener
	sqlOpener = func(string, string) (*sql.DB, error) { return nil, errors.New("unknown driver") }
	t.Cleanup(func() { sqlOpener = old })

	_, err := InitPostgres(partsConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open postgres")
}

func TestInitPostgres_PingError(t *testing.T) {
	stubOpener(t, errors.New("connection refused"))

	_, err := InitPostgres(partsConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ping postgres")
}
