package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system,
// such as server settings, Postgres connection details, the settlement run and the
// two linked brokerage accounts.
//
// Example ENV equivalent:
//
//	SERVER_PORT=8080
//	POSTGRES_HOST=localhost
//	POSTGRES_DB=tradebook
//	ORDERBOOK_DIR=./data
//	REPORT_DIR=./bkp
//	REPORT_TIMEZONE=Asia/Kolkata
//	ATTRIBUTION_POLICY=last_fill
//	SHARED_CLIENT_CODE=W1573
//	SHARED_ACCOUNT_LABEL=PEW
//	SHARED_ORDERBOOK_FILE=response-pew.json
//	PRIMARY_CLIENT_CODE=J77302
//	PRIMARY_ACCOUNT_LABEL=JPW
//	PRIMARY_ORDERBOOK_FILE=response-jpw.json
//	ACTUAL_SHARED_LABEL=Actual PEW
type Config struct {
	Server     ServerConfig     // HTTP server configuration
	Postgres   PostgresConfig   // PostgreSQL connection settings
	Settlement SettlementConfig // Daily run settings
	Accounts   AccountsConfig   // Linked brokerage accounts
}

// ServerConfig holds HTTP server settings such as the port to listen on.
type ServerConfig struct {
	Port string // The TCP port the HTTP server will listen on (e.g., "8080")
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - URL: computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// SettlementConfig controls where order books are read from and where the
// daily report is written.
type SettlementConfig struct {
	OrderBookDir string // directory holding the fetched order-book JSON files
	ReportDir    string // root of the <Mon-YYYY>/<DD-Mon-YYYY>.txt tree
	Timezone     string // IANA zone used to derive the as-of date
	Attribution  string // last_fill | first_fill | weighted_average
}

// AccountConfig describes one brokerage account.
type AccountConfig struct {
	Label         string
	ClientCode    string
	OrderBookFile string
}

// AccountsConfig holds the shared (split 50/50) account and the primary account.
// The shared account is reported twice: split under Shared.Label and unsplit
// under ActualSharedLabel.
type AccountsConfig struct {
	Shared            AccountConfig
	Primary           AccountConfig
	ActualSharedLabel string
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing, validateConfig() will terminate the app
//     with a descriptive log message.
func LoadConfig() {
	// Default values
	viper.SetDefault("SERVER_PORT", "8080")

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "tradebook")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	viper.SetDefault("ORDERBOOK_DIR", "./data")
	viper.SetDefault("REPORT_DIR", "./bkp")
	viper.SetDefault("REPORT_TIMEZONE", "Asia/Kolkata")
	viper.SetDefault("ATTRIBUTION_POLICY", "last_fill")

	viper.SetDefault("SHARED_CLIENT_CODE", "W1573")
	viper.SetDefault("SHARED_ACCOUNT_LABEL", "PEW")
	viper.SetDefault("SHARED_ORDERBOOK_FILE", "response-pew.json")
	viper.SetDefault("PRIMARY_CLIENT_CODE", "J77302")
	viper.SetDefault("PRIMARY_ACCOUNT_LABEL", "JPW")
	viper.SetDefault("PRIMARY_ORDERBOOK_FILE", "response-jpw.json")
	viper.SetDefault("ACTUAL_SHARED_LABEL", "Actual PEW")

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	// Read environment variables automatically
	viper.AutomaticEnv()

	// Populate global config instance
	AppConfig = Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
		Settlement: SettlementConfig{
			OrderBookDir: viper.GetString("ORDERBOOK_DIR"),
			ReportDir:    viper.GetString("REPORT_DIR"),
			Timezone:     viper.GetString("REPORT_TIMEZONE"),
			Attribution:  viper.GetString("ATTRIBUTION_POLICY"),
		},
		Accounts: AccountsConfig{
			Shared: AccountConfig{
				Label:         viper.GetString("SHARED_ACCOUNT_LABEL"),
				ClientCode:    viper.GetString("SHARED_CLIENT_CODE"),
				OrderBookFile: viper.GetString("SHARED_ORDERBOOK_FILE"),
			},
			Primary: AccountConfig{
				Label:         viper.GetString("PRIMARY_ACCOUNT_LABEL"),
				ClientCode:    viper.GetString("PRIMARY_CLIENT_CODE"),
				OrderBookFile: viper.GetString("PRIMARY_ORDERBOOK_FILE"),
			},
			ActualSharedLabel: viper.GetString("ACTUAL_SHARED_LABEL"),
		},
	}

	// Construct Postgres DSN (used by database/sql)
	AppConfig.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		AppConfig.Postgres.User,
		AppConfig.Postgres.Password,
		AppConfig.Postgres.Host,
		AppConfig.Postgres.Port,
		AppConfig.Postgres.DBName,
		AppConfig.Postgres.SSLMode,
	)

	// Validate critical fields
	validateConfig()
}

// missingKeys returns the names of required variables that are empty.
func missingKeys(c Config) []string {
	var missing []string

	if c.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if c.Postgres.Host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if c.Postgres.Port == 0 {
		missing = append(missing, "POSTGRES_PORT")
	}
	if c.Postgres.User == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if c.Postgres.Password == "" {
		missing = append(missing, "POSTGRES_PASSWORD")
	}
	if c.Postgres.DBName == "" {
		missing = append(missing, "POSTGRES_DB")
	}
	if c.Settlement.OrderBookDir == "" {
		missing = append(missing, "ORDERBOOK_DIR")
	}
	if c.Settlement.ReportDir == "" {
		missing = append(missing, "REPORT_DIR")
	}
	if c.Accounts.Shared.ClientCode == "" {
		missing = append(missing, "SHARED_CLIENT_CODE")
	}
	if c.Accounts.Shared.OrderBookFile == "" {
		missing = append(missing, "SHARED_ORDERBOOK_FILE")
	}
	if c.Accounts.Primary.ClientCode == "" {
		missing = append(missing, "PRIMARY_CLIENT_CODE")
	}
	if c.Accounts.Primary.OrderBookFile == "" {
		missing = append(missing, "PRIMARY_ORDERBOOK_FILE")
	}
	return missing
}

// validateConfig ensures required variables are present and terminates
// the application if they are missing.
func validateConfig() {
	if missing := missingKeys(AppConfig); len(missing) > 0 {
		log.Fatalf("missing required environment variables: %v\n", missing)
	}
}
