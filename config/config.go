package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	FetchModeHTTP    = "http"
	FetchModeBrowser = "browser"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	SourceURL    string        `envconfig:"SOURCE_URL" default:"https://web.archive.org/web/20230908091635/https://en.wikipedia.org/wiki/List_of_largest_banks"`
	FetchMode    string        `envconfig:"FETCH_MODE" default:"http"`
	FetchTimeout time.Duration `envconfig:"FETCH_TIMEOUT" default:"0s"`
	ChromeBin    string        `envconfig:"CHROME_BIN"`

	ExchangeRatePath string `envconfig:"EXCHANGE_RATE_PATH" default:"./exchange_rate.csv"`
	CSVOutputPath    string `envconfig:"CSV_OUTPUT_PATH" default:"./Largest_banks_data.csv"`
	LogFilePath      string `envconfig:"LOG_FILE_PATH" default:"./code_log.txt"`
	LogLevel         string `envconfig:"LOG_LEVEL" default:"info"`

	TableName      string        `envconfig:"TABLE_NAME" default:"Largest_banks"`
	ReportCurrency string        `envconfig:"REPORT_CURRENCY" default:"GBP"`
	QueryTimeout   time.Duration `envconfig:"QUERY_TIMEOUT" default:"0s"`

	DB DBConfig
}

// DBConfig selects and addresses the relational store.
type DBConfig struct {
	Driver     string `envconfig:"DB_DRIVER" default:"sqlite"`
	SQLitePath string `envconfig:"SQLITE_PATH" default:"./Banks.db"`

	PostgresHost     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	PostgresPort     string `envconfig:"POSTGRES_PORT" default:"5432"`
	PostgresUser     string `envconfig:"POSTGRES_USER" default:"banks"`
	PostgresPassword string `envconfig:"POSTGRES_PASSWORD" default:"banks"`
	PostgresDB       string `envconfig:"POSTGRES_DB" default:"banks"`
	PostgresSSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
}

// Load reads envFile (if present) and returns a populated, validated Config.
// An empty envFile means ".env".
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Printf("[config] No %s file found, falling back to system env vars", envFile)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	switch c.FetchMode {
	case FetchModeHTTP, FetchModeBrowser:
	default:
		return fmt.Errorf("config: unknown FETCH_MODE %q (want %q or %q)", c.FetchMode, FetchModeHTTP, FetchModeBrowser)
	}
	switch c.DB.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("config: unknown DB_DRIVER %q (want %q or %q)", c.DB.Driver, DriverSQLite, DriverPostgres)
	}
	if strings.TrimSpace(c.SourceURL) == "" {
		return fmt.Errorf("config: SOURCE_URL is empty")
	}
	if strings.TrimSpace(c.TableName) == "" {
		return fmt.Errorf("config: TABLE_NAME is empty")
	}
	if c.FetchTimeout < 0 || c.QueryTimeout < 0 {
		return fmt.Errorf("config: timeouts must not be negative")
	}
	return nil
}

// DSN returns the data source name for the configured driver.
func (d *DBConfig) DSN() string {
	if d.Driver == DriverPostgres {
		return "host=" + d.PostgresHost +
			" port=" + d.PostgresPort +
			" user=" + d.PostgresUser +
			" password=" + d.PostgresPassword +
			" dbname=" + d.PostgresDB +
			" sslmode=" + d.PostgresSSLMode
	}
	return d.SQLitePath
}
