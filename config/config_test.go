package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, FetchModeHTTP, cfg.FetchMode)
	assert.Equal(t, time.Duration(0), cfg.FetchTimeout)
	assert.Equal(t, "Largest_banks", cfg.TableName)
	assert.Equal(t, "GBP", cfg.ReportCurrency)
	assert.Equal(t, "./Largest_banks_data.csv", cfg.CSVOutputPath)
	assert.Equal(t, "./code_log.txt", cfg.LogFilePath)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "./Banks.db", cfg.DB.DSN())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TABLE_NAME", "Banks_2023")
	t.Setenv("FETCH_TIMEOUT", "30s")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_DB", "analytics")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "Banks_2023", cfg.TableName)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t,
		"host=db port=5432 user=banks password=banks dbname=analytics sslmode=disable",
		cfg.DB.DSN())
}

func TestLoadFromEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("REPORT_CURRENCY=EUR\nSQLITE_PATH=/tmp/x.db\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("REPORT_CURRENCY")
		os.Unsetenv("SQLITE_PATH")
	})

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "EUR", cfg.ReportCurrency)
	assert.Equal(t, "/tmp/x.db", cfg.DB.DSN())
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			SourceURL: "http://example.com",
			FetchMode: FetchModeHTTP,
			TableName: "t",
			DB:        DBConfig{Driver: DriverSQLite},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"browser mode", func(c *Config) { c.FetchMode = FetchModeBrowser }, false},
		{"unknown fetch mode", func(c *Config) { c.FetchMode = "ftp" }, true},
		{"unknown driver", func(c *Config) { c.DB.Driver = "mysql" }, true},
		{"empty table", func(c *Config) { c.TableName = " " }, true},
		{"empty url", func(c *Config) { c.SourceURL = "" }, true},
		{"negative timeout", func(c *Config) { c.QueryTimeout = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
