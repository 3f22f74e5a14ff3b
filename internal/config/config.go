package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Data    DataConfig
	Server  ServerConfig
	Sheets  SheetsConfig
	Refresh RefreshConfig
	Solver  SolverConfig
}

// DataConfig locates the three input tables and the output directory.
// Table paths may be local files or http(s) URLs.
type DataConfig struct {
	Dir              string
	OutDir           string
	FieldsPath       string
	RequirementsPath string
	ProductsPath     string
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// SheetsConfig configures the optional Google Sheets table source. The source
// is enabled when SpreadsheetID is set.
type SheetsConfig struct {
	CredentialsPath   string
	SpreadsheetID     string
	FieldsRange       string
	RequirementsRange string
	ProductsRange     string
}

// RefreshConfig holds the optional cron schedule used by serve mode to
// re-run the configured scenarios.
type RefreshConfig struct {
	CronSchedule string
	Timezone     string
}

// SolverConfig bounds the LP solve.
type SolverConfig struct {
	Timeout time.Duration
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	dataDir := getenvWithDefault("BLENDOPT_DATA_DIR", "data")

	timeout, err := parseTimeout(getenvWithDefault("BLENDOPT_SOLVE_TIMEOUT", "30s"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Data: DataConfig{
			Dir:              dataDir,
			OutDir:           getenvWithDefault("BLENDOPT_OUT_DIR", dataDir),
			FieldsPath:       getenvWithDefault("BLENDOPT_FIELDS_PATH", filepath.Join(dataDir, "potreros.csv")),
			RequirementsPath: getenvWithDefault("BLENDOPT_REQUIREMENTS_PATH", filepath.Join(dataDir, "requerimientos.csv")),
			ProductsPath:     getenvWithDefault("BLENDOPT_PRODUCTS_PATH", filepath.Join(dataDir, "productos.csv")),
		},
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Sheets: SheetsConfig{
			CredentialsPath:   os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:     os.Getenv("GOOGLE_SHEET_TABLES_ID"),
			FieldsRange:       getenvWithDefault("BLENDOPT_SHEET_FIELDS_RANGE", "potreros!A:C"),
			RequirementsRange: getenvWithDefault("BLENDOPT_SHEET_REQUIREMENTS_RANGE", "requerimientos!A:D"),
			ProductsRange:     getenvWithDefault("BLENDOPT_SHEET_PRODUCTS_RANGE", "productos!A:G"),
		},
		Refresh: RefreshConfig{
			CronSchedule: os.Getenv("BLENDOPT_REFRESH_SCHEDULE"),
			Timezone:     getenvWithDefault("TIMEZONE", "America/Santiago"),
		},
		Solver: SolverConfig{
			Timeout: timeout,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Data.Dir == "" {
		return errors.New("BLENDOPT_DATA_DIR must not be empty")
	}

	if c.Data.OutDir == "" {
		return errors.New("BLENDOPT_OUT_DIR must not be empty")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Sheets.SpreadsheetID != "" && c.Sheets.CredentialsPath == "" {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided when GOOGLE_SHEET_TABLES_ID is set")
	}

	if c.Solver.Timeout < 0 {
		return errors.New("BLENDOPT_SOLVE_TIMEOUT must not be negative")
	}

	return nil
}

func parseTimeout(raw string) (time.Duration, error) {
	if raw == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid BLENDOPT_SOLVE_TIMEOUT %q: %w", raw, err)
	}
	return d, nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
