package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Data sources
const (
	SourceCSV    = "csv"
	SourceSQLite = "sqlite"
)

type Config struct {
	// Server configuration
	Server struct {
		Port string `env:"PORT" envDefault:"5250"`

		// Log level understood by logrus (debug, info, warn, error)
		LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

		// Allowed CORS origins, comma separated
		CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	}

	// Data configuration
	Data struct {
		// Where the three tables are read from: csv or sqlite
		Source string `env:"DATA_SOURCE" envDefault:"csv"`

		// Historical series (date, value)
		SeriesPath string `env:"SERIES_PATH" envDefault:"data/serie_vivienda_BCCh.csv"`

		// Forecast series (date, y_real, y_pred)
		ForecastPath string `env:"FORECAST_PATH" envDefault:"data/forecast.csv"`

		// Region and commune lookup
		CommunesPath string `env:"COMMUNES_PATH" envDefault:"data/tabla_comunas_base.csv"`

		// SQLite file holding the same three tables when Source is sqlite
		SQLitePath string `env:"SQLITE_PATH" envDefault:"data/vivienda.db"`

		// How often the sources are checked for changes, 0 disables it
		ReloadInterval time.Duration `env:"RELOAD_INTERVAL" envDefault:"1m"`

		// Caption shown under the dashboard
		SourceCaption string `env:"SOURCE_CAPTION" envDefault:"Fuente: Banco Central de Chile y SUBDERE 2023."`
	}

	// Chart configuration
	Chart struct {
		WidthInches  float64 `env:"CHART_WIDTH_IN" envDefault:"9"`
		HeightInches float64 `env:"CHART_HEIGHT_IN" envDefault:"4"`
		Title        string  `env:"CHART_TITLE" envDefault:"Serie histórica y pronóstico"`
	}
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values env tags cannot express.
func (c *Config) Validate() error {
	switch c.Data.Source {
	case SourceCSV, SourceSQLite:
	default:
		return fmt.Errorf("unsupported DATA_SOURCE %q (want %s or %s)", c.Data.Source, SourceCSV, SourceSQLite)
	}
	if len(c.Server.CORSOrigins) == 0 {
		return errors.New("CORS_ORIGINS must list at least one origin or *")
	}
	if c.Chart.WidthInches <= 0 || c.Chart.HeightInches <= 0 {
		return fmt.Errorf("chart dimensions must be positive, got %vx%v", c.Chart.WidthInches, c.Chart.HeightInches)
	}
	return nil
}
