// Package config reads all runtime configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the totem needs to run. Defaults match the
// original event deployment.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// Game rules.
	BatchSize       int      `env:"BATCH_SIZE" envDefault:"250"`
	PrizesPerBatch  int      `env:"PRIZES_PER_BATCH" envDefault:"20"`
	WinProbability  float64  `env:"WIN_PROBABILITY" envDefault:"0.15"`
	MinTenureDays   int      `env:"MIN_TENURE_DAYS" envDefault:"90"`
	TestIDs         []string `env:"TEST_IDS" envDefault:"9999"`
	CatalogTotalRow string   `env:"CATALOG_TOTAL_ROW" envDefault:"TOTAL DE PREMIOS"`

	// Data files prepared from the event spreadsheets.
	PrizesFile    string `env:"PRIZES_FILE" envDefault:"data/prizes.json"`
	EmployeesFile string `env:"EMPLOYEES_FILE" envDefault:"data/employees.json"`

	DB DBConfig `envPrefix:"DB_"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     string `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"postgres"`
	Password string `env:"PASSWORD" envDefault:"postgres"`
	Name     string `env:"NAME" envDefault:"fortuna"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`
}

// Load parses configuration from the environment and validates the game
// rules.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.BatchSize <= 0 {
		return Config{}, fmt.Errorf("BATCH_SIZE must be positive, got %d", cfg.BatchSize)
	}
	if cfg.PrizesPerBatch <= 0 {
		return Config{}, fmt.Errorf("PRIZES_PER_BATCH must be positive, got %d", cfg.PrizesPerBatch)
	}
	if cfg.WinProbability < 0 || cfg.WinProbability > 1 {
		return Config{}, fmt.Errorf("WIN_PROBABILITY must be in [0,1], got %v", cfg.WinProbability)
	}
	return cfg, nil
}

// DSN builds a libpq-compatible connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// URL builds the connection URL the migration tooling expects.
func (c DBConfig) URL() string {
	return fmt.Sprintf(
		"pgx5://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}
