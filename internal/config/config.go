package config

import (
	"os"
	"runtime"
	"strconv"
	"strings"

	"regsim/internal/errors"

	"github.com/go-playground/validator/v10"
)

// Store drivers
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config represents the complete application configuration
type Config struct {
	Store      StoreConfig      `validate:"required"`
	Simulation SimulationConfig `validate:"required"`
	Export     ExportConfig
	LogLevel   string `validate:"oneof=ERROR WARN INFO DEBUG TRACE"`
}

// StoreConfig selects where simulation records live between requests
type StoreConfig struct {
	Driver      string `validate:"oneof=memory sqlite postgres"`
	DatabaseURL string `validate:"required_if=Driver postgres"`
	SQLitePath  string `validate:"required_if=Driver sqlite"`
}

// SimulationConfig holds engine and inference defaults
type SimulationConfig struct {
	Workers         int     `validate:"gte=1"`
	Seed            int64   // 0 picks a fresh seed per run
	HistogramBins   int     `validate:"gte=1,lte=1000"`
	ConfidenceLevel float64 `validate:"gt=0,lte=100"`
	MaxSimulations  int     `validate:"gte=1"`
	MaxObservations int     `validate:"gte=2"`
}

// ExportConfig holds spreadsheet export settings
type ExportConfig struct {
	Dir string
}

var validate = validator.New()

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Store:      loadStoreConfig(),
		Simulation: loadSimulationConfig(),
		Export: ExportConfig{
			Dir: getEnvOrDefault("EXPORT_DIR", "."),
		},
		LogLevel: strings.ToUpper(getEnvOrDefault("LOG_LEVEL", "INFO")),
	}

	if err := Validate(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

// Validate checks struct constraints
func Validate(config *Config) error {
	if err := validate.Struct(config); err != nil {
		return &errors.AppError{Code: errors.CodeConfigInvalid, Message: "invalid configuration", Cause: err}
	}
	return nil
}

// DSN returns the data source name for the configured driver
func (s StoreConfig) DSN() string {
	switch s.Driver {
	case DriverPostgres:
		return s.DatabaseURL
	case DriverSQLite:
		return s.SQLitePath
	}
	return ""
}

func loadStoreConfig() StoreConfig {
	return StoreConfig{
		Driver:      strings.ToLower(getEnvOrDefault("STORE_DRIVER", DriverSQLite)),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  getEnvOrDefault("SQLITE_PATH", "regsim.db"),
	}
}

func loadSimulationConfig() SimulationConfig {
	return SimulationConfig{
		Workers:         getEnvIntOrDefault("SIM_WORKERS", runtime.NumCPU()),
		Seed:            getEnvInt64OrDefault("SIM_SEED", 0),
		HistogramBins:   getEnvIntOrDefault("SIM_HISTOGRAM_BINS", 20),
		ConfidenceLevel: getEnvFloatOrDefault("SIM_CONFIDENCE_LEVEL", 95),
		MaxSimulations:  getEnvIntOrDefault("SIM_MAX_SIMULATIONS", 1_000_000),
		MaxObservations: getEnvIntOrDefault("SIM_MAX_OBSERVATIONS", 1_000_000),
	}
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
