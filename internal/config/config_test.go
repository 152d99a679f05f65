package config

import (
	"testing"

	"regsim/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"STORE_DRIVER", "DATABASE_URL", "SQLITE_PATH", "SIM_WORKERS", "SIM_SEED", "LOG_LEVEL", "EXPORT_DIR"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "regsim.db", cfg.Store.DSN())
	assert.GreaterOrEqual(t, cfg.Simulation.Workers, 1)
	assert.Zero(t, cfg.Simulation.Seed)
	assert.Equal(t, 20, cfg.Simulation.HistogramBins)
	assert.Equal(t, 95.0, cfg.Simulation.ConfidenceLevel)
	assert.Equal(t, "INFO", cfg.LogLevel)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/regsim?sslmode=disable")
	t.Setenv("SIM_WORKERS", "3")
	t.Setenv("SIM_SEED", "1234")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/regsim?sslmode=disable", cfg.Store.DSN())
	assert.Equal(t, 3, cfg.Simulation.Workers)
	assert.Equal(t, int64(1234), cfg.Simulation.Seed)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"postgres without url", map[string]string{"STORE_DRIVER": "postgres", "DATABASE_URL": ""}},
		{"unknown driver", map[string]string{"STORE_DRIVER": "mongo"}},
		{"zero workers", map[string]string{"SIM_WORKERS": "0"}},
		{"level out of range", map[string]string{"SIM_CONFIDENCE_LEVEL": "120"}},
		{"bad log level", map[string]string{"LOG_LEVEL": "LOUD"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}
