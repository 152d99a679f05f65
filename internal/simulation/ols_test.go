package simulation

import (
	"testing"

	"regsim/domain/core"
	"regsim/domain/regression"
	"regsim/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitOLS_TwoPointLine(t *testing.T) {
	fit, err := FitOLS(&regression.Dataset{X: []float64{0, 1}, Y: []float64{2, 5}})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, fit.Slope, 1e-12)
	assert.InDelta(t, 2.0, fit.Intercept, 1e-12)
}

func TestFitOLS_RecoversNoiselessModel(t *testing.T) {
	params := regression.ModelParameters{N: 50, Mu: 0.25, Beta0: -3, Beta1: 4.5, Sigma2: 0, S: 1}
	ds, err := NewSampler().Sample(params, testkit.Rand(3))
	require.NoError(t, err)

	fit, err := FitOLS(ds)
	require.NoError(t, err)
	assert.InDelta(t, params.Beta1, fit.Slope, 1e-9)
	// mu is absorbed by the intercept
	assert.InDelta(t, params.Beta0+params.Mu, fit.Intercept, 1e-9)
}

func TestFitOLS_KnownResiduals(t *testing.T) {
	// Sxy = 9, Sxx = 5 about the means (1.5, 4)
	ds := &regression.Dataset{
		X: []float64{0, 1, 2, 3},
		Y: []float64{1.5, 2.5, 5.5, 6.5},
	}
	fit, err := FitOLS(ds)
	require.NoError(t, err)
	assert.InDelta(t, 1.8, fit.Slope, 1e-12)
	assert.InDelta(t, 1.3, fit.Intercept, 1e-12)
}

func TestFitOLS_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		ds   *regression.Dataset
	}{
		{"nil dataset", nil},
		{"single point", &regression.Dataset{X: []float64{0.3}, Y: []float64{1}}},
		{"identical X", &regression.Dataset{X: []float64{0.1, 0.1, 0.1}, Y: []float64{1, 2, 3}}},
		{"length mismatch", &regression.Dataset{X: []float64{0, 1, 2}, Y: []float64{1, 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FitOLS(tt.ds)
			assert.True(t, core.IsDegenerateInput(err), "got %v", err)
		})
	}
}
