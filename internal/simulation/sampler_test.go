package simulation

import (
	"testing"

	"regsim/domain/core"
	"regsim/domain/regression"
	"regsim/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampler_Sample(t *testing.T) {
	sampler := NewSampler()
	params := testkit.SmallParams()

	ds, err := sampler.Sample(params, testkit.Rand(testkit.DefaultSeed))
	require.NoError(t, err)
	require.Len(t, ds.X, params.N)
	require.Len(t, ds.Y, params.N)

	for i, x := range ds.X {
		assert.GreaterOrEqual(t, x, 0.0, "X[%d]", i)
		assert.Less(t, x, 1.0, "X[%d]", i)
	}
}

func TestSampler_ZeroVarianceIsExactLine(t *testing.T) {
	params := regression.ModelParameters{N: 25, Mu: 0.5, Beta0: 1, Beta1: -2, Sigma2: 0, S: 1}

	ds, err := NewSampler().Sample(params, testkit.Rand(7))
	require.NoError(t, err)

	for i := range ds.X {
		assert.InDelta(t, params.Beta0+params.Beta1*ds.X[i]+params.Mu, ds.Y[i], 1e-12)
	}
}

func TestSampler_Deterministic(t *testing.T) {
	params := testkit.SmallParams()
	a, err := NewSampler().Sample(params, testkit.Rand(99))
	require.NoError(t, err)
	b, err := NewSampler().Sample(params, testkit.Rand(99))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSampler_InvalidParameters(t *testing.T) {
	tests := []struct {
		name   string
		params regression.ModelParameters
		nilRNG bool
	}{
		{"zero N", regression.ModelParameters{N: 0, Sigma2: 1, S: 1}, false},
		{"negative variance", regression.ModelParameters{N: 5, Sigma2: -1, S: 1}, false},
		{"missing rng", regression.ModelParameters{N: 5, Sigma2: 1, S: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := testkit.Rand(1)
			if tt.nilRNG {
				rng = nil
			}
			ds, err := NewSampler().Sample(tt.params, rng)
			assert.Nil(t, ds)
			assert.True(t, core.IsInvalidParameter(err), "got %v", err)
		})
	}
}
