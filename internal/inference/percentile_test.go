package inference

import (
	"math"
	"testing"

	"regsim/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentile_LinearInterpolation(t *testing.T) {
	values := []float64{4, 1, 3, 2}

	tests := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{25, 1.75},
		{50, 2.5},
		{90, 3.7},
		{100, 4},
	}

	for _, tt := range tests {
		got, err := Percentile(values, tt.p)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-12, "p=%g", tt.p)
	}

	// input order is preserved
	assert.Equal(t, []float64{4, 1, 3, 2}, values)
}

func TestPercentile_SingleValue(t *testing.T) {
	got, err := Percentile([]float64{7.5}, 33)
	require.NoError(t, err)
	assert.Equal(t, 7.5, got)
}

func TestPercentile_Errors(t *testing.T) {
	_, err := Percentile(nil, 50)
	assert.True(t, core.IsMissingState(err))

	for _, p := range []float64{-1, 100.0001, math.NaN()} {
		_, err := Percentile([]float64{1, 2}, p)
		assert.True(t, core.IsInvalidParameter(err), "p=%g", p)
	}
}

func TestLerp_StaysWithinEndpoints(t *testing.T) {
	a, b := 0.1, 0.3
	for _, tt := range []float64{0, 0.25, 0.5, 0.75, 0.999999} {
		v := lerp(a, b, tt)
		assert.GreaterOrEqual(t, v, a)
		assert.LessOrEqual(t, v, b)
	}
}
