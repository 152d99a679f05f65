package inference

import (
	"math"
	"testing"

	"regsim/domain/core"
	"regsim/domain/regression"
	"regsim/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intervalRecord(beta1 float64) *regression.SimulationRecord {
	// estimates 101, 100, ..., 1 so sorting matters
	slopes := testkit.Sequence(101, -1, 101)
	return testkit.NewRecord(
		regression.ModelParameters{N: 10, Beta0: 0, Beta1: beta1, Sigma2: 1},
		regression.FitResult{Slope: 48, Intercept: 0},
		slopes,
		testkit.Sequence(0, 0, 101),
	)
}

func TestIntervalEstimator_Estimate(t *testing.T) {
	res, err := NewIntervalEstimator().Estimate(intervalRecord(50), IntervalRequest{
		Parameter:       regression.ParameterSlope,
		ConfidenceLevel: 95,
	})
	require.NoError(t, err)

	assert.InDelta(t, 51.0, res.MeanEstimate, 1e-9)
	assert.InDelta(t, math.Sqrt(858.5), res.StdEstimate, 1e-9)
	assert.InDelta(t, 3.5, res.CILower, 1e-9)
	assert.InDelta(t, 98.5, res.CIUpper, 1e-9)
	assert.Equal(t, 50.0, res.TrueValue)
	assert.Equal(t, 48.0, res.ObservedStat)
	assert.True(t, res.IncludesTrue)
	assert.InDelta(t, 95.0, res.Width(), 1e-9)
}

func TestIntervalEstimator_Coverage(t *testing.T) {
	res, err := NewIntervalEstimator().Estimate(intervalRecord(200), IntervalRequest{
		Parameter:       regression.ParameterSlope,
		ConfidenceLevel: 90,
	})
	require.NoError(t, err)
	assert.False(t, res.IncludesTrue)

	inside := 10.0
	res, err = NewIntervalEstimator().Estimate(intervalRecord(200), IntervalRequest{
		Parameter:       regression.ParameterSlope,
		ConfidenceLevel: 90,
		TrueValue:       &inside,
	})
	require.NoError(t, err)
	assert.True(t, res.IncludesTrue)
}

func TestIntervalEstimator_Boundaries(t *testing.T) {
	rec := intervalRecord(50)
	estimator := NewIntervalEstimator()

	full, err := estimator.Estimate(rec, IntervalRequest{Parameter: regression.ParameterSlope, ConfidenceLevel: 100})
	require.NoError(t, err)
	assert.Equal(t, 1.0, full.CILower)
	assert.Equal(t, 101.0, full.CIUpper)

	narrow, err := estimator.Estimate(rec, IntervalRequest{Parameter: regression.ParameterSlope, ConfidenceLevel: 1e-9})
	require.NoError(t, err)
	assert.InDelta(t, 51.0, narrow.CILower, 1e-6)
	assert.InDelta(t, 51.0, narrow.CIUpper, 1e-6)
	assert.LessOrEqual(t, narrow.CILower, narrow.CIUpper)
}

func TestIntervalEstimator_ConstantEstimates(t *testing.T) {
	res, err := NewIntervalEstimator().Estimate(intervalRecord(0), IntervalRequest{
		Parameter:       regression.ParameterIntercept,
		ConfidenceLevel: 95,
	})
	require.NoError(t, err)
	assert.Zero(t, res.CILower)
	assert.Zero(t, res.CIUpper)
	assert.Zero(t, res.StdEstimate)
	assert.True(t, res.IncludesTrue)
}

func TestIntervalEstimator_Errors(t *testing.T) {
	estimator := NewIntervalEstimator()

	_, err := estimator.Estimate(nil, IntervalRequest{Parameter: regression.ParameterSlope, ConfidenceLevel: 95})
	assert.True(t, core.IsMissingState(err))

	for _, level := range []float64{0, -5, 100.5, math.NaN()} {
		_, err := estimator.Estimate(intervalRecord(1), IntervalRequest{Parameter: regression.ParameterSlope, ConfidenceLevel: level})
		assert.True(t, core.IsInvalidParameter(err), "level=%g", level)
	}

	_, err = estimator.Estimate(intervalRecord(1), IntervalRequest{Parameter: "beta2", ConfidenceLevel: 95})
	assert.True(t, core.IsInvalidParameter(err))
}
