package inference

import (
	"testing"

	"regsim/domain/regression"
	"regsim/internal/testkit"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var testTypes = []regression.TestType{regression.TestGreater, regression.TestLess, regression.TestTwoSided}

func TestProperty_PValueInUnitInterval(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		estimates := rapid.SliceOfN(rapid.Float64Range(-1e6, 1e6), 1, 300).Draw(rt, "estimates")
		observed := rapid.Float64Range(-1e6, 1e6).Draw(rt, "observed")
		hypothesized := rapid.Float64Range(-1e6, 1e6).Draw(rt, "hypothesized")
		testType := rapid.SampledFrom(testTypes).Draw(rt, "testType")

		p, err := EmpiricalPValue(estimates, observed, hypothesized, testType)
		require.NoError(rt, err)
		require.GreaterOrEqual(rt, p, 0.0)
		require.LessOrEqual(rt, p, 1.0)
	})
}

func TestProperty_TwoSidedSymmetry(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		// eighths keep every difference exact in binary floating point
		raw := rapid.SliceOfN(rapid.IntRange(-8000, 8000), 1, 200).Draw(rt, "raw")
		estimates := make([]float64, len(raw))
		for i, v := range raw {
			estimates[i] = float64(v) / 8
		}
		hypothesized := float64(rapid.IntRange(-500, 500).Draw(rt, "hypothesized")) / 8
		delta := float64(rapid.IntRange(0, 4000).Draw(rt, "delta")) / 8

		above, err := EmpiricalPValue(estimates, hypothesized+delta, hypothesized, regression.TestTwoSided)
		require.NoError(rt, err)
		below, err := EmpiricalPValue(estimates, hypothesized-delta, hypothesized, regression.TestTwoSided)
		require.NoError(rt, err)
		require.Equal(rt, above, below)
	})
}

func TestProperty_DirectionalTestsCoverEverything(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		estimates := rapid.SliceOfN(rapid.Float64Range(-100, 100), 1, 200).Draw(rt, "estimates")
		observed := rapid.Float64Range(-100, 100).Draw(rt, "observed")

		greater, err := EmpiricalPValue(estimates, observed, 0, regression.TestGreater)
		require.NoError(rt, err)
		less, err := EmpiricalPValue(estimates, observed, 0, regression.TestLess)
		require.NoError(rt, err)

		// inclusive comparisons: every estimate lands in at least one tail
		require.GreaterOrEqual(rt, greater+less, 1.0-1e-12)
	})
}

func TestProperty_IntervalOrderedAndNested(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		estimates := rapid.SliceOfN(rapid.Float64Range(-1e3, 1e3), 1, 300).Draw(rt, "estimates")
		low := rapid.Float64Range(0.001, 100).Draw(rt, "low")
		high := rapid.Float64Range(low, 100).Draw(rt, "high")

		rec := testkit.NewRecord(regression.ModelParameters{N: 10, Beta1: 0}, regression.FitResult{}, estimates, estimates)
		estimator := NewIntervalEstimator()

		narrow, err := estimator.Estimate(rec, IntervalRequest{Parameter: regression.ParameterSlope, ConfidenceLevel: low})
		require.NoError(rt, err)
		wide, err := estimator.Estimate(rec, IntervalRequest{Parameter: regression.ParameterSlope, ConfidenceLevel: high})
		require.NoError(rt, err)

		require.LessOrEqual(rt, narrow.CILower, narrow.CIUpper)
		require.LessOrEqual(rt, wide.CILower, wide.CIUpper)
		require.GreaterOrEqual(rt, wide.Width(), narrow.Width()-1e-9)
	})
}

func TestProperty_FullLevelSpansRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		estimates := rapid.SliceOfN(rapid.Float64Range(-1e3, 1e3), 1, 300).Draw(rt, "estimates")

		lower, upper := PercentileInterval(estimates, 100)
		summary, err := Summarize(estimates, DefaultHistogramBins)
		require.NoError(rt, err)
		require.Equal(rt, summary.Min, lower)
		require.Equal(rt, summary.Max, upper)
	})
}
