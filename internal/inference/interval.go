package inference

import (
	"fmt"
	"math"
	"sort"

	"regsim/domain/core"
	"regsim/domain/regression"

	"github.com/montanaflynn/stats"
)

// IntervalRequest selects the coefficient and confidence level (percent)
type IntervalRequest struct {
	Parameter       regression.Parameter
	ConfidenceLevel float64

	// TrueValue overrides the value checked for coverage. Nil uses the
	// generating coefficient.
	TrueValue *float64
}

// IntervalEstimator computes percentile confidence intervals from simulated estimates
type IntervalEstimator struct{}

// NewIntervalEstimator creates an estimator
func NewIntervalEstimator() *IntervalEstimator {
	return &IntervalEstimator{}
}

// Estimate returns the central percentile interval at the requested level.
// A level of 100 spans the full range of the estimates.
func (ie *IntervalEstimator) Estimate(rec *regression.SimulationRecord, req IntervalRequest) (*regression.ConfidenceIntervalResult, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if !req.Parameter.Valid() {
		return nil, core.NewInvalidParameterError("parameter", fmt.Sprintf("%q is not slope or intercept", req.Parameter))
	}
	if err := ValidateConfidenceLevel(req.ConfidenceLevel); err != nil {
		return nil, err
	}

	estimates := rec.Estimates(req.Parameter)
	trueValue := rec.Params.TrueValue(req.Parameter)
	if req.TrueValue != nil {
		trueValue = *req.TrueValue
	}

	mean, err := stats.Mean(estimates)
	if err != nil {
		return nil, core.NewMissingStateError(err.Error())
	}
	std := 0.0
	if len(estimates) > 1 {
		if std, err = stats.StandardDeviationSample(estimates); err != nil {
			return nil, core.NewMissingStateError(err.Error())
		}
	}

	lower, upper := PercentileInterval(estimates, req.ConfidenceLevel)

	return &regression.ConfidenceIntervalResult{
		Parameter:       req.Parameter,
		ConfidenceLevel: req.ConfidenceLevel,
		MeanEstimate:    mean,
		StdEstimate:     std,
		CILower:         lower,
		CIUpper:         upper,
		TrueValue:       trueValue,
		ObservedStat:    rec.Observed.Value(req.Parameter),
		IncludesTrue:    lower <= trueValue && trueValue <= upper,
	}, nil
}

// ValidateConfidenceLevel accepts levels in (0, 100]
func ValidateConfidenceLevel(level float64) error {
	if math.IsNaN(level) || level <= 0 || level > 100 {
		return core.NewInvalidParameterError("confidence_level", fmt.Sprintf("must be within (0,100], got %g", level))
	}
	return nil
}

// PercentileInterval returns the (alpha/2) and (1-alpha/2) percentiles of
// estimates, alpha = 1 - level/100. estimates must be non-empty and level valid.
func PercentileInterval(estimates []float64, level float64) (float64, float64) {
	sorted := make([]float64, len(estimates))
	copy(sorted, estimates)
	sort.Float64s(sorted)

	alpha := 1 - level/100
	lower := percentileSorted(sorted, alpha/2*100)
	upper := percentileSorted(sorted, (1-alpha/2)*100)
	if lower > upper {
		// both bounds collapse onto the median as level approaches 0
		lower, upper = upper, lower
	}
	return lower, upper
}
