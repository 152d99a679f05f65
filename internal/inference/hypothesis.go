package inference

import (
	"fmt"
	"math"

	"regsim/domain/core"
	"regsim/domain/regression"
)

// HypothesisRequest selects the coefficient and alternative to test
type HypothesisRequest struct {
	Parameter regression.Parameter
	TestType  regression.TestType

	// HypothesizedValue overrides the null value. Nil uses the generating
	// coefficient (Beta1 for slope, Beta0 for intercept).
	HypothesizedValue *float64
}

// HypothesisTester computes empirical p-values against a simulated sampling distribution
type HypothesisTester struct{}

// NewHypothesisTester creates a tester
func NewHypothesisTester() *HypothesisTester {
	return &HypothesisTester{}
}

// Test compares the observed coefficient with the simulated ones.
func (h *HypothesisTester) Test(rec *regression.SimulationRecord, req HypothesisRequest) (*regression.HypothesisTestResult, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if !req.Parameter.Valid() {
		return nil, core.NewInvalidParameterError("parameter", fmt.Sprintf("%q is not slope or intercept", req.Parameter))
	}

	hypothesized := rec.Params.TrueValue(req.Parameter)
	if req.HypothesizedValue != nil {
		hypothesized = *req.HypothesizedValue
	}
	observed := rec.Observed.Value(req.Parameter)
	estimates := rec.Estimates(req.Parameter)

	p, err := EmpiricalPValue(estimates, observed, hypothesized, req.TestType)
	if err != nil {
		return nil, err
	}

	return &regression.HypothesisTestResult{
		Parameter:         req.Parameter,
		TestType:          req.TestType,
		ObservedStat:      observed,
		HypothesizedValue: hypothesized,
		PValue:            p,
		RareEvent:         p <= regression.RareEventThreshold,
		Simulations:       len(estimates),
	}, nil
}

// EmpiricalPValue returns the fraction of estimates at least as extreme as observed.
// Comparisons are inclusive:
//
//	greater:   e >= observed
//	less:      e <= observed
//	two_sided: |e - hypothesized| >= |observed - hypothesized|
func EmpiricalPValue(estimates []float64, observed, hypothesized float64, testType regression.TestType) (float64, error) {
	if len(estimates) == 0 {
		return 0, core.NewMissingStateError("no simulated estimates")
	}
	if math.IsNaN(observed) || math.IsNaN(hypothesized) {
		return 0, core.NewInvalidParameterError("observed_stat", "must not be NaN")
	}

	var extreme func(e float64) bool
	switch testType {
	case regression.TestGreater:
		extreme = func(e float64) bool { return e >= observed }
	case regression.TestLess:
		extreme = func(e float64) bool { return e <= observed }
	case regression.TestTwoSided:
		threshold := math.Abs(observed - hypothesized)
		extreme = func(e float64) bool { return math.Abs(e-hypothesized) >= threshold }
	default:
		return 0, core.NewInvalidParameterError("test_type", fmt.Sprintf("%q is not a recognized test", testType))
	}

	count := 0
	for _, e := range estimates {
		if extreme(e) {
			count++
		}
	}
	return float64(count) / float64(len(estimates)), nil
}
