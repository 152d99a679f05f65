package regression

import (
	"fmt"
	"math"
	"strings"
	"time"

	"regsim/domain/core"
)

// RareEventThreshold marks p-values small enough to flag as a rare draw.
// The flag is informational only.
const RareEventThreshold = 0.0001

// Parameter selects which regression coefficient an inference call targets
type Parameter string

const (
	ParameterSlope     Parameter = "slope"
	ParameterIntercept Parameter = "intercept"
)

// ParseParameter parses a parameter selector
func ParseParameter(s string) (Parameter, error) {
	switch Parameter(strings.ToLower(strings.TrimSpace(s))) {
	case ParameterSlope:
		return ParameterSlope, nil
	case ParameterIntercept:
		return ParameterIntercept, nil
	}
	return "", core.NewInvalidParameterError("parameter", fmt.Sprintf("%q is not slope or intercept", s))
}

// Valid reports whether p is a known selector
func (p Parameter) Valid() bool {
	return p == ParameterSlope || p == ParameterIntercept
}

// TestType is the alternative hypothesis direction
type TestType string

const (
	TestGreater  TestType = "greater"
	TestLess     TestType = "less"
	TestTwoSided TestType = "two_sided"
)

// ParseTestType accepts the canonical names and the form symbols ">", "<" and "!=".
func ParseTestType(s string) (TestType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "greater", ">":
		return TestGreater, nil
	case "less", "<":
		return TestLess, nil
	case "two_sided", "two-sided", "!=":
		return TestTwoSided, nil
	}
	return "", core.NewInvalidParameterError("test_type", fmt.Sprintf("%q is not a recognized test", s))
}

// Valid reports whether t is a known test type
func (t TestType) Valid() bool {
	return t == TestGreater || t == TestLess || t == TestTwoSided
}

// ModelParameters fully determine the distribution sampled from
type ModelParameters struct {
	N      int     `json:"n" yaml:"n"`
	Mu     float64 `json:"mu" yaml:"mu"`
	Beta0  float64 `json:"beta0" yaml:"beta0"`
	Beta1  float64 `json:"beta1" yaml:"beta1"`
	Sigma2 float64 `json:"sigma2" yaml:"sigma2"`
	S      int     `json:"s" yaml:"s"`
}

// Validate checks the model invariants
func (p ModelParameters) Validate() error {
	if p.N < 1 {
		return core.NewInvalidParameterError("N", fmt.Sprintf("must be >= 1, got %d", p.N))
	}
	if p.S < 1 {
		return core.NewInvalidParameterError("S", fmt.Sprintf("must be >= 1, got %d", p.S))
	}
	if math.IsNaN(p.Sigma2) || p.Sigma2 < 0 {
		return core.NewInvalidParameterError("sigma2", fmt.Sprintf("must be >= 0, got %g", p.Sigma2))
	}
	for name, v := range map[string]float64{"mu": p.Mu, "beta0": p.Beta0, "beta1": p.Beta1, "sigma2": p.Sigma2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return core.NewInvalidParameterError(name, "must be finite")
		}
	}
	return nil
}

// TrueValue returns the generating value of the selected coefficient
func (p ModelParameters) TrueValue(param Parameter) float64 {
	if param == ParameterIntercept {
		return p.Beta0
	}
	return p.Beta1
}

// Dataset is one synthetic sample. It is never mutated after creation.
type Dataset struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

// Len returns the number of observations
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.X)
}

// FitResult holds the OLS coefficients of one dataset
type FitResult struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// Value selects one coefficient
func (f FitResult) Value(param Parameter) float64 {
	if param == ParameterIntercept {
		return f.Intercept
	}
	return f.Slope
}

// SimulationRecord is the read-only state carried from a generation request
// into every later inference request.
type SimulationRecord struct {
	ID                  core.SimulationID `json:"id"`
	Params              ModelParameters   `json:"params"`
	Observed            FitResult         `json:"observed"`
	ObservedData        Dataset           `json:"observed_data"`
	SimulatedSlopes     []float64         `json:"simulated_slopes"`
	SimulatedIntercepts []float64         `json:"simulated_intercepts"`
	Seed                int64             `json:"seed"`
	CreatedAt           time.Time         `json:"created_at"`
}

// Estimates returns the simulated sequence for the selected coefficient.
// The returned slice is shared with the record and must not be modified.
func (r *SimulationRecord) Estimates(param Parameter) []float64 {
	if param == ParameterIntercept {
		return r.SimulatedIntercepts
	}
	return r.SimulatedSlopes
}

// Validate checks that the record is complete enough to run inference on
func (r *SimulationRecord) Validate() error {
	if r == nil {
		return core.NewMissingStateError("no simulation record; generate data first")
	}
	if len(r.SimulatedSlopes) == 0 || len(r.SimulatedIntercepts) == 0 {
		return core.NewMissingStateError("simulation record has no simulated estimates")
	}
	if len(r.SimulatedSlopes) != len(r.SimulatedIntercepts) {
		return core.NewMissingStateError(fmt.Sprintf("slope/intercept count mismatch: %d vs %d",
			len(r.SimulatedSlopes), len(r.SimulatedIntercepts)))
	}
	if r.Params.S != 0 && len(r.SimulatedSlopes) != r.Params.S {
		return core.NewMissingStateError(fmt.Sprintf("expected %d simulations, record holds %d",
			r.Params.S, len(r.SimulatedSlopes)))
	}
	return nil
}

// HypothesisTestResult is the outcome of one empirical test
type HypothesisTestResult struct {
	Parameter         Parameter `json:"parameter"`
	TestType          TestType  `json:"test_type"`
	ObservedStat      float64   `json:"observed_stat"`
	HypothesizedValue float64   `json:"hypothesized_value"`
	PValue            float64   `json:"p_value"`
	RareEvent         bool      `json:"rare_event"`
	Simulations       int       `json:"simulations"`
}

// ConfidenceIntervalResult is a percentile interval over simulated estimates
type ConfidenceIntervalResult struct {
	Parameter       Parameter `json:"parameter"`
	ConfidenceLevel float64   `json:"confidence_level"`
	MeanEstimate    float64   `json:"mean_estimate"`
	StdEstimate     float64   `json:"std_estimate"`
	CILower         float64   `json:"ci_lower"`
	CIUpper         float64   `json:"ci_upper"`
	TrueValue       float64   `json:"true_value"`
	ObservedStat    float64   `json:"observed_stat"`
	IncludesTrue    bool      `json:"includes_true"`
}

// Width returns the interval width
func (r *ConfidenceIntervalResult) Width() float64 {
	return r.CIUpper - r.CILower
}
