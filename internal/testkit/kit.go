// Package testkit provides fixtures shared by package tests.
package testkit

import (
	"math/rand"
	"time"

	"regsim/domain/core"
	"regsim/domain/regression"
)

// DefaultSeed is the fixed seed used by deterministic tests
const DefaultSeed int64 = 42

// Rand returns a seeded source
func Rand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// ScenarioParams is the reference scenario: a steep, low-noise line
func ScenarioParams() regression.ModelParameters {
	return regression.ModelParameters{N: 100, Mu: 0, Beta0: 1, Beta1: 2, Sigma2: 0.01, S: 1000}
}

// SmallParams keeps simulation-heavy tests fast
func SmallParams() regression.ModelParameters {
	return regression.ModelParameters{N: 30, Mu: 0.5, Beta0: -1, Beta1: 3, Sigma2: 0.25, S: 200}
}

// NewRecord builds a record around hand-chosen estimates. Params.S follows the slice length.
func NewRecord(params regression.ModelParameters, observed regression.FitResult, slopes, intercepts []float64) *regression.SimulationRecord {
	params.S = len(slopes)
	return &regression.SimulationRecord{
		ID:                  core.NewSimulationID(),
		Params:              params,
		Observed:            observed,
		ObservedData:        regression.Dataset{X: []float64{0, 1}, Y: []float64{observed.Intercept, observed.Intercept + observed.Slope}},
		SimulatedSlopes:     slopes,
		SimulatedIntercepts: intercepts,
		Seed:                DefaultSeed,
		CreatedAt:           time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Sequence returns start, start+step, ... with n values
func Sequence(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}
