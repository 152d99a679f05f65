package simulation

import (
	"fmt"
	"math"
	"math/rand"

	"regsim/domain/core"
	"regsim/domain/regression"
)

// Sampler draws synthetic datasets from a linear model with Gaussian noise
type Sampler struct{}

// NewSampler creates a sampler
func NewSampler() *Sampler {
	return &Sampler{}
}

// Sample draws one dataset of size params.N:
//
//	X[i] ~ Uniform[0,1)
//	Y[i] = Beta0 + Beta1*X[i] + Mu + e[i],  e[i] ~ Normal(0, sqrt(Sigma2))
//
// All X values are drawn before the noise terms.
func (s *Sampler) Sample(params regression.ModelParameters, rng *rand.Rand) (*regression.Dataset, error) {
	if params.N < 1 {
		return nil, core.NewInvalidParameterError("N", fmt.Sprintf("must be >= 1, got %d", params.N))
	}
	if math.IsNaN(params.Sigma2) || params.Sigma2 < 0 {
		return nil, core.NewInvalidParameterError("sigma2", fmt.Sprintf("must be >= 0, got %g", params.Sigma2))
	}
	if rng == nil {
		return nil, core.NewInvalidParameterError("rng", "random source is required")
	}

	x := make([]float64, params.N)
	for i := range x {
		x[i] = rng.Float64()
	}

	sd := math.Sqrt(params.Sigma2)
	y := make([]float64, params.N)
	for i := range y {
		var noise float64
		if sd > 0 {
			noise = rng.NormFloat64() * sd
		}
		y[i] = params.Beta0 + params.Beta1*x[i] + params.Mu + noise
	}

	return &regression.Dataset{X: x, Y: y}, nil
}
