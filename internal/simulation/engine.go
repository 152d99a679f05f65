package simulation

import (
	"context"
	"math/rand"
	"runtime"

	"regsim/domain/core"
	"regsim/domain/regression"

	"golang.org/x/sync/errgroup"
)

// blockSize is the number of simulated draws sharing one derived seed.
// Blocks are fixed by S alone, so the output does not depend on the worker count.
const blockSize = 64

// Engine builds empirical sampling distributions of the OLS slope and
// intercept by repeated sampling and fitting
type Engine struct {
	sampler *Sampler
	workers int
}

// Option configures an Engine
type Option func(*Engine)

// WithWorkers bounds the number of blocks simulated concurrently. Values below 1 run sequentially.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n < 1 {
			n = 1
		}
		e.workers = n
	}
}

// WithSampler replaces the default sampler
func WithSampler(s *Sampler) Option {
	return func(e *Engine) {
		if s != nil {
			e.sampler = s
		}
	}
}

// NewEngine creates a Monte Carlo engine; by default it uses one worker per CPU
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		sampler: NewSampler(),
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Workers returns the configured concurrency
func (e *Engine) Workers() int {
	return e.workers
}

// Run produces a simulation record. Draw #0 is the observed dataset and fit;
// draws #1..S are fitted and reduced to their coefficients, the datasets are dropped.
// All per-draw randomness is derived from rng, so a seeded rng reproduces the record exactly.
// Any failure discards the whole run.
func (e *Engine) Run(ctx context.Context, params regression.ModelParameters, rng *rand.Rand) (*regression.SimulationRecord, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, core.NewInvalidParameterError("rng", "random source is required")
	}

	numBlocks := (params.S + blockSize - 1) / blockSize
	observedSeed := rng.Int63()
	blockSeeds := make([]int64, numBlocks)
	for i := range blockSeeds {
		blockSeeds[i] = rng.Int63()
	}

	observedData, err := e.sampler.Sample(params, rand.New(rand.NewSource(observedSeed)))
	if err != nil {
		return nil, err
	}
	observed, err := FitOLS(observedData)
	if err != nil {
		return nil, err
	}

	slopes := make([]float64, params.S)
	intercepts := make([]float64, params.S)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for b := 0; b < numBlocks; b++ {
		start := b * blockSize
		end := min(start+blockSize, params.S)
		seed := blockSeeds[b]
		g.Go(func() error {
			return e.runBlock(gctx, params, seed, slopes[start:end], intercepts[start:end])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &regression.SimulationRecord{
		Params:              params,
		Observed:            observed,
		ObservedData:        *observedData,
		SimulatedSlopes:     slopes,
		SimulatedIntercepts: intercepts,
	}, nil
}

// runBlock fills one contiguous slice of the output from a private stream
func (e *Engine) runBlock(ctx context.Context, params regression.ModelParameters, seed int64, slopes, intercepts []float64) error {
	rng := rand.New(rand.NewSource(seed))
	for i := range slopes {
		if err := ctx.Err(); err != nil {
			return err
		}
		ds, err := e.sampler.Sample(params, rng)
		if err != nil {
			return err
		}
		fit, err := FitOLS(ds)
		if err != nil {
			return err
		}
		slopes[i] = fit.Slope
		intercepts[i] = fit.Intercept
	}
	return nil
}
