package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"regsim/domain/core"
	"regsim/domain/regression"
	"regsim/internal"
	"regsim/internal/config"
	"regsim/internal/inference"
	"regsim/internal/simulation"
	"regsim/ports"
)

// SimulationService orchestrates data generation and the inference requests
// that read a stored simulation record
type SimulationService struct {
	engine    *simulation.Engine
	repo      ports.SimulationRepository
	rngPort   ports.RNGPort
	exporter  ports.RecordExporter
	tester    *inference.HypothesisTester
	estimator *inference.IntervalEstimator
	logger    *internal.Logger
	cfg       config.SimulationConfig
	exportDir string
	now       func() time.Time
}

// GenerateRequest defines inputs for one generation run
type GenerateRequest struct {
	Params regression.ModelParameters
	Seed   int64 // 0 uses the configured seed, then a fresh one
}

// NewSimulationService creates a simulation service
func NewSimulationService(engine *simulation.Engine, repo ports.SimulationRepository, rngPort ports.RNGPort,
	exporter ports.RecordExporter, logger *internal.Logger, cfg *config.Config) *SimulationService {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &SimulationService{
		engine:    engine,
		repo:      repo,
		rngPort:   rngPort,
		exporter:  exporter,
		tester:    inference.NewHypothesisTester(),
		estimator: inference.NewIntervalEstimator(),
		logger:    logger.Named("simulation"),
		cfg:       cfg.Simulation,
		exportDir: cfg.Export.Dir,
		now:       time.Now,
	}
}

// Generate draws the observed dataset and S simulated fits, then persists the record.
// Nothing is stored when any draw fails.
func (s *SimulationService) Generate(ctx context.Context, req GenerateRequest) (*regression.SimulationRecord, error) {
	startTime := time.Now()

	if err := req.Params.Validate(); err != nil {
		return nil, err
	}
	if s.cfg.MaxObservations > 0 && req.Params.N > s.cfg.MaxObservations {
		return nil, core.NewInvalidParameterError("N", fmt.Sprintf("must be <= %d", s.cfg.MaxObservations))
	}
	if s.cfg.MaxSimulations > 0 && req.Params.S > s.cfg.MaxSimulations {
		return nil, core.NewInvalidParameterError("S", fmt.Sprintf("must be <= %d", s.cfg.MaxSimulations))
	}

	seed := req.Seed
	if seed == 0 {
		seed = s.cfg.Seed
	}
	if seed == 0 {
		seed = s.rngPort.NewSeed()
	}
	rng, err := s.rngPort.SeededStream(ctx, "generate", seed)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("generating N=%d S=%d seed=%d workers=%d", req.Params.N, req.Params.S, seed, s.engine.Workers())
	rec, err := s.engine.Run(ctx, req.Params, rng)
	if err != nil {
		s.logger.Warn("generation failed: %v", err)
		return nil, err
	}
	rec.ID = core.NewSimulationID()
	rec.Seed = seed
	rec.CreatedAt = s.now().UTC()

	if err := s.repo.Save(ctx, rec); err != nil {
		s.logger.Error("failed to save simulation %s: %v", rec.ID, err)
		return nil, err
	}

	s.logger.Info("simulation %s generated: observed slope=%.6f intercept=%.6f (%dms)",
		rec.ID, rec.Observed.Slope, rec.Observed.Intercept, time.Since(startTime).Milliseconds())
	return rec, nil
}

// TestHypothesis runs an empirical test against a stored record
func (s *SimulationService) TestHypothesis(ctx context.Context, id core.SimulationID, req inference.HypothesisRequest) (*regression.HypothesisTestResult, error) {
	rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	result, err := s.tester.Test(rec, req)
	if err != nil {
		return nil, err
	}
	s.logger.Info("simulation %s: %s %s test p=%.6f", id, result.Parameter, result.TestType, result.PValue)
	if result.RareEvent {
		s.logger.Warn("simulation %s: observed %s is a rare event under the hypothesis (p=%g)", id, result.Parameter, result.PValue)
	}
	return result, nil
}

// ConfidenceInterval computes a percentile interval from a stored record
func (s *SimulationService) ConfidenceInterval(ctx context.Context, id core.SimulationID, req inference.IntervalRequest) (*regression.ConfidenceIntervalResult, error) {
	rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	result, err := s.estimator.Estimate(rec, req)
	if err != nil {
		return nil, err
	}
	s.logger.Info("simulation %s: %g%% interval for %s [%.6f, %.6f]",
		id, result.ConfidenceLevel, result.Parameter, result.CILower, result.CIUpper)
	return result, nil
}

// Summary describes the sampling distribution of one coefficient
func (s *SimulationService) Summary(ctx context.Context, id core.SimulationID, param regression.Parameter) (*inference.DistributionSummary, error) {
	rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return inference.SummarizeRecord(rec, param, s.cfg.HistogramBins)
}

// Export writes a stored record to path; an empty path uses <export dir>/<id>.xlsx
func (s *SimulationService) Export(ctx context.Context, id core.SimulationID, path string) (string, error) {
	rec, err := s.load(ctx, id)
	if err != nil {
		return "", err
	}
	if path == "" {
		path = filepath.Join(s.exportDir, id.String()+".xlsx")
	}
	if err := s.exporter.Export(ctx, rec, path); err != nil {
		s.logger.Error("export of simulation %s failed: %v", id, err)
		return "", err
	}
	s.logger.Info("simulation %s exported to %s", id, path)
	return path, nil
}

// Get returns a stored record
func (s *SimulationService) Get(ctx context.Context, id core.SimulationID) (*regression.SimulationRecord, error) {
	return s.load(ctx, id)
}

// List returns stored simulations, newest first
func (s *SimulationService) List(ctx context.Context, limit int) ([]ports.SimulationSummary, error) {
	return s.repo.List(ctx, limit)
}

// Delete removes a stored simulation
func (s *SimulationService) Delete(ctx context.Context, id core.SimulationID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("simulation %s deleted", id)
	return nil
}

// load maps an unknown handle to missing state: inference without generated data
func (s *SimulationService) load(ctx context.Context, id core.SimulationID) (*regression.SimulationRecord, error) {
	if id.IsEmpty() {
		return nil, core.NewMissingStateError("no simulation selected; generate data first")
	}
	rec, err := s.repo.Get(ctx, id)
	if core.IsNotFoundError(err) {
		return nil, core.NewMissingStateError(fmt.Sprintf("simulation %s not found; generate data first", id))
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}
