package ports

import (
	"context"
	"time"

	"regsim/domain/core"
	"regsim/domain/regression"
)

// SimulationRepository stores simulation records between the generation request
// and the inference requests that follow it
type SimulationRepository interface {
	// Save stores a record; saving an existing ID replaces it
	Save(ctx context.Context, record *regression.SimulationRecord) error

	// Get retrieves a record by ID, returning core.ErrSimulationNotFound when absent
	Get(ctx context.Context, id core.SimulationID) (*regression.SimulationRecord, error)

	// List returns record summaries, newest first, optionally limited
	List(ctx context.Context, limit int) ([]SimulationSummary, error)

	// Delete removes a record
	Delete(ctx context.Context, id core.SimulationID) error
}

// SimulationSummary is the lightweight listing view of a stored record
type SimulationSummary struct {
	ID        core.SimulationID          `json:"id"`
	Params    regression.ModelParameters `json:"params"`
	Observed  regression.FitResult       `json:"observed"`
	Seed      int64                      `json:"seed"`
	CreatedAt time.Time                  `json:"created_at"`
}
