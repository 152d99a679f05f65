package ports

import (
	"context"

	"regsim/domain/regression"
)

// RecordExporter writes a simulation record to an external file format
type RecordExporter interface {
	Export(ctx context.Context, record *regression.SimulationRecord, path string) error
}
