package memory

import (
	"context"
	"sort"
	"sync"

	"regsim/domain/core"
	"regsim/domain/regression"
	"regsim/ports"
)

// SimulationRepository keeps records in process memory. Records are copied on
// the way in and out so stored state cannot be mutated by callers.
type SimulationRepository struct {
	mu      sync.RWMutex
	records map[core.SimulationID]*regression.SimulationRecord
}

var _ ports.SimulationRepository = (*SimulationRepository)(nil)

// NewSimulationRepository creates an empty in-memory repository
func NewSimulationRepository() *SimulationRepository {
	return &SimulationRepository{records: make(map[core.SimulationID]*regression.SimulationRecord)}
}

// Save stores a copy of record
func (r *SimulationRepository) Save(ctx context.Context, record *regression.SimulationRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if record == nil || record.ID.IsEmpty() {
		return core.NewInvalidParameterError("record", "must have an ID")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.ID] = cloneRecord(record)
	return nil
}

// Get returns a copy of the stored record
func (r *SimulationRepository) Get(ctx context.Context, id core.SimulationID) (*regression.SimulationRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, core.ErrSimulationNotFound
	}
	return cloneRecord(rec), nil
}

// List returns summaries, newest first
func (r *SimulationRepository) List(ctx context.Context, limit int) ([]ports.SimulationSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	summaries := make([]ports.SimulationSummary, 0, len(r.records))
	for _, rec := range r.records {
		summaries = append(summaries, ports.SimulationSummary{
			ID:        rec.ID,
			Params:    rec.Params,
			Observed:  rec.Observed,
			Seed:      rec.Seed,
			CreatedAt: rec.CreatedAt,
		})
	}
	r.mu.RUnlock()

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].ID > summaries[j].ID
		}
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

// Delete removes a record
func (r *SimulationRepository) Delete(ctx context.Context, id core.SimulationID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return core.ErrSimulationNotFound
	}
	delete(r.records, id)
	return nil
}

func cloneRecord(rec *regression.SimulationRecord) *regression.SimulationRecord {
	out := *rec
	out.ObservedData = regression.Dataset{
		X: append([]float64(nil), rec.ObservedData.X...),
		Y: append([]float64(nil), rec.ObservedData.Y...),
	}
	out.SimulatedSlopes = append([]float64(nil), rec.SimulatedSlopes...)
	out.SimulatedIntercepts = append([]float64(nil), rec.SimulatedIntercepts...)
	return &out
}
