package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"regsim/domain/core"
	"regsim/domain/regression"
	"regsim/internal/errors"
	"regsim/ports"

	"github.com/jmoiron/sqlx"
)

// SimulationRepository implements ports.SimulationRepository on PostgreSQL or SQLite.
// Sequences are stored as JSON text so the schema stays portable.
type SimulationRepository struct {
	db *sqlx.DB
}

var _ ports.SimulationRepository = (*SimulationRepository)(nil)

// NewSimulationRepository creates a new SQL simulation repository
func NewSimulationRepository(db *sqlx.DB) *SimulationRepository {
	return &SimulationRepository{db: db}
}

type simulationRow struct {
	ID                  string    `db:"id"`
	N                   int       `db:"n"`
	Mu                  float64   `db:"mu"`
	Beta0               float64   `db:"beta0"`
	Beta1               float64   `db:"beta1"`
	Sigma2              float64   `db:"sigma2"`
	S                   int       `db:"s"`
	ObservedSlope       float64   `db:"observed_slope"`
	ObservedIntercept   float64   `db:"observed_intercept"`
	ObservedData        string    `db:"observed_data"`
	SimulatedSlopes     string    `db:"simulated_slopes"`
	SimulatedIntercepts string    `db:"simulated_intercepts"`
	Seed                int64     `db:"seed"`
	CreatedAt           time.Time `db:"created_at"`
}

type summaryRow struct {
	ID                string    `db:"id"`
	N                 int       `db:"n"`
	Mu                float64   `db:"mu"`
	Beta0             float64   `db:"beta0"`
	Beta1             float64   `db:"beta1"`
	Sigma2            float64   `db:"sigma2"`
	S                 int       `db:"s"`
	ObservedSlope     float64   `db:"observed_slope"`
	ObservedIntercept float64   `db:"observed_intercept"`
	Seed              int64     `db:"seed"`
	CreatedAt         time.Time `db:"created_at"`
}

// Save inserts a record, replacing any existing record with the same ID
func (r *SimulationRepository) Save(ctx context.Context, record *regression.SimulationRecord) error {
	if record == nil || record.ID.IsEmpty() {
		return core.NewInvalidParameterError("record", "must have an ID")
	}
	row, err := toRow(record)
	if err != nil {
		return err
	}

	_, err = r.db.NamedExecContext(ctx, `
		INSERT INTO simulations (
			id, n, mu, beta0, beta1, sigma2, s,
			observed_slope, observed_intercept, observed_data,
			simulated_slopes, simulated_intercepts, seed, created_at
		) VALUES (
			:id, :n, :mu, :beta0, :beta1, :sigma2, :s,
			:observed_slope, :observed_intercept, :observed_data,
			:simulated_slopes, :simulated_intercepts, :seed, :created_at
		)
		ON CONFLICT (id) DO UPDATE SET
			n = EXCLUDED.n,
			mu = EXCLUDED.mu,
			beta0 = EXCLUDED.beta0,
			beta1 = EXCLUDED.beta1,
			sigma2 = EXCLUDED.sigma2,
			s = EXCLUDED.s,
			observed_slope = EXCLUDED.observed_slope,
			observed_intercept = EXCLUDED.observed_intercept,
			observed_data = EXCLUDED.observed_data,
			simulated_slopes = EXCLUDED.simulated_slopes,
			simulated_intercepts = EXCLUDED.simulated_intercepts,
			seed = EXCLUDED.seed,
			created_at = EXCLUDED.created_at`, row)
	if err != nil {
		return errors.DatabaseError("failed to save simulation", err)
	}
	return nil
}

// Get loads a full record by ID
func (r *SimulationRepository) Get(ctx context.Context, id core.SimulationID) (*regression.SimulationRecord, error) {
	var row simulationRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`
		SELECT id, n, mu, beta0, beta1, sigma2, s,
			   observed_slope, observed_intercept, observed_data,
			   simulated_slopes, simulated_intercepts, seed, created_at
		FROM simulations
		WHERE id = ?
	`), id.String())
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrSimulationNotFound
	}
	if err != nil {
		return nil, errors.DatabaseError("failed to load simulation", err)
	}
	return fromRow(&row)
}

// List returns record summaries, newest first
func (r *SimulationRepository) List(ctx context.Context, limit int) ([]ports.SimulationSummary, error) {
	query := `
		SELECT id, n, mu, beta0, beta1, sigma2, s,
			   observed_slope, observed_intercept, seed, created_at
		FROM simulations
		ORDER BY created_at DESC, id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	var rows []summaryRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, errors.DatabaseError("failed to list simulations", err)
	}

	summaries := make([]ports.SimulationSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, ports.SimulationSummary{
			ID: core.SimulationID(row.ID),
			Params: regression.ModelParameters{
				N: row.N, Mu: row.Mu, Beta0: row.Beta0, Beta1: row.Beta1, Sigma2: row.Sigma2, S: row.S,
			},
			Observed:  regression.FitResult{Slope: row.ObservedSlope, Intercept: row.ObservedIntercept},
			Seed:      row.Seed,
			CreatedAt: row.CreatedAt.UTC(),
		})
	}
	return summaries, nil
}

// Delete removes a record
func (r *SimulationRepository) Delete(ctx context.Context, id core.SimulationID) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM simulations WHERE id = ?`), id.String())
	if err != nil {
		return errors.DatabaseError("failed to delete simulation", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.DatabaseError("failed to delete simulation", err)
	}
	if affected == 0 {
		return core.ErrSimulationNotFound
	}
	return nil
}

func toRow(rec *regression.SimulationRecord) (*simulationRow, error) {
	observedJSON, err := json.Marshal(rec.ObservedData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal observed data: %w", err)
	}
	slopesJSON, err := json.Marshal(rec.SimulatedSlopes)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal simulated slopes: %w", err)
	}
	interceptsJSON, err := json.Marshal(rec.SimulatedIntercepts)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal simulated intercepts: %w", err)
	}

	return &simulationRow{
		ID:                  rec.ID.String(),
		N:                   rec.Params.N,
		Mu:                  rec.Params.Mu,
		Beta0:               rec.Params.Beta0,
		Beta1:               rec.Params.Beta1,
		Sigma2:              rec.Params.Sigma2,
		S:                   rec.Params.S,
		ObservedSlope:       rec.Observed.Slope,
		ObservedIntercept:   rec.Observed.Intercept,
		ObservedData:        string(observedJSON),
		SimulatedSlopes:     string(slopesJSON),
		SimulatedIntercepts: string(interceptsJSON),
		Seed:                rec.Seed,
		// PostgreSQL keeps microseconds
		CreatedAt: rec.CreatedAt.UTC().Truncate(time.Microsecond),
	}, nil
}

func fromRow(row *simulationRow) (*regression.SimulationRecord, error) {
	rec := &regression.SimulationRecord{
		ID: core.SimulationID(row.ID),
		Params: regression.ModelParameters{
			N: row.N, Mu: row.Mu, Beta0: row.Beta0, Beta1: row.Beta1, Sigma2: row.Sigma2, S: row.S,
		},
		Observed:  regression.FitResult{Slope: row.ObservedSlope, Intercept: row.ObservedIntercept},
		Seed:      row.Seed,
		CreatedAt: row.CreatedAt.UTC(),
	}
	if err := json.Unmarshal([]byte(row.ObservedData), &rec.ObservedData); err != nil {
		return nil, fmt.Errorf("failed to unmarshal observed data: %w", err)
	}
	if err := json.Unmarshal([]byte(row.SimulatedSlopes), &rec.SimulatedSlopes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal simulated slopes: %w", err)
	}
	if err := json.Unmarshal([]byte(row.SimulatedIntercepts), &rec.SimulatedIntercepts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal simulated intercepts: %w", err)
	}
	return rec, nil
}
