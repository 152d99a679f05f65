package memory

import (
	"context"
	"testing"
	"time"

	"regsim/domain/core"
	"regsim/domain/regression"
	"regsim/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord(created time.Time) *regression.SimulationRecord {
	rec := testkit.NewRecord(testkit.SmallParams(), regression.FitResult{Slope: 3.1, Intercept: -0.4},
		[]float64{2.9, 3.0, 3.2}, []float64{-0.6, -0.5, -0.3})
	rec.CreatedAt = created
	return rec
}

func TestSimulationRepository_SaveGet(t *testing.T) {
	ctx := context.Background()
	repo := NewSimulationRepository()
	rec := sampleRecord(time.Now())

	require.NoError(t, repo.Save(ctx, rec))

	got, err := repo.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	// stored state is isolated from caller mutation
	got.SimulatedSlopes[0] = 100
	rec.SimulatedIntercepts[0] = 100
	again, err := repo.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 2.9, again.SimulatedSlopes[0])
	assert.Equal(t, -0.6, again.SimulatedIntercepts[0])
}

func TestSimulationRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewSimulationRepository()

	_, err := repo.Get(ctx, core.NewSimulationID())
	assert.True(t, core.IsNotFoundError(err))
	assert.True(t, core.IsNotFoundError(repo.Delete(ctx, core.NewSimulationID())))
}

func TestSimulationRepository_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewSimulationRepository()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	var ids []core.SimulationID
	for i := 0; i < 3; i++ {
		rec := sampleRecord(base.Add(time.Duration(i) * time.Hour))
		ids = append(ids, rec.ID)
		require.NoError(t, repo.Save(ctx, rec))
	}

	all, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[2], all[0].ID)
	assert.Equal(t, ids[0], all[2].ID)

	limited, err := repo.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	require.NoError(t, repo.Delete(ctx, ids[1]))
	all, err = repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSimulationRepository_RejectsMissingID(t *testing.T) {
	rec := sampleRecord(time.Now())
	rec.ID = ""
	err := NewSimulationRepository().Save(context.Background(), rec)
	assert.True(t, core.IsInvalidParameter(err))
}
