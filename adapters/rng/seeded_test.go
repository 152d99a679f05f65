package rng

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draw(t *testing.T, next func() float64, n int) []float64 {
	t.Helper()
	out := make([]float64, n)
	for i := range out {
		out[i] = next()
	}
	return out
}

func TestSeededStream_Deterministic(t *testing.T) {
	ctx := context.Background()
	adapter := NewSeededAdapter()

	a, err := adapter.SeededStream(ctx, "simulation", 42)
	require.NoError(t, err)
	b, err := adapter.SeededStream(ctx, "simulation", 42)
	require.NoError(t, err)

	assert.Equal(t, draw(t, a.Float64, 16), draw(t, b.Float64, 16))
}

func TestSeededStream_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSeededAdapter().SeededStream(ctx, "simulation", 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewSeed_NonZero(t *testing.T) {
	adapter := NewSeededAdapter()
	for i := 0; i < 100; i++ {
		assert.NotZero(t, adapter.NewSeed())
	}
}
