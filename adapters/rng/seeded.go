package rng

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"regsim/ports"
)

// SeededAdapter implements ports.RNGPort on math/rand sources
type SeededAdapter struct {
	mu     sync.Mutex
	seeder *rand.Rand
}

var _ ports.RNGPort = (*SeededAdapter)(nil)

// NewSeededAdapter creates an adapter whose fresh seeds come from the wall clock
func NewSeededAdapter() *SeededAdapter {
	return &SeededAdapter{seeder: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// SeededStream creates a deterministic random number generator for a named operation
func (r *SeededAdapter) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rand.New(rand.NewSource(seed)), nil
}

// NewSeed returns a non-zero seed. Zero is reserved for "pick one for me".
func (r *SeededAdapter) NewSeed() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	for {
		if s := r.seeder.Int63(); s != 0 {
			return s
		}
	}
}
