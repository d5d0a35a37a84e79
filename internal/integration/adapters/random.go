package adapters

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/giftcircle/backend/internal/application/adapter"
)

type mathRandSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomSource returns a uniform source seeded from the runtime's
// entropy. It is safe for concurrent use.
func NewRandomSource() adapter.RandomSource {
	return &mathRandSource{
		rnd: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// NewSeededRandomSource returns a deterministic source for reproducible draws.
func NewSeededRandomSource(seed1, seed2 uint64) adapter.RandomSource {
	return &mathRandSource{
		rnd: rand.New(rand.NewPCG(seed1, seed2)),
	}
}

// Intn returns a uniform integer in [0, n).
func (s *mathRandSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.IntN(n)
}

type systemClock struct{}

// NewSystemClock returns a clock reading the wall time.
func NewSystemClock() adapter.Clock {
	return systemClock{}
}

// Now returns the current UTC time.
func (systemClock) Now() time.Time {
	return time.Now().UTC()
}
