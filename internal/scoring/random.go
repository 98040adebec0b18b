package scoring

import (
	"math/rand/v2"
	"sync"
	"time"
)

// RandomSource supplies the noise draw, uniform in [0,1)
type RandomSource interface {
	Float64() float64
}

// lockedSource makes a *rand.Rand safe for concurrent scoring requests
type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

// NewRandomSource returns a time-seeded source
func NewRandomSource() RandomSource {
	return NewSeededSource(uint64(time.Now().UnixNano()))
}

// NewSeededSource returns a reproducible source for the given seed
func NewSeededSource(seed uint64) RandomSource {
	return &lockedSource{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// FixedSource always returns the same draw. 0.5 disables noise entirely.
type FixedSource float64

func (f FixedSource) Float64() float64 { return float64(f) }
