package dataset

import (
	"math/rand"
)

// RandomSource produces uniformly distributed indices in [0, n).
// *rand.Rand satisfies it.
type RandomSource interface {
	Intn(n int) int
}

// NewRandomState creates a RandomSource seeded with seed.
func NewRandomState(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
