package sensor

import (
	"math/rand/v2"
	"time"
)

// RandNoise draws uniform values from a seeded PCG generator.
//
// Two RandNoise values built with the same seed produce the same sequence.
type RandNoise struct {
	rng *rand.Rand
}

// NewRandNoise creates a deterministic noise source.
func NewRandNoise(seed uint64) *RandNoise {
	return &RandNoise{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// NewRandNoiseFromTime creates a noise source seeded from the wall clock.
func NewRandNoiseFromTime() *RandNoise {
	return NewRandNoise(uint64(time.Now().UnixNano())) //nolint:gosec // not security sensitive
}

// Uniform returns a value in [lo, hi).
func (n *RandNoise) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*n.rng.Float64()
}
