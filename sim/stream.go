package sim

import (
	"math/rand"
	"time"
)

// Stream is the source of randomness consumed by the simulator and the
// policies. *rand.Rand satisfies it.
//
// A Stream is not safe for concurrent use; every run owns its own.
type Stream interface {
	Float64() float64
	NormFloat64() float64
	Intn(n int) int
}

// NewStream returns a seeded stream. A zero seed falls back to the clock,
// matching the simulator's config defaults.
func NewStream(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// DeriveSeed mixes a base seed with a list of indices (sweep value, repeat,
// session, ...) into a new seed. The result depends only on its inputs, so
// runs seeded this way are reproducible no matter in which order or on how
// many goroutines they execute.
func DeriveSeed(base int64, parts ...int) int64 {
	h := uint64(base)
	for _, p := range parts {
		h = splitmix64(h ^ splitmix64(uint64(p)+0x9e3779b97f4a7c15))
	}
	h = splitmix64(h)
	// rand.NewSource treats 0 specially in NewStream, keep away from it.
	if h == 0 {
		h = 1
	}
	return int64(h)
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
