package sim

import "math/rand"

// SimulationKey identifies a reproducible run. Two runs with the same key and
// configuration drop grains at the same coordinates.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// Rand returns a fresh source seeded from the key. A run calls it once and
// keeps the source for every drop; it is never reseeded.
func (k SimulationKey) Rand() *rand.Rand {
	return rand.New(rand.NewSource(int64(k)))
}
