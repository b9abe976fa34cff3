package sim

import (
	"math"
	"math/rand"
	"sort"
)

// MinCenterDistance replaces a zero distance from the lattice centre when
// computing center-weighted sampling weights, so an index exactly on the
// centre gets 1/MinCenterDistance instead of an infinite weight.
const MinCenterDistance = 0.25

// Sampler picks the site a grain is dropped on.
type Sampler interface {
	// Sample returns an in-bounds coordinate for a size×size grid.
	Sample(rng *rand.Rand, size int) Coord
}

// NewSampler returns a CenterWeightedSampler when weight is positive and a
// UniformSampler otherwise.
func NewSampler(weight float64) Sampler {
	if weight > 0 {
		return &CenterWeightedSampler{}
	}
	return UniformSampler{}
}

// UniformSampler draws each axis independently and uniformly from [0, size-1].
type UniformSampler struct{}

func (UniformSampler) Sample(rng *rand.Rand, size int) Coord {
	return Coord{X: rng.Intn(size), Y: rng.Intn(size)}
}

// CenterWeightedSampler favours sites near the centre. Each axis is drawn
// independently from [0, size-1) with probability proportional to
// 1 / |i - (size-1)/2|. Any positive weight selects this sampler; its value
// cancels out in the normalization. The last index is never drawn.
type CenterWeightedSampler struct {
	// CDF cache for the most recent size.
	size int
	cdf  []float64
}

// Weights returns the unnormalized per-index weights 1/d for a lattice of size.
func (s *CenterWeightedSampler) Weights(size int) []float64 {
	n := size - 1
	if n < 1 {
		return nil
	}
	center := float64(n) / 2
	weights := make([]float64, n)
	for i := range weights {
		d := math.Abs(float64(i) - center)
		if d < MinCenterDistance {
			d = MinCenterDistance
		}
		weights[i] = 1 / d
	}
	return weights
}

func (s *CenterWeightedSampler) buildCDF(size int) {
	weights := s.Weights(size)
	total := 0.0
	for _, w := range weights {
		total += w
	}
	cdf := make([]float64, len(weights))
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w / total
		cdf[i] = cumulative
	}
	if len(cdf) > 0 {
		cdf[len(cdf)-1] = 1.0
	}
	s.size = size
	s.cdf = cdf
}

func (s *CenterWeightedSampler) draw(rng *rand.Rand) int {
	idx := sort.SearchFloat64s(s.cdf, rng.Float64())
	if idx >= len(s.cdf) {
		idx = len(s.cdf) - 1
	}
	return idx
}

func (s *CenterWeightedSampler) Sample(rng *rand.Rand, size int) Coord {
	if size != s.size || s.cdf == nil {
		s.buildCDF(size)
	}
	// A 1x1 lattice leaves [0, 0) empty; the only site is the origin.
	if len(s.cdf) == 0 {
		return Coord{}
	}
	return Coord{X: s.draw(rng), Y: s.draw(rng)}
}
