package stats

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ChiSquareUniform tests observed category counts against a uniform
// expectation. It returns Pearson's statistic and the p-value with
// len(observed)-1 degrees of freedom.
func ChiSquareUniform(observed []int) (statistic, pValue float64, err error) {
	if len(observed) < 2 {
		return 0, 0, fmt.Errorf("%w: chi-square needs at least 2 categories, got %d", ErrInsufficientData, len(observed))
	}
	total := 0
	for _, n := range observed {
		total += n
	}
	if total == 0 {
		return 0, 0, fmt.Errorf("%w: chi-square needs at least one observation", ErrInsufficientData)
	}
	obs := make([]float64, len(observed))
	exp := make([]float64, len(observed))
	want := float64(total) / float64(len(observed))
	for i, n := range observed {
		obs[i] = float64(n)
		exp[i] = want
	}
	statistic = stat.ChiSquare(obs, exp)
	dist := distuv.ChiSquared{K: float64(len(observed) - 1)}
	return statistic, dist.Survival(statistic), nil
}
