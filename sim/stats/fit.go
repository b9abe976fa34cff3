package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// ErrInsufficientData is returned when a fit has fewer than two histogram bins.
var ErrInsufficientData = errors.New("insufficient data")

// PowerLawFit is the least-squares line through (ln size, ln count).
// For a power law count ∝ size^-τ the Slope estimates -τ.
type PowerLawFit struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r_squared"`
	Points    int     `json:"points"`
}

// Exponent returns the avalanche-size exponent τ, i.e. -Slope.
func (f PowerLawFit) Exponent() float64 {
	return -f.Slope
}

// Predict returns the fitted count for an avalanche size.
func (f PowerLawFit) Predict(size float64) float64 {
	return math.Exp(f.Intercept + f.Slope*math.Log(size))
}

// FitPowerLaw fits ln(count) = Intercept + Slope·ln(size) over the histogram.
// Sizes must be positive.
func FitPowerLaw(hist []Bin) (PowerLawFit, error) {
	if len(hist) < 2 {
		return PowerLawFit{}, fmt.Errorf("%w: power-law fit needs at least 2 bins, got %d", ErrInsufficientData, len(hist))
	}
	xs := make([]float64, len(hist))
	ys := make([]float64, len(hist))
	flat := true
	for i, b := range hist {
		if b.Size <= 0 || b.Count <= 0 {
			return PowerLawFit{}, fmt.Errorf("power-law fit: bin %d has non-positive size %d or count %d", i, b.Size, b.Count)
		}
		xs[i] = math.Log(float64(b.Size))
		ys[i] = math.Log(float64(b.Count))
		flat = flat && b.Count == hist[0].Count
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	r2 := 1.0 // constant counts have zero total variance and the line is exact
	if !flat {
		r2 = stat.RSquared(xs, ys, nil, alpha, beta)
	}
	return PowerLawFit{
		Slope:     beta,
		Intercept: alpha,
		RSquared:  r2,
		Points:    len(hist),
	}, nil
}
