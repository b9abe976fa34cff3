// Package stats derives avalanche-size statistics from a finished run's
// toppling record.
package stats

import (
	"math"
	"sort"
)

// Bin is one histogram entry: how many drops produced an avalanche of Size topplings.
type Bin struct {
	Size  int `json:"size"`
	Count int `json:"count"`
}

// LogBin keeps the raw avalanche size as key and ln(count) as value.
type LogBin struct {
	Size     int     `json:"size"`
	LogCount float64 `json:"log_count"`
}

// Histogram counts drops per avalanche size, keeping only sizes strictly
// greater than threshold. Bins are sorted by ascending size.
func Histogram(record []int, threshold int) []Bin {
	counts := make(map[int]int)
	for _, n := range record {
		if n > threshold {
			counts[n]++
		}
	}
	bins := make([]Bin, 0, len(counts))
	for size, count := range counts {
		bins = append(bins, Bin{Size: size, Count: count})
	}
	sort.Slice(bins, func(i, j int) bool { return bins[i].Size < bins[j].Size })
	return bins
}

// LogTransform maps every bin to (size, ln(count)). The size stays raw; only
// the count is logged.
func LogTransform(hist []Bin) []LogBin {
	logs := make([]LogBin, len(hist))
	for i, b := range hist {
		logs[i] = LogBin{Size: b.Size, LogCount: math.Log(float64(b.Count))}
	}
	return logs
}

// PowerLawCurve returns exp(i*exponent) for i in [0, n). It is a reference
// curve to draw next to the empirical log histogram, not a fit.
func PowerLawCurve(n int, exponent float64) []float64 {
	if n < 0 {
		n = 0
	}
	curve := make([]float64, n)
	for i := range curve {
		curve[i] = math.Exp(float64(i) * exponent)
	}
	return curve
}

// Counts returns the bin counts in order.
func Counts(hist []Bin) []int {
	out := make([]int, len(hist))
	for i, b := range hist {
		out[i] = b.Count
	}
	return out
}
