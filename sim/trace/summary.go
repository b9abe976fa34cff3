package trace

import (
	"fmt"
	"sort"
)

// TraceSummary aggregates statistics from a CascadeTrace.
type TraceSummary struct {
	TotalDrops       int
	AvalancheDrops   int // drops that caused at least one toppling
	TotalTopplings   int
	MaxAvalanche     int
	MeanAvalanche    float64 // over all drops
	GrainsLost       int
	TruncatedChains  int
	UniqueSites      int
	SiteDistribution map[string]int // "x,y" → drops landing there
}

// Summarize computes aggregate statistics from a CascadeTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(ct *CascadeTrace) *TraceSummary {
	summary := &TraceSummary{
		SiteDistribution: make(map[string]int),
	}
	if ct == nil {
		return summary
	}

	summary.TotalDrops = len(ct.Drops)
	for _, d := range ct.Drops {
		summary.SiteDistribution[siteKey(d.X, d.Y)]++
		summary.TotalTopplings += d.Topplings
		summary.GrainsLost += d.GrainsLost
		if d.Topplings > 0 {
			summary.AvalancheDrops++
		}
		if d.Topplings > summary.MaxAvalanche {
			summary.MaxAvalanche = d.Topplings
		}
		if d.Truncated {
			summary.TruncatedChains++
		}
	}
	if summary.TotalDrops > 0 {
		summary.MeanAvalanche = float64(summary.TotalTopplings) / float64(summary.TotalDrops)
	}
	summary.UniqueSites = len(summary.SiteDistribution)

	return summary
}

// SiteCount pairs a drop site with the number of drops it received.
type SiteCount struct {
	Site  string
	Count int
}

// TopSites returns up to k sites with the most drops, ties broken by key.
func (s *TraceSummary) TopSites(k int) []SiteCount {
	out := make([]SiteCount, 0, len(s.SiteDistribution))
	for site, n := range s.SiteDistribution {
		out = append(out, SiteCount{Site: site, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Site < out[j].Site
	})
	if k >= 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

func siteKey(x, y int) string {
	return fmt.Sprintf("%d,%d", x, y)
}
