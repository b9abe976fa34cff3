// Package render turns finished runs into pictures: snapshot sequences into
// an animated GIF and histograms into matplotlib plots.
package render

import (
	"github.com/soc-sim/sandpile/sim"
	"github.com/soc-sim/sandpile/sim/stats"
)

// SnapshotRenderer consumes a snapshot sequence in recorded order. Heights
// are normalized to [0, maxHeight]. Implementations must not mutate the
// snapshots.
type SnapshotRenderer interface {
	RenderSnapshots(snapshots []sim.Snapshot, maxHeight int) error
}

// Plotter draws histogram outputs verbatim.
type Plotter interface {
	PlotTotals(hist []stats.Bin) error
	PlotLogs(logs []stats.LogBin, curve []float64) error
}
