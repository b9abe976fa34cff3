package render

import (
	"fmt"
	"path/filepath"

	plt "github.com/phil-mansfield/pyplot"
	"github.com/sirupsen/logrus"

	"github.com/soc-sim/sandpile/sim/stats"
)

// PyPlotter renders histograms through matplotlib. Each call resets the
// pyplot script, draws one figure and saves it under Dir.
type PyPlotter struct {
	Dir string
}

// TotalsPath is where PlotTotals saves its figure.
func (p *PyPlotter) TotalsPath() string { return filepath.Join(p.Dir, "totals.png") }

// LogsPath is where PlotLogs saves its figure.
func (p *PyPlotter) LogsPath() string { return filepath.Join(p.Dir, "logs.png") }

// PlotTotals draws one bar per avalanche size.
func (p *PyPlotter) PlotTotals(hist []stats.Bin) error {
	if len(hist) == 0 {
		return fmt.Errorf("empty histogram")
	}
	plt.Reset()
	plt.Figure()
	for _, b := range hist {
		x := float64(b.Size)
		plt.Plot([]float64{x, x}, []float64{0, float64(b.Count)}, "b", plt.LW(6))
	}
	plt.Title(fmt.Sprintf("Avalanche sizes (%d bins)", len(hist)))
	plt.XLabel("topplings per drop", plt.FontSize(14))
	plt.YLabel("drops", plt.FontSize(14))
	plt.SaveFig(p.TotalsPath())
	plt.Execute()
	logrus.Infof("Saved totals plot to %s", p.TotalsPath())
	return nil
}

// PlotLogs draws ln(count) against raw size with the reference curve on
// the same axes.
func (p *PyPlotter) PlotLogs(logs []stats.LogBin, curve []float64) error {
	if len(logs) == 0 {
		return fmt.Errorf("empty log transform")
	}
	xs := make([]float64, len(logs))
	ys := make([]float64, len(logs))
	for i, l := range logs {
		xs[i] = float64(l.Size)
		ys[i] = l.LogCount
	}
	plt.Reset()
	plt.Figure()
	plt.Plot(xs, ys, "b", plt.LW(2))
	if len(curve) > 0 {
		cx := make([]float64, len(curve))
		for i := range curve {
			cx[i] = float64(i + 1)
		}
		plt.Plot(cx, curve, "r")
	}
	plt.Title("ln(drops) by avalanche size")
	plt.XLabel("topplings per drop", plt.FontSize(14))
	plt.YLabel("ln(drops)", plt.FontSize(14))
	plt.SaveFig(p.LogsPath())
	plt.Execute()
	logrus.Infof("Saved log plot to %s", p.LogsPath())
	return nil
}
