package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	sim "github.com/soc-sim/sandpile/sim"
	"github.com/soc-sim/sandpile/sim/archive"
	"github.com/soc-sim/sandpile/sim/render"
	"github.com/soc-sim/sandpile/sim/stats"
	"github.com/soc-sim/sandpile/sim/trace"
)

// outputs routes a finished run to everything the configuration asked for.
type outputs struct {
	Dir       string // video and plot directory
	ArchiveDB string // empty = do not archive

	// Overridable for tests; nil selects the GIF and matplotlib backends.
	Renderer render.SnapshotRenderer
	Plotter  render.Plotter
}

func (o outputs) write(ctx context.Context, cfg sim.Config, res *sim.Result, w io.Writer) error {
	report := stats.Summarize(res.Record, cfg.ReportThreshold, stats.DefaultPowerLawExponent)
	if err := report.Print(w); err != nil {
		return fmt.Errorf("printing report: %w", err)
	}
	logrus.Infof("Grain balance: %d initial + %d dropped = %d on grid + %d lost",
		res.InitialGrains, res.GrainsDropped, res.Grid.Total(), res.GrainsLost)

	if res.Trace != nil {
		printTraceSummary(w, trace.Summarize(res.Trace))
	}

	if cfg.SaveSeed {
		if err := sim.SaveSeedFile(cfg.SeedFile, res.Grid); err != nil {
			return fmt.Errorf("saving seed grid: %w", err)
		}
		logrus.Infof("Saved final grid to %s", cfg.SeedFile)
	}

	if cfg.Video || cfg.PlotTotals || cfg.PlotLogs {
		if err := os.MkdirAll(o.Dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	switch {
	case cfg.Video && len(res.Snapshots) == 0:
		logrus.Warnf("Skipping video: the run recorded no snapshots")
	case cfg.Video:
		r := o.Renderer
		if r == nil {
			r = render.NewGIFRenderer(filepath.Join(o.Dir, "results.gif"))
		}
		if err := r.RenderSnapshots(res.Snapshots, cfg.Threshold); err != nil {
			return fmt.Errorf("rendering video: %w", err)
		}
	}

	p := o.Plotter
	if p == nil {
		p = &render.PyPlotter{Dir: o.Dir}
	}
	if cfg.PlotTotals {
		if err := p.PlotTotals(report.Histogram); err != nil {
			logrus.Warnf("Skipping totals plot: %v", err)
		}
	}
	if cfg.PlotLogs {
		if err := p.PlotLogs(report.LogTransform, report.PowerLawCurve); err != nil {
			logrus.Warnf("Skipping log plot: %v", err)
		}
	}

	if o.ArchiveDB != "" {
		a, err := archive.Open(o.ArchiveDB)
		if err != nil {
			return err
		}
		defer a.Close()
		id, err := a.SaveRun(ctx, cfg, res.Record, report)
		if err != nil {
			return fmt.Errorf("archiving run: %w", err)
		}
		logrus.Infof("Archived run %d in %s", id, a.Path())
	}
	return nil
}

func printTraceSummary(w io.Writer, s *trace.TraceSummary) {
	fmt.Fprintln(w, "=== Cascade Trace ===")
	fmt.Fprintf(w, "Drops             : %d\n", s.TotalDrops)
	fmt.Fprintf(w, "Avalanche drops   : %d\n", s.AvalancheDrops)
	fmt.Fprintf(w, "Total topplings   : %d\n", s.TotalTopplings)
	fmt.Fprintf(w, "Max avalanche     : %d\n", s.MaxAvalanche)
	fmt.Fprintf(w, "Mean avalanche    : %.4f\n", s.MeanAvalanche)
	fmt.Fprintf(w, "Grains lost       : %d\n", s.GrainsLost)
	fmt.Fprintf(w, "Truncated chains  : %d\n", s.TruncatedChains)
	fmt.Fprintf(w, "Unique drop sites : %d\n", s.UniqueSites)
	for _, sc := range s.TopSites(5) {
		fmt.Fprintf(w, "  site %-8s %d drops\n", sc.Site, sc.Count)
	}
}
