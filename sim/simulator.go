// sim/simulator.go
//
// Drives a sandpile run: sample a site, drop a grain, let the cascade engine
// settle the chain, repeat. The grid is loaded continuously; nothing is reset
// between drops.

package sim

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/soc-sim/sandpile/sim/trace"
)

// Result is everything a run produces.
type Result struct {
	Grid      *Grid        // final grid state (the same grid the run mutated)
	Record    ToppleRecord // topplings per step
	Snapshots []Snapshot   // nil unless snapshots were recorded

	InitialGrains int64 // grains on the grid before the first drop
	GrainsDropped int64 // one per step
	GrainsLost    int64 // grains shed off the lattice edge
	Truncated     int   // chains stopped by MaxChainLength

	Trace *trace.CascadeTrace // nil unless tracing was enabled
}

// Simulator owns the grid, the RNG and the record for one run.
type Simulator struct {
	cfg       Config
	grid      *Grid
	rng       *rand.Rand
	sampler   Sampler
	record    ToppleRecord
	snapshots *SnapshotSequence
	engine    *CascadeEngine
	trace     *trace.CascadeTrace
}

// NewSimulator validates cfg and prepares a run. A nil grid starts from an
// empty lattice; a non-nil grid (e.g. a loaded seed) must match cfg.Size and
// is mutated in place.
func NewSimulator(cfg Config, grid *Grid) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if grid == nil {
		g, err := NewGrid(cfg.Size)
		if err != nil {
			return nil, err
		}
		grid = g
	} else if grid.Size() != cfg.Size {
		return nil, fmt.Errorf("%w: seed grid is %dx%d, configured lattice is %dx%d",
			ErrDeserialization, grid.Size(), grid.Size(), cfg.Size, cfg.Size)
	}

	s := &Simulator{
		cfg:     cfg,
		grid:    grid,
		rng:     NewSimulationKey(cfg.Seed).Rand(),
		sampler: NewSampler(cfg.CenterWeight),
		record:  NewToppleRecord(cfg.Iterations),
	}
	if cfg.RecordSnapshots() {
		s.snapshots = NewSnapshotSequence()
	}
	if tc := (trace.TraceConfig{Level: trace.TraceLevel(cfg.TraceLevel)}); tc.Enabled() {
		s.trace = trace.NewCascadeTrace(tc)
	}
	s.engine = NewCascadeEngine(grid, cfg.Topology, cfg.Threshold, s.record, s.snapshots)
	s.engine.SetMaxChainLength(cfg.MaxChainLength)
	return s, nil
}

// Grid returns the grid the simulator mutates.
func (s *Simulator) Grid() *Grid { return s.grid }

// Run executes every drop step in order. The context is checked between
// drops; a cancelled run returns ctx.Err() and no result.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	logrus.Infof("Starting sandpile run: %dx%d lattice, threshold=%d, topology=%s, iterations=%d, center_weight=%g, seed=%d",
		s.cfg.Size, s.cfg.Size, s.cfg.Threshold, s.cfg.Topology, s.cfg.Iterations, s.cfg.CenterWeight, s.cfg.Seed)

	res := &Result{
		Grid:          s.grid,
		Record:        s.record,
		InitialGrains: s.grid.Total(),
		Trace:         s.trace,
	}
	for step := 0; step < s.cfg.Iterations; step++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run aborted at step %d: %w", step, err)
		}
		drop := s.sampler.Sample(s.rng, s.grid.Size())
		s.grid.PlaceGrain(drop)
		res.GrainsDropped++
		s.snapshots.Capture(step, s.grid)

		cr := s.engine.Run(drop, step)
		res.GrainsLost += int64(cr.GrainsLost)
		if cr.Truncated {
			res.Truncated++
		}
		if cr.Topplings > 0 {
			logrus.Debugf("step %d: drop at %v toppled %d times, chain ended at %v", step, drop, cr.Topplings, cr.End)
		}
		if s.trace != nil {
			s.trace.RecordDrop(trace.DropRecord{
				Step: step, X: drop.X, Y: drop.Y,
				EndX: cr.End.X, EndY: cr.End.Y,
				Topplings: cr.Topplings, GrainsLost: cr.GrainsLost, Truncated: cr.Truncated,
			})
		}
	}

	res.Snapshots = s.snapshots.All()
	logrus.Infof("Run complete in %v: %d topplings, %d grains lost, %d snapshots",
		time.Since(start), s.record.Total(), res.GrainsLost, s.snapshots.Len())
	return res, nil
}

// Run is a convenience wrapper: NewSimulator followed by Run.
func Run(ctx context.Context, cfg Config, grid *Grid) (*Result, error) {
	s, err := NewSimulator(cfg, grid)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx)
}
