package sim

import "github.com/sirupsen/logrus"

// CascadeEngine applies the toppling rule after a grain is dropped.
//
// Propagation follows a single chain: after a site topples, only the LAST
// in-bounds neighbour that received a grain is examined next. Other
// neighbours pushed over the threshold stay unstable until a later drop
// reaches them. This is not full abelian relaxation and is kept that way
// because the recorded avalanche statistics depend on it.
type CascadeEngine struct {
	grid      *Grid
	topology  Topology
	threshold int
	maxChain  int // 0 = unlimited

	record    ToppleRecord
	snapshots *SnapshotSequence // nil disables snapshotting
}

// CascadeResult describes one drop's chain of topplings.
type CascadeResult struct {
	Topplings  int   // topplings in this chain
	GrainsLost int   // grains shed to out-of-bounds neighbours
	End        Coord // last coordinate examined
	Truncated  bool  // stopped by the max chain length
}

// NewCascadeEngine binds an engine to a grid and the record it writes to.
func NewCascadeEngine(grid *Grid, topology Topology, threshold int, record ToppleRecord, snapshots *SnapshotSequence) *CascadeEngine {
	return &CascadeEngine{
		grid:      grid,
		topology:  topology,
		threshold: threshold,
		record:    record,
		snapshots: snapshots,
	}
}

// SetMaxChainLength bounds the number of topplings in one chain. Zero or a
// negative value removes the bound.
func (e *CascadeEngine) SetMaxChainLength(n int) {
	if n < 0 {
		n = 0
	}
	e.maxChain = n
}

// Check reports whether the site at c is above the toppling threshold.
func (e *CascadeEngine) Check(c Coord) bool {
	return e.grid.Height(c) > e.threshold
}

// Topple removes arity grains from c and places one on every in-bounds
// neighbour. It returns the last in-bounds neighbour visited (ok is false
// when there is none) and the number of grains that fell off the grid.
func (e *CascadeEngine) Topple(c Coord) (next Coord, lost int, ok bool) {
	e.grid.SetHeight(c, e.grid.Height(c)-e.topology.Arity())
	for _, n := range e.grid.Neighbors(c, e.topology) {
		if !e.grid.InBounds(n) {
			lost++
			continue
		}
		e.grid.PlaceGrain(n)
		next, ok = n, true
	}
	return next, lost, ok
}

// canShed reports whether c has any in-bounds neighbour. A site without one
// (the single site of a 1x1 lattice) never topples and just accumulates.
func (e *CascadeEngine) canShed(c Coord) bool {
	for _, n := range e.grid.Neighbors(c, e.topology) {
		if e.grid.InBounds(n) {
			return true
		}
	}
	return false
}

// Run topples from start until the chain ends and charges every toppling
// to record[step].
func (e *CascadeEngine) Run(start Coord, step int) CascadeResult {
	res := CascadeResult{End: start}
	cur := start
	for e.Check(cur) && e.canShed(cur) {
		if e.maxChain > 0 && res.Topplings >= e.maxChain {
			logrus.Warnf("step %d: cascade chain truncated at %d topplings (site %v height %d)",
				step, res.Topplings, cur, e.grid.Height(cur))
			res.Truncated = true
			break
		}
		next, lost, ok := e.Topple(cur)
		res.Topplings++
		res.GrainsLost += lost
		e.record[step]++
		e.snapshots.Capture(step, e.grid)
		if !ok {
			break
		}
		cur = next
	}
	res.End = cur
	return res
}
