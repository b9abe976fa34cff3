// Package sim provides the sandpile simulation kernel.
//
// # Reading Guide
//
// Start with these files to understand the kernel:
//   - grid.go: the M×M lattice, coordinates and neighbour topologies
//   - cascade.go: the toppling rule and single-chain propagation
//   - simulator.go: the drop loop tying sampler, grid and cascade together
//
// # Architecture
//
// The sim package owns the mutable state of a run; everything derived from a
// finished run lives in sub-packages:
//   - sim/stats/: avalanche-size histogram, log transform, power-law curve and fit
//   - sim/trace/: per-drop cascade records
//   - sim/render/: snapshot video and histogram plots
//   - sim/archive/: SQLite archive of finished runs
//
// A run is strictly sequential. Each drop depends on the grid left by the
// previous cascade, so no part of the drop loop runs concurrently.
package sim
