// Package trace records per-drop cascade outcomes for post-run analysis.
// It does not import sim and stores plain data types only.
package trace

// DropRecord captures the outcome of a single grain drop.
type DropRecord struct {
	Step       int
	X, Y       int  // drop coordinate
	EndX, EndY int  // last coordinate examined by the chain
	Topplings  int  // avalanche size
	GrainsLost int  // grains shed off the lattice edge
	Truncated  bool // chain stopped by the max chain length
}
