package sim

import "fmt"

// Coord identifies a lattice site.
type Coord struct {
	X, Y int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Topology selects which sites receive grains when a site topples.
type Topology string

const (
	// TopologyOrthogonal is the 4-neighbourhood: ±1 on one axis.
	TopologyOrthogonal Topology = "orthogonal"
	// TopologyDiagonal is the 4 diagonal sites: ±1 on both axes.
	TopologyDiagonal Topology = "diagonal"
	// TopologyAll is the 8-neighbourhood, orthogonal then diagonal.
	TopologyAll Topology = "all"
)

// Neighbour enumeration order is fixed. The cascade engine follows the last
// in-bounds neighbour, so reordering these changes simulation output.
var (
	orthogonalOffsets = []Coord{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}
	diagonalOffsets   = []Coord{{1, 1}, {-1, -1}, {1, -1}, {-1, 1}}
	allOffsets        = append(append([]Coord{}, orthogonalOffsets...), diagonalOffsets...)
)

var validTopologies = map[Topology]bool{
	TopologyOrthogonal: true,
	TopologyDiagonal:   true,
	TopologyAll:        true,
}

// IsValidTopology returns true if name is a recognized topology.
func IsValidTopology(name string) bool {
	return validTopologies[Topology(name)]
}

// Arity returns the number of neighbours of an interior site, which is also
// the number of grains a toppling removes.
func (t Topology) Arity() int {
	return len(t.offsets())
}

func (t Topology) offsets() []Coord {
	switch t {
	case TopologyDiagonal:
		return diagonalOffsets
	case TopologyAll:
		return allOffsets
	default:
		return orthogonalOffsets
	}
}

// Grid is a square lattice of integer heights stored row-major by X.
type Grid struct {
	size    int
	heights []int
}

// NewGrid returns a size×size grid with every height zero.
func NewGrid(size int) (*Grid, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: lattice size must be >= 1, got %d", ErrInvalidConfiguration, size)
	}
	return &Grid{size: size, heights: make([]int, size*size)}, nil
}

// Size returns M for an M×M grid.
func (g *Grid) Size() int { return g.size }

// InBounds reports whether both coordinates lie in [0, size).
func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.size && c.Y >= 0 && c.Y < g.size
}

func (g *Grid) index(c Coord) int {
	if !g.InBounds(c) {
		panic(&OutOfBoundsError{Coord: c, Size: g.size})
	}
	return c.X*g.size + c.Y
}

// Height returns the number of grains at c.
func (g *Grid) Height(c Coord) int {
	return g.heights[g.index(c)]
}

// SetHeight overwrites the height at c.
func (g *Grid) SetHeight(c Coord, h int) {
	g.heights[g.index(c)] = h
}

// PlaceGrain adds one grain at c. Callers must have checked InBounds.
func (g *Grid) PlaceGrain(c Coord) {
	g.heights[g.index(c)]++
}

// Neighbors returns the adjacent coordinates of c for topology t in the
// fixed enumeration order. Out-of-bounds coordinates are included; callers
// filter with InBounds.
func (g *Grid) Neighbors(c Coord, t Topology) []Coord {
	offs := t.offsets()
	out := make([]Coord, len(offs))
	for i, o := range offs {
		out[i] = Coord{X: c.X + o.X, Y: c.Y + o.Y}
	}
	return out
}

// Total returns the number of grains on the grid.
func (g *Grid) Total() int64 {
	var sum int64
	for _, h := range g.heights {
		sum += int64(h)
	}
	return sum
}

// MaxHeight returns the tallest site's height.
func (g *Grid) MaxHeight() int {
	top := g.heights[0]
	for _, h := range g.heights[1:] {
		if h > top {
			top = h
		}
	}
	return top
}

// Clone returns an independent deep copy.
func (g *Grid) Clone() *Grid {
	h := make([]int, len(g.heights))
	copy(h, g.heights)
	return &Grid{size: g.size, heights: h}
}

// Equal reports whether both grids have the same size and heights.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.size != other.size {
		return false
	}
	for i, h := range g.heights {
		if other.heights[i] != h {
			return false
		}
	}
	return true
}

// Rows returns a copy of the heights as rows indexed [x][y].
func (g *Grid) Rows() [][]int {
	rows := make([][]int, g.size)
	for x := range rows {
		rows[x] = make([]int, g.size)
		copy(rows[x], g.heights[x*g.size:(x+1)*g.size])
	}
	return rows
}
