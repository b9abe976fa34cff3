package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration is returned before a run starts when the
	// configuration cannot describe a valid simulation.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrDeserialization is returned when a persisted grid is malformed or
	// does not match the configured lattice size. No partial grid is built.
	ErrDeserialization = errors.New("grid deserialization failed")
)

// OutOfBoundsError signals a coordinate outside [0, size) reached a grid
// accessor without going through InBounds first. It is a programming
// defect and is raised with panic, never returned.
type OutOfBoundsError struct {
	Coord Coord
	Size  int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("coordinate (%d,%d) out of bounds for %dx%d grid", e.Coord.X, e.Coord.Y, e.Size, e.Size)
}
