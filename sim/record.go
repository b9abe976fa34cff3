package sim

// ToppleRecord holds the number of topplings produced by each drop, indexed
// by step. Only the cascade engine writes to it.
type ToppleRecord []int

// NewToppleRecord returns a zeroed record for the given number of steps.
func NewToppleRecord(steps int) ToppleRecord {
	return make(ToppleRecord, steps)
}

// Total returns the number of topplings across all steps.
func (r ToppleRecord) Total() int {
	sum := 0
	for _, n := range r {
		sum += n
	}
	return sum
}

// Max returns the largest avalanche in the record, or 0 when empty.
func (r ToppleRecord) Max() int {
	top := 0
	for _, n := range r {
		if n > top {
			top = n
		}
	}
	return top
}

// Snapshot is an independent copy of the grid taken during a run.
type Snapshot struct {
	Step int   // drop step the snapshot belongs to
	Grid *Grid // deep copy; never mutated after capture
}

// SnapshotSequence is an append-only list of grid copies. A nil
// *SnapshotSequence records nothing, which is how snapshotting is disabled.
type SnapshotSequence struct {
	shots []Snapshot
}

// NewSnapshotSequence returns an empty sequence ready for recording.
func NewSnapshotSequence() *SnapshotSequence {
	return &SnapshotSequence{shots: make([]Snapshot, 0)}
}

// Capture appends a deep copy of g.
func (s *SnapshotSequence) Capture(step int, g *Grid) {
	if s == nil {
		return
	}
	s.shots = append(s.shots, Snapshot{Step: step, Grid: g.Clone()})
}

// Len returns the number of captured snapshots.
func (s *SnapshotSequence) Len() int {
	if s == nil {
		return 0
	}
	return len(s.shots)
}

// All returns the snapshots in capture order. Callers must not mutate them.
func (s *SnapshotSequence) All() []Snapshot {
	if s == nil {
		return nil
	}
	return s.shots
}
