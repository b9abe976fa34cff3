package sim

import "testing"

func TestToppleRecord_TotalAndMax(t *testing.T) {
	r := ToppleRecord{0, 3, 1, 0, 7}
	if r.Total() != 11 {
		t.Errorf("Total() = %d, want 11", r.Total())
	}
	if r.Max() != 7 {
		t.Errorf("Max() = %d, want 7", r.Max())
	}
	if (ToppleRecord{}).Max() != 0 {
		t.Error("empty record must have Max() 0")
	}
}

func TestSnapshotSequence_NilRecordsNothing(t *testing.T) {
	var s *SnapshotSequence
	g, _ := NewGrid(2)
	s.Capture(0, g)
	if s.Len() != 0 || s.All() != nil {
		t.Error("nil sequence must stay empty")
	}
}

func TestSnapshotSequence_CapturesDeepCopies(t *testing.T) {
	s := NewSnapshotSequence()
	g, _ := NewGrid(2)
	s.Capture(0, g)
	g.PlaceGrain(Coord{0, 0})
	s.Capture(1, g)

	shots := s.All()
	if len(shots) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(shots))
	}
	if shots[0].Grid.Total() != 0 || shots[1].Grid.Total() != 1 {
		t.Errorf("snapshots aliased the live grid: %d, %d", shots[0].Grid.Total(), shots[1].Grid.Total())
	}
	if shots[1].Step != 1 {
		t.Errorf("expected step 1, got %d", shots[1].Step)
	}
}
