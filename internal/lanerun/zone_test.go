package lanerun

import "testing"

func TestWindowContains(t *testing.T) {
	w := SymmetricWindow(2)
	tests := []struct {
		pos  float64
		want bool
	}{
		{-2.01, false},
		{-2, true},
		{0, true},
		{2, true},
		{2.01, false},
	}
	for _, tt := range tests {
		if got := w.Contains(tt.pos); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.pos, got, tt.want)
		}
	}
}

func TestZoneDetectorOneShot(t *testing.T) {
	d := NewZoneDetector[*Entity](SymmetricWindow(2), 0.5, ExactLane)
	s := NewGameState(1, 3, 3, false)
	e := &Entity{Kind: KindObstacle, Lane: 1, Pos: -3}

	if got := d.Check(0, e, &s); got != VerdictOutside {
		t.Fatalf("outside window: got %v", got)
	}
	e.Pos = -1
	if got := d.Check(1, e, &s); got != VerdictFired {
		t.Fatalf("in window: got %v, want fired", got)
	}
	for i := 0; i < 10; i++ {
		e.Pos += 0.3
		if got := d.Check(5+float64(i), e, &s); got == VerdictFired {
			t.Fatalf("entity fired twice")
		}
	}
}

func TestZoneDetectorLanePredicates(t *testing.T) {
	// Car moving from lane 0 to lane 1.
	s := NewGameState(0, 3, 3, false)
	s.TargetLane = 1

	tests := []struct {
		name  string
		match LanePredicate
		lane  int
		want  Verdict
	}{
		{"exact current lane", ExactLane, 0, VerdictFired},
		{"exact ignores target", ExactLane, 1, VerdictNoMatch},
		{"committed uses target", CommittedLane, 1, VerdictFired},
		{"committed ignores current", CommittedLane, 0, VerdictNoMatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewZoneDetector[*Entity](SymmetricWindow(2), 0.5, tt.match)
			e := &Entity{Lane: tt.lane, Pos: 0}
			if got := d.Check(1, e, &s); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestZoneDetectorDefersDuringTransition(t *testing.T) {
	d := NewZoneDetector[*AnswerOption](SymmetricWindow(2), 0.5, CommittedLane)
	d.DeferInTransition = true

	g := NewAnswerGroup()
	g.Spawn(1, [NumLanes]int{0, 1, 2}, 0)
	s := NewGameState(0, 3, 3, false)
	s.TargetLane = 2

	for i := 0; i < NumLanes; i++ {
		if got := d.Check(1, g.Option(i), &s); got != VerdictDeferred {
			t.Fatalf("option %d during transition: got %v, want deferred", i, got)
		}
	}

	s.CurrentLane, s.TargetLane = 2, NoLane
	var fired []int
	for i := 0; i < NumLanes; i++ {
		if d.Check(1.1, g.Option(i), &s) == VerdictFired {
			fired = append(fired, i)
		}
	}
	if len(fired) != 1 || fired[0] != 2 {
		t.Errorf("fired options = %v, want [2]", fired)
	}
}

func TestZoneDetectorDebounce(t *testing.T) {
	d := NewZoneDetector[*Entity](SymmetricWindow(2), 0.5, ExactLane)
	s := NewGameState(1, 3, 3, false)
	first := &Entity{Lane: 1, Pos: 0}
	second := &Entity{Lane: 1, Pos: 1}

	if got := d.Check(1.0, first, &s); got != VerdictFired {
		t.Fatalf("first: got %v", got)
	}
	if got := d.Check(1.2, second, &s); got != VerdictDebounced {
		t.Fatalf("second within debounce: got %v", got)
	}
	if second.Resolved {
		t.Fatal("debounced entity marked resolved")
	}
	if got := d.Check(1.6, second, &s); got != VerdictFired {
		t.Fatalf("second after debounce: got %v", got)
	}
}
