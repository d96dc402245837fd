package lanerun

import (
	"testing"

	"github.com/vovakirdan/sign-runner/internal/config"
)

var obstacleSpawn = config.SpawnConfig{Count: 3, SpawnOffset: -45, Spacing: 18, Jitter: 6}

func TestPoolInitialPlacement(t *testing.T) {
	p := NewPool(KindCoin, config.SpawnConfig{Count: 4, SpawnOffset: -25, Spacing: 7}, 10, 1, 1)

	for i, e := range p.Entities() {
		want := -25 - float64(i)*7
		if e.Pos != want {
			t.Errorf("entity %d at %v, want %v", i, e.Pos, want)
		}
		if e.Kind != KindCoin {
			t.Errorf("entity %d kind = %v, want coin", i, e.Kind)
		}
	}
}

func TestPoolRecyclesBehindSpawnOffset(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		for lane := 0; lane < NumLanes; lane++ {
			p := NewPool(KindObstacle, obstacleSpawn, 10, seed, lane)
			p.At(0).Resolved = true

			// Entity 0 moves from -45 to 11, past the threshold.
			exited := p.Advance(56, lane)

			if len(exited) != 1 {
				t.Fatalf("seed %d: %d entities exited, want 1", seed, len(exited))
			}
			if exited[0].Pos <= 10 {
				t.Errorf("seed %d: exited entity reported at %v", seed, exited[0].Pos)
			}

			e := p.At(0)
			if e.Pos >= obstacleSpawn.SpawnOffset {
				t.Errorf("seed %d: recycled to %v, want < %v", seed, e.Pos, obstacleSpawn.SpawnOffset)
			}
			if e.Pos > -45-18 {
				t.Errorf("seed %d: recycled to %v, want behind the furthest entity by the spacing", seed, e.Pos)
			}
			if e.Lane == lane {
				t.Errorf("seed %d: obstacle recycled into player lane %d", seed, lane)
			}
			if e.Resolved {
				t.Errorf("seed %d: recycled entity still resolved", seed)
			}
		}
	}
}

func TestPoolRecycleWithoutSpacing(t *testing.T) {
	cfg := config.SpawnConfig{Count: 1, SpawnOffset: -150, Spacing: 0, Jitter: 0}
	p := NewPool(KindFuel, cfg, 10, 3, 1)

	p.Advance(161, 1)

	if got := p.At(0).Pos; got >= cfg.SpawnOffset {
		t.Errorf("recycled to %v, want strictly below %v", got, cfg.SpawnOffset)
	}
}

func TestObstaclesAvoidPlayerLane(t *testing.T) {
	for seed := int64(0); seed < 30; seed++ {
		p := NewPool(KindObstacle, obstacleSpawn, 10, seed, 2)
		for _, e := range p.Entities() {
			if e.Lane == 2 {
				t.Fatalf("seed %d: obstacle placed in player lane", seed)
			}
		}
		for step := 0; step < 200; step++ {
			p.Advance(1.5, 0)
		}
		for i := 0; i < p.Len(); i++ {
			if e := p.At(i); e.Lane < 0 || e.Lane >= NumLanes {
				t.Fatalf("seed %d: lane %d out of range", seed, e.Lane)
			}
		}
	}
}

func TestPickupsUseEveryLane(t *testing.T) {
	p := NewPool(KindCoin, config.SpawnConfig{Count: 5, SpawnOffset: -25, Spacing: 7, Jitter: 3}, 10, 9, 1)
	seen := make(map[int]bool)
	for step := 0; step < 2000; step++ {
		p.Advance(1, 1)
		for _, e := range p.Entities() {
			seen[e.Lane] = true
		}
	}
	for lane := 0; lane < NumLanes; lane++ {
		if !seen[lane] {
			t.Errorf("no coin ever placed in lane %d", lane)
		}
	}
}

func TestAnswerGroupSharedResolution(t *testing.T) {
	g := NewAnswerGroup()
	g.Spawn(4, [NumLanes]int{2, 0, 1}, -60)

	if got := g.Option(0).LaneIndex(); got != 2 {
		t.Errorf("option 0 lane = %d, want 2", got)
	}
	if got := g.OptionInLane(1); got != 2 {
		t.Errorf("OptionInLane(1) = %d, want 2", got)
	}

	g.Option(1).MarkResolved()
	for i := 0; i < NumLanes; i++ {
		if !g.Option(i).IsResolved() {
			t.Errorf("option %d not resolved after sibling fired", i)
		}
	}

	g.Spawn(5, [NumLanes]int{0, 1, 2}, -60)
	if g.Option(0).IsResolved() {
		t.Error("respawned group still resolved")
	}
}

func TestAnswerGroupStaysAtThreshold(t *testing.T) {
	g := NewAnswerGroup()
	g.Spawn(1, [NumLanes]int{0, 1, 2}, -1)

	if g.Advance(11, 10) {
		t.Fatal("group exited exactly at the threshold")
	}
	if !g.Active || g.Pos != 10 {
		t.Errorf("group at threshold: active %v pos %v", g.Active, g.Pos)
	}
}

func TestAnswerGroupAdvanceExit(t *testing.T) {
	g := NewAnswerGroup()
	g.Spawn(1, [NumLanes]int{0, 1, 2}, -1)

	if g.Advance(5, 10) {
		t.Fatal("group exited early")
	}
	if !g.Advance(7, 10) {
		t.Fatal("group did not exit past threshold")
	}
	if g.Active {
		t.Error("exited group still active")
	}
	if g.Advance(100, 10) {
		t.Error("inactive group reported exit")
	}
}
