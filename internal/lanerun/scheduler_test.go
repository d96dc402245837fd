package lanerun

import (
	"reflect"
	"testing"
)

func TestSchedulerRunsDueInOrder(t *testing.T) {
	store := NewStateStore(NewGameState(1, 3, 3, false))
	sc := NewScheduler(nil)
	var order []string

	sc.After(0, 0.3, "c", nil, func(float64) { order = append(order, "c") })
	sc.After(0, 0.1, "a", nil, func(float64) { order = append(order, "a") })
	sc.After(0, 0.1, "b", nil, func(float64) { order = append(order, "b") })
	sc.After(0, 5, "later", nil, func(float64) { order = append(order, "later") })

	ran, discarded := sc.RunDue(0.5, store)

	if ran != 3 || discarded != 0 {
		t.Errorf("ran %d discarded %d, want 3 and 0", ran, discarded)
	}
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
	if sc.Pending() != 1 {
		t.Errorf("pending = %d, want 1", sc.Pending())
	}
}

func TestSchedulerDiscardsStaleTasks(t *testing.T) {
	store := NewStateStore(NewGameState(1, 3, 3, false))
	sc := NewScheduler(nil)
	ran := false

	sc.After(0, 0.2, "needs-pause", func(s *GameState) bool { return s.Paused }, func(float64) { ran = true })

	if n, d := sc.RunDue(0.2, store); n != 0 || d != 1 {
		t.Errorf("ran %d discarded %d, want 0 and 1", n, d)
	}
	if ran {
		t.Error("stale task ran")
	}
	if sc.Pending() != 0 {
		t.Error("discarded task still queued")
	}
}

func TestSchedulerTasksQueuedWhileRunningWait(t *testing.T) {
	store := NewStateStore(NewGameState(1, 3, 3, false))
	sc := NewScheduler(nil)
	count := 0

	sc.After(0, 0, "first", nil, func(now float64) {
		count++
		sc.After(now, 0, "second", nil, func(float64) { count++ })
	})

	sc.RunDue(1, store)
	if count != 1 {
		t.Fatalf("count = %d after first pass, want 1", count)
	}
	sc.RunDue(1, store)
	if count != 2 {
		t.Fatalf("count = %d after second pass, want 2", count)
	}
}
