package lanerun

import (
	"math/rand"

	"github.com/vovakirdan/sign-runner/internal/core"
)

// dangerAhead is how far ahead the autopilot looks for obstacles.
const dangerAhead = 14.0

// Autopilot steers a game for headless runs. It aims for the correct sign
// with probability Accuracy and dodges obstacles it can see.
type Autopilot struct {
	Accuracy float64
	rng      *rand.Rand
	question int
	aim      int
}

// NewAutopilot creates an autopilot.
func NewAutopilot(accuracy float64, seed int64) *Autopilot {
	return &Autopilot{
		Accuracy: accuracy,
		rng:      rand.New(rand.NewSource(seed)),
		question: -1,
		aim:      NoLane,
	}
}

// Decide returns the input for the next tick.
func (a *Autopilot) Decide(g *Game) core.InputFrame {
	in := core.NewInputFrame()
	s := g.Snapshot()
	if s.GameOver || s.Paused || s.Transitioning() {
		return in
	}

	target := s.CurrentLane
	answers := g.Answers()
	if s.Phase == PhasePending && s.Question != nil && answers.Active && !answers.Resolved {
		target = a.aimFor(&s)
	}

	blocked := a.blockedLanes(g)
	if blocked[target] {
		target = a.safeLane(s.CurrentLane, blocked)
	}

	// One lane per move; the middle lane must be clear to pass through it.
	next := s.CurrentLane
	switch {
	case target < s.CurrentLane:
		next = s.CurrentLane - 1
	case target > s.CurrentLane:
		next = s.CurrentLane + 1
	}
	if next == s.CurrentLane || blocked[next] {
		return in
	}
	if next < s.CurrentLane {
		in.Set(core.ActionLaneLeft)
	} else {
		in.Set(core.ActionLaneRight)
	}
	return in
}

// aimFor picks the lane to answer the current question once per question.
func (a *Autopilot) aimFor(s *GameState) int {
	if a.question == s.Question.ID {
		return a.aim
	}
	a.question = s.Question.ID
	a.aim = s.LaneOf(s.Question.CorrectAnswer)
	if a.rng.Float64() >= a.Accuracy {
		a.aim = s.LaneOf(1 + a.rng.Intn(NumLanes-1))
	}
	return a.aim
}

func (a *Autopilot) blockedLanes(g *Game) [NumLanes]bool {
	var blocked [NumLanes]bool
	window := g.obstacleZone.Window
	for _, e := range g.Obstacles() {
		if e.Pos >= -dangerAhead && e.Pos <= window.Max {
			blocked[e.Lane] = true
		}
	}
	return blocked
}

// safeLane returns the closest unblocked lane to current.
func (a *Autopilot) safeLane(current int, blocked [NumLanes]bool) int {
	if !blocked[current] {
		return current
	}
	for d := 1; d < NumLanes; d++ {
		for _, lane := range []int{current - d, current + d} {
			if lane >= 0 && lane < NumLanes && !blocked[lane] {
				return lane
			}
		}
	}
	return current
}
