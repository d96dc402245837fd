// Package lanerun implements Sign Runner, a three-lane road runner where
// the player dodges traffic, collects pickups and answers road-sign
// questions by steering into the lane that shows the right sign.
//
// The simulation is a pure tick-driven state machine. All mutations of the
// shared GameState go through a StateStore so entity handlers, deferred
// tasks and readers never observe a half-applied transform.
package lanerun

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vovakirdan/sign-runner/internal/questions"
)

// Lane layout.
const (
	NumLanes = questions.NumOptions
	NoLane   = -1
)

// ErrInvariant is wrapped by every GameState validation failure.
var ErrInvariant = errors.New("lanerun: invariant violated")

// Phase is the lifecycle of the current question.
type Phase int

const (
	PhaseUnset    Phase = iota // No question selected yet
	PhasePending               // Answer options are on the road
	PhaseResolved              // Answered or missed, waiting for the next question
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseResolved:
		return "resolved"
	default:
		return "unset"
	}
}

// Reveal describes the outcome of the last resolved question.
type Reveal struct {
	QuestionID  int
	Correct     bool
	CorrectLane int
	ChosenLane  int    // NoLane when the options passed unanswered
	Hint        string // Oracle hint, only set in oracle mode
	Until       float64
}

// GameState is the single authoritative record of a run.
type GameState struct {
	CurrentLane int
	TargetLane  int // NoLane unless a lane change is in flight

	Score              int
	Lives              int
	MaxLives           int
	Combo              int
	Multiplier         float64 // Difficulty multiplier, >= 1
	Speed              float64 // Streak speed, >= 1
	ConsecutiveCorrect int

	Playing    bool
	Paused     bool
	GameOver   bool
	OracleMode bool

	Question *questions.Question
	Lanes    [NumLanes]int // Lane of each option of Question
	Phase    Phase
	Reveal   *Reveal

	CoinsCollected int
	Correct        int
	Incorrect      int
	ObstacleHits   int
	BoostUntil     float64 // Magnet boost expiry in sim seconds

	Clock float64 // Simulated seconds, frozen while paused
	Ticks int
}

// NewGameState returns the state at the start of a run.
func NewGameState(startLane, lives, maxLives int, oracle bool) GameState {
	return GameState{
		CurrentLane: startLane,
		TargetLane:  NoLane,
		Lives:       lives,
		MaxLives:    maxLives,
		Multiplier:  1,
		Speed:       1,
		Playing:     true,
		OracleMode:  oracle,
	}
}

// Transitioning reports whether a lane change is in flight.
func (s *GameState) Transitioning() bool {
	return s.TargetLane != NoLane
}

// EffectiveLane is the lane the car is committed to: the target during a
// transition, the current lane otherwise.
func (s *GameState) EffectiveLane() int {
	if s.Transitioning() {
		return s.TargetLane
	}
	return s.CurrentLane
}

// Boosted reports whether the magnet boost is active at sim time now.
func (s *GameState) Boosted(now float64) bool {
	return now < s.BoostUntil
}

// LaneOf returns the lane showing option i of the current question.
func (s *GameState) LaneOf(option int) int {
	if option < 0 || option >= NumLanes {
		return NoLane
	}
	return s.Lanes[option]
}

// Validate checks the state invariants.
func (s *GameState) Validate() error {
	switch {
	case s.CurrentLane < 0 || s.CurrentLane >= NumLanes:
		return fmt.Errorf("%w: current lane %d", ErrInvariant, s.CurrentLane)
	case s.TargetLane != NoLane && (s.TargetLane < 0 || s.TargetLane >= NumLanes):
		return fmt.Errorf("%w: target lane %d", ErrInvariant, s.TargetLane)
	case s.Score < 0:
		return fmt.Errorf("%w: negative score %d", ErrInvariant, s.Score)
	case s.Lives < 0 || (s.MaxLives > 0 && s.Lives > s.MaxLives):
		return fmt.Errorf("%w: lives %d out of [0,%d]", ErrInvariant, s.Lives, s.MaxLives)
	case s.Lives == 0 && !s.GameOver:
		return fmt.Errorf("%w: no lives left but game is running", ErrInvariant)
	case s.GameOver && s.Playing:
		return fmt.Errorf("%w: game over while playing", ErrInvariant)
	case s.Multiplier < 1:
		return fmt.Errorf("%w: multiplier %.2f", ErrInvariant, s.Multiplier)
	case s.Speed < 1:
		return fmt.Errorf("%w: speed %.2f", ErrInvariant, s.Speed)
	case s.ConsecutiveCorrect < 0 || s.CoinsCollected < 0:
		return fmt.Errorf("%w: negative counter", ErrInvariant)
	case s.Phase == PhasePending && s.Question == nil:
		return fmt.Errorf("%w: pending phase without a question", ErrInvariant)
	}
	return nil
}

// clone returns a copy that shares nothing mutable with s.
// Questions are immutable once generated and are shared.
func (s GameState) clone() GameState {
	if s.Reveal != nil {
		r := *s.Reveal
		s.Reveal = &r
	}
	return s
}

// StateStore serializes every transform of a GameState.
type StateStore struct {
	mu    sync.Mutex
	state GameState
}

// NewStateStore creates a store holding initial.
func NewStateStore(initial GameState) *StateStore {
	return &StateStore{state: initial}
}

// Update applies fn to the state under the store lock.
// fn must not call back into the store.
func (st *StateStore) Update(fn func(s *GameState)) {
	st.mu.Lock()
	defer st.mu.Unlock()
	fn(&st.state)
}

// Snapshot returns a deep copy of the current state.
func (st *StateStore) Snapshot() GameState {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state.clone()
}

// Replace swaps in a whole new state, used on reset.
func (st *StateStore) Replace(s GameState) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.state = s.clone()
}
