package lanerun

import (
	"fmt"
	"math"

	"github.com/vovakirdan/sign-runner/internal/config"
	"github.com/vovakirdan/sign-runner/internal/questions"
)

// Outcome is the result of resolving an answer.
type Outcome int

const (
	OutcomeIgnored Outcome = iota // No question pending or run over
	OutcomeCorrect
	OutcomeIncorrect
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCorrect:
		return "correct"
	case OutcomeIncorrect:
		return "incorrect"
	default:
		return "ignored"
	}
}

// PowerupHooks is the policy applied when a power-up is collected or
// passes the car unclaimed. Hooks run outside the store lock.
type PowerupHooks struct {
	OnCollect func(now float64)
	OnMiss    func(now float64)
}

// Resolver applies the game rules for every entity outcome.
type Resolver struct {
	store   *StateStore
	sched   *Scheduler
	picker  *questions.Picker
	scoring config.ScoringConfig
	play    config.GameplayConfig
	audio   AudioSink
	hooks   map[Kind]PowerupHooks

	// OnQuestion is called after a new question becomes pending.
	OnQuestion func(q *questions.Question, lanes [NumLanes]int)
}

// NewResolver creates a resolver.
func NewResolver(store *StateStore, sched *Scheduler, picker *questions.Picker, cfg config.SignRunConfig, audio AudioSink) *Resolver {
	if audio == nil {
		audio = NopSink{}
	}
	return &Resolver{
		store:   store,
		sched:   sched,
		picker:  picker,
		scoring: cfg.Scoring,
		play:    cfg.Gameplay,
		audio:   audio,
		hooks:   make(map[Kind]PowerupHooks),
	}
}

// SetHooks installs the power-up policy for kind.
func (r *Resolver) SetHooks(kind Kind, h PowerupHooks) {
	r.hooks[kind] = h
}

// SetAudio replaces the feedback sink.
func (r *Resolver) SetAudio(audio AudioSink) {
	if audio == nil {
		audio = NopSink{}
	}
	r.audio = audio
}

// NextQuestion selects a question and makes it pending.
func (r *Resolver) NextQuestion(now float64) bool {
	if snap := r.store.Snapshot(); snap.GameOver {
		return false
	}

	q := r.picker.Next()
	lanes := questions.ShuffleLanes(r.picker.Rand())

	applied := false
	r.store.Update(func(s *GameState) {
		if s.GameOver {
			return
		}
		s.Question = q
		s.Lanes = lanes
		s.Phase = PhasePending
		s.Reveal = nil
		applied = true
	})
	if applied && r.OnQuestion != nil {
		r.OnQuestion(q, lanes)
	}
	return applied
}

// Answer resolves the pending question with the option the car drove into.
func (r *Resolver) Answer(option int, now float64) Outcome {
	return r.resolve(option, now)
}

// MissAnswer resolves a pending question whose options passed the car
// without being picked. It counts as a wrong answer.
func (r *Resolver) MissAnswer(now float64) Outcome {
	return r.resolve(NoLane, now)
}

func (r *Resolver) resolve(option int, now float64) Outcome {
	outcome := OutcomeIgnored
	var qid int

	r.store.Update(func(s *GameState) {
		if s.GameOver || s.Phase != PhasePending || s.Question == nil {
			return
		}
		qid = s.Question.ID
		if option != NoLane && s.Question.IsCorrect(option) {
			r.applyCorrect(s, option, now)
			outcome = OutcomeCorrect
		} else {
			r.applyIncorrect(s, option, now)
			outcome = OutcomeIncorrect
		}
	})

	switch outcome {
	case OutcomeCorrect:
		r.audio.PlayCorrect()
		r.scheduleNext(now, r.play.NextQuestionDelay, qid)
	case OutcomeIncorrect:
		r.audio.PlayIncorrect()
		r.scheduleNext(now, r.play.RevealDelay, qid)
	}
	return outcome
}

func (r *Resolver) scheduleNext(now, delay float64, qid int) {
	r.sched.After(now, delay, fmt.Sprintf("next-question after %d", qid), awaitingNext(qid), func(at float64) {
		r.NextQuestion(at)
	})
}

// awaitingNext holds while the run is live and still shows question qid.
func awaitingNext(qid int) Precondition {
	return func(s *GameState) bool {
		return !s.GameOver && !s.Paused && s.Phase == PhaseResolved &&
			s.Question != nil && s.Question.ID == qid
	}
}

func (r *Resolver) applyCorrect(s *GameState, option int, now float64) {
	s.ConsecutiveCorrect++
	s.Correct++
	s.Combo++

	streak := r.scoring.StreakLength
	if streak <= 0 {
		streak = 1
	}
	tier := s.ConsecutiveCorrect / streak
	if s.ConsecutiveCorrect%streak == 0 {
		s.Speed = 1 + float64(tier)*r.scoring.SpeedStep
	}

	points := float64(r.scoring.CorrectPoints+tier*r.scoring.TierBonus) * r.factor(s, now)
	s.Score += int(math.Round(points))

	s.Phase = PhaseResolved
	s.Reveal = &Reveal{
		QuestionID:  s.Question.ID,
		Correct:     true,
		CorrectLane: s.LaneOf(s.Question.CorrectAnswer),
		ChosenLane:  s.LaneOf(option),
		Until:       now + r.play.NextQuestionDelay,
	}
}

func (r *Resolver) applyIncorrect(s *GameState, option int, now float64) {
	s.Incorrect++
	s.ConsecutiveCorrect = 0
	s.Speed = 1
	if s.OracleMode {
		s.Combo = 0
	} else {
		loseLife(s)
	}

	q := s.Question
	reveal := &Reveal{
		QuestionID:  q.ID,
		CorrectLane: s.LaneOf(q.CorrectAnswer),
		ChosenLane:  s.LaneOf(option),
		Until:       now + r.play.RevealDelay,
	}
	if s.OracleMode {
		reveal.Hint = q.Hint(option)
		if reveal.Hint == "" {
			reveal.Hint = fmt.Sprintf("The answer was the %s sign.", q.Options[q.CorrectAnswer].Name)
		}
	}
	s.Phase = PhaseResolved
	s.Reveal = reveal
}

// factor is the score factor for an answer resolved at now.
func (r *Resolver) factor(s *GameState, now float64) float64 {
	f := 1.0
	if s.OracleMode {
		f *= r.scoring.OracleFactor
	}
	if s.Boosted(now) {
		f *= r.play.MagnetFactor
	}
	return f
}

// ObstacleHit costs a life.
func (r *Resolver) ObstacleHit() {
	hit := false
	r.store.Update(func(s *GameState) {
		if s.GameOver {
			return
		}
		s.ObstacleHits++
		loseLife(s)
		hit = true
	})
	if hit {
		r.audio.PlayObstacleHit()
	}
}

// CollectCoin counts a coin. Coins do not score.
func (r *Resolver) CollectCoin() {
	collected := false
	r.store.Update(func(s *GameState) {
		if s.GameOver {
			return
		}
		s.CoinsCollected++
		s.Combo++
		collected = true
	})
	if collected {
		r.audio.PlayCoinCollect()
	}
}

// Powerup runs the hook for a collected or missed power-up.
func (r *Resolver) Powerup(kind Kind, collected bool, now float64) {
	if snap := r.store.Snapshot(); snap.GameOver {
		return
	}
	h := r.hooks[kind]
	if collected && h.OnCollect != nil {
		h.OnCollect(now)
	}
	if !collected && h.OnMiss != nil {
		h.OnMiss(now)
	}
	r.audio.PlayPowerup(kind, collected)
}

// loseLife removes a life and ends the run in the same transform when none
// are left.
func loseLife(s *GameState) {
	s.Combo = 0
	if s.Lives > 0 {
		s.Lives--
	}
	if s.Lives == 0 {
		s.GameOver = true
		s.Playing = false
		s.Paused = false
	}
}
