// Package session persists finished runs for every platform shell.
package session

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/sign-runner/internal/lanerun"
	"github.com/vovakirdan/sign-runner/internal/registry"
	"github.com/vovakirdan/sign-runner/internal/storage"
)

// Summarizer is implemented by modes that report per-run statistics.
type Summarizer interface {
	Summary() lanerun.RunSummary
}

// Recorder writes finished runs to the score, run and profile tables.
// A nil Recorder or one without a store records nothing.
type Recorder struct {
	store  *storage.Store
	prefs  *storage.Prefs
	logger *log.Logger
}

// NewRecorder creates a recorder backed by store.
func NewRecorder(store *storage.Store, logger *log.Logger) *Recorder {
	if logger == nil {
		logger = log.Default()
	}
	r := &Recorder{store: store, logger: logger}
	if store != nil {
		r.prefs = store.Prefs(logger)
	}
	return r
}

// Prefs returns the profile store, or nil without a database.
func (r *Recorder) Prefs() *storage.Prefs {
	if r == nil {
		return nil
	}
	return r.prefs
}

// Record persists the current run of game and returns the stored run ID.
// Modes without a summary only get a score entry.
func (r *Recorder) Record(game registry.Game) (string, error) {
	if r == nil || r.store == nil {
		return "", nil
	}

	state := game.State()
	if state.Score > 0 {
		if _, err := r.store.SaveScore(game.ID(), state.Score); err != nil {
			return "", err
		}
	}

	s, ok := game.(Summarizer)
	if !ok {
		return "", nil
	}
	sum := s.Summary()

	id, err := r.store.SaveRun(RunFromSummary(sum))
	if err != nil {
		return "", err
	}

	balance := r.prefs.AddCoins(sum.Coins)
	if sum.LevelComplete {
		r.prefs.MarkLevelComplete(sum.Level)
	}

	r.logger.Info("run recorded",
		"id", id,
		"game", sum.GameID,
		"score", sum.Score,
		"coins", sum.Coins,
		"balance", balance,
		"level_complete", sum.LevelComplete,
	)
	return id, nil
}

// RunFromSummary converts a run summary to its stored form.
func RunFromSummary(sum lanerun.RunSummary) storage.RunRecord {
	return storage.RunRecord{
		GameID:       sum.GameID,
		Score:        sum.Score,
		Correct:      sum.Correct,
		Incorrect:    sum.Incorrect,
		Coins:        sum.Coins,
		ObstacleHits: sum.ObstacleHits,
		Duration:     sum.Seconds,
		Oracle:       sum.Oracle,
		Level:        sum.Level,
	}
}
