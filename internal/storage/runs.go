package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunRecord is the summary of one finished run.
type RunRecord struct {
	ID           string    `json:"id"`
	GameID       string    `json:"game_id"`
	Score        int       `json:"score"`
	Correct      int       `json:"correct"`
	Incorrect    int       `json:"incorrect"`
	Coins        int       `json:"coins"`
	ObstacleHits int       `json:"obstacle_hits"`
	Duration     float64   `json:"duration_secs"`
	Oracle       bool      `json:"oracle"`
	Level        string    `json:"level"`
	CreatedAt    time.Time `json:"created_at"`
}

// Accuracy returns the share of correct answers, or 0 with none given.
func (r RunRecord) Accuracy() float64 {
	total := r.Correct + r.Incorrect
	if total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(total)
}

// SaveRun stores a run and returns its generated ID.
func (s *Store) SaveRun(run RunRecord) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	_, err := s.db.Exec(
		`INSERT INTO runs
		 (id, game_id, score, correct, incorrect, coins, obstacle_hits, duration_secs, oracle, level)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.GameID,
		run.Score,
		run.Correct,
		run.Incorrect,
		run.Coins,
		run.ObstacleHits,
		run.Duration,
		boolInt(run.Oracle),
		run.Level,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save run: %w", err)
	}
	return run.ID, nil
}

const runColumns = `id, game_id, score, correct, incorrect, coins, obstacle_hits, duration_secs, oracle, level, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (RunRecord, error) {
	var r RunRecord
	var createdAt any
	err := row.Scan(
		&r.ID,
		&r.GameID,
		&r.Score,
		&r.Correct,
		&r.Incorrect,
		&r.Coins,
		&r.ObstacleHits,
		&r.Duration,
		&r.Oracle,
		&r.Level,
		&createdAt,
	)
	r.CreatedAt = parseTime(createdAt)
	return r, err
}

// RunByID returns a run, or nil when it does not exist.
func (s *Store) RunByID(id string) (*RunRecord, error) {
	r, err := scanRun(s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	return &r, nil
}

// RecentRuns returns the latest runs of a game, newest first. An empty
// gameID returns runs of every mode.
func (s *Store) RecentRuns(gameID string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + runColumns + ` FROM runs`
	args := []any{}
	if gameID != "" {
		query += ` WHERE game_id = ?`
		args = append(args, gameID)
	}
	query += ` ORDER BY created_at DESC, rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// TopRuns returns the best runs of a game by score, newest first on ties.
func (s *Store) TopRuns(gameID string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+` FROM runs
		 WHERE game_id = ?
		 ORDER BY score DESC, created_at DESC, rowid DESC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}
