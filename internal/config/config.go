// Package config provides YAML-based game configuration loading and
// difficulty management for Sign Runner.
package config

import (
	"errors"
	"fmt"
)

// SignRunConfig contains all configuration for the lane-runner quiz.
type SignRunConfig struct {
	Movement   MovementConfig   `yaml:"movement"`
	Lanes      LanesConfig      `yaml:"lanes"`
	Collision  CollisionConfig  `yaml:"collision"`
	Field      FieldConfig      `yaml:"field"`
	Spawns     SpawnsConfig     `yaml:"spawns"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Gameplay   GameplayConfig   `yaml:"gameplay"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// MovementConfig defines how fast entities travel toward the player.
type MovementConfig struct {
	BaseSpeed float64 `yaml:"base_speed"` // Travel units per frame at 60 FPS
}

// LanesConfig defines lane-change behavior.
type LanesConfig struct {
	Start          int     `yaml:"start"`           // Lane the player starts in
	ChangeCooldown float64 `yaml:"change_cooldown"` // Seconds between accepted lane changes
	TransitionTime float64 `yaml:"transition_time"` // Seconds a lane change takes to complete
}

// CollisionConfig defines the collision window around the player.
type CollisionConfig struct {
	HalfWidth float64 `yaml:"half_width"` // Window is [-half_width, +half_width] on the travel axis
	Debounce  float64 `yaml:"debounce"`   // Seconds during which repeat firings are suppressed
}

// FieldConfig defines the play field along the travel axis.
type FieldConfig struct {
	ResetThreshold float64 `yaml:"reset_threshold"` // Entities past this position are recycled
}

// SpawnConfig defines the pool for one entity type.
type SpawnConfig struct {
	Count       int     `yaml:"count"`        // Pool size
	SpawnOffset float64 `yaml:"spawn_offset"` // Initial travel position of the first entity (negative = ahead)
	Spacing     float64 `yaml:"spacing"`      // Minimum gap between consecutive entities
	Jitter      float64 `yaml:"jitter"`       // Random extra gap added on recycle
}

// SpawnsConfig groups the pools of every entity type.
type SpawnsConfig struct {
	Obstacles SpawnConfig `yaml:"obstacles"`
	Coins     SpawnConfig `yaml:"coins"`
	Fuel      SpawnConfig `yaml:"fuel"`
	Magnet    SpawnConfig `yaml:"magnet"`
	Answers   SpawnConfig `yaml:"answers"`
}

// ScoringConfig defines points and streak rewards.
type ScoringConfig struct {
	CorrectPoints int     `yaml:"correct_points"` // Base points for a correct answer
	StreakLength  int     `yaml:"streak_length"`  // Consecutive correct answers per speed tier
	SpeedStep     float64 `yaml:"speed_step"`     // Speed added per tier
	TierBonus     int     `yaml:"tier_bonus"`     // Extra points per tier
	OracleFactor  float64 `yaml:"oracle_factor"`  // Score factor while oracle mode is on
}

// GameplayConfig defines lives, delays and power-up effects.
type GameplayConfig struct {
	Lives             int     `yaml:"lives"`
	MaxLives          int     `yaml:"max_lives"`
	NextQuestionDelay float64 `yaml:"next_question_delay"` // Seconds after a correct answer
	RevealDelay       float64 `yaml:"reveal_delay"`        // Seconds the correct answer is shown after a mistake
	MagnetDuration    float64 `yaml:"magnet_duration"`     // Seconds the magnet score boost lasts
	MagnetFactor      float64 `yaml:"magnet_factor"`       // Score factor while the magnet is active
	LevelGoal         int     `yaml:"level_goal"`          // Correct answers that complete a level
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier  float64 `yaml:"speed_multiplier"`  // Multiplier added to movement at max difficulty
	SpacingReduction float64 `yaml:"spacing_reduction"` // Obstacle spacing reduction at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a CLI string to a preset. Unknown strings yield "".
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Validate checks values the simulation relies on.
func (c SignRunConfig) Validate() error {
	switch {
	case c.Movement.BaseSpeed <= 0:
		return fmt.Errorf("%w: movement.base_speed must be positive", ErrInvalidConfig)
	case c.Lanes.Start < 0 || c.Lanes.Start > 2:
		return fmt.Errorf("%w: lanes.start must be 0, 1 or 2", ErrInvalidConfig)
	case c.Collision.HalfWidth <= 0:
		return fmt.Errorf("%w: collision.half_width must be positive", ErrInvalidConfig)
	case c.Gameplay.Lives <= 0 || c.Gameplay.Lives > c.Gameplay.MaxLives:
		return fmt.Errorf("%w: gameplay.lives must be in [1, max_lives]", ErrInvalidConfig)
	case c.Scoring.StreakLength <= 0:
		return fmt.Errorf("%w: scoring.streak_length must be positive", ErrInvalidConfig)
	}

	pools := map[string]SpawnConfig{
		"obstacles": c.Spawns.Obstacles,
		"coins":     c.Spawns.Coins,
		"fuel":      c.Spawns.Fuel,
		"magnet":    c.Spawns.Magnet,
		"answers":   c.Spawns.Answers,
	}
	for name, p := range pools {
		if p.Count < 0 {
			return fmt.Errorf("%w: spawns.%s.count must not be negative", ErrInvalidConfig, name)
		}
		if p.SpawnOffset >= -c.Collision.HalfWidth {
			return fmt.Errorf("%w: spawns.%s.spawn_offset must be ahead of the collision window", ErrInvalidConfig, name)
		}
	}
	if c.Field.ResetThreshold <= c.Collision.HalfWidth {
		return fmt.Errorf("%w: field.reset_threshold must be behind the collision window", ErrInvalidConfig)
	}
	return nil
}
