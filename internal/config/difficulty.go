package config

import "math"

// minSpacing keeps recycled obstacles at least this far apart.
const minSpacing = 6.0

// DifficultyManager calculates dynamic game parameters based on score/time.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the current difficulty level (0.0 to 1.0) based on score/ticks.
func (d *DifficultyManager) Level(score int, ticks int) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}

	var progress float64
	switch d.cfg.Progression.Type {
	case "score":
		progress = float64(score) / maxAt
	case "time":
		progress = float64(ticks) / maxAt
	default:
		return d.initialLevel
	}

	progress = clampF(progress, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// Multiplier returns the movement multiplier for the current level.
// It ranges from 1 at level 0 to 1 + speed_multiplier at level 1.
func (d *DifficultyManager) Multiplier(score int, ticks int) float64 {
	level := d.Level(score, ticks)
	return 1.0 + level*d.cfg.Scaling.SpeedMultiplier
}

// Spacing returns the obstacle spacing for the current level.
func (d *DifficultyManager) Spacing(baseSpacing float64, score int, ticks int) float64 {
	level := d.Level(score, ticks)
	result := baseSpacing - level*d.cfg.Scaling.SpacingReduction
	if result < minSpacing && baseSpacing >= minSpacing {
		result = minSpacing
	}
	return result
}

func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
