package config

import (
	_ "embed"
)

//go:embed defaults/signrun.yaml
var defaultSignRunYAML []byte

// DefaultSignRunConfig returns the default Sign Runner configuration.
// It mirrors defaults/signrun.yaml and is used if the embedded file cannot be parsed.
func DefaultSignRunConfig() SignRunConfig {
	return SignRunConfig{
		Movement: MovementConfig{
			BaseSpeed: 0.15,
		},
		Lanes: LanesConfig{
			Start:          1,
			ChangeCooldown: 0.2,
			TransitionTime: 0.12,
		},
		Collision: CollisionConfig{
			HalfWidth: 2,
			Debounce:  0.5,
		},
		Field: FieldConfig{
			ResetThreshold: 10,
		},
		Spawns: SpawnsConfig{
			Obstacles: SpawnConfig{Count: 3, SpawnOffset: -45, Spacing: 18, Jitter: 6},
			Coins:     SpawnConfig{Count: 5, SpawnOffset: -25, Spacing: 7, Jitter: 3},
			Fuel:      SpawnConfig{Count: 1, SpawnOffset: -150, Jitter: 40},
			Magnet:    SpawnConfig{Count: 1, SpawnOffset: -220, Jitter: 60},
			Answers:   SpawnConfig{Count: 1, SpawnOffset: -60},
		},
		Scoring: ScoringConfig{
			CorrectPoints: 100,
			StreakLength:  3,
			SpeedStep:     0.5,
			TierBonus:     10,
			OracleFactor:  0.5,
		},
		Gameplay: GameplayConfig{
			Lives:             3,
			MaxLives:          3,
			NextQuestionDelay: 0.2,
			RevealDelay:       3.0,
			MagnetDuration:    10,
			MagnetFactor:      2,
			LevelGoal:         10,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 3000,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier:  0.5,
				SpacingReduction: 6,
			},
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultSignRunYAML
}
