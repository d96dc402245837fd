package config

import (
	"math"
	"testing"
)

func testDifficulty() DifficultyConfig {
	return DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0.0,
		Progression:  ProgressionConfig{Type: "score", MaxAt: 1000},
		Scaling:      ScalingConfig{SpeedMultiplier: 0.5, SpacingReduction: 6},
	}
}

func TestDifficultyLevelProgression(t *testing.T) {
	d := NewDifficultyManager(testDifficulty())

	tests := []struct {
		score    int
		expected float64
	}{
		{0, 0.0},
		{500, 0.5},
		{1000, 1.0},
		{5000, 1.0}, // clamped
	}
	for _, tc := range tests {
		if got := d.Level(tc.score, 0); math.Abs(got-tc.expected) > 1e-9 {
			t.Errorf("Level(%d) = %f, expected %f", tc.score, got, tc.expected)
		}
	}
}

func TestDifficultyMultiplierRange(t *testing.T) {
	d := NewDifficultyManager(testDifficulty())

	if got := d.Multiplier(0, 0); got != 1.0 {
		t.Errorf("Multiplier at level 0 = %f, expected 1.0", got)
	}
	if got := d.Multiplier(1000, 0); got != 1.5 {
		t.Errorf("Multiplier at level 1 = %f, expected 1.5", got)
	}
}

func TestDifficultyDisabledUsesInitialLevel(t *testing.T) {
	cfg := testDifficulty()
	cfg.Enabled = false
	cfg.InitialLevel = 0.7
	d := NewDifficultyManager(cfg)

	if d.IsEnabled() {
		t.Error("Disabled config should report IsEnabled() == false")
	}
	if got := d.Level(100000, 100000); got != 0.7 {
		t.Errorf("Disabled Level() = %f, expected initial level 0.7", got)
	}
}

func TestDifficultyTimeProgression(t *testing.T) {
	cfg := testDifficulty()
	cfg.Progression = ProgressionConfig{Type: "time", MaxAt: 600}
	d := NewDifficultyManager(cfg)

	if got := d.Level(0, 300); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Level after 300 ticks = %f, expected 0.5", got)
	}
}

func TestDifficultySpacingFloor(t *testing.T) {
	d := NewDifficultyManager(testDifficulty())

	if got := d.Spacing(18, 1000, 0); got != 12 {
		t.Errorf("Spacing at max level = %f, expected 12", got)
	}
	if got := d.Spacing(8, 1000, 0); got != minSpacing {
		t.Errorf("Spacing should not drop below %f, got %f", minSpacing, got)
	}
}
