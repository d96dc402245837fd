package lanerun

import (
	"github.com/vovakirdan/sign-runner/internal/config"
	"github.com/vovakirdan/sign-runner/internal/core"
)

// Controller turns lane actions into timed lane changes.
type Controller struct {
	cfg           config.LanesConfig
	lastChange    float64
	changed       bool
	transitionEnd float64
}

// NewController creates a controller.
func NewController(cfg config.LanesConfig) *Controller {
	return &Controller{cfg: cfg}
}

// Reset clears cooldown and transition timing.
func (c *Controller) Reset() {
	c.lastChange = 0
	c.changed = false
	c.transitionEnd = 0
}

// Apply handles the lane actions of one input frame.
func (c *Controller) Apply(in core.InputFrame, now float64, s *GameState) {
	switch {
	case in.Has(core.ActionLaneLeft) && !in.Has(core.ActionLaneRight):
		c.RequestLane(s.CurrentLane-1, now, s)
	case in.Has(core.ActionLaneRight) && !in.Has(core.ActionLaneLeft):
		c.RequestLane(s.CurrentLane+1, now, s)
	}
}

// RequestLane starts a change to target. Requests out of range, during a
// transition, within the cooldown or while the run is not live are ignored.
func (c *Controller) RequestLane(target int, now float64, s *GameState) bool {
	if s.GameOver || s.Paused || !s.Playing {
		return false
	}
	if target < 0 || target >= NumLanes || target == s.CurrentLane {
		return false
	}
	if s.Transitioning() {
		return false
	}
	if c.changed && now-c.lastChange < c.cfg.ChangeCooldown {
		return false
	}

	c.changed = true
	c.lastChange = now
	s.TargetLane = target
	c.transitionEnd = now + c.cfg.TransitionTime
	if c.cfg.TransitionTime <= 0 {
		c.Advance(now, s)
	}
	return true
}

// Advance completes a transition once its time has elapsed.
func (c *Controller) Advance(now float64, s *GameState) {
	if s.Transitioning() && now >= c.transitionEnd {
		s.CurrentLane = s.TargetLane
		s.TargetLane = NoLane
	}
}
