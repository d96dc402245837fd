package lanerun

import "github.com/charmbracelet/log"

// AudioSink receives semantic feedback events. Implementations decide how
// to present them; the core never waits on a sink.
type AudioSink interface {
	PlayCorrect()
	PlayIncorrect()
	PlayCoinCollect()
	PlayObstacleHit()
	PlayPowerup(kind Kind, collected bool)
}

// NopSink drops every event.
type NopSink struct{}

func (NopSink) PlayCorrect()           {}
func (NopSink) PlayIncorrect()         {}
func (NopSink) PlayCoinCollect()       {}
func (NopSink) PlayObstacleHit()       {}
func (NopSink) PlayPowerup(Kind, bool) {}

// LogSink writes events to a logger at debug level.
type LogSink struct {
	Logger *log.Logger
}

func (l LogSink) PlayCorrect()     { l.Logger.Debug("feedback", "event", "correct") }
func (l LogSink) PlayIncorrect()   { l.Logger.Debug("feedback", "event", "incorrect") }
func (l LogSink) PlayCoinCollect() { l.Logger.Debug("feedback", "event", "coin") }
func (l LogSink) PlayObstacleHit() { l.Logger.Debug("feedback", "event", "obstacle") }

func (l LogSink) PlayPowerup(kind Kind, collected bool) {
	l.Logger.Debug("feedback", "event", "powerup", "kind", kind, "collected", collected)
}

// MultiSink fans events out to several sinks.
type MultiSink []AudioSink

func (m MultiSink) PlayCorrect() {
	for _, s := range m {
		s.PlayCorrect()
	}
}

func (m MultiSink) PlayIncorrect() {
	for _, s := range m {
		s.PlayIncorrect()
	}
}

func (m MultiSink) PlayCoinCollect() {
	for _, s := range m {
		s.PlayCoinCollect()
	}
}

func (m MultiSink) PlayObstacleHit() {
	for _, s := range m {
		s.PlayObstacleHit()
	}
}

func (m MultiSink) PlayPowerup(kind Kind, collected bool) {
	for _, s := range m {
		s.PlayPowerup(kind, collected)
	}
}
