package lanerun

// FrameRateNormalizer is the frame rate base speeds are tuned for.
const FrameRateNormalizer = 60.0

// MoveAmount returns how far the world travels during dt seconds.
// It is linear in dt, so the distance covered per second does not depend
// on the tick rate.
func MoveAmount(s *GameState, dt, baseSpeed float64) float64 {
	return baseSpeed * s.Speed * s.Multiplier * dt * FrameRateNormalizer
}
