package lanerun

// Zone is anything the player can meet on the road.
type Zone interface {
	TravelPos() float64
	LaneIndex() int
	IsResolved() bool
	MarkResolved()
}

// Window is the travel-axis range in which an entity is level with the car.
type Window struct {
	Min, Max float64
}

// SymmetricWindow returns [-half, half].
func SymmetricWindow(half float64) Window {
	return Window{Min: -half, Max: half}
}

// Contains reports whether pos lies inside the window.
func (w Window) Contains(pos float64) bool {
	return pos >= w.Min && pos <= w.Max
}

// Width returns the window length on the travel axis.
func (w Window) Width() float64 {
	return w.Max - w.Min
}

// LanePredicate decides whether an entity lane matches the player.
type LanePredicate func(lane int, s *GameState) bool

// ExactLane matches the car's current lane only.
func ExactLane(lane int, s *GameState) bool {
	return lane == s.CurrentLane
}

// CommittedLane matches the lane the car is moving into.
func CommittedLane(lane int, s *GameState) bool {
	return lane == s.EffectiveLane()
}

// Verdict is the result of one detector check.
type Verdict int

const (
	VerdictOutside Verdict = iota
	VerdictAlreadyResolved
	VerdictDeferred
	VerdictNoMatch
	VerdictDebounced
	VerdictFired
)

func (v Verdict) String() string {
	switch v {
	case VerdictOutside:
		return "outside"
	case VerdictAlreadyResolved:
		return "resolved"
	case VerdictDeferred:
		return "deferred"
	case VerdictNoMatch:
		return "no-match"
	case VerdictDebounced:
		return "debounced"
	case VerdictFired:
		return "fired"
	default:
		return "unknown"
	}
}

// ZoneDetector fires once when an entity of type T is level with the car
// in a matching lane.
type ZoneDetector[T Zone] struct {
	Window   Window
	Debounce float64 // Minimum sim seconds between two firings
	Match    LanePredicate
	// DeferInTransition holds the check while a lane change is in flight.
	DeferInTransition bool

	lastFire float64
	fired    bool
}

// NewZoneDetector creates a detector.
func NewZoneDetector[T Zone](w Window, debounce float64, match LanePredicate) *ZoneDetector[T] {
	return &ZoneDetector[T]{Window: w, Debounce: debounce, Match: match}
}

// Reset forgets the debounce history.
func (d *ZoneDetector[T]) Reset() {
	d.fired = false
	d.lastFire = 0
}

// Check tests e against the car at sim time now. On VerdictFired the entity
// has been marked resolved.
func (d *ZoneDetector[T]) Check(now float64, e T, s *GameState) Verdict {
	if e.IsResolved() {
		return VerdictAlreadyResolved
	}
	if !d.Window.Contains(e.TravelPos()) {
		return VerdictOutside
	}
	if d.DeferInTransition && s.Transitioning() {
		return VerdictDeferred
	}
	if d.Match != nil && !d.Match(e.LaneIndex(), s) {
		return VerdictNoMatch
	}
	if d.fired && now-d.lastFire < d.Debounce {
		return VerdictDebounced
	}
	e.MarkResolved()
	d.fired = true
	d.lastFire = now
	return VerdictFired
}
