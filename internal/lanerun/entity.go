package lanerun

import (
	"math/rand"

	"github.com/vovakirdan/sign-runner/internal/config"
)

// minRecycleGap keeps a recycled entity strictly behind its spawn offset.
const minRecycleGap = 1.0

// Kind identifies what an entity does when the player meets it.
type Kind int

const (
	KindObstacle Kind = iota
	KindCoin
	KindFuel
	KindMagnet
	KindAnswer
)

func (k Kind) String() string {
	switch k {
	case KindObstacle:
		return "obstacle"
	case KindCoin:
		return "coin"
	case KindFuel:
		return "fuel"
	case KindMagnet:
		return "magnet"
	case KindAnswer:
		return "answer"
	default:
		return "unknown"
	}
}

// IsPowerup reports whether the kind goes through the power-up hooks.
func (k Kind) IsPowerup() bool {
	return k == KindFuel || k == KindMagnet
}

// Entity is a road object moving along the travel axis.
// Pos grows toward the player, who sits at 0.
type Entity struct {
	Kind     Kind
	Lane     int
	Pos      float64
	Resolved bool
}

func (e *Entity) TravelPos() float64 { return e.Pos }
func (e *Entity) LaneIndex() int     { return e.Lane }
func (e *Entity) IsResolved() bool   { return e.Resolved }
func (e *Entity) MarkResolved()      { e.Resolved = true }

// Pool is a fixed set of recycled entities of one kind.
type Pool struct {
	kind      Kind
	cfg       config.SpawnConfig
	spacing   float64
	threshold float64
	rng       *rand.Rand
	entities  []Entity
}

// NewPool creates a pool and places its entities.
func NewPool(kind Kind, cfg config.SpawnConfig, threshold float64, seed int64, playerLane int) *Pool {
	p := &Pool{
		kind:      kind,
		cfg:       cfg,
		spacing:   cfg.Spacing,
		threshold: threshold,
		rng:       rand.New(rand.NewSource(seed)),
	}
	p.Reset(playerLane)
	return p
}

// Reset places entity i at SpawnOffset - i*Spacing with a fresh lane.
func (p *Pool) Reset(playerLane int) {
	p.spacing = p.cfg.Spacing
	p.entities = make([]Entity, p.cfg.Count)
	for i := range p.entities {
		p.entities[i] = Entity{
			Kind: p.kind,
			Lane: p.randomLane(playerLane),
			Pos:  p.cfg.SpawnOffset - float64(i)*p.cfg.Spacing,
		}
	}
}

// Kind returns the kind of entity held by the pool.
func (p *Pool) Kind() Kind {
	return p.kind
}

// SetSpacing overrides the recycle spacing, used by difficulty scaling.
func (p *Pool) SetSpacing(spacing float64) {
	p.spacing = spacing
}

// Len returns the pool size.
func (p *Pool) Len() int {
	return len(p.entities)
}

// At returns a pointer to entity i for detectors to resolve in place.
func (p *Pool) At(i int) *Entity {
	return &p.entities[i]
}

// Entities returns a copy of the pool for readers.
func (p *Pool) Entities() []Entity {
	out := make([]Entity, len(p.entities))
	copy(out, p.entities)
	return out
}

// Advance moves every entity by move and recycles the ones past the reset
// threshold. The returned slice holds the exited entities as they were
// before recycling.
func (p *Pool) Advance(move float64, playerLane int) []Entity {
	var exited []Entity
	for i := range p.entities {
		p.entities[i].Pos += move
	}
	for i := range p.entities {
		if p.entities[i].Pos > p.threshold {
			exited = append(exited, p.entities[i])
			p.recycle(i, playerLane)
		}
	}
	return exited
}

// recycle moves entity i behind the furthest entity still on the road.
func (p *Pool) recycle(i int, playerLane int) {
	furthest := p.cfg.SpawnOffset
	for j := range p.entities {
		if j != i && p.entities[j].Pos < furthest {
			furthest = p.entities[j].Pos
		}
	}

	gap := p.spacing + p.rng.Float64()*p.cfg.Jitter
	if gap < minRecycleGap {
		gap = minRecycleGap
	}

	e := &p.entities[i]
	e.Pos = furthest - gap
	e.Lane = p.randomLane(playerLane)
	e.Resolved = false
}

// randomLane picks a lane, never the player's for obstacles.
func (p *Pool) randomLane(playerLane int) int {
	if p.kind != KindObstacle || playerLane < 0 || playerLane >= NumLanes {
		return p.rng.Intn(NumLanes)
	}
	lane := p.rng.Intn(NumLanes - 1)
	if lane >= playerLane {
		lane++
	}
	return lane
}
