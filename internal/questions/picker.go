package questions

import (
	"fmt"
	"math/rand"
)

// Picker draws random questions from a pool.
type Picker struct {
	pool   *Pool
	rng    *rand.Rand
	nextID int
}

// NewPicker creates a picker with a deterministic RNG.
func NewPicker(pool *Pool, seed int64) *Picker {
	return &Picker{
		pool:   pool,
		rng:    rand.New(rand.NewSource(seed)),
		nextID: 1,
	}
}

// Next builds a new question: a random group, a random text from it, the
// correct sign first, then two distinct alternatives from the rest of the pool.
func (p *Picker) Next() *Question {
	g := p.pool.groups[p.rng.Intn(len(p.pool.groups))]
	text := g.Questions[p.rng.Intn(len(g.Questions))]

	alternatives := make([]Sign, 0, len(p.pool.signs)-1)
	for _, s := range p.pool.signs {
		if s.Path != g.Path {
			alternatives = append(alternatives, s)
		}
	}

	// Partial Fisher-Yates: the last NumOptions-1 slots become the picks.
	options := make([]Sign, 0, NumOptions)
	options = append(options, g.Sign)
	for i := len(alternatives) - 1; i >= len(alternatives)-(NumOptions-1); i-- {
		j := p.rng.Intn(i + 1)
		alternatives[i], alternatives[j] = alternatives[j], alternatives[i]
		options = append(options, alternatives[i])
	}

	help := make(map[int]string, NumOptions-1)
	for i := 1; i < NumOptions; i++ {
		help[i] = fmt.Sprintf("That was the %s sign. %s", options[i].Name, g.OracleHelp)
	}

	q := &Question{
		ID:            p.nextID,
		GroupID:       g.ID,
		Text:          text,
		Options:       options,
		CorrectAnswer: 0,
		OracleHelp:    help,
	}
	p.nextID++
	return q
}

// Rand exposes the picker's RNG so lane shuffles share its seed.
func (p *Picker) Rand() *rand.Rand {
	return p.rng
}

// ShuffleLanes returns a uniform random assignment of option index to lane.
// lanes[i] is the lane option i is shown in.
func ShuffleLanes(rng *rand.Rand) [NumOptions]int {
	lanes := [NumOptions]int{0, 1, 2}
	for i := NumOptions - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		lanes[i], lanes[j] = lanes[j], lanes[i]
	}
	return lanes
}
