package lanerun

// AnswerGroup is the triplet of answer options for one question. The
// options share one travel position and one resolved flag, so at most one
// option of a group ever fires.
type AnswerGroup struct {
	QuestionID int
	Lanes      [NumLanes]int
	Pos        float64
	Active     bool
	Resolved   bool
	options    [NumLanes]AnswerOption
}

// AnswerOption is one sign of an AnswerGroup.
type AnswerOption struct {
	group *AnswerGroup
	Index int // Option index within the question
}

// NewAnswerGroup creates an inactive group.
func NewAnswerGroup() *AnswerGroup {
	g := &AnswerGroup{}
	for i := range g.options {
		g.options[i] = AnswerOption{group: g, Index: i}
	}
	return g
}

func (o *AnswerOption) TravelPos() float64 { return o.group.Pos }
func (o *AnswerOption) LaneIndex() int     { return o.group.Lanes[o.Index] }
func (o *AnswerOption) IsResolved() bool   { return o.group.Resolved }
func (o *AnswerOption) MarkResolved()      { o.group.Resolved = true }

// Spawn puts the options of a new question on the road at pos.
func (g *AnswerGroup) Spawn(questionID int, lanes [NumLanes]int, pos float64) {
	g.QuestionID = questionID
	g.Lanes = lanes
	g.Pos = pos
	g.Active = true
	g.Resolved = false
}

// Clear removes the group from the road.
func (g *AnswerGroup) Clear() {
	g.Active = false
	g.Resolved = false
}

// Advance moves the group and reports whether it passed the threshold.
// A group that passes is cleared.
func (g *AnswerGroup) Advance(move, threshold float64) bool {
	if !g.Active {
		return false
	}
	g.Pos += move
	if g.Pos > threshold {
		g.Active = false
		return true
	}
	return false
}

// Option returns option i.
func (g *AnswerGroup) Option(i int) *AnswerOption {
	return &g.options[i]
}

// OptionInLane returns the option index shown in lane, or -1.
func (g *AnswerGroup) OptionInLane(lane int) int {
	for i, l := range g.Lanes {
		if l == lane {
			return i
		}
	}
	return -1
}
