// Package questions provides the road-sign question pool and the
// multiple-choice question generator used by Sign Runner.
package questions

import (
	"errors"
	"fmt"
)

// NumOptions is the number of answer options per question, one per lane.
const NumOptions = 3

// ErrTooFewSigns is returned when a pool cannot supply distinct options.
var ErrTooFewSigns = errors.New("questions: pool needs at least 3 distinct signs")

// Sign is a single road sign image reference.
type Sign struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
	Path string `yaml:"sign" json:"sign"`
}

// SignGroup is one sign with the questions it answers.
type SignGroup struct {
	Sign       `yaml:",inline"`
	Questions  []string `yaml:"questions" json:"questions"`
	OracleHelp string   `yaml:"oracle_help" json:"oracle_help"`
}

// Question is a generated multiple-choice prompt.
// Options[CorrectAnswer] is the right sign; CorrectAnswer is always 0 and
// refers to array position, not to the lane the option is shown in.
type Question struct {
	ID            int
	GroupID       string
	Text          string
	Options       []Sign
	CorrectAnswer int
	OracleHelp    map[int]string // Hint keyed by wrong option index
}

// IsCorrect reports whether the option index answers the question.
func (q *Question) IsCorrect(option int) bool {
	return option == q.CorrectAnswer
}

// Hint returns the oracle hint for a wrong option, or "" for the correct one.
func (q *Question) Hint(option int) string {
	return q.OracleHelp[option]
}

// Pool is the read-only set of sign groups for a session.
type Pool struct {
	groups []SignGroup
	signs  []Sign // Distinct signs by path, in load order
}

// NewPool validates the groups and builds a pool.
func NewPool(groups []SignGroup) (*Pool, error) {
	p := &Pool{groups: make([]SignGroup, 0, len(groups))}
	seen := make(map[string]bool)

	for i, g := range groups {
		if g.Path == "" {
			return nil, fmt.Errorf("questions: group %d (%q) has no sign", i, g.ID)
		}
		if len(g.Questions) == 0 {
			return nil, fmt.Errorf("questions: group %q has no questions", g.ID)
		}
		if g.Name == "" {
			g.Name = g.ID
		}
		p.groups = append(p.groups, g)
		if !seen[g.Path] {
			seen[g.Path] = true
			p.signs = append(p.signs, g.Sign)
		}
	}

	if len(p.signs) < NumOptions {
		return nil, ErrTooFewSigns
	}
	return p, nil
}

// Groups returns the sign groups in load order.
func (p *Pool) Groups() []SignGroup {
	return p.groups
}

// Signs returns the distinct signs in load order.
func (p *Pool) Signs() []Sign {
	return p.signs
}

// QuestionCount returns the total number of question texts.
func (p *Pool) QuestionCount() int {
	n := 0
	for _, g := range p.groups {
		n += len(g.Questions)
	}
	return n
}
