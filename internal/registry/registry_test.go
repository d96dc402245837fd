package registry

import (
	"testing"

	"github.com/vovakirdan/sign-runner/internal/core"
)

type stubGame struct{ id string }

func (g *stubGame) ID() string                           { return g.id }
func (g *stubGame) Title() string                        { return "Stub " + g.id }
func (g *stubGame) Reset(core.RuntimeConfig)             {}
func (g *stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g *stubGame) Render(*core.Screen)                  {}
func (g *stubGame) State() core.GameState                { return core.GameState{} }

func TestRegisterAndCreate(t *testing.T) {
	Register("stub_b", func() Game { return &stubGame{id: "stub_b"} })
	Register("stub_a", func() Game { return &stubGame{id: "stub_a"} })

	if !Exists("stub_a") || Exists("stub_missing") {
		t.Fatal("Exists mismatch")
	}

	g, err := Create("stub_a")
	if err != nil {
		t.Fatal(err)
	}
	if g.ID() != "stub_a" {
		t.Errorf("ID = %q", g.ID())
	}
	if _, err := Create("stub_missing"); err == nil {
		t.Error("expected error for unknown game")
	}

	if got := Title("stub_b"); got != "Stub stub_b" {
		t.Errorf("Title = %q", got)
	}
	if got := Title("stub_missing"); got != "stub_missing" {
		t.Errorf("Title of unknown = %q", got)
	}

	var ids []string
	for _, info := range List() {
		ids = append(ids, info.ID)
	}
	for i := 1; i < len(ids); i++ {
		if ids[i-1] > ids[i] {
			t.Errorf("List not sorted: %v", ids)
		}
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("stub_dup", func() Game { return &stubGame{id: "stub_dup"} })

	defer func() {
		if recover() == nil {
			t.Error("duplicate Register did not panic")
		}
	}()
	Register("stub_dup", func() Game { return &stubGame{id: "stub_dup"} })
}
