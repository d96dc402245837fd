package questions

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

func threeSignGroups() []SignGroup {
	return []SignGroup{
		{Sign: Sign{ID: "stop", Name: "Stop", Path: "signs/stop.png"}, Questions: []string{"Halt?"}, OracleHelp: "Red octagon."},
		{Sign: Sign{ID: "yield", Name: "Give Way", Path: "signs/give_way.png"}, Questions: []string{"Let pass?"}},
		{Sign: Sign{ID: "no_entry", Name: "No Entry", Path: "signs/no_entry.png"}, Questions: []string{"Forbidden?"}},
	}
}

func TestDefaultPoolLoads(t *testing.T) {
	pool := Default()

	if len(pool.Signs()) < NumOptions {
		t.Fatalf("default pool has %d signs, need at least %d", len(pool.Signs()), NumOptions)
	}
	if pool.QuestionCount() < len(pool.Groups()) {
		t.Errorf("every group should have at least one question")
	}
	for _, g := range pool.Groups() {
		if g.Name == "" || g.Path == "" || g.OracleHelp == "" {
			t.Errorf("group %q is missing name, sign or oracle help", g.ID)
		}
	}
}

func TestNewPoolRejectsTooFewSigns(t *testing.T) {
	groups := threeSignGroups()[:2]
	if _, err := NewPool(groups); !errors.Is(err, ErrTooFewSigns) {
		t.Fatalf("expected ErrTooFewSigns, got %v", err)
	}

	// Two groups sharing one sign count once
	groups = threeSignGroups()
	groups[2].Path = groups[1].Path
	if _, err := NewPool(groups); !errors.Is(err, ErrTooFewSigns) {
		t.Fatalf("expected ErrTooFewSigns for duplicate sign paths, got %v", err)
	}
}

func TestNewPoolRejectsEmptyGroup(t *testing.T) {
	groups := threeSignGroups()
	groups[0].Questions = nil
	if _, err := NewPool(groups); err == nil {
		t.Fatal("expected error for a group without questions")
	}
}

func TestPickerOptionInvariant(t *testing.T) {
	pool := Default()
	picker := NewPicker(pool, 7)

	paths := make(map[string]string)
	for _, g := range pool.Groups() {
		paths[g.ID] = g.Path
	}

	for i := 0; i < 500; i++ {
		q := picker.Next()

		if len(q.Options) != NumOptions {
			t.Fatalf("question %d has %d options", q.ID, len(q.Options))
		}
		if q.CorrectAnswer != 0 {
			t.Fatalf("question %d CorrectAnswer = %d, expected 0", q.ID, q.CorrectAnswer)
		}
		if q.Options[0].Path != paths[q.GroupID] {
			t.Fatalf("question %d: option 0 is %q, expected correct sign %q", q.ID, q.Options[0].Path, paths[q.GroupID])
		}
		seen := make(map[string]bool)
		for _, o := range q.Options {
			if seen[o.Path] {
				t.Fatalf("question %d has duplicate option %q", q.ID, o.Path)
			}
			seen[o.Path] = true
		}
		if q.Hint(0) != "" || q.Hint(1) == "" || q.Hint(2) == "" {
			t.Fatalf("question %d: hints must exist for wrong options only", q.ID)
		}
	}
}

func TestPickerMinimalPoolUsesAllSigns(t *testing.T) {
	pool, err := NewPool(threeSignGroups())
	if err != nil {
		t.Fatalf("NewPool() failed: %v", err)
	}
	picker := NewPicker(pool, 1)

	q := picker.Next()
	if len(q.Options) != 3 {
		t.Fatalf("expected 3 options, got %d", len(q.Options))
	}
	next := picker.Next()
	if next.ID != q.ID+1 {
		t.Errorf("question IDs should increase, got %d then %d", q.ID, next.ID)
	}
}

func TestPickerDeterminism(t *testing.T) {
	a := NewPicker(Default(), 99)
	b := NewPicker(Default(), 99)

	for i := 0; i < 50; i++ {
		qa, qb := a.Next(), b.Next()
		if qa.Text != qb.Text || qa.Options[1] != qb.Options[1] || qa.Options[2] != qb.Options[2] {
			t.Fatalf("same seed produced different questions at %d", i)
		}
	}
}

func TestShuffleLanesIsPermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		lanes := ShuffleLanes(rng)
		seen := [NumOptions]bool{}
		for _, l := range lanes {
			if l < 0 || l >= NumOptions || seen[l] {
				t.Fatalf("ShuffleLanes() = %v is not a permutation", lanes)
			}
			seen[l] = true
		}
	}
}

func TestShuffleLanesUniform(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	const n = 60000
	counts := make(map[[NumOptions]int]int)
	correctLane := [NumOptions]int{}

	for i := 0; i < n; i++ {
		lanes := ShuffleLanes(rng)
		counts[lanes]++
		correctLane[lanes[0]]++
	}

	if len(counts) != 6 {
		t.Fatalf("expected all 6 permutations, got %d", len(counts))
	}
	for perm, c := range counts {
		if c < n/6*9/10 || c > n/6*11/10 {
			t.Errorf("permutation %v seen %d times, expected about %d", perm, c, n/6)
		}
	}
	for lane, c := range correctLane {
		if c < n/3*9/10 || c > n/3*11/10 {
			t.Errorf("correct answer landed in lane %d %d times, expected about %d", lane, c, n/3)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	yamlData := `
groups:
  - id: a
    name: A
    sign: a.png
    questions: ["qa"]
  - id: b
    sign: b.png
    questions: ["qb"]
  - id: c
    sign: c.png
    questions: ["qc"]
`
	path := filepath.Join(t.TempDir(), "signs.yaml")
	if err := os.WriteFile(path, []byte(yamlData), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	pool, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(pool.Groups()) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(pool.Groups()))
	}
	if pool.Groups()[1].Name != "b" {
		t.Errorf("missing name should default to id, got %q", pool.Groups()[1].Name)
	}
}
