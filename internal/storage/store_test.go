package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/google/uuid"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenCreatesFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.SaveScore("signrun", 420); err != nil {
		t.Fatal(err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	if high, _ := store.HighScore("signrun"); high != 420 {
		t.Errorf("HighScore() after reopen = %d, want 420", high)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"/tmp/x.db", "/tmp/x.db"},
		{"~/.signrun/scores.db", filepath.Join(home, ".signrun/scores.db")},
	}
	for _, tt := range tests {
		got, err := ExpandPath(tt.in)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScoresTopAndHigh(t *testing.T) {
	store := openTestStore(t)

	for _, s := range []int{100, 50, 310} {
		if _, err := store.SaveScore("signrun", s); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}
	if _, err := store.SaveScore("signrun_oracle", 900); err != nil {
		t.Fatal(err)
	}

	scores, err := store.TopScores("signrun", 2)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 2 || scores[0].Score != 310 || scores[1].Score != 100 {
		t.Errorf("TopScores() = %+v", scores)
	}

	all, err := store.TopScores("signrun", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("TopScores(limit 0) returned %d scores, want 3", len(all))
	}

	high, err := store.HighScore("signrun")
	if err != nil {
		t.Fatal(err)
	}
	if high != 310 {
		t.Errorf("HighScore() = %d, want 310", high)
	}

	if high, _ := store.HighScore("unplayed"); high != 0 {
		t.Errorf("HighScore() for unplayed game = %d, want 0", high)
	}
}

func TestClearScores(t *testing.T) {
	store := openTestStore(t)
	store.SaveScore("signrun", 100)
	store.SaveScore("signrun_oracle", 200)

	if err := store.ClearScores("signrun"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	if scores, _ := store.TopScores("signrun", 10); len(scores) != 0 {
		t.Errorf("expected no scores after clear, got %d", len(scores))
	}
	if scores, _ := store.TopScores("signrun_oracle", 10); len(scores) != 1 {
		t.Error("clear removed scores of another mode")
	}
}

func TestGameStats(t *testing.T) {
	store := openTestStore(t)
	for _, s := range []int{100, 200, 300} {
		store.SaveScore("signrun", s)
	}

	stats, err := store.GameStats("signrun")
	if err != nil {
		t.Fatalf("GameStats() failed: %v", err)
	}
	if stats.GamesCount != 3 || stats.HighScore != 300 || stats.AvgScore != 200 || stats.TotalScore != 600 {
		t.Errorf("GameStats() = %+v", stats)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed not set")
	}

	empty, err := store.GameStats("unplayed")
	if err != nil {
		t.Fatal(err)
	}
	if empty.GamesCount != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("stats for unplayed game = %+v", empty)
	}
}

func TestRuns(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveRun(RunRecord{
		GameID:       "signrun_oracle",
		Score:        310,
		Correct:      3,
		Incorrect:    1,
		Coins:        7,
		ObstacleHits: 1,
		Duration:     42.5,
		Oracle:       true,
		Level:        "hard",
	})
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("run ID %q is not a UUID: %v", id, err)
	}

	run, err := store.RunByID(id)
	if err != nil || run == nil {
		t.Fatalf("RunByID() = %v, %v", run, err)
	}
	if run.Score != 310 || run.Coins != 7 || !run.Oracle || run.Level != "hard" || run.Duration != 42.5 {
		t.Errorf("RunByID() = %+v", run)
	}
	if got := run.Accuracy(); got != 0.75 {
		t.Errorf("Accuracy() = %v, want 0.75", got)
	}

	if missing, err := store.RunByID("nope"); err != nil || missing != nil {
		t.Errorf("RunByID(missing) = %v, %v", missing, err)
	}

	store.SaveRun(RunRecord{GameID: "signrun", Score: 10})
	if runs, _ := store.RecentRuns("", 10); len(runs) != 2 {
		t.Errorf("RecentRuns(all) = %d runs, want 2", len(runs))
	}
	runs, err := store.RecentRuns("signrun", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].GameID != "signrun" || runs[0].Oracle {
		t.Errorf("RecentRuns(signrun) = %+v", runs)
	}
}

func TestPrefsDefaults(t *testing.T) {
	p := openTestStore(t).Prefs(nil)

	if got := p.Get("missing", "fallback"); got != "fallback" {
		t.Errorf("Get() = %q, want fallback", got)
	}
	if p.Coins() != 0 {
		t.Errorf("Coins() = %d, want 0", p.Coins())
	}
	if got := p.UnlockedCars(); !reflect.DeepEqual(got, []string{DefaultCar}) {
		t.Errorf("UnlockedCars() = %v", got)
	}
	if p.SelectedCar() != DefaultCar {
		t.Errorf("SelectedCar() = %q", p.SelectedCar())
	}
	if len(p.CompletedLevels()) != 0 {
		t.Error("fresh profile has completed levels")
	}
}

func TestPrefsProfile(t *testing.T) {
	p := openTestStore(t).Prefs(nil)

	p.Set("theme", "dark")
	p.Set("theme", "light")
	if got := p.Get("theme", ""); got != "light" {
		t.Errorf("Get(theme) = %q, want light", got)
	}

	p.AddCoins(12)
	if got := p.AddCoins(5); got != 17 || p.Coins() != 17 {
		t.Errorf("coins = %d/%d, want 17", got, p.Coins())
	}
	if got := p.AddCoins(-100); got != 0 {
		t.Errorf("balance went below zero: %d", got)
	}

	if p.SelectCar("racer") {
		t.Error("selected a locked car")
	}
	p.UnlockCar("racer")
	p.UnlockCar("racer")
	if got := p.UnlockedCars(); !reflect.DeepEqual(got, []string{DefaultCar, "racer"}) {
		t.Errorf("UnlockedCars() = %v", got)
	}
	if !p.SelectCar("racer") || p.SelectedCar() != "racer" {
		t.Errorf("SelectedCar() = %q, want racer", p.SelectedCar())
	}

	p.MarkLevelComplete("easy")
	p.MarkLevelComplete("hard")
	if got := p.CompletedLevels(); !got["easy"] || !got["hard"] || got["normal"] {
		t.Errorf("CompletedLevels() = %v", got)
	}
}

func TestAddCoinsConcurrent(t *testing.T) {
	store := openTestStore(t)

	const workers, adds = 8, 25
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := store.Prefs(nil)
			for j := 0; j < adds; j++ {
				p.AddCoins(2)
			}
		}()
	}
	wg.Wait()

	if got, want := store.Prefs(nil).Coins(), workers*adds*2; got != want {
		t.Errorf("Coins() = %d, want %d", got, want)
	}
}

func TestAddCoinsBalance(t *testing.T) {
	tests := []struct {
		name  string
		start string // stored value, "" for unset
		delta int
		want  int
	}{
		{"first deposit", "", 7, 7},
		{"first withdrawal", "", -3, 0},
		{"deposit", "10", 5, 15},
		{"withdrawal", "10", -4, 6},
		{"overdraw", "10", -40, 0},
		{"corrupt balance", "lots", 3, 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := openTestStore(t).Prefs(nil)
			if tc.start != "" {
				p.Set(KeyCoins, tc.start)
			}
			if got := p.AddCoins(tc.delta); got != tc.want {
				t.Errorf("AddCoins(%d) = %d, want %d", tc.delta, got, tc.want)
			}
			if got := p.Coins(); got != tc.want {
				t.Errorf("Coins() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestPrefsCorruptValue(t *testing.T) {
	p := openTestStore(t).Prefs(nil)

	p.Set(KeyCoins, "lots")
	p.Set(KeyUnlockedCars, "{not json")

	if p.Coins() != 0 {
		t.Errorf("Coins() with corrupt value = %d", p.Coins())
	}
	if got := p.UnlockedCars(); !reflect.DeepEqual(got, []string{DefaultCar}) {
		t.Errorf("UnlockedCars() with corrupt value = %v", got)
	}
}

func TestTopRunsOrderByScore(t *testing.T) {
	store := openTestStore(t)
	for _, score := range []int{120, 450, 0, 300} {
		if _, err := store.SaveRun(RunRecord{GameID: "signrun", Score: score}); err != nil {
			t.Fatalf("SaveRun(%d) failed: %v", score, err)
		}
	}
	store.SaveRun(RunRecord{GameID: "signrun_oracle", Score: 999})

	runs, err := store.TopRuns("signrun", 3)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	want := []int{450, 300, 120}
	if len(runs) != len(want) {
		t.Fatalf("TopRuns() returned %d runs, want %d", len(runs), len(want))
	}
	for i, w := range want {
		if runs[i].Score != w {
			t.Errorf("runs[%d].Score = %d, want %d", i, runs[i].Score, w)
		}
	}
}
