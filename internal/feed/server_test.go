package feed

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/sign-runner/internal/lanerun"
	"github.com/vovakirdan/sign-runner/internal/questions"
	"github.com/vovakirdan/sign-runner/internal/storage"
)

func newTestServer(t *testing.T) (*Server, *storage.Store) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "feed.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return NewServer(NewHub(nil), store, questions.Default(), nil), store
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestServerHealth(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s.Routes(), "/healthz")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestServerState(t *testing.T) {
	s, _ := newTestServer(t)
	routes := s.Routes()

	if rec := get(t, routes, "/api/state"); rec.Code != http.StatusNotFound {
		t.Errorf("state before publish: status %d", rec.Code)
	}

	other := testState()
	other.Score = 50
	s.hub.Session("a").PublishState(lanerun.ClassicID, testState())
	s.hub.Session("b").PublishState(lanerun.ClassicID, other)

	tests := []struct {
		name   string
		path   string
		status int
		score  int
	}{
		{"named session", "/api/state?session=a", http.StatusOK, 310},
		{"other session", "/api/state?session=b", http.StatusOK, 50},
		{"most recent", "/api/state", http.StatusOK, 50},
		{"unknown session", "/api/state?session=zz", http.StatusNotFound, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, routes, tt.path)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.status != http.StatusOK {
				return
			}
			var v StateView
			if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
				t.Fatal(err)
			}
			if v.Score != tt.score || v.GameID != lanerun.ClassicID {
				t.Errorf("state = %+v", v)
			}
		})
	}
}

func TestServerSessions(t *testing.T) {
	s, _ := newTestServer(t)
	s.hub.Session("b").PublishState(lanerun.ClassicID, testState())
	s.hub.Session("a").PublishState(lanerun.ClassicID, testState())

	rec := get(t, s.Routes(), "/api/sessions")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var views []StateView
	if err := json.Unmarshal(rec.Body.Bytes(), &views); err != nil {
		t.Fatal(err)
	}
	if len(views) != 2 || views[0].Session != "a" || views[1].Session != "b" {
		t.Errorf("sessions = %+v", views)
	}
}

func TestServerScores(t *testing.T) {
	s, store := newTestServer(t)
	for _, score := range []int{100, 310, 200} {
		store.SaveScore(lanerun.ClassicID, score)
	}
	routes := s.Routes()

	tests := []struct {
		name   string
		path   string
		status int
		count  int
	}{
		{"top scores", "/api/scores/signrun", http.StatusOK, 3},
		{"limited", "/api/scores/signrun?limit=2", http.StatusOK, 2},
		{"empty mode", "/api/scores/signrun_oracle", http.StatusOK, 0},
		{"unknown game", "/api/scores/pong", http.StatusNotFound, -1},
		{"bad limit", "/api/scores/signrun?limit=x", http.StatusBadRequest, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, routes, tt.path)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			if tt.count < 0 {
				return
			}
			var scores []storage.ScoreEntry
			if err := json.Unmarshal(rec.Body.Bytes(), &scores); err != nil {
				t.Fatal(err)
			}
			if len(scores) != tt.count {
				t.Errorf("got %d scores, want %d", len(scores), tt.count)
			}
			if len(scores) > 0 && scores[0].Score != 310 {
				t.Errorf("top score = %d", scores[0].Score)
			}
		})
	}
}

func TestServerRuns(t *testing.T) {
	s, store := newTestServer(t)
	store.SaveRun(storage.RunRecord{GameID: lanerun.ClassicID, Score: 10})
	store.SaveRun(storage.RunRecord{GameID: lanerun.OracleID, Score: 20, Oracle: true})

	rec := get(t, s.Routes(), "/api/runs?game=signrun_oracle")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var runs []storage.RunRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &runs); err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || !runs[0].Oracle {
		t.Errorf("runs = %+v", runs)
	}
}

func TestServerSignsAndGames(t *testing.T) {
	s, _ := newTestServer(t)
	routes := s.Routes()

	rec := get(t, routes, "/api/signs")
	if rec.Code != http.StatusOK {
		t.Fatalf("signs status = %d", rec.Code)
	}
	var groups []questions.SignGroup
	if err := json.Unmarshal(rec.Body.Bytes(), &groups); err != nil {
		t.Fatal(err)
	}
	if len(groups) != len(questions.Default().Groups()) {
		t.Errorf("got %d groups", len(groups))
	}

	rec = get(t, routes, "/api/games")
	if rec.Code != http.StatusOK {
		t.Fatalf("games status = %d", rec.Code)
	}
}

func TestServerWithoutStore(t *testing.T) {
	s := NewServer(NewHub(nil), nil, nil, nil)
	routes := s.Routes()

	for _, path := range []string{"/api/scores/signrun", "/api/runs", "/api/signs"} {
		if rec := get(t, routes, path); rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s: status %d, want 503", path, rec.Code)
		}
	}
}
