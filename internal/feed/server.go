package feed

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/sign-runner/internal/questions"
	"github.com/vovakirdan/sign-runner/internal/registry"
	"github.com/vovakirdan/sign-runner/internal/storage"
)

// Server serves the feed API.
type Server struct {
	hub      *Hub
	store    *storage.Store
	pool     *questions.Pool
	logger   *log.Logger
	upgrader websocket.Upgrader
	started  time.Time
}

// NewServer creates a server. store and pool may be nil; their endpoints
// then answer 503.
func NewServer(hub *Hub, store *storage.Store, pool *questions.Pool, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{
		hub:    hub,
		store:  store,
		pool:   pool,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		started: time.Now(),
	}
}

// Routes sets up the HTTP routes.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/ws", s.handleWS)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(10 * time.Second))
		r.Get("/state", s.handleState)
		r.Get("/sessions", s.handleSessions)
		r.Get("/games", s.handleGames)
		r.Get("/scores/{game}", s.handleScores)
		r.Get("/runs", s.handleRuns)
		r.Get("/signs", s.handleSigns)
	})

	return r
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("feed: listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("feed: cannot write response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.writeJSON(w, status, errorResponse{
		Error:     message,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"uptime":  time.Since(s.started).Round(time.Second).String(),
		"clients": s.hub.Clients(),
	})
}

// handleState answers the state of ?session=, or of the most recently
// active session when none is named.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	session := r.URL.Query().Get("session")
	view, ok := s.hub.Latest(session)
	if !ok {
		if session != "" {
			s.writeError(w, r, http.StatusNotFound, "unknown session "+strconv.Quote(session))
			return
		}
		s.writeError(w, r, http.StatusNotFound, "no session running")
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.hub.Sessions())
}

func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, registry.List())
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, http.StatusServiceUnavailable, "score storage disabled")
		return
	}
	game := chi.URLParam(r, "game")
	if !registry.Exists(game) {
		s.writeError(w, r, http.StatusNotFound, "unknown game "+strconv.Quote(game))
		return
	}
	limit, err := queryLimit(r, 10)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	scores, err := s.store.TopScores(game, limit)
	if err != nil {
		s.logger.Error("feed: cannot load scores", "game", game, "err", err)
		s.writeError(w, r, http.StatusInternalServerError, "cannot load scores")
		return
	}
	if scores == nil {
		scores = []storage.ScoreEntry{}
	}
	s.writeJSON(w, http.StatusOK, scores)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, http.StatusServiceUnavailable, "score storage disabled")
		return
	}
	limit, err := queryLimit(r, 20)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	runs, err := s.store.RecentRuns(r.URL.Query().Get("game"), limit)
	if err != nil {
		s.logger.Error("feed: cannot load runs", "err", err)
		s.writeError(w, r, http.StatusInternalServerError, "cannot load runs")
		return
	}
	if runs == nil {
		runs = []storage.RunRecord{}
	}
	s.writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleSigns(w http.ResponseWriter, r *http.Request) {
	if s.pool == nil {
		s.writeError(w, r, http.StatusServiceUnavailable, "no question pool loaded")
		return
	}
	s.writeJSON(w, http.StatusOK, s.pool.Groups())
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("feed: upgrade failed", "err", err)
		return
	}

	defer conn.Close()

	c := s.hub.subscribe(uuid.NewString(), r.URL.Query().Get("session"), conn)
	defer s.hub.unsubscribe(c)

	conn.SetReadLimit(1 << 16)
	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	// Clients only listen; reading drives pong handling and close detection.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func queryLimit(r *http.Request, def int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 || n > 1000 {
		return 0, errors.New("limit must be between 1 and 1000")
	}
	return n, nil
}
