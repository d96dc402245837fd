// Package feed streams live Sign Runner sessions to browser clients.
// Every game session owns a Publisher, a lanerun.AudioSink that turns its
// feedback events and state into websocket messages tagged with the
// session id. The Server exposes them next to a small JSON API.
package feed

import (
	"encoding/json"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/sign-runner/internal/lanerun"
)

const (
	sendBuffer   = 64
	writeTimeout = 10 * time.Second
	pingInterval = 25 * time.Second
	readTimeout  = 60 * time.Second
)

// Event is a feedback event sent to clients.
type Event struct {
	Type      string    `json:"type"` // correct, incorrect, coin, obstacle, powerup
	Session   string    `json:"session"`
	Kind      string    `json:"kind,omitempty"`
	Collected bool      `json:"collected,omitempty"`
	Seq       uint64    `json:"seq"`
	At        time.Time `json:"at"`
}

// StateView is the public projection of a GameState.
type StateView struct {
	Session  string  `json:"session"`
	GameID   string  `json:"game_id"`
	Score    int     `json:"score"`
	Lives    int     `json:"lives"`
	Lane     int     `json:"lane"`
	Coins    int     `json:"coins"`
	Streak   int     `json:"streak"`
	Speed    float64 `json:"speed"`
	Question string  `json:"question,omitempty"`
	Phase    string  `json:"phase"`
	Oracle   bool    `json:"oracle"`
	Paused   bool    `json:"paused"`
	GameOver bool    `json:"game_over"`
}

// NewStateView projects a game state.
func NewStateView(gameID string, s lanerun.GameState) StateView {
	v := StateView{
		GameID:   gameID,
		Score:    s.Score,
		Lives:    s.Lives,
		Lane:     s.EffectiveLane(),
		Coins:    s.CoinsCollected,
		Streak:   s.ConsecutiveCorrect,
		Speed:    s.Speed * s.Multiplier,
		Phase:    s.Phase.String(),
		Oracle:   s.OracleMode,
		Paused:   s.Paused,
		GameOver: s.GameOver,
	}
	if s.Question != nil {
		v.Question = s.Question.Text
	}
	return v
}

type stateMessage struct {
	Type  string    `json:"type"`
	State StateView `json:"state"`
}

type endMessage struct {
	Type    string `json:"type"`
	Session string `json:"session"`
}

// client is one websocket subscriber. An empty session follows every
// session.
type client struct {
	id      string
	session string
	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{}
}

func (c *client) follows(session string) bool {
	return c.session == "" || c.session == session
}

// Hub fans messages out to subscribers. Each game session publishes
// through its own Publisher. Publishing never blocks: a client whose
// buffer is full misses messages.
type Hub struct {
	mu       sync.Mutex
	clients  map[string]*client
	sessions map[string]StateView
	last     string // session that published most recently
	seq      uint64
	logger   *log.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		clients:  make(map[string]*client),
		sessions: make(map[string]StateView),
		logger:   logger,
	}
}

// Publisher feeds one session's state and events into a Hub.
type Publisher struct {
	hub *Hub
	id  string
}

var _ lanerun.AudioSink = (*Publisher)(nil)

// Session returns the publisher for session id.
func (h *Hub) Session(id string) *Publisher {
	return &Publisher{hub: h, id: id}
}

// ID returns the session id.
func (p *Publisher) ID() string { return p.id }

func (p *Publisher) PlayCorrect()     { p.hub.emit(p.id, Event{Type: "correct"}) }
func (p *Publisher) PlayIncorrect()   { p.hub.emit(p.id, Event{Type: "incorrect"}) }
func (p *Publisher) PlayCoinCollect() { p.hub.emit(p.id, Event{Type: "coin"}) }
func (p *Publisher) PlayObstacleHit() { p.hub.emit(p.id, Event{Type: "obstacle"}) }

func (p *Publisher) PlayPowerup(kind lanerun.Kind, collected bool) {
	p.hub.emit(p.id, Event{Type: "powerup", Kind: kind.String(), Collected: collected})
}

// PublishState records the session's latest state and broadcasts it when
// it changed.
func (p *Publisher) PublishState(gameID string, s lanerun.GameState) {
	p.hub.publishState(p.id, NewStateView(gameID, s))
}

// Close forgets the session and tells its followers it ended.
func (p *Publisher) Close() {
	h := p.hub
	h.mu.Lock()
	_, ok := h.sessions[p.id]
	delete(h.sessions, p.id)
	if h.last == p.id {
		h.last = ""
	}
	h.mu.Unlock()
	if !ok {
		return
	}

	data, err := json.Marshal(endMessage{Type: "end", Session: p.id})
	if err != nil {
		h.logger.Error("feed: cannot encode end", "err", err)
		return
	}
	h.broadcast(p.id, data)
}

func (h *Hub) emit(session string, e Event) {
	h.mu.Lock()
	h.seq++
	e.Seq = h.seq
	h.mu.Unlock()
	e.Session = session
	e.At = time.Now().UTC()

	data, err := json.Marshal(e)
	if err != nil {
		h.logger.Error("feed: cannot encode event", "err", err)
		return
	}
	h.broadcast(session, data)
}

func (h *Hub) publishState(session string, view StateView) {
	view.Session = session

	h.mu.Lock()
	if prev, ok := h.sessions[session]; ok && prev == view {
		h.mu.Unlock()
		return
	}
	h.sessions[session] = view
	h.last = session
	h.mu.Unlock()

	data, err := json.Marshal(stateMessage{Type: "state", State: view})
	if err != nil {
		h.logger.Error("feed: cannot encode state", "err", err)
		return
	}
	h.broadcast(session, data)
}

// Latest returns the last state published by session. An empty session
// selects whichever session published most recently.
func (h *Hub) Latest(session string) (StateView, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if session == "" {
		session = h.last
	}
	v, ok := h.sessions[session]
	return v, ok
}

// Sessions returns the latest state of every live session, ordered by
// session id.
func (h *Hub) Sessions() []StateView {
	h.mu.Lock()
	defer h.mu.Unlock()
	views := make([]StateView, 0, len(h.sessions))
	for _, v := range h.sessions {
		views = append(views, v)
	}
	slices.SortFunc(views, func(a, b StateView) int {
		return strings.Compare(a.Session, b.Session)
	})
	return views
}

// Clients returns the number of connected subscribers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) broadcast(session string, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		if !c.follows(session) {
			continue
		}
		select {
		case c.send <- data:
		default:
			h.logger.Debug("feed: client lagging, message dropped", "client", id)
		}
	}
}

// subscribe registers conn, following session or every session when
// empty, and starts its writer.
func (h *Hub) subscribe(id, session string, conn *websocket.Conn) *client {
	c := &client{
		id:      id,
		session: session,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		done:    make(chan struct{}),
	}

	h.mu.Lock()
	h.clients[id] = c
	for sid, view := range h.sessions {
		if !c.follows(sid) || len(c.send) == cap(c.send) {
			continue
		}
		if data, err := json.Marshal(stateMessage{Type: "state", State: view}); err == nil {
			c.send <- data
		}
	}
	h.mu.Unlock()

	go c.writeLoop()
	h.logger.Info("feed: client connected", "client", id, "session", session)
	return c
}

// unsubscribe removes a client and stops its writer.
func (h *Hub) unsubscribe(c *client) {
	h.mu.Lock()
	if h.clients[c.id] == c {
		delete(h.clients, c.id)
		close(c.done)
	}
	h.mu.Unlock()
	h.logger.Info("feed: client disconnected", "client", c.id)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.unsubscribe(c)
		c.conn.Close()
	}
}

// writeLoop owns all writes to the connection.
func (c *client) writeLoop() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.conn.Close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.conn.Close()
				return
			}
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
