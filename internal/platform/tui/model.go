package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/sign-runner/internal/core"
	"github.com/vovakirdan/sign-runner/internal/feed"
	"github.com/vovakirdan/sign-runner/internal/lanerun"
	"github.com/vovakirdan/sign-runner/internal/platform/session"
	"github.com/vovakirdan/sign-runner/internal/registry"
	"github.com/vovakirdan/sign-runner/internal/storage"
)

// Options wires a game model to the optional platform services.
type Options struct {
	Store  *storage.Store
	Hub    *feed.Hub
	Logger *log.Logger

	// Session names the feed session the model publishes to. A random id
	// is used when empty.
	Session string

	// Embedded models report Back to their parent instead of quitting
	// the program.
	Embedded bool
}

// Optional capabilities of a game mode.
type (
	audible interface {
		SetAudio(lanerun.AudioSink)
	}
	loggable interface {
		SetLogger(*log.Logger)
	}
	snapshotter interface {
		Snapshot() lanerun.GameState
	}
)

// Model is the Bubble Tea model that drives one game mode.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keys       GameKeyMap
	recorder   *session.Recorder
	feed       *feed.Publisher
	logger     *log.Logger
	embedded   bool
	quitting   bool
	back       bool
	recorded   bool // whether the current game over has been persisted
}

// NewModel creates a model for game.
func NewModel(game registry.Game, cfg core.RuntimeConfig, opts Options) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	if g, ok := game.(loggable); ok {
		g.SetLogger(logger.WithPrefix(game.ID()))
	}
	var pub *feed.Publisher
	if opts.Hub != nil {
		id := opts.Session
		if id == "" {
			id = uuid.NewString()
		}
		pub = opts.Hub.Session(id)
	}
	if g, ok := game.(audible); ok {
		sinks := lanerun.MultiSink{lanerun.LogSink{Logger: logger}}
		if pub != nil {
			sinks = append(sinks, pub)
		}
		g.SetAudio(sinks)
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keys:       DefaultGameKeyMap(),
		recorder:   session.NewRecorder(opts.Store, logger),
		feed:       pub,
		logger:     logger,
		embedded:   opts.Embedded,
	}
}

// Init starts the game and the tick loop.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Screenshot) {
		if path, err := m.saveScreenshot(); err != nil {
			m.logger.Warn("screenshot failed", "err", err)
		} else {
			m.logger.Info("screenshot saved", "path", path)
		}
		return m, nil
	}

	switch action := m.keys.Action(msg); action {
	case core.ActionQuit:
		m.finish()
		m.quitting = true
		return m, tea.Quit

	case core.ActionBack:
		if m.embedded && (m.gameState.GameOver || m.gameState.Paused) {
			m.finish()
			m.back = true
			return m, nil
		}
		if !m.gameState.GameOver && !m.gameState.Paused {
			m.inputFrame.Set(core.ActionPause)
		}

	case core.ActionRestart:
		if m.gameState.GameOver {
			m.inputFrame.Set(core.ActionRestart)
		}

	case core.ActionNone:

	default:
		m.inputFrame.Set(action)
	}

	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.back || m.quitting {
		return m, nil
	}

	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.recorded = false
		m.inputFrame.Clear()
		m.publish()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()
	m.publish()

	if m.gameState.GameOver && !m.recorded {
		m.record()
		m.recorded = true
	}

	return m, tickCmd(m.config.TickRate)
}

// finish persists a run abandoned mid-way if it earned anything.
func (m *Model) finish() {
	if m.recorded || m.gameState.Score == 0 {
		return
	}
	m.record()
	m.recorded = true
}

func (m *Model) record() {
	if _, err := m.recorder.Record(m.game); err != nil {
		m.logger.Error("cannot record run", "game", m.game.ID(), "err", err)
	}
}

func (m *Model) publish() {
	if m.feed == nil {
		return
	}
	if g, ok := m.game.(snapshotter); ok {
		m.feed.PublishState(m.game.ID(), g.Snapshot())
	}
}

// saveScreenshot writes the current frame as plain text.
func (m *Model) saveScreenshot() (string, error) {
	m.game.Render(m.screen)

	dir, err := storage.ExpandPath("~/.signrun/screenshots")
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("tui: cannot create screenshot dir: %w", err)
	}

	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		return "", fmt.Errorf("tui: cannot write screenshot: %w", err)
	}
	return path, nil
}

// View renders the current frame.
func (m Model) View() string {
	if m.quitting || m.back {
		return ""
	}
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// WantsBack reports whether an embedded model asked to leave the game.
func (m Model) WantsBack() bool {
	return m.back
}

// IsQuitting reports whether the player asked to quit.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// Run plays game in the terminal until the player quits.
func Run(game registry.Game, cfg core.RuntimeConfig, opts Options) error {
	opts.Embedded = false
	p := tea.NewProgram(
		NewModel(game, cfg, opts),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
