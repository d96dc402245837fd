package lanerun

import (
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/sign-runner/internal/config"
	"github.com/vovakirdan/sign-runner/internal/core"
	"github.com/vovakirdan/sign-runner/internal/questions"
	"github.com/vovakirdan/sign-runner/internal/registry"
)

// Registered game IDs.
const (
	ClassicID = "signrun"
	OracleID  = "signrun_oracle"
)

func init() {
	registry.Register(ClassicID, func() registry.Game { return New(false) })
	registry.Register(OracleID, func() registry.Game { return New(true) })
}

// Paths and preset set via CLI flags.
var (
	configPath       string
	signsPath        string
	difficultyPreset config.DifficultyPreset
)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetSignsPath sets the custom question pool path.
func SetSignsPath(path string) {
	signsPath = path
}

// SetDifficultyPreset sets the difficulty preset.
func SetDifficultyPreset(preset string) {
	difficultyPreset = config.ParsePreset(preset)
}

// Game implements a Sign Runner session.
type Game struct {
	oracle  bool
	runtime core.RuntimeConfig
	cfg     config.SignRunConfig

	difficulty *config.DifficultyManager
	pool       *questions.Pool
	picker     *questions.Picker
	store      *StateStore
	sched      *Scheduler
	resolver   *Resolver
	controller *Controller

	obstacles *Pool
	pickups   []*Pool // Coins, fuel and magnets
	answers   *AnswerGroup

	obstacleZone *ZoneDetector[*Entity]
	pickupZones  map[Kind]*ZoneDetector[*Entity]
	answerZone   *ZoneDetector[*AnswerOption]

	audio  AudioSink
	logger *log.Logger
	resets int
}

// New creates a game. oracle selects the practice mode where wrong answers
// cost no life and show a hint.
func New(oracle bool) *Game {
	return &Game{
		oracle: oracle,
		audio:  NopSink{},
		logger: log.New(io.Discard),
	}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	if g.oracle {
		return OracleID
	}
	return ClassicID
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	if g.oracle {
		return "Sign Runner (Oracle)"
	}
	return "Sign Runner"
}

// SetAudio sets the feedback sink.
func (g *Game) SetAudio(sink AudioSink) {
	if sink == nil {
		sink = NopSink{}
	}
	g.audio = sink
	if g.resolver != nil {
		g.resolver.SetAudio(sink)
	}
}

// SetLogger sets the session logger.
func (g *Game) SetLogger(logger *log.Logger) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	g.logger = logger
	if g.sched != nil {
		g.sched.logger = logger
	}
}

// Reset initializes or restarts the game.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime

	cfg, err := config.LoadSignRun(configPath)
	if err != nil {
		g.logger.Warn("using default config", "err", err)
		cfg = config.DefaultSignRunConfig()
	}
	if difficultyPreset != "" {
		config.ApplyPreset(&cfg, difficultyPreset)
	}
	g.cfg = cfg
	g.difficulty = config.NewDifficultyManager(cfg.Difficulty)

	pool, err := questions.Load(signsPath)
	if err != nil {
		g.logger.Warn("using default signs", "err", err)
		pool = questions.Default()
	}
	g.pool = pool
	g.picker = questions.NewPicker(pool, runtime.Seed)

	start := core.Clamp(cfg.Lanes.Start, 0, NumLanes-1)
	g.store = NewStateStore(NewGameState(start, cfg.Gameplay.Lives, cfg.Gameplay.MaxLives, g.oracle))
	g.sched = NewScheduler(g.logger)
	g.controller = NewController(cfg.Lanes)

	threshold := cfg.Field.ResetThreshold
	spawns := cfg.Spawns
	g.obstacles = NewPool(KindObstacle, spawns.Obstacles, threshold, runtime.Seed+1, start)
	g.pickups = []*Pool{
		NewPool(KindCoin, spawns.Coins, threshold, runtime.Seed+2, start),
		NewPool(KindFuel, spawns.Fuel, threshold, runtime.Seed+3, start),
		NewPool(KindMagnet, spawns.Magnet, threshold, runtime.Seed+4, start),
	}
	g.answers = NewAnswerGroup()

	window := SymmetricWindow(cfg.Collision.HalfWidth)
	debounce := cfg.Collision.Debounce
	g.obstacleZone = NewZoneDetector[*Entity](window, debounce, ExactLane)
	g.pickupZones = map[Kind]*ZoneDetector[*Entity]{
		KindCoin:   NewZoneDetector[*Entity](window, debounce, CommittedLane),
		KindFuel:   NewZoneDetector[*Entity](window, debounce, CommittedLane),
		KindMagnet: NewZoneDetector[*Entity](window, debounce, CommittedLane),
	}
	g.answerZone = NewZoneDetector[*AnswerOption](window, debounce, CommittedLane)
	g.answerZone.DeferInTransition = true

	g.resolver = NewResolver(g.store, g.sched, g.picker, cfg, g.audio)
	g.resolver.OnQuestion = func(q *questions.Question, lanes [NumLanes]int) {
		g.answers.Spawn(q.ID, lanes, cfg.Spawns.Answers.SpawnOffset)
	}
	g.installPowerupPolicy()

	g.resolver.NextQuestion(0)
}

// installPowerupPolicy wires the default fuel and magnet rules.
func (g *Game) installPowerupPolicy() {
	play := g.cfg.Gameplay
	g.resolver.SetHooks(KindFuel, PowerupHooks{
		OnCollect: func(now float64) {
			g.store.Update(func(s *GameState) {
				if !s.GameOver && s.Lives < s.MaxLives {
					s.Lives++
				}
				s.Combo++
			})
		},
	})
	g.resolver.SetHooks(KindMagnet, PowerupHooks{
		OnCollect: func(now float64) {
			g.store.Update(func(s *GameState) {
				s.BoostUntil = now + play.MagnetDuration
				s.Combo++
			})
		},
	})
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) (res core.StepResult) {
	defer func() {
		if r := recover(); r != nil {
			g.fail(fmt.Errorf("lanerun: panic in tick: %v", r))
			res = core.StepResult{State: g.State()}
		}
	}()

	snap := g.store.Snapshot()
	if snap.GameOver {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.store.Update(func(s *GameState) { s.Paused = !s.Paused })
		snap.Paused = !snap.Paused
	}
	if snap.Paused {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionOracle) {
		g.store.Update(func(s *GameState) { s.OracleMode = !s.OracleMode })
	}

	dt := g.runtime.TickSeconds()
	var now float64
	g.store.Update(func(s *GameState) {
		s.Clock += dt
		s.Ticks++
		now = s.Clock
		g.controller.Advance(now, s)
		g.controller.Apply(in, now, s)
		s.Multiplier = g.difficulty.Multiplier(s.Score, s.Ticks)
	})

	g.advance(now, dt)
	g.sched.RunDue(now, g.store)

	after := g.store.Snapshot()
	if err := after.Validate(); err != nil {
		g.fail(err)
	}
	return core.StepResult{State: g.State()}
}

// advance moves the road and resolves everything level with the car. The
// move is split into steps no longer than the collision window so fast
// entities cannot jump over it.
func (g *Game) advance(now, dt float64) {
	s := g.store.Snapshot()
	move := MoveAmount(&s, dt, g.cfg.Movement.BaseSpeed)
	g.obstacles.SetSpacing(g.difficulty.Spacing(g.cfg.Spawns.Obstacles.Spacing, s.Score, s.Ticks))

	steps := Substeps(move, g.obstacleZone.Window.Width())
	step := move / float64(steps)
	for i := 0; i < steps; i++ {
		if !g.travel(now, step) {
			return
		}
	}
}

// Substeps returns how many steps of at most maxStep cover move.
func Substeps(move, maxStep float64) int {
	if move <= maxStep || maxStep <= 0 {
		return 1
	}
	return int(math.Ceil(move / maxStep))
}

// travel moves every entity by move and resolves collisions. It returns
// false once the game is over.
func (g *Game) travel(now, move float64) bool {
	s := g.store.Snapshot()

	g.obstacles.Advance(move, s.CurrentLane)
	for i := 0; i < g.obstacles.Len(); i++ {
		if g.obstacleZone.Check(now, g.obstacles.At(i), &s) == VerdictFired {
			g.resolver.ObstacleHit()
			if s = g.store.Snapshot(); s.GameOver {
				return false
			}
		}
	}

	for _, p := range g.pickups {
		kind := p.Kind()
		for _, e := range p.Advance(move, s.CurrentLane) {
			if kind.IsPowerup() && !e.Resolved {
				g.resolver.Powerup(kind, false, now)
			}
		}
		zone := g.pickupZones[kind]
		for i := 0; i < p.Len(); i++ {
			if zone.Check(now, p.At(i), &s) != VerdictFired {
				continue
			}
			if kind == KindCoin {
				g.resolver.CollectCoin()
			} else {
				g.resolver.Powerup(kind, true, now)
			}
			s = g.store.Snapshot()
		}
	}

	if !g.answers.Active {
		return true
	}
	if g.answers.Advance(move, g.cfg.Field.ResetThreshold) {
		if !g.answers.Resolved && s.Phase == PhasePending && s.Question != nil && s.Question.ID == g.answers.QuestionID {
			g.answers.Resolved = true
			g.resolver.MissAnswer(now)
		}
		return !g.store.Snapshot().GameOver
	}
	for i := 0; i < NumLanes; i++ {
		opt := g.answers.Option(i)
		if g.answerZone.Check(now, opt, &s) == VerdictFired {
			g.resolver.Answer(opt.Index, now)
			break
		}
	}
	return !g.store.Snapshot().GameOver
}

// fail logs a fatal tick error and starts a fresh session.
func (g *Game) fail(err error) {
	g.resets++
	g.logger.Error("session reset", "game", g.ID(), "err", err, "resets", g.resets)
	g.Reset(g.runtime)
}

// State returns the platform-facing summary.
func (g *Game) State() core.GameState {
	if g.store == nil {
		return core.GameState{}
	}
	s := g.store.Snapshot()
	return core.GameState{
		Score:    s.Score,
		GameOver: s.GameOver,
		Paused:   s.Paused,
	}
}

// Snapshot returns a copy of the full game state.
func (g *Game) Snapshot() GameState {
	return g.store.Snapshot()
}

// Obstacles returns a copy of the obstacle pool.
func (g *Game) Obstacles() []Entity {
	return g.obstacles.Entities()
}

// Pickups returns a copy of every coin and power-up.
func (g *Game) Pickups() []Entity {
	var out []Entity
	for _, p := range g.pickups {
		out = append(out, p.Entities()...)
	}
	return out
}

// Answers returns a copy of the answer group.
func (g *Game) Answers() AnswerGroup {
	return *g.answers
}

// Config returns the config the session runs with.
func (g *Game) Config() config.SignRunConfig {
	return g.cfg
}

// Pool returns the question pool of the session.
func (g *Game) Pool() *questions.Pool {
	return g.pool
}

// Resets returns how many times the session was reset after a fatal tick.
func (g *Game) Resets() int {
	return g.resets
}

// RunSummary describes a finished or running session.
type RunSummary struct {
	GameID        string
	Score         int
	Correct       int
	Incorrect     int
	Coins         int
	ObstacleHits  int
	Ticks         int
	Seconds       float64
	Oracle        bool
	Level         string
	LevelComplete bool
}

// Summary returns the run summary of the current session.
func (g *Game) Summary() RunSummary {
	s := g.store.Snapshot()
	level := string(difficultyPreset)
	if level == "" {
		level = string(config.DifficultyNormal)
	}
	return RunSummary{
		GameID:        g.ID(),
		Score:         s.Score,
		Correct:       s.Correct,
		Incorrect:     s.Incorrect,
		Coins:         s.CoinsCollected,
		ObstacleHits:  s.ObstacleHits,
		Ticks:         s.Ticks,
		Seconds:       s.Clock,
		Oracle:        s.OracleMode,
		Level:         level,
		LevelComplete: g.cfg.Gameplay.LevelGoal > 0 && s.Correct >= g.cfg.Gameplay.LevelGoal,
	}
}
