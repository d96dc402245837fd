package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/sign-runner/internal/core"
	"github.com/vovakirdan/sign-runner/internal/feed"
	"github.com/vovakirdan/sign-runner/internal/lanerun"
	"github.com/vovakirdan/sign-runner/internal/platform/tui"
	"github.com/vovakirdan/sign-runner/internal/questions"
	"github.com/vovakirdan/sign-runner/internal/registry"
	"github.com/vovakirdan/sign-runner/internal/storage"
)

var (
	flagOracle   bool
	flagFeedAddr string
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play Sign Runner",
	Long: `Start a run of the given mode (default: signrun).

Controls:
  Left/A/H    - Steer one lane left
  Right/D/L   - Steer one lane right
  P/Space     - Pause
  O           - Toggle oracle mode (hints instead of lost lives)
  R           - Restart (after game over)
  Ctrl+S      - Save a screenshot
  Q/Ctrl+C    - Quit

Difficulty options:
  easy   - Start at lowest difficulty, progresses to max
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty, progresses to max
  fixed  - No progression, stays at config's initial level

Examples:
  signrun play
  signrun play --oracle
  signrun play --difficulty hard --signs ./my-signs.yaml
  signrun play --feed :8080`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagOracle, "oracle", false, "Play the oracle mode")
	playCmd.Flags().StringVar(&flagFeedAddr, "feed", "", "Serve the event feed on this address while playing (e.g. :8080)")
}

func runPlay(_ *cobra.Command, args []string) {
	gameID := lanerun.ClassicID
	if flagOracle {
		gameID = lanerun.OracleID
	}
	if len(args) == 1 {
		gameID = args[0]
	}
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'signrun list' to see available modes.")
		os.Exit(1)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		exitf("cannot create game: %v", err)
	}

	logger, closeLog := uiLogger("signrun")
	defer closeLog()

	store := openStoreOrWarn()
	if store != nil {
		defer store.Close()
	}

	opts := tui.Options{Store: store, Logger: logger}
	if flagFeedAddr != "" {
		hub, stop := startFeed(flagFeedAddr, store, logger)
		defer stop()
		opts.Hub = hub
	}

	if err := tui.Run(game, terminalConfig(), opts); err != nil {
		exitf("cannot run game: %v", err)
	}
}

// terminalConfig builds the runtime config from the terminal size and the
// global flags.
func terminalConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

// startFeed serves the event feed in the background. The returned stop
// function shuts the server down and disconnects clients.
func startFeed(addr string, store *storage.Store, logger *log.Logger) (*feed.Hub, func()) {
	pool, err := questions.Load(flagSigns)
	if err != nil {
		exitf("cannot load signs: %v", err)
	}

	hub := feed.NewHub(logger.WithPrefix("feed"))
	srv := feed.NewServer(hub, store, pool, logger.WithPrefix("feed"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.ListenAndServe(ctx, addr); err != nil {
			logger.Error("feed server stopped", "err", err)
		}
	}()

	return hub, func() {
		cancel()
		<-done
	}
}
