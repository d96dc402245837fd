package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/sign-runner/internal/core"
	"github.com/vovakirdan/sign-runner/internal/lanerun"
	"github.com/vovakirdan/sign-runner/internal/platform/session"
	"github.com/vovakirdan/sign-runner/internal/storage"
)

var (
	flagSimSeconds  float64
	flagSimAccuracy float64
	flagSimOracle   bool
	flagSimSave     bool
	flagSimVerbose  bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a headless autopilot game",
	Long: `Play one run without a terminal: an autopilot dodges traffic and
picks the right sign with the given accuracy. With the same --seed the
run is reproducible.

Examples:
  signrun simulate --seed 42
  signrun simulate --accuracy 0.6 --seconds 300 --save
  signrun simulate --oracle --difficulty hard -v`,
	Run: runSimulate,
}

func init() {
	simulateCmd.Flags().Float64Var(&flagSimSeconds, "seconds", 120, "Simulated time limit")
	simulateCmd.Flags().Float64Var(&flagSimAccuracy, "accuracy", 0.8, "Chance the autopilot aims for the correct sign")
	simulateCmd.Flags().BoolVar(&flagSimOracle, "oracle", false, "Simulate the oracle mode")
	simulateCmd.Flags().BoolVar(&flagSimSave, "save", false, "Store the run in the database")
	simulateCmd.Flags().BoolVarP(&flagSimVerbose, "verbose", "v", false, "Log game events")
}

func runSimulate(_ *cobra.Command, _ []string) {
	if flagSimAccuracy < 0 || flagSimAccuracy > 1 {
		exitf("accuracy must be within [0, 1], got %v", flagSimAccuracy)
	}

	logger := newLogger("simulate")
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	cfg := core.DefaultConfig()
	cfg.TickRate = flagFPS
	cfg.Seed = seed

	game := lanerun.New(flagSimOracle)
	if flagSimVerbose {
		logger.SetLevel(log.DebugLevel)
		game.SetLogger(logger)
		game.SetAudio(lanerun.LogSink{Logger: logger})
	}
	game.Reset(cfg)

	pilot := lanerun.NewAutopilot(flagSimAccuracy, seed)
	limit := int(flagSimSeconds * float64(cfg.TickRate))
	for tick := 0; tick < limit; tick++ {
		res := game.Step(pilot.Decide(game))
		if res.State.GameOver {
			break
		}
	}

	sum := game.Summary()
	printSummary(sum, seed, game.Snapshot().GameOver)
	if n := game.Resets(); n > 0 {
		logger.Warn("session was reset after a fatal tick", "resets", n)
	}

	if !flagSimSave {
		return
	}
	store, err := storage.Open(flagDBPath)
	if err != nil {
		exitf("cannot open scores database: %v", err)
	}
	defer store.Close()

	id, err := session.NewRecorder(store, logger).Record(game)
	if err != nil {
		exitf("cannot save run: %v", err)
	}
	fmt.Printf("Saved run %s\n", id)
}

func printSummary(sum lanerun.RunSummary, seed int64, over bool) {
	end := "time limit"
	if over {
		end = "game over"
	}
	answered := sum.Correct + sum.Incorrect

	fmt.Printf("Sign Runner simulation (%s, seed %d)\n", sum.GameID, seed)
	fmt.Println()
	fmt.Printf("  Ended by:       %s after %.1fs (%d ticks)\n", end, sum.Seconds, sum.Ticks)
	fmt.Printf("  Score:          %d\n", sum.Score)
	fmt.Printf("  Answers:        %d correct, %d incorrect\n", sum.Correct, sum.Incorrect)
	if answered > 0 {
		fmt.Printf("  Accuracy:       %.0f%%\n", float64(sum.Correct)/float64(answered)*100)
	}
	fmt.Printf("  Coins:          %d\n", sum.Coins)
	fmt.Printf("  Obstacle hits:  %d\n", sum.ObstacleHits)
	fmt.Printf("  Level:          %s (complete: %t)\n", sum.Level, sum.LevelComplete)
}
