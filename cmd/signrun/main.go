// signrun is a terminal lane-runner where you answer road-sign questions
// by steering into the lane with the right sign.
//
// Usage:
//
//	signrun list              - List game modes
//	signrun play [mode]       - Play a mode (default: signrun)
//	signrun menu              - Pick modes interactively
//	signrun serve             - Serve remote play over SSH plus the event feed
//	signrun scores [mode]     - Show best scores and recent runs
//	signrun simulate          - Run a headless autopilot game
//	signrun signs             - List the question pool
//	signrun profile           - Show coins, cars and completed levels
//
// Global flags:
//
//	--fps <rate>           - Set tick rate (default: 60)
//	--seed <value>         - Set RNG seed for reproducible gameplay
//	--db <path>            - Set database path (default: ~/.signrun/scores.db)
//	--config <path>        - Custom game config YAML
//	--signs <path>         - Custom question pool YAML
//	--difficulty <preset>  - easy, normal, hard or fixed
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/sign-runner/internal/config"
	"github.com/vovakirdan/sign-runner/internal/lanerun"
	"github.com/vovakirdan/sign-runner/internal/storage"
)

var (
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagSigns      string
	flagDifficulty string
	flagLogFile    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "signrun",
	Short: "Sign Runner - a road-sign quiz on a three-lane road",
	Long: `Sign Runner puts you behind the wheel on a three-lane road. Every
question comes with three road signs, one per lane: steer into the lane
with the right sign, dodge traffic, and grab coins and power-ups.

Available commands:
  list      - Show game modes
  play      - Play a mode directly
  menu      - Interactive mode picker
  serve     - SSH server for remote play plus the event feed
  scores    - Best scores and recent runs
  simulate  - Headless autopilot run
  signs     - Show the question pool
  profile   - Coins, cars and completed levels

Examples:
  signrun play
  signrun play --oracle --difficulty easy
  signrun serve --ssh :2222 --http :8080
  signrun simulate --seed 42 --accuracy 0.9`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if flagDifficulty != "" && config.ParsePreset(flagDifficulty) == "" {
			return fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", flagDifficulty)
		}
		lanerun.SetConfigPath(flagConfig)
		lanerun.SetSignsPath(flagSigns)
		lanerun.SetDifficultyPreset(flagDifficulty)
		return nil
	},
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", "~/.signrun/scores.db", "Path to scores database")
	pf.StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	pf.StringVar(&flagSigns, "signs", "", "Path to custom question pool YAML")
	pf.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	pf.StringVar(&flagLogFile, "log-file", "", "Write logs to this file while the terminal UI runs")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(signsCmd)
	rootCmd.AddCommand(profileCmd)
}

// exitf prints an error and exits with status 1.
func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// openStoreOrWarn opens the database, or returns nil so play continues
// without persistence.
func openStoreOrWarn() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		return nil
	}
	return store
}

// newLogger builds a stderr logger for the non-interactive commands.
func newLogger(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
}

// uiLogger returns a logger that stays off the terminal the UI owns. The
// returned closer must be called on exit.
func uiLogger(prefix string) (*log.Logger, func()) {
	if flagLogFile == "" {
		return log.New(io.Discard), func() {}
	}
	path, err := storage.ExpandPath(flagLogFile)
	if err != nil {
		exitf("%v", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		exitf("cannot open log file: %v", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           log.DebugLevel,
	})
	return logger, func() { f.Close() }
}
