package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/sign-runner/internal/lanerun"
	"github.com/vovakirdan/sign-runner/internal/registry"
	"github.com/vovakirdan/sign-runner/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show best scores and recent runs",
	Long: `Display the best scores, aggregate stats and the latest runs of a
mode (default: signrun).

Examples:
  signrun scores
  signrun scores signrun_oracle --limit 20
  signrun scores --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of entries to show")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete all scores of the mode")
}

func runScores(_ *cobra.Command, args []string) {
	gameID := lanerun.ClassicID
	if len(args) == 1 {
		gameID = args[0]
	}
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'signrun list' to see available modes.")
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		exitf("cannot open scores database: %v", err)
	}
	defer store.Close()

	if flagScoresClear {
		if err := store.ClearScores(gameID); err != nil {
			exitf("%v", err)
		}
		fmt.Printf("Cleared scores of %s.\n", gameID)
		return
	}

	scores, err := store.TopScores(gameID, flagScoresLimit)
	if err != nil {
		exitf("cannot read scores: %v", err)
	}

	fmt.Printf("High Scores - %s\n", registry.Title(gameID))
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'signrun play %s' to set the first high score!\n", gameID)
		return
	}

	fmt.Printf("  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
	fmt.Printf("  %-4s  %-10s  %s\n", "----", "-----", "----")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %-10d  %s\n", i+1, entry.Score, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	if stats, err := store.GameStats(gameID); err == nil && stats.GamesCount > 0 {
		fmt.Println()
		fmt.Printf("Best: %d   Games: %d   Average: %.0f\n", stats.HighScore, stats.GamesCount, stats.AvgScore)
	}

	runs, err := store.RecentRuns(gameID, flagScoresLimit)
	if err != nil || len(runs) == 0 {
		return
	}
	fmt.Println()
	fmt.Println("Recent runs:")
	fmt.Printf("  %-8s  %-7s  %-7s  %-5s  %-6s  %-7s  %s\n", "ID", "Score", "Right", "Acc", "Coins", "Level", "Time")
	for _, r := range runs {
		fmt.Printf("  %-8s  %-7d  %-7s  %-5s  %-6d  %-7s  %.0fs\n",
			shortID(r.ID),
			r.Score,
			fmt.Sprintf("%d/%d", r.Correct, r.Correct+r.Incorrect),
			fmt.Sprintf("%.0f%%", r.Accuracy()*100),
			r.Coins,
			r.Level,
			r.Duration,
		)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
