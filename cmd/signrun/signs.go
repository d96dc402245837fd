package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/sign-runner/internal/questions"
)

var flagSignsFull bool

var signsCmd = &cobra.Command{
	Use:   "signs",
	Short: "Show the question pool",
	Long: `List the road signs and questions the game draws from. Use --signs
to check a custom pool before playing with it.

Examples:
  signrun signs
  signrun signs --signs ./my-signs.yaml --full`,
	Run: runSigns,
}

func init() {
	signsCmd.Flags().BoolVar(&flagSignsFull, "full", false, "Print every question and oracle hint")
}

func runSigns(_ *cobra.Command, _ []string) {
	pool, err := questions.Load(flagSigns)
	if err != nil {
		exitf("%v", err)
	}

	groups := pool.Groups()
	fmt.Printf("%d signs, %d questions\n\n", len(pool.Signs()), pool.QuestionCount())

	width := 2
	for _, g := range groups {
		width = max(width, len(g.ID))
	}
	for _, g := range groups {
		fmt.Printf("  %-*s  %s (%d questions)\n", width, g.ID, g.Name, len(g.Questions))
		if !flagSignsFull {
			continue
		}
		for _, q := range g.Questions {
			fmt.Printf("  %s  - %s\n", strings.Repeat(" ", width), q)
		}
		if g.OracleHelp != "" {
			fmt.Printf("  %s  hint: %s\n", strings.Repeat(" ", width), g.OracleHelp)
		}
	}
}
