package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/sign-runner/internal/storage"
)

var (
	flagSelectCar string
	flagUnlockCar string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show coins, cars and completed levels",
	Long: `Show the player profile kept in the database: the coin balance
earned across runs, unlocked cars and completed difficulty levels.

Examples:
  signrun profile
  signrun profile --unlock-car sport --select-car sport`,
	Run: runProfile,
}

func init() {
	profileCmd.Flags().StringVar(&flagUnlockCar, "unlock-car", "", "Unlock a car")
	profileCmd.Flags().StringVar(&flagSelectCar, "select-car", "", "Select an unlocked car")
}

func runProfile(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		exitf("cannot open database: %v", err)
	}
	defer store.Close()

	prefs := store.Prefs(newLogger("profile"))
	if flagUnlockCar != "" {
		prefs.UnlockCar(flagUnlockCar)
	}
	if flagSelectCar != "" && !prefs.SelectCar(flagSelectCar) {
		exitf("car %q is not unlocked", flagSelectCar)
	}

	levels := prefs.CompletedLevels()
	done := make([]string, 0, len(levels))
	for level, ok := range levels {
		if ok {
			done = append(done, level)
		}
	}
	sort.Strings(done)
	if len(done) == 0 {
		done = append(done, "none")
	}

	fmt.Println("Profile")
	fmt.Println()
	fmt.Printf("  Coins:     %d\n", prefs.Coins())
	fmt.Printf("  Cars:      %s\n", strings.Join(prefs.UnlockedCars(), ", "))
	fmt.Printf("  Selected:  %s\n", prefs.SelectedCar())
	fmt.Printf("  Levels:    %s\n", strings.Join(done, ", "))
}
