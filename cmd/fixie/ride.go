package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/fixie/internal/platform/tui"
	"github.com/vovakirdan/fixie/internal/ride"
)

var flagLevel int

var rideCmd = &cobra.Command{
	Use:   "ride",
	Short: "Start riding",
	Long: `Start a ride right away.

Controls:
  Left/A, Right/D  - Pedal (alternate!)
  Enter            - Next level
  P/Esc            - Pause
  R                - Restart (after game over or finish)
  L                - Leaderboard (after game over or finish)
  M                - Menu (while paused or after the ride)
  Q/Ctrl+C         - Quit

Difficulty options:
  easy    - Wider pedal window, bigger stamina pool, shorter levels
  normal  - The standard tuning
  hard    - Narrower window, smaller pool, longer levels

Examples:
  fixie ride
  fixie ride --level 3
  fixie ride --difficulty easy
  fixie ride --config ./my-fixie.yaml`,
	RunE: runRide,
}

func init() {
	rideCmd.Flags().IntVar(&flagLevel, "level", 1, "Level to start from")
}

func runRide(_ *cobra.Command, _ []string) error {
	e, err := openEnv(nil)
	if err != nil {
		return err
	}
	defer e.close()

	if !e.catalog.Has(flagLevel) {
		return fmt.Errorf("unknown level %d (levels 1-%d)", flagLevel, e.catalog.MaxLevel())
	}
	e.checkBackend()

	runtime := e.runtime()
	game := e.newGame(flagLevel)

	result, err := tui.RunRide(game, nil, runtime)
	if err != nil {
		return fmt.Errorf("running ride: %w", err)
	}

	switch {
	case result.WantsLeaderboard:
		if _, err := tui.RunLeaderboard(e.store, e.remote(), runtime.Player, runtime.ScreenW, runtime.ScreenH); err != nil {
			return fmt.Errorf("running leaderboard: %w", err)
		}
	case result.BackToMenu:
		if err := tui.RunApp(tui.AppOptions{
			Runtime: runtime,
			Catalog: e.catalog,
			NewGame: e.newGame,
			Store:   e.store,
			Remote:  e.remote(),
		}); err != nil {
			return fmt.Errorf("running menu: %w", err)
		}
		return nil
	}

	if result.Reported {
		printSummary(result.Summary)
	}
	return nil
}

func printSummary(s ride.Summary) {
	fmt.Printf("Ride over: %s\n", s.Outcome)
	fmt.Println()
	fmt.Printf("  Level reached    %d (%d completed)\n", s.Level, s.LevelsCompleted)
	fmt.Printf("  Distance         %.0f m\n", s.TotalDistance)
	fmt.Printf("  Time             %.1fs\n", s.TotalTime)
	fmt.Printf("  Top speed        %.1f\n", s.MaxSpeed)
	fmt.Printf("  Clean strokes    %d/%d (%.0f%%)\n", s.SuccessfulPedals, s.TotalPedals, s.SuccessRatio*100)
	for _, lt := range s.LevelTimes {
		status := "unfinished"
		if lt.Completed {
			status = "done"
		}
		fmt.Printf("  Level %-2d         %.1fs %s\n", lt.Level, lt.Seconds, status)
	}
}
