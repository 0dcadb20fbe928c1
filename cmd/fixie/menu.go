package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/fixie/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start fixie with the level menu",
	Long: `Start fixie in interactive menu mode. This is also what plain "fixie" does.

Pick a starting level or the leaderboard. After a ride you return to the
menu to go again.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Tab          - Leaderboard
  Q            - Quit

Examples:
  fixie menu
  fixie menu --fps 30
  fixie menu --db ./rides.db`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	e, err := openEnv(nil)
	if err != nil {
		return err
	}
	defer e.close()
	e.checkBackend()

	if err := tui.RunApp(tui.AppOptions{
		Runtime: e.runtime(),
		Catalog: e.catalog,
		NewGame: e.newGame,
		Store:   e.store,
		Remote:  e.remote(),
	}); err != nil {
		return fmt.Errorf("running menu: %w", err)
	}
	return nil
}
