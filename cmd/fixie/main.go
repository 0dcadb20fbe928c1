// fixie is a rhythm-pedaling cycling game for the terminal.
//
// Usage:
//
//	fixie                    - Start the menu
//	fixie ride               - Ride from level 1 (or --level N)
//	fixie levels             - List the level table
//	fixie scores             - Show the leaderboard
//	fixie serve              - Start SSH server for remote riders
//	fixie config             - Print the effective configuration
//
// Global flags:
//
//	--config <path>      - Config file (default: search ~/.fixie/configs, ./configs)
//	--difficulty <name>  - Preset: easy, normal, hard
//	--db <path>          - Ride database (default: ~/.fixie/fixie.db)
//	--fps <rate>         - Tick rate (default from config, 60)
//	--player <name>      - Player name reported with rides
//	--backend <url>      - Session API base URL (empty = offline)
//	--verbose            - Debug logging
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig     string
	flagDifficulty string
	flagDBPath     string
	flagFPS        int
	flagPlayer     string
	flagBackend    string
	flagVerbose    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fixie",
	Short: "Fixie Dash - keep the rhythm, ride the distance",
	Long: `Fixie Dash is a terminal cycling game. Press left and right alternately:
the time between strokes sets your speed, and stroking far off the rhythm
drains your stamina. Reach each level's distance before you stall or run
out of stamina.

Available commands:
  menu     - Interactive menu (default)
  ride     - Start riding directly
  levels   - Show the level table
  scores   - View the leaderboard
  serve    - Start SSH server for remote play
  config   - Print the effective configuration

Examples:
  fixie
  fixie ride --level 3 --difficulty hard
  fixie scores --player alice
  fixie serve --ssh :2222
  fixie --backend http://localhost:3000 ride`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runMenu,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to ride database (default from config)")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "", "Player name (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Session API base URL (default from config)")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(rideCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}
