package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/fixie/internal/storage"
)

var (
	flagOnline bool
	flagLimit  int
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the leaderboard",
	Long: `Display the best rides, the fastest time for every level and overall
statistics from the local ride database.

With --player only that player's rides are listed, newest first.
With --online the leaderboard is fetched from the session API instead.

Examples:
  fixie scores
  fixie scores --player alice
  fixie scores --online --backend http://localhost:3000`,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagOnline, "online", false, "Show the online leaderboard")
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of rows to show")
}

func runScores(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(os.Stderr)
	if err != nil {
		return err
	}
	defer e.close()

	if flagOnline {
		return printOnline(e)
	}
	if e.store == nil {
		return fmt.Errorf("ride database %s is not available", e.cfg.Storage.DBPath)
	}
	if cmd.Flags().Changed("player") {
		return printPlayerRides(e.store, e.cfg.Player.Name)
	}
	return printLeaderboard(e.store)
}

func printLeaderboard(store *storage.Store) error {
	rides, err := store.TopRides(flagLimit)
	if err != nil {
		return fmt.Errorf("retrieving rides: %w", err)
	}

	fmt.Println("Top rides")
	fmt.Println()

	if len(rides) == 0 {
		fmt.Println("No rides recorded yet.")
		fmt.Println()
		fmt.Println("Run 'fixie ride' to set the first record!")
		return nil
	}

	fmt.Printf("  %-4s  %-14s  %-10s  %-9s  %-6s  %s\n", "Rank", "Player", "Distance", "Time", "Top", "Outcome")
	fmt.Printf("  %-4s  %-14s  %-10s  %-9s  %-6s  %s\n", "----", "------", "--------", "----", "---", "-------")
	for i, r := range rides {
		fmt.Printf("  %-4d  %-14s  %-10s  %-9s  %-6.1f  %s\n", i+1, r.Player,
			fmt.Sprintf("%.0f m", r.TotalDistance), fmt.Sprintf("%.1fs", r.TotalTime), r.MaxSpeed, r.Outcome)
	}

	best, err := store.BestLevelTimes()
	if err != nil {
		return fmt.Errorf("retrieving level times: %w", err)
	}
	if len(best) > 0 {
		fmt.Println()
		fmt.Println("Fastest levels")
		fmt.Println()
		for _, b := range best {
			fmt.Printf("  Level %-2d  %7.1fs  %s\n", b.Level, b.Seconds, b.Player)
		}
	}

	stats, err := store.Stats()
	if err == nil {
		fmt.Println()
		fmt.Printf("%d rides, %d finished, %.0f m in total, best %.0f m, top speed %.1f\n",
			stats.Rides, stats.Finished, stats.TotalDistance, stats.BestDistance, stats.TopSpeed)
	}
	return nil
}

func printPlayerRides(store *storage.Store, player string) error {
	rides, err := store.PlayerRides(player, flagLimit)
	if err != nil {
		return fmt.Errorf("retrieving rides: %w", err)
	}

	fmt.Printf("Rides of %s\n", player)
	fmt.Println()

	if len(rides) == 0 {
		fmt.Println("No rides recorded yet.")
		return nil
	}

	fmt.Printf("  %-16s  %-10s  %-5s  %-10s  %s\n", "Date", "Outcome", "Level", "Distance", "Time")
	fmt.Printf("  %-16s  %-10s  %-5s  %-10s  %s\n", "----", "-------", "-----", "--------", "----")
	for _, r := range rides {
		outcome := r.Outcome
		if !r.Finished() {
			outcome = "riding"
		}
		fmt.Printf("  %-16s  %-10s  %-5d  %-10s  %.1fs\n", r.StartedAt.Local().Format("2006-01-02 15:04"),
			outcome, r.LevelReached, fmt.Sprintf("%.0f m", r.TotalDistance), r.TotalTime)
	}
	return nil
}

func printOnline(e *env) error {
	if e.api == nil {
		return fmt.Errorf("no backend configured; pass --backend or set backend.url")
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.Backend.Timeout)
	defer cancel()
	entries, err := e.api.Leaderboard(ctx, flagLimit)
	if err != nil {
		return fmt.Errorf("fetching online leaderboard: %w", err)
	}

	fmt.Printf("Online leaderboard - %s\n", e.cfg.Backend.URL)
	fmt.Println()
	if len(entries) == 0 {
		fmt.Println("Nobody has posted a ride yet.")
		return nil
	}

	fmt.Printf("  %-4s  %-14s  %-10s  %s\n", "Rank", "Player", "Distance", "Time")
	fmt.Printf("  %-4s  %-14s  %-10s  %s\n", "----", "------", "--------", "----")
	for i, entry := range entries {
		fmt.Printf("  %-4d  %-14s  %-10s  %.1fs\n", i+1, entry.Username,
			fmt.Sprintf("%.0f m", entry.TotalDistance), entry.CompletionTime)
	}
	return nil
}
