package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List the level table",
	Long:  `Shows every level with its target distance, after config and difficulty are applied.`,
	RunE:  runLevels,
}

func runLevels(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return err
	}
	params, err := cfg.PhysicsParams()
	if err != nil {
		return err
	}

	fmt.Println("Levels:")
	fmt.Println()
	fmt.Printf("  %-5s  %-10s  %s\n", "Level", "Distance", "Cumulative")
	fmt.Printf("  %-5s  %-10s  %s\n", "-----", "--------", "----------")

	total := 0.0
	for _, lvl := range catalog.Levels() {
		total += lvl.Distance
		fmt.Printf("  %-5d  %-10s  %s\n", lvl.Number,
			fmt.Sprintf("%.0f m", lvl.Distance), fmt.Sprintf("%.0f m", total))
	}

	fmt.Println()
	fmt.Printf("Pedal window %d-%d ms, top speed %.0f, stamina %.0f\n",
		params.MinPedalInterval, params.MaxPedalInterval, params.MaxSpeed, params.MaxStamina)
	fmt.Println("Run 'fixie ride --level <n>' to start from a level.")
	return nil
}
