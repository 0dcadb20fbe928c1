package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/fixie/internal/config"
)

var flagDefaultConfig bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration fixie would use, as YAML, after the config file,
difficulty preset and command-line overrides are applied.

With --default the built-in configuration is printed instead; it is a good
starting point for ~/.fixie/configs/fixie.yaml.

Examples:
  fixie config
  fixie config --difficulty hard
  fixie config --default > ~/.fixie/configs/fixie.yaml`,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagDefaultConfig, "default", false, "Print the built-in default configuration")
}

func runConfig(_ *cobra.Command, _ []string) error {
	if flagDefaultConfig {
		_, err := os.Stdout.Write(config.DefaultYAML())
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
