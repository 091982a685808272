package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/OpenTraceLab/ee2kicad/internal/config"
	"github.com/OpenTraceLab/ee2kicad/internal/logging"
)

var (
	// Global flags
	verbose    bool
	configFile string

	// Set up by PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ee2kicad",
	Short: "Decode EasyEDA components for KiCad",
	Long: `Fetch EasyEDA/LCSC components and decode their schematic symbol,
PCB footprint and 3-D model placement.

Examples:
  ee2kicad decode C2040                         # Fetch and summarise a component
  ee2kicad decode --footprint --3d C2040 C25804 # Only footprint and 3-D data
  ee2kicad decode --file payload.json --json    # Decode a saved API response`,
	Version:           config.Version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default .ee2kicad/config.yml)")
}

func setup(cmd *cobra.Command, _ []string) error {
	var err error
	if configFile != "" {
		cfg, err = config.NewFileLoader(configFile).Load()
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return err
	}

	logCfg := cfg.LoggingConfig()
	if verbose {
		logCfg.Level = "debug"
	}
	logger, err = logging.New(logCfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	return nil
}
