// Package commands implements the qs command line.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/query-serializer/cli/internal/config"
	"github.com/satishbabariya/query-serializer/cli/internal/ui"
	"github.com/satishbabariya/query-serializer/cli/internal/version"
	"github.com/satishbabariya/query-serializer/internal/debug"
)

var (
	cfgFile   string
	debugMode bool

	// cfg is loaded before every command runs
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "qs",
	Short: "Serialize flat SQL results into nested JSON records",
	Long: `qs runs a SQL query and turns each result row into nested JSON.

Column aliases describe the shape of the output:

  organization__name   nested object field
  purchases[]__id      field of an element in an array
  _internal            dropped from the output

Rows that share the value of their first column are merged into one record.
Run "qs syntax" for the full guide.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded

		debug.Init(debugMode || cfg.Debug)
		if cfg.File != "" {
			debug.Debug("Loaded config", "file", cfg.File)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.query-serializer.yaml or ~/.query-serializer.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")
}

// Execute is the main entry point for the CLI
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		ui.PrintError("%v", err)
		return err
	}
	return nil
}
