package commands

import (
	"github.com/spf13/cobra"

	"github.com/satishbabariya/query-serializer/cli/internal/config"
	"github.com/satishbabariya/query-serializer/cli/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or write the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		file := c.File
		if file == "" {
			file = "(none)"
		}
		return ui.PrintTable(cmd.OutOrStdout(), []string{"Key", "Value"}, [][]string{
			{"file", file},
			{"database_url", c.DatabaseURL},
			{"provider", c.Provider},
			{"separator", c.Separator},
			{"array_suffix", c.ArraySuffix},
			{"format", c.Format},
			{"debug", ui.Flag(c.Debug)},
		})
	},
}

var configInitPath string

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to a file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := *currentConfig()
		// Credentials stay in DATABASE_URL or .env
		c.DatabaseURL = ""

		path, err := config.SaveConfig(&c, configInitPath)
		if err != nil {
			return err
		}
		ui.PrintSuccess("Wrote %s", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().StringVar(&configInitPath, "path", ".query-serializer.yaml", "file to write (empty for ~/.config/query-serializer)")

	configCmd.AddCommand(configShowCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}
