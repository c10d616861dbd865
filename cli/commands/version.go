package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/query-serializer/cli/internal/ui"
	"github.com/satishbabariya/query-serializer/cli/internal/update"
	"github.com/satishbabariya/query-serializer/cli/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

var versionCheck bool

func init() {
	versionCmd.Flags().BoolVar(&versionCheck, "check", false, "check whether a newer release is available")

	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := version.Get()
	if err := ui.PrintTable(cmd.OutOrStdout(), []string{"Field", "Value"}, info.Rows()); err != nil {
		return err
	}

	if !versionCheck {
		return nil
	}

	result, err := update.Check(info.Version, update.Latest())
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}
	if result.Available {
		ui.PrintWarning("A new version is available: %s (current: %s)", result.Latest, result.Current)
		ui.PrintInfo("Update with: %s", update.InstallHint())
		return nil
	}
	ui.PrintSuccess("You are using the latest version (%s)", result.Current)
	return nil
}
