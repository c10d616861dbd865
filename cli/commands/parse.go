package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/query-serializer/cli/internal/ui"
	"github.com/satishbabariya/query-serializer/query/serializer"
)

var parseCmd = &cobra.Command{
	Use:   "parse <column>...",
	Short: "Show how column aliases map to record paths",
	Long: `Parse column aliases without touching a database.

Prints one row per column with its path and markers, followed by the shape
of a record built from those columns.`,
	Example: `  qs parse id name organization__name "purchases[]__id" _secret`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runParse,
}

var (
	parseSeparator   string
	parseArraySuffix string
	parseStrict      bool
)

func init() {
	parseCmd.Flags().StringVar(&parseSeparator, "separator", "", "path separator in column aliases (default \"__\")")
	parseCmd.Flags().StringVar(&parseArraySuffix, "array-suffix", "", "array marker in column aliases (default \"[]\")")
	parseCmd.Flags().BoolVar(&parseStrict, "strict", false, "reject columns that declare more than one array")

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	syntax, err := resolveSyntax(currentConfig(), parseSeparator, parseArraySuffix)
	if err != nil {
		return err
	}

	opts := []serializer.Option{serializer.WithSyntax(syntax)}
	if parseStrict {
		opts = append(opts, serializer.WithStrictArrays())
	}
	specs, err := serializer.New(opts...).Parse(args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := ui.PrintTable(out, []string{"Column", "Path", "Array", "Suppressed"}, specRows(specs)); err != nil {
		return err
	}

	shape, err := recordShape(specs)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, ui.Indent(shape, "  "))
	return nil
}

func specRows(specs []serializer.PathSpec) [][]string {
	rows := make([][]string, 0, len(specs))
	for _, spec := range specs {
		var names []string
		var array, suppressed bool
		for _, seg := range spec.Segments() {
			name := seg.Name
			if seg.IsArray {
				name += "[]"
				array = true
			}
			if seg.IsSuppressed {
				suppressed = true
			}
			names = append(names, name)
		}
		rows = append(rows, []string{spec.Column, strings.Join(names, "."), ui.Flag(array), ui.Flag(suppressed)})
	}
	return rows
}

// recordShape merges a row holding each column's own alias to show the record layout
func recordShape(specs []serializer.PathSpec) (string, error) {
	row := make([]interface{}, len(specs))
	for i, spec := range specs {
		row[i] = spec.Column
	}

	record, err := serializer.Merge(row, specs, nil)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
