package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/query-serializer/cli/internal/ui"
)

const syntaxGuide = `# Column alias syntax

Every column of the result set is named by its alias. The alias is split on
the separator (default ` + "`__`" + `) into a path.

| Alias | Output |
|-------|--------|
| ` + "`name`" + ` | ` + "`{\"name\": ...}`" + ` |
| ` + "`organization__name`" + ` | ` + "`{\"organization\": {\"name\": ...}}`" + ` |
| ` + "`purchases[]__id`" + ` | ` + "`{\"purchases\": [{\"id\": ...}]}`" + ` |
| ` + "`_internal`" + ` | dropped |

## Records

Rows that share the value of the first column (or the ` + "`--group-by`" + `
column) are merged into one record, in the order the keys first appear.
Each row appends one element to every array it names.

## Arrays

The array marker (default ` + "`[]`" + `) is only allowed on the first segment.
Some databases reject ` + "`[]`" + ` in quoted aliases; use ` + "`--array-suffix --`" + `
and write ` + "`purchases--__id`" + ` instead.

## Nulls

Objects whose fields are all null become ` + "`null`" + `, and array elements whose
fields are all null are removed. An array left with no elements becomes ` + "`null`" + `.
A LEFT JOIN without matches therefore serializes as ` + "`\"purchases\": null`" + `.

## Filters

A query may contain a ` + "`{filter}`" + ` placeholder. Each ` + "`--where`" + ` clause is
joined with AND into a WHERE clause that replaces it. Without a placeholder
the WHERE clause is appended to the query.
`

var syntaxCmd = &cobra.Command{
	Use:   "syntax",
	Short: "Explain the column alias syntax",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if syntaxRaw {
			_, err := fmt.Fprint(cmd.OutOrStdout(), syntaxGuide)
			return err
		}
		return ui.PrintMarkdown(cmd.OutOrStdout(), syntaxGuide)
	},
}

var syntaxRaw bool

func init() {
	syntaxCmd.Flags().BoolVar(&syntaxRaw, "raw", false, "print the guide as plain markdown")

	rootCmd.AddCommand(syntaxCmd)
}
