package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/query-serializer/cli/internal/config"
	"github.com/satishbabariya/query-serializer/cli/internal/ui"
	"github.com/satishbabariya/query-serializer/cli/internal/watch"
	"github.com/satishbabariya/query-serializer/internal/debug"
	"github.com/satishbabariya/query-serializer/query/executor"
	"github.com/satishbabariya/query-serializer/query/filter"
	"github.com/satishbabariya/query-serializer/query/serializer"
)

var serializeCmd = &cobra.Command{
	Use:   "serialize [query-file]",
	Short: "Run a query and print nested JSON records",
	Long: `Run a SQL query and print its rows as nested JSON records.

The query comes from --query, from a file argument, or from stdin when the
file is "-". Positional parameters are bound in order with --param.

Each --where clause is ANDed into the WHERE clause that replaces a {filter}
placeholder in the query, or is appended to the end of it.`,
	Example: `  qs serialize -q "SELECT id, name, purchases.id AS \"purchases[]__id\" FROM ..." --url ./dev.db
  qs serialize customers.sql --where "customer.id = ?" --param 7 --format pretty
  qs serialize customers.sql --watch`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSerialize,
}

var (
	serializeQuery       string
	serializeURL         string
	serializeProvider    string
	serializeSeparator   string
	serializeArraySuffix string
	serializeGroupBy     string
	serializeFormat      string
	serializeOutput      string
	serializeParams      []string
	serializeWhere       []string
	serializeStrict      bool
	serializeWatch       bool
	serializeInteractive bool
)

func init() {
	serializeCmd.Flags().StringVarP(&serializeQuery, "query", "q", "", "SQL query to run")
	serializeCmd.Flags().StringVar(&serializeURL, "url", "", "database connection URL (overrides config)")
	serializeCmd.Flags().StringVar(&serializeProvider, "provider", "", "database provider: postgres, mysql or sqlite (detected from the URL by default)")
	serializeCmd.Flags().StringVar(&serializeSeparator, "separator", "", "path separator in column aliases (default \"__\")")
	serializeCmd.Flags().StringVar(&serializeArraySuffix, "array-suffix", "", "array marker in column aliases (default \"[]\")")
	serializeCmd.Flags().StringVar(&serializeGroupBy, "group-by", "", "column whose value identifies a record (default is the first column)")
	serializeCmd.Flags().StringVarP(&serializeFormat, "format", "f", "", "output format: json, pretty, ndjson or dump")
	serializeCmd.Flags().StringVarP(&serializeOutput, "output", "o", "", "write records to a file instead of stdout")
	serializeCmd.Flags().StringArrayVarP(&serializeParams, "param", "p", nil, "positional query parameter (repeatable)")
	serializeCmd.Flags().StringArrayVar(&serializeWhere, "where", nil, "filter clause ANDed into the query (repeatable)")
	serializeCmd.Flags().BoolVar(&serializeStrict, "strict", false, "reject queries that declare more than one array")
	serializeCmd.Flags().BoolVarP(&serializeWatch, "watch", "w", false, "re-run when the query file changes")
	serializeCmd.Flags().BoolVarP(&serializeInteractive, "interactive", "i", false, "prompt for the query and connection")

	rootCmd.AddCommand(serializeCmd)
}

func runSerialize(cmd *cobra.Command, args []string) error {
	c := currentConfig()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var queryFile string
	if len(args) > 0 {
		queryFile = args[0]
	}

	format := firstNonEmpty(serializeFormat, c.Format, FormatJSON)
	if err := validateFormat(format); err != nil {
		return err
	}

	if serializeWatch && (serializeQuery != "" || queryFile == "" || queryFile == "-") {
		return fmt.Errorf("--watch needs a query file argument")
	}

	if serializeInteractive {
		if err := promptSerialize(c.DatabaseURL); err != nil {
			return err
		}
	}

	s, err := buildSerializer(c)
	if err != nil {
		return err
	}

	url, provider, err := resolveConnection(c, serializeURL, serializeProvider)
	if err != nil {
		return err
	}

	exec, err := executor.Open(ctx, provider, url)
	if err != nil {
		return err
	}
	defer exec.Close()

	debug.Debug("Connected", "provider", provider)

	if serializeWatch {
		return watchSerialize(ctx, cmd.OutOrStdout(), exec, s, queryFile, format)
	}

	query, err := readQuery(serializeQuery, queryFile, cmd.InOrStdin())
	if err != nil {
		return err
	}

	records, err := exec.Serialize(ctx, querySource(query), s)
	if err != nil {
		return err
	}
	return emitRecords(cmd.OutOrStdout(), records, format)
}

// buildSerializer applies flag and config settings to a new serializer
func buildSerializer(c *config.Config) (*serializer.Serializer, error) {
	syntax, err := resolveSyntax(c, serializeSeparator, serializeArraySuffix)
	if err != nil {
		return nil, err
	}

	opts := []serializer.Option{serializer.WithSyntax(syntax)}
	if serializeGroupBy != "" {
		opts = append(opts, serializer.WithGroupColumn(serializeGroupBy))
	}
	if serializeStrict {
		opts = append(opts, serializer.WithStrictArrays())
	}
	if serializeWatch {
		opts = append(opts, serializer.WithParseCache(watchParseCacheSize))
	}
	return serializer.New(opts...), nil
}

// querySource binds --param values and --where clauses to query
func querySource(query string) executor.QuerySource {
	params := parseParams(serializeParams)
	if len(serializeWhere) == 0 {
		return executor.Static(query, params...)
	}

	f := filter.New()
	for _, clause := range serializeWhere {
		f.Add(filter.Clause(clause))
	}
	return executor.WithFilter(query, f, params...)
}

// emitRecords writes records to --output, or to w
func emitRecords(w io.Writer, records []*serializer.Object, format string) error {
	if serializeOutput == "" {
		return writeRecords(w, records, format)
	}

	f, err := os.Create(serializeOutput)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := writeRecords(f, records, format); err != nil {
		return err
	}
	ui.PrintSuccess("Wrote %d records to %s", len(records), serializeOutput)
	return nil
}

// watchParseCacheSize bounds the column lists kept while a query file is edited
const watchParseCacheSize = 16

// watchSerialize re-runs the query file on every change until interrupted
func watchSerialize(ctx context.Context, out io.Writer, exec *executor.Executor, s *serializer.Serializer, queryFile, format string) error {
	var lastQuery string

	run := func() error {
		query, err := readQuery("", queryFile, nil)
		if err != nil {
			return err
		}
		// Statements prepared for an older version of the file are never reused
		if query != lastQuery {
			exec.ClearStmtCache()
			lastQuery = query
		}

		records, err := exec.SerializePrepared(ctx, querySource(query), s)
		if err != nil {
			ui.PrintError("%v", err)
			return err
		}
		stats := s.CacheStats()
		debug.Debug("Watch run complete", "records", len(records), "parse_cache_hits", stats.Hits, "parse_cache_misses", stats.Misses)
		return emitRecords(out, records, format)
	}

	w, err := watch.NewWatcher(queryFile, run)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		w.Stop()
		return err
	}
	defer w.Stop()

	ui.PrintInfo("Watching %s for changes (press Ctrl+C to stop)", queryFile)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-sigChan:
	case <-ctx.Done():
	}
	fmt.Fprintln(ui.Out)
	ui.PrintInfo("Stopped watching")
	return nil
}

// promptSerialize asks for the values that were not given as flags
func promptSerialize(defaultURL string) error {
	if serializeURL == "" && defaultURL == "" {
		if err := survey.AskOne(&survey.Input{
			Message: "Database URL:",
			Help:    "postgres://, mysql:// or a SQLite file path",
		}, &serializeURL, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}

	if serializeQuery == "" {
		if err := survey.AskOne(&survey.Multiline{
			Message: "SQL query:",
		}, &serializeQuery, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}
	return nil
}
