package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/satishbabariya/query-serializer/cli/internal/config"
	"github.com/satishbabariya/query-serializer/query/executor"
	"github.com/satishbabariya/query-serializer/query/serializer"
)

// Output formats accepted by --format
const (
	FormatJSON   = "json"
	FormatPretty = "pretty"
	FormatNDJSON = "ndjson"
	FormatDump   = "dump"
)

var formats = []string{FormatJSON, FormatPretty, FormatNDJSON, FormatDump}

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// currentConfig returns the loaded config, or defaults when no command has loaded one
func currentConfig() *config.Config {
	if cfg != nil {
		return cfg
	}
	return &config.Config{
		Separator:   serializer.DefaultSeparator,
		ArraySuffix: serializer.DefaultArraySuffix,
		Format:      FormatJSON,
	}
}

// firstNonEmpty returns the first non-empty value
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// resolveSyntax merges flag values over the config
func resolveSyntax(c *config.Config, separator, arraySuffix string) (serializer.Syntax, error) {
	syntax := serializer.Syntax{
		Separator:   firstNonEmpty(separator, c.Separator, serializer.DefaultSeparator),
		ArraySuffix: firstNonEmpty(arraySuffix, c.ArraySuffix, serializer.DefaultArraySuffix),
	}
	if err := syntax.Validate(); err != nil {
		return serializer.Syntax{}, err
	}
	return syntax, nil
}

// resolveConnection merges flag values over the config and detects the provider
func resolveConnection(c *config.Config, url, provider string) (string, string, error) {
	url = firstNonEmpty(url, c.DatabaseURL)
	if url == "" {
		return "", "", fmt.Errorf("no database URL: pass --url, set database_url in the config file, or set DATABASE_URL")
	}

	provider = firstNonEmpty(provider, c.Provider)
	if provider == "" {
		provider = executor.DetectProvider(url)
	}
	return url, executor.NormalizeProvider(provider), nil
}

// parseParam converts a command line parameter into a SQL argument
func parseParam(s string) interface{} {
	switch strings.ToLower(s) {
	case "null":
		return nil
	case "true":
		return true
	case "false":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func parseParams(values []string) []interface{} {
	params := make([]interface{}, len(values))
	for i, v := range values {
		params[i] = parseParam(v)
	}
	return params
}

// readQuery returns the inline query, or the contents of file ("-" reads stdin)
func readQuery(query, file string, stdin io.Reader) (string, error) {
	if query != "" {
		return query, nil
	}
	if file == "" {
		return "", fmt.Errorf("no query: pass --query, a query file, or --interactive")
	}

	var content []byte
	var err error
	if file == "-" {
		content, err = io.ReadAll(stdin)
	} else {
		content, err = os.ReadFile(file)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read query: %w", err)
	}

	q := strings.TrimSpace(string(content))
	if q == "" {
		return "", fmt.Errorf("query file %s is empty", file)
	}
	return q, nil
}

func validateFormat(format string) error {
	for _, f := range formats {
		if f == format {
			return nil
		}
	}
	return fmt.Errorf("unknown format %q (expected one of %s)", format, strings.Join(formats, ", "))
}

// writeRecords writes records to w in the given format
func writeRecords(w io.Writer, records []*serializer.Object, format string) error {
	if records == nil {
		records = []*serializer.Object{}
	}

	switch format {
	case FormatJSON, "":
		data, err := json.Marshal(records)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err

	case FormatPretty:
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err

	case FormatNDJSON:
		enc := json.NewEncoder(w)
		for _, record := range records {
			if err := enc.Encode(record); err != nil {
				return err
			}
		}
		return nil

	case FormatDump:
		plain := make([]interface{}, len(records))
		for i, record := range records {
			plain[i] = record.Map()
		}
		dumpConfig.Fdump(w, plain)
		return nil
	}

	return validateFormat(format)
}
