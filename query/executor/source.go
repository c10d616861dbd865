package executor

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/query-serializer/query/filter"
)

// FilterPlaceholder marks where WithFilter inserts the constructed clause
const FilterPlaceholder = "{filter}"

// QuerySource supplies the query text and its params
type QuerySource interface {
	QueryAndParams() (string, []interface{}, error)
}

// QuerySourceFunc adapts a function to QuerySource
type QuerySourceFunc func() (string, []interface{}, error)

// QueryAndParams implements QuerySource
func (f QuerySourceFunc) QueryAndParams() (string, []interface{}, error) {
	return f()
}

// Static returns a source for a fixed query
func Static(query string, params ...interface{}) QuerySource {
	return QuerySourceFunc(func() (string, []interface{}, error) {
		return query, params, nil
	})
}

// WithFilter returns a source that adds the clause built by f to query. The
// clause replaces FilterPlaceholder when query contains it and is appended
// otherwise. params bind the placeholders of query in order; the filter's
// params are spliced in at the position of the clause, so placeholders after
// FilterPlaceholder still bind to their own params. The filter is constructed
// on every call.
func WithFilter(query string, f *filter.Filter, params ...interface{}) QuerySource {
	return QuerySourceFunc(func() (string, []interface{}, error) {
		clause, filterParams := f.Construct()

		at := strings.Index(query, FilterPlaceholder)
		if at < 0 {
			text := query
			if clause != "" {
				text = strings.TrimRight(query, " \t\n;") + " " + clause
			}
			return text, concatParams(params, filterParams), nil
		}

		before := len(placeholders(query[:at]))
		if before > len(params) {
			return "", nil, fmt.Errorf("query has %d placeholders before %s but only %d params", before, FilterPlaceholder, len(params))
		}

		text := query[:at] + clause + query[at+len(FilterPlaceholder):]
		return text, concatParams(params[:before], filterParams, params[before:]), nil
	})
}

func concatParams(groups ...[]interface{}) []interface{} {
	n := 0
	for _, g := range groups {
		n += len(g)
	}
	all := make([]interface{}, 0, n)
	for _, g := range groups {
		all = append(all, g...)
	}
	return all
}
