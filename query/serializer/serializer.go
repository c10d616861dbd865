package serializer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/satishbabariya/query-serializer/internal/debug"
	"github.com/satishbabariya/query-serializer/query/cache"
)

// Rows is a lazily produced sequence of rows. Its shape follows *sql.Rows:
// call Next before each Values, then check Err once Next returns false.
type Rows interface {
	Next() bool
	Values() ([]interface{}, error)
	Err() error
}

// Serializer groups and nests flat rows into records
type Serializer struct {
	syntax       Syntax
	keyFn        KeyFunc
	groupColumn  string
	postProcess  PostProcessFunc
	strictArrays bool
	specCache    *cache.LRU[[]PathSpec]
}

// Option configures a Serializer
type Option func(*Serializer)

// WithSyntax sets the separator and array suffix
func WithSyntax(syntax Syntax) Option {
	return func(s *Serializer) {
		s.syntax = syntax
	}
}

// WithGroupKey overrides the default first-column group key
func WithGroupKey(fn KeyFunc) Option {
	return func(s *Serializer) {
		s.keyFn = fn
	}
}

// WithGroupColumn groups rows by the value of the named column. The name is
// resolved against the column list of each result set.
func WithGroupColumn(column string) Option {
	return func(s *Serializer) {
		s.groupColumn = column
	}
}

// WithPostProcess sets a hook run after every row merged into a record
func WithPostProcess(fn PostProcessFunc) Option {
	return func(s *Serializer) {
		s.postProcess = fn
	}
}

// WithStrictArrays rejects column lists declaring more than one array group
func WithStrictArrays() Option {
	return func(s *Serializer) {
		s.strictArrays = true
	}
}

// WithParseCache keeps the parsed specs of up to size distinct column lists,
// for callers that run the same query repeatedly
func WithParseCache(size int) Option {
	return func(s *Serializer) {
		s.specCache = cache.New[[]PathSpec](size)
	}
}

// New creates a serializer using the default syntax and first-column grouping
func New(opts ...Option) *Serializer {
	s := &Serializer{
		syntax: DefaultSyntax(),
		keyFn:  FirstColumn,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CacheStats reports parse cache usage; the zero Stats when caching is off
func (s *Serializer) CacheStats() cache.Stats {
	if s.specCache == nil {
		return cache.Stats{}
	}
	return s.specCache.Stats()
}

// Syntax returns the column syntax in use
func (s *Serializer) Syntax() Syntax {
	return s.syntax
}

// Parse parses the column list once for a result set. With a parse cache the
// returned slice may be shared between calls and must not be modified.
func (s *Serializer) Parse(columns []string) ([]PathSpec, error) {
	var key string
	if s.specCache != nil {
		key = strings.Join(columns, "\x00")
		if specs, ok := s.specCache.Get(key); ok {
			debug.Debug("parse cache hit", "columns", len(columns))
			return specs, nil
		}
	}

	specs, err := ParseColumns(columns, s.syntax)
	if err != nil {
		return nil, err
	}
	if s.strictArrays {
		if groups := ArrayGroups(specs); len(groups) > 1 {
			return nil, fmt.Errorf("%w: %v", ErrMultipleArrayGroups, groups)
		}
	}

	if s.specCache != nil {
		s.specCache.Set(key, specs)
	}
	return specs, nil
}

// Serialize consumes rows in order and returns one pruned record per group
// key, in first-seen order. Any error aborts the whole call.
func (s *Serializer) Serialize(columns []string, rows Rows) ([]*Object, error) {
	specs, err := s.Parse(columns)
	if err != nil {
		return nil, err
	}

	keyFn := s.keyFn
	if s.groupColumn != "" {
		index := columnIndex(columns, s.groupColumn)
		if index < 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownGroupColumn, s.groupColumn)
		}
		keyFn = GroupByColumn(index)
	}

	grouper := NewGrouper(specs, keyFn, s.postProcess)
	for rows.Next() {
		row, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", grouper.Rows(), err)
		}
		if err := grouper.Add(row); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	records := grouper.Records()
	for i, record := range records {
		records[i] = PruneRecord(record)
	}

	debug.Debug("serialized rows", "rows", grouper.Rows(), "records", len(records))
	return records, nil
}

func columnIndex(columns []string, name string) int {
	for i, column := range columns {
		if column == name {
			return i
		}
	}
	return -1
}

// SerializeRows serializes an in-memory result set
func (s *Serializer) SerializeRows(columns []string, rows [][]interface{}) ([]*Object, error) {
	return s.Serialize(columns, SliceRows(rows))
}

// SliceRows adapts an in-memory result set to Rows
func SliceRows(rows [][]interface{}) Rows {
	return &sliceRows{rows: rows, pos: -1}
}

type sliceRows struct {
	rows [][]interface{}
	pos  int
}

func (r *sliceRows) Next() bool {
	if r.pos+1 >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *sliceRows) Values() ([]interface{}, error) {
	if r.pos < 0 || r.pos >= len(r.rows) {
		return nil, errors.New("no current row: call Next first")
	}
	return r.rows[r.pos], nil
}

func (r *sliceRows) Err() error {
	return nil
}
