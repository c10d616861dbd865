package serializer

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/query-serializer/internal/debug"
)

const (
	// DefaultSeparator splits a column name into nested keys
	DefaultSeparator = "__"
	// DefaultArraySuffix marks a segment as an array group
	DefaultArraySuffix = "[]"
	// SuppressPrefix marks a segment whose value is read but never written
	SuppressPrefix = "_"
)

// Syntax configures how column names are split into paths
type Syntax struct {
	Separator   string
	ArraySuffix string
}

// DefaultSyntax returns the "__" / "[]" syntax
func DefaultSyntax() Syntax {
	return Syntax{Separator: DefaultSeparator, ArraySuffix: DefaultArraySuffix}
}

// Validate checks that both markers are set and distinct
func (s Syntax) Validate() error {
	if s.Separator == "" {
		return fmt.Errorf("%w: separator must not be empty", ErrInvalidSyntax)
	}
	if s.ArraySuffix == "" {
		return fmt.Errorf("%w: array suffix must not be empty", ErrInvalidSyntax)
	}
	if s.Separator == s.ArraySuffix {
		return fmt.Errorf("%w: separator and array suffix are both %q", ErrInvalidSyntax, s.Separator)
	}
	return nil
}

// Segment is one separator-delimited part of a column name
type Segment struct {
	Name         string
	IsObject     bool
	IsArray      bool
	IsSuppressed bool
	HasNext      bool
	Next         *Segment
}

// PathSpec is the parsed form of one column name
type PathSpec struct {
	Column string
	Root   *Segment
}

// Len returns the number of segments in the chain
func (p PathSpec) Len() int {
	n := 0
	for s := p.Root; s != nil; s = s.Next {
		n++
	}
	return n
}

// Segments returns the chain as a slice, root first
func (p PathSpec) Segments() []Segment {
	var out []Segment
	for s := p.Root; s != nil; s = s.Next {
		out = append(out, *s)
	}
	return out
}

// ArrayGroup returns the array group name of the column, if its root is an array
func (p PathSpec) ArrayGroup() (string, bool) {
	if p.Root == nil || !p.Root.IsArray || p.Root.IsSuppressed {
		return "", false
	}
	return p.Root.Name, true
}

// ParseColumn parses one column name into a PathSpec
func ParseColumn(column string, syntax Syntax) (PathSpec, error) {
	if err := syntax.Validate(); err != nil {
		return PathSpec{}, err
	}

	parts := strings.Split(column, syntax.Separator)
	last := len(parts) - 1

	segments := make([]*Segment, len(parts))
	for i, part := range parts {
		isArray := strings.HasSuffix(part, syntax.ArraySuffix)
		if isArray && i > 0 {
			return PathSpec{}, &ColumnSpecError{Column: column, Segment: part, Index: i}
		}

		name := part
		if isArray {
			name = strings.TrimSuffix(part, syntax.ArraySuffix)
		}

		segments[i] = &Segment{
			Name:         name,
			IsObject:     !isArray && i < last,
			IsArray:      isArray,
			IsSuppressed: strings.HasPrefix(part, SuppressPrefix),
		}
	}

	// Link tail first so every segment sees its continuation
	var next *Segment
	for i := last; i >= 0; i-- {
		segments[i].Next = next
		segments[i].HasNext = next != nil
		next = segments[i]
	}

	return PathSpec{Column: column, Root: next}, nil
}

// ParseColumns parses every column once, preserving order
func ParseColumns(columns []string, syntax Syntax) ([]PathSpec, error) {
	specs := make([]PathSpec, 0, len(columns))
	for _, column := range columns {
		spec, err := ParseColumn(column, syntax)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}

	if groups := ArrayGroups(specs); len(groups) > 1 {
		debug.Warn("multiple array groups in one result set; per-row append behaviour is unverified",
			"groups", groups)
	}
	debug.Debug("parsed columns", "count", len(specs))

	return specs, nil
}

// ArrayGroups returns the distinct array group names in first-seen order
func ArrayGroups(specs []PathSpec) []string {
	var groups []string
	seen := make(map[string]bool)
	for _, spec := range specs {
		name, ok := spec.ArrayGroup()
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		groups = append(groups, name)
	}
	return groups
}
