package serializer

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for serialization.
var (
	// ErrInvalidColumnSpec is returned when a column name cannot be parsed into a path.
	ErrInvalidColumnSpec = errors.New("invalid column spec")

	// ErrInvalidSyntax is returned when the separator or array suffix is empty.
	ErrInvalidSyntax = errors.New("invalid column syntax")

	// ErrRowShape is returned when a row does not have one value per column.
	ErrRowShape = errors.New("row shape mismatch")

	// ErrPathConflict is returned when a column needs a container where a scalar was stored.
	ErrPathConflict = errors.New("column path conflict")

	// ErrUncomparableKey is returned when a group key cannot be used as a map key.
	ErrUncomparableKey = errors.New("uncomparable group key")

	// ErrUnknownGroupColumn is returned when the group column is not in the result set.
	ErrUnknownGroupColumn = errors.New("unknown group column")

	// ErrMultipleArrayGroups is returned in strict mode when columns declare more than one array group.
	ErrMultipleArrayGroups = errors.New("multiple array groups")
)

// ColumnSpecError describes a column whose array marker is not on the first segment.
type ColumnSpecError struct {
	Column  string
	Segment string
	Index   int
}

// Error implements the error interface.
func (e *ColumnSpecError) Error() string {
	return fmt.Sprintf("%v: column %q has array notation on segment %d (%q); arrays are only supported at the top level",
		ErrInvalidColumnSpec, e.Column, e.Index, e.Segment)
}

// Unwrap returns the underlying error.
func (e *ColumnSpecError) Unwrap() error {
	return ErrInvalidColumnSpec
}

// RowShapeError describes a row whose length differs from the column count.
type RowShapeError struct {
	Row  int
	Got  int
	Want int
}

// Error implements the error interface.
func (e *RowShapeError) Error() string {
	return fmt.Sprintf("%v: row %d has %d values, expected %d", ErrRowShape, e.Row, e.Got, e.Want)
}

// Unwrap returns the underlying error.
func (e *RowShapeError) Unwrap() error {
	return ErrRowShape
}

// PathConflictError describes a column that descends through a non-container value.
type PathConflictError struct {
	Column string
	Path   []string
	Found  Kind
}

// Error implements the error interface.
func (e *PathConflictError) Error() string {
	return fmt.Sprintf("%v: column %q cannot descend into %q, it already holds a %s",
		ErrPathConflict, e.Column, strings.Join(e.Path, "."), e.Found)
}

// Unwrap returns the underlying error.
func (e *PathConflictError) Unwrap() error {
	return ErrPathConflict
}
