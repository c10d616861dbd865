package serializer

import (
	"fmt"
	"reflect"
)

// KeyFunc derives the group key of a row
type KeyFunc func(row []interface{}) interface{}

// PostProcessFunc is applied to a record after every row merged into it
type PostProcessFunc func(record *Object) (*Object, error)

// FirstColumn keys rows by their first value
func FirstColumn(row []interface{}) interface{} {
	if len(row) == 0 {
		return nil
	}
	return row[0]
}

// GroupByColumn keys rows by the value at index
func GroupByColumn(index int) KeyFunc {
	return func(row []interface{}) interface{} {
		if index < 0 || index >= len(row) {
			return nil
		}
		return row[index]
	}
}

// Grouper folds rows into records by group key, keeping first-seen order
type Grouper struct {
	specs       []PathSpec
	keyFn       KeyFunc
	postProcess PostProcessFunc

	order   []interface{}
	records map[interface{}]*Object
	rows    int
}

// NewGrouper creates a grouper over parsed columns. A nil keyFn groups by the
// first column; a nil postProcess leaves records unchanged.
func NewGrouper(specs []PathSpec, keyFn KeyFunc, postProcess PostProcessFunc) *Grouper {
	if keyFn == nil {
		keyFn = FirstColumn
	}
	return &Grouper{
		specs:       specs,
		keyFn:       keyFn,
		postProcess: postProcess,
		records:     make(map[interface{}]*Object),
	}
}

// Add merges one row into the record of its group
func (g *Grouper) Add(row []interface{}) error {
	index := g.rows
	g.rows++

	if len(row) != len(g.specs) {
		return &RowShapeError{Row: index, Got: len(row), Want: len(g.specs)}
	}

	key, err := groupKey(g.keyFn(row))
	if err != nil {
		return fmt.Errorf("row %d: %w", index, err)
	}

	existing, seen := g.records[key]
	if !seen {
		existing = NewObject()
	}

	updated, err := Merge(row, g.specs, existing)
	if err != nil {
		return fmt.Errorf("row %d: %w", index, err)
	}

	if g.postProcess != nil {
		updated, err = g.postProcess(updated)
		if err != nil {
			return fmt.Errorf("post-processing row %d: %w", index, err)
		}
		if updated == nil {
			updated = NewObject()
		}
	}

	if !seen {
		g.order = append(g.order, key)
	}
	g.records[key] = updated
	return nil
}

// Len returns the number of distinct groups
func (g *Grouper) Len() int {
	return len(g.order)
}

// Rows returns the number of rows consumed
func (g *Grouper) Rows() int {
	return g.rows
}

// Records returns the grouped, unpruned records in first-seen order
func (g *Grouper) Records() []*Object {
	out := make([]*Object, 0, len(g.order))
	for _, key := range g.order {
		out = append(out, g.records[key])
	}
	return out
}

// groupKey normalizes a key so it can index a map
func groupKey(key interface{}) (interface{}, error) {
	switch k := key.(type) {
	case nil:
		return nil, nil
	case []byte:
		return string(k), nil
	}
	// Value.Comparable also inspects the dynamic values held in interfaces
	if !reflect.ValueOf(key).Comparable() {
		return nil, fmt.Errorf("%w: %T", ErrUncomparableKey, key)
	}
	return key, nil
}
