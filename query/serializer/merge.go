package serializer

// Merge writes one row into target, column by column. row and specs must be
// positionally aligned. target is mutated in place and returned.
//
// Within a single call, the first column of an array group appends a new
// element and later columns of the same group fill that element, so one row
// contributes exactly one element per array group it touches.
func Merge(row []interface{}, specs []PathSpec, target *Object) (*Object, error) {
	if len(row) != len(specs) {
		return nil, &RowShapeError{Got: len(row), Want: len(specs)}
	}
	if target == nil {
		target = NewObject()
	}

	m := merger{appended: make(map[string]bool)}
	for i, spec := range specs {
		m.column = spec.Column
		if err := m.merge(target, spec.Root, row[i], nil); err != nil {
			return nil, err
		}
	}
	return target, nil
}

// merger carries the bookkeeping of a single Merge call
type merger struct {
	column string
	// appended records which array groups got a new element during this call
	appended map[string]bool
}

func (m *merger) merge(target *Object, seg *Segment, value interface{}, path []string) error {
	if seg == nil || seg.IsSuppressed {
		return nil
	}
	path = append(path, seg.Name)

	switch {
	case !seg.HasNext:
		target.Set(seg.Name, Scalar(value))

	case seg.IsObject:
		child, err := m.objectAt(target, seg.Name, path)
		if err != nil {
			return err
		}
		if err := m.merge(child, seg.Next, value, path); err != nil {
			return err
		}
		target.Set(seg.Name, ObjectValue(child))

	case seg.IsArray:
		elems, err := m.arrayAt(target, seg.Name, path)
		if err != nil {
			return err
		}
		if len(elems) == 0 || !m.appended[seg.Name] {
			elem := NewObject()
			if err := m.merge(elem, seg.Next, value, path); err != nil {
				return err
			}
			elems = append(elems, ObjectValue(elem))
			m.appended[seg.Name] = true
		} else {
			last := elems[len(elems)-1].Object()
			if last == nil {
				return &PathConflictError{Column: m.column, Path: path, Found: elems[len(elems)-1].Kind()}
			}
			if err := m.merge(last, seg.Next, value, path); err != nil {
				return err
			}
		}
		target.Set(seg.Name, ArrayValue(elems...))
	}
	return nil
}

// objectAt returns the object stored under name, creating it when absent or null
func (m *merger) objectAt(target *Object, name string, path []string) (*Object, error) {
	existing, ok := target.Get(name)
	if !ok || existing.IsNull() {
		return NewObject(), nil
	}
	if obj := existing.Object(); obj != nil {
		return obj, nil
	}
	return nil, &PathConflictError{Column: m.column, Path: path, Found: existing.Kind()}
}

// arrayAt returns the elements stored under name, empty when absent or null
func (m *merger) arrayAt(target *Object, name string, path []string) ([]Value, error) {
	existing, ok := target.Get(name)
	if !ok || existing.IsNull() {
		return nil, nil
	}
	if existing.Kind() != KindArray {
		return nil, &PathConflictError{Column: m.column, Path: path, Found: existing.Kind()}
	}
	return existing.Array(), nil
}
