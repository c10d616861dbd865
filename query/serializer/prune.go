package serializer

// IsEmpty reports whether v carries no data. A null scalar is empty, an object
// is empty when all of its values are null or empty objects, and an array is
// never empty here; array elements are judged one by one during pruning.
func IsEmpty(v Value) bool {
	switch v.kind {
	case KindScalar:
		return v.scalar == nil
	case KindObject:
		return isObjectEmpty(v.object)
	default:
		return false
	}
}

func isObjectEmpty(o *Object) bool {
	for _, k := range o.keys {
		if !IsEmpty(o.fields[k]) {
			return false
		}
	}
	return true
}

// PruneRecord prunes a top-level record. The record itself is never nulled.
func PruneRecord(record *Object) *Object {
	return Prune(record, false).Object()
}

// Prune collapses structurally empty branches of o. Nested objects that end
// up empty become null, arrays lose their empty elements and become null when
// nothing is left. With removeIfEmpty set, an empty o is returned as null.
// o is modified in place.
func Prune(o *Object, removeIfEmpty bool) Value {
	if o == nil {
		return Null()
	}
	for _, k := range o.keys {
		switch v := o.fields[k]; v.kind {
		case KindArray:
			o.fields[k] = pruneArray(v.array)
		case KindObject:
			o.fields[k] = Prune(v.object, true)
		}
	}

	// Checked after the children so a second pass finds nothing left to collapse
	if removeIfEmpty && isObjectEmpty(o) {
		return Null()
	}
	return ObjectValue(o)
}

func pruneArray(elems []Value) Value {
	kept := make([]Value, 0, len(elems))
	for _, e := range elems {
		switch e.kind {
		case KindObject:
			e = Prune(e.object, true)
		case KindArray:
			e = pruneArray(e.array)
		}
		if IsEmpty(e) {
			continue
		}
		kept = append(kept, e)
	}
	if len(kept) == 0 {
		return Null()
	}
	return ArrayValue(kept...)
}
