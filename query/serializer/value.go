// Package serializer turns flat, denormalized query rows into nested records.
//
// Column names describe where a value lives in the output tree:
//
//	id | name  | organization__name | organization__address__name | purchases[]__id
//	---+-------+--------------------+-----------------------------+----------------
//	1  | Jason | ZeroCater          | Main Address                | 5
//	1  | Jason | ZeroCater          | Main Address                | 10
//
// serializes to
//
//	[{"id": 1, "name": "Jason",
//	  "organization": {"name": "ZeroCater", "address": {"name": "Main Address"}},
//	  "purchases": [{"id": 5}, {"id": 10}]}]
//
// Array notation is only supported on the first segment of a column.
package serializer

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind identifies which variant a Value holds
type Kind int

const (
	// KindScalar is a primitive value, including null
	KindScalar Kind = iota
	// KindObject is an ordered mapping of names to values
	KindObject
	// KindArray is an ordered sequence of values
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a node of a record tree. The zero Value is a null scalar.
type Value struct {
	kind   Kind
	scalar interface{}
	object *Object
	array  []Value
}

// Null returns a null scalar
func Null() Value {
	return Value{}
}

// Scalar wraps a primitive value
func Scalar(v interface{}) Value {
	return Value{kind: KindScalar, scalar: v}
}

// ObjectValue wraps an object. A nil object becomes null.
func ObjectValue(o *Object) Value {
	if o == nil {
		return Null()
	}
	return Value{kind: KindObject, object: o}
}

// ArrayValue wraps a sequence of values
func ArrayValue(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{kind: KindArray, array: elems}
}

// Kind returns the variant of v
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether v is a null scalar
func (v Value) IsNull() bool {
	return v.kind == KindScalar && v.scalar == nil
}

// Scalar returns the primitive held by a scalar value, nil otherwise
func (v Value) Scalar() interface{} {
	if v.kind != KindScalar {
		return nil
	}
	return v.scalar
}

// Object returns the object held by v, nil if v is not an object
func (v Value) Object() *Object {
	if v.kind != KindObject {
		return nil
	}
	return v.object
}

// Array returns the elements held by v, nil if v is not an array
func (v Value) Array() []Value {
	if v.kind != KindArray {
		return nil
	}
	return v.array
}

// Clone returns a deep copy of v
func (v Value) Clone() Value {
	switch v.kind {
	case KindObject:
		return ObjectValue(v.object.Clone())
	case KindArray:
		elems := make([]Value, len(v.array))
		for i, e := range v.array {
			elems[i] = e.Clone()
		}
		return ArrayValue(elems...)
	default:
		return v
	}
}

// Interface converts v to plain Go values: map[string]interface{},
// []interface{} and the scalars themselves.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindObject:
		return v.object.Map()
	case KindArray:
		out := make([]interface{}, len(v.array))
		for i, e := range v.array {
			out[i] = e.Interface()
		}
		return out
	default:
		return v.scalar
	}
}

// MarshalJSON implements json.Marshaler
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindObject:
		return v.object.MarshalJSON()
	case KindArray:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, e := range v.array {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := e.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	default:
		return json.Marshal(v.scalar)
	}
}

// Object is an ordered mapping. Keys keep the position of their first insertion.
type Object struct {
	keys   []string
	fields map[string]Value
}

// NewObject creates an empty object
func NewObject() *Object {
	return &Object{fields: make(map[string]Value)}
}

// Get returns the value stored under key
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.fields[key]
	return v, ok
}

// Set stores v under key, overwriting any previous value in place
func (o *Object) Set(key string, v Value) {
	if o.fields == nil {
		o.fields = make(map[string]Value)
	}
	if _, ok := o.fields[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.fields[key] = v
}

// Keys returns the keys in insertion order
func (o *Object) Keys() []string {
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

// Len returns the number of keys
func (o *Object) Len() int {
	return len(o.keys)
}

// Clone returns a deep copy of o
func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	c := &Object{
		keys:   make([]string, len(o.keys)),
		fields: make(map[string]Value, len(o.fields)),
	}
	copy(c.keys, o.keys)
	for k, v := range o.fields {
		c.fields[k] = v.Clone()
	}
	return c
}

// Map converts o to a map[string]interface{}
func (o *Object) Map() map[string]interface{} {
	out := make(map[string]interface{}, len(o.keys))
	for _, k := range o.keys {
		out[k] = o.fields[k].Interface()
	}
	return out
}

// MarshalJSON implements json.Marshaler, writing keys in insertion order
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := o.fields[k].MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %q: %w", k, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
