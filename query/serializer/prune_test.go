package serializer_test

import (
	"testing"

	"github.com/satishbabariya/query-serializer/query/serializer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// obj builds an object from alternating keys and values
func obj(kv ...interface{}) serializer.Value {
	o := serializer.NewObject()
	for i := 0; i+1 < len(kv); i += 2 {
		v, ok := kv[i+1].(serializer.Value)
		if !ok {
			v = serializer.Scalar(kv[i+1])
		}
		o.Set(kv[i].(string), v)
	}
	return serializer.ObjectValue(o)
}

func arr(elems ...serializer.Value) serializer.Value {
	return serializer.ArrayValue(elems...)
}

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		value serializer.Value
		want  bool
	}{
		{"null scalar", serializer.Null(), true},
		{"zero scalar", serializer.Scalar(0), false},
		{"empty object", obj(), true},
		{"null field", obj("x", nil), true},
		{"nested null", obj("x", obj("y", nil)), true},
		{"deeply nested null", obj("test", obj("empty", obj("dict", nil))), true},
		{"scalar field", obj("x", 1), false},
		{"array of empty object", obj("x", arr(obj())), false},
		{"empty array field", obj("x", arr()), false},
		{"array", arr(), false},
		{"mixed", obj("a", nil, "b", obj(), "c", false), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, serializer.IsEmpty(tt.value))
		})
	}
}

func TestPruneRecord(t *testing.T) {
	record := obj(
		"id", 1,
		"arr", arr(obj("id", 2), obj("id", nil)),
		"empty", obj(),
	).Object()

	got := serializer.PruneRecord(record)
	assert.Equal(t, `{"id":1,"arr":[{"id":2}],"empty":null}`, toJSON(t, got))
}

func TestPruneRecord_NestedObjects(t *testing.T) {
	record := obj(
		"id", 1,
		"array", arr(obj("id", 2), obj("id", nil)),
		"dict", obj("id", 3, "empty_inner_dict", obj()),
		"empty_dict", obj(),
	).Object()

	got := serializer.PruneRecord(record)
	assert.JSONEq(t, `{
		"id": 1,
		"array": [{"id": 2}],
		"dict": {"id": 3, "empty_inner_dict": null},
		"empty_dict": null
	}`, toJSON(t, got))
}

func TestPruneRecord_RootNeverNulled(t *testing.T) {
	record := obj("a", nil, "b", obj("c", nil)).Object()

	got := serializer.PruneRecord(record)
	require.NotNil(t, got)
	assert.Equal(t, `{"a":null,"b":null}`, toJSON(t, got))

	assert.True(t, serializer.Prune(obj().Object(), true).IsNull())
	assert.Equal(t, serializer.KindObject, serializer.Prune(obj().Object(), false).Kind())
}

func TestPruneRecord_AllElementsEmpty(t *testing.T) {
	record := obj("id", 1, "purchases", arr(obj("id", nil, "receipt", obj("time", nil)))).Object()

	got := serializer.PruneRecord(record)
	assert.Equal(t, `{"id":1,"purchases":null}`, toJSON(t, got))
}

func TestPruneRecord_ElementsPruned(t *testing.T) {
	record := obj("purchases", arr(obj("id", 5, "receipt", obj("time", nil)))).Object()

	got := serializer.PruneRecord(record)
	assert.Equal(t, `{"purchases":[{"id":5,"receipt":null}]}`, toJSON(t, got))
}

func TestPruneRecord_Idempotent(t *testing.T) {
	records := []serializer.Value{
		obj("id", 1, "arr", arr(obj("id", 2), obj("id", nil)), "empty", obj()),
		obj("x", obj("inner", arr(obj()))),
		obj("x", arr(obj("y", arr(obj("z", nil))), obj("w", 1))),
		obj("a", nil, "b", obj("c", obj("d", nil))),
		obj(),
	}

	for _, record := range records {
		once := serializer.PruneRecord(record.Clone().Object())
		twice := serializer.PruneRecord(once.Clone())
		assert.Equal(t, toJSON(t, once), toJSON(t, twice))
		assert.Equal(t, once, twice)
	}
}
