package serializer_test

import (
	"errors"
	"testing"

	"github.com/satishbabariya/query-serializer/query/serializer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var customerColumns = []string{
	"id", "name", "organization__id", "organization__name",
	"organization__address__name", "purchases[]__id",
}

func TestSerialize_EndToEnd(t *testing.T) {
	rows := [][]interface{}{
		{1, "Jason", 1, "ZeroCater", "Main Address", 5},
		{1, "Jason", 1, "ZeroCater", "Main Address", 10},
	}

	records, err := serializer.New().SerializeRows(customerColumns, rows)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t,
		`{"id":1,"name":"Jason","organization":{"id":1,"name":"ZeroCater","address":{"name":"Main Address"}},"purchases":[{"id":5},{"id":10}]}`,
		toJSON(t, records[0]))
}

func TestSerialize_LeftJoinWithoutMatches(t *testing.T) {
	rows := [][]interface{}{
		{1, "Jason", 1, "ZeroCater", "Main Address", 5},
		{2, "Ann", nil, nil, nil, nil},
	}

	records, err := serializer.New().SerializeRows(customerColumns, rows)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, `{"id":2,"name":"Ann","organization":null,"purchases":null}`, toJSON(t, records[1]))
}

func TestSerialize_CustomSyntax(t *testing.T) {
	s := serializer.New(serializer.WithSyntax(serializer.Syntax{Separator: "__", ArraySuffix: "--"}))

	records, err := s.SerializeRows([]string{"id", "purchases--__id"}, [][]interface{}{{1, 1}, {1, 2}})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, `{"id":1,"purchases":[{"id":1},{"id":2}]}`, toJSON(t, records[0]))
}

func TestSerialize_PostProcess(t *testing.T) {
	s := serializer.New(serializer.WithPostProcess(func(record *serializer.Object) (*serializer.Object, error) {
		if v, ok := record.Get("purchases"); ok {
			record.Set("purchase_count", serializer.Scalar(len(v.Array())))
		}
		return record, nil
	}))

	records, err := s.SerializeRows([]string{"id", "purchases[]__id"}, [][]interface{}{{1, 5}, {1, 10}, {1, 15}})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, `{"id":1,"purchases":[{"id":5},{"id":10},{"id":15}],"purchase_count":3}`, toJSON(t, records[0]))
}

func TestSerialize_Errors(t *testing.T) {
	t.Run("invalid column aborts before rows", func(t *testing.T) {
		rows := &countingRows{Rows: serializer.SliceRows([][]interface{}{{1}})}
		_, err := serializer.New().Serialize([]string{"a__b[]"}, rows)
		assert.True(t, errors.Is(err, serializer.ErrInvalidColumnSpec))
		assert.Equal(t, 0, rows.pulled)
	})

	t.Run("row shape aborts the call", func(t *testing.T) {
		records, err := serializer.New().SerializeRows([]string{"id", "name"}, [][]interface{}{{1, "a"}, {2}})
		assert.True(t, errors.Is(err, serializer.ErrRowShape))
		assert.Nil(t, records)
	})

	t.Run("row source error", func(t *testing.T) {
		boom := errors.New("cursor closed")
		_, err := serializer.New().Serialize([]string{"id"}, &failingRows{err: boom})
		assert.True(t, errors.Is(err, boom))
	})

	t.Run("strict arrays", func(t *testing.T) {
		s := serializer.New(serializer.WithStrictArrays())
		_, err := s.SerializeRows([]string{"id", "a[]__x", "b[]__y"}, nil)
		assert.True(t, errors.Is(err, serializer.ErrMultipleArrayGroups))

		_, err = s.SerializeRows([]string{"id", "a[]__x", "a[]__y"}, nil)
		assert.NoError(t, err)
	})
}

func TestSerialize_GroupColumn(t *testing.T) {
	columns := []string{"row_id", "customer", "orders[]__id"}
	rows := [][]interface{}{{1, "jason", 10}, {2, "ann", 20}, {3, "jason", 11}}

	records, err := serializer.New(serializer.WithGroupColumn("customer")).SerializeRows(columns, rows)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, `{"row_id":3,"customer":"jason","orders":[{"id":10},{"id":11}]}`, toJSON(t, records[0]))
	assert.Equal(t, `{"row_id":2,"customer":"ann","orders":[{"id":20}]}`, toJSON(t, records[1]))

	_, err = serializer.New(serializer.WithGroupColumn("missing")).SerializeRows(columns, rows)
	assert.True(t, errors.Is(err, serializer.ErrUnknownGroupColumn))
}

func TestSerialize_ParseCache(t *testing.T) {
	s := serializer.New(serializer.WithParseCache(4))

	for i := 0; i < 3; i++ {
		records, err := s.SerializeRows(customerColumns, [][]interface{}{{1, "Jason", 1, "ZeroCater", "Main Address", 5}})
		require.NoError(t, err)
		require.Len(t, records, 1)
	}

	stats := s.CacheStats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Size)

	t.Run("errors are not cached", func(t *testing.T) {
		strict := serializer.New(serializer.WithParseCache(4), serializer.WithStrictArrays())
		for i := 0; i < 2; i++ {
			_, err := strict.Parse([]string{"a[]__x", "b[]__y"})
			assert.True(t, errors.Is(err, serializer.ErrMultipleArrayGroups))
		}
		assert.Equal(t, 0, strict.CacheStats().Size)
	})

	assert.Equal(t, 0, serializer.New().CacheStats().Size)
}

func TestSerialize_NoRows(t *testing.T) {
	records, err := serializer.New().SerializeRows(customerColumns, nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

type countingRows struct {
	serializer.Rows
	pulled int
}

func (r *countingRows) Next() bool {
	r.pulled++
	return r.Rows.Next()
}

type failingRows struct {
	err error
}

func (r *failingRows) Next() bool                     { return false }
func (r *failingRows) Values() ([]interface{}, error) { return nil, nil }
func (r *failingRows) Err() error                     { return r.err }
