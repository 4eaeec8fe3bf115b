package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
)

func TestNew(t *testing.T) {
	t.Run("should reject a dataset with no compared fields", func(t *testing.T) {
		_, err := New("zagat", nil)
		assert.Error(t, err)
	})

	t.Run("should expose field metadata", func(t *testing.T) {
		ds, err := New("zagat", []string{"restaurant name", "city", "street address"})
		require.NoError(t, err)

		assert.Equal(t, "zagat", ds.Name())
		assert.Equal(t, 3, ds.FieldCount())
		assert.Equal(t, 1, ds.FieldIndex("city"))
		assert.Equal(t, -1, ds.FieldIndex("phone"))
	})
}

func TestAdd(t *testing.T) {
	t.Run("should reject a record with the wrong field count", func(t *testing.T) {
		ds, err := New("zagat", []string{"restaurant name", "city"})
		require.NoError(t, err)

		err = ds.Add(models.Record{Key: "z1", Fields: []string{"only one"}})
		assert.Error(t, err)
		assert.Equal(t, 0, ds.Len())
	})

	t.Run("should reject a duplicate key", func(t *testing.T) {
		ds, err := New("zagat", []string{"restaurant name"})
		require.NoError(t, err)

		require.NoError(t, ds.Add(models.Record{Key: "z1", Fields: []string{"spago"}}))
		err = ds.Add(models.Record{Key: "z1", Fields: []string{"spago again"}})
		assert.Error(t, err)
		assert.Equal(t, 1, ds.Len())
	})

	t.Run("should preserve insertion order in Keys", func(t *testing.T) {
		ds, err := New("zagat", []string{"restaurant name"})
		require.NoError(t, err)

		require.NoError(t, ds.Add(models.Record{Key: "z3", Fields: []string{"c"}}))
		require.NoError(t, ds.Add(models.Record{Key: "z1", Fields: []string{"a"}}))
		require.NoError(t, ds.Add(models.Record{Key: "z2", Fields: []string{"b"}}))

		assert.Equal(t, []string{"z3", "z1", "z2"}, ds.Keys())
	})
}

func TestGet(t *testing.T) {
	t.Run("should look up records by key", func(t *testing.T) {
		ds, err := New("fodors", []string{"restaurant name"})
		require.NoError(t, err)
		require.NoError(t, ds.Add(models.Record{Key: "f1", Fields: []string{"spago"}}))

		record, ok := ds.Get("f1")
		assert.True(t, ok)
		assert.Equal(t, "spago", record.Fields[0])

		_, ok = ds.Get("missing")
		assert.False(t, ok)
	})
}
