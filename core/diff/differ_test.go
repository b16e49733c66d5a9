package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	t.Run("IdenticalDocuments", func(t *testing.T) {
		a := map[string]any{"name": "chair", "price": float64(10)}
		b := map[string]any{"name": "chair", "price": float64(10)}

		delta, err := NewDiffer(nil).Compare(a, b)
		require.NoError(t, err)
		assert.True(t, delta.Empty())
	})

	t.Run("ChangedValue", func(t *testing.T) {
		a := map[string]any{"price": float64(10)}
		b := map[string]any{"price": float64(12)}

		delta, err := NewDiffer(nil).Compare(a, b)
		require.NoError(t, err)
		require.Len(t, delta.Entries, 1)
		assert.Equal(t, KindChanged, delta.Entries[0].Kind)
		assert.Equal(t, "price", delta.Entries[0].PathString())
		assert.Equal(t, float64(10), delta.Entries[0].From)
		assert.Equal(t, float64(12), delta.Entries[0].To)
	})

	t.Run("AddedField", func(t *testing.T) {
		a := map[string]any{"name": "chair"}
		b := map[string]any{"name": "chair", "color": "red"}

		delta, err := NewDiffer(nil).Compare(a, b)
		require.NoError(t, err)
		require.Len(t, delta.Entries, 1)
		assert.Equal(t, KindAdded, delta.Entries[0].Kind)
		assert.Equal(t, "color", delta.Entries[0].PathString())
		assert.Equal(t, "red", delta.Entries[0].To)
	})

	t.Run("RemovedField", func(t *testing.T) {
		a := map[string]any{"name": "chair", "color": "red"}
		b := map[string]any{"name": "chair"}

		delta, err := NewDiffer(nil).Compare(a, b)
		require.NoError(t, err)
		require.Len(t, delta.Entries, 1)
		assert.Equal(t, KindRemoved, delta.Entries[0].Kind)
		assert.Equal(t, "color", delta.Entries[0].PathString())
		assert.Equal(t, "red", delta.Entries[0].From)
	})

	t.Run("NestedChange", func(t *testing.T) {
		a := map[string]any{"meta": map[string]any{"rev": float64(1)}}
		b := map[string]any{"meta": map[string]any{"rev": float64(2)}}

		delta, err := NewDiffer(nil).Compare(a, b)
		require.NoError(t, err)
		require.Len(t, delta.Entries, 1)
		assert.Equal(t, "meta.rev", delta.Entries[0].PathString())
	})

	t.Run("TypeChange", func(t *testing.T) {
		a := map[string]any{"price": "10"}
		b := map[string]any{"price": float64(10)}

		delta, err := NewDiffer(nil).Compare(a, b)
		require.NoError(t, err)
		require.Len(t, delta.Entries, 1)
		assert.Equal(t, KindTypeChanged, delta.Entries[0].Kind)
		assert.Equal(t, "price", delta.Entries[0].PathString())
	})

	t.Run("SliceOrderIgnored", func(t *testing.T) {
		a := map[string]any{"tags": []any{"red", "blue"}}
		b := map[string]any{"tags": []any{"blue", "red"}}

		delta, err := NewDiffer(nil).Compare(a, b)
		require.NoError(t, err)
		assert.True(t, delta.Empty())
	})

	t.Run("MultipleDifferencesSortedByPath", func(t *testing.T) {
		a := map[string]any{"b": float64(1), "a": float64(1)}
		b := map[string]any{"b": float64(2), "a": float64(2)}

		delta, err := NewDiffer(nil).Compare(a, b)
		require.NoError(t, err)
		require.Len(t, delta.Entries, 2)
		assert.Equal(t, "a", delta.Entries[0].PathString())
		assert.Equal(t, "b", delta.Entries[1].PathString())
	})
}

func TestCompareExclusions(t *testing.T) {
	t.Run("DottedExclusion", func(t *testing.T) {
		excludes, err := ParseExcludes([]string{"meta.updated_at"})
		require.NoError(t, err)

		a := map[string]any{"meta": map[string]any{"updated_at": "2024-01-01"}}
		b := map[string]any{"meta": map[string]any{"updated_at": "2024-06-01"}}

		delta, err := NewDiffer(excludes).Compare(a, b)
		require.NoError(t, err)
		assert.True(t, delta.Empty())
	})

	t.Run("BracketExclusion", func(t *testing.T) {
		excludes, err := ParseExcludes([]string{"root['meta']"})
		require.NoError(t, err)

		a := map[string]any{"meta": map[string]any{"rev": float64(1)}, "name": "x"}
		b := map[string]any{"meta": map[string]any{"rev": float64(2)}, "name": "y"}

		delta, err := NewDiffer(excludes).Compare(a, b)
		require.NoError(t, err)
		require.Len(t, delta.Entries, 1)
		assert.Equal(t, "name", delta.Entries[0].PathString())
	})
}

func TestDeltaDetails(t *testing.T) {
	a := map[string]any{"price": float64(10), "old": "x"}
	b := map[string]any{"price": float64(12), "color": "red"}

	delta, err := NewDiffer(nil).Compare(a, b)
	require.NoError(t, err)
	require.False(t, delta.Empty())

	details, err := delta.Details()
	require.NoError(t, err)
	assert.Contains(t, details, `"changed"`)
	assert.Contains(t, details, `"added"`)
	assert.Contains(t, details, `"removed"`)
	assert.Contains(t, details, "price")
	assert.Contains(t, details, "color")
}
