package dotconf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMap() DotMap {
	return DotMap{
		"foo": "bar",
		"nested": map[string]any{
			"value": "baz",
			"deep": map[string]any{
				"flag": true,
			},
		},
		"list":   []any{1, 2, 3},
		"scalar": 1,
	}
}

// ── Get / GetDefault ──────────────────────────────────────────────────────────

// TestDotMapGet_Cases verifies plain and dotted lookups across nesting
// levels, including the opaque-leaf rules for lists and scalars.
func TestDotMapGet_Cases(t *testing.T) {
	m := testMap()

	tests := []struct {
		name     string
		key      string
		expected any
	}{
		{"simple key", "foo", "bar"},
		{"nested key", "nested.value", "baz"},
		{"deeply nested key", "nested.deep.flag", true},
		{"missing key", "missing", nil},
		{"missing nested key", "nested.missing", nil},
		{"missing root of dotted key", "missing.value", nil},
		{"dotted path through scalar", "scalar.deeper", nil},
		{"dotted path into list", "list.0", nil},
		{"whole nested map", "nested.deep", map[string]any{"flag": true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, m.Get(tt.key))
		})
	}
}

// TestDotMapGetDefault_Fallback verifies that the caller's default is
// returned for any unreachable path.
func TestDotMapGetDefault_Fallback(t *testing.T) {
	m := testMap()

	assert.Equal(t, "fallback", m.GetDefault("missing", "fallback"))
	assert.Equal(t, "fallback", m.GetDefault("nested.missing", "fallback"))
	assert.Equal(t, "fallback", m.GetDefault("scalar.deeper", "fallback"))
	assert.Equal(t, "bar", m.GetDefault("foo", "fallback"))
}

// TestDotMapGet_EmptySegments verifies that keys with empty path segments
// resolve to the default rather than erroring.
func TestDotMapGet_EmptySegments(t *testing.T) {
	m := testMap()

	assert.Nil(t, m.Get("nested..value"))
	assert.Nil(t, m.Get("nested."))
	assert.Equal(t, "fallback", m.GetDefault("nested..value", "fallback"))
}

// ── Set ───────────────────────────────────────────────────────────────────────

// TestDotMapSet_RoundTrip verifies the set-then-get property for plain and
// dotted keys.
func TestDotMapSet_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{"simple key", "a", "x"},
		{"dotted key", "a.b", 1},
		{"deep dotted key", "a.b.c.d", true},
		{"list value", "a.b", []any{"x", "y"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewDotMap()
			m.Set(tt.key, tt.value)
			assert.Equal(t, tt.value, m.Get(tt.key))
		})
	}
}

// TestDotMapSet_MergesIntoExistingBranch verifies that setting a dotted key
// under an existing map branch preserves that branch's other entries.
func TestDotMapSet_MergesIntoExistingBranch(t *testing.T) {
	m := testMap()
	m.Set("nested.other", 7)

	assert.Equal(t, 7, m.Get("nested.other"))
	assert.Equal(t, "baz", m.Get("nested.value"))
	assert.Equal(t, true, m.Get("nested.deep.flag"))
}

// TestDotMapSet_ReplacesNonMapIntermediate verifies that setting a dotted
// key through a scalar replaces the scalar slot wholesale with the freshly
// built nested structure.
func TestDotMapSet_ReplacesNonMapIntermediate(t *testing.T) {
	m := DotMap{"a": 1}
	m.Set("a.b", "value")

	assert.Equal(t, map[string]any{"b": "value"}, m["a"])
	assert.Equal(t, "value", m.Get("a.b"))
}

// TestDotMapSet_OverwritesScalar verifies a plain overwrite of an existing
// scalar, including replacing a whole map branch.
func TestDotMapSet_OverwritesScalar(t *testing.T) {
	m := testMap()

	m.Set("foo", 2)
	assert.Equal(t, 2, m.Get("foo"))

	m.Set("nested", "flat")
	assert.Equal(t, "flat", m.Get("nested"))
	assert.Nil(t, m.Get("nested.value"))
}

// ── Contains ──────────────────────────────────────────────────────────────────

// TestDotMapContains_Cases verifies dotted membership checks, including the
// rule that any path deeper than a non-map value is absent.
func TestDotMapContains_Cases(t *testing.T) {
	m := testMap()

	tests := []struct {
		name     string
		key      string
		expected bool
	}{
		{"simple key", "foo", true},
		{"nested key", "nested.value", true},
		{"deep key", "nested.deep.flag", true},
		{"missing key", "missing", false},
		{"missing nested key", "nested.missing", false},
		{"path through scalar", "foo.deeper", false},
		{"path into list", "list.0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, m.Contains(tt.key))
		})
	}
}

// ── Delete ────────────────────────────────────────────────────────────────────

// TestDotMapDelete_RemovesLeaf verifies removal of plain and nested keys,
// leaving siblings intact.
func TestDotMapDelete_RemovesLeaf(t *testing.T) {
	m := testMap()

	require.NoError(t, m.Delete("foo"))
	assert.False(t, m.Contains("foo"))

	require.NoError(t, m.Delete("nested.deep.flag"))
	assert.False(t, m.Contains("nested.deep.flag"))
	assert.Equal(t, "baz", m.Get("nested.value"))
}

// TestDotMapDelete_MissingKeyFails verifies that deleting an absent key is
// an error, in contrast with Get's silent fallback.
func TestDotMapDelete_MissingKeyFails(t *testing.T) {
	m := testMap()

	tests := []struct {
		name string
		key  string
	}{
		{"missing top-level key", "missing"},
		{"missing nested key", "nested.missing"},
		{"missing intermediate segment", "missing.key"},
		{"non-map intermediate segment", "scalar.deeper"},
		{"path into list", "list.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.Delete(tt.key)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrKeyNotFound)
			assert.ErrorIs(t, err, ErrConfig)
		})
	}
}

// TestDotMapDelete_GetAsymmetry documents the asymmetry between Get and
// Delete for the same missing dotted key.
func TestDotMapDelete_GetAsymmetry(t *testing.T) {
	m := NewDotMap()

	assert.Equal(t, "fallback", m.GetDefault("missing.key", "fallback"))
	assert.ErrorIs(t, m.Delete("missing.key"), ErrKeyNotFound)
}

// ── Merge / Update ────────────────────────────────────────────────────────────

// TestDotMapMerge_AdditiveBranches verifies that map branches combine
// additively regardless of merge order.
func TestDotMapMerge_AdditiveBranches(t *testing.T) {
	m := NewDotMap()
	m.Merge(map[string]any{"a": map[string]any{"b": 1}})
	m.Merge(map[string]any{"a": map[string]any{"c": 2}})

	assert.Equal(t, 1, m.Get("a.b"))
	assert.Equal(t, 2, m.Get("a.c"))
}

// TestDotMapMerge_RightBiased verifies that the incoming value wins on
// scalar conflicts, including nil values and type flips in both directions.
func TestDotMapMerge_RightBiased(t *testing.T) {
	m := DotMap{
		"scalar": 1,
		"branch": map[string]any{"leaf": true},
		"other":  "keep",
	}

	m.Merge(map[string]any{
		"scalar": map[string]any{"now": "a map"},
		"branch": "now a scalar",
	})
	assert.Equal(t, "a map", m.Get("scalar.now"))
	assert.Equal(t, "now a scalar", m.Get("branch"))
	assert.Equal(t, "keep", m.Get("other"))

	m.Merge(map[string]any{"other": nil})
	assert.True(t, m.Contains("other"))
	assert.Nil(t, m.Get("other"))
}

// TestDotMapMerge_Idempotent verifies that merging an identical source twice
// leaves the map unchanged.
func TestDotMapMerge_Idempotent(t *testing.T) {
	source := map[string]any{
		"a": map[string]any{"b": 1, "c": map[string]any{"d": "x"}},
		"e": []any{1, 2},
	}

	m := NewDotMap()
	m.Merge(source)
	snapshot := m.Copy()
	m.Merge(source)

	assert.Equal(t, snapshot, m)
}

// TestDotMapMerge_DoesNotAliasSource verifies that merged map branches are
// copies: mutating the destination never writes through to the source.
func TestDotMapMerge_DoesNotAliasSource(t *testing.T) {
	source := map[string]any{"a": map[string]any{"b": 1}}

	m := NewDotMap()
	m.Merge(source)
	m.Set("a.b", 2)

	assert.Equal(t, 1, source["a"].(map[string]any)["b"])
}

// TestDotMapUpdate_ReplacesBranches verifies that Update, unlike Merge,
// replaces whole top-level branches unconditionally.
func TestDotMapUpdate_ReplacesBranches(t *testing.T) {
	m := DotMap{"foo": map[string]any{"bar": true}}
	m.Update(map[string]any{"foo": map[string]any{"baz": false}})

	assert.Nil(t, m.Get("foo.bar"))
	assert.Equal(t, false, m.Get("foo.baz"))
}

// TestDotMapCopy_Independent verifies that a copy shares no map structure
// with the original.
func TestDotMapCopy_Independent(t *testing.T) {
	m := testMap()
	cp := m.Copy()

	cp.Set("nested.value", "changed")
	assert.Equal(t, "baz", m.Get("nested.value"))
	assert.Equal(t, "changed", cp.Get("nested.value"))
}
