// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package dotconf

import (
	"fmt"
	"strings"
)

// DotMap is a string-keyed map whose values may be scalars, lists, or nested
// maps, addressable with dot-notation keys: the key "a.b.c" reaches the same
// value as m["a"]["b"]["c"] would through three nested lookups.
//
// Lists are opaque leaves: dotted paths never traverse into them, and a
// non-map intermediate value makes any deeper path unreachable (Get falls
// back to its default). Each configuration layer owns one DotMap; the unified
// view a Resolver exposes is a derived merge of the layers, never shared
// storage.
type DotMap map[string]any

// NewDotMap returns an empty, ready-to-use DotMap.
func NewDotMap() DotMap {
	return make(DotMap)
}

// asMap reports whether v is a nested map this package can traverse into.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case DotMap:
		return m, true
	case map[string]any:
		return m, true
	default:
		return nil, false
	}
}

// Get returns the value for key, or nil when any component of the key path
// is missing. The key may be a plain map key or a dotted path.
func (m DotMap) Get(key string) any {
	return m.GetDefault(key, nil)
}

// GetDefault returns the value for key, or def when any component of the key
// path is missing or an intermediate value is not a nested map.
func (m DotMap) GetDefault(key string, def any) any {
	head, rest, dotted := strings.Cut(key, ".")
	if !dotted {
		if v, ok := m[head]; ok {
			return v
		}
		return def
	}

	v, ok := m[head]
	if !ok {
		return def
	}
	sub, ok := asMap(v)
	if !ok {
		return def
	}
	return DotMap(sub).GetDefault(rest, def)
}

// Set stores value under key. A dotted key merges into existing nested maps
// along its path; when an intermediate slot is missing or holds a non-map
// value, the slot is overwritten wholesale with a freshly built nested map
// chain for the remaining path.
func (m DotMap) Set(key string, value any) {
	head, rest, dotted := strings.Cut(key, ".")
	if !dotted {
		m[head] = value
		return
	}

	if cur, ok := m[head]; ok {
		if sub, isMap := asMap(cur); isMap {
			DotMap(sub).Set(rest, value)
			return
		}
	}
	m[head] = buildNested(rest, value)
}

// buildNested constructs the nested map chain for a dotted key, e.g.
// ("y.z", v) yields {"y": {"z": v}}.
func buildNested(key string, value any) any {
	head, rest, dotted := strings.Cut(key, ".")
	if !dotted {
		return map[string]any{head: value}
	}
	return map[string]any{head: buildNested(rest, value)}
}

// Contains reports whether key resolves to a value. A present key whose value
// is not a nested map yields false for any deeper sub-path.
func (m DotMap) Contains(key string) bool {
	head, rest, dotted := strings.Cut(key, ".")
	if !dotted {
		_, ok := m[head]
		return ok
	}

	v, ok := m[head]
	if !ok {
		return false
	}
	sub, ok := asMap(v)
	if !ok {
		return false
	}
	return DotMap(sub).Contains(rest)
}

// Delete removes the value stored under key. Unlike Get, a missing key is an
// error: Delete returns ErrKeyNotFound when the final segment is absent or
// when any intermediate segment is absent or not a nested map.
func (m DotMap) Delete(key string) error {
	segments := strings.Split(key, ".")
	cur := map[string]any(m)

	for i, seg := range segments {
		if i == len(segments)-1 {
			if _, ok := cur[seg]; !ok {
				return fmt.Errorf("%w: %q", ErrKeyNotFound, key)
			}
			delete(cur, seg)
			return nil
		}

		next, ok := cur[seg]
		if !ok {
			return fmt.Errorf("%w: %q (missing segment %q)", ErrKeyNotFound, key, seg)
		}
		sub, ok := asMap(next)
		if !ok {
			return fmt.Errorf("%w: %q (segment %q is not a map)", ErrKeyNotFound, key, seg)
		}
		cur = sub
	}
	return nil
}

// Merge deep-merges source into the map. Where both the existing and the
// incoming value for a key are nested maps the branches are combined
// recursively, preserving keys absent from source; any other incoming value
// wins outright, including a scalar replacing a whole map branch or vice
// versa. Across repeated calls the last-applied source wins on scalar leaves.
//
// Contrast with Update, which replaces whole top-level branches.
func (m DotMap) Merge(source map[string]any) {
	mergeMaps(m, source)
}

func mergeMaps(dst, src map[string]any) {
	for k, v := range src {
		if sv, ok := asMap(v); ok {
			dv, ok := asMap(dst[k])
			if !ok {
				dv = make(map[string]any, len(sv))
			}
			mergeMaps(dv, sv)
			dst[k] = dv
			continue
		}
		dst[k] = v
	}
}

// Update performs a shallow update: every top-level key in source replaces
// the corresponding entry unconditionally, discarding any nested structure
// the existing value may have had.
func (m DotMap) Update(source map[string]any) {
	for k, v := range source {
		m[k] = v
	}
}

// Copy returns a deep copy of the map's nested structure. Leaf values
// (scalars and lists) are shared, map branches are not.
func (m DotMap) Copy() DotMap {
	out := make(DotMap, len(m))
	out.Merge(m)
	return out
}
