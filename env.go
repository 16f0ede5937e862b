// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package dotconf

import (
	"os"
	"strings"
)

// Environ is an immutable snapshot of environment variables. All environment
// lookups in this package go through an Environ rather than reading the
// process environment directly, so tests can supply a deterministic fixture
// via Resolver.SetEnviron.
type Environ map[string]string

// OSEnviron snapshots the current process environment.
func OSEnviron() Environ {
	raw := os.Environ()
	env := make(Environ, len(raw))
	for _, kv := range raw {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

// Lookup returns the value of the named variable and whether it is set.
// A variable set to the empty string counts as set.
func (e Environ) Lookup(name string) (string, bool) {
	v, ok := e[name]
	return v, ok
}

// deriveEnvKey derives the environment variable name for a dotted config
// key: UPPER(prefix) + UPPER(key with dots replaced by underscores). The
// Resolver guarantees a non-empty prefix ends in a single underscore.
func deriveEnvKey(key, prefix string) string {
	return strings.ToUpper(prefix) + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
