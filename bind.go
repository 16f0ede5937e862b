// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package dotconf

import (
	"fmt"

	"dario.cat/mergo"
)

// Bind fills target, a pointer to a struct, from the unified configuration.
// Map keys are matched against lower-cased exported field names, nested maps
// fill nested structs, and values already present in target are overridden.
//
// Bind is a convenience for callers that want a typed view of the
// configuration; it performs no scheme validation of its own, so call
// [Resolver.Validate] first when the shape matters.
func (r *Resolver) Bind(target any) error {
	if err := mergo.Map(target, map[string]any(r.Config()), mergo.WithOverride); err != nil {
		return fmt.Errorf("%w: bind: %w", ErrConfig, err)
	}
	return nil
}
