// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package dotconf resolves layered application configuration into a single
// unified view addressable with dot-notation keys.
//
// Configuration is assembled from four independent layers, merged in the
// following priority order (later layers override earlier values on scalar
// conflicts, nested maps combine additively):
//  1. Scheme defaults
//  2. Parsed configuration file (YAML or JSON)
//  3. Environment variables
//  4. Explicit runtime overrides set via [Resolver.Set]
//
// A [Scheme] declares the expected shape of the configuration: scalar
// [Option] fields, homogeneous or schemed [ListOption] fields, and nested
// [DictOption] sub-schemes. The Scheme supplies defaults, validates the
// merged configuration, and drives environment-variable binding with
// per-field type casting.
//
// The main entry point is [New]; see examples/basic for a complete program.
package dotconf
