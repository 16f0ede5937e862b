// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package dotconf

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Resolver searches for, parses, and merges application configuration from
// scheme defaults, a configuration file, environment variables, and explicit
// runtime overrides.
//
// Each source owns one [DotMap] layer. The unified view is rebuilt lazily
// from the layers (defaults first, overrides last) and cached until any
// layer mutates. A Resolver is safe for concurrent use: every mutating
// operation takes the writer lock, reads snapshot the cached view under the
// reader lock.
//
// By default a Resolver looks for a file named "config" in YAML format and
// logs nothing; see the Set* methods.
type Resolver struct {
	mu sync.RWMutex

	scheme *Scheme
	logger zerolog.Logger

	name   string
	format Format
	paths  []string
	file   string

	envPrefix string
	autoEnv   bool
	environ   Environ

	defaults DotMap
	fileCfg  DotMap
	env      DotMap
	override DotMap

	// unified is the cached merged view; nil means invalidated.
	unified DotMap
}

// New constructs a Resolver validating against scheme, which may be nil to
// disable defaults, environment binding, and validation.
func New(scheme *Scheme) *Resolver {
	return &Resolver{
		scheme:   scheme,
		logger:   zerolog.Nop(),
		name:     "config",
		format:   FormatYAML,
		defaults: NewDotMap(),
		fileCfg:  NewDotMap(),
		env:      NewDotMap(),
		override: NewDotMap(),
	}
}

// SetLogger replaces the Resolver's logger. The default discards all output.
func (r *Resolver) SetLogger(logger zerolog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// AddConfigPaths appends directories to search for the configuration file,
// tried in the order added.
func (r *Resolver) AddConfigPaths(paths ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, paths...)
}

// SetConfigName sets the base name (without extension) of the configuration
// file to search for.
func (r *Resolver) SetConfigName(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.name = name
}

// SetConfigFormat sets the configuration file format.
func (r *Resolver) SetConfigFormat(format Format) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.format = format
}

// SetEnvPrefix sets the prefix prepended to derived environment variable
// names. A non-empty prefix is forced to end in a single underscore during
// Parse.
func (r *Resolver) SetEnvPrefix(prefix string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.envPrefix = prefix
}

// SetAutoEnv enables or disables automatic environment binding for scheme
// nodes that made no explicit binding decision.
func (r *Resolver) SetAutoEnv(auto bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.autoEnv = auto
}

// SetEnviron injects the environment snapshot consulted during Parse. When
// unset, the process environment is snapshotted at each Parse. Intended for
// tests and for hosts that scope the environment themselves.
func (r *Resolver) SetEnviron(env Environ) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.environ = env
}

// ConfigFile returns the path of the configuration file discovered by the
// most recent Parse, or "" when none was found.
func (r *Resolver) ConfigFile() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.file
}

// Parse resolves all configuration sources, in three phases: the defaults
// layer is rebuilt from the scheme, the configuration file is located and
// parsed, and environment bindings are resolved through the flattened
// scheme.
//
// When requiresFile is false a missing configuration file is tolerated; a
// parse failure of a file that was found is always fatal. Each phase that
// mutates its layer invalidates the cached unified view.
func (r *Resolver) Parse(requiresFile bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.parseDefaults(); err != nil {
		return err
	}
	if err := r.parseFile(requiresFile); err != nil {
		return err
	}
	return r.parseEnv()
}

// parseDefaults rebuilds the defaults layer from the scheme.
// Callers must hold the writer lock.
func (r *Resolver) parseDefaults() error {
	r.unified = nil

	if r.scheme == nil {
		return nil
	}
	defaults, err := r.scheme.BuildDefaults()
	if err != nil {
		return err
	}
	r.defaults.Update(defaults)
	r.logger.Debug().Int("values", len(defaults)).Msg("built scheme defaults")
	return nil
}

// parseFile locates and parses the configuration file into the file layer.
// No search paths means no file source at all, which is never an error.
// Callers must hold the writer lock.
func (r *Resolver) parseFile(requiresFile bool) error {
	if len(r.paths) == 0 {
		return nil
	}

	path, err := findFile(r.paths, r.name, r.format)
	if err != nil {
		if !requiresFile {
			r.logger.Debug().Str("name", r.name).Msg("no config file found, continuing without one")
			return nil
		}
		return err
	}
	r.file = path

	parsed, err := loadFile(path, r.format)
	if err != nil {
		return err
	}

	r.unified = nil
	r.fileCfg = DotMap(parsed)
	r.logger.Debug().Str("file", path).Str("format", r.format.String()).Msg("loaded config file")
	return nil
}

// parseEnv resolves environment bindings for every flattened scheme key into
// the environment layer. Without a scheme there is nothing to look for.
// Callers must hold the writer lock.
func (r *Resolver) parseEnv() error {
	if r.envPrefix != "" && !strings.HasSuffix(r.envPrefix, "_") {
		r.envPrefix += "_"
	}

	if r.scheme == nil {
		return nil
	}

	environ := r.environ
	if environ == nil {
		environ = OSEnviron()
	}

	envCfg := NewDotMap()
	flat, keys := r.scheme.flatten()
	for _, key := range keys {
		value, ok, err := flat[key].parseEnv(key, environ, r.envPrefix, r.autoEnv)
		if err != nil {
			return err
		}
		if ok {
			envCfg.Set(key, value)
		}
	}

	if len(envCfg) > 0 {
		r.unified = nil
		r.env.Update(envCfg)
		r.logger.Debug().Int("values", len(envCfg)).Msg("resolved environment bindings")
	}
	return nil
}

// Config returns the unified configuration: an empty map merged with the
// defaults, file, environment, and override layers in that order, so later
// layers win on scalar conflicts while map branches combine additively. The
// result is cached until a layer mutates and must be treated as read-only.
func (r *Resolver) Config() DotMap {
	r.mu.RLock()
	if r.unified != nil {
		cfg := r.unified
		r.mu.RUnlock()
		return cfg
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.unified == nil {
		unified := NewDotMap()
		unified.Merge(r.defaults)
		unified.Merge(r.fileCfg)
		unified.Merge(r.env)
		unified.Merge(r.override)
		r.unified = unified
	}
	return r.unified
}

// Get returns the value for key from the unified configuration, or nil when
// it is not present.
func (r *Resolver) Get(key string) any {
	return r.Config().Get(key)
}

// GetDefault returns the value for key from the unified configuration, or
// def when it is not present.
func (r *Resolver) GetDefault(key string, def any) any {
	return r.Config().GetDefault(key, def)
}

// Set writes value under key into the override layer, the highest-precedence
// configuration source, and invalidates the cached unified view.
func (r *Resolver) Set(key string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unified = nil
	r.override.Set(key, value)
}

// Validate checks the unified configuration against the scheme. With no
// scheme configured it is a no-op.
func (r *Resolver) Validate() error {
	if r.scheme == nil {
		return nil
	}
	return r.scheme.Validate(r.Config())
}
