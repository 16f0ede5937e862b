// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package dotconf

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Type declares the expected dynamic type of an option value. Validation is
// strict: the value's runtime type must match exactly (a bool is never
// accepted where an int is declared, an int64 does not satisfy TypeInt).
type Type int

const (
	// TypeAny performs no type checking and no casting.
	TypeAny Type = iota
	// TypeString expects a string value.
	TypeString
	// TypeInt expects an int value.
	TypeInt
	// TypeFloat expects a float64 value.
	TypeFloat
	// TypeBool expects a bool value.
	TypeBool
)

// typeUnknown marks runtime types outside the declared set; it never equals
// a declarable Type, so unknown values always fail strict matching.
const typeUnknown Type = -1

func (t Type) String() string {
	switch t {
	case TypeAny:
		return "any"
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// typeOf maps a runtime value onto the declared type set.
func typeOf(v any) Type {
	switch v.(type) {
	case string:
		return TypeString
	case int:
		return TypeInt
	case float64:
		return TypeFloat
	case bool:
		return TypeBool
	default:
		return typeUnknown
	}
}

// envBindMode enumerates the binding decisions a node can carry.
type envBindMode int

const (
	// envBindDefer defers the decision to the Resolver's auto-env flag.
	envBindDefer envBindMode = iota
	// envBindNever opts the node out of environment binding entirely.
	envBindNever
	// envBindDerive derives the variable name from the node's dotted key.
	envBindDerive
	// envBindNamed reads one explicitly named variable, ignoring the prefix.
	envBindNamed
)

type envBinding struct {
	mode envBindMode
	name string
}

// SchemeNode is one declared field of a [Scheme]. The implementations form a
// closed set ([Option], [ListOption], [DictOption]); the interface cannot be
// implemented outside this package.
type SchemeNode interface {
	// Name returns the node's key within its enclosing Scheme.
	Name() string
	// Validate checks a configuration value against the node's constraints.
	Validate(value any) error

	parseEnv(key string, env Environ, prefix string, autoEnv bool) (any, bool, error)
	defaultValue() (any, bool)
	isRequired() bool
	schemeNode()
}

// node carries the attributes shared by every scheme node kind.
type node struct {
	name       string
	def        any
	hasDefault bool
	optional   bool
	binding    envBinding
}

func (n *node) Name() string { return n.name }

func (n *node) defaultValue() (any, bool) { return n.def, n.hasDefault }

func (n *node) isRequired() bool { return !n.optional }

func (n *node) schemeNode() {}

// nodeConfig accumulates settings before a constructor copies the fields
// relevant to its node kind. Settings that do not apply to the kind being
// constructed are ignored.
type nodeConfig struct {
	node
	typ          Type
	choices      []any
	memberType   Type
	memberScheme *Scheme
}

// NodeSetting configures a scheme node at construction time.
type NodeSetting func(*nodeConfig)

// Default declares a default value for the node. Declaring nil is a real
// default, distinct from declaring none at all: a node with no default (and
// not marked Optional) is required, and validation fails when it is missing.
func Default(v any) NodeSetting {
	return func(c *nodeConfig) {
		c.def = v
		c.hasDefault = true
	}
}

// Optional marks the node as tolerated when absent from the configuration
// even though it declares no default.
func Optional() NodeSetting {
	return func(c *nodeConfig) { c.optional = true }
}

// OfType declares the expected value type of an [Option]; it also enables
// casting of environment values for that option.
func OfType(t Type) NodeSetting {
	return func(c *nodeConfig) { c.typ = t }
}

// Choices restricts an [Option] to the given set of valid values.
func Choices(vals ...any) NodeSetting {
	return func(c *nodeConfig) { c.choices = vals }
}

// BindEnv binds the node to an environment variable whose name is derived
// from the node's dotted key and the Resolver's env prefix. On a
// [DictOption] the derived name acts as a prefix: every matching variable is
// collected into a nested map, bypassing scheme validation for that subtree.
func BindEnv() NodeSetting {
	return func(c *nodeConfig) {
		c.binding = envBinding{mode: envBindDerive}
	}
}

// BindEnvTo binds the node to the literally named environment variable. The
// Resolver's env prefix is not applied.
func BindEnvTo(name string) NodeSetting {
	return func(c *nodeConfig) {
		c.binding = envBinding{mode: envBindNamed, name: name}
	}
}

// NoEnv opts the node out of environment binding, overriding the Resolver's
// auto-env flag.
func NoEnv() NodeSetting {
	return func(c *nodeConfig) {
		c.binding = envBinding{mode: envBindNever}
	}
}

// MemberType declares the exact type every element of a [ListOption] must
// have. Mutually exclusive with MemberScheme.
func MemberType(t Type) NodeSetting {
	return func(c *nodeConfig) { c.memberType = t }
}

// MemberScheme declares the [Scheme] every (map-valued) element of a
// [ListOption] must satisfy. Mutually exclusive with MemberType.
func MemberScheme(s *Scheme) NodeSetting {
	return func(c *nodeConfig) { c.memberScheme = s }
}

func applySettings(name string, defaultBinding envBinding, settings []NodeSetting) nodeConfig {
	c := nodeConfig{node: node{name: name, binding: defaultBinding}}
	for _, s := range settings {
		s(&c)
	}
	return c
}

// ── Option ────────────────────────────────────────────────────────────────────

// Option represents a configuration field with a singular scalar value, e.g.
// the YAML pair
//
//	debug: true
//
// declared as
//
//	dotconf.NewOption("debug", dotconf.OfType(dotconf.TypeBool))
//
// Unless NoEnv or an explicit binding is set, an Option defers to the
// Resolver's auto-env flag.
type Option struct {
	node
	typ     Type
	choices []any
}

// NewOption declares a scalar option named name.
func NewOption(name string, settings ...NodeSetting) *Option {
	c := applySettings(name, envBinding{mode: envBindDefer}, settings)
	return &Option{node: c.node, typ: c.typ, choices: c.choices}
}

// Validate checks the value's runtime type against the declared type (exact
// match) and its membership in the declared choices, if any.
func (o *Option) Validate(value any) error {
	if o.typ != TypeAny && typeOf(value) != o.typ {
		return fmt.Errorf("%w: option %q: %v (%T) is not of type %s",
			ErrValidation, o.name, value, value, o.typ)
	}
	if o.choices != nil && !choiceContains(o.choices, value) {
		return fmt.Errorf("%w: option %q: %v is not one of %v",
			ErrValidation, o.name, value, o.choices)
	}
	return nil
}

func choiceContains(choices []any, value any) bool {
	for _, c := range choices {
		if reflect.DeepEqual(c, value) {
			return true
		}
	}
	return false
}

func (o *Option) parseEnv(key string, env Environ, prefix string, autoEnv bool) (any, bool, error) {
	mode := o.binding.mode
	if mode == envBindDefer {
		if !autoEnv {
			return nil, false, nil
		}
		mode = envBindDerive
	}

	var envName string
	switch mode {
	case envBindNever:
		return nil, false, nil
	case envBindDerive:
		envName = deriveEnvKey(key, prefix)
	case envBindNamed:
		envName = o.binding.name
	}

	raw, ok := env.Lookup(envName)
	if !ok {
		return nil, false, nil
	}
	v, err := o.cast(raw)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// cast converts a raw environment string to the option's declared type.
// Booleans compare the lower-cased value against the literal "true";
// anything else, including "1" and the empty string, yields false.
func (o *Option) cast(raw string) (any, error) {
	switch o.typ {
	case TypeAny, TypeString:
		return raw, nil
	case TypeInt:
		i, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: option %q: cannot cast %q to int", ErrCast, o.name, raw)
		}
		return i, nil
	case TypeFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: option %q: cannot cast %q to float", ErrCast, o.name, raw)
		}
		return f, nil
	case TypeBool:
		return strings.EqualFold(raw, "true"), nil
	default:
		return nil, fmt.Errorf("%w: option %q: %s", ErrUnsupportedType, o.name, o.typ)
	}
}

// ── ListOption ────────────────────────────────────────────────────────────────

// ListOption represents a configuration field with a list value, e.g.
//
//	backends:
//	  - host: a
//	  - host: b
//
// declared with either MemberType (homogeneous scalars) or MemberScheme
// (map-shaped members). Environment binding is off by default; with BindEnv
// the variable's value is split on commas into a list of strings, with no
// per-member casting.
type ListOption struct {
	node
	memberType   Type
	memberScheme *Scheme
}

// NewListOption declares a list option named name.
func NewListOption(name string, settings ...NodeSetting) *ListOption {
	c := applySettings(name, envBinding{mode: envBindNever}, settings)
	return &ListOption{node: c.node, memberType: c.memberType, memberScheme: c.memberScheme}
}

// Validate checks that the value is a list, that MemberType and MemberScheme
// are not both declared, and that every member satisfies whichever of the
// two is.
func (l *ListOption) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if value == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return fmt.Errorf("%w: option %q: %v (%T) is not a list", ErrValidation, l.name, value, value)
	}

	if l.memberType != TypeAny && l.memberScheme != nil {
		return fmt.Errorf("%w: option %q: cannot declare both a member type and a member scheme",
			ErrValidation, l.name)
	}

	if l.memberType != TypeAny {
		for i := 0; i < rv.Len(); i++ {
			if member := rv.Index(i).Interface(); typeOf(member) != l.memberType {
				return fmt.Errorf("%w: option %q: member %v (%T) is not of type %s",
					ErrValidation, l.name, member, member, l.memberType)
			}
		}
	}

	if l.memberScheme != nil {
		for i := 0; i < rv.Len(); i++ {
			if err := l.memberScheme.Validate(rv.Index(i).Interface()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *ListOption) parseEnv(key string, env Environ, prefix string, _ bool) (any, bool, error) {
	var envName string
	switch l.binding.mode {
	case envBindDerive:
		envName = deriveEnvKey(key, prefix)
	case envBindNamed:
		envName = l.binding.name
	default:
		return nil, false, nil
	}

	raw, ok := env.Lookup(envName)
	if !ok || raw == "" {
		return nil, false, nil
	}
	return strings.Split(raw, ","), true, nil
}

// ── DictOption ────────────────────────────────────────────────────────────────

// DictOption represents a configuration field whose value is a nested map,
// e.g.
//
//	settings:
//	  timeout: 30
//
// declared as
//
//	dotconf.NewDictOption("settings", dotconf.NewScheme(
//		dotconf.NewOption("timeout", dotconf.OfType(dotconf.TypeInt)),
//	))
//
// A nil scheme accepts any map shape. Environment binding is off by default;
// with BindEnv the derived variable name acts as a prefix and every matching
// environment variable is folded into a nested map of string values, which
// lets a DictOption absorb arbitrary unknown keys from the environment.
type DictOption struct {
	node
	scheme *Scheme
}

// NewDictOption declares a nested-map option named name validated against
// scheme, which may be nil to accept any map.
func NewDictOption(name string, scheme *Scheme, settings ...NodeSetting) *DictOption {
	c := applySettings(name, envBinding{mode: envBindNever}, settings)
	return &DictOption{node: c.node, scheme: scheme}
}

// Scheme returns the nested scheme, or nil when the option accepts any map.
func (d *DictOption) Scheme() *Scheme { return d.scheme }

// Validate checks that the value is a map and, when a nested scheme is
// declared, delegates full validation to it.
func (d *DictOption) Validate(value any) error {
	sub, ok := asMap(value)
	if !ok {
		return fmt.Errorf("%w: option %q: %v (%T) is not a map", ErrValidation, d.name, value, value)
	}
	if d.scheme != nil {
		return d.scheme.Validate(sub)
	}
	return nil
}

func (d *DictOption) parseEnv(key string, env Environ, prefix string, _ bool) (any, bool, error) {
	if d.binding.mode != envBindDerive {
		return nil, false, nil
	}

	envKey := deriveEnvKey(key, prefix)
	if !strings.HasSuffix(envKey, "_") {
		envKey += "_"
	}

	values := NewDotMap()
	for name, v := range env {
		if strings.HasPrefix(name, envKey) {
			dotted := strings.ToLower(strings.ReplaceAll(name[len(envKey):], "_", "."))
			values.Set(dotted, v)
		}
	}
	if len(values) == 0 {
		return nil, false, nil
	}
	return values, true, nil
}
