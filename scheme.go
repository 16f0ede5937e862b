// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package dotconf

import (
	"fmt"
	"sync"
)

// Scheme is an ordered collection of scheme nodes describing the expected
// shape of a configuration. It derives the defaults layer, flattens nested
// node trees into dotted keys for environment binding, and validates a
// configuration map against its declared nodes.
//
// A Scheme is append-only at construction time: nodes are supplied to
// [NewScheme] and never added afterwards, which keeps the memoized flattening
// valid for the Scheme's lifetime. Sibling nodes sharing a name silently
// shadow each other; the last declaration wins in both BuildDefaults and
// Flatten.
type Scheme struct {
	nodes []SchemeNode

	mu       sync.Mutex
	flat     map[string]SchemeNode
	flatKeys []string
}

// NewScheme constructs a Scheme from the given nodes, in order.
func NewScheme(nodes ...SchemeNode) *Scheme {
	return &Scheme{nodes: nodes}
}

// BuildDefaults assembles the default configuration declared by the Scheme.
// A node contributes its own default when it declares one; a [DictOption]
// additionally contributes its nested scheme's defaults under its name
// whenever those are non-empty, even if the DictOption itself declares no
// default. Returns ErrInvalidScheme when the Scheme holds a nil node.
func (s *Scheme) BuildDefaults() (map[string]any, error) {
	defaults := make(map[string]any)
	for _, n := range s.nodes {
		if n == nil {
			return nil, fmt.Errorf("%w: cannot build default for a nil node", ErrInvalidScheme)
		}

		if v, ok := n.defaultValue(); ok {
			defaults[n.Name()] = v
		}

		if d, ok := n.(*DictOption); ok && d.scheme != nil {
			sub, err := d.scheme.BuildDefaults()
			if err != nil {
				return nil, err
			}
			if len(sub) > 0 {
				defaults[d.Name()] = sub
			}
		}
	}
	return defaults, nil
}

// Flatten maps every dotted key the Scheme declares to its owning node.
// [Option] and [ListOption] nodes map their own name; a [DictOption] maps
// its name to itself and its nested scheme's entries under "<name>.<child>".
// The result is memoized: repeated calls return the same mapping.
func (s *Scheme) Flatten() map[string]SchemeNode {
	flat, _ := s.flatten()
	return flat
}

// flatten returns the memoized mapping together with the dotted keys in
// declaration order (parents before their children), which environment
// parsing relies on so that a DictOption's scanned subtree can be refined by
// its explicitly declared children.
func (s *Scheme) flatten() (map[string]SchemeNode, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.flat == nil {
		s.flat = make(map[string]SchemeNode)
		for _, n := range s.nodes {
			switch n := n.(type) {
			case *Option, *ListOption:
				s.addFlat(n.Name(), n)
			case *DictOption:
				s.addFlat(n.Name(), n)
				if n.scheme != nil {
					subFlat, subKeys := n.scheme.flatten()
					for _, k := range subKeys {
						s.addFlat(n.Name()+"."+k, subFlat[k])
					}
				}
			}
		}
	}
	return s.flat, s.flatKeys
}

// addFlat records a flattened entry, keeping the first insertion position
// and the last value when a key repeats.
func (s *Scheme) addFlat(key string, n SchemeNode) {
	if _, seen := s.flat[key]; !seen {
		s.flatKeys = append(s.flatKeys, key)
	}
	s.flat[key] = n
}

// Validate checks config against the Scheme. The config must be a map; every
// declared node that is present is validated by its own rules, and a missing
// node is an error when it is required and declares no default. Validation
// stops at the first failing node.
func (s *Scheme) Validate(config any) error {
	cfg, ok := asMap(config)
	if !ok {
		return fmt.Errorf("%w: can only validate a map, got %v (%T)", ErrValidation, config, config)
	}

	for _, n := range s.nodes {
		if n == nil {
			return fmt.Errorf("%w: cannot validate against a nil node", ErrInvalidScheme)
		}

		value, present := cfg[n.Name()]
		if present {
			if err := n.Validate(value); err != nil {
				return err
			}
			continue
		}

		if _, hasDefault := n.defaultValue(); n.isRequired() && !hasDefault {
			return fmt.Errorf("%w: option %q is required, but not found", ErrValidation, n.Name())
		}
	}
	return nil
}
