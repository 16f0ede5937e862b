// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package dotconf

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Format identifies a supported configuration file format. Each format knows
// the file extensions it is discovered under and the parser that turns file
// bytes into a generic nested map.
type Format int

const (
	// FormatYAML parses .yml / .yaml files with gopkg.in/yaml.v3.
	FormatYAML Format = iota
	// FormatJSON parses .json files with encoding/json. Note that JSON
	// numbers decode as float64.
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// extensions returns the file extensions associated with the format, in
// discovery order.
func (f Format) extensions() ([]string, error) {
	switch f {
	case FormatYAML:
		return []string{".yml", ".yaml"}, nil
	case FormatJSON:
		return []string{".json"}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
}

// parse decodes file bytes into a nested map. An empty document yields an
// empty map rather than nil.
func (f Format) parse(data []byte) (map[string]any, error) {
	var (
		out map[string]any
		err error
	)
	switch f {
	case FormatYAML:
		err = yaml.Unmarshal(data, &out)
	case FormatJSON:
		err = json.Unmarshal(data, &out)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = make(map[string]any)
	}
	return out, nil
}

// findFile searches each directory in paths for name with each of the
// format's extensions, returning the absolute path of the first existing
// regular file. Exhausting the search (including an empty paths list) is an
// ErrFileNotFound.
func findFile(paths []string, name string, format Format) (string, error) {
	exts, err := format.extensions()
	if err != nil {
		return "", err
	}

	for _, dir := range paths {
		for _, ext := range exts {
			path, err := filepath.Abs(filepath.Join(dir, name+ext))
			if err != nil {
				continue
			}
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, nil
			}
		}
	}
	return "", fmt.Errorf("%w: no file named %q in search paths %v", ErrFileNotFound, name, paths)
}

// loadFile reads and parses path with the given format, wrapping any read or
// decode failure with the file path for context.
func loadFile(path string, format Format) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFileParse, path, err)
	}
	parsed, err := format.parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFileParse, path, err)
	}
	return parsed, nil
}
