package dotconf

import (
	"errors"
	"fmt"
)

// ErrConfig is the base error for every failure reported by this package.
// All other exported errors wrap it, so callers that do not care about the
// exact failure mode can match any library error with
// errors.Is(err, ErrConfig).
var ErrConfig = errors.New("config error")

// Errors reported by Scheme construction, validation, and environment
// parsing.
var (
	// ErrInvalidScheme indicates a Scheme that contains an invalid member
	// (for example, a nil node).
	ErrInvalidScheme = fmt.Errorf("%w: invalid scheme", ErrConfig)
	// ErrValidation indicates that a configuration failed validation
	// against its Scheme. Validation stops at the first failing node.
	ErrValidation = fmt.Errorf("%w: scheme validation failed", ErrConfig)
	// ErrCast indicates that an environment value could not be cast to the
	// type declared by its option.
	ErrCast = fmt.Errorf("%w: cast failed", ErrConfig)
	// ErrUnsupportedType indicates a declared option type that the casting
	// rules do not cover.
	ErrUnsupportedType = fmt.Errorf("%w: unsupported type", ErrConfig)
)

// Errors reported by the Resolver when locating and parsing the
// configuration file.
var (
	// ErrFileNotFound indicates that no configuration file was found in any
	// of the configured search paths. Parse suppresses this error (and only
	// this error) when requiresFile is false.
	ErrFileNotFound = fmt.Errorf("%w: config file not found", ErrConfig)
	// ErrFileParse indicates that a configuration file was found but could
	// not be read or parsed.
	ErrFileParse = fmt.Errorf("%w: config file parse failed", ErrConfig)
	// ErrUnsupportedFormat indicates a config format this package does not
	// recognize.
	ErrUnsupportedFormat = fmt.Errorf("%w: unsupported config format", ErrConfig)
)

// ErrKeyNotFound indicates a DotMap.Delete call whose key, or one of its
// intermediate path segments, does not exist or is not a nested map.
// Note the asymmetry with DotMap.Get, which silently returns the fallback
// value for missing keys.
var ErrKeyNotFound = fmt.Errorf("%w: key not found", ErrConfig)
