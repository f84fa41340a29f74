// FILE: lixenwraith/configurable/errors.go
package configurable

import "errors"

// MaxValueSize bounds a single environment or command-line override value.
const MaxValueSize = 1024 * 1024

var (
	// ErrUnknownSetting is returned when reading or writing a name that was never
	// declared on the node being accessed.
	ErrUnknownSetting = errors.New("unknown setting")

	// ErrTypeMismatch is returned when a value expected to be a *Node is not one,
	// or when a typed getter cannot convert the stored value.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrInvalidName is returned for setting names that are not valid key segments.
	ErrInvalidName = errors.New("invalid setting name")

	// ErrNestedDefinition is returned when a nested block is combined with leaf options.
	ErrNestedDefinition = errors.New("nested setting cannot take a default, constructor or lazy flag")

	// ErrOverridesNotFound is returned when the overrides file does not exist.
	// It is not fatal for Builder.Build.
	ErrOverridesNotFound = errors.New("overrides file not found")

	// ErrCLIParse wraps command-line parsing failures.
	ErrCLIParse = errors.New("failed to parse command-line arguments")

	// ErrValueSize is returned when an override value exceeds MaxValueSize.
	ErrValueSize = errors.New("override value exceeds maximum size")

	// ErrRequired is returned by Validate for missing required settings.
	ErrRequired = errors.New("missing required setting")
)
