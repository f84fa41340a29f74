// FILE: lixenwraith/configurable/loader.go
package configurable

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"dario.cat/mergo"
)

// Source represents an overrides source, used to define load precedence
type Source string

const (
	// SourceFile represents values loaded from an overrides file
	SourceFile Source = "file"
	// SourceEnv represents values loaded from environment variables
	SourceEnv Source = "env"
	// SourceCLI represents values loaded from command-line arguments
	SourceCLI Source = "cli"
)

// EnvTransformFunc converts a setting path to an environment variable name
type EnvTransformFunc func(path string) string

// LoadOptions configures how overrides are collected from multiple sources
type LoadOptions struct {
	// Sources defines the precedence order (first = highest priority)
	// Default: [SourceCLI, SourceEnv, SourceFile]
	Sources []Source

	// EnvPrefix is prepended to environment variable names
	// Example: "MYAPP_" transforms "kafka.client_id" to "MYAPP_KAFKA_CLIENT_ID"
	EnvPrefix string

	// EnvTransform customizes how paths map to environment variables
	// If nil, uses default transformation (dots to underscores, uppercase)
	EnvTransform EnvTransformFunc

	// EnvWhitelist limits which paths are checked for env vars (nil = all)
	EnvWhitelist map[string]bool

	// FileFormat forces the overrides file format ("toml", "json", "yaml").
	// Empty or "auto" detects from extension, then content.
	FileFormat string
}

// DefaultLoadOptions returns the standard load options
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Sources: []Source{SourceCLI, SourceEnv, SourceFile},
	}
}

// LoadOverrides collects overrides for the declared paths of n from every
// source in opts and layers them by precedence. The result maps paths to values.
// A missing file yields ErrOverridesNotFound together with the other sources' values.
func LoadOverrides(n *Node, filePath string, args []string, opts LoadOptions) (map[string]any, error) {
	declared := make(map[string]bool)
	for _, path := range n.Paths() {
		declared[path] = true
	}

	merged := make(map[string]any)
	var loadErrors []error

	// Lowest precedence first so higher sources override
	for i := len(opts.Sources) - 1; i >= 0; i-- {
		var (
			layer map[string]any
			err   error
		)

		switch opts.Sources[i] {
		case SourceFile:
			if filePath == "" {
				continue
			}
			layer, err = loadFile(filePath, opts.FileFormat, declared)
			if err != nil {
				if !errors.Is(err, ErrOverridesNotFound) {
					return nil, err
				}
				loadErrors = append(loadErrors, err)
				continue
			}
		case SourceEnv:
			layer, err = loadEnv(declared, opts)
		case SourceCLI:
			if len(args) == 0 {
				continue
			}
			layer, err = loadCLI(args)
		default:
			err = fmt.Errorf("unknown overrides source %q", opts.Sources[i])
		}

		if err != nil {
			return nil, err
		}

		// WithOverwriteWithEmptyValue would drop keys missing from the layer
		if err := mergo.Merge(&merged, filterDeclared(layer, declared), mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge %s overrides: %w", opts.Sources[i], err)
		}
	}

	return merged, errors.Join(loadErrors...)
}

// Apply writes flat path → value overrides through the tree's writers.
// Every path must be declared.
func (n *Node) Apply(overrides map[string]any) error {
	paths := make([]string, 0, len(overrides))
	for path := range overrides {
		paths = append(paths, path)
	}
	slices.Sort(paths)

	var errs []error
	for _, path := range paths {
		if err := n.SetPath(path, overrides[path]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// filterDeclared drops paths that are not declared, like values from a file
// shared with other programs
func filterDeclared(layer map[string]any, declared map[string]bool) map[string]any {
	filtered := make(map[string]any, len(layer))
	for path, value := range layer {
		if declared[path] {
			filtered[path] = value
		}
	}
	return filtered
}

// loadFile reads and parses an overrides file into flat declared paths
func loadFile(path, format string, declared map[string]bool) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrOverridesNotFound, path)
		}
		return nil, fmt.Errorf("failed to read overrides file '%s': %w", path, err)
	}

	if format == "" || format == FormatAuto {
		format = detectFileFormat(path)
		if format == "" {
			format = detectFormatFromContent(data)
		}
	}

	nested, err := decodeOverrides(data, format, path)
	if err != nil {
		return nil, err
	}
	return flattenDeclared(nested, "", declared), nil
}

// loadEnv looks up an environment variable for every declared path
func loadEnv(declared map[string]bool, opts LoadOptions) (map[string]any, error) {
	transform := opts.EnvTransform
	if transform == nil {
		transform = defaultEnvTransform(opts.EnvPrefix)
	}

	found := make(map[string]any)
	for path := range declared {
		if opts.EnvWhitelist != nil && !opts.EnvWhitelist[path] {
			continue
		}

		if value, exists := os.LookupEnv(transform(path)); exists {
			if len(value) > MaxValueSize {
				return nil, fmt.Errorf("%w: env %s", ErrValueSize, transform(path))
			}
			found[path] = parseValue(value)
		}
	}

	return found, nil
}

// loadCLI parses command-line arguments into flat paths
func loadCLI(args []string) (map[string]any, error) {
	parsed, err := parseArgs(args)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCLIParse, err)
	}
	return parsed, nil
}

// DiscoverEnv finds all environment variables matching declared paths
// and returns a map of path -> env var name for found variables
func (n *Node) DiscoverEnv(prefix string) map[string]string {
	transform := defaultEnvTransform(prefix)
	discovered := make(map[string]string)

	for _, path := range n.Paths() {
		envVar := transform(path)
		if _, exists := os.LookupEnv(envVar); exists {
			discovered[path] = envVar
		}
	}

	return discovered
}

// defaultEnvTransform creates the default environment variable transformer
func defaultEnvTransform(prefix string) EnvTransformFunc {
	return func(path string) string {
		env := strings.ReplaceAll(path, ".", "_")
		env = strings.ReplaceAll(env, "-", "_")
		env = strings.ToUpper(env)
		if prefix != "" {
			env = prefix + env
		}
		return env
	}
}

// parseValue attempts to parse a string into bool, int64 or float64
func parseValue(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}

	// Remove quotes if present
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}

	return s
}

// parseArgs processes command-line arguments into flat paths.
// Accepts "--key.sub=value", "--key.sub value" and "--flag" (true).
func parseArgs(args []string) (map[string]any, error) {
	result := make(map[string]any)
	i := 0
	for i < len(args) {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			i++
			continue
		}

		argContent := strings.TrimPrefix(arg, "--")
		if argContent == "" {
			// "--" separator
			i++
			continue
		}

		var keyPath, valueStr string
		if strings.Contains(argContent, "=") {
			parts := strings.SplitN(argContent, "=", 2)
			keyPath = parts[0]
			valueStr = parts[1]
			i++
		} else {
			keyPath = argContent
			if i+1 >= len(args) || strings.HasPrefix(args[i+1], "--") {
				valueStr = "true"
				i++
			} else {
				valueStr = args[i+1]
				i += 2
			}
		}

		if _, err := splitPath(keyPath); err != nil {
			return nil, fmt.Errorf("invalid command-line key %q: %w", keyPath, err)
		}
		if len(valueStr) > MaxValueSize {
			return nil, fmt.Errorf("%w: flag --%s", ErrValueSize, keyPath)
		}

		result[keyPath] = parseValue(valueStr)
	}

	return result, nil
}
