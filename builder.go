// File: lixenwraith/configurable/builder.go
package configurable

import (
	"errors"
	"fmt"
	"os"
)

// ValidatorFunc defines the signature for a function that can validate a configured tree.
// It receives the fully configured *Node and should return an error if validation fails.
type ValidatorFunc func(n *Node) error

// Builder provides a fluent interface for configuring a tree from overrides
// files, environment variables and command-line arguments.
type Builder struct {
	node        *Node
	opts        LoadOptions
	file        string
	args        []string
	err         error
	customizers []CustomizeFunc
	validators  []ValidatorFunc
}

// NewBuilder creates a builder configuring the given tree, usually
// Schema.Config() or Instance.Config().
func NewBuilder(n *Node) *Builder {
	b := &Builder{
		node:        n,
		opts:        DefaultLoadOptions(),
		args:        os.Args[1:],
		customizers: make([]CustomizeFunc, 0),
		validators:  make([]ValidatorFunc, 0),
	}
	if n == nil {
		b.err = fmt.Errorf("builder requires a non-nil node")
	}
	return b
}

// WithFile sets the overrides file path
func (b *Builder) WithFile(path string) *Builder {
	b.file = path
	return b
}

// WithFileFormat forces the overrides file format
func (b *Builder) WithFileFormat(format string) *Builder {
	switch format {
	case FormatTOML, FormatJSON, FormatYAML, FormatAuto, "":
		b.opts.FileFormat = format
	default:
		b.err = fmt.Errorf("unsupported file format %q", format)
	}
	return b
}

// WithArgs sets the command-line arguments
func (b *Builder) WithArgs(args []string) *Builder {
	b.args = args
	return b
}

// WithEnvPrefix sets the environment variable prefix
func (b *Builder) WithEnvPrefix(prefix string) *Builder {
	b.opts.EnvPrefix = prefix
	return b
}

// WithEnvTransform sets a custom environment variable transformer
func (b *Builder) WithEnvTransform(fn EnvTransformFunc) *Builder {
	b.opts.EnvTransform = fn
	return b
}

// WithEnvWhitelist limits which paths are checked for env vars
func (b *Builder) WithEnvWhitelist(paths ...string) *Builder {
	if b.opts.EnvWhitelist == nil {
		b.opts.EnvWhitelist = make(map[string]bool)
	}
	for _, path := range paths {
		b.opts.EnvWhitelist[path] = true
	}
	return b
}

// WithSources sets the precedence order for overrides sources
func (b *Builder) WithSources(sources ...Source) *Builder {
	b.opts.Sources = sources
	return b
}

// WithCustomizer adds a customization step that runs after overrides are applied
func (b *Builder) WithCustomizer(fn CustomizeFunc) *Builder {
	if fn != nil {
		b.customizers = append(b.customizers, fn)
	}
	return b
}

// WithValidator adds a validation function that runs at the end of the build process
// Multiple validators can be added and are executed in the order they are added
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Build collects overrides, configures the tree with them and runs validators.
// A missing overrides file is reported as ErrOverridesNotFound alongside the tree.
func (b *Builder) Build() (*Node, error) {
	if b.err != nil {
		return nil, b.err
	}

	overrides, loadErr := LoadOverrides(b.node, b.file, b.args, b.opts)
	if loadErr != nil && !errors.Is(loadErr, ErrOverridesNotFound) {
		return nil, loadErr
	}

	node, err := b.node.Configure(func(n *Node) error {
		if err := n.Apply(overrides); err != nil {
			return fmt.Errorf("failed to apply overrides: %w", err)
		}
		for _, customize := range b.customizers {
			if err := customize(n); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, validator := range b.validators {
		if err := validator(node); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	// ErrOverridesNotFound or nil
	return node, loadErr
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() *Node {
	node, err := b.Build()
	if err != nil && !errors.Is(err, ErrOverridesNotFound) {
		panic(fmt.Sprintf("configuration build failed: %v", err))
	}
	return node
}

// BuildAndScan builds and decodes the final tree into the provided target struct pointer
func (b *Builder) BuildAndScan(target any) error {
	node, err := b.Build()
	if err != nil && !errors.Is(err, ErrOverridesNotFound) {
		return err
	}

	if err := node.Scan("", target); err != nil {
		return fmt.Errorf("failed to scan configured tree into target: %w", err)
	}

	// ErrOverridesNotFound or nil
	return err
}
