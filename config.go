// FILE: lixenwraith/configurable/config.go
package configurable

import (
	"fmt"
)

// Schema is a class-level owner of a settings tree. Its declarations act as a
// template: extensions and instances clone it and resolve values on their own.
type Schema struct {
	root   *Node
	parent *Schema
}

// Instance is an object-level owner holding a private copy of a schema's tree.
type Instance struct {
	schema *Schema
	config *Node
}

// NewSchema declares a new schema. decl may be nil and settings added later
// through Setting.
func NewSchema(decl NestingFunc) (*Schema, error) {
	root, err := NewNode(RootName, decl)
	if err != nil {
		return nil, fmt.Errorf("schema declaration failed: %w", err)
	}
	return &Schema{root: root}, nil
}

// MustSchema is like NewSchema but panics on error
func MustSchema(decl NestingFunc) *Schema {
	s, err := NewSchema(decl)
	if err != nil {
		panic(fmt.Sprintf("schema declaration failed: %v", err))
	}
	return s
}

// Setting declares a setting on the schema's own tree.
// Extensions and instances created earlier are not affected.
func (s *Schema) Setting(name string, opts ...SettingOption) error {
	return s.root.Setting(name, opts...)
}

// Config returns the schema's own tree.
func (s *Schema) Config() *Node {
	return s.root
}

// Configure compiles the schema's tree and applies fn to it.
func (s *Schema) Configure(fn CustomizeFunc) (*Node, error) {
	return s.root.Configure(fn)
}

// Parent returns the schema this one extends, nil for base schemas.
func (s *Schema) Parent() *Schema {
	return s.parent
}

// Extend derives a schema from the current declarations of s and adds the
// settings declared by decl. The derived tree starts unresolved, so values
// overridden on s are not inherited, and settings added by decl never appear on s.
func (s *Schema) Extend(decl NestingFunc) (*Schema, error) {
	root := s.root.DeepCopy()
	if decl != nil {
		decl(root)
	}
	if err := root.declErr(); err != nil {
		return nil, fmt.Errorf("schema extension failed: %w", err)
	}
	if _, err := root.Configure(nil); err != nil {
		return nil, fmt.Errorf("schema extension failed: %w", err)
	}
	return &Schema{root: root, parent: s}, nil
}

// New creates an instance with its own compiled copy of the schema's tree.
func (s *Schema) New() (*Instance, error) {
	config := s.root.DeepCopy()
	if _, err := config.Configure(nil); err != nil {
		return nil, fmt.Errorf("instance configuration failed: %w", err)
	}
	return &Instance{schema: s, config: config}, nil
}

// Schema returns the schema the instance was created from.
func (i *Instance) Schema() *Schema {
	return i.schema
}

// Config returns the instance's private tree.
func (i *Instance) Config() *Node {
	return i.config
}

// Configure compiles the instance's tree and applies fn to it.
func (i *Instance) Configure(fn CustomizeFunc) (*Node, error) {
	return i.config.Configure(fn)
}
