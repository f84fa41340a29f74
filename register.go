// FILE: lixenwraith/configurable/register.go
package configurable

import (
	"fmt"
)

// SettingOption configures a single Setting declaration.
type SettingOption func(d *declaration)

// declaration collects the options passed to Setting
type declaration struct {
	def       any
	construct ConstructorFunc
	factory   FactoryFunc
	lazy      bool
	nested    NestingFunc
	leafOpts  bool
}

// WithDefault sets the default value. A *Node default embeds that tree as a
// nested scope which is expanded on snapshot.
func WithDefault(value any) SettingOption {
	return func(d *declaration) {
		d.def = value
		d.leafOpts = true
	}
}

// WithConstructor computes the value from the default.
func WithConstructor(fn ConstructorFunc) SettingOption {
	return func(d *declaration) {
		d.construct = fn
		d.leafOpts = true
	}
}

// WithFactory computes the value without arguments.
func WithFactory(fn FactoryFunc) SettingOption {
	return func(d *declaration) {
		d.factory = fn
		d.leafOpts = true
	}
}

// Lazy defers resolution to the first read and retries while the constructor
// returns nil or false.
func Lazy() SettingOption {
	return func(d *declaration) {
		d.lazy = true
		d.leafOpts = true
	}
}

// Nested declares a nested node whose settings are declared by fn.
func Nested(fn NestingFunc) SettingOption {
	return func(d *declaration) {
		if fn == nil {
			fn = func(*Node) {}
		}
		d.nested = fn
	}
}

// Setting declares a leaf or nested node and compiles the node right away, so
// settings added after Configure are readable immediately.
// Declaring an existing name replaces that setting in place.
func (n *Node) Setting(name string, opts ...SettingOption) error {
	if !isValidKeySegment(name) {
		return n.fail(fmt.Errorf("%w: %q on node %q", ErrInvalidName, name, n.name))
	}

	var d declaration
	for _, opt := range opts {
		opt(&d)
	}

	var child entry
	if d.nested != nil {
		if d.leafOpts {
			return n.fail(fmt.Errorf("%w: %q", ErrNestedDefinition, name))
		}
		nested := newNode(name, d.nested)
		d.nested(nested)
		if err := nested.declErr(); err != nil {
			return n.fail(fmt.Errorf("setting %q: %w", name, err))
		}
		child = nested
	} else {
		child = &Leaf{
			name:      name,
			def:       d.def,
			construct: d.construct,
			factory:   d.factory,
			lazy:      d.lazy,
		}
	}

	n.add(child)

	// Constructor failures are not recorded, here or inside a nested block: the
	// leaf stays unresolved and the next compile retries it.
	return n.compile()
}

// add appends c or replaces the sibling with the same name
func (n *Node) add(c entry) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, existing := range n.children {
		if existing.Name() == c.Name() {
			n.children[i] = c
			return
		}
	}
	n.children = append(n.children, c)
}
