// FILE: lixenwraith/configurable/node.go
package configurable

import (
	"fmt"
	"slices"
	"sync"
)

// RootName is the name of the node owned directly by a Schema or Instance.
// The root always recompiles on Configure so late settings are admitted.
const RootName = "root"

// NestingFunc declares the settings of a node.
type NestingFunc func(n *Node)

// CustomizeFunc receives a compiled node and may overwrite any of its values.
type CustomizeFunc func(n *Node) error

// entry is a child of a node, either *Leaf or *Node
type entry interface {
	Name() string
}

// accessor is a reader/writer pair installed by a node for one of its children
type accessor struct {
	target entry
	get    func() (any, error)
	set    func(value any)
}

// Node is a named container of ordered settings and nested nodes.
// Reads and writes go through accessors installed while compiling.
type Node struct {
	name     string
	nestings NestingFunc

	mu        sync.RWMutex
	children  []entry
	compiled  bool
	err       error                // first declaration error
	accessors map[string]*accessor // accessors installed by this instance
	values    map[string]any       // backing storage for accessors
}

// NewNode creates a node and runs nestings against it.
// Any error raised by a declaration inside nestings is returned.
func NewNode(name string, nestings NestingFunc) (*Node, error) {
	n := newNode(name, nestings)
	if nestings != nil {
		nestings(n)
	}
	if err := n.declErr(); err != nil {
		return nil, err
	}
	if err := n.compile(); err != nil {
		return nil, err
	}
	return n, nil
}

func newNode(name string, nestings NestingFunc) *Node {
	return &Node{
		name:      name,
		nestings:  nestings,
		accessors: make(map[string]*accessor),
		values:    make(map[string]any),
	}
}

// Name returns the node name.
func (n *Node) Name() string { return n.name }

// Nestings returns the declaration block of the node, nil for roots.
func (n *Node) Nestings() NestingFunc { return n.nestings }

// Compiled reports whether the node finished at least one compile pass.
func (n *Node) Compiled() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.compiled
}

// Names returns the declared child names in declaration order.
func (n *Node) Names() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()

	names := make([]string, 0, len(n.children))
	for _, c := range n.children {
		names = append(names, c.Name())
	}
	return names
}

// Leaf returns the declaration of a terminal setting.
func (n *Node) Leaf(name string) (*Leaf, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for _, c := range n.children {
		if l, ok := c.(*Leaf); ok && l.name == name {
			return l, true
		}
	}
	return nil, false
}

// Configure compiles the node if it never compiled, or always for the root,
// then hands it to fn for overrides. Values resolved earlier are never reset.
func (n *Node) Configure(fn CustomizeFunc) (*Node, error) {
	if !n.Compiled() || n.name == RootName {
		if err := n.compile(); err != nil {
			return nil, err
		}
	}

	if fn != nil {
		if err := fn(n); err != nil {
			return nil, err
		}
	}

	return n, nil
}

// Get reads a setting or nested node declared on this node.
func (n *Node) Get(name string) (any, error) {
	n.mu.RLock()
	a, ok := n.accessors[name]
	n.mu.RUnlock()

	if !ok {
		return nil, n.unknown(name)
	}
	return a.get()
}

// Set overwrites a setting or nested node declared on this node.
// Writing a lazy setting pins it for the lifetime of this node.
func (n *Node) Set(name string, value any) error {
	n.mu.RLock()
	a, ok := n.accessors[name]
	n.mu.RUnlock()

	if !ok {
		return n.unknown(name)
	}
	a.set(value)
	return nil
}

// Child returns the nested node currently stored under name.
func (n *Node) Child(name string) (*Node, error) {
	v, err := n.Get(name)
	if err != nil {
		return nil, err
	}

	child, ok := v.(*Node)
	if !ok || child == nil {
		return nil, fmt.Errorf("%w: %q on node %q holds %T, not a node", ErrTypeMismatch, name, n.name, v)
	}
	return child, nil
}

// DeepCopy returns an independent, unresolved copy of the tree.
// Nestings are not re-run; children are copied from this node.
func (n *Node) DeepCopy() *Node {
	n.mu.RLock()
	children := slices.Clone(n.children)
	n.mu.RUnlock()

	dup := newNode(n.name, n.nestings)
	dup.children = make([]entry, 0, len(children))

	for _, c := range children {
		switch v := c.(type) {
		case *Leaf:
			n.mu.RLock()
			cl := v.clone()
			n.mu.RUnlock()
			dup.children = append(dup.children, cl)
		case *Node:
			dup.children = append(dup.children, v.DeepCopy())
		}
	}

	return dup
}

// compile resolves every unresolved leaf, descends into nested nodes and
// installs accessors that this instance has not installed yet.
func (n *Node) compile() error {
	n.mu.RLock()
	if n.err != nil {
		err := n.err
		n.mu.RUnlock()
		return err
	}
	children := slices.Clone(n.children)
	n.mu.RUnlock()

	for _, c := range children {
		switch v := c.(type) {
		case *Node:
			if err := v.compile(); err != nil {
				return fmt.Errorf("setting %q: %w", v.name, err)
			}
		case *Leaf:
			if err := n.resolve(v); err != nil {
				return fmt.Errorf("setting %q: %w", v.name, err)
			}
		}
		n.install(c)
	}

	n.mu.Lock()
	n.compiled = true
	n.mu.Unlock()
	return nil
}

// resolve computes an eager leaf once. Lazy leaves only get marked, their
// value is produced by the deferred reader.
func (n *Node) resolve(l *Leaf) error {
	n.mu.RLock()
	done := l.compiled
	n.mu.RUnlock()
	if done {
		return nil
	}

	if l.lazy {
		n.mu.Lock()
		l.compiled = true
		n.mu.Unlock()
		return nil
	}

	value, err := l.build()
	if err != nil {
		return err
	}

	n.mu.Lock()
	if !l.compiled {
		n.values[l.name] = value
		l.compiled = true
	}
	n.mu.Unlock()
	return nil
}

// install binds a reader/writer pair for c unless this node already bound one to it
func (n *Node) install(c entry) {
	n.mu.Lock()
	defer n.mu.Unlock()

	name := c.Name()
	if a, ok := n.accessors[name]; ok && a.target == c {
		return
	}

	switch v := c.(type) {
	case *Leaf:
		if v.lazy {
			n.accessors[name] = n.lazyAccessor(v)
			return
		}
		n.accessors[name] = n.fieldAccessor(c)
	case *Node:
		n.values[name] = v
		n.accessors[name] = n.fieldAccessor(c)
	}
}

// fieldAccessor reads and writes the stored value directly
func (n *Node) fieldAccessor(c entry) *accessor {
	name := c.Name()
	return &accessor{
		target: c,
		get: func() (any, error) {
			n.mu.RLock()
			defer n.mu.RUnlock()
			return n.values[name], nil
		},
		set: func(value any) {
			n.mu.Lock()
			n.values[name] = value
			n.mu.Unlock()
		},
	}
}

// lazyAccessor retries the constructor on every read until it yields a truthy
// value, then serves the pinned value.
func (n *Node) lazyAccessor(l *Leaf) *accessor {
	return &accessor{
		target: l,
		get: func() (any, error) {
			n.mu.RLock()
			if l.state == lazyResolved {
				value := n.values[l.name]
				n.mu.RUnlock()
				return value, nil
			}
			n.mu.RUnlock()

			// Constructor runs unlocked so it may read sibling settings
			value, err := l.build()
			if err != nil {
				return nil, fmt.Errorf("setting %q: %w", l.name, err)
			}
			if !truthy(value) {
				return value, nil
			}

			n.mu.Lock()
			defer n.mu.Unlock()
			if l.state == lazyResolved {
				return n.values[l.name], nil
			}
			n.values[l.name] = value
			l.state = lazyResolved
			return value, nil
		},
		set: func(value any) {
			n.mu.Lock()
			n.values[l.name] = value
			l.state = lazyResolved
			n.mu.Unlock()
		},
	}
}

// fail records the first declaration error
func (n *Node) fail(err error) error {
	n.mu.Lock()
	if n.err == nil {
		n.err = err
	}
	n.mu.Unlock()
	return err
}

func (n *Node) declErr() error {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.err
}

func (n *Node) unknown(name string) error {
	return fmt.Errorf("%w: %q on node %q", ErrUnknownSetting, name, n.name)
}
