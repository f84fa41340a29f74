// FILE: lixenwraith/configurable/leaf.go
package configurable

import (
	"reflect"

	"github.com/mohae/deepcopy"
)

// ConstructorFunc computes a leaf value from the leaf's default.
type ConstructorFunc func(def any) (any, error)

// FactoryFunc computes a leaf value without looking at the default.
type FactoryFunc func() (any, error)

type lazyState int

const (
	lazyPending lazyState = iota
	lazyResolved
)

// Leaf is a terminal setting: a name plus the policy used to resolve its value.
// Resolved values live on the owning Node, never on the Leaf.
type Leaf struct {
	name      string
	def       any
	construct ConstructorFunc
	factory   FactoryFunc
	lazy      bool

	// guarded by the owning node's mutex
	compiled bool
	state    lazyState
}

// Name returns the setting name.
func (l *Leaf) Name() string { return l.name }

// Default returns the declared default value.
func (l *Leaf) Default() any { return l.def }

// Lazy reports whether the leaf resolves on first read.
func (l *Leaf) Lazy() bool { return l.lazy }

// Embeds reports whether the default is another configuration tree.
func (l *Leaf) Embeds() bool {
	_, ok := l.def.(*Node)
	return ok
}

// build runs the constructor honoring its arity, or falls back to the default.
func (l *Leaf) build() (any, error) {
	switch {
	case l.factory != nil:
		return l.factory()
	case l.construct != nil:
		return l.construct(l.def)
	default:
		return l.def, nil
	}
}

// clone returns an unresolved copy for a new owner
func (l *Leaf) clone() *Leaf {
	return &Leaf{
		name:      l.name,
		def:       copyValue(l.def),
		construct: l.construct,
		factory:   l.factory,
		lazy:      l.lazy,
	}
}

// copyValue copies plain data (scalars, maps, slices and arrays of them) and
// values implementing deepcopy.Interface. Anything else, such as pointers,
// structs, funcs and embedded trees, is shared by reference: a cloned owner
// gets the same *regexp.Regexp or *slog.Logger as the schema it came from.
func copyValue(v any) any {
	switch v.(type) {
	case nil, *Node:
		return v
	case deepcopy.Interface:
		return deepcopy.Copy(v)
	}

	rv := reflect.ValueOf(v)
	if plainData(rv.Type()) {
		return deepcopy.Copy(v)
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), copyElem(iter.Value()))
		}
		return out.Interface()
	case reflect.Slice:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := range rv.Len() {
			out.Index(i).Set(copyElem(rv.Index(i)))
		}
		return out.Interface()
	}
	return v
}

// copyElem copies a container element, keeping the original when the copy
// would not fit the container's element type
func copyElem(elem reflect.Value) reflect.Value {
	if elem.Kind() == reflect.Interface && elem.IsNil() {
		return elem
	}
	c := copyValue(elem.Interface())
	if c == nil {
		return elem
	}
	cv := reflect.ValueOf(c)
	if !cv.Type().AssignableTo(elem.Type()) {
		return elem
	}
	return cv
}

// plainData reports whether t holds no references deepcopy could mangle
func plainData(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Map:
		return plainData(t.Key()) && plainData(t.Elem())
	case reflect.Slice, reflect.Array:
		return plainData(t.Elem())
	}
	return false
}

// truthy reports whether a lazy constructor result may be pinned.
// nil, false and typed nil references count as absent.
func truthy(v any) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	}
	return true
}
