// FILE: lixenwraith/configurable/snapshot.go
package configurable

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"
)

// Snapshot is an immutable, ordered projection of a compiled tree.
// Nested nodes appear as nested snapshots.
type Snapshot struct {
	keys   []string
	values map[string]any
}

// Snapshot materializes the tree. Lazy leaves still pending are resolved first.
func (n *Node) Snapshot() (*Snapshot, error) {
	n.mu.RLock()
	children := make([]entry, len(n.children))
	copy(children, n.children)
	n.mu.RUnlock()

	s := &Snapshot{
		keys:   make([]string, 0, len(children)),
		values: make(map[string]any, len(children)),
	}

	for _, c := range children {
		name := c.Name()

		// Declared nodes are snapshotted as declared, whatever their accessor holds
		if child, ok := c.(*Node); ok {
			sub, err := child.Snapshot()
			if err != nil {
				return nil, fmt.Errorf("setting %q: %w", name, err)
			}
			s.values[name] = sub
			s.keys = append(s.keys, name)
			continue
		}

		value, err := n.Get(name)
		if err != nil {
			return nil, err
		}

		switch v := value.(type) {
		case *Node:
			if v == nil {
				return nil, fmt.Errorf("%w: %q on node %q holds a nil node", ErrTypeMismatch, name, n.name)
			}
			sub, err := v.Snapshot()
			if err != nil {
				return nil, fmt.Errorf("setting %q: %w", name, err)
			}
			s.values[name] = sub
		default:
			// An embedding leaf must still hold a tree
			if l, ok := c.(*Leaf); ok && l.Embeds() {
				return nil, fmt.Errorf("%w: %q on node %q holds %T, not a node", ErrTypeMismatch, name, n.name, value)
			}
			s.values[name] = copyValue(value)
		}
		s.keys = append(s.keys, name)
	}

	return s, nil
}

// Keys returns the keys in declaration order.
func (s *Snapshot) Keys() []string {
	keys := make([]string, len(s.keys))
	copy(keys, s.keys)
	return keys
}

// Len returns the number of keys.
func (s *Snapshot) Len() int {
	return len(s.keys)
}

// Get returns a copy of the value under key. Nested scopes are *Snapshot.
// Values that are not plain data are shared, see copyValue.
func (s *Snapshot) Get(key string) (any, bool) {
	value, ok := s.values[key]
	if !ok {
		return nil, false
	}
	if sub, isSnap := value.(*Snapshot); isSnap {
		return sub, true
	}
	return copyValue(value), true
}

// Lookup returns the value under a dot-separated path.
func (s *Snapshot) Lookup(path string) (any, bool) {
	path = strings.TrimSuffix(path, ".")
	if path == "" {
		return s, true
	}

	current := s
	segments := strings.Split(path, ".")
	for i, segment := range segments {
		value, ok := current.Get(segment)
		if !ok {
			return nil, false
		}
		if i == len(segments)-1 {
			return value, true
		}
		sub, isSnap := value.(*Snapshot)
		if !isSnap {
			return nil, false
		}
		current = sub
	}
	return nil, false
}

// Map returns the snapshot as plain nested maps.
func (s *Snapshot) Map() map[string]any {
	out := make(map[string]any, len(s.keys))
	for _, key := range s.keys {
		value := s.values[key]
		if sub, ok := value.(*Snapshot); ok {
			out[key] = sub.Map()
			continue
		}
		out[key] = copyValue(value)
	}
	return out
}

// Equal reports whether both snapshots hold the same keys, order and values.
func (s *Snapshot) Equal(other *Snapshot) bool {
	if other == nil {
		return false
	}
	if !reflect.DeepEqual(s.keys, other.keys) {
		return false
	}
	return reflect.DeepEqual(s.Map(), other.Map())
}

// MarshalJSON encodes the snapshot as a JSON object keeping declaration order.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, key := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		keyData, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		valueData, err := json.Marshal(s.values[key])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %q: %w", key, err)
		}

		buf.Write(keyData)
		buf.WriteByte(':')
		buf.Write(valueData)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the snapshot as a YAML mapping keeping declaration order.
func (s *Snapshot) MarshalYAML() (any, error) {
	mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	for _, key := range s.keys {
		var value yaml.Node
		if err := value.Encode(s.values[key]); err != nil {
			return nil, fmt.Errorf("failed to marshal %q: %w", key, err)
		}
		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			&value,
		)
	}

	return mapping, nil
}
