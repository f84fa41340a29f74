// File: lixenwraith/configurable/helper.go
package configurable

import (
	"fmt"
	"strings"
)

// Lookup reads a setting by dot-separated path, e.g. "kafka.producer.acks".
// Embedded trees are traversed like nested nodes.
func (n *Node) Lookup(path string) (any, error) {
	parent, last, err := n.walk(path)
	if err != nil {
		return nil, err
	}
	return parent.Get(last)
}

// SetPath overwrites a setting by dot-separated path.
func (n *Node) SetPath(path string, value any) error {
	parent, last, err := n.walk(path)
	if err != nil {
		return err
	}
	return parent.Set(last, value)
}

// walk resolves every segment but the last one to a node
func (n *Node) walk(path string) (*Node, string, error) {
	segments, err := splitPath(path)
	if err != nil {
		return nil, "", err
	}

	current := n
	for _, segment := range segments[:len(segments)-1] {
		child, err := current.Child(segment)
		if err != nil {
			return nil, "", fmt.Errorf("path %q: %w", path, err)
		}
		current = child
	}

	return current, segments[len(segments)-1], nil
}

// Paths returns the dot-separated paths of all leaves declared in this tree,
// in declaration order. Embedded trees belong to their own owner and are skipped.
func (n *Node) Paths() []string {
	var paths []string
	n.walkLeaves("", func(path string, _ *Node, _ *Leaf) {
		paths = append(paths, path)
	})
	return paths
}

// walkLeaves visits every declared leaf with its owning node, depth first
func (n *Node) walkLeaves(prefix string, visit func(path string, owner *Node, l *Leaf)) {
	n.mu.RLock()
	children := make([]entry, len(n.children))
	copy(children, n.children)
	n.mu.RUnlock()

	for _, c := range children {
		path := c.Name()
		if prefix != "" {
			path = prefix + "." + path
		}

		switch v := c.(type) {
		case *Leaf:
			visit(path, n, v)
		case *Node:
			v.walkLeaves(path, visit)
		}
	}
}

// peek returns the stored value of a leaf without forcing lazy resolution.
// Pending lazy leaves report their default.
func (n *Node) peek(l *Leaf) (value any, pending bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if l.lazy && l.state != lazyResolved {
		return l.def, true
	}
	if !l.compiled {
		return l.def, true
	}
	return n.values[l.name], false
}

// splitPath validates and splits a dot-separated path
func splitPath(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidName)
	}

	segments := strings.Split(path, ".")
	for _, segment := range segments {
		if !isValidKeySegment(segment) {
			return nil, fmt.Errorf("%w: segment %q in path %q", ErrInvalidName, segment, path)
		}
	}
	return segments, nil
}

// flattenDeclared converts a nested map to flat dot-notation paths. Descent
// stops at declared paths so map-valued settings are kept whole.
func flattenDeclared(nested map[string]any, prefix string, declared map[string]bool) map[string]any {
	flat := make(map[string]any)

	for key, value := range nested {
		newPath := key
		if prefix != "" {
			newPath = prefix + "." + key
		}

		if declared[newPath] {
			flat[newPath] = value
			continue
		}

		if nestedMap, isMap := value.(map[string]any); isMap {
			for subPath, subValue := range flattenDeclared(nestedMap, newPath, declared) {
				flat[subPath] = subValue
			}
		} else {
			flat[newPath] = value
		}
	}

	return flat
}

// navigateToPath traverses nested map to reach the specified path
func navigateToPath(nested map[string]any, path string) any {
	path = strings.TrimSuffix(path, ".")
	if path == "" {
		return nested
	}

	current := any(nested)
	for _, segment := range strings.Split(path, ".") {
		currentMap, ok := current.(map[string]any)
		if !ok {
			return nil
		}

		value, exists := currentMap[segment]
		if !exists {
			return nil
		}
		current = value
	}

	return current
}

// isValidKeySegment checks if a single path segment is a valid setting name.
// Names start with a letter or underscore, followed by letters, digits, '_' or '-'.
func isValidKeySegment(s string) bool {
	if len(s) == 0 {
		return false
	}

	for i, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		isUnderscore := r == '_'
		isDash := r == '-'

		if i == 0 && !(isLetter || isUnderscore) {
			return false
		}
		if !(isLetter || isDigit || isUnderscore || isDash) {
			return false
		}
	}
	return true
}
