// File: lixenwraith/configurable/convenience.go
package configurable

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// Quick configures a tree from an overrides file, environment variables with
// envPrefix and os.Args, with standard precedence CLI > Env > File > declared.
func Quick(n *Node, envPrefix, overridesFile string) (*Node, error) {
	return NewBuilder(n).
		WithEnvPrefix(envPrefix).
		WithFile(overridesFile).
		Build()
}

// MustQuick is like Quick but panics on error
func MustQuick(n *Node, envPrefix, overridesFile string) *Node {
	node, err := Quick(n, envPrefix, overridesFile)
	if err != nil && !errors.Is(err, ErrOverridesNotFound) {
		panic(fmt.Sprintf("configuration failed: %v", err))
	}
	return node
}

// GenerateFlags creates a flag set entry for every declared leaf path, typed
// after its current value. Pending lazy leaves are not resolved.
func (n *Node) GenerateFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet(n.name, pflag.ContinueOnError)

	n.walkLeaves("", func(path string, owner *Node, l *Leaf) {
		if l.Embeds() {
			return
		}
		value, _ := owner.peek(l)
		usage := fmt.Sprintf("Setting: %s", path)

		switch v := value.(type) {
		case bool:
			fs.Bool(path, v, usage)
		case int:
			fs.Int(path, v, usage)
		case int64:
			fs.Int64(path, v, usage)
		case float64:
			fs.Float64(path, v, usage)
		case time.Duration:
			fs.Duration(path, v, usage)
		case string:
			fs.String(path, v, usage)
		case []string:
			fs.StringSlice(path, v, usage)
		case nil:
			fs.String(path, "", usage)
		default:
			fs.String(path, fmt.Sprintf("%v", v), usage)
		}
	})

	return fs
}

// BindFlags writes every flag changed on the command line back to the tree
func (n *Node) BindFlags(fs *pflag.FlagSet) error {
	var errs []error

	fs.Visit(func(f *pflag.Flag) {
		var value any
		switch f.Value.Type() {
		case "string":
			value = f.Value.String()
		case "duration":
			value, _ = fs.GetDuration(f.Name)
		case "stringSlice":
			value, _ = fs.GetStringSlice(f.Name)
		case "int":
			value, _ = fs.GetInt(f.Name)
		case "int64":
			value, _ = fs.GetInt64(f.Name)
		case "float64":
			value, _ = fs.GetFloat64(f.Name)
		case "bool":
			value, _ = fs.GetBool(f.Name)
		default:
			value = parseValue(f.Value.String())
		}

		if err := n.SetPath(f.Name, value); err != nil {
			errs = append(errs, fmt.Errorf("flag %s: %w", f.Name, err))
		}
	})

	if len(errs) > 0 {
		return fmt.Errorf("failed to bind %d flags: %w", len(errs), errors.Join(errs...))
	}

	return nil
}

// Validate checks that every required path is declared and resolves to a
// truthy value. Lazy leaves are resolved.
func (n *Node) Validate(required ...string) error {
	var missing []string

	for _, path := range required {
		value, err := n.Lookup(path)
		if err != nil {
			if errors.Is(err, ErrUnknownSetting) {
				missing = append(missing, path+" (not declared)")
				continue
			}
			return err
		}
		if !truthy(value) {
			missing = append(missing, path)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrRequired, strings.Join(missing, ", "))
	}

	return nil
}

// Debug returns a formatted tree of all settings with their resolution state.
// Pending lazy leaves are shown with their default and not resolved.
func (n *Node) Debug() string {
	var b strings.Builder
	b.WriteString("Settings Debug Info:\n")
	n.debug(&b, 1)
	return b.String()
}

func (n *Node) debug(b *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)

	n.mu.RLock()
	children := make([]entry, len(n.children))
	copy(children, n.children)
	n.mu.RUnlock()

	for _, c := range children {
		switch v := c.(type) {
		case *Node:
			fmt.Fprintf(b, "%s%s:\n", indent, v.name)
			v.debug(b, depth+1)
		case *Leaf:
			value, pending := n.peek(v)
			var flags []string
			if v.lazy {
				flags = append(flags, "lazy")
			}
			if pending {
				flags = append(flags, "pending")
			}
			if embedded, ok := value.(*Node); ok && embedded != nil {
				fmt.Fprintf(b, "%s%s: (embedded %s)\n", indent, v.name, embedded.name)
				continue
			}
			if len(flags) > 0 {
				fmt.Fprintf(b, "%s%s = %v [%s]\n", indent, v.name, value, strings.Join(flags, ", "))
			} else {
				fmt.Fprintf(b, "%s%s = %v\n", indent, v.name, value)
			}
		}
	}
}

// Dump writes the snapshot of the tree to w in TOML format.
// A nil writer means stdout.
func (n *Node) Dump(w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}

	snap, err := n.Snapshot()
	if err != nil {
		return err
	}
	return snap.Encode(w, FormatTOML)
}
