// FILE: lixenwraith/configurable/config_test.go
package configurable

import (
	"regexp"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// declareProducer declares the tree shared by the owner tests
func declareProducer(n *Node) {
	n.Setting("with_default", WithDefault(123))
	n.Setting("nested1", Nested(func(n1 *Node) {
		n1.Setting("nested2", Nested(func(n2 *Node) {
			n2.Setting("leaf", WithDefault(6))
			n2.Setting("with_constructor", WithDefault(false), WithConstructor(orDefault(5)))
			n2.Setting("ov_constructor", WithDefault(true), WithConstructor(orDefault(5)))
			n2.Setting("with_zero_constructor", WithFactory(func() (any, error) { return 7, nil }))
			n2.Setting("name", WithDefault("name"))
		}))
		n1.Setting("nested1", WithDefault(1))
	}))
}

func lookup(t *testing.T, n *Node, path string) any {
	t.Helper()
	v, err := n.Lookup(path)
	require.NoError(t, err, "path %s", path)
	return v
}

func assertDeclaredValues(t *testing.T, n *Node) {
	t.Helper()
	assert.Equal(t, 123, lookup(t, n, "with_default"))
	assert.Equal(t, "name", lookup(t, n, "nested1.nested2.name"))
	assert.Equal(t, 6, lookup(t, n, "nested1.nested2.leaf"))
	assert.Equal(t, 1, lookup(t, n, "nested1.nested1"))
	assert.Equal(t, 5, lookup(t, n, "nested1.nested2.with_constructor"))
	assert.Equal(t, true, lookup(t, n, "nested1.nested2.ov_constructor"))
	assert.Equal(t, 7, lookup(t, n, "nested1.nested2.with_zero_constructor"))
}

func TestSchema(t *testing.T) {
	t.Run("NoOverride", func(t *testing.T) {
		s := MustSchema(declareProducer)
		cfg, err := s.Configure(nil)
		require.NoError(t, err)
		assert.Same(t, s.Config(), cfg)
		assertDeclaredValues(t, cfg)
	})

	t.Run("Override", func(t *testing.T) {
		s := MustSchema(declareProducer)
		_, err := s.Configure(func(n *Node) error {
			if err := n.Set("with_default", 7); err != nil {
				return err
			}
			return n.SetPath("nested1.nested2.leaf", 8)
		})
		require.NoError(t, err)

		cfg := s.Config()
		assert.Equal(t, 7, lookup(t, cfg, "with_default"))
		assert.Equal(t, 8, lookup(t, cfg, "nested1.nested2.leaf"))
		assert.Equal(t, 1, lookup(t, cfg, "nested1.nested1"))
		assert.Equal(t, 5, lookup(t, cfg, "nested1.nested2.with_constructor"))
		assert.Equal(t, true, lookup(t, cfg, "nested1.nested2.ov_constructor"))
	})

	t.Run("InjectSettings", func(t *testing.T) {
		s := MustSchema(declareProducer)
		require.NoError(t, s.Setting("testme", WithDefault(7)))
		assert.Equal(t, 7, lookup(t, s.Config(), "testme"))
	})

	t.Run("DeclarationError", func(t *testing.T) {
		_, err := NewSchema(func(n *Node) {
			n.Setting("9lives")
		})
		assert.ErrorIs(t, err, ErrInvalidName)

		assert.Panics(t, func() {
			MustSchema(func(n *Node) { n.Setting("") })
		})
	})

	t.Run("EmptyDeclaration", func(t *testing.T) {
		s, err := NewSchema(nil)
		require.NoError(t, err)
		assert.Empty(t, s.Config().Names())
		assert.Equal(t, RootName, s.Config().Name())
	})
}

func TestSchemaExtend(t *testing.T) {
	t.Run("Inherit", func(t *testing.T) {
		parent := MustSchema(declareProducer)
		sub, err := parent.Extend(func(n *Node) {
			n.Setting("extra", WithDefault(0))
		})
		require.NoError(t, err)
		assert.Same(t, parent, sub.Parent())
		assert.Nil(t, parent.Parent())

		_, err = parent.Configure(nil)
		require.NoError(t, err)
		_, err = sub.Configure(nil)
		require.NoError(t, err)

		_, err = parent.Config().Get("extra")
		assert.ErrorIs(t, err, ErrUnknownSetting)
		assert.Equal(t, 0, lookup(t, sub.Config(), "extra"))

		assertDeclaredValues(t, parent.Config())
		assertDeclaredValues(t, sub.Config())
	})

	t.Run("ChangeValues", func(t *testing.T) {
		parent := MustSchema(declareProducer)
		sub, err := parent.Extend(func(n *Node) {
			n.Setting("extra", WithDefault(0))
		})
		require.NoError(t, err)

		_, err = sub.Configure(func(n *Node) error { return n.Set("with_default", 0) })
		require.NoError(t, err)

		assert.Equal(t, 123, lookup(t, parent.Config(), "with_default"))
		assert.Equal(t, 0, lookup(t, sub.Config(), "with_default"))
	})

	t.Run("ParentOverridesNotInherited", func(t *testing.T) {
		parent := MustSchema(declareProducer)
		require.NoError(t, parent.Config().Set("with_default", 999))

		sub, err := parent.Extend(nil)
		require.NoError(t, err)
		assert.Equal(t, 123, lookup(t, sub.Config(), "with_default"))
	})

	t.Run("NestingsNotRerun", func(t *testing.T) {
		var runs atomic.Int32
		parent := MustSchema(func(n *Node) {
			n.Setting("kafka", Nested(func(k *Node) {
				runs.Add(1)
				k.Setting("acks", WithDefault("all"))
			}))
		})
		_, err := parent.Extend(nil)
		require.NoError(t, err)
		_, err = parent.New()
		require.NoError(t, err)
		assert.Equal(t, int32(1), runs.Load())
	})

	t.Run("DeclarationError", func(t *testing.T) {
		parent := MustSchema(declareProducer)
		_, err := parent.Extend(func(n *Node) {
			n.Setting("bad name")
		})
		assert.ErrorIs(t, err, ErrInvalidName)

		// parent stays usable
		assert.Equal(t, 123, lookup(t, parent.Config(), "with_default"))
	})
}

func TestInstance(t *testing.T) {
	t.Run("NoOverride", func(t *testing.T) {
		inst, err := MustSchema(declareProducer).New()
		require.NoError(t, err)
		_, err = inst.Configure(nil)
		require.NoError(t, err)
		assertDeclaredValues(t, inst.Config())
	})

	t.Run("TwoInstances", func(t *testing.T) {
		s := MustSchema(declareProducer)
		first, err := s.New()
		require.NoError(t, err)
		second, err := s.New()
		require.NoError(t, err)
		assert.Same(t, s, first.Schema())

		_, err = second.Configure(func(n *Node) error {
			return n.SetPath("nested1.nested2.leaf", 100)
		})
		require.NoError(t, err)

		assert.Equal(t, 6, lookup(t, first.Config(), "nested1.nested2.leaf"))
		assert.Equal(t, 100, lookup(t, second.Config(), "nested1.nested2.leaf"))
		assert.Equal(t, 6, lookup(t, s.Config(), "nested1.nested2.leaf"))
	})

	t.Run("InheritedSchema", func(t *testing.T) {
		parent := MustSchema(declareProducer)
		sub, err := parent.Extend(func(n *Node) {
			n.Setting("extra", WithDefault(0))
		})
		require.NoError(t, err)

		inst, err := parent.New()
		require.NoError(t, err)
		subInst, err := sub.New()
		require.NoError(t, err)

		_, err = inst.Config().Get("extra")
		assert.ErrorIs(t, err, ErrUnknownSetting)
		assert.Equal(t, 0, lookup(t, subInst.Config(), "extra"))
		assertDeclaredValues(t, subInst.Config())
	})

	t.Run("SchemaSettingsAfterNewNotVisible", func(t *testing.T) {
		s := MustSchema(declareProducer)
		inst, err := s.New()
		require.NoError(t, err)

		require.NoError(t, s.Setting("late", WithDefault(1)))
		_, err = inst.Config().Get("late")
		assert.ErrorIs(t, err, ErrUnknownSetting)
	})

	t.Run("SharesReferenceDefaults", func(t *testing.T) {
		pattern := regexp.MustCompile("^a+$")
		s := MustSchema(func(n *Node) {
			n.Setting("pattern", WithDefault(pattern))
			n.Setting("topics", WithDefault([]string{"events"}))
		})

		inst, err := s.New()
		require.NoError(t, err)

		got := lookup(t, inst.Config(), "pattern").(*regexp.Regexp)
		assert.Same(t, pattern, got)
		assert.Equal(t, "^a+$", got.String())
		assert.True(t, got.MatchString("aaa"))

		sub, err := s.Extend(nil)
		require.NoError(t, err)
		assert.True(t, lookup(t, sub.Config(), "pattern").(*regexp.Regexp).MatchString("a"))

		// plain data is still copied per owner
		lookup(t, inst.Config(), "topics").([]string)[0] = "changed"
		assert.Equal(t, []string{"events"}, lookup(t, s.Config(), "topics"))
	})

	t.Run("LazyPerInstance", func(t *testing.T) {
		var calls atomic.Int32
		s := MustSchema(func(n *Node) {
			n.Setting("lazy_setting", Lazy(), WithFactory(func() (any, error) {
				return int(calls.Add(1)), nil
			}))
		})

		first, _ := s.New()
		second, _ := s.New()
		assert.Equal(t, 1, lookup(t, first.Config(), "lazy_setting"))
		assert.Equal(t, 2, lookup(t, second.Config(), "lazy_setting"))
		assert.Equal(t, 1, lookup(t, first.Config(), "lazy_setting"))
	})
}

func TestEmbedding(t *testing.T) {
	t.Run("NestedScope", func(t *testing.T) {
		s := MustSchema(declareProducer)
		extra := MustSchema(func(n *Node) {
			n.Setting("additional", WithDefault(7))
		})
		require.NoError(t, s.Setting("superscope", WithDefault(extra.Config())))

		assert.Equal(t, 7, lookup(t, s.Config(), "superscope.additional"))

		snap, err := s.Config().Snapshot()
		require.NoError(t, err)
		assert.Equal(t, 7, snap.Map()["superscope"].(map[string]any)["additional"])

		own, err := extra.Config().Snapshot()
		require.NoError(t, err)
		assert.Equal(t, own.Map(), snap.Map()["superscope"])
		assert.Equal(t, "superscope", snap.Keys()[len(snap.Keys())-1])
	})

	t.Run("PathsSkipEmbeddedTree", func(t *testing.T) {
		extra := MustSchema(func(n *Node) {
			n.Setting("additional", WithDefault(7))
		})
		s := MustSchema(func(n *Node) {
			n.Setting("superscope", WithDefault(extra.Config()))
		})
		assert.NotContains(t, s.Config().Paths(), "superscope.additional")
	})
}
