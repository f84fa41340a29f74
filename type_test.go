// FILE: lixenwraith/configurable/type_test.go
package configurable

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTypeConversion tests the typed getters
func TestTypeConversion(t *testing.T) {
	n := MustSchema(func(n *Node) {
		n.Setting("str", WithDefault("hello"))
		n.Setting("int", WithDefault(42))
		n.Setting("uint", WithDefault(uint(7)))
		n.Setting("float", WithDefault(3.5))
		n.Setting("bool", WithDefault(true))
		n.Setting("hex", WithDefault("0xFF"))
		n.Setting("numeric", WithDefault("2.5"))
		n.Setting("truthy", WithDefault("true"))
		n.Setting("duration", WithDefault(time.Second))
		n.Setting("nothing", WithDefault(nil))
		n.Setting("list", WithDefault([]string{"a"}))
		n.Setting("json_int", WithDefault(json.Number("42")))
		n.Setting("json_float", WithDefault(json.Number("2.5")))
		n.Setting("kafka", Nested(func(k *Node) {
			k.Setting("acks", WithDefault("all"))
		}))
	}).Config()

	t.Run("String", func(t *testing.T) {
		for path, want := range map[string]string{
			"str":      "hello",
			"int":      "42",
			"uint":     "7",
			"float":    "3.5",
			"bool":     "true",
			"duration": "1s",
			"nothing":  "",
		} {
			got, err := n.String(path)
			require.NoError(t, err, path)
			assert.Equal(t, want, got, path)
		}

		_, err := n.String("list")
		assert.Error(t, err)
	})

	t.Run("Int64", func(t *testing.T) {
		for path, want := range map[string]int64{
			"int":     42,
			"uint":    7,
			"float":   3,
			"bool":    1,
			"hex":     255,
			"numeric": 2,
		} {
			got, err := n.Int64(path)
			require.NoError(t, err, path)
			assert.Equal(t, want, got, path)
		}

		_, err := n.Int64("str")
		assert.Error(t, err)
		_, err = n.Int64("nothing")
		assert.Error(t, err)
	})

	t.Run("Bool", func(t *testing.T) {
		for path, want := range map[string]bool{
			"bool":   true,
			"truthy": true,
			"int":    true,
			"float":  true,
		} {
			got, err := n.Bool(path)
			require.NoError(t, err, path)
			assert.Equal(t, want, got, path)
		}

		_, err := n.Bool("str")
		assert.Error(t, err)
	})

	t.Run("Float64", func(t *testing.T) {
		for path, want := range map[string]float64{
			"float":   3.5,
			"int":     42,
			"numeric": 2.5,
			"bool":    1,
		} {
			got, err := n.Float64(path)
			require.NoError(t, err, path)
			assert.Equal(t, want, got, path)
		}

		_, err := n.Float64("list")
		assert.Error(t, err)
	})

	t.Run("JSONNumber", func(t *testing.T) {
		i, err := n.Int64("json_int")
		require.NoError(t, err)
		assert.Equal(t, int64(42), i)

		i, err = n.Int64("json_float")
		require.NoError(t, err)
		assert.Equal(t, int64(2), i)

		f, err := n.Float64("json_float")
		require.NoError(t, err)
		assert.Equal(t, 2.5, f)

		s, err := n.String("json_int")
		require.NoError(t, err)
		assert.Equal(t, "42", s)

		b, err := n.Bool("json_int")
		require.NoError(t, err)
		assert.True(t, b)
	})

	t.Run("MismatchCarriesPath", func(t *testing.T) {
		_, err := n.Int64("str")
		require.ErrorIs(t, err, ErrTypeMismatch)
		assert.Contains(t, err.Error(), "str")

		_, err = n.Bool("nothing")
		assert.ErrorIs(t, err, ErrTypeMismatch)

		_, err = n.Float64("kafka")
		assert.ErrorIs(t, err, ErrTypeMismatch)

		_, err = n.String("list")
		assert.ErrorIs(t, err, ErrTypeMismatch)
	})

	t.Run("UnknownPath", func(t *testing.T) {
		_, err := n.String("missing")
		assert.ErrorIs(t, err, ErrUnknownSetting)
	})
}
