// FILE: lixenwraith/configurable/type.go
package configurable

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
)

// scalar reads a setting for the typed getters. JSON overrides are decoded
// with UseNumber, so json.Number is narrowed to int64 or float64 here.
func (n *Node) scalar(path string) (any, error) {
	val, err := n.Lookup(path)
	if err != nil {
		return nil, err
	}

	num, ok := val.(json.Number)
	if !ok {
		return val, nil
	}
	if i, err := num.Int64(); err == nil {
		return i, nil
	}
	if f, err := num.Float64(); err == nil {
		return f, nil
	}
	return num.String(), nil
}

func mismatch(path string, val any, want string) error {
	if s, ok := val.(string); ok {
		return fmt.Errorf("%w: %s holds %q, want %s", ErrTypeMismatch, path, s, want)
	}
	return fmt.Errorf("%w: %s holds %T, want %s", ErrTypeMismatch, path, val, want)
}

// String reads a setting as text. A nil value reads as "".
func (n *Node) String(path string) (string, error) {
	val, err := n.scalar(path)
	if err != nil {
		return "", err
	}

	switch v := val.(type) {
	case nil:
		return "", nil
	case fmt.Stringer:
		return v.String(), nil
	case error:
		return v.Error(), nil
	case []byte:
		return string(v), nil
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), nil
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), nil
	}
	return "", mismatch(path, val, "string")
}

// Int64 reads a setting as an integer. Floats are truncated, strings accept
// any Go integer literal ("0xFF") or a float.
func (n *Node) Int64(path string) (int64, error) {
	val, err := n.scalar(path)
	if err != nil {
		return 0, err
	}
	if val == nil {
		return 0, mismatch(path, val, "int64")
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if u := rv.Uint(); u <= uint64(^uint64(0)>>1) {
			return int64(u), nil
		}
		return 0, fmt.Errorf("%w: %s holds %v, overflows int64", ErrTypeMismatch, path, val)
	case reflect.Float32, reflect.Float64:
		return int64(rv.Float()), nil
	case reflect.String:
		s := rv.String()
		if i, err := strconv.ParseInt(s, 0, 64); err == nil {
			return i, nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int64(f), nil
		}
	case reflect.Bool:
		if rv.Bool() {
			return 1, nil
		}
		return 0, nil
	}
	return 0, mismatch(path, val, "int64")
}

// Bool reads a setting as a flag. Numbers are true when non-zero.
func (n *Node) Bool(path string) (bool, error) {
	val, err := n.scalar(path)
	if err != nil {
		return false, err
	}
	if val == nil {
		return false, mismatch(path, val, "bool")
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.String:
		if b, err := strconv.ParseBool(rv.String()); err == nil {
			return b, nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0, nil
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0, nil
	}
	return false, mismatch(path, val, "bool")
}

// Float64 reads a setting as a float.
func (n *Node) Float64(path string) (float64, error) {
	val, err := n.scalar(path)
	if err != nil {
		return 0, err
	}
	if val == nil {
		return 0, mismatch(path, val, "float64")
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	case reflect.String:
		if f, err := strconv.ParseFloat(rv.String(), 64); err == nil {
			return f, nil
		}
	case reflect.Bool:
		if rv.Bool() {
			return 1, nil
		}
		return 0, nil
	}
	return 0, mismatch(path, val, "float64")
}
