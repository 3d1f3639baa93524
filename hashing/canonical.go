package hashing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/cmplx"
	"reflect"
	"slices"
	"strconv"

	"google.golang.org/protobuf/proto"
)

// maxDepth bounds recursion through slices and interfaces that contain
// themselves.
const maxDepth = 1000

// canonical writes a deterministic, type-tagged encoding of a value. Every
// struct field is visited, exported or not, and map entries are ordered by
// their encoded key.
//
//	int(42)
//	string("x")
//	[]int[int(1),int(2)]
//	map[string]int{string("a"):int(1)}
//	example.com/pkg.point{x:int(1),y:int(2)}
type canonical struct {
	h   *Hasher
	buf bytes.Buffer
}

func (c *canonical) encode(rv reflect.Value, depth int) error {
	if depth > maxDepth {
		return fmt.Errorf("%w: nesting exceeds %d levels", ErrUnhashable, maxDepth)
	}
	if !rv.IsValid() {
		c.buf.WriteString("null")
		return nil
	}

	t := rv.Type()

	if m, ok := jsonMarshaler(rv); ok {
		data, err := m.MarshalJSON()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUnhashable, err)
		}
		c.scalar(t, string(data))
		return nil
	}

	switch rv.Kind() {
	case reflect.Bool:
		c.scalar(t, strconv.FormatBool(rv.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		c.scalar(t, strconv.FormatInt(rv.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		c.scalar(t, strconv.FormatUint(rv.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) {
			return fmt.Errorf("%w: NaN in %s", ErrUnhashable, t)
		}
		c.scalar(t, strconv.FormatFloat(f, 'g', -1, t.Bits()))
	case reflect.Complex64, reflect.Complex128:
		z := rv.Complex()
		if cmplx.IsNaN(z) {
			return fmt.Errorf("%w: NaN in %s", ErrUnhashable, t)
		}
		c.scalar(t, strconv.FormatComplex(z, 'g', -1, t.Bits()))
	case reflect.String:
		c.scalar(t, strconv.Quote(rv.String()))
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return c.object(rv)
	case reflect.Interface:
		if rv.IsNil() {
			c.buf.WriteString("null")
			return nil
		}
		return c.encode(rv.Elem(), depth+1)
	case reflect.Array:
		return c.list(rv, depth)
	case reflect.Slice:
		if rv.IsNil() {
			c.scalar(t, "nil")
			return nil
		}
		if t.Elem().Kind() == reflect.Uint8 {
			c.scalar(t, strconv.Quote(string(rv.Bytes())))
			return nil
		}
		return c.list(rv, depth)
	case reflect.Map:
		return c.dict(rv, depth)
	case reflect.Struct:
		return c.record(rv, depth)
	case reflect.Func:
		return fmt.Errorf("%w: func %s", ErrUnhashable, t)
	default:
		return fmt.Errorf("%w: kind %s", ErrUnhashable, rv.Kind())
	}
	return nil
}

func (c *canonical) scalar(t reflect.Type, text string) {
	c.buf.WriteString(typeName(t))
	c.buf.WriteByte('(')
	c.buf.WriteString(text)
	c.buf.WriteByte(')')
}

// object encodes a reference. Protobuf messages nested in a composite hash by
// content, like they do at the top level; everything else hashes by identity.
func (c *canonical) object(rv reflect.Value) error {
	if rv.IsNil() {
		c.scalar(rv.Type(), "nil")
		return nil
	}
	if rv.CanInterface() {
		if msg, ok := rv.Interface().(proto.Message); ok {
			data, err := proto.MarshalOptions{Deterministic: true}.Marshal(msg)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrUnhashable, err)
			}
			c.scalar(rv.Type(), strconv.Quote(string(data)))
			return nil
		}
	}
	c.scalar(rv.Type(), c.h.identity(rv))
	return nil
}

func (c *canonical) list(rv reflect.Value, depth int) error {
	c.buf.WriteString(typeName(rv.Type()))
	c.buf.WriteByte('[')
	for i, n := 0, rv.Len(); i < n; i++ {
		if i > 0 {
			c.buf.WriteByte(',')
		}
		if err := c.encode(rv.Index(i), depth+1); err != nil {
			return err
		}
	}
	c.buf.WriteByte(']')
	return nil
}

func (c *canonical) dict(rv reflect.Value, depth int) error {
	if rv.IsNil() {
		c.scalar(rv.Type(), "nil")
		return nil
	}

	type entry struct{ key, value []byte }
	entries := make([]entry, 0, rv.Len())

	iter := rv.MapRange()
	for iter.Next() {
		key, err := c.h.canonicalize(iter.Key(), depth+1)
		if err != nil {
			return err
		}
		value, err := c.h.canonicalize(iter.Value(), depth+1)
		if err != nil {
			return err
		}
		entries = append(entries, entry{key, value})
	}
	slices.SortFunc(entries, func(a, b entry) int {
		return bytes.Compare(a.key, b.key)
	})

	c.buf.WriteString(typeName(rv.Type()))
	c.buf.WriteByte('{')
	for i, e := range entries {
		if i > 0 {
			c.buf.WriteByte(',')
		}
		c.buf.Write(e.key)
		c.buf.WriteByte(':')
		c.buf.Write(e.value)
	}
	c.buf.WriteByte('}')
	return nil
}

func (c *canonical) record(rv reflect.Value, depth int) error {
	t := rv.Type()
	c.buf.WriteString(typeName(t))
	c.buf.WriteByte('{')
	for i, n := 0, t.NumField(); i < n; i++ {
		if i > 0 {
			c.buf.WriteByte(',')
		}
		c.buf.WriteString(t.Field(i).Name)
		c.buf.WriteByte(':')
		if err := c.encode(rv.Field(i), depth+1); err != nil {
			return err
		}
	}
	c.buf.WriteByte('}')
	return nil
}

func (h *Hasher) canonicalize(rv reflect.Value, depth int) ([]byte, error) {
	c := canonical{h: h}
	if err := c.encode(rv, depth); err != nil {
		return nil, err
	}
	return c.buf.Bytes(), nil
}

// jsonMarshaler reports the value's own JSON encoding when it declares one.
// References keep their identity semantics, and values read through
// unexported fields cannot be handed out, so both are walked instead.
func jsonMarshaler(rv reflect.Value) (json.Marshaler, bool) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Chan, reflect.UnsafePointer, reflect.Func:
		return nil, false
	}
	if !rv.CanInterface() {
		return nil, false
	}
	m, ok := rv.Interface().(json.Marshaler)
	return m, ok
}

// typeName qualifies named types with their package path so that equally
// named types from different packages stay distinct.
func typeName(t reflect.Type) string {
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}
