package snapshot

import (
	"encoding"
	"encoding/json"
	"math"
	"reflect"
	"strings"
)

// Opaque marks values that only make sense inside the running process:
// window or canvas handles, connections, anything holding a live
// reference. Opaque values never enter a snapshot.
type Opaque interface {
	Opaque()
}

var (
	opaqueType        = reflect.TypeOf((*Opaque)(nil)).Elem()
	jsonMarshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// Serializable reports whether v can be stored as plain JSON data. It walks
// nested structs, slices, arrays, maps and pointers and rejects functions,
// channels, unsafe pointers, complex numbers, NaN or infinite floats, maps
// keyed by anything but strings, reference cycles and Opaque values.
// Types with their own JSON or text marshaling are trusted.
func Serializable(v any) bool {
	if v == nil {
		return true
	}
	c := checker{seen: make(map[uintptr]struct{})}
	return c.ok(reflect.ValueOf(v))
}

type checker struct {
	seen map[uintptr]struct{}
}

func (c *checker) ok(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	t := v.Type()
	if t.Implements(opaqueType) {
		return false
	}
	if t.Kind() != reflect.Pointer && t.Kind() != reflect.Interface &&
		(t.Implements(jsonMarshalerType) || t.Implements(textMarshalerType)) {
		return true
	}

	switch v.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer,
		reflect.Complex64, reflect.Complex128, reflect.Uintptr:
		return false
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	case reflect.Interface:
		if v.IsNil() {
			return true
		}
		return c.ok(v.Elem())
	case reflect.Pointer:
		if v.IsNil() {
			return true
		}
		if !c.enter(v.Pointer()) {
			return false
		}
		defer c.leave(v.Pointer())
		return c.ok(v.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() || jsonSkipped(f) {
				continue
			}
			if !c.ok(v.Field(i)) {
				return false
			}
		}
		return true
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return false
		}
		if v.IsNil() {
			return true
		}
		if !c.enter(v.Pointer()) {
			return false
		}
		defer c.leave(v.Pointer())
		iter := v.MapRange()
		for iter.Next() {
			if !c.ok(iter.Value()) {
				return false
			}
		}
		return true
	case reflect.Slice:
		if v.IsNil() {
			return true
		}
		if t.Elem().Kind() == reflect.Uint8 {
			return true // base64 string
		}
		if !c.enter(v.Pointer()) {
			return false
		}
		defer c.leave(v.Pointer())
		fallthrough
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if !c.ok(v.Index(i)) {
				return false
			}
		}
		return true
	}
	return true
}

// enter records p on the current path; a repeat means a cycle.
func (c *checker) enter(p uintptr) bool {
	if _, ok := c.seen[p]; ok {
		return false
	}
	c.seen[p] = struct{}{}
	return true
}

func (c *checker) leave(p uintptr) {
	delete(c.seen, p)
}

func jsonSkipped(f reflect.StructField) bool {
	tag := f.Tag.Get("json")
	name, _, _ := strings.Cut(tag, ",")
	return name == "-" && !strings.Contains(tag, ",")
}
