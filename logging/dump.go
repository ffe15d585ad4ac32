package logging

import (
	"fmt"
	"reflect"
)

const (
	maxDumpDepth    = 10
	maxDumpElements = 10
)

// Dump logs the contents of v at debug level, one line per leaf. Structs
// show exported fields, maps and slices their elements (slices capped at
// ten). Cycles and excessive depth are cut short.
func (s *Service) Dump(v any) {
	if s == nil || !s.enabled(LevelDebug) {
		return
	}
	cs := resolveCallSite()
	d := &dumper{
		emit:    func(line string) { s.log(LevelDebug, false, line, []any{At(cs)}) },
		visited: make(map[uintptr]bool),
	}
	if v == nil {
		d.emit("Dump: <nil>")
		return
	}
	d.value(reflect.ValueOf(v), emptyString, 0)
}

type dumper struct {
	emit    func(string)
	visited map[uintptr]bool
}

func (d *dumper) linef(format string, args ...any) {
	d.emit(fmt.Sprintf(format, args...))
}

func (d *dumper) value(val reflect.Value, prefix string, depth int) {
	if depth > maxDumpDepth {
		d.linef("%s: <max depth reached>", prefix)
		return
	}

	for val.Kind() == reflect.Interface || val.Kind() == reflect.Ptr {
		if val.IsNil() {
			d.linef("%s: <nil>", prefix)
			return
		}
		if val.Kind() == reflect.Ptr {
			ptr := val.Pointer()
			if d.visited[ptr] {
				d.linef("%s: <circular reference>", prefix)
				return
			}
			d.visited[ptr] = true
		}
		val = val.Elem()
	}
	if !val.IsValid() {
		d.linef("%s: <nil>", prefix)
		return
	}

	typ := val.Type()
	switch val.Kind() {
	case reflect.Struct:
		if prefix == emptyString {
			d.linef("Struct: %s", typ.Name())
		} else {
			d.linef("%s: %s {", prefix, typ.Name())
		}
		for i := 0; i < val.NumField(); i++ {
			if !typ.Field(i).IsExported() {
				continue
			}
			d.value(val.Field(i), join(prefix, typ.Field(i).Name), depth+1)
		}
		if prefix != emptyString {
			d.linef("%s: }", prefix)
		}

	case reflect.Map:
		d.linef("%s: %s (len: %d) {", prefix, typ, val.Len())
		iter := val.MapRange()
		for iter.Next() {
			d.value(iter.Value(), fmt.Sprintf("%s[%v]", prefix, iter.Key()), depth+1)
		}
		d.linef("%s: }", prefix)

	case reflect.Slice, reflect.Array:
		d.linef("%s: %s (len: %d) {", prefix, typ, val.Len())
		for i := 0; i < val.Len() && i < maxDumpElements; i++ {
			d.value(val.Index(i), fmt.Sprintf("%s[%d]", prefix, i), depth+1)
		}
		if val.Len() > maxDumpElements {
			d.linef("%s: ... (%d more elements)", prefix, val.Len()-maxDumpElements)
		}
		d.linef("%s: }", prefix)

	default:
		if val.CanInterface() {
			d.linef("%s: %v", prefix, val.Interface())
		} else {
			d.linef("%s: %v", prefix, val)
		}
	}
}

func join(prefix, name string) string {
	if prefix == emptyString {
		return name
	}
	return prefix + "." + name
}
