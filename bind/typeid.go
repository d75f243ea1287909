package bind

import (
	"reflect"
	"strconv"

	"github.com/zeebo/xxh3"
)

// TypeID identifies a Go type independently of any registry. It is a hash
// of the type's fully qualified name, so it is stable across processes.
type TypeID uint64

// VoidID stands for "no type" (a void return).
const VoidID TypeID = 0

// TypeIDOf returns the identity hash of t. A nil type yields VoidID.
func TypeIDOf(t reflect.Type) TypeID {
	if t == nil {
		return VoidID
	}
	return TypeID(xxh3.HashString(qualifiedTypeName(t)))
}

// qualifiedTypeName spells t using import paths rather than package names,
// so two packages named "geometry" never collide.
func qualifiedTypeName(t reflect.Type) string {
	if t.Name() != "" {
		if t.PkgPath() == "" {
			return t.Name()
		}
		return t.PkgPath() + "." + t.Name()
	}
	switch t.Kind() {
	case reflect.Pointer:
		return "*" + qualifiedTypeName(t.Elem())
	case reflect.Slice:
		return "[]" + qualifiedTypeName(t.Elem())
	case reflect.Array:
		return "[" + strconv.Itoa(t.Len()) + "]" + qualifiedTypeName(t.Elem())
	case reflect.Map:
		return "map[" + qualifiedTypeName(t.Key()) + "]" + qualifiedTypeName(t.Elem())
	}
	return t.String()
}
