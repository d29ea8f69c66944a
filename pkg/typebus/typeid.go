package typebus

import "reflect"

// TypeID identifies an event type. It is the key handlers are filed under.
//
// TypeIDs are comparable and safe to use as map keys. Two TypeIDs are equal
// exactly when they were produced from the same static type, so distinct
// declared types never collide, even when their fields are identical.
type TypeID struct {
	t reflect.Type
}

// TypeOf returns the TypeID for E. It is derived from the type parameter,
// never from an event value, so it works for interface types as well.
func TypeOf[E any]() TypeID {
	return TypeID{t: reflect.TypeFor[E]()}
}

// Type returns the underlying reflect.Type, or nil for the zero TypeID.
func (id TypeID) Type() reflect.Type {
	return id.t
}

// IsZero reports whether id was not produced by TypeOf.
func (id TypeID) IsZero() bool {
	return id.t == nil
}

// String returns the Go type name, e.g. "orders.Created".
//
// Names are not unique: same-named types declared inside different
// functions of one package print identically. Logs and metrics label
// events by this name, so such types share a label. Compare TypeIDs, not
// their strings, to tell them apart.
func (id TypeID) String() string {
	if id.t == nil {
		return "<nil>"
	}
	return id.t.String()
}

// pkgPath returns the import path of the named type or of the element
// type for unnamed pointer, slice, map, array, and chan types.
func (id TypeID) pkgPath() string {
	t := id.t
	for t != nil && t.Name() == "" {
		switch t.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
			t = t.Elem()
		default:
			return ""
		}
	}
	if t == nil {
		return ""
	}
	return t.PkgPath()
}
