package bind

import (
	"fmt"
	"io"
	"reflect"
	"unicode"
	"unicode/utf8"
)

var int32Type = reflect.TypeFor[int32]()

// ObjectTypeBuilder binds the members of the Go type C. Every binding
// method returns the property stored in the type's table, so changes made
// through it are visible to later lookups.
type ObjectTypeBuilder[C any] struct {
	TypeBuilder
	cls reflect.Type
	ptr reflect.Type
}

// NewObjectTypeBuilder registers C as a new type called name in ns (the
// root namespace when ns is nil) and returns a builder for it.
func NewObjectTypeBuilder[C any](r *Registry, name string, ns *Namespace) (*ObjectTypeBuilder[C], error) {
	cls := reflect.TypeFor[C]()
	switch cls.Kind() {
	case reflect.Interface, reflect.Pointer:
		return nil, fmt.Errorf("%w: cannot bind %s as an object type", ErrInvalidBinding, cls)
	}
	if ns == nil {
		ns = r.Root()
	}
	dt := NewDataType(name, cls, ns)
	if err := r.AddType(dt); err != nil {
		return nil, err
	}
	return newObjectTypeBuilder[C](r, dt), nil
}

// ExtendObjectType returns a builder that adds members to the already
// registered type C.
func ExtendObjectType[C any](r *Registry) (*ObjectTypeBuilder[C], error) {
	dt := TypeOf[C](r)
	if dt == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, reflect.TypeFor[C]())
	}
	return newObjectTypeBuilder[C](r, dt), nil
}

func newObjectTypeBuilder[C any](r *Registry, dt *DataType) *ObjectTypeBuilder[C] {
	cls := reflect.TypeFor[C]()
	return &ObjectTypeBuilder[C]{
		TypeBuilder: TypeBuilder{registry: r, typ: dt},
		cls:         cls,
		ptr:         reflect.PointerTo(cls),
	}
}

// Ctor binds a constructor. init may be
//
//   - nil: the instance is set to the zero value,
//   - a Go constructor func(args...) C or func(args...) *C, optionally
//     returning an error: the result is stored into the instance,
//   - an initializer func(*C, args...), optionally returning an error.
//
// The bound signature is always (void, *C, args...).
func (b *ObjectTypeBuilder[C]) Ctor(init any) (*Property, error) {
	entry, sig, err := b.constructor(init)
	if err != nil {
		return nil, b.fail("ctor", ConstructorName, "", err)
	}
	return b.bindFunction("ctor", ConstructorName, entry, sig, CanRead|IsCtor, HostCall, "")
}

func (b *ObjectTypeBuilder[C]) constructor(init any) (reflect.Value, *Signature, error) {
	if init == nil {
		zero := func(p *C) { *p = *new(C) }
		return reflect.ValueOf(zero), NewSignature(nil, b.ptr), nil
	}

	fv, err := funcValue(init)
	if err != nil {
		return fv, nil, err
	}
	src, err := signatureOf(fv.Type(), 0)
	if err != nil {
		return fv, nil, err
	}
	if len(src.Params) > 0 && src.Params[0] == b.ptr && src.Return == nil {
		return fv, src, nil
	}
	if src.Return != b.cls && src.Return != b.ptr {
		return fv, nil, fmt.Errorf("%w: constructor %s must return %s or %s", ErrInvalidBinding, fv.Type(), b.cls, b.ptr)
	}

	params := append([]reflect.Type{b.ptr}, src.Params...)
	var outs []reflect.Type
	if src.Fallible {
		outs = []reflect.Type{errorType}
	}
	byPtr := src.Return == b.ptr
	place := func(in []reflect.Value) []reflect.Value {
		out := fv.Call(in[1:])
		if src.Fallible && !out[1].IsNil() {
			return out[1:]
		}
		v := out[0]
		if byPtr {
			if v.IsNil() {
				v = reflect.Zero(b.cls)
			} else {
				v = v.Elem()
			}
		}
		in[0].Elem().Set(v)
		if src.Fallible {
			return []reflect.Value{reflect.Zero(errorType)}
		}
		return nil
	}
	adapter := reflect.MakeFunc(reflect.FuncOf(params, outs, false), place)
	return adapter, &Signature{Params: params, Fallible: src.Fallible}, nil
}

// Dtor binds the destructor. Destroying an instance calls Close when *C
// implements io.Closer and then resets the instance to its zero value.
func (b *ObjectTypeBuilder[C]) Dtor() (*Property, error) {
	if b.typ.hasDtor {
		return nil, b.fail("dtor", DestructorName, "", ErrDuplicateDestructor)
	}
	destroy := func(p *C) error {
		var err error
		if c, ok := any(p).(io.Closer); ok {
			err = c.Close()
		}
		*p = *new(C)
		return err
	}
	sig := &Signature{Params: []reflect.Type{b.ptr}, Fallible: true}
	return b.bindFunction("dtor", DestructorName, reflect.ValueOf(destroy), sig, CanRead|IsDtor, HostCall, "")
}

// Method binds a method expression such as (*T).Scale or T.Len. The value
// receiver form is the read-only variant.
func (b *ObjectTypeBuilder[C]) Method(name string, fn any) (*Property, error) {
	return b.member("method", name, fn, "")
}

// MethodByName binds the Go method goName of C under name. Calls go
// through the method value of the receiver.
func (b *ObjectTypeBuilder[C]) MethodByName(name, goName string) (*Property, error) {
	m, ok := b.lookupMethod(goName)
	if !ok {
		return nil, b.fail("method", name, "", fmt.Errorf("%w: %s has no method %s", ErrInvalidBinding, b.cls, goName))
	}
	return b.member("method", name, m.Func.Interface(), m.Name)
}

func (b *ObjectTypeBuilder[C]) member(op, name string, fn any, method string) (*Property, error) {
	fv, err := funcValue(fn)
	if err != nil {
		return nil, b.fail(op, name, "", err)
	}
	sig, err := signatureOf(fv.Type(), 1)
	if err != nil {
		return nil, b.fail(op, name, "", err)
	}
	if sig.This != b.ptr && sig.This != b.cls {
		return nil, b.fail(op, name, "", fmt.Errorf("%w: receiver %s, want %s or %s", ErrInvalidBinding, sig.This, b.cls, b.ptr))
	}
	return b.bindFunction(op, name, fv, sig, CanRead|IsMethod, HostThisCall, method)
}

// PseudoMethod binds a free function taking the instance as its first
// parameter. Callers pass the instance as an ordinary argument.
func (b *ObjectTypeBuilder[C]) PseudoMethod(name string, fn any) (*Property, error) {
	fv, sig, err := b.pseudo(fn)
	if err != nil {
		return nil, b.fail("pseudoMethod", name, "", err)
	}
	return b.bindFunction("pseudoMethod", name, fv, sig, CanRead|IsPseudoMethod, HostCall, "")
}

func (b *ObjectTypeBuilder[C]) pseudo(fn any) (reflect.Value, *Signature, error) {
	fv, err := funcValue(fn)
	if err != nil {
		return fv, nil, err
	}
	sig, err := signatureOf(fv.Type(), 0)
	if err != nil {
		return fv, nil, err
	}
	if len(sig.Params) == 0 || sig.Params[0] != b.ptr {
		return fv, nil, fmt.Errorf("%w: first parameter of %s must be %s", ErrInvalidBinding, fv.Type(), b.ptr)
	}
	return fv, sig, nil
}

// StaticMethod binds a free function unrelated to any instance.
func (b *ObjectTypeBuilder[C]) StaticMethod(name string, fn any) (*Property, error) {
	fv, err := funcValue(fn)
	if err != nil {
		return nil, b.fail("staticMethod", name, "", err)
	}
	sig, err := signatureOf(fv.Type(), 0)
	if err != nil {
		return nil, b.fail("staticMethod", name, "", err)
	}
	return b.bindFunction("staticMethod", name, fv, sig, CanRead|IsMethod|IsStatic, HostCall, "")
}

// OpCast binds C's own conversion to dest: a method named after dest
// (String for string), or To<Dest> / As<Dest>, taking no arguments and
// returning dest.
func (b *ObjectTypeBuilder[C]) OpCast(dest reflect.Type) (*Property, error) {
	for _, name := range castMethodNames(dest) {
		m, ok := b.lookupMethod(name)
		if !ok || m.Type.NumIn() != 1 || m.Type.NumOut() != 1 || m.Type.Out(0) != dest {
			continue
		}
		return b.member("opCast", CastOperatorName, m.Func.Interface(), m.Name)
	}
	return nil, b.fail("opCast", CastOperatorName, dest.String(), ErrMissingCastOperator)
}

// OpCastFunc binds a free conversion func(*C) Dest.
func (b *ObjectTypeBuilder[C]) OpCastFunc(fn any) (*Property, error) {
	fv, sig, err := b.pseudo(fn)
	if err == nil && (len(sig.Params) != 1 || sig.Return == nil) {
		err = fmt.Errorf("%w: conversion %s must be func(%s) T", ErrInvalidBinding, fv.Type(), b.ptr)
	}
	if err != nil {
		return nil, b.fail("opCast", CastOperatorName, "", err)
	}
	return b.bindFunction("opCast", CastOperatorName, fv, sig, CanRead|IsPseudoMethod, HostCall, "")
}

func castMethodNames(dest reflect.Type) []string {
	name := dest.Name()
	if name == "" {
		return nil
	}
	r, size := utf8.DecodeRuneInString(name)
	name = string(unicode.ToUpper(r)) + name[size:]
	return []string{name, "To" + name, "As" + name}
}

type opStyle uint8

const (
	opOwn opStyle = iota
	opMember
	opPseudo
)

// Op binds C's own operator: the method named op.MethodName(). A postfix
// method declared without the int32 marker gets one appended.
func (b *ObjectTypeBuilder[C]) Op(op Operator) (*Property, error) {
	return b.bindOperator(op, opOwn, nil)
}

// OpMethod binds op to an explicit method expression.
func (b *ObjectTypeBuilder[C]) OpMethod(op Operator, fn any) (*Property, error) {
	return b.bindOperator(op, opMember, fn)
}

// OpFunc binds op to a free function func(*C, operands...).
func (b *ObjectTypeBuilder[C]) OpFunc(op Operator, fn any) (*Property, error) {
	return b.bindOperator(op, opPseudo, fn)
}

func (b *ObjectTypeBuilder[C]) bindOperator(op Operator, style opStyle, fn any) (*Property, error) {
	if op >= numOperators {
		return nil, b.fail("operator", op.String(), "", fmt.Errorf("%w: unknown operator", ErrInvalidBinding))
	}
	info := operators[op]

	var method string
	if style == opOwn {
		m, ok := b.lookupMethod(info.method)
		if !ok {
			return nil, b.fail("operator", info.token, "", fmt.Errorf("%w: %s has no method %s", ErrInvalidBinding, b.cls, info.method))
		}
		fn, method = m.Func.Interface(), m.Name
		if info.postfix && m.Type.NumIn() == info.arity {
			fn, method = appendPostfixMarker(m.Func).Interface(), ""
		}
	}

	fv, err := funcValue(fn)
	if err != nil {
		return nil, b.fail("operator", info.token, "", err)
	}
	ft := fv.Type()
	switch {
	case ft.NumIn() != 1+info.arity:
		err = fmt.Errorf("%w: %s takes %d operand(s), %s has %d", ErrInvalidBinding, op, info.arity, ft, ft.NumIn()-1)
	case ft.In(0) != b.ptr && (style == opPseudo || ft.In(0) != b.cls):
		err = fmt.Errorf("%w: first parameter of %s must be %s", ErrInvalidBinding, ft, b.ptr)
	case info.postfix && ft.In(ft.NumIn()-1) != int32Type:
		err = fmt.Errorf("%w: postfix %s needs a trailing int32, %s has none", ErrInvalidBinding, op, ft)
	}
	if err != nil {
		return nil, b.fail("operator", info.token, "", err)
	}

	if style == opPseudo {
		sig, err := signatureOf(ft, 0)
		if err != nil {
			return nil, b.fail("operator", info.token, "", err)
		}
		return b.bindFunction("operator", info.token, fv, sig, CanRead|IsPseudoMethod, HostCall, "")
	}
	sig, err := signatureOf(ft, 1)
	if err != nil {
		return nil, b.fail("operator", info.token, "", err)
	}
	return b.bindFunction("operator", info.token, fv, sig, CanRead|IsMethod, HostThisCall, method)
}

// appendPostfixMarker wraps a method expression in a function taking one
// more, unused, int32.
func appendPostfixMarker(f reflect.Value) reflect.Value {
	ft := f.Type()
	in := make([]reflect.Type, 0, ft.NumIn()+1)
	for i := 0; i < ft.NumIn(); i++ {
		in = append(in, ft.In(i))
	}
	in = append(in, int32Type)
	out := make([]reflect.Type, 0, ft.NumOut())
	for i := 0; i < ft.NumOut(); i++ {
		out = append(out, ft.Out(i))
	}
	return reflect.MakeFunc(reflect.FuncOf(in, out, false), func(args []reflect.Value) []reflect.Value {
		return f.Call(args[:len(args)-1])
	})
}

// Prop binds the field of C named field. Promoted fields of embedded
// structs are accepted; fields behind an embedded pointer are not part of
// C's layout and are rejected.
func (b *ObjectTypeBuilder[C]) Prop(name, field string) (*Property, error) {
	if b.cls.Kind() != reflect.Struct {
		return nil, b.fail("prop", name, "", fmt.Errorf("%w: %s is not a struct", ErrInvalidBinding, b.cls))
	}
	sf, ok := b.cls.FieldByName(field)
	if !ok {
		return nil, b.fail("prop", name, "", fmt.Errorf("%w: %s.%s", ErrUnknownField, b.cls, field))
	}
	offset, err := fieldOffset(b.cls, sf.Index)
	if err != nil {
		return nil, b.fail("prop", name, sf.Type.String(), err)
	}
	return b.propAt("prop", name, offset, sf.Type)
}

// PropAt binds a data slot of type typ at offset bytes from the start of
// C. Generated bindings call it with unsafe.Offsetof.
func (b *ObjectTypeBuilder[C]) PropAt(name string, offset uintptr, typ reflect.Type) (*Property, error) {
	return b.propAt("prop", name, offset, typ)
}

func (b *ObjectTypeBuilder[C]) propAt(op, name string, offset uintptr, typ reflect.Type) (*Property, error) {
	if b.registry.sealed {
		return nil, b.fail(op, name, "", ErrSealed)
	}
	if typ == nil {
		return nil, b.fail(op, name, "", fmt.Errorf("%w: nil member type", ErrInvalidBinding))
	}
	dt := b.registry.GetType(typ)
	if dt == nil {
		return nil, b.fail(op, name, typ.String(), ErrUnregisteredMemberType)
	}
	if err := b.checkSlot(offset, typ); err != nil {
		return nil, b.fail(op, name, typ.String(), err)
	}
	return b.bindData(op, &Property{
		Name:   name,
		Flags:  CanRead | CanWrite,
		Type:   dt,
		Offset: offset,
		kind:   KindOffset,
	})
}

// StaticProp binds static storage: ptr points at a package-level variable.
// Besides the type-scoped property a global is registered in the type's
// own namespace; both refer to the same address.
func (b *ObjectTypeBuilder[C]) StaticProp(name string, ptr any) (*Property, error) {
	const op = "staticProp"
	if b.registry.sealed {
		return nil, b.fail(op, name, "", ErrSealed)
	}
	v := reflect.ValueOf(ptr)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return nil, b.fail(op, name, "", fmt.Errorf("%w: static storage must be a non-nil pointer", ErrInvalidBinding))
	}
	typ := v.Type().Elem()
	dt := b.registry.GetType(typ)
	if dt == nil {
		return nil, b.fail(op, name, typ.String(), ErrUnregisteredMemberType)
	}
	if len(b.typ.props[name]) > 0 {
		return nil, b.fail(op, name, "", fmt.Errorf("%w: %q already bound", ErrDuplicateOverload, name))
	}

	addr := v.UnsafePointer()
	g := &Global{Name: name, Type: dt, Address: addr, Namespace: b.typ.OwnNamespace()}
	if err := b.registry.AddValue(g); err != nil {
		return nil, b.fail(op, name, typ.String(), err)
	}
	return b.bindData(op, &Property{
		Name:    name,
		Flags:   CanRead | CanWrite | IsStatic,
		Type:    dt,
		Address: addr,
		kind:    KindAddress,
	})
}

func (b *ObjectTypeBuilder[C]) lookupMethod(name string) (reflect.Method, bool) {
	if m, ok := b.cls.MethodByName(name); ok {
		return m, true
	}
	return b.ptr.MethodByName(name)
}

func fieldOffset(t reflect.Type, index []int) (uintptr, error) {
	var offset uintptr
	for i, x := range index {
		if i > 0 && t.Kind() == reflect.Pointer {
			return 0, fmt.Errorf("%w: field is promoted through embedded pointer %s", ErrInvalidBinding, t)
		}
		f := t.Field(x)
		offset += f.Offset
		t = f.Type
	}
	return offset, nil
}

func funcValue(fn any) (reflect.Value, error) {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func || fv.IsNil() {
		return fv, fmt.Errorf("%w: %T is not a function", ErrInvalidBinding, fn)
	}
	return fv, nil
}
