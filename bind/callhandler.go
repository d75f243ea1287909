package bind

import (
	"fmt"
	"reflect"
)

// CallHandler bridges the script calling convention to the native one.
// Argument marshaling into reflect.Values is the caller's job; a handler
// checks arity and assignability and issues the call.
type CallHandler interface {
	Function() *Function
	Policy() CallPolicy
	Call(args []reflect.Value) (reflect.Value, error)
}

// hostCallHandler calls the entry with exactly the script arguments. Used
// for constructors, destructors, pseudo-methods and static methods.
type hostCallHandler struct {
	fn *Function
}

func (h *hostCallHandler) Function() *Function { return h.fn }
func (h *hostCallHandler) Policy() CallPolicy  { return HostCall }

func (h *hostCallHandler) Call(args []reflect.Value) (reflect.Value, error) {
	params := h.fn.Signature.Params
	if len(args) != len(params) {
		return reflect.Value{}, h.fn.dispatchError(fmt.Errorf("%w: want %d, got %d", ErrArity, len(params), len(args)))
	}
	in, err := coerceArgs(args, params)
	if err != nil {
		return reflect.Value{}, h.fn.dispatchError(err)
	}
	return invoke(h.fn, h.fn.Entry, in)
}

// hostThisCallHandler takes the receiver from the first argument slot.
type hostThisCallHandler struct {
	fn *Function
}

func (h *hostThisCallHandler) Function() *Function { return h.fn }
func (h *hostThisCallHandler) Policy() CallPolicy  { return HostThisCall }

func (h *hostThisCallHandler) Call(args []reflect.Value) (reflect.Value, error) {
	sig := h.fn.Signature
	if len(args) != len(sig.Params)+1 {
		return reflect.Value{}, h.fn.dispatchError(fmt.Errorf("%w: want receiver and %d, got %d", ErrArity, len(sig.Params), len(args)))
	}
	recv, err := coerceReceiver(args[0], sig.This)
	if err != nil {
		return reflect.Value{}, h.fn.dispatchError(err)
	}
	rest, err := coerceArgs(args[1:], sig.Params)
	if err != nil {
		return reflect.Value{}, h.fn.dispatchError(err)
	}

	if h.fn.method != "" {
		if m := recv.MethodByName(h.fn.method); m.IsValid() {
			return invoke(h.fn, m, rest)
		}
	}
	in := make([]reflect.Value, 0, len(args))
	in = append(in, recv)
	in = append(in, rest...)
	return invoke(h.fn, h.fn.Entry, in)
}

func (f *Function) dispatchError(err error) error {
	return &DispatchError{Function: f.FullName(), Err: err}
}

// coerceReceiver adapts v to the receiver type: a pointer is dereferenced
// for value receivers and an addressable value is referenced for pointer
// receivers.
func coerceReceiver(v reflect.Value, this reflect.Type) (reflect.Value, error) {
	if !v.IsValid() {
		return v, fmt.Errorf("%w: nil receiver", ErrArgumentType)
	}
	switch {
	case v.Type().AssignableTo(this):
		return v, nil
	case v.Kind() == reflect.Pointer && v.Type().Elem().AssignableTo(this):
		if v.IsNil() {
			return v, fmt.Errorf("%w: nil receiver", ErrArgumentType)
		}
		return v.Elem(), nil
	case v.CanAddr() && v.Addr().Type().AssignableTo(this):
		return v.Addr(), nil
	}
	return v, fmt.Errorf("%w: receiver %s, want %s", ErrArgumentType, v.Type(), this)
}

func coerceArgs(args []reflect.Value, params []reflect.Type) ([]reflect.Value, error) {
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		p := params[i]
		if !a.IsValid() {
			if !nillable(p) {
				return nil, fmt.Errorf("%w: argument %d is nil, want %s", ErrArgumentType, i, p)
			}
			in[i] = reflect.Zero(p)
			continue
		}
		if !a.Type().AssignableTo(p) {
			return nil, fmt.Errorf("%w: argument %d is %s, want %s", ErrArgumentType, i, a.Type(), p)
		}
		in[i] = a
	}
	return in, nil
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return true
	}
	return false
}

func invoke(f *Function, entry reflect.Value, in []reflect.Value) (ret reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			ret = reflect.Value{}
			err = f.dispatchError(fmt.Errorf("panic: %v", r))
		}
	}()

	out := entry.Call(in)
	sig := f.Signature
	if sig.Fallible {
		if e := out[len(out)-1]; !e.IsNil() {
			return reflect.Value{}, e.Interface().(error)
		}
	}
	if sig.Return != nil {
		return out[0], nil
	}
	return reflect.Value{}, nil
}
