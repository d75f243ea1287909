package bind

import (
	"fmt"
	"reflect"
	"strings"
)

var errorType = reflect.TypeFor[error]()

// Signature describes one callable shape: a return type followed by the
// parameter types. Member bindings also record the receiver type in This;
// the receiver is not part of Params.
type Signature struct {
	Return reflect.Type // nil for void
	Params []reflect.Type
	This   reflect.Type

	// Fallible is set when the native entry returns a trailing error in
	// addition to Return.
	Fallible bool
}

// NewSignature builds a free-function signature.
func NewSignature(ret reflect.Type, params ...reflect.Type) *Signature {
	return &Signature{Return: ret, Params: params}
}

// MethodSignature builds the signature of a member bound on this.
func MethodSignature(this, ret reflect.Type, params ...reflect.Type) *Signature {
	return &Signature{Return: ret, Params: params, This: this}
}

// signatureOf derives a signature from a func type. The first skip
// parameters are dropped; if skip is 1 the dropped parameter becomes This.
func signatureOf(fn reflect.Type, skip int) (*Signature, error) {
	if fn.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: %s is not a function", ErrInvalidBinding, fn)
	}
	if fn.IsVariadic() {
		return nil, fmt.Errorf("%w: variadic function %s", ErrInvalidBinding, fn)
	}
	if fn.NumIn() < skip {
		return nil, fmt.Errorf("%w: %s takes no receiver", ErrInvalidBinding, fn)
	}

	sig := &Signature{}
	if skip == 1 {
		sig.This = fn.In(0)
	}
	for i := skip; i < fn.NumIn(); i++ {
		sig.Params = append(sig.Params, fn.In(i))
	}

	switch fn.NumOut() {
	case 0:
	case 1:
		if fn.Out(0) == errorType {
			sig.Fallible = true
		} else {
			sig.Return = fn.Out(0)
		}
	case 2:
		if fn.Out(1) != errorType {
			return nil, fmt.Errorf("%w: second result of %s must be error", ErrInvalidBinding, fn)
		}
		sig.Return = fn.Out(0)
		sig.Fallible = true
	default:
		return nil, fmt.Errorf("%w: %s has too many results", ErrInvalidBinding, fn)
	}
	return sig, nil
}

// Arity is the number of script-visible parameters, receiver excluded.
func (s *Signature) Arity() int {
	return len(s.Params)
}

// IsMember reports whether the signature carries a receiver.
func (s *Signature) IsMember() bool {
	return s.This != nil
}

// ReturnID returns the identity of the return type.
func (s *Signature) ReturnID() TypeID {
	return TypeIDOf(s.Return)
}

// IDs returns the return type identity followed by the parameter identities.
func (s *Signature) IDs() []TypeID {
	ids := make([]TypeID, 0, len(s.Params)+1)
	ids = append(ids, TypeIDOf(s.Return))
	for _, p := range s.Params {
		ids = append(ids, TypeIDOf(p))
	}
	return ids
}

// Equal reports whether two signatures would be indistinguishable to a
// dispatcher selecting overloads.
func (s *Signature) Equal(o *Signature) bool {
	if s.Return != o.Return || s.This != o.This || len(s.Params) != len(o.Params) {
		return false
	}
	for i := range s.Params {
		if s.Params[i] != o.Params[i] {
			return false
		}
	}
	return true
}

func (s *Signature) String() string {
	var b strings.Builder
	if s.This != nil {
		fmt.Fprintf(&b, "(%s) ", s.This)
	}
	b.WriteByte('(')
	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteString(") ")
	if s.Return == nil {
		b.WriteString("void")
	} else {
		b.WriteString(s.Return.String())
	}
	if s.Fallible {
		b.WriteString(" !")
	}
	return b.String()
}
