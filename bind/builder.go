package bind

import (
	"fmt"
	"reflect"
)

// TypeBuilder holds what every builder shares: the registry it writes to
// and the DataType under construction. It never owns the DataType.
type TypeBuilder struct {
	registry *Registry
	typ      *DataType
}

// Type returns the DataType being built.
func (b *TypeBuilder) Type() *DataType {
	return b.typ
}

// Registry returns the registry the builder writes to.
func (b *TypeBuilder) Registry() *Registry {
	return b.registry
}

// AddProperty appends a hand-built property to the type's table and
// returns the stored property. The kind is taken from what p carries: a
// Func makes it callable, an Address makes it static storage, otherwise it
// is a data slot at Offset. The checks are those of the builder operations.
func (b *TypeBuilder) AddProperty(p *Property) (*Property, error) {
	const op = "addProperty"
	if p == nil {
		return nil, b.fail(op, "", "", fmt.Errorf("%w: nil property", ErrInvalidBinding))
	}
	if b.registry.sealed {
		return nil, b.fail(op, p.Name, "", ErrSealed)
	}
	if p.Name == "" {
		return nil, b.fail(op, p.Name, "", fmt.Errorf("%w: property has no name", ErrInvalidBinding))
	}
	if p.Flags.Has(IsDtor) && b.typ.hasDtor {
		return nil, b.fail(op, p.Name, "", ErrDuplicateDestructor)
	}

	if p.Func != nil {
		if p.Signature == nil {
			p.Signature = p.Func.Signature
		}
		if p.Signature == nil || p.Func.CallHandler() == nil {
			return nil, b.fail(op, p.Name, "", fmt.Errorf("%w: function has no signature or handler", ErrInvalidBinding))
		}
		if b.typ.findOverload(p.Name, p.Flags, p.Signature) != nil {
			return nil, b.fail(op, p.Name, "", fmt.Errorf("%w: %s", ErrDuplicateOverload, p.Signature))
		}
		if b.hasDataSlot(p.Name) {
			return nil, b.fail(op, p.Name, "", fmt.Errorf("%w: %q is a data property", ErrDuplicateOverload, p.Name))
		}
		if !b.registry.hasFunction(p.Func) {
			if err := b.registry.Add(p.Func); err != nil {
				return nil, b.fail(op, p.Name, "", err)
			}
		}
		p.kind = KindFunction
		return b.typ.addProperty(p), nil
	}

	if p.Flags&(IsCtor|IsDtor|IsMethod|IsPseudoMethod) != 0 {
		return nil, b.fail(op, p.Name, "", fmt.Errorf("%w: callable flags %v without a function", ErrInvalidBinding, p.Flags))
	}
	if p.Type == nil {
		return nil, b.fail(op, p.Name, "", fmt.Errorf("%w: data property has no type", ErrInvalidBinding))
	}
	if b.registry.GetType(p.Type.GoType()) != p.Type {
		return nil, b.fail(op, p.Name, p.Type.FullName(), ErrUnregisteredMemberType)
	}
	if p.Address != nil {
		p.kind = KindAddress
	} else {
		if err := b.checkSlot(p.Offset, p.Type.GoType()); err != nil {
			return nil, b.fail(op, p.Name, p.Type.FullName(), err)
		}
		p.kind = KindOffset
	}
	return b.bindData(op, p)
}

// checkSlot reports whether a value of typ at offset lies inside the
// instance.
func (b *TypeBuilder) checkSlot(offset uintptr, typ reflect.Type) error {
	size := b.typ.Size()
	if offset > size || typ.Size() > size-offset {
		return fmt.Errorf("%w: offset %d outside %s", ErrInvalidBinding, offset, b.typ.goType)
	}
	return nil
}

func (b *TypeBuilder) fail(op, member, memberType string, err error) error {
	return &BindError{Op: op, Type: b.typ.FullName(), Member: member, MemberType: memberType, Err: err}
}

// bindFunction is the path every callable binding goes through: the
// Function is created with its handler, registered, and referenced from a
// new property. Nothing is mutated if a check fails.
func (b *TypeBuilder) bindFunction(op, name string, entry reflect.Value, sig *Signature, flags Flags, policy CallPolicy, method string) (*Property, error) {
	if b.registry.sealed {
		return nil, b.fail(op, name, "", ErrSealed)
	}
	if b.typ.findOverload(name, flags, sig) != nil {
		return nil, b.fail(op, name, "", fmt.Errorf("%w: %s", ErrDuplicateOverload, sig))
	}
	if b.hasDataSlot(name) {
		return nil, b.fail(op, name, "", fmt.Errorf("%w: %q is a data property", ErrDuplicateOverload, name))
	}

	fn := NewFunction(name, entry, sig, b.typ.OwnNamespace(), policy)
	fn.method = method
	if err := b.registry.Add(fn); err != nil {
		return nil, b.fail(op, name, "", err)
	}
	return b.typ.addProperty(&Property{
		Name:      name,
		Flags:     flags,
		Func:      fn,
		Signature: sig,
		kind:      KindFunction,
	}), nil
}

// bindData appends a data slot. Data slots cannot be overloaded, so the
// name must be unused.
func (b *TypeBuilder) bindData(op string, p *Property) (*Property, error) {
	if len(b.typ.props[p.Name]) > 0 {
		return nil, b.fail(op, p.Name, "", fmt.Errorf("%w: %q already bound", ErrDuplicateOverload, p.Name))
	}
	return b.typ.addProperty(p), nil
}

func (b *TypeBuilder) hasDataSlot(name string) bool {
	for _, p := range b.typ.props[name] {
		if p.kind != KindFunction {
			return true
		}
	}
	return false
}
