// Package bind describes Go types to an embedded script runtime.
//
// A Registry holds one DataType per bound Go type. An ObjectTypeBuilder
// fills a DataType with properties: constructors, a destructor, methods,
// pseudo-methods (free functions taking the instance first), static
// methods, operators, conversions and data slots addressed by field offset
// or by static address. Every callable is a Function carrying its
// Signature and a CallHandler that knows whether the receiver comes from
// the first argument slot.
//
// Binding happens once at startup:
//
//	r := bind.NewRegistry()
//	b, err := bind.NewObjectTypeBuilder[geometry.Vec2](r, "Vec2", r.Root().Child("Geo"))
//	if err != nil {
//		return err
//	}
//	b.Ctor(geometry.NewVec2)
//	b.Prop("x", "X")
//	b.Op(bind.OpAdd)
//	r.Seal()
//
// Resolving overloads and marshaling script values is left to the
// dispatcher that consumes the registry.
package bind
