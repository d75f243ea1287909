package bind

import (
	"reflect"
	"strings"
	"unsafe"
)

// Flags describe how a property may be used.
type Flags uint16

const (
	CanRead Flags = 1 << iota
	CanWrite
	IsCtor
	IsDtor
	IsMethod
	IsPseudoMethod
	IsStatic
)

var flagNames = []string{"can_read", "can_write", "is_ctor", "is_dtor", "is_method", "is_pseudo_method", "is_static"}

// Has reports whether every flag in mask is set.
func (f Flags) Has(mask Flags) bool {
	return f&mask == mask
}

func (f Flags) String() string {
	var parts []string
	for i, name := range flagNames {
		if f&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// PropertyKind tells which of a property's payloads is populated.
type PropertyKind uint8

const (
	KindFunction PropertyKind = iota // Func
	KindOffset                       // Offset from the instance base
	KindAddress                      // Address of static storage
)

func (k PropertyKind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindOffset:
		return "offset"
	case KindAddress:
		return "address"
	}
	return "unknown"
}

// Property is one named slot on a DataType.
type Property struct {
	Name  string
	Flags Flags
	Doc   string

	// Set for callables.
	Func      *Function
	Signature *Signature

	// Set for data slots.
	Type    *DataType
	Offset  uintptr
	Address unsafe.Pointer

	kind  PropertyKind
	owner *DataType
}

func (p *Property) Kind() PropertyKind { return p.kind }
func (p *Property) Owner() *DataType   { return p.owner }
func (p *Property) IsCallable() bool   { return p.kind == KindFunction }

// Pointer returns the address of the slot for the instance at base. Static
// slots ignore base. Callables have no storage and return nil.
func (p *Property) Pointer(base unsafe.Pointer) unsafe.Pointer {
	switch p.kind {
	case KindOffset:
		return unsafe.Add(base, p.Offset)
	case KindAddress:
		return p.Address
	}
	return nil
}

// WithDoc attaches documentation and returns p for chaining.
func (p *Property) WithDoc(doc string) *Property {
	p.Doc = doc
	return p
}

// ReadOnly clears CanWrite and returns p for chaining.
func (p *Property) ReadOnly() *Property {
	p.Flags &^= CanWrite
	return p
}

// DataType is the script-visible description of one native type.
type DataType struct {
	name      string
	id        TypeID
	goType    reflect.Type
	ns        *Namespace
	own       *Namespace
	props     map[string][]*Property
	order     []string
	hasDtor   bool
	primitive bool
}

// NewDataType describes t under name in ns. The type is not registered;
// its own namespace is created by Registry.AddType.
func NewDataType(name string, t reflect.Type, ns *Namespace) *DataType {
	return &DataType{
		name:   name,
		id:     TypeIDOf(t),
		goType: t,
		ns:     ns,
		props:  make(map[string][]*Property),
	}
}

func (dt *DataType) Name() string             { return dt.name }
func (dt *DataType) FullName() string         { return dt.ns.Qualify(dt.name) }
func (dt *DataType) ID() TypeID               { return dt.id }
func (dt *DataType) GoType() reflect.Type     { return dt.goType }
func (dt *DataType) Size() uintptr            { return dt.goType.Size() }
func (dt *DataType) Namespace() *Namespace    { return dt.ns }
func (dt *DataType) OwnNamespace() *Namespace { return dt.own }
func (dt *DataType) HasDestructor() bool      { return dt.hasDtor }
func (dt *DataType) IsPrimitive() bool        { return dt.primitive }

// Properties returns the overload group bound under name.
func (dt *DataType) Properties(name string) []*Property {
	return dt.props[name]
}

// Property returns the first property bound under name, or nil.
func (dt *DataType) Property(name string) *Property {
	if ps := dt.props[name]; len(ps) > 0 {
		return ps[0]
	}
	return nil
}

// PropertyNames returns names in the order they were first bound.
func (dt *DataType) PropertyNames() []string {
	return append([]string(nil), dt.order...)
}

// Constructors returns every bound constructor overload.
func (dt *DataType) Constructors() []*Property {
	return dt.props[ConstructorName]
}

// Destructor returns the destructor property, or nil.
func (dt *DataType) Destructor() *Property {
	return dt.Property(DestructorName)
}

// Cast returns the conversion to dest, or nil.
func (dt *DataType) Cast(dest reflect.Type) *Property {
	for _, p := range dt.props[CastOperatorName] {
		if p.Signature.Return == dest {
			return p
		}
	}
	return nil
}

func (dt *DataType) addProperty(p *Property) *Property {
	p.owner = dt
	if _, ok := dt.props[p.Name]; !ok {
		dt.order = append(dt.order, p.Name)
	}
	dt.props[p.Name] = append(dt.props[p.Name], p)
	if p.Flags.Has(IsDtor) {
		dt.hasDtor = true
	}
	return p
}

// findOverload returns an existing property that a dispatcher could not
// tell apart from one with the given flags and signature.
func (dt *DataType) findOverload(name string, flags Flags, sig *Signature) *Property {
	const style = IsMethod | IsPseudoMethod | IsStatic | IsCtor | IsDtor
	for _, p := range dt.props[name] {
		if p.kind == KindFunction && p.Flags&style == flags&style && p.Signature.Equal(sig) {
			return p
		}
	}
	return nil
}
