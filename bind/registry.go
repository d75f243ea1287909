package bind

import (
	"fmt"
	"reflect"
	"sort"
	"unsafe"
)

// Global is a static value entry registered in a namespace.
type Global struct {
	Name      string
	Type      *DataType
	Address   unsafe.Pointer
	Namespace *Namespace
}

// FullName returns the qualified name of the global.
func (g *Global) FullName() string {
	return g.Namespace.Qualify(g.Name)
}

// Registry owns every DataType, Function and Global bound during startup.
//
// Binding is single-threaded and no locks are taken. Once Seal is called
// the registry rejects further mutation and may be read concurrently.
type Registry struct {
	root    *Namespace
	types   map[reflect.Type]*DataType
	byID    map[TypeID]*DataType
	byName  map[string]*DataType
	funcs   map[string][]*Function
	globals map[string]*Global
	sealed  bool
}

// NewRegistry creates a registry with the primitive types bound in the
// root namespace.
func NewRegistry() *Registry {
	r := &Registry{
		root:    NewNamespace(),
		types:   make(map[reflect.Type]*DataType),
		byID:    make(map[TypeID]*DataType),
		byName:  make(map[string]*DataType),
		funcs:   make(map[string][]*Function),
		globals: make(map[string]*Global),
	}
	registerPrimitives(r)
	return r
}

// Root returns the root namespace.
func (r *Registry) Root() *Namespace {
	return r.root
}

// Seal ends the binding phase.
func (r *Registry) Seal() {
	r.sealed = true
	log.Debugf("registry sealed: %d types, %d functions, %d globals", len(r.types), r.functionCount(), len(r.globals))
}

// Sealed reports whether Seal has been called.
func (r *Registry) Sealed() bool {
	return r.sealed
}

// AddType registers dt. A Go type may be registered only once.
func (r *Registry) AddType(dt *DataType) error {
	if r.sealed {
		return ErrSealed
	}
	if dt.ns == nil {
		dt.ns = r.root
	}
	if existing, ok := r.types[dt.goType]; ok {
		return fmt.Errorf("%w: %s as %q", ErrDuplicateType, dt.goType, existing.FullName())
	}
	full := dt.FullName()
	if _, ok := r.byName[full]; ok {
		return fmt.Errorf("%w: name %q", ErrDuplicateType, full)
	}
	dt.own = dt.ns.Child(dt.name)
	r.types[dt.goType] = dt
	r.byID[dt.id] = dt
	r.byName[full] = dt
	log.Debugf("type %s bound to %s", full, dt.goType)
	return nil
}

// Add registers fn under its qualified name. Several functions may share
// a name; they are told apart by signature.
func (r *Registry) Add(fn *Function) error {
	if r.sealed {
		return ErrSealed
	}
	full := fn.FullName()
	r.funcs[full] = append(r.funcs[full], fn)
	log.Debugf("function %s %s", full, fn.Signature)
	return nil
}

func (r *Registry) hasFunction(fn *Function) bool {
	for _, f := range r.funcs[fn.FullName()] {
		if f == fn {
			return true
		}
	}
	return false
}

// AddFunc binds the free function fn as name in ns. Overloads sharing a
// signature are rejected.
func (r *Registry) AddFunc(ns *Namespace, name string, fn any) (*Function, error) {
	if ns == nil {
		ns = r.root
	}
	v := reflect.ValueOf(fn)
	if !v.IsValid() {
		return nil, fmt.Errorf("%w: nil function for %q", ErrInvalidBinding, name)
	}
	sig, err := signatureOf(v.Type(), 0)
	if err != nil {
		return nil, err
	}
	f := NewFunction(name, v, sig, ns, HostCall)
	for _, prev := range r.funcs[f.FullName()] {
		if prev.Signature.Equal(sig) {
			return nil, fmt.Errorf("%w: %s%s", ErrDuplicateOverload, f.FullName(), sig)
		}
	}
	if err := r.Add(f); err != nil {
		return nil, err
	}
	return f, nil
}

// AddValue registers a global under its qualified name.
func (r *Registry) AddValue(g *Global) error {
	if r.sealed {
		return ErrSealed
	}
	full := g.FullName()
	if _, ok := r.globals[full]; ok {
		return fmt.Errorf("%w: global %q already registered", ErrInvalidBinding, full)
	}
	r.globals[full] = g
	log.Debugf("global %s of type %s", full, g.Type.FullName())
	return nil
}

// GetType returns the DataType bound to t, or nil.
func (r *Registry) GetType(t reflect.Type) *DataType {
	return r.types[t]
}

// TypeOf returns the DataType bound to T, or nil.
func TypeOf[T any](r *Registry) *DataType {
	return r.GetType(reflect.TypeFor[T]())
}

// TypeByName looks a type up by qualified name.
func (r *Registry) TypeByName(full string) *DataType {
	return r.byName[full]
}

// TypeByID looks a type up by identity hash.
func (r *Registry) TypeByID(id TypeID) *DataType {
	return r.byID[id]
}

// Functions returns the functions registered under a qualified name.
func (r *Registry) Functions(full string) []*Function {
	return r.funcs[full]
}

// Value returns the global registered under a qualified name, or nil.
func (r *Registry) Value(full string) *Global {
	return r.globals[full]
}

// Types returns every registered type sorted by qualified name.
func (r *Registry) Types() []*DataType {
	out := make([]*DataType, 0, len(r.types))
	for _, dt := range r.types {
		out = append(out, dt)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].FullName() < out[j].FullName()
	})
	return out
}

func (r *Registry) functionCount() int {
	n := 0
	for _, fs := range r.funcs {
		n += len(fs)
	}
	return n
}

// primitives are bound by their Go names in the root namespace.
var primitives = []reflect.Type{
	reflect.TypeFor[bool](),
	reflect.TypeFor[int](),
	reflect.TypeFor[int8](),
	reflect.TypeFor[int16](),
	reflect.TypeFor[int32](),
	reflect.TypeFor[int64](),
	reflect.TypeFor[uint](),
	reflect.TypeFor[uint8](),
	reflect.TypeFor[uint16](),
	reflect.TypeFor[uint32](),
	reflect.TypeFor[uint64](),
	reflect.TypeFor[uintptr](),
	reflect.TypeFor[float32](),
	reflect.TypeFor[float64](),
	reflect.TypeFor[complex64](),
	reflect.TypeFor[complex128](),
	reflect.TypeFor[string](),
}

func registerPrimitives(r *Registry) {
	for _, t := range primitives {
		dt := NewDataType(t.Name(), t, r.root)
		dt.primitive = true
		// Names are distinct Go types; AddType cannot fail here.
		_ = r.AddType(dt)
	}
}
