package bind

import (
	"fmt"
	"reflect"
)

// Reserved property names. Lookups by these names find constructors,
// destructors and conversions regardless of any user-chosen name.
const (
	ConstructorName  = "$ctor"
	DestructorName   = "$dtor"
	CastOperatorName = "$cast"
)

// CallPolicy selects who supplies the receiver when a Function is called.
type CallPolicy uint8

const (
	// HostCall passes the script arguments through unchanged.
	HostCall CallPolicy = iota
	// HostThisCall treats the first script argument as the receiver.
	HostThisCall
)

func (p CallPolicy) String() string {
	switch p {
	case HostCall:
		return "host-call"
	case HostThisCall:
		return "host-this-call"
	}
	return fmt.Sprintf("CallPolicy(%d)", uint8(p))
}

// Function is a registered callable: an erased entry point, its signature,
// the scope it was declared in and the handler that knows how to call it.
type Function struct {
	Name      string
	Entry     reflect.Value
	Signature *Signature
	Namespace *Namespace

	// method is the Go method name when the entry was bound by name; the
	// receiver-injecting handler then dispatches through the method value.
	method  string
	handler CallHandler
}

// NewFunction creates a Function and attaches the handler for policy.
func NewFunction(name string, entry reflect.Value, sig *Signature, ns *Namespace, policy CallPolicy) *Function {
	f := &Function{
		Name:      name,
		Entry:     entry,
		Signature: sig,
		Namespace: ns,
	}
	switch policy {
	case HostThisCall:
		f.handler = &hostThisCallHandler{fn: f}
	default:
		f.handler = &hostCallHandler{fn: f}
	}
	return f
}

// FullName returns the qualified name of the function.
func (f *Function) FullName() string {
	if f.Namespace == nil {
		return f.Name
	}
	return f.Namespace.Qualify(f.Name)
}

// CallHandler returns the handler attached at construction.
func (f *Function) CallHandler() CallHandler {
	return f.handler
}

// Call is shorthand for f.CallHandler().Call(args).
func (f *Function) Call(args ...reflect.Value) (reflect.Value, error) {
	return f.handler.Call(args)
}
