package bind

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is to match.
var (
	ErrDuplicateDestructor    = errors.New("bind: type already has a destructor")
	ErrUnregisteredMemberType = errors.New("bind: member type has not been registered")
	ErrMissingCastOperator    = errors.New("bind: type declares no such conversion")
	ErrDuplicateOverload      = errors.New("bind: duplicate overload")
	ErrDuplicateType          = errors.New("bind: type already registered")
	ErrUnknownType            = errors.New("bind: type not registered")
	ErrInvalidBinding         = errors.New("bind: invalid binding")
	ErrUnknownField           = errors.New("bind: no such field")
	ErrSealed                 = errors.New("bind: registry is sealed")

	ErrArity        = errors.New("bind: wrong number of arguments")
	ErrArgumentType = errors.New("bind: argument type mismatch")
)

// BindError reports a failed builder operation. Type is the fully qualified
// name of the owning type, Member the property or operator being bound.
type BindError struct {
	Op         string
	Type       string
	Member     string
	MemberType string
	Err        error
}

func (e *BindError) Error() string {
	msg := fmt.Sprintf("%s: %q", e.Op, e.Type)
	if e.Member != "" {
		msg += fmt.Sprintf(" member %q", e.Member)
	}
	if e.MemberType != "" {
		msg += fmt.Sprintf(" (type %s)", e.MemberType)
	}
	return msg + ": " + e.Err.Error()
}

func (e *BindError) Unwrap() error { return e.Err }

// DispatchError is returned by a CallHandler when a call cannot be issued.
type DispatchError struct {
	Function string
	Err      error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("bind: calling %s: %v", e.Function, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }
