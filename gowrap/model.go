// Package gowrap introspects Go packages and generates bind registrations
// for their exported API.
package gowrap

import "go/types"

// PackageModel is the in-memory representation of a Go package's exported API.
type PackageModel struct {
	ImportPath string
	Name       string          // short package name (e.g., "geometry")
	Functions  []FunctionModel // free functions that are not constructors
	Types      []TypeModel
}

// TypeModel represents an exported named type.
type TypeModel struct {
	Name         string
	GoType       types.Type
	IsStruct     bool
	Fields       []FieldModel
	Methods      []FunctionModel // pointer method set, promoted methods excluded
	Constructors []FunctionModel // New<Name> returning Name or *Name
	Statics      []VariableModel // package variables of this type
	HasClose     bool            // Close() error in the method set
}

// FunctionModel represents an exported function or method.
type FunctionModel struct {
	Name       string
	IsMethod   bool
	RecvType   string // non-empty for methods (e.g., "*Rect")
	PtrRecv    bool
	Params     []ParamModel
	Results    []ParamModel
	ReturnsErr bool // true if last result is error
	Variadic   bool
}

// ParamModel represents a function parameter or result.
type ParamModel struct {
	Name    string
	GoType  types.Type
	TypeStr string
}

// FieldModel represents an exported struct field.
type FieldModel struct {
	Name     string
	GoType   types.Type
	TypeStr  string
	Embedded bool
}

// VariableModel represents an exported package-level variable.
type VariableModel struct {
	Name    string
	GoType  types.Type
	TypeStr string
}
