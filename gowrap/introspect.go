package gowrap

import (
	"fmt"
	"go/types"

	"golang.org/x/tools/go/packages"
)

// IntrospectPackage loads a Go package by import path and returns its API model.
// The includeFilter, if non-nil, restricts which exported names are included.
func IntrospectPackage(importPath string, includeFilter map[string]bool) (*PackageModel, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedSyntax,
	}

	pkgs, err := packages.Load(cfg, importPath)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", importPath, err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found for %s", importPath)
	}
	if len(pkgs[0].Errors) > 0 {
		return nil, fmt.Errorf("package errors: %v", pkgs[0].Errors)
	}

	pkg := pkgs[0]
	if pkg.Types == nil {
		return nil, fmt.Errorf("type information not available for %s", importPath)
	}

	model := &PackageModel{
		ImportPath: pkg.PkgPath,
		Name:       pkg.Name,
	}

	scope := pkg.Types.Scope()
	var funcs []FunctionModel
	var vars []*types.Var

	for _, name := range scope.Names() {
		if includeFilter != nil && !includeFilter[name] {
			continue
		}

		obj := scope.Lookup(name)
		if !obj.Exported() {
			continue
		}

		switch o := obj.(type) {
		case *types.Func:
			funcs = append(funcs, extractFunction(o, pkg.Types))

		case *types.TypeName:
			if tm := extractType(o, pkg.Types); tm != nil {
				model.Types = append(model.Types, *tm)
			}

		case *types.Var:
			vars = append(vars, o)
		}
	}

	for _, fn := range funcs {
		if tm := model.constructorTarget(fn); tm != nil {
			tm.Constructors = append(tm.Constructors, fn)
			continue
		}
		model.Functions = append(model.Functions, fn)
	}
	for _, v := range vars {
		if tm := model.typeOf(v.Type()); tm != nil {
			tm.Statics = append(tm.Statics, VariableModel{
				Name:    v.Name(),
				GoType:  v.Type(),
				TypeStr: types.TypeString(v.Type(), qualifier(pkg.Types)),
			})
		}
	}

	return model, nil
}

// constructorTarget returns the type fn constructs: New<T> returning T or
// *T, optionally followed by an error. Variadic constructors are kept; the
// generator skips them.
func (m *PackageModel) constructorTarget(fn FunctionModel) *TypeModel {
	if len(fn.Results) == 0 || len(fn.Results) > 2 {
		return nil
	}
	if len(fn.Results) == 2 && !fn.ReturnsErr {
		return nil
	}
	res := fn.Results[0].GoType
	if p, ok := res.(*types.Pointer); ok {
		res = p.Elem()
	}
	tm := m.typeOf(res)
	if tm == nil || fn.Name != "New"+tm.Name {
		return nil
	}
	return tm
}

func (m *PackageModel) typeOf(t types.Type) *TypeModel {
	for i := range m.Types {
		if types.Identical(m.Types[i].GoType, t) {
			return &m.Types[i]
		}
	}
	return nil
}

func extractFunction(fn *types.Func, pkg *types.Package) FunctionModel {
	sig := fn.Type().(*types.Signature)
	return functionModelFromSig(fn.Name(), sig, false, "", qualifier(pkg))
}

func extractType(tn *types.TypeName, pkg *types.Package) *TypeModel {
	if tn.IsAlias() {
		return nil
	}
	named, ok := tn.Type().(*types.Named)
	if !ok || named.TypeParams().Len() > 0 {
		return nil
	}
	switch named.Underlying().(type) {
	case *types.Interface, *types.Pointer:
		return nil
	}

	tm := &TypeModel{
		Name:   tn.Name(),
		GoType: tn.Type(),
	}

	if st, ok := named.Underlying().(*types.Struct); ok {
		tm.IsStruct = true
		for i := 0; i < st.NumFields(); i++ {
			f := st.Field(i)
			if f.Exported() {
				tm.Fields = append(tm.Fields, FieldModel{
					Name:     f.Name(),
					GoType:   f.Type(),
					TypeStr:  types.TypeString(f.Type(), qualifier(pkg)),
					Embedded: f.Embedded(),
				})
			}
		}
	}

	// The pointer method set holds both value and pointer receivers.
	ptrType := types.NewPointer(named)
	mset := types.NewMethodSet(ptrType)
	for i := 0; i < mset.Len(); i++ {
		sel := mset.At(i)
		fn, ok := sel.Obj().(*types.Func)
		if !ok || !fn.Exported() {
			continue
		}
		// Only include methods directly defined on this type (not inherited)
		if len(sel.Index()) > 1 {
			continue
		}
		sig := fn.Type().(*types.Signature)
		_, ptrRecv := sig.Recv().Type().(*types.Pointer)
		recv := tn.Name()
		if ptrRecv {
			recv = "*" + recv
		}
		fm := functionModelFromSig(fn.Name(), sig, true, recv, qualifier(pkg))
		fm.PtrRecv = ptrRecv
		tm.Methods = append(tm.Methods, fm)
		if fm.Name == "Close" && len(fm.Params) == 0 && len(fm.Results) == 1 && fm.ReturnsErr {
			tm.HasClose = true
		}
	}

	return tm
}

func functionModelFromSig(name string, sig *types.Signature, isMethod bool, recvType string, qf types.Qualifier) FunctionModel {
	fm := FunctionModel{
		Name:     name,
		IsMethod: isMethod,
		RecvType: recvType,
		Variadic: sig.Variadic(),
	}

	params := sig.Params()
	for i := 0; i < params.Len(); i++ {
		p := params.At(i)
		fm.Params = append(fm.Params, ParamModel{
			Name:    p.Name(),
			GoType:  p.Type(),
			TypeStr: types.TypeString(p.Type(), qf),
		})
	}

	results := sig.Results()
	for i := 0; i < results.Len(); i++ {
		r := results.At(i)
		fm.Results = append(fm.Results, ParamModel{
			Name:    r.Name(),
			GoType:  r.Type(),
			TypeStr: types.TypeString(r.Type(), qf),
		})
	}

	if results.Len() > 0 {
		lastResult := results.At(results.Len() - 1)
		if isErrorType(lastResult.Type()) {
			fm.ReturnsErr = true
		}
	}

	return fm
}

func isErrorType(t types.Type) bool {
	return types.Identical(t, types.Universe.Lookup("error").Type())
}

func qualifier(pkg *types.Package) types.Qualifier {
	return func(other *types.Package) string {
		if other == pkg {
			return ""
		}
		return other.Name()
	}
}
