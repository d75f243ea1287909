package gowrap

import (
	"bytes"
	"fmt"
	"go/types"
	"sort"
	"strings"

	"github.com/dave/jennifer/jen"
)

const (
	bindPath    = "github.com/chazu/gobind/bind"
	reflectPath = "reflect"
	unsafePath  = "unsafe"
)

// Options controls binding generation.
type Options struct {
	// Package is the name of the generated package. Defaults to the
	// wrapped package's name with a "bind" suffix.
	Package string

	// Namespace is the scope RegisterDefault binds into. Defaults to
	// GoPackageToNamespace of the import path.
	Namespace string
}

// GenerateBindings produces Go source for a package with a
// Register(r *bind.Registry, ns *bind.Namespace) error function that binds
// the exported API in model, and a RegisterDefault that binds into the
// configured Namespace. Every type gets its builder before any member
// is bound, so members may refer to types declared later in the package.
func GenerateBindings(model *PackageModel, opts Options) (string, error) {
	pkgName := opts.Package
	if pkgName == "" {
		pkgName = sanitizePackageName(model.Name) + "bind"
	}

	g := &generator{model: model, bound: make(map[string]bool)}
	typesToBind := g.bindableTypes()

	f := jen.NewFile(pkgName)
	f.HeaderComment("Code generated by bindgen. DO NOT EDIT.")
	f.ImportName(bindPath, "bind")
	f.ImportName(model.ImportPath, model.Name)

	ns := opts.Namespace
	if ns == "" {
		ns = GoPackageToNamespace(model.ImportPath)
	}
	f.Comment("Namespace is the scope RegisterDefault binds into.")
	f.Const().Id("Namespace").Op("=").Lit(ns)
	f.Line()
	f.Comment("RegisterDefault binds into Namespace under the registry's root.")
	f.Func().Id("RegisterDefault").Params(
		jen.Id("r").Op("*").Qual(bindPath, "Registry"),
	).Error().Block(
		jen.Return(jen.Id("Register").Call(
			jen.Id("r"),
			jen.Id("r").Dot("Root").Call().Dot("Path").Call(jen.Id("Namespace")),
		)),
	)
	f.Line()
	f.Commentf("Register binds the exported API of %s into ns.", model.ImportPath)
	f.Func().Id("Register").Params(
		jen.Id("r").Op("*").Qual(bindPath, "Registry"),
		jen.Id("ns").Op("*").Qual(bindPath, "Namespace"),
	).Error().BlockFunc(func(grp *jen.Group) {
		for _, tm := range typesToBind {
			grp.List(jen.Id(builderVar(tm)), jen.Err()).Op(":=").
				Qual(bindPath, "NewObjectTypeBuilder").Types(jen.Qual(model.ImportPath, tm.Name)).
				Call(jen.Id("r"), jen.Lit(tm.Name), jen.Id("ns"))
			grp.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Err()))
		}
		for _, tm := range typesToBind {
			grp.If(
				jen.Err().Op(":=").Id(bindFuncName(tm)).Call(jen.Id(builderVar(tm))),
				jen.Err().Op("!=").Nil(),
			).Block(jen.Return(jen.Err()))
		}
		for _, fn := range model.Functions {
			if !g.bindableFunc(fn) {
				continue
			}
			grp.If(
				jen.List(jen.Id("_"), jen.Err()).Op(":=").Id("r").Dot("AddFunc").Call(
					jen.Id("ns"), jen.Lit(GoNameToScriptName(fn.Name)), jen.Qual(model.ImportPath, fn.Name)),
				jen.Err().Op("!=").Nil(),
			).Block(jen.Return(jen.Err()))
		}
		grp.Return(jen.Nil())
	})

	for _, tm := range typesToBind {
		f.Line()
		g.generateType(f, tm)
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return "", fmt.Errorf("rendering bindings for %s: %w", model.ImportPath, err)
	}
	return buf.String(), nil
}

type generator struct {
	model *PackageModel
	bound map[string]bool
}

// bindableTypes returns the types that get a builder, sorted by name.
func (g *generator) bindableTypes() []*TypeModel {
	var out []*TypeModel
	for i := range g.model.Types {
		tm := &g.model.Types[i]
		out = append(out, tm)
		g.bound[tm.Name] = true
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (g *generator) generateType(f *jen.File, tm *TypeModel) {
	path := g.model.ImportPath
	fields := g.bindableFields(tm)

	f.Func().Id(bindFuncName(tm)).Params(
		jen.Id("b").Op("*").Qual(bindPath, "ObjectTypeBuilder").Types(jen.Qual(path, tm.Name)),
	).Error().BlockFunc(func(grp *jen.Group) {
		bindCall := func(call *jen.Statement) {
			grp.If(
				jen.List(jen.Id("_"), jen.Err()).Op(":=").Id("b").Add(call),
				jen.Err().Op("!=").Nil(),
			).Block(jen.Return(jen.Err()))
		}

		if len(fields) > 0 {
			grp.Var().Id("zero").Qual(path, tm.Name)
		}
		if tm.IsStruct && !hasNullaryConstructor(tm) {
			bindCall(jen.Dot("Ctor").Call(jen.Nil()))
		}
		for _, ctor := range tm.Constructors {
			if !g.bindableFunc(ctor) {
				continue
			}
			bindCall(jen.Dot("Ctor").Call(jen.Qual(path, ctor.Name)))
		}
		if tm.HasClose {
			bindCall(jen.Dot("Dtor").Call())
		}
		for _, fld := range fields {
			bindCall(jen.Dot("PropAt").Call(
				jen.Lit(GoNameToScriptName(fld.Name)),
				jen.Qual(unsafePath, "Offsetof").Call(jen.Id("zero").Dot(fld.Name)),
				jen.Qual(reflectPath, "TypeOf").Call(jen.Id("zero").Dot(fld.Name)),
			))
		}
		for _, v := range tm.Statics {
			bindCall(jen.Dot("StaticProp").Call(
				jen.Lit(GoNameToScriptName(v.Name)),
				jen.Op("&").Qual(path, v.Name),
			))
		}
		for _, m := range tm.Methods {
			switch {
			case !g.bindableFunc(m):
			case tm.HasClose && m.Name == "Close":
			case IsStringer(m):
				bindCall(jen.Dot("OpCast").Call(
					jen.Qual(reflectPath, "TypeFor").Types(jen.String()).Call()))
			default:
				if op, ok := OperatorForMethod(m); ok {
					bindCall(jen.Dot("Op").Call(jen.Qual(bindPath, op.String())))
					continue
				}
				bindCall(jen.Dot("Method").Call(
					jen.Lit(GoNameToScriptName(m.Name)),
					jen.Parens(jen.Op("*").Qual(path, tm.Name)).Dot(m.Name),
				))
			}
		}
		grp.Return(jen.Nil())
	})
}

// bindableFields returns the fields whose type is a primitive or a type
// bound by the same Register call.
func (g *generator) bindableFields(tm *TypeModel) []FieldModel {
	var out []FieldModel
	for _, fld := range tm.Fields {
		if fld.Embedded || !g.bindableType(fld.GoType) {
			continue
		}
		out = append(out, fld)
	}
	return out
}

func (g *generator) bindableType(t types.Type) bool {
	switch tt := t.(type) {
	case *types.Basic:
		info := tt.Info()
		return info&types.IsUntyped == 0 && tt.Kind() != types.UnsafePointer &&
			info&(types.IsBoolean|types.IsNumeric|types.IsString) != 0
	case *types.Named:
		obj := tt.Obj()
		return obj.Pkg() != nil && obj.Pkg().Path() == g.model.ImportPath && g.bound[obj.Name()]
	}
	return false
}

// bindableFunc reports whether the registry can derive a signature for fn.
func (g *generator) bindableFunc(fn FunctionModel) bool {
	if fn.Variadic {
		return false
	}
	switch len(fn.Results) {
	case 0, 1:
		return true
	case 2:
		return fn.ReturnsErr
	}
	return false
}

func hasNullaryConstructor(tm *TypeModel) bool {
	for _, ctor := range tm.Constructors {
		if len(ctor.Params) == 0 {
			return true
		}
	}
	return false
}

func builderVar(tm *TypeModel) string { return "b" + tm.Name }

func bindFuncName(tm *TypeModel) string { return "bind" + tm.Name }

// sanitizePackageName makes a package name safe for use as a Go identifier.
func sanitizePackageName(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || r == '.' {
			return '_'
		}
		return r
	}, name)
}
