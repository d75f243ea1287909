package gowrap

import (
	"go/parser"
	"go/token"
	"strings"
	"testing"
)

const geometryPath = "github.com/chazu/gobind/examples/geometry"

func generateGeometry(t *testing.T) string {
	t.Helper()
	model, err := IntrospectPackage(geometryPath, nil)
	if err != nil {
		t.Fatalf("IntrospectPackage: %v", err)
	}
	src, err := GenerateBindings(model, Options{})
	if err != nil {
		t.Fatalf("GenerateBindings: %v", err)
	}
	return src
}

func TestGenerateBindings_Parses(t *testing.T) {
	src := generateGeometry(t)

	f, err := parser.ParseFile(token.NewFileSet(), "bind_gen.go", src, parser.ParseComments)
	if err != nil {
		t.Fatalf("generated code does not parse: %v\n%s", err, src)
	}
	if f.Name.Name != "geometrybind" {
		t.Errorf("package = %q, want geometrybind", f.Name.Name)
	}
	if !strings.HasPrefix(src, "// Code generated by bindgen. DO NOT EDIT.") {
		t.Error("missing generated-code header")
	}
}

func TestGenerateBindings_Members(t *testing.T) {
	src := generateGeometry(t)

	want := []string{
		"func Register(r *bind.Registry, ns *bind.Namespace) error",
		`const Namespace = "Go::Geometry"`,
		"func RegisterDefault(r *bind.Registry) error",
		"Register(r, r.Root().Path(Namespace))",
		`bind.NewObjectTypeBuilder[geometry.Vec2](r, "Vec2", ns)`,
		"func bindVec2(b *bind.ObjectTypeBuilder[geometry.Vec2]) error",
		"var zero geometry.Vec2",
		`b.PropAt("x", unsafe.Offsetof(zero.X), reflect.TypeOf(zero.X))`,
		"b.Ctor(geometry.NewVec2)",
		"b.Ctor(geometry.NewRect)",
		`b.StaticProp("origin", &geometry.Origin)`,
		"b.Op(bind.OpAdd)",
		"b.Op(bind.OpNegate)",
		"b.Op(bind.OpPostInc)",
		`b.Method("len", (*geometry.Vec2).Len)`,
		`b.Method("translate", (*geometry.Rect).Translate)`,
		"b.OpCast(reflect.TypeFor[string]())",
		"b.Dtor()",
		`r.AddFunc(ns, "dist", geometry.Dist)`,
	}
	for _, w := range want {
		if !strings.Contains(src, w) {
			t.Errorf("generated code missing %q", w)
		}
	}

	// Close is bound as the destructor, not as a method.
	if strings.Contains(src, "(*geometry.Counter).Close") {
		t.Error("Close should not be bound as a method")
	}
}

func TestGenerateBindings_BuildersBeforeMembers(t *testing.T) {
	src := generateGeometry(t)

	lastBuilder := strings.LastIndex(src, "bind.NewObjectTypeBuilder")
	firstBind := strings.Index(src, "bindCounter(bCounter)")
	if lastBuilder < 0 || firstBind < 0 || lastBuilder > firstBind {
		t.Error("every builder must be created before any member is bound")
	}
}

func TestGenerateBindings_PackageOption(t *testing.T) {
	model := &PackageModel{ImportPath: "example.com/geo-math", Name: "geomath"}
	src, err := GenerateBindings(model, Options{Package: "gm"})
	if err != nil {
		t.Fatalf("GenerateBindings: %v", err)
	}
	if !strings.Contains(src, "package gm") {
		t.Errorf("expected package gm, got:\n%s", src)
	}
	if !strings.Contains(src, `const Namespace = "Go::GeoMath"`) {
		t.Errorf("expected default namespace Go::GeoMath, got:\n%s", src)
	}
	if strings.Contains(src, "var zero") {
		t.Error("empty model should not declare zero values")
	}
}

func TestGenerateBindings_NamespaceOption(t *testing.T) {
	model := &PackageModel{ImportPath: "example.com/geo", Name: "geo"}
	src, err := GenerateBindings(model, Options{Namespace: "Shapes::Geo"})
	if err != nil {
		t.Fatalf("GenerateBindings: %v", err)
	}
	if !strings.Contains(src, `const Namespace = "Shapes::Geo"`) {
		t.Errorf("expected configured namespace, got:\n%s", src)
	}
}

func TestBindableFunc(t *testing.T) {
	g := &generator{}
	tests := []struct {
		name string
		fn   FunctionModel
		want bool
	}{
		{"void", FunctionModel{}, true},
		{"value", FunctionModel{Results: []ParamModel{{TypeStr: "int"}}}, true},
		{"fallible", FunctionModel{Results: []ParamModel{{TypeStr: "int"}, {TypeStr: "error"}}, ReturnsErr: true}, true},
		{"pair", FunctionModel{Results: []ParamModel{{TypeStr: "int"}, {TypeStr: "int"}}}, false},
		{"variadic", FunctionModel{Variadic: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.bindableFunc(tt.fn); got != tt.want {
				t.Errorf("bindableFunc = %v, want %v", got, tt.want)
			}
		})
	}
}
