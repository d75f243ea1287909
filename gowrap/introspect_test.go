package gowrap

import (
	"testing"
)

func findFunc(fns []FunctionModel, name string) *FunctionModel {
	for i := range fns {
		if fns[i].Name == name {
			return &fns[i]
		}
	}
	return nil
}

func TestIntrospectPackage_Strings(t *testing.T) {
	model, err := IntrospectPackage("strings", nil)
	if err != nil {
		t.Fatalf("IntrospectPackage(strings): %v", err)
	}

	if model.ImportPath != "strings" || model.Name != "strings" {
		t.Errorf("package = %q (%q), want strings", model.ImportPath, model.Name)
	}

	// Variadic functions are reported so the generator can skip them.
	if fn := findFunc(model.Functions, "Contains"); fn == nil || fn.Variadic {
		t.Errorf("Contains = %+v, want non-variadic function", fn)
	}

	// NewReplacer(oldnew ...string) *Replacer is a constructor of Replacer.
	if findFunc(model.Functions, "NewReplacer") != nil {
		t.Error("NewReplacer should have moved to Replacer's constructors")
	}
	replacer := findType(model, "Replacer")
	if replacer == nil {
		t.Fatal("expected to find Replacer type")
	}
	if ctor := findFunc(replacer.Constructors, "NewReplacer"); ctor == nil || !ctor.Variadic {
		t.Errorf("Replacer constructors = %+v, want variadic NewReplacer", replacer.Constructors)
	}

	// Builder methods all have pointer receivers; types are package-relative.
	builder := findType(model, "Builder")
	if builder == nil {
		t.Fatal("expected to find Builder type")
	}
	ws := findFunc(builder.Methods, "WriteString")
	if ws == nil {
		t.Fatal("expected Builder.WriteString")
	}
	if !ws.PtrRecv || ws.RecvType != "*Builder" {
		t.Errorf("WriteString receiver = %q (ptr %v), want *Builder", ws.RecvType, ws.PtrRecv)
	}
	if len(ws.Params) != 1 || ws.Params[0].TypeStr != "string" || !ws.ReturnsErr {
		t.Errorf("WriteString shape = %+v", ws)
	}
}

func TestIntrospectPackage_WithFilter(t *testing.T) {
	filter := map[string]bool{
		"Contains":  true,
		"HasPrefix": true,
	}
	model, err := IntrospectPackage("strings", filter)
	if err != nil {
		t.Fatalf("IntrospectPackage(strings, filter): %v", err)
	}

	if len(model.Functions) != 2 {
		t.Errorf("expected 2 functions with filter, got %d", len(model.Functions))
	}
	if len(model.Types) != 0 {
		t.Errorf("expected 0 types with filter, got %d", len(model.Types))
	}
}

func TestIntrospectPackage_QualifiedTypes(t *testing.T) {
	model, err := IntrospectPackage("bufio", map[string]bool{"Reader": true, "NewReader": true})
	if err != nil {
		t.Fatalf("IntrospectPackage(bufio): %v", err)
	}

	reader := findType(model, "Reader")
	if reader == nil {
		t.Fatal("expected to find Reader type")
	}
	// Types from other packages keep their package name, own types do not.
	ctor := findFunc(reader.Constructors, "NewReader")
	if ctor == nil {
		t.Fatal("expected NewReader constructor")
	}
	if ctor.Params[0].TypeStr != "io.Reader" || ctor.Results[0].TypeStr != "*Reader" {
		t.Errorf("NewReader = (%s) %s, want (io.Reader) *Reader", ctor.Params[0].TypeStr, ctor.Results[0].TypeStr)
	}
	if wt := findFunc(reader.Methods, "WriteTo"); wt == nil || wt.Params[0].TypeStr != "io.Writer" {
		t.Errorf("WriteTo = %+v, want io.Writer parameter", wt)
	}
	// Reader has no exported fields.
	if len(reader.Fields) != 0 {
		t.Errorf("Reader fields = %+v, want none", reader.Fields)
	}
}

func TestIntrospectPackage_BadPath(t *testing.T) {
	_, err := IntrospectPackage("nonexistent/package/path", nil)
	if err == nil {
		t.Error("expected error for nonexistent package")
	}
}

func findType(model *PackageModel, name string) *TypeModel {
	for i := range model.Types {
		if model.Types[i].Name == name {
			return &model.Types[i]
		}
	}
	return nil
}

func TestIntrospectPackage_Geometry(t *testing.T) {
	model, err := IntrospectPackage(geometryPath, nil)
	if err != nil {
		t.Fatalf("IntrospectPackage(geometry): %v", err)
	}

	if len(model.Types) != 3 {
		t.Fatalf("expected 3 types, got %d", len(model.Types))
	}

	vec := findType(model, "Vec2")
	if vec == nil {
		t.Fatal("expected to find Vec2 type")
	}
	if !vec.IsStruct || len(vec.Fields) != 2 {
		t.Errorf("Vec2: expected struct with 2 fields, got %+v", vec.Fields)
	}
	if len(vec.Constructors) != 1 || vec.Constructors[0].Name != "NewVec2" {
		t.Errorf("Vec2: expected NewVec2 constructor, got %+v", vec.Constructors)
	}
	if len(vec.Statics) != 1 || vec.Statics[0].Name != "Origin" {
		t.Errorf("Vec2: expected Origin static, got %+v", vec.Statics)
	}
	for _, m := range vec.Methods {
		if m.Name == "Scale" && !m.PtrRecv {
			t.Error("Scale should have a pointer receiver")
		}
		if m.Name == "Len" && m.PtrRecv {
			t.Error("Len should have a value receiver")
		}
	}

	rect := findType(model, "Rect")
	if rect == nil {
		t.Fatal("expected to find Rect type")
	}
	if len(rect.Constructors) != 1 || !rect.Constructors[0].ReturnsErr {
		t.Errorf("Rect: expected fallible NewRect constructor, got %+v", rect.Constructors)
	}
	if rect.HasClose {
		t.Error("Rect should not have Close")
	}

	counter := findType(model, "Counter")
	if counter == nil || !counter.HasClose {
		t.Error("expected Counter with Close")
	}

	// Constructors leave the free function list.
	if len(model.Functions) != 1 || model.Functions[0].Name != "Dist" {
		t.Errorf("expected only Dist as a free function, got %+v", model.Functions)
	}
}
