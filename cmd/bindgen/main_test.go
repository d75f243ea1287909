package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/chazu/gobind/gowrap"
)

const geometryPath = "github.com/chazu/gobind/examples/geometry"

func TestGenPackage(t *testing.T) {
	out := t.TempDir()
	path, err := genPackage(genTarget{
		ImportPath: geometryPath,
		Filter:     map[string]bool{"Vec2": true, "NewVec2": true},
		OutputRoot: out,
	})
	if err != nil {
		t.Fatalf("genPackage: %v", err)
	}
	if want := filepath.Join(out, "geometrybind", "bind_gen.go"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(src), "b.Ctor(geometry.NewVec2)") {
		t.Errorf("generated file missing constructor:\n%s", src)
	}
	if strings.Contains(string(src), "geometry.Rect") {
		t.Error("filtered-out type Rect was bound")
	}
}

func TestGenPackageNamed(t *testing.T) {
	out := t.TempDir()
	path, err := genPackage(genTarget{ImportPath: geometryPath, Package: "geoglue", OutputRoot: out})
	if err != nil {
		t.Fatalf("genPackage: %v", err)
	}
	if filepath.Base(filepath.Dir(path)) != "geoglue" {
		t.Errorf("path = %q, want it under geoglue/", path)
	}
}

func TestGenPackageNamespace(t *testing.T) {
	out := t.TempDir()
	path, err := genPackage(genTarget{ImportPath: geometryPath, Namespace: "Shapes::Geo", OutputRoot: out})
	if err != nil {
		t.Fatalf("genPackage: %v", err)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(src), `const Namespace = "Shapes::Geo"`) {
		t.Errorf("namespace not applied:\n%s", src)
	}
}

func TestGenCommandManifest(t *testing.T) {
	dir := t.TempDir()
	toml := `
[project]
namespace = "Shapes"

[output]
dir = "out"

[[package]]
import = "` + geometryPath + `"
include = ["Vec2"]
`
	if err := os.WriteFile(filepath.Join(dir, "bind.toml"), []byte(toml), 0o644); err != nil {
		t.Fatal(err)
	}

	handleGenCommand([]string{"-config", dir}, false)

	src, err := os.ReadFile(filepath.Join(dir, "out", "geometrybind", "bind_gen.go"))
	if err != nil {
		t.Fatalf("reading generated file: %v", err)
	}
	// The package namespace defaults to the project namespace plus the package name.
	if !strings.Contains(string(src), `const Namespace = "Shapes::Geometry"`) {
		t.Errorf("manifest namespace not applied:\n%s", src)
	}
}

func TestDescribeModel(t *testing.T) {
	color.NoColor = true

	model, err := gowrap.IntrospectPackage(geometryPath, nil)
	if err != nil {
		t.Fatalf("IntrospectPackage: %v", err)
	}
	var buf bytes.Buffer
	describeModel(&buf, model)
	got := buf.String()

	for _, want := range []string{
		"Go::Geometry (" + geometryPath + ")",
		"type Vec2",
		"op       + Add(Vec2) Vec2",
		"method   len () float64",
		"cast     string String",
		"dtor     Close",
		"static   origin Vec2",
		"func     dist (Vec2, Vec2) float64",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("describe output missing %q:\n%s", want, got)
		}
	}
}
