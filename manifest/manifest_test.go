package manifest

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[project]
namespace = "Shapes"

[output]
dir = "gen"
package-suffix = "glue"

[[package]]
import = "github.com/acme/geo-math"
include = ["Vec2", "NewVec2"]

[[package]]
import = "image/color"
namespace = "Color"
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if m.Project.Namespace != "Shapes" {
		t.Errorf("project namespace = %q, want Shapes", m.Project.Namespace)
	}
	if m.Output.Dir != "gen" || m.Output.PackageSuffix != "glue" {
		t.Errorf("output = %+v, want gen/glue", m.Output)
	}
	if len(m.Packages) != 2 {
		t.Fatalf("packages count = %d, want 2", len(m.Packages))
	}

	geo := m.Packages[0]
	if geo.Namespace != "Shapes::GeoMath" {
		t.Errorf("default namespace = %q, want Shapes::GeoMath", geo.Namespace)
	}
	want := map[string]bool{"Vec2": true, "NewVec2": true}
	if got := geo.IncludeFilter(); !reflect.DeepEqual(got, want) {
		t.Errorf("include filter = %v, want %v", got, want)
	}
	if got := m.PackageName(geo); got != "geo_mathglue" {
		t.Errorf("package name = %q, want geo_mathglue", got)
	}
	if got := m.OutputDir(geo); got != filepath.Join(m.Dir, "gen", "geo_mathglue") {
		t.Errorf("output dir = %q", got)
	}

	color := m.Packages[1]
	if color.Namespace != "Color" {
		t.Errorf("explicit namespace = %q, want Color", color.Namespace)
	}
	if color.IncludeFilter() != nil {
		t.Error("empty include list should bind everything")
	}
}

func TestLoadManifestDefaults(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[[package]]
import = "strings"
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.Output.Dir != "bindings" {
		t.Errorf("default output dir = %q, want bindings", m.Output.Dir)
	}
	if m.Output.PackageSuffix != "bind" {
		t.Errorf("default suffix = %q, want bind", m.Output.PackageSuffix)
	}
	if m.Packages[0].Namespace != "Strings" {
		t.Errorf("default namespace = %q, want Strings", m.Packages[0].Namespace)
	}
	if m.Dir != dir {
		absDir, _ := filepath.Abs(dir)
		if m.Dir != absDir {
			t.Errorf("Dir = %q, want %q", m.Dir, absDir)
		}
	}
}

func TestLoadManifestErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"parse", "[project\nnamespace = ", "parse error"},
		{"missing import", "[[package]]\nnamespace = \"X\"\n", "no import path"},
		{"reserved", "[[package]]\nimport = \"strings\"\nnamespace = \"int::Strings\"\n", "reserved"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeManifest(t, dir, tt.content)
			_, err := Load(dir)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load error = %v, want one containing %q", err, tt.want)
			}
		})
	}
}

func TestLoadManifestMissing(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("expected error for missing bind.toml")
	}
}

func TestFindAndLoad(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
[project]
namespace = "Found"
`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	m, err := FindAndLoad(nested)
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if m == nil {
		t.Fatal("expected to find manifest")
	}
	if m.Project.Namespace != "Found" {
		t.Errorf("project namespace = %q, want Found", m.Project.Namespace)
	}
}
