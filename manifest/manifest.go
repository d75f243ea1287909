// Package manifest handles bind.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the name of the configuration file.
const FileName = "bind.toml"

// Manifest represents a bind.toml project configuration.
type Manifest struct {
	Project  Project   `toml:"project"`
	Output   Output    `toml:"output"`
	Packages []Package `toml:"package"`

	// Dir is the directory containing the bind.toml file (set at load time).
	Dir string `toml:"-"`
}

// Project holds settings shared by every package.
type Project struct {
	// Namespace prefixes the default namespace of each package.
	Namespace string `toml:"namespace"`
}

// Output configures where generated bindings are written.
type Output struct {
	Dir           string `toml:"dir"`
	PackageSuffix string `toml:"package-suffix"`
}

// Package is one Go package to bind.
type Package struct {
	Import    string   `toml:"import"`
	Include   []string `toml:"include"`
	Namespace string   `toml:"namespace"`
}

// Load parses a bind.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	p := filepath.Join(dir, FileName)
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", p, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", p, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	// Defaults
	if m.Output.Dir == "" {
		m.Output.Dir = "bindings"
	}
	if m.Output.PackageSuffix == "" {
		m.Output.PackageSuffix = "bind"
	}
	for i := range m.Packages {
		pkg := &m.Packages[i]
		if pkg.Import == "" {
			return nil, fmt.Errorf("%s: package #%d has no import path", p, i+1)
		}
		if pkg.Namespace == "" {
			pkg.Namespace = m.defaultNamespace(pkg.Import)
		}
		if IsReservedNamespace(pkg.Namespace) {
			return nil, fmt.Errorf("%s: namespace %q of %s is reserved", p, pkg.Namespace, pkg.Import)
		}
	}

	return &m, nil
}

// FindAndLoad walks up from startDir to find a bind.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

func (m *Manifest) defaultNamespace(importPath string) string {
	ns := ToPascalCase(path.Base(importPath))
	if m.Project.Namespace != "" {
		ns = m.Project.Namespace + "::" + ns
	}
	return ns
}

// IncludeFilter returns the set of names to bind from pkg, or nil to bind
// every exported name.
func (pkg Package) IncludeFilter() map[string]bool {
	if len(pkg.Include) == 0 {
		return nil
	}
	filter := make(map[string]bool, len(pkg.Include))
	for _, name := range pkg.Include {
		filter[name] = true
	}
	return filter
}

// PackageName returns the name of the generated package for pkg.
func (m *Manifest) PackageName(pkg Package) string {
	base := strings.NewReplacer("-", "_", ".", "_").Replace(path.Base(pkg.Import))
	return base + m.Output.PackageSuffix
}

// OutputDir returns the absolute directory for pkg's generated bindings.
func (m *Manifest) OutputDir(pkg Package) string {
	return filepath.Join(m.Dir, m.Output.Dir, m.PackageName(pkg))
}
