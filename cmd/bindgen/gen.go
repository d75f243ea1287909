package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/chazu/gobind/gowrap"
	"github.com/chazu/gobind/manifest"
)

// handleGenCommand processes the `bindgen gen` subcommand.
// Usage:
//
//	bindgen gen                      # all packages from bind.toml
//	bindgen gen image/color          # single package, ad-hoc
//	bindgen gen -o ./glue image/color
//	bindgen gen -ns Gfx::Color image/color
func handleGenCommand(args []string, verbose bool) {
	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	outputDir := fs.String("o", "", "Output directory (default from bind.toml, else ./bindings)")
	configDir := fs.String("config", ".", "Directory to search upward for bind.toml")
	namespace := fs.String("ns", "", "Namespace for ad-hoc packages (default Go::<Package>)")
	fs.Parse(args)

	var targets []genTarget

	if fs.NArg() > 0 {
		// Ad-hoc package binding from command line
		out := *outputDir
		if out == "" {
			out = "bindings"
		}
		for _, pkg := range fs.Args() {
			targets = append(targets, genTarget{ImportPath: pkg, Namespace: *namespace, OutputRoot: out})
		}
	} else {
		m, err := manifest.FindAndLoad(*configDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading manifest: %v\n", err)
			os.Exit(1)
		}
		if m == nil {
			fmt.Fprintln(os.Stderr, "Error: no bind.toml found and no packages specified")
			fmt.Fprintln(os.Stderr, "Usage: bindgen gen [packages...] or configure [[package]] in bind.toml")
			os.Exit(1)
		}
		if len(m.Packages) == 0 {
			fmt.Fprintln(os.Stderr, "No [[package]] entries configured in bind.toml")
			os.Exit(1)
		}

		for _, pkg := range m.Packages {
			t := genTarget{
				ImportPath: pkg.Import,
				Filter:     pkg.IncludeFilter(),
				Package:    m.PackageName(pkg),
				Namespace:  pkg.Namespace,
				OutputRoot: filepath.Dir(m.OutputDir(pkg)),
			}
			if *outputDir != "" {
				t.OutputRoot = *outputDir
			}
			targets = append(targets, t)
		}
	}

	for _, t := range targets {
		path, err := genPackage(t)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s %s: %v\n", color.RedString("Error binding"), t.ImportPath, err)
			os.Exit(1)
		}
		if verbose {
			fmt.Printf("  %s %s\n", color.GreenString("Wrote"), path)
		}
	}

	if verbose {
		fmt.Printf("Bound %d package(s)\n", len(targets))
	}
}

type genTarget struct {
	ImportPath string
	Filter     map[string]bool
	Package    string // generated package name; empty for the default
	Namespace  string // scope for RegisterDefault; empty for the default
	OutputRoot string
}

// genPackage introspects t, generates its bindings and writes them to
// <OutputRoot>/<package>/bind_gen.go. It returns the written path.
func genPackage(t genTarget) (string, error) {
	log.Infof("binding %s", t.ImportPath)

	model, err := gowrap.IntrospectPackage(t.ImportPath, t.Filter)
	if err != nil {
		return "", fmt.Errorf("introspecting: %w", err)
	}
	log.Debugf("found %d functions, %d types in %s", len(model.Functions), len(model.Types), model.ImportPath)

	opts := gowrap.Options{Package: t.Package, Namespace: t.Namespace}
	src, err := gowrap.GenerateBindings(model, opts)
	if err != nil {
		return "", fmt.Errorf("generating bindings: %w", err)
	}

	pkgName := t.Package
	if pkgName == "" {
		pkgName = model.Name + "bind"
	}
	pkgDir := filepath.Join(t.OutputRoot, pkgName)
	if err := os.MkdirAll(pkgDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}

	goPath := filepath.Join(pkgDir, "bind_gen.go")
	if err := os.WriteFile(goPath, []byte(src), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", goPath, err)
	}
	return goPath, nil
}
