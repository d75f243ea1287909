package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/chazu/gobind/gowrap"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	kindColor   = color.New(color.FgYellow)
	skipColor   = color.New(color.FgHiBlack)
)

// handleDescribeCommand processes the `bindgen describe` subcommand.
func handleDescribeCommand(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: bindgen describe <package>")
		os.Exit(2)
	}

	model, err := gowrap.IntrospectPackage(args[0], nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %s: %v\n", color.RedString("Error introspecting"), args[0], err)
		os.Exit(1)
	}
	describeModel(os.Stdout, model)
}

// describeModel prints each member of model with the binding it gets.
func describeModel(w io.Writer, model *gowrap.PackageModel) {
	headerColor.Fprintf(w, "%s", gowrap.GoPackageToNamespace(model.ImportPath))
	fmt.Fprintf(w, " (%s)\n", model.ImportPath)

	for _, tm := range model.Types {
		fmt.Fprintln(w)
		headerColor.Fprintf(w, "  type %s\n", tm.Name)
		for _, ctor := range tm.Constructors {
			if ctor.Variadic {
				skipColor.Fprintf(w, "    %-8s %s (variadic)\n", "skip", ctor.Name)
				continue
			}
			describeLine(w, "ctor", ctor.Name, params(ctor))
		}
		if tm.HasClose {
			describeLine(w, "dtor", "Close", "")
		}
		for _, f := range tm.Fields {
			if f.Embedded {
				skipColor.Fprintf(w, "    %-8s %s (embedded)\n", "skip", f.Name)
				continue
			}
			describeLine(w, "prop", gowrap.GoNameToScriptName(f.Name), f.TypeStr)
		}
		for _, v := range tm.Statics {
			describeLine(w, "static", gowrap.GoNameToScriptName(v.Name), v.TypeStr)
		}
		for _, m := range tm.Methods {
			switch {
			case m.Variadic:
				skipColor.Fprintf(w, "    %-8s %s (variadic)\n", "skip", m.Name)
			case tm.HasClose && m.Name == "Close":
			case gowrap.IsStringer(m):
				describeLine(w, "cast", "string", "String")
			default:
				if op, ok := gowrap.OperatorForMethod(m); ok {
					describeLine(w, "op", op.Token(), m.Name+params(m))
					continue
				}
				describeLine(w, "method", gowrap.GoNameToScriptName(m.Name), params(m))
			}
		}
	}

	if len(model.Functions) > 0 {
		fmt.Fprintln(w)
		headerColor.Fprintln(w, "  functions")
		for _, fn := range model.Functions {
			describeLine(w, "func", gowrap.GoNameToScriptName(fn.Name), params(fn))
		}
	}
}

func describeLine(w io.Writer, kind, name, detail string) {
	fmt.Fprintf(w, "    %s %s", kindColor.Sprintf("%-8s", kind), name)
	if detail != "" {
		fmt.Fprintf(w, " %s", detail)
	}
	fmt.Fprintln(w)
}

func params(fn gowrap.FunctionModel) string {
	parts := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		parts[i] = p.TypeStr
	}
	s := "(" + strings.Join(parts, ", ") + ")"
	switch len(fn.Results) {
	case 0:
	case 1:
		s += " " + fn.Results[0].TypeStr
	default:
		res := make([]string, len(fn.Results))
		for i, r := range fn.Results {
			res[i] = r.TypeStr
		}
		s += " (" + strings.Join(res, ", ") + ")"
	}
	return s
}
