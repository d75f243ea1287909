// bindgen generates bind registrations for Go packages.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("bindgen")

func main() {
	verbose := flag.Bool("v", false, "Verbose output")
	debug := flag.Bool("debug", false, "Log registry and generator internals")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: bindgen [options] <command> [args...]\n\n")
		fmt.Fprintf(os.Stderr, "Generates Register functions that bind Go packages into a type registry.\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  gen [packages...]       Write bindings (packages from bind.toml when none given)\n")
		fmt.Fprintf(os.Stderr, "  describe <package>      Print how a package's API would be bound\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  bindgen gen                          # all packages from bind.toml\n")
		fmt.Fprintf(os.Stderr, "  bindgen gen -o ./glue image/color    # single package, ad-hoc\n")
		fmt.Fprintf(os.Stderr, "  bindgen gen -ns Gfx::Color image/color\n")
		fmt.Fprintf(os.Stderr, "  bindgen describe ./examples/geometry\n")
	}
	flag.Parse()

	verbosity := 0
	if *verbose {
		verbosity = 1
	}
	if *debug {
		verbosity = 2
	}
	commonlog.Configure(verbosity, nil)

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	switch args[0] {
	case "gen":
		handleGenCommand(args[1:], *verbose)
	case "describe":
		handleDescribeCommand(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n", args[0])
		flag.Usage()
		os.Exit(2)
	}
}
