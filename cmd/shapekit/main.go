// Package main provides the CLI entrypoint for shapekit.
//
// shapekit holds record shapes declared in a YAML catalog and derives new
// shapes from them:
//   - check validates a catalog and prints its diagnostics
//   - derive runs the catalog's derivations and writes them as YAML
//   - resolve produces the value of a factory slot
//   - import converts the structs of Go packages to shapes
package main

import (
	"fmt"
	"io"
	"os"
)

const appName = "shapekit"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}

	cli := &cli{stdout: stdout, stderr: stderr}

	switch cmd := args[0]; cmd {
	case "check":
		return cli.check(args[1:])
	case "derive":
		return cli.derive(args[1:])
	case "resolve":
		return cli.resolve(args[1:])
	case "import":
		return cli.importPackages(args[1:])
	case "-h", "--help", "help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "%s: unknown command %q\n", appName, cmd)
		usage(stderr)

		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprintf(w, `Usage:
  %[1]s check -catalog FILE                        Validate a catalog.
  %[1]s derive -catalog FILE [-out FILE] [-workers N] [-v]
                                                   Run every derivation, print YAML.
  %[1]s resolve -catalog FILE -factory NAME [args...]
                                                   Resolve a factory slot.
  %[1]s import [-yaml] PATTERN...                  Print the shapes of Go structs.
                                                   Self-referencing structs yield a catalog
                                                   that check and derive reject.

Every command accepts -debug to dump the loaded structures.
`, appName)
}
