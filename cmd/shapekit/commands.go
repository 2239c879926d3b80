package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/davecgh/go-spew/spew"

	"shapekit/internal/analyze"
	"shapekit/internal/catalog"
	"shapekit/internal/diagnostic"
	"shapekit/internal/factory"
	"shapekit/internal/shape"
	"shapekit/primitive"
)

type cli struct {
	stdout io.Writer
	stderr io.Writer
	debug  bool
}

func (c *cli) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	fs.BoolVar(&c.debug, "debug", false, "dump loaded structures")

	return fs
}

func (c *cli) dump(v ...any) {
	if c.debug {
		cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, MaxDepth: 6}
		cfg.Fdump(c.stderr, v...)
	}
}

func (c *cli) fail(err error) int {
	fmt.Fprintf(c.stderr, "error: %v\n", err)
	return 1
}

func (c *cli) load(path string) (*catalog.File, int) {
	if path == "" {
		fmt.Fprintf(c.stderr, "%s: -catalog is required\n", appName)
		return nil, 2
	}

	f, err := catalog.LoadFile(path)
	if err != nil {
		return nil, c.fail(err)
	}

	c.dump(f)

	return f, 0
}

func (c *cli) printDiagnostics(diags *diagnostic.Diagnostics) {
	for _, d := range diags.All() {
		fmt.Fprintf(c.stderr, "%s: %s\n", d.Severity, d)
	}
}

func (c *cli) check(args []string) int {
	fs := c.flagSet("check")
	path := fs.String("catalog", "", "catalog YAML file")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	f, code := c.load(*path)
	if f == nil {
		return code
	}

	diags := catalog.Validate(f)
	c.printDiagnostics(diags)

	if diags.HasErrors() {
		return 1
	}

	// shapes that validate can still form cycles
	if _, err := catalog.Build(f); err != nil {
		return c.fail(err)
	}

	fmt.Fprintf(c.stdout, "ok: %d record(s), %d union(s), %d factory(ies), %d derivation(s)\n",
		len(f.Records), len(f.Unions), len(f.Factories), len(f.Derive))

	return 0
}

func (c *cli) derive(args []string) int {
	fs := c.flagSet("derive")
	path := fs.String("catalog", "", "catalog YAML file")
	out := fs.String("out", "", "write YAML here instead of stdout")
	workers := fs.Int("workers", 0, "derivations run at once (default GOMAXPROCS)")
	verbose := fs.Bool("v", false, "log every derivation")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	f, code := c.load(*path)
	if f == nil {
		return code
	}

	opts := []catalog.Option{}
	if *workers > 0 {
		opts = append(opts, catalog.WithWorkers(*workers))
	}

	if *verbose {
		logger := log.New(c.stderr, appName+": ", 0)
		opts = append(opts, catalog.WithLogger(catalog.LoggerFunc(func(e catalog.DeriveEvent) {
			if e.Err != nil {
				logger.Printf("derive %s (%s of %s) failed after %s: %v", e.Name, e.Rule, e.From, e.Duration, e.Err)
				return
			}

			logger.Printf("derive %s (%s of %s) in %s", e.Name, e.Rule, e.From, e.Duration)
		})))
	}

	cat, err := catalog.Build(f, opts...)
	if err != nil {
		return c.fail(err)
	}

	results, err := cat.Derive(context.Background())
	if err != nil {
		return c.fail(err)
	}

	c.dump(results)

	data, err := catalog.ExportYAML(results)
	if err != nil {
		return c.fail(err)
	}

	if *out == "" {
		_, _ = c.stdout.Write(data)
		return 0
	}

	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return c.fail(err)
	}

	return 0
}

func (c *cli) resolve(args []string) int {
	fs := c.flagSet("resolve")
	path := fs.String("catalog", "", "catalog YAML file")
	name := fs.String("factory", "", "factory to resolve")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *name == "" {
		fmt.Fprintf(c.stderr, "%s: -factory is required\n", appName)
		return 2
	}

	f, code := c.load(*path)
	if f == nil {
		return code
	}

	cat, err := catalog.Build(f)
	if err != nil {
		return c.fail(err)
	}

	values := fs.Args()

	var params []factory.Param
	if slot, ok := cat.Factory(*name); ok {
		params = slot.Signature().Params
	}

	in := make([]any, len(values))

	for i, raw := range values {
		kind := primitive.KindString
		if i < len(params) {
			kind = params[i].Kind
		}

		v, err := parseArg(kind, raw)
		if err != nil {
			return c.fail(fmt.Errorf("argument %d: %w", i+1, err))
		}

		in[i] = v
	}

	result, err := cat.Resolve(*name, in...)
	if err != nil {
		return c.fail(err)
	}

	c.dump(result)
	fmt.Fprintln(c.stdout, result)

	return 0
}

// parseArg converts a command-line argument to the Go type kind expects.
func parseArg(kind primitive.Kind, raw string) (any, error) {
	switch kind {
	case primitive.KindInt:
		return strconv.Atoi(raw)
	case primitive.KindFloat:
		return strconv.ParseFloat(raw, 64)
	case primitive.KindBool:
		return strconv.ParseBool(raw)
	case primitive.KindTime:
		return time.Parse(time.RFC3339, raw)
	case primitive.KindDuration:
		return time.ParseDuration(raw)
	default:
		return raw, nil
	}
}

func (c *cli) importPackages(args []string) int {
	fs := c.flagSet("import")
	asYAML := fs.Bool("yaml", false, "print a catalog instead of one shape per line")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if fs.NArg() == 0 {
		fmt.Fprintf(c.stderr, "%s: import needs at least one package pattern\n", appName)
		return 2
	}

	records, err := analyze.NewAnalyzer().LoadPackages(fs.Args()...)
	if err != nil {
		return c.fail(err)
	}

	c.dump(records)

	if !*asYAML {
		for _, r := range records {
			fmt.Fprintf(c.stdout, "%s %s\n", r.Name, shape.Format(r))
		}

		return 0
	}

	f := catalog.FromShapes(records...)

	data, err := catalog.Marshal(f)
	if err != nil {
		return c.fail(err)
	}

	_, _ = c.stdout.Write(data)

	// self-referencing structs import fine but cannot be declared in a catalog
	if _, err := catalog.Build(f); errors.Is(err, shape.ErrCyclicShape) {
		fmt.Fprintf(c.stderr, "warning: %v; check and derive will reject this catalog\n", err)
	}

	return 0
}
