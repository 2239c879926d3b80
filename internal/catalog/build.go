package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"shapekit/internal/diagnostic"
	"shapekit/internal/factory"
	"shapekit/internal/match"
	"shapekit/internal/shape"
	"shapekit/primitive"
)

const ruleBuild = "build_catalog"

// ErrNotDeclared is returned when a lookup names nothing in the catalog.
var ErrNotDeclared = errors.New("not declared")

// ValidationError carries the diagnostics of a catalog Build refused.
type ValidationError struct {
	Diagnostics *diagnostic.Diagnostics
}

func (e *ValidationError) Error() string {
	return "catalog is invalid: " + e.Diagnostics.Error().Error()
}

// diagnosticKinds maps diagnostic codes onto the shape error taxonomy.
// Codes not listed are shape.ErrInvalidShape.
var diagnosticKinds = map[string]error{
	diagnostic.CodeAmbiguousVariant: shape.ErrAmbiguousVariant,
	diagnostic.CodeUnknownVariant:   shape.ErrVariantNotFound,
	diagnostic.CodeDuplicateField:   shape.ErrDuplicateField,
	diagnostic.CodeDuplicateName:    shape.ErrDuplicateField,
}

// Unwrap returns the shape error kinds of the error diagnostics, so that
// errors.Is(err, shape.ErrAmbiguousVariant) holds for a catalog declaring
// two variants with one discriminant value.
func (e *ValidationError) Unwrap() []error {
	var kinds []error

	seen := map[error]bool{}

	for _, code := range e.Diagnostics.Codes() {
		kind, ok := diagnosticKinds[code]
		if !ok {
			kind = shape.ErrInvalidShape
		}

		if !seen[kind] {
			seen[kind] = true
			kinds = append(kinds, kind)
		}
	}

	return kinds
}

// Catalog holds the shapes and factory slots built from a File.
type Catalog struct {
	file      *File
	cfg       config
	records   map[string]*shape.RecordShape
	unions    map[string]*shape.TaggedUnion
	factories map[string]factory.Slot
}

// Build validates f and constructs every record, union and factory it
// declares. Records and unions are built in dependency order; shapes that
// reference each other in a cycle fail with shape.ErrCyclicShape.
func Build(f *File, opts ...Option) (*Catalog, error) {
	if diags := Validate(f); diags.HasErrors() {
		return nil, &ValidationError{Diagnostics: diags}
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	c := &Catalog{
		file:      f,
		cfg:       cfg,
		records:   make(map[string]*shape.RecordShape, len(f.Records)),
		unions:    make(map[string]*shape.TaggedUnion, len(f.Unions)),
		factories: make(map[string]factory.Slot, len(f.Factories)),
	}

	if err := c.buildShapes(); err != nil {
		return nil, err
	}

	for _, fd := range f.Factories {
		slot, err := buildFactory(fd, cfg.registry)
		if err != nil {
			return nil, fmt.Errorf("factory %s: %w", fd.Name, err)
		}

		c.factories[fd.Name] = slot
	}

	return c, nil
}

// buildShapes numbers records 0..R-1 and unions R..R+U-1 and builds them in
// topological order.
func (c *Catalog) buildShapes() error {
	f := c.file
	nRecords := len(f.Records)

	index := make(map[string]int, nRecords+len(f.Unions))
	for i, r := range f.Records {
		index[r.Name] = i
	}

	for i, u := range f.Unions {
		index[u.Name] = nRecords + i
	}

	deps := func(i int) []int {
		var out []int

		if i < nRecords {
			for _, fd := range f.Records[i].Fields {
				switch {
				case fd.Record != "":
					out = append(out, index[fd.Record])
				case fd.Union != "":
					out = append(out, index[fd.Union])
				}
			}

			return out
		}

		for _, name := range f.Unions[i-nRecords].Variants {
			out = append(out, index[name])
		}

		return out
	}

	order, err := topoSort(nRecords+len(f.Unions), deps)
	if err != nil {
		var cycle *cycleError
		if !errors.As(err, &cycle) {
			return err
		}

		names := make([]string, len(cycle.nodes))
		for i, n := range cycle.nodes {
			names[i] = c.nodeName(n)
		}

		return shape.NewRuleError(ruleBuild, strings.Join(names, ", "), shape.ErrCyclicShape,
			"shapes reference each other")
	}

	for _, n := range order {
		if n < nRecords {
			r, err := c.buildRecord(&f.Records[n])
			if err != nil {
				return err
			}

			c.records[r.Name] = r

			continue
		}

		ud := &f.Unions[n-nRecords]
		variants := make([]*shape.RecordShape, len(ud.Variants))

		for i, name := range ud.Variants {
			variants[i] = c.records[name]
		}

		u, err := shape.NewUnion(ud.Name, ud.Discriminant, variants...)
		if err != nil {
			return err
		}

		c.unions[u.Name] = u
	}

	return nil
}

func (c *Catalog) nodeName(n int) string {
	if n < len(c.file.Records) {
		return c.file.Records[n].Name
	}

	return c.file.Unions[n-len(c.file.Records)].Name
}

func (c *Catalog) buildRecord(rd *RecordDef) (*shape.RecordShape, error) {
	fields := make([]shape.FieldShape, 0, len(rd.Fields))

	for _, fd := range rd.Fields {
		var f shape.FieldShape

		switch {
		case fd.Type != "":
			kind, _ := primitive.Parse(fd.Type)
			f = shape.Prim(fd.Name, kind)
		case fd.Record != "":
			f = shape.Nested(fd.Name, c.records[fd.Record])
		case fd.Union != "":
			f = shape.OneOf(fd.Name, c.unions[fd.Union])
		default:
			f = shape.Const(fd.Name, fd.Const)
		}

		if fd.Optional {
			f = f.Optional()
		}

		if fd.Nullable {
			f = f.Nullable()
		}

		fields = append(fields, f)
	}

	return shape.NewRecord(rd.Name, fields...)
}

func buildFactory(fd FactoryDef, registry *factory.FunctionRegistry) (factory.Slot, error) {
	params := make([]factory.Param, len(fd.Params))
	for i, p := range fd.Params {
		kind, _ := primitive.Parse(p.Type)
		params[i] = factory.Param{Name: p.Name, Kind: kind}
	}

	result, _ := primitive.Parse(fd.Result)
	sig := factory.NewSignature(result, params...)

	var (
		slot factory.Slot
		err  error
	)

	opts := []factory.CompileOption{factory.WithRegistry(registry)}

	switch {
	case fd.Value != nil:
		var value any

		value, err = literalValue(result, fd.Value)
		if err == nil {
			slot, err = factory.Literal(sig, value)
		}
	case fd.Expr != "":
		slot, err = factory.Compile(factory.EngineExpr, sig, fd.Expr, opts...)
	case fd.CEL != "":
		slot, err = factory.Compile(factory.EngineCEL, sig, fd.CEL, opts...)
	default:
		slot, err = factory.Compile(factory.EngineJS, sig, fd.JS, opts...)
	}

	if err != nil {
		return factory.Slot{}, err
	}

	return slot.Named(fd.Name), nil
}

// literalValue converts YAML scalars the decoder leaves as strings.
func literalValue(kind primitive.Kind, v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return v, nil
	}

	switch kind {
	case primitive.KindTime:
		return time.Parse(time.RFC3339, s)
	case primitive.KindDuration:
		return time.ParseDuration(s)
	default:
		return v, nil
	}
}

// File returns the catalog the shapes were built from.
func (c *Catalog) File() *File { return c.file }

// Record returns the record declared as name.
func (c *Catalog) Record(name string) (*shape.RecordShape, bool) {
	r, ok := c.records[name]
	return r, ok
}

// Union returns the union declared as name.
func (c *Catalog) Union(name string) (*shape.TaggedUnion, bool) {
	u, ok := c.unions[name]
	return u, ok
}

// Factory returns the slot declared as name.
func (c *Catalog) Factory(name string) (factory.Slot, bool) {
	s, ok := c.factories[name]
	return s, ok
}

// Names returns record then union names in declaration order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.file.Records)+len(c.file.Unions))
	for _, r := range c.file.Records {
		names = append(names, r.Name)
	}

	for _, u := range c.file.Unions {
		names = append(names, u.Name)
	}

	return names
}

// FactoryNames returns factory names in declaration order.
func (c *Catalog) FactoryNames() []string {
	names := make([]string, 0, len(c.file.Factories))
	for _, fd := range c.file.Factories {
		names = append(names, fd.Name)
	}

	return names
}

// Resolve resolves the factory slot declared as name with args.
func (c *Catalog) Resolve(name string, args ...any) (any, error) {
	slot, ok := c.factories[name]
	if !ok {
		err := fmt.Errorf("catalog: factory %q %w", name, ErrNotDeclared)
		if s := match.Suggest(name, c.FactoryNames(), 1); len(s) > 0 {
			err = fmt.Errorf("%w (did you mean %q?)", err, s[0])
		}

		return nil, err
	}

	return factory.Resolve(slot, args...)
}
