package analyze

import (
	"fmt"
	"go/types"
	"reflect"

	"golang.org/x/tools/go/packages"

	"shapekit/internal/shape"
	"shapekit/primitive"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Analyzer loads Go packages and converts their struct types to shapes.
type Analyzer struct {
	pkgs    map[string]*packages.Package
	records map[*types.TypeName]*shape.RecordShape
	unions  map[*types.TypeName]*shape.TaggedUnion
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		pkgs:    make(map[string]*packages.Package),
		records: make(map[*types.TypeName]*shape.RecordShape),
		unions:  make(map[*types.TypeName]*shape.TaggedUnion),
	}
}

// LoadPackages loads the specified packages and returns a record shape for
// every exported struct type they declare, per package in name order.
// Patterns are standard Go package patterns (e.g., "./people", "shapekit/people").
func (a *Analyzer) LoadPackages(patterns ...string) ([]*shape.RecordShape, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	var records []*shape.RecordShape

	for _, pkg := range pkgs {
		a.pkgs[pkg.PkgPath] = pkg

		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			typeName, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || !typeName.Exported() || !isStruct(typeName.Type()) {
				continue
			}

			r, err := a.record(typeName)
			if err != nil {
				return nil, fmt.Errorf("failed to convert %s: %w", TypeID{PkgPath: pkg.PkgPath, Name: name}, err)
			}

			records = append(records, r)
		}
	}

	return records, nil
}

// Record returns the shape of a struct from an already loaded package.
func (a *Analyzer) Record(pkgPath, typeName string) (*shape.RecordShape, error) {
	id := TypeID{PkgPath: pkgPath, Name: typeName}

	pkg, ok := a.pkgs[pkgPath]
	if !ok {
		return nil, fmt.Errorf("package of %s not loaded", id)
	}

	tn, ok := pkg.Types.Scope().Lookup(typeName).(*types.TypeName)
	if !ok {
		return nil, fmt.Errorf("type %s not found", id)
	}

	if !isStruct(tn.Type()) {
		return nil, fmt.Errorf("type %s is not a struct", id)
	}

	return a.record(tn)
}

// record converts a named struct. The result is cached before its fields
// are converted so self-references close into a cycle.
func (a *Analyzer) record(tn *types.TypeName) (*shape.RecordShape, error) {
	if r, ok := a.records[tn]; ok {
		return r, nil
	}

	st := tn.Type().Underlying().(*types.Struct)
	out := &shape.RecordShape{Name: tn.Name()}
	a.records[tn] = out

	fields := make([]shape.FieldShape, 0, st.NumFields())

	for i := range st.NumFields() {
		field := st.Field(i)
		if !field.Exported() {
			continue
		}

		tag, err := ParseFieldTag(field.Name(), reflect.StructTag(st.Tag(i)))
		if err != nil {
			delete(a.records, tn)
			return nil, err
		}

		if tag.Skip {
			continue
		}

		fs, err := a.field(tn, field, tag)
		if err != nil {
			delete(a.records, tn)
			return nil, err
		}

		fields = append(fields, fs)
	}

	built, err := shape.NewRecord(out.Name, fields...)
	if err != nil {
		delete(a.records, tn)
		return nil, err
	}

	*out = *built

	return out, nil
}

func (a *Analyzer) field(owner *types.TypeName, field *types.Var, tag FieldTag) (shape.FieldShape, error) {
	t := field.Type()
	presence := shape.PresenceRequired

	if tag.Optional {
		presence = presence.With(shape.PresenceOptional)
	}

	if tag.Nullable {
		presence = presence.With(shape.PresenceNullable)
	}

	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
		presence = presence.With(shape.PresenceOptional | shape.PresenceNullable)
	}

	var fs shape.FieldShape

	switch {
	case tag.Union != "":
		u, err := a.union(owner, field, t, tag)
		if err != nil {
			return fs, err
		}

		fs = shape.OneOf(tag.Name, u)

	case tag.Const != "":
		if primitive.FromGoType(t) != primitive.KindString {
			return fs, fmt.Errorf("%s.%s: const needs a string field, got %s: %w",
				owner.Name(), field.Name(), t, shape.ErrInvalidShape)
		}

		fs = shape.Const(tag.Name, tag.Const)

	default:
		if kind := primitive.FromGoType(t); kind.IsValid() {
			fs = shape.Prim(tag.Name, kind)
			break
		}

		named, ok := t.(*types.Named)
		if !ok || !isStruct(named) {
			return fs, fmt.Errorf("%s.%s: unsupported type %s: %w",
				owner.Name(), field.Name(), t, shape.ErrInvalidShape)
		}

		r, err := a.record(named.Obj())
		if err != nil {
			return fs, err
		}

		fs = shape.Nested(tag.Name, r)
	}

	fs.Presence = fs.Presence.With(presence)

	return fs, nil
}

// union builds the tagged union of an interface field from the variant
// structs declared next to the owner. Fields sharing a named interface
// share the union.
func (a *Analyzer) union(owner *types.TypeName, field *types.Var, t types.Type, tag FieldTag) (*shape.TaggedUnion, error) {
	named, _ := t.(*types.Named)
	if named != nil {
		if u, ok := a.unions[named.Obj()]; ok {
			return u, nil
		}
	}

	iface, ok := t.Underlying().(*types.Interface)
	if !ok {
		return nil, fmt.Errorf("%s.%s: union field must be an interface, got %s: %w",
			owner.Name(), field.Name(), t, shape.ErrInvalidShape)
	}

	if len(tag.Variants) == 0 {
		return nil, fmt.Errorf("%s.%s: union field lists no variants: %w",
			owner.Name(), field.Name(), shape.ErrInvalidShape)
	}

	name := field.Name()
	if named != nil {
		name = named.Obj().Name()
	}

	variants := make([]*shape.RecordShape, 0, len(tag.Variants))

	for _, v := range tag.Variants {
		tn, ok := owner.Pkg().Scope().Lookup(v).(*types.TypeName)
		if !ok || !isStruct(tn.Type()) {
			return nil, fmt.Errorf("%s.%s: variant %s is not a struct of package %s: %w",
				owner.Name(), field.Name(), v, owner.Pkg().Path(), shape.ErrInvalidShape)
		}

		if !types.Implements(tn.Type(), iface) && !types.Implements(types.NewPointer(tn.Type()), iface) {
			return nil, fmt.Errorf("%s.%s: variant %s does not implement %s: %w",
				owner.Name(), field.Name(), v, t, shape.ErrInvalidShape)
		}

		r, err := a.record(tn)
		if err != nil {
			return nil, err
		}

		variants = append(variants, r)
	}

	u, err := shape.NewUnion(name, tag.Union, variants...)
	if err != nil {
		return nil, err
	}

	if named != nil {
		a.unions[named.Obj()] = u
	}

	return u, nil
}

func isStruct(t types.Type) bool {
	_, ok := t.Underlying().(*types.Struct)
	return ok
}
