package catalog

import (
	"fmt"
	"strings"

	"shapekit/internal/diagnostic"
	"shapekit/internal/match"
	"shapekit/primitive"
)

const maxSuggestions = 3

// Validate checks a catalog structurally: names, references, primitive
// types, union discriminants and rule parameters. Build refuses a catalog
// with any error diagnostic. Reference cycles are only found by Build.
func Validate(f *File) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError("catalog_is_nil", "catalog is nil", "", "")
		return res
	}

	if f.Version != "1" {
		res.AddError(diagnostic.CodeUnknownVersion, fmt.Sprintf("unsupported catalog version %q", f.Version), "", "")
	}

	v := newValidator(f, res)
	v.checkNames()

	for i := range f.Records {
		v.checkRecord(&f.Records[i])
	}

	for i := range f.Unions {
		v.checkUnion(&f.Unions[i])
	}

	for i := range f.Factories {
		v.checkFactory(&f.Factories[i])
	}

	for i := range f.Derive {
		v.checkDerive(&f.Derive[i])
	}

	v.checkUnused()

	return res
}

type validator struct {
	file    *File
	res     *diagnostic.Diagnostics
	records map[string]*RecordDef
	unions  map[string]*UnionDef
	used    map[string]bool
}

func newValidator(f *File, res *diagnostic.Diagnostics) *validator {
	v := &validator{
		file:    f,
		res:     res,
		records: map[string]*RecordDef{},
		unions:  map[string]*UnionDef{},
		used:    map[string]bool{},
	}

	for i := range f.Records {
		if _, dup := v.records[f.Records[i].Name]; !dup {
			v.records[f.Records[i].Name] = &f.Records[i]
		}
	}

	for i := range f.Unions {
		if _, dup := v.unions[f.Unions[i].Name]; !dup {
			v.unions[f.Unions[i].Name] = &f.Unions[i]
		}
	}

	return v
}

// checkNames reports empty and duplicate names. Records, unions and
// derivations share one namespace, factories have their own.
func (v *validator) checkNames() {
	shapes := map[string]string{}

	declare := func(kind, name string) {
		subject := kind + " " + name
		if name == "" {
			v.res.AddError(diagnostic.CodeMissingValue, kind+" has no name", "", "")
			return
		}

		if prev, dup := shapes[name]; dup {
			v.res.AddError(diagnostic.CodeDuplicateName,
				fmt.Sprintf("%q already declared as %s", name, prev), subject, "")

			return
		}

		shapes[name] = kind
	}

	for _, r := range v.file.Records {
		declare("record", r.Name)
	}

	for _, u := range v.file.Unions {
		declare("union", u.Name)
	}

	for _, d := range v.file.Derive {
		declare("derive", d.Name)
	}

	factories := map[string]bool{}

	for _, fd := range v.file.Factories {
		switch {
		case fd.Name == "":
			v.res.AddError(diagnostic.CodeMissingValue, "factory has no name", "", "")
		case factories[fd.Name]:
			v.res.AddError(diagnostic.CodeDuplicateName,
				fmt.Sprintf("factory %q declared twice", fd.Name), "factory "+fd.Name, "")
		default:
			factories[fd.Name] = true
		}
	}
}

func (v *validator) checkRecord(r *RecordDef) {
	subject := "record " + r.Name
	seen := map[string]bool{}

	for _, fd := range r.Fields {
		if fd.Name == "" {
			v.res.AddError(diagnostic.CodeMissingValue, "field has no name", subject, "")
			continue
		}

		if seen[fd.Name] {
			v.res.AddError(diagnostic.CodeDuplicateField, fmt.Sprintf("field %q declared twice", fd.Name), subject, fd.Name)
			continue
		}

		seen[fd.Name] = true

		set := fd.sources()
		if len(set) != 1 {
			v.res.AddError(diagnostic.CodeFieldKind,
				fmt.Sprintf("field must declare exactly one of type, record, union or const, got [%s]", strings.Join(set, ", ")),
				subject, fd.Name)

			continue
		}

		switch {
		case fd.Type != "":
			v.checkPrimitive(fd.Type, subject, fd.Name)
		case fd.Record != "":
			v.used[fd.Record] = true
			v.checkRef(fd.Record, "record", v.recordNames(), subject, fd.Name)
		case fd.Union != "":
			v.used[fd.Union] = true
			v.checkRef(fd.Union, "union", v.unionNames(), subject, fd.Name)
		}
	}
}

func (v *validator) checkUnion(u *UnionDef) {
	subject := "union " + u.Name

	if u.Discriminant == "" {
		v.res.AddError(diagnostic.CodeMissingValue, "union has no discriminant", subject, "")
	}

	if u.Variants.IsEmpty() {
		v.res.AddError(diagnostic.CodeMissingValue, "union has no variants", subject, "")
		return
	}

	owners := map[string]string{}

	for _, name := range u.Variants {
		v.used[name] = true

		r, ok := v.records[name]
		if !ok {
			v.checkRef(name, "record", v.recordNames(), subject, "variants")
			continue
		}

		if u.Discriminant == "" {
			continue
		}

		literal := ""

		for _, fd := range r.Fields {
			if fd.Name == u.Discriminant {
				literal = fd.Const
			}
		}

		if literal == "" {
			v.res.AddError(diagnostic.CodeUnknownVariant,
				fmt.Sprintf("variant %s has no const %q field", name, u.Discriminant), subject, name)

			continue
		}

		if prev, dup := owners[literal]; dup {
			v.res.AddError(diagnostic.CodeAmbiguousVariant,
				fmt.Sprintf("variants %s and %s both use %s %q", prev, name, u.Discriminant, literal), subject, name)

			continue
		}

		owners[literal] = name
	}
}

func (v *validator) checkFactory(fd *FactoryDef) {
	subject := "factory " + fd.Name

	if set := fd.sources(); len(set) != 1 {
		v.res.AddError(diagnostic.CodeFactorySource,
			fmt.Sprintf("factory must declare exactly one of value, expr, cel or js, got [%s]", strings.Join(set, ", ")),
			subject, "")
	}

	v.checkPrimitive(fd.Result, subject, "result")

	seen := map[string]bool{}

	for _, p := range fd.Params {
		if seen[p.Name] {
			v.res.AddError(diagnostic.CodeDuplicateField, fmt.Sprintf("parameter %q declared twice", p.Name), subject, p.Name)
		}

		seen[p.Name] = true
		v.checkPrimitive(p.Type, subject, p.Name)
	}
}

func (v *validator) checkDerive(d *DeriveDef) {
	subject := "derive " + d.Name

	if !d.Rule.IsValid() {
		names := make([]string, 0, len(Rules()))
		for _, r := range Rules() {
			names = append(names, string(r))
		}

		v.res.AddError(diagnostic.CodeUnknownRule, fmt.Sprintf("unknown rule %q", d.Rule), subject, "rule",
			match.Suggest(string(d.Rule), names, maxSuggestions)...)

		return
	}

	v.used[d.From] = true

	if d.Rule.onUnion() {
		if !v.checkRef(d.From, "union", v.unionNames(), subject, "from") {
			return
		}

		u := v.unions[d.From]
		if d.Discriminant != "" && d.Discriminant != u.Discriminant {
			v.res.AddError(diagnostic.CodeUnknownVariant,
				fmt.Sprintf("union %s is discriminated by %q, not %q", u.Name, u.Discriminant, d.Discriminant),
				subject, "discriminant", u.Discriminant)
		}

		if d.Rule == RuleFind {
			v.checkFindValue(d, u, subject)
		}

		return
	}

	if !v.checkRef(d.From, "record", v.recordNames(), subject, "from") {
		return
	}

	if d.Rule != RuleWiden {
		return
	}

	if d.Field == "" {
		v.res.AddError(diagnostic.CodeMissingValue, "widen needs a field", subject, "field")
		return
	}

	var fields []string
	for _, fd := range v.records[d.From].Fields {
		fields = append(fields, fd.Name)
	}

	v.checkRef(d.Field, "field", fields, subject, "field")
}

func (v *validator) checkFindValue(d *DeriveDef, u *UnionDef, subject string) {
	if d.Value == "" {
		v.res.AddError(diagnostic.CodeMissingValue, "find needs a value", subject, "value")
		return
	}

	var values []string

	for _, name := range u.Variants {
		r, ok := v.records[name]
		if !ok {
			return
		}

		for _, fd := range r.Fields {
			if fd.Name == u.Discriminant && fd.Const != "" {
				values = append(values, fd.Const)
			}
		}
	}

	for _, value := range values {
		if value == d.Value {
			return
		}
	}

	v.res.AddError(diagnostic.CodeUnknownVariant,
		fmt.Sprintf("no variant of %s has %s %q", u.Name, u.Discriminant, d.Value), subject, "value",
		match.Suggest(d.Value, values, maxSuggestions)...)
}

// checkUnused warns about records and unions nothing refers to. Records that
// are roots of a derivation count as used.
func (v *validator) checkUnused() {
	for _, r := range v.file.Records {
		if r.Name != "" && !v.used[r.Name] {
			v.res.AddWarning(diagnostic.CodeUnusedShape, "record is never referenced", "record "+r.Name, "")
		}
	}

	for _, u := range v.file.Unions {
		if u.Name != "" && !v.used[u.Name] {
			v.res.AddWarning(diagnostic.CodeUnusedShape, "union is never referenced", "union "+u.Name, "")
		}
	}
}

func (v *validator) checkPrimitive(name, subject, field string) {
	if _, ok := primitive.Parse(name); ok {
		return
	}

	v.res.AddError(diagnostic.CodeUnknownType, fmt.Sprintf("unknown type %q", name), subject, field,
		match.Suggest(name, primitive.Names(), maxSuggestions)...)
}

func (v *validator) checkRef(name, kind string, known []string, subject, field string) bool {
	for _, k := range known {
		if k == name {
			return true
		}
	}

	v.res.AddError(diagnostic.CodeUnknownReference, fmt.Sprintf("%s %q is not declared", kind, name), subject, field,
		match.Suggest(name, known, maxSuggestions)...)

	return false
}

func (v *validator) recordNames() []string {
	names := make([]string, 0, len(v.file.Records))
	for _, r := range v.file.Records {
		names = append(names, r.Name)
	}

	return names
}

func (v *validator) unionNames() []string {
	names := make([]string, 0, len(v.file.Unions))
	for _, u := range v.file.Unions {
		names = append(names, u.Name)
	}

	return names
}
