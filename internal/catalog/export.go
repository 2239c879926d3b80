package catalog

import (
	"gopkg.in/yaml.v3"

	"shapekit/internal/shape"
)

// Export is the YAML document written for derived shapes.
type Export struct {
	Version string          `yaml:"version"`
	Derived []ExportedShape `yaml:"derived"`
}

// ExportedShape is one derivation result. Fields lists the top level of the
// derived record in catalog form; Shape renders the whole tree.
type ExportedShape struct {
	Name   string     `yaml:"name"`
	Rule   Rule       `yaml:"rule"`
	From   string     `yaml:"from"`
	Shape  string     `yaml:"shape,omitempty"`
	Fields []FieldDef `yaml:"fields,omitempty"`
	// Index maps each discriminant value to its rendered variant.
	Index map[string]string `yaml:"index,omitempty"`
}

// ExportResults converts derivation results to their exported form.
func ExportResults(results []Result) *Export {
	out := &Export{Version: "1", Derived: make([]ExportedShape, 0, len(results))}

	for _, res := range results {
		es := ExportedShape{Name: res.Name, Rule: res.Rule, From: res.From}

		if res.Record != nil {
			es.Shape = shape.Format(res.Record)
			es.Fields = recordDef(res.Record).Fields
		}

		if res.Index != nil {
			es.Index = make(map[string]string, res.Index.Len())
			for value, variant := range res.Index.Map() {
				es.Index[value] = shape.Format(variant)
			}
		}

		out.Derived = append(out.Derived, es)
	}

	return out
}

// ExportYAML renders derivation results as a YAML document.
func ExportYAML(results []Result) ([]byte, error) {
	return yaml.Marshal(ExportResults(results))
}

// FromShapes returns a catalog declaring records and every record and union
// reachable from them, dependencies first. Shapes are identified by name;
// the first shape seen under a name wins.
func FromShapes(records ...*shape.RecordShape) *File {
	e := &shapeExporter{
		file: &File{Version: "1"},
		seen: map[string]bool{},
	}

	for _, r := range records {
		e.record(r)
	}

	return e.file
}

type shapeExporter struct {
	file *File
	seen map[string]bool
}

func (e *shapeExporter) record(r *shape.RecordShape) {
	if r == nil || e.seen[r.Name] {
		return
	}

	e.seen[r.Name] = true

	for _, f := range r.Fields {
		switch f.Kind {
		case shape.FieldRecord:
			e.record(f.Record)
		case shape.FieldUnion:
			e.union(f.Union)
		}
	}

	e.file.Records = append(e.file.Records, recordDef(r))
}

func (e *shapeExporter) union(u *shape.TaggedUnion) {
	if u == nil || e.seen[u.Name] {
		return
	}

	e.seen[u.Name] = true

	ud := UnionDef{Name: u.Name, Discriminant: u.Discriminant}

	for _, v := range u.Variants {
		e.record(v)
		ud.Variants = append(ud.Variants, v.Name)
	}

	e.file.Unions = append(e.file.Unions, ud)
}

func recordDef(r *shape.RecordShape) RecordDef {
	rd := RecordDef{Name: r.Name, Fields: make([]FieldDef, 0, len(r.Fields))}
	for _, f := range r.Fields {
		rd.Fields = append(rd.Fields, fieldDef(f))
	}

	return rd
}

func fieldDef(f shape.FieldShape) FieldDef {
	fd := FieldDef{
		Name:     f.Name,
		Optional: f.Presence.IsOptional(),
		Nullable: f.Presence.IsNullable(),
	}

	switch f.Kind {
	case shape.FieldRecord:
		fd.Record = f.Record.Name
	case shape.FieldUnion:
		fd.Union = f.Union.Name
	default:
		if f.HasLiteral {
			fd.Const = f.Literal
		} else {
			fd.Type = f.Primitive.Name()
		}
	}

	return fd
}
