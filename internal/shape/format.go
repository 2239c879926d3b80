package shape

import (
	"sort"
	"strconv"
	"strings"
)

// TypePath builds a readable path to a field inside a shape.
// Examples:
//   - "Person.firstName"
//   - "Person.contacts.primary"
//   - "Person.fiscalId<usa>.ssn" for a field of the "usa" variant
type TypePath struct {
	parts []string
}

// NewTypePath creates a new TypePath from a root shape name.
func NewTypePath(root string) *TypePath {
	return &TypePath{parts: []string{root}}
}

// Field appends a field name to the path.
func (p *TypePath) Field(name string) *TypePath {
	return &TypePath{parts: append(append([]string{}, p.parts...), name)}
}

// Variant marks the last element as narrowed to the variant value.
func (p *TypePath) Variant(value string) *TypePath {
	parts := append([]string{}, p.parts...)
	if len(parts) == 0 {
		parts = []string{""}
	}

	parts[len(parts)-1] += "<" + value + ">"

	return &TypePath{parts: parts}
}

// String returns the full path string.
func (p *TypePath) String() string {
	return strings.Join(p.parts, ".")
}

// Paths walks r and returns every field keyed by its path, descending into
// records and union variants up to maxDepth levels. A record already on the
// current walk is not entered again.
func Paths(r *RecordShape, maxDepth int) map[string]FieldShape {
	result := make(map[string]FieldShape)
	if r == nil {
		return result
	}

	root := r.Name
	if root == "" {
		root = "root"
	}

	walkPaths(r, NewTypePath(root), result, 0, maxDepth, map[*RecordShape]bool{})

	return result
}

func walkPaths(r *RecordShape, path *TypePath, result map[string]FieldShape, depth, maxDepth int, onPath map[*RecordShape]bool) {
	if r == nil || depth > maxDepth || onPath[r] {
		return
	}

	onPath[r] = true
	defer delete(onPath, r)

	for _, f := range r.Fields {
		fp := path.Field(f.Name)
		result[fp.String()] = f

		switch f.Kind {
		case FieldRecord:
			walkPaths(f.Record, fp, result, depth+1, maxDepth, onPath)
		case FieldUnion:
			if f.Union == nil {
				continue
			}

			values := f.Union.Values()
			for i, v := range f.Union.Variants {
				walkPaths(v, fp.Variant(values[i]), result, depth+1, maxDepth, onPath)
			}
		case FieldPrimitive, FieldUnknown:
			// Terminal
		}
	}
}

// SortedPaths returns the keys of Paths(r, maxDepth) in lexical order.
func SortedPaths(r *RecordShape, maxDepth int) []string {
	paths := Paths(r, maxDepth)

	keys := make([]string, 0, len(paths))
	for k := range paths {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// Format renders r in a compact TypeScript-like notation:
//
//	{ a?: string, b?: { c?: int }, kind: "usa", note: string | null }
//
// A record met again while it is being rendered prints as its name.
func Format(r *RecordShape) string {
	var b strings.Builder

	formatRecord(&b, r, map[*RecordShape]bool{})

	return b.String()
}

// String renders a single type descriptor, presence included.
func (t Type) String() string {
	var b strings.Builder

	formatType(&b, t, map[*RecordShape]bool{})

	return b.String()
}

func formatRecord(b *strings.Builder, r *RecordShape, onPath map[*RecordShape]bool) {
	if r == nil {
		b.WriteString("<nil>")
		return
	}

	if onPath[r] {
		b.WriteString(r.Name)
		return
	}

	onPath[r] = true
	defer delete(onPath, r)

	if len(r.Fields) == 0 {
		b.WriteString("{}")
		return
	}

	b.WriteString("{ ")

	for i, f := range r.Fields {
		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteString(f.Name)

		if f.Presence.IsOptional() {
			b.WriteString("?")
		}

		b.WriteString(": ")
		formatType(b, f.Type, onPath)
	}

	b.WriteString(" }")
}

func formatType(b *strings.Builder, t Type, onPath map[*RecordShape]bool) {
	switch t.Kind {
	case FieldPrimitive:
		if t.HasLiteral {
			b.WriteString(strconv.Quote(t.Literal))
		} else {
			b.WriteString(t.Primitive.Name())
		}
	case FieldRecord:
		formatRecord(b, t.Record, onPath)
	case FieldUnion:
		if t.Union == nil {
			b.WriteString("<nil>")
			break
		}

		for i, v := range t.Union.Variants {
			if i > 0 {
				b.WriteString(" | ")
			}

			formatRecord(b, v, onPath)
		}
	default:
		b.WriteString(t.Kind.String())
	}

	if t.Presence.IsNullable() {
		b.WriteString(" | null")
	}
}
