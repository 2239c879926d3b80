package shape

import (
	"shapekit/internal/common"
	"shapekit/optional"
	"shapekit/primitive"
)

// FieldKind represents the kind of slot a field describes.
type FieldKind int

const (
	FieldUnknown   FieldKind = iota
	FieldPrimitive           // string, int, bool, etc.
	FieldRecord              // nested record shape
	FieldUnion               // tagged union of record shapes
)

// String returns a human-readable representation of the FieldKind.
func (k FieldKind) String() string {
	switch k {
	case FieldPrimitive:
		return "primitive"
	case FieldRecord:
		return "record"
	case FieldUnion:
		return "union"
	default:
		return common.UnknownStr
	}
}

// Presence tells which non-value states a field admits.
// The zero Presence is required.
type Presence uint8

const (
	PresenceRequired Presence = 0
	PresenceOptional Presence = 1 << 0 // the field may be absent
	PresenceNullable Presence = 1 << 1 // the field may be explicitly null
)

func (p Presence) IsOptional() bool { return p&PresenceOptional != 0 }

func (p Presence) IsNullable() bool { return p&PresenceNullable != 0 }

// With returns p widened by other.
func (p Presence) With(other Presence) Presence { return p | other }

// Admits reports whether a value in state s may fill a field with presence p.
func (p Presence) Admits(s optional.State) bool {
	switch s {
	case optional.Present:
		return true
	case optional.Null:
		return p.IsNullable()
	case optional.Absent:
		return p.IsOptional()
	default:
		return false
	}
}

// String returns a human-readable representation of the Presence.
func (p Presence) String() string {
	switch p {
	case PresenceRequired:
		return "required"
	case PresenceOptional:
		return "optional"
	case PresenceNullable:
		return "nullable"
	case PresenceOptional | PresenceNullable:
		return "optional|nullable"
	default:
		return common.UnknownStr
	}
}

// Type describes what a slot holds. Exactly one of Primitive, Record or
// Union is meaningful, selected by Kind.
type Type struct {
	Kind       FieldKind
	Primitive  primitive.Kind // for FieldPrimitive
	Literal    string         // constant value, only when HasLiteral
	HasLiteral bool           // the primitive is pinned to Literal (discriminants)
	Record     *RecordShape   // for FieldRecord
	Union      *TaggedUnion   // for FieldUnion
	Presence   Presence
}

// FieldShape is a named slot of a record.
type FieldShape struct {
	Name string
	Type
}

// Optional returns a copy of f that may be absent.
func (f FieldShape) Optional() FieldShape {
	f.Presence = f.Presence.With(PresenceOptional)
	return f
}

// Nullable returns a copy of f that may be explicitly null.
func (f FieldShape) Nullable() FieldShape {
	f.Presence = f.Presence.With(PresenceNullable)
	return f
}

// RecordShape is an ordered list of uniquely named fields.
type RecordShape struct {
	Name   string
	Fields []FieldShape
}

// Field returns the field called name.
func (r *RecordShape) Field(name string) (FieldShape, bool) {
	if r == nil {
		return FieldShape{}, false
	}

	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}

	return FieldShape{}, false
}

// FieldNames returns the field names in declaration order.
func (r *RecordShape) FieldNames() []string {
	if r == nil {
		return nil
	}

	names := make([]string, len(r.Fields))
	for i := range r.Fields {
		names[i] = r.Fields[i].Name
	}

	return names
}

// Literal returns the constant held by field name, if the field is a literal.
func (r *RecordShape) Literal(name string) (string, bool) {
	f, ok := r.Field(name)
	if !ok || f.Kind != FieldPrimitive || !f.HasLiteral {
		return "", false
	}

	return f.Literal, true
}

// TaggedUnion is a set of record variants sharing the Discriminant field,
// each pinning it to a distinct literal.
type TaggedUnion struct {
	Name         string
	Discriminant string
	Variants     []*RecordShape
}

// Values returns the discriminant literal of every variant, in variant
// order. Variants lacking the literal contribute an empty string.
func (u *TaggedUnion) Values() []string {
	if u == nil {
		return nil
	}

	values := make([]string, len(u.Variants))
	for i, v := range u.Variants {
		values[i], _ = v.Literal(u.Discriminant)
	}

	return values
}
