package shape

import (
	"strconv"

	"shapekit/primitive"
)

const ruleConstruct = "construct"

// Prim returns a required primitive field.
func Prim(name string, kind primitive.Kind) FieldShape {
	return FieldShape{Name: name, Type: Type{Kind: FieldPrimitive, Primitive: kind}}
}

// Const returns a required string field pinned to value, the usual shape
// of a discriminant.
func Const(name, value string) FieldShape {
	return FieldShape{Name: name, Type: Type{
		Kind:       FieldPrimitive,
		Primitive:  primitive.KindString,
		Literal:    value,
		HasLiteral: true,
	}}
}

// Nested returns a required field holding the record r.
func Nested(name string, r *RecordShape) FieldShape {
	return FieldShape{Name: name, Type: Type{Kind: FieldRecord, Record: r}}
}

// OneOf returns a required field holding one variant of u.
func OneOf(name string, u *TaggedUnion) FieldShape {
	return FieldShape{Name: name, Type: Type{Kind: FieldUnion, Union: u}}
}

// NewRecord validates fields and returns the record shape holding a copy of
// them.
func NewRecord(name string, fields ...FieldShape) (*RecordShape, error) {
	seen := make(map[string]struct{}, len(fields))

	for i := range fields {
		f := &fields[i]
		if f.Name == "" {
			return nil, NewRuleError(ruleConstruct, name, ErrInvalidShape, "field #%d has no name", i)
		}

		if _, dup := seen[f.Name]; dup {
			return nil, NewRuleError(ruleConstruct, name, ErrDuplicateField, "field %q declared twice", f.Name)
		}

		seen[f.Name] = struct{}{}

		if err := checkType(name, f); err != nil {
			return nil, err
		}
	}

	return &RecordShape{Name: name, Fields: append([]FieldShape(nil), fields...)}, nil
}

func checkType(record string, f *FieldShape) error {
	switch f.Kind {
	case FieldPrimitive:
		if !f.Primitive.IsValid() {
			return NewRuleError(ruleConstruct, record, ErrInvalidShape,
				"field %q has invalid primitive kind %s", f.Name, f.Primitive)
		}
	case FieldRecord:
		if f.Record == nil {
			return NewRuleError(ruleConstruct, record, ErrInvalidShape, "record field %q has no shape", f.Name)
		}
	case FieldUnion:
		if f.Union == nil {
			return NewRuleError(ruleConstruct, record, ErrInvalidShape, "union field %q has no union", f.Name)
		}
	default:
		return NewRuleError(ruleConstruct, record, ErrInvalidShape, "field %q has kind %s", f.Name, f.Kind)
	}

	return nil
}

// NewUnion checks that every variant pins discriminant to a literal and
// that the literals are pairwise distinct.
func NewUnion(name, discriminant string, variants ...*RecordShape) (*TaggedUnion, error) {
	if discriminant == "" {
		return nil, NewRuleError(ruleConstruct, name, ErrInvalidShape, "union has no discriminant field")
	}

	if len(variants) == 0 {
		return nil, NewRuleError(ruleConstruct, name, ErrInvalidShape, "union has no variants")
	}

	owners := make(map[string]string, len(variants))

	for i, v := range variants {
		if v == nil {
			return nil, NewRuleError(ruleConstruct, name, ErrInvalidShape, "variant #%d is nil", i)
		}

		value, ok := v.Literal(discriminant)
		if !ok {
			return nil, NewRuleError(ruleConstruct, name, ErrInvalidShape,
				"variant %s does not pin %q to a literal", variantLabel(v, i), discriminant)
		}

		if prev, dup := owners[value]; dup {
			return nil, NewRuleError(ruleConstruct, name, ErrAmbiguousVariant,
				"variants %s and %s both declare %s=%q", prev, variantLabel(v, i), discriminant, value)
		}

		owners[value] = variantLabel(v, i)
	}

	return &TaggedUnion{
		Name:         name,
		Discriminant: discriminant,
		Variants:     append([]*RecordShape(nil), variants...),
	}, nil
}

func variantLabel(v *RecordShape, i int) string {
	if v.Name != "" {
		return v.Name
	}

	return "#" + strconv.Itoa(i)
}

// MustRecord is NewRecord for static declarations; it panics on error.
func MustRecord(name string, fields ...FieldShape) *RecordShape {
	r, err := NewRecord(name, fields...)
	if err != nil {
		panic(err)
	}

	return r
}

// MustUnion is NewUnion for static declarations; it panics on error.
func MustUnion(name, discriminant string, variants ...*RecordShape) *TaggedUnion {
	u, err := NewUnion(name, discriminant, variants...)
	if err != nil {
		panic(err)
	}

	return u
}
