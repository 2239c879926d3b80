package transform

import (
	"shapekit/internal/shape"
)

// Widen returns t admitting the explicit null marker and the absent marker
// on top of its value. Nested shapes are left as they are.
func Widen(t shape.Type) shape.Type {
	t.Presence = t.Presence.With(shape.PresenceOptional | shape.PresenceNullable)
	return t
}

// MarkOptional returns t admitting absence, the "?" modifier of a field.
func MarkOptional(t shape.Type) shape.Type {
	t.Presence = t.Presence.With(shape.PresenceOptional)
	return t
}

// WidenField applies Widen to the named field of r only.
func WidenField(r *shape.RecordShape, name string) (*shape.RecordShape, error) {
	if _, ok := r.Field(name); !ok {
		return nil, shape.NewRuleError("widen", r.Name, shape.ErrInvalidShape, "no field %q", name)
	}

	out := &shape.RecordShape{Name: r.Name, Fields: make([]shape.FieldShape, len(r.Fields))}
	for i, f := range r.Fields {
		if f.Name == name {
			f.Type = Widen(f.Type)
		}

		out.Fields[i] = f
	}

	return out, nil
}
