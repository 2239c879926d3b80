package transform

import (
	"shapekit/internal/shape"
)

// DeepOptional marks every field of r optional, recursing into nested
// records and into every variant of nested unions.
//
// Inside a union the discriminant of each variant becomes optional as well,
// so a value of the result may no longer say which variant it is. This is
// likely unintended but kept: discriminants are not special-cased.
func DeepOptional(r *shape.RecordShape) *shape.RecordShape {
	return newDeepWalker(MarkOptional).record(r)
}

// DeepNullable is DeepOptional with Widen as the per-field step: every field
// at every depth admits both null and absence.
func DeepNullable(r *shape.RecordShape) *shape.RecordShape {
	return newDeepWalker(Widen).record(r)
}

// deepWalker rebuilds a shape tree applying step to every field.
// done maps each input node to its output so that shared nodes stay shared
// and a cyclic reference closes onto the node being built instead of
// recursing forever.
type deepWalker struct {
	step   func(shape.Type) shape.Type
	done   map[*shape.RecordShape]*shape.RecordShape
	unions map[*shape.TaggedUnion]*shape.TaggedUnion
}

func newDeepWalker(step func(shape.Type) shape.Type) *deepWalker {
	return &deepWalker{
		step:   step,
		done:   make(map[*shape.RecordShape]*shape.RecordShape),
		unions: make(map[*shape.TaggedUnion]*shape.TaggedUnion),
	}
}

func (w *deepWalker) record(r *shape.RecordShape) *shape.RecordShape {
	if r == nil {
		return nil
	}

	if out, ok := w.done[r]; ok {
		return out
	}

	out := &shape.RecordShape{Name: r.Name, Fields: make([]shape.FieldShape, len(r.Fields))}
	w.done[r] = out

	for i, f := range r.Fields {
		f.Type = w.step(f.Type)

		switch f.Kind {
		case shape.FieldRecord:
			f.Record = w.record(f.Record)
		case shape.FieldUnion:
			f.Union = w.union(f.Union)
		case shape.FieldPrimitive, shape.FieldUnknown:
			// Leaf
		}

		out.Fields[i] = f
	}

	return out
}

func (w *deepWalker) union(u *shape.TaggedUnion) *shape.TaggedUnion {
	if u == nil {
		return nil
	}

	if out, ok := w.unions[u]; ok {
		return out
	}

	out := &shape.TaggedUnion{
		Name:         u.Name,
		Discriminant: u.Discriminant,
		Variants:     make([]*shape.RecordShape, len(u.Variants)),
	}
	w.unions[u] = out

	for i, v := range u.Variants {
		out.Variants[i] = w.record(v)
	}

	return out
}
