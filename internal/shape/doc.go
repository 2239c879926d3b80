// Package shape provides the immutable record-shape model every rule
// consumes and produces.
//
// Key types:
//   - Type: the descriptor of a slot (primitive, nested record or tagged
//     union) together with its presence (required, optional, nullable)
//   - FieldShape: a named Type
//   - RecordShape: an ordered set of uniquely named fields
//   - TaggedUnion: record variants told apart by the literal value of a
//     shared discriminant field
//
// Shapes are built once through NewRecord and NewUnion, which enforce the
// unique-name and distinct-discriminant invariants, and are never mutated
// afterwards. Rules return new shapes.
package shape
