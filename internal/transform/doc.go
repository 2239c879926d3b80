// Package transform holds the presence-widening rules.
//
//   - Widen: one level, admits null and absent on top of the value
//   - MarkOptional: one level, admits absent only
//   - DeepOptional: MarkOptional applied to every field at every depth,
//     through nested records and every variant of nested unions
//   - DeepNullable: the same walk applying Widen
//
// Every rule is idempotent and leaves field names, order, kinds and
// literals untouched.
package transform
