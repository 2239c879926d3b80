// Package union narrows tagged unions by their discriminant.
//
// IndexByDiscriminant builds a hashed Index from discriminant value to
// variant once; FindVariant and Index.Find answer lookups from it. Both
// refuse malformed unions (shared discriminant values) with
// shape.ErrAmbiguousVariant instead of picking a variant.
package union
