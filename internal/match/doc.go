// Package match provides name normalization, Levenshtein distance and the
// "did you mean" ranking used when a lookup misses: unknown discriminant
// values, unknown shape references, unknown factories.
//
// Key functions:
//   - NormalizeIdent: normalizes identifiers for fuzzy matching
//   - Levenshtein: computes edit distance between strings
//   - Rank / Suggest: ranks known names against a missed one
package match
