// Package diagnostic collects structured errors, warnings and notes
// produced while validating a shape catalog.
//
// Each diagnostic carries a stable code, the catalog entry it concerns,
// an optional field path and "did you mean" suggestions.
package diagnostic
