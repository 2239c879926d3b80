// Package factory implements value-or-factory slots: a slot holds either a
// literal value or a function computing that value from a fixed argument
// list.
//
// The two cases are tagged by construction (Literal versus Func,
// FromGoFunc and Compile); a slot is never inspected to guess whether its
// content is callable. Parameter lists are checked against the declared
// Signature when the slot is built, so an arity mismatch surfaces at
// definition time rather than on the first call.
//
// Compile accepts three expression engines:
//
//	expr  github.com/expr-lang/expr   base * height
//	cel   github.com/google/cel-go    base * height
//	js    github.com/dop251/goja      (base, height) => base * height
//
// Slots are immutable and safe for concurrent Resolve calls.
package factory
