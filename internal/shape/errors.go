package shape

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every error returned by a rule wraps exactly one of them, so
// callers classify with errors.Is.
var (
	// ErrArityMismatch reports a factory whose parameter list does not match
	// its declared signature or the arguments it was given.
	ErrArityMismatch = errors.New("arity mismatch")
	// ErrVariantNotFound reports that no union variant carries the requested
	// discriminant value.
	ErrVariantNotFound = errors.New("variant not found")
	// ErrAmbiguousVariant reports a union whose variants share a
	// discriminant value.
	ErrAmbiguousVariant = errors.New("ambiguous variant")
	// ErrDuplicateField reports two fields with the same name in a record.
	ErrDuplicateField = errors.New("duplicate field")
	// ErrInvalidShape reports a structurally broken declaration.
	ErrInvalidShape = errors.New("invalid shape")
	// ErrCyclicShape reports records that reference each other in a loop.
	ErrCyclicShape = errors.New("cyclic shape reference")
)

// RuleError captures which rule failed on which subject alongside the
// error kind.
type RuleError struct {
	Rule        string // e.g. "find_variant"
	Subject     string // name of the shape, union or factory
	Detail      string
	Suggestions []string
	Err         error
}

// NewRuleError builds a RuleError of the given kind.
func NewRuleError(rule, subject string, kind error, format string, args ...any) *RuleError {
	return &RuleError{
		Rule:    rule,
		Subject: subject,
		Detail:  fmt.Sprintf(format, args...),
		Err:     kind,
	}
}

// WithSuggestions attaches "did you mean" candidates.
func (e *RuleError) WithSuggestions(s []string) *RuleError {
	e.Suggestions = s
	return e
}

func (e *RuleError) Error() string {
	if e == nil {
		return "<nil>"
	}

	var b strings.Builder

	b.WriteString("shapekit: ")
	b.WriteString(e.Rule)

	if e.Subject != "" {
		b.WriteString(" ")
		b.WriteString(e.Subject)
	}

	fmt.Fprintf(&b, ": %v", e.Err)

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if len(e.Suggestions) > 0 {
		quoted := make([]string, len(e.Suggestions))
		for i, s := range e.Suggestions {
			quoted[i] = fmt.Sprintf("%q", s)
		}

		fmt.Fprintf(&b, " (did you mean %s?)", strings.Join(quoted, " or "))
	}

	return b.String()
}

func (e *RuleError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.Err
}
