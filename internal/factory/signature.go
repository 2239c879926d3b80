package factory

import (
	"strings"

	"shapekit/internal/shape"
	"shapekit/primitive"
)

// Param is one declared factory parameter.
type Param struct {
	Name string
	Kind primitive.Kind
}

// Signature is the declared parameter list and result kind of a slot.
type Signature struct {
	Params []Param
	Result primitive.Kind
}

// NewSignature builds a signature producing result from params.
func NewSignature(result primitive.Kind, params ...Param) Signature {
	return Signature{Params: append([]Param(nil), params...), Result: result}
}

// Arity returns the number of declared parameters.
func (s Signature) Arity() int { return len(s.Params) }

// Names returns the parameter names in order.
func (s Signature) Names() []string {
	names := make([]string, len(s.Params))
	for i, p := range s.Params {
		names[i] = p.Name
	}

	return names
}

// String renders the signature as "(base float, height float) float".
func (s Signature) String() string {
	parts := make([]string, len(s.Params))
	for i, p := range s.Params {
		parts[i] = p.Name + " " + p.Kind.Name()
	}

	return "(" + strings.Join(parts, ", ") + ") " + s.Result.Name()
}

// Validate checks that names are unique identifiers and kinds are known.
func (s Signature) Validate() error {
	if !s.Result.IsValid() {
		return shape.NewRuleError(ruleDefine, "", shape.ErrInvalidShape, "invalid result kind %s", s.Result)
	}

	seen := make(map[string]struct{}, len(s.Params))

	for i, p := range s.Params {
		if !isIdent(p.Name) {
			return shape.NewRuleError(ruleDefine, "", shape.ErrInvalidShape, "parameter #%d has invalid name %q", i, p.Name)
		}

		if _, dup := seen[p.Name]; dup {
			return shape.NewRuleError(ruleDefine, "", shape.ErrInvalidShape, "parameter %q declared twice", p.Name)
		}

		seen[p.Name] = struct{}{}

		if !p.Kind.IsValid() {
			return shape.NewRuleError(ruleDefine, "", shape.ErrInvalidShape, "parameter %q has invalid kind %s", p.Name, p.Kind)
		}
	}

	return nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		letter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
		if i == 0 && !letter {
			return false
		}

		if !letter && (r < '0' || r > '9') {
			return false
		}
	}

	return true
}
