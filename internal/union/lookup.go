package union

import (
	"errors"

	"shapekit/internal/match"
	"shapekit/internal/shape"
)

const ruleFind = "find_variant"

// maxSuggestions caps the "did you mean" list of VariantNotFound errors.
const maxSuggestions = 3

// FindVariant returns the variant of u whose discriminant field holds value.
//
// The whole union is checked, not only the variants matching value: a union
// with any shared discriminant value fails with shape.ErrAmbiguousVariant.
// Callers looking up repeatedly should build an Index once and use Find.
func FindVariant(u *shape.TaggedUnion, discriminant, value string) (*shape.RecordShape, error) {
	idx, err := IndexByDiscriminant(u, discriminant)
	if err != nil {
		var ruleErr *shape.RuleError
		if errors.As(err, &ruleErr) {
			ruleErr.Rule = ruleFind
		}

		return nil, err
	}

	return idx.Find(value)
}

// Find returns the variant indexed under value.
func (idx *Index) Find(value string) (*shape.RecordShape, error) {
	if v, ok := idx.variants[value]; ok {
		return v, nil
	}

	return nil, shape.NewRuleError(ruleFind, idx.union.Name, shape.ErrVariantNotFound,
		"no variant with %s=%q", idx.discriminant, value).
		WithSuggestions(match.Suggest(value, idx.keys, maxSuggestions))
}
