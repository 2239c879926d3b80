package union

import (
	"shapekit/internal/shape"
)

const ruleIndex = "index_by_discriminant"

// Index maps every discriminant value of a union to its variant.
// It is immutable and safe for concurrent use.
type Index struct {
	union        *shape.TaggedUnion
	discriminant string
	keys         []string
	variants     map[string]*shape.RecordShape
}

// IndexByDiscriminant builds the value -> variant mapping of u keyed by the
// literal each variant pins discriminant to. The key set is exactly the set
// of discriminant values; variants are not copied or modified.
func IndexByDiscriminant(u *shape.TaggedUnion, discriminant string) (*Index, error) {
	if u == nil {
		return nil, shape.NewRuleError(ruleIndex, "", shape.ErrInvalidShape, "union is nil")
	}

	if discriminant != u.Discriminant {
		return nil, shape.NewRuleError(ruleIndex, u.Name, shape.ErrVariantNotFound,
			"union is discriminated by %q, not %q", u.Discriminant, discriminant)
	}

	idx := &Index{
		union:        u,
		discriminant: discriminant,
		keys:         make([]string, 0, len(u.Variants)),
		variants:     make(map[string]*shape.RecordShape, len(u.Variants)),
	}

	for i, v := range u.Variants {
		if v == nil {
			return nil, shape.NewRuleError(ruleIndex, u.Name, shape.ErrInvalidShape, "variant #%d is nil", i)
		}

		value, ok := v.Literal(discriminant)
		if !ok {
			return nil, shape.NewRuleError(ruleIndex, u.Name, shape.ErrVariantNotFound,
				"variant #%d (%s) does not pin %q to a literal", i, v.Name, discriminant)
		}

		if prev, dup := idx.variants[value]; dup {
			return nil, shape.NewRuleError(ruleIndex, u.Name, shape.ErrAmbiguousVariant,
				"variants %s and %s both declare %s=%q", prev.Name, v.Name, discriminant, value)
		}

		idx.variants[value] = v
		idx.keys = append(idx.keys, value)
	}

	return idx, nil
}

// Union returns the indexed union.
func (idx *Index) Union() *shape.TaggedUnion { return idx.union }

// Discriminant returns the field the index is keyed by.
func (idx *Index) Discriminant() string { return idx.discriminant }

// Keys returns the discriminant values in variant order.
func (idx *Index) Keys() []string {
	return append([]string(nil), idx.keys...)
}

// Len returns the number of variants.
func (idx *Index) Len() int { return len(idx.keys) }

// Map returns a copy of the value -> variant mapping.
func (idx *Index) Map() map[string]*shape.RecordShape {
	out := make(map[string]*shape.RecordShape, len(idx.variants))
	for k, v := range idx.variants {
		out[k] = v
	}

	return out
}
