package analyze

import (
	"fmt"
	"reflect"
	"strings"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "shapekit/people"
	Name    string // e.g., "Person"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

const (
	tagShape    = "shape"
	tagVariants = "variants"
)

// FieldTag is the parsed shape tag of a struct field.
type FieldTag struct {
	Name     string
	Skip     bool
	Optional bool
	Nullable bool
	// Const pins a string field to a literal.
	Const string
	// Union names the discriminant of an interface field.
	Union string
	// Variants lists the struct types an interface field may hold.
	Variants []string
}

// ParseFieldTag reads the shape and variants keys of tag. fieldName is used
// when the tag does not rename the field.
func ParseFieldTag(fieldName string, tag reflect.StructTag) (FieldTag, error) {
	ft := FieldTag{Name: fieldName}

	raw, ok := tag.Lookup(tagShape)
	if raw == "-" {
		ft.Skip = true
		return ft, nil
	}

	if variants := tag.Get(tagVariants); variants != "" {
		for _, v := range strings.Split(variants, ",") {
			if v = strings.TrimSpace(v); v != "" {
				ft.Variants = append(ft.Variants, v)
			}
		}
	}

	if !ok {
		return ft, nil
	}

	parts := strings.Split(raw, ",")
	if parts[0] != "" {
		ft.Name = parts[0]
	}

	for _, opt := range parts[1:] {
		key, value, _ := strings.Cut(strings.TrimSpace(opt), "=")

		switch key {
		case "optional":
			ft.Optional = true
		case "nullable":
			ft.Nullable = true
		case "const":
			ft.Const = value
		case "union":
			ft.Union = value
		default:
			return ft, fmt.Errorf("field %s: unknown shape tag option %q", fieldName, key)
		}
	}

	return ft, nil
}
