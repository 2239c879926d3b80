package primitive

import (
	"go/types"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
)

//go:generate go tool stringer -type=Kind -output=kind_string.go

// Kind is the leaf kind of a primitive field.
type Kind int

const (
	_ Kind = iota // skip zero value, use it as a default (invalid) value for Kind

	KindBool
	KindInt
	KindFloat
	KindString
	KindUUID
	KindTime
	KindDuration
	KindAny // accepts every non-null value

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

var kindNames = map[Kind]string{
	KindBool:     "bool",
	KindInt:      "int",
	KindFloat:    "float",
	KindString:   "string",
	KindUUID:     "uuid",
	KindTime:     "time",
	KindDuration: "duration",
	KindAny:      "any",
}

var nameAliases = map[string]Kind{
	"boolean": KindBool,
	"integer": KindInt,
	"int64":   KindInt,
	"number":  KindFloat,
	"float64": KindFloat,
	"str":     KindString,
}

// Name returns the lower-case name used in catalog files, e.g. "string".
func (k Kind) Name() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return k.String()
}

// IsValid reports whether k is one of the declared kinds.
func (k Kind) IsValid() bool {
	_, ok := kindNames[k]
	return ok
}

// IsNumber returns true for int and float kinds.
func (k Kind) IsNumber() bool {
	switch k {
	default:
		return false
	case KindInt, KindFloat:
		return true
	}
}

// Parse maps a catalog type name to a Kind. The second result is false for
// unknown names.
func Parse(name string) (Kind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}

	k, ok := nameAliases[name]

	return k, ok
}

// Names returns the canonical kind names in declaration order.
func Names() []string {
	names := make([]string, 0, KindTotal-1)
	for k := KindBool; int(k) < KindTotal; k++ {
		names = append(names, kindNames[k])
	}

	return names
}

func FromReflectType(rtype reflect.Type) Kind {
	if rtype == nil {
		return 0
	}

	// well-known named types first, they would otherwise match their underlying kind
	switch rtype {
	case reflect.TypeOf(time.Time{}):
		return KindTime
	case reflect.TypeOf(time.Duration(0)):
		return KindDuration
	case reflect.TypeOf(uuid.UUID{}):
		return KindUUID
	}

	switch rtype.Kind() {
	default:
		return 0
	case reflect.Bool:
		return KindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindInt
	case reflect.Float32, reflect.Float64:
		return KindFloat
	case reflect.String:
		return KindString
	case reflect.Interface:
		if rtype.NumMethod() == 0 {
			return KindAny
		}

		return 0
	}
}

// FromGoType is the go/types counterpart of FromReflectType.
func FromGoType(t types.Type) Kind {
	if t == nil {
		return 0
	}

	if named, ok := t.(*types.Named); ok && named.Obj().Pkg() != nil {
		switch named.Obj().Pkg().Path() + "." + named.Obj().Name() {
		case "time.Time":
			return KindTime
		case "time.Duration":
			return KindDuration
		case "github.com/google/uuid.UUID":
			return KindUUID
		}
	}

	switch ut := t.Underlying().(type) {
	case *types.Basic:
		info := ut.Info()
		switch {
		case info&types.IsBoolean != 0:
			return KindBool
		case info&types.IsInteger != 0:
			return KindInt
		case info&types.IsFloat != 0:
			return KindFloat
		case info&types.IsString != 0:
			return KindString
		}
	case *types.Interface:
		if ut.Empty() {
			return KindAny
		}
	}

	return 0
}

// Whole floats in [minIntFloat, maxIntFloat) convert to int without wrapping.
const (
	minIntFloat = -(1 << 63)
	maxIntFloat = 1 << 63
)

// Accepts reports whether value is an instance of kind k. Nil is never
// accepted: null-ness is a property of the field, not of the kind.
// Numbers outside the int range are not ints.
func (k Kind) Accepts(value any) bool {
	if value == nil {
		return false
	}

	switch k {
	case KindAny:
		return true
	case KindUUID:
		switch v := value.(type) {
		case uuid.UUID:
			return true
		case string:
			_, err := uuid.Parse(v)
			return err == nil
		}

		return false
	}

	rv := reflect.ValueOf(value)
	got := FromReflectType(rv.Type())

	switch k {
	case KindInt:
		switch rv.Kind() {
		case reflect.Float32, reflect.Float64:
			// engines such as goja and JSON decoders report whole numbers as floats
			f := rv.Float()
			return f == math.Trunc(f) && f >= minIntFloat && f < maxIntFloat
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			return got == KindInt && rv.Uint() <= math.MaxInt
		}

		return got == KindInt
	case KindFloat:
		return got.IsNumber()
	default:
		return got == k
	}
}
