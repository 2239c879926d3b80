package factory

import (
	"fmt"
	"reflect"

	"shapekit/internal/shape"
	"shapekit/primitive"
)

// Resolve produces the value held by slot. A literal is returned unchanged
// and args are ignored. A factory is invoked with exactly args, which must
// match its signature in count and kind.
func Resolve(slot Slot, args ...any) (any, error) {
	switch slot.kind {
	case SlotLiteral:
		return slot.literal, nil
	case SlotFactory:
	default:
		return nil, shape.NewRuleError(ruleResolve, slot.name, shape.ErrInvalidShape, "slot was never defined")
	}

	if slot.fn == nil {
		return nil, shape.NewRuleError(ruleResolve, slot.name, shape.ErrInvalidShape, "factory slot has no function")
	}

	if len(args) != slot.sig.Arity() {
		return nil, shape.NewRuleError(ruleResolve, slot.name, shape.ErrArityMismatch,
			"signature %s takes %d argument(s), got %d", slot.sig, slot.sig.Arity(), len(args))
	}

	in := make([]any, len(args))

	for i, p := range slot.sig.Params {
		if !p.Kind.Accepts(args[i]) {
			return nil, shape.NewRuleError(ruleResolve, slot.name, shape.ErrArityMismatch,
				"argument %q: %#v is not a %s", p.Name, args[i], p.Kind.Name())
		}

		in[i] = canonical(p.Kind, args[i])
	}

	out, err := slot.fn(in...)
	if err != nil {
		return nil, fmt.Errorf("factory %s (%s): %w", slot.label(), slot.engine, err)
	}

	if !slot.sig.Result.Accepts(out) {
		return nil, shape.NewRuleError(ruleResolve, slot.name, shape.ErrInvalidShape,
			"factory returned %#v, not a %s", out, slot.sig.Result.Name())
	}

	return canonical(slot.sig.Result, out), nil
}

// ResolveAs is Resolve followed by a conversion to T.
func ResolveAs[T any](slot Slot, args ...any) (T, error) {
	var zero T

	out, err := Resolve(slot, args...)
	if err != nil {
		return zero, err
	}

	if v, ok := out.(T); ok {
		return v, nil
	}

	rv := reflect.ValueOf(out)
	want := reflect.TypeFor[T]()

	if rv.IsValid() && rv.Type().ConvertibleTo(want) {
		return rv.Convert(want).Interface().(T), nil
	}

	return zero, fmt.Errorf("factory %s: result %T is not a %s", slot.label(), out, want)
}

func (s Slot) label() string {
	if s.name != "" {
		return s.name
	}

	return s.sig.String()
}

// canonical maps numbers onto int and float64 so every engine sees the same
// Go types whatever the caller passed.
func canonical(kind primitive.Kind, v any) any {
	rv := reflect.ValueOf(v)

	switch kind {
	case primitive.KindInt:
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return int(rv.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return int(rv.Uint())
		case reflect.Float32, reflect.Float64:
			return int(rv.Float())
		}
	case primitive.KindFloat:
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return float64(rv.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return float64(rv.Uint())
		case reflect.Float32, reflect.Float64:
			return rv.Float()
		}
	}

	return v
}
