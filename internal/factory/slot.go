package factory

import (
	"fmt"
	"math"
	"reflect"

	"shapekit/internal/common"
	"shapekit/internal/shape"
	"shapekit/primitive"
)

const (
	ruleDefine  = "define_factory"
	ruleResolve = "resolve"
)

// SlotKind tags which case a Slot holds.
type SlotKind int

const (
	_ SlotKind = iota // the zero Slot holds neither case

	SlotLiteral
	SlotFactory
)

// String returns a human-readable representation of the SlotKind.
func (k SlotKind) String() string {
	switch k {
	case SlotLiteral:
		return "literal"
	case SlotFactory:
		return "factory"
	default:
		return common.UnknownStr
	}
}

// Function is the uniform calling convention of factories and registry
// functions.
type Function func(args ...any) (any, error)

// Slot holds either a literal value or a factory producing it.
type Slot struct {
	name    string
	kind    SlotKind
	sig     Signature
	engine  Engine
	source  string
	literal any
	fn      Function
}

// Name returns the name the slot was declared with, if any.
func (s Slot) Name() string { return s.name }

// Kind returns the tagged case.
func (s Slot) Kind() SlotKind { return s.kind }

// Signature returns the declared signature.
func (s Slot) Signature() Signature { return s.sig }

// Engine returns the engine running a factory slot (EngineGo for literals).
func (s Slot) Engine() Engine { return s.engine }

// Source returns the expression source of compiled factories.
func (s Slot) Source() string { return s.source }

// Named returns a copy of s labelled name; the label appears in errors.
func (s Slot) Named(name string) Slot {
	s.name = name
	return s
}

// Literal returns a slot holding value. The value must be an instance of
// the signature's result kind.
func Literal(sig Signature, value any) (Slot, error) {
	if err := sig.Validate(); err != nil {
		return Slot{}, err
	}

	if !sig.Result.Accepts(value) {
		return Slot{}, shape.NewRuleError(ruleDefine, "", shape.ErrInvalidShape,
			"literal %#v is not a %s", value, sig.Result.Name())
	}

	return Slot{kind: SlotLiteral, sig: sig, literal: value}, nil
}

// Func returns a factory slot calling fn. declaredArity is the number of
// parameters fn was written for and must match the signature.
func Func(sig Signature, declaredArity int, fn Function) (Slot, error) {
	if err := sig.Validate(); err != nil {
		return Slot{}, err
	}

	if fn == nil {
		return Slot{}, shape.NewRuleError(ruleDefine, "", shape.ErrInvalidShape, "factory function is nil")
	}

	if declaredArity != sig.Arity() {
		return Slot{}, arityError("", sig, declaredArity)
	}

	return Slot{kind: SlotFactory, sig: sig, engine: EngineGo, fn: fn}, nil
}

var errorType = reflect.TypeFor[error]()

// FromGoFunc returns a factory slot calling the Go function fn, whose
// parameter list must match the signature in count and kind. fn returns the
// value, optionally followed by an error.
func FromGoFunc(sig Signature, fn any) (Slot, error) {
	if err := sig.Validate(); err != nil {
		return Slot{}, err
	}

	rv := reflect.ValueOf(fn)
	if fn == nil || rv.Kind() != reflect.Func || rv.IsNil() {
		return Slot{}, shape.NewRuleError(ruleDefine, "", shape.ErrInvalidShape, "%T is not a function", fn)
	}

	rt := rv.Type()
	if rt.IsVariadic() || rt.NumIn() != sig.Arity() {
		return Slot{}, arityError("", sig, rt.NumIn())
	}

	for i, p := range sig.Params {
		got := primitive.FromReflectType(rt.In(i))
		if got != p.Kind && p.Kind != primitive.KindAny {
			return Slot{}, shape.NewRuleError(ruleDefine, "", shape.ErrArityMismatch,
				"parameter %q is %s but the function takes %s", p.Name, p.Kind.Name(), rt.In(i))
		}
	}

	switch {
	case rt.NumOut() == 1:
	case rt.NumOut() == 2 && rt.Out(1) == errorType:
	default:
		return Slot{}, shape.NewRuleError(ruleDefine, "", shape.ErrInvalidShape,
			"function must return (value) or (value, error), got %s", rt)
	}

	if got := primitive.FromReflectType(rt.Out(0)); got != sig.Result && sig.Result != primitive.KindAny {
		return Slot{}, shape.NewRuleError(ruleDefine, "", shape.ErrInvalidShape,
			"function returns %s, signature declares %s", rt.Out(0), sig.Result.Name())
	}

	call := func(args ...any) (any, error) {
		in := make([]reflect.Value, len(args))
		for i, arg := range args {
			v, err := reflectArg(arg, rt.In(i))
			if err != nil {
				return nil, fmt.Errorf("parameter %q: %w", sig.Params[i].Name, err)
			}

			in[i] = v
		}

		out := rv.Call(in)
		if len(out) == 2 && !out[1].IsNil() {
			return nil, out[1].Interface().(error)
		}

		return out[0].Interface(), nil
	}

	return Slot{kind: SlotFactory, sig: sig, engine: EngineGo, fn: call, source: rt.String()}, nil
}

func reflectArg(arg any, want reflect.Type) (reflect.Value, error) {
	if arg == nil {
		switch want.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice:
			return reflect.Zero(want), nil
		default:
			return reflect.Value{}, fmt.Errorf("nil is not a %s", want)
		}
	}

	v := reflect.ValueOf(arg)
	if v.Type().AssignableTo(want) {
		return v, nil
	}

	if v.Type().ConvertibleTo(want) {
		if overflows(v, want) {
			return reflect.Value{}, fmt.Errorf("%v overflows %s: %w", arg, want, shape.ErrArityMismatch)
		}

		return v.Convert(want), nil
	}

	return reflect.Value{}, fmt.Errorf("%T is not assignable to %s", arg, want)
}

// overflows reports whether converting the number v to want loses its value.
func overflows(v reflect.Value, want reflect.Type) bool {
	target := reflect.Zero(want)

	switch {
	case v.CanInt():
		switch {
		case target.CanInt():
			return target.OverflowInt(v.Int())
		case target.CanUint():
			return v.Int() < 0 || target.OverflowUint(uint64(v.Int()))
		}
	case v.CanUint():
		switch {
		case target.CanInt():
			return v.Uint() > math.MaxInt64 || target.OverflowInt(int64(v.Uint()))
		case target.CanUint():
			return target.OverflowUint(v.Uint())
		}
	case v.CanFloat():
		if target.CanFloat() {
			return target.OverflowFloat(v.Float())
		}
	}

	return false
}

func arityError(subject string, sig Signature, got int) *shape.RuleError {
	return shape.NewRuleError(ruleDefine, subject, shape.ErrArityMismatch,
		"signature %s declares %d parameter(s), factory takes %d", sig, sig.Arity(), got)
}
