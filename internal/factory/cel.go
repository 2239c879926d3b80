package factory

import (
	"fmt"
	"strings"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"

	"shapekit/internal/shape"
	"shapekit/primitive"
)

// compileCEL declares every parameter as a typed CEL variable, type checks
// source and compares the checked output type with the result kind.
func compileCEL(sig Signature, source string, registry *FunctionRegistry) (Function, error) {
	opts := make([]celgo.EnvOption, 0, sig.Arity()+len(registry.Names()))
	for _, p := range sig.Params {
		opts = append(opts, celgo.Variable(p.Name, celType(p.Kind)))
	}

	for _, name := range registry.Names() {
		opts = append(opts, celFunction(name, registry))
	}

	env, err := celgo.NewEnv(opts...)
	if err != nil {
		return nil, shape.NewRuleError(ruleDefine, "", shape.ErrInvalidShape, "cel: %v", err)
	}

	checked, issues := env.Compile(source)
	if issues != nil && issues.Err() != nil {
		kind := shape.ErrInvalidShape
		if strings.Contains(issues.Err().Error(), "undeclared reference") {
			kind = shape.ErrArityMismatch
		}

		return nil, shape.NewRuleError(ruleDefine, "", kind, "cel: %v", issues.Err())
	}

	want := celType(sig.Result)
	out := checked.OutputType()

	if !out.IsExactType(celgo.DynType) && !want.IsAssignableType(out) {
		return nil, shape.NewRuleError(ruleDefine, "", shape.ErrInvalidShape,
			"cel expression yields %s, signature declares %s", out, sig.Result.Name())
	}

	program, err := env.Program(checked)
	if err != nil {
		return nil, shape.NewRuleError(ruleDefine, "", shape.ErrInvalidShape, "cel: %v", err)
	}

	return func(args ...any) (any, error) {
		activation := make(map[string]any, len(args))
		for i, p := range sig.Params {
			activation[p.Name] = scriptArg(args[i])
		}

		val, _, err := program.Eval(activation)
		if err != nil {
			return nil, err
		}

		return val.Value(), nil
	}, nil
}

func celType(kind primitive.Kind) *celgo.Type {
	switch kind {
	case primitive.KindBool:
		return celgo.BoolType
	case primitive.KindInt:
		return celgo.IntType
	case primitive.KindFloat:
		return celgo.DoubleType
	case primitive.KindString, primitive.KindUUID:
		return celgo.StringType
	case primitive.KindTime:
		return celgo.TimestampType
	case primitive.KindDuration:
		return celgo.DurationType
	default:
		return celgo.DynType
	}
}

// celFunction exposes a registry function with zero to two dyn arguments.
func celFunction(name string, registry *FunctionRegistry) celgo.EnvOption {
	binding := celgo.FunctionBinding(func(values ...ref.Val) ref.Val {
		args := make([]any, len(values))
		for i, v := range values {
			args[i] = v.Value()
		}

		result, err := registry.Call(name, args...)
		if err != nil {
			return types.NewErr("%s: %v", name, err)
		}

		if result == nil {
			return types.NullValue
		}

		return types.DefaultTypeAdapter.NativeToValue(result)
	})

	overloads := make([]celgo.FunctionOpt, 0, 3)
	for arity := 0; arity <= 2; arity++ {
		params := make([]*celgo.Type, arity)
		for i := range params {
			params[i] = celgo.DynType
		}

		overloads = append(overloads,
			celgo.Overload(fmt.Sprintf("%s_dyn_%d", name, arity), params, celgo.DynType, binding))
	}

	return celgo.Function(name, overloads...)
}
