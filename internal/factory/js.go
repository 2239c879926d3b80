package factory

import (
	"fmt"

	"github.com/dop251/goja"

	"shapekit/internal/shape"
)

// compileJS compiles source, which must evaluate to a JavaScript function
// declaring exactly the signature's parameters.
//
// A goja.Runtime is not safe for concurrent use, so the compiled program is
// shared and every call runs it in a fresh runtime.
func compileJS(sig Signature, source string, registry *FunctionRegistry) (Function, error) {
	program, err := goja.Compile("factory", "("+source+")", true)
	if err != nil {
		return nil, shape.NewRuleError(ruleDefine, "", shape.ErrInvalidShape, "js: %v", err)
	}

	vm, value, _, err := instantiateJS(program, registry)
	if err != nil {
		return nil, shape.NewRuleError(ruleDefine, "", shape.ErrInvalidShape, "js: %v", err)
	}

	if declared := int(value.ToObject(vm).Get("length").ToInteger()); declared != sig.Arity() {
		return nil, arityError("", sig, declared)
	}

	return func(args ...any) (any, error) {
		vm, _, fn, err := instantiateJS(program, registry)
		if err != nil {
			return nil, err
		}

		in := make([]goja.Value, len(args))
		for i, arg := range args {
			in[i] = vm.ToValue(scriptArg(arg))
		}

		out, err := fn(goja.Undefined(), in...)
		if err != nil {
			return nil, err
		}

		return out.Export(), nil
	}, nil
}

func instantiateJS(program *goja.Program, registry *FunctionRegistry) (*goja.Runtime, goja.Value, goja.Callable, error) {
	vm := goja.New()

	for _, name := range registry.Names() {
		if err := vm.Set(name, registry.bind(name)); err != nil {
			return nil, nil, nil, err
		}
	}

	value, err := vm.RunProgram(program)
	if err != nil {
		return nil, nil, nil, err
	}

	fn, ok := goja.AssertFunction(value)
	if !ok {
		return nil, nil, nil, fmt.Errorf("source evaluates to %s, not a function", value.String())
	}

	return vm, value, fn, nil
}
