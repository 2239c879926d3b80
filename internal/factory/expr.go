package factory

import (
	"reflect"
	"sort"
	"time"

	exprlang "github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
	"github.com/google/uuid"

	"shapekit/internal/shape"
	"shapekit/primitive"
)

// compileExpr compiles source with every parameter declared as a typed
// environment entry and the result kind enforced by the type checker.
func compileExpr(sig Signature, source string, registry *FunctionRegistry) (Function, error) {
	tree, err := parser.Parse(source)
	if err != nil {
		return nil, shape.NewRuleError(ruleDefine, "", shape.ErrInvalidShape, "expr: %v", err)
	}

	unknown, dynamic := scanIdentifiers(tree.Node, sig, registry)
	if len(unknown) > 0 {
		return nil, shape.NewRuleError(ruleDefine, "", shape.ErrArityMismatch,
			"expr references %v, signature %s does not declare them", unknown, sig)
	}

	env := make(map[string]any, sig.Arity())
	for _, p := range sig.Params {
		env[p.Name] = zeroOf(p.Kind)
	}

	options := []exprlang.Option{exprlang.Env(env)}

	// untyped inputs make the static type unknown, leave the result to Resolve
	if opt := expectOption(sig.Result); opt != nil && !dynamic {
		options = append(options, opt)
	}

	for _, name := range registry.Names() {
		options = append(options, exprlang.Function(name, registry.bind(name)))
	}

	program, err := exprlang.Compile(source, options...)
	if err != nil {
		return nil, shape.NewRuleError(ruleDefine, "", shape.ErrInvalidShape, "expr: %v", err)
	}

	return func(args ...any) (any, error) {
		runEnv := make(map[string]any, len(args))
		for i, p := range sig.Params {
			runEnv[p.Name] = scriptArg(args[i])
		}

		return exprlang.Run(program, runEnv)
	}, nil
}

type identCollector struct {
	declared map[string]bool
	used     map[string]bool
}

func (c *identCollector) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.IdentifierNode:
		c.used[n.Value] = true
	case *ast.VariableDeclaratorNode:
		c.declared[n.Name] = true
	}
}

// scanIdentifiers lists the free names of the expression that are neither
// parameters, let-bound variables nor registry functions. dynamic is true
// when the expression reads an untyped value: a registry function result or
// an "any" parameter.
func scanIdentifiers(root ast.Node, sig Signature, registry *FunctionRegistry) (unknown []string, dynamic bool) {
	c := &identCollector{declared: map[string]bool{"$env": true}, used: map[string]bool{}}
	ast.Walk(&root, c)

	for _, p := range sig.Params {
		c.declared[p.Name] = true
		dynamic = dynamic || (p.Kind == primitive.KindAny && c.used[p.Name])
	}

	for name := range c.used {
		switch {
		case c.declared[name]:
		case registry.Has(name):
			dynamic = true
		default:
			unknown = append(unknown, name)
		}
	}

	sort.Strings(unknown)

	return unknown, dynamic
}

func expectOption(kind primitive.Kind) exprlang.Option {
	switch kind {
	case primitive.KindInt:
		return exprlang.AsInt()
	case primitive.KindFloat:
		return exprlang.AsFloat64()
	case primitive.KindBool:
		return exprlang.AsBool()
	case primitive.KindString, primitive.KindUUID:
		return exprlang.AsKind(reflect.String)
	default:
		return nil
	}
}

// zeroOf returns a value carrying the Go type parameters of kind have once
// canonicalized, for type checking.
func zeroOf(kind primitive.Kind) any {
	switch kind {
	case primitive.KindBool:
		return false
	case primitive.KindInt:
		return 0
	case primitive.KindFloat:
		return 0.0
	case primitive.KindString, primitive.KindUUID:
		return ""
	case primitive.KindTime:
		return time.Time{}
	case primitive.KindDuration:
		return time.Duration(0)
	default:
		return nil
	}
}

// scriptArg hands UUIDs to scripts in their string form.
func scriptArg(v any) any {
	if id, ok := v.(uuid.UUID); ok {
		return id.String()
	}

	return v
}
