package factory

import (
	"strings"

	"shapekit/internal/common"
	"shapekit/internal/shape"
)

// Engine identifies what runs a factory.
type Engine int

const (
	EngineGo   Engine = iota // Go function, see Func and FromGoFunc
	EngineExpr               // github.com/expr-lang/expr
	EngineCEL                // github.com/google/cel-go
	EngineJS                 // github.com/dop251/goja
)

// String returns a human-readable representation of the Engine.
func (e Engine) String() string {
	switch e {
	case EngineGo:
		return "go"
	case EngineExpr:
		return "expr"
	case EngineCEL:
		return "cel"
	case EngineJS:
		return "js"
	default:
		return common.UnknownStr
	}
}

// ParseEngine maps an engine name to an Engine.
func ParseEngine(name string) (Engine, bool) {
	switch strings.ToLower(name) {
	case "expr":
		return EngineExpr, true
	case "cel":
		return EngineCEL, true
	case "js", "javascript":
		return EngineJS, true
	default:
		return 0, false
	}
}

type compileConfig struct {
	registry *FunctionRegistry
}

// CompileOption configures Compile.
type CompileOption func(*compileConfig)

// WithRegistry exposes the functions of registry to the expression.
// Without it the DefaultRegistry is used.
func WithRegistry(registry *FunctionRegistry) CompileOption {
	return func(cfg *compileConfig) {
		if registry == nil {
			return
		}

		cfg.registry = registry.Clone()
	}
}

// Compile builds a factory slot running source on engine. Sources are
// compiled and checked against sig once, here; identifiers that are neither
// parameters nor registry functions and JS functions with the wrong number
// of parameters fail with shape.ErrArityMismatch.
func Compile(engine Engine, sig Signature, source string, opts ...CompileOption) (Slot, error) {
	if err := sig.Validate(); err != nil {
		return Slot{}, err
	}

	if strings.TrimSpace(source) == "" {
		return Slot{}, shape.NewRuleError(ruleDefine, "", shape.ErrInvalidShape, "%s source must not be empty", engine)
	}

	cfg := compileConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.registry == nil {
		cfg.registry = DefaultRegistry()
	}

	var (
		fn  Function
		err error
	)

	switch engine {
	case EngineExpr:
		fn, err = compileExpr(sig, source, cfg.registry)
	case EngineCEL:
		fn, err = compileCEL(sig, source, cfg.registry)
	case EngineJS:
		fn, err = compileJS(sig, source, cfg.registry)
	default:
		return Slot{}, shape.NewRuleError(ruleDefine, "", shape.ErrInvalidShape, "engine %s cannot compile sources", engine)
	}

	if err != nil {
		return Slot{}, err
	}

	return Slot{kind: SlotFactory, sig: sig, engine: engine, source: source, fn: fn}, nil
}
