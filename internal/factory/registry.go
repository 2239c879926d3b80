package factory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// FunctionRegistry stores helper functions exposed to expression factories
// by name.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]Function
}

// NewFunctionRegistry constructs an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		functions: make(map[string]Function),
	}
}

// DefaultRegistry returns a registry holding the built-in helpers:
//
//	uuid()  a random RFC 4122 UUID string
func DefaultRegistry() *FunctionRegistry {
	r := NewFunctionRegistry()
	_ = r.Register("uuid", func(args ...any) (any, error) {
		if len(args) != 0 {
			return nil, fmt.Errorf("uuid takes no arguments, got %d", len(args))
		}

		return uuid.NewString(), nil
	})

	return r
}

// Register stores fn under name guarding against duplicates.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	if fn == nil {
		return fmt.Errorf("factory: function %q is nil", name)
	}

	if !isIdent(name) {
		return fmt.Errorf("factory: function name %q is not an identifier", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.functions == nil {
		r.functions = make(map[string]Function)
	}

	if _, exists := r.functions[name]; exists {
		return fmt.Errorf("factory: function %q already registered", name)
	}

	r.functions[name] = fn

	return nil
}

// Clone returns a shallow copy of the registry.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	clone := &FunctionRegistry{
		functions: make(map[string]Function, len(r.functions)),
	}
	for name, fn := range r.functions {
		clone.functions[name] = fn
	}

	return clone
}

// Call executes the function registered for name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	if r == nil {
		return nil, fmt.Errorf("factory: function registry is nil")
	}

	r.mu.RLock()
	fn := r.functions[name]
	r.mu.RUnlock()

	if fn == nil {
		return nil, fmt.Errorf("factory: function %q not registered", name)
	}

	return fn(args...)
}

// Has reports whether name is registered.
func (r *FunctionRegistry) Has(name string) bool {
	if r == nil {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.functions[name]

	return ok
}

// Names returns registered function names sorted alphabetically.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// bind returns a Function calling name through the registry.
func (r *FunctionRegistry) bind(name string) Function {
	return func(args ...any) (any, error) {
		return r.Call(name, args...)
	}
}
