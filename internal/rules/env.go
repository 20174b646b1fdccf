package rules

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

// Registry manages the CEL environment and caches compiled programs.
type Registry struct {
	env *cel.Env

	mu       sync.Mutex
	programs map[string]cel.Program
}

// NewRegistry initializes the CEL environment with the battle variables.
func NewRegistry() (*Registry, error) {
	env, err := cel.NewEnv(
		cel.Variable("alive_brothers", cel.IntType),
		cel.Variable("wave", cel.IntType),
		cel.Variable("stamina", cel.IntType),
		cel.Variable("player_health", cel.IntType),
		cel.Variable("enemies", cel.IntType),
		cel.Variable("action", cel.MapType(cel.StringType, cel.AnyType)),
	)
	if err != nil {
		return nil, err
	}
	return &Registry{env: env, programs: make(map[string]cel.Program)}, nil
}

// Compile checks expression and returns its program, compiling it only once.
func (r *Registry) Compile(expression string) (cel.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prog, ok := r.programs[expression]; ok {
		return prog, nil
	}

	ast, iss := r.env.Compile(expression)
	if iss.Err() != nil {
		return nil, iss.Err()
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("expression %q yields %s, want bool", expression, ast.OutputType())
	}
	prog, err := r.env.Program(ast)
	if err != nil {
		return nil, err
	}
	r.programs[expression] = prog
	return prog, nil
}

// Eval executes a CEL expression against the provided context.
func (r *Registry) Eval(expression string, context map[string]any) (any, error) {
	prog, err := r.Compile(expression)
	if err != nil {
		return nil, err
	}
	out, _, err := prog.Eval(context)
	if err != nil {
		return nil, err
	}
	return out.Value(), nil
}
