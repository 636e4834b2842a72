// Package rules evaluates the CEL predicates that gate spells and species
// abilities. Expressions see three map variables: caster, army and game.
package rules

import (
	"fmt"

	"github.com/google/cel-go/cel"
)

// Registry owns the CEL environment and a compiled-program cache. Catalog
// expressions are compiled once and reused for every evaluation.
type Registry struct {
	env      *cel.Env
	programs map[string]cel.Program
}

// NewRegistry initializes the CEL environment with the game's variables.
func NewRegistry() (*Registry, error) {
	env, err := cel.NewEnv(
		cel.Variable("caster", cel.MapType(cel.StringType, cel.AnyType)),
		cel.Variable("army", cel.MapType(cel.StringType, cel.AnyType)),
		cel.Variable("game", cel.MapType(cel.StringType, cel.AnyType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Registry{env: env, programs: make(map[string]cel.Program)}, nil
}

// Compile checks an expression and caches its program. Non-boolean
// expressions are rejected at compile time.
func (r *Registry) Compile(expr string) error {
	if _, ok := r.programs[expr]; ok {
		return nil
	}
	ast, issues := r.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return fmt.Errorf("failed to compile %q: %w", expr, issues.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return fmt.Errorf("expression %q must evaluate to bool, not %s", expr, ast.OutputType())
	}
	prg, err := r.env.Program(ast)
	if err != nil {
		return fmt.Errorf("failed to build program for %q: %w", expr, err)
	}
	r.programs[expr] = prg
	return nil
}

// EvalBool evaluates a compiled (or compilable) expression against the
// given variables.
func (r *Registry) EvalBool(expr string, vars map[string]any) (bool, error) {
	if err := r.Compile(expr); err != nil {
		return false, err
	}
	out, _, err := r.programs[expr].Eval(vars)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate %q: %w", expr, err)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression %q returned %T, not bool", expr, out.Value())
	}
	return b, nil
}
