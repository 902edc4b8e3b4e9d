package form

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

// conditions compiles and caches HiddenWhen expressions. Programs are
// safe for concurrent evaluation.
type conditions struct {
	env      *cel.Env
	mu       sync.RWMutex
	programs map[string]cel.Program
}

func newConditions() (*conditions, error) {
	env, err := cel.NewEnv(
		cel.Variable("data", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("editing", cel.BoolType),
	)
	if err != nil {
		return nil, fmt.Errorf("create condition environment: %w", err)
	}
	return &conditions{env: env, programs: make(map[string]cel.Program)}, nil
}

var (
	defaultConditionsOnce sync.Once
	defaultConditions     *conditions
	defaultConditionsErr  error
)

func sharedConditions() (*conditions, error) {
	defaultConditionsOnce.Do(func() {
		defaultConditions, defaultConditionsErr = newConditions()
	})
	return defaultConditions, defaultConditionsErr
}

func (c *conditions) program(expr string) (cel.Program, error) {
	c.mu.RLock()
	prg, ok := c.programs[expr]
	c.mu.RUnlock()
	if ok {
		return prg, nil
	}

	ast, iss := c.env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, iss.Err())
	}
	if t := ast.OutputType(); !t.IsExactType(cel.BoolType) && !t.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("condition %q must be boolean, got %s", expr, t)
	}
	prg, err := c.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", expr, err)
	}

	c.mu.Lock()
	c.programs[expr] = prg
	c.mu.Unlock()
	return prg, nil
}

// eval evaluates a boolean condition against a record.
func (c *conditions) eval(expr string, data map[string]any, editing bool) (bool, error) {
	prg, err := c.program(expr)
	if err != nil {
		return false, err
	}
	if data == nil {
		data = map[string]any{}
	}
	out, _, err := prg.Eval(map[string]any{
		"data":    data,
		"editing": editing,
	})
	if err != nil {
		return false, fmt.Errorf("evaluate %q: %w", expr, err)
	}
	v, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("condition %q returned %T", expr, out.Value())
	}
	return v, nil
}
