// Package functions holds the fixed registry of named automation helpers a
// task node can invoke. Helpers are pure with respect to external systems:
// they only read and write the execution context.
package functions

import (
	"context"
	"fmt"

	"github.com/flowmatic/flowmatic/pkg/models"
)

// Func is one automation helper, looked up by name from a task node's
// "function" property.
type Func func(ctx context.Context, state *models.ExecutionContext) (any, error)

// ErrUnknownFunction is wrapped into the error returned for names the
// registry does not carry.
var ErrUnknownFunction = fmt.Errorf("unknown function")

// Registry maps helper names to implementations.
type Registry struct {
	funcs map[string]Func
}

// NewRegistry returns a registry preloaded with the built-in helpers.
func NewRegistry() *Registry {
	r := &Registry{funcs: make(map[string]Func)}

	r.Register("validateFormData", validateFormData)
	r.Register("processFormData", processFormData)

	return r
}

// Register adds or replaces a helper.
func (r *Registry) Register(name string, fn Func) {
	r.funcs[name] = fn
}

// Invoke runs the named helper against the execution context.
func (r *Registry) Invoke(ctx context.Context, name string, state *models.ExecutionContext) (any, error) {
	fn, ok := r.funcs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}

	return fn(ctx, state)
}

// validateFormData checks that the run carries a non-empty form submission.
func validateFormData(_ context.Context, state *models.ExecutionContext) (any, error) {
	formData, ok := state.Get("formData")
	if !ok {
		return map[string]any{"success": false, "reason": "no form data"}, nil
	}

	fields, ok := formData.(map[string]any)
	if !ok || len(fields) == 0 {
		return map[string]any{"success": false, "reason": "empty form data"}, nil
	}

	return map[string]any{"success": true, "fields": len(fields)}, nil
}

// processFormData normalizes the form submission: drops nil fields and
// counts what remains.
func processFormData(_ context.Context, state *models.ExecutionContext) (any, error) {
	formData, _ := state.Get("formData")

	fields, ok := formData.(map[string]any)
	if !ok {
		return map[string]any{"success": true, "processed": 0}, nil
	}

	processed := make(map[string]any, len(fields))
	for k, v := range fields {
		if v != nil {
			processed[k] = v
		}
	}

	state.Set("formData", processed)

	return map[string]any{"success": true, "processed": len(processed)}, nil
}
