// Package task provides the task node: dispatch on the configured action,
// currently named automation helpers from the function registry.
package task

import (
	"context"
	"errors"
	"fmt"

	"github.com/flowmatic/flowmatic/pkg/functions"
	"github.com/flowmatic/flowmatic/pkg/models"
	"github.com/flowmatic/flowmatic/pkg/protocol"
)

const (
	ActionFunction = "function"
	ActionHTTP     = "http"
)

type Executor struct {
	functions *functions.Registry
}

func NewExecutor(registry *functions.Registry) *Executor {
	return &Executor{functions: registry}
}

func (e *Executor) Type() models.NodeType {
	return models.NodeTypeTask
}

func (e *Executor) Execute(ctx context.Context, state *models.ExecutionContext, node *models.Node) error {
	switch action := node.StringProperty("action"); action {
	case ActionFunction:
		name := node.StringProperty("function")
		if name == "" {
			return errors.New("missing function name")
		}

		result, err := e.functions.Invoke(ctx, name, state)
		if err != nil {
			return err
		}

		state.Set(node.ID+"_result", result)

		return nil
	case ActionHTTP:
		// Declared in the node palette but unbuilt; fail loudly rather
		// than no-op.
		return fmt.Errorf("task action %q: %w", action, protocol.ErrNotImplemented)
	case "":
		return errors.New("missing task action")
	default:
		return fmt.Errorf("unknown task action %q", action)
	}
}

func (e *Executor) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"action": map[string]any{
				"type": "string",
				"enum": []any{ActionFunction, ActionHTTP},
			},
			"function": map[string]any{
				"type":        "string",
				"description": "Helper name from the automation function registry.",
			},
		},
		"required": []any{"action"},
	}
}
