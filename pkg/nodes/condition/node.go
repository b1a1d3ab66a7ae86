// Package condition provides the branching node. It evaluates an expression
// against the run's variables and stores the boolean result; the runner,
// not this executor, picks the outgoing edge.
package condition

import (
	"context"
	"errors"
	"time"

	"github.com/flowmatic/flowmatic/pkg/expr"
	"github.com/flowmatic/flowmatic/pkg/models"
)

type Executor struct{}

func NewExecutor() *Executor {
	return &Executor{}
}

func (e *Executor) Type() models.NodeType {
	return models.NodeTypeCondition
}

func (e *Executor) Execute(_ context.Context, state *models.ExecutionContext, node *models.Node) error {
	expression := node.StringProperty("condition")
	if expression == "" {
		return errors.New("missing condition expression")
	}

	result, err := expr.EvaluateBool(expression, state.Variables)
	if err != nil {
		return err
	}

	state.Set(models.VarConditionResult, result)

	// Keep the evaluation detail addressable per node, matching the shape
	// the history UI reads.
	state.Set(node.ID+"_evaluation", map[string]any{
		"condition": expression,
		"result":    result,
		"timestamp": time.Now().UnixMilli(),
	})

	return nil
}

func (e *Executor) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"condition": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "Expression evaluated against run variables. Dotted paths, literals, comparison and boolean operators.",
				"examples": []any{
					"${email.opened}",
					"${user.plan} == 'pro'",
					"${submissions} > 10 && !${user.suspended}",
				},
			},
		},
		"required": []any{"condition"},
	}
}
