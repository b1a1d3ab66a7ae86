// Package end provides the workflow terminal marker node.
package end

import (
	"context"

	"github.com/flowmatic/flowmatic/pkg/models"
)

// Executor is a no-op: reaching an end node completes the run.
type Executor struct{}

func NewExecutor() *Executor {
	return &Executor{}
}

func (e *Executor) Type() models.NodeType {
	return models.NodeTypeEnd
}

func (e *Executor) Execute(_ context.Context, _ *models.ExecutionContext, _ *models.Node) error {
	return nil
}
