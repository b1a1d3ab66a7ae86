// Package start provides the workflow entry marker node.
package start

import (
	"context"

	"github.com/flowmatic/flowmatic/pkg/models"
)

// Executor is a no-op: the start node only marks where traversal begins.
type Executor struct{}

func NewExecutor() *Executor {
	return &Executor{}
}

func (e *Executor) Type() models.NodeType {
	return models.NodeTypeStart
}

func (e *Executor) Execute(_ context.Context, _ *models.ExecutionContext, _ *models.Node) error {
	return nil
}
