// Package protocol defines the contracts between the workflow runner, the
// node executors and the external collaborators they call out to.
package protocol

import (
	"context"

	"github.com/flowmatic/flowmatic/pkg/models"
)

// NodeExecutor executes one node type. Implementations mutate the execution
// context or invoke an external collaborator, returning an error on
// failure. They must be safe for concurrent use across independent runs.
type NodeExecutor interface {
	// Type returns the node type this executor handles.
	Type() models.NodeType

	// Execute runs the node against the given execution context.
	Execute(ctx context.Context, state *models.ExecutionContext, node *models.Node) error
}

// SchemaProvider is optionally implemented by executors that can describe
// their node's configuration as a JSON schema.
type SchemaProvider interface {
	Schema() map[string]any
}
