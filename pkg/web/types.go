// Package web provides HTTP request and response types for the workflow API.
package web

import "github.com/flowmatic/flowmatic/pkg/models"

// ValidateWorkflowRequest represents the request body for validating a
// workflow graph.
type ValidateWorkflowRequest struct {
	Nodes []models.Node `json:"nodes" validate:"required,min=1,dive"`
	Edges []models.Edge `json:"edges" validate:"dive"`
}

// ExecuteWorkflowRequest represents the request body for executing a
// workflow graph. Variables seed the run's execution context.
type ExecuteWorkflowRequest struct {
	WorkflowID string         `json:"workflow_id" validate:"required"`
	UserID     string         `json:"user_id"     validate:"required"`
	Nodes      []models.Node  `json:"nodes"       validate:"required,min=1,dive"`
	Edges      []models.Edge  `json:"edges"       validate:"dive"`
	Variables  map[string]any `json:"variables,omitempty"`
}

// ExecuteWorkflowResponse wraps the run outcome with its execution ID so
// callers can correlate it with published run events.
type ExecuteWorkflowResponse struct {
	ExecutionID string                 `json:"execution_id"`
	Result      models.ExecutionResult `json:"result"`
}

// NodeTypeResponse describes one registered node type and its configuration
// schema.
type NodeTypeResponse struct {
	Type   models.NodeType `json:"type"`
	Schema map[string]any  `json:"schema,omitempty"`
}
