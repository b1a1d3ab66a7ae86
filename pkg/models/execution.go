package models

import "time"

// Variable keys written by node executors during a run.
const (
	VarConditionResult = "conditionResult"
	VarGeneratedPDF    = "generatedPdf"
)

// ExecutionContext is the mutable state threaded through a single run.
// It is exclusively owned by that run; concurrent runs never share one.
type ExecutionContext struct {
	ID         string         `json:"id"`
	WorkflowID string         `json:"workflow_id,omitempty"`
	UserID     string         `json:"user_id"`
	Variables  map[string]any `json:"variables,omitempty"`
}

// NewExecutionContext seeds a context for one run. The variables map is
// copied so callers can reuse their seed map across runs.
func NewExecutionContext(id, workflowID, userID string, variables map[string]any) *ExecutionContext {
	vars := make(map[string]any, len(variables))
	for k, v := range variables {
		vars[k] = v
	}

	return &ExecutionContext{
		ID:         id,
		WorkflowID: workflowID,
		UserID:     userID,
		Variables:  vars,
	}
}

// Set writes a variable produced by a node executor.
func (c *ExecutionContext) Set(key string, value any) {
	if c.Variables == nil {
		c.Variables = make(map[string]any)
	}

	c.Variables[key] = value
}

// Get reads a variable.
func (c *ExecutionContext) Get(key string) (any, bool) {
	v, ok := c.Variables[key]

	return v, ok
}

// ExecutionStatus is the per-node outcome recorded in the history.
type ExecutionStatus string

const (
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusError     ExecutionStatus = "error"
)

// ExecutionRecord is one history entry, appended once per node execution
// attempt, in execution order. Immutable once appended.
type ExecutionRecord struct {
	NodeID     string          `json:"node_id"`
	Timestamp  time.Time       `json:"timestamp"`
	Status     ExecutionStatus `json:"status"`
	Error      string          `json:"error,omitempty"`
	DurationMS int64           `json:"duration_ms"`
}

// ExecutionResult is the terminal output of a run.
type ExecutionResult struct {
	Success bool              `json:"success"`
	History []ExecutionRecord `json:"history"`
	Error   string            `json:"error,omitempty"`
}
