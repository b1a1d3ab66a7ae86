package task

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowmatic/flowmatic/pkg/functions"
	"github.com/flowmatic/flowmatic/pkg/models"
	"github.com/flowmatic/flowmatic/pkg/protocol"
)

func taskNode(properties map[string]any) *models.Node {
	return &models.Node{
		ID:   "task",
		Type: models.NodeTypeTask,
		Data: models.NodeData{Properties: properties},
	}
}

func TestExecute_FunctionAction(t *testing.T) {
	executor := NewExecutor(functions.NewRegistry())
	state := models.NewExecutionContext("exec-1", "wf-1", "user-1", map[string]any{
		"formData": map[string]any{"name": "Ada", "email": "ada@example.com"},
	})

	node := taskNode(map[string]any{"action": "function", "function": "validateFormData"})

	err := executor.Execute(context.Background(), state, node)

	require.NoError(t, err)

	result, ok := state.Get("task_result")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"success": true, "fields": 2}, result)
}

func TestExecute_UnknownFunction(t *testing.T) {
	executor := NewExecutor(functions.NewRegistry())
	state := models.NewExecutionContext("exec-1", "wf-1", "user-1", nil)

	node := taskNode(map[string]any{"action": "function", "function": "doesNotExist"})

	err := executor.Execute(context.Background(), state, node)

	require.Error(t, err)
	assert.ErrorIs(t, err, functions.ErrUnknownFunction)
	assert.Contains(t, err.Error(), "doesNotExist")

	_, ok := state.Get("task_result")
	assert.False(t, ok)
}

func TestExecute_MissingFunctionName(t *testing.T) {
	executor := NewExecutor(functions.NewRegistry())
	state := models.NewExecutionContext("exec-1", "wf-1", "user-1", nil)

	err := executor.Execute(context.Background(), state, taskNode(map[string]any{"action": "function"}))

	assert.EqualError(t, err, "missing function name")
}

func TestExecute_HTTPActionNotImplemented(t *testing.T) {
	executor := NewExecutor(functions.NewRegistry())
	state := models.NewExecutionContext("exec-1", "wf-1", "user-1", nil)

	err := executor.Execute(context.Background(), state, taskNode(map[string]any{"action": "http"}))

	assert.ErrorIs(t, err, protocol.ErrNotImplemented)
}

func TestExecute_MissingAction(t *testing.T) {
	executor := NewExecutor(functions.NewRegistry())
	state := models.NewExecutionContext("exec-1", "wf-1", "user-1", nil)

	err := executor.Execute(context.Background(), state, taskNode(nil))

	assert.EqualError(t, err, "missing task action")
}

func TestExecute_UnknownAction(t *testing.T) {
	executor := NewExecutor(functions.NewRegistry())
	state := models.NewExecutionContext("exec-1", "wf-1", "user-1", nil)

	err := executor.Execute(context.Background(), state, taskNode(map[string]any{"action": "shell"}))

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown task action "shell"`)
}
