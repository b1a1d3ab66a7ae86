// Package events defines the lifecycle events published during workflow runs.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/flowmatic/flowmatic/pkg/models"
)

type EventType string

// Topic carries every run event.
const Topic = "flowmatic.executions"

const (
	ExecutionStartedEvent  EventType = "execution.started"
	ExecutionFinishedEvent EventType = "execution.finished"
	ExecutionFailedEvent   EventType = "execution.failed"
	NodeExecutedEvent      EventType = "node.executed"
)

type BaseEvent struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	ExecutionID string    `json:"execution_id"`
	WorkflowID  string    `json:"workflow_id,omitempty"`
	UserID      string    `json:"user_id,omitempty"`
}

func NewBaseEvent(eventType EventType, executionID, workflowID, userID string) BaseEvent {
	return BaseEvent{
		ID:          uuid.NewString(),
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		ExecutionID: executionID,
		WorkflowID:  workflowID,
		UserID:      userID,
	}
}

type ExecutionStarted struct {
	BaseEvent

	Variables map[string]any `json:"variables,omitempty"`
}

func (e ExecutionStarted) GetType() EventType { return ExecutionStartedEvent }

type ExecutionFinished struct {
	BaseEvent

	Duration time.Duration `json:"duration"`
	Steps    int           `json:"steps"`
}

func (e ExecutionFinished) GetType() EventType { return ExecutionFinishedEvent }

type ExecutionFailed struct {
	BaseEvent

	Error string `json:"error"`
	Steps int    `json:"steps"`
}

func (e ExecutionFailed) GetType() EventType { return ExecutionFailedEvent }

type NodeExecuted struct {
	BaseEvent

	Record models.ExecutionRecord `json:"record"`
}

func (e NodeExecuted) GetType() EventType { return NodeExecutedEvent }
