// Package web provides the HTTP handlers for workflow validation and
// execution.
package web

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/flowmatic/flowmatic/pkg/eventbus"
	"github.com/flowmatic/flowmatic/pkg/events"
	"github.com/flowmatic/flowmatic/pkg/models"
	"github.com/flowmatic/flowmatic/pkg/protocol"
	"github.com/flowmatic/flowmatic/pkg/registry"
	"github.com/flowmatic/flowmatic/pkg/workflow"
)

type APIHandlers struct {
	logger    *slog.Logger
	validator *validator.Validate
	registry  *registry.Registry
	runner    *workflow.Runner
	eventBus  eventbus.EventBus
}

func NewAPIHandlers(
	logger *slog.Logger,
	validator *validator.Validate,
	registry *registry.Registry,
	runner *workflow.Runner,
	eventBus eventbus.EventBus,
) *APIHandlers {
	return &APIHandlers{
		logger:    logger,
		validator: validator,
		registry:  registry,
		runner:    runner,
		eventBus:  eventBus,
	}
}

// ValidateWorkflow checks a graph without executing it. Structural errors
// come from the graph validator; per-node configuration errors come from
// the registered JSON schemas.
func (h *APIHandlers) ValidateWorkflow(c fiber.Ctx) error {
	var req ValidateWorkflowRequest

	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	result := workflow.Validate(req.Nodes, req.Edges)

	for _, node := range req.Nodes {
		messages, err := h.registry.ValidateConfig(node.Type, node.Data.Properties)
		if err != nil {
			return internalError(c, err)
		}

		for _, message := range messages {
			result.IsValid = false
			result.Errors = append(result.Errors, models.ValidationError{
				NodeID:  node.ID,
				Message: message,
			})
		}
	}

	return c.JSON(result)
}

// ExecuteWorkflow validates and runs a graph. Invalid graphs are rejected
// before any node executes; run failures still return 200 with the failure
// captured in the result body.
func (h *APIHandlers) ExecuteWorkflow(c fiber.Ctx) error {
	var req ExecuteWorkflowRequest

	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	if validation := workflow.Validate(req.Nodes, req.Edges); !validation.IsValid {
		return unprocessable(c, joinValidationErrors(validation.Errors))
	}

	state := models.NewExecutionContext(uuid.NewString(), req.WorkflowID, req.UserID, req.Variables)

	h.publish(c, events.ExecutionStarted{
		BaseEvent: events.NewBaseEvent(events.ExecutionStartedEvent, state.ID, req.WorkflowID, req.UserID),
		Variables: req.Variables,
	})

	started := time.Now()
	result := h.runner.Execute(c.Context(), req.Nodes, req.Edges, state)

	if result.Success {
		h.publish(c, events.ExecutionFinished{
			BaseEvent: events.NewBaseEvent(events.ExecutionFinishedEvent, state.ID, req.WorkflowID, req.UserID),
			Duration:  time.Since(started),
			Steps:     len(result.History),
		})
	} else {
		h.publish(c, events.ExecutionFailed{
			BaseEvent: events.NewBaseEvent(events.ExecutionFailedEvent, state.ID, req.WorkflowID, req.UserID),
			Error:     result.Error,
			Steps:     len(result.History),
		})
	}

	return c.JSON(ExecuteWorkflowResponse{
		ExecutionID: state.ID,
		Result:      result,
	})
}

// NodeTypes lists the registered node types with their configuration
// schemas, sorted for stable output.
func (h *APIHandlers) NodeTypes(c fiber.Ctx) error {
	types := h.registry.Types()
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	response := make([]NodeTypeResponse, 0, len(types))

	for _, nodeType := range types {
		entry := NodeTypeResponse{Type: nodeType}

		if executor, err := h.registry.ExecutorFor(nodeType); err == nil {
			if provider, ok := executor.(protocol.SchemaProvider); ok {
				entry.Schema = provider.Schema()
			}
		}

		response = append(response, entry)
	}

	return c.JSON(response)
}

func (h *APIHandlers) publish(c fiber.Ctx, event eventbus.Event) {
	if h.eventBus == nil {
		return
	}

	if err := h.eventBus.Publish(c.Context(), event); err != nil {
		h.logger.Warn("Failed to publish run event", "event_type", event.GetType(), "error", err)
	}
}

func joinValidationErrors(errs []models.ValidationError) string {
	messages := make([]string, 0, len(errs))

	for _, err := range errs {
		if err.NodeID == "" {
			messages = append(messages, err.Message)

			continue
		}

		messages = append(messages, fmt.Sprintf("node %s: %s", err.NodeID, err.Message))
	}

	return strings.Join(messages, "; ")
}
