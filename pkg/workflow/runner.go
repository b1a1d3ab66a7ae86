package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/flowmatic/flowmatic/pkg/expr"
	"github.com/flowmatic/flowmatic/pkg/models"
	"github.com/flowmatic/flowmatic/pkg/otelhelper"
	"github.com/flowmatic/flowmatic/pkg/protocol"
	"github.com/flowmatic/flowmatic/pkg/registry"
)

// Runner drives one workflow run: sequential traversal from the start node,
// delegating each node to its registered executor and accumulating an
// ordered history. A Runner is safe for concurrent use; each run owns its
// ExecutionContext exclusively.
type Runner struct {
	registry *registry.Registry
	logger   *slog.Logger
	activity protocol.ActivityLog
	tracer   trace.Tracer
}

// Option configures optional Runner collaborators.
type Option func(*Runner)

// WithActivityLog attaches a fire-and-forget activity log that receives one
// entry per history record.
func WithActivityLog(activity protocol.ActivityLog) Option {
	return func(r *Runner) {
		r.activity = activity
	}
}

// WithTracer wraps the run and each node execution in spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Runner) {
		r.tracer = tracer
	}
}

func NewRunner(reg *registry.Registry, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{registry: reg, logger: logger}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Execute runs the graph to completion or first failure and returns the
// terminal result. It never returns an error: every failure, including
// defensive ones, surfaces as data in the result so callers always have a
// structured outcome to persist.
//
// Cancelling ctx stops the run between node executions; the result then
// carries the partial history and the context error.
func (r *Runner) Execute(ctx context.Context, nodes []models.Node, edges []models.Edge, state *models.ExecutionContext) models.ExecutionResult {
	logger := r.logger.With("execution_id", state.ID, "workflow_id", state.WorkflowID)

	if r.tracer != nil {
		var span trace.Span

		ctx, span = r.tracer.Start(ctx, "workflow.execute", trace.WithAttributes(
			attribute.String(otelhelper.ExecutionIDKey, state.ID),
			attribute.String(otelhelper.WorkflowIDKey, state.WorkflowID),
			attribute.String(otelhelper.UserIDKey, state.UserID),
		))
		defer span.End()
	}

	logger.Info("Starting workflow execution", "nodes", len(nodes), "edges", len(edges))

	history := make([]models.ExecutionRecord, 0, len(nodes))

	finish := func(runErr error) models.ExecutionResult {
		result := models.ExecutionResult{Success: runErr == nil, History: history}
		if runErr != nil {
			result.Error = runErr.Error()
			logger.Error("Workflow execution failed", "error", runErr, "executed", len(history))
		} else {
			logger.Info("Workflow execution completed", "executed", len(history))
		}

		return result
	}

	start, ok := models.FindStartNode(nodes)
	if !ok {
		return finish(ErrNoStartNode)
	}

	visited := make(map[string]bool, len(nodes))
	stack := []*models.Node{start}
	steps := 0

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return finish(err)
		}

		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		// Converging edges may enqueue a node twice; each node runs once.
		if visited[node.ID] {
			continue
		}

		if steps >= len(nodes) {
			return finish(ErrMaxStepsExceeded)
		}

		steps++
		visited[node.ID] = true

		record := r.executeNode(ctx, logger, state, node)
		history = append(history, record)

		if r.activity != nil {
			r.activity.Append(ctx, protocol.ActivityEntry{
				ExecutionID: state.ID,
				WorkflowID:  state.WorkflowID,
				UserID:      state.UserID,
				Record:      record,
			})
		}

		if record.Status == models.ExecutionStatusError {
			return finish(fmt.Errorf("node %s: %s", node.ID, record.Error))
		}

		if node.Type == models.NodeTypeEnd {
			continue
		}

		next := r.nextNodes(nodes, edges, state, node)
		if len(next) == 0 {
			return finish(fmt.Errorf("%w: %s", ErrDanglingGraph, node.ID))
		}

		// Depth-first, left to right: push in reverse so the first edge's
		// target executes next.
		for i := len(next) - 1; i >= 0; i-- {
			stack = append(stack, next[i])
		}
	}

	return finish(nil)
}

// executeNode runs one node via its executor and builds its history record.
// Executor failures are captured in the record, never propagated.
func (r *Runner) executeNode(ctx context.Context, logger *slog.Logger, state *models.ExecutionContext, node *models.Node) models.ExecutionRecord {
	logger = logger.With("node_id", node.ID, "node_type", node.Type)
	logger.Debug("Executing node")

	var span trace.Span

	if r.tracer != nil {
		ctx, span = r.tracer.Start(ctx, "workflow.node", trace.WithAttributes(
			attribute.String(otelhelper.NodeIDKey, node.ID),
			attribute.String(otelhelper.NodeTypeKey, string(node.Type)),
		))
		defer span.End()
	}

	started := time.Now()

	executor, err := r.registry.ExecutorFor(node.Type)
	if err == nil {
		err = executor.Execute(ctx, state, node)
	}

	record := models.ExecutionRecord{
		NodeID:     node.ID,
		Timestamp:  started,
		DurationMS: time.Since(started).Milliseconds(),
		Status:     models.ExecutionStatusCompleted,
	}

	if err != nil {
		record.Status = models.ExecutionStatusError
		record.Error = err.Error()

		if span != nil {
			otelhelper.SetError(span, err, attribute.String(otelhelper.NodeIDKey, node.ID))
		}

		logger.Error("Node execution failed", "error", err)
	}

	return record
}

// nextNodes resolves the nodes to visit after the given one. Condition
// nodes follow only the edge whose branch label matches the stored
// conditionResult; every other type follows all outgoing edges in order.
func (r *Runner) nextNodes(nodes []models.Node, edges []models.Edge, state *models.ExecutionContext, node *models.Node) []*models.Node {
	outgoing := models.OutgoingEdges(edges, node.ID)

	if node.Type == models.NodeTypeCondition {
		result, _ := state.Get(models.VarConditionResult)
		want := models.BranchFalse

		if expr.Truthy(result) {
			want = models.BranchTrue
		}

		for _, edge := range outgoing {
			if edge.BranchLabel() != want {
				continue
			}

			if target, ok := models.FindNode(nodes, edge.Target); ok {
				return []*models.Node{target}
			}
		}

		return nil
	}

	next := make([]*models.Node, 0, len(outgoing))

	for _, edge := range outgoing {
		if target, ok := models.FindNode(nodes, edge.Target); ok {
			next = append(next, target)
		}
	}

	return next
}
