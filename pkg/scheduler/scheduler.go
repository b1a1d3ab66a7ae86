// Package scheduler runs workflows on cron schedules, covering deferred
// and recurring automation (scheduled posts, digest emails).
package scheduler

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/flowmatic/flowmatic/pkg/models"
	"github.com/flowmatic/flowmatic/pkg/workflow"
)

type Scheduler struct {
	cron   *cron.Cron
	runner *workflow.Runner
	logger *slog.Logger
}

func NewScheduler(runner *workflow.Runner, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		runner: runner,
		logger: logger,
	}
}

// Schedule registers a workflow to run on the given cron spec. Each firing
// gets a fresh execution context seeded from the supplied variables.
func (s *Scheduler) Schedule(spec, workflowID, userID string, nodes []models.Node, edges []models.Edge, variables map[string]any) (cron.EntryID, error) {
	return s.cron.AddFunc(spec, func() {
		state := models.NewExecutionContext(uuid.NewString(), workflowID, userID, variables)

		s.logger.Info("Running scheduled workflow", "workflow_id", workflowID, "execution_id", state.ID)

		result := s.runner.Execute(context.Background(), nodes, edges, state)
		if !result.Success {
			s.logger.Error("Scheduled workflow failed",
				"workflow_id", workflowID,
				"execution_id", state.ID,
				"error", result.Error)
		}
	})
}

// Remove unregisters a scheduled workflow.
func (s *Scheduler) Remove(id cron.EntryID) {
	s.cron.Remove(id)
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling; the returned context is done once in-flight runs
// finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
