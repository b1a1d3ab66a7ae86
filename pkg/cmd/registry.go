// Package cmd provides common initialization functions for command-line
// applications.
package cmd

import (
	"log/slog"

	"github.com/flowmatic/flowmatic/pkg/functions"
	"github.com/flowmatic/flowmatic/pkg/nodes/condition"
	"github.com/flowmatic/flowmatic/pkg/nodes/delay"
	"github.com/flowmatic/flowmatic/pkg/nodes/email"
	"github.com/flowmatic/flowmatic/pkg/nodes/end"
	"github.com/flowmatic/flowmatic/pkg/nodes/pdf"
	"github.com/flowmatic/flowmatic/pkg/nodes/post"
	"github.com/flowmatic/flowmatic/pkg/nodes/start"
	"github.com/flowmatic/flowmatic/pkg/nodes/task"
	"github.com/flowmatic/flowmatic/pkg/protocol"
	"github.com/flowmatic/flowmatic/pkg/registry"
)

// Collaborators bundles the external services the node executors depend on.
type Collaborators struct {
	Renderer     protocol.TemplateRenderer
	Sender       protocol.EmailSender
	FromAddress  string
	PDFTemplates protocol.PDFTemplateStore
	PDFRenderer  protocol.PDFRenderer
	Artifacts    protocol.ArtifactStore
	Optimizer    protocol.ContentOptimizer
	Publisher    protocol.SocialPublisher
	Functions    *functions.Registry
}

// NewRegistry builds a registry with every native node executor registered.
func NewRegistry(logger *slog.Logger, c Collaborators) (*registry.Registry, error) {
	if c.Functions == nil {
		c.Functions = functions.NewRegistry()
	}

	reg := registry.NewRegistry(logger)

	executors := []protocol.NodeExecutor{
		start.NewExecutor(),
		end.NewExecutor(),
		condition.NewExecutor(),
		delay.NewExecutor(),
		task.NewExecutor(c.Functions),
		email.NewExecutor(c.Renderer, c.Sender, c.FromAddress),
		pdf.NewExecutor(c.PDFTemplates, c.PDFRenderer, c.Sender, c.Artifacts, c.FromAddress),
		post.NewExecutor(c.Optimizer, c.Publisher),
	}

	for _, executor := range executors {
		if err := reg.Register(executor); err != nil {
			return nil, err
		}
	}

	return reg, nil
}
