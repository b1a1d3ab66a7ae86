// Package pdf provides the pdf node: render a stored template into a binary
// artifact and route it per the configured output.
package pdf

import (
	"context"
	"errors"
	"fmt"

	"github.com/flowmatic/flowmatic/pkg/expr"
	"github.com/flowmatic/flowmatic/pkg/models"
	"github.com/flowmatic/flowmatic/pkg/protocol"
)

const (
	OutputDownload = "download"
	OutputEmail    = "email"
	OutputStore    = "store"
)

type Executor struct {
	templates protocol.PDFTemplateStore
	renderer  protocol.PDFRenderer
	sender    protocol.EmailSender
	artifacts protocol.ArtifactStore // optional; nil means "store" output is unavailable
	from      string
}

func NewExecutor(
	templates protocol.PDFTemplateStore,
	renderer protocol.PDFRenderer,
	sender protocol.EmailSender,
	artifacts protocol.ArtifactStore,
	from string,
) *Executor {
	return &Executor{
		templates: templates,
		renderer:  renderer,
		sender:    sender,
		artifacts: artifacts,
		from:      from,
	}
}

func (e *Executor) Type() models.NodeType {
	return models.NodeTypePDF
}

func (e *Executor) Execute(ctx context.Context, state *models.ExecutionContext, node *models.Node) error {
	if node.Data.Template == nil || node.Data.Template.ID == "" {
		return errors.New("pdf template not configured")
	}

	template, err := e.templates.Fetch(ctx, node.Data.Template.ID)
	if err != nil {
		return protocol.NewExternalServiceError("pdf-template", err)
	}

	formData, _ := state.Get("formData")
	data, _ := formData.(map[string]any)

	artifact, err := e.renderer.Render(ctx, template.Elements, template.FieldMappings, data)
	if err != nil {
		return protocol.NewExternalServiceError("pdf", err)
	}

	switch output := node.StringProperty("output"); output {
	case OutputEmail:
		return e.sendByEmail(ctx, state, node, artifact)
	case OutputStore:
		if e.artifacts == nil {
			return fmt.Errorf("pdf output %q: %w", output, protocol.ErrNotImplemented)
		}

		ref, err := e.artifacts.Store(ctx, node.ID+".pdf", artifact)
		if err != nil {
			return protocol.NewExternalServiceError("artifact-store", err)
		}

		state.Set(node.ID+"_artifact", ref)

		return nil
	case OutputDownload, "":
		state.Set(models.VarGeneratedPDF, artifact)

		return nil
	default:
		return fmt.Errorf("unknown pdf output %q", output)
	}
}

func (e *Executor) sendByEmail(ctx context.Context, state *models.ExecutionContext, node *models.Node, artifact []byte) error {
	recipients := node.StringProperty("recipients")
	if recipients == "" {
		return errors.New("recipients not configured for pdf email")
	}

	to, err := expr.EvaluateString(recipients, state.Variables)
	if err != nil {
		return err
	}

	_, err = e.sender.Send(ctx, protocol.EmailMessage{
		To:      to,
		From:    e.from,
		Subject: "Generated PDF Document",
		HTML:    "Please find the generated PDF document attached.",
		Text:    "Please find the generated PDF document attached.",
		Attachments: []protocol.Attachment{
			{Filename: "document.pdf", Content: artifact},
		},
		Metadata: map[string]string{
			"workflowId": state.WorkflowID,
			"nodeId":     node.ID,
			"userId":     state.UserID,
		},
	})
	if err != nil {
		return protocol.NewExternalServiceError("email", err)
	}

	return nil
}

func (e *Executor) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"output": map[string]any{
				"type": "string",
				"enum": []any{OutputDownload, OutputEmail, OutputStore},
			},
			"recipients": map[string]any{
				"type": "string",
			},
		},
		"required": []any{"output"},
		"if": map[string]any{
			"properties": map[string]any{
				"output": map[string]any{"const": OutputEmail},
			},
		},
		"then": map[string]any{
			"required": []any{"recipients"},
		},
	}
}
