// Package email provides the email node: render a stored template, resolve
// the recipient expression and hand the message to the email sender.
package email

import (
	"context"
	"errors"

	"github.com/flowmatic/flowmatic/pkg/expr"
	"github.com/flowmatic/flowmatic/pkg/models"
	"github.com/flowmatic/flowmatic/pkg/protocol"
)

type Executor struct {
	renderer protocol.TemplateRenderer
	sender   protocol.EmailSender
	from     string
}

// NewExecutor wires the email node's collaborators. from is the verified
// sender address runs go out under.
func NewExecutor(renderer protocol.TemplateRenderer, sender protocol.EmailSender, from string) *Executor {
	return &Executor{renderer: renderer, sender: sender, from: from}
}

func (e *Executor) Type() models.NodeType {
	return models.NodeTypeEmail
}

func (e *Executor) Execute(ctx context.Context, state *models.ExecutionContext, node *models.Node) error {
	templateID := node.StringProperty("templateId")
	recipients := node.StringProperty("recipients")

	if templateID == "" || recipients == "" {
		return errors.New("missing required email properties")
	}

	rendered, err := e.renderer.Render(ctx, templateID, state.Variables)
	if err != nil {
		return protocol.NewExternalServiceError("template", err)
	}

	to, err := expr.EvaluateString(recipients, state.Variables)
	if err != nil {
		return err
	}

	_, err = e.sender.Send(ctx, protocol.EmailMessage{
		To:      to,
		From:    e.from,
		Subject: rendered.Subject,
		HTML:    rendered.HTML,
		Text:    rendered.Text,
		Metadata: map[string]string{
			"workflowId": state.WorkflowID,
			"nodeId":     node.ID,
			"templateId": templateID,
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
			"templateId": map[string]any{
				"type":      "string",
				"minLength": 1,
			},
			"recipients": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "Recipient address or expression, e.g. ${user.email}.",
			},
		},
		"required": []any{"templateId", "recipients"},
	}
}
