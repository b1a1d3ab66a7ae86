package services

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/flowmatic/flowmatic/pkg/protocol"
)

// Console collaborators log what a real provider would do. They back the
// CLI's dry-run mode and local development.

type ConsoleSender struct {
	logger *slog.Logger
}

func NewConsoleSender(logger *slog.Logger) *ConsoleSender {
	return &ConsoleSender{logger: logger}
}

func (s *ConsoleSender) Send(_ context.Context, msg protocol.EmailMessage) (*protocol.SendReceipt, error) {
	s.logger.Info("Email send (dry run)",
		"to", msg.To,
		"from", msg.From,
		"subject", msg.Subject,
		"attachments", len(msg.Attachments))

	return &protocol.SendReceipt{MessageID: "dry-" + uuid.NewString()}, nil
}

type ConsolePublisher struct {
	logger *slog.Logger
}

func NewConsolePublisher(logger *slog.Logger) *ConsolePublisher {
	return &ConsolePublisher{logger: logger}
}

func (p *ConsolePublisher) Publish(_ context.Context, platform string, content protocol.PostContent) (string, error) {
	p.logger.Info("Social post (dry run)",
		"platform", platform,
		"content", content.Content,
		"hashtags", content.Hashtags)

	return "dry-" + uuid.NewString(), nil
}

// ConsolePDFRenderer produces a JSON rendition of what the PDF pipeline
// would receive, so dry runs still yield inspectable bytes.
type ConsolePDFRenderer struct {
	logger *slog.Logger
}

func NewConsolePDFRenderer(logger *slog.Logger) *ConsolePDFRenderer {
	return &ConsolePDFRenderer{logger: logger}
}

func (r *ConsolePDFRenderer) Render(_ context.Context, elements, fieldMappings []map[string]any, data map[string]any) ([]byte, error) {
	r.logger.Info("PDF render (dry run)", "elements", len(elements), "mappings", len(fieldMappings))

	return json.Marshal(map[string]any{
		"elements":       elements,
		"field_mappings": fieldMappings,
		"data":           data,
	})
}
