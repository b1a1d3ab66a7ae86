package protocol

import (
	"context"
	"fmt"
	"time"

	"github.com/flowmatic/flowmatic/pkg/models"
)

// RenderedTemplate is the output of rendering an email template.
type RenderedTemplate struct {
	Subject string
	HTML    string
	Text    string
}

// TemplateRenderer resolves an email template by ID and renders it against
// the run's variables.
type TemplateRenderer interface {
	Render(ctx context.Context, templateID string, data map[string]any) (*RenderedTemplate, error)
}

// Attachment is a file attached to an outgoing email.
type Attachment struct {
	Filename string
	Content  []byte
}

// EmailMessage is one outgoing email. Retry and backoff live behind the
// sender, not in the node executors.
type EmailMessage struct {
	To          string
	From        string
	Subject     string
	HTML        string
	Text        string
	Attachments []Attachment
	Metadata    map[string]string
}

// SendReceipt acknowledges an accepted email.
type SendReceipt struct {
	MessageID string
}

// EmailSender delivers email through an external provider.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) (*SendReceipt, error)
}

// PDFTemplate is a stored PDF layout: its elements and the form-field
// mappings used to fill them.
type PDFTemplate struct {
	ID            string
	Elements      []map[string]any
	FieldMappings []map[string]any
}

// PDFTemplateStore resolves stored PDF templates by ID.
type PDFTemplateStore interface {
	Fetch(ctx context.Context, templateID string) (*PDFTemplate, error)
}

// PDFRenderer produces a binary PDF artifact.
type PDFRenderer interface {
	Render(ctx context.Context, elements, fieldMappings []map[string]any, data map[string]any) ([]byte, error)
}

// PostContent is a social post after content optimization.
type PostContent struct {
	Content      string
	Hashtags     []string
	ScheduledFor *time.Time
}

// ContentOptimizer reshapes post content to fit a platform's constraints
// (length limits, hashtag placement).
type ContentOptimizer interface {
	Optimize(platform, content string, hashtags []string) PostContent
}

// SocialPublisher publishes a post to a social platform and returns the
// external post ID.
type SocialPublisher interface {
	Publish(ctx context.Context, platform string, content PostContent) (string, error)
}

// ArtifactStore persists generated artifacts (PDFs) and returns a
// reference usable by the caller.
type ArtifactStore interface {
	Store(ctx context.Context, name string, data []byte) (string, error)
}

// ActivityEntry is one piece of run metadata handed to the activity log.
type ActivityEntry struct {
	ExecutionID string
	WorkflowID  string
	UserID      string
	Record      models.ExecutionRecord
}

// ActivityLog records workflow run metadata. Appends are fire-and-forget:
// the runner neither reads the log back nor fails a run on append errors.
type ActivityLog interface {
	Append(ctx context.Context, entry ActivityEntry)
}

// ExternalServiceError wraps a collaborator failure so runners can tell
// provider outages apart from graph defects.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s service: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// NewExternalServiceError wraps err as a failure of the named collaborator.
func NewExternalServiceError(service string, err error) *ExternalServiceError {
	return &ExternalServiceError{Service: service, Err: err}
}
