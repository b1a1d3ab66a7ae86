// Package services provides in-memory and decorating implementations of the
// collaborator interfaces the node executors depend on.
package services

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"github.com/flowmatic/flowmatic/pkg/expr"
	"github.com/flowmatic/flowmatic/pkg/protocol"
)

// EmailTemplate is a stored email template. Subject and Body may contain
// ${...} placeholders resolved against the run's variables at render time.
type EmailTemplate struct {
	ID      string
	Subject string
	Body    string
}

// TemplateStore holds email and PDF templates in memory. It stands in for
// the product's template tables and is safe for concurrent use.
type TemplateStore struct {
	mu    sync.RWMutex
	email map[string]EmailTemplate
	pdf   map[string]protocol.PDFTemplate
}

func NewTemplateStore() *TemplateStore {
	return &TemplateStore{
		email: make(map[string]EmailTemplate),
		pdf:   make(map[string]protocol.PDFTemplate),
	}
}

func (s *TemplateStore) PutEmailTemplate(t EmailTemplate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.email[t.ID] = t
}

func (s *TemplateStore) PutPDFTemplate(t protocol.PDFTemplate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pdf[t.ID] = t
}

var tagsRe = regexp.MustCompile(`<[^>]*>`)

// Render implements protocol.TemplateRenderer. The plain-text part is the
// HTML body with tags stripped.
func (s *TemplateStore) Render(_ context.Context, templateID string, data map[string]any) (*protocol.RenderedTemplate, error) {
	s.mu.RLock()
	t, ok := s.email[templateID]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("email template %s not found", templateID)
	}

	subject, err := expr.EvaluateString(t.Subject, data)
	if err != nil {
		return nil, err
	}

	html, err := expr.EvaluateString(t.Body, data)
	if err != nil {
		return nil, err
	}

	return &protocol.RenderedTemplate{
		Subject: subject,
		HTML:    html,
		Text:    tagsRe.ReplaceAllString(html, ""),
	}, nil
}

// Fetch implements protocol.PDFTemplateStore.
func (s *TemplateStore) Fetch(_ context.Context, templateID string) (*protocol.PDFTemplate, error) {
	s.mu.RLock()
	t, ok := s.pdf[templateID]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("pdf template %s not found", templateID)
	}

	return &t, nil
}
