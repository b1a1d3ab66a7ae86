package pdf

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowmatic/flowmatic/pkg/models"
	"github.com/flowmatic/flowmatic/pkg/protocol"
)

type fakeTemplateStore struct {
	template *protocol.PDFTemplate
	err      error
}

func (s *fakeTemplateStore) Fetch(_ context.Context, templateID string) (*protocol.PDFTemplate, error) {
	if s.err != nil {
		return nil, s.err
	}

	return s.template, nil
}

type fakeRenderer struct {
	artifact []byte
	err      error
	data     map[string]any
}

func (r *fakeRenderer) Render(_ context.Context, _, _ []map[string]any, data map[string]any) ([]byte, error) {
	r.data = data

	return r.artifact, r.err
}

type fakeSender struct {
	err  error
	sent []protocol.EmailMessage
}

func (s *fakeSender) Send(_ context.Context, msg protocol.EmailMessage) (*protocol.SendReceipt, error) {
	s.sent = append(s.sent, msg)

	if s.err != nil {
		return nil, s.err
	}

	return &protocol.SendReceipt{MessageID: "msg-1"}, nil
}

type fakeArtifactStore struct {
	name string
	data []byte
}

func (s *fakeArtifactStore) Store(_ context.Context, name string, data []byte) (string, error) {
	s.name = name
	s.data = data

	return "artifacts/" + name, nil
}

func pdfNode(properties map[string]any) *models.Node {
	return &models.Node{
		ID:   "report",
		Type: models.NodeTypePDF,
		Data: models.NodeData{
			Template:   &models.TemplateRef{ID: "invoice"},
			Properties: properties,
		},
	}
}

func newExecutorWith(store *fakeTemplateStore, renderer *fakeRenderer, sender *fakeSender, artifacts protocol.ArtifactStore) *Executor {
	return NewExecutor(store, renderer, sender, artifacts, "noreply@flowmatic.local")
}

func defaultStore() *fakeTemplateStore {
	return &fakeTemplateStore{template: &protocol.PDFTemplate{
		ID:       "invoice",
		Elements: []map[string]any{{"type": "text"}},
	}}
}

func TestExecute_DownloadOutputStoresArtifactVariable(t *testing.T) {
	renderer := &fakeRenderer{artifact: []byte("%PDF-1.7")}
	executor := newExecutorWith(defaultStore(), renderer, &fakeSender{}, nil)

	state := models.NewExecutionContext("exec-1", "wf-1", "user-1", map[string]any{
		"formData": map[string]any{"total": float64(99)},
	})

	err := executor.Execute(context.Background(), state, pdfNode(map[string]any{"output": "download"}))

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"total": float64(99)}, renderer.data)

	artifact, ok := state.Get(models.VarGeneratedPDF)
	require.True(t, ok)
	assert.Equal(t, []byte("%PDF-1.7"), artifact)
}

func TestExecute_EmptyOutputDefaultsToDownload(t *testing.T) {
	executor := newExecutorWith(defaultStore(), &fakeRenderer{artifact: []byte("pdf")}, &fakeSender{}, nil)
	state := models.NewExecutionContext("exec-1", "wf-1", "user-1", nil)

	err := executor.Execute(context.Background(), state, pdfNode(nil))

	require.NoError(t, err)

	_, ok := state.Get(models.VarGeneratedPDF)
	assert.True(t, ok)
}

func TestExecute_EmailOutputAttachesArtifact(t *testing.T) {
	sender := &fakeSender{}
	executor := newExecutorWith(defaultStore(), &fakeRenderer{artifact: []byte("pdf")}, sender, nil)

	state := models.NewExecutionContext("exec-1", "wf-1", "user-1", map[string]any{
		"user": map[string]any{"email": "ada@example.com"},
	})

	node := pdfNode(map[string]any{
		"output":     "email",
		"recipients": "${user.email}",
	})

	err := executor.Execute(context.Background(), state, node)

	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, "ada@example.com", msg.To)
	assert.Equal(t, "Generated PDF Document", msg.Subject)
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "document.pdf", msg.Attachments[0].Filename)
	assert.Equal(t, []byte("pdf"), msg.Attachments[0].Content)
}

func TestExecute_EmailOutputWithoutRecipients(t *testing.T) {
	executor := newExecutorWith(defaultStore(), &fakeRenderer{artifact: []byte("pdf")}, &fakeSender{}, nil)
	state := models.NewExecutionContext("exec-1", "wf-1", "user-1", nil)

	err := executor.Execute(context.Background(), state, pdfNode(map[string]any{"output": "email"}))

	assert.EqualError(t, err, "recipients not configured for pdf email")
}

func TestExecute_StoreOutput(t *testing.T) {
	artifacts := &fakeArtifactStore{}
	executor := newExecutorWith(defaultStore(), &fakeRenderer{artifact: []byte("pdf")}, &fakeSender{}, artifacts)

	state := models.NewExecutionContext("exec-1", "wf-1", "user-1", nil)

	err := executor.Execute(context.Background(), state, pdfNode(map[string]any{"output": "store"}))

	require.NoError(t, err)
	assert.Equal(t, "report.pdf", artifacts.name)

	ref, ok := state.Get("report_artifact")
	require.True(t, ok)
	assert.Equal(t, "artifacts/report.pdf", ref)
}

func TestExecute_StoreOutputWithoutArtifactStore(t *testing.T) {
	executor := newExecutorWith(defaultStore(), &fakeRenderer{artifact: []byte("pdf")}, &fakeSender{}, nil)
	state := models.NewExecutionContext("exec-1", "wf-1", "user-1", nil)

	err := executor.Execute(context.Background(), state, pdfNode(map[string]any{"output": "store"}))

	assert.ErrorIs(t, err, protocol.ErrNotImplemented)
}

func TestExecute_MissingTemplate(t *testing.T) {
	executor := newExecutorWith(defaultStore(), &fakeRenderer{}, &fakeSender{}, nil)
	state := models.NewExecutionContext("exec-1", "wf-1", "user-1", nil)

	node := &models.Node{ID: "report", Type: models.NodeTypePDF}

	err := executor.Execute(context.Background(), state, node)

	assert.EqualError(t, err, "pdf template not configured")
}

func TestExecute_TemplateFetchFailure(t *testing.T) {
	store := &fakeTemplateStore{err: errors.New("not found")}
	executor := newExecutorWith(store, &fakeRenderer{}, &fakeSender{}, nil)

	state := models.NewExecutionContext("exec-1", "wf-1", "user-1", nil)

	err := executor.Execute(context.Background(), state, pdfNode(map[string]any{"output": "download"}))

	var serviceErr *protocol.ExternalServiceError

	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, "pdf-template", serviceErr.Service)
}

func TestExecute_RendererFailure(t *testing.T) {
	renderer := &fakeRenderer{err: errors.New("render crashed")}
	executor := newExecutorWith(defaultStore(), renderer, &fakeSender{}, nil)

	state := models.NewExecutionContext("exec-1", "wf-1", "user-1", nil)

	err := executor.Execute(context.Background(), state, pdfNode(map[string]any{"output": "download"}))

	var serviceErr *protocol.ExternalServiceError

	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, "pdf", serviceErr.Service)
}

func TestExecute_UnknownOutput(t *testing.T) {
	executor := newExecutorWith(defaultStore(), &fakeRenderer{artifact: []byte("pdf")}, &fakeSender{}, nil)
	state := models.NewExecutionContext("exec-1", "wf-1", "user-1", nil)

	err := executor.Execute(context.Background(), state, pdfNode(map[string]any{"output": "fax"}))

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown pdf output "fax"`)
}
