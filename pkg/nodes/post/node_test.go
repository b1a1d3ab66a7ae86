package post

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowmatic/flowmatic/pkg/models"
	"github.com/flowmatic/flowmatic/pkg/protocol"
)

type passthroughOptimizer struct {
	platform string
	content  string
	hashtags []string
}

func (o *passthroughOptimizer) Optimize(platform, content string, hashtags []string) protocol.PostContent {
	o.platform = platform
	o.content = content
	o.hashtags = hashtags

	return protocol.PostContent{Content: content, Hashtags: hashtags}
}

type fakePublisher struct {
	err      error
	platform string
	content  protocol.PostContent
}

func (p *fakePublisher) Publish(_ context.Context, platform string, content protocol.PostContent) (string, error) {
	p.platform = platform
	p.content = content

	if p.err != nil {
		return "", p.err
	}

	return "post-123", nil
}

func postNode(properties map[string]any) *models.Node {
	return &models.Node{
		ID:   "announce",
		Type: models.NodeTypePost,
		Data: models.NodeData{Properties: properties},
	}
}

func TestExecute_PublishesOptimizedContent(t *testing.T) {
	optimizer := &passthroughOptimizer{}
	publisher := &fakePublisher{}

	executor := NewExecutor(optimizer, publisher)
	state := models.NewExecutionContext("exec-1", "wf-1", "user-1", map[string]any{"product": "Flowmatic"})

	node := postNode(map[string]any{
		"platform": "twitter",
		"content":  "Launching ${product} today!",
		"hashtags": []any{"launch", "saas"},
	})

	err := executor.Execute(context.Background(), state, node)

	require.NoError(t, err)
	assert.Equal(t, "twitter", optimizer.platform)
	assert.Equal(t, "Launching Flowmatic today!", optimizer.content)
	assert.Equal(t, []string{"launch", "saas"}, optimizer.hashtags)
	assert.Equal(t, "twitter", publisher.platform)

	postID, ok := state.Get("announce_post")
	require.True(t, ok)
	assert.Equal(t, "post-123", postID)
}

func TestExecute_ScheduledFor(t *testing.T) {
	publisher := &fakePublisher{}
	executor := NewExecutor(&passthroughOptimizer{}, publisher)
	state := models.NewExecutionContext("exec-1", "wf-1", "user-1", nil)

	node := postNode(map[string]any{
		"platform":     "linkedin",
		"content":      "Scheduled announcement",
		"scheduledFor": "2026-09-01T09:00:00Z",
	})

	err := executor.Execute(context.Background(), state, node)

	require.NoError(t, err)
	require.NotNil(t, publisher.content.ScheduledFor)
	assert.Equal(t, time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC), publisher.content.ScheduledFor.UTC())
}

func TestExecute_BadScheduledFor(t *testing.T) {
	executor := NewExecutor(&passthroughOptimizer{}, &fakePublisher{})
	state := models.NewExecutionContext("exec-1", "wf-1", "user-1", nil)

	node := postNode(map[string]any{
		"platform":     "twitter",
		"content":      "Hello",
		"scheduledFor": "tomorrow",
	})

	err := executor.Execute(context.Background(), state, node)

	assert.EqualError(t, err, "scheduledFor is not an RFC3339 timestamp")
}

func TestExecute_MissingPlatform(t *testing.T) {
	executor := NewExecutor(&passthroughOptimizer{}, &fakePublisher{})
	state := models.NewExecutionContext("exec-1", "wf-1", "user-1", nil)

	err := executor.Execute(context.Background(), state, postNode(map[string]any{"content": "Hello"}))

	assert.EqualError(t, err, "missing post platform")
}

func TestExecute_MissingContent(t *testing.T) {
	executor := NewExecutor(&passthroughOptimizer{}, &fakePublisher{})
	state := models.NewExecutionContext("exec-1", "wf-1", "user-1", nil)

	err := executor.Execute(context.Background(), state, postNode(map[string]any{"platform": "twitter"}))

	assert.EqualError(t, err, "missing post content")
}

func TestExecute_PublisherFailure(t *testing.T) {
	publisher := &fakePublisher{err: errors.New("rate limited")}
	executor := NewExecutor(&passthroughOptimizer{}, publisher)

	state := models.NewExecutionContext("exec-1", "wf-1", "user-1", nil)

	node := postNode(map[string]any{"platform": "twitter", "content": "Hello"})

	err := executor.Execute(context.Background(), state, node)

	var serviceErr *protocol.ExternalServiceError

	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, "social", serviceErr.Service)

	_, ok := state.Get("announce_post")
	assert.False(t, ok)
}
