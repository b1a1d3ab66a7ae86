// Package post provides the social post node: optimize content for the
// target platform and publish it.
package post

import (
	"context"
	"errors"
	"time"

	"github.com/flowmatic/flowmatic/pkg/expr"
	"github.com/flowmatic/flowmatic/pkg/models"
	"github.com/flowmatic/flowmatic/pkg/protocol"
)

type Executor struct {
	optimizer protocol.ContentOptimizer
	publisher protocol.SocialPublisher
}

func NewExecutor(optimizer protocol.ContentOptimizer, publisher protocol.SocialPublisher) *Executor {
	return &Executor{optimizer: optimizer, publisher: publisher}
}

func (e *Executor) Type() models.NodeType {
	return models.NodeTypePost
}

func (e *Executor) Execute(ctx context.Context, state *models.ExecutionContext, node *models.Node) error {
	platform := node.StringProperty("platform")
	if platform == "" {
		return errors.New("missing post platform")
	}

	content, err := expr.EvaluateString(node.StringProperty("content"), state.Variables)
	if err != nil {
		return err
	}

	if content == "" {
		return errors.New("missing post content")
	}

	optimized := e.optimizer.Optimize(platform, content, hashtags(node))

	if raw := node.StringProperty("scheduledFor"); raw != "" {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return errors.New("scheduledFor is not an RFC3339 timestamp")
		}

		optimized.ScheduledFor = &at
	}

	postID, err := e.publisher.Publish(ctx, platform, optimized)
	if err != nil {
		return protocol.NewExternalServiceError("social", err)
	}

	state.Set(node.ID+"_post", postID)

	return nil
}

func hashtags(node *models.Node) []string {
	raw, ok := node.Property("hashtags")
	if !ok {
		return nil
	}

	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		tags := make([]string, 0, len(v))

		for _, item := range v {
			if s, ok := item.(string); ok {
				tags = append(tags, s)
			}
		}

		return tags
	default:
		return nil
	}
}

func (e *Executor) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"platform": map[string]any{
				"type": "string",
				"enum": []any{"twitter", "facebook", "instagram", "linkedin"},
			},
			"content": map[string]any{
				"type":      "string",
				"minLength": 1,
			},
			"hashtags": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"scheduledFor": map[string]any{
				"type":   "string",
				"format": "date-time",
			},
		},
		"required": []any{"platform", "content"},
	}
}
