package services

import (
	"strings"

	"github.com/flowmatic/flowmatic/pkg/protocol"
)

// Platform names accepted by the post node.
const (
	PlatformTwitter   = "twitter"
	PlatformFacebook  = "facebook"
	PlatformInstagram = "instagram"
	PlatformLinkedIn  = "linkedin"
)

// Optimizer implements protocol.ContentOptimizer with per-platform length
// and hashtag rules.
type Optimizer struct{}

func NewOptimizer() *Optimizer {
	return &Optimizer{}
}

func (o *Optimizer) Optimize(platform, content string, hashtags []string) protocol.PostContent {
	switch platform {
	case PlatformTwitter:
		hashtags = capTags(hashtags, 3)

		// Leave room for the hashtags within the 280-character limit.
		limit := 280 - len(strings.Join(hashtags, " ")) - 1
		if limit < 0 {
			limit = 0
		}

		return protocol.PostContent{Content: truncate(content, limit), Hashtags: hashtags}
	case PlatformLinkedIn:
		lines := strings.Split(content, "\n")
		for i, line := range lines {
			lines[i] = strings.TrimSpace(line)
		}

		return protocol.PostContent{
			Content:  strings.Join(lines, "\n\n"),
			Hashtags: capTags(hashtags, 3),
		}
	case PlatformFacebook:
		return protocol.PostContent{Content: content, Hashtags: capTags(hashtags, 4)}
	case PlatformInstagram:
		return protocol.PostContent{Content: truncate(content, 2200), Hashtags: capTags(hashtags, 30)}
	default:
		return protocol.PostContent{Content: content, Hashtags: hashtags}
	}
}

func capTags(tags []string, max int) []string {
	if len(tags) > max {
		return tags[:max]
	}

	return tags
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	return s[:limit]
}
