package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptimize_Twitter(t *testing.T) {
	optimizer := NewOptimizer()

	long := strings.Repeat("a", 400)
	tags := []string{"one", "two", "three", "four"}

	result := optimizer.Optimize(PlatformTwitter, long, tags)

	assert.Equal(t, []string{"one", "two", "three"}, result.Hashtags)
	assert.LessOrEqual(t, len(result.Content)+len(strings.Join(result.Hashtags, " "))+1, 280)
}

func TestOptimize_TwitterShortContentUntouched(t *testing.T) {
	optimizer := NewOptimizer()

	result := optimizer.Optimize(PlatformTwitter, "short post", []string{"go"})

	assert.Equal(t, "short post", result.Content)
	assert.Equal(t, []string{"go"}, result.Hashtags)
}

func TestOptimize_LinkedInSpacing(t *testing.T) {
	optimizer := NewOptimizer()

	result := optimizer.Optimize(PlatformLinkedIn, "First line.  \nSecond line.", []string{"a", "b", "c", "d"})

	assert.Equal(t, "First line.\n\nSecond line.", result.Content)
	assert.Equal(t, []string{"a", "b", "c"}, result.Hashtags)
}

func TestOptimize_Facebook(t *testing.T) {
	optimizer := NewOptimizer()

	result := optimizer.Optimize(PlatformFacebook, "Hello", []string{"a", "b", "c", "d", "e"})

	assert.Equal(t, "Hello", result.Content)
	assert.Equal(t, []string{"a", "b", "c", "d"}, result.Hashtags)
}

func TestOptimize_Instagram(t *testing.T) {
	optimizer := NewOptimizer()

	long := strings.Repeat("b", 3000)

	result := optimizer.Optimize(PlatformInstagram, long, nil)

	assert.Len(t, result.Content, 2200)
}

func TestOptimize_UnknownPlatformPassthrough(t *testing.T) {
	optimizer := NewOptimizer()

	result := optimizer.Optimize("mastodon", "Hello", []string{"a"})

	assert.Equal(t, "Hello", result.Content)
	assert.Equal(t, []string{"a"}, result.Hashtags)
}
