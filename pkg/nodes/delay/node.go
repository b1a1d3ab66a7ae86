// Package delay provides the suspension node: it parks the current run for
// a configured number of seconds without blocking other runs.
package delay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/flowmatic/flowmatic/pkg/models"
)

type Executor struct{}

func NewExecutor() *Executor {
	return &Executor{}
}

func (e *Executor) Type() models.NodeType {
	return models.NodeTypeDelay
}

func (e *Executor) Execute(ctx context.Context, _ *models.ExecutionContext, node *models.Node) error {
	seconds, err := Seconds(node)
	if err != nil {
		return err
	}

	timer := time.NewTimer(time.Duration(seconds * float64(time.Second)))
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Seconds extracts and checks the delay duration from a node.
func Seconds(node *models.Node) (float64, error) {
	v, ok := node.Property("delay")
	if !ok {
		return 0, errors.New("missing delay duration")
	}

	seconds, ok := asFloat(v)
	if !ok {
		return 0, fmt.Errorf("delay duration is not a number: %v", v)
	}

	if seconds < 0 {
		return 0, fmt.Errorf("delay duration is negative: %v", seconds)
	}

	return seconds, nil
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}

func (e *Executor) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"delay": map[string]any{
				"type":        "number",
				"minimum":     0,
				"description": "Seconds to wait before continuing.",
			},
		},
		"required": []any{"delay"},
	}
}
