package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeProperties(t *testing.T) {
	node := Node{
		ID:   "n1",
		Type: NodeTypeTask,
		Data: NodeData{Properties: map[string]any{
			"action": "function",
			"count":  float64(3),
		}},
	}

	assert.Equal(t, "function", node.StringProperty("action"))
	assert.Equal(t, "", node.StringProperty("count"))
	assert.Equal(t, "", node.StringProperty("missing"))

	value, ok := node.Property("count")
	require.True(t, ok)
	assert.Equal(t, float64(3), value)

	bare := Node{ID: "n2", Type: NodeTypeStart}
	_, ok = bare.Property("anything")
	assert.False(t, ok)
}

func TestFindNode(t *testing.T) {
	nodes := []Node{
		{ID: "a", Type: NodeTypeStart},
		{ID: "b", Type: NodeTypeEnd},
	}

	found, ok := FindNode(nodes, "b")
	require.True(t, ok)
	assert.Equal(t, "b", found.ID)

	_, ok = FindNode(nodes, "ghost")
	assert.False(t, ok)

	start, ok := FindStartNode(nodes)
	require.True(t, ok)
	assert.Equal(t, "a", start.ID)

	_, ok = FindStartNode(nil)
	assert.False(t, ok)
}

func TestEdgeBranchLabel(t *testing.T) {
	labelled := Edge{ID: "e1", Source: "a", Target: "b", Data: &EdgeData{Condition: BranchTrue}}
	assert.Equal(t, BranchTrue, labelled.BranchLabel())

	// data.condition wins over the source handle.
	both := Edge{ID: "e2", Source: "a", Target: "b", SourceHandle: BranchFalse, Data: &EdgeData{Condition: BranchTrue}}
	assert.Equal(t, BranchTrue, both.BranchLabel())

	handleOnly := Edge{ID: "e3", Source: "a", Target: "b", SourceHandle: BranchFalse}
	assert.Equal(t, BranchFalse, handleOnly.BranchLabel())
}

func TestOutgoingAndIncomingEdges(t *testing.T) {
	edges := []Edge{
		{ID: "e1", Source: "a", Target: "b"},
		{ID: "e2", Source: "a", Target: "c"},
		{ID: "e3", Source: "b", Target: "c"},
	}

	out := OutgoingEdges(edges, "a")
	require.Len(t, out, 2)
	assert.Equal(t, "e1", out[0].ID)
	assert.Equal(t, "e2", out[1].ID)

	in := IncomingEdges(edges, "c")
	require.Len(t, in, 2)

	assert.Empty(t, OutgoingEdges(edges, "c"))
}

func TestExecutionRecordMarshalsDurationInMilliseconds(t *testing.T) {
	record := ExecutionRecord{
		NodeID:     "n1",
		Timestamp:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Status:     ExecutionStatusCompleted,
		DurationMS: 1500,
	}

	raw, err := json.Marshal(record)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, float64(1500), decoded["duration_ms"])
}

func TestExecutionContext(t *testing.T) {
	seed := map[string]any{"a": 1}
	state := NewExecutionContext("exec-1", "wf-1", "user-1", seed)

	// The seed map is copied, not aliased.
	state.Set("b", 2)
	assert.NotContains(t, seed, "b")

	value, ok := state.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, value)

	_, ok = state.Get("missing")
	assert.False(t, ok)

	var empty ExecutionContext
	empty.Set("k", "v")

	value, ok = empty.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", value)
}
