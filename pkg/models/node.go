// Package models defines the core graph models for workflow execution.
package models

// NodeType represents the type of a workflow node.
type NodeType string

const (
	NodeTypeStart     NodeType = "start"
	NodeTypeTask      NodeType = "task"
	NodeTypeCondition NodeType = "condition"
	NodeTypeDelay     NodeType = "delay"
	NodeTypeEmail     NodeType = "email"
	NodeTypePDF       NodeType = "pdf"
	NodeTypePost      NodeType = "post"
	NodeTypeEnd       NodeType = "end"
)

// NodeTypes lists every node type the engine understands, in palette order.
func NodeTypes() []NodeType {
	return []NodeType{
		NodeTypeStart,
		NodeTypeTask,
		NodeTypeCondition,
		NodeTypeDelay,
		NodeTypeEmail,
		NodeTypePDF,
		NodeTypePost,
		NodeTypeEnd,
	}
}

// TemplateRef points at a stored template (PDF nodes carry one).
type TemplateRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// NodeData holds the display label and the type-specific configuration of a node.
type NodeData struct {
	Label      string         `json:"label"`
	Properties map[string]any `json:"properties,omitempty"`
	Template   *TemplateRef   `json:"template,omitempty"`
}

// Node represents a single step in a workflow graph.
type Node struct {
	ID   string   `json:"id"   validate:"required"`
	Type NodeType `json:"type" validate:"required"`
	Data NodeData `json:"data"`
}

// Property returns a configuration value by key, with a presence flag.
func (n *Node) Property(key string) (any, bool) {
	if n.Data.Properties == nil {
		return nil, false
	}

	v, ok := n.Data.Properties[key]

	return v, ok
}

// StringProperty returns a configuration value as a string. Missing keys and
// non-string values yield "".
func (n *Node) StringProperty(key string) string {
	v, ok := n.Property(key)
	if !ok {
		return ""
	}

	s, _ := v.(string)

	return s
}

// FindNode returns the node with the given ID from an ordered node list.
func FindNode(nodes []Node, id string) (*Node, bool) {
	for i := range nodes {
		if nodes[i].ID == id {
			return &nodes[i], true
		}
	}

	return nil, false
}

// FindStartNode returns the first node typed start.
func FindStartNode(nodes []Node) (*Node, bool) {
	for i := range nodes {
		if nodes[i].Type == NodeTypeStart {
			return &nodes[i], true
		}
	}

	return nil, false
}
