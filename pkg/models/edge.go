package models

// Branch labels carried by the outgoing edges of a condition node.
const (
	BranchTrue  = "true"
	BranchFalse = "false"
)

// EdgeData holds optional edge metadata; Condition is the branch label used
// to disambiguate the two outputs of a condition node.
type EdgeData struct {
	Condition string `json:"condition,omitempty"`
}

// Edge is a directed connection between two node IDs.
type Edge struct {
	ID           string    `json:"id"`
	Source       string    `json:"source" validate:"required"`
	Target       string    `json:"target" validate:"required"`
	SourceHandle string    `json:"source_handle,omitempty"`
	Data         *EdgeData `json:"data,omitempty"`
}

// BranchLabel returns the edge's branch label. The canonical location is
// data.condition; graph editors that label via the source handle are
// honored as a fallback.
func (e *Edge) BranchLabel() string {
	if e.Data != nil && e.Data.Condition != "" {
		return e.Data.Condition
	}

	return e.SourceHandle
}

// OutgoingEdges returns every edge leaving the given node, in input order.
func OutgoingEdges(edges []Edge, nodeID string) []Edge {
	var out []Edge

	for _, e := range edges {
		if e.Source == nodeID {
			out = append(out, e)
		}
	}

	return out
}

// IncomingEdges returns every edge entering the given node, in input order.
func IncomingEdges(edges []Edge, nodeID string) []Edge {
	var in []Edge

	for _, e := range edges {
		if e.Target == nodeID {
			in = append(in, e)
		}
	}

	return in
}
