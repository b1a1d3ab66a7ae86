package workflow

import (
	"fmt"

	"github.com/flowmatic/flowmatic/pkg/models"
)

// Validate statically checks a node/edge set for structural defects and
// missing per-type configuration. It is pure and idempotent: the same graph
// always yields the same result, and nothing is mutated.
//
// Errors make the graph invalid. Warnings (nodes unreachable from start)
// are advisory only.
func Validate(nodes []models.Node, edges []models.Edge) models.ValidationResult {
	var errs, warnings []models.ValidationError

	graphError := func(message string) {
		errs = append(errs, models.ValidationError{NodeID: "", Message: message})
	}
	nodeError := func(nodeID, message string) {
		errs = append(errs, models.ValidationError{NodeID: nodeID, Message: message})
	}

	startCount := 0
	endCount := 0

	for i := range nodes {
		switch nodes[i].Type {
		case models.NodeTypeStart:
			startCount++
		case models.NodeTypeEnd:
			endCount++
		}
	}

	switch {
	case startCount == 0:
		graphError("workflow must have a start node")
	case startCount > 1:
		graphError("workflow can only have one start node")
	}

	if endCount == 0 {
		graphError("workflow must have an end node")
	}

	for _, edge := range edges {
		if _, ok := models.FindNode(nodes, edge.Source); !ok {
			graphError(fmt.Sprintf("edge %s references unknown source node %s", edge.ID, edge.Source))
		}

		if _, ok := models.FindNode(nodes, edge.Target); !ok {
			graphError(fmt.Sprintf("edge %s references unknown target node %s", edge.ID, edge.Target))
		}
	}

	reachable := map[string]bool{}

	if start, ok := models.FindStartNode(nodes); ok && startCount == 1 {
		if hasCycle(start.ID, edges, reachable, map[string]bool{}) {
			graphError("workflow contains circular dependencies")
		}
	}

	for i := range nodes {
		node := &nodes[i]

		validateProperties(node, nodeError)

		outgoing := models.OutgoingEdges(edges, node.ID)
		incoming := models.IncomingEdges(edges, node.ID)

		if node.Type == models.NodeTypeStart && len(incoming) > 0 {
			nodeError(node.ID, "start node cannot have incoming connections")
		}

		if node.Type == models.NodeTypeEnd && len(outgoing) > 0 {
			nodeError(node.ID, "end node cannot have outgoing connections")
		}

		if node.Type == models.NodeTypeCondition {
			if len(outgoing) != 2 {
				nodeError(node.ID, "condition node must have exactly two outputs")
			}

			hasTrue := false
			hasFalse := false

			for _, edge := range outgoing {
				switch edge.BranchLabel() {
				case models.BranchTrue:
					hasTrue = true
				case models.BranchFalse:
					hasFalse = true
				}
			}

			if !hasTrue || !hasFalse {
				nodeError(node.ID, "condition node must have both true and false paths")
			}
		}

		if startCount == 1 && node.Type != models.NodeTypeStart && !reachable[node.ID] {
			warnings = append(warnings, models.ValidationError{
				NodeID:  node.ID,
				Message: "node is not reachable from the start node",
			})
		}
	}

	return models.ValidationResult{
		IsValid:  len(errs) == 0,
		Errors:   errs,
		Warnings: warnings,
	}
}

// validateProperties applies the per-type required-property rules.
func validateProperties(node *models.Node, nodeError func(nodeID, message string)) {
	switch node.Type {
	case models.NodeTypeEmail:
		if node.StringProperty("templateId") == "" {
			nodeError(node.ID, "email template is required")
		}

		if node.StringProperty("recipients") == "" {
			nodeError(node.ID, "recipients are required")
		}
	case models.NodeTypePDF:
		if node.Data.Template == nil || node.Data.Template.ID == "" {
			nodeError(node.ID, "pdf template is required")
		}

		output := node.StringProperty("output")
		if output == "" {
			nodeError(node.ID, "output type is required")
		}

		if output == "email" && node.StringProperty("recipients") == "" {
			nodeError(node.ID, "recipients are required for email output")
		}
	case models.NodeTypeDelay:
		if seconds, ok := delaySeconds(node); !ok || seconds < 0 {
			nodeError(node.ID, "valid delay duration is required")
		}
	case models.NodeTypeCondition:
		if node.StringProperty("condition") == "" {
			nodeError(node.ID, "condition expression is required")
		}
	case models.NodeTypeTask:
		action := node.StringProperty("action")
		if action == "" {
			nodeError(node.ID, "task action is required")
		}

		if action == "function" && node.StringProperty("function") == "" {
			nodeError(node.ID, "function name is required")
		}
	}
}

func delaySeconds(node *models.Node) (float64, bool) {
	v, ok := node.Property("delay")
	if !ok {
		return 0, false
	}

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

// hasCycle walks the graph depth-first from nodeID, marking reachable nodes
// along the way. A back-edge into a node still on the recursion stack is a
// cycle. Nodes not reachable from the start are never walked, so the check
// terminates on disconnected graphs.
func hasCycle(nodeID string, edges []models.Edge, visited, stack map[string]bool) bool {
	visited[nodeID] = true
	stack[nodeID] = true

	for _, edge := range edges {
		if edge.Source != nodeID {
			continue
		}

		if !visited[edge.Target] {
			if hasCycle(edge.Target, edges, visited, stack) {
				return true
			}
		} else if stack[edge.Target] {
			return true
		}
	}

	stack[nodeID] = false

	return false
}
