// Package workflow provides graph validation and the execution runner.
package workflow

import "errors"

// Runner defensive errors. Graphs that passed validation never hit these,
// but the runner does not assume validation ran.
var (
	// ErrNoStartNode means the graph has no node typed start.
	ErrNoStartNode = errors.New("no start node found")

	// ErrDanglingGraph means traversal reached a non-end node with no
	// outgoing continuation.
	ErrDanglingGraph = errors.New("no continuation from non-end node")

	// ErrMaxStepsExceeded means traversal attempted more steps than the
	// graph has nodes; the guard against executing an unvalidated cyclic
	// graph forever.
	ErrMaxStepsExceeded = errors.New("maximum execution steps exceeded")
)
