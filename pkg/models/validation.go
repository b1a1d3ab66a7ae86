package models

// ValidationError is a single defect found in a graph. NodeID is "" for
// graph-level defects.
type ValidationError struct {
	NodeID  string `json:"node_id"`
	Message string `json:"message"`
}

// ValidationResult is the outcome of validating a node/edge set. Warnings
// are advisory (dead branches and the like) and do not affect IsValid.
type ValidationResult struct {
	IsValid  bool              `json:"is_valid"`
	Errors   []ValidationError `json:"errors"`
	Warnings []ValidationError `json:"warnings,omitempty"`
}
