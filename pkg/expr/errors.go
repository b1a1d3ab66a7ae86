package expr

import "fmt"

// EvaluationError reports an expression that could not be resolved against
// the execution context. It carries the offending expression so runners can
// surface it in history entries.
type EvaluationError struct {
	Expression string
	Message    string
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluate %q: %s", e.Expression, e.Message)
}

func newError(expression, format string, args ...any) *EvaluationError {
	return &EvaluationError{
		Expression: expression,
		Message:    fmt.Sprintf(format, args...),
	}
}
