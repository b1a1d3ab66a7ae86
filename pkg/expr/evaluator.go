// Package expr evaluates ${...} placeholder expressions against a workflow
// execution context.
//
// The grammar is deliberately restricted: dotted-path lookups into the
// context, string/number/boolean/null literals, comparison operators,
// boolean operators and parentheses. Expressions are parsed by a fixed
// recursive-descent parser; user-authored strings are never handed to a
// general-purpose code evaluator.
package expr

import (
	"fmt"
	"strings"
)

// Evaluate resolves every ${...} placeholder in input against vars.
//
// A string that is exactly one placeholder yields the resolved value with
// its original type. A string mixing placeholders and literal text yields
// the interpolated string. A string without placeholders is returned as-is.
func Evaluate(input string, vars map[string]any) (any, error) {
	start := strings.Index(input, "${")
	if start < 0 {
		return input, nil
	}

	// Whole-string placeholder keeps the value's type.
	if start == 0 {
		if end := closingBrace(input[2:]); end >= 0 && 2+end == len(input)-1 {
			return evalExpression(input[2:2+end], vars)
		}
	}

	var b strings.Builder

	rest := input
	for {
		i := strings.Index(rest, "${")
		if i < 0 {
			b.WriteString(rest)

			break
		}

		b.WriteString(rest[:i])

		end := closingBrace(rest[i+2:])
		if end < 0 {
			return nil, newError(input, "unterminated placeholder")
		}

		value, err := evalExpression(rest[i+2:i+2+end], vars)
		if err != nil {
			return nil, err
		}

		b.WriteString(stringify(value))

		rest = rest[i+2+end+1:]
	}

	return b.String(), nil
}

// closingBrace returns the index in s of the first } that is not inside a
// quoted string literal, or -1 if none exists.
func closingBrace(s string) int {
	var quote byte

	for i := 0; i < len(s); i++ {
		c := s[i]

		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '}':
			return i
		}
	}

	return -1
}

// EvaluateString resolves input and renders the result as a string.
func EvaluateString(input string, vars map[string]any) (string, error) {
	value, err := Evaluate(input, vars)
	if err != nil {
		return "", err
	}

	return stringify(value), nil
}

// EvaluateBool parses input as one condition expression and reduces the
// result to a truth value, used for condition branch selection.
//
// A condition is always an expression, never literal text: each ${...}
// placeholder becomes a parenthesized subexpression, so both
// "${user.plan} == 'pro'" and "${user.plan == 'pro'}" mean the comparison
// against the resolved value. Conditions that do not parse return an
// *EvaluationError rather than a truth value.
func EvaluateBool(input string, vars map[string]any) (bool, error) {
	expression, err := rewritePlaceholders(input)
	if err != nil {
		return false, err
	}

	resolved, err := evalExpression(expression, vars)
	if err != nil {
		return false, err
	}

	return Truthy(resolved), nil
}

// rewritePlaceholders turns every ${...} in input into a parenthesized
// subexpression. Bare inputs without placeholders pass through unchanged.
func rewritePlaceholders(input string) (string, error) {
	var b strings.Builder

	rest := input
	for {
		i := strings.Index(rest, "${")
		if i < 0 {
			b.WriteString(rest)

			break
		}

		b.WriteString(rest[:i])

		end := closingBrace(rest[i+2:])
		if end < 0 {
			return "", newError(input, "unterminated placeholder")
		}

		b.WriteString("(")
		b.WriteString(rest[i+2 : i+2+end])
		b.WriteString(")")

		rest = rest[i+2+end+1:]
	}

	return b.String(), nil
}

// Truthy reduces an arbitrary context value to a boolean following the
// usual rules: nil and zero values are false, everything else is true.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != "" && x != "false"
	case int:
		return x != 0
	case int32:
		return x != 0
	case int64:
		return x != 0
	case float32:
		return x != 0
	case float64:
		return x != 0
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	default:
		return true
	}
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		// Render integral floats without the trailing ".0" JSON decoding
		// gives every number.
		if x == float64(int64(x)) {
			return fmt.Sprintf("%d", int64(x))
		}

		return fmt.Sprintf("%v", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
