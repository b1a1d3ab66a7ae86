package expr

import (
	"reflect"
	"strconv"
	"strings"
	"unicode"
)

// evalExpression parses and evaluates one placeholder body.
func evalExpression(expression string, vars map[string]any) (any, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, newError(expression, "empty expression")
	}

	toks, err := lex(expression)
	if err != nil {
		return nil, err
	}

	p := &parser{source: expression, tokens: toks}

	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if p.peek().kind != tokEOF {
		return nil, newError(expression, "unexpected %q", p.peek().text)
	}

	return node.eval(expression, vars)
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokBool
	tokNull
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	num  float64
}

func lex(src string) ([]token, error) {
	var toks []token

	i := 0
	for i < len(src) {
		c := src[i]

		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "("})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")"})
			i++
		case c == '\'' || c == '"':
			end := strings.IndexByte(src[i+1:], c)
			if end < 0 {
				return nil, newError(src, "unterminated string literal")
			}

			toks = append(toks, token{kind: tokString, text: src[i+1 : i+1+end]})
			i += end + 2
		case strings.ContainsRune("=!<>&|", rune(c)):
			op, width, err := lexOperator(src, i)
			if err != nil {
				return nil, err
			}

			toks = append(toks, token{kind: tokOp, text: op})
			i += width
		case c >= '0' && c <= '9' || c == '-':
			j := i + 1
			for j < len(src) && (src[j] >= '0' && src[j] <= '9' || src[j] == '.') {
				j++
			}

			num, err := strconv.ParseFloat(src[i:j], 64)
			if err != nil {
				return nil, newError(src, "bad number %q", src[i:j])
			}

			toks = append(toks, token{kind: tokNumber, text: src[i:j], num: num})
			i = j
		case isIdentStart(rune(c)):
			j := i + 1
			for j < len(src) && isIdentPart(rune(src[j])) {
				j++
			}

			word := src[i:j]
			switch word {
			case "true", "false":
				toks = append(toks, token{kind: tokBool, text: word})
			case "null":
				toks = append(toks, token{kind: tokNull, text: word})
			default:
				toks = append(toks, token{kind: tokIdent, text: word})
			}

			i = j
		default:
			return nil, newError(src, "unexpected character %q", string(c))
		}
	}

	return append(toks, token{kind: tokEOF}), nil
}

func lexOperator(src string, i int) (string, int, error) {
	two := ""
	if i+1 < len(src) {
		two = src[i : i+2]
	}

	switch two {
	case "==", "!=", "<=", ">=", "&&", "||":
		return two, 2, nil
	}

	switch src[i] {
	case '<', '>', '!':
		return string(src[i]), 1, nil
	}

	return "", 0, newError(src, "unexpected operator %q", string(src[i]))
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.'
}

// --- AST ---

type astNode interface {
	eval(src string, vars map[string]any) (any, error)
}

type literalNode struct{ value any }

func (n literalNode) eval(string, map[string]any) (any, error) {
	return n.value, nil
}

type pathNode struct{ path string }

func (n pathNode) eval(src string, vars map[string]any) (any, error) {
	current := any(vars)

	for _, part := range strings.Split(n.path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, newError(src, "cannot descend into %q: not an object", part)
		}

		current, ok = m[part]
		if !ok {
			return nil, newError(src, "unknown variable %q", n.path)
		}
	}

	return current, nil
}

type unaryNode struct{ operand astNode }

func (n unaryNode) eval(src string, vars map[string]any) (any, error) {
	v, err := n.operand.eval(src, vars)
	if err != nil {
		return nil, err
	}

	return !Truthy(v), nil
}

type binaryNode struct {
	op          string
	left, right astNode
}

func (n binaryNode) eval(src string, vars map[string]any) (any, error) {
	left, err := n.left.eval(src, vars)
	if err != nil {
		return nil, err
	}

	// Short-circuit boolean operators.
	switch n.op {
	case "&&":
		if !Truthy(left) {
			return false, nil
		}

		right, err := n.right.eval(src, vars)
		if err != nil {
			return nil, err
		}

		return Truthy(right), nil
	case "||":
		if Truthy(left) {
			return true, nil
		}

		right, err := n.right.eval(src, vars)
		if err != nil {
			return nil, err
		}

		return Truthy(right), nil
	}

	right, err := n.right.eval(src, vars)
	if err != nil {
		return nil, err
	}

	switch n.op {
	case "==":
		return equals(left, right), nil
	case "!=":
		return !equals(left, right), nil
	case "<", "<=", ">", ">=":
		return compare(src, n.op, left, right)
	}

	return nil, newError(src, "unsupported operator %q", n.op)
}

// --- parser ---

type parser struct {
	source string
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	p.pos++

	return t
}

func (p *parser) parseOr() (astNode, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.peek().kind == tokOp && p.peek().text == "||" {
		p.next()

		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}

		left = binaryNode{op: "||", left: left, right: right}
	}

	return left, nil
}

func (p *parser) parseAnd() (astNode, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}

	for p.peek().kind == tokOp && p.peek().text == "&&" {
		p.next()

		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}

		left = binaryNode{op: "&&", left: left, right: right}
	}

	return left, nil
}

func (p *parser) parseComparison() (astNode, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	if p.peek().kind == tokOp {
		switch op := p.peek().text; op {
		case "==", "!=", "<", "<=", ">", ">=":
			p.next()

			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}

			return binaryNode{op: op, left: left, right: right}, nil
		}
	}

	return left, nil
}

func (p *parser) parseUnary() (astNode, error) {
	if p.peek().kind == tokOp && p.peek().text == "!" {
		p.next()

		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return unaryNode{operand: operand}, nil
	}

	return p.parsePrimary()
}

func (p *parser) parsePrimary() (astNode, error) {
	switch t := p.next(); t.kind {
	case tokNumber:
		return literalNode{value: t.num}, nil
	case tokString:
		return literalNode{value: t.text}, nil
	case tokBool:
		return literalNode{value: t.text == "true"}, nil
	case tokNull:
		return literalNode{value: nil}, nil
	case tokIdent:
		return pathNode{path: t.text}, nil
	case tokLParen:
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}

		if p.next().kind != tokRParen {
			return nil, newError(p.source, "missing closing parenthesis")
		}

		return inner, nil
	default:
		return nil, newError(p.source, "unexpected %q", t.text)
	}
}

// --- value helpers ---

func equals(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb
		}
	}

	return reflect.DeepEqual(a, b)
}

func compare(src, op string, a, b any) (bool, error) {
	fa, aok := toFloat(a)
	fb, bok := toFloat(b)

	if aok && bok {
		switch op {
		case "<":
			return fa < fb, nil
		case "<=":
			return fa <= fb, nil
		case ">":
			return fa > fb, nil
		case ">=":
			return fa >= fb, nil
		}
	}

	sa, aok := a.(string)
	sb, bok := b.(string)

	if aok && bok {
		switch op {
		case "<":
			return sa < sb, nil
		case "<=":
			return sa <= sb, nil
		case ">":
			return sa > sb, nil
		case ">=":
			return sa >= sb, nil
		}
	}

	return false, newError(src, "cannot order %T and %T", a, b)
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int32:
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
