package expr

import "fmt"

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokString
	tokIdent
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
}

// scan tokenizes guard source. Identifiers are [A-Za-z_][A-Za-z0-9_]*,
// numbers are runs of digits and '.', strings are double-quoted with no
// escape sequences. Two-character operators are matched greedily before
// single-character ones. Whitespace is skipped.
func scan(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++

		case isIdentStart(c):
			start := i
			for i < len(src) && isIdentPart(src[i]) {
				i++
			}
			toks = append(toks, token{tokIdent, src[start:i]})

		case isDigit(c) || c == '.':
			start := i
			for i < len(src) && (isDigit(src[i]) || src[i] == '.') {
				i++
			}
			toks = append(toks, token{tokNumber, src[start:i]})

		case c == '"':
			i++
			start := i
			for i < len(src) && src[i] != '"' {
				i++
			}
			if i >= len(src) {
				return nil, fmt.Errorf("unterminated string literal at offset %d", start-1)
			}
			toks = append(toks, token{tokString, src[start:i]})
			i++

		case c == '(':
			toks = append(toks, token{tokLParen, "("})
			i++
		case c == ')':
			toks = append(toks, token{tokRParen, ")"})
			i++

		default:
			if i+1 < len(src) {
				switch two := src[i : i+2]; two {
				case "==", "!=", ">=", "<=", "&&", "||":
					toks = append(toks, token{tokOp, two})
					i += 2
					continue
				}
			}
			switch c {
			case '>', '<', '!':
				toks = append(toks, token{tokOp, string(c)})
				i++
			default:
				return nil, fmt.Errorf("unexpected character %q at offset %d", c, i)
			}
		}
	}
	toks = append(toks, token{tokEOF, ""})
	return toks, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
