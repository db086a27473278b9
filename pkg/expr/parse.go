package expr

import (
	"fmt"
	"strconv"
)

// Node is a sealed interface over the parsed expression tree.
type Node interface {
	exprNode()
}

// Literal is a constant Number, String, or Bool.
type Literal struct {
	Val Value
}

func (*Literal) exprNode() {}

// Ident names a variable resolved at evaluation time.
type Ident struct {
	Name string
}

func (*Ident) exprNode() {}

// Unary is the '!' operator.
type Unary struct {
	Op string
	X  Node
}

func (*Unary) exprNode() {}

// Binary is a left-associative binary operation.
type Binary struct {
	Op   string
	L, R Node
}

func (*Binary) exprNode() {}

// Parse builds the expression tree for guard source.
//
// Grammar, descending precedence, all binary levels left-associative:
//
//	expr       := or
//	or         := and ('||' and)*
//	and        := equality ('&&' equality)*
//	equality   := relational (('=='|'!=') relational)*
//	relational := unary (('>'|'<'|'>='|'<=') unary)*
//	unary      := '!' unary | primary
//	primary    := NUMBER | STRING | IDENT | '(' expr ')'
func Parse(src string) (Node, error) {
	toks, err := scan(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	n, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, fmt.Errorf("unexpected %q after expression", p.peek().text)
	}
	return n, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) binary(ops []string, operand func() (Node, error)) (Node, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokOp || !contains(ops, t.text) {
			return left, nil
		}
		p.next()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: t.text, L: left, R: right}
	}
}

func (p *parser) or() (Node, error) {
	return p.binary([]string{"||"}, p.and)
}

func (p *parser) and() (Node, error) {
	return p.binary([]string{"&&"}, p.equality)
}

func (p *parser) equality() (Node, error) {
	return p.binary([]string{"==", "!="}, p.relational)
}

func (p *parser) relational() (Node, error) {
	return p.binary([]string{">", "<", ">=", "<="}, p.unary)
}

func (p *parser) unary() (Node, error) {
	if t := p.peek(); t.kind == tokOp && t.text == "!" {
		p.next()
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: "!", X: x}, nil
	}
	return p.primary()
}

func (p *parser) primary() (Node, error) {
	switch t := p.next(); t.kind {
	case tokNumber:
		// The scanner only admits digits and dots, so a failure here
		// means something like "1.2.3"; treat it as zero like the
		// rest of the language's numeric fallbacks.
		v, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			v = 0
		}
		return &Literal{Val: Number(v)}, nil

	case tokString:
		return &Literal{Val: String(t.text)}, nil

	case tokIdent:
		switch t.text {
		case "true":
			return &Literal{Val: Bool(true)}, nil
		case "false":
			return &Literal{Val: Bool(false)}, nil
		}
		return &Ident{Name: t.text}, nil

	case tokLParen:
		n, err := p.or()
		if err != nil {
			return nil, err
		}
		if t := p.next(); t.kind != tokRParen {
			return nil, fmt.Errorf("expected ')', found %q", t.text)
		}
		return n, nil

	case tokEOF:
		return nil, fmt.Errorf("unexpected end of expression")

	default:
		return nil, fmt.Errorf("unexpected %q", t.text)
	}
}

func contains(ops []string, op string) bool {
	for _, o := range ops {
		if o == op {
			return true
		}
	}
	return false
}
