package expr

// Resolver supplies values for identifiers at evaluation time. The variable
// store owns the lookup order across its typed maps; the evaluator only
// asks for a name.
type Resolver interface {
	Resolve(name string) (Value, bool)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(name string) (Value, bool)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(name string) (Value, bool) {
	return f(name)
}

// Eval walks the tree and produces a value. Identifiers absent from the
// resolver default to Number(0). '&&' and '||' evaluate both sides —
// expressions have no side effects, so only the truth table matters.
func Eval(n Node, r Resolver) Value {
	switch x := n.(type) {
	case *Literal:
		return x.Val

	case *Ident:
		if r != nil {
			if v, ok := r.Resolve(x.Name); ok {
				return v
			}
		}
		return Number(0)

	case *Unary:
		return Bool(!Truthy(Eval(x.X, r)))

	case *Binary:
		l := Eval(x.L, r)
		rv := Eval(x.R, r)
		switch x.Op {
		case "||":
			return Bool(Truthy(l) || Truthy(rv))
		case "&&":
			return Bool(Truthy(l) && Truthy(rv))
		case "==":
			return Bool(Equal(l, rv))
		case "!=":
			return Bool(!Equal(l, rv))
		case ">":
			return Bool(NumberOf(l) > NumberOf(rv))
		case "<":
			return Bool(NumberOf(l) < NumberOf(rv))
		case ">=":
			return Bool(NumberOf(l) >= NumberOf(rv))
		case "<=":
			return Bool(NumberOf(l) <= NumberOf(rv))
		}
	}
	return Bool(false)
}

// EvalString parses and evaluates src in one call.
func EvalString(src string, r Resolver) (Value, error) {
	n, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return Eval(n, r), nil
}
