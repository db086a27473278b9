package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Precedence(t *testing.T) {
	// a || b && c parses as a || (b && c)
	n, err := Parse(`a || b && c`)
	require.NoError(t, err)

	or, ok := n.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "||", or.Op)
	assert.IsType(t, &Ident{}, or.L)

	and, ok := or.R.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "&&", and.Op)
}

func TestParse_LeftAssociative(t *testing.T) {
	// a == b != c parses as (a == b) != c
	n, err := Parse(`a == b != c`)
	require.NoError(t, err)

	ne, ok := n.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "!=", ne.Op)

	eq, ok := ne.L.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "==", eq.Op)
}

func TestParse_Literals(t *testing.T) {
	n, err := Parse(`3.5`)
	require.NoError(t, err)
	assert.Equal(t, &Literal{Val: Number(3.5)}, n)

	n, err = Parse(`"hello"`)
	require.NoError(t, err)
	assert.Equal(t, &Literal{Val: String("hello")}, n)

	n, err = Parse(`true`)
	require.NoError(t, err)
	assert.Equal(t, &Literal{Val: Bool(true)}, n)

	n, err = Parse(`false`)
	require.NoError(t, err)
	assert.Equal(t, &Literal{Val: Bool(false)}, n)

	n, err = Parse(`someVar_2`)
	require.NoError(t, err)
	assert.Equal(t, &Ident{Name: "someVar_2"}, n)
}

func TestParse_UnaryChain(t *testing.T) {
	n, err := Parse(`!!x`)
	require.NoError(t, err)

	outer, ok := n.(*Unary)
	require.True(t, ok)
	inner, ok := outer.X.(*Unary)
	require.True(t, ok)
	assert.Equal(t, &Ident{Name: "x"}, inner.X)
}

func TestParse_Parens(t *testing.T) {
	n, err := Parse(`(a || b) && c`)
	require.NoError(t, err)

	and, ok := n.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "&&", and.Op)
	or, ok := and.L.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "||", or.Op)
}

func TestParse_Errors(t *testing.T) {
	for _, src := range []string{
		``,
		`1 2`,
		`&& a`,
		`a ||`,
		`(a`,
		`a)`,
		`a # b`,
	} {
		t.Run(src, func(t *testing.T) {
			_, err := Parse(src)
			assert.Error(t, err)
		})
	}
}

func TestScan_Operators(t *testing.T) {
	toks, err := scan(`>= <= == != && || > < ! ( )`)
	require.NoError(t, err)

	var texts []string
	for _, tok := range toks {
		if tok.kind != tokEOF {
			texts = append(texts, tok.text)
		}
	}
	assert.Equal(t, []string{">=", "<=", "==", "!=", "&&", "||", ">", "<", "!", "(", ")"}, texts)
}

func TestScan_GreedyTwoChar(t *testing.T) {
	// ">=" must not scan as ">" then "=".
	toks, err := scan(`a>=1`)
	require.NoError(t, err)
	require.Len(t, toks, 4) // ident, op, number, EOF
	assert.Equal(t, ">=", toks[1].text)
}

func TestScan_StringNoEscapes(t *testing.T) {
	toks, err := scan(`"a\b"`)
	require.NoError(t, err)
	require.Len(t, toks, 2)
	// Backslash is an ordinary character; there are no escapes.
	assert.Equal(t, `a\b`, toks[0].text)
}
