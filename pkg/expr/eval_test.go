package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapResolver backs identifier lookup in tests.
type mapResolver map[string]Value

func (m mapResolver) Resolve(name string) (Value, bool) {
	v, ok := m[name]
	return v, ok
}

func evalSrc(t *testing.T, src string, r Resolver) Value {
	t.Helper()
	v, err := EvalString(src, r)
	require.NoError(t, err, "eval %q", src)
	return v
}

func TestEval_Comparisons(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{`1 < 2 && 2 < 3`, true},
		{`"a" == "a"`, true},
		{`"a" == "b"`, false},
		{`"a" != "b"`, true},
		{`!false`, true},
		{`!true`, false},
		{`true || false && false`, true}, // || binds looser than &&
		{`(true || false) && false`, false},
		{`1 == 1`, true},
		{`1 != 1`, false},
		{`2 >= 2`, true},
		{`2 <= 1`, false},
		{`3 > 2 == 1 < 2`, true}, // relational binds tighter than equality
		{`!(1 < 2)`, false},
		{`!!true`, true},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			v := evalSrc(t, tt.src, nil)
			assert.Equal(t, Bool(tt.want), v)
		})
	}
}

func TestEval_Variables(t *testing.T) {
	vars := mapResolver{
		"x":     Number(5),
		"ready": Bool(true),
		"mode":  String("easy"),
	}

	tests := []struct {
		src  string
		want bool
	}{
		{`x >= 5`, true},
		{`x > 5`, false},
		{`x == 5`, true},
		{`ready`, true},
		{`ready && x == 5`, true},
		{`mode == "easy"`, true},
		{`mode == "hard"`, false},
		{`mode != "hard"`, true},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			v := evalSrc(t, tt.src, vars)
			assert.Equal(t, Bool(tt.want), v)
		})
	}
}

func TestEval_AbsentIdentDefaultsToZero(t *testing.T) {
	assert.Equal(t, Bool(true), evalSrc(t, `missing == 0`, nil))
	assert.Equal(t, Bool(false), evalSrc(t, `missing != 0`, mapResolver{}))
	assert.False(t, Truthy(Eval(&Ident{Name: "missing"}, mapResolver{})))
}

func TestEval_StringNumberEquality(t *testing.T) {
	// If either side is a string, both compare as strings; numbers use
	// default decimal formatting.
	assert.Equal(t, Bool(true), evalSrc(t, `"5" == 5`, nil))
	assert.Equal(t, Bool(true), evalSrc(t, `5 == "5"`, nil))
	assert.Equal(t, Bool(false), evalSrc(t, `"5.0" == 5`, nil))
}

func TestEval_RelationalCoercion(t *testing.T) {
	// Relational operators are always numeric: strings coerce to 0,
	// bools to 1 or 0.
	assert.Equal(t, Bool(true), evalSrc(t, `"a" < 1`, nil))
	assert.Equal(t, Bool(true), evalSrc(t, `true > 0`, nil))
	assert.Equal(t, Bool(false), evalSrc(t, `false > 0`, nil))
}

func TestEval_Truthiness(t *testing.T) {
	assert.True(t, Truthy(Bool(true)))
	assert.False(t, Truthy(Bool(false)))
	assert.True(t, Truthy(String("x")))
	assert.False(t, Truthy(String("")))
	assert.True(t, Truthy(Number(0.5)))
	assert.False(t, Truthy(Number(0)))
	assert.False(t, Truthy(nil))
}

func TestEval_BothSidesEvaluated(t *testing.T) {
	// No short-circuit is required, but the truth table must hold even
	// when one side resolves to an absent identifier.
	assert.Equal(t, Bool(true), evalSrc(t, `true || missing`, nil))
	assert.Equal(t, Bool(false), evalSrc(t, `false && missing`, nil))
}

func TestEvalString_ParseError(t *testing.T) {
	_, err := EvalString(`1 <`, nil)
	require.Error(t, err)

	_, err = EvalString(`(1 < 2`, nil)
	require.Error(t, err)

	_, err = EvalString(`"unterminated`, nil)
	require.Error(t, err)

	_, err = EvalString(`a $ b`, nil)
	require.Error(t, err)
}
