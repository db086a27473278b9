package flowrt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/myu/flowc/pkg/expr"
)

func TestVars_TypedGetSet(t *testing.T) {
	v := NewVars()

	v.SetNumber("hp", 10)
	v.SetBool("alive", true)
	v.SetString("name", "rook")

	assert.Equal(t, 10.0, v.GetNumber("hp"))
	assert.True(t, v.GetBool("alive"))
	assert.Equal(t, "rook", v.GetString("name"))
}

func TestVars_DefaultsForAbsentNames(t *testing.T) {
	v := NewVars()

	assert.Equal(t, 0.0, v.GetNumber("missing"))
	assert.False(t, v.GetBool("missing"))
	assert.Equal(t, "", v.GetString("missing"))
	assert.False(t, v.HasBool("missing"))
}

func TestVars_ResolveLookupOrder(t *testing.T) {
	// The same name in all three stores: string wins over bool wins
	// over number.
	v := NewVars()
	v.SetNumber("flag", 7)
	v.SetBool("flag", true)
	v.SetString("flag", "yes")

	val, ok := v.Resolve("flag")
	assert.True(t, ok)
	assert.Equal(t, expr.String("yes"), val)

	v2 := NewVars()
	v2.SetNumber("flag", 7)
	v2.SetBool("flag", false)
	val, ok = v2.Resolve("flag")
	assert.True(t, ok)
	assert.Equal(t, expr.Bool(false), val)

	v3 := NewVars()
	v3.SetNumber("flag", 7)
	val, ok = v3.Resolve("flag")
	assert.True(t, ok)
	assert.Equal(t, expr.Number(7), val)

	_, ok = NewVars().Resolve("flag")
	assert.False(t, ok)
}
