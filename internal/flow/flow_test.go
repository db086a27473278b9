package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVarType_String(t *testing.T) {
	assert.Equal(t, "number", VarNumber.String())
	assert.Equal(t, "bool", VarBool.String())
	assert.Equal(t, "string", VarString.String())
}

func TestParseVarType(t *testing.T) {
	assert.Equal(t, VarNumber, ParseVarType("number"))
	assert.Equal(t, VarBool, ParseVarType("bool"))
	assert.Equal(t, VarString, ParseVarType("string"))
	// Unknown names fall back to number, the format's default.
	assert.Equal(t, VarNumber, ParseVarType("vector"))
	assert.Equal(t, VarNumber, ParseVarType(""))
}

func TestNew(t *testing.T) {
	f := New("demo")
	assert.Equal(t, "demo", f.Name)
	assert.Equal(t, Version, f.Version)
	assert.Empty(t, f.States)
}
