package flow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_CleanFlow(t *testing.T) {
	f := New("demo")
	f.States = []State{{Name: "A"}, {Name: "B"}}
	f.Transitions = []Transition{{From: 0, To: 1, Event: "go"}}
	f.Steps = []SequenceStep{{Name: "s", Duration: 1}}
	f.Vars = []Variable{{Name: "x", Type: VarNumber}}

	warnings, err := Validate(f)
	require.NoError(t, err)
	assert.Empty(t, warnings)
}

func TestValidate_DanglingIndices(t *testing.T) {
	f := New("demo")
	f.States = []State{{Name: "A"}}
	f.Transitions = []Transition{
		{From: 0, To: 0, Event: "ok"},
		{From: 3, To: 0, Event: "badFrom"},
		{From: 0, To: -1, Event: "badTo"},
		{From: 5, To: 5, Event: "bothBad"},
	}

	_, err := Validate(f)
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	require.Len(t, ve.Issues, 4)
	assert.Equal(t, CodeDanglingFrom, ve.Issues[0].Code)
	assert.Equal(t, 1, ve.Issues[0].Index)
	assert.Equal(t, CodeDanglingTo, ve.Issues[1].Code)
	assert.Equal(t, 2, ve.Issues[1].Index)
	assert.Equal(t, CodeDanglingFrom, ve.Issues[2].Code)
	assert.Equal(t, CodeDanglingTo, ve.Issues[3].Code)
	assert.Equal(t, 3, ve.Issues[3].Index)

	assert.True(t, IsValidationError(err))
}

func TestValidate_NoStatesMakesAnyTransitionDangle(t *testing.T) {
	f := New("demo")
	f.Transitions = []Transition{{From: 0, To: 0, Event: "go"}}

	_, err := Validate(f)
	assert.True(t, IsValidationError(err))
}

func TestValidate_NegativeDurationWarns(t *testing.T) {
	f := New("demo")
	f.Steps = []SequenceStep{
		{Name: "ok", Duration: 0},
		{Name: "bad", Duration: -2},
	}

	warnings, err := Validate(f)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, CodeNegativeDuration, warnings[0].Code)
	assert.Equal(t, 1, warnings[0].Index)
}

func TestValidate_ShadowedVariableWarns(t *testing.T) {
	f := New("demo")
	f.Vars = []Variable{
		{Name: "flag", Type: VarNumber},
		{Name: "flag", Type: VarBool},
		{Name: "other", Type: VarString},
	}

	warnings, err := Validate(f)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, CodeVarShadowed, warnings[0].Code)
	assert.Equal(t, 1, warnings[0].Index)
}

func TestValidate_SameTypeDuplicateIsNotShadowing(t *testing.T) {
	f := New("demo")
	f.Vars = []Variable{
		{Name: "x", Type: VarNumber, Num: 1},
		{Name: "x", Type: VarNumber, Num: 2},
	}

	warnings, err := Validate(f)
	require.NoError(t, err)
	assert.Empty(t, warnings)
}

func TestValidate_WarningsSurviveAlongsideErrors(t *testing.T) {
	f := New("demo")
	f.Transitions = []Transition{{From: 0, To: 0, Event: "go"}}
	f.Steps = []SequenceStep{{Name: "bad", Duration: -1}}

	warnings, err := Validate(f)
	require.Error(t, err)
	assert.Len(t, warnings, 1)
}

func TestIssue_String(t *testing.T) {
	i := Issue{Code: CodeDanglingTo, Index: 2, Message: "boom"}
	assert.Equal(t, "DANGLING_TO[2]: boom", i.String())
}
