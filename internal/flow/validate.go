package flow

import (
	"errors"
	"fmt"
)

// ValidationCode categorizes structural problems found in a flow.
type ValidationCode string

const (
	// CodeDanglingFrom means a transition's From index is out of range.
	CodeDanglingFrom ValidationCode = "DANGLING_FROM"

	// CodeDanglingTo means a transition's To index is out of range.
	CodeDanglingTo ValidationCode = "DANGLING_TO"

	// CodeNegativeDuration means a sequence step has a duration below zero.
	CodeNegativeDuration ValidationCode = "NEGATIVE_DURATION"

	// CodeVarShadowed means the same variable name exists in more than one
	// typed store; lookup order (string, bool, number) decides which wins.
	CodeVarShadowed ValidationCode = "VAR_SHADOWED"
)

// Issue is one validation finding. Index points into the list named by the
// code (transitions, steps, or vars).
type Issue struct {
	Code    ValidationCode
	Index   int
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s[%d]: %s", i.Code, i.Index, i.Message)
}

// ValidationError aggregates the errors that make a flow ungeneratable.
// Warnings never appear here.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "flow validation failed"
	}
	return fmt.Sprintf("flow validation failed: %s (%d issue(s))",
		e.Issues[0].String(), len(e.Issues))
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Validate checks a flow's structural integrity before generation.
//
// Dangling transition indices are errors: the editor performs no referential
// bookkeeping when states are reordered or deleted, so stale indices must be
// caught here rather than miscompiled into the runtime. Shadowed variable
// names and negative durations are survivable and come back as warnings.
func Validate(f *Flow) (warnings []Issue, err error) {
	var errs []Issue

	n := len(f.States)
	for i, t := range f.Transitions {
		if t.From < 0 || t.From >= n {
			errs = append(errs, Issue{
				Code:    CodeDanglingFrom,
				Index:   i,
				Message: fmt.Sprintf("transition %q: from-state %d not in [0,%d)", t.Event, t.From, n),
			})
		}
		if t.To < 0 || t.To >= n {
			errs = append(errs, Issue{
				Code:    CodeDanglingTo,
				Index:   i,
				Message: fmt.Sprintf("transition %q: to-state %d not in [0,%d)", t.Event, t.To, n),
			})
		}
	}

	for i, s := range f.Steps {
		if s.Duration < 0 {
			warnings = append(warnings, Issue{
				Code:    CodeNegativeDuration,
				Index:   i,
				Message: fmt.Sprintf("step %q: duration %v treated as 0", s.Name, s.Duration),
			})
		}
	}

	seen := make(map[string]VarType, len(f.Vars))
	for i, v := range f.Vars {
		if prev, ok := seen[v.Name]; ok && prev != v.Type {
			warnings = append(warnings, Issue{
				Code:    CodeVarShadowed,
				Index:   i,
				Message: fmt.Sprintf("variable %q exists as both %s and %s; string, then bool, then number wins at lookup", v.Name, prev, v.Type),
			})
			continue
		}
		seen[v.Name] = v.Type
	}

	if len(errs) > 0 {
		return warnings, &ValidationError{Issues: errs}
	}
	return warnings, nil
}
