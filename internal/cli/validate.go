package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/myu/flowc/internal/codec"
	"github.com/myu/flowc/internal/flow"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
}

// ValidationReport is the validate command's payload.
type ValidationReport struct {
	Flow        string       `json:"flow"`
	States      int          `json:"states"`
	Transitions int          `json:"transitions"`
	Steps       int          `json:"steps"`
	Triggers    int          `json:"triggers"`
	Vars        int          `json:"vars"`
	Warnings    []flow.Issue `json:"warnings,omitempty"`
	Errors      []flow.Issue `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	return &cobra.Command{
		Use:   "validate <flow-file>",
		Short: "Check a flow file for structural problems",
		Long: `Load a persisted flow and run the generation-time checks: dangling
transition indices are errors, shadowed variable names and negative step
durations are warnings.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	f, err := codec.Load(path)
	if err != nil {
		code := ExitCommandError
		if errors.Is(err, codec.ErrNotFlowFile) || errors.Is(err, codec.ErrUnsupportedVersion) {
			code = ExitFailure
		}
		_ = formatter.Error(ErrCodeFlowLoad, err.Error(), nil)
		return WrapExitError(code, "loading flow", err)
	}
	formatter.VerboseLog("Loaded flow %q: %d state(s), %d transition(s), %d step(s)",
		f.Name, len(f.States), len(f.Transitions), len(f.Steps))

	report := ValidationReport{
		Flow:        f.Name,
		States:      len(f.States),
		Transitions: len(f.Transitions),
		Steps:       len(f.Steps),
		Triggers:    len(f.Triggers),
		Vars:        len(f.Vars),
	}

	warnings, verr := flow.Validate(f)
	report.Warnings = warnings
	var ve *flow.ValidationError
	if errors.As(verr, &ve) {
		report.Errors = ve.Issues
	}

	if formatter.Format == "json" {
		if report.Errors != nil {
			_ = formatter.Error(ErrCodeValidation, verr.Error(), report)
			return NewExitError(ExitFailure, verr.Error())
		}
		return formatter.Success(report)
	}

	w := formatter.Writer
	if len(report.Errors) > 0 {
		fmt.Fprintf(w, "✗ %s: %d error(s)\n", f.Name, len(report.Errors))
		for _, issue := range report.Errors {
			fmt.Fprintf(w, "  error   %s\n", issue)
		}
	} else {
		fmt.Fprintf(w, "✓ %s: %d state(s), %d transition(s), %d step(s), %d trigger(s), %d var(s)\n",
			f.Name, report.States, report.Transitions, report.Steps, report.Triggers, report.Vars)
	}
	for _, issue := range report.Warnings {
		fmt.Fprintf(w, "  warning %s\n", issue)
	}

	if len(report.Errors) > 0 {
		return NewExitError(ExitFailure, "flow validation failed")
	}
	return nil
}
