package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/myu/flowc/internal/codec"
	"github.com/myu/flowc/internal/config"
	"github.com/myu/flowc/internal/flow"
	"github.com/myu/flowc/internal/gen"
	"github.com/myu/flowc/internal/history"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	ConfigPath string
	OutputDir  string // overrides the config when set
	SkipPatch  bool
	HistoryDB  string
}

// GenerateReport is the generate command's payload.
type GenerateReport struct {
	Flow      string            `json:"flow"`
	OutputDir string            `json:"output_dir"`
	Artifacts []string          `json:"artifacts"`
	Warnings  []flow.Issue      `json:"warnings,omitempty"`
	Patch     []gen.PointResult `json:"patch,omitempty"`
	RunID     string            `json:"run_id,omitempty"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate runtime and trigger units, then patch the host",
		Long: `Load the project's flow, validate it, emit the runtime and trigger
units into the output directory, wire them into the host source file, and
record the run in the generation history.

Generation overwrites prior generated output; the host file is edited in
place with idempotent insertions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", config.DefaultFileName, "project config file")
	cmd.Flags().StringVarP(&opts.OutputDir, "output", "o", "", "output directory (overrides config)")
	cmd.Flags().BoolVar(&opts.SkipPatch, "skip-patch", false, "emit artifacts without touching the host file")
	cmd.Flags().StringVar(&opts.HistoryDB, "history-db", history.DefaultPath, "generation history database")

	return cmd
}

func runGenerate(opts *GenerateOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
		return WrapExitError(ExitCommandError, "loading config", err)
	}

	f, err := codec.Load(cfg.Flow)
	if err != nil {
		_ = formatter.Error(ErrCodeFlowLoad, err.Error(), nil)
		return WrapExitError(ExitCommandError, "loading flow", err)
	}
	formatter.VerboseLog("Loaded flow %q from %s", f.Name, cfg.Flow)

	arts, warnings, err := gen.Generate(f, gen.Options{Package: cfg.Package})
	if err != nil {
		var ve *flow.ValidationError
		if errors.As(err, &ve) {
			_ = formatter.Error(ErrCodeValidation, err.Error(), ve.Issues)
			return WrapExitError(ExitFailure, "flow validation failed", err)
		}
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "generating", err)
	}

	outDir := cfg.OutputDir
	if opts.OutputDir != "" {
		outDir = opts.OutputDir
	}
	if err := gen.WriteArtifacts(outDir, arts); err != nil {
		_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "writing artifacts", err)
	}
	formatter.VerboseLog("Wrote %s and %s to %s", gen.RuntimeFileName, gen.TriggersFileName, outDir)

	report := GenerateReport{
		Flow:      f.Name,
		OutputDir: outDir,
		Artifacts: []string{gen.RuntimeFileName, gen.TriggersFileName},
		Warnings:  warnings,
	}

	patched := false
	if cfg.Host != nil && !opts.SkipPatch {
		result, err := gen.Patch(cfg.Host.File, f, cfg.PatchOptions())
		if err != nil {
			_ = formatter.Error(ErrCodePatch, err.Error(), report)
			return WrapExitError(ExitCommandError, "patching host", err)
		}
		report.Patch = result.Points
		patched = result.Changed
	}

	report.RunID = recordRun(formatter, opts.HistoryDB, f, outDir, arts, patched)

	return outputGenerateReport(formatter, report)
}

// recordRun appends the run to the history database. History is
// bookkeeping: any failure here is a warning, never a generation failure.
func recordRun(formatter *OutputFormatter, dbPath string, f *flow.Flow, outDir string, arts *gen.Artifacts, patched bool) string {
	if dbPath == "" {
		return ""
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			formatter.VerboseLog("warning: history skipped: %v", err)
			return ""
		}
	}
	store, err := history.Open(dbPath)
	if err != nil {
		formatter.VerboseLog("warning: history skipped: %v", err)
		return ""
	}
	defer store.Close()

	run, err := store.Record(history.Run{
		FlowName:       f.Name,
		FlowVersion:    f.Version,
		OutputDir:      outDir,
		RuntimeSHA256:  history.HashArtifact(arts.Runtime),
		TriggersSHA256: history.HashArtifact(arts.Triggers),
		Patched:        patched,
	})
	if err != nil {
		formatter.VerboseLog("warning: history skipped: %v", err)
		return ""
	}
	return run.ID
}

func outputGenerateReport(formatter *OutputFormatter, report GenerateReport) error {
	if formatter.Format == "json" {
		return formatter.Success(report)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ Generated %s flow into %s\n", report.Flow, report.OutputDir)
	for _, name := range report.Artifacts {
		fmt.Fprintf(w, "  %s\n", name)
	}
	for _, issue := range report.Warnings {
		fmt.Fprintf(w, "  warning %s\n", issue)
	}
	if len(report.Patch) > 0 {
		fmt.Fprintln(w, "Host patch:")
		for _, p := range report.Patch {
			fmt.Fprintf(w, "  %-8s %s\n", p.Point, p.Status)
		}
	}
	return nil
}
