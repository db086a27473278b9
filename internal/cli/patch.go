package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/myu/flowc/internal/codec"
	"github.com/myu/flowc/internal/config"
	"github.com/myu/flowc/internal/gen"
)

// PatchOptions holds flags for the patch command.
type PatchOptions struct {
	*RootOptions
	ConfigPath string
}

// PatchReport is the patch command's payload.
type PatchReport struct {
	HostFile string            `json:"host_file"`
	Changed  bool              `json:"changed"`
	Points   []gen.PointResult `json:"points"`
}

// NewPatchCommand creates the patch command.
func NewPatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "patch",
		Short: "Re-run the host patcher without regenerating",
		Long: `Apply the idempotent host insertions on their own. Each insertion
point is located by its marker substring; a missing marker skips only that
point. Running patch twice leaves the file byte-identical to running it
once.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPatch(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", config.DefaultFileName, "project config file")

	return cmd
}

func runPatch(opts *PatchOptions, cmd *cobra.Command) error {
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
	if cfg.Host == nil {
		_ = formatter.Error(ErrCodeConfig, "config has no host section; nothing to patch", nil)
		return NewExitError(ExitCommandError, "config has no host section")
	}

	f, err := codec.Load(cfg.Flow)
	if err != nil {
		_ = formatter.Error(ErrCodeFlowLoad, err.Error(), nil)
		return WrapExitError(ExitCommandError, "loading flow", err)
	}

	result, err := gen.Patch(cfg.Host.File, f, cfg.PatchOptions())
	if err != nil {
		_ = formatter.Error(ErrCodePatch, err.Error(), nil)
		return WrapExitError(ExitCommandError, "patching host", err)
	}

	report := PatchReport{HostFile: cfg.Host.File, Changed: result.Changed, Points: result.Points}
	if formatter.Format == "json" {
		return formatter.Success(report)
	}

	w := formatter.Writer
	if result.Changed {
		fmt.Fprintf(w, "✓ Patched %s\n", cfg.Host.File)
	} else {
		fmt.Fprintf(w, "✓ %s already up to date\n", cfg.Host.File)
	}
	for _, p := range result.Points {
		fmt.Fprintf(w, "  %-8s %s\n", p.Point, p.Status)
	}
	return nil
}
