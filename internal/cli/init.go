package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/myu/flowc/internal/codec"
	"github.com/myu/flowc/internal/config"
	"github.com/myu/flowc/internal/flow"
)

// InitOptions holds flags for the init command.
type InitOptions struct {
	*RootOptions
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InitOptions{RootOptions: rootOpts}

	return &cobra.Command{
		Use:   "init <name>",
		Short: "Scaffold a flowc project",
		Long: `Write a starter flowc.yaml and <name>.flow in the working directory.
Existing files are never overwritten.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(opts, args[0], cmd)
		},
	}
}

func runInit(opts *InitOptions, name string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	flowPath := name + ".flow"
	for _, path := range []string{config.DefaultFileName, flowPath} {
		if _, err := os.Stat(path); err == nil {
			_ = formatter.Error(ErrCodeExists, fmt.Sprintf("%s already exists", path), nil)
			return NewExitError(ExitCommandError, path+" already exists")
		}
	}

	f := flow.New(name)
	f.States = append(f.States, flow.State{Name: "Idle"})

	if err := codec.Save(flowPath, f); err != nil {
		_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "writing flow", err)
	}

	cfgText := fmt.Sprintf(`name: %s
flow: %s
output_dir: gen
package: gen

# Uncomment to wire the generated flow into a host source file. Place the
# marker comments at the insertion points first.
#host:
#  file: game/game.go
#  receiver: g
`, name, flowPath)
	if err := os.WriteFile(config.DefaultFileName, []byte(cfgText), 0o644); err != nil {
		_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "writing config", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]string{
			"config": config.DefaultFileName,
			"flow":   flowPath,
		})
	}
	fmt.Fprintf(formatter.Writer, "✓ Created %s and %s\n", config.DefaultFileName, flowPath)
	return nil
}
