package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/myu/flowc/internal/history"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DBPath string
	Limit  int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent generate runs",
		Long: `Show the generation history recorded by the generate command: run id,
flow, artifact hashes, and whether the host was patched.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", history.DefaultPath, "generation history database")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "maximum runs to list")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	// Opening would create an empty database, so check first.
	if _, err := os.Stat(opts.DBPath); os.IsNotExist(err) {
		if formatter.Format == "json" {
			return formatter.Success([]history.Run{})
		}
		fmt.Fprintln(formatter.Writer, "No generation history yet")
		return nil
	}

	store, err := history.Open(opts.DBPath)
	if err != nil {
		_ = formatter.Error(ErrCodeHistory, err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening history", err)
	}
	defer store.Close()

	runs, err := store.Recent(opts.Limit)
	if err != nil {
		_ = formatter.Error(ErrCodeHistory, err.Error(), nil)
		return WrapExitError(ExitCommandError, "listing history", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(runs)
	}

	w := formatter.Writer
	if len(runs) == 0 {
		fmt.Fprintln(w, "No generation history yet")
		return nil
	}
	for _, r := range runs {
		patched := " "
		if r.Patched {
			patched = "patched"
		}
		fmt.Fprintf(w, "%s  %-20s v%d  %s  %.12s %.12s  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"), r.FlowName, r.FlowVersion,
			r.OutputDir, r.RuntimeSHA256, r.TriggersSHA256, patched)
	}
	return nil
}
