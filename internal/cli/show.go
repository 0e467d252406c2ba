package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/aes/internal/evidence"
	"github.com/roach88/aes/internal/runner"
	"github.com/roach88/aes/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	OutDir    string
	From      string // "artifact" | "index"
	IndexPath string
}

// ShowResult pairs a run artifact with its content digest.
type ShowResult struct {
	Path   string           `json:"path"`
	Digest string           `json:"digest"`
	Run    runner.RunRecord `json:"run"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print a recorded run",
		Long: `Print the run artifact stored at <out>/runs/<run-id>.json together
with its canonical content digest.

With --from index the run is read from the SQLite index written by
'aes run --index' instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("out") && opts.Config.Out != "" {
				opts.OutDir = opts.Config.Out
			}
			if !cmd.Flags().Changed("index-path") {
				opts.IndexPath = opts.Config.Index.Path
			}
			return runShow(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.OutDir, "out", "out", "output directory")
	cmd.Flags().StringVar(&opts.From, "from", "artifact", "source of the run (artifact|index)")
	cmd.Flags().StringVar(&opts.IndexPath, "index-path", "", "index database path (default: <out>/index.db)")
	return cmd
}

func runShow(cmd *cobra.Command, opts *ShowOptions, runID string) error {
	if err := checkRunID(runID); err != nil {
		return WrapExitError(ExitCommandError, "invalid run id", err)
	}

	switch opts.From {
	case "artifact":
		return showArtifact(cmd, opts, runID)
	case "index":
		return showIndexed(cmd.Context(), cmd, opts, runID)
	default:
		return fmt.Errorf("invalid --from %q: must be artifact or index", opts.From)
	}
}

func showArtifact(cmd *cobra.Command, opts *ShowOptions, runID string) error {
	path := evidence.RunPath(opts.OutDir, runID)
	run, err := evidence.ReadRun(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load run", err)
	}

	digest, err := evidence.Digest(run)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to digest run", err)
	}

	if opts.Format == "json" {
		f := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}
		return f.Success(ShowResult{Path: path, Digest: digest, Run: run})
	}

	data, err := evidence.MarshalRun(run)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to render run", err)
	}
	out := cmd.OutOrStdout()
	out.Write(data)
	fmt.Fprintf(out, "digest: %s\n", digest)
	return nil
}

func showIndexed(ctx context.Context, cmd *cobra.Command, opts *ShowOptions, runID string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := openIndex(opts.IndexPath, opts.OutDir)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open index", err)
	}
	defer st.Close()

	run, err := st.GetRun(ctx, runID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load run", err)
	}

	if opts.Format == "json" {
		f := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}
		return f.Success(run)
	}

	printIndexedRun(cmd, run)
	return nil
}

func printIndexedRun(cmd *cobra.Command, run store.IndexedRun) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run_id: %s\n", run.RunID)
	fmt.Fprintf(out, "scenario: %s (%s)\n", run.ScenarioID, run.ScenarioTitle)
	fmt.Fprintf(out, "success: %t\n", run.Success)
	fmt.Fprintf(out, "started_at: %s\n", run.StartedAt)
	fmt.Fprintf(out, "completed_at: %s\n", run.CompletedAt)
	fmt.Fprintf(out, "artifact: %s\n", run.ArtifactPath)
	fmt.Fprintf(out, "digest: %s\n", run.Digest)
	fmt.Fprintln(out, "steps:")
	for _, step := range run.Steps {
		fmt.Fprintf(out, "  %s: %s\n", step.StepID, step.Goal)
	}
}
