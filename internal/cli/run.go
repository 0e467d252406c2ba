package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/aes/internal/evidence"
	"github.com/roach88/aes/internal/metrics"
	"github.com/roach88/aes/internal/runner"
	"github.com/roach88/aes/internal/scenario"
	"github.com/roach88/aes/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	ScenarioPath string
	OutDir       string
	RunID        string
	Index        bool
	IndexPath    string
	MetricsFile  string
}

// RunResult is the payload reported after a successful run.
type RunResult struct {
	RunID      string `json:"run_id"`
	ScenarioID string `json:"scenario_id"`
	Success    bool   `json:"success"`
	RunPath    string `json:"run_path"`
	LogPath    string `json:"log_path"`
	Digest     string `json:"digest,omitempty"`
	IndexPath  string `json:"index_path,omitempty"`
}

// NewRunCommand creates the run command for executing a scenario.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a scenario and record evidence",
		Long: `Run a scenario with the stubbed Doer and Judge.

The run is written to <out>/runs/<run-id>.json and a one-line summary is
appended to <out>/evidence.jsonl.

Examples:
  aes run --scenario scenarios/smoke.yaml
  aes run --scenario s.json --out results --run-id nightly-1
  aes run --scenario s.json --index --metrics-file aes.prom`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.applyConfig(cmd)
			return runRun(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.ScenarioPath, "scenario", "", "path to the scenario file (.json, .yaml, .yml, .cue)")
	cmd.Flags().StringVar(&opts.OutDir, "out", "out", "output directory")
	cmd.Flags().StringVar(&opts.RunID, "run-id", "", "explicit run id (default: random UUID)")
	cmd.Flags().BoolVar(&opts.Index, "index", false, "record the run in the SQLite index")
	cmd.Flags().StringVar(&opts.IndexPath, "index-path", "", "index database path (default: <out>/index.db)")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "write Prometheus textfile metrics to this path")
	cmd.MarkFlagRequired("scenario")

	return cmd
}

// applyConfig fills options the user did not set on the command line.
func (o *RunOptions) applyConfig(cmd *cobra.Command) {
	cfg := o.Config
	if !cmd.Flags().Changed("out") && cfg.Out != "" {
		o.OutDir = cfg.Out
	}
	if !cmd.Flags().Changed("index") {
		o.Index = cfg.Index.Enabled
	}
	if !cmd.Flags().Changed("index-path") {
		o.IndexPath = cfg.Index.Path
	}
	if !cmd.Flags().Changed("metrics-file") {
		o.MetricsFile = cfg.Metrics.File
	}
}

func runRun(cmd *cobra.Command, opts *RunOptions) error {
	logger := opts.logger()

	if opts.RunID != "" {
		if err := checkRunID(opts.RunID); err != nil {
			return WrapExitError(ExitCommandError, "invalid run id", err)
		}
	}

	sc, err := scenario.Load(opts.ScenarioPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}
	logger.Debug("scenario loaded",
		"path", opts.ScenarioPath,
		"scenario_id", sc.ID,
		"steps", len(sc.Steps))

	run := runner.New().Simulate(sc, opts.RunID)

	w := evidence.NewWriter(logger)
	runPath, logPath, err := w.Persist(run, opts.OutDir)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to write evidence", err)
	}
	logger.Info("run recorded", "run_id", run.RunID, "run_path", runPath, "log_path", logPath)

	result := RunResult{
		RunID:      run.RunID,
		ScenarioID: run.ScenarioID,
		Success:    run.Success,
		RunPath:    runPath,
		LogPath:    logPath,
	}

	// The run and its evidence are on disk from here on; report where
	// before the optional steps, and attach the paths to their errors.
	if opts.Format != "json" {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Run saved to %s\n", result.RunPath)
		fmt.Fprintf(out, "Evidence appended to %s\n", result.LogPath)
	}
	afterPersist := func(message string, err error) error {
		exitErr := WrapExitError(ExitCommandError, message, err)
		exitErr.Details = result
		return exitErr
	}

	if opts.Index {
		indexPath := opts.IndexPath
		if indexPath == "" {
			indexPath = defaultIndexPath(opts.OutDir)
		}
		digest, err := indexRun(cmd.Context(), indexPath, run, runPath)
		if err != nil {
			return afterPersist("failed to index run", err)
		}
		result.Digest = digest
		result.IndexPath = indexPath
	}

	if opts.MetricsFile != "" {
		rec := metrics.NewRecorder()
		if err := rec.Observe(run); err != nil {
			return afterPersist("failed to record metrics", err)
		}
		if err := rec.WriteTextfile(opts.MetricsFile); err != nil {
			return afterPersist("failed to write metrics", err)
		}
		logger.Debug("metrics written", "path", opts.MetricsFile)
	}

	return outputRunResult(cmd, opts, result)
}

// indexRun stores run in the index at path and returns its digest.
func indexRun(ctx context.Context, path string, run runner.RunRecord, runPath string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	digest, err := evidence.Digest(run)
	if err != nil {
		return "", err
	}

	st, err := store.Open(path)
	if err != nil {
		return "", err
	}
	defer st.Close()

	if err := st.IndexRun(ctx, run, runPath, digest); err != nil {
		return "", err
	}
	return digest, nil
}

func defaultIndexPath(outDir string) string {
	return filepath.Join(outDir, "index.db")
}

// checkRunID rejects ids that would escape the runs directory.
func checkRunID(id string) error {
	if id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("run id %q must not contain path separators or be . or ..", id)
	}
	return nil
}

func outputRunResult(cmd *cobra.Command, opts *RunOptions, result RunResult) error {
	if opts.Format == "json" {
		f := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}
		return f.Success(result)
	}

	if result.IndexPath != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Indexed in %s (%s)\n", result.IndexPath, result.Digest)
	}
	return nil
}
