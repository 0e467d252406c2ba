package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/aes/internal/evidence"
	"github.com/roach88/aes/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	OutDir     string
	ScenarioID string
	Limit      int
	From       string // "log" | "index"
	IndexPath  string
}

// HistoryEntry is one row of history output.
type HistoryEntry struct {
	RunID       string `json:"run_id"`
	ScenarioID  string `json:"scenario_id"`
	Success     bool   `json:"success"`
	Summary     string `json:"summary"`
	CompletedAt string `json:"completed_at,omitempty"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Long: `List recorded runs, oldest first.

By default runs are read from <out>/evidence.jsonl. With --from index they
are read from the SQLite index written by 'aes run --index'.

Examples:
  aes history
  aes history --scenario-id smoke --limit 5
  aes history --from index`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("out") && opts.Config.Out != "" {
				opts.OutDir = opts.Config.Out
			}
			if !cmd.Flags().Changed("index-path") {
				opts.IndexPath = opts.Config.Index.Path
			}
			return runHistory(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.OutDir, "out", "out", "output directory")
	cmd.Flags().StringVar(&opts.ScenarioID, "scenario-id", "", "only show runs of this scenario")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "only show the most recent N runs")
	cmd.Flags().StringVar(&opts.From, "from", "log", "source of runs (log|index)")
	cmd.Flags().StringVar(&opts.IndexPath, "index-path", "", "index database path (default: <out>/index.db)")

	return cmd
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	var (
		entries []HistoryEntry
		err     error
	)
	switch opts.From {
	case "log":
		entries, err = historyFromLog(opts)
	case "index":
		entries, err = historyFromIndex(cmd.Context(), opts)
	default:
		return fmt.Errorf("invalid --from %q: must be log or index", opts.From)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read history", err)
	}

	if opts.Format == "json" {
		f := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}
		return f.Success(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN ID\tSCENARIO\tSUCCESS\tSUMMARY")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", e.RunID, e.ScenarioID, e.Success, e.Summary)
	}
	return tw.Flush()
}

func historyFromLog(opts *HistoryOptions) ([]HistoryEntry, error) {
	logged, err := evidence.ReadLog(evidence.LogPath(opts.OutDir))
	if errors.Is(err, fs.ErrNotExist) {
		return []HistoryEntry{}, nil
	}
	if err != nil {
		return nil, err
	}

	entries := make([]HistoryEntry, 0, len(logged))
	for _, e := range logged {
		if opts.ScenarioID != "" && e.ScenarioID != opts.ScenarioID {
			continue
		}
		entries = append(entries, HistoryEntry{
			RunID:      e.RunID,
			ScenarioID: e.ScenarioID,
			Success:    e.Success,
			Summary:    e.Summary,
		})
	}

	if opts.Limit > 0 && len(entries) > opts.Limit {
		entries = entries[len(entries)-opts.Limit:]
	}
	return entries, nil
}

func historyFromIndex(ctx context.Context, opts *HistoryOptions) ([]HistoryEntry, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := openIndex(opts.IndexPath, opts.OutDir)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	runs, err := st.ListRuns(ctx, store.Filter{ScenarioID: opts.ScenarioID, Limit: opts.Limit})
	if err != nil {
		return nil, err
	}

	entries := make([]HistoryEntry, 0, len(runs))
	for _, r := range runs {
		entries = append(entries, HistoryEntry{
			RunID:       r.RunID,
			ScenarioID:  r.ScenarioID,
			Success:     r.Success,
			Summary:     r.Summary,
			CompletedAt: r.CompletedAt,
		})
	}
	return entries, nil
}

// openIndex opens an existing index at path, or at <outDir>/index.db when
// path is empty.
func openIndex(path, outDir string) (*store.Store, error) {
	if path == "" {
		path = defaultIndexPath(outDir)
	}
	// Opening would create an empty database.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("index %s: %w", path, err)
	}
	return store.Open(path)
}
