package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/aes/internal/scenario"
)

// ValidateResult describes a scenario that loaded cleanly.
type ValidateResult struct {
	Path       string `json:"path"`
	Format     string `json:"format"`
	ScenarioID string `json:"scenario_id"`
	Title      string `json:"title"`
	Roles      int    `json:"roles"`
	Steps      int    `json:"steps"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scenario>",
		Short: "Load a scenario and report its resolved shape",
		Long: `Load a scenario file without running it.

Defaults are applied exactly as the run command would apply them, so this
shows which id, title and step count a run would use.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, rootOpts, args[0])
		},
	}
}

func runValidate(cmd *cobra.Command, opts *RootOptions, path string) error {
	sc, err := scenario.Load(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "validation failed", err)
	}
	opts.logger().Debug("scenario valid", "path", path, "scenario_id", sc.ID)

	result := ValidateResult{
		Path:       path,
		Format:     string(scenario.FormatForPath(path)),
		ScenarioID: sc.ID,
		Title:      sc.Title,
		Roles:      len(sc.Roles),
		Steps:      len(sc.Steps),
	}

	if opts.Format == "json" {
		f := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}
		return f.Success(result)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: scenario %q (%s), %d roles, %d steps\n",
		path, result.ScenarioID, result.Title, result.Roles, result.Steps)
	return nil
}
