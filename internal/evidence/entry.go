package evidence

import "github.com/roach88/aes/internal/runner"

// Entry is the condensed projection of a run written to the evidence log.
// Per-step detail and timestamps are deliberately left out.
type Entry struct {
	RunID      string         `json:"run_id"`
	ScenarioID string         `json:"scenario_id"`
	Summary    string         `json:"summary"`
	Success    bool           `json:"success"`
	Outputs    runner.Outputs `json:"outputs"`
}

// EntryFor projects run into an evidence log entry.
func EntryFor(run runner.RunRecord) Entry {
	return Entry{
		RunID:      run.RunID,
		ScenarioID: run.ScenarioID,
		Summary:    run.Summary,
		Success:    run.Success,
		Outputs:    run.Outputs,
	}
}
