package runner

// TimeLayout is the ISO-8601 layout used for run timestamps.
// Times are rendered in UTC with an explicit +00:00 offset.
const TimeLayout = "2006-01-02T15:04:05.000000-07:00"

// RunRecord is the full result of one simulated scenario execution.
// It is built once by Simulate and not modified afterwards.
type RunRecord struct {
	RunID         string      `json:"run_id"`
	ScenarioID    string      `json:"scenario_id"`
	ScenarioTitle string      `json:"scenario_title"`
	Summary       string      `json:"summary"`
	Steps         []StepEvent `json:"steps"`
	Outputs       Outputs     `json:"outputs"`
	StartedAt     string      `json:"started_at"`
	CompletedAt   string      `json:"completed_at"`
	Success       bool        `json:"success"`
	Notes         *string     `json:"notes"`
}

// StepEvent records what happened for a single scenario step.
type StepEvent struct {
	StepID string `json:"step_id"`
	Goal   string `json:"goal"`
	Doer   string `json:"doer"`
	Judge  string `json:"judge"`
}

// Outputs holds the run's computed outputs.
type Outputs struct {
	Score Score `json:"score"`
}

// Score is the run verdict. Its keys are stable even though the stub
// always reports the same value.
type Score struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason"`
}

// StubScore is the constant score reported by the stubbed simulator.
var StubScore = Score{Success: true, Reason: "deterministic stub"}
