package runner

import (
	"fmt"

	"github.com/roach88/aes/internal/scenario"
)

// Simulator turns scenarios into run records.
type Simulator struct {
	clock Clock
	ids   IDGenerator
	doer  Doer
	judge Judge
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithClock overrides the time source (default SystemClock).
func WithClock(c Clock) Option {
	return func(s *Simulator) { s.clock = c }
}

// WithIDGenerator overrides run id generation (default UUIDGenerator).
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Simulator) { s.ids = g }
}

// WithDoer overrides the Doer (default StubDoer).
func WithDoer(d Doer) Option {
	return func(s *Simulator) { s.doer = d }
}

// WithJudge overrides the Judge (default StubJudge).
func WithJudge(j Judge) Option {
	return func(s *Simulator) { s.judge = j }
}

// New creates a Simulator with stub agents, the system clock and random run ids.
func New(opts ...Option) *Simulator {
	s := &Simulator{
		clock: SystemClock{},
		ids:   UUIDGenerator{},
		doer:  StubDoer{},
		judge: StubJudge{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Simulate executes sc and returns its run record.
//
// If runID is empty a new id is generated. Steps are processed in order
// and produce exactly one StepEvent each. started_at is read before the
// first step and completed_at after the last.
//
// Simulate does not fail: Load guarantees at least one step, and the stub
// agents always succeed.
func (s *Simulator) Simulate(sc scenario.Scenario, runID string) RunRecord {
	startedAt := s.clock.Now()
	if runID == "" {
		runID = s.ids.Generate()
	}

	events := make([]StepEvent, 0, len(sc.Steps))
	for _, step := range sc.Steps {
		action := s.doer.Do(step)
		verdict := s.judge.Judge(step, action)
		events = append(events, StepEvent{
			StepID: step.ID,
			Goal:   step.Goal,
			Doer:   action,
			Judge:  verdict,
		})
	}

	completedAt := s.clock.Now()

	return RunRecord{
		RunID:         runID,
		ScenarioID:    sc.ID,
		ScenarioTitle: sc.Title,
		Summary:       fmt.Sprintf("Executed %d steps with stubbed Doer/Judge", len(events)),
		Steps:         events,
		Outputs:       Outputs{Score: StubScore},
		StartedAt:     formatTime(startedAt),
		CompletedAt:   formatTime(completedAt),
		Success:       true,
		Notes:         nil,
	}
}
