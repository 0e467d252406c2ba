package evidence

import (
	"time"

	"github.com/roach88/aes/internal/runner"
	"github.com/roach88/aes/internal/scenario"
	"github.com/roach88/aes/internal/testutil"
)

var t0 = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

// simulateTwoSteps runs the two-step s1 scenario with a fixed clock.
func simulateTwoSteps(runID string) runner.RunRecord {
	sc := scenario.Scenario{
		ID:    "s1",
		Title: "T",
		Steps: []scenario.Step{
			{ID: "a", Goal: "do X"},
			{ID: "b", Goal: "do Y"},
		},
	}
	sim := runner.New(runner.WithClock(testutil.NewFixedClock(t0, time.Second)))
	return sim.Simulate(sc, runID)
}
