// Package runner simulates scenario runs.
//
// A run executes every scenario step in order. For each step a Doer
// performs the goal and a Judge rules on the outcome, producing one
// StepEvent. The shipped Doer and Judge are stubs that fabricate a
// completed action and an approval; real agents plug in through the same
// interfaces without changing the RunRecord shape.
//
// Time and run identity come from injected collaborators (Clock and
// IDGenerator), so a Simulator built with fixed implementations is a pure
// function of its scenario:
//
//	sim := runner.New(
//	    runner.WithClock(testutil.NewFixedClock(t0, time.Second)),
//	    runner.WithIDGenerator(testutil.NewFixedIDGenerator("run-1")),
//	)
//	rec := sim.Simulate(sc, "")
package runner
