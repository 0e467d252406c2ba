package runner

import (
	"fmt"

	"github.com/roach88/aes/internal/scenario"
)

// Doer performs a step's goal and describes the action taken.
type Doer interface {
	Do(step scenario.Step) string
}

// Judge evaluates a step outcome and describes the verdict.
type Judge interface {
	Judge(step scenario.Step, action string) string
}

// StubDoer reports every goal as completed without doing anything.
type StubDoer struct{}

func (StubDoer) Do(step scenario.Step) string {
	return fmt.Sprintf("doer: completed goal '%s'", step.Goal)
}

// StubJudge approves every step.
type StubJudge struct{}

func (StubJudge) Judge(step scenario.Step, _ string) string {
	return fmt.Sprintf("judge: approved '%s'", step.ID)
}
