package scenario

import "fmt"

// Defaults applied when a field is missing or null.
const (
	DefaultID          = "scenario"
	DefaultTitle       = "Untitled Scenario"
	DefaultDescription = ""
	DefaultRoleName    = "Role"
	DefaultRoleDesc    = ""
	DefaultGoal        = ""
)

// DefaultStepID returns the id given to the step at 1-based position index.
func DefaultStepID(index int) string {
	return fmt.Sprintf("step-%d", index)
}
