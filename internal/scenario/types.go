package scenario

// Role is a named participant in a scenario. Roles are descriptive only.
type Role struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Step is a single goal to execute. Steps run in declaration order.
// IDs are expected to be unique but this is not enforced.
type Step struct {
	ID   string `json:"id"`
	Goal string `json:"goal"`
}

// Scenario is the loaded form of a scenario file.
// A Scenario returned by Load always has at least one step.
type Scenario struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Roles       []Role `json:"roles"`
	Steps       []Step `json:"steps"`
}
