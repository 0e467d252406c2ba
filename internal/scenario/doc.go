// Package scenario loads evaluation scenarios for the sandbox.
//
// A scenario names the roles taking part in an evaluation and the ordered
// steps to execute. Scenario files are JSON, YAML or CUE documents:
//
//	id: checkout
//	title: "Checkout flow"
//	description: "Agent completes a purchase"
//	roles:
//	  - name: Doer
//	    description: "Performs each goal"
//	  - name: Judge
//	steps:
//	  - id: add-item
//	    goal: "Add a widget to the cart"
//	  - goal: "Pay for the order"   # id defaults to step-2
//
// # Defaults
//
// Every field is optional except that steps must resolve to a non-empty
// list. Missing or null fields take the defaults declared in defaults.go.
// Scalar values in string fields are coerced to their textual form, so
// `id: 42` loads as "42".
//
// # Formats
//
// The decoder is selected by file extension (see Formats). Extensions
// without a registered decoder are read as JSON. A registered format whose
// decoder is unavailable fails with ErrFormatUnavailable; YAML text is never
// reinterpreted as JSON.
package scenario
