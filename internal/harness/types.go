package harness

import "github.com/rubengrill/blocks/internal/trace"

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all assertions hold.
	Pass bool `json:"pass"`

	// Trace contains all game events in order.
	Trace []trace.Event `json:"trace"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Grid is the final placed bricks, top row first. The falling block is
	// not included.
	Grid []string `json:"grid"`

	// Over, Falling and FullRows are the final board state.
	Over     bool  `json:"over"`
	Falling  bool  `json:"falling"`
	FullRows []int `json:"full_rows,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []trace.Event{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
