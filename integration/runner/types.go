package runner

import (
	"time"

	"github.com/jwebster45206/adventure-client/pkg/snapshot"
)

// Special command values that trigger non-command actions
const (
	ResetCommand = "RESET"
)

// TestSuite defines a complete integration test scenario
// Can either be a regular test with Steps, or a suite that references other Cases
type TestSuite struct {
	Name  string        `json:"name"`
	Start *Expectations `json:"start,omitempty"` // Checked against the snapshot from /start
	Steps []TestStep    `json:"steps,omitempty"` // Used for regular tests
	Cases []string      `json:"cases,omitempty"` // Used for suite tests (list of case files)
}

// IsSequence returns true if this is a suite that sequences other cases
func (ts *TestSuite) IsSequence() bool {
	return len(ts.Cases) > 0
}

// TestStep defines a single command and its expected outcomes
// Use command: "RESET" to restart the game through the reset endpoint
type TestStep struct {
	Name         string       `json:"name,omitempty"`
	Command      string       `json:"command"`
	Expectations Expectations `json:"expect"`
}

// Expectations defines what to check after a test step executes
type Expectations struct {
	// Snapshot properties
	Items     []string `json:"items,omitempty"`     // Room items (order independent)
	Inventory []string `json:"inventory,omitempty"` // Full inventory contents (order independent)
	Health    *int     `json:"health,omitempty"`
	GameOver  *bool    `json:"game_over,omitempty"`
	Moves     []string `json:"moves,omitempty"` // Open exits, in server order

	// Room description analysis
	RoomContains    []string `json:"room_contains,omitempty"`
	RoomNotContains []string `json:"room_not_contains,omitempty"`
	RoomRegex       string   `json:"room_regex,omitempty"`

	// Offered action commands that must be present
	Offers []string `json:"offers,omitempty"`

	// Set when the step must be rejected locally because the game is over
	Suppressed bool `json:"suppressed,omitempty"`
}

// TestResult contains the outcome of running a test step
type TestResult struct {
	TestName        string
	StepName        string
	Success         bool
	Error           error
	Duration        time.Duration
	RoomDescription string
	IsReset         bool // True if this was a RESET step
}

// TestJob represents a test suite to be executed
type TestJob struct {
	Name     string
	Suite    TestSuite
	CaseFile string
}

// TestRunResult contains the results of running an entire test suite
type TestRunResult struct {
	Job      TestJob
	Results  []TestResult
	Error    error
	Duration time.Duration
	Final    snapshot.Snapshot // Snapshot held by the controller when the suite ended
}
