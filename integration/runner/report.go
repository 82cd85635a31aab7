package runner

import (
	"fmt"
	"strings"
)

// Report summarizes suite results: counts first, then every failed step
// grouped by suite.
func Report(results []TestRunResult) string {
	var sb strings.Builder

	passed := 0
	for _, r := range results {
		if r.Error == nil {
			passed++
		}
	}
	failed := len(results) - passed

	sb.WriteString("Integration Test Summary:\n")
	sb.WriteString(fmt.Sprintf("   Passed: %d\n", passed))
	sb.WriteString(fmt.Sprintf("   Failed: %d\n", failed))

	if failed == 0 {
		return sb.String()
	}

	sb.WriteString("\nFailures:\n")
	for _, r := range results {
		if r.Error == nil {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n%s (%s):\n", r.Job.Name, r.Job.CaseFile))

		stepFailures := 0
		for _, step := range r.Results {
			if step.Error == nil {
				continue
			}
			stepFailures++
			sb.WriteString(fmt.Sprintf("  ✗ %s: %v\n", step.StepName, step.Error))
		}
		// Setup errors (reset, initialize, start expectations) have no step
		if stepFailures == 0 {
			sb.WriteString(fmt.Sprintf("  ✗ %v\n", r.Error))
		}
	}
	return sb.String()
}
