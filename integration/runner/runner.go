package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/jwebster45206/adventure-client/internal/gameapi"
	"github.com/jwebster45206/adventure-client/pkg/snapshot"
	"github.com/jwebster45206/adventure-client/pkg/view"
	"github.com/jwebster45206/adventure-client/pkg/viewstate"
)

type ErrorHandlingMode string

const ErrorHandlingExit ErrorHandlingMode = "exit"
const ErrorHandlingContinue ErrorHandlingMode = "continue"

// Runner drives a real controller against a running game service
type Runner struct {
	BaseURL           string
	Client            *http.Client
	Timeout           time.Duration
	Logger            func(format string, args ...interface{})
	ErrorHandlingMode ErrorHandlingMode
}

// NewRunner creates a new test runner
func NewRunner(baseURL string) *Runner {
	return &Runner{
		BaseURL:           strings.TrimSuffix(baseURL, "/"),
		Client:            &http.Client{Timeout: 60 * time.Second},
		Timeout:           30 * time.Second,
		Logger:            func(string, ...interface{}) {},
		ErrorHandlingMode: ErrorHandlingContinue,
	}
}

// LoadTestSuite loads a test suite from a JSON file
func LoadTestSuite(filename string) (TestSuite, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return TestSuite{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	var suite TestSuite
	if err := json.Unmarshal(content, &suite); err != nil {
		return TestSuite{}, fmt.Errorf("failed to parse JSON in %s: %w", filename, err)
	}

	return suite, nil
}

// LoadTestSuiteWithExpansion loads a test suite and expands it if it's a sequence
// Returns a list of actual test suites (expanded from the sequence if needed)
func LoadTestSuiteWithExpansion(filename string, casesDir string) ([]TestJob, error) {
	suite, err := LoadTestSuite(filename)
	if err != nil {
		return nil, err
	}

	if !suite.IsSequence() {
		return []TestJob{{
			Name:     suite.Name,
			Suite:    suite,
			CaseFile: filename,
		}}, nil
	}

	var jobs []TestJob
	for _, caseFile := range suite.Cases {
		casePath := filepath.Join(casesDir, caseFile)

		// Recursively load (in case a sequence references another sequence)
		subJobs, err := LoadTestSuiteWithExpansion(casePath, casesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load case '%s' referenced by sequence '%s': %w", caseFile, suite.Name, err)
		}

		jobs = append(jobs, subJobs...)
	}

	return jobs, nil
}

// RunSuite executes a complete test suite with a fresh controller.
// The game service keeps one global world, so it is reset first.
func (r *Runner) RunSuite(ctx context.Context, suite TestSuite) (TestRunResult, error) {
	start := time.Now()
	result := TestRunResult{
		Job: TestJob{
			Name:  suite.Name,
			Suite: suite,
		},
		Results: make([]TestResult, 0, len(suite.Steps)),
	}

	client := gameapi.NewClient(r.BaseURL, r.Client, slog.New(slog.NewTextHandler(io.Discard, nil)))
	controller := viewstate.New(client, viewstate.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	resetCtx, cancel := context.WithTimeout(ctx, r.Timeout)
	_, err := client.Reset(resetCtx)
	cancel()
	if err != nil {
		result.Error = fmt.Errorf("failed to reset game service: %w", err)
		result.Duration = time.Since(start)
		return result, result.Error
	}

	initCtx, cancel := context.WithTimeout(ctx, r.Timeout)
	err = controller.Initialize(initCtx)
	cancel()
	if err != nil {
		result.Error = fmt.Errorf("failed to initialize: %w", err)
		result.Duration = time.Since(start)
		return result, result.Error
	}

	if suite.Start != nil {
		if err := checkExpectations(*suite.Start, controller.Snapshot(), controller.View()); err != nil {
			result.Error = fmt.Errorf("start expectation failed: %w", err)
			result.Duration = time.Since(start)
			return result, result.Error
		}
	}

	for i, step := range suite.Steps {
		r.Logger("    [%d/%d] Running step: %s", i+1, len(suite.Steps), step.Name)
		stepResult := r.runStep(ctx, controller, step)
		stepResult.TestName = suite.Name
		result.Results = append(result.Results, stepResult)

		if stepResult.Error != nil {
			r.Logger("    [%d/%d] ✗ %s: %v", i+1, len(suite.Steps), step.Name, stepResult.Error)
			if result.Error == nil {
				result.Error = fmt.Errorf("step %d (%s) failed: %w", i, step.Name, stepResult.Error)
			}
			if r.ErrorHandlingMode == ErrorHandlingExit {
				break
			}
			continue
		}

		r.Logger("    [%d/%d] ✓ %s (%v)", i+1, len(suite.Steps), step.Name, stepResult.Duration)
	}

	result.Final = controller.Snapshot()
	result.Duration = time.Since(start)
	return result, result.Error
}

// runStep sends one command (or reset) through the controller and checks
// the snapshot it holds afterwards
func (r *Runner) runStep(ctx context.Context, controller *viewstate.Controller, step TestStep) TestResult {
	start := time.Now()
	result := TestResult{
		StepName: step.Name,
	}

	stepCtx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	var err error
	if step.Command == ResetCommand {
		result.IsReset = true
		err = controller.Reset(stepCtx)
	} else {
		err = controller.SubmitCommand(stepCtx, step.Command)
	}

	switch {
	case step.Expectations.Suppressed && !errors.Is(err, viewstate.ErrGameOver):
		result.Error = fmt.Errorf("expected command to be suppressed, got err=%v", err)
	case !step.Expectations.Suppressed && err != nil:
		result.Error = fmt.Errorf("request failed: %w", err)
	}
	if result.Error != nil {
		result.Duration = time.Since(start)
		return result
	}

	current := controller.Snapshot()
	result.RoomDescription = current.RoomDescription

	if err := checkExpectations(step.Expectations, current, controller.View()); err != nil {
		result.Error = fmt.Errorf("expectation failed: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	result.Success = true
	result.Duration = time.Since(start)
	return result
}

// checkExpectations validates a snapshot and its view against a step's expectations
func checkExpectations(exp Expectations, s snapshot.Snapshot, v view.View) error {
	if exp.Items != nil {
		if err := sameSet("items", exp.Items, s.Items); err != nil {
			return err
		}
	}

	if exp.Inventory != nil {
		if err := sameSet("inventory", exp.Inventory, s.Inventory); err != nil {
			return err
		}
	}

	if exp.Health != nil && s.Health != *exp.Health {
		return fmt.Errorf("expected health %d, got %d", *exp.Health, s.Health)
	}

	if exp.GameOver != nil && s.GameOver != *exp.GameOver {
		return fmt.Errorf("expected game_over to be %t, got %t", *exp.GameOver, s.GameOver)
	}

	if exp.Moves != nil {
		actual := make([]string, 0, len(v.Moves))
		for _, a := range v.Moves {
			actual = append(actual, a.Target)
		}
		if strings.Join(actual, ",") != strings.Join(exp.Moves, ",") {
			return fmt.Errorf("expected moves %v, got %v", exp.Moves, actual)
		}
	}

	lowerRoom := strings.ToLower(s.RoomDescription)
	for _, expectedText := range exp.RoomContains {
		if !strings.Contains(lowerRoom, strings.ToLower(expectedText)) {
			return fmt.Errorf("expected room description to contain '%s', but it didn't", expectedText)
		}
	}
	for _, unexpectedText := range exp.RoomNotContains {
		if strings.Contains(lowerRoom, strings.ToLower(unexpectedText)) {
			return fmt.Errorf("expected room description to NOT contain '%s', but it did", unexpectedText)
		}
	}

	if exp.RoomRegex != "" {
		matched, err := regexp.MatchString(exp.RoomRegex, s.RoomDescription)
		if err != nil {
			return fmt.Errorf("invalid regex pattern: %w", err)
		}
		if !matched {
			return fmt.Errorf("room description didn't match regex pattern: %s", exp.RoomRegex)
		}
	}

	if len(exp.Offers) > 0 {
		offered := make(map[string]bool)
		for _, a := range v.Actions() {
			offered[a.Command] = true
		}
		for _, command := range exp.Offers {
			if !offered[command] {
				return fmt.Errorf("expected action '%s' to be offered", command)
			}
		}
	}

	return nil
}

// sameSet compares two string lists ignoring order
func sameSet(field string, expected, actual []string) error {
	want := make(map[string]bool)
	for _, item := range expected {
		want[item] = true
	}

	got := make(map[string]bool)
	for _, item := range actual {
		got[item] = true
	}

	for item := range want {
		if !got[item] {
			return fmt.Errorf("expected %s to contain '%s', but it's missing. Actual %s: %v", field, item, field, actual)
		}
	}
	for item := range got {
		if !want[item] {
			return fmt.Errorf("%s contains unexpected item '%s'. Expected: %v, Actual: %v", field, item, expected, actual)
		}
	}
	return nil
}
