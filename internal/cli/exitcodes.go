package cli

import (
	"errors"

	"github.com/yaklabco/dslint/pkg/runner"
)

// Exit codes for dslint.
const (
	// ExitSuccess indicates successful execution with no issues.
	ExitSuccess = 0

	// ExitLintErrors indicates lint completed but found errors.
	ExitLintErrors = 1

	// ExitLintWarnings indicates lint completed but found warnings (when strict mode).
	ExitLintWarnings = 2

	// ExitLintIncomplete indicates a rule crashed or overlapping fixes left a
	// file unchanged (when strict mode).
	ExitLintIncomplete = 3

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ErrLintIssuesFound is returned when lint issues are found.
var ErrLintIssuesFound = errors.New("lint issues found")

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return "exit status"
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// withExitCode wraps err so ExitCode reports code for it.
func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}

// ExitCode maps an error returned by a command to a process exit code.
// Errors without an explicit code are internal errors.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitInternalError
}

// ExitCodeFromResult determines the exit code based on result and strict mode.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	if result == nil {
		return ExitSuccess
	}

	if result.HasFailures() {
		return ExitLintErrors
	}
	if result.Stats.FilesErrored > 0 {
		return ExitIOError
	}
	if !strict {
		return ExitSuccess
	}

	if result.HasWarnings() {
		return ExitLintWarnings
	}
	if result.Stats.Crashes > 0 || result.Stats.FixConflicts > 0 {
		return ExitLintIncomplete
	}

	return ExitSuccess
}
