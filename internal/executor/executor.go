package executor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/LsHallo/certbot-multidomain/internal/errors"
)

// Result is the outcome of one child process run.
type Result struct {
	Name     string
	Args     []string
	Stdout   []byte
	Stderr   []byte
	ExitCode int // -1 if the process never started or was killed
	Duration time.Duration
}

// Success reports whether the process ran and exited with status 0.
func (r *Result) Success() bool {
	return r != nil && r.ExitCode == 0
}

// CommandLine renders the argument vector for logging only. It is never executed.
func (r *Result) CommandLine() string {
	return strings.Join(append([]string{r.Name}, r.Args...), " ")
}

// ProcessError describes a child process that failed to start, timed out
// or exited with a nonzero status.
type ProcessError struct {
	Name     string
	ExitCode int
	TimedOut bool
	Err      error
}

// Error implements the error interface.
func (e *ProcessError) Error() string {
	switch {
	case e.TimedOut:
		return fmt.Sprintf("%s timed out: %v", e.Name, e.Err)
	case e.ExitCode >= 0:
		return fmt.Sprintf("%s exited with status %d", e.Name, e.ExitCode)
	default:
		return fmt.Sprintf("%s failed to run: %v", e.Name, e.Err)
	}
}

// Unwrap returns the underlying error.
func (e *ProcessError) Unwrap() error {
	return e.Err
}

// CommandExecutor is an interface for executing system commands
type CommandExecutor interface {
	// Execute runs a command to completion. The returned Result is non-nil
	// whenever a run was attempted; err is non-nil unless the exit status was 0.
	Execute(ctx context.Context, name string, args ...string) (*Result, error)

	// LookPath searches for an executable in the directories named by the PATH
	LookPath(file string) (string, error)
}

// SystemExecutor implements CommandExecutor using os/exec
type SystemExecutor struct {
	// Timeout bounds each run. Zero means wait forever.
	Timeout time.Duration
}

// NewSystemExecutor creates a new SystemExecutor without a timeout
func NewSystemExecutor() *SystemExecutor {
	return &SystemExecutor{}
}

// NewSystemExecutorWithTimeout creates a SystemExecutor that kills runs exceeding timeout
func NewSystemExecutorWithTimeout(timeout time.Duration) *SystemExecutor {
	return &SystemExecutor{Timeout: timeout}
}

// Execute runs a command synchronously, capturing stdout and stderr separately
func (e *SystemExecutor) Execute(ctx context.Context, name string, args ...string) (*Result, error) {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()

	res := &Result{
		Name:     name,
		Args:     args,
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: -1,
		Duration: time.Since(start),
	}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	if runErr == nil {
		return res, nil
	}

	perr := &ProcessError{Name: name, ExitCode: res.ExitCode, Err: runErr}
	if ctxErr := ctx.Err(); ctxErr != nil {
		perr.ExitCode = -1
		perr.TimedOut = ctxErr == context.DeadlineExceeded
		perr.Err = ctxErr
		res.ExitCode = -1
	}
	return res, errors.Wrap(errors.ErrCodeProcess, "command failed", perr)
}

// LookPath searches for an executable
func (e *SystemExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// MockExecutor is a mock implementation for testing
type MockExecutor struct {
	ExecuteFunc  func(name string, args ...string) (*Result, error)
	LookPathFunc func(file string) (string, error)
	Calls        []CommandCall
}

// CommandCall records a command execution for verification
type CommandCall struct {
	Name string
	Args []string
}

// Execute calls the mock function
func (m *MockExecutor) Execute(ctx context.Context, name string, args ...string) (*Result, error) {
	m.Calls = append(m.Calls, CommandCall{Name: name, Args: args})
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(name, args...)
	}
	return &Result{Name: name, Args: args}, nil
}

// LookPath calls the mock function
func (m *MockExecutor) LookPath(file string) (string, error) {
	if m.LookPathFunc != nil {
		return m.LookPathFunc(file)
	}
	return "/usr/bin/" + file, nil
}

// Exited builds a Result for a process that ran and exited with code,
// plus the matching error for nonzero codes. Intended for mocks.
func Exited(name string, args []string, stdout, stderr string, code int) (*Result, error) {
	res := &Result{
		Name:     name,
		Args:     args,
		Stdout:   []byte(stdout),
		Stderr:   []byte(stderr),
		ExitCode: code,
	}
	if code == 0 {
		return res, nil
	}
	return res, errors.Wrap(errors.ErrCodeProcess, "command failed", &ProcessError{Name: name, ExitCode: code})
}
