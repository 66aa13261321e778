package executor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	certerrors "github.com/LsHallo/certbot-multidomain/internal/errors"
)

func TestSystemExecutor_Execute(t *testing.T) {
	exec := NewSystemExecutor()
	ctx := context.Background()

	t.Run("echo command", func(t *testing.T) {
		res, err := exec.Execute(ctx, "echo", "hello")
		if err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if string(res.Stdout) != "hello\n" {
			t.Errorf("expected 'hello\\n', got '%s'", string(res.Stdout))
		}
		if res.ExitCode != 0 || !res.Success() {
			t.Errorf("expected exit code 0, got %d", res.ExitCode)
		}
	})

	t.Run("stdout and stderr are captured separately", func(t *testing.T) {
		res, err := exec.Execute(ctx, "sh", "-c", "echo out; echo err >&2")
		if err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if string(res.Stdout) != "out\n" {
			t.Errorf("unexpected stdout %q", res.Stdout)
		}
		if string(res.Stderr) != "err\n" {
			t.Errorf("unexpected stderr %q", res.Stderr)
		}
	})

	t.Run("nonzero exit code is exposed", func(t *testing.T) {
		res, err := exec.Execute(ctx, "sh", "-c", "exit 3")
		if err == nil {
			t.Fatal("expected error for nonzero exit")
		}
		if res.ExitCode != 3 {
			t.Errorf("expected exit code 3, got %d", res.ExitCode)
		}
		var perr *ProcessError
		if !errors.As(err, &perr) {
			t.Fatalf("expected ProcessError, got %T", err)
		}
		if perr.ExitCode != 3 {
			t.Errorf("expected ProcessError exit code 3, got %d", perr.ExitCode)
		}
		if !errors.Is(err, certerrors.ErrProcessFailed) {
			t.Error("expected error to match ErrProcessFailed")
		}
	})

	t.Run("nonexistent command", func(t *testing.T) {
		res, err := exec.Execute(ctx, "nonexistent-command-xyz-12345")
		if err == nil {
			t.Error("expected error for nonexistent command")
		}
		if res.ExitCode != -1 {
			t.Errorf("expected exit code -1, got %d", res.ExitCode)
		}
	})
}

func TestSystemExecutor_Timeout(t *testing.T) {
	exec := NewSystemExecutorWithTimeout(100 * time.Millisecond)

	res, err := exec.Execute(context.Background(), "sleep", "5")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	var perr *ProcessError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProcessError, got %T", err)
	}
	if !perr.TimedOut {
		t.Error("expected TimedOut to be set")
	}
	if res.ExitCode != -1 {
		t.Errorf("expected exit code -1, got %d", res.ExitCode)
	}
	if res.Duration > 4*time.Second {
		t.Errorf("process was not killed in time: %v", res.Duration)
	}
}

func TestSystemExecutor_LookPath(t *testing.T) {
	exec := NewSystemExecutor()

	t.Run("find sh", func(t *testing.T) {
		path, err := exec.LookPath("sh")
		if err != nil {
			t.Fatalf("LookPath failed: %v", err)
		}
		if path == "" {
			t.Error("expected non-empty path")
		}
	})

	t.Run("nonexistent command", func(t *testing.T) {
		_, err := exec.LookPath("nonexistent-command-xyz-12345")
		if err == nil {
			t.Error("expected error for nonexistent command")
		}
	})
}

func TestResult_CommandLine(t *testing.T) {
	res := &Result{Name: "certbot", Args: []string{"renew", "--config-dir", "/app/certs"}}
	if res.CommandLine() != "certbot renew --config-dir /app/certs" {
		t.Errorf("unexpected command line %q", res.CommandLine())
	}

	var nilRes *Result
	if nilRes.Success() {
		t.Error("nil result should not be successful")
	}
}

func TestProcessError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ProcessError
		want string
	}{
		{"exit status", &ProcessError{Name: "certbot", ExitCode: 1}, "certbot exited with status 1"},
		{"timeout", &ProcessError{Name: "docker", ExitCode: -1, TimedOut: true, Err: context.DeadlineExceeded}, "docker timed out: context deadline exceeded"},
		{"not started", &ProcessError{Name: "certbot", ExitCode: -1, Err: errors.New("executable file not found")}, "certbot failed to run: executable file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestMockExecutor(t *testing.T) {
	ctx := context.Background()

	t.Run("records calls and succeeds by default", func(t *testing.T) {
		mock := &MockExecutor{}

		res, err := mock.Execute(ctx, "certbot", "renew", "--config-dir", "/app/certs")
		require.NoError(t, err)
		assert.True(t, res.Success())
		assert.Empty(t, res.Stdout)
		assert.Equal(t, []CommandCall{{Name: "certbot", Args: []string{"renew", "--config-dir", "/app/certs"}}}, mock.Calls)

		path, err := mock.LookPath("certbot")
		require.NoError(t, err)
		assert.Equal(t, "/usr/bin/certbot", path)
	})

	t.Run("scripted results", func(t *testing.T) {
		mock := &MockExecutor{
			ExecuteFunc: func(name string, args ...string) (*Result, error) {
				if name == "docker" {
					return Exited(name, args, "", "nginx: [emerg] invalid", 1)
				}
				return Exited(name, args, "Congratulations", "", 0)
			},
			LookPathFunc: func(file string) (string, error) {
				return "", errors.New("not found")
			},
		}

		res, err := mock.Execute(ctx, "certbot")
		require.NoError(t, err)
		assert.Equal(t, "Congratulations", string(res.Stdout))

		res, err = mock.Execute(ctx, "docker", "exec", "nginx")
		require.Error(t, err)
		assert.Equal(t, 1, res.ExitCode)
		assert.Equal(t, "nginx: [emerg] invalid", string(res.Stderr))
		assert.True(t, errors.Is(err, certerrors.ErrProcessFailed))

		_, err = mock.LookPath("certbot")
		assert.Error(t, err)
		assert.Len(t, mock.Calls, 2)
	})
}
