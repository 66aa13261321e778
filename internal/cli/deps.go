package cli

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/LsHallo/certbot-multidomain/internal/executor"
	"github.com/LsHallo/certbot-multidomain/internal/scheduler"
)

// Dependencies aggregates all CLI external dependencies for testability
type Dependencies struct {
	ExecutorFactory ExecutorFactory
	Clock           func() time.Time
	Rand            *rand.Rand // nil uses the global generator
	Loop            LoopRunner
}

// ExecutorFactory creates the executor used for certbot and docker
type ExecutorFactory interface {
	Create(timeout time.Duration) executor.CommandExecutor
}

// LoopRunner drives a scheduler until ctx is done
type LoopRunner interface {
	Run(ctx context.Context, s scheduler.Scheduler, interval time.Duration) error
}

// Package-level dependencies (can be overridden for testing)
var deps = defaultDeps()

func defaultDeps() *Dependencies {
	return &Dependencies{
		ExecutorFactory: &realExecutorFactory{},
		Clock:           time.Now,
		Loop:            &realLoopRunner{},
	}
}

// SetDeps replaces the package dependencies (for testing)
func SetDeps(d *Dependencies) {
	deps = d
}

// GetDeps returns the current dependencies (for testing)
func GetDeps() *Dependencies {
	return deps
}

type realExecutorFactory struct{}

func (r *realExecutorFactory) Create(timeout time.Duration) executor.CommandExecutor {
	if timeout > 0 {
		return executor.NewSystemExecutorWithTimeout(timeout)
	}
	return executor.NewSystemExecutor()
}

type realLoopRunner struct{}

func (r *realLoopRunner) Run(ctx context.Context, s scheduler.Scheduler, interval time.Duration) error {
	return scheduler.Run(ctx, s, interval)
}
