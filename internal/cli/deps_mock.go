package cli

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/LsHallo/certbot-multidomain/internal/executor"
	"github.com/LsHallo/certbot-multidomain/internal/scheduler"
)

// MockExecutorFactory hands out a fixed executor and records the timeout
type MockExecutorFactory struct {
	Exec     executor.CommandExecutor
	Timeouts []time.Duration
}

func (m *MockExecutorFactory) Create(timeout time.Duration) executor.CommandExecutor {
	m.Timeouts = append(m.Timeouts, timeout)
	return m.Exec
}

// MockLoopRunner calls RunFunc instead of polling on a ticker
type MockLoopRunner struct {
	RunFunc   func(ctx context.Context, s scheduler.Scheduler) error
	Scheduler scheduler.Scheduler
	Interval  time.Duration
	Calls     int
}

func (m *MockLoopRunner) Run(ctx context.Context, s scheduler.Scheduler, interval time.Duration) error {
	m.Calls++
	m.Scheduler = s
	m.Interval = interval
	if m.RunFunc != nil {
		return m.RunFunc(ctx, s)
	}
	return nil
}

// MockDepsBuilder helps construct test dependencies
type MockDepsBuilder struct {
	deps *Dependencies
}

// NewMockDeps creates a builder with safe defaults: a MockExecutor, a
// fixed clock, a seeded generator and a loop that returns immediately
func NewMockDeps() *MockDepsBuilder {
	return &MockDepsBuilder{
		deps: &Dependencies{
			ExecutorFactory: &MockExecutorFactory{Exec: &executor.MockExecutor{}},
			Clock: func() time.Time {
				return time.Date(2026, 1, 1, 12, 0, 0, 0, time.Local)
			},
			Rand: rand.New(rand.NewPCG(1, 1)),
			Loop: &MockLoopRunner{},
		},
	}
}

func (b *MockDepsBuilder) WithExecutor(exec executor.CommandExecutor) *MockDepsBuilder {
	b.deps.ExecutorFactory = &MockExecutorFactory{Exec: exec}
	return b
}

func (b *MockDepsBuilder) WithExecutorFactory(f ExecutorFactory) *MockDepsBuilder {
	b.deps.ExecutorFactory = f
	return b
}

func (b *MockDepsBuilder) WithClock(clock func() time.Time) *MockDepsBuilder {
	b.deps.Clock = clock
	return b
}

func (b *MockDepsBuilder) WithLoop(loop LoopRunner) *MockDepsBuilder {
	b.deps.Loop = loop
	return b
}

func (b *MockDepsBuilder) Build() *Dependencies {
	return b.deps
}
