package scheduler

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/LsHallo/certbot-multidomain/internal/logger"
)

// Renewal window: a random minute between 02:00 and 04:59 local time.
const (
	windowStartHour = 2
	windowHours     = 3
)

// Job is a unit of scheduled work
type Job func(ctx context.Context)

// TimeOfDay is a wall-clock time in the scheduler's location
type TimeOfDay struct {
	Hour   int
	Minute int
}

// String formats the time as HH:MM
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Validate checks the hour and minute ranges
func (t TimeOfDay) Validate() error {
	if t.Hour < 0 || t.Hour > 23 {
		return fmt.Errorf("invalid hour %d", t.Hour)
	}
	if t.Minute < 0 || t.Minute > 59 {
		return fmt.Errorf("invalid minute %d", t.Minute)
	}
	return nil
}

// RandomTimeOfDay picks hour uniformly from [2,4] and minute from [0,59].
// A nil r uses the global generator.
func RandomTimeOfDay(r *rand.Rand) TimeOfDay {
	intN := rand.IntN
	if r != nil {
		intN = r.IntN
	}
	return TimeOfDay{
		Hour:   windowStartHour + intN(windowHours),
		Minute: intN(60),
	}
}

// Scheduler registers daily jobs and runs the ones that are due
type Scheduler interface {
	// ScheduleDaily registers job to run once per day at the given time
	ScheduleDaily(at TimeOfDay, job Job) error

	// PollOnce runs every job whose trigger time has passed and returns
	// how many ran. A job runs at most once per trigger time.
	PollOnce(ctx context.Context) int
}

type entry struct {
	at       TimeOfDay
	schedule cron.Schedule
	next     time.Time
	job      Job
}

// Daily is a polling Scheduler. Each entry keeps the next trigger instant;
// after a run, the next trigger is computed strictly after the poll time,
// so the same day's trigger can never fire twice.
type Daily struct {
	now     func() time.Time
	entries []*entry
}

// NewDaily creates a Daily scheduler. A nil clock uses time.Now.
func NewDaily(now func() time.Time) *Daily {
	if now == nil {
		now = time.Now
	}
	return &Daily{now: now}
}

// ScheduleDaily registers job at the given time of day
func (d *Daily) ScheduleDaily(at TimeOfDay, job Job) error {
	if err := at.Validate(); err != nil {
		return err
	}
	if job == nil {
		return fmt.Errorf("job must not be nil")
	}

	spec := fmt.Sprintf("%d %d * * *", at.Minute, at.Hour)
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return fmt.Errorf("invalid daily schedule %q: %w", spec, err)
	}

	e := &entry{
		at:       at,
		schedule: schedule,
		next:     schedule.Next(d.now()),
		job:      job,
	}
	d.entries = append(d.entries, e)

	logger.DebugFields("Scheduled daily job", map[string]interface{}{
		"at":       at.String(),
		"next_run": e.next.Format(time.RFC3339),
	})
	return nil
}

// PollOnce runs due jobs synchronously
func (d *Daily) PollOnce(ctx context.Context) int {
	ran := 0
	for _, e := range d.entries {
		now := d.now()
		if now.Before(e.next) {
			continue
		}

		logger.Debug("Running daily job scheduled at %s", e.at)
		e.job(ctx)
		e.next = e.schedule.Next(now)
		ran++

		logger.Debug("Next run at %s", e.next.Format(time.RFC3339))
	}
	return ran
}

// NextRun returns the earliest pending trigger, or the zero time if
// nothing is scheduled
func (d *Daily) NextRun() time.Time {
	var next time.Time
	for _, e := range d.entries {
		if next.IsZero() || e.next.Before(next) {
			next = e.next
		}
	}
	return next
}

// Run polls s every interval until ctx is done. The first poll happens
// immediately. Jobs run on the calling goroutine, so a long job delays
// the next poll.
func Run(ctx context.Context, s Scheduler, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.PollOnce(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
