package cli

import (
	"context"
	"time"

	"github.com/LsHallo/certbot-multidomain/internal/errors"
	"github.com/LsHallo/certbot-multidomain/internal/lifecycle"
	"github.com/LsHallo/certbot-multidomain/internal/logger"
	"github.com/LsHallo/certbot-multidomain/internal/scheduler"
	"github.com/LsHallo/certbot-multidomain/internal/settings"
)

// runDaemon requests missing certificates once, then schedules the daily
// renewal and polls until ctx is cancelled. Issuance failures never keep
// the scheduler from starting.
func runDaemon(ctx context.Context, s *settings.Settings) error {
	svc, err := newServices(s)
	if err != nil {
		return err
	}
	svc.warnMissingCertbot()

	logger.Debug("Requesting initial certs...")
	lifecycle.NewIssuer(svc.certbot).RequestInitial(ctx, svc.cfg)
	if err := ctx.Err(); err != nil {
		return err
	}

	logger.Debug("Scheduling renew task at random time in the morning...")
	renewer := lifecycle.NewRenewer(svc.certbot, svc.proxy, s.Debug)
	daily := scheduler.NewDaily(deps.Clock)
	at := scheduler.RandomTimeOfDay(deps.Rand)
	if err := daily.ScheduleDaily(at, renewer.Job); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to schedule renewal", err)
	}

	logger.InfoFields("Renewal scheduled daily at "+at.String(), map[string]interface{}{
		"next_run": daily.NextRun().Format(time.RFC3339),
	})

	return deps.Loop.Run(ctx, daily, s.PollInterval)
}
