package lifecycle

import (
	"context"

	"github.com/LsHallo/certbot-multidomain/internal/certbot"
	"github.com/LsHallo/certbot-multidomain/internal/executor"
	"github.com/LsHallo/certbot-multidomain/internal/logger"
	"github.com/LsHallo/certbot-multidomain/internal/proxy"
	"github.com/LsHallo/certbot-multidomain/internal/telemetry"
)

// RenewOutcome records one run of the renew-and-reload job
type RenewOutcome struct {
	Renew     *executor.Result
	RenewErr  error
	Reload    *executor.Result
	ReloadErr error
}

// Reloaded reports whether the proxy reload exited with status 0
func (o RenewOutcome) Reloaded() bool {
	return o.Reload.Success()
}

// Renewer renews every certificate and then reloads the proxy
type Renewer struct {
	client   *certbot.Client
	reloader proxy.Reloader
	dryRun   bool
}

// NewRenewer creates a Renewer. dryRun only labels telemetry; the client
// decides the actual certbot flags.
func NewRenewer(client *certbot.Client, reloader proxy.Reloader, dryRun bool) *Renewer {
	return &Renewer{
		client:   client,
		reloader: reloader,
		dryRun:   dryRun,
	}
}

// Run renews all certificates, then reloads the proxy. The reload runs even
// when the renewal failed, since certbot renews certificates one at a time.
// Nothing is retried.
func (r *Renewer) Run(ctx context.Context) RenewOutcome {
	var outcome RenewOutcome

	logger.Info("Renewing certificates in %s", r.client.ConfigDir())
	renewCtx, span := telemetry.TraceRenew(ctx, r.dryRun)
	outcome.Renew, outcome.RenewErr = r.client.RenewAll(renewCtx)
	telemetry.End(span, exitCode(outcome.Renew), outcome.RenewErr)

	logOutput(outcome.Renew)
	if outcome.RenewErr != nil {
		logger.LogError(outcome.RenewErr, "Certificate renewal failed")
	}

	outcome.Reload, outcome.ReloadErr = r.reload(ctx)
	return outcome
}

// Job adapts Run to the scheduler's job signature
func (r *Renewer) Job(ctx context.Context) {
	r.Run(ctx)
}

func (r *Renewer) reload(ctx context.Context) (*executor.Result, error) {
	logger.Debug("Reloading Nginx configuration for container '%s' to apply certs.", r.reloader.Name())

	ctx, span := telemetry.TraceReload(ctx, r.reloader.Name())
	res, err := r.reloader.Reload(ctx)
	telemetry.End(span, exitCode(res), err)

	logOutput(res)
	if res.Success() {
		logger.Info("Reload successful!")
		return res, err
	}

	logger.Error("Nginx reload failed! See above for details.")
	logger.ErrorFields("Reload exit status", map[string]interface{}{
		"container": r.reloader.Name(),
		"exit_code": exitCode(res),
	})
	return res, err
}
