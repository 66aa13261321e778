package lifecycle

import (
	"context"

	"github.com/LsHallo/certbot-multidomain/internal/certbot"
	"github.com/LsHallo/certbot-multidomain/internal/config"
	"github.com/LsHallo/certbot-multidomain/internal/executor"
	"github.com/LsHallo/certbot-multidomain/internal/logger"
	"github.com/LsHallo/certbot-multidomain/internal/telemetry"
)

// IssueOutcome records what happened to one configured domain
type IssueOutcome struct {
	Key      string
	CertName string
	Skipped  bool // certificate already present, nothing was run
	Result   *executor.Result
	Err      error
}

// Issuer requests certificates that do not exist on disk yet
type Issuer struct {
	client *certbot.Client
}

// NewIssuer creates an Issuer
func NewIssuer(client *certbot.Client) *Issuer {
	return &Issuer{client: client}
}

// RequestInitial walks the domains in file order. A domain whose fullchain
// file already exists is skipped; every other domain gets exactly one
// certbot run. Failures are logged and never stop the remaining domains.
// It stops early only when ctx is cancelled.
func (i *Issuer) RequestInitial(ctx context.Context, cfg *config.Config) []IssueOutcome {
	outcomes := make([]IssueOutcome, 0, len(cfg.Domains))

	for _, d := range cfg.Domains {
		if ctx.Err() != nil {
			logger.Warn("Initial issuance interrupted before %s", d.Key)
			break
		}
		outcomes = append(outcomes, i.requestOne(ctx, d))
	}

	return outcomes
}

func (i *Issuer) requestOne(ctx context.Context, d *config.Domain) IssueOutcome {
	certName := d.EffectiveCertName()
	outcome := IssueOutcome{Key: d.Key, CertName: certName}

	certPath := i.client.CertPath(certName)
	logger.Debug("Checking for existing cert %s", certPath)
	if i.client.HasCertificate(certName) {
		logger.Info("Cert for %s exists. Renewal job will cover this one.", d.Key)
		outcome.Skipped = true
		return outcome
	}

	logger.Info("Requesting new certificate for %s.", d.Key)

	ctx, span := telemetry.TraceIssue(ctx, d.Key, certName)
	res, err := i.client.Issue(ctx, d)
	telemetry.End(span, exitCode(res), err)

	logOutput(res)
	if err != nil {
		logger.ErrorFields("Certificate request failed", map[string]interface{}{
			"domain":    d.Key,
			"cert_name": certName,
			"exit_code": exitCode(res),
			"error":     err,
		})
	} else {
		logger.Info("Certificate for %s issued at %s", d.Key, certPath)
	}

	outcome.Result = res
	outcome.Err = err
	return outcome
}
