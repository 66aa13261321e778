package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LsHallo/certbot-multidomain/internal/errors"
	"github.com/LsHallo/certbot-multidomain/internal/lifecycle"
	"github.com/LsHallo/certbot-multidomain/internal/logger"
	"github.com/LsHallo/certbot-multidomain/internal/settings"
)

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Request missing certificates once and exit",
	Long: `Request a certificate for every configured domain that has none yet,
then exit without scheduling renewals.

Exits non-zero if any request failed.

Examples:
  certbot-multidomain issue -c ./config.yml -o ./certs
  certbot-multidomain issue --debug    # staging certificates only`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIssue(cmd.Context(), settingsFrom(cmd))
	},
}

func init() {
	rootCmd.AddCommand(issueCmd)
}

func runIssue(ctx context.Context, s *settings.Settings) error {
	svc, err := newServices(s)
	if err != nil {
		return err
	}
	svc.warnMissingCertbot()

	outcomes := lifecycle.NewIssuer(svc.certbot).RequestInitial(ctx, svc.cfg)
	if err := ctx.Err(); err != nil {
		return err
	}

	var issued, skipped, failed int
	for _, o := range outcomes {
		switch {
		case o.Skipped:
			skipped++
		case o.Err != nil:
			failed++
		default:
			issued++
		}
	}

	logger.InfoFields("Initial issuance finished", map[string]interface{}{
		"issued":  issued,
		"skipped": skipped,
		"failed":  failed,
	})

	if failed > 0 {
		return errors.Wrap(errors.ErrCodeProcess,
			fmt.Sprintf("%d of %d certificate request(s) failed", failed, len(outcomes)), nil)
	}
	return nil
}
