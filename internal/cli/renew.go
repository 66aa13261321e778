package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/LsHallo/certbot-multidomain/internal/errors"
	"github.com/LsHallo/certbot-multidomain/internal/lifecycle"
	"github.com/LsHallo/certbot-multidomain/internal/settings"
)

var renewCmd = &cobra.Command{
	Use:   "renew",
	Short: "Renew all certificates now, reload nginx and exit",
	Long: `Run the daily renewal job once: renew every certificate that is due,
then validate and reload the nginx container.

In debug mode certbot performs a dry run.

Examples:
  certbot-multidomain renew
  certbot-multidomain renew -n my-nginx`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRenew(cmd.Context(), settingsFrom(cmd))
	},
}

func init() {
	rootCmd.AddCommand(renewCmd)
}

func runRenew(ctx context.Context, s *settings.Settings) error {
	svc, err := newServices(s)
	if err != nil {
		return err
	}
	svc.warnMissingCertbot()

	outcome := lifecycle.NewRenewer(svc.certbot, svc.proxy, s.Debug).Run(ctx)

	if outcome.RenewErr != nil {
		return errors.Wrap(errors.ErrCodeProcess, "certificate renewal failed", outcome.RenewErr)
	}
	if !outcome.Reloaded() {
		return errors.Wrap(errors.ErrCodeProcess, "nginx reload failed", outcome.ReloadErr)
	}
	return nil
}
