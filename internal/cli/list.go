package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LsHallo/certbot-multidomain/internal/certbot"
	"github.com/LsHallo/certbot-multidomain/internal/output"
	"github.com/LsHallo/certbot-multidomain/internal/settings"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured domains and their certificates",
	Long: `List every domain from the config file in file order, with the
certificate name, the names the certificate covers and whether it exists.

Examples:
  certbot-multidomain list
  certbot-multidomain list --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd.Context(), settingsFrom(cmd), listJSON)
	},
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

// DomainInfo is one row of the list output
type DomainInfo struct {
	Key         string   `json:"key"`
	CertName    string   `json:"cert_name"`
	Names       []string `json:"names"`
	Certificate string   `json:"certificate"`
	Present     bool     `json:"present"`
}

func runList(_ context.Context, s *settings.Settings, jsonOut bool) error {
	svc, err := newServices(s)
	if err != nil {
		return err
	}

	infos := make([]DomainInfo, 0, len(svc.cfg.Domains))
	for _, d := range svc.cfg.Domains {
		certName := d.EffectiveCertName()
		infos = append(infos, DomainInfo{
			Key:         d.Key,
			CertName:    certName,
			Names:       certbot.DomainList(d.Key, d.Subdomains),
			Certificate: svc.certbot.CertPath(certName),
			Present:     svc.certbot.HasCertificate(certName),
		})
	}

	if jsonOut {
		return output.JSON(infos)
	}

	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		state := "missing"
		if info.Present {
			state = "present"
		}
		rows = append(rows, []string{info.Key, info.CertName, strings.Join(info.Names, ","), state})
	}
	output.Table([]string{"KEY", "CERT NAME", "NAMES", "CERTIFICATE"}, rows)
	return nil
}
