package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LsHallo/certbot-multidomain/internal/output"
	"github.com/LsHallo/certbot-multidomain/internal/settings"
)

var doctorJSON bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system status and diagnose issues",
	Long: `Run diagnostic checks without requesting or renewing anything.

Checks:
  - Certbot installation and version
  - Docker installation and nginx container state
  - DNS credentials file for every domain
  - Existing certificate for every domain

Examples:
  certbot-multidomain doctor
  certbot-multidomain doctor --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDoctor(cmd.Context(), settingsFrom(cmd), doctorJSON)
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(doctorCmd)
}

// CheckResult represents a single diagnostic check result
type CheckResult struct {
	Status  output.Status `json:"status"`
	Message string        `json:"message"`
}

// DomainStatus represents the checks for one configured domain
type DomainStatus struct {
	Key      string        `json:"key"`
	CertName string        `json:"cert_name"`
	Status   output.Status `json:"status"`
	Checks   []CheckResult `json:"checks"`
}

// DoctorReport contains all diagnostic results
type DoctorReport struct {
	System  []CheckResult  `json:"system"`
	Domains []DomainStatus `json:"domains"`
}

// Problems counts failed checks. Warnings are not problems.
func (r *DoctorReport) Problems() int {
	n := 0
	for _, c := range r.System {
		if c.Status == output.StatusError {
			n++
		}
	}
	for _, d := range r.Domains {
		for _, c := range d.Checks {
			if c.Status == output.StatusError {
				n++
			}
		}
	}
	return n
}

func runDoctor(ctx context.Context, s *settings.Settings, jsonOut bool) error {
	svc, err := newServices(s)
	if err != nil {
		return err
	}

	report := &DoctorReport{
		System:  checkSystem(ctx, svc),
		Domains: checkDomains(svc),
	}

	if jsonOut {
		if err := output.JSON(report); err != nil {
			return err
		}
	} else {
		displayDoctorResults(report)
	}

	if n := report.Problems(); n > 0 {
		return fmt.Errorf("doctor found %d problem(s)", n)
	}
	return nil
}

func checkSystem(ctx context.Context, svc *services) []CheckResult {
	results := []CheckResult{}

	if svc.certbot.IsInstalled() {
		version, err := svc.certbot.Version(ctx)
		if err != nil {
			version = "unknown"
		}
		results = append(results, CheckResult{
			Status:  output.StatusOK,
			Message: fmt.Sprintf("Certbot installed (%s)", version),
		})
	} else {
		results = append(results, CheckResult{
			Status:  output.StatusError,
			Message: "Certbot not installed",
		})
	}

	if _, err := svc.exec.LookPath("docker"); err != nil {
		results = append(results, CheckResult{
			Status:  output.StatusError,
			Message: "Docker not installed",
		})
		return results
	}
	results = append(results, CheckResult{Status: output.StatusOK, Message: "Docker installed"})

	name := svc.proxy.Name()
	running, err := svc.proxy.IsRunning(ctx)
	switch {
	case err != nil:
		results = append(results, CheckResult{
			Status:  output.StatusError,
			Message: fmt.Sprintf("Container %s not found", name),
		})
	case running:
		results = append(results, CheckResult{
			Status:  output.StatusOK,
			Message: fmt.Sprintf("Container %s running", name),
		})
	default:
		results = append(results, CheckResult{
			Status:  output.StatusError,
			Message: fmt.Sprintf("Container %s not running", name),
		})
	}

	return results
}

func checkDomains(svc *services) []DomainStatus {
	statuses := []DomainStatus{}

	for _, d := range svc.cfg.Domains {
		certName := d.EffectiveCertName()
		status := DomainStatus{
			Key:      d.Key,
			CertName: certName,
			Checks:   []CheckResult{},
		}

		info, err := os.Stat(d.DNSCredentialsFile)
		switch {
		case err != nil:
			status.Checks = append(status.Checks, CheckResult{
				Status:  output.StatusError,
				Message: fmt.Sprintf("DNS credentials file missing (%s)", d.DNSCredentialsFile),
			})
		case info.Mode().Perm()&0077 != 0:
			status.Checks = append(status.Checks, CheckResult{
				Status:  output.StatusWarning,
				Message: fmt.Sprintf("DNS credentials file is readable by other users (%s)", info.Mode().Perm()),
			})
		}

		if svc.certbot.HasCertificate(certName) {
			status.Checks = append(status.Checks, CheckResult{
				Status:  output.StatusOK,
				Message: "certificate present",
			})
		} else {
			status.Checks = append(status.Checks, CheckResult{
				Status:  output.StatusWarning,
				Message: "no certificate yet",
			})
		}

		status.Status = worst(status.Checks)
		statuses = append(statuses, status)
	}

	return statuses
}

func worst(checks []CheckResult) output.Status {
	result := output.StatusOK
	for _, c := range checks {
		switch c.Status {
		case output.StatusError:
			return output.StatusError
		case output.StatusWarning:
			result = output.StatusWarning
		}
	}
	return result
}

func displayDoctorResults(report *DoctorReport) {
	output.Print("Checking system requirements...")
	for _, check := range report.System {
		output.Check(check.Status, "%s", check.Message)
	}
	output.Print("")

	output.Print("Checking domains...")
	for _, d := range report.Domains {
		messages := make([]string, 0, len(d.Checks))
		for _, c := range d.Checks {
			messages = append(messages, c.Message)
		}
		output.Check(d.Status, "%s - %s", d.Key, strings.Join(messages, ", "))
	}
}
