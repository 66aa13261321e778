package certbot

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/LsHallo/certbot-multidomain/internal/config"
	"github.com/LsHallo/certbot-multidomain/internal/errors"
	"github.com/LsHallo/certbot-multidomain/internal/executor"
	"github.com/LsHallo/certbot-multidomain/internal/logger"
)

// Binary is the certbot executable looked up in PATH
const Binary = "certbot"

const (
	// dnsPlugin is the certbot DNS authenticator used for every domain
	dnsPlugin = "dns-cloudflare"

	// propagationSeconds is how long certbot waits for the TXT record
	propagationSeconds = 25

	// rsaKeySize is the key size for every issued certificate
	rsaKeySize = 4096

	// wildcardMarker as the first subdomain requests <key> and *.<key>
	wildcardMarker = "wildcard"
)

// DomainList returns the SAN list for one configured domain. The first
// element is always the bare key. Only the first subdomain entry is checked
// for the wildcard marker; later entries are taken literally.
func DomainList(key string, subdomains []string) []string {
	if len(subdomains) == 0 {
		logger.Warn("No subdomains specified for %s. Requesting wildcard cert!", key)
		subdomains = []string{wildcardMarker}
	}

	if strings.EqualFold(subdomains[0], wildcardMarker) {
		return []string{key, "*." + key}
	}

	sans := make([]string, 0, len(subdomains)+1)
	sans = append(sans, key)
	for _, sub := range subdomains {
		sans = append(sans, sub+"."+key)
	}
	return sans
}

// Client builds and runs certbot commands against one shared config directory
type Client struct {
	exec      executor.CommandExecutor
	configDir string
	staging   bool
}

// NewClient creates a certbot client. configDir is passed as --config-dir
// and holds live/<cert-name>/ for every certificate. staging selects the
// ACME test endpoint for issuance and dry runs for renewal.
func NewClient(exec executor.CommandExecutor, configDir string, staging bool) *Client {
	return &Client{
		exec:      exec,
		configDir: configDir,
		staging:   staging,
	}
}

// ConfigDir returns the certbot config directory
func (c *Client) ConfigDir() string {
	return c.configDir
}

// IsInstalled checks if certbot is installed
func (c *Client) IsInstalled() bool {
	_, err := c.exec.LookPath(Binary)
	return err == nil
}

// CertPath returns the fullchain path certbot writes for certName
func (c *Client) CertPath(certName string) string {
	return filepath.Join(c.configDir, "live", certName, "fullchain.pem")
}

// HasCertificate reports whether the fullchain file for certName exists.
// Symlinks are followed, since certbot links live/ into archive/.
func (c *Client) HasCertificate(certName string) bool {
	info, err := os.Stat(c.CertPath(certName))
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// IssueArgs returns the certonly argument vector for a domain
func (c *Client) IssueArgs(d *config.Domain) []string {
	args := []string{
		"certonly",
		"--non-interactive",
		"--no-autorenew",
	}

	if c.staging {
		args = append(args, "-v", "--test-cert")
	}

	args = append(args,
		"--"+dnsPlugin,
		"--"+dnsPlugin+"-credentials", d.DNSCredentialsFile,
		"--"+dnsPlugin+"-propagation-seconds", strconv.Itoa(propagationSeconds),
		"--email", d.Email,
		"--no-eff-email",
		"--agree-tos",
		"--config-dir", c.configDir,
		"--rsa-key-size", strconv.Itoa(rsaKeySize),
		"--cert-name", d.EffectiveCertName(),
	)

	for _, san := range DomainList(d.Key, d.Subdomains) {
		args = append(args, "-d", san)
	}

	return args
}

// RenewArgs returns the renew argument vector covering every certificate
func (c *Client) RenewArgs() []string {
	args := []string{"renew", "--config-dir", c.configDir}
	if c.staging {
		args = append(args, "--dry-run")
	}
	return args
}

// Issue requests a new certificate for a domain
func (c *Client) Issue(ctx context.Context, d *config.Domain) (*executor.Result, error) {
	res, err := c.run(ctx, c.IssueArgs(d))
	if err != nil {
		return res, errors.WrapDomain(errors.ErrCodeProcess, d.Key, err)
	}
	return res, nil
}

// RenewAll renews every certificate under the config directory
func (c *Client) RenewAll(ctx context.Context) (*executor.Result, error) {
	return c.run(ctx, c.RenewArgs())
}

var versionPattern = regexp.MustCompile(`certbot (\d+\.\d+(?:\.\d+)?)`)

// Version runs `certbot --version`. Older releases print the version on
// stderr, so both streams are searched.
func (c *Client) Version(ctx context.Context) (string, error) {
	res, err := c.exec.Execute(ctx, Binary, "--version")
	if err != nil {
		return "", err
	}
	for _, stream := range [][]byte{res.Stdout, res.Stderr} {
		if m := versionPattern.FindSubmatch(stream); m != nil {
			return string(m[1]), nil
		}
	}
	return "unknown", nil
}

// run executes certbot with the given arguments
func (c *Client) run(ctx context.Context, args []string) (*executor.Result, error) {
	logger.DebugFields("Certbot command line", map[string]interface{}{
		"args": strings.Join(args, " "),
	})
	return c.exec.Execute(ctx, Binary, args...)
}
