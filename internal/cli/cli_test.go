package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/LsHallo/certbot-multidomain/internal/logger"
	"github.com/LsHallo/certbot-multidomain/internal/output"
	"github.com/LsHallo/certbot-multidomain/internal/settings"
)

func init() {
	// Disable color for tests
	color.NoColor = true
}

const twoDomains = `
domains:
  example.com:
    email: admin@example.com
    dns_credentials_file: %CREDS%
    subdomains: [www]
  example.org:
    email: admin@example.org
    dns_credentials_file: %CREDS%
    subdomains: wildcard
`

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func withDeps(t *testing.T, d *Dependencies) {
	t.Helper()
	old := GetDeps()
	SetDeps(d)
	t.Cleanup(func() { SetDeps(old) })
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.SetLevel(logger.LevelDebug)
	t.Cleanup(func() {
		logger.SetOutput(nil)
		logger.SetLevel(logger.LevelInfo)
	})
	return &buf
}

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	output.SetWriter(&buf)
	t.Cleanup(func() { output.SetWriter(nil) })
	return &buf
}

// testSettings writes content as the config file into a fresh directory
// next to an empty certificate directory. %CREDS% is replaced by the path
// of a private credentials file.
func testSettings(t *testing.T, content string) *settings.Settings {
	t.Helper()
	dir := t.TempDir()

	creds := filepath.Join(dir, "cloudflare.ini")
	require.NoError(t, os.WriteFile(creds, []byte("dns_cloudflare_api_token = x\n"), 0600))

	cfgPath := filepath.Join(dir, "config.yml")
	content = strings.ReplaceAll(content, "%CREDS%", creds)
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0644))

	certs := filepath.Join(dir, "certs")
	require.NoError(t, os.Mkdir(certs, 0755))

	return &settings.Settings{
		ConfigPath:         cfgPath,
		CertOutputPath:     certs,
		NginxContainerName: "nginx",
		PollInterval:       settings.DefaultPollInterval,
	}
}

func writeFullchain(t *testing.T, certDir, certName string) {
	t.Helper()
	live := filepath.Join(certDir, "live", certName)
	require.NoError(t, os.MkdirAll(live, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(live, "fullchain.pem"), []byte("cert"), 0644))
}

// resetFlags puts the global command flags back to their defaults
func resetFlags(t *testing.T) {
	t.Helper()
	reset := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	t.Cleanup(func() {
		reset(rootCmd.PersistentFlags())
		for _, c := range rootCmd.Commands() {
			reset(c.Flags())
		}
		rootCmd.SetArgs(nil)
	})
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range []string{"DEBUG", "CONFIG_PATH", "CERT_OUTPUT_PATH", "NGINX_CONTAINER_NAME", "EXEC_TIMEOUT", "POLL_INTERVAL", "ENV_FILE"} {
		t.Setenv(env, "")
	}
}
