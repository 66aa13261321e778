package cli

import (
	"context"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/LsHallo/certbot-multidomain/internal/errors"
	"github.com/LsHallo/certbot-multidomain/internal/logger"
	"github.com/LsHallo/certbot-multidomain/internal/settings"
	"github.com/LsHallo/certbot-multidomain/internal/telemetry"
)

var version = "dev"

// rootCmd represents the base command. Without a subcommand it runs the
// long-lived daemon.
var rootCmd = &cobra.Command{
	Use:   "certbot-multidomain",
	Short: "Issue and renew Let's Encrypt certificates for many domains",
	Long: `certbot-multidomain requests a certificate for every domain in its config
file that does not have one yet, then renews all certificates once a day at a
random time between 02:00 and 04:59 and reloads the nginx container.

Certificates are obtained with certbot using the Cloudflare DNS challenge.

Every flag can also be set through the environment variable of the same
name in upper case, for example CONFIG_PATH. Flags win over the environment.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDaemon(cmd.Context(), settingsFrom(cmd))
	},
}

type settingsKey struct{}

// setup resolves settings, configures logging and fails fast on bad paths.
// The resolved settings travel to the command through its context.
func setup(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	envFile, err := settings.LoadEnvFile(flags)
	if err != nil {
		return err
	}

	s, err := settings.Resolve(flags)
	if err != nil {
		return err
	}

	logger.Init(s.Debug)
	logger.Debug("Debug mode enabled. Only staging certificates will be issued.")
	if envFile != "" {
		logger.Debug("Loaded environment from %s", envFile)
	}

	if err := s.Validate(); err != nil {
		return err
	}

	logger.DebugFields("Resolved settings", map[string]interface{}{
		"config_path":          s.ConfigPath,
		"cert_output_path":     s.CertOutputPath,
		"nginx_container_name": s.NginxContainerName,
		"exec_timeout":         s.ExecTimeout,
		"poll_interval":        s.PollInterval,
	})

	cmd.SetContext(context.WithValue(cmd.Context(), settingsKey{}, s))
	return nil
}

func settingsFrom(cmd *cobra.Command) *settings.Settings {
	s, _ := cmd.Context().Value(settingsKey{}).(*settings.Settings)
	return s
}

// Execute runs the root command and exits the process
func Execute() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := telemetry.Init(telemetry.DefaultConfig(version)); err != nil {
		logger.Warn("Tracing disabled: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Failed to flush traces: %v", err)
		}
	}()

	return guard(func() error {
		return rootCmd.ExecuteContext(ctx)
	})
}

// guard runs fn and turns its outcome into a process exit code. Panics are
// logged with their stack. An interrupt is a clean shutdown.
func guard(fn func() error) (code int) {
	defer func() {
		if r := recover(); r != nil {
			logger.Critical("Unexpected panic: %v\n%s", r, debug.Stack())
			code = 1
		}
	}()

	err := fn()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		logger.Warn("Interrupted, shutting down")
		return 0
	default:
		logger.Critical("%v", err)
		return 1
	}
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func init() {
	settings.RegisterFlags(rootCmd.PersistentFlags())
}
