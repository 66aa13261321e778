package settings

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/LsHallo/certbot-multidomain/internal/errors"
)

// Built-in defaults
const (
	DefaultConfigPath         = "/app/config.yml"
	DefaultCertOutputPath     = "/app/certs"
	DefaultNginxContainerName = "nginx"
	DefaultPollInterval       = 60 * time.Second
	DefaultEnvFile            = ".env"
)

// Setting keys. Each key is both the long flag name and, upper-cased,
// the environment variable.
const (
	KeyDebug              = "debug"
	KeyConfigPath         = "config_path"
	KeyCertOutputPath     = "cert_output_path"
	KeyNginxContainerName = "nginx_container_name"
	KeyExecTimeout        = "exec_timeout"
	KeyPollInterval       = "poll_interval"
	KeyEnvFile            = "env_file"
)

var envNames = map[string]string{
	KeyDebug:              "DEBUG",
	KeyConfigPath:         "CONFIG_PATH",
	KeyCertOutputPath:     "CERT_OUTPUT_PATH",
	KeyNginxContainerName: "NGINX_CONTAINER_NAME",
	KeyExecTimeout:        "EXEC_TIMEOUT",
	KeyPollInterval:       "POLL_INTERVAL",
	KeyEnvFile:            "ENV_FILE",
}

// Settings is the resolved runtime configuration. It is built once at
// startup and not modified afterwards.
type Settings struct {
	Debug              bool
	ConfigPath         string
	CertOutputPath     string
	NginxContainerName string
	ExecTimeout        time.Duration
	PollInterval       time.Duration
	EnvFile            string
}

// RegisterFlags adds the settings flags to fs
func RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolP(KeyDebug, "d", false, "Enable debug output and generate only staging certificates")
	fs.StringP(KeyConfigPath, "c", DefaultConfigPath, "Path to the domain configuration file")
	fs.StringP(KeyCertOutputPath, "o", DefaultCertOutputPath, "Certbot config directory where certificates are stored")
	fs.StringP(KeyNginxContainerName, "n", DefaultNginxContainerName, "Name of the nginx container to reload")
	fs.Duration(KeyExecTimeout, 0, "Kill certbot and reload commands running longer than this (0 waits forever)")
	fs.Duration(KeyPollInterval, DefaultPollInterval, "How often the scheduler checks for due jobs")
	fs.String(KeyEnvFile, "", "Load environment variables from this file (default ./.env if present)")
}

// LoadEnvFile loads variables from the env file named by the flag or
// ENV_FILE, falling back to ./.env. Variables already present in the
// environment are never overridden. An explicitly named file that does
// not exist is an error; a missing ./.env is not.
func LoadEnvFile(flags *pflag.FlagSet) (string, error) {
	path := ""
	if f := flags.Lookup(KeyEnvFile); f != nil && f.Changed {
		path = f.Value.String()
	} else if env := os.Getenv(envNames[KeyEnvFile]); env != "" {
		path = env
	}

	if path == "" {
		if _, err := os.Stat(DefaultEnvFile); err != nil {
			return "", nil
		}
		path = DefaultEnvFile
	}

	if err := godotenv.Load(path); err != nil {
		return "", errors.Config(fmt.Sprintf("failed to load env file %s", path), err)
	}
	return path, nil
}

// Resolve merges flags, environment and defaults. A flag set on the
// command line wins over the environment, which wins over the default.
func Resolve(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	v.SetDefault(KeyConfigPath, DefaultConfigPath)
	v.SetDefault(KeyCertOutputPath, DefaultCertOutputPath)
	v.SetDefault(KeyNginxContainerName, DefaultNginxContainerName)
	v.SetDefault(KeyExecTimeout, time.Duration(0))
	v.SetDefault(KeyPollInterval, DefaultPollInterval)

	for key, env := range envNames {
		if err := v.BindEnv(key, env); err != nil {
			return nil, errors.Config("failed to bind environment variable "+env, err)
		}
	}

	// debug is a presence switch resolved separately below
	for _, key := range []string{KeyConfigPath, KeyCertOutputPath, KeyNginxContainerName, KeyExecTimeout, KeyPollInterval, KeyEnvFile} {
		if f := flags.Lookup(key); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, errors.Config("failed to bind flag --"+key, err)
			}
		}
	}

	debugFlag, _ := flags.GetBool(KeyDebug)

	s := &Settings{
		Debug:              debugFlag || v.GetString(KeyDebug) != "",
		ConfigPath:         v.GetString(KeyConfigPath),
		CertOutputPath:     v.GetString(KeyCertOutputPath),
		NginxContainerName: v.GetString(KeyNginxContainerName),
		EnvFile:            v.GetString(KeyEnvFile),
	}

	var err error
	if s.ExecTimeout, err = duration(v, KeyExecTimeout); err != nil {
		return nil, err
	}
	if s.PollInterval, err = duration(v, KeyPollInterval); err != nil {
		return nil, err
	}

	return s, nil
}

// duration parses a duration setting. viper's GetDuration swallows parse
// errors, so the raw string is parsed here.
func duration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, errors.Config(fmt.Sprintf("invalid %s %q", key, raw), err)
	}
	return d, nil
}

// Validate checks that the configured paths exist and the durations are
// usable
func (s *Settings) Validate() error {
	if _, err := os.Stat(s.ConfigPath); err != nil {
		return errors.Path(errors.ErrConfigNotFound, s.ConfigPath)
	}

	info, err := os.Stat(s.CertOutputPath)
	if err != nil {
		return errors.Path(errors.ErrOutputNotFound, s.CertOutputPath)
	}
	if !info.IsDir() {
		return errors.Path(errors.ErrOutputNotDir, s.CertOutputPath)
	}

	if s.NginxContainerName == "" {
		return errors.Config("nginx container name must not be empty", nil)
	}
	if s.ExecTimeout < 0 {
		return errors.Config(fmt.Sprintf("exec timeout must not be negative, got %s", s.ExecTimeout), nil)
	}
	if s.PollInterval <= 0 {
		return errors.Config(fmt.Sprintf("poll interval must be positive, got %s", s.PollInterval), nil)
	}
	return nil
}
