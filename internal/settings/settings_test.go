package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LsHallo/certbot-multidomain/internal/errors"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range envNames {
		t.Setenv(env, "")
	}
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestResolve_Defaults(t *testing.T) {
	clearEnv(t)

	s, err := Resolve(newFlags(t))
	require.NoError(t, err)

	assert.False(t, s.Debug)
	assert.Equal(t, DefaultConfigPath, s.ConfigPath)
	assert.Equal(t, DefaultCertOutputPath, s.CertOutputPath)
	assert.Equal(t, DefaultNginxContainerName, s.NginxContainerName)
	assert.Equal(t, time.Duration(0), s.ExecTimeout)
	assert.Equal(t, DefaultPollInterval, s.PollInterval)
}

func TestResolve_EnvironmentOverridesDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_PATH", "/etc/cm/config.yml")
	t.Setenv("CERT_OUTPUT_PATH", "/var/lib/certs")
	t.Setenv("NGINX_CONTAINER_NAME", "proxy")
	t.Setenv("EXEC_TIMEOUT", "10m")
	t.Setenv("POLL_INTERVAL", "15s")

	s, err := Resolve(newFlags(t))
	require.NoError(t, err)

	assert.Equal(t, "/etc/cm/config.yml", s.ConfigPath)
	assert.Equal(t, "/var/lib/certs", s.CertOutputPath)
	assert.Equal(t, "proxy", s.NginxContainerName)
	assert.Equal(t, 10*time.Minute, s.ExecTimeout)
	assert.Equal(t, 15*time.Second, s.PollInterval)
}

func TestResolve_FlagWinsOverEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_PATH", "/from/env.yml")
	t.Setenv("NGINX_CONTAINER_NAME", "env-proxy")
	t.Setenv("POLL_INTERVAL", "15s")

	s, err := Resolve(newFlags(t,
		"-c", "/from/flag.yml",
		"--nginx_container_name", "flag-proxy",
		"--poll_interval", "30s",
	))
	require.NoError(t, err)

	assert.Equal(t, "/from/flag.yml", s.ConfigPath)
	assert.Equal(t, "flag-proxy", s.NginxContainerName)
	assert.Equal(t, 30*time.Second, s.PollInterval)
	// untouched settings still come from the default
	assert.Equal(t, DefaultCertOutputPath, s.CertOutputPath)
}

func TestResolve_Debug(t *testing.T) {
	tests := []struct {
		name string
		env  string
		args []string
		want bool
	}{
		{"off", "", nil, false},
		{"short flag", "", []string{"-d"}, true},
		{"long flag", "", []string{"--debug"}, true},
		{"env presence", "1", nil, true},
		{"env any value", "false", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("DEBUG", tt.env)

			s, err := Resolve(newFlags(t, tt.args...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Debug)
		})
	}
}

func TestResolve_InvalidDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("POLL_INTERVAL", "soon")

	_, err := Resolve(newFlags(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfigInvalid))
	assert.Contains(t, err.Error(), "poll_interval")
}

func validSettings(t *testing.T) *Settings {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(cfg, []byte("domains: {}\n"), 0644))
	out := filepath.Join(dir, "certs")
	require.NoError(t, os.Mkdir(out, 0755))

	return &Settings{
		ConfigPath:         cfg,
		CertOutputPath:     out,
		NginxContainerName: "nginx",
		PollInterval:       time.Minute,
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validSettings(t).Validate())
	})

	t.Run("missing config", func(t *testing.T) {
		s := validSettings(t)
		s.ConfigPath = filepath.Join(t.TempDir(), "nope.yml")

		err := s.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrConfigNotFound))
		assert.Contains(t, err.Error(), "nope.yml")
	})

	t.Run("missing output path", func(t *testing.T) {
		s := validSettings(t)
		s.CertOutputPath = filepath.Join(t.TempDir(), "missing")

		err := s.Validate()
		assert.True(t, errors.Is(err, errors.ErrOutputNotFound))
	})

	t.Run("output path is a file", func(t *testing.T) {
		s := validSettings(t)
		s.CertOutputPath = s.ConfigPath

		err := s.Validate()
		assert.True(t, errors.Is(err, errors.ErrOutputNotDir))
	})

	t.Run("zero poll interval", func(t *testing.T) {
		s := validSettings(t)
		s.PollInterval = 0
		assert.True(t, errors.Is(s.Validate(), errors.ErrConfigInvalid))
	})

	t.Run("negative exec timeout", func(t *testing.T) {
		s := validSettings(t)
		s.ExecTimeout = -time.Second
		assert.True(t, errors.Is(s.Validate(), errors.ErrConfigInvalid))
	})
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	const key = "CERTBOT_MULTIDOMAIN_TEST_VALUE"
	t.Cleanup(func() { os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-file\nNGINX_CONTAINER_NAME=file-proxy\n"), 0644))
	t.Setenv("NGINX_CONTAINER_NAME", "already-set")

	fs := newFlags(t, "--env_file", path)
	loaded, err := LoadEnvFile(fs)
	require.NoError(t, err)
	assert.Equal(t, path, loaded)
	assert.Equal(t, "from-file", os.Getenv(key))

	s, err := Resolve(fs)
	require.NoError(t, err)
	assert.Equal(t, "already-set", s.NginxContainerName, "existing variables are not overridden")
}

func TestLoadEnvFile_FromEnvironment(t *testing.T) {
	clearEnv(t)
	const key = "CERTBOT_MULTIDOMAIN_TEST_ENVFILE"
	t.Cleanup(func() { os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), "other.env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=yes\n"), 0644))
	t.Setenv("ENV_FILE", path)

	loaded, err := LoadEnvFile(newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, path, loaded)
	assert.Equal(t, "yes", os.Getenv(key))
}

func TestLoadEnvFile_MissingExplicitFile(t *testing.T) {
	clearEnv(t)

	_, err := LoadEnvFile(newFlags(t, "--env_file", filepath.Join(t.TempDir(), "missing.env")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfigInvalid))
}

func TestLoadEnvFile_NoDefaultFile(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	loaded, err := LoadEnvFile(newFlags(t))
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
