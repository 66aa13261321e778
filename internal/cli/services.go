package cli

import (
	"fmt"

	"github.com/LsHallo/certbot-multidomain/internal/certbot"
	"github.com/LsHallo/certbot-multidomain/internal/config"
	"github.com/LsHallo/certbot-multidomain/internal/executor"
	"github.com/LsHallo/certbot-multidomain/internal/logger"
	"github.com/LsHallo/certbot-multidomain/internal/proxy"
	"github.com/LsHallo/certbot-multidomain/internal/settings"
)

// services is everything a command needs, built from resolved settings
type services struct {
	settings *settings.Settings
	cfg      *config.Config
	exec     executor.CommandExecutor
	certbot  *certbot.Client
	proxy    *proxy.DockerNginx
}

func newServices(s *settings.Settings) (*services, error) {
	logger.Debug("Opening & parsing config file '%s'...", s.ConfigPath)
	cfg, err := config.Load(s.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger.Debug("Loaded %d domain(s): %v", len(cfg.Domains), cfg.Keys())

	exec := deps.ExecutorFactory.Create(s.ExecTimeout)

	return &services{
		settings: s,
		cfg:      cfg,
		exec:     exec,
		certbot:  certbot.NewClient(exec, s.CertOutputPath, s.Debug),
		proxy:    proxy.NewDockerNginx(s.NginxContainerName, exec),
	}, nil
}

// warnMissingCertbot logs when certbot is not on PATH. Runs still go
// ahead and fail individually so the output shows the real error.
func (svc *services) warnMissingCertbot() {
	if !svc.certbot.IsInstalled() {
		logger.Warn("%s not found in PATH, certificate requests will fail", certbot.Binary)
	}
}
