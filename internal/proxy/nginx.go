package proxy

import (
	"context"
	"strings"

	"github.com/LsHallo/certbot-multidomain/internal/executor"
)

// nginxTestAndReload validates the config and only then signals a reload.
// A failed test leaves the running workers on their previous config.
const nginxTestAndReload = "nginx -t && nginx -s reload"

// Reloader makes a running reverse proxy pick up renewed certificates
type Reloader interface {
	// Name identifies the proxy for logging
	Name() string

	// Reload validates and reloads the proxy configuration. The result
	// carries the reload command's own exit code.
	Reload(ctx context.Context) (*executor.Result, error)
}

// DockerNginx reloads nginx running inside a docker container
type DockerNginx struct {
	container string
	exec      executor.CommandExecutor
}

// NewDockerNginx creates a reloader for the named container
func NewDockerNginx(container string, exec executor.CommandExecutor) *DockerNginx {
	return &DockerNginx{
		container: container,
		exec:      exec,
	}
}

// Name returns the container name
func (n *DockerNginx) Name() string {
	return n.container
}

// Args returns the docker argument vector. The container name is a single
// argument; only the fixed nginx command runs through the container's shell.
func (n *DockerNginx) Args() []string {
	return []string{"exec", n.container, "sh", "-c", nginxTestAndReload}
}

// Reload runs `nginx -t && nginx -s reload` in the container
func (n *DockerNginx) Reload(ctx context.Context) (*executor.Result, error) {
	return n.exec.Execute(ctx, "docker", n.Args()...)
}

// IsRunning asks docker whether the container is up
func (n *DockerNginx) IsRunning(ctx context.Context) (bool, error) {
	res, err := n.exec.Execute(ctx, "docker", "inspect", "--format", "{{.State.Running}}", n.container)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(string(res.Stdout)) == "true", nil
}
