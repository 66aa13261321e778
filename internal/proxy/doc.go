// Package proxy reloads the reverse proxy that serves issued certificates.
//
// The only implementation today is DockerNginx, which runs
//
//	docker exec <container> sh -c 'nginx -t && nginx -s reload'
//
// as an argument vector. Because the reload only happens after a
// successful `nginx -t`, a bad configuration never replaces the running
// one: nginx keeps serving the previous (still valid) certificates.
//
// # Testing
//
//	mock := &executor.MockExecutor{}
//	r := proxy.NewDockerNginx("nginx", mock)
//	res, err := r.Reload(ctx)
//	// mock.Calls[0] == {Name: "docker", Args: [exec nginx sh -c ...]}
package proxy
