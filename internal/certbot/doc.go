// Package certbot builds and runs certbot command lines for DNS-challenge
// issuance and scheduled renewal.
//
// Commands are always assembled as argument vectors and handed to an
// executor.CommandExecutor. Nothing is ever passed through a shell.
//
// # Prerequisites
//
// Certbot and the Cloudflare DNS plugin must be installed:
//
//	pip install certbot certbot-dns-cloudflare
//
// # SAN Lists
//
// DomainList turns a domain key and its subdomains into certificate names:
//
//	certbot.DomainList("example.com", []string{"www", "api"})
//	// [example.com www.example.com api.example.com]
//
//	certbot.DomainList("example.com", []string{"wildcard"})
//	// [example.com *.example.com]
//
// An empty list is treated as wildcard and logs a warning. Only the first
// entry is compared (case-insensitively) against "wildcard".
//
// # Issuance and Renewal
//
//	client := certbot.NewClient(executor.NewSystemExecutor(), "/app/certs", false)
//	if !client.HasCertificate(domain.EffectiveCertName()) {
//	    res, err := client.Issue(ctx, domain)
//	}
//	res, err := client.RenewAll(ctx)
//
// With staging enabled, issuance adds "-v --test-cert" and renewal adds
// "--dry-run".
//
// # Certificate Paths
//
// Certificates live under the shared config directory:
//
//	<config-dir>/live/<cert-name>/fullchain.pem
//
// # Testing
//
// Inject an executor.MockExecutor and inspect its Calls:
//
//	mock := &executor.MockExecutor{}
//	client := certbot.NewClient(mock, t.TempDir(), false)
package certbot
