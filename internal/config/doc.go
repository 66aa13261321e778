// Package config loads the domain configuration file.
//
// The file is YAML with a single top-level mapping:
//
//	domains:
//	  example.com:
//	    email: admin@example.com
//	    dns_credentials_file: /app/cloudflare.ini
//	    subdomains:
//	      - www
//	      - api
//	  example.org:
//	    cert_name: example-org
//	    email: admin@example.org
//	    dns_credentials_file: /app/cloudflare.ini
//	    subdomains: wildcard
//
// Domains are returned in document order, so iteration over a loaded
// Config is deterministic. `subdomains` may be a single string or a list;
// it must be present but may be an empty list.
//
// # Usage
//
//	cfg, err := config.Load("/app/config.yml")
//	if err != nil {
//	    return err // always fatal at startup
//	}
//	for _, d := range cfg.Domains {
//	    fmt.Println(d.Key, d.EffectiveCertName())
//	}
//
// # Thread Safety
//
// A loaded Config is never mutated and may be shared freely.
package config
