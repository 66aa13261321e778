package config

import (
	"fmt"
	"os"

	"github.com/LsHallo/certbot-multidomain/internal/errors"
	"gopkg.in/yaml.v3"
)

// Config represents the parsed domain configuration file
type Config struct {
	Domains []*Domain
}

// file mirrors the on-disk layout. Domains stays a raw node so that
// mapping order survives decoding.
type file struct {
	Domains yaml.Node `yaml:"domains"`
}

// Load reads and validates the config file at path.
// Every failure, including malformed YAML, is returned as an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Path(errors.ErrConfigNotFound, path)
		}
		return nil, errors.Config("failed to read config", err)
	}
	return Parse(data)
}

// Parse decodes and validates config file contents
func Parse(data []byte) (*Config, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Config("failed to parse config", err)
	}

	if f.Domains.Kind != yaml.MappingNode {
		return nil, errors.Config("domains must be a mapping of domain names", nil)
	}
	if len(f.Domains.Content) == 0 {
		return nil, errors.Config("domains must contain at least one entry", nil)
	}

	cfg := &Config{Domains: make([]*Domain, 0, len(f.Domains.Content)/2)}
	seen := make(map[string]bool)

	for i := 0; i+1 < len(f.Domains.Content); i += 2 {
		keyNode, valueNode := f.Domains.Content[i], f.Domains.Content[i+1]
		key := keyNode.Value

		if key == "" {
			return nil, errors.Config(fmt.Sprintf("line %d: empty domain key", keyNode.Line), nil)
		}
		if seen[key] {
			return nil, errors.ConfigDomain(key, "defined more than once")
		}
		seen[key] = true

		d := &Domain{Key: key}
		if err := valueNode.Decode(d); err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfig, fmt.Sprintf("domain %s: failed to parse", key), err)
		}
		d.Key = key

		if err := d.validate(); err != nil {
			return nil, err
		}
		cfg.Domains = append(cfg.Domains, d)
	}

	return cfg, nil
}

// validate checks the fields every issuance command depends on
func (d *Domain) validate() error {
	if d.Email == "" {
		return errors.ConfigDomain(d.Key, "email is required")
	}
	if d.DNSCredentialsFile == "" {
		return errors.ConfigDomain(d.Key, "dns_credentials_file is required")
	}
	if d.Subdomains == nil {
		return errors.ConfigDomain(d.Key, "subdomains is required (use an empty list or 'wildcard')")
	}
	return nil
}

// Get returns a domain by key
func (c *Config) Get(key string) (*Domain, bool) {
	for _, d := range c.Domains {
		if d.Key == key {
			return d, true
		}
	}
	return nil, false
}

// Keys returns domain keys in file order
func (c *Config) Keys() []string {
	keys := make([]string, 0, len(c.Domains))
	for _, d := range c.Domains {
		keys = append(keys, d.Key)
	}
	return keys
}
