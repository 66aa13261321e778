package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Domain is one entry under `domains:`, keyed by its primary domain name.
type Domain struct {
	Key                string     `yaml:"-"`
	CertName           string     `yaml:"cert_name,omitempty"`
	Email              string     `yaml:"email"`
	DNSCredentialsFile string     `yaml:"dns_credentials_file"`
	Subdomains         Subdomains `yaml:"subdomains"`
}

// EffectiveCertName returns cert_name, falling back to the domain key.
// Both the existence check and the issuance command must use this value.
func (d *Domain) EffectiveCertName() string {
	if d.CertName != "" {
		return d.CertName
	}
	return d.Key
}

// Subdomains is a list of subdomain labels. In YAML it may also be written
// as a single string, which is treated as a one-element list.
type Subdomains []string

// UnmarshalYAML accepts a scalar or a sequence of scalars.
func (s *Subdomains) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*s = Subdomains{value.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		if list == nil {
			list = []string{}
		}
		*s = list
		return nil
	default:
		return fmt.Errorf("line %d: subdomains must be a string or a list of strings", value.Line)
	}
}
