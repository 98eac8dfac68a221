package config

import (
	"github.com/provisionkit/kitchen-linode/internal/platform/linode"
)

// Validate checks options that must hold before any provider contact.
// Key paths are checked separately after materialization, see ValidateKeys.
func (c *Config) Validate() error {
	if c.APIToken == "" {
		return &linode.ConfigError{Field: "api_token"}
	}
	return nil
}

// ValidateKeys checks the key-path invariant. The driver calls this after the
// credential materializer has had its chance to probe, derive, or generate
// the paths.
func (c *Config) ValidateKeys() error {
	if c.PrivateKeyPath == "" {
		return &linode.ConfigError{Field: "private_key_path"}
	}
	if c.PublicKeyPath == "" {
		return &linode.ConfigError{Field: "public_key_path"}
	}
	return nil
}
