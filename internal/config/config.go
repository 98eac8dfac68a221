// Package config declares the driver configuration surface and its defaults.
//
// Configuration is read-mostly: the driver performs exactly three write-once
// mutations during create (label/hostname derivation, password generation,
// key-path normalization). Nothing else writes to it.
package config

import (
	"os"
	"time"
)

// Defaults for the recognized options.
const (
	DefaultUsername   = "root"
	DefaultImage      = "linode/debian12"
	DefaultRegion     = "us-east"
	DefaultType       = "g6-nanode-1"
	DefaultKernel     = "linode/grub2"
	DefaultShell      = "bourne"
	DefaultSSHPort    = 22
	DefaultSSHTimeout = 600 * time.Second
	// DefaultWaitTimeout bounds the instance readiness poll.
	DefaultWaitTimeout = 600 * time.Second

	// TokenEnvVar is the environment fallback for the API token.
	TokenEnvVar = "LINODE_TOKEN"
)

// Config holds every recognized driver option.
type Config struct {
	// InstanceName is the harness-assigned name of the instance under test,
	// e.g. "default-debian-12". Supplied per run, not from the config file.
	InstanceName string `mapstructure:"instance_name"`

	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`

	// Label is the provider-visible display name. When set explicitly the raw
	// value becomes the hostname and the label is rewritten around it; when
	// empty both are derived. Hostname is never read from the file.
	Label    string `mapstructure:"label"`
	Hostname string `mapstructure:"-"`

	Image  string `mapstructure:"image"`
	Region string `mapstructure:"region"`
	Type   string `mapstructure:"type"`
	Kernel string `mapstructure:"kernel"`

	PrivateKeyPath string `mapstructure:"private_key_path"`
	PublicKeyPath  string `mapstructure:"public_key_path"`

	APIToken string `mapstructure:"api_token"`

	Sudo  bool   `mapstructure:"sudo"`
	Shell string `mapstructure:"shell"`

	SSHPort int `mapstructure:"ssh_port"`
	// SSHTimeout and WaitTimeout are seconds in the config file.
	SSHTimeout  int `mapstructure:"ssh_timeout"`
	WaitTimeout int `mapstructure:"wait_timeout"`
}

// New returns a Config populated with defaults.
func New() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills every unset option with its default value.
func (c *Config) ApplyDefaults() {
	if c.Username == "" {
		c.Username = DefaultUsername
	}
	if c.Image == "" {
		c.Image = DefaultImage
	}
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.Type == "" {
		c.Type = DefaultType
	}
	if c.Kernel == "" {
		c.Kernel = DefaultKernel
	}
	if c.Shell == "" {
		c.Shell = DefaultShell
	}
	if c.SSHPort == 0 {
		c.SSHPort = DefaultSSHPort
	}
	if c.SSHTimeout == 0 {
		c.SSHTimeout = int(DefaultSSHTimeout.Seconds())
	}
	if c.WaitTimeout == 0 {
		c.WaitTimeout = int(DefaultWaitTimeout.Seconds())
	}
	if c.APIToken == "" {
		c.APIToken = os.Getenv(TokenEnvVar)
	}
}

// SSHTimeoutDuration returns the SSH dial timeout as a duration.
func (c *Config) SSHTimeoutDuration() time.Duration {
	return time.Duration(c.SSHTimeout) * time.Second
}

// WaitTimeoutDuration returns the readiness wait timeout as a duration.
func (c *Config) WaitTimeoutDuration() time.Duration {
	return time.Duration(c.WaitTimeout) * time.Second
}

// posixShells are the shell families bootstrapped over SSH. Anything else
// (e.g. powershell on a Windows image) skips bootstrap entirely.
var posixShells = map[string]bool{
	"bourne": true,
	"sh":     true,
	"bash":   true,
	"dash":   true,
	"ash":    true,
	"zsh":    true,
	"ksh":    true,
}

// PosixShell reports whether the configured shell family is Bourne-like.
func (c *Config) PosixShell() bool {
	return posixShells[c.Shell]
}
