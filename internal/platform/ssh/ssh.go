// Package ssh provides the remote command channel used to bootstrap freshly
// created instances. Connections are password-authenticated: the channel is
// opened with the generated root password before key-based access exists.
//
// Security: host key verification is disabled by default. The targets are
// ephemeral instances whose host keys were generated moments earlier, so
// there is nothing to pin against. Configure HostKeyCallback when pointing
// this at persistent servers.
package ssh

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/ssh"
)

const (
	defaultPort        = 22
	defaultDialTimeout = 600 * time.Second
)

// Config holds connection parameters for one bootstrap channel.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string

	// DialTimeout bounds the TCP connect and SSH handshake.
	// If zero, defaultDialTimeout is used.
	DialTimeout time.Duration

	// HostKeyCallback handles host key verification.
	// If nil, ssh.InsecureIgnoreHostKey() is used.
	HostKeyCallback ssh.HostKeyCallback
}

// Runner executes an ordered batch of commands on a remote host. The batch
// fails as a whole on the first command error; callers retry the entire
// open-and-run sequence.
type Runner interface {
	Run(ctx context.Context, commands []string) error
}

// Client implements Runner over golang.org/x/crypto/ssh.
type Client struct {
	config Config
}

// NewClient validates the channel configuration and returns a client.
// The connection itself is opened per Run call.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("config host cannot be empty")
	}
	if cfg.User == "" {
		return nil, fmt.Errorf("config user cannot be empty")
	}
	if cfg.Password == "" {
		return nil, fmt.Errorf("config password cannot be empty")
	}

	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = defaultDialTimeout
	}
	if cfg.HostKeyCallback == nil {
		cfg.HostKeyCallback = ssh.InsecureIgnoreHostKey() //nolint:gosec // ephemeral instances, see package doc
	}

	return &Client{config: cfg}, nil
}

// Run opens a connection, executes the commands in order, and closes the
// connection. The first failing command aborts the batch.
func (c *Client) Run(ctx context.Context, commands []string) error {
	client, err := c.connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	for _, command := range commands {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.runCommand(client, command); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) connect(_ context.Context) (*ssh.Client, error) {
	config := &ssh.ClientConfig{
		User: c.config.User,
		Auth: []ssh.AuthMethod{
			ssh.Password(c.config.Password),
		},
		HostKeyCallback: c.config.HostKeyCallback,
		Timeout:         c.config.DialTimeout,
	}

	addr := fmt.Sprintf("%s:%d", c.config.Host, c.config.Port)
	client, err := ssh.Dial("tcp", addr, config)
	if err != nil {
		return nil, fmt.Errorf("failed to establish SSH connection to %s: %w", addr, err)
	}
	return client, nil
}

// runCommand executes a single command on an established connection.
func (c *Client) runCommand(client *ssh.Client, command string) error {
	session, err := client.NewSession()
	if err != nil {
		return fmt.Errorf("failed to create SSH session on %s: %w", c.config.Host, err)
	}
	defer func() { _ = session.Close() }()

	output, err := session.CombinedOutput(command)
	if err != nil {
		return fmt.Errorf("command failed on %s: %w\nCommand: %s\nOutput: %s",
			c.config.Host, err, command, string(output))
	}
	return nil
}
