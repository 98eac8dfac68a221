package driver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/provisionkit/kitchen-linode/internal/config"
	"github.com/provisionkit/kitchen-linode/internal/platform/ssh"
	"github.com/provisionkit/kitchen-linode/internal/util/retry"
)

const (
	bootstrapMaxRetries = 10
	// The first retry waits a full second; subsequent waits double up to the cap.
	bootstrapInitialDelay = 1 * time.Second
	bootstrapMaxDelay     = 60 * time.Second
)

// RunnerFactory opens a remote command channel. Tests substitute this to
// avoid real SSH connections.
type RunnerFactory func(cfg ssh.Config) (ssh.Runner, error)

func defaultRunnerFactory(cfg ssh.Config) (ssh.Runner, error) {
	return ssh.NewClient(cfg)
}

// bootstrap configures hostname and key-based SSH access on a freshly booted
// instance. The whole open-and-run sequence is retried from scratch on any
// failure; exhaustion propagates the last error.
func (d *Driver) bootstrap(ctx context.Context, host string, publicKey string) error {
	commands := buildBootstrapCommands(d.cfg, publicKey)
	channelCfg := ssh.Config{
		Host:        host,
		Port:        d.cfg.SSHPort,
		User:        d.cfg.Username,
		Password:    d.cfg.Password,
		DialTimeout: d.cfg.SSHTimeoutDuration(),
	}

	d.log.Info("bootstrapping SSH access", "host", host, "user", d.cfg.Username)

	err := retry.WithExponentialBackoff(ctx, func() error {
		runner, err := d.newRunner(channelCfg)
		if err != nil {
			return err
		}
		return runner.Run(ctx, commands)
	},
		retry.WithMaxRetries(d.bootstrapRetries),
		retry.WithInitialDelay(d.bootstrapDelay),
		retry.WithMaxDelay(d.bootstrapCap),
		retry.WithNotify(func(attempt int, delay time.Duration, err error) {
			d.log.Warn("SSH bootstrap failed, retrying",
				"attempt", attempt, "delay", delay, "error", err)
		}),
	)
	if err != nil {
		return fmt.Errorf("SSH bootstrap failed on %s: %w", host, err)
	}

	d.log.Info("SSH bootstrap complete", "host", host)
	return nil
}

// buildBootstrapCommands returns the fixed bootstrap batch: seed /etc/hosts,
// set the hostname, install the public key, lock the account password.
// Every interpolated value is shell-quoted.
func buildBootstrapCommands(cfg *config.Config, publicKey string) []string {
	hostname := cfg.Hostname
	short := strings.SplitN(hostname, ".", 2)[0]
	key := strings.TrimSpace(publicKey)

	hosts := fmt.Sprintf("127.0.0.1 %s %s localhost\n::1 %s %s localhost\n",
		hostname, short, hostname, short)
	quotedKey := shellquote.Join(key)

	commands := []string{
		asRoot(cfg, shellquote.Join("printf", "%s", hosts)+" > /etc/hosts"),
		asRoot(cfg, shellquote.Join("hostname", hostname)),
		"mkdir -p ~/.ssh",
		fmt.Sprintf("grep -qxF %s ~/.ssh/authorized_keys 2>/dev/null || echo %s >> ~/.ssh/authorized_keys",
			quotedKey, quotedKey),
		asRoot(cfg, shellquote.Join("passwd", "-l", cfg.Username)),
	}
	return commands
}

// asRoot wraps a command in sudo when the login user is unprivileged and the
// sudo option is on. sh -c keeps redirections on the root side.
func asRoot(cfg *config.Config, command string) string {
	if cfg.Username == "root" || !cfg.Sudo {
		return command
	}
	return "sudo sh -c " + shellquote.Join(command)
}
