// Package handlers implements command execution for the CLI: loading the
// configuration and run state, constructing the provider client, and
// delegating to the driver.
package handlers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/provisionkit/kitchen-linode/internal/config"
	"github.com/provisionkit/kitchen-linode/internal/driver"
	"github.com/provisionkit/kitchen-linode/internal/platform/linode"
	"github.com/provisionkit/kitchen-linode/internal/state"
)

// Options carries the flag values shared by create and destroy.
type Options struct {
	ConfigPath   string
	StatePath    string
	InstanceName string
}

// newClient creates the provider client - replaced in tests.
var newClient = func(token string) linode.Client {
	return linode.NewRealClient(token)
}

func newLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "kitchen-linode",
	})
}

// setup wires config, state, and driver for one command invocation.
func setup(opts Options) (*driver.Driver, error) {
	cfg, err := config.LoadFile(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.InstanceName != "" {
		cfg.InstanceName = opts.InstanceName
	}
	if cfg.InstanceName == "" {
		cfg.InstanceName = "default"
	}

	store, err := state.Load(opts.StatePath)
	if err != nil {
		return nil, err
	}

	// Generated SSH identities land next to the state file.
	return driver.New(cfg, newClient(cfg.APIToken), store, newLogger(),
		driver.WithKeyDir(filepath.Dir(store.Path())),
	), nil
}

// Create handles the create command.
func Create(ctx context.Context, opts Options) error {
	d, err := setup(opts)
	if err != nil {
		return err
	}
	if err := d.Create(ctx); err != nil {
		return fmt.Errorf("create failed: %w", err)
	}
	return nil
}

// Destroy handles the destroy command.
func Destroy(ctx context.Context, opts Options) error {
	d, err := setup(opts)
	if err != nil {
		return err
	}
	if err := d.Destroy(ctx); err != nil {
		return fmt.Errorf("destroy failed: %w", err)
	}
	return nil
}
