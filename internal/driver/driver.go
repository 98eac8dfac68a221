// Package driver implements the instance lifecycle for the test harness:
// resolve loosely specified resources, create the Linode, persist its
// identity, wait for readiness, bootstrap SSH access, and tear it all down
// again. One driver handles exactly one instance, synchronously.
package driver

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/provisionkit/kitchen-linode/internal/config"
	"github.com/provisionkit/kitchen-linode/internal/platform/linode"
	"github.com/provisionkit/kitchen-linode/internal/state"
)

// Driver provisions and destroys a single instance.
type Driver struct {
	cfg      *config.Config
	client   linode.Client
	state    state.Store
	resolver *linode.Resolver
	log      *log.Logger

	newRunner RunnerFactory
	keyDir    string
	now       func() time.Time

	bootstrapRetries int
	bootstrapDelay   time.Duration
	bootstrapCap     time.Duration
}

// Option configures a Driver.
type Option func(*Driver)

// WithRunnerFactory replaces the SSH channel factory.
func WithRunnerFactory(f RunnerFactory) Option {
	return func(d *Driver) {
		d.newRunner = f
	}
}

// WithKeyDir sets the directory generated SSH identities are written to.
func WithKeyDir(dir string) Option {
	return func(d *Driver) {
		d.keyDir = dir
	}
}

// WithClock replaces the timestamp source used in label generation.
func WithClock(now func() time.Time) Option {
	return func(d *Driver) {
		d.now = now
	}
}

// WithBootstrapBackoff overrides the bootstrap retry schedule. Used by tests
// to avoid real waits.
func WithBootstrapBackoff(retries int, initial, cap time.Duration) Option {
	return func(d *Driver) {
		d.bootstrapRetries = retries
		d.bootstrapDelay = initial
		d.bootstrapCap = cap
	}
}

// New creates a driver over the given provider client and run state.
func New(cfg *config.Config, client linode.Client, store state.Store, logger *log.Logger, opts ...Option) *Driver {
	d := &Driver{
		cfg:       cfg,
		client:    client,
		state:     store,
		resolver:  linode.NewResolver(client, logger),
		log:       logger,
		newRunner: defaultRunnerFactory,
		keyDir:    ".kitchen",
		now:       defaultNow,

		bootstrapRetries: bootstrapMaxRetries,
		bootstrapDelay:   bootstrapInitialDelay,
		bootstrapCap:     bootstrapMaxDelay,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Create provisions the instance. Idempotent: a run state that already holds
// an instance id returns immediately without contacting the provider.
func (d *Driver) Create(ctx context.Context) error {
	if id, ok := d.state.Get(state.KeyInstanceID); ok {
		d.log.Info("instance already created, skipping", "instance_id", id)
		return nil
	}

	// The three write-once config mutations happen up front.
	d.generateLabelAndHostname()
	if err := d.materializeCredentials(); err != nil {
		return err
	}
	if err := d.cfg.ValidateKeys(); err != nil {
		return err
	}

	publicKey, err := os.ReadFile(d.cfg.PublicKeyPath)
	if err != nil {
		return fmt.Errorf("failed to read public key %s: %w", d.cfg.PublicKeyPath, err)
	}

	region, err := d.resolver.Region(ctx, d.cfg.Region)
	if err != nil {
		return resolveErr(err)
	}
	instanceType, err := d.resolver.Type(ctx, d.cfg.Type)
	if err != nil {
		return resolveErr(err)
	}
	image, err := d.resolver.Image(ctx, d.cfg.Image)
	if err != nil {
		return resolveErr(err)
	}
	kernel, err := d.resolver.Kernel(ctx, d.cfg.Kernel)
	if err != nil {
		return resolveErr(err)
	}

	d.log.Info("creating Linode instance",
		"label", d.cfg.Label, "region", region.ID, "type", instanceType.ID, "image", image.ID)

	inst, err := d.client.CreateInstance(ctx, linode.InstanceCreateOpts{
		Label:          d.cfg.Label,
		Region:         region.ID,
		Type:           instanceType.ID,
		Image:          image.ID,
		Kernel:         kernel.ID,
		RootPass:       d.cfg.Password,
		AuthorizedKeys: []string{string(publicKey)},
	})
	if err != nil {
		return &ActionError{Action: "create", Err: err}
	}

	// Persist identity before waiting so a failed wait still leaves enough
	// state for a later destroy.
	if err := d.state.Set(state.KeyInstanceID, strconv.Itoa(inst.ID)); err != nil {
		return err
	}
	if err := d.state.Set(state.KeyHostname, d.cfg.Hostname); err != nil {
		return err
	}
	if err := d.state.Set(state.KeyPublicIP, inst.PublicIP.String()); err != nil {
		return err
	}

	d.log.Info("instance created", "instance_id", inst.ID, "public_ip", inst.PublicIP)

	if err := d.client.WaitForRunning(ctx, inst.ID, d.cfg.WaitTimeoutDuration()); err != nil {
		return fmt.Errorf("%w: instance %d: %v", ErrReadyTimeout, inst.ID, err)
	}

	if d.cfg.PosixShell() {
		if err := d.bootstrap(ctx, inst.PublicIP.String(), string(publicKey)); err != nil {
			return err
		}
	} else {
		d.log.Info("shell family is not POSIX, skipping SSH bootstrap", "shell", d.cfg.Shell)
	}

	d.log.Info("instance ready", "instance_id", inst.ID, "hostname", d.cfg.Hostname)
	return nil
}

// Destroy tears the instance down. A run state with no instance id is a
// no-op; an instance the provider no longer knows about is treated as
// already destroyed.
func (d *Driver) Destroy(ctx context.Context) error {
	idStr, ok := d.state.Get(state.KeyInstanceID)
	if !ok {
		d.log.Info("no instance recorded, nothing to destroy")
		return nil
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		return fmt.Errorf("run state holds invalid instance id %q: %w", idStr, err)
	}

	inst, err := d.client.GetInstance(ctx, id)
	if linode.IsNotFound(err) {
		d.log.Warn("instance already gone, clearing state", "instance_id", id)
		return d.clearState()
	}
	if err != nil {
		return fmt.Errorf("failed to fetch instance %d: %w", id, err)
	}

	if err := d.client.DeleteInstance(ctx, inst.ID); err != nil {
		return fmt.Errorf("failed to destroy instance %d: %w", inst.ID, err)
	}

	d.log.Info("Linode instance destroyed", "instance_id", inst.ID)
	return d.clearState()
}

func (d *Driver) clearState() error {
	for _, key := range []string{state.KeyInstanceID, state.KeyHostname, state.KeyPublicIP} {
		if err := d.state.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

// resolveErr passes configuration errors through untouched and wraps
// provider/transport failures as action errors.
func resolveErr(err error) error {
	if linode.IsConfigError(err) {
		return err
	}
	return &ActionError{Action: "create", Err: err}
}
