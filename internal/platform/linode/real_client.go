package linode

import (
	"context"
	"fmt"
	"time"

	"github.com/linode/linodego"

	"github.com/provisionkit/kitchen-linode/internal/util/retry"
)

// RealClient implements Client using the Linode APIv4.
type RealClient struct {
	api linodego.Client
}

// ClientOption configures a RealClient.
type ClientOption func(*RealClient)

// WithAPIClient sets a custom linodego client (useful for testing against a
// stub API server).
func WithAPIClient(api linodego.Client) ClientOption {
	return func(c *RealClient) {
		c.api = api
	}
}

// NewRealClient creates a client authenticated with the given API token.
func NewRealClient(token string, opts ...ClientOption) *RealClient {
	api := linodego.NewClient(nil)
	api.SetToken(token)

	c := &RealClient{api: api}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListRegions returns all regions.
func (c *RealClient) ListRegions(ctx context.Context) ([]linodego.Region, error) {
	return c.api.ListRegions(ctx, nil)
}

// ListTypes returns all instance types.
func (c *RealClient) ListTypes(ctx context.Context) ([]linodego.LinodeType, error) {
	return c.api.ListTypes(ctx, nil)
}

// ListImages returns all images visible to the account.
func (c *RealClient) ListImages(ctx context.Context) ([]linodego.Image, error) {
	return c.api.ListImages(ctx, nil)
}

// ListKernels returns all boot kernels.
func (c *RealClient) ListKernels(ctx context.Context) ([]linodego.LinodeKernel, error) {
	return c.api.ListKernels(ctx, nil)
}

// CreateInstance creates a new instance. When a kernel is requested the boot
// config profile is updated to it as part of the same call.
func (c *RealClient) CreateInstance(ctx context.Context, opts InstanceCreateOpts) (*Instance, error) {
	booted := true
	created, err := c.api.CreateInstance(ctx, linodego.InstanceCreateOptions{
		Region:         opts.Region,
		Type:           opts.Type,
		Label:          opts.Label,
		Image:          opts.Image,
		RootPass:       opts.RootPass,
		AuthorizedKeys: opts.AuthorizedKeys,
		Booted:         &booted,
	})
	if err != nil {
		return nil, err
	}

	if opts.Kernel != "" {
		if err := c.setBootKernel(ctx, created.ID, opts.Kernel); err != nil {
			return nil, err
		}
	}

	return toInstance(created), nil
}

// setBootKernel points the instance's boot config profile at the given kernel.
// The profile is created asynchronously after the instance, so the lookup is
// retried briefly.
func (c *RealClient) setBootKernel(ctx context.Context, id int, kernel string) error {
	var configs []linodego.InstanceConfig
	err := retry.WithExponentialBackoff(ctx, func() error {
		var listErr error
		configs, listErr = c.api.ListInstanceConfigs(ctx, id, nil)
		if listErr != nil {
			return listErr
		}
		if len(configs) == 0 {
			return fmt.Errorf("boot config for instance %d not yet available", id)
		}
		return nil
	},
		retry.WithMaxRetries(5),
		retry.WithInitialDelay(2*time.Second),
		retry.WithMaxDelay(10*time.Second),
	)
	if err != nil {
		return fmt.Errorf("failed to look up boot config for instance %d: %w", id, err)
	}

	if configs[0].Kernel == kernel {
		return nil
	}

	_, err = c.api.UpdateInstanceConfig(ctx, id, configs[0].ID, linodego.InstanceConfigUpdateOptions{
		Kernel: kernel,
	})
	if err != nil {
		return fmt.Errorf("failed to set kernel %q on instance %d: %w", kernel, id, err)
	}
	return nil
}

// GetInstance fetches an instance by id.
func (c *RealClient) GetInstance(ctx context.Context, id int) (*Instance, error) {
	inst, err := c.api.GetInstance(ctx, id)
	if err != nil {
		return nil, err
	}
	return toInstance(inst), nil
}

// DeleteInstance destroys an instance by id.
func (c *RealClient) DeleteInstance(ctx context.Context, id int) error {
	return c.api.DeleteInstance(ctx, id)
}

// WaitForRunning polls the instance until it reports running status.
func (c *RealClient) WaitForRunning(ctx context.Context, id int, timeout time.Duration) error {
	_, err := c.api.WaitForInstanceStatus(ctx, id, linodego.InstanceRunning, int(timeout.Seconds()))
	return err
}

func toInstance(inst *linodego.Instance) *Instance {
	out := &Instance{
		ID:     inst.ID,
		Label:  inst.Label,
		Status: inst.Status,
	}
	if len(inst.IPv4) > 0 {
		out.PublicIP = *inst.IPv4[0]
	}
	return out
}
