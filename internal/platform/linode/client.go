// Package linode wraps the Linode APIv4 client with the narrow surface the
// driver consumes: catalog lookup for selector resolution, instance lifecycle,
// and readiness polling.
package linode

import (
	"context"
	"net"
	"time"

	"github.com/linode/linodego"
)

// InstanceCreateOpts holds all parameters for creating a Linode instance.
type InstanceCreateOpts struct {
	Label          string
	Region         string
	Type           string
	Image          string
	Kernel         string
	RootPass       string
	AuthorizedKeys []string
}

// Instance is the slice of instance identity the driver tracks. The provider
// owns the full record; the driver holds the id plus the cached public address.
type Instance struct {
	ID       int
	Label    string
	PublicIP net.IP
	Status   linodego.InstanceStatus
}

// CatalogClient lists the resource catalogs selectors resolve against.
type CatalogClient interface {
	ListRegions(ctx context.Context) ([]linodego.Region, error)
	ListTypes(ctx context.Context) ([]linodego.LinodeType, error)
	ListImages(ctx context.Context) ([]linodego.Image, error)
	ListKernels(ctx context.Context) ([]linodego.LinodeKernel, error)
}

// InstanceClient manages the instance lifecycle.
type InstanceClient interface {
	CreateInstance(ctx context.Context, opts InstanceCreateOpts) (*Instance, error)
	GetInstance(ctx context.Context, id int) (*Instance, error)
	DeleteInstance(ctx context.Context, id int) error
	// WaitForRunning blocks until the instance reports running status or the
	// timeout elapses.
	WaitForRunning(ctx context.Context, id int, timeout time.Duration) error
}

// Client combines catalog and instance operations.
type Client interface {
	CatalogClient
	InstanceClient
}
