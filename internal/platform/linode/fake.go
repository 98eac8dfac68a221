package linode

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/linode/linodego"
)

// FakeClient is an in-memory Client for tests. It records call counts so
// tests can assert how often the control plane was contacted.
type FakeClient struct {
	mu sync.Mutex

	Regions []linodego.Region
	Types   []linodego.LinodeType
	Images  []linodego.Image
	Kernels []linodego.LinodeKernel

	Instances map[int]*Instance
	nextID    int

	CreateCalls int
	GetCalls    int
	DeleteCalls int
	WaitCalls   int
	ListCalls   int

	LastCreate InstanceCreateOpts

	CreateErr error
	DeleteErr error
	WaitErr   error
}

// NewFakeClient returns an empty fake with instance ids starting at 1000.
func NewFakeClient() *FakeClient {
	return &FakeClient{
		Instances: make(map[int]*Instance),
		nextID:    1000,
	}
}

func (f *FakeClient) ListRegions(_ context.Context) ([]linodego.Region, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	return f.Regions, nil
}

func (f *FakeClient) ListTypes(_ context.Context) ([]linodego.LinodeType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	return f.Types, nil
}

func (f *FakeClient) ListImages(_ context.Context) ([]linodego.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	return f.Images, nil
}

func (f *FakeClient) ListKernels(_ context.Context) ([]linodego.LinodeKernel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	return f.Kernels, nil
}

func (f *FakeClient) CreateInstance(_ context.Context, opts InstanceCreateOpts) (*Instance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls++
	f.LastCreate = opts
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}

	id := f.nextID
	f.nextID++
	inst := &Instance{
		ID:       id,
		Label:    opts.Label,
		PublicIP: net.IPv4(192, 0, 2, byte(id%250)+1),
		Status:   linodego.InstanceProvisioning,
	}
	f.Instances[id] = inst
	return inst, nil
}

func (f *FakeClient) GetInstance(_ context.Context, id int) (*Instance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.GetCalls++
	inst, ok := f.Instances[id]
	if !ok {
		return nil, &linodego.Error{Code: 404, Message: fmt.Sprintf("Not found: instance %d", id)}
	}
	return inst, nil
}

func (f *FakeClient) DeleteInstance(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls++
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	if _, ok := f.Instances[id]; !ok {
		return &linodego.Error{Code: 404, Message: fmt.Sprintf("Not found: instance %d", id)}
	}
	delete(f.Instances, id)
	return nil
}

func (f *FakeClient) WaitForRunning(_ context.Context, id int, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.WaitCalls++
	if f.WaitErr != nil {
		return f.WaitErr
	}
	if inst, ok := f.Instances[id]; ok {
		inst.Status = linodego.InstanceRunning
	}
	return nil
}
