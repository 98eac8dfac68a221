package linode

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/linode/linodego"
)

// ramThreshold splits numeric type selectors: values below it are treated as
// resource ids, values at or above it as a RAM size in MB.
const ramThreshold = 1024

// Resolver turns loosely specified selectors (id, exact name, or substring)
// into concrete catalog entries. The same algorithm applies to regions, types,
// images, and kernels; types additionally disambiguate numeric selectors
// between id and RAM size.
type Resolver struct {
	catalog CatalogClient
	log     *log.Logger
}

// NewResolver creates a resolver over the given catalog.
func NewResolver(catalog CatalogClient, logger *log.Logger) *Resolver {
	return &Resolver{catalog: catalog, log: logger}
}

// candidate is the uniform view the matcher works on: an id, a name-like
// field, and (for types) a RAM size.
type candidate struct {
	id     string
	label  string
	memory int
}

// matchIndex returns the index of the first matching candidate in provider
// order. Numeric selectors match by id, except when ramMatch is set and the
// value is at or above ramThreshold, in which case they match by RAM size.
// String selectors match as an unanchored substring of the id or the label.
// Zero matches is a configuration error naming the field and selector.
func matchIndex(field, sel string, cands []candidate, ramMatch bool) (int, error) {
	if n, err := strconv.Atoi(sel); err == nil {
		if ramMatch && n >= ramThreshold {
			for i, c := range cands {
				if c.memory == n {
					return i, nil
				}
			}
		} else {
			want := strconv.Itoa(n)
			for i, c := range cands {
				if c.id == want {
					return i, nil
				}
			}
		}
		return -1, &ConfigError{Field: field, Value: sel}
	}

	for i, c := range cands {
		if strings.Contains(c.id, sel) || strings.Contains(c.label, sel) {
			return i, nil
		}
	}
	return -1, &ConfigError{Field: field, Value: sel}
}

// Region resolves a region selector.
func (r *Resolver) Region(ctx context.Context, sel string) (*linodego.Region, error) {
	regions, err := r.catalog.ListRegions(ctx)
	if err != nil {
		return nil, err
	}

	cands := make([]candidate, len(regions))
	for i, reg := range regions {
		cands[i] = candidate{id: reg.ID, label: reg.Label}
	}

	idx, err := matchIndex("region", sel, cands, false)
	if err != nil {
		return nil, err
	}
	r.log.Info("got region", "region", regions[idx].ID)
	return &regions[idx], nil
}

// Type resolves an instance type selector. A numeric selector at or above
// 1024 is interpreted as a RAM size in MB rather than an id.
func (r *Resolver) Type(ctx context.Context, sel string) (*linodego.LinodeType, error) {
	types, err := r.catalog.ListTypes(ctx)
	if err != nil {
		return nil, err
	}

	cands := make([]candidate, len(types))
	for i, t := range types {
		cands[i] = candidate{id: t.ID, label: t.Label, memory: t.Memory}
	}

	idx, err := matchIndex("type", sel, cands, true)
	if err != nil {
		return nil, err
	}
	r.log.Info("got type", "type", types[idx].ID)
	return &types[idx], nil
}

// Image resolves an image selector.
func (r *Resolver) Image(ctx context.Context, sel string) (*linodego.Image, error) {
	images, err := r.catalog.ListImages(ctx)
	if err != nil {
		return nil, err
	}

	cands := make([]candidate, len(images))
	for i, img := range images {
		cands[i] = candidate{id: img.ID, label: img.Label}
	}

	idx, err := matchIndex("image", sel, cands, false)
	if err != nil {
		return nil, err
	}
	r.log.Info("got image", "image", images[idx].ID)
	return &images[idx], nil
}

// Kernel resolves a boot kernel selector.
func (r *Resolver) Kernel(ctx context.Context, sel string) (*linodego.LinodeKernel, error) {
	kernels, err := r.catalog.ListKernels(ctx)
	if err != nil {
		return nil, err
	}

	cands := make([]candidate, len(kernels))
	for i, k := range kernels {
		cands[i] = candidate{id: k.ID, label: k.Label}
	}

	idx, err := matchIndex("kernel", sel, cands, false)
	if err != nil {
		return nil, err
	}
	r.log.Info("got kernel", "kernel", kernels[idx].ID)
	return &kernels[idx], nil
}
