package linode

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/linode/linodego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResolver(t *testing.T) (*Resolver, *FakeClient) {
	t.Helper()
	fake := NewFakeClient()
	fake.Regions = []linodego.Region{
		{ID: "us-east", Label: "Newark, NJ, USA"},
		{ID: "eu-west", Label: "London, UK"},
		{ID: "ap-south", Label: "Singapore, SG"},
	}
	fake.Types = []linodego.LinodeType{
		{ID: "g6-nanode-1", Label: "Nanode 1GB", Memory: 1024},
		{ID: "g6-standard-1", Label: "Linode 2GB", Memory: 2048},
		{ID: "g6-standard-2", Label: "Linode 4GB", Memory: 4096},
	}
	fake.Images = []linodego.Image{
		{ID: "linode/debian12", Label: "Debian 12"},
		{ID: "linode/ubuntu24.04", Label: "Ubuntu 24.04 LTS"},
	}
	fake.Kernels = []linodego.LinodeKernel{
		{ID: "linode/grub2", Label: "GRUB 2"},
		{ID: "linode/latest-64bit", Label: "Latest 64 bit"},
	}
	return NewResolver(fake, log.New(io.Discard)), fake
}

func TestResolver_TypeExactName(t *testing.T) {
	t.Parallel()
	r, _ := testResolver(t)

	typ, err := r.Type(context.Background(), "g6-standard-1")
	require.NoError(t, err)
	assert.Equal(t, "g6-standard-1", typ.ID)
}

func TestResolver_TypeNumericRAM(t *testing.T) {
	t.Parallel()
	r, _ := testResolver(t)

	// 2048 >= 1024, so it selects by RAM size, not id.
	typ, err := r.Type(context.Background(), "2048")
	require.NoError(t, err)
	assert.Equal(t, "g6-standard-1", typ.ID)
}

func TestResolver_TypeNumericBelowThresholdMatchesID(t *testing.T) {
	t.Parallel()
	r, _ := testResolver(t)
	fake := r.catalog.(*FakeClient)
	fake.Types = append(fake.Types, linodego.LinodeType{ID: "512", Label: "Legacy 512", Memory: 512})

	typ, err := r.Type(context.Background(), "512")
	require.NoError(t, err)
	assert.Equal(t, "512", typ.ID)
}

func TestResolver_TypeNumericBelowThresholdNeverMatchesRAM(t *testing.T) {
	t.Parallel()
	r, _ := testResolver(t)
	fake := r.catalog.(*FakeClient)
	fake.Types = []linodego.LinodeType{{ID: "g5-tiny", Label: "Tiny", Memory: 512}}

	_, err := r.Type(context.Background(), "512")
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestResolver_TypeSubstring(t *testing.T) {
	t.Parallel()
	r, _ := testResolver(t)

	typ, err := r.Type(context.Background(), "standard")
	require.NoError(t, err)
	// First match in provider order wins.
	assert.Equal(t, "g6-standard-1", typ.ID)
}

func TestResolver_RegionBySubstringOfLabel(t *testing.T) {
	t.Parallel()
	r, _ := testResolver(t)

	reg, err := r.Region(context.Background(), "London")
	require.NoError(t, err)
	assert.Equal(t, "eu-west", reg.ID)
}

func TestResolver_RegionNumericMatchesOnlyID(t *testing.T) {
	t.Parallel()
	r, _ := testResolver(t)

	_, err := r.Region(context.Background(), "2048")
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestResolver_ImageExactAndSubstring(t *testing.T) {
	t.Parallel()
	r, _ := testResolver(t)

	img, err := r.Image(context.Background(), "linode/debian12")
	require.NoError(t, err)
	assert.Equal(t, "linode/debian12", img.ID)

	img, err = r.Image(context.Background(), "Ubuntu")
	require.NoError(t, err)
	assert.Equal(t, "linode/ubuntu24.04", img.ID)
}

func TestResolver_KernelSubstring(t *testing.T) {
	t.Parallel()
	r, _ := testResolver(t)

	k, err := r.Kernel(context.Background(), "grub")
	require.NoError(t, err)
	assert.Equal(t, "linode/grub2", k.ID)
}

func TestResolver_NoMatchIsConfigError(t *testing.T) {
	t.Parallel()
	r, _ := testResolver(t)

	_, err := r.Region(context.Background(), "mars-central")
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
	assert.Contains(t, err.Error(), "region")
	assert.Contains(t, err.Error(), "mars-central")
}
