package handlers

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provisionkit/kitchen-linode/internal/config"
	"github.com/provisionkit/kitchen-linode/internal/platform/linode"
)

func TestDestroy_EmptyStateMakesNoProviderCalls(t *testing.T) {
	t.Setenv(config.TokenEnvVar, "test-token")

	fake := linode.NewFakeClient()
	orig := newClient
	newClient = func(string) linode.Client { return fake }
	defer func() { newClient = orig }()

	opts := Options{
		StatePath: filepath.Join(t.TempDir(), "state.yaml"),
	}
	require.NoError(t, Destroy(context.Background(), opts))

	assert.Equal(t, 0, fake.GetCalls)
	assert.Equal(t, 0, fake.DeleteCalls)
}

func TestCreate_MissingTokenFailsBeforeProviderContact(t *testing.T) {
	t.Setenv(config.TokenEnvVar, "")

	fake := linode.NewFakeClient()
	orig := newClient
	newClient = func(string) linode.Client { return fake }
	defer func() { newClient = orig }()

	opts := Options{
		StatePath: filepath.Join(t.TempDir(), "state.yaml"),
	}
	err := Create(context.Background(), opts)
	require.Error(t, err)
	assert.True(t, linode.IsConfigError(err))
	assert.Equal(t, 0, fake.CreateCalls)
	assert.Equal(t, 0, fake.ListCalls)
}
