package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot(t *testing.T) {
	cmd := Root()

	require.NotNil(t, cmd)
	assert.Equal(t, "kitchen-linode", cmd.Use)

	names := make([]string, 0, len(cmd.Commands()))
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "create")
	assert.Contains(t, names, "destroy")
	assert.Contains(t, names, "version")
}

func TestCreate_Flags(t *testing.T) {
	cmd := Create()

	flag := cmd.Flags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, "c", flag.Shorthand)

	flag = cmd.Flags().Lookup("state")
	require.NotNil(t, flag)
	assert.Equal(t, ".kitchen/state.yaml", flag.DefValue)

	flag = cmd.Flags().Lookup("instance")
	require.NotNil(t, flag)
	assert.Equal(t, "i", flag.Shorthand)
}

func TestDestroy_Flags(t *testing.T) {
	cmd := Destroy()

	require.NotNil(t, cmd.Flags().Lookup("config"))
	require.NotNil(t, cmd.Flags().Lookup("state"))
}
