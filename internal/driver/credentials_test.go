package driver

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provisionkit/kitchen-linode/internal/config"
	"github.com/provisionkit/kitchen-linode/internal/platform/linode"
	"github.com/provisionkit/kitchen-linode/internal/state"
)

func credsDriver(t *testing.T, cfg *config.Config) *Driver {
	t.Helper()
	store, err := state.Load(filepath.Join(t.TempDir(), "state.yaml"))
	require.NoError(t, err)
	return New(cfg, linode.NewFakeClient(), store, log.New(io.Discard),
		WithKeyDir(filepath.Join(t.TempDir(), "keys")))
}

func TestGeneratePassword(t *testing.T) {
	t.Parallel()
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		pw, err := generatePassword()
		require.NoError(t, err)

		assert.Len(t, pw, 15)
		for _, r := range pw {
			assert.Contains(t, passwordAlphabet, string(r))
		}
		seen[pw] = true
	}
	// 20 draws from a 62^15 space should never collide.
	assert.Len(t, seen, 20)
}

func TestMaterializeCredentials_KeepsConfiguredPassword(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := &config.Config{Password: "preset", PrivateKeyPath: writeKeyFiles(t)}
	d := credsDriver(t, cfg)

	require.NoError(t, d.materializeCredentials())
	assert.Equal(t, "preset", cfg.Password)
}

func TestMaterializeCredentials_GeneratesPassword(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := &config.Config{PrivateKeyPath: writeKeyFiles(t)}
	d := credsDriver(t, cfg)

	require.NoError(t, d.materializeCredentials())
	assert.Len(t, cfg.Password, 15)
}

func TestMaterializeKeys_DerivesPublicFromPrivate(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	private := writeKeyFiles(t)
	cfg := &config.Config{PrivateKeyPath: private}
	d := credsDriver(t, cfg)

	require.NoError(t, d.materializeKeys())
	assert.Equal(t, private, cfg.PrivateKeyPath)
	assert.Equal(t, private+".pub", cfg.PublicKeyPath)
}

func TestMaterializeKeys_ExpandsTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.MkdirAll(filepath.Join(home, "keys"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(home, "keys", "ci_rsa"), []byte("k"), 0o600))

	cfg := &config.Config{PrivateKeyPath: "~/keys/ci_rsa"}
	d := credsDriver(t, cfg)

	require.NoError(t, d.materializeKeys())
	assert.Equal(t, filepath.Join(home, "keys", "ci_rsa"), cfg.PrivateKeyPath)
	assert.True(t, filepath.IsAbs(cfg.PrivateKeyPath))
}

func TestMaterializeKeys_ProbesDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	sshDir := filepath.Join(home, ".ssh")
	require.NoError(t, os.MkdirAll(sshDir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(sshDir, "id_rsa"), []byte("k"), 0o600))

	cfg := &config.Config{}
	d := credsDriver(t, cfg)

	require.NoError(t, d.materializeKeys())
	assert.Equal(t, filepath.Join(sshDir, "id_rsa"), cfg.PrivateKeyPath)
	assert.Equal(t, filepath.Join(sshDir, "id_rsa.pub"), cfg.PublicKeyPath)
}

func TestMaterializeKeys_GeneratesIdentityAsLastResort(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home) // no ~/.ssh/id_rsa here

	cfg := &config.Config{}
	d := credsDriver(t, cfg)

	require.NoError(t, d.materializeKeys())
	require.NotEmpty(t, cfg.PrivateKeyPath)
	assert.Equal(t, cfg.PrivateKeyPath+".pub", cfg.PublicKeyPath)

	pub, err := os.ReadFile(cfg.PublicKeyPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pub), "ssh-rsa "))
}

func writeKeyFiles(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	private := filepath.Join(dir, "id_rsa")
	require.NoError(t, os.WriteFile(private, []byte("fake private key"), 0o600))
	require.NoError(t, os.WriteFile(private+".pub", []byte("ssh-rsa AAAAtest kitchen@ci\n"), 0o644))
	return private
}
