package driver

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/provisionkit/kitchen-linode/internal/util/keygen"
)

const (
	passwordLength   = 15
	passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// materializeCredentials ensures a login secret and SSH identity exist before
// the create call. These are two of the three write-once config mutations.
func (d *Driver) materializeCredentials() error {
	if d.cfg.Password == "" {
		password, err := generatePassword()
		if err != nil {
			return fmt.Errorf("failed to generate root password: %w", err)
		}
		d.cfg.Password = password
	}
	return d.materializeKeys()
}

// generatePassword draws passwordLength characters uniformly from the
// 62-symbol alphanumeric alphabet. Only used as the initial account password;
// it is superseded by key auth and locked during bootstrap.
func generatePassword() (string, error) {
	max := big.NewInt(int64(len(passwordAlphabet)))
	buf := make([]byte, passwordLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = passwordAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// materializeKeys normalizes the key paths: expand configured paths to
// absolute form, probe ~/.ssh/id_rsa when no private key is configured,
// derive the public path from the private one, and as a last resort generate
// a fresh identity into the key directory.
func (d *Driver) materializeKeys() error {
	if d.cfg.PrivateKeyPath != "" {
		abs, err := expandPath(d.cfg.PrivateKeyPath)
		if err != nil {
			return fmt.Errorf("failed to resolve private_key_path: %w", err)
		}
		d.cfg.PrivateKeyPath = abs
	} else if probed := probeDefaultKey(); probed != "" {
		d.cfg.PrivateKeyPath = probed
	}

	if d.cfg.PublicKeyPath != "" {
		abs, err := expandPath(d.cfg.PublicKeyPath)
		if err != nil {
			return fmt.Errorf("failed to resolve public_key_path: %w", err)
		}
		d.cfg.PublicKeyPath = abs
	} else if d.cfg.PrivateKeyPath != "" {
		d.cfg.PublicKeyPath = d.cfg.PrivateKeyPath + ".pub"
	}

	if d.cfg.PrivateKeyPath == "" {
		return d.generateIdentity()
	}
	return nil
}

// generateIdentity creates an RSA key pair under the key directory when the
// run has no usable SSH identity at all.
func (d *Driver) generateIdentity() error {
	d.log.Info("no SSH identity configured, generating one", "dir", d.keyDir)

	pair, err := keygen.GenerateRSAKeyPair(keygen.DefaultBits)
	if err != nil {
		return fmt.Errorf("failed to generate SSH identity: %w", err)
	}

	privatePath, publicPath, err := pair.WritePair(d.keyDir, "id_rsa")
	if err != nil {
		return err
	}
	d.cfg.PrivateKeyPath = privatePath
	d.cfg.PublicKeyPath = publicPath
	return nil
}

// probeDefaultKey returns ~/.ssh/id_rsa if the file exists, otherwise "".
func probeDefaultKey() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	candidate := filepath.Join(home, ".ssh", "id_rsa")
	if _, err := os.Stat(candidate); err != nil {
		return ""
	}
	return candidate
}

// expandPath turns ~-prefixed and relative paths into absolute ones.
func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}
