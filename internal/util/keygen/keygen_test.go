package keygen

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/ssh"
)

func TestGenerateRSAKeyPair(t *testing.T) {
	t.Parallel()
	kp, err := GenerateRSAKeyPair(2048)
	if err != nil {
		t.Fatalf("failed to generate key pair: %v", err)
	}

	if _, err := ssh.ParsePrivateKey(kp.PrivateKey); err != nil {
		t.Errorf("private key does not parse: %v", err)
	}
	if _, _, _, _, err := ssh.ParseAuthorizedKey(kp.PublicKey); err != nil {
		t.Errorf("public key is not authorized_keys format: %v", err)
	}
}

func TestWritePair(t *testing.T) {
	t.Parallel()
	kp, err := GenerateRSAKeyPair(2048)
	if err != nil {
		t.Fatalf("failed to generate key pair: %v", err)
	}

	dir := filepath.Join(t.TempDir(), "keys")
	priv, pub, err := kp.WritePair(dir, "id_rsa")
	if err != nil {
		t.Fatalf("failed to write pair: %v", err)
	}

	if pub != priv+".pub" {
		t.Errorf("expected public path %q, got %q", priv+".pub", pub)
	}

	info, err := os.Stat(priv)
	if err != nil {
		t.Fatalf("private key not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("expected private key mode 0600, got %o", perm)
	}
	if _, err := os.Stat(pub); err != nil {
		t.Errorf("public key not written: %v", err)
	}
}
