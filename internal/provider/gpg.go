package provider

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// GPG invokes the gpg binary as a blocking subprocess per file. The exit
// status is the sole success signal; stderr is folded into the error.
type GPG struct {
	// Binary overrides the executable name. Empty means "gpg".
	Binary string
}

func (g GPG) binary() string {
	if g.Binary != "" {
		return g.Binary
	}
	return "gpg"
}

// Check verifies the gpg binary is available on PATH.
func (g GPG) Check() error {
	if _, err := exec.LookPath(g.binary()); err != nil {
		return fmt.Errorf("%s is not installed or not on PATH: %w", g.binary(), err)
	}
	return nil
}

// Encrypt writes src encrypted for recipient to src + ".gpg".
func (g GPG) Encrypt(src, recipient string) (string, error) {
	dst := EncryptedName(src)
	return dst, g.run("--batch", "--yes", "--encrypt", "--recipient", recipient, "--output", dst, src)
}

// Decrypt writes the plaintext of src to src minus its ".gpg" suffix,
// overwriting any existing file there.
func (g GPG) Decrypt(src string) (string, error) {
	dst := PlaintextName(src)
	if dst == src {
		return "", fmt.Errorf("%s does not have a %s suffix", src, Suffix)
	}
	return dst, g.run("--batch", "--yes", "--decrypt", "--output", dst, src)
}

func (g GPG) run(args ...string) error {
	cmd := exec.Command(g.binary(), args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s failed: %w: %s", g.binary(), err, msg)
		}
		return fmt.Errorf("%s failed: %w", g.binary(), err)
	}
	return nil
}
