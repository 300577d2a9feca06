package provider

import "strings"

// Suffix is the extension appended to encrypted files.
const Suffix = ".gpg"

// Provider performs the encryption and decryption of individual files.
// The engine never touches ciphertext itself; it only hands paths to a
// Provider and inspects the returned error.
type Provider interface {
	// Check reports whether the provider can run at all. It is called
	// once before a batch, never per file.
	Check() error

	// Encrypt produces the ciphertext sibling of src for the given
	// recipient and returns its path. The source file is left untouched.
	Encrypt(src, recipient string) (string, error)

	// Decrypt produces the plaintext sibling of src (src minus one
	// trailing Suffix) and returns its path, overwriting any existing
	// file at that path.
	Decrypt(src string) (string, error)
}

// EncryptedName returns the ciphertext path for a plaintext path.
func EncryptedName(path string) string {
	return path + Suffix
}

// PlaintextName strips exactly one trailing Suffix. It returns the input
// unchanged when the suffix is absent.
func PlaintextName(path string) string {
	return strings.TrimSuffix(path, Suffix)
}
