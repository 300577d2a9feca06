// Package provider abstracts the external public-key encryption tool.
//
// The production implementation (GPG) shells out to the gpg binary; all
// cryptography happens in that subprocess against the operator's existing
// keyring, so envseal never handles key material itself. The engine
// depends only on the Provider interface, which makes its control flow
// testable with an in-memory double.
//
// # Naming contract
//
// Ciphertext files are always the plaintext name with ".gpg" appended:
//
//	.env      -> .env.gpg   (Encrypt)
//	.env.gpg  -> .env       (Decrypt, strips exactly one suffix)
package provider
