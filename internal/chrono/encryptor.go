package chrono

import "io"

// Encryptor protects file bodies at rest in the snapshot store.
// Encryption uses the public key only, so commits never prompt.
// Decryption requires unlocking the private key, producing a
// DecryptionContext for the session.
type Encryptor interface {
	// Setup performs one-time key generation during `chrono init`.
	Setup(passphrase string) error

	// Encrypt encrypts data read from r and writes ciphertext to w.
	Encrypt(r io.Reader, w io.Writer) error

	// Unlock returns a DecryptionContext for the rest of the session.
	// Returns an error if the passphrase is incorrect.
	Unlock(passphrase string) (DecryptionContext, error)

	// IsConfigured returns true if the encryptor has the keys it needs.
	IsConfigured() bool
}

// DecryptionContext holds an unlocked key in memory for the duration of a
// revert. The unlocked key is never written to disk.
type DecryptionContext interface {
	// Decrypt decrypts data read from r and writes plaintext to w.
	Decrypt(r io.Reader, w io.Writer) error
}
