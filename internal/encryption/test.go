package encryption

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"chrono-go/internal/chrono"
)

// testHeader starts every body written by TestEncryptor.
var testHeader = []byte("CHRENC1\n")

// errNotTestBody is returned when a stored body was not written by
// TestEncryptor, for example a plaintext copy.
var errNotTestBody = errors.New("body was not written by the test encryptor")

// TestEncryptor is a deterministic stand-in for age. Stored bodies are the
// working file behind a fixed header, so they differ from the file while
// staying readable in test failures. A passphrase given to Setup is checked
// by Unlock the way the age key would be.
type TestEncryptor struct {
	mu         sync.Mutex
	passphrase string
	bodies     int
}

var _ chrono.Encryptor = (*TestEncryptor)(nil)

// NewTestEncryptor creates a TestEncryptor that accepts any passphrase.
func NewTestEncryptor() *TestEncryptor {
	return &TestEncryptor{}
}

func (e *TestEncryptor) Setup(passphrase string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.passphrase = passphrase
	return nil
}

func (e *TestEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := w.Write(testHeader); err != nil {
		return fmt.Errorf("writing test header: %w", err)
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying body: %w", err)
	}

	e.mu.Lock()
	e.bodies++
	e.mu.Unlock()
	return nil
}

// Bodies returns how many bodies were encrypted successfully.
func (e *TestEncryptor) Bodies() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bodies
}

func (e *TestEncryptor) Unlock(passphrase string) (chrono.DecryptionContext, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.passphrase != "" && passphrase != e.passphrase {
		return nil, ErrWrongPassphrase
	}
	return &TestDecryptionContext{}, nil
}

func (e *TestEncryptor) IsConfigured() bool {
	return true
}

// TestDecryptionContext strips the header added by TestEncryptor. The zero
// value is ready to use.
type TestDecryptionContext struct{}

var _ chrono.DecryptionContext = (*TestDecryptionContext)(nil)

func (c *TestDecryptionContext) Decrypt(r io.Reader, w io.Writer) error {
	header := make([]byte, len(testHeader))
	if _, err := io.ReadFull(r, header); err != nil {
		return fmt.Errorf("%w: %v", errNotTestBody, err)
	}
	if !bytes.Equal(header, testHeader) {
		return errNotTestBody
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying body: %w", err)
	}
	return nil
}
