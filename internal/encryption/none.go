package encryption

import (
	"fmt"
	"io"

	"chrono-go/internal/chrono"
)

// NopEncryptor stores bodies as plaintext. It is the default for new
// repositories.
type NopEncryptor struct{}

var _ chrono.Encryptor = NopEncryptor{}

func (NopEncryptor) Setup(string) error { return nil }

func (NopEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}

func (NopEncryptor) Unlock(string) (chrono.DecryptionContext, error) {
	return NopDecryptionContext{}, nil
}

func (NopEncryptor) IsConfigured() bool { return true }

// NopDecryptionContext copies bodies through unchanged.
type NopDecryptionContext struct{}

var _ chrono.DecryptionContext = NopDecryptionContext{}

func (NopDecryptionContext) Decrypt(r io.Reader, w io.Writer) error {
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}
