package encryption

import (
	"fmt"

	"chrono-go/internal/chrono"
	"chrono-go/internal/config"
)

// NewEncryptorFromConfig creates an Encryptor based on the configuration type.
func NewEncryptorFromConfig(cfg config.EncryptionConfig) (chrono.Encryptor, error) {
	switch cfg.Type {
	case "none", "":
		return NopEncryptor{}, nil
	case "age":
		if cfg.PublicKeyPath == "" || cfg.PrivateKeyPath == "" {
			return nil, fmt.Errorf("age encryption requires public_key_path and private_key_path")
		}
		return NewAgeEncryptor(cfg), nil
	case "test":
		return NewTestEncryptor(), nil
	default:
		return nil, fmt.Errorf("unknown encryption type: %q", cfg.Type)
	}
}

// RequiresPassphrase reports whether reverting under cfg needs the user's
// passphrase.
func RequiresPassphrase(cfg config.EncryptionConfig) bool {
	return cfg.Type == "age"
}
