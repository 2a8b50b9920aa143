package credential

import (
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "hrdesk"

// Well-known credential keys.
const (
	KeySessionToken = "session-token"
	KeyTotpSeed     = "totp-seed"
	KeyNatsNkeySeed = "nats-nkey-seed"
)

// openKeyring returns a configured keyring instance; the file backend is
// last so OS-native stores win when available.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.hrdesk/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("hrdesk-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %s", err)
	}
	return ring, nil
}

func Get(key string) (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}
	item, err := ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("failed to get credential[%s]: %s", key, err)
	}
	return string(item.Data), nil
}

func Set(key string, value string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}
	if err := ring.Set(keyring.Item{
		Key:  key,
		Data: []byte(value),
	}); err != nil {
		return fmt.Errorf("failed to set credential[%s]: %s", key, err)
	}
	return nil
}

func Delete(key string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}
	if err := ring.Remove(key); err != nil {
		return fmt.Errorf("failed to delete credential[%s]: %s", key, err)
	}
	return nil
}
