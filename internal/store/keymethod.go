package store

import (
	"fmt"

	"github.com/dmitrijs2005/walletbridge/internal/cryptox"
)

// KeyMethod selects how the caller's key unlocks a store.
type KeyMethod string

const (
	KeyMethodRaw        KeyMethod = "raw"
	KeyMethodArgon2i    KeyMethod = "kdf:argon2i"
	KeyMethodArgon2iMod KeyMethod = "kdf:argon2i:mod"
	KeyMethodArgon2iInt KeyMethod = "kdf:argon2i:int"
)

// ParseKeyMethod validates a key method name. An empty name means raw.
func ParseKeyMethod(s string) (KeyMethod, error) {
	m := KeyMethod(s)
	switch m {
	case "":
		return KeyMethodRaw, nil
	case KeyMethodRaw, KeyMethodArgon2iMod, KeyMethodArgon2iInt:
		return m, nil
	case KeyMethodArgon2i:
		return KeyMethodArgon2iMod, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedMethod, s)
}

func (m KeyMethod) usesSalt() bool { return m != KeyMethodRaw }

// passKey turns the caller's key into the key that seals the store key.
func (m KeyMethod) passKey(key string, salt []byte) ([]byte, error) {
	switch m {
	case KeyMethodRaw:
		b, err := cryptox.DecodeRawKey(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}
		return b, nil
	case KeyMethodArgon2iMod:
		return cryptox.DeriveKey([]byte(key), salt, cryptox.Argon2iModerate), nil
	case KeyMethodArgon2iInt:
		return cryptox.DeriveKey([]byte(key), salt, cryptox.Argon2iInteractive), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, string(m))
}
