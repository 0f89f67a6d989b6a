// Package cryptox holds the key handling and AEAD primitives used by the
// wallet store: raw-key decoding, Argon2i key derivation, AES-256-GCM
// sealing and HMAC lookup indexes.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"
)

// KeySize is the length of every symmetric key handled here (AES-256).
const KeySize = 32

// SaltSize is the length of the random Argon2 salt stored with a wallet.
const SaltSize = 16

var (
	ErrInvalidRawKey  = errors.New("invalid raw key")
	ErrSealedTooShort = errors.New("sealed data too short")
)

// KDFParams are the Argon2i cost parameters.
type KDFParams struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
}

var (
	Argon2iModerate    = KDFParams{Time: 3, Memory: 64 * 1024, Threads: 4}
	Argon2iInteractive = KDFParams{Time: 2, Memory: 16 * 1024, Threads: 4}
)

// GenerateRandByteArray returns n bytes from crypto/rand. It panics if the
// system random source fails, which leaves nothing sensible to do.
func GenerateRandByteArray(n int) []byte {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return b
}

// GenerateRawKey returns a fresh base58-encoded 32-byte key suitable for the
// raw key method.
func GenerateRawKey() string {
	return base58.Encode(GenerateRandByteArray(KeySize))
}

// DecodeRawKey decodes a base58 raw key and checks its length.
func DecodeRawKey(s string) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidRawKey)
	}
	b, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRawKey, err)
	}
	if len(b) != KeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidRawKey, KeySize, len(b))
	}
	return b, nil
}

// DeriveKey stretches a passphrase into a KeySize key with Argon2i.
func DeriveKey(pass, salt []byte, p KDFParams) []byte {
	return argon2.Key(pass, salt, p.Time, p.Memory, p.Threads, KeySize)
}

// Seal encrypts plaintext with AES-GCM under key. The random nonce is
// prepended to the returned ciphertext.
func Seal(key, plaintext []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := GenerateRandByteArray(aesgcm.NonceSize())

	out := make([]byte, 0, len(nonce)+len(plaintext)+aesgcm.Overhead())
	out = append(out, nonce...)
	return aesgcm.Seal(out, nonce, plaintext, nil), nil
}

// Open reverses Seal.
func Open(key, sealed []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	ns := aesgcm.NonceSize()
	if len(sealed) < ns+aesgcm.Overhead() {
		return nil, ErrSealedTooShort
	}

	return aesgcm.Open(nil, sealed[:ns], sealed[ns:], nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// SubKeys expands a store key into independent encryption and index keys.
func SubKeys(storeKey []byte) (encKey, macKey []byte, err error) {
	r := hkdf.New(sha256.New, storeKey, nil, []byte("walletbridge store v1"))

	encKey = make([]byte, KeySize)
	macKey = make([]byte, KeySize)
	if _, err := io.ReadFull(r, encKey); err != nil {
		return nil, nil, err
	}
	if _, err := io.ReadFull(r, macKey); err != nil {
		return nil, nil, err
	}
	return encKey, macKey, nil
}

// Index computes a deterministic lookup token for value within domain, so
// equal plaintexts can be matched without decrypting stored rows.
func Index(macKey []byte, domain byte, value []byte) []byte {
	m := hmac.New(sha256.New, macKey)
	m.Write([]byte{domain})
	m.Write(value)
	return m.Sum(nil)
}

// Wipe overwrites b with zeros. A nil slice is a no-op.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
