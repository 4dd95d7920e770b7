// Package kdf derives symmetric keys from passwords with PBKDF2.
package kdf

import (
	"crypto/sha1" //nolint:gosec // PBKDF2-HMAC-SHA1 is required to read existing .fenc files
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// DefaultIterations is the PBKDF2 iteration count of the .fenc format.
	DefaultIterations = 65536
	// DefaultKeySize is the derived key size in bytes (AES-256).
	DefaultKeySize = 32
	// SaltSize is the size of the salt stored in a .fenc footer.
	SaltSize = 8
)

var (
	// ErrEmptyPassword is returned when deriving a key from an empty password.
	ErrEmptyPassword = errors.New("password cannot be empty")
	// ErrEmptySalt is returned when deriving a key without a salt.
	ErrEmptySalt = errors.New("salt cannot be empty")
	// ErrInvalidParams is returned for non-positive iteration counts or key sizes.
	ErrInvalidParams = errors.New("invalid key derivation parameters")
	// ErrUnsupportedHash is returned for an unknown PRF hash.
	ErrUnsupportedHash = errors.New("unsupported hash function")
)

// Hash selects the HMAC hash used as the PBKDF2 pseudo-random function.
type Hash uint8

const (
	// SHA1 is the hash of the original .fenc format.
	SHA1 Hash = iota
	// SHA256 hash function.
	SHA256
	// SHA512 hash function.
	SHA512
)

// String returns the lowercase name of the hash.
func (h Hash) String() string {
	switch h {
	case SHA1:
		return "sha1"
	case SHA256:
		return "sha256"
	case SHA512:
		return "sha512"
	default:
		return "unknown"
	}
}

// ParseHash parses a hash name as accepted on the command line.
func ParseHash(name string) (Hash, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sha1":
		return SHA1, nil
	case "sha256":
		return SHA256, nil
	case "sha512":
		return SHA512, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedHash, name)
	}
}

func (h Hash) newFunc() (func() hash.Hash, error) {
	switch h {
	case SHA1:
		return sha1.New, nil
	case SHA256:
		return sha256.New, nil
	case SHA512:
		return sha512.New, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedHash, h)
	}
}

// PBKDF2 derives keys with PBKDF2-HMAC. The zero value is not usable; start from Default.
type PBKDF2 struct {
	// Iterations is the PBKDF2 iteration count.
	Iterations int
	// KeySize is the derived key length in bytes.
	KeySize int
	// Hash is the HMAC hash function.
	Hash Hash
}

// Default returns the parameters of the .fenc format: PBKDF2-HMAC-SHA1, 65536 iterations, 256-bit key.
func Default() PBKDF2 {
	return PBKDF2{
		Iterations: DefaultIterations,
		KeySize:    DefaultKeySize,
		Hash:       SHA1,
	}
}

// Derive returns the key for password and salt.
// Identical inputs always yield identical keys.
func (p PBKDF2) Derive(password string, salt []byte) ([]byte, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}

	if len(salt) == 0 {
		return nil, ErrEmptySalt
	}

	if p.Iterations < 1 || p.KeySize < 1 {
		return nil, fmt.Errorf("%w: iterations=%d key size=%d", ErrInvalidParams, p.Iterations, p.KeySize)
	}

	hashFunc, err := p.Hash.newFunc()
	if err != nil {
		return nil, err
	}

	return pbkdf2.Key([]byte(password), salt, p.Iterations, p.KeySize, hashFunc), nil
}
