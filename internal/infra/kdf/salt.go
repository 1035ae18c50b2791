// Package kdf provides concrete implementations of the salt and key derivation
// domain services.
package kdf

import (
	"crypto/sha256"
	"io"

	domainerrors "munhash/internal/domain/errors"
	"munhash/internal/domain/service"
	"munhash/internal/errors"

	"golang.org/x/crypto/hkdf"
)

const (
	// SaltInfo labels the HKDF expansion. Changing it changes every digest.
	SaltInfo = "munhash/salt/v1"

	// SaltScheme is recorded in the run manifest.
	SaltScheme = "hkdf-sha256(identifier, info=" + SaltInfo + ")"

	// MaxSaltLength is the HKDF-SHA256 expansion limit (255 * 32).
	MaxSaltLength = 255 * sha256.Size
)

// hkdfSaltBuilder derives salts with HKDF-SHA256 keyed by the identifier.
type hkdfSaltBuilder struct {
	length int
}

// NewSaltBuilder returns a SaltBuilder producing length-byte salts.
func NewSaltBuilder(length int) (service.SaltBuilder, error) {
	if length <= 0 || length > MaxSaltLength {
		return nil, errors.WithStack(domainerrors.ErrInvalidSaltLength)
	}

	return &hkdfSaltBuilder{length: length}, nil
}

// BuildSalt expands id into the configured number of bytes.
func (b *hkdfSaltBuilder) BuildSalt(id string) ([]byte, error) {
	if id == "" {
		return nil, errors.WithStack(domainerrors.ErrEmptyIdentifier)
	}

	salt := make([]byte, b.length)
	reader := hkdf.New(sha256.New, []byte(id), nil, []byte(SaltInfo))
	if _, err := io.ReadFull(reader, salt); err != nil {
		return nil, errors.Wrap(err, "expand salt")
	}

	return salt, nil
}

func (b *hkdfSaltBuilder) Length() int {
	return b.length
}

func (b *hkdfSaltBuilder) Scheme() string {
	return SaltScheme
}
