package kdf

import (
	"crypto/sha256"

	domainerrors "munhash/internal/domain/errors"
	"munhash/internal/domain/service"
	"munhash/internal/errors"

	"golang.org/x/crypto/pbkdf2"
)

// Algorithm is the name reported by the PBKDF2 deriver.
const Algorithm = "pbkdf2-hmac-sha256"

// pbkdf2Deriver is a KeyDeriver backed by PBKDF2-HMAC-SHA256.
type pbkdf2Deriver struct {
	iterations int
	outputLen  int
}

// NewPBKDF2Deriver validates the parameters up front; nothing is substituted
// for a zero value.
func NewPBKDF2Deriver(iterations, outputLen int) (service.KeyDeriver, error) {
	if iterations <= 0 {
		return nil, errors.WithStack(domainerrors.ErrInvalidIterations)
	}
	if outputLen <= 0 {
		return nil, errors.WithStack(domainerrors.ErrInvalidOutputLength)
	}

	return &pbkdf2Deriver{iterations: iterations, outputLen: outputLen}, nil
}

// Derive rejects an empty password. Record.Password always emits length
// prefixes, so records never reach this branch; it guards direct callers.
func (d *pbkdf2Deriver) Derive(password, salt []byte) ([]byte, error) {
	if len(password) == 0 {
		return nil, errors.WithStack(domainerrors.ErrEmptyPassword)
	}

	return pbkdf2.Key(password, salt, d.iterations, d.outputLen, sha256.New), nil
}

func (d *pbkdf2Deriver) Iterations() int {
	return d.iterations
}

func (d *pbkdf2Deriver) OutputLength() int {
	return d.outputLen
}

func (d *pbkdf2Deriver) Algorithm() string {
	return Algorithm
}
