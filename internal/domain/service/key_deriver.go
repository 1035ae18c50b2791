package service

// KeyDeriver wraps a password-based key derivation function configured with a
// fixed iteration count and output length.
type KeyDeriver interface {
	// Derive stretches password with salt into OutputLength bytes.
	Derive(password, salt []byte) ([]byte, error)

	// Iterations reports the configured iteration count.
	Iterations() int

	// OutputLength reports the digest length in bytes.
	OutputLength() int

	// Algorithm names the derivation, e.g. "pbkdf2-hmac-sha256".
	Algorithm() string
}
