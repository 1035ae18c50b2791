// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// SaltBuilder derives the per-record salt from the record identifier.
// Implementations must be pure: the same identifier always yields the same
// bytes, across calls and across processes. Digests have to be re-derivable
// for audit, so the salt is intentionally not random.
type SaltBuilder interface {
	// BuildSalt returns a fixed-length salt for id.
	BuildSalt(id string) ([]byte, error)

	// Length reports the salt length in bytes.
	Length() int

	// Scheme describes the derivation for the run manifest.
	Scheme() string
}
