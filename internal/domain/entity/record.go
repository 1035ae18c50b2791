// Package entity contains the core business objects of the project.
package entity

import (
	domainerrors "munhash/internal/domain/errors"
	"munhash/internal/errors"
)

// Record is one municipality row of the source table.
type Record struct {
	Code    string `json:"tom"`      // Receita Federal (TOM) code.
	ID      string `json:"ibge"`     // IBGE code. Salt source and join key.
	Name    string `json:"nomeTom"`  // Name as spelled in the TOM registry.
	AltName string `json:"nomeIbge"` // Name as spelled by IBGE.
	Group   string `json:"uf"`       // Federative unit, upper-cased.
}

// HashResult is a Record enriched with its integrity digest.
type HashResult struct {
	Record
	DigestHex string `json:"hashHex"` // Lowercase hex, two characters per output byte.
}

// NewHashResult attaches digestHex to a copy of record.
func NewHashResult(record Record, digestHex string) HashResult {
	return HashResult{Record: record, DigestHex: digestHex}
}

// Batch holds every record that shares one group key.
type Batch struct {
	Group   string
	Records []Record
}

// Len returns the number of records in the batch.
func (b Batch) Len() int {
	return len(b.Records)
}

// Validate rejects a batch holding a record without an identifier. The
// returned RecordError wraps ErrEmptyIdentifier.
func (b Batch) Validate() error {
	for _, record := range b.Records {
		if record.ID == "" {
			return domainerrors.NewRecordError(record.ID, errors.WithStack(domainerrors.ErrEmptyIdentifier))
		}
	}

	return nil
}
