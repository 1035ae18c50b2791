package entity

import "time"

// Dataset is the parsed source table.
type Dataset struct {
	Source   string   // URL or path the bytes came from
	Encoding string   // detected text encoding
	Bytes    int64    // raw size
	Records  []Record // rows that survived parsing
	Dropped  int      // rows discarded for having too few fields or no identifier
}

// ArtifactFile describes one persisted object.
type ArtifactFile struct {
	Key       string `json:"key"`
	SizeBytes int64  `json:"size_bytes"`
	SHA256    string `json:"sha256"`
}

// GroupArtifact is what the sink wrote for one group.
type GroupArtifact struct {
	Group   string         `json:"group"`
	Records int            `json:"records"`
	Files   []ArtifactFile `json:"files"`
}

// KDFParameters records how digests were derived.
type KDFParameters struct {
	Algorithm        string `json:"algorithm"`
	Iterations       int    `json:"iterations"`
	OutputLength     int    `json:"output_length"`
	SaltLength       int    `json:"salt_length"`
	SaltScheme       string `json:"salt_scheme"`
	PasswordEncoding string `json:"password_encoding"`
}

// Manifest summarises a complete run.
type Manifest struct {
	Version     string          `json:"version"`
	RunID       string          `json:"run_id"`
	Source      string          `json:"source"`
	Encoding    string          `json:"encoding"`
	DroppedRows int             `json:"dropped_rows"`
	StartedAt   time.Time       `json:"started_at"`
	FinishedAt  time.Time       `json:"finished_at"`
	KDF         KDFParameters   `json:"kdf"`
	Groups      []GroupArtifact `json:"groups"`
}
