package repository

import (
	"context"

	"munhash/internal/domain/entity"
)

// ArtifactRepository persists per-group hash results.
type ArtifactRepository interface {
	// WriteGroup stores the CSV and JSON artifacts of one group. On failure no
	// object of that group is left behind.
	WriteGroup(ctx context.Context, group string, results []entity.HashResult) (*entity.GroupArtifact, error)

	// ReadGroupCSV loads hash results back from a CSV artifact key.
	ReadGroupCSV(ctx context.Context, key string) ([]entity.HashResult, error)

	// GroupCSVKey returns the object key WriteGroup uses for a group's CSV.
	GroupCSVKey(group string) string

	// WriteManifest stores the run manifest.
	WriteManifest(ctx context.Context, manifest *entity.Manifest) error
}
