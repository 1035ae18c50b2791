package service

import (
	"context"

	"munhash/internal/domain/entity"
)

// DatasetLoader acquires, decodes and parses the source table.
type DatasetLoader interface {
	Load(ctx context.Context) (*entity.Dataset, error)
}
