package usecase

import (
	"context"

	"munhash/internal/domain/entity"
)

// HashingUsecase is the parallel hashing engine.
type HashingUsecase interface {
	// HashBatch derives one HashResult per record of batch using a bounded
	// worker pool. It returns only after every task has finished. The first
	// derivation error aborts the batch and no partial results are returned.
	// Result order is unspecified.
	HashBatch(ctx context.Context, batch entity.Batch) (*ResultAggregator, error)

	// Workers reports the configured pool size.
	Workers() int
}
