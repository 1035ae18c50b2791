package impl

import (
	"context"
	"encoding/hex"
	"log/slog"
	"runtime"

	"munhash/config"
	"munhash/internal/domain/entity"
	domainerrors "munhash/internal/domain/errors"
	"munhash/internal/domain/service"
	"munhash/internal/errors"
	"munhash/internal/usecase"

	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"
)

// hashingService implements the HashingUsecase interface
type hashingService struct {
	salts   service.SaltBuilder
	deriver service.KeyDeriver
	workers int
	logger  *slog.Logger
}

// HashingServiceParams holds dependencies for the hashing engine
type HashingServiceParams struct {
	fx.In

	Salts   service.SaltBuilder
	Deriver service.KeyDeriver
	Config  *config.HashingConfig
	Logger  *slog.Logger `optional:"true"`
}

// NewHashingService builds the engine. A zero worker count means one worker
// per available processor.
func NewHashingService(params HashingServiceParams) (usecase.HashingUsecase, error) {
	if params.Salts == nil || params.Deriver == nil {
		return nil, errors.Wrap(domainerrors.ErrInvalidConfig, "salt builder and key deriver are required")
	}

	workers := 0
	if params.Config != nil {
		workers = params.Config.Workers
	}
	if workers < 0 {
		return nil, errors.WithStack(domainerrors.ErrInvalidWorkers)
	}
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	logger := params.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &hashingService{
		salts:   params.Salts,
		deriver: params.Deriver,
		workers: workers,
		logger:  logger,
	}, nil
}

func (s *hashingService) Workers() int {
	return s.workers
}

// HashBatch fans the batch out over the worker pool. Records without an
// identifier are rejected before any derivation is scheduled.
func (s *hashingService) HashBatch(ctx context.Context, batch entity.Batch) (*usecase.ResultAggregator, error) {
	results := usecase.NewResultAggregator(batch.Len())
	if batch.Len() == 0 {
		return results, nil
	}

	if err := batch.Validate(); err != nil {
		return nil, err
	}

	if ctx.Err() != nil {
		return nil, errors.Wrap(ctx.Err(), "hashing canceled")
	}

	workerCount := s.workerCount(batch.Len())
	s.logger.Debug("Hashing batch",
		slog.String("group", batch.Group),
		slog.Int("records", batch.Len()),
		slog.Int("workers", workerCount),
	)

	workerGroup, groupCtx := errgroup.WithContext(ctx)
	jobs := make(chan int)

	workerGroup.Go(func() error {
		return dispatchHashWork(groupCtx, jobs, batch.Len())
	})

	for i := 0; i < workerCount; i++ {
		workerGroup.Go(func() error {
			return s.hashWorker(groupCtx, batch.Records, jobs, results)
		})
	}

	if err := workerGroup.Wait(); err != nil {
		return nil, err
	}

	if results.Len() != batch.Len() {
		return nil, errors.Errorf("hashed %d of %d records in group %s", results.Len(), batch.Len(), batch.Group)
	}

	return results, nil
}

// workerCount never exceeds the batch size and is at least one
func (s *hashingService) workerCount(jobCount int) int {
	return max(1, min(s.workers, jobCount))
}

func (s *hashingService) hashWorker(ctx context.Context, records []entity.Record, jobs <-chan int, results *usecase.ResultAggregator) error {
	for idx := range jobs {
		if ctx.Err() != nil {
			return errors.Wrap(ctx.Err(), "hashing canceled")
		}

		record := records[idx]
		result, err := s.hashRecord(record)
		if err != nil {
			return domainerrors.NewRecordError(record.ID, err)
		}

		results.Add(result)
	}

	return nil
}

// hashRecord runs salt -> password -> derive -> hex for one record
func (s *hashingService) hashRecord(record entity.Record) (entity.HashResult, error) {
	salt, err := s.salts.BuildSalt(record.ID)
	if err != nil {
		return entity.HashResult{}, errors.Wrap(err, "build salt")
	}

	key, err := s.deriver.Derive(record.Password(), salt)
	if err != nil {
		return entity.HashResult{}, errors.Wrap(err, "derive key")
	}

	if len(key) != s.deriver.OutputLength() {
		return entity.HashResult{}, errors.Errorf("derived %d bytes, want %d", len(key), s.deriver.OutputLength())
	}

	return entity.NewHashResult(record, hex.EncodeToString(key)), nil
}

// dispatchHashWork feeds record indices until done or the context is canceled
func dispatchHashWork(ctx context.Context, jobs chan<- int, jobCount int) error {
	defer close(jobs)

	for i := 0; i < jobCount; i++ {
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "hashing canceled")
		case jobs <- i:
		}
	}

	return nil
}
