package impl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"munhash/internal/domain/entity"
	domainerrors "munhash/internal/domain/errors"
	"munhash/internal/domain/repository"
	"munhash/internal/domain/service"
	"munhash/internal/errors"
	"munhash/internal/usecase"
	"munhash/internal/util"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// pipelineService implements the PipelineUsecase interface
type pipelineService struct {
	loader    service.DatasetLoader
	engine    usecase.HashingUsecase
	artifacts repository.ArtifactRepository
	publisher service.EventPublisher
	salts     service.SaltBuilder
	deriver   service.KeyDeriver
	logger    *slog.Logger

	now      func() time.Time
	newRunID func() string
}

// PipelineServiceParams holds dependencies for the batch driver, injected by Fx
type PipelineServiceParams struct {
	fx.In

	Loader    service.DatasetLoader
	Engine    usecase.HashingUsecase
	Artifacts repository.ArtifactRepository
	Publisher service.EventPublisher
	Salts     service.SaltBuilder
	Deriver   service.KeyDeriver
	Logger    *slog.Logger
}

// NewPipelineService creates the batch driver
func NewPipelineService(params PipelineServiceParams) usecase.PipelineUsecase {
	return &pipelineService{
		loader:    params.Loader,
		engine:    params.Engine,
		artifacts: params.Artifacts,
		publisher: params.Publisher,
		salts:     params.Salts,
		deriver:   params.Deriver,
		logger:    params.Logger,
		now:       time.Now,
		newRunID:  uuid.NewString,
	}
}

// Run processes groups one after the other. The first failing group aborts the
// run; groups already written stay in place.
func (s *pipelineService) Run(ctx context.Context) (*usecase.RunSummary, error) {
	startedAt := s.now()
	runID := s.newRunID()
	logger := s.logger.With(slog.String("run_id", runID))

	dataset, err := s.loader.Load(ctx)
	if err != nil {
		return nil, domainerrors.NewStageError(domainerrors.StageAcquisition, "", err)
	}

	batches := entity.Partition(dataset.Records)
	if err := s.checkBatches(batches); err != nil {
		return nil, err
	}

	logger.Info("Hashing dataset",
		slog.Int("records", len(dataset.Records)),
		slog.Int("groups", len(batches)),
		slog.Int("dropped_rows", dataset.Dropped),
		slog.Int("workers", s.engine.Workers()),
		slog.Int("iterations", s.deriver.Iterations()),
	)

	summary := &usecase.RunSummary{
		RunID:       runID,
		Groups:      make([]usecase.GroupReport, 0, len(batches)),
		DroppedRows: dataset.Dropped,
	}

	for i, batch := range batches {
		report, err := s.processGroup(ctx, runID, batch)
		if err != nil {
			return nil, err
		}

		summary.Groups = append(summary.Groups, *report)
		summary.Records += report.Artifact.Records

		logger.Info("Group completed",
			slog.String("group", batch.Group),
			slog.Int("records", report.Artifact.Records),
			slog.String("elapsed", util.FormatElapsed(report.Elapsed)),
			slog.String("progress", fmt.Sprintf("%d/%d", i+1, len(batches))),
		)
	}

	finishedAt := s.now()
	if err := s.artifacts.WriteManifest(ctx, s.buildManifest(runID, dataset, summary, startedAt, finishedAt)); err != nil {
		return nil, domainerrors.NewStageError(domainerrors.StageOutput, "", err)
	}

	summary.Elapsed = finishedAt.Sub(startedAt)
	logger.Info("Run completed",
		slog.Int("groups", len(summary.Groups)),
		slog.Int("records", summary.Records),
		slog.String("elapsed", util.FormatElapsed(summary.Elapsed)),
	)

	return summary, nil
}

// checkBatches fails the run before any derivation when a record has no
// identifier or two groups would be written to the same objects.
func (s *pipelineService) checkBatches(batches []entity.Batch) error {
	keys := make(map[string]string, len(batches))

	for _, batch := range batches {
		if err := batch.Validate(); err != nil {
			return domainerrors.NewStageError(domainerrors.StageConfig, batch.Group, err)
		}

		key := s.artifacts.GroupCSVKey(batch.Group)
		if other, ok := keys[key]; ok {
			return domainerrors.NewStageError(domainerrors.StageConfig, batch.Group,
				errors.Wrapf(domainerrors.ErrGroupKeyCollision, "%q and %q both write %s", other, batch.Group, key))
		}
		keys[key] = batch.Group
	}

	return nil
}

// hashingStage classifies an engine error.
func hashingStage(err error) domainerrors.Stage {
	if errors.Is(err, domainerrors.ErrInvalidConfig) {
		return domainerrors.StageConfig
	}

	return domainerrors.StageDerivation
}

// processGroup hashes, persists and announces one batch
func (s *pipelineService) processGroup(ctx context.Context, runID string, batch entity.Batch) (*usecase.GroupReport, error) {
	groupStart := s.now()

	results, err := s.engine.HashBatch(ctx, batch)
	if err != nil {
		return nil, domainerrors.NewStageError(hashingStage(err), batch.Group, err)
	}

	artifact, err := s.artifacts.WriteGroup(ctx, batch.Group, results.Snapshot())
	if err != nil {
		return nil, domainerrors.NewStageError(domainerrors.StageOutput, batch.Group, err)
	}

	elapsed := s.now().Sub(groupStart)
	s.publish(ctx, runID, artifact, elapsed)

	return &usecase.GroupReport{Artifact: *artifact, Elapsed: elapsed}, nil
}

// publish never fails the run; the artifact is already durable
func (s *pipelineService) publish(ctx context.Context, runID string, artifact *entity.GroupArtifact, elapsed time.Duration) {
	files := make(map[string]string, len(artifact.Files))
	for _, f := range artifact.Files {
		files[f.Key] = f.SHA256
	}

	event := &service.GroupCompletedEvent{
		RunID:      runID,
		Group:      artifact.Group,
		Records:    artifact.Records,
		Files:      files,
		Elapsed:    elapsed,
		FinishedAt: s.now().UTC(),
	}

	if err := s.publisher.PublishGroupCompleted(ctx, event); err != nil {
		s.logger.Warn("Failed to publish group completed event",
			slog.String("group", artifact.Group),
			slog.Any("error", err),
		)
	}
}

func (s *pipelineService) buildManifest(
	runID string,
	dataset *entity.Dataset,
	summary *usecase.RunSummary,
	startedAt, finishedAt time.Time,
) *entity.Manifest {
	groups := make([]entity.GroupArtifact, 0, len(summary.Groups))
	for _, g := range summary.Groups {
		groups = append(groups, g.Artifact)
	}

	return &entity.Manifest{
		RunID:       runID,
		Source:      dataset.Source,
		Encoding:    dataset.Encoding,
		DroppedRows: dataset.Dropped,
		StartedAt:   startedAt.UTC(),
		FinishedAt:  finishedAt.UTC(),
		KDF: entity.KDFParameters{
			Algorithm:        s.deriver.Algorithm(),
			Iterations:       s.deriver.Iterations(),
			OutputLength:     s.deriver.OutputLength(),
			SaltLength:       s.salts.Length(),
			SaltScheme:       s.salts.Scheme(),
			PasswordEncoding: entity.PasswordEncoding,
		},
		Groups: groups,
	}
}
