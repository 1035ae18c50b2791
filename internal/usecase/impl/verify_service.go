package impl

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"munhash/internal/domain/entity"
	domainerrors "munhash/internal/domain/errors"
	"munhash/internal/domain/repository"
	"munhash/internal/errors"
	"munhash/internal/usecase"

	"go.uber.org/fx"
)

// verifyService implements the VerifyUsecase interface
type verifyService struct {
	engine    usecase.HashingUsecase
	artifacts repository.ArtifactRepository
	logger    *slog.Logger
}

// VerifyServiceParams holds dependencies for the verifier, injected by Fx
type VerifyServiceParams struct {
	fx.In

	Engine    usecase.HashingUsecase
	Artifacts repository.ArtifactRepository
	Logger    *slog.Logger
}

// NewVerifyService creates the verifier
func NewVerifyService(params VerifyServiceParams) usecase.VerifyUsecase {
	return &verifyService{
		engine:    params.Engine,
		artifacts: params.Artifacts,
		logger:    params.Logger,
	}
}

// Verify re-derives every digest of a CSV artifact through the engine and
// compares it with the stored one.
func (s *verifyService) Verify(ctx context.Context, key, group string) (*usecase.VerifyReport, error) {
	if key == "" {
		if group == "" {
			return nil, domainerrors.NewStageError(domainerrors.StageConfig, "",
				errors.Wrap(domainerrors.ErrInvalidConfig, "either an artifact key or a group is required"))
		}
		key = s.artifacts.GroupCSVKey(group)
	}

	startTime := time.Now()

	stored, err := s.artifacts.ReadGroupCSV(ctx, key)
	if err != nil {
		return nil, domainerrors.NewStageError(domainerrors.StageVerify, group, err)
	}

	records := make([]entity.Record, len(stored))
	for i, result := range stored {
		records[i] = result.Record
	}

	batchGroup := group
	if batchGroup == "" && len(records) > 0 {
		batchGroup = records[0].Group
	}

	derived, err := s.engine.HashBatch(ctx, entity.Batch{Group: batchGroup, Records: records})
	if err != nil {
		return nil, domainerrors.NewStageError(hashingStage(err), batchGroup, err)
	}

	// Identical records derive identical digests, so every stored row is
	// checked, duplicates included.
	derivedDigests := make(map[entity.Record]string, derived.Len())
	for _, result := range derived.Snapshot() {
		derivedDigests[result.Record] = result.DigestHex
	}

	report := &usecase.VerifyReport{Key: key, Records: len(stored)}
	for _, result := range stored {
		if got := derivedDigests[result.Record]; got != result.DigestHex {
			report.Mismatches = append(report.Mismatches, usecase.Mismatch{
				RecordID: result.ID,
				Stored:   result.DigestHex,
				Derived:  got,
			})
		}
	}

	slices.SortStableFunc(report.Mismatches, func(a, b usecase.Mismatch) int {
		return strings.Compare(a.RecordID, b.RecordID)
	})
	report.Elapsed = time.Since(startTime)

	s.logger.Info("Artifact verified",
		slog.String("key", key),
		slog.Int("records", report.Records),
		slog.Int("mismatches", len(report.Mismatches)),
	)

	return report, nil
}
