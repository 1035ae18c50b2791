package usecase

import (
	"context"
	"time"

	"munhash/internal/domain/entity"
)

// GroupReport is the outcome of one processed group.
type GroupReport struct {
	Artifact entity.GroupArtifact
	Elapsed  time.Duration
}

// RunSummary is returned after every group has been written.
type RunSummary struct {
	RunID       string
	Groups      []GroupReport
	Records     int
	DroppedRows int
	Elapsed     time.Duration
}

// PipelineUsecase drives a full run: load, partition, hash group by group,
// persist and announce.
type PipelineUsecase interface {
	Run(ctx context.Context) (*RunSummary, error)
}

// Mismatch is one record whose stored digest differs from the re-derived one.
type Mismatch struct {
	RecordID string
	Stored   string
	Derived  string
}

// VerifyReport is the outcome of re-deriving a written artifact.
type VerifyReport struct {
	Key        string
	Records    int
	Mismatches []Mismatch
	Elapsed    time.Duration
}

// OK reports whether every digest matched.
func (r *VerifyReport) OK() bool {
	return len(r.Mismatches) == 0
}

// VerifyUsecase re-derives digests of a written artifact.
type VerifyUsecase interface {
	// Verify checks the CSV stored under key, or the CSV of group when key is empty.
	Verify(ctx context.Context, key, group string) (*VerifyReport, error)
}
