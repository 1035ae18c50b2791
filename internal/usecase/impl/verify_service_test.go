package impl

import (
	"context"
	"strings"
	"testing"

	"munhash/internal/domain/entity"
	domainerrors "munhash/internal/domain/errors"
	"munhash/internal/domain/repository"
	"munhash/internal/infra/output"
	"munhash/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob"
	"gocloud.dev/blob/memblob"
)

// verifyFixtures holds a verifier wired to an in-memory bucket.
type verifyFixtures struct {
	service   usecase.VerifyUsecase
	engine    usecase.HashingUsecase
	artifacts repository.ArtifactRepository
	bucket    *blob.Bucket
}

func createTestVerifier(t *testing.T) verifyFixtures {
	t.Helper()

	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = bucket.Close() })

	artifacts := output.NewBucketSink(bucket, "municipios_hash", "", discardLogger())
	engine := newTestEngine(t, 20, 16, 2)

	return verifyFixtures{
		service:   NewVerifyService(VerifyServiceParams{Engine: engine, Artifacts: artifacts, Logger: discardLogger()}),
		engine:    engine,
		artifacts: artifacts,
		bucket:    bucket,
	}
}

func writeGroup(t *testing.T, fx verifyFixtures, batch entity.Batch) {
	t.Helper()

	results, err := fx.engine.HashBatch(context.Background(), batch)
	require.NoError(t, err)
	_, err = fx.artifacts.WriteGroup(context.Background(), batch.Group, results.Snapshot())
	require.NoError(t, err)
}

func TestVerifyService_Untouched(t *testing.T) {
	fx := createTestVerifier(t)
	writeGroup(t, fx, roBatch())

	report, err := fx.service.Verify(context.Background(), "", "RO")
	require.NoError(t, err)

	assert.True(t, report.OK())
	assert.Equal(t, "municipios_hash_RO.csv", report.Key)
	assert.Equal(t, 3, report.Records)
}

func TestVerifyService_DetectsTampering(t *testing.T) {
	fx := createTestVerifier(t)
	writeGroup(t, fx, roBatch())
	ctx := context.Background()

	data, err := fx.bucket.ReadAll(ctx, "municipios_hash_RO.csv")
	require.NoError(t, err)

	// rename one municipality but keep its stored digest
	tampered := strings.Replace(string(data), ";ARIQUEMES;", ";ARIQUEMES DO SUL;", 1)
	require.NotEqual(t, string(data), tampered)
	require.NoError(t, fx.bucket.WriteAll(ctx, "municipios_hash_RO.csv", []byte(tampered), nil))

	report, err := fx.service.Verify(ctx, "municipios_hash_RO.csv", "")
	require.NoError(t, err)

	assert.False(t, report.OK())
	require.Len(t, report.Mismatches, 1)
	assert.Equal(t, "1100023", report.Mismatches[0].RecordID)
	assert.NotEqual(t, report.Mismatches[0].Stored, report.Mismatches[0].Derived)
}

func TestVerifyService_MissingArtifact(t *testing.T) {
	fx := createTestVerifier(t)

	_, err := fx.service.Verify(context.Background(), "", "AC")
	require.Error(t, err)

	var stageErr *domainerrors.StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, domainerrors.StageVerify, stageErr.Stage)
	assert.Equal(t, "AC", stageErr.Group)
}

func TestVerifyService_RequiresKeyOrGroup(t *testing.T) {
	fx := createTestVerifier(t)

	_, err := fx.service.Verify(context.Background(), "", "")
	require.Error(t, err)

	stage, ok := domainerrors.StageOf(err)
	require.True(t, ok)
	assert.Equal(t, domainerrors.StageConfig, stage)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidConfig))
}

func TestVerifyService_DuplicateRowsCheckedIndividually(t *testing.T) {
	fx := createTestVerifier(t)
	ctx := context.Background()

	record := roBatch().Records[0]
	batch := entity.Batch{Group: "RO", Records: []entity.Record{record, record}}

	results, err := fx.engine.HashBatch(ctx, batch)
	require.NoError(t, err)
	digest := results.Snapshot()[0].DigestHex
	_, err = fx.artifacts.WriteGroup(ctx, batch.Group, results.Snapshot())
	require.NoError(t, err)

	data, err := fx.bucket.ReadAll(ctx, "municipios_hash_RO.csv")
	require.NoError(t, err)
	require.Equal(t, 2, strings.Count(string(data), digest))

	// only the first copy is altered, the second still matches
	forged := strings.Repeat("0", len(digest))
	tampered := strings.Replace(string(data), digest, forged, 1)
	require.NoError(t, fx.bucket.WriteAll(ctx, "municipios_hash_RO.csv", []byte(tampered), nil))

	report, err := fx.service.Verify(ctx, "", "RO")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Records)
	require.Len(t, report.Mismatches, 1)
	assert.Equal(t, record.ID, report.Mismatches[0].RecordID)
	assert.Equal(t, forged, report.Mismatches[0].Stored)
	assert.Equal(t, digest, report.Mismatches[0].Derived)
}

func TestVerifyService_EmptyIdentifierIsConfigError(t *testing.T) {
	fx := createTestVerifier(t)
	ctx := context.Background()

	header := "TOM;IBGE;Nome(TOM);Nome(IBGE);UF;HASH_HEX\n"
	row := "0001;;SEM IBGE;Sem Ibge;RO;00\n"
	require.NoError(t, fx.bucket.WriteAll(ctx, "municipios_hash_RO.csv", []byte(header+row), nil))

	_, err := fx.service.Verify(ctx, "", "RO")
	require.Error(t, err)

	stage, ok := domainerrors.StageOf(err)
	require.True(t, ok)
	assert.Equal(t, domainerrors.StageConfig, stage)
	assert.True(t, errors.Is(err, domainerrors.ErrEmptyIdentifier))
}
