package output

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"log/slog"
	"slices"
	"strings"

	"munhash/config"
	"munhash/internal/domain/entity"
	"munhash/internal/domain/repository"
	"munhash/internal/errors"
	"munhash/internal/util"

	"go.uber.org/fx"
	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"
)

const (
	csvDelimiter = ';'
	csvExt       = ".csv"
	jsonExt      = ".json"

	csvContentType  = "text/csv; charset=utf-8"
	jsonContentType = "application/json"

	// ManifestVersion is bumped when the manifest layout changes.
	ManifestVersion = "1"
)

// csvHeader is the column order of the source table plus the digest.
var csvHeader = []string{"TOM", "IBGE", "Nome(TOM)", "Nome(IBGE)", "UF", "HASH_HEX"}

// sink implements repository.ArtifactRepository on a blob bucket.
type sink struct {
	bucket   *blob.Bucket
	prefix   string
	manifest string
	logger   *slog.Logger
}

// SinkParams holds dependencies for the artifact sink, injected by Fx
type SinkParams struct {
	fx.In

	Bucket *blob.Bucket
	Config *config.Config
	Logger *slog.Logger
}

// NewSink builds the artifact repository from configuration.
func NewSink(params SinkParams) repository.ArtifactRepository {
	return NewBucketSink(params.Bucket, params.Config.Output.Prefix, params.Config.Output.Manifest, params.Logger)
}

// NewBucketSink writes <prefix>_<GROUP>.csv/.json objects into bucket. An
// empty manifest name disables the manifest.
func NewBucketSink(bucket *blob.Bucket, prefix, manifest string, logger *slog.Logger) repository.ArtifactRepository {
	return &sink{
		bucket:   bucket,
		prefix:   prefix,
		manifest: manifest,
		logger:   logger,
	}
}

func (s *sink) GroupCSVKey(group string) string {
	return s.groupKey(group) + csvExt
}

func (s *sink) groupKey(group string) string {
	return s.prefix + "_" + SanitizeGroup(group)
}

// SanitizeGroup replaces every byte outside [A-Za-z0-9-] with '_'.
func SanitizeGroup(group string) string {
	var b strings.Builder
	b.Grow(len(group))

	for i := 0; i < len(group); i++ {
		c := group[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-':
			b.WriteByte(c)
		default:
			b.WriteByte('_')
		}
	}

	return b.String()
}

// WriteGroup stores the group's results as CSV then JSON, both sorted by ID.
func (s *sink) WriteGroup(ctx context.Context, group string, results []entity.HashResult) (*entity.GroupArtifact, error) {
	sorted := slices.Clone(results)
	slices.SortFunc(sorted, func(a, b entity.HashResult) int {
		return strings.Compare(a.ID, b.ID)
	})

	csvData, err := encodeCSV(sorted)
	if err != nil {
		return nil, err
	}

	jsonData, err := encodeJSON(sorted)
	if err != nil {
		return nil, err
	}

	base := s.groupKey(group)
	objects := []struct {
		key         string
		data        []byte
		contentType string
	}{
		{key: base + csvExt, data: csvData, contentType: csvContentType},
		{key: base + jsonExt, data: jsonData, contentType: jsonContentType},
	}

	artifact := &entity.GroupArtifact{
		Group:   group,
		Records: len(sorted),
		Files:   make([]entity.ArtifactFile, 0, len(objects)),
	}

	for _, obj := range objects {
		if err := s.put(ctx, obj.key, obj.data, obj.contentType); err != nil {
			s.cleanup(base+csvExt, base+jsonExt)

			return nil, err
		}

		artifact.Files = append(artifact.Files, entity.ArtifactFile{
			Key:       obj.key,
			SizeBytes: int64(len(obj.data)),
			SHA256:    util.ChecksumBytes(obj.data),
		})
	}

	s.logger.Debug("Group artifacts written",
		slog.String("group", group),
		slog.String("csv", base+csvExt),
		slog.String("size", util.FormatBytes(int64(len(csvData)+len(jsonData)))),
	)

	return artifact, nil
}

// ReadGroupCSV parses a CSV artifact back into results.
func (s *sink) ReadGroupCSV(ctx context.Context, key string) ([]entity.HashResult, error) {
	reader, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", key)
	}
	defer reader.Close()

	return decodeCSV(reader)
}

// WriteManifest stores the manifest as indented JSON.
func (s *sink) WriteManifest(ctx context.Context, manifest *entity.Manifest) error {
	if s.manifest == "" {
		return nil
	}

	if manifest.Version == "" {
		manifest.Version = ManifestVersion
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal manifest")
	}

	return s.put(ctx, s.manifest, append(data, '\n'), jsonContentType)
}

func (s *sink) put(ctx context.Context, key string, data []byte, contentType string) error {
	if err := s.bucket.WriteAll(ctx, key, data, &blob.WriterOptions{ContentType: contentType}); err != nil {
		return errors.Wrapf(err, "write %s", key)
	}

	return nil
}

// cleanup removes partially written objects. It runs on a fresh context so a
// canceled run still cleans up.
func (s *sink) cleanup(keys ...string) {
	ctx := context.Background()
	for _, key := range keys {
		if err := s.bucket.Delete(ctx, key); err != nil && gcerrors.Code(err) != gcerrors.NotFound {
			s.logger.Warn("Failed to remove partial artifact",
				slog.String("key", key),
				slog.Any("error", err),
			)
		}
	}
}

func encodeCSV(results []entity.HashResult) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = csvDelimiter

	if err := w.Write(csvHeader); err != nil {
		return nil, errors.Wrap(err, "write csv header")
	}
	for _, r := range results {
		if err := w.Write([]string{r.Code, r.ID, r.Name, r.AltName, r.Group, r.DigestHex}); err != nil {
			return nil, errors.Wrapf(err, "write csv row %s", r.ID)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Wrap(err, "flush csv")
	}

	return buf.Bytes(), nil
}

func decodeCSV(r io.Reader) ([]entity.HashResult, error) {
	reader := csv.NewReader(r)
	reader.Comma = csvDelimiter
	reader.FieldsPerRecord = len(csvHeader)

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "read csv header")
	}
	if !slices.Equal(header, csvHeader) {
		return nil, errors.Errorf("unexpected csv header %q", strings.Join(header, string(csvDelimiter)))
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "read csv rows")
	}

	results := make([]entity.HashResult, 0, len(rows))
	for _, row := range rows {
		record := entity.Record{Code: row[0], ID: row[1], Name: row[2], AltName: row[3], Group: row[4]}
		results = append(results, entity.NewHashResult(record, row[5]))
	}

	return results, nil
}

func encodeJSON(results []entity.HashResult) ([]byte, error) {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshal json")
	}

	return append(data, '\n'), nil
}
