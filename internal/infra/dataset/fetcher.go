// Package dataset acquires the municipality table and turns it into records.
package dataset

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"munhash/internal/errors"

	"github.com/schollz/progressbar/v3"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob" // gs:// sources
	_ "gocloud.dev/blob/memblob" // mem:// sources
)

// Fetcher downloads raw bytes from an HTTP(S) URL, a gocloud blob URL or a
// local path.
type Fetcher struct {
	source       string
	timeout      time.Duration
	showProgress bool
	progressOut  io.Writer
	httpClient   *http.Client
	logger       *slog.Logger
}

// FetcherOption customises a Fetcher.
type FetcherOption func(*Fetcher)

// WithProgress renders a byte progress bar on w during HTTP downloads.
func WithProgress(w io.Writer) FetcherOption {
	return func(f *Fetcher) {
		f.showProgress = true
		f.progressOut = w
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.httpClient = client
	}
}

// NewFetcher creates a fetcher for source. A zero timeout disables the limit.
func NewFetcher(source string, timeout time.Duration, logger *slog.Logger, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		source:     source,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Source returns the configured location.
func (f *Fetcher) Source() string {
	return f.source
}

// Fetch reads the whole source into memory.
func (f *Fetcher) Fetch(ctx context.Context) ([]byte, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	startTime := time.Now()

	parsed, err := url.Parse(f.source)
	if err != nil {
		return nil, errors.Wrapf(err, "parse source %q", f.source)
	}

	var data []byte
	switch {
	case parsed.Scheme == "http" || parsed.Scheme == "https":
		data, err = f.fetchHTTP(ctx)
	case parsed.Scheme == "" || len(parsed.Scheme) == 1: // bare path, possibly with a drive letter
		data, err = f.fetchFile(ctx, f.source)
	default:
		data, err = f.fetchBlob(ctx, parsed)
	}
	if err != nil {
		return nil, err
	}

	f.logger.Info("Dataset fetched",
		slog.String("source", f.source),
		slog.Int("bytes", len(data)),
		slog.Duration("elapsed", time.Since(startTime)),
	)

	return data, nil
}

func (f *Fetcher) fetchHTTP(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.source, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to make request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, errors.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var buf bytes.Buffer
	if resp.ContentLength > 0 {
		buf.Grow(int(resp.ContentLength))
	}

	var sink io.Writer = &buf
	if f.showProgress {
		bar := progressbar.NewOptions64(resp.ContentLength,
			progressbar.OptionSetWriter(f.progressOut),
			progressbar.OptionSetDescription("downloading"),
			progressbar.OptionShowBytes(true),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Finish()
		sink = io.MultiWriter(&buf, bar)
	}

	if _, err := io.Copy(sink, resp.Body); err != nil {
		return nil, errors.Wrap(err, "failed to download dataset")
	}

	return buf.Bytes(), nil
}

func (f *Fetcher) fetchFile(ctx context.Context, filePath string) ([]byte, error) {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "resolve source path")
	}

	bucket, err := fileblob.OpenBucket(filepath.Dir(abs), nil)
	if err != nil {
		return nil, errors.Wrapf(err, "open directory %s", filepath.Dir(abs))
	}
	defer bucket.Close()

	data, err := bucket.ReadAll(ctx, filepath.Base(abs))
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", abs)
	}

	return data, nil
}

// fetchBlob opens the bucket that holds the object and reads it. For file://
// URLs the bucket is the containing directory; for other schemes it is the
// host and the path is the key.
func (f *Fetcher) fetchBlob(ctx context.Context, parsed *url.URL) ([]byte, error) {
	if parsed.Scheme == "file" {
		return f.fetchFile(ctx, parsed.Path)
	}

	key := strings.TrimPrefix(parsed.Path, "/")
	if key == "" || strings.HasSuffix(key, "/") {
		return nil, errors.Errorf("source %q does not name an object", f.source)
	}

	bucketURL := *parsed
	bucketURL.Path = ""
	bucket, err := blob.OpenBucket(ctx, bucketURL.String())
	if err != nil {
		return nil, errors.Wrapf(err, "open bucket %s", bucketURL.String())
	}
	defer bucket.Close()

	data, err := bucket.ReadAll(ctx, path.Clean(key))
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", key)
	}

	return data, nil
}
