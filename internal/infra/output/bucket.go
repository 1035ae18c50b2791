// Package output persists hash results and the run manifest in a gocloud bucket.
package output

import (
	"context"
	"log/slog"
	"path/filepath"

	"munhash/config"
	"munhash/internal/errors"

	"go.uber.org/fx"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob" // gs:// buckets
	_ "gocloud.dev/blob/memblob" // mem:// buckets
)

// OpenBucket opens cfg.BucketURL when set, otherwise a file bucket rooted at
// cfg.Dir which is created if missing.
func OpenBucket(ctx context.Context, cfg config.OutputConfig) (*blob.Bucket, error) {
	if cfg.BucketURL != "" {
		bucket, err := blob.OpenBucket(ctx, cfg.BucketURL)
		if err != nil {
			return nil, errors.Wrapf(err, "open bucket %s", cfg.BucketURL)
		}

		return bucket, nil
	}

	dir, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, errors.Wrap(err, "resolve output directory")
	}

	bucket, err := fileblob.OpenBucket(dir, &fileblob.Options{CreateDir: true})
	if err != nil {
		return nil, errors.Wrapf(err, "open output directory %s", dir)
	}

	return bucket, nil
}

// BucketParams holds dependencies for the output bucket, injected by Fx
type BucketParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

// ProvideBucket opens the output bucket and closes it when the app stops.
func ProvideBucket(params BucketParams) (*blob.Bucket, error) {
	bucket, err := OpenBucket(context.Background(), params.Config.Output)
	if err != nil {
		return nil, err
	}

	params.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			params.Logger.Debug("Closing output bucket")

			return bucket.Close()
		},
	})

	return bucket, nil
}
