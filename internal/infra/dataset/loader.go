package dataset

import (
	"context"
	"log/slog"
	"os"

	"munhash/config"
	"munhash/internal/domain/entity"
	"munhash/internal/domain/service"
	"munhash/internal/errors"

	"go.uber.org/fx"
)

// datasetLoader implements service.DatasetLoader on top of Fetcher, Decode and Parse.
type datasetLoader struct {
	fetcher *Fetcher
	logger  *slog.Logger
}

// LoaderParams holds dependencies for the dataset loader, injected by Fx
type LoaderParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// NewDatasetLoader builds the loader from the source configuration.
func NewDatasetLoader(params LoaderParams) service.DatasetLoader {
	cfg := params.Config.Source

	var opts []FetcherOption
	if cfg.ShowProgress {
		opts = append(opts, WithProgress(os.Stderr))
	}

	return NewLoader(NewFetcher(cfg.URL, cfg.Timeout, params.Logger, opts...), params.Logger)
}

// NewLoader wraps an existing fetcher.
func NewLoader(fetcher *Fetcher, logger *slog.Logger) service.DatasetLoader {
	return &datasetLoader{fetcher: fetcher, logger: logger}
}

// Load fetches, decodes and parses the table.
func (l *datasetLoader) Load(ctx context.Context) (*entity.Dataset, error) {
	l.logger.Info("Downloading dataset", slog.String("source", l.fetcher.Source()))

	raw, err := l.fetcher.Fetch(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "fetch dataset")
	}

	text, encoding, err := Decode(raw)
	if err != nil {
		return nil, err
	}

	l.logger.Info("Parsing dataset", slog.String("encoding", encoding))
	parsed := Parse(text)

	if parsed.Dropped > 0 {
		l.logger.Warn("Dropped malformed rows", slog.Int("dropped", parsed.Dropped))
	}

	return &entity.Dataset{
		Source:   l.fetcher.Source(),
		Encoding: encoding,
		Bytes:    int64(len(raw)),
		Records:  parsed.Records,
		Dropped:  parsed.Dropped,
	}, nil
}
