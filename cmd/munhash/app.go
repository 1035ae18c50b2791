package main

import (
	"context"
	"io"

	"munhash/config"
	domainerrors "munhash/internal/domain/errors"
	"munhash/internal/domain/service"
	"munhash/internal/infra/dataset"
	"munhash/internal/infra/kdf"
	logs "munhash/internal/infra/log"
	"munhash/internal/infra/output"
	"munhash/internal/infra/pubsub"
	"munhash/internal/usecase/impl"

	"go.uber.org/fx"
)

// startApp builds the dependency graph, fills targets and starts the
// lifecycle. The caller must stop the returned app.
func startApp(ctx context.Context, cfg *config.Config, logOutput io.Writer, targets ...any) (*fx.App, error) {
	app := fx.New(
		fx.NopLogger,
		fx.Supply(cfg),
		fx.Provide(
			func() context.Context { return ctx },
			fx.Annotate(
				func() io.Writer { return logOutput },
				fx.ResultTags(`name:"logOutput"`),
			),
			hashingConfig,
		),
		injectInfra(),
		injectUsecase(),
		fx.Populate(targets...),
	)
	if err := app.Err(); err != nil {
		return nil, domainerrors.NewStageError(domainerrors.StageConfig, "", err)
	}

	if err := app.Start(ctx); err != nil {
		return nil, domainerrors.NewStageError(domainerrors.StageConfig, "", err)
	}

	return app, nil
}

func injectInfra() fx.Option {
	return fx.Provide(
		logs.New,
		newSaltBuilder,
		newKeyDeriver,
		dataset.NewDatasetLoader,
		output.ProvideBucket,
		output.NewSink,
		pubsub.NewEventPublisher,
	)
}

func injectUsecase() fx.Option {
	return fx.Provide(
		impl.NewHashingService,
		impl.NewPipelineService,
		impl.NewVerifyService,
	)
}

func hashingConfig(cfg *config.Config) *config.HashingConfig {
	return &cfg.Hashing
}

func newSaltBuilder(cfg *config.HashingConfig) (service.SaltBuilder, error) {
	return kdf.NewSaltBuilder(cfg.SaltLength)
}

func newKeyDeriver(cfg *config.HashingConfig) (service.KeyDeriver, error) {
	return kdf.NewPBKDF2Deriver(cfg.Iterations, cfg.OutputLength)
}

// stopApp runs OnStop hooks on a fresh context so shutdown survives a canceled run.
func stopApp(app *fx.App) error {
	ctx, cancel := context.WithTimeout(context.Background(), fx.DefaultTimeout)
	defer cancel()

	return app.Stop(ctx)
}
