package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"munhash/config"
	"munhash/internal/usecase"
	"munhash/internal/util"

	"github.com/pkg/errors"
)

func handleRun(ctx context.Context, args []string, stdout, logOutput io.Writer) error {
	cmd := flag.NewFlagSet("run", flag.ContinueOnError)
	flags := registerCommonFlags(cmd)
	source := cmd.String("source", config.DefaultSourceURL, "Dataset URL or path")
	progress := cmd.Bool("progress", false, "Show a download progress bar")

	if err := cmd.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}

		return errors.Wrap(err, "failed to parse run flags")
	}

	cfg, err := loadConfig(cmd, flags, func(cfg *config.Config, name string) {
		switch name {
		case "source":
			cfg.Source.URL = *source
		case "progress":
			cfg.Source.ShowProgress = *progress
		}
	})
	if err != nil {
		return err
	}

	var pipeline usecase.PipelineUsecase
	app, err := startApp(ctx, cfg, logOutput, &pipeline)
	if err != nil {
		return err
	}

	summary, runErr := pipeline.Run(ctx)
	if err := stopApp(app); err != nil && runErr == nil {
		runErr = errors.Wrap(err, "shutdown")
	}
	if runErr != nil {
		return runErr
	}

	printSummary(stdout, cfg, summary)

	return nil
}

func printSummary(w io.Writer, cfg *config.Config, summary *usecase.RunSummary) {
	for _, group := range summary.Groups {
		fmt.Fprintf(w, "%s: %d records in %s\n", group.Artifact.Group, group.Artifact.Records, util.FormatElapsed(group.Elapsed))
	}

	destination := cfg.Output.BucketURL
	if destination == "" {
		destination = cfg.Output.Dir
	}

	fmt.Fprintf(w, "Done: %d records in %d groups (%d rows dropped), total %s\n",
		summary.Records, len(summary.Groups), summary.DroppedRows, util.FormatElapsed(summary.Elapsed))
	fmt.Fprintf(w, "Output: %s (run %s)\n", destination, summary.RunID)
}
