package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	domainerrors "munhash/internal/domain/errors"
	"munhash/internal/usecase"
	"munhash/internal/util"

	"github.com/pkg/errors"
)

func handleVerify(ctx context.Context, args []string, stdout, logOutput io.Writer) error {
	cmd := flag.NewFlagSet("verify", flag.ContinueOnError)
	flags := registerCommonFlags(cmd)
	key := cmd.String("key", "", "Object key of the CSV to verify")
	group := cmd.String("group", "", "Group (UF) whose CSV should be verified when -key is not set")

	if err := cmd.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}

		return errors.Wrap(err, "failed to parse verify flags")
	}

	cfg, err := loadConfig(cmd, flags, nil)
	if err != nil {
		return err
	}

	var verifier usecase.VerifyUsecase
	app, err := startApp(ctx, cfg, logOutput, &verifier)
	if err != nil {
		return err
	}

	report, verifyErr := verifier.Verify(ctx, *key, *group)
	if err := stopApp(app); err != nil && verifyErr == nil {
		verifyErr = errors.Wrap(err, "shutdown")
	}
	if verifyErr != nil {
		return verifyErr
	}

	if !report.OK() {
		for _, m := range report.Mismatches {
			fmt.Fprintf(stdout, "MISMATCH %s stored=%s derived=%s\n", m.RecordID, m.Stored, m.Derived)
		}

		return domainerrors.NewStageError(domainerrors.StageVerify, *group,
			errors.Wrapf(domainerrors.ErrDigestMismatch, "%d of %d records in %s", len(report.Mismatches), report.Records, report.Key))
	}

	fmt.Fprintf(stdout, "OK: %s, %d records in %s\n", report.Key, report.Records, util.FormatElapsed(report.Elapsed))

	return nil
}
