package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"munhash/config"
	domainerrors "munhash/internal/domain/errors"

	"github.com/pkg/errors"
)

// Supported subcommands:
// - run:    Download, hash every group and write the artifacts
// - verify: Re-derive the digests of a written group CSV

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stdout)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := execute(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}
}

// execute dispatches args[0] to its subcommand.
func execute(ctx context.Context, args []string, stdout, logOutput io.Writer) error {
	if len(args) == 0 {
		printUsage(stdout)

		return errors.New("missing subcommand")
	}

	switch args[0] {
	case "run":
		return handleRun(ctx, args[1:], stdout, logOutput)
	case "verify":
		return handleVerify(ctx, args[1:], stdout, logOutput)
	case "help", "-h", "--help":
		printUsage(stdout)

		return nil
	default:
		printUsage(stdout)

		return errors.Errorf("unknown subcommand %q", args[0])
	}
}

// commonFlags are shared by every subcommand and override file/env values.
type commonFlags struct {
	configPath   *string
	iterations   *int
	outputLength *int
	saltLength   *int
	workers      *int
	outDir       *string
	bucketURL    *string
	prefix       *string
	logLevel     *string
}

func registerCommonFlags(cmd *flag.FlagSet) *commonFlags {
	return &commonFlags{
		configPath:   cmd.String("config", "", "Path to a YAML config file (default: ./config.yaml or ./config/config.yaml when present)"),
		iterations:   cmd.Int("iterations", config.DefaultIterations, "PBKDF2 iteration count"),
		outputLength: cmd.Int("length", config.DefaultOutputLength, "Digest length in bytes"),
		saltLength:   cmd.Int("salt-length", config.DefaultSaltLength, "Salt length in bytes"),
		workers:      cmd.Int("workers", 0, "Concurrent workers per group (0 = number of CPUs)"),
		outDir:       cmd.String("out", config.DefaultOutputDir, "Output directory"),
		bucketURL:    cmd.String("bucket", "", "Output bucket URL (file:///, gs://, mem://); overrides -out"),
		prefix:       cmd.String("prefix", config.DefaultOutputPrefix, "Artifact file name prefix"),
		logLevel:     cmd.String("log-level", "info", "Log level (debug, info, warn, error)"),
	}
}

// loadConfig reads file and environment, then applies the flags the user set.
func loadConfig(cmd *flag.FlagSet, flags *commonFlags, extra func(cfg *config.Config, name string)) (*config.Config, error) {
	cfg, err := config.New(*flags.configPath)
	if err != nil {
		return nil, domainerrors.NewStageError(domainerrors.StageConfig, "", err)
	}

	cmd.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "iterations":
			cfg.Hashing.Iterations = *flags.iterations
		case "length":
			cfg.Hashing.OutputLength = *flags.outputLength
		case "salt-length":
			cfg.Hashing.SaltLength = *flags.saltLength
		case "workers":
			cfg.Hashing.Workers = *flags.workers
		case "out":
			cfg.Output.Dir = *flags.outDir
			cfg.Output.BucketURL = ""
		case "bucket":
			cfg.Output.BucketURL = *flags.bucketURL
		case "prefix":
			cfg.Output.Prefix = *flags.prefix
		case "log-level":
			cfg.Env.Log.Level = *flags.logLevel
		default:
			if extra != nil {
				extra(cfg, f.Name)
			}
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, domainerrors.NewStageError(domainerrors.StageConfig, "", err)
	}

	return cfg, nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: munhash <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run       Download the municipality table and write one hashed CSV/JSON pair per UF")
	fmt.Fprintln(w, "  verify    Re-derive and compare the digests of a written CSV")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Use 'munhash <command> -h' for more information about a command.")
}
