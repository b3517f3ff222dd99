package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/qrdrive-io/qrdrive/cli/config"
	"github.com/qrdrive-io/qrdrive/notify"
	"github.com/qrdrive-io/qrdrive/qrc"
	"github.com/qrdrive-io/qrdrive/session"
	"github.com/qrdrive-io/qrdrive/store"
)

// defaultConfigFile is picked up from the working directory when
// --config is not given.
const defaultConfigFile = "qrdrive.yaml"

// loadConfig resolves the defaults file: --config when given, the
// working-directory qrdrive.yaml when present, empty defaults
// otherwise. A missing --config path is an error; a missing implicit
// file is not.
func loadConfig(c *cli.Context) (*config.Config, error) {
	path := c.String("config")
	if path != "" {
		return config.Load(path)
	}
	if _, err := os.Stat(defaultConfigFile); err != nil {
		return &config.Config{}, nil
	}
	return config.Load(defaultConfigFile)
}

// pick returns the flag value when set, falling back to the config
// default. CLI flags always override config values.
func pick(flag, fallback string) string {
	if flag != "" {
		return flag
	}
	return fallback
}

func pickInt(flag, fallback int) int {
	if flag != 0 {
		return flag
	}
	return fallback
}

// buildStore constructs the frame store selected by flags and config.
func buildStore(ctx context.Context, c *cli.Context, cfg *config.Config) (store.Store, error) {
	backend := pick(c.String("backend"), cfg.Storage.Backend)
	path := pick(c.String("path"), cfg.Storage.Path)

	switch backend {
	case "fs", "":
		if path == "" {
			path = "."
		}
		return store.NewFS(path)

	case "s3":
		bucket, prefix := store.ParseS3Path(path)
		s3cfg := store.S3Config{
			Bucket:       bucket,
			Prefix:       prefix,
			Region:       pick(c.String("region"), cfg.Storage.Region),
			Endpoint:     pick(c.String("endpoint"), cfg.Storage.Endpoint),
			UsePathStyle: c.Bool("s3-path-style") || cfg.Storage.S3PathStyle,
		}
		return store.NewS3(ctx, s3cfg)

	default:
		return nil, fmt.Errorf("unknown backend: %s (must be fs or s3)", backend)
	}
}

// buildNotifier constructs the completion notifier from config.
// Returns (nil, nil) when notification is not configured.
func buildNotifier(cfg *config.Config) (notify.Notifier, error) {
	return notify.New(notify.Config{
		Type:    cfg.Notify.Type,
		URL:     cfg.Notify.URL,
		Channel: cfg.Notify.Channel,
		Headers: cfg.Notify.Headers,
		Timeout: cfg.Notify.Timeout.Duration,
		Retries: cfg.Notify.Retries,
	})
}

// exitCode classifies a session error into the documented exit codes:
// storage faults are 3, codec faults are 2, everything else (missing
// inputs, malformed frames, aborts) is 1.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}

	var storeErr *store.StorageError
	if errors.As(err, &storeErr) {
		return exitStorageError
	}

	var codecErr *qrc.CodecError
	if errors.As(err, &codecErr) || errors.Is(err, session.ErrDecodeAmbiguous) {
		return exitCodecError
	}

	return exitInputError
}

// sessionExit wraps a session error with its exit code for the CLI.
func sessionExit(err error) error {
	if err == nil {
		return nil
	}
	return cli.Exit(err.Error(), exitCode(err))
}
