package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/qrdrive-io/qrdrive/metrics"
	"github.com/qrdrive-io/qrdrive/session"
	"github.com/qrdrive-io/qrdrive/store"
	"github.com/qrdrive-io/qrdrive/types"
)

// LoadCommand returns the load command: reassemble a file from a
// stored frame set, enumerated by index.
func LoadCommand() *cli.Command {
	return &cli.Command{
		Name:      "load",
		Usage:     "Reassemble a file from stored QR frames",
		ArgsUsage: "<base-name>",
		Flags: append([]cli.Flag{
			ConfigFlag,
			&cli.StringFlag{
				Name:  "name",
				Usage: "Override the output base name (embedded extension is kept)",
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "Directory the output file is written to",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "Suppress result output",
			},
		}, StorageFlags()...),
		Action: loadAction,
	}
}

func loadAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("base name required", exitInputError)
	}
	base := c.Args().First()

	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), exitInputError)
	}

	ctx, cancel := signalContext()
	defer cancel()

	st, err := buildStore(ctx, c, cfg)
	if err != nil {
		return sessionExit(err)
	}

	notifier, err := buildNotifier(cfg)
	if err != nil {
		return cli.Exit(err.Error(), exitInputError)
	}
	if notifier != nil {
		defer func() { _ = notifier.Close() }()
	}

	expected, err := expectedFrames(ctx, st, base)
	if err != nil {
		return sessionExit(err)
	}

	loader, err := session.NewLoader(session.LoaderConfig{
		Source:         session.NewStoreSource(st, &session.QRCodec{}, base),
		NameOverride:   c.String("name"),
		OutDir:         pick(c.String("out"), cfg.Output.Directory),
		Mode:           types.ModeLoad,
		ExpectedFrames: expected,
		Collector:      metrics.NewCollector(string(types.ModeLoad), pick(c.String("backend"), "fs"), ""),
		Notifier:       notifier,
	})
	if err != nil {
		return cli.Exit(err.Error(), exitInputError)
	}

	res, err := loader.Execute(ctx)
	if err != nil {
		return sessionExit(err)
	}

	if !c.Bool("quiet") {
		printLoadResult(res)
	}
	return nil
}

// expectedFrames reads the manifest sidecar to pre-validate the frame
// count. Frame sets carry no manifest when saved by other tools, so a
// missing sidecar is not an error.
func expectedFrames(ctx context.Context, st store.Store, base string) (*int, error) {
	m, err := st.ReadManifest(ctx, base)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m.Frames, nil
}

func printLoadResult(res *session.LoadResult) {
	fmt.Printf("wrote %s: %d frames, %d bytes\n", res.Path, res.Frames, res.Bytes)
	if res.Archived {
		for _, name := range res.Extracted {
			fmt.Printf("extracted %s\n", name)
		}
	}
}
