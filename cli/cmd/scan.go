package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/qrdrive-io/qrdrive/cli/tui"
	"github.com/qrdrive-io/qrdrive/metrics"
	"github.com/qrdrive-io/qrdrive/session"
	"github.com/qrdrive-io/qrdrive/types"
)

// ScanCommand returns the scan command: reassemble a file from
// captured frame images in presentation order. Captures carry no
// index authority, so a mismatched frame raises an Accept/Rescan
// prompt instead of failing.
func ScanCommand() *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Usage:     "Reassemble a file from captured frame images",
		ArgsUsage: "<image> [<image>...]",
		Flags: []cli.Flag{
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
				Name:  "auto-accept",
				Usage: "Accept mismatched frames without prompting",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "Suppress result output",
			},
		},
		Action: scanAction,
	}
}

func scanAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("at least one image required", exitInputError)
	}
	paths := c.Args().Slice()

	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), exitInputError)
	}

	ctx, cancel := signalContext()
	defer cancel()

	notifier, err := buildNotifier(cfg)
	if err != nil {
		return cli.Exit(err.Error(), exitInputError)
	}
	if notifier != nil {
		defer func() { _ = notifier.Close() }()
	}

	var decider session.Decider = tui.Prompt{}
	if c.Bool("auto-accept") {
		decider = session.AutoAccept{}
	}

	loader, err := session.NewLoader(session.LoaderConfig{
		Source:       session.NewImageSource(&session.QRCodec{}, paths),
		NameOverride: c.String("name"),
		OutDir:       pick(c.String("out"), cfg.Output.Directory),
		Decider:      decider,
		Mode:         types.ModeScan,
		Collector:    metrics.NewCollector(string(types.ModeScan), "fs", ""),
		Notifier:     notifier,
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
