package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/qrdrive-io/qrdrive/cli/reader"
	"github.com/qrdrive-io/qrdrive/cli/render"
)

// InspectCommand returns the inspect command with subcommands.
// Inspect returns a deep view of a single entity; it never decodes or
// writes output files.
func InspectCommand() *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "Inspect a single entity (manifest, frame)",
		Subcommands: []*cli.Command{
			inspectManifestCommand(),
			inspectFrameCommand(),
		},
	}
}

func inspectManifestCommand() *cli.Command {
	return &cli.Command{
		Name:      "manifest",
		Usage:     "Inspect the manifest of a stored frame set",
		ArgsUsage: "<base-name>",
		Flags:     append(TUIReadOnlyFlags(), append([]cli.Flag{ConfigFlag}, StorageFlags()...)...),
		Action:    inspectManifestAction,
	}
}

func inspectManifestAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("base name required", exitInputError)
	}
	base := c.Args().First()

	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), exitInputError)
	}
	st, err := buildStore(c.Context, c, cfg)
	if err != nil {
		return sessionExit(err)
	}

	resp, err := reader.InspectManifest(c.Context, st, base)
	if err != nil {
		return sessionExit(err)
	}

	if c.Bool("tui") {
		return r.RenderTUI("inspect_manifest", resp)
	}
	return r.Render(resp)
}

func inspectFrameCommand() *cli.Command {
	return &cli.Command{
		Name:      "frame",
		Usage:     "Inspect one encoded frame image",
		ArgsUsage: "<image-path>",
		Flags:     TUIReadOnlyFlags(),
		Action:    inspectFrameAction,
	}
}

func inspectFrameAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("image path required", exitInputError)
	}
	path := c.Args().First()

	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}

	resp, err := reader.InspectFrame(path)
	if err != nil {
		return sessionExit(err)
	}

	if c.Bool("tui") {
		return r.RenderTUI("inspect_frame", resp)
	}
	return r.Render(resp)
}
