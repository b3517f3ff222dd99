package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/qrdrive-io/qrdrive/cli/reader"
	"github.com/qrdrive-io/qrdrive/cli/render"
)

// ListCommand returns the list command: enumerate stored frame files
// in a directory.
func ListCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "List stored frame files",
		ArgsUsage: "[<directory>]",
		Flags: append(ReadOnlyFlags(),
			&cli.StringFlag{
				Name:  "base",
				Usage: "Only list frames of this base name",
			},
		),
		Action: listAction,
	}
}

func listAction(c *cli.Context) error {
	dir := "."
	if c.NArg() > 0 {
		dir = c.Args().First()
	}

	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}

	if c.Bool("tui") {
		return cli.Exit("--tui is not supported for list command", 1)
	}

	items, err := reader.ListFrames(dir, c.String("base"))
	if err != nil {
		return cli.Exit(err.Error(), exitInputError)
	}
	return r.Render(items)
}
