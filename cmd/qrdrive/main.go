// Package main provides the qrdrive CLI entrypoint.
//
// save, load, and scan are the session commands; everything else is
// read-only.
//
// Usage:
//
//	qrdrive <command> [subcommand] [options]
//
// Exit codes for the session commands:
//   - 0: success
//   - 1: input or data error (missing file, malformed frames, abort)
//   - 2: codec error (QR encode/decode failure, ambiguous capture)
//   - 3: storage error
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/qrdrive-io/qrdrive/cli/cmd"
	"github.com/qrdrive-io/qrdrive/types"
)

// Commit is set via ldflags at build time.
var commit = "unknown"

func main() {
	app := &cli.App{
		Name:           "qrdrive",
		Usage:          "Store files as scannable QR frame sets",
		Version:        fmt.Sprintf("%s (commit: %s)", types.Version, commit),
		ExitErrHandler: exitErrHandler,
		Commands: []*cli.Command{
			cmd.SaveCommand(),
			cmd.LoadCommand(),
			cmd.ScanCommand(),
			cmd.InspectCommand(),
			cmd.ListCommand(),
			cmd.VersionCommand("", commit),
		},
	}

	if err := app.Run(os.Args); err != nil {
		// ExitErrHandler already handled the exit for cli.ExitCoder errors.
		// This branch handles unexpected errors that weren't wrapped.
		os.Exit(1)
	}
}

// exitErrHandler handles errors from the CLI, preserving exit codes
// from cli.Exit() so the documented session exit codes are propagated.
func exitErrHandler(_ *cli.Context, err error) {
	if err == nil {
		return
	}

	// Check for ExitCoder (from cli.Exit), handles wrapped errors
	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		msg := exitCoder.Error()

		// Only print if there's a real message (not just "exit status N")
		// cli.Exit("", N).Error() returns "exit status N", so skip those
		if msg != "" && msg != fmt.Sprintf("exit status %d", code) {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(code)
	}

	// Unexpected error - print and exit with code 1
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
