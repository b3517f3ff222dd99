package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/qrdrive-io/qrdrive/capacity"
	"github.com/qrdrive-io/qrdrive/metrics"
	"github.com/qrdrive-io/qrdrive/session"
	"github.com/qrdrive-io/qrdrive/sheet"
	"github.com/qrdrive-io/qrdrive/store"
	"github.com/qrdrive-io/qrdrive/types"
)

// SaveCommand returns the save command: encode one file into a stored
// set of QR frames, optionally laid out on a printable PDF.
func SaveCommand() *cli.Command {
	return &cli.Command{
		Name:      "save",
		Usage:     "Encode a file into QR frames",
		ArgsUsage: "<file>",
		Flags: append([]cli.Flag{
			ConfigFlag,
			&cli.StringFlag{
				Name:  "name",
				Usage: "Override the output base name (source extension is kept)",
			},
			&cli.IntFlag{
				Name:  "capacity",
				Usage: "Bytes per frame (default: level ceiling)",
			},
			&cli.StringFlag{
				Name:  "level",
				Usage: "Error-correction level: L, M, or H",
			},
			&cli.BoolFlag{
				Name:    "zip",
				Aliases: []string{"archive"},
				Usage:   "Zip-wrap the file before framing",
			},
			&cli.StringFlag{
				Name:  "page",
				Usage: "Lay frames out on a PDF: letter, index, or playing_card",
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "Destination directory for the PDF (page mode only)",
			},
			&cli.IntFlag{
				Name:  "pixel-density",
				Usage: "Rendered module width in pixels",
			},
			&cli.StringFlag{
				Name:  "fill",
				Usage: "Dark color (name or hex)",
			},
			&cli.StringFlag{
				Name:  "background",
				Usage: "Light color (name or hex)",
			},
			&cli.BoolFlag{
				Name:  "force-capacity",
				Usage: "Keep the requested capacity even if it will not print legibly",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Skip the frame-count confirmation",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "Suppress result output",
			},
		}, StorageFlags()...),
		Action: saveAction,
	}
}

func saveAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("file required", exitInputError)
	}
	sourcePath := c.Args().First()

	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), exitInputError)
	}

	level, err := types.ParseECLevel(pick(pick(c.String("level"), cfg.Output.Level), "L"))
	if err != nil {
		return cli.Exit(err.Error(), exitInputError)
	}

	capBytes := pickInt(c.Int("capacity"), cfg.Output.Capacity)
	if capBytes == 0 {
		capBytes = capacity.Ceiling(level)
	}

	codec := &session.QRCodec{
		PixelDensity: pickInt(c.Int("pixel-density"), cfg.Output.PixelDensity),
		Fill:         pick(c.String("fill"), cfg.Output.Fill),
		Background:   pick(c.String("background"), cfg.Output.Background),
	}

	// Page mode adds the medium's legibility constraint and, for
	// playing cards, a hard capacity ceiling.
	var (
		phys     *capacity.Physical
		pageSize sheet.PageSize
	)
	if pageStr := pick(c.String("page"), cfg.Output.Page); pageStr != "" && pageStr != "none" {
		pageSize, err = sheet.ParsePageSize(pageStr)
		if err != nil {
			return cli.Exit(err.Error(), exitInputError)
		}
		clamped := false
		capBytes, clamped = sheet.ClampCapacity(pageSize, capBytes, level)
		if clamped {
			fmt.Fprintf(os.Stderr, "Warning: capacity clamped to %d for %s medium\n", capBytes, pageSize)
		}
		phys = sheet.Constraint(pageSize)
	}

	ctx, cancel := signalContext()
	defer cancel()

	// Page mode stages PNGs in a scratch directory; only the PDF is
	// the deliverable. Otherwise frames go straight to the store.
	var (
		st      store.Store
		staging string
	)
	if pageSize != "" {
		staging, err = os.MkdirTemp("", "qrdrive-frames-")
		if err != nil {
			return cli.Exit(fmt.Sprintf("create staging dir: %v", err), exitStorageError)
		}
		defer os.RemoveAll(staging)
		st, err = store.NewFS(staging)
	} else {
		st, err = buildStore(ctx, c, cfg)
	}
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

	var confirm func(int) bool
	if !c.Bool("yes") {
		confirm = func(frames int) bool {
			return promptYesNo(fmt.Sprintf("About to write %d frames. Continue? [y/N] ", frames))
		}
	}

	collector := metrics.NewCollector(string(types.ModeSave), pick(c.String("backend"), "fs"), "")

	saver, err := session.NewSaver(session.SaverConfig{
		SourcePath:    sourcePath,
		NameOverride:  c.String("name"),
		Capacity:      capBytes,
		Level:         level,
		Archive:       c.Bool("zip"),
		Physical:      phys,
		ForceCapacity: c.Bool("force-capacity"),
		Store:         st,
		Codec:         codec,
		Confirm:       confirm,
		Collector:     collector,
		Notifier:      notifier,
	})
	if err != nil {
		return cli.Exit(err.Error(), exitInputError)
	}

	res, err := saver.Execute(ctx)
	if err != nil {
		return sessionExit(err)
	}

	outputPath := ""
	if pageSize != "" {
		outputPath, err = writeSheet(res, staging, pageSize, pick(c.String("out"), cfg.Output.Directory))
		if err != nil {
			return sessionExit(err)
		}
	}

	if !c.Bool("quiet") {
		printSaveResult(res, outputPath)
	}
	return nil
}

// writeSheet lays the staged frame images out onto the deliverable PDF.
func writeSheet(res *session.SaveResult, staging string, size sheet.PageSize, outDir string) (string, error) {
	framePaths := make([]string, res.Frames)
	for i := range framePaths {
		framePaths[i] = filepath.Join(staging, store.FrameName(res.Base, i))
	}

	if outDir == "" {
		outDir = "."
	}
	pdfPath := filepath.Join(outDir, res.Base+".pdf")
	if err := sheet.Write(pdfPath, res.Base, framePaths, size); err != nil {
		return "", err
	}
	return pdfPath, nil
}

func printSaveResult(res *session.SaveResult, outputPath string) {
	fmt.Printf("saved %s: %d frames, %d bytes\n", res.Base, res.Frames, res.Bytes)
	fmt.Printf("capacity=%d, tier=%d, binary=%v, archived=%v\n",
		res.Capacity, res.Tier, res.Binary, res.Archived)
	if res.Clamped {
		fmt.Println("capacity was clamped to the level ceiling")
	}
	if res.Downgraded {
		fmt.Println("capacity was downgraded for print legibility")
	}
	if outputPath != "" {
		fmt.Printf("pdf=%s\n", outputPath)
	}
}

// promptYesNo asks a yes/no question on stderr and reads the answer
// from stdin. Anything but an explicit yes declines.
func promptYesNo(question string) bool {
	fmt.Fprint(os.Stderr, question)
	var answer string
	if _, err := fmt.Fscanln(os.Stdin, &answer); err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return ctx, cancel
}
