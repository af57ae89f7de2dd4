// Command huff compresses and decompresses files with the huffman package.
//
//	huff compress -i notes.txt -o notes.huff
//	huff decompress -i notes.huff -o notes.txt
//	huff info -i notes.huff
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/irfanbozkurt/huff"
	"github.com/irfanbozkurt/huff/huffman"
	"github.com/irfanbozkurt/huff/logger"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		logger.Logger().Error().Err(err).Msg("huff failed")
		os.Exit(1)
	}
}

const (
	inputFlag       = "input"
	outputFlag      = "output"
	plainFlag       = "plain"
	sentinelFlag    = "sentinel"
	concurrencyFlag = "concurrency"
	verboseFlag     = "verbose"
)

func formatFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  plainFlag,
			Usage: "one byte per tree node, refusing inputs containing the sentinel",
		},
		&cli.UintFlag{
			Name:  sentinelFlag,
			Usage: "byte marking internal tree nodes",
			Value: uint(huffman.DefaultSentinel),
		},
	}
}

func fileFlags(withOutput bool) []cli.Flag {
	flags := []cli.Flag{&cli.StringFlag{
		Name:     inputFlag,
		Aliases:  []string{"i"},
		Usage:    "file to read",
		Required: true,
	}}
	if withOutput {
		flags = append(flags, &cli.StringFlag{
			Name:     outputFlag,
			Aliases:  []string{"o"},
			Usage:    "file to write",
			Required: true,
		})
	}
	return append(flags, formatFlags()...)
}

func newApp(out, errOut io.Writer) *cli.App {
	compressFlags := append(fileFlags(true), &cli.IntFlag{
		Name:    concurrencyFlag,
		Aliases: []string{"j"},
		Usage:   "goroutines counting byte frequencies",
		Value:   1,
	})
	commands := []*cli.Command{
		{
			Name:   "compress",
			Usage:  "compress a file into a container",
			Flags:  compressFlags,
			Action: compressAction,
		},
		{
			Name:   "decompress",
			Usage:  "restore the original file from a container",
			Flags:  fileFlags(true),
			Action: decompressAction,
		},
		{
			Name:   "info",
			Usage:  "print the header and tree statistics of a container",
			Flags:  fileFlags(false),
			Action: infoAction,
		},
	}
	// -v belongs to the version flag
	verbose := &cli.BoolFlag{
		Name:  verboseFlag,
		Usage: "log debug messages",
	}

	return &cli.App{
		Name:      "huff",
		Usage:     "byte oriented Huffman compressor",
		Version:   huff.Version.String(),
		Writer:    out,
		ErrWriter: errOut,
		Flags:     []cli.Flag{verbose},
		Before:    setupLogger,
		Commands:  commands,
	}
}

func setupLogger(cCtx *cli.Context) error {
	logger.SetOutput(zerolog.ConsoleWriter{Out: cCtx.App.ErrWriter, TimeFormat: "15:04:05"})
	if cCtx.Bool(verboseFlag) {
		logger.SetLevel(zerolog.DebugLevel)
	}
	return nil
}

func options(cCtx *cli.Context) ([]huffman.Option, error) {
	sentinel := cCtx.Uint(sentinelFlag)
	if sentinel > 0xff {
		return nil, fmt.Errorf("sentinel %d is not a byte", sentinel)
	}
	opts := []huffman.Option{
		huffman.WithSentinel(byte(sentinel)),
		huffman.WithLogger(logger.Logger().With().Str("cmd", cCtx.Command.Name).Logger()),
	}
	if cCtx.Bool(plainFlag) {
		opts = append(opts, huffman.WithTreeFormat(huffman.TreePlain))
	}
	if cCtx.IsSet(concurrencyFlag) {
		opts = append(opts, huffman.WithConcurrency(cCtx.Int(concurrencyFlag)))
	}
	return opts, nil
}

func compressAction(cCtx *cli.Context) error {
	opts, err := options(cCtx)
	if err != nil {
		return err
	}
	d, err := os.ReadFile(cCtx.String(inputFlag))
	if err != nil {
		return err
	}

	start := time.Now()
	c, err := huffman.Compress(d, opts...)
	if errors.Is(err, huffman.ErrEmptyInput) {
		return fmt.Errorf("%s: nothing to compress", cCtx.String(inputFlag))
	}
	if err != nil {
		return err
	}
	if err = os.WriteFile(cCtx.String(outputFlag), c, 0o644); err != nil {
		return err
	}

	logger.Logger().Info().
		Str("input", cCtx.String(inputFlag)).
		Str("output", cCtx.String(outputFlag)).
		Int("inputSize", len(d)).
		Int("outputSize", len(c)).
		Float64("ratio", float64(len(d))/float64(len(c))).
		Dur("took", time.Since(start)).
		Msg("compressed")
	return nil
}

func decompressAction(cCtx *cli.Context) error {
	opts, err := options(cCtx)
	if err != nil {
		return err
	}
	c, err := os.ReadFile(cCtx.String(inputFlag))
	if err != nil {
		return err
	}

	start := time.Now()
	d, err := huffman.Decompress(c, opts...)
	if err != nil {
		return fmt.Errorf("%s: %w", cCtx.String(inputFlag), err)
	}
	if err = os.WriteFile(cCtx.String(outputFlag), d, 0o644); err != nil {
		return err
	}

	logger.Logger().Info().
		Str("input", cCtx.String(inputFlag)).
		Str("output", cCtx.String(outputFlag)).
		Int("outputSize", len(d)).
		Dur("took", time.Since(start)).
		Msg("decompressed")
	return nil
}

func infoAction(cCtx *cli.Context) error {
	opts, err := options(cCtx)
	if err != nil {
		return err
	}
	c, err := os.ReadFile(cCtx.String(inputFlag))
	if err != nil {
		return err
	}
	info, err := huffman.Inspect(c, opts...)
	if err != nil {
		return fmt.Errorf("%s: %w", cCtx.String(inputFlag), err)
	}

	w := cCtx.App.Writer
	fmt.Fprintf(w, "padding bits: %d\n", info.Padding)
	fmt.Fprintf(w, "tree size:    %d bytes\n", info.TreeSize)
	fmt.Fprintf(w, "nodes:        %d (%d leaves)\n", info.NbNodes, info.NbLeaves)
	fmt.Fprintf(w, "tree height:  %d\n", info.Height)
	fmt.Fprintf(w, "payload:      %d bytes, %d bits\n", info.PayloadSize, info.NbBits)
	return nil
}
