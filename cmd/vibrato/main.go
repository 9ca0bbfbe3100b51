// Command vibrato applies a vibrato (periodic pitch wobble) to WAV files.
//
// Usage:
//
//	vibrato [flags] <input.wav> <output.wav> [<input.wav> <output.wav> ...]
//
// Each input/output pair is processed by its own filter instance; pairs run
// concurrently.
//
// Examples:
//
//	vibrato voice.wav voice_vib.wav
//	vibrato -delay 0.005 -width 0.003 -freq 6 in.wav out.wav
//	vibrato -report a.wav a_out.wav b.wav b_out.wav
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/cwbudde/algo-vecmath/cpu"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-vibrato/dsp/core"
	"github.com/cwbudde/algo-vibrato/dsp/effects/modulation"
	"github.com/cwbudde/algo-vibrato/dsp/spectrum"
	"github.com/cwbudde/algo-vibrato/internal/wavio"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type options struct {
	delaySecs float64
	widthSecs float64
	modFreqHz float64
	tableSize int
	blockSize int
	report    bool
}

type pair struct {
	in, out string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("vibrato", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.Float64Var(&opts.delaySecs, "delay", 0.1, "base delay in seconds")
	fs.Float64Var(&opts.widthSecs, "width", 0.1, "modulation width in seconds (must not exceed -delay)")
	fs.Float64Var(&opts.modFreqHz, "freq", 5, "modulation frequency in Hz")
	fs.IntVar(&opts.tableSize, "table", 1024, "LFO wavetable size")
	fs.IntVar(&opts.blockSize, "block", 1024, "frames per processing block")
	fs.BoolVar(&opts.report, "report", false, "log level and spectral peak of input and output")
	verbose := fs.Bool("v", false, "verbose (debug) logging")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: vibrato [flags] <input.wav> <output.wav> [<input.wav> <output.wav> ...]\n\n")
		fmt.Fprintf(stderr, "Applies a sine-modulated delay (vibrato) to each input and writes the result.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  vibrato in.wav out.wav\n")
		fmt.Fprintf(stderr, "  vibrato -delay 0.005 -width 0.003 -freq 6 in.wav out.wav\n")
	}

	err := fs.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}

		return exitUsage
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	pairs, err := parsePairs(fs.Args())
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n\n", err)
		fs.Usage()

		return exitUsage
	}

	if opts.blockSize < 1 {
		fmt.Fprintf(stderr, "error: -block must be >= 1: %d\n", opts.blockSize)

		return exitUsage
	}

	features := cpu.DetectFeatures()
	logger.Debug("starting",
		"pairs", len(pairs),
		"arch", features.Architecture,
		"avx2", features.HasAVX2,
		"neon", features.HasNEON,
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range pairs {
		g.Go(func() error {
			return processFile(gctx, logger, opts, p)
		})
	}

	err = g.Wait()
	if err != nil {
		logger.Error("vibrato failed", "err", err)

		return exitError
	}

	return exitOK
}

func parsePairs(args []string) ([]pair, error) {
	if len(args) == 0 || len(args)%2 != 0 {
		return nil, fmt.Errorf("expected input/output path pairs, got %d argument(s)", len(args))
	}

	pairs := make([]pair, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		pairs = append(pairs, pair{in: args[i], out: args[i+1]})
	}

	return pairs, nil
}

func processFile(ctx context.Context, logger *slog.Logger, opts options, p pair) error {
	clip, err := wavio.Read(p.in)
	if err != nil {
		return err
	}

	logger.Debug("decoded",
		"path", p.in,
		"sampleRate", clip.SampleRate,
		"channels", clip.NumChannels(),
		"bitDepth", clip.BitDepth,
		"frames", clip.Frames(),
	)

	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(float64(clip.SampleRate)),
		core.WithBlockSize(opts.blockSize),
		core.WithChannels(clip.NumChannels()),
	)

	vib, err := modulation.NewVibrato(cfg.SampleRate, opts.delaySecs, opts.widthSecs, opts.modFreqHz,
		cfg.Channels, modulation.WithVibratoTableSize(opts.tableSize))
	if err != nil {
		return fmt.Errorf("%s: %w", p.in, err)
	}

	out := core.Channels(cfg.Channels, clip.Frames())
	for _, b := range cfg.Blocks(clip.Frames()) {
		err = ctx.Err()
		if err != nil {
			return err
		}

		err = vib.Process(core.Slice(clip.Channels, b[0], b[1]), core.Slice(out, b[0], b[1]))
		if err != nil {
			return fmt.Errorf("%s: %w", p.in, err)
		}
	}

	if opts.report {
		report(logger, p.in, "input", clip.Channels, cfg.SampleRate)
		report(logger, p.out, "output", out, cfg.SampleRate)
	}

	err = wavio.Write(p.out, &wavio.Clip{
		SampleRate: clip.SampleRate,
		BitDepth:   clip.BitDepth,
		Channels:   out,
	})
	if err != nil {
		return err
	}

	logger.Info("processed",
		"input", p.in,
		"output", p.out,
		"frames", clip.Frames(),
		"capacity", vib.Capacity(),
	)

	return nil
}

func report(logger *slog.Logger, path, role string, channels [][]float64, sampleRate float64) {
	for c, ch := range channels {
		lv := spectrum.Levels(ch)
		attrs := []any{
			"path", path,
			"role", role,
			"channel", c,
			"peakDB", lv.PeakDB(),
			"rmsDB", lv.RMSDB(),
		}

		if len(ch) > 0 {
			peak, err := spectrum.PeakFrequency(ch, sampleRate)
			if err == nil {
				attrs = append(attrs, "peakHz", peak)
			}
		}

		logger.Info("report", attrs...)
	}
}
