package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"pharmacy-counting-go/internal/config"
	"pharmacy-counting-go/internal/dataset"
	"pharmacy-counting-go/internal/files"
	"pharmacy-counting-go/internal/logger"
	"pharmacy-counting-go/internal/pipeline"
	"pharmacy-counting-go/internal/report"
)

const usage = "usage: pharmacy-counting <input_path> <output_path>"

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr))
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	if len(args) != 2 {
		fmt.Fprintln(stderr, usage)
		return 2
	}
	inputPath, outputPath := args[0], args[1]
	cfg := config.Load(outputPath)

	logOut, closeLog := openLog(cfg.LogFile, stderr)
	defer closeLog()
	log := logger.New(cfg.Environment, cfg.LogLevel, logOut).WithRun(uuid.New().String())
	log.WithField("service", "pharmacy-counting").Info("starting run")

	retry := files.Retry{
		MaxRetries: cfg.IORetryMax,
		Initial:    cfg.IORetryInitial,
		Notify: func(err error, wait time.Duration) {
			log.WithError(err).WithField("retry_in_ms", wait.Milliseconds()).Warn("open failed, retrying")
		},
	}

	log.WithField("input_path", inputPath).WithField("output_path", outputPath).Info("validating file setup")
	in, err := files.OpenInput(inputPath, retry)
	if err != nil {
		log.WithError(err).Error("input unavailable")
		return 1
	}
	src, closeIn, err := dataset.Open(inputPath, in)
	if err != nil {
		log.WithError(err).Error("input unreadable")
		return 1
	}
	defer closeIn.Close()

	out, err := files.CreateOutput(outputPath, retry)
	if err != nil {
		log.WithError(err).Error("output unavailable")
		return 1
	}
	defer out.Close()

	sink, err := report.NewSink(cfg.Format(outputPath), out)
	if err != nil {
		log.WithError(err).Error("bad report format")
		return 1
	}

	start := time.Now()
	agg, stats, err := pipeline.Run(ctx, src, pipeline.Options{
		SkipHeader: cfg.InputHasHeader,
		Shards:     cfg.Shards,
		OnReject: func(line int, err error) {
			log.WithError(err).WithField("line_number", line).Error("skipping line")
		},
	})
	if err != nil {
		log.WithError(err).Error("reading input failed")
		return 1
	}
	if stats.HeaderLine > 0 {
		log.WithField("line_number", stats.HeaderLine).Info("skipped header line")
	}
	log.WithField("lines", stats.Lines).
		WithField("folded", stats.Folded).
		WithField("skipped", stats.Skipped).
		Info("input consumed")

	rows := agg.Report()
	if err := sink.Write(rows); err != nil {
		log.WithError(err).Error("writing report failed")
		return 1
	}
	if err := out.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		log.WithError(err).Error("closing report failed")
		return 1
	}

	log.WithField("drugs", agg.Len()).
		WithField("duration_ms", time.Since(start).Milliseconds()).
		Info("report written")
	return 0
}

// openLog opens path for appending; "-" or a failure logs to fallback.
func openLog(path string, fallback io.Writer) (io.Writer, func()) {
	if path == "" || path == "-" {
		return fallback, func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(fallback, "log file %s unavailable, logging to stderr: %v\n", path, err)
		return fallback, func() {}
	}
	return f, func() { f.Close() }
}
