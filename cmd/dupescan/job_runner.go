package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"dupescan/internal/collect"
	"dupescan/internal/dupes"
	"dupescan/internal/hashjob"
	"dupescan/internal/logging"
)

// scanReport aggregates one finished hashing run for rendering.
type scanReport struct {
	order     []string
	results   map[string]hashjob.Result
	index     *dupes.Index
	cancelled bool
}

func (r *scanReport) hashed() int { return len(r.results) }

// runHashJob collects the inputs, runs a hashing job to completion, and folds
// successful results into a fresh group index. The results channel is the only
// goroutine touching the index. A flock in the log directory keeps concurrent
// dupescan processes from running over each other.
func runHashJob(cmd *cobra.Command, cctx *commandContext, inputs []string, workers int, showBar bool) (*scanReport, error) {
	cfg, err := cctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := cctx.ensureLogger()
	if err != nil {
		return nil, err
	}
	log := logging.NewComponentLogger(logger, "cli")

	paths, warnings := collect.Paths(inputs)
	for _, warning := range warnings {
		log.Warn("skipping input",
			logging.String(logging.FieldPath, warning.Path),
			logging.Error(warning.Err),
		)
	}
	if len(paths) == 0 {
		return nil, errors.New("no files to hash")
	}
	log.Info("collected files",
		logging.Int(logging.FieldCount, len(paths)),
		logging.Int("inputs", len(inputs)),
	)

	lock := flock.New(filepath.Join(cfg.Paths.LogDir, "dupescan.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire scan lock: %w", err)
	}
	if !locked {
		return nil, errors.New("another dupescan run is already active")
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			log.Warn("release scan lock failed", logging.Error(err))
		}
	}()

	if workers <= 0 {
		workers = cfg.Scan.Workers
	}
	engine := hashjob.NewEngine(logger)
	job, err := engine.Start(cmd.Context(), paths, workers)
	if err != nil {
		return nil, err
	}

	go func() {
		select {
		case <-cmd.Context().Done():
			job.Cancel()
		case <-job.Done():
		}
	}()

	var bar *progressbar.ProgressBar
	if showBar && isatty.IsTerminal(os.Stderr.Fd()) {
		bar = progressbar.NewOptions(job.Total(),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("hashing"),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(120*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}

	progressDrained := make(chan struct{})
	go func() {
		defer close(progressDrained)
		for progress := range job.Progress() {
			if bar != nil {
				_ = bar.Set(progress.Completed)
			}
		}
	}()

	report := &scanReport{
		order:   paths,
		results: make(map[string]hashjob.Result, job.Total()),
		index:   dupes.NewIndex(),
	}
	for result := range job.Results() {
		report.results[result.Path] = result
		if !result.Outcome.Failed() {
			report.index.Record(result.Path, result.Outcome.Digest)
		}
	}
	<-job.Done()
	<-progressDrained
	if bar != nil {
		_ = bar.Finish()
	}

	report.cancelled = job.Cancelled()
	if report.cancelled {
		log.Warn("run cancelled",
			logging.Int("hashed", report.hashed()),
			logging.Int(logging.FieldCount, len(paths)),
		)
	}
	return report, nil
}
