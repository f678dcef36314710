package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"curator/internal/dispatch"
	"curator/internal/jobs"
	"curator/internal/logging"
	"curator/internal/manifest"
	"curator/internal/partition"
	"curator/internal/progress"
	"curator/internal/runlog"
	"curator/internal/slicelock"
)

// maxListedFailures caps the failure table; the ledger keeps the full list.
const maxListedFailures = 20

type sliceFlags struct {
	numSlices int
	sliceID   int
	workers   int
}

func (f *sliceFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.numSlices, "num-slices", 1, "Split the task list into this many slices")
	cmd.Flags().IntVar(&f.sliceID, "slice-id", 0, "Slice to process, from 0 to num-slices-1")
	f.registerWorkers(cmd)
}

func (f *sliceFlags) registerWorkers(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "Parallel workers (default from config, 0 = CPU count)")
}

func (f sliceFlags) spec() partition.Spec {
	return partition.Spec{NumSlices: f.numSlices, SliceID: f.sliceID}
}

type batchJob func(ctx context.Context, opts jobs.Options) (*jobs.Report, error)

type batchResult struct {
	Report  *jobs.Report
	RunID   string
	LogPath string
}

// runBatch wraps a job with slice validation, the slice lock, the run ledger
// and progress reporting.
func runBatch(cmd *cobra.Command, cc *commandContext, name string, slice partition.Spec, lockDir string, workers int, job batchJob) (*batchResult, error) {
	cfg, err := cc.ensureConfig()
	if err != nil {
		return nil, err
	}
	if err := slice.Validate(); err != nil {
		return nil, err
	}

	logger, logPath, err := cc.newLogger(name)
	if err != nil {
		return nil, err
	}
	logger = logger.With(logging.String(logging.FieldSlice, slice.String()))

	lock, err := slicelock.Acquire(lockDir, name, slice)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logging.WarnWithContext(logger, "slice lock release failed", "slice_lock", logging.Error(err))
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	res := &batchResult{LogPath: logPath}

	ledger, run := beginLedger(ctx, cc, logger, name, slice, os.Args[1:])
	if ledger != nil {
		defer ledger.Close()
	}
	if run != nil {
		res.RunID = run.ID
		logger = logger.With(logging.String(logging.FieldRunID, run.ID))
	}

	opts := jobs.Options{
		Workers: cfg.ResolveWorkers(workers),
		Logger:  logger,
		Progress: func(label string, total int) dispatch.Observer {
			return progress.For(cmd.ErrOrStderr(), logger, label, total)
		},
	}
	logger.Info("batch started", logging.Int("workers", opts.Workers))

	report, err := job(ctx, opts)
	if err != nil {
		if run != nil {
			if abortErr := ledger.Abort(ctx, run.ID, err); abortErr != nil {
				logging.WarnWithContext(logger, "ledger abort failed", "ledger", logging.Error(abortErr))
			}
		}
		logging.ErrorWithContext(logger, "batch aborted", "batch_aborted", logging.Error(err))
		return nil, err
	}
	res.Report = report

	if run != nil {
		if err := ledger.Finish(ctx, run.ID, report.Summary, report.Failures); err != nil {
			logging.WarnWithContext(logger, "ledger finish failed", "ledger",
				logging.Error(err),
				logging.String(logging.FieldImpact, "failing keys not recorded; rerun list unavailable for this run"),
			)
		}
	}
	logger.Info("batch finished",
		logging.String(logging.FieldEventType, "batch_summary"),
		logging.Int("total", report.Summary.Total),
		logging.Int("ok", report.Summary.OK),
		logging.Int("missing", report.Summary.Missing),
		logging.Int("failed", report.Summary.Failed),
	)
	return res, nil
}

// beginLedger records the run start. Ledger problems are logged and the run
// continues unrecorded.
func beginLedger(ctx context.Context, cc *commandContext, logger *slog.Logger, name string, slice partition.Spec, args []string) (*runlog.Store, *runlog.Run) {
	ledger, err := cc.openLedger()
	if err != nil {
		logging.WarnWithContext(logger, "run ledger unavailable", "ledger",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run will not be recorded"),
		)
		return nil, nil
	}
	if ledger == nil {
		return nil, nil
	}
	run, err := ledger.Begin(ctx, name, slice, args)
	if err != nil {
		logging.WarnWithContext(logger, "run ledger begin failed", "ledger",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run will not be recorded"),
		)
		return ledger, nil
	}
	return ledger, run
}

func newPrinter() *message.Printer {
	return message.NewPrinter(language.English)
}

// printBatchReport writes the end-of-run summary, even when tasks failed.
func printBatchReport(cmd *cobra.Command, cc *commandContext, res *batchResult, details map[string]any) error {
	if cc.jsonOutput() {
		return writeJSON(cmd, newReportJSON(res, details))
	}
	out := cmd.OutOrStdout()
	writeSummary(out, res)
	return nil
}

func writeSummary(out io.Writer, res *batchResult) {
	r := res.Report
	p := newPrinter()
	colorize := shouldColorize(out)

	for _, line := range renderSectionHeader(fmt.Sprintf("%s slice %s", r.Command, r.Slice), colorize) {
		fmt.Fprintln(out, line)
	}
	p.Fprintf(out, "Range: [%d, %d) of %d\n", r.Start, r.End, r.Listed)
	rows := [][]string{
		{"Total", p.Sprintf("%d", r.Summary.Total)},
		{"OK", p.Sprintf("%d", r.Summary.OK)},
		{"Missing", p.Sprintf("%d", r.Summary.Missing)},
		{"Failed", p.Sprintf("%d", r.Summary.Failed)},
	}
	fmt.Fprintln(out, renderTable("", []string{"Outcome", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))

	if len(r.Failures) > 0 {
		limit := min(len(r.Failures), maxListedFailures)
		failRows := make([][]string, 0, limit)
		for _, f := range r.Failures[:limit] {
			failRows = append(failRows, []string{p.Sprintf("%d", f.Position), f.Key, string(f.Status), f.Message})
		}
		fmt.Fprintln(out, renderTable("Failures", []string{"#", "Key", "Status", "Message"}, failRows,
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft}))
		if extra := len(r.Failures) - limit; extra > 0 {
			p.Fprintf(out, "... and %d more\n", extra)
		}
	}
	for _, path := range r.Outputs {
		fmt.Fprintf(out, "Wrote %s\n", path)
	}
	if res.RunID != "" {
		fmt.Fprintf(out, "Run ID: %s\n", res.RunID)
		if len(r.Failures) > 0 {
			fmt.Fprintf(out, "Rerun list: curator runs failed %s\n", shortID(res.RunID))
		}
	}
	if res.LogPath != "" {
		fmt.Fprintf(out, "Log: %s\n", res.LogPath)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// readOnlyList loads a rerun list file: one entry per line, blank lines skipped.
func readOnlyList(path string) ([]string, error) {
	entries, err := manifest.ReadList(path)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errors.New("--only list is empty")
	}
	return entries, nil
}
