package jobs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"curator/internal/batcherr"
	"curator/internal/clip"
	"curator/internal/dispatch"
	"curator/internal/fileutil"
	"curator/internal/logging"
	"curator/internal/manifest"
	"curator/internal/partition"
	"curator/internal/reconcile"
)

// MissingListName is the file check writes the missing keys to.
const MissingListName = "missing_files.txt"

// DefaultCleanTargets are the manifests check cleans when none are given.
var DefaultCleanTargets = []string{
	filepath.Join("data", "vggsound.csv"),
	filepath.Join("data", "vggsound_test.txt"),
	filepath.Join("data", "vggsound_train.txt"),
	filepath.Join("data", "vggsound_valid.txt"),
}

// CheckRequest describes a reconcile-against-filesystem run.
type CheckRequest struct {
	Manifest  string
	MediaDir  string
	OutputDir string
	Extension string
	// Clean lists the manifests to filter. Absent files are skipped.
	Clean []string
}

// CheckEntry is the per-row task value.
type CheckEntry struct {
	Row    manifest.Row
	Record clip.Record
}

func (e CheckEntry) key() string {
	return e.Row.Name() + "," + e.Row.RawID()
}

// CheckReport extends Report with the reconciliation results.
type CheckReport struct {
	Report
	Missing     []clip.Record
	MissingList string
	Outcomes    []reconcile.Outcome
	Skipped     []string
}

// Check verifies that every keyed manifest row has its media file, then drops
// the missing records from every clean target and writes the missing-key list.
func Check(ctx context.Context, req CheckRequest, opts Options) (*CheckReport, error) {
	logger := opts.logger("check")

	rows, err := manifest.ReadRows(req.Manifest)
	if err != nil {
		return nil, batcherr.Wrap(batcherr.ErrMissingFile, "check", "read manifest", err)
	}
	var tasks []CheckEntry
	for _, row := range rows {
		if row.Keyed() {
			tasks = append(tasks, CheckEntry{Row: row})
		}
	}
	logger.Info("manifest loaded",
		logging.String("manifest", req.Manifest),
		logging.Int("rows", len(rows)),
		logging.Int("tasks", len(tasks)),
	)

	d := dispatch.New[CheckEntry, CheckEntry](opts.Workers,
		dispatch.WithObserver(opts.observer("check", len(tasks))),
		dispatch.WithLogger(opts.Logger),
	)
	results := d.Run(ctx, tasks, func(_ context.Context, entry CheckEntry) dispatch.Result[CheckEntry] {
		rec, err := entry.Row.Record()
		if err != nil {
			return dispatch.Failed(entry, err)
		}
		entry.Record = rec
		path := filepath.Join(req.MediaDir, rec.Filename(req.Extension))
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return dispatch.Missing(entry)
			}
			return dispatch.Failed(entry, err)
		}
		return dispatch.OK(entry)
	})

	report := &CheckReport{
		Report: Report{
			Command:  "check",
			Slice:    partition.Whole,
			End:      len(tasks),
			Listed:   len(tasks),
			Summary:  dispatch.Summarize(results),
			Failures: collectFailures(tasks, results, 0, CheckEntry.key),
		},
	}

	keys := make([]string, 0, report.Summary.Missing)
	for _, r := range dispatch.Filter(results, dispatch.StatusMissing) {
		if r.Value.Record.Overflows() {
			logging.WarnWithContext(logger, "id exceeds padded width", "id_overflow",
				logging.String("record", r.Value.Record.Key()),
				logging.String(logging.FieldImpact, "expected filename is wider than the dataset convention"),
			)
		}
		report.Missing = append(report.Missing, r.Value.Record)
		keys = append(keys, r.Value.key())
	}

	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return report, fmt.Errorf("create output directory: %w", err)
	}
	report.MissingList = filepath.Join(req.OutputDir, MissingListName)
	if err := manifest.WriteList(report.MissingList, keys); err != nil {
		return report, fmt.Errorf("write missing list: %w", err)
	}
	report.Outputs = append(report.Outputs, report.MissingList)

	bad := reconcile.NewBadKeySet(report.Missing)
	var reps []reconcile.Representation
	for _, target := range req.Clean {
		if !fileutil.Exists(target) {
			logging.WarnWithContext(logger, "clean target not found; skipping", "clean_target_missing",
				logging.String("path", target),
			)
			report.Skipped = append(report.Skipped, target)
			continue
		}
		rep, err := reconcile.Load(target)
		if err != nil {
			return report, batcherr.Wrap(batcherr.ErrMissingFile, "check", "read "+target, err)
		}
		reps = append(reps, rep)
	}
	report.Outcomes = reconcile.Reconcile(reps, bad)
	for _, out := range report.Outcomes {
		path, err := reconcile.Save(req.OutputDir, out)
		if err != nil {
			return report, fmt.Errorf("write cleaned %s: %w", out.Name, err)
		}
		report.Outputs = append(report.Outputs, path)
		logger.Info("manifest cleaned",
			logging.String("name", out.Name),
			logging.Int("original", out.Counts.Original),
			logging.Int("kept", out.Counts.Kept),
			logging.Int("removed", out.Counts.Removed),
		)
	}
	return report, nil
}
