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
)

// RenameRequest describes a partitioned copy from padded names to line names.
type RenameRequest struct {
	Manifest  string
	SourceDir string
	OutputDir string
	Extension string
	Slice     partition.Spec
	// Verify compares source and destination after each copy.
	Verify bool
}

// RenameEntry is the per-row task value.
type RenameEntry struct {
	Row    manifest.Row
	Source string
	Target string
}

func (e RenameEntry) key() string {
	return e.Row.Name() + "," + e.Row.RawID()
}

// Rename copies each record's padded file to its line-form name inside the
// output directory, preserving modification times.
func Rename(ctx context.Context, req RenameRequest, opts Options) (*Report, error) {
	logger := opts.logger("rename")

	rows, err := manifest.ReadRows(req.Manifest)
	if err != nil {
		return nil, batcherr.Wrap(batcherr.ErrMissingFile, "rename", "read manifest", err)
	}
	var all []RenameEntry
	for _, row := range rows {
		if row.Keyed() {
			all = append(all, RenameEntry{Row: row})
		}
	}
	tasks, start, end, err := sliceTasks(all, req.Slice)
	if err != nil {
		return nil, err
	}
	logger.Info("slice selected",
		logging.String(logging.FieldSlice, req.Slice.String()),
		logging.Int("records", len(all)),
		logging.Int("start", start),
		logging.Int("end", end),
	)

	report := &Report{Command: "rename", Slice: req.Slice, Start: start, End: end, Listed: len(all)}
	if len(tasks) == 0 {
		logger.Info("slice is empty; nothing to do")
		return report, nil
	}
	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	copyFile := fileutil.CopyFilePreserve
	if req.Verify {
		copyFile = fileutil.CopyFileVerified
	}
	d := dispatch.New[RenameEntry, RenameEntry](opts.Workers,
		dispatch.WithObserver(opts.observer("rename "+req.Slice.String(), len(tasks))),
		dispatch.WithLogger(opts.Logger),
	)
	results := d.Run(ctx, tasks, func(_ context.Context, entry RenameEntry) dispatch.Result[RenameEntry] {
		rec, err := entry.Row.Record()
		if err != nil {
			return dispatch.Failed(entry, err)
		}
		entry.Source = filepath.Join(req.SourceDir, rec.Filename(req.Extension))
		entry.Target = filepath.Join(req.OutputDir, renamedFile(rec, req.Extension))
		if _, err := os.Stat(entry.Source); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return dispatch.Missing(entry)
			}
			return dispatch.Failed(entry, err)
		}
		if err := copyFile(entry.Source, entry.Target); err != nil {
			return dispatch.Failed(entry, batcherr.Wrap(batcherr.ErrTaskFailure, "copy", filepath.Base(entry.Source), err))
		}
		return dispatch.OK(entry)
	})

	report.Summary = dispatch.Summarize(results)
	report.Failures = collectFailures(tasks, results, start, RenameEntry.key)
	return report, nil
}

func renamedFile(rec clip.Record, ext string) string {
	return rec.Line() + "." + trimDot(ext)
}
