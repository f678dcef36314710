package jobs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"curator/internal/clip"
	"curator/internal/dispatch"
	"curator/internal/fileutil"
	"curator/internal/logging"
	"curator/internal/partition"
	"curator/internal/transcode"
)

// Transcoder re-encodes one input file into dir.
type Transcoder interface {
	Transcode(ctx context.Context, input, dir string, p transcode.Params) (transcode.Outputs, error)
}

// ReencodeRequest describes a partitioned transcode of a directory.
type ReencodeRequest struct {
	InputDir   string
	OutputDir  string
	Extension  string
	Params     transcode.Params
	Slice      partition.Spec
	Transcoder Transcoder
	// Only restricts the input to files whose name or stem is listed.
	Only []string
}

// ReencodeEntry is the per-file task value.
type ReencodeEntry struct {
	Input   string
	Outputs transcode.Outputs
}

// Reencode lists the input directory in sorted order, takes the slice and
// transcodes each file. Workers default to min(CPU count, slice length).
func Reencode(ctx context.Context, req ReencodeRequest, opts Options) (*Report, error) {
	logger := opts.logger("reencode")

	files, err := fileutil.ListFiles(req.InputDir, req.Extension, false)
	if err != nil {
		return nil, fmt.Errorf("list input directory: %w", err)
	}
	if len(req.Only) > 0 {
		files = restrictTo(files, req.Only)
	}
	tasks, start, end, err := sliceTasks(files, req.Slice)
	if err != nil {
		return nil, err
	}
	logger.Info("slice selected",
		logging.String(logging.FieldSlice, req.Slice.String()),
		logging.Int("files", len(files)),
		logging.Int("start", start),
		logging.Int("end", end),
	)

	report := &Report{Command: "reencode", Slice: req.Slice, Start: start, End: end, Listed: len(files)}
	if len(tasks) == 0 {
		logger.Info("slice is empty; nothing to do")
		return report, nil
	}
	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	workers := opts.Workers
	if workers < 1 {
		workers = min(runtime.NumCPU(), len(tasks))
	}
	tc := req.Transcoder
	if tc == nil {
		tc = transcode.Transcoder{Binary: "ffmpeg"}
	}
	d := dispatch.New[string, ReencodeEntry](workers,
		dispatch.WithObserver(opts.observer("reencode "+req.Slice.String(), len(tasks))),
		dispatch.WithLogger(opts.Logger),
	)
	results := d.Run(ctx, tasks, func(ctx context.Context, input string) dispatch.Result[ReencodeEntry] {
		entry := ReencodeEntry{Input: input}
		out, err := tc.Transcode(ctx, input, req.OutputDir, req.Params)
		entry.Outputs = out
		if err != nil {
			return dispatch.Failed(entry, err)
		}
		return dispatch.OK(entry)
	})

	report.Summary = dispatch.Summarize(results)
	report.Failures = collectFailures(tasks, results, start, filepath.Base)
	return report, nil
}

// restrictTo keeps the files whose base name or stem appears in names.
func restrictTo(files, names []string) []string {
	keep := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" {
			keep[filepath.Base(n)] = struct{}{}
		}
	}
	var out []string
	for _, f := range files {
		_, byName := keep[filepath.Base(f)]
		_, byStem := keep[clip.BaseName(f)]
		if byName || byStem {
			out = append(out, f)
		}
	}
	return out
}

func trimDot(ext string) string {
	return strings.TrimPrefix(strings.TrimSpace(ext), ".")
}
