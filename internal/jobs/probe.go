package jobs

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"curator/internal/dispatch"
	"curator/internal/fileutil"
	"curator/internal/logging"
	"curator/internal/partition"
	"curator/internal/probe"
)

// ProbeRequest describes a recursive media probe.
type ProbeRequest struct {
	Dir       string
	Extension string
	Slice     partition.Spec
	Prober    probe.Prober
	// Output is where results are saved as JSON. Empty skips saving.
	Output string
}

// ProbeReport extends Report with the per-file measurements in list order.
type ProbeReport struct {
	Report
	Results []probe.Result
}

// Probe measures every media file under the directory tree.
func Probe(ctx context.Context, req ProbeRequest, opts Options) (*ProbeReport, error) {
	logger := opts.logger("probe")

	files, err := fileutil.ListFiles(req.Dir, req.Extension, true)
	if err != nil {
		return nil, fmt.Errorf("walk media directory: %w", err)
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

	prober := req.Prober
	if prober == nil {
		prober = probe.FFprobe{Binary: "ffprobe"}
	}
	d := dispatch.New[string, probe.Result](opts.Workers,
		dispatch.WithObserver(opts.observer("probe "+req.Slice.String(), len(tasks))),
		dispatch.WithLogger(opts.Logger),
	)
	results := d.Run(ctx, tasks, func(ctx context.Context, path string) dispatch.Result[probe.Result] {
		res := prober.Probe(ctx, path)
		if res.Failed() {
			return dispatch.Result[probe.Result]{Status: dispatch.StatusError, Value: res, Message: *res.Error}
		}
		return dispatch.OK(res)
	})

	report := &ProbeReport{
		Report: Report{
			Command:  "probe",
			Slice:    req.Slice,
			Start:    start,
			End:      end,
			Listed:   len(files),
			Summary:  dispatch.Summarize(results),
			Failures: collectFailures(tasks, results, start, filepath.Base),
		},
		Results: make([]probe.Result, len(results)),
	}
	for i, r := range results {
		report.Results[i] = r.Value
		if r.Status == dispatch.StatusError && r.Value.Path == "" {
			report.Results[i] = probe.ErrorResult(tasks[i], errors.New(r.Message))
		}
	}

	if req.Output != "" {
		if err := probe.Save(req.Output, report.Results); err != nil {
			return report, fmt.Errorf("save probe results: %w", err)
		}
		report.Outputs = append(report.Outputs, req.Output)
		logger.Info("probe results saved", logging.String("path", req.Output), logging.Int("files", len(report.Results)))
	}
	return report, nil
}
