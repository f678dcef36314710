package jobs

import (
	"log/slog"

	"curator/internal/dispatch"
	"curator/internal/logging"
	"curator/internal/partition"
	"curator/internal/runlog"
)

// ProgressFunc builds the progress observer for a batch of total tasks.
type ProgressFunc func(label string, total int) dispatch.Observer

// Options carries the collaborators shared by every job.
type Options struct {
	// Workers bounds in-flight tasks. 0 lets the job pick its default.
	Workers  int
	Logger   *slog.Logger
	Progress ProgressFunc
}

func (o Options) logger(component string) *slog.Logger {
	return logging.NewComponentLogger(o.Logger, component)
}

func (o Options) observer(label string, total int) dispatch.Observer {
	if o.Progress == nil {
		return nil
	}
	return o.Progress(label, total)
}

// Report is the common end-of-run outcome of a dispatched job.
type Report struct {
	Command string
	Slice   partition.Spec
	// Start and End bound the slice within the full task list of length Listed.
	Start    int
	End      int
	Listed   int
	Summary  dispatch.Summary
	Failures []runlog.Failure
	// Outputs lists the files the job wrote besides per-task outputs.
	Outputs []string
}

// Failed reports whether any task did not succeed.
func (r *Report) Failed() bool {
	return r != nil && r.Summary.OK != r.Summary.Total
}

// collectFailures zips non-OK results back to the keys of the tasks that
// produced them. Result i belongs to tasks[i], so a panicked task with a zero
// Value still gets its key. Position is the index within the full task list.
func collectFailures[T, R any](tasks []T, results []dispatch.Result[R], offset int, key func(T) string) []runlog.Failure {
	var failures []runlog.Failure
	for i, r := range results {
		if r.Status == dispatch.StatusOK {
			continue
		}
		failures = append(failures, runlog.Failure{
			Position: offset + i,
			Key:      key(tasks[i]),
			Status:   r.Status,
			Message:  r.Message,
		})
	}
	return failures
}

// sliceTasks validates spec and returns the slice of items with its bounds.
func sliceTasks[T any](items []T, spec partition.Spec) ([]T, int, int, error) {
	tasks, err := partition.Slice(items, spec)
	if err != nil {
		return nil, 0, 0, err
	}
	start, end, _ := spec.Bounds(len(items))
	return tasks, start, end, nil
}
