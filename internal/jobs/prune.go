package jobs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"curator/internal/dispatch"
	"curator/internal/fileutil"
	"curator/internal/logging"
	"curator/internal/partition"
)

// DefaultMinUnderscores separates line-form names from pre-rename leftovers.
const DefaultMinUnderscores = 5

// PruneRequest describes a cleanup of stale files in one directory.
type PruneRequest struct {
	Dir            string
	Extension      string
	MinUnderscores int
	DryRun         bool
}

// PruneReport extends Report with the files selected for deletion.
type PruneReport struct {
	Report
	Candidates []string
}

// Prune deletes the files in dir (non-recursive) whose names contain fewer
// than MinUnderscores underscores. Hidden files, slice locks included, are
// never candidates. DryRun only lists them.
func Prune(ctx context.Context, req PruneRequest, opts Options) (*PruneReport, error) {
	logger := opts.logger("prune")

	files, err := fileutil.ListFiles(req.Dir, req.Extension, false)
	if err != nil {
		return nil, fmt.Errorf("list directory: %w", err)
	}
	limit := req.MinUnderscores
	if limit <= 0 {
		limit = DefaultMinUnderscores
	}
	var candidates []string
	for _, f := range files {
		name := filepath.Base(f)
		if strings.HasPrefix(name, ".") {
			continue
		}
		if strings.Count(name, "_") < limit {
			candidates = append(candidates, f)
		}
	}
	logger.Info("prune candidates selected",
		logging.String("dir", req.Dir),
		logging.Int("files", len(files)),
		logging.Int("candidates", len(candidates)),
		logging.Bool("dry_run", req.DryRun),
	)

	report := &PruneReport{
		Report:     Report{Command: "prune", Slice: partition.Whole, End: len(candidates), Listed: len(candidates)},
		Candidates: candidates,
	}
	if req.DryRun || len(candidates) == 0 {
		return report, nil
	}

	d := dispatch.New[string, string](opts.Workers,
		dispatch.WithObserver(opts.observer("prune", len(candidates))),
		dispatch.WithLogger(opts.Logger),
	)
	results := d.Run(ctx, candidates, func(_ context.Context, path string) dispatch.Result[string] {
		if err := os.Remove(path); err != nil {
			return dispatch.Failed(path, err)
		}
		return dispatch.OK(path)
	})
	report.Summary = dispatch.Summarize(results)
	report.Failures = collectFailures(candidates, results, 0, filepath.Base)
	return report, nil
}
