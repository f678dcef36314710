package preflight

import (
	"context"

	"curator/internal/config"
	"curator/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Target is a directory a batch will read or write.
type Target struct {
	Name  string
	Path  string
	Write bool
}

// RunAll executes the binary checks for the requested tools plus access and
// free-space checks for every target. Output targets that do not exist yet are
// checked through their nearest existing parent.
func RunAll(ctx context.Context, cfg *config.Config, tools []string, targets []Target) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	for _, status := range CheckSystemDeps(ctx, cfg, tools...) {
		results = append(results, FromDependency(status))
	}
	for _, target := range targets {
		if target.Write {
			check := CheckWritable(target.Name, target.Path)
			results = append(results, check)
			if check.Passed && cfg.Batch.MinFreeGiB > 0 {
				results = append(results, CheckFreeSpace(target.Name+" free space", target.Path, cfg.Batch.MinFreeGiB))
			}
			continue
		}
		results = append(results, CheckReadable(target.Name, target.Path))
	}
	return results
}

// Failed returns the checks that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}

// FromDependency converts a dependency status into a Result. Missing optional
// dependencies pass with a note.
func FromDependency(status deps.Status) Result {
	r := Result{Name: status.Name, Passed: status.Available}
	switch {
	case status.Available:
		r.Detail = status.Path
	case status.Optional:
		r.Passed = true
		r.Detail = "optional: " + status.Detail
	default:
		r.Detail = status.Detail
	}
	return r
}
