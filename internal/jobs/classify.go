package jobs

import (
	"fmt"
	"math"
	"os"

	"curator/internal/batcherr"
	"curator/internal/logging"
	"curator/internal/probe"
	"curator/internal/quality"
)

// ClassifyRequest describes a quality classification of saved probe results.
type ClassifyRequest struct {
	Results   string
	Threshold float64
	OutputDir string
}

// ClassifyReport lists the category sets and where they were written.
type ClassifyReport struct {
	Total      int
	Categories quality.Categories
	Outputs    []string
}

// Classify loads probe results, sorts identifiers into the quality categories
// and writes one list file per category. The threshold must be positive.
func Classify(req ClassifyRequest, opts Options) (*ClassifyReport, error) {
	logger := opts.logger("classify")

	threshold := req.Threshold
	if !(threshold > 0) || math.IsInf(threshold, 1) {
		return nil, batcherr.Wrap(batcherr.ErrConfiguration, "classify", fmt.Sprintf("threshold must be a positive number of seconds, got %g", threshold), nil)
	}
	results, err := probe.Load(req.Results)
	if err != nil {
		return nil, batcherr.Wrap(batcherr.ErrMissingFile, "classify", "read probe results", err)
	}
	cats := quality.Classify(results, threshold)
	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	paths, err := quality.WriteCategories(req.OutputDir, cats)
	if err != nil {
		return nil, fmt.Errorf("write categories: %w", err)
	}
	logger.Info("classification complete",
		logging.Int("results", len(results)),
		logging.Float64("threshold", threshold),
		logging.Int("video_short", len(cats.VideoShort)),
		logging.Int("audio_short", len(cats.AudioShort)),
		logging.Int("errored", len(cats.Errored)),
		logging.Int("all_bad", len(cats.AllBad)),
	)
	return &ClassifyReport{Total: len(results), Categories: cats, Outputs: paths}, nil
}
