package quality

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"curator/internal/probe"
)

// DurationStats summarizes one media kind's durations.
type DurationStats struct {
	Count int
	Min   float64
	Max   float64
	Mean  float64
}

// Stats summarizes a set of probe results.
type Stats struct {
	Total   int
	Errored int
	Video   DurationStats
	Audio   DurationStats
}

// Summarize computes totals and per-media duration statistics.
func Summarize(results []probe.Result) Stats {
	s := Stats{Total: len(results)}
	var video, audio []float64
	for _, r := range results {
		if r.Failed() {
			s.Errored++
		}
		if d, ok := r.Duration("video"); ok {
			video = append(video, d)
		}
		if d, ok := r.Duration("audio"); ok {
			audio = append(audio, d)
		}
	}
	s.Video = durationStats(video)
	s.Audio = durationStats(audio)
	return s
}

func durationStats(values []float64) DurationStats {
	if len(values) == 0 {
		return DurationStats{}
	}
	ds := DurationStats{Count: len(values), Min: math.Inf(1), Max: math.Inf(-1)}
	sum := 0.0
	for _, v := range values {
		ds.Min = min(ds.Min, v)
		ds.Max = max(ds.Max, v)
		sum += v
	}
	ds.Mean = sum / float64(len(values))
	return ds
}

// Op is a duration comparison.
type Op string

const (
	OpLess    Op = "lt"
	OpGreater Op = "gt"
	OpEqual   Op = "eq"
)

// equalTolerance is how close a duration must be to count as equal.
const equalTolerance = 0.01

// ParseOp accepts "lt", "gt", "eq" and their symbol forms.
func ParseOp(s string) (Op, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lt", "<", "less":
		return OpLess, nil
	case "gt", ">", "greater":
		return OpGreater, nil
	case "eq", "=", "==", "equal":
		return OpEqual, nil
	default:
		return "", fmt.Errorf("unknown comparison %q (want lt, gt or eq)", s)
	}
}

// ParseMedia validates a media kind.
func ParseMedia(s string) (string, error) {
	media := strings.ToLower(strings.TrimSpace(s))
	if media != "video" && media != "audio" {
		return "", fmt.Errorf("media must be video or audio, got %q", s)
	}
	return media, nil
}

// FilterByDuration returns results whose media duration compares to value,
// sorted by ascending duration. Results without that duration are skipped.
func FilterByDuration(results []probe.Result, media string, op Op, value float64) []probe.Result {
	var out []probe.Result
	for _, r := range results {
		d, ok := r.Duration(media)
		if !ok {
			continue
		}
		var match bool
		switch op {
		case OpLess:
			match = d < value
		case OpGreater:
			match = d > value
		case OpEqual:
			match = math.Abs(d-value) < equalTolerance
		}
		if match {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b probe.Result) int {
		da, _ := a.Duration(media)
		db, _ := b.Duration(media)
		return cmp.Compare(da, db)
	})
	return out
}
