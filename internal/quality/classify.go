package quality

import (
	"fmt"
	"path/filepath"
	"slices"
	"strconv"

	"curator/internal/clip"
	"curator/internal/manifest"
	"curator/internal/probe"
)

// DefaultThreshold is the duration in seconds below which a stream is too short.
const DefaultThreshold = 9.5

// Categories holds the base identifiers flagged by Classify. Each list is
// sorted and free of duplicates.
type Categories struct {
	Threshold  float64
	VideoShort []string
	AudioShort []string
	Errored    []string
	AllBad     []string
}

// Classify places each result in zero or more categories. Error classification
// is independent of durations, and absent durations never count as short.
func Classify(results []probe.Result, threshold float64) Categories {
	video := map[string]struct{}{}
	audio := map[string]struct{}{}
	errored := map[string]struct{}{}
	for _, r := range results {
		id := clip.BaseName(resultPath(r))
		if r.VideoDuration != nil && *r.VideoDuration < threshold {
			video[id] = struct{}{}
		}
		if r.AudioDuration != nil && *r.AudioDuration < threshold {
			audio[id] = struct{}{}
		}
		if r.Failed() {
			errored[id] = struct{}{}
		}
	}

	all := make(map[string]struct{}, len(video)+len(audio)+len(errored))
	for _, set := range []map[string]struct{}{video, audio, errored} {
		for id := range set {
			all[id] = struct{}{}
		}
	}
	return Categories{
		Threshold:  threshold,
		VideoShort: sortedKeys(video),
		AudioShort: sortedKeys(audio),
		Errored:    sortedKeys(errored),
		AllBad:     sortedKeys(all),
	}
}

// FileNames returns the category output file names for threshold t.
func FileNames(t float64) (video, audio, errored, all string) {
	ts := FormatThreshold(t)
	return fmt.Sprintf("video_less_than_%ss.txt", ts),
		fmt.Sprintf("audio_less_than_%ss.txt", ts),
		"read_error.txt",
		"all_bad.txt"
}

// FormatThreshold renders t the shortest way that round-trips, keeping one
// decimal for whole numbers (9.5 -> "9.5", 10 -> "10.0").
func FormatThreshold(t float64) string {
	s := strconv.FormatFloat(t, 'f', -1, 64)
	if t == float64(int64(t)) {
		s = strconv.FormatFloat(t, 'f', 1, 64)
	}
	return s
}

// WriteCategories writes the four category files into dir and returns their
// paths in video, audio, error, all order. Empty categories produce empty files.
func WriteCategories(dir string, cats Categories) ([]string, error) {
	videoName, audioName, errName, allName := FileNames(cats.Threshold)
	outputs := []struct {
		name string
		ids  []string
	}{
		{videoName, cats.VideoShort},
		{audioName, cats.AudioShort},
		{errName, cats.Errored},
		{allName, cats.AllBad},
	}
	paths := make([]string, 0, len(outputs))
	for _, out := range outputs {
		path := filepath.Join(dir, out.name)
		if err := manifest.WriteList(path, out.ids); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func resultPath(r probe.Result) string {
	if r.Path != "" {
		return r.Path
	}
	return r.Filename
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
