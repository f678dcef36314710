package jobs

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"curator/internal/partition"
	"curator/internal/probe"
	"curator/internal/quality"
	"curator/internal/testsupport"
)

type fakeProber map[string]float64

func (f fakeProber) Probe(_ context.Context, path string) probe.Result {
	d, ok := f[filepath.Base(path)]
	if !ok {
		return probe.ErrorResult(path, errors.New("moov atom not found"))
	}
	return probe.Result{Path: path, Filename: filepath.Base(path), VideoDuration: &d, AudioDuration: &d}
}

func TestProbeWalksAndSavesResults(t *testing.T) {
	base := t.TempDir()
	media := filepath.Join(base, "media")
	testsupport.Touch(t, media, time.Time{}, "x_0_10000.mp4", "broken.mp4")
	testsupport.Touch(t, filepath.Join(media, "sub"), time.Time{}, "y_0_10000.MP4", "skip.wav")
	output := filepath.Join(base, "video_info.json")

	report, err := Probe(context.Background(), ProbeRequest{
		Dir:       media,
		Extension: "mp4",
		Slice:     partition.Whole,
		Prober:    fakeProber{"x_0_10000.mp4": 10, "y_0_10000.MP4": 4.2},
		Output:    output,
	}, Options{Workers: 2})
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if report.Listed != 3 || report.Summary.OK != 2 || report.Summary.Failed != 1 {
		t.Fatalf("unexpected report %+v", report.Report)
	}
	if len(report.Failures) != 1 || report.Failures[0].Key != "broken.mp4" {
		t.Fatalf("unexpected failures %+v", report.Failures)
	}

	loaded, err := probe.Load(output)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 3 {
		t.Fatalf("expected 3 saved results, got %d", len(loaded))
	}
	for i := 1; i < len(loaded); i++ {
		if loaded[i-1].Path > loaded[i].Path {
			t.Fatalf("results not in sorted path order: %s > %s", loaded[i-1].Path, loaded[i].Path)
		}
	}

	cls, err := Classify(ClassifyRequest{Results: output, Threshold: quality.DefaultThreshold, OutputDir: filepath.Join(base, "bad")}, Options{})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if cls.Categories.Threshold != quality.DefaultThreshold {
		t.Fatalf("threshold = %v", cls.Categories.Threshold)
	}
	all := testsupport.ReadText(t, filepath.Join(base, "bad", "all_bad.txt"))
	if all != "broken\ny_0_10000\n" {
		t.Fatalf("all_bad = %q", all)
	}
	if len(cls.Outputs) != 4 || !strings.HasSuffix(cls.Outputs[0], "video_less_than_9.5s.txt") {
		t.Fatalf("unexpected outputs %v", cls.Outputs)
	}
}

func TestClassifyMissingResultsFile(t *testing.T) {
	_, err := Classify(ClassifyRequest{Results: filepath.Join(t.TempDir(), "none.json"), OutputDir: t.TempDir()}, Options{})
	if err == nil {
		t.Fatal("expected error")
	}
}
