package jobs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"curator/internal/batcherr"
	"curator/internal/partition"
	"curator/internal/testsupport"
)

func TestRenameCopiesSliceWithLineNames(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "src")
	dst := filepath.Join(base, "dst")
	manifestPath := filepath.Join(base, "input.csv")
	testsupport.WriteText(t, manifestPath, "a,0\nb,1\nc,2\nd,3\ne,4\n")
	mtime := time.Date(2020, 5, 1, 12, 0, 0, 0, time.UTC)
	testsupport.Touch(t, src, mtime, "a_000000.mp4", "b_000001.mp4", "d_000003.mp4")

	tests := []struct {
		slice   partition.Spec
		copied  []string
		missing int
		start   int
	}{
		{slice: partition.Spec{NumSlices: 2, SliceID: 0}, copied: []string{"a_0_10000.mp4", "b_1000_11000.mp4"}, missing: 1, start: 0},
		{slice: partition.Spec{NumSlices: 2, SliceID: 1}, copied: []string{"d_3000_13000.mp4"}, missing: 1, start: 3},
	}
	for _, tc := range tests {
		t.Run(tc.slice.String(), func(t *testing.T) {
			report, err := Rename(context.Background(), RenameRequest{
				Manifest:  manifestPath,
				SourceDir: src,
				OutputDir: dst,
				Extension: ".mp4",
				Slice:     tc.slice,
			}, Options{Workers: 3})
			if err != nil {
				t.Fatalf("Rename: %v", err)
			}
			if report.Start != tc.start {
				t.Fatalf("start = %d, want %d", report.Start, tc.start)
			}
			if report.Summary.OK != len(tc.copied) || report.Summary.Missing != tc.missing {
				t.Fatalf("unexpected summary %+v", report.Summary)
			}
			for _, name := range tc.copied {
				info, err := os.Stat(filepath.Join(dst, name))
				if err != nil {
					t.Fatalf("expected %s: %v", name, err)
				}
				if !info.ModTime().Equal(mtime) {
					t.Fatalf("mtime not preserved for %s: %v", name, info.ModTime())
				}
			}
			for _, f := range report.Failures {
				if f.Position < report.Start || f.Position >= report.End {
					t.Fatalf("failure position %d outside slice [%d,%d)", f.Position, report.Start, report.End)
				}
			}
		})
	}
}

func TestRenameInvalidSliceAbortsBeforeWork(t *testing.T) {
	base := t.TempDir()
	manifestPath := filepath.Join(base, "input.csv")
	testsupport.WriteText(t, manifestPath, "a,0\n")
	dst := filepath.Join(base, "dst")

	_, err := Rename(context.Background(), RenameRequest{
		Manifest:  manifestPath,
		SourceDir: base,
		OutputDir: dst,
		Extension: "mp4",
		Slice:     partition.Spec{NumSlices: 2, SliceID: 2},
	}, Options{})
	if !errors.Is(err, batcherr.ErrInvalidPartition) {
		t.Fatalf("expected ErrInvalidPartition, got %v", err)
	}
	if _, statErr := os.Stat(dst); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("output directory must not be created, stat err = %v", statErr)
	}
}

func TestRenameEmptySlice(t *testing.T) {
	base := t.TempDir()
	manifestPath := filepath.Join(base, "input.csv")
	testsupport.WriteText(t, manifestPath, "a,0\n")

	report, err := Rename(context.Background(), RenameRequest{
		Manifest:  manifestPath,
		SourceDir: base,
		OutputDir: filepath.Join(base, "dst"),
		Extension: "mp4",
		Slice:     partition.Spec{NumSlices: 3, SliceID: 2},
	}, Options{})
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if report.Summary.Total != 0 || report.Failed() {
		t.Fatalf("expected empty successful report, got %+v", report.Summary)
	}
}
