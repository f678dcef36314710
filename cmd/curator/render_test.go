package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"curator/internal/dispatch"
	"curator/internal/jobs"
	"curator/internal/partition"
	"curator/internal/runlog"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("FFmpeg", statusError, "not found", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "FFmpeg:", "[ERROR] not found")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("FFprobe", passFail(true), "ok", true)
	if !strings.HasPrefix(got, ansiGreen) || !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected green colored line, got %q", got)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatal("expected non-file writer to disable color")
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable("Title", []string{"A", "B"}, [][]string{{"1"}, {"2", "3"}}, []columnAlignment{alignLeft, alignRight})
	requireContains(t, out, "Title")
	if strings.Count(out, "\n") < 4 {
		t.Fatalf("expected a multi-line table, got %q", out)
	}
	if renderTable("", nil, nil, nil) != "" {
		t.Fatal("expected empty output without headers")
	}
}

func TestWriteSummaryListsFailuresAndRerunHint(t *testing.T) {
	failures := make([]runlog.Failure, 0, maxListedFailures+3)
	for i := range maxListedFailures + 3 {
		failures = append(failures, runlog.Failure{Position: 1000 + i, Key: fmt.Sprintf("k,%d", i), Status: dispatch.StatusMissing})
	}
	res := &batchResult{
		RunID:   "0123456789abcdef",
		LogPath: "/tmp/curator-rename.log",
		Report: &jobs.Report{
			Command:  "rename",
			Slice:    partition.Spec{NumSlices: 4, SliceID: 1},
			Start:    1000,
			End:      2000,
			Listed:   4000,
			Summary:  dispatch.Summary{Total: 1000, OK: 977, Missing: len(failures)},
			Failures: failures,
		},
	}
	var buf bytes.Buffer
	writeSummary(&buf, res)
	out := buf.String()
	requireContains(t, out, "rename slice 1/4")
	requireContains(t, out, "Range: [1,000, 2,000) of 4,000")
	requireContains(t, out, "... and 3 more")
	requireContains(t, out, "curator runs failed 01234567")
	requireContains(t, out, "Log: /tmp/curator-rename.log")
}
