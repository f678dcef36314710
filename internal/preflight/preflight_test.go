package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"curator/internal/config"
	"curator/internal/deps"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckWritable_NotYetCreated(t *testing.T) {
	base := t.TempDir()
	result := CheckWritable("output", filepath.Join(base, "a", "b"))
	if !result.Passed {
		t.Fatalf("expected pass through existing parent, got: %s", result.Detail)
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()
	if r := CheckFreeSpace("space", dir, 0); !r.Passed {
		t.Fatalf("expected pass with zero minimum, got: %s", r.Detail)
	}
	if r := CheckFreeSpace("space", dir, 1<<30); r.Passed {
		t.Fatal("expected failure for absurd minimum")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil, nil, nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_ToolsAndTargets(t *testing.T) {
	binDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(binDir, "ffprobe"), []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", binDir)

	cfg := config.Default()
	cfg.Batch.MinFreeGiB = 0
	input := t.TempDir()
	output := filepath.Join(t.TempDir(), "out")

	results := RunAll(context.Background(), &cfg, []string{ToolFFprobe}, []Target{
		{Name: "Input directory", Path: input},
		{Name: "Output directory", Path: output, Write: true},
	})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d: %+v", len(results), results)
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}

	results = RunAll(context.Background(), &cfg, []string{ToolFFmpeg}, nil)
	if failed := Failed(results); len(failed) != 1 || failed[0].Name != "FFmpeg" {
		t.Fatalf("expected ffmpeg failure, got %+v", results)
	}
}

func TestFromDependencyOptional(t *testing.T) {
	r := FromDependency(deps.Status{Name: "x", Optional: true, Detail: "binary \"x\" not found"})
	if !r.Passed {
		t.Fatal("missing optional dependency should pass")
	}
}
