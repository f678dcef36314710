package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"curator/internal/batcherr"
	"curator/internal/partition"
	"curator/internal/probe"
	"curator/internal/slicelock"
	"curator/internal/testsupport"
)

func TestCheckCommandRecordsFailuresForRerun(t *testing.T) {
	env := setupCLITestEnv(t)
	manifestPath := env.path("input.csv")
	testsupport.WriteText(t, manifestPath, "a,0\nb,1\nc,2\n")
	testsupport.Touch(t, env.path("media"), time.Time{}, "a_000000.mp4", "c_000002.mp4")
	lines := env.path("data", "train.txt")
	testsupport.WriteText(t, lines, "a_0_10000\nb_1000_11000\nc_2000_12000\n")
	out := env.path("cleaned")

	stdout, _, err := runCLI(t, []string{"--json", "check", manifestPath, env.path("media"), "-o", out, "--clean", manifestPath, "--clean", lines}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	var report reportJSON
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("decode report: %v\n%s", err, stdout)
	}
	if report.Total != 3 || report.OK != 2 || report.Missing != 1 {
		t.Fatalf("unexpected counts %+v", report)
	}
	if report.RunID == "" {
		t.Fatal("expected run id")
	}
	if got := testsupport.ReadText(t, filepath.Join(out, "train.txt")); got != "a_0_10000\nc_2000_12000\n" {
		t.Fatalf("cleaned lines = %q", got)
	}
	if got := testsupport.ReadText(t, filepath.Join(out, "input.csv")); got != "a,0\nc,2\n" {
		t.Fatalf("cleaned csv = %q", got)
	}

	stdout, _, err = runCLI(t, []string{"runs", "failed", report.RunID[:8]}, env.configPath)
	if err != nil {
		t.Fatalf("runs failed: %v", err)
	}
	if stdout != "b,1\n" {
		t.Fatalf("runs failed output = %q", stdout)
	}

	stdout, _, err = runCLI(t, []string{"runs", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("runs list: %v", err)
	}
	requireContains(t, stdout, "check")
	requireContains(t, stdout, "completed")
}

func TestCheckCommandTableOutput(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithoutLedger())
	manifestPath := env.path("input.csv")
	testsupport.WriteText(t, manifestPath, "a,0\n")
	t.Chdir(env.baseDir)

	stdout, _, err := runCLI(t, []string{"check", manifestPath, env.path("media")}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	requireContains(t, stdout, "Missing")
	requireContains(t, stdout, "a,0")
	// Default clean targets under ./data are absent and reported as skipped.
	requireContains(t, stdout, "vggsound.csv not found")
	if _, err := os.Stat(filepath.Join(env.baseDir, "cleaned_data", "missing_files.txt")); err != nil {
		t.Fatalf("expected default output dir: %v", err)
	}
}

func TestRenameCommandRejectsBadSlice(t *testing.T) {
	env := setupCLITestEnv(t)
	manifestPath := env.path("input.csv")
	testsupport.WriteText(t, manifestPath, "a,0\n")

	_, _, err := runCLI(t, []string{"rename", manifestPath, env.path("src"), env.path("dst"), "--num-slices", "2", "--slice-id", "2"}, env.configPath)
	if !errors.Is(err, batcherr.ErrInvalidPartition) {
		t.Fatalf("expected ErrInvalidPartition, got %v", err)
	}
	if _, statErr := os.Stat(env.path("dst")); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("no output expected before validation passes, stat err = %v", statErr)
	}
}

func TestRenameCommandRefusesHeldSlice(t *testing.T) {
	env := setupCLITestEnv(t)
	manifestPath := env.path("input.csv")
	testsupport.WriteText(t, manifestPath, "a,0\n")
	dst := env.path("dst")
	slice := partition.Spec{NumSlices: 2, SliceID: 1}

	lock, err := slicelock.Acquire(dst, "rename", slice)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer lock.Release()

	_, _, err = runCLI(t, []string{"rename", manifestPath, env.path("src"), dst, "--num-slices", "2", "--slice-id", "1"}, env.configPath)
	if !errors.Is(err, slicelock.ErrHeld) {
		t.Fatalf("expected ErrHeld, got %v", err)
	}
}

func TestReencodeCommandOnlyList(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.StubBinaries(t, env.path("bin2"), map[string]string{
		"ffmpeg": `for last; do :; done
case "$last" in *b.mp4) exit 1;; esac
: > "$last"
`,
	})
	in := env.path("in")
	testsupport.Touch(t, in, time.Time{}, "a.mp4", "b.mp4", "c.mp4")
	only := env.path("only.txt")
	testsupport.WriteText(t, only, "b.mp4\nc.mp4\n")

	stdout, _, err := runCLI(t, []string{"--json", "reencode", in, env.path("out"), "--only", only}, env.configPath)
	if err != nil {
		t.Fatalf("reencode: %v", err)
	}
	var report reportJSON
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Total != 2 || report.OK != 1 || report.Failed != 1 {
		t.Fatalf("unexpected counts %+v", report)
	}
	if len(report.Failures) != 1 || report.Failures[0].Key != "b.mp4" {
		t.Fatalf("unexpected failures %+v", report.Failures)
	}
	if _, err := os.Stat(env.path("out", "c.wav")); err != nil {
		t.Fatalf("expected wav output: %v", err)
	}
	if _, err := os.Stat(env.path("out", "a.mp4")); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("a.mp4 was not in the --only list")
	}
}

func TestReencodeCommandRejectsOddEdge(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"reencode", env.path("in"), env.path("out"), "--min-edge", "255"}, env.configPath)
	if !errors.Is(err, batcherr.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func writeProbeResults(t *testing.T, path string) {
	t.Helper()
	short, long := 3.0, 10.0
	msg := "invalid data"
	results := []probe.Result{
		{Path: "/m/a_0_10000.mp4", Filename: "a_0_10000.mp4", VideoDuration: &long, AudioDuration: &long},
		{Path: "/m/b_0_10000.mp4", Filename: "b_0_10000.mp4", VideoDuration: &short, AudioDuration: &long},
		{Path: "/m/c_0_10000.mp4", Filename: "c_0_10000.mp4", Error: &msg},
	}
	if err := probe.Save(path, results); err != nil {
		t.Fatalf("save results: %v", err)
	}
}

func TestClassifyCommandWritesCategories(t *testing.T) {
	env := setupCLITestEnv(t)
	results := env.path("video_info.json")
	writeProbeResults(t, results)
	out := env.path("bad")

	stdout, _, err := runCLI(t, []string{"classify", results, "-o", out}, env.configPath)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	requireContains(t, stdout, "Classified 3 results")
	want := map[string]string{
		"video_less_than_9.5s.txt": "b_0_10000\n",
		"audio_less_than_9.5s.txt": "",
		"read_error.txt":           "c_0_10000\n",
		"all_bad.txt":              "b_0_10000\nc_0_10000\n",
	}
	for name, content := range want {
		if got := testsupport.ReadText(t, filepath.Join(out, name)); got != content {
			t.Fatalf("%s = %q, want %q", name, got, content)
		}
	}
}

func TestClassifyCommandRejectsZeroThreshold(t *testing.T) {
	env := setupCLITestEnv(t)
	results := env.path("video_info.json")
	writeProbeResults(t, results)

	_, _, err := runCLI(t, []string{"classify", results, "-o", env.path("bad"), "--threshold", "0"}, env.configPath)
	if !errors.Is(err, batcherr.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestQueryAndStatsCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	results := env.path("video_info.json")
	writeProbeResults(t, results)
	saved := env.path("short.txt")

	stdout, _, err := runCLI(t, []string{"query", results, "--media", "video", "--op", "lt", "--value", "5", "--save", saved}, env.configPath)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	requireContains(t, stdout, "1 files with video duration lt 5 s")
	if got := testsupport.ReadText(t, saved); got != "/m/b_0_10000.mp4\n" {
		t.Fatalf("saved = %q", got)
	}

	stdout, _, err = runCLI(t, []string{"stats", results}, env.configPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	requireContains(t, stdout, "Files: 3  Read errors: 1  Valid video: 2  Valid audio: 2")

	_, _, err = runCLI(t, []string{"query", results, "--op", "between"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for unknown comparison")
	}
}

func TestProbeCommandWithStubFFprobe(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.StubBinaries(t, env.path("bin2"), map[string]string{
		"ffprobe": `cat <<'JSON'
{"streams":[{"codec_type":"video","width":320,"height":240,"avg_frame_rate":"25/1","nb_frames":"250","duration":"10.0"},{"codec_type":"audio","sample_rate":"16000","duration":"10.0","duration_ts":160000,"time_base":"1/16000"}],"format":{"duration":"10.0"}}
JSON
`,
	})
	media := env.path("media")
	testsupport.Touch(t, filepath.Join(media, "nested"), time.Time{}, "x_0_10000.mp4")
	output := env.path("info", "video_info.json")

	stdout, _, err := runCLI(t, []string{"probe", media, "-o", output}, env.configPath)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	requireContains(t, stdout, "Valid video: 1")
	loaded, err := probe.Load(output)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 1 || loaded[0].VideoDuration == nil || *loaded[0].VideoDuration != 10 {
		t.Fatalf("unexpected results %+v", loaded)
	}
}

func TestPruneCommandDryRun(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := env.path("videos")
	testsupport.Touch(t, dir, time.Time{}, "a_b_c_d_e_f.mp4", "stale_000001.mp4")

	stdout, _, err := runCLI(t, []string{"prune", dir, "--dry-run"}, env.configPath)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	requireContains(t, stdout, "1 files would be deleted")
	requireContains(t, stdout, "stale_000001.mp4 (underscores: 1)")
	if _, err := os.Stat(filepath.Join(dir, "stale_000001.mp4")); err != nil {
		t.Fatalf("dry run must not delete: %v", err)
	}
}

func TestDoctorReportsMissingTool(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Media.FFmpegBinary = "definitely-not-ffmpeg"
	writeTestConfig(t, env.configPath, env.cfg)

	stdout, _, err := runCLI(t, []string{"doctor", env.path("out")}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "1 check failed") {
		t.Fatalf("expected one failed check, got %v", err)
	}
	requireContains(t, stdout, "FFmpeg:")
	requireContains(t, stdout, "[ERROR]")
	requireContains(t, stdout, "Log directory:")
}

func TestConfigInitAndShow(t *testing.T) {
	env := setupCLITestEnv(t)
	target := env.path("generated", "config.toml")

	stdout, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, stdout, target)

	_, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected already-exists error, got %v", err)
	}

	stdout, _, err = runCLI(t, []string{"config", "show"}, target)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, stdout, "[media]")
	requireContains(t, stdout, "threshold = 9.5")
}

func TestConfigUnknownFieldFails(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteText(t, env.configPath, "[batch]\nworkerz = 3\n")

	_, _, err := runCLI(t, []string{"stats", "x.json"}, env.configPath)
	if !errors.Is(err, batcherr.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestLogsCommandShowsLatestRunLog(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteText(t, filepath.Join(env.cfg.Paths.LogDir, "curator-check-20260101T000000.000Z.log"), "old\n")
	testsupport.WriteText(t, filepath.Join(env.cfg.Paths.LogDir, "curator-check-20260102T000000.000Z.log"), "one\ntwo\nthree\n")

	stdout, _, err := runCLI(t, []string{"logs", "--command", "check", "-n", "2"}, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if stdout != "two\nthree\n" {
		t.Fatalf("logs output = %q", stdout)
	}
}
