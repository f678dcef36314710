package manifest_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"curator/internal/batcherr"
	"curator/internal/manifest"
)

func TestDecodeRowsKeepsShortAndLongRows(t *testing.T) {
	input := "abc,12,label\nlonely\n\"q,uoted\",7\nxyz,3,a,b,c\n"
	rows, err := manifest.DecodeRows(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeRows returned error: %v", err)
	}
	want := [][]string{
		{"abc", "12", "label"},
		{"lonely"},
		{"q,uoted", "7"},
		{"xyz", "3", "a", "b", "c"},
	}
	if diff := cmp.Diff(want, fieldsOf(rows)); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
	if rows[1].Keyed() {
		t.Fatal("single-field row must not be keyed")
	}
	if rows[2].Raw != "\"q,uoted\",7\n" {
		t.Fatalf("raw bytes not kept: %q", rows[2].Raw)
	}
}

func TestDecodeRowsKeepsBlankAndMultilineRecords(t *testing.T) {
	input := "a,0,dog\r\n\r\nb,1,\"two\nlines\"\nc,2,say \"hi\"\n"
	rows, err := manifest.DecodeRows(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeRows returned error: %v", err)
	}
	want := [][]string{
		{"a", "0", "dog"},
		nil,
		{"b", "1", "two\nlines"},
		{"c", "2", "say \"hi\""},
	}
	if diff := cmp.Diff(want, fieldsOf(rows)); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
	if rows[1].Keyed() || rows[1].Raw != "\r\n" {
		t.Fatalf("blank row should be unkeyed with raw terminator, got %+v", rows[1])
	}
}

func fieldsOf(rows []manifest.Row) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = row.Fields
	}
	return out
}

func TestRowRecord(t *testing.T) {
	rec, err := manifest.NewRow("abc", " 12 ").Record()
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if rec.Name != "abc" || rec.ID != 12 {
		t.Fatalf("unexpected record %+v", rec)
	}
	if _, err := manifest.NewRow("abc", "x").Record(); !errors.Is(err, batcherr.ErrInvalidIdentifier) {
		t.Fatalf("expected invalid identifier, got %v", err)
	}
	if _, err := manifest.NewRow("abc").Record(); err == nil {
		t.Fatal("expected error for unkeyed row")
	}
}

func TestRowsRoundTrip(t *testing.T) {
	t.Run("in memory rows", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out", "vggsound.csv")
		rows := []manifest.Row{
			manifest.NewRow("abc", "12", "dog barking"),
			manifest.NewRow("short"),
			manifest.NewRow("q,uoted", "7"),
		}
		if err := manifest.WriteRows(path, rows); err != nil {
			t.Fatalf("WriteRows returned error: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "abc,12,dog barking\nshort\n\"q,uoted\",7\n" {
			t.Fatalf("unexpected encoding %q", data)
		}
		got, err := manifest.ReadRows(path)
		if err != nil {
			t.Fatalf("ReadRows returned error: %v", err)
		}
		if diff := cmp.Diff(fieldsOf(rows), fieldsOf(got)); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
	})

	tests := []struct {
		name    string
		content string
		rows    int
	}{
		{name: "crlf", content: "abc,12,dog\r\ndef,3,cat\r\n", rows: 2},
		{name: "blank rows", content: "abc,12,dog\n\n\ndef,3\n", rows: 4},
		{name: "no final newline", content: "abc,12\r\n\r\nlast,1", rows: 3},
		{name: "quoted newline", content: "abc,12,\"a\r\nb\"\r\n", rows: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := filepath.Join(dir, "in.csv")
			if err := os.WriteFile(src, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			rows, err := manifest.ReadRows(src)
			if err != nil {
				t.Fatalf("ReadRows returned error: %v", err)
			}
			if len(rows) != tt.rows {
				t.Fatalf("expected %d rows, got %d", tt.rows, len(rows))
			}
			dst := filepath.Join(dir, "out.csv")
			if err := manifest.WriteRows(dst, rows); err != nil {
				t.Fatalf("WriteRows returned error: %v", err)
			}
			data, err := os.ReadFile(dst)
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != tt.content {
				t.Fatalf("expected byte-identical output, got %q", data)
			}
		})
	}
}

func TestLinesPreserveTerminators(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.txt")
	content := "abc_12000_22000\r\n  def_0_10000  \nlast_5000_15000"
	if err := os.WriteFile(src, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	lines, err := manifest.ReadLines(src)
	if err != nil {
		t.Fatalf("ReadLines returned error: %v", err)
	}
	want := []string{"abc_12000_22000\r\n", "  def_0_10000  \n", "last_5000_15000"}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}

	dst := filepath.Join(dir, "out.txt")
	if err := manifest.WriteLines(dst, lines); err != nil {
		t.Fatalf("WriteLines returned error: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != content {
		t.Fatalf("expected byte-identical output, got %q", data)
	}
}

func TestEmptyLineManifest(t *testing.T) {
	lines, err := manifest.DecodeLines(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected no lines, got %q", lines)
	}
}

func TestListRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing_files.txt")
	if err := manifest.WriteList(path, []string{"abc,12", "def,3"}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "abc,12\ndef,3\n" {
		t.Fatalf("unexpected list content %q", data)
	}
	if err := os.WriteFile(path, []byte(" a \n\n b\r\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := manifest.ReadList(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, got); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteEmptyListCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "read_error.txt")
	if err := manifest.WriteList(path, nil); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 0 {
		t.Fatalf("expected empty file, got %d bytes", info.Size())
	}
}

func TestReadRowsMissingFile(t *testing.T) {
	if _, err := manifest.ReadRows(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Fatal("expected error for missing manifest")
	}
}
