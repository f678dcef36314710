package reconcile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"curator/internal/clip"
	"curator/internal/manifest"
	"curator/internal/reconcile"
)

func TestFilterRowsAndLinesFromSameSet(t *testing.T) {
	bad := reconcile.NewBadKeySet([]clip.Record{{Name: "abc", ID: 12}})

	rows := []manifest.Row{
		manifest.NewRow("abc", "12", "dog"),
		manifest.NewRow("abc", "13", "cat"),
		manifest.NewRow("broken"),
		manifest.NewRow(),
		manifest.NewRow("def", "12"),
	}
	keptRows, rowCounts := reconcile.FilterRows(rows, bad)
	wantRows := []manifest.Row{rows[1], rows[2], rows[3], rows[4]}
	if diff := cmp.Diff(wantRows, keptRows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
	if rowCounts != (reconcile.Counts{Original: 5, Kept: 4, Removed: 1}) {
		t.Fatalf("unexpected row counts %+v", rowCounts)
	}

	lines := []string{"abc_12000_22000\n", "abc_13000_23000\n", "  abc_12000_22000  \r\n", "def_12000_22000"}
	keptLines, lineCounts := reconcile.FilterLines(lines, bad)
	wantLines := []string{"abc_13000_23000\n", "def_12000_22000"}
	if diff := cmp.Diff(wantLines, keptLines); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
	if lineCounts != (reconcile.Counts{Original: 4, Kept: 2, Removed: 2}) {
		t.Fatalf("unexpected line counts %+v", lineCounts)
	}
}

func TestFilterRowsMatchesParsedIDs(t *testing.T) {
	bad := reconcile.NewBadKeySet([]clip.Record{{Name: "abc", ID: 7}})
	rows := []manifest.Row{
		manifest.NewRow("abc", "000007"),
		manifest.NewRow("abc", "seven"),
		manifest.NewRow("ABC", "7"),
	}
	kept, counts := reconcile.FilterRows(rows, bad)
	want := []manifest.Row{rows[1], rows[2]}
	if diff := cmp.Diff(want, kept); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
	if counts.Kept+counts.Removed != counts.Original {
		t.Fatalf("counts do not add up: %+v", counts)
	}
}

func TestEmptyBadKeySetKeepsEverything(t *testing.T) {
	bad := reconcile.NewBadKeySet(nil)
	rows := []manifest.Row{manifest.NewRow("a", "1"), manifest.NewRow("b")}
	lines := []string{"a_1000_11000\n"}
	outs := reconcile.Reconcile([]reconcile.Representation{
		{Name: "vggsound.csv", Kind: reconcile.KindRows, Rows: rows},
		{Name: "vggsound_test.txt", Kind: reconcile.KindLines, Lines: lines},
	}, bad)
	if len(outs) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outs))
	}
	if diff := cmp.Diff(rows, outs[0].Rows); diff != "" {
		t.Fatalf("rows changed (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(lines, outs[1].Lines); diff != "" {
		t.Fatalf("lines changed (-want +got):\n%s", diff)
	}
	for _, out := range outs {
		if out.Counts.Removed != 0 || out.Counts.Kept != out.Counts.Original {
			t.Fatalf("unexpected counts for %s: %+v", out.Name, out.Counts)
		}
	}
}

func TestBadKeySetProjectionsAgree(t *testing.T) {
	records := []clip.Record{{Name: "x", ID: 0}, {Name: "y", ID: 999999}, {Name: "x", ID: 0}}
	bad := reconcile.NewBadKeySet(records)
	if bad.Len() != 2 {
		t.Fatalf("expected duplicates to collapse, got %d", bad.Len())
	}
	for _, rec := range records {
		if !bad.HasRecord(rec) || !bad.HasLine(rec.Line()) {
			t.Fatalf("projections disagree for %v", rec)
		}
	}
	var nilSet *reconcile.BadKeySet
	if nilSet.HasLine("x_0_10000") || nilSet.HasRow(manifest.NewRow("x", "0")) {
		t.Fatal("nil set must match nothing")
	}
}

func TestLoadAndSaveFiles(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		txt     string
		wantCSV string
		wantTXT string
		counts  reconcile.Counts
	}{
		{
			name:    "lf",
			csv:     "abc,12,dog\nabc,13,cat\n",
			txt:     "abc_12000_22000\nabc_13000_23000\n",
			wantCSV: "abc,13,cat\n",
			wantTXT: "abc_13000_23000\n",
			counts:  reconcile.Counts{Original: 2, Kept: 1, Removed: 1},
		},
		{
			name:    "crlf with blank row",
			csv:     "a,0,dog\r\n\r\nabc,12,cat\r\nc,2,cow\r\n",
			txt:     "abc_12000_22000\r\nc_2000_12000\r\n",
			wantCSV: "a,0,dog\r\n\r\nc,2,cow\r\n",
			wantTXT: "c_2000_12000\r\n",
			counts:  reconcile.Counts{Original: 4, Kept: 3, Removed: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := t.TempDir()
			dst := t.TempDir()
			csvPath := filepath.Join(src, "vggsound.csv")
			txtPath := filepath.Join(src, "vggsound_train.txt")
			if err := os.WriteFile(csvPath, []byte(tt.csv), 0o644); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(txtPath, []byte(tt.txt), 0o644); err != nil {
				t.Fatal(err)
			}

			var reps []reconcile.Representation
			for _, p := range []string{csvPath, txtPath} {
				rep, err := reconcile.Load(p)
				if err != nil {
					t.Fatalf("Load(%s): %v", p, err)
				}
				reps = append(reps, rep)
			}
			if reps[0].Kind != reconcile.KindRows || reps[1].Kind != reconcile.KindLines {
				t.Fatalf("unexpected kinds %v %v", reps[0].Kind, reps[1].Kind)
			}

			bad := reconcile.NewBadKeySet([]clip.Record{{Name: "abc", ID: 12}})
			outs := reconcile.Reconcile(reps, bad)
			if outs[0].Counts != tt.counts {
				t.Fatalf("unexpected row counts %+v", outs[0].Counts)
			}
			for _, out := range outs {
				if _, err := reconcile.Save(dst, out); err != nil {
					t.Fatalf("Save(%s): %v", out.Name, err)
				}
			}

			gotCSV, err := os.ReadFile(filepath.Join(dst, "vggsound.csv"))
			if err != nil {
				t.Fatal(err)
			}
			if string(gotCSV) != tt.wantCSV {
				t.Fatalf("unexpected cleaned csv %q", gotCSV)
			}
			gotTXT, err := os.ReadFile(filepath.Join(dst, "vggsound_train.txt"))
			if err != nil {
				t.Fatal(err)
			}
			if string(gotTXT) != tt.wantTXT {
				t.Fatalf("unexpected cleaned lines %q", gotTXT)
			}
		})
	}
}
