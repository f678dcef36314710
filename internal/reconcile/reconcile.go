package reconcile

import (
	"fmt"

	"curator/internal/manifest"
)

// Counts reports per-representation filtering totals. Kept+Removed == Original.
type Counts struct {
	Original int
	Kept     int
	Removed  int
}

// Kind distinguishes manifest shapes.
type Kind int

const (
	KindRows Kind = iota
	KindLines
)

func (k Kind) String() string {
	switch k {
	case KindRows:
		return "rows"
	case KindLines:
		return "lines"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Representation is one in-memory manifest to clean. Only the field matching
// Kind is read.
type Representation struct {
	Name  string
	Kind  Kind
	Rows  []manifest.Row
	Lines []string
}

// Outcome is the cleaned form of a Representation.
type Outcome struct {
	Name   string
	Kind   Kind
	Rows   []manifest.Row
	Lines  []string
	Counts Counts
}

// FilterRows drops keyed rows whose record is in bad. Rows with fewer than two
// fields are always kept. Order is preserved.
func FilterRows(rows []manifest.Row, bad *BadKeySet) ([]manifest.Row, Counts) {
	kept := make([]manifest.Row, 0, len(rows))
	for _, row := range rows {
		if bad.HasRow(row) {
			continue
		}
		kept = append(kept, row)
	}
	return kept, newCounts(len(rows), len(kept))
}

// FilterLines drops lines whose trimmed form is in bad. Kept lines are returned
// unchanged, terminators included. Order is preserved.
func FilterLines(lines []string, bad *BadKeySet) ([]string, Counts) {
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if bad.HasLine(line) {
			continue
		}
		kept = append(kept, line)
	}
	return kept, newCounts(len(lines), len(kept))
}

// Reconcile filters every representation independently against bad.
func Reconcile(reps []Representation, bad *BadKeySet) []Outcome {
	outcomes := make([]Outcome, 0, len(reps))
	for _, rep := range reps {
		out := Outcome{Name: rep.Name, Kind: rep.Kind}
		switch rep.Kind {
		case KindRows:
			out.Rows, out.Counts = FilterRows(rep.Rows, bad)
		case KindLines:
			out.Lines, out.Counts = FilterLines(rep.Lines, bad)
		}
		outcomes = append(outcomes, out)
	}
	return outcomes
}

func newCounts(original, kept int) Counts {
	return Counts{Original: original, Kept: kept, Removed: original - kept}
}
