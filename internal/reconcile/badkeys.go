// Package reconcile removes a set of bad records from every manifest that
// describes the dataset, keeping row and line manifests consistent.
//
// A BadKeySet holds two projections of one logical set: the parsed records
// used to match CSV rows and their derived line strings used to match line
// manifests. Both are built together in NewBadKeySet and never change after.
package reconcile

import (
	"strings"

	"curator/internal/clip"
	"curator/internal/manifest"
)

// BadKeySet is an immutable set of records to drop from manifests.
type BadKeySet struct {
	records map[clip.Record]struct{}
	lines   map[string]struct{}
}

// NewBadKeySet builds both projections from records. Duplicates collapse.
func NewBadKeySet(records []clip.Record) *BadKeySet {
	set := &BadKeySet{
		records: make(map[clip.Record]struct{}, len(records)),
		lines:   make(map[string]struct{}, len(records)),
	}
	for _, rec := range records {
		set.records[rec] = struct{}{}
		set.lines[rec.Line()] = struct{}{}
	}
	return set
}

// Len returns the number of distinct records in the set.
func (b *BadKeySet) Len() int {
	if b == nil {
		return 0
	}
	return len(b.records)
}

// HasRecord reports whether rec is in the record projection.
func (b *BadKeySet) HasRecord(rec clip.Record) bool {
	if b == nil {
		return false
	}
	_, ok := b.records[rec]
	return ok
}

// HasRow reports whether a keyed row parses to a record in the set. Unkeyed rows
// and rows with unparsable ids never match.
func (b *BadKeySet) HasRow(row manifest.Row) bool {
	if b.Len() == 0 || !row.Keyed() {
		return false
	}
	rec, err := row.Record()
	if err != nil {
		return false
	}
	return b.HasRecord(rec)
}

// HasLine reports whether the whitespace-trimmed line is in the line projection.
func (b *BadKeySet) HasLine(line string) bool {
	if b == nil {
		return false
	}
	_, ok := b.lines[strings.TrimSpace(line)]
	return ok
}
