package clip

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"curator/internal/batcherr"
)

const (
	// PadWidth is the zero-padded width of the id in Filename.
	PadWidth = 6
	// WindowMillis is the fixed segment length encoded in Line.
	WindowMillis = 10_000

	maxPadded = 1_000_000
)

// Record identifies one ten-second segment of a dataset clip.
type Record struct {
	Name string
	ID   int
}

// ParseRecord builds a Record from raw manifest fields. Non-numeric or negative
// ids are rejected with batcherr.ErrInvalidIdentifier.
func ParseRecord(name, rawID string) (Record, error) {
	trimmed := strings.TrimSpace(rawID)
	id, err := strconv.Atoi(trimmed)
	if err != nil {
		return Record{}, batcherr.Wrap(batcherr.ErrInvalidIdentifier, "parse record", fmt.Sprintf("%s: id %q", name, rawID), nil)
	}
	if id < 0 {
		return Record{}, batcherr.Wrap(batcherr.ErrInvalidIdentifier, "parse record", fmt.Sprintf("%s: negative id %d", name, id), nil)
	}
	return Record{Name: name, ID: id}, nil
}

// Filename returns the padded on-disk filename for name and id.
func Filename(name string, id int, ext string) string {
	return fmt.Sprintf("%s_%0*d.%s", name, PadWidth, id, strings.TrimPrefix(ext, "."))
}

// Line returns the manifest line form for name and id.
func Line(name string, id int) string {
	start := id * 1000
	return fmt.Sprintf("%s_%d_%d", name, start, start+WindowMillis)
}

// Filename returns the padded on-disk filename for the record.
func (r Record) Filename(ext string) string { return Filename(r.Name, r.ID, ext) }

// Line returns the manifest line form for the record.
func (r Record) Line() string { return Line(r.Name, r.ID) }

// Key returns the "name,id" form used by missing-key lists.
func (r Record) Key() string { return r.Name + "," + strconv.Itoa(r.ID) }

// Overflows reports whether the id is too large for the fixed padding width,
// in which case Filename is wider than usual and exact-width matching breaks.
func (r Record) Overflows() bool { return r.ID >= maxPadded }

func (r Record) String() string { return Line(r.Name, r.ID) }

// BaseName returns the file name of path without its extension.
func BaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
