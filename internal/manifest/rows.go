package manifest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"curator/internal/clip"
)

// Row is one CSV record together with the bytes it was read from. Rows with
// fewer than two fields cannot be keyed; a blank line is a Row with no fields.
type Row struct {
	Fields []string
	// Raw holds the record as it appeared on disk, terminator included. Empty
	// for rows built in memory.
	Raw string
}

// NewRow builds an in-memory row from fields.
func NewRow(fields ...string) Row {
	return Row{Fields: fields}
}

// Keyed reports whether the row carries a name and an id field.
func (r Row) Keyed() bool { return len(r.Fields) >= 2 }

// Name returns field 0, or "" for unkeyed rows.
func (r Row) Name() string {
	if len(r.Fields) == 0 {
		return ""
	}
	return r.Fields[0]
}

// RawID returns field 1 as written, or "" for unkeyed rows.
func (r Row) RawID() string {
	if len(r.Fields) < 2 {
		return ""
	}
	return r.Fields[1]
}

// Record parses the row's key fields into a clip.Record.
func (r Row) Record() (clip.Record, error) {
	if !r.Keyed() {
		return clip.Record{}, fmt.Errorf("row has %d fields, need at least 2", len(r.Fields))
	}
	return clip.ParseRecord(r.Name(), r.RawID())
}

// ReadRows parses every record in a CSV manifest. Rows may have differing field
// counts and blank lines become empty rows.
func ReadRows(path string) ([]Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer file.Close()

	rows, err := DecodeRows(file)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	return rows, nil
}

// DecodeRows parses CSV records from r line by line, keeping each record's raw
// bytes. A quoted field spanning lines is joined into one record.
func DecodeRows(r io.Reader) ([]Row, error) {
	lines, err := DecodeLines(r)
	if err != nil {
		return nil, err
	}
	var rows []Row
	var pending strings.Builder
	for i, line := range lines {
		pending.WriteString(line)
		raw := pending.String()
		if i < len(lines)-1 && inQuotedField(raw) {
			continue
		}
		pending.Reset()
		fields, err := parseRecord(raw)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, Row{Fields: fields, Raw: raw})
	}
	return rows, nil
}

// inQuotedField reports whether s ends inside a quoted field. Quotes only open
// a field when they are its first byte.
func inQuotedField(s string) bool {
	quoted, fieldStart := false, true
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quoted && c == '"':
			if i+1 < len(s) && s[i+1] == '"' {
				i++
				continue
			}
			quoted = false
		case quoted:
		case c == '"' && fieldStart:
			quoted = true
			fieldStart = false
		case c == ',' || c == '\n':
			fieldStart = true
		default:
			fieldStart = false
		}
	}
	return quoted
}

func parseRecord(raw string) ([]string, error) {
	body := strings.TrimSuffix(strings.TrimSuffix(raw, "\n"), "\r")
	if body == "" {
		return nil, nil
	}
	reader := csv.NewReader(strings.NewReader(body))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	fields, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	return fields, err
}

// WriteRows writes rows to path, creating parent directories.
func WriteRows(path string, rows []Row) error {
	return writeAtomic(path, func(w io.Writer) error {
		return EncodeRows(w, rows)
	})
}

// EncodeRows writes each row's raw bytes to w. Rows without raw bytes are
// encoded as CSV with a newline terminator.
func EncodeRows(w io.Writer, rows []Row) error {
	for _, row := range rows {
		if row.Raw != "" {
			if _, err := io.WriteString(w, row.Raw); err != nil {
				return err
			}
			continue
		}
		writer := csv.NewWriter(w)
		if err := writer.Write(row.Fields); err != nil {
			return err
		}
		writer.Flush()
		if err := writer.Error(); err != nil {
			return err
		}
	}
	return nil
}
