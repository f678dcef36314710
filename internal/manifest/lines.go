package manifest

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadLines returns every line of path with its original terminator attached.
// A final line without a trailing newline is returned as is.
func ReadLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer file.Close()

	lines, err := DecodeLines(file)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	return lines, nil
}

// DecodeLines splits r into lines, keeping terminators.
func DecodeLines(r io.Reader) ([]string, error) {
	reader := bufio.NewReader(r)
	var lines []string
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			lines = append(lines, line)
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// WriteLines writes lines verbatim to path, creating parent directories.
func WriteLines(path string, lines []string) error {
	return writeAtomic(path, func(w io.Writer) error {
		for _, line := range lines {
			if _, err := io.WriteString(w, line); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteList writes one entry per line, each terminated by a newline.
func WriteList(path string, entries []string) error {
	return writeAtomic(path, func(w io.Writer) error {
		for _, entry := range entries {
			if _, err := io.WriteString(w, entry+"\n"); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReadList returns the trimmed, non-empty lines of path.
func ReadList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read list: %w", err)
	}
	var out []string
	for _, line := range bytes.Split(data, []byte("\n")) {
		if trimmed := strings.TrimSpace(string(line)); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out, nil
}
