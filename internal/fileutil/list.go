package fileutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ListFiles returns the regular files in dir whose extension matches ext
// (case-insensitive, with or without the leading dot), sorted by path. An
// empty ext matches every file. Subdirectories are walked when recursive.
func ListFiles(dir, ext string, recursive bool) ([]string, error) {
	suffix := ""
	if ext = strings.TrimSpace(ext); ext != "" {
		suffix = "." + strings.ToLower(strings.TrimPrefix(ext, "."))
	}
	match := func(name string) bool {
		return suffix == "" || strings.HasSuffix(strings.ToLower(name), suffix)
	}

	var files []string
	if !recursive {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.Type().IsRegular() && match(entry.Name()) {
				files = append(files, filepath.Join(dir, entry.Name()))
			}
		}
		slices.Sort(files)
		return files, nil
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && match(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

// Exists reports whether path names an existing filesystem entry.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
