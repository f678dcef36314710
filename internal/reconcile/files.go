package reconcile

import (
	"fmt"
	"path/filepath"
	"strings"

	"curator/internal/manifest"
)

// KindForPath infers the manifest shape from its extension: ".csv" files hold
// rows, anything else holds lines.
func KindForPath(path string) Kind {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return KindRows
	}
	return KindLines
}

// Load reads path into a Representation named after its base name.
func Load(path string) (Representation, error) {
	rep := Representation{Name: filepath.Base(path), Kind: KindForPath(path)}
	var err error
	switch rep.Kind {
	case KindRows:
		rep.Rows, err = manifest.ReadRows(path)
	default:
		rep.Lines, err = manifest.ReadLines(path)
	}
	if err != nil {
		return Representation{}, err
	}
	return rep, nil
}

// Save writes a cleaned outcome into dir under its representation name and
// returns the written path.
func Save(dir string, out Outcome) (string, error) {
	if strings.TrimSpace(out.Name) == "" {
		return "", fmt.Errorf("save outcome: empty name")
	}
	path := filepath.Join(dir, out.Name)
	var err error
	switch out.Kind {
	case KindRows:
		err = manifest.WriteRows(path, out.Rows)
	default:
		err = manifest.WriteLines(path, out.Lines)
	}
	if err != nil {
		return "", err
	}
	return path, nil
}
