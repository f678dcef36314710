// Package manifest reads and writes the dataset manifests curator reconciles.
//
// Two shapes exist: CSV row manifests whose first two fields are a clip name
// and a numeric segment id, and line manifests holding one derived line per
// entry with no header. Readers keep every entry in file order and writers
// never reorder or deduplicate. Line manifests round-trip byte for byte,
// including each line's terminator.
package manifest
