// Package probe inspects media files and reports their stream durations.
//
// Key types:
//   - Result: per-file video/audio measurements or the read error
//   - Prober: anything that turns a path into a Result without failing
//   - FFprobe: the default Prober, backed by the ffprobe binary
//
// Probing never returns an error. A file that cannot be read yields a Result
// whose Error is set, so one corrupt file cannot abort a batch. Results are
// persisted as a JSON array via Save and Load.
package probe
