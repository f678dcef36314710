// Package batcherr defines the error markers shared by every batch command.
//
// Markers classify failures so the CLI can decide whether an error aborts the
// run (bad slice parameters, unusable configuration) or is captured against a
// single task and surfaced in the end-of-run report.
package batcherr
