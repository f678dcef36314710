// Package runlog records every batch run in a SQLite ledger.
//
// Each run stores its command, slice, arguments, final counts, and the keys
// of every task that came back missing or failed. Those keys can be exported
// as a plain list and fed back to a command to rerun just the failures. The
// ledger is an audit trail, not a checkpoint: a run is never resumed from it.
//
// Schema changes bump the version in schema.go; users delete the database to
// adopt the new schema.
package runlog
