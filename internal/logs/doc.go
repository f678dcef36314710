// Package logs locates per-run log files and tails them with bounded memory.
//
// Last-N reads keep a ring of lines; follow mode polls from a byte offset until
// the context is cancelled, so `curator logs --follow` can watch a batch that
// another process is running.
package logs
