// Package clip translates dataset records into the derived names used on disk
// and in line manifests.
//
// A Record is a (name, id) pair where id indexes a fixed ten-second segment of
// the named source clip. Two encodings derive from it:
//
//   - Filename: "{name}_{id zero-padded to 6}.{ext}", the on-disk convention.
//   - Line: "{name}_{id*1000}_{(id+10)*1000}", millisecond offsets of the window.
//
// Ids of one million or more render wider than six digits in Filename. That is
// not treated as an error; Record.Overflows lets callers surface it.
package clip
