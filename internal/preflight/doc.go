// Package preflight provides readiness checks for the external binaries and
// filesystem paths curator batches depend on.
//
// These checks run in two contexts:
//   - Batch commands call RunAll before dispatching so a missing ffmpeg or an
//     unwritable output directory fails the run before any task starts.
//   - The CLI "curator doctor" command renders every check with its detail.
package preflight
