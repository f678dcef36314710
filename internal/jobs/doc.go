// Package jobs implements the batch commands: each job materializes its full
// task list, takes its slice, fans the slice out through the dispatcher and
// returns a report carrying the summary and the failing keys.
//
// Jobs never abort on a single task. Only unreadable inputs and invalid slice
// parameters surface as returned errors.
package jobs
