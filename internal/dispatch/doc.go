// Package dispatch runs a stateless per-task function over an ordered task
// list with a bounded worker pool.
//
// Results come back in input order as tagged values (ok, missing, error), so a
// failing or panicking task never aborts its siblings and consumers branch on
// an explicit status instead of sentinel values. A Dispatcher is built per
// batch; progress is reported to an optional Observer as a side effect.
package dispatch
