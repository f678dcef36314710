package dispatch

import "strings"

// Status discriminates task outcomes.
type Status string

const (
	StatusOK      Status = "ok"
	StatusMissing Status = "missing"
	StatusError   Status = "error"
)

// Result is the tagged outcome of one task. Value carries whatever the task
// function reports about its input, including on failure, so results can be
// zipped back to their originating records.
type Result[R any] struct {
	Status  Status
	Value   R
	Message string
}

// OK tags a successful task.
func OK[R any](value R) Result[R] {
	return Result[R]{Status: StatusOK, Value: value}
}

// Missing tags a task whose input file was absent.
func Missing[R any](value R) Result[R] {
	return Result[R]{Status: StatusMissing, Value: value}
}

// Failed tags a task that could not complete.
func Failed[R any](value R, err error) Result[R] {
	msg := "unknown error"
	if err != nil {
		msg = strings.TrimSpace(err.Error())
	}
	return Result[R]{Status: StatusError, Value: value, Message: msg}
}

// Summary aggregates result counts for end-of-run reporting.
type Summary struct {
	Total   int
	OK      int
	Missing int
	Failed  int
}

// Summarize counts results by status.
func Summarize[R any](results []Result[R]) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case StatusOK:
			s.OK++
		case StatusMissing:
			s.Missing++
		default:
			s.Failed++
		}
	}
	return s
}

// Filter returns the results carrying the given status, in order.
func Filter[R any](results []Result[R], status Status) []Result[R] {
	var out []Result[R]
	for _, r := range results {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out
}
