// Package partition splits an ordered task list into contiguous, nearly equal
// slices so independent processes can each take one.
//
// Slicing is a pure function of (length, numSlices, sliceID). Disjointness
// across processes holds only when every process sees the same ordered list,
// so callers must sort their input deterministically before slicing.
package partition

import (
	"fmt"

	"curator/internal/batcherr"
)

// Spec identifies one slice of a partitioned task list.
type Spec struct {
	NumSlices int
	SliceID   int
}

// Whole is the single-slice spec that covers every task.
var Whole = Spec{NumSlices: 1, SliceID: 0}

// Validate rejects slice parameters outside [0, NumSlices).
func (s Spec) Validate() error {
	if s.NumSlices < 1 {
		return batcherr.Wrap(batcherr.ErrInvalidPartition, "partition", fmt.Sprintf("num slices must be >= 1, got %d", s.NumSlices), nil)
	}
	if s.SliceID < 0 || s.SliceID >= s.NumSlices {
		return batcherr.Wrap(batcherr.ErrInvalidPartition, "partition", fmt.Sprintf("slice id must be in [0, %d], got %d", s.NumSlices-1, s.SliceID), nil)
	}
	return nil
}

func (s Spec) String() string {
	return fmt.Sprintf("%d/%d", s.SliceID, s.NumSlices)
}

// Bounds returns the half-open [start, end) range of the slice within a list of
// total items. The first total%NumSlices slices receive one extra item.
func (s Spec) Bounds(total int) (start, end int, err error) {
	if err := s.Validate(); err != nil {
		return 0, 0, err
	}
	if total < 0 {
		total = 0
	}
	base := total / s.NumSlices
	rem := total % s.NumSlices
	if s.SliceID < rem {
		start = s.SliceID * (base + 1)
		return start, start + base + 1, nil
	}
	start = rem*(base+1) + (s.SliceID-rem)*base
	return start, start + base, nil
}

// Slice returns the contiguous sub-sequence of items owned by spec. An empty
// result is valid and means there is nothing to do. The returned slice shares
// the backing array of items.
func Slice[T any](items []T, spec Spec) ([]T, error) {
	start, end, err := spec.Bounds(len(items))
	if err != nil {
		return nil, err
	}
	return items[start:end:end], nil
}
