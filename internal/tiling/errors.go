package tiling

import (
	"errors"
	"fmt"
)

// ErrInvariant is matched by every structural invariant violation, such as
// a split slot or registry index outside the live window range.
var ErrInvariant = errors.New("structural invariant violation")

// InvariantError describes a structural invariant violation.
type InvariantError struct {
	Op     string
	Index  int // offending index, -1 when not applicable
	Len    int // number of live windows at the time
	Detail string
}

func (e *InvariantError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Index >= 0 {
		return fmt.Sprintf("%s: index %d (windows=%d): %s", e.Op, e.Index, e.Len, e.Detail)
	}
	return fmt.Sprintf("%s (windows=%d): %s", e.Op, e.Len, e.Detail)
}

// Is makes errors.Is(err, ErrInvariant) true for any *InvariantError.
func (e *InvariantError) Is(target error) bool {
	return target == ErrInvariant
}

// OutOfRange builds the common "index not in [0, n)" violation.
func OutOfRange(op string, index, n int) *InvariantError {
	return &InvariantError{
		Op:     op,
		Index:  index,
		Len:    n,
		Detail: fmt.Sprintf("out of range [0,%d)", n),
	}
}
