package layout

import (
	"errors"
	"fmt"
)

// ErrBounds is matched by *BoundsError.
var ErrBounds = errors.New("sheet position out of bounds")

// BoundsError reports invalid sheet geometry or start position.
type BoundsError struct {
	Axis  string
	Start int
	Bound int
}

func (e *BoundsError) Error() string {
	if e.Bound <= 0 {
		return fmt.Sprintf("number of %s must be positive, got %d", e.Axis, e.Bound)
	}
	return fmt.Sprintf("starting %s %d is outside of sheet with %d %ss", e.Axis, e.Start, e.Bound, e.Axis)
}

func (e *BoundsError) Is(target error) bool {
	return target == ErrBounds
}
