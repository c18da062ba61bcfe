package filter

import (
	"errors"
	"fmt"
)

var (
	ErrMissingKey    = errors.New("missing substitution key")
	ErrWidthExceeded = errors.New("barcode exceeds allocated width")
	ErrViewBox       = errors.New("unsupported sub-document viewBox")
	ErrMultipleShow  = errors.New("multiple show commands in the same group")
	ErrStyle         = errors.New("malformed style")
)

// MissingKeyError is returned when %(key) refers to a column absent from the
// row.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("missing key '%s' in data row", e.Key)
}

func (e *MissingKeyError) Is(target error) bool { return target == ErrMissingKey }

type WidthError struct {
	Value   string
	Width   float64
	Allowed float64
}

func (e *WidthError) Error() string {
	return fmt.Sprintf("barcode '%s' with width %g exceeds allocated width %g", e.Value, e.Width, e.Allowed)
}

func (e *WidthError) Is(target error) bool { return target == ErrWidthExceeded }

type ViewBoxError struct {
	File string
	Msg  string
}

func (e *ViewBoxError) Error() string {
	return fmt.Sprintf("sub-document '%s': %s", e.File, e.Msg)
}

func (e *ViewBoxError) Is(target error) bool { return target == ErrViewBox }
