package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrNumericAnalysis is matched by every NumericError.
	ErrNumericAnalysis = errors.New("numeric analysis failed")

	// ErrInvalidDomain is returned for a scan domain with Min >= Max, a
	// non-positive step or non-finite bounds.
	ErrInvalidDomain = errors.New("invalid domain")
)

// NumericError wraps an unexpected failure during scanning or
// classification. Invalid input never produces one; that is reported as a
// lang.ExprError before any numeric work.
type NumericError struct {
	Msg string
	Err error
}

func (e *NumericError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrNumericAnalysis, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %v", ErrNumericAnalysis, e.Msg, e.Err)
}

func (e *NumericError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrNumericAnalysis}
	}
	return []error{ErrNumericAnalysis, e.Err}
}
