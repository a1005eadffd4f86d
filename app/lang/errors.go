package lang

import (
	"errors"
	"fmt"
)

// ErrInvalidExpression is matched (via errors.Is) by every syntax or lexical
// problem reported for an expression.
var ErrInvalidExpression = errors.New("invalid expression")

// ExprError represents a syntax or lexical error. Pos is the byte offset in
// the normalized expression, or -1 when the error is not tied to a position.
type ExprError struct {
	Msg string
	Pos int
}

func (e *ExprError) Error() string {
	return e.Msg
}

// Unwrap lets errors.Is match ErrInvalidExpression.
func (e *ExprError) Unwrap() error {
	return ErrInvalidExpression
}

func errorf(pos int, format string, args ...any) *ExprError {
	return &ExprError{Msg: fmt.Sprintf(format, args...), Pos: pos}
}
