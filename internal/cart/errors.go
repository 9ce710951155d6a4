package cart

import (
	"errors"
	"fmt"
)

// ErrInvalidQuantity is returned by Add for quantities below one.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Error records a failed load or save of the remote cart document. It is
// published in State.Err; the local mutation that triggered it is kept.
type Error struct {
	Op      string `json:"op"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cart %s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("cart %s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}
