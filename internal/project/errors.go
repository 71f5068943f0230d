package project

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("project not found")

// ValidationError rejects a request before any ledger write happens.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func invalidf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}
