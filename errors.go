package cmdkit

import "fmt"

// CommandError is a business-rule failure raised intentionally by a command
// body after successful parsing ("value too large"). It is reported verbatim
// during commit and suppressed entirely during dry runs, so syntax
// harvesting is never interrupted by business logic.
type CommandError struct {
	Message string
	cause   error
}

// Errorf creates a business-rule error for a command body to return.
func Errorf(format string, args ...interface{}) *CommandError {
	return &CommandError{Message: fmt.Sprintf(format, args...)}
}

// WrapError creates a business-rule error wrapping an underlying cause.
func WrapError(cause error, format string, args ...interface{}) *CommandError {
	return &CommandError{Message: fmt.Sprintf(format, args...), cause: cause}
}

func (e *CommandError) Error() string {
	return e.Message
}

func (e *CommandError) Unwrap() error {
	return e.cause
}

// SyntaxError is an aggregated syntax failure: a token-level error that
// reached the ledger/dispatcher boundary, carrying both the human message
// and the generated syntax string for the command being invoked. This is
// what the top-level caller displays as "bad input, here is how to call
// this".
type SyntaxError struct {
	Syntax  string
	Message string
	cause   error
}

func (e *SyntaxError) Error() string {
	return e.Message
}

func (e *SyntaxError) Unwrap() error {
	return e.cause
}
