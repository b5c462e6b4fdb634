// Package parse implements the argument parsers and combinators that command
// bodies declare against the declaration ledger.
//
// A Parser is an immutable, stateless description of how to consume one
// logical parameter from a token stream: a human-readable typename (for
// generated syntax), an optional default token and/or default value
// (substituted by the ledger when no input remains; the value wins when both
// are present), the consumption function itself, and optional completion
// suggestions. Combinators build new Parsers by wrapping existing ones.
package parse

import (
	"errors"
	"fmt"

	"github.com/cmdkit/cmdkit/token"
)

// Error is a token-level failure: a single parser could not interpret the
// tokens in front of it. Combinators built to recover from expected failures
// (Union, Lenient, Fallback) branch on this type; any Error that escapes to
// the dispatcher is promoted to an aggregated syntax error there.
type Error struct {
	msg string
}

// Errorf creates a token-level parse error.
func Errorf(format string, args ...interface{}) *Error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return e.msg
}

// IsError reports whether err is (or wraps) a token-level parse error.
func IsError(err error) bool {
	var pe *Error
	return errors.As(err, &pe)
}

// Parser consumes tokens at the current stream position into one typed
// value. Parsers are pure with respect to the stream they are given: the
// same stream state always produces the same result.
//
// The consumption function may assume at least one token is available; the
// ledger and every stock combinator uphold that guarantee before calling it.
type Parser[T any] struct {
	typename    string
	fn          func(*token.Stream) (T, error)
	suggestions []string
	defTok      *string
	defVal      *T
}

// New creates a Parser from a typename and a consumption function. Custom
// parameter types plug in here; everything else in this package is built the
// same way.
func New[T any](typename string, fn func(*token.Stream) (T, error)) Parser[T] {
	return Parser[T]{typename: typename, fn: fn}
}

// Typename returns the human-friendly name of the value this parser
// produces. Generated syntax wraps it in <> or [] depending on defaults.
func (p Parser[T]) Typename() string {
	return p.typename
}

// Parse consumes tokens from the stream and resolves the value, failing
// with a token-level *Error on malformed input.
func (p Parser[T]) Parse(st *token.Stream) (T, error) {
	return p.fn(st)
}

// Suggestions returns tab-completion candidates, or nil when the parser has
// none.
func (p Parser[T]) Suggestions() []string {
	return p.suggestions
}

// DefaultToken returns the literal token the ledger should parse in place
// of missing input, if one is configured.
func (p Parser[T]) DefaultToken() (string, bool) {
	if p.defTok == nil {
		return "", false
	}
	return *p.defTok, true
}

// DefaultValue returns the already-resolved value the ledger should use in
// place of missing input. It takes priority over DefaultToken.
func (p Parser[T]) DefaultValue() (T, bool) {
	if p.defVal == nil {
		var zero T
		return zero, false
	}
	return *p.defVal, true
}

// WithSuggestions returns a copy of the parser with the given completion
// candidates.
func (p Parser[T]) WithSuggestions(suggestions ...string) Parser[T] {
	p.suggestions = suggestions
	return p
}

// WithDefaultToken returns a copy of the parser carrying a default token.
func (p Parser[T]) WithDefaultToken(tok string) Parser[T] {
	p.defTok = &tok
	return p
}

// WithDefaultValue returns a copy of the parser carrying a default value.
func (p Parser[T]) WithDefaultValue(v T) Parser[T] {
	p.defVal = &v
	return p
}

// Any is the type-erased view of a Parser that the declaration ledger and
// the Union combinator operate on.
type Any interface {
	Typename() string
	Suggestions() []string
	DefaultToken() (string, bool)
	DefaultValueAny() (interface{}, bool)
	ParseAny(st *token.Stream) (interface{}, error)
}

// ParseAny implements Any.
func (p Parser[T]) ParseAny(st *token.Stream) (interface{}, error) {
	return p.fn(st)
}

// DefaultValueAny implements Any.
func (p Parser[T]) DefaultValueAny() (interface{}, bool) {
	if p.defVal == nil {
		return nil, false
	}
	return *p.defVal, true
}
