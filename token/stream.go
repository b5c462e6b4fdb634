// Package token implements the cursor over a command line's raw tokens.
//
// A Stream is owned by exactly one dispatch call tree at a time. Ownership
// moves to a subcommand via Drop, and strictly speculative parses work on an
// independent Copy so that failure never disturbs the original cursor.
package token

import (
	"strings"

	"github.com/cmdkit/cmdkit/invariant"
)

// Stream is a cursor over an ordered sequence of whitespace-delimited tokens.
// The token data is immutable; only the cursor and the front boundary move.
type Stream struct {
	tokens []string
	pos    int
}

// NewStream creates a Stream positioned at the first of the given tokens.
func NewStream(tokens []string) *Stream {
	return &Stream{tokens: tokens}
}

// Split tokenizes a raw input line the way the dispatch entry points do:
// trim, then split on single spaces. Interior runs of spaces produce empty
// tokens; the quote-aware string parser tolerates them.
func Split(input string) []string {
	return strings.Split(strings.TrimSpace(input), " ")
}

// Peek returns the token that the next call to Next would yield, without
// advancing. The second return is false past the end of the stream.
func (s *Stream) Peek() (string, bool) {
	return s.PeekAt(1)
}

// PeekAt looks ahead by the given offset: 1 peeks at the next token, 0 at
// the most recently consumed one, and so on. Out-of-bounds offsets return
// false rather than panicking; Peek is the safety check for Next.
func (s *Stream) PeekAt(ahead int) (string, bool) {
	target := s.pos + ahead - 1
	if target < 0 || target >= len(s.tokens) {
		return "", false
	}
	return s.tokens[target], true
}

// Next returns the token under the cursor and advances. Calling Next without
// a prior Peek confirming availability is a contract violation: the stream
// panics rather than invent input.
func (s *Stream) Next() string {
	invariant.Precondition(s.pos < len(s.tokens), "Next called on exhausted stream (pos=%d, len=%d)", s.pos, len(s.tokens))
	t := s.tokens[s.pos]
	s.pos++
	return t
}

// Drop removes the first n tokens and rebases the cursor onto the shortened
// view. Used when control passes from a parent command to a matched child so
// the child sees only its own remaining tokens.
func (s *Stream) Drop(n int) *Stream {
	invariant.InRange(n, 0, len(s.tokens), "drop count")
	s.tokens = s.tokens[n:]
	if s.pos >= n {
		s.pos -= n
	} else {
		s.pos = 0
	}
	return s
}

// Copy returns an independent cursor over the same token data, for trial
// parses that must not affect this stream on failure.
func (s *Stream) Copy() *Stream {
	return &Stream{tokens: s.tokens, pos: s.pos}
}

// Pos returns the index of the token the next call to Next would yield.
func (s *Stream) Pos() int {
	return s.pos
}

// Len returns the total number of tokens in the current view.
func (s *Stream) Len() int {
	return len(s.tokens)
}

// Remaining returns how many tokens are left to consume.
func (s *Stream) Remaining() int {
	return len(s.tokens) - s.pos
}

// Last returns the final token of the current view, or false when the view
// is empty. Completion uses it as the partial word being completed.
func (s *Stream) Last() (string, bool) {
	if len(s.tokens) == 0 {
		return "", false
	}
	return s.tokens[len(s.tokens)-1], true
}

// Consumed joins the tokens from start (inclusive) up to the cursor with
// single spaces. Parsers use it to report the raw text span behind an error.
func (s *Stream) Consumed(start int) string {
	if start < 0 {
		start = 0
	}
	end := s.pos
	if end > len(s.tokens) {
		end = len(s.tokens)
	}
	if start >= end {
		return ""
	}
	return strings.TrimSpace(strings.Join(s.tokens[start:end], " "))
}
