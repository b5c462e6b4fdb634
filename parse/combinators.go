package parse

import (
	"errors"
	"strings"

	"github.com/cmdkit/cmdkit/token"
)

// AnyOf restricts input to a fixed allow-list of literal strings, matched
// case-insensitively, then defers to inner for the canonical-cased literal.
// The resolved value is therefore always derived from the choice as it was
// declared, never from the user's casing. The suggestions are exactly the
// allow-list; anything else is a token-level error naming the input.
func AnyOf[T any](inner Parser[T], choice string, more ...string) Parser[T] {
	choices := append([]string{choice}, more...)

	p := New(strings.Join(choices, "|"), func(st *token.Stream) (T, error) {
		var zero T
		str, err := parseString(st)
		if err != nil {
			return zero, err
		}
		for _, sel := range choices {
			if strings.EqualFold(sel, str) {
				return inner.Parse(token.NewStream([]string{sel}))
			}
		}
		return zero, Errorf("unknown choice: %s", str)
	})
	return p.WithSuggestions(choices...)
}

// Union tries each parser in order against an independent copy of the
// stream; the first that succeeds on the copy is re-applied to the real
// stream to commit its consumption. If every parser fails, the combined
// error concatenates each failure message. Suggestions are the union of all
// inner suggestion sets.
//
// Ordering matters: a parser that nearly always succeeds (such as String)
// should come last, or it will shadow the more specific ones.
func Union(first, second Any, more ...Any) Parser[interface{}] {
	parsers := append([]Any{first, second}, more...)

	names := make([]string, len(parsers))
	for i, sub := range parsers {
		names[i] = sub.Typename()
	}

	p := New(strings.Join(names, "|"), func(st *token.Stream) (interface{}, error) {
		var msgs []string
		for _, sub := range parsers {
			if _, err := sub.ParseAny(st.Copy()); err != nil {
				msgs = append(msgs, err.Error())
				continue
			}
			return sub.ParseAny(st)
		}
		return nil, Errorf("%s", strings.Join(msgs, "\n"))
	})

	var suggestions []string
	seen := make(map[string]bool)
	for _, sub := range parsers {
		for _, s := range sub.Suggestions() {
			if !seen[s] {
				seen[s] = true
				suggestions = append(suggestions, s)
			}
		}
	}
	return p.WithSuggestions(suggestions...)
}

// Remain applies inner repeatedly until the stream is exhausted, collecting
// the results in order. A failure on any iteration fails the whole parse.
func Remain[T any](inner Parser[T]) Parser[[]T] {
	p := New(inner.typename+"..", func(st *token.Stream) ([]T, error) {
		var list []T
		for st.Remaining() > 0 {
			v, err := inner.Parse(st)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	})
	return p.WithSuggestions(inner.suggestions...)
}

// Opt makes inner optional: when the ledger finds no input remaining for
// this declaration, it parses def in its place instead of failing. With
// input present, Opt behaves exactly like inner.
func Opt[T any](inner Parser[T], def string) Parser[T] {
	p := New(inner.typename, inner.Parse)
	p.suggestions = inner.suggestions
	p.defTok = &def
	return p
}

// Alt makes inner optional with an already-resolved default: when the
// ledger finds no input remaining, it short-circuits to def without parsing
// anything. A default value outranks a default token on the same
// declaration.
func Alt[T any](inner Parser[T], def T) Parser[T] {
	p := New(inner.typename, inner.Parse)
	p.suggestions = inner.suggestions
	p.defVal = &def
	return p
}

// Lenient excuses token-level failures from inner by re-parsing the literal
// fallback token def instead.
//
// The stream is NOT rolled back past the failed attempt: a token consumed
// partway through a structured parse (one half of a quoted string, say) can
// leak into whatever parser runs next. That hazard is deliberate - lenient
// matching must not abort traversal - and callers own it.
func Lenient[T any](inner Parser[T], def string) Parser[T] {
	p := New(inner.typename, func(st *token.Stream) (T, error) {
		v, err := inner.Parse(st)
		if err == nil {
			return v, nil
		}
		var pe *Error
		if !errors.As(err, &pe) {
			var zero T
			return zero, err
		}
		return inner.Parse(token.NewStream([]string{def}))
	})
	p.suggestions = inner.suggestions
	p.defTok = &def
	return p
}

// Fallback excuses token-level failures from inner by returning the fixed
// value def outright. The non-rollback hazard documented on Lenient applies
// here too.
func Fallback[T any](inner Parser[T], def T) Parser[T] {
	p := New(inner.typename, func(st *token.Stream) (T, error) {
		v, err := inner.Parse(st)
		if err == nil {
			return v, nil
		}
		var pe *Error
		if !errors.As(err, &pe) {
			var zero T
			return zero, err
		}
		return def, nil
	})
	p.suggestions = inner.suggestions
	p.defVal = &def
	return p
}

// Rename returns a parser identical to inner under a different displayed
// typename, giving domain-specific names to generic parsers.
func Rename[T any](inner Parser[T], typename string) Parser[T] {
	inner.typename = typename
	return inner
}
