package parse

import (
	"strconv"
	"strings"

	"github.com/cmdkit/cmdkit/token"
)

// String returns the quote-aware text parser. An unquoted token is taken
// literally. A token beginning with ' or " re-joins the swallowed whitespace
// of following tokens until the closing unescaped quote of the same kind;
// backslash escapes a quote character inside. A missing close or trailing
// characters after the close are token-level errors.
func String() Parser[string] {
	return New("string", parseString)
}

func parseString(st *token.Stream) (string, error) {
	out, ok := st.Peek()
	if !ok {
		return "", Errorf("missing token")
	}
	if out == "" {
		return st.Next(), nil
	}

	qc := out[0]
	if qc != '"' && qc != '\'' {
		return st.Next(), nil
	}

	var sb strings.Builder
	in := false
	closed := false
scan:
	for st.Remaining() > 0 {
		next := st.Next()
		sb.WriteByte(' ')
		for i := 0; i < len(next); i++ {
			ch := next[i]
			switch {
			case ch == '\\' && i+1 < len(next) && next[i+1] == qc:
				sb.WriteByte(qc)
				i++
			case ch == qc:
				sb.WriteByte(qc)
				if !in {
					in = true
				} else {
					if i != len(next)-1 {
						return "", Errorf("invalid end of quoted string: %s", next)
					}
					closed = true
					break scan
				}
			default:
				sb.WriteByte(ch)
			}
		}
	}

	joined := strings.TrimSpace(sb.String())
	if !closed || strings.HasSuffix(joined, "\\"+string(qc)) || !strings.HasSuffix(joined, string(qc)) {
		return "", Errorf("unfinished quoted string: %s", joined)
	}

	return joined[1 : len(joined)-1], nil
}

// RemainingString returns a parser that joins all remaining tokens verbatim
// into one string. Quotes are not treated specially, unlike String.
func RemainingString() Parser[string] {
	return New("text ..", func(st *token.Stream) (string, error) {
		var sb strings.Builder
		for st.Remaining() > 0 {
			sb.WriteByte(' ')
			sb.WriteString(st.Next())
		}
		return strings.TrimSpace(sb.String()), nil
	})
}

// Number returns a parser for floating-point input. The whole token must
// parse; trailing garbage is a token-level error.
func Number() Parser[float64] {
	return New("number", func(st *token.Stream) (float64, error) {
		tok := st.Next()
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return 0, Errorf("not a number: %s", tok)
		}
		return v, nil
	})
}

// Integer returns a parser for integer input with strict full-token
// parsing: "4.0" and "4-4" are token-level errors, not truncations.
func Integer() Parser[int] {
	return New("integer", func(st *token.Stream) (int, error) {
		tok := st.Next()
		v, err := strconv.Atoi(tok)
		if err != nil {
			return 0, Errorf("not an integer: %s", tok)
		}
		return v, nil
	})
}
