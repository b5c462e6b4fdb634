package cmdkit

import (
	"fmt"
	"strings"

	"github.com/cmdkit/cmdkit/invariant"
	"github.com/cmdkit/cmdkit/parse"
	"github.com/cmdkit/cmdkit/token"
)

// Mode selects which of the three intents an Arguments ledger serves. One
// command body code path behaves correctly under all three.
type Mode int

const (
	// ModeCommit parses real input; declared values become retrievable and
	// the body's effects run.
	ModeCommit Mode = iota
	// ModeDry declares only: each declaration records typename, defaults
	// and suggestions for syntax assembly, never consuming user input.
	ModeDry
	// ModeComplete traverses exactly like commit, but the declaration that
	// consumes the stream to its end contributes its parser's suggestions
	// as the result instead of the body performing effects.
	ModeComplete
)

// entry is the ledger record for one declared parameter.
type entry struct {
	label     string
	typename  string // decorated form, e.g. "<number>" or "[page=1]"
	parser    parse.Any
	value     interface{}
	defaulted bool
	span      string // raw token span consumed, for diagnostics
}

// Param is the read-only view of a ledger entry exposed for per-parameter
// lookup.
type Param struct {
	Label     string
	Typename  string
	Span      string
	Value     interface{}
	Defaulted bool
}

// Arguments is the declaration ledger: it mediates between a command body
// and the token stream so that the same body serves commit, dry, and
// completion runs. Bodies declare every parameter first (Write/Named), then
// - in commit mode only - retrieve resolved values in declaration order
// with Next.
type Arguments struct {
	ctx  *Context
	raw  *token.Stream
	mode Mode

	prefix  []string // labels of the dispatch chain, for generated syntax
	entries []entry
	named   map[string]int
	next    int

	err *SyntaxError // latched declaration failure, surfaced at retrieval

	completions []string
	captured    bool
}

func newArguments(ctx *Context, raw *token.Stream, mode Mode) *Arguments {
	return &Arguments{ctx: ctx, raw: raw, mode: mode}
}

// Mode returns the intent this ledger serves.
func (a *Arguments) Mode() Mode {
	return a.mode
}

// Context returns the execution context the ledger is bound to.
func (a *Arguments) Context() *Context {
	return a.ctx
}

// Write declares the next parameter.
func (a *Arguments) Write(p parse.Any) {
	a.declare("", p)
}

// Named declares the next parameter under a label, so collaborators can
// look the entry up with Entry after the body ran. A label declared twice
// resolves to the last declaration.
func (a *Arguments) Named(label string, p parse.Any) {
	a.declare(label, p)
}

func (a *Arguments) declare(label string, p parse.Any) {
	invariant.NotNil(p, "parser")
	e := entry{label: label, typename: decorate(p), parser: p}

	// After a declaration failure the ledger keeps recording typenames so
	// the syntax string covers the whole parameter list, but stops touching
	// the stream. Dry mode never touches it at all.
	if a.mode == ModeDry || a.err != nil {
		a.record(e)
		return
	}

	if a.raw.Remaining() == 0 {
		if v, ok := p.DefaultValueAny(); ok {
			e.value, e.defaulted = v, true
		} else if tok, ok := p.DefaultToken(); ok {
			v, err := p.ParseAny(token.NewStream([]string{tok}))
			if err != nil {
				a.fail(err)
			} else {
				e.value, e.defaulted = v, true
			}
		} else {
			a.fail(parse.Errorf("missing argument: expected %s", p.Typename()))
		}
		a.record(e)
		return
	}

	start := a.raw.Pos()
	v, err := p.ParseAny(a.raw)
	e.span = a.raw.Consumed(start)

	// The declaration that reached the end of input owns completion,
	// whether or not it parsed cleanly: a partial final token is exactly
	// the malformed-input case completion exists for.
	if a.mode == ModeComplete && a.raw.Remaining() == 0 {
		a.capture(p)
	}

	if err != nil {
		a.fail(err)
	} else {
		e.value = v
	}
	a.record(e)
}

func (a *Arguments) record(e entry) {
	a.entries = append(a.entries, e)
	if e.label != "" {
		if a.named == nil {
			a.named = make(map[string]int)
		}
		a.named[e.label] = len(a.entries) - 1
	}
}

func (a *Arguments) fail(err error) {
	if a.err != nil {
		return
	}
	a.err = &SyntaxError{Message: err.Error(), cause: err}
}

func (a *Arguments) capture(p parse.Any) {
	partial, _ := a.raw.Last()
	out := []string{}
	for _, s := range p.Suggestions() {
		if hasPrefixFold(s, partial) {
			out = append(out, s)
		}
	}
	a.completions = out
	a.captured = true
}

// Next returns the next already-parsed value, in declaration order. If any
// declaration failed, Next surfaces the aggregated syntax error carrying
// the full generated syntax. Calling Next during a dry run, or more times
// than parameters were declared, is a contract violation.
func (a *Arguments) Next() (interface{}, error) {
	invariant.Precondition(a.mode != ModeDry,
		"Next called during a dry run; bodies must declare parameters and return")
	if a.err != nil {
		a.err.Syntax = a.Syntax()
		return nil, a.err
	}
	invariant.Precondition(a.next < len(a.entries),
		"Next called %d times but only %d parameters were declared", a.next+1, len(a.entries))
	e := a.entries[a.next]
	a.next++
	return e.value, nil
}

// Value retrieves the next parsed value as a T. Asking for the wrong type
// is a contract violation, not a user error.
func Value[T any](a *Arguments) (T, error) {
	v, err := a.Next()
	if err != nil {
		var zero T
		return zero, err
	}
	t, ok := v.(T)
	invariant.Precondition(ok, "parameter %d resolved to %T, not the requested type", a.next-1, v)
	return t, nil
}

// Entry returns the last declared entry recorded under label.
func (a *Arguments) Entry(label string) (Param, bool) {
	i, ok := a.named[label]
	if !ok {
		return Param{}, false
	}
	e := a.entries[i]
	return Param{Label: e.label, Typename: e.typename, Span: e.span, Value: e.value, Defaulted: e.defaulted}, true
}

// Syntax returns the generated syntax string: the dispatch labels leading
// here, then every declared parameter's decorated typename, space-joined.
// Declaring zero parameters at the top of dispatch yields "".
func (a *Arguments) Syntax() string {
	parts := make([]string, 0, len(a.prefix)+len(a.entries))
	parts = append(parts, a.prefix...)
	for _, e := range a.entries {
		parts = append(parts, e.typename)
	}
	return strings.Join(parts, " ")
}

// Suggestions returns the flattened union of every declared parser's
// suggestion set, in declaration order, deduplicated.
func (a *Arguments) Suggestions() []string {
	var out []string
	seen := make(map[string]bool)
	for _, e := range a.entries {
		for _, s := range e.parser.Suggestions() {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

// Completions returns the suggestions captured for the final (possibly
// empty) token of a completion run. Outside ModeComplete, or when no
// declaration reached the end of input, the list is empty.
func (a *Arguments) Completions() []string {
	if a.completions == nil {
		return []string{}
	}
	return a.completions
}

// probe builds a commit-mode ledger over an independent copy of the stream.
// The dispatcher uses it during dry runs to resolve the subcommand matcher
// without consuming from, or recording into, the real ledger. This is the
// one controlled exception to dry-flag inheritance.
func (a *Arguments) probe() *Arguments {
	return &Arguments{ctx: a.ctx, raw: a.raw.Copy(), mode: ModeCommit}
}

// handoff transfers the ledger to a matched subcommand: the consumed name
// token is truncated from the front of the stream, the matched label joins
// the syntax prefix, and the entry ledger restarts for the child body.
// Completion state survives the handoff.
func (a *Arguments) handoff(ctx *Context) {
	a.raw.Drop(1)
	a.prefix = append(a.prefix, ctx.Label())
	a.entries = a.entries[:0]
	a.named = nil
	a.next = 0
	a.err = nil
	a.ctx = ctx
}

// decorate renders a parser's typename for generated syntax: <name> for a
// required parameter, [name] when a default value is present, [name=tok]
// when only a default token is.
func decorate(p parse.Any) string {
	if _, ok := p.DefaultValueAny(); ok {
		return "[" + p.Typename() + "]"
	}
	if tok, ok := p.DefaultToken(); ok {
		return fmt.Sprintf("[%s=%s]", p.Typename(), tok)
	}
	return "<" + p.Typename() + ">"
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
