package cmdkit

import (
	"errors"

	"github.com/cmdkit/cmdkit/parse"
	"github.com/cmdkit/cmdkit/token"
)

// MatchState distinguishes the three outcomes of subcommand resolution.
type MatchState int

const (
	// Matched: the token named a registered subcommand.
	Matched MatchState = iota
	// Unrecognized: a token was supplied but no subcommand carries it.
	Unrecognized
	// NoToken: no subcommand token was supplied at all.
	NoToken
)

// Match is the resolved result of the subcommand matcher parameter.
type Match struct {
	State   MatchState
	Context *Context // bound child context when State == Matched
	Input   string   // the raw name the user supplied
}

// Parent is the subcommand dispatcher: an executor that matches the first
// remaining token against a set of child commands and recurses into the
// matched child's body under the same dry/commit intent as its own. A
// top-level dry run therefore harvests syntax transparently through
// arbitrarily deep subcommand chains.
type Parent struct {
	commands []*Command
	fallback Executor
}

// NewParent creates a dispatcher over the given subcommands.
func NewParent(commands ...*Command) *Parent {
	return &Parent{commands: commands}
}

// Add registers further subcommands.
func (p *Parent) Add(commands ...*Command) *Parent {
	p.commands = append(p.commands, commands...)
	return p
}

// WithFallback sets the executor to run, in commit mode only, when no
// subcommand token was supplied at all (as opposed to an unrecognized one).
// Configuring a fallback also makes the subcommand slot optional in
// generated syntax.
func (p *Parent) WithFallback(e Executor) *Parent {
	p.fallback = e
	return p
}

// candidates returns the selectable commands, with the stock help command
// injected while the owning Manager has a help generator.
func (p *Parent) candidates(ctx *Context) []*Command {
	if m := ctx.Manager(); m != nil && m.HelpGenerator() != nil {
		return append([]*Command{helpCommand(p)}, p.commands...)
	}
	return p.commands
}

func (p *Parent) Execute(ctx *Context, args *Arguments, dry bool) error {
	candidates := p.candidates(ctx)
	matcher := matchParser(ctx, candidates, p.fallback != nil)
	args.Named("command", matcher)

	if args.Mode() == ModeDry {
		// Resolution must still happen to discover which child's syntax to
		// harvest, but over a probe so the real ledger stays untouched. A
		// token-level failure here just means no further command-level
		// harvesting is possible.
		probe := args.probe()
		probe.Write(matcher)
		v, err := probe.Next()
		if err != nil {
			return nil
		}
		m := v.(Match)
		if m.State != Matched {
			return nil
		}
		args.handoff(m.Context)
		return runCommand(m.Context, args, true)
	}

	v, err := args.Next()
	if err != nil {
		if args.Mode() == ModeComplete {
			return nil
		}
		return err
	}

	m := v.(Match)
	switch m.State {
	case Matched:
		args.handoff(m.Context)
		return runCommand(m.Context, args, ctx.IsDry())
	case NoToken:
		if p.fallback != nil && args.Mode() == ModeCommit {
			return p.fallback.Execute(ctx, args, false)
		}
		return nil
	default:
		if args.Mode() == ModeComplete {
			return nil
		}
		return p.unknown(ctx)
	}
}

func (p *Parent) unknown(ctx *Context) error {
	suggest := "help"
	if ctx.Label() != "" {
		suggest = ctx.Label() + " help"
	}
	return Errorf("Unknown command. Try %q.", suggest)
}

// runCommand invokes a command body, consulting the Manager's pre-executor
// first. A veto is a business-rule error in commit mode and a silent skip
// otherwise; business-rule errors coming back from a dry-run body are
// swallowed so harvesting continues.
func runCommand(ctx *Context, args *Arguments, dry bool) error {
	if m := ctx.Manager(); m != nil {
		if msg, veto := m.preExecute(ctx); veto {
			if args.Mode() != ModeCommit {
				return nil
			}
			return Errorf("%s", msg)
		}
	}
	err := ctx.Command().Executor().Execute(ctx, args, dry)
	if err != nil && dry {
		var ce *CommandError
		if errors.As(err, &ce) {
			return nil
		}
	}
	return err
}

// matchParser builds the "command matcher" parameter: one parser consuming
// a single (quote-aware) token and resolving it to a bound child context.
// Suggestions are all candidate names and aliases. When the subcommand slot
// is optional, an empty stream resolves to the NoToken state via the
// parser's default value.
func matchParser(parent *Context, commands []*Command, optional bool) parse.Parser[Match] {
	var names []string
	for _, cmd := range commands {
		names = append(names, cmd.Name())
		names = append(names, cmd.Aliases()...)
	}

	p := parse.New("command", func(st *token.Stream) (Match, error) {
		name, err := parse.String().Parse(st)
		if err != nil {
			return Match{}, err
		}
		for _, cmd := range commands {
			if cmd.HasName(name) {
				return Match{State: Matched, Context: parent.child(cmd, name), Input: name}, nil
			}
		}
		return Match{State: Unrecognized, Input: name}, nil
	}).WithSuggestions(names...)

	if optional {
		p = p.WithDefaultValue(Match{State: NoToken})
	}
	return p
}
