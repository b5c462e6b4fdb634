package cmdkit

import (
	"errors"

	"github.com/cmdkit/cmdkit/invariant"
)

// Executor is the execution process of a command.
//
// The dry parameter is load-bearing: when true, the body must only declare
// its parameters through the Arguments ledger (and may perform lightweight
// state checks) without taking effect. The same body is driven in all three
// intents - commit, syntax harvesting, and completion - so all parameters
// must be declared before any other work.
type Executor interface {
	Execute(ctx *Context, args *Arguments, dry bool) error
}

// ExecutorFunc adapts a plain function to the Executor interface.
type ExecutorFunc func(ctx *Context, args *Arguments, dry bool) error

func (f ExecutorFunc) Execute(ctx *Context, args *Arguments, dry bool) error {
	return f(ctx, args, dry)
}

// Full splits an executor into an Initialize phase, which declares syntax
// and may veto with a business-rule error, and a Run phase, which performs
// the effects. Run is never called during dry runs; business-rule errors
// from Initialize are ignored during dry runs, so state checks there are
// safe (they execute on every help or completion request, so keep them
// light).
type Full struct {
	Initialize func(ctx *Context, args *Arguments) error
	Run        func(ctx *Context, args *Arguments) error
}

func (f Full) Execute(ctx *Context, args *Arguments, dry bool) error {
	if f.Initialize != nil {
		if err := f.Initialize(ctx, args); err != nil {
			return err
		}
	}
	if dry || f.Run == nil {
		return nil
	}
	return f.Run(ctx, args)
}

// Command is a named, registrable command definition: a primary name plus
// aliases, descriptions, an optional fixed syntax string, the executor, and
// a custom-data side channel.
type Command struct {
	aliases []string // aliases[0] is the primary name
	short   string
	desc    string
	syntax  string
	hasSyn  bool
	exec    Executor
	customs map[interface{}]interface{}
}

// Name returns the command's primary name.
func (c *Command) Name() string {
	return c.aliases[0]
}

// Aliases returns the command's alternate names, excluding the primary
// name.
func (c *Command) Aliases() []string {
	out := make([]string, len(c.aliases)-1)
	copy(out, c.aliases[1:])
	return out
}

// HasName reports whether name matches the primary name or any alias.
// Matching is case-sensitive.
func (c *Command) HasName(name string) bool {
	for _, a := range c.aliases {
		if a == name {
			return true
		}
	}
	return false
}

// Short returns the one-line description, or "" when unset.
func (c *Command) Short() string {
	return c.short
}

// Description returns the long description, or "" when unset.
func (c *Command) Description() string {
	return c.desc
}

// SyntaxOverride returns the fixed syntax string, if one was set on the
// builder. When absent, help harvests syntax from a dry run instead.
func (c *Command) SyntaxOverride() (string, bool) {
	return c.syntax, c.hasSyn
}

// Executor returns the command's executor.
func (c *Command) Executor() Executor {
	return c.exec
}

// Customs implements CustomHolder.
func (c *Command) Customs() map[interface{}]interface{} {
	return c.customs
}

// Builder assembles a Command.
type Builder struct {
	cmd Command
}

// NewCommand starts building a command with the given primary name and
// aliases.
func NewCommand(name string, aliases ...string) *Builder {
	b := &Builder{}
	b.cmd.aliases = append([]string{name}, aliases...)
	b.cmd.customs = make(map[interface{}]interface{})
	return b
}

// Short sets the one-line description shown in command listings.
func (b *Builder) Short(desc string) *Builder {
	b.cmd.short = desc
	return b
}

// Description sets the long description shown in full help.
func (b *Builder) Description(desc string) *Builder {
	b.cmd.desc = desc
	return b
}

// Syntax fixes the syntax string instead of harvesting it from a dry run.
func (b *Builder) Syntax(syntax string) *Builder {
	b.cmd.syntax = syntax
	b.cmd.hasSyn = true
	return b
}

// Executor sets the command's executor.
func (b *Builder) Executor(e Executor) *Builder {
	b.cmd.exec = e
	return b
}

// Do sets a plain function as the command's executor.
func (b *Builder) Do(f ExecutorFunc) *Builder {
	b.cmd.exec = f
	return b
}

// Parent makes the command a parent of the given subcommands, dispatched
// through the stock subcommand dispatcher.
func (b *Builder) Parent(children ...*Command) *Builder {
	b.cmd.exec = NewParent(children...)
	return b
}

// Build validates and returns the command. A missing name or executor is a
// construction error.
func (b *Builder) Build() (*Command, error) {
	if b.cmd.aliases[0] == "" {
		return nil, errors.New("command has no name")
	}
	if b.cmd.exec == nil {
		return nil, errors.New("command " + b.cmd.aliases[0] + " has no executor")
	}
	cmd := b.cmd
	return &cmd, nil
}

// MustBuild is Build for registration-time command sets, where a malformed
// definition is a programming error.
func (b *Builder) MustBuild() *Command {
	cmd, err := b.Build()
	invariant.Invariant(err == nil, "invalid command definition: %v", err)
	return cmd
}
