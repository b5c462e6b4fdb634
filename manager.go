package cmdkit

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog"

	"github.com/cmdkit/cmdkit/parse"
	"github.com/cmdkit/cmdkit/token"
)

// ContextFactory decorates or replaces the freshly built execution context
// before dispatch, which is how callers attach side-channel data to a run.
type ContextFactory func(*Context) *Context

// PreExecutor is consulted before any command body runs. Returning a
// non-empty veto message stops the command: during commit the message
// becomes a business-rule error, during dry and completion runs the skip is
// silent.
type PreExecutor func(*Context) (veto string, blocked bool)

// Manager is the main entry point for a command system: it owns the
// command registry, the message and error sinks, the help generator, the
// pre-executor hook, and the operator logger, and exposes the two top-level
// APIs (Dispatch and Complete).
type Manager struct {
	commands []*Command

	msgSink Sink
	errSink Sink
	helpGen HelpGenerator
	preExec PreExecutor
	logger  zerolog.Logger
}

// Sink receives user-facing output: the context the message belongs to
// and the message itself.
type Sink func(*Context, string)

// NewManager creates a Manager with the documented defaults: messages to
// stdout, errors to stderr, the stock help generator, no pre-executor, and
// operator logging to stderr.
func NewManager() *Manager {
	m := &Manager{
		helpGen: DefaultHelpGenerator{},
		logger:  zerolog.New(os.Stderr).With().Timestamp().Logger(),
	}
	m.SetMessageHandler(nil)
	m.SetErrorHandler(nil)
	return m
}

// Add registers commands to choose from when input is processed. Duplicate
// registration fails silently.
func (m *Manager) Add(commands ...*Command) {
	for _, cmd := range commands {
		if cmd == nil || m.registered(cmd) {
			continue
		}
		m.commands = append(m.commands, cmd)
	}
}

// Remove unregisters commands.
func (m *Manager) Remove(commands ...*Command) {
	for _, cmd := range commands {
		for i, have := range m.commands {
			if have == cmd {
				m.commands = append(m.commands[:i], m.commands[i+1:]...)
				break
			}
		}
	}
}

// Commands returns a copy of the registered command set.
func (m *Manager) Commands() []*Command {
	out := make([]*Command, len(m.commands))
	copy(out, m.commands)
	return out
}

// Lookup returns the registered command whose primary name or alias set
// matches name (case-sensitive), if any.
func (m *Manager) Lookup(name string) (*Command, bool) {
	for _, cmd := range m.commands {
		if cmd.HasName(name) {
			return cmd, true
		}
	}
	return nil, false
}

func (m *Manager) registered(cmd *Command) bool {
	for _, have := range m.commands {
		if have == cmd {
			return true
		}
	}
	return false
}

// SetMessageHandler replaces the message sink. Passing nil restores the
// default of writing to standard output.
func (m *Manager) SetMessageHandler(sink Sink) {
	if sink == nil {
		sink = func(_ *Context, msg string) { fmt.Fprintln(os.Stdout, msg) }
	}
	m.msgSink = sink
}

// SetErrorHandler replaces the error sink. Passing nil restores the default
// of writing to standard error.
func (m *Manager) SetErrorHandler(sink Sink) {
	if sink == nil {
		sink = func(_ *Context, msg string) { fmt.Fprintln(os.Stderr, msg) }
	}
	m.errSink = sink
}

// SetHelpGenerator replaces the help generator. Passing nil disables help
// commands entirely; registration is dynamic, so commands gain or lose
// their help subcommand as soon as this changes.
func (m *Manager) SetHelpGenerator(gen HelpGenerator) {
	m.helpGen = gen
}

// HelpGenerator returns the current help generator, or nil when help is
// disabled.
func (m *Manager) HelpGenerator() HelpGenerator {
	return m.helpGen
}

// SetPreExecutor installs the pre-execution hook. Passing nil removes it.
func (m *Manager) SetPreExecutor(pre PreExecutor) {
	m.preExec = pre
}

// SetLogger replaces the operator logger used for fatal/unexpected
// failures.
func (m *Manager) SetLogger(logger zerolog.Logger) {
	m.logger = logger
}

func (m *Manager) sendMessage(ctx *Context, msg string) {
	m.msgSink(ctx, msg)
}

func (m *Manager) sendError(ctx *Context, msg string) {
	m.errSink(ctx, msg)
}

func (m *Manager) preExecute(ctx *Context) (string, bool) {
	if m.preExec == nil {
		return "", false
	}
	return m.preExec(ctx)
}

// Dispatch processes one input line against the registered commands: on
// success the matched command's effects run; on error the message is routed
// to the error sink. Nothing is returned besides those effects.
func (m *Manager) Dispatch(input string) {
	m.process(input, nil, m.commands, ModeCommit)
}

// DispatchWith is Dispatch with an optional context factory and an explicit
// command set overriding the registry.
func (m *Manager) DispatchWith(input string, factory ContextFactory, commands []*Command) {
	m.process(input, factory, commands, ModeCommit)
}

// Complete returns completion suggestions for the final token of the input
// line. A trailing space means the user wants to complete a fresh empty
// parameter after the last full token. Completion never surfaces errors: a
// failed harvest yields an empty list.
func (m *Manager) Complete(input string) []string {
	return m.process(input, nil, m.commands, ModeComplete)
}

// CompleteWith is Complete with an optional context factory and an explicit
// command set overriding the registry.
func (m *Manager) CompleteWith(input string, factory ContextFactory, commands []*Command) []string {
	return m.process(input, factory, commands, ModeComplete)
}

func (m *Manager) process(input string, factory ContextFactory, commands []*Command, mode Mode) (completions []string) {
	ctx := newContext(m, nil, "", mode != ModeCommit)
	if factory != nil {
		ctx = factory(ctx)
	}

	toks := token.Split(input)
	if mode == ModeComplete && len(input) > 0 && input[len(input)-1] == ' ' {
		toks = append(toks, "")
	}
	args := newArguments(ctx, token.NewStream(toks), mode)

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		m.logger.Error().
			Interface("panic", r).
			Str("input", input).
			Bytes("stack", debug.Stack()).
			Msg("command crashed")
		if mode == ModeCommit {
			ctx.ReplyError(fmt.Sprintf("The command has crashed: %v", r))
			ctx.ReplyError("Detailed information has been logged.")
		}
		completions = []string{}
	}()

	err := NewParent(commands...).Execute(ctx, args, ctx.IsDry())
	if err != nil && mode == ModeCommit {
		m.report(ctx, args, input, err)
	}

	if mode == ModeComplete {
		return args.Completions()
	}
	return nil
}

// report routes a dispatch error to the error sink according to its kind.
func (m *Manager) report(ctx *Context, args *Arguments, input string, err error) {
	var se *SyntaxError
	var ce *CommandError
	switch {
	case errors.As(err, &se):
		ctx.ReplyError(se.Message)
		ctx.ReplyError("Syntax: " + se.Syntax)
	case errors.As(err, &ce):
		ctx.ReplyError(ce.Message)
	case parse.IsError(err):
		// A token-level failure that escaped every combinator: promote it
		// with the syntax the ledger collected.
		ctx.ReplyError(err.Error())
		ctx.ReplyError("Syntax: " + args.Syntax())
	default:
		m.logger.Error().Err(err).Str("input", input).Msg("command failed unexpectedly")
		ctx.ReplyError(fmt.Sprintf("The command has crashed: %v", err))
		ctx.ReplyError("Detailed information has been logged.")
	}
}
