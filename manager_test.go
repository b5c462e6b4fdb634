package cmdkit

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/cmdkit/cmdkit/parse"
)

type capture struct {
	msgs []string
	errs []string
}

func newTestManager() (*Manager, *capture) {
	cap := &capture{}
	m := NewManager()
	m.SetLogger(zerolog.Nop())
	m.SetMessageHandler(func(_ *Context, msg string) { cap.msgs = append(cap.msgs, msg) })
	m.SetErrorHandler(func(_ *Context, msg string) { cap.errs = append(cap.errs, msg) })
	return m, cap
}

func addCommand() *Command {
	return NewCommand("add").
		Short("Adds two numbers.").
		Do(func(ctx *Context, args *Arguments, dry bool) error {
			args.Write(parse.Number())
			args.Write(parse.Number())
			if dry {
				return nil
			}
			x, err := Value[float64](args)
			if err != nil {
				return err
			}
			y, err := Value[float64](args)
			if err != nil {
				return err
			}
			ctx.Reply(strconv.FormatFloat(x+y, 'f', -1, 64))
			return nil
		}).
		MustBuild()
}

func goCommand() *Command {
	return NewCommand("go").
		Short("Moves in a direction.").
		Do(func(ctx *Context, args *Arguments, dry bool) error {
			args.Write(parse.AnyOf(parse.String(), "North", "South", "East", "West"))
			if dry {
				return nil
			}
			dir, err := Value[string](args)
			if err != nil {
				return err
			}
			ctx.Reply("moving " + dir)
			return nil
		}).
		MustBuild()
}

func TestDispatchCommit(t *testing.T) {
	m, cap := newTestManager()
	m.Add(addCommand())

	m.Dispatch("add 2 3")

	require.Empty(t, cap.errs)
	require.Equal(t, []string{"5"}, cap.msgs)
}

func TestDispatchSyntaxError(t *testing.T) {
	m, cap := newTestManager()
	m.Add(addCommand())

	m.Dispatch("add 2a 3")

	want := []string{
		"not a number: 2a",
		"Syntax: add <number> <number>",
	}
	if diff := cmp.Diff(want, cap.errs); diff != "" {
		t.Fatalf("error output mismatch (-want +got):\n%s", diff)
	}
	require.Empty(t, cap.msgs)
}

func TestDispatchMissingArgument(t *testing.T) {
	m, cap := newTestManager()
	m.Add(addCommand())

	m.Dispatch("add 2")

	want := []string{
		"missing argument: expected number",
		"Syntax: add <number> <number>",
	}
	if diff := cmp.Diff(want, cap.errs); diff != "" {
		t.Fatalf("error output mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	m, cap := newTestManager()
	m.Add(addCommand())

	m.Dispatch("bogus")

	require.Equal(t, []string{`Unknown command. Try "help".`}, cap.errs)
}

func TestDispatchUnknownSubcommand(t *testing.T) {
	m, cap := newTestManager()
	m.Add(NewCommand("parent").Parent(goCommand()).MustBuild())

	m.Dispatch("parent bogus")

	require.Equal(t, []string{`Unknown command. Try "parent help".`}, cap.errs)
}

func TestDispatchSubcommand(t *testing.T) {
	m, cap := newTestManager()
	m.Add(NewCommand("parent").Parent(addCommand()).MustBuild())

	m.Dispatch("parent add 1 2")

	require.Empty(t, cap.errs)
	require.Equal(t, []string{"3"}, cap.msgs)
}

func TestDispatchSubcommandSyntaxHasChain(t *testing.T) {
	m, cap := newTestManager()
	m.Add(NewCommand("parent").Parent(addCommand()).MustBuild())

	m.Dispatch("parent add x 2")

	want := []string{
		"not a number: x",
		"Syntax: parent add <number> <number>",
	}
	if diff := cmp.Diff(want, cap.errs); diff != "" {
		t.Fatalf("error output mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatchAlias(t *testing.T) {
	m, cap := newTestManager()
	cmd := NewCommand("add", "sum").
		Do(func(ctx *Context, args *Arguments, dry bool) error {
			args.Write(parse.Number())
			args.Write(parse.Number())
			if dry {
				return nil
			}
			ctx.Reply("called as " + ctx.Label())
			return nil
		}).
		MustBuild()
	m.Add(cmd)

	m.Dispatch("sum 1 2")

	require.Equal(t, []string{"called as sum"}, cap.msgs)
}

func TestDispatchFallback(t *testing.T) {
	m, cap := newTestManager()
	dispatcher := NewParent(goCommand()).WithFallback(
		ExecutorFunc(func(ctx *Context, args *Arguments, dry bool) error {
			if !dry {
				ctx.Reply("at the crossroads")
			}
			return nil
		}))
	m.Add(NewCommand("parent").Executor(dispatcher).MustBuild())

	m.Dispatch("parent")

	require.Empty(t, cap.errs)
	require.Equal(t, []string{"at the crossroads"}, cap.msgs)
}

func TestDispatchCommandError(t *testing.T) {
	m, cap := newTestManager()
	m.Add(NewCommand("fail").
		Do(func(ctx *Context, args *Arguments, dry bool) error {
			if dry {
				return nil
			}
			return Errorf("value too large")
		}).
		MustBuild())

	m.Dispatch("fail")

	require.Equal(t, []string{"value too large"}, cap.errs)
}

func TestDispatchCrashRecovery(t *testing.T) {
	m, cap := newTestManager()
	m.Add(NewCommand("boom").
		Do(func(ctx *Context, args *Arguments, dry bool) error {
			if dry {
				return nil
			}
			panic("kaput")
		}).
		MustBuild())

	m.Dispatch("boom")

	require.Len(t, cap.errs, 2)
	require.Equal(t, "The command has crashed: kaput", cap.errs[0])
	require.Equal(t, "Detailed information has been logged.", cap.errs[1])
}

func TestDispatchPreExecutorVeto(t *testing.T) {
	m, cap := newTestManager()
	m.Add(addCommand())
	m.SetPreExecutor(func(ctx *Context) (string, bool) {
		return "You do not have permission to use this command.", true
	})

	m.Dispatch("add 2 3")

	require.Empty(t, cap.msgs)
	require.Equal(t, []string{"You do not have permission to use this command."}, cap.errs)
}

func TestCompleteCommandNames(t *testing.T) {
	m, _ := newTestManager()
	m.Add(addCommand(), goCommand())

	got := m.Complete("he")

	require.Equal(t, []string{"help"}, got)
}

func TestCompleteParameterSuggestions(t *testing.T) {
	m, _ := newTestManager()
	m.Add(goCommand())

	got := m.Complete("go ")

	require.Equal(t, []string{"North", "South", "East", "West"}, got)
}

func TestCompletePartialParameter(t *testing.T) {
	m, _ := newTestManager()
	m.Add(goCommand())

	got := m.Complete("go s")

	require.Equal(t, []string{"South"}, got)
}

func TestCompleteSubcommandNames(t *testing.T) {
	m, _ := newTestManager()
	m.Add(NewCommand("parent").Parent(addCommand(), goCommand()).MustBuild())

	got := m.Complete("parent ")

	require.Equal(t, []string{"help", "add", "go"}, got)
}

func TestCompleteNoCandidates(t *testing.T) {
	m, _ := newTestManager()
	m.Add(addCommand())

	// Numbers suggest nothing; completion still returns an empty list, not
	// nil, and no error output.
	got := m.Complete("add ")

	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestCompleteProducesNoEffects(t *testing.T) {
	m, cap := newTestManager()
	m.Add(addCommand())

	m.Complete("add 2 3")

	require.Empty(t, cap.msgs)
	require.Empty(t, cap.errs)
}

func TestDispatchWithContextFactory(t *testing.T) {
	key := NewKey[string]("caller")
	m, cap := newTestManager()
	m.Add(NewCommand("whoami").
		Do(func(ctx *Context, args *Arguments, dry bool) error {
			if dry {
				return nil
			}
			name, ok := GetCustom(ctx, key)
			if !ok {
				return Errorf("no caller attached")
			}
			ctx.Reply(name)
			return nil
		}).
		MustBuild())

	m.DispatchWith("whoami", func(ctx *Context) *Context {
		SetCustom(ctx, key, "alice")
		return ctx
	}, m.Commands())

	require.Empty(t, cap.errs)
	require.Equal(t, []string{"alice"}, cap.msgs)
}

func TestCustomsPropagateToSubcommands(t *testing.T) {
	key := NewKey[int]("depth")
	m, cap := newTestManager()
	leaf := NewCommand("leaf").
		Do(func(ctx *Context, args *Arguments, dry bool) error {
			if dry {
				return nil
			}
			n, _ := GetCustom(ctx, key)
			ctx.Reply(strconv.Itoa(n))
			return nil
		}).
		MustBuild()
	m.Add(NewCommand("parent").Parent(leaf).MustBuild())

	m.DispatchWith("parent leaf", func(ctx *Context) *Context {
		SetCustom(ctx, key, 7)
		return ctx
	}, m.Commands())

	require.Equal(t, []string{"7"}, cap.msgs)
}

func TestManagerRegistry(t *testing.T) {
	m, _ := newTestManager()
	add := addCommand()

	m.Add(add)
	m.Add(add) // duplicate, silently ignored
	require.Len(t, m.Commands(), 1)

	got, ok := m.Lookup("add")
	require.True(t, ok)
	require.Same(t, add, got)

	_, ok = m.Lookup("ADD")
	require.False(t, ok, "lookup must be case-sensitive")

	m.Remove(add)
	require.Empty(t, m.Commands())
}

func TestHelpDisabledRemovesHelpCommand(t *testing.T) {
	m, cap := newTestManager()
	m.Add(addCommand())
	m.SetHelpGenerator(nil)

	m.Dispatch("help")

	require.Equal(t, []string{`Unknown command. Try "help".`}, cap.errs)
}
