package cmdkit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cmdkit/cmdkit/parse"
)

func TestBuilderValidation(t *testing.T) {
	_, err := NewCommand("").Do(func(*Context, *Arguments, bool) error { return nil }).Build()
	require.Error(t, err)

	_, err = NewCommand("named").Build()
	require.Error(t, err)

	cmd, err := NewCommand("named").
		Do(func(*Context, *Arguments, bool) error { return nil }).
		Build()
	require.NoError(t, err)
	require.Equal(t, "named", cmd.Name())
}

func TestCommandNames(t *testing.T) {
	cmd := NewCommand("add", "sum", "plus").
		Do(func(*Context, *Arguments, bool) error { return nil }).
		MustBuild()

	require.Equal(t, "add", cmd.Name())
	require.Equal(t, []string{"sum", "plus"}, cmd.Aliases())
	require.True(t, cmd.HasName("add"))
	require.True(t, cmd.HasName("plus"))
	require.False(t, cmd.HasName("Add"), "name matching must be case-sensitive")
}

func TestCommandSyntaxOverride(t *testing.T) {
	cmd := NewCommand("fixed").
		Syntax("<x> <y>").
		Do(func(*Context, *Arguments, bool) error { return nil }).
		MustBuild()

	syn, ok := cmd.SyntaxOverride()
	require.True(t, ok)
	require.Equal(t, "<x> <y>", syn)

	plain := NewCommand("plain").
		Do(func(*Context, *Arguments, bool) error { return nil }).
		MustBuild()
	_, ok = plain.SyntaxOverride()
	require.False(t, ok)
}

func TestFullExecutorSkipsRunWhenDry(t *testing.T) {
	var inits, runs int
	exec := Full{
		Initialize: func(ctx *Context, args *Arguments) error {
			args.Write(parse.Number())
			inits++
			return nil
		},
		Run: func(ctx *Context, args *Arguments) error {
			runs++
			return nil
		},
	}

	m, _ := newTestManager()
	ctx := newContext(m, nil, "", true)
	require.NoError(t, exec.Execute(ctx, dryArgs(), true))
	require.Equal(t, 1, inits)
	require.Zero(t, runs)

	ctx = newContext(m, nil, "", false)
	require.NoError(t, exec.Execute(ctx, commitArgs("3"), false))
	require.Equal(t, 2, inits)
	require.Equal(t, 1, runs)
}

func TestCommandCustoms(t *testing.T) {
	key := NewKey[string]("owner")
	cmd := NewCommand("thing").
		Do(func(*Context, *Arguments, bool) error { return nil }).
		MustBuild()

	SetCustom(cmd, key, "alice")
	got, ok := GetCustom(cmd, key)
	require.True(t, ok)
	require.Equal(t, "alice", got)

	// A second key with the same name is a distinct key.
	other := NewKey[string]("owner")
	_, ok = GetCustom(cmd, other)
	require.False(t, ok)
}

func TestContextCustomsCopiedToChildren(t *testing.T) {
	key := NewKey[int]("n")
	m, _ := newTestManager()
	cmd := NewCommand("child").
		Do(func(*Context, *Arguments, bool) error { return nil }).
		MustBuild()

	parent := newContext(m, nil, "", false)
	SetCustom(parent, key, 1)

	child := parent.child(cmd, "child")
	got, ok := GetCustom(child, key)
	require.True(t, ok)
	require.Equal(t, 1, got)

	// The copy is shallow but independent: writes in the child do not leak
	// back up.
	SetCustom(child, key, 2)
	got, _ = GetCustom(parent, key)
	require.Equal(t, 1, got)
}
