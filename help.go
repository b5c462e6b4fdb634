package cmdkit

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/cmdkit/cmdkit/parse"
	"github.com/cmdkit/cmdkit/token"
)

// HelpInfo is the information harvested about one command for full help:
// its name, formatted alias list (empty when it has none), generated or
// overridden syntax, and description.
type HelpInfo struct {
	Name        string
	Aliases     string
	Syntax      string
	Description string
}

// HelpEntry is one row of a command listing.
type HelpEntry struct {
	Name  string
	Short string
}

// HelpGenerator formats and presents help output. It is solely responsible
// for presentation; the stock help command harvests the data and hands it
// over.
type HelpGenerator interface {
	// PageSize returns how many commands one listing page holds; zero or
	// negative disables pagination.
	PageSize(ctx *Context) int
	// Sorter orders the command listing by name.
	Sorter(ctx *Context) func(a, b string) bool
	// SendHelp presents one listing page. With pagination disabled, page
	// and maxPage are zero.
	SendHelp(ctx *Context, entries []HelpEntry, page, maxPage int)
	// SendFullHelp presents full help for one command.
	SendFullHelp(ctx *Context, info HelpInfo)
	// ErrorHarvest builds the error reported when a command fails while
	// being asked about itself.
	ErrorHarvest(ctx *Context, input string) error
	// ErrorUnknown builds the error reported for an unknown command name.
	ErrorUnknown(ctx *Context, input string) error
}

// DefaultHelpGenerator is the stock HelpGenerator: pagination disabled,
// alphabetical case-insensitive sorting, tab-separated listing rows, and an
// unknown-command error that fuzzily suggests the closest registered name.
type DefaultHelpGenerator struct{}

func (DefaultHelpGenerator) PageSize(*Context) int {
	return 0
}

func (DefaultHelpGenerator) Sorter(*Context) func(a, b string) bool {
	return func(a, b string) bool {
		return strings.ToLower(a) < strings.ToLower(b)
	}
}

func (DefaultHelpGenerator) SendHelp(ctx *Context, entries []HelpEntry, page, maxPage int) {
	if page > 0 {
		ctx.Reply(fmt.Sprintf("Command List (page %d of %d)", page, maxPage))
	}
	for _, e := range entries {
		short := e.Short
		if short == "" {
			short = "This command has no short description."
		}
		ctx.Reply(fmt.Sprintf("%s\t%s", e.Name, short))
	}
}

func (DefaultHelpGenerator) SendFullHelp(ctx *Context, info HelpInfo) {
	aliases := info.Aliases
	if aliases == "" {
		aliases = "(no aliases)"
	}
	desc := info.Description
	if desc == "" {
		desc = "This command has no description."
	}
	ctx.Reply(fmt.Sprintf("Command: %s", info.Name))
	ctx.Reply(fmt.Sprintf("Aliases: %s", aliases))
	ctx.Reply(fmt.Sprintf("Syntax: %s", info.Syntax))
	ctx.Reply("")
	ctx.Reply(desc)
}

func (DefaultHelpGenerator) ErrorHarvest(*Context, string) error {
	return Errorf("That command crashed when we tried to ask it about itself. Oops.")
}

func (DefaultHelpGenerator) ErrorUnknown(ctx *Context, input string) error {
	var names []string
	if m := ctx.Manager(); m != nil {
		for _, cmd := range m.Commands() {
			names = append(names, cmd.Name())
		}
	}
	ranks := fuzzy.RankFindFold(input, names)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return Errorf("Couldn't find command %s. Did you mean '%s'? Try 'help'.", input, ranks[0].Target)
	}
	return Errorf("Couldn't find command %s. Try 'help'.", input)
}

// helpCommand builds the stock help command over a dispatcher's candidate
// set.
func helpCommand(parent *Parent) *Command {
	return NewCommand("help").
		Short("Shows help text for commands.").
		Executor(&helpExecutor{parent: parent}).
		MustBuild()
}

// helpExecutor implements the stock help command. One declared slot serves
// both a listing page number and a command name; the named entry keeps the
// two cases inspectable after parsing.
type helpExecutor struct {
	parent *Parent
}

func (h *helpExecutor) Execute(ctx *Context, args *Arguments, dry bool) error {
	candidates := h.parent.candidates(ctx)
	matcher := matchParser(ctx, candidates, false)
	args.Named("topic", parse.Alt[interface{}](
		parse.Union(parse.Rename(parse.Integer(), "page"), matcher), nil))
	if dry {
		return nil
	}

	gen := ctx.Manager().HelpGenerator()
	if gen == nil {
		return Errorf("Help is not available.")
	}

	v, err := args.Next()
	if err != nil {
		return err
	}

	switch topic := v.(type) {
	case nil:
		return h.list(ctx, gen, candidates, 1)
	case int:
		return h.list(ctx, gen, candidates, topic)
	case Match:
		if topic.State != Matched {
			return gen.ErrorUnknown(ctx, topic.Input)
		}
		info, err := Harvest(topic.Context)
		if err != nil {
			return gen.ErrorHarvest(ctx, topic.Input)
		}
		gen.SendFullHelp(ctx, info)
		return nil
	default:
		return Errorf("Couldn't find command.")
	}
}

func (h *helpExecutor) list(ctx *Context, gen HelpGenerator, commands []*Command, page int) error {
	entries := make([]HelpEntry, 0, len(commands))
	for _, cmd := range commands {
		entries = append(entries, HelpEntry{Name: cmd.Name(), Short: cmd.Short()})
	}
	less := gen.Sorter(ctx)
	sort.SliceStable(entries, func(i, j int) bool {
		return less(entries[i].Name, entries[j].Name)
	})

	size := gen.PageSize(ctx)
	if size <= 0 {
		gen.SendHelp(ctx, entries, 0, 0)
		return nil
	}

	maxPage := (len(entries) + size - 1) / size
	if maxPage < 1 {
		maxPage = 1
	}
	if page < 1 || page > maxPage {
		return Errorf("There is no page %d.", page)
	}
	lo := (page - 1) * size
	hi := lo + size
	if hi > len(entries) {
		hi = len(entries)
	}
	gen.SendHelp(ctx, entries[lo:hi], page, maxPage)
	return nil
}

// Harvest dry-runs the command bound to ctx against an empty stream and
// assembles its HelpInfo: generated (or overridden) syntax, formatted
// aliases, and the long description falling back to the short one. A body
// that panics while being asked about itself is reported as an error, not
// propagated.
func Harvest(ctx *Context) (info HelpInfo, err error) {
	cmd := ctx.Command()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("help harvest crashed: %v", r)
		}
	}()

	syntax, ok := cmd.SyntaxOverride()
	if !ok {
		sim := newArguments(ctx, token.NewStream(nil), ModeDry)
		runErr := cmd.Executor().Execute(ctx, sim, true)
		if runErr != nil {
			// Business-rule checks are expected during dry runs and do not
			// spoil the harvest.
			var ce *CommandError
			if !errors.As(runErr, &ce) {
				return HelpInfo{}, runErr
			}
		}
		syntax = sim.Syntax()
	}

	name := cmd.Name()
	full := strings.TrimSpace(name + " " + syntax)

	desc := cmd.Description()
	if desc == "" {
		desc = cmd.Short()
	}

	return HelpInfo{
		Name:        name,
		Aliases:     strings.Join(cmd.Aliases(), ", "),
		Syntax:      full,
		Description: desc,
	}, nil
}
