// Command cmdkit is a demonstration shell for the command engine: a small
// command set dispatched either once from the command line or interactively
// in a read-eval loop, with shell-style completion exposed for wiring into
// readline frontends.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cmdkit/cmdkit"
	"github.com/cmdkit/cmdkit/parse"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "cmdkit",
		Short: "Interactive shell for the demo command set",
		Long: `cmdkit hosts a small demonstration command set. Without a subcommand it
starts an interactive shell; 'run' dispatches one line and exits.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return repl(cfg)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file")

	runCmd := &cobra.Command{
		Use:   "run <input>...",
		Short: "Dispatch one input line and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			newManager(cfg).Dispatch(strings.Join(args, " "))
			return nil
		},
	}

	completeCmd := &cobra.Command{
		Use:   "complete <input>...",
		Short: "Print completion candidates for a partial input line",
		Long: `complete prints the completion candidates for the final token of the
given input, one per line. Pass a trailing empty argument to complete a
fresh parameter after the last full token.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			for _, s := range newManager(cfg).Complete(strings.Join(args, " ")) {
				fmt.Println(s)
			}
			return nil
		},
	}

	root.AddCommand(runCmd, completeCmd)
	return root
}

func repl(cfg Config) error {
	m := newManager(cfg)
	in := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(cfg.Prompt)
		if !in.Scan() {
			fmt.Println()
			return in.Err()
		}
		line := strings.TrimSpace(in.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		}
		m.Dispatch(line)
	}
}

// newManager assembles the demo command set with colored error output and
// operator logging to stderr.
func newManager(cfg Config) *cmdkit.Manager {
	if cfg.NoColor {
		color.NoColor = true
	}
	errLine := color.New(color.FgRed).FprintlnFunc()

	m := cmdkit.NewManager()
	m.SetLogger(zerolog.New(os.Stderr).With().Timestamp().Logger())
	m.SetErrorHandler(func(_ *cmdkit.Context, msg string) {
		errLine(os.Stderr, msg)
	})
	m.Add(addCommand(), echoCommand(), greetCommand())
	return m
}

func addCommand() *cmdkit.Command {
	return cmdkit.NewCommand("add", "sum").
		Short("Adds numbers.").
		Description("Adds every given number and prints the total.").
		Do(func(ctx *cmdkit.Context, args *cmdkit.Arguments, dry bool) error {
			args.Write(parse.Remain(parse.Number()))
			if dry {
				return nil
			}
			nums, err := cmdkit.Value[[]float64](args)
			if err != nil {
				return err
			}
			var total float64
			for _, n := range nums {
				total += n
			}
			ctx.Reply(strconv.FormatFloat(total, 'f', -1, 64))
			return nil
		}).
		MustBuild()
}

func echoCommand() *cmdkit.Command {
	return cmdkit.NewCommand("echo").
		Short("Repeats the input.").
		Do(func(ctx *cmdkit.Context, args *cmdkit.Arguments, dry bool) error {
			args.Write(parse.Rename(parse.RemainingString(), "text .."))
			if dry {
				return nil
			}
			text, err := cmdkit.Value[string](args)
			if err != nil {
				return err
			}
			ctx.Reply(text)
			return nil
		}).
		MustBuild()
}

func greetCommand() *cmdkit.Command {
	hello := cmdkit.NewCommand("hello").
		Short("Greets someone by name.").
		Do(func(ctx *cmdkit.Context, args *cmdkit.Arguments, dry bool) error {
			args.Write(parse.Alt(parse.Rename(parse.String(), "name"), "stranger"))
			args.Write(parse.AnyOf(parse.String(), "quietly", "loudly").WithDefaultToken("quietly"))
			if dry {
				return nil
			}
			name, err := cmdkit.Value[string](args)
			if err != nil {
				return err
			}
			tone, err := cmdkit.Value[string](args)
			if err != nil {
				return err
			}
			msg := "Hello, " + name + "."
			if tone == "loudly" {
				msg = strings.ToUpper(msg)
			}
			ctx.Reply(msg)
			return nil
		}).
		MustBuild()

	wave := cmdkit.NewCommand("wave").
		Short("Waves.").
		Do(func(ctx *cmdkit.Context, args *cmdkit.Arguments, dry bool) error {
			args.Write(parse.Opt(parse.Rename(parse.Integer(), "times"), "1"))
			if dry {
				return nil
			}
			times, err := cmdkit.Value[int](args)
			if err != nil {
				return err
			}
			if times < 1 || times > 10 {
				return cmdkit.Errorf("can only wave between 1 and 10 times")
			}
			ctx.Reply(strings.TrimSpace(strings.Repeat("o/ ", times)))
			return nil
		}).
		MustBuild()

	return cmdkit.NewCommand("greet").
		Short("Greeting subcommands.").
		Parent(hello, wave).
		MustBuild()
}
