// pattern: Functional Core
package cli

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	flag "github.com/spf13/pflag"
)

// Command represents a single CLI command with its metadata and handler.
type Command struct {
	Name    string
	Summary string
	Usage   string
	Run     func(args []string) error
}

// Group represents a group of related commands.
type Group struct {
	Name     string
	Summary  string
	Commands map[string]*Command
}

// App represents the top-level CLI application with groups and ungrouped commands.
type App struct {
	groups   map[string]*Group
	commands map[string]*Command
	order    []string
	stderr   io.Writer
}

// NewApp creates a new CLI application that prints help and errors to stderr.
func NewApp(stderr io.Writer) *App {
	return &App{
		groups:   make(map[string]*Group),
		commands: make(map[string]*Command),
		stderr:   stderr,
	}
}

// AddGroup creates and registers a new command group.
func (a *App) AddGroup(name, summary string) *Group {
	g := &Group{
		Name:     name,
		Summary:  summary,
		Commands: make(map[string]*Command),
	}
	a.groups[name] = g
	return g
}

// AddCommand registers an ungrouped (top-level) command. Help lists
// commands in registration order.
func (a *App) AddCommand(cmd *Command) {
	if _, ok := a.commands[cmd.Name]; !ok {
		a.order = append(a.order, cmd.Name)
	}
	a.commands[cmd.Name] = cmd
}

// AddCommand registers a command in the group.
func (g *Group) AddCommand(cmd *Command) {
	g.Commands[cmd.Name] = cmd
}

// Execute dispatches the CLI arguments to the appropriate command and
// returns the process exit code.
func (a *App) Execute(args []string) int {
	if len(args) == 0 || isHelp(args[0]) {
		a.PrintHelp(a.stderr)
		if len(args) == 0 {
			return 1
		}
		return 0
	}

	cmdName := args[0]

	if cmd, ok := a.commands[cmdName]; ok {
		return a.run(cmd, args[1:])
	}

	if group, ok := a.groups[cmdName]; ok {
		if len(args) < 2 || args[1] == "help" || isHelp(args[1]) {
			group.PrintHelp(a.stderr)
			return 0
		}

		if cmd, ok := group.Commands[args[1]]; ok {
			return a.run(cmd, args[2:])
		}

		group.PrintHelp(a.stderr)
		return 1
	}

	fmt.Fprintf(a.stderr, "error: unknown command %q\n\n", cmdName)
	a.PrintHelp(a.stderr)
	return 1
}

func (a *App) run(cmd *Command, args []string) int {
	for _, arg := range args {
		if arg == "--" {
			break
		}
		if isHelp(arg) {
			fmt.Fprintf(a.stderr, "%s\n", cmd.Usage)
			return 0
		}
	}

	if err := cmd.Run(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(a.stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func isHelp(arg string) bool {
	return arg == "--help" || arg == "-h"
}

// PrintHelp prints the top-level help text.
func (a *App) PrintHelp(w io.Writer) {
	fmt.Fprintf(w, "Usage: promptstat [options] <command>\n\n")
	fmt.Fprintf(w, "Commands:\n")

	for _, name := range a.order {
		cmd := a.commands[name]
		fmt.Fprintf(w, "  %-12s %s\n", cmd.Name, cmd.Summary)
	}

	if len(a.groups) > 0 {
		fmt.Fprintf(w, "\nCommand Groups:\n")
		for _, name := range slices.Sorted(maps.Keys(a.groups)) {
			group := a.groups[name]
			fmt.Fprintf(w, "  %-12s %s\n", group.Name, group.Summary)
		}
		fmt.Fprintf(w, "\nUse \"promptstat <group> help\" for group details.\n")
	}

	fmt.Fprintf(w, "\nOptions:\n")
}

// PrintHelp prints help for a specific group.
func (g *Group) PrintHelp(w io.Writer) {
	fmt.Fprintf(w, "Usage: promptstat %s <command>\n\n", g.Name)
	fmt.Fprintf(w, "Commands:\n")
	names := slices.Sorted(maps.Keys(g.Commands))
	for _, name := range names {
		cmd := g.Commands[name]
		fmt.Fprintf(w, "  %-12s %s\n", cmd.Name, cmd.Summary)
	}
	fmt.Fprintf(w, "\nUse \"promptstat %s <command> --help\" for command details.\n", g.Name)
}
