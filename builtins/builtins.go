// Package builtins implements the CLI surface spec.md §6 and SPEC_FULL.md
// §6.1 name: clear, help, pkill, top, and man, each grounded on the
// matching file under original_source/apps/.
package builtins

import (
	"strings"

	markdown "github.com/vlanse/go-term-markdown"

	"github.com/coretermio/coreterm/args"
	"github.com/coretermio/coreterm/command"
	"github.com/coretermio/coreterm/sched"
	"github.com/coretermio/coreterm/style"
)

// Clear emits "\e[2J\e[H", per spec.md §6 and original_source/apps/clear.
func Clear() command.Command {
	return command.Command{
		Name:        "clear",
		Description: "clear the screen",
		Run: func(t command.Term, _ string) command.RetCode {
			t.Print(style.ClearScreen)
			return command.Ok
		},
	}
}

// Help iterates the registry and prints "  %8s: %s" per command, per
// spec.md §6 and original_source/apps/help.
func Help() command.Command {
	return command.Command{
		Name:        "help",
		Description: "show the list of cmds and their descriptions",
		Run: func(t command.Term, _ string) command.RetCode {
			for _, c := range t.Commands() {
				t.Printf("  %8s: %s\n", c.Name, c.Description)
			}
			return command.Ok
		},
	}
}

// Pkill asks sc to terminate a task by name, looping with -a until none is
// found, per spec.md §6 and original_source/apps/pkill/app.cpp.
func Pkill(sc sched.Scheduler) command.Command {
	return command.Command{
		Name:        "pkill",
		Description: "kill a scheduled task by name",
		LongHelp:    "# pkill\n\nKill a scheduled task by name.\n\n`pkill [-a] <name>`\n\n`-a` repeats until no task with that name remains.\n",
		Run: func(t command.Term, raw string) command.RetCode {
			all := args.NewBool('a', "kill every task matching name, not just the first", raw)
			name := args.NewPositional("task name", raw)
			if usage, present := args.Help("pkill", raw, []args.Param{all, name}); present {
				t.Print(usage)
				return command.Ok
			}
			if !name.Valid {
				t.Print(style.Error("pkill: missing name\n"))
				return command.Error
			}

			if all.Bool() {
				killed := false
				for sc.Pkill(name.String()) {
					t.Printf("%s killed\n", name.String())
					killed = true
				}
				if killed {
					return command.Ok
				}
				t.Printf("%s not found\n", name.String())
				return command.Error
			}

			if sc.Pkill(name.String()) {
				t.Printf("%s killed\n", name.String())
				return command.Ok
			}
			t.Printf("%s not found\n", name.String())
			return command.Error
		},
	}
}

// Man looks up a registered command by exact name and renders its LongHelp
// as markdown, falling back to its Description when LongHelp is empty, per
// SPEC_FULL.md §6.1.
func Man(registry *command.Registry) command.Command {
	return command.Command{
		Name:        "man",
		Description: "show detailed help for a command",
		Run: func(t command.Term, raw string) command.RetCode {
			name := args.NewPositional("command name", raw)
			if !name.Valid {
				t.Print(style.Error("man: missing command name\n"))
				return command.Error
			}

			cmd, ok := registry.Find(name.String())
			if !ok {
				t.Print(style.Error("man: no such command\n"))
				return command.Error
			}

			if strings.TrimSpace(cmd.LongHelp) == "" {
				t.Printf("  %8s: %s\n", cmd.Name, cmd.Description)
				return command.Ok
			}

			rendered := markdown.Render(cmd.LongHelp, 80, 2)
			t.Print(string(rendered))
			return command.Ok
		},
	}
}
