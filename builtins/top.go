package builtins

import (
	"fmt"
	"strings"
	"time"

	"github.com/coretermio/coreterm/command"
	"github.com/coretermio/coreterm/sched"
	"github.com/coretermio/coreterm/style"
)

func periodFromUS(us int) time.Duration {
	if us <= 0 {
		us = 1_000_000 // original source's 1s default stats refresh
	}
	return time.Duration(us) * time.Microsecond
}

// Top registers a periodic scheduler task that redraws a stats screen while
// live; q returns Ok, r resets stats and re-renders, n re-renders
// immediately; any other key just keeps it alive, per spec.md §6 and
// original_source/apps/top/app.cpp.
func Top(sc sched.Scheduler, tickPeriodUS int) command.Command {
	const taskName = "top"

	return command.Command{
		Name:        "top",
		Description: "show current processes",
		LongHelp:    "# top\n\nShow scheduler task statistics. While live: `q` quits, `r` resets stats, `n` redraws now.\n",
		Init: func(t command.Term, _ string) bool {
			t.Print(style.ClearScreen)
			err := sc.Add(taskName, periodFromUS(tickPeriodUS), func() bool {
				renderStatsScreen(t, sc)
				return true
			})
			return err == nil
		},
		Run: func(t command.Term, key string) command.RetCode {
			switch key {
			case "q":
				return command.Ok
			case "r":
				sc.ResetStats()
				renderStatsScreen(t, sc)
				return command.Alive
			case "n":
				renderStatsScreen(t, sc)
				return command.Alive
			default:
				return command.Alive
			}
		},
		Exit: func(t command.Term, _ string) bool {
			sc.Pkill(taskName)
			t.Print(style.ClearScreen)
			return true
		},
	}
}

func renderStatsScreen(t command.Term, sc sched.Scheduler) {
	t.Print(style.ClearLine)
	t.Print(style.Bold(fmt.Sprintf("%93s\n", "TOP (q)uit (r)eset_stats (n)ow")))

	for _, task := range sc.Tasks() {
		t.Print(style.ClearLine)
		header := fmt.Sprintf("== %s == [ every: %s, mean: %s, min: %s, max: %s ]",
			task.Name, task.Period, task.RunTimeMean, task.RunTimeMin, task.RunTimeMax)
		t.Print(style.GreenOnBlack(pad93(header)))
		t.Print("\n")

		t.Print(style.ClearLine)
		t.Print(style.Dim(fmt.Sprintf("   %10s %12s %12s %12s\n", "actual", "mean_us", "min_us", "max_us")))

		t.Print(style.ClearLine)
		t.Printf("   %10s %12s %12s %12s\n", task.ActualPeriod, task.RunTimeMean, task.RunTimeMin, task.RunTimeMax)
	}
	t.Print(style.CursorHome)
}

func pad93(s string) string {
	if len(s) >= 93 {
		return s
	}
	return s + strings.Repeat(" ", 93-len(s))
}
