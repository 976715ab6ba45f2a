package builtins

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/coretermio/coreterm/command"
	"github.com/coretermio/coreterm/sched"
)

type fakeTerm struct {
	out  strings.Builder
	cmds []command.Command
}

func (f *fakeTerm) Print(s string)                            { f.out.WriteString(s) }
func (f *fakeTerm) Printf(format string, args ...interface{}) { f.out.WriteString(fmt.Sprintf(format, args...)) }
func (f *fakeTerm) Commands() []command.Command                { return f.cmds }

func TestClearEmitsResetSequence(t *testing.T) {
	ft := &fakeTerm{}
	ret := Clear().Run(ft, "")
	if ret != command.Ok {
		t.Fatalf("Run() = %v, want Ok", ret)
	}
	if ft.out.String() != "\x1b[2J\x1b[H" {
		t.Fatalf("output = %q, want the clear-screen sequence", ft.out.String())
	}
}

func TestHelpListsAllRegisteredCommands(t *testing.T) {
	ft := &fakeTerm{cmds: []command.Command{
		{Name: "clear", Description: "clear the screen"},
		{Name: "help", Description: "show help"},
	}}
	ret := Help().Run(ft, "")
	if ret != command.Ok {
		t.Fatalf("Run() = %v, want Ok", ret)
	}
	if !strings.Contains(ft.out.String(), "clear the screen") || !strings.Contains(ft.out.String(), "show help") {
		t.Fatalf("output = %q, missing a description", ft.out.String())
	}
}

type stubScheduler struct {
	killable map[string]int
}

func (s *stubScheduler) Add(string, time.Duration, func() bool) error { return nil }
func (s *stubScheduler) Pkill(name string) bool {
	if s.killable[name] > 0 {
		s.killable[name]--
		return true
	}
	return false
}
func (s *stubScheduler) ResetStats()              {}
func (s *stubScheduler) Tasks() []sched.TaskStats { return nil }

func TestPkillSingleMatch(t *testing.T) {
	ft := &fakeTerm{}
	sc := &stubScheduler{killable: map[string]int{"top": 1}}
	ret := Pkill(sc).Run(ft, "top")
	if ret != command.Ok {
		t.Fatalf("Run() = %v, want Ok", ret)
	}
	if !strings.Contains(ft.out.String(), "top killed") {
		t.Fatalf("output = %q, want it to contain %q", ft.out.String(), "top killed")
	}
}

func TestPkillAllRepeatsUntilFalse(t *testing.T) {
	ft := &fakeTerm{}
	sc := &stubScheduler{killable: map[string]int{"top": 3}}
	ret := Pkill(sc).Run(ft, "-a top")
	if ret != command.Ok {
		t.Fatalf("Run() = %v, want Ok", ret)
	}
	if strings.Count(ft.out.String(), "top killed") != 3 {
		t.Fatalf("output = %q, want exactly 3 kills", ft.out.String())
	}
}

func TestPkillNotFoundIsError(t *testing.T) {
	ft := &fakeTerm{}
	sc := &stubScheduler{killable: map[string]int{}}
	ret := Pkill(sc).Run(ft, "ghost")
	if ret != command.Error {
		t.Fatalf("Run() = %v, want Error", ret)
	}
	if !strings.Contains(ft.out.String(), "not found") {
		t.Fatalf("output = %q, want it to contain %q", ft.out.String(), "not found")
	}
}

func TestPkillMissingNameIsError(t *testing.T) {
	ft := &fakeTerm{}
	sc := &stubScheduler{killable: map[string]int{}}
	ret := Pkill(sc).Run(ft, "-a")
	if ret != command.Error {
		t.Fatalf("Run() = %v, want Error", ret)
	}
}

func TestManFallsBackToDescriptionWithoutLongHelp(t *testing.T) {
	var reg command.Registry
	reg.Add(command.Command{Name: "clear", Description: "clear the screen"})
	ft := &fakeTerm{}
	ret := Man(&reg).Run(ft, "clear")
	if ret != command.Ok {
		t.Fatalf("Run() = %v, want Ok", ret)
	}
	if !strings.Contains(ft.out.String(), "clear the screen") {
		t.Fatalf("output = %q, want the short description", ft.out.String())
	}
}

func TestManRendersLongHelpAsMarkdown(t *testing.T) {
	var reg command.Registry
	reg.Add(command.Command{Name: "top", LongHelp: "# top\n\nShow stats.\n"})
	ft := &fakeTerm{}
	ret := Man(&reg).Run(ft, "top")
	if ret != command.Ok {
		t.Fatalf("Run() = %v, want Ok", ret)
	}
	if strings.TrimSpace(ft.out.String()) == "" {
		t.Fatal("expected non-empty rendered markdown output")
	}
}

func TestManUnknownCommandIsError(t *testing.T) {
	var reg command.Registry
	ft := &fakeTerm{}
	ret := Man(&reg).Run(ft, "ghost")
	if ret != command.Error {
		t.Fatalf("Run() = %v, want Error", ret)
	}
}
