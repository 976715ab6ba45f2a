package builtins

import (
	"strings"
	"testing"
	"time"

	"github.com/coretermio/coreterm/command"
	"github.com/coretermio/coreterm/sched"
)

func TestTopLifecycle(t *testing.T) {
	sc := sched.NewCooperative()
	top := Top(sc, 1000) // 1ms period, fast enough for the test
	ft := &fakeTerm{}

	if !top.Init(ft, "") {
		t.Fatal("Init returned false")
	}
	if len(sc.Tasks()) != 1 {
		t.Fatalf("expected top to register one scheduler task, got %d", len(sc.Tasks()))
	}

	sc.Tick(time.Now().Add(2 * time.Millisecond))
	if !strings.Contains(ft.out.String(), "TOP") {
		t.Fatalf("expected a stats header after the periodic task fires, got %q", ft.out.String())
	}

	if ret := top.Run(ft, "r"); ret != command.Alive {
		t.Fatalf("Run(%q) = %v, want Alive", "r", ret)
	}
	if ret := top.Run(ft, "n"); ret != command.Alive {
		t.Fatalf("Run(%q) = %v, want Alive", "n", ret)
	}
	if ret := top.Run(ft, "q"); ret != command.Ok {
		t.Fatalf("Run(%q) = %v, want Ok", "q", ret)
	}

	if !top.Exit(ft, "") {
		t.Fatal("Exit returned false")
	}
	if len(sc.Tasks()) != 0 {
		t.Fatal("expected Exit to deregister the periodic task")
	}
}

func TestTopUnrecognizedKeyStaysAlive(t *testing.T) {
	sc := sched.NewCooperative()
	top := Top(sc, 1000)
	ft := &fakeTerm{}
	top.Init(ft, "")

	if ret := top.Run(ft, "x"); ret != command.Alive {
		t.Fatalf("Run(%q) = %v, want Alive", "x", ret)
	}
}
