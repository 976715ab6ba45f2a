package sched

import (
	"testing"
	"time"
)

func TestNullImplementsScheduler(t *testing.T) {
	var s Scheduler = Null{}
	if err := s.Add("x", time.Second, func() bool { return true }); err != nil {
		t.Fatalf("Null.Add returned an error: %v", err)
	}
	if s.Pkill("x") {
		t.Fatal("Null.Pkill must always report false")
	}
	if len(s.Tasks()) != 0 {
		t.Fatal("Null.Tasks must always be empty")
	}
	s.ResetStats()
}

func TestCooperativePkillThreeThenFalse(t *testing.T) {
	c := NewCooperative()
	for i := 0; i < 3; i++ {
		if err := c.Add("top", time.Second, func() bool { return true }); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	for i := 0; i < 3; i++ {
		if !c.Pkill("top") {
			t.Fatalf("Pkill #%d: expected true", i+1)
		}
	}
	if c.Pkill("top") {
		t.Fatal("Pkill on an empty scheduler: expected false")
	}
}

func TestCooperativeTickRunsDueTasksAndDropsFalse(t *testing.T) {
	c := NewCooperative()
	calls := 0
	c.Add("once", time.Millisecond, func() bool {
		calls++
		return false
	})

	c.Tick(time.Now().Add(2 * time.Millisecond))
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if len(c.Tasks()) != 0 {
		t.Fatal("task returning false must be removed")
	}
}

func TestCooperativeTickSkipsNotYetDue(t *testing.T) {
	c := NewCooperative()
	calls := 0
	c.Add("periodic", time.Hour, func() bool {
		calls++
		return true
	})

	c.Tick(time.Now())
	if calls != 0 {
		t.Fatalf("calls = %d, want 0 before the period elapses", calls)
	}
}

func TestCooperativeResetStatsZeroes(t *testing.T) {
	c := NewCooperative()
	c.Add("task", time.Millisecond, func() bool { return true })
	c.Tick(time.Now().Add(2 * time.Millisecond))

	c.ResetStats()
	stats := c.Tasks()
	if len(stats) != 1 {
		t.Fatalf("expected one task, got %d", len(stats))
	}
	if stats[0].RunTimeMean != 0 || stats[0].RunTimeMin != 0 || stats[0].RunTimeMax != 0 {
		t.Fatalf("expected zeroed stats after ResetStats, got %+v", stats[0])
	}
}

func TestCooperativeAddRejectsNonPositivePeriod(t *testing.T) {
	c := NewCooperative()
	if err := c.Add("bad", 0, func() bool { return true }); err == nil {
		t.Fatal("expected an error for a non-positive period")
	}
}
