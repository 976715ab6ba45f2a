// Package sched defines the cooperative scheduler collaborator interface
// spec.md §9 calls for ("model as an interface; the core ships a null
// implementation for tests"), plus an in-process Cooperative implementation
// grounded on the original source's top/app.cpp stats tracking.
package sched

import "time"

// TaskStats mirrors the per-task statistics the original source's `top`
// built-in renders: configured period, observed actual period, ticks left
// until the next run, and run-time min/mean/max.
type TaskStats struct {
	Name          string
	Period        time.Duration
	ActualPeriod  time.Duration
	TicksLeft     int
	RunTimeMin    time.Duration
	RunTimeMean   time.Duration
	RunTimeMax    time.Duration
}

// Scheduler is the external collaborator the `top` and `pkill` built-ins
// depend on, per spec.md §9 "Scheduler coupling".
type Scheduler interface {
	// Add registers a periodic task. fn is invoked every period and removed
	// before its next tick if it returns false.
	Add(name string, period time.Duration, fn func() bool) error
	// Pkill removes the first task matching name and reports whether one
	// was found.
	Pkill(name string) bool
	// ResetStats zeroes every task's recorded run-time statistics.
	ResetStats()
	// Tasks reports a snapshot of current task statistics.
	Tasks() []TaskStats
}

// Null is a zero-op Scheduler for core unit tests, per spec.md §9.
type Null struct{}

func (Null) Add(string, time.Duration, func() bool) error { return nil }
func (Null) Pkill(string) bool                             { return false }
func (Null) ResetStats()                                    {}
func (Null) Tasks() []TaskStats                             { return nil }
