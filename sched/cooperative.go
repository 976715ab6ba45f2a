package sched

import (
	"fmt"
	"sync"
	"time"
)

type task struct {
	name   string
	period time.Duration
	fn     func() bool

	lastRun      time.Time
	actualPeriod time.Duration
	ticksLeft    int

	runCount int
	runMin   time.Duration
	runMean  time.Duration
	runMax   time.Duration
}

// Cooperative is an in-process Scheduler driven entirely by a host calling
// Tick; it owns no goroutine of its own, matching spec.md §5's
// single-threaded cooperative model. Run-time statistics are a running
// min/mean/max, grounded on the original source's watch_t duration
// tracking shown in apps/top/app.cpp.
type Cooperative struct {
	mu    sync.Mutex
	tasks []*task
}

// NewCooperative constructs an empty Cooperative scheduler.
func NewCooperative() *Cooperative {
	return &Cooperative{}
}

func (c *Cooperative) Add(name string, period time.Duration, fn func() bool) error {
	if period <= 0 {
		return fmt.Errorf("sched: period must be positive, got %s", period)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks = append(c.tasks, &task{
		name:      name,
		period:    period,
		fn:        fn,
		lastRun:   time.Now(),
		ticksLeft: 1,
	})
	return nil
}

func (c *Cooperative) Pkill(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, t := range c.tasks {
		if t.name == name {
			c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cooperative) ResetStats() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.tasks {
		t.runCount = 0
		t.runMin, t.runMean, t.runMax = 0, 0, 0
	}
}

func (c *Cooperative) Tasks() []TaskStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]TaskStats, 0, len(c.tasks))
	for _, t := range c.tasks {
		out = append(out, TaskStats{
			Name:         t.name,
			Period:       t.period,
			ActualPeriod: t.actualPeriod,
			TicksLeft:    t.ticksLeft,
			RunTimeMin:   t.runMin,
			RunTimeMean:  t.runMean,
			RunTimeMax:   t.runMax,
		})
	}
	return out
}

// Tick advances every registered task whose period has elapsed since its
// last run, recording run-time statistics. A task whose fn returns false is
// removed before its next tick.
func (c *Cooperative) Tick(now time.Time) {
	c.mu.Lock()
	due := make([]*task, 0)
	for _, t := range c.tasks {
		elapsed := now.Sub(t.lastRun)
		if elapsed < t.period {
			t.ticksLeft = 1
			continue
		}
		due = append(due, t)
		t.actualPeriod = elapsed
		t.lastRun = now
	}
	c.mu.Unlock()

	var dead []*task
	for _, t := range due {
		start := time.Now()
		keep := t.fn()
		elapsed := time.Since(start)

		c.mu.Lock()
		t.recordRunTime(elapsed)
		c.mu.Unlock()

		if !keep {
			dead = append(dead, t)
		}
	}

	if len(dead) > 0 {
		c.mu.Lock()
		for _, d := range dead {
			for i, t := range c.tasks {
				if t == d {
					c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
					break
				}
			}
		}
		c.mu.Unlock()
	}
}

func (t *task) recordRunTime(d time.Duration) {
	if t.runCount == 0 || d < t.runMin {
		t.runMin = d
	}
	if d > t.runMax {
		t.runMax = d
	}
	t.runCount++
	// running mean: mean += (sample - mean) / count
	t.runMean += (d - t.runMean) / time.Duration(t.runCount)
}
