// Package dispatch implements the top-level state machine driven by
// periodic Tick calls, per spec.md §4.2: Idle (showing a prompt) and Live
// (a command whose Run previously returned Alive), with prefix matching,
// the init/run/exit lifecycle, and prompt/error-banner rendering.
package dispatch

import (
	"fmt"
	"io"
	"strings"

	"github.com/coretermio/coreterm/command"
	"github.com/coretermio/coreterm/lineedit"
	"github.com/coretermio/coreterm/style"
)

// State is the dispatcher's top-level mode.
type State int

const (
	Idle State = iota
	Live
)

// AuditEvent is what the optional audit sink receives once per completed
// dispatch, per SPEC_FULL.md §4.2.
type AuditEvent struct {
	Command string
	Args    string
	Result  command.RetCode
}

// AuditSink records a completed dispatch. A nil sink (the default in every
// core unit test) disables auditing entirely; a sink's own errors are the
// caller's concern, not the dispatcher's — this keeps the core decoupled
// from SQLite.
type AuditSink func(AuditEvent)

// Dispatcher is the terminal's top-level state machine. It owns no
// goroutine: Tick is meant to be called from the host's single cooperative
// thread, same as lineedit.Editor.Drain.
type Dispatcher struct {
	registry *command.Registry
	editor   *lineedit.Editor
	sink     io.Writer
	audit    AuditSink

	state State
	cmd   command.Command
}

// New constructs a Dispatcher over the given registry and editor, writing
// output to sink. audit may be nil.
func New(registry *command.Registry, editor *lineedit.Editor, sink io.Writer, audit AuditSink) *Dispatcher {
	return &Dispatcher{registry: registry, editor: editor, sink: sink, audit: audit}
}

// State reports the dispatcher's current top-level mode, mostly for tests.
func (d *Dispatcher) State() State { return d.state }

func (d *Dispatcher) print(s string) {
	if d.sink != nil {
		io.WriteString(d.sink, s)
	}
}

func (d *Dispatcher) printf(format string, args ...interface{}) {
	d.print(fmt.Sprintf(format, args...))
}

// term implements command.Term over this Dispatcher's sink and registry.
type term struct{ d *Dispatcher }

func (t term) Print(s string)                            { t.d.print(s) }
func (t term) Printf(format string, args ...interface{}) { t.d.printf(format, args...) }
func (t term) Commands() []command.Command                { return t.d.registry.All() }

// Tick drains the editor once, processing every available discrete edit and
// at most one line commit, per spec.md §5's "a line committed during tick N
// is guaranteed to be dispatched during tick N" guarantee.
func (d *Dispatcher) Tick() {
	for {
		switch d.editor.Drain() {
		case lineedit.NoChange:
			return
		case lineedit.PartialEdit:
			if b, ok := d.editor.LastByte(); ok {
				d.print(string(b))
			}
			continue
		case lineedit.LineCommitted:
			line := d.editor.Buffer().String()
			d.editor.ResetLine()
			d.onLineCommitted(line)
			return
		case lineedit.CtrlCCommitted:
			d.editor.ResetLine()
			d.onCtrlC()
			return
		}
	}
}

func (d *Dispatcher) onCtrlC() {
	if d.state == Idle {
		// spec.md §5: "In Idle it clears the current line."
		d.print(style.Prompt)
		return
	}

	cmd, args := d.cmd, ""
	if cmd.Exit != nil {
		cmd.Exit(term{d}, "")
	}
	d.reportAudit(cmd.Name, args, command.Killed)
	d.state = Idle
	d.print(style.Error("Killed by user"))
	d.print(style.Prompt)
}

// onLineCommitted handles a LineCommitted result. Per spec.md §4.1 the line
// editor never echoes the commit byte itself ("the dispatcher handles
// transition output"), so the dispatcher always echoes exactly one "\n"
// here before doing anything else with the line.
func (d *Dispatcher) onLineCommitted(line string) {
	d.print("\n")
	if d.state == Live {
		d.runLive(line)
		return
	}
	d.runIdle(line)
}

func (d *Dispatcher) runIdle(line string) {
	name, args := splitCommandLine(line)

	cmd, ok := d.registry.MatchPrefix(name)
	if !ok {
		d.print(style.Error("Command not found"))
		d.print(style.Prompt)
		return
	}

	if cmd.Init != nil && !cmd.Init(term{d}, args) {
		d.print(style.Error("Error calling command"))
		d.print(style.Prompt)
		return
	}

	ret := cmd.Run(term{d}, args)
	if ret == command.Alive {
		d.state = Live
		d.cmd = cmd
		// Only this first transition into Live prints the prompt; every
		// subsequent Live tick that stays Alive renders nothing here, since
		// a live command owns its own screen redraws.
		d.print(style.Prompt)
		return
	}

	d.finish(cmd, args, ret)
}

func (d *Dispatcher) runLive(args string) {
	cmd := d.cmd
	ret := cmd.Run(term{d}, args)
	if ret == command.Alive {
		return
	}
	d.finish(cmd, args, ret)
}

func (d *Dispatcher) finish(cmd command.Command, args string, ret command.RetCode) {
	if cmd.Exit != nil {
		cmd.Exit(term{d}, "")
	}
	d.reportAudit(cmd.Name, args, ret)
	d.state = Idle

	// command.Killed prints no banner here, per spec.md §4.2/§7: "no banner"
	// is a property of the user-cancellation path itself, not just the
	// Ctrl-C-in-Live case handled in onCtrlC.
	if ret == command.Error {
		d.print(style.Error("Exit with error"))
	}
	d.print(style.Prompt)
}

func (d *Dispatcher) reportAudit(name, args string, ret command.RetCode) {
	if d.audit == nil {
		return
	}
	d.audit(AuditEvent{Command: name, Args: args, Result: ret})
}

// splitCommandLine splits line at the first space, per spec.md §4.2: the
// prefix is the command name, the suffix (or empty) is the argument string.
func splitCommandLine(line string) (name, args string) {
	if idx := strings.IndexByte(line, ' '); idx >= 0 {
		return line[:idx], line[idx+1:]
	}
	return line, ""
}
