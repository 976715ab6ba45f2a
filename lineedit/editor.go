// Package lineedit implements the non-blocking line editor / input pump
// described in spec.md §4.1: it consumes single bytes from a byte ring and
// maintains the current editable line with history, ANSI escape
// recognition, backspace, and Ctrl-C interception.
package lineedit

import (
	"io"

	"github.com/coretermio/coreterm/ring"
)

// Control bytes recognized by the editor (ground: kylelemons-goat/term/codes.go).
const (
	ESC       = 0x1b
	BS        = '\b'
	DEL       = 0x7f
	CtrlC     = 0x03
	NewLine   = '\n'
	CarriageR = '\r'
)

// DrainResult is the outcome of one Drain call, per spec.md §4.1.
type DrainResult int

const (
	// NoChange means the ring was empty, or only an incomplete escape
	// sequence was consumed (retained for the next Drain).
	NoChange DrainResult = iota
	// PartialEdit means the buffer changed but no line was committed. For
	// backspace and history recall the editor has already echoed the
	// necessary bytes; for an ordinary printable byte the editor has only
	// flagged it (see LastByte) and the caller is responsible for echoing
	// it, per spec.md §4.1 ("edit dirty" flag).
	PartialEdit
	// LineCommitted means a complete line is ready in the Buffer, via \n,
	// \r, or a non-empty-buffer commit.
	LineCommitted
	// CtrlCCommitted means Ctrl-C (\x03) triggered an immediate one-byte
	// commit. The dispatcher interprets this differently depending on
	// whether it is Idle (clear the line) or Live (abort the running
	// command) — spec.md names this case "ctrl-c-in-live-state" for the
	// latter, but the editor itself is state-agnostic.
	CtrlCCommitted
)

// Editor is the line editor / input pump. It owns no goroutine: Input is
// safe to call from any context (it only touches the ring), and Drain is
// meant to be called from the dispatcher's single cooperative thread.
type Editor struct {
	ring *ring.Ring
	buf  *Buffer
	hist *History
	sink io.Writer

	escBuf    []byte // nil when not mid-escape-sequence; else 0 or 1 bytes seen after ESC
	lastByte  byte
	dirtyEcho bool
}

// New constructs an Editor over the given ring, with the given line buffer
// and history capacities (0 selects the spec.md defaults), echoing
// self-generated sequences (backspace erase, history redraw) to sink.
func New(r *ring.Ring, bufCap, histCap int, sink io.Writer) *Editor {
	return &Editor{
		ring: r,
		buf:  NewBuffer(bufCap),
		hist: NewHistory(histCap),
		sink: sink,
	}
}

// Input appends one byte to the underlying ring. Safe to call from an
// interrupt context or any producer goroutine.
func (e *Editor) Input(b byte) { e.ring.Push(b) }

// Buffer exposes the line under construction (and, after LineCommitted, the
// committed line, until ResetLine is called).
func (e *Editor) Buffer() *Buffer { return e.buf }

// History exposes the recall ring, mostly for tests and introspection.
func (e *Editor) History() *History { return e.hist }

// LastByte returns the most recently appended printable/ordinary byte and
// clears the dirty flag. The dispatcher calls this after a PartialEdit
// result to perform the single-byte echo the editor itself did not perform.
func (e *Editor) LastByte() (b byte, ok bool) {
	if !e.dirtyEcho {
		return 0, false
	}
	e.dirtyEcho = false
	return e.lastByte, true
}

// ResetLine clears the line buffer for the next command, per spec.md's
// Data Model ("cleared on commit and on reset"): the dispatcher calls this
// once it has consumed a committed line.
func (e *Editor) ResetLine() { e.buf.Reset() }

func (e *Editor) echo(b ...byte) {
	if e.sink != nil {
		e.sink.Write(b)
	}
}

// Drain consumes bytes from the ring until either the ring is empty, a
// commit byte is seen, or one discrete edit (backspace, history recall, or
// an ordinary printable byte) has been applied — per spec.md §4.1, a
// PartialEdit result always corresponds to exactly one edit, so that "the
// last byte" the dispatcher echoes is unambiguous. Bytes that only extend an
// in-progress ESC sequence do not count as an edit and are consumed without
// returning, per the ESC retention rule below.
func (e *Editor) Drain() DrainResult {
	for {
		c, ok := e.ring.Pop()
		if !ok {
			return NoChange
		}

		if e.escBuf != nil {
			e.continueEscape(c)
			if e.escBuf == nil {
				return PartialEdit
			}
			continue
		}

		switch c {
		case ESC:
			// Begin accumulating a CSI sequence. If the ring runs dry
			// before it completes, escBuf is left non-nil and the next
			// Drain call picks up where this one left off.
			e.escBuf = []byte{}
		case BS, DEL:
			if e.buf.Backspace() {
				e.echo('\b', ' ', '\b')
				return PartialEdit
			}
		case NewLine, CarriageR:
			e.buf.data[e.buf.idx] = 0
			if !e.buf.Empty() {
				e.hist.Push(e.buf.Bytes())
			}
			e.hist.ResetCursor()
			return LineCommitted
		case CtrlC:
			e.buf.Reset()
			e.buf.Append(CtrlC)
			e.hist.ResetCursor()
			return CtrlCCommitted
		default:
			if e.buf.Append(c) {
				e.lastByte = c
				e.dirtyEcho = true
				return PartialEdit
			}
		}
	}
}

// continueEscape feeds one byte into an in-progress ESC sequence. Per
// spec.md §4.1, exactly two bytes following ESC are always collected before
// any decision is made — only then is the pair compared against the
// recognized "[A"/"[B" sequences, with anything else discarded wholesale.
// It leaves escBuf non-nil if a second byte is still needed, or nil once the
// sequence is resolved (acted upon or discarded).
func (e *Editor) continueEscape(c byte) {
	e.escBuf = append(e.escBuf, c)
	if len(e.escBuf) < 2 {
		return
	}

	first, second := e.escBuf[0], e.escBuf[1]
	e.escBuf = nil

	if first != '[' {
		return // not a recognized CSI sequence: discard silently
	}
	switch second {
	case 'A': // history-up
		if line, moved := e.hist.Up(); moved || e.hist.Depth() > 0 {
			e.buf.Set(line)
			e.redrawFromHistory()
		}
	case 'B': // history-down
		line, atZero := e.hist.Down()
		if atZero {
			e.buf.Reset()
		} else {
			e.buf.Set(line)
		}
		e.redrawFromHistory()
	default:
		// Unrecognized sequence: discard silently.
	}
}

// redrawFromHistory emits the clear-line-then-reprint sequence spec.md
// §4.1 requires after a history recall.
func (e *Editor) redrawFromHistory() {
	e.echo('\r')
	e.echo([]byte("\x1b[2K")...)
	e.echo([]byte("> ")...)
	e.echo(e.buf.Bytes()...)
}
