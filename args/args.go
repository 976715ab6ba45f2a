// Package args implements the declarative, type-directed argument parser
// described in spec.md §4.3: a scan-based parser over a raw argument string
// into typed flags plus an optional positional, with a generated -h usage
// line. It deliberately avoids any conventional flag library — see
// SPEC_FULL.md §4.3 for why.
package args

import (
	"strconv"
	"strings"
)

// Kind tags the variant a Param holds, per spec.md §9 "Heterogeneous
// parameters": a single tagged record with one parse routine per tag rather
// than compile-time generics.
type Kind int

const (
	Bool Kind = iota
	Int
	UInt
	Float
	String
	Positional
)

// PositionalID is the sentinel id used for the positional parameter.
const PositionalID = ' '

// Param is one parsed argument descriptor. It is constructed bound to a raw
// argument string and parses immediately; after construction Valid and the
// typed accessor report the result.
type Param struct {
	ID          byte
	Description string
	Kind        Kind
	Valid       bool

	boolVal   bool
	intVal    int64
	uintVal   uint64
	floatVal  float64
	stringVal string
}

func newParam(id byte, desc string, kind Kind) Param {
	return Param{ID: id, Description: desc, Kind: kind}
}

// NewBool constructs a boolean flag parameter and parses it from raw.
func NewBool(id byte, desc, raw string) Param {
	p := newParam(id, desc, Bool)
	p.boolVal, p.Valid = scanBoolFlag(raw, id)
	return p
}

// NewInt constructs a signed integer flag parameter and parses it from raw.
func NewInt(id byte, desc, raw string) Param {
	p := newParam(id, desc, Int)
	lit, ok := scanValueFlag(raw, id)
	if !ok {
		return p
	}
	v, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		return p
	}
	p.intVal, p.Valid = v, true
	return p
}

// NewUInt constructs an unsigned integer flag parameter and parses it from raw.
func NewUInt(id byte, desc, raw string) Param {
	p := newParam(id, desc, UInt)
	lit, ok := scanValueFlag(raw, id)
	if !ok {
		return p
	}
	v, err := strconv.ParseUint(lit, 10, 64)
	if err != nil {
		return p
	}
	p.uintVal, p.Valid = v, true
	return p
}

// NewFloat constructs a floating point flag parameter and parses it from raw.
func NewFloat(id byte, desc, raw string) Param {
	p := newParam(id, desc, Float)
	lit, ok := scanValueFlag(raw, id)
	if !ok {
		return p
	}
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return p
	}
	p.floatVal, p.Valid = v, true
	return p
}

// NewString constructs a string flag parameter and parses it from raw.
func NewString(id byte, desc, raw string) Param {
	p := newParam(id, desc, String)
	lit, ok := scanValueFlag(raw, id)
	if !ok {
		return p
	}
	p.stringVal, p.Valid = lit, true
	return p
}

// NewPositional constructs the positional parameter (sentinel id
// PositionalID) and parses it from raw.
func NewPositional(desc, raw string) Param {
	p := newParam(PositionalID, desc, Positional)
	p.stringVal, p.Valid = scanPositional(raw)
	return p
}

func (p Param) Bool() bool      { return p.boolVal }
func (p Param) Int() int64      { return p.intVal }
func (p Param) UInt() uint64    { return p.uintVal }
func (p Param) Float() float64  { return p.floatVal }
func (p Param) String() string  { return p.stringVal }

// scanValueFlag scans raw for the pattern "-<id>=" anywhere inside it, per
// spec.md §4.3, and returns the literal up to the next whitespace or end of
// string.
func scanValueFlag(raw string, id byte) (string, bool) {
	pat := string([]byte{'-', id, '='})
	idx := strings.Index(raw, pat)
	if idx < 0 {
		return "", false
	}
	rest := raw[idx+len(pat):]
	end := strings.IndexAny(rest, " \t")
	if end < 0 {
		end = len(rest)
	}
	return rest[:end], true
}

// scanBoolFlag scans raw for the two-character pattern "-<id>" anywhere
// inside it, skipping any occurrence immediately followed by '=' (which would
// make it a value flag of the same id). Token boundaries are not checked, so
// "-ab" also matches id 'a'.
func scanBoolFlag(raw string, id byte) (bool, bool) {
	pat := string([]byte{'-', id})
	idx := strings.Index(raw, pat)
	for idx >= 0 {
		after := idx + len(pat)
		if after >= len(raw) || raw[after] != '=' {
			return true, true
		}
		next := strings.Index(raw[after:], pat)
		if next < 0 {
			break
		}
		idx = after + next
	}
	return false, false
}

// scanPositional returns the first whitespace-delimited token in raw that is
// not introduced by '-', skipping over both "-x" and "-x=value" flag tokens.
func scanPositional(raw string) (string, bool) {
	for _, tok := range strings.Fields(raw) {
		if !strings.HasPrefix(tok, "-") {
			return tok, true
		}
	}
	return "", false
}

// Help renders the usage line and per-parameter description spec.md §4.3
// specifies, and reports whether -h was present in raw (in which case the
// caller should print this and return ok without running the command body).
func Help(cmdName, raw string, params []Param) (string, bool) {
	if _, present := scanBoolFlag(raw, 'h'); !present {
		return "", false
	}

	var b strings.Builder
	b.WriteString("Usage: ")
	b.WriteString(cmdName)
	for _, p := range params {
		switch p.Kind {
		case Positional:
			b.WriteString(" INPUT")
		case Bool:
			b.WriteString(" -")
			b.WriteByte(p.ID)
		default:
			b.WriteString(" -")
			b.WriteByte(p.ID)
			b.WriteString("=X")
		}
	}
	b.WriteByte('\n')
	for _, p := range params {
		b.WriteString(p.Description)
		b.WriteByte('\n')
	}
	return b.String(), true
}
