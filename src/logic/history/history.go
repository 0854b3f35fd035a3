// Package history journals every resolution of a level. It listens to the
// turn controller's events, so it never disagrees with the engine.
package history

import (
	"fmt"
	"strings"

	"glitchchess/src/base"
	"glitchchess/src/logic/turn"
)

type Outcome uint8

const (
	Pending Outcome = iota
	Continued
	Won
	Lost
)

type Entry struct {
	Ply      int
	Kind     base.Kind // kind that made the move
	From     base.Point
	To       base.Point
	Captured base.Kind // InvalidKind for a plain move
	Royal    bool      // captured piece was the enemy king
	Became   base.Kind // kind after transformation, InvalidKind if none happened
	Outcome  Outcome
}

// Notation renders the entry as e.g. "Ra1-a3", "Nb1xc3", "Qc3xe5#" or
// "Kb2-c3!" (moved into an attack).
func (e Entry) Notation() string {
	var b strings.Builder
	b.WriteRune(e.Kind.Rune())
	b.WriteString(e.From.String())
	if e.Captured.Valid() {
		b.WriteByte('x')
	} else {
		b.WriteByte('-')
	}
	b.WriteString(e.To.String())
	switch {
	case e.Outcome == Won:
		b.WriteByte('#')
	case e.Outcome == Lost:
		b.WriteByte('!')
	}
	return b.String()
}

// Result is the end of the level, if it ended.
type Result struct {
	Done   bool
	Won    bool
	Reason turn.EndReason
}

type History struct {
	entries []Entry
	result  Result
}

func New() *History {
	return &History{entries: make([]Entry, 0, 16)}
}

func (h *History) Len() int       { return len(h.entries) }
func (h *History) Result() Result { return h.result }

func (h *History) Entries() []Entry {
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Last returns the latest entry and false on an empty journal.
func (h *History) Last() (Entry, bool) {
	if len(h.entries) == 0 {
		return Entry{}, false
	}
	return h.entries[len(h.entries)-1], true
}

func (h *History) Reset() {
	h.entries = h.entries[:0]
	h.result = Result{}
}

// Record is a turn.Listener.
func (h *History) Record(ev turn.Event) {
	switch ev := ev.(type) {
	case turn.MoveResolved:
		e := Entry{Ply: ev.Ply, Kind: ev.Kind, From: ev.From, To: ev.To}
		if ev.Captured != nil {
			e.Captured = ev.Captured.Kind
			e.Royal = ev.Captured.Royal
		}
		h.entries = append(h.entries, e)
	case turn.KindChanged:
		if last := h.pending(); last != nil {
			last.Became = ev.Kind
			last.Outcome = Continued
		}
	case turn.GameEnded:
		if last := h.pending(); last != nil {
			if ev.Won {
				last.Outcome = Won
			} else {
				last.Outcome = Lost
			}
		}
		h.result = Result{Done: true, Won: ev.Won, Reason: ev.Reason}
	}
}

func (h *History) pending() *Entry {
	if n := len(h.entries); n > 0 && h.entries[n-1].Outcome == Pending {
		return &h.entries[n-1]
	}
	return nil
}

func (h *History) Notation() []string {
	out := make([]string, len(h.entries))
	for i, e := range h.entries {
		out[i] = e.Notation()
	}
	return out
}

// String numbers the moves: "1. Ra1-a3 2. Pa3-a4 3. Na4xb2#".
func (h *History) String() string {
	if h == nil || len(h.entries) == 0 {
		return ""
	}
	var b strings.Builder
	for i, e := range h.entries {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d. %s", e.Ply, e.Notation())
	}
	return b.String()
}
