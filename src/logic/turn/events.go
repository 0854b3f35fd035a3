package turn

import "glitchchess/src/base"

// Event is one of MoveResolved, KindChanged or GameEnded.
type Event interface {
	event()
}

// MoveResolved is emitted once the player's new position is committed.
// Captured is a copy of the removed enemy, nil for a plain move.
type MoveResolved struct {
	Ply      int
	From     base.Point
	To       base.Point
	Kind     base.Kind
	Captured *base.Piece
}

type KindChanged struct {
	Kind base.Kind
	Next base.Kind
}

type GameEnded struct {
	Won    bool
	Reason EndReason
}

func (MoveResolved) event() {}
func (KindChanged) event()  {}
func (GameEnded) event()    {}

// Listener observes controller events. It runs synchronously inside the
// controller call and must not call back into the controller.
type Listener func(Event)

type EndReason uint8

const (
	ReasonNone EndReason = iota
	ReasonKingCaptured
	ReasonThreatened
	ReasonTimeExpired
)

func (r EndReason) String() string {
	switch r {
	case ReasonKingCaptured:
		return "enemy king captured"
	case ReasonThreatened:
		return "stepped into an attack zone"
	case ReasonTimeExpired:
		return "time expired"
	default:
		return "none"
	}
}
