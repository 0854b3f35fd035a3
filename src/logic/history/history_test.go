package history

import (
	"testing"

	"glitchchess/src/base"
	"glitchchess/src/logic/board"
	"glitchchess/src/logic/transform"
	"glitchchess/src/logic/turn"
	"glitchchess/src/testutil"
)

func pt(s string) base.Point {
	p, err := base.ParsePoint(s)
	if err != nil {
		panic(err)
	}
	return p
}

func TestNotation(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  string
	}{
		{"move", Entry{Kind: base.Rook, From: pt("a1"), To: pt("a3"), Outcome: Continued}, "Ra1-a3"},
		{"capture", Entry{Kind: base.Knight, From: pt("b1"), To: pt("c3"), Captured: base.Pawn, Outcome: Continued}, "Nb1xc3"},
		{"king capture", Entry{Kind: base.Queen, From: pt("c3"), To: pt("e5"), Captured: base.King, Royal: true, Outcome: Won}, "Qc3xe5#"},
		{"into attack", Entry{Kind: base.King, From: pt("b2"), To: pt("c3"), Outcome: Lost}, "Kb2-c3!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertEqual(t, tt.entry.Notation(), tt.want)
		})
	}
}

func TestRecordFromEvents(t *testing.T) {
	h := New()
	h.Record(turn.MoveResolved{Ply: 1, From: pt("a1"), To: pt("a3"), Kind: base.Rook})
	last, _ := h.Last()
	testutil.AssertEqual(t, last.Outcome, Pending)

	h.Record(turn.KindChanged{Kind: base.Knight, Next: base.Pawn})
	king := base.NewPiece(base.King, base.Enemy, pt("b5"))
	king.Royal = true
	h.Record(turn.MoveResolved{Ply: 2, From: pt("a3"), To: pt("b5"), Kind: base.Knight, Captured: king})
	h.Record(turn.GameEnded{Won: true, Reason: turn.ReasonKingCaptured})

	testutil.AssertEqual(t, h.Entries(), []Entry{
		{Ply: 1, Kind: base.Rook, From: pt("a1"), To: pt("a3"), Became: base.Knight, Outcome: Continued},
		{Ply: 2, Kind: base.Knight, From: pt("a3"), To: pt("b5"), Captured: base.King, Royal: true, Outcome: Won},
	})
	testutil.AssertEqual(t, h.String(), "1. Ra1-a3 2. Na3xb5#")
	testutil.AssertEqual(t, h.Result(), Result{Done: true, Won: true, Reason: turn.ReasonKingCaptured})

	h.Reset()
	testutil.AssertEqual(t, h.Len(), 0)
	testutil.AssertEqual(t, h.String(), "")
	_, ok := h.Last()
	testutil.AssertFalse(t, ok)
}

func TestTimeoutDoesNotRewriteSettledMove(t *testing.T) {
	h := New()
	h.Record(turn.MoveResolved{Ply: 1, From: pt("a1"), To: pt("a2"), Kind: base.Rook})
	h.Record(turn.KindChanged{Kind: base.Bishop, Next: base.Queen})
	h.Record(turn.GameEnded{Won: false, Reason: turn.ReasonTimeExpired})

	last, _ := h.Last()
	testutil.AssertEqual(t, last.Outcome, Continued)
	testutil.AssertEqual(t, last.Notation(), "Ra1-a2")
	testutil.AssertEqual(t, h.Result().Reason, turn.ReasonTimeExpired)
}

func TestFollowsController(t *testing.T) {
	b, _ := board.New(5)
	player := base.NewPiece(base.King, base.Player, pt("b2"))
	foe := base.NewPiece(base.King, base.Enemy, pt("d4"))
	foe.Royal = true
	testutil.MustNoError(t, b.Place(player))
	testutil.MustNoError(t, b.Place(foe))
	tr, _ := transform.New(base.King, transform.Seeded(3))
	c, err := turn.New(turn.Config{Board: b, Player: player, Enemies: []*base.Piece{foe}, Transform: tr})
	testutil.MustNoError(t, err)

	h := New()
	c.Subscribe(h.Record)
	_, _, err = c.Play(pt("c3"))
	testutil.MustNoError(t, err)
	testutil.AssertEqual(t, h.Notation(), []string{"Kb2-c3!"})
	testutil.AssertEqual(t, h.Result().Reason, turn.ReasonThreatened)
}
