package turn

import (
	"errors"
	"testing"

	"glitchchess/src/base"
	"glitchchess/src/logic/board"
	"glitchchess/src/logic/rules/moves"
	"glitchchess/src/logic/transform"
	"glitchchess/src/testutil"
)

func pt(s string) base.Point {
	p, err := base.ParsePoint(s)
	if err != nil {
		panic(err)
	}
	return p
}

func enemy(kind base.Kind, cell string) *base.Piece {
	pc := base.NewPiece(kind, base.Enemy, pt(cell))
	pc.Royal = kind == base.King
	return pc
}

type fixture struct {
	c      *Controller
	board  *board.Board
	player *base.Piece
	events []Event
}

func newFixture(t *testing.T, start base.Kind, at string, enemies ...*base.Piece) *fixture {
	t.Helper()
	b, err := board.New(5)
	testutil.MustNoError(t, err)
	player := base.NewPiece(start, base.Player, pt(at))
	testutil.MustNoError(t, b.Place(player))
	for _, e := range enemies {
		testutil.MustNoError(t, b.Place(e))
	}
	tr, err := transform.New(start, transform.Seeded(7))
	testutil.MustNoError(t, err)
	c, err := New(Config{Board: b, Player: player, Enemies: enemies, Transform: tr})
	testutil.MustNoError(t, err)
	f := &fixture{c: c, board: b, player: player}
	c.Subscribe(func(ev Event) { f.events = append(f.events, ev) })
	return f
}

func TestCapturingTheKingAlwaysWins(t *testing.T) {
	king := enemy(base.King, "c3")
	// d4 pawn attacks c3, so the capture lands on a threatened cell
	f := newFixture(t, base.Queen, "a1", king, enemy(base.Pawn, "d4"))

	res, err := f.c.Select(pt("c3"))
	testutil.MustNoError(t, err)
	testutil.AssertTrue(t, res.Captured != nil && res.Captured.Royal)
	testutil.AssertEqual(t, f.c.Status(), Won)
	testutil.AssertEqual(t, f.c.Reason(), ReasonKingCaptured)

	testutil.AssertEqual(t, f.c.Settle(), Won, "settle after a win is a no-op")
	testutil.AssertEqual(t, f.c.Expire(), Won)
	testutil.AssertEqual(t, f.c.Kind(), base.Queen, "no transformation after the winning move")
	testutil.AssertEqual(t, len(f.c.Enemies()), 1)
	testutil.AssertEqual(t, f.board.At(pt("c3")), f.player)

	cp := *king
	testutil.AssertEqual(t, f.events, []Event{
		MoveResolved{Ply: 1, From: pt("a1"), To: pt("c3"), Kind: base.Queen, Captured: &cp},
		GameEnded{Won: true, Reason: ReasonKingCaptured},
	})
}

func TestMovingIntoAttackLoses(t *testing.T) {
	f := newFixture(t, base.King, "b2", enemy(base.King, "d4"))
	target := base.Point{Col: 2, Row: 2}
	testutil.AssertTrue(t, f.c.Hazards().Contains(target))

	_, st, err := f.c.Play(target)
	testutil.MustNoError(t, err)
	testutil.AssertEqual(t, st, Lost)
	testutil.AssertEqual(t, f.c.Reason(), ReasonThreatened)
	testutil.AssertEqual(t, f.c.Kind(), base.King, "a losing move does not transform")
	testutil.AssertEqual(t, f.c.Player().Pos, target)

	last := f.events[len(f.events)-1]
	testutil.AssertEqual(t, last, Event(GameEnded{Won: false, Reason: ReasonThreatened}))
	for _, ev := range f.events {
		if _, ok := ev.(KindChanged); ok {
			t.Fatal("kind changed after a losing move")
		}
	}
}

func TestInvalidSelectionChangesNothing(t *testing.T) {
	f := newFixture(t, base.Rook, "a1", enemy(base.Pawn, "a3"), enemy(base.King, "e5"))
	kind, next := f.c.Kind(), f.c.Next()

	for _, target := range []base.Point{pt("c2"), pt("a1"), pt("a4"), {Col: 9, Row: 0}, {Col: -1, Row: 2}} {
		_, err := f.c.Select(target)
		testutil.AssertErrorIs(t, err, ErrIllegalTarget)
	}
	testutil.AssertEqual(t, f.c.Status(), AwaitingInput)
	testutil.AssertEqual(t, f.c.Kind(), kind)
	testutil.AssertEqual(t, f.c.Next(), next)
	testutil.AssertEqual(t, f.c.Player().Pos, pt("a1"))
	testutil.AssertEqual(t, f.c.Ply(), 0)
	testutil.AssertEqual(t, len(f.events), 0)
	testutil.AssertEqual(t, len(f.c.Enemies()), 2)
}

func TestPawnCannotCaptureForward(t *testing.T) {
	f := newFixture(t, base.Pawn, "b2", enemy(base.Pawn, "b3"), enemy(base.King, "e5"))
	_, err := f.c.Select(pt("b3"))
	testutil.AssertErrorIs(t, err, ErrIllegalTarget)
	testutil.AssertEqual(t, f.board.At(pt("b3")).Kind, base.Pawn)
}

func TestSettleTransformsAndReopensInput(t *testing.T) {
	f := newFixture(t, base.Rook, "a1", enemy(base.King, "e5"))
	preview := f.c.Next()

	res, err := f.c.Select(pt("a2"))
	testutil.MustNoError(t, err)
	testutil.AssertEqual(t, res.Kind, base.Rook)
	testutil.AssertTrue(t, res.Captured == nil)
	testutil.AssertTrue(t, f.c.Busy())

	_, err = f.c.Select(pt("a3"))
	testutil.AssertErrorIs(t, err, ErrNotAwaiting)
	testutil.AssertEqual(t, f.c.Player().Pos, pt("a2"), "input while resolving is ignored")

	testutil.AssertEqual(t, f.c.Settle(), AwaitingInput)
	testutil.AssertEqual(t, f.c.Kind(), preview, "the preview is the kind the player becomes")
	testutil.AssertTrue(t, f.c.Kind() != base.Rook)
	testutil.AssertTrue(t, f.c.Next() != f.c.Kind())

	player := f.c.Player()
	testutil.AssertEqual(t, f.c.LegalMoves(), moves.LegalMoves(f.board, &player))
	testutil.AssertEqual(t, f.events[1], Event(KindChanged{Kind: f.c.Kind(), Next: f.c.Next()}))
	testutil.AssertEqual(t, f.c.Settle(), AwaitingInput, "second settle does nothing")
	testutil.AssertEqual(t, len(f.events), 2)
}

func TestNonRoyalCapture(t *testing.T) {
	pawn := enemy(base.Pawn, "c3")
	f := newFixture(t, base.Knight, "b1", pawn, enemy(base.King, "e5"))
	testutil.AssertEqual(t, f.c.Captures(), base.Cells{pt("c3")})

	res, st, err := f.c.Play(pt("c3"))
	testutil.MustNoError(t, err)
	testutil.AssertEqual(t, st, AwaitingInput)
	testutil.AssertEqual(t, res.Captured.Kind, base.Pawn)
	testutil.AssertEqual(t, len(f.c.Enemies()), 1)
	testutil.AssertEqual(t, f.board.At(pt("c3")), f.player)
	testutil.MustNoError(t, f.board.Verify(f.board.Pieces()...))
}

func TestExpiry(t *testing.T) {
	t.Run("while awaiting input", func(t *testing.T) {
		f := newFixture(t, base.Rook, "a1", enemy(base.King, "e5"))
		testutil.AssertEqual(t, f.c.Expire(), Lost)
		testutil.AssertEqual(t, f.c.Reason(), ReasonTimeExpired)
		_, err := f.c.Select(pt("a2"))
		testutil.AssertErrorIs(t, err, ErrNotAwaiting)
		testutil.AssertEqual(t, f.c.Expire(), Lost)
		testutil.AssertEqual(t, len(f.events), 1)
	})
	t.Run("deferred while resolving", func(t *testing.T) {
		f := newFixture(t, base.Rook, "a1", enemy(base.King, "e5"))
		_, err := f.c.Select(pt("a2"))
		testutil.MustNoError(t, err)
		testutil.AssertEqual(t, f.c.Expire(), Resolving)
		testutil.AssertEqual(t, f.c.Settle(), Lost)
		testutil.AssertEqual(t, f.c.Reason(), ReasonTimeExpired)
		_, ok := f.events[1].(KindChanged)
		testutil.AssertTrue(t, ok, "the move in flight completes before the loss")
	})
	t.Run("threat wins over deferred expiry", func(t *testing.T) {
		f := newFixture(t, base.King, "b2", enemy(base.King, "d4"))
		_, err := f.c.Select(pt("c3"))
		testutil.MustNoError(t, err)
		f.c.Expire()
		testutil.AssertEqual(t, f.c.Settle(), Lost)
		testutil.AssertEqual(t, f.c.Reason(), ReasonThreatened)
	})
}

func TestNewRejectsBadSetup(t *testing.T) {
	b, _ := board.New(5)
	tr, _ := transform.New(base.Rook, nil)
	player := base.NewPiece(base.Rook, base.Player, pt("a1"))

	_, err := New(Config{Board: b, Player: player, Transform: tr})
	testutil.AssertErrorIs(t, err, ErrBadSetup, "player not placed")

	testutil.MustNoError(t, b.Place(player))
	stray := base.NewPiece(base.Pawn, base.Player, pt("c3"))
	testutil.MustNoError(t, b.Place(stray))
	_, err = New(Config{Board: b, Player: player, Enemies: []*base.Piece{stray}, Transform: tr})
	testutil.AssertErrorIs(t, err, ErrBadSetup, "enemy with player side")

	_, err = New(Config{Board: b, Player: player})
	testutil.AssertTrue(t, errors.Is(err, ErrBadSetup))
}
