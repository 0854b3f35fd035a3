package moves

import (
	"math/rand/v2"
	"testing"

	"glitchchess/src/base"
	"glitchchess/src/logic/board"
	"glitchchess/src/testutil"
)

func pt(s string) base.Point {
	p, err := base.ParsePoint(s)
	if err != nil {
		panic(err)
	}
	return p
}

func cells(ss ...string) base.Cells {
	out := make(base.Cells, len(ss))
	for i, s := range ss {
		out[i] = pt(s)
	}
	return out
}

// setup places the player piece and enemies (all pawns unless given) on an n×n board.
func setup(t *testing.T, n int, player *base.Piece, others ...*base.Piece) *board.Board {
	t.Helper()
	b, err := board.New(n)
	testutil.MustNoError(t, err)
	testutil.MustNoError(t, b.Place(player))
	for _, o := range others {
		testutil.MustNoError(t, b.Place(o))
	}
	return b
}

func TestRookBlockedAlongFile(t *testing.T) {
	t.Run("enemy blocker is capturable", func(t *testing.T) {
		rook := base.NewPiece(base.Rook, base.Player, base.Point{Col: 0, Row: 0})
		b := setup(t, 5, rook, base.NewPiece(base.Pawn, base.Enemy, base.Point{Col: 0, Row: 2}))
		got := LegalMoves(b, rook)
		up := base.Cells{}
		for _, c := range got {
			if c.Col == 0 {
				up = append(up, c)
			}
		}
		testutil.AssertEqual(t, up, cells("a2", "a3"))
		testutil.AssertEqual(t, LegalAttacks(b, rook), cells("a3"))
	})
	t.Run("friendly blocker stops the scan", func(t *testing.T) {
		rook := base.NewPiece(base.Rook, base.Player, base.Point{Col: 0, Row: 0})
		b := setup(t, 5, rook, base.NewPiece(base.Pawn, base.Player, base.Point{Col: 0, Row: 2}))
		got := LegalMoves(b, rook)
		testutil.AssertTrue(t, got.Contains(pt("a2")))
		testutil.AssertFalse(t, got.Contains(pt("a3")))
		testutil.AssertFalse(t, got.Contains(pt("a4")))
		testutil.AssertEqual(t, len(LegalAttacks(b, rook)), 0)
	})
}

func TestStepKinds(t *testing.T) {
	tests := []struct {
		name   string
		kind   base.Kind
		from   string
		others []*base.Piece
		want   base.Cells
	}{
		{
			name: "king in corner",
			kind: base.King,
			from: "a1",
			want: cells("b1", "a2", "b2"),
		},
		{
			name: "knight leaps over neighbours",
			kind: base.Knight,
			from: "a1",
			others: []*base.Piece{
				base.NewPiece(base.Pawn, base.Enemy, pt("a2")),
				base.NewPiece(base.Pawn, base.Enemy, pt("b2")),
				base.NewPiece(base.Pawn, base.Enemy, pt("b1")),
			},
			want: cells("b3", "c2"),
		},
		{
			name:   "knight never lands on a friend",
			kind:   base.Knight,
			from:   "a1",
			others: []*base.Piece{base.NewPiece(base.Pawn, base.Player, pt("b3"))},
			want:   cells("c2"),
		},
		{
			name: "pawn steps forward only",
			kind: base.Pawn,
			from: "c2",
			want: cells("c3"),
		},
		{
			name:   "pawn blocked by enemy",
			kind:   base.Pawn,
			from:   "c2",
			others: []*base.Piece{base.NewPiece(base.King, base.Enemy, pt("c3"))},
			want:   cells(),
		},
		{
			name:   "pawn blocked by friend",
			kind:   base.Pawn,
			from:   "c2",
			others: []*base.Piece{base.NewPiece(base.King, base.Player, pt("c3"))},
			want:   cells(),
		},
		{
			name: "pawn on the top row is stuck",
			kind: base.Pawn,
			from: "c5",
			want: cells(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc := base.NewPiece(tt.kind, base.Player, pt(tt.from))
			b := setup(t, 5, pc, tt.others...)
			testutil.AssertEqual(t, LegalMoves(b, pc), tt.want)
		})
	}
}

func TestPawnAttacks(t *testing.T) {
	pawn := base.NewPiece(base.Pawn, base.Player, pt("c2"))
	b := setup(t, 5, pawn,
		base.NewPiece(base.Pawn, base.Enemy, pt("b3")),
		base.NewPiece(base.Pawn, base.Player, pt("d3")),
		base.NewPiece(base.Pawn, base.Enemy, pt("c3")),
	)
	testutil.AssertEqual(t, LegalAttacks(b, pawn), cells("b3"))
	testutil.AssertEqual(t, len(LegalMoves(b, pawn)), 0)
}

func TestEnemyPawnFacesDown(t *testing.T) {
	pawn := base.NewPiece(base.Pawn, base.Enemy, pt("c4"))
	b := setup(t, 5, pawn)
	testutil.AssertEqual(t, LegalMoves(b, pawn), cells("c3"))
	testutil.AssertEqual(t, Projection(b, pawn), cells("b3", "d3"))
}

func TestQueenCoversBothPatterns(t *testing.T) {
	q := base.NewPiece(base.Queen, base.Player, pt("c3"))
	b := setup(t, 5, q)
	got := LegalMoves(b, q)
	testutil.AssertEqual(t, len(got), 16)
	for _, c := range cells("a1", "e5", "a5", "e1", "c1", "c5", "a3", "e3") {
		testutil.AssertTrue(t, got.Contains(c), "queen reaches %s", c)
	}
	testutil.AssertFalse(t, got.Contains(pt("b5")), "queen does not hop")
}

func TestProjectionStepAttackersIgnoreOccupancy(t *testing.T) {
	king := base.NewPiece(base.King, base.Enemy, pt("d4"))
	b := setup(t, 5, king,
		base.NewPiece(base.Pawn, base.Enemy, pt("c3")),
		base.NewPiece(base.Rook, base.Player, pt("e5")),
	)
	got := Projection(b, king)
	testutil.AssertEqual(t, len(got), 8)
	testutil.AssertTrue(t, Attacks(b, king, pt("c3")))
	testutil.AssertTrue(t, Attacks(b, king, pt("e5")))
	testutil.AssertFalse(t, Attacks(b, king, pt("d4")))
}

func TestPatternOfIsTotalAndFresh(t *testing.T) {
	for _, k := range base.Kinds {
		for _, side := range []base.Side{base.Player, base.Enemy} {
			p, ok := PatternOf(k, side)
			testutil.AssertTrue(t, ok, "pattern for %s", k)
			for _, o := range p.Steps {
				testutil.AssertFalse(t, o.IsZero(), "%s has a zero step", k)
			}
			if k != base.Pawn {
				testutil.AssertEqual(t, p.Attacks, p.Steps, "%s attacks equal moves", k)
			}
		}
	}
	p, _ := PatternOf(base.Knight, base.Player)
	p.Steps[0] = base.Offset{}
	again, _ := PatternOf(base.Knight, base.Player)
	testutil.AssertFalse(t, again.Steps[0].IsZero(), "callers cannot corrupt the catalog")

	_, ok := PatternOf(base.InvalidKind, base.Player)
	testutil.AssertFalse(t, ok)
	testutil.AssertTrue(t, IsSliding(base.Bishop))
	testutil.AssertFalse(t, IsSliding(base.Knight))
}

// Randomised boards: destinations stay on the board, never hold a friend,
// and sliding rays never pass the first occupied cell.
func TestLegalMovesProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for n := 2; n <= 8; n++ {
		for trial := 0; trial < 40; trial++ {
			b, err := board.New(n)
			testutil.MustNoError(t, err)
			pc := base.NewPiece(base.Kinds[rng.IntN(len(base.Kinds))], base.Player,
				base.Point{Col: rng.IntN(n), Row: rng.IntN(n)})
			testutil.MustNoError(t, b.Place(pc))
			for i := 0; i < n; i++ {
				side := base.Enemy
				if rng.IntN(3) == 0 {
					side = base.Player
				}
				o := base.NewPiece(base.Pawn, side, base.Point{Col: rng.IntN(n), Row: rng.IntN(n)})
				_ = b.Place(o) // collisions are skipped
			}

			got := LegalMoves(b, pc)
			for _, c := range got {
				if !b.InBounds(c) {
					t.Fatalf("n=%d %s: %s out of bounds", n, pc, c)
				}
				if b.OccupantSide(c) == base.Player {
					t.Fatalf("n=%d %s: lands on friendly %s", n, pc, c)
				}
			}
			if !IsSliding(pc.Kind) {
				continue
			}
			pat, _ := PatternOf(pc.Kind, pc.Side)
			for _, d := range pat.Steps {
				blocked := false
				for step := 1; ; step++ {
					c := pc.Pos.Add(d.Scale(step))
					if !b.InBounds(c) {
						break
					}
					has := got.Contains(c)
					switch {
					case blocked && has:
						t.Fatalf("n=%d %s: %s is beyond a blocker", n, pc, c)
					case !blocked && b.IsOccupied(c):
						if has != (b.OccupantSide(c) == base.Enemy) {
							t.Fatalf("n=%d %s: blocker %s inclusion wrong", n, pc, c)
						}
						blocked = true
					case !blocked && !has:
						t.Fatalf("n=%d %s: open cell %s missing", n, pc, c)
					}
				}
			}
		}
	}
}
