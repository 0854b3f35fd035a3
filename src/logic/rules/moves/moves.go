package moves

import (
	"glitchchess/src/base"
	"glitchchess/src/logic/board"
)

// LegalMoves lists the destinations pc may reach this turn, captures
// included. Same-side cells are never destinations.
func LegalMoves(b *board.Board, pc *base.Piece) base.Cells {
	pat, ok := PatternOf(pc.Kind, pc.Side)
	if !ok {
		return nil
	}
	out := make(base.Cells, 0, 16)
	if pat.Sliding {
		genSliding(b, pc, pat.Steps, false, &out)
		return out
	}
	for _, o := range pat.Steps {
		to := pc.Pos.Add(o)
		if !b.InBounds(to) {
			continue
		}
		switch b.OccupantSide(to) {
		case base.NoSide:
			out = append(out, to)
		case pc.Side:
			// own piece
		default:
			if !pat.QuietSteps {
				out = append(out, to)
			}
		}
	}
	return out
}

// LegalAttacks lists the opposite-side cells pc can capture this turn.
func LegalAttacks(b *board.Board, pc *base.Piece) base.Cells {
	pat, ok := PatternOf(pc.Kind, pc.Side)
	if !ok {
		return nil
	}
	out := make(base.Cells, 0, 8)
	if pat.Sliding {
		genSliding(b, pc, pat.Attacks, true, &out)
		return out
	}
	enemy := pc.Side.Opposite()
	for _, o := range pat.Attacks {
		to := pc.Pos.Add(o)
		if b.InBounds(to) && b.OccupantSide(to) == enemy {
			out = append(out, to)
		}
	}
	return out
}

// genSliding walks every direction until the edge or the first occupied
// cell; that cell is kept only when it holds an opposite-side piece.
func genSliding(b *board.Board, pc *base.Piece, dirs []base.Offset, capturesOnly bool, out *base.Cells) {
	for _, d := range dirs {
		for step := 1; ; step++ {
			to := pc.Pos.Add(d.Scale(step))
			if !b.InBounds(to) {
				break
			}
			side := b.OccupantSide(to)
			if side == base.NoSide {
				if !capturesOnly {
					*out = append(*out, to)
				}
				continue
			}
			if side != pc.Side {
				*out = append(*out, to)
			}
			break
		}
	}
}

// Projection lists every on-board cell pc threatens, occupied or not.
// Step attackers threaten their offsets unconditionally; sliding rays stop
// at the first occupied cell, which is included.
func Projection(b *board.Board, pc *base.Piece) base.Cells {
	pat, ok := PatternOf(pc.Kind, pc.Side)
	if !ok {
		return nil
	}
	out := make(base.Cells, 0, 8)
	if !pat.Sliding {
		for _, o := range pat.Attacks {
			if to := pc.Pos.Add(o); b.InBounds(to) {
				out = append(out, to)
			}
		}
		return out
	}
	for _, d := range pat.Attacks {
		for step := 1; ; step++ {
			to := pc.Pos.Add(d.Scale(step))
			if !b.InBounds(to) {
				break
			}
			out = append(out, to)
			if b.IsOccupied(to) {
				break
			}
		}
	}
	return out
}

// Attacks reports whether pc's attack pattern covers cell.
func Attacks(b *board.Board, pc *base.Piece, cell base.Point) bool {
	return Projection(b, pc).Contains(cell)
}
