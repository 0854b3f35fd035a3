// Package rules evaluates enemy threat projections against board cells.
package rules

import (
	"glitchchess/src/base"
	"glitchchess/src/logic/board"
	"glitchchess/src/logic/rules/moves"
)

// IsThreatened reports whether any enemy's attack offsets, applied from its
// position, cover cell. This is a membership test, not a simulated capture.
func IsThreatened(b *board.Board, cell base.Point, enemies []*base.Piece) bool {
	for _, e := range enemies {
		if moves.Attacks(b, e, cell) {
			return true
		}
	}
	return false
}

// Attackers lists the enemies whose projection covers cell.
func Attackers(b *board.Board, cell base.Point, enemies []*base.Piece) []*base.Piece {
	var out []*base.Piece
	for _, e := range enemies {
		if moves.Attacks(b, e, cell) {
			out = append(out, e)
		}
	}
	return out
}

// ThreatMap is the union of all enemy projections, first occurrence order.
func ThreatMap(b *board.Board, enemies []*base.Piece) base.Cells {
	seen := make(map[base.Point]bool)
	out := make(base.Cells, 0, 8*len(enemies))
	for _, e := range enemies {
		for _, c := range moves.Projection(b, e) {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}

// Hazards filters dests down to the threatened ones, for highlighting.
func Hazards(b *board.Board, dests base.Cells, enemies []*base.Piece) base.Cells {
	out := make(base.Cells, 0, len(dests))
	for _, c := range dests {
		if IsThreatened(b, c, enemies) {
			out = append(out, c)
		}
	}
	return out
}
