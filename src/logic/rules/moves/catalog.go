package moves

import "glitchchess/src/base"

// Pattern is the geometry of a kind as seen from one side. For sliding kinds
// Steps holds directions to scan, otherwise single relative steps.
type Pattern struct {
	Kind    base.Kind
	Sliding bool
	Steps   []base.Offset
	Attacks []base.Offset
	// step moves may only land on empty cells (pawn forward)
	QuietSteps bool
}

var (
	orthogonal = []base.Offset{{DC: 1, DR: 0}, {DC: -1, DR: 0}, {DC: 0, DR: 1}, {DC: 0, DR: -1}}
	diagonal   = []base.Offset{{DC: 1, DR: 1}, {DC: 1, DR: -1}, {DC: -1, DR: 1}, {DC: -1, DR: -1}}
	allDirs    = append(append([]base.Offset{}, orthogonal...), diagonal...)
	knightHops = []base.Offset{
		{DC: 1, DR: 2}, {DC: 2, DR: 1}, {DC: 2, DR: -1}, {DC: 1, DR: -2},
		{DC: -1, DR: -2}, {DC: -2, DR: -1}, {DC: -2, DR: 1}, {DC: -1, DR: 2},
	}
	kingSteps = func() []base.Offset {
		out := make([]base.Offset, 0, 8)
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				if dc == 0 && dr == 0 {
					continue
				}
				out = append(out, base.Offset{DC: dc, DR: dr})
			}
		}
		return out
	}()
	// pawn offsets are written for a side moving up the board
	pawnStep    = []base.Offset{{DC: 0, DR: 1}}
	pawnAttacks = []base.Offset{{DC: -1, DR: 1}, {DC: 1, DR: 1}}
)

// catalog is written from the player's point of view; PatternOf orients it.
var catalog = map[base.Kind]Pattern{
	base.Pawn:   {Kind: base.Pawn, Steps: pawnStep, Attacks: pawnAttacks, QuietSteps: true},
	base.Knight: {Kind: base.Knight, Steps: knightHops, Attacks: knightHops},
	base.King:   {Kind: base.King, Steps: kingSteps, Attacks: kingSteps},
	base.Rook:   {Kind: base.Rook, Sliding: true, Steps: orthogonal, Attacks: orthogonal},
	base.Bishop: {Kind: base.Bishop, Sliding: true, Steps: diagonal, Attacks: diagonal},
	base.Queen:  {Kind: base.Queen, Sliding: true, Steps: allDirs, Attacks: allDirs},
}

// PatternOf returns the move and attack geometry of kind for side. The result
// is a fresh copy, callers may keep it.
func PatternOf(kind base.Kind, side base.Side) (Pattern, bool) {
	p, ok := catalog[kind]
	if !ok {
		return Pattern{}, false
	}
	f := side.Forward()
	p.Steps = orient(p.Steps, f)
	p.Attacks = orient(p.Attacks, f)
	return p, true
}

func orient(offsets []base.Offset, forward int) []base.Offset {
	out := make([]base.Offset, len(offsets))
	for i, o := range offsets {
		out[i] = base.Offset{DC: o.DC, DR: o.DR * forward}
	}
	return out
}

// IsSliding reports whether kind scans its directions until blocked.
func IsSliding(kind base.Kind) bool {
	return catalog[kind].Sliding
}
