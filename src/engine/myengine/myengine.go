package myengine

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"glitchchess/src/base"
	"glitchchess/src/engine"
	"glitchchess/src/logic/board"
	"glitchchess/src/logic/rules"
	"glitchchess/src/logic/rules/moves"
)

const (
	scoreWin     = 100_000
	scoreLoss    = -100_000
	scoreDeadEnd = -3_000 // no destination at all for the kind
	scoreCapture = 500
	scoreSafe    = 20 // per safe follow-up
	distPenalty  = 10 // per step away from the enemy king
)

// heuristic hint engine: one ply of real rules, then lookahead with the
// preview kind and, deeper, with the least helpful kind
type GlitchEngine struct {
	mu  sync.RWMutex
	pos *engine.Position
}

func NewGlitchEngine() *GlitchEngine {
	return &GlitchEngine{}
}

// SetPosition keeps a private copy of the board.
func (e *GlitchEngine) SetPosition(pos engine.Position) error {
	if pos.Board == nil {
		return engine.ErrNoPosition
	}
	cp := pos
	cp.Board = pos.Board.Clone()
	e.mu.Lock()
	e.pos = &cp
	e.mu.Unlock()
	return nil
}

func (e *GlitchEngine) Analyse(ctx context.Context, params engine.SearchParams) (engine.AnalysisInfo, error) {
	e.mu.RLock()
	pos := e.pos
	e.mu.RUnlock()
	if pos == nil {
		return engine.AnalysisInfo{}, engine.ErrNoPosition
	}
	if params.MaxTimeMs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(params.MaxTimeMs)*time.Millisecond)
		defer cancel()
	}
	depth := params.MaxDepth
	if depth <= 0 {
		depth = 2
	}

	start := time.Now()
	s := &search{ctx: ctx}
	b := pos.Board.Clone()
	player := findPlayer(b)
	if player == nil {
		return engine.AnalysisInfo{}, engine.ErrNoPosition
	}
	player.Kind = pos.Kind

	info := engine.AnalysisInfo{Depth: depth}
	next := pos.Next
	for _, to := range destinations(b, player) {
		if err := ctx.Err(); err != nil {
			// keep what has been scored so far
			break
		}
		target := b.At(to)
		c := engine.Candidate{
			To:      to,
			Capture: target != nil,
			King:    target != nil && target.Royal,
		}
		c.Score, c.Safe = s.move(b, player, to, &next, depth)
		info.Ranked = append(info.Ranked, c)
	}
	info.Nodes = s.nodes
	info.TimeMs = time.Since(start).Milliseconds()

	if len(info.Ranked) == 0 {
		if err := ctx.Err(); err != nil {
			return info, err
		}
		return info, engine.ErrNoMoves
	}
	sort.SliceStable(info.Ranked, func(i, j int) bool {
		return info.Ranked[i].Score > info.Ranked[j].Score
	})
	info.Best = &info.Ranked[0]
	return info, nil
}

type search struct {
	ctx   context.Context
	nodes int64
}

// move scores sending player (on b) to `to`. next is the kind the player
// becomes afterwards, nil when unknown.
func (s *search) move(b *board.Board, player *base.Piece, to base.Point, next *base.Kind, depth int) (int, bool) {
	s.nodes++
	if t := b.At(to); t != nil && t.Royal {
		return scoreWin, true
	}

	nb := b.Clone()
	me := nb.At(player.Pos)
	me.Kind = player.Kind
	captured := false
	if nb.OccupantSide(to) == base.Enemy {
		_, _ = nb.Remove(to)
		captured = true
	}
	_ = nb.Relocate(me, to)
	enemies := enemiesOf(nb)
	if rules.IsThreatened(nb, to, enemies) {
		return scoreLoss, false
	}

	score := -distPenalty * distanceToKing(to, enemies)
	if captured {
		score += scoreCapture
	}
	if depth <= 1 || s.ctx.Err() != nil {
		return score, true
	}

	if next != nil {
		return score + s.best(nb, me, *next, depth-1)/2, true
	}
	// the kind after the preview is not known yet: assume the least helpful
	worst := math.MaxInt
	for _, k := range base.Kinds {
		if k == me.Kind {
			continue
		}
		if v := s.best(nb, me, k, depth-1); v < worst {
			worst = v
		}
	}
	return score + worst/2, true
}

// best is the value of the best destination for player as kind.
func (s *search) best(b *board.Board, player *base.Piece, kind base.Kind, depth int) int {
	pc := *player
	pc.Kind = kind
	dests := destinations(b, &pc)
	if len(dests) == 0 {
		return scoreDeadEnd
	}
	best := math.MinInt
	safe := 0
	for _, to := range dests {
		v, ok := s.move(b, &pc, to, nil, depth)
		if ok {
			safe++
		}
		if v > best {
			best = v
		}
	}
	if safe == 0 {
		return scoreDeadEnd
	}
	return best + scoreSafe*safe
}

// destinations are the cells a selection would accept: captures plus
// unoccupied legal moves, in generation order.
func destinations(b *board.Board, pc *base.Piece) base.Cells {
	attacks := moves.LegalAttacks(b, pc)
	out := make(base.Cells, 0, 16)
	for _, c := range moves.LegalMoves(b, pc) {
		if !b.IsOccupied(c) || attacks.Contains(c) {
			out = append(out, c)
		}
	}
	for _, c := range attacks {
		if !out.Contains(c) {
			out = append(out, c)
		}
	}
	return out
}

func findPlayer(b *board.Board) *base.Piece {
	for _, pc := range b.Pieces() {
		if pc.Side == base.Player {
			return pc
		}
	}
	return nil
}

func enemiesOf(b *board.Board) []*base.Piece {
	var out []*base.Piece
	for _, pc := range b.Pieces() {
		if pc.Side == base.Enemy {
			out = append(out, pc)
		}
	}
	return out
}

// Chebyshev distance to the royal enemy, 0 when there is none.
func distanceToKing(p base.Point, enemies []*base.Piece) int {
	for _, e := range enemies {
		if e.Royal {
			return max(abs(e.Pos.Col-p.Col), abs(e.Pos.Row-p.Row))
		}
	}
	return 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
