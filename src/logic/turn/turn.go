// Package turn sequences a level: legal moves -> selection -> commit ->
// threat check -> transformation.
//
// A selection is resolved in two steps. Select commits the logical position
// (capture and relocation) and leaves the controller Resolving; Settle then
// runs the threat check and the transformation exactly once. Front-ends that
// animate the move call Settle when the animation completes, others use Play.
package turn

import (
	"errors"
	"fmt"

	"glitchchess/src/base"
	"glitchchess/src/logic/board"
	"glitchchess/src/logic/rules"
	"glitchchess/src/logic/rules/moves"
	"glitchchess/src/logic/transform"
)

type Status uint8

const (
	AwaitingInput Status = iota
	Resolving
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case AwaitingInput:
		return "awaiting input"
	case Resolving:
		return "resolving"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "invalid"
	}
}

func (s Status) Terminal() bool {
	return s == Won || s == Lost
}

var (
	ErrNotAwaiting   = errors.New("not awaiting input")
	ErrIllegalTarget = errors.New("neither a legal move nor a legal capture")
	ErrBadSetup      = errors.New("invalid controller setup")
)

type Config struct {
	Board     *board.Board
	Player    *base.Piece
	Enemies   []*base.Piece
	Transform *transform.Machine
}

// Resolution describes one committed selection.
type Resolution struct {
	Ply      int
	From     base.Point
	To       base.Point
	Kind     base.Kind
	Captured *base.Piece
}

type Controller struct {
	board     *board.Board
	player    *base.Piece
	enemies   []*base.Piece
	tr        *transform.Machine
	listeners []Listener

	status  Status
	reason  EndReason
	expired bool // expiry that arrived while resolving
	ply     int
}

// New takes ownership of the pieces in cfg, which must already be placed on
// cfg.Board. The player's kind is taken from the transformation machine.
func New(cfg Config) (*Controller, error) {
	if cfg.Board == nil || cfg.Player == nil || cfg.Transform == nil {
		return nil, fmt.Errorf("%w: board, player and transform are required", ErrBadSetup)
	}
	if cfg.Player.Side != base.Player {
		return nil, fmt.Errorf("%w: player piece has side %s", ErrBadSetup, cfg.Player.Side)
	}
	for _, e := range cfg.Enemies {
		if e.Side != base.Enemy {
			return nil, fmt.Errorf("%w: enemy piece %s", ErrBadSetup, e)
		}
	}
	all := append([]*base.Piece{cfg.Player}, cfg.Enemies...)
	if err := cfg.Board.Verify(all...); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSetup, err)
	}
	cfg.Player.Kind = cfg.Transform.Current()
	return &Controller{
		board:   cfg.Board,
		player:  cfg.Player,
		enemies: append([]*base.Piece(nil), cfg.Enemies...),
		tr:      cfg.Transform,
		status:  AwaitingInput,
	}, nil
}

func (c *Controller) Subscribe(l Listener) {
	if l != nil {
		c.listeners = append(c.listeners, l)
	}
}

func (c *Controller) emit(ev Event) {
	for _, l := range c.listeners {
		l(ev)
	}
}

func (c *Controller) Status() Status    { return c.status }
func (c *Controller) Reason() EndReason { return c.reason }
func (c *Controller) Busy() bool        { return c.status == Resolving }
func (c *Controller) Ply() int          { return c.ply }
func (c *Controller) Kind() base.Kind   { return c.player.Kind }
func (c *Controller) Next() base.Kind   { return c.tr.Next() }

// Board is shared read-only with observers.
func (c *Controller) Board() *board.Board { return c.board }

func (c *Controller) Player() base.Piece { return *c.player }

func (c *Controller) Enemies() []base.Piece {
	out := make([]base.Piece, len(c.enemies))
	for i, e := range c.enemies {
		out[i] = *e
	}
	return out
}

// LegalMoves are computed from the current kind, never the preview.
func (c *Controller) LegalMoves() base.Cells {
	return moves.LegalMoves(c.board, c.player)
}

func (c *Controller) Captures() base.Cells {
	return moves.LegalAttacks(c.board, c.player)
}

// Threats is every cell some enemy attacks.
func (c *Controller) Threats() base.Cells {
	return rules.ThreatMap(c.board, c.enemies)
}

// Hazards are the legal destinations that would lose the level.
func (c *Controller) Hazards() base.Cells {
	return rules.Hazards(c.board, c.LegalMoves(), c.enemies)
}

// Select resolves target as a capture or a move and commits the new
// position. An invalid target leaves the controller untouched. Capturing the
// royal enemy ends the level at once; anything else leaves the controller
// Resolving until Settle.
func (c *Controller) Select(target base.Point) (Resolution, error) {
	if c.status != AwaitingInput {
		return Resolution{}, fmt.Errorf("select %s: %w (%s)", target, ErrNotAwaiting, c.status)
	}
	if !c.board.InBounds(target) {
		return Resolution{}, fmt.Errorf("select %s: %w", target, ErrIllegalTarget)
	}

	res := Resolution{From: c.player.Pos, To: target, Kind: c.player.Kind}
	switch {
	case c.board.OccupantSide(target) == base.Enemy && moves.LegalAttacks(c.board, c.player).Contains(target):
		victim, err := c.board.Remove(target)
		c.must(err)
		c.dropEnemy(victim)
		cp := *victim
		res.Captured = &cp
	case !c.board.IsOccupied(target) && moves.LegalMoves(c.board, c.player).Contains(target):
	default:
		return Resolution{}, fmt.Errorf("select %s: %w", target, ErrIllegalTarget)
	}

	c.must(c.board.Relocate(c.player, target))
	c.must(c.board.Verify(append([]*base.Piece{c.player}, c.enemies...)...))
	c.ply++
	res.Ply = c.ply
	c.status = Resolving
	c.emit(MoveResolved{Ply: res.Ply, From: res.From, To: res.To, Kind: res.Kind, Captured: res.Captured})

	if res.Captured != nil && res.Captured.Royal {
		c.finish(true, ReasonKingCaptured)
	}
	return res, nil
}

// Settle runs the post-commit evaluation of a pending resolution. It is a
// no-op unless the controller is Resolving.
func (c *Controller) Settle() Status {
	if c.status != Resolving {
		return c.status
	}
	if rules.IsThreatened(c.board, c.player.Pos, c.enemies) {
		c.finish(false, ReasonThreatened)
		return c.status
	}
	kind, next := c.tr.Advance()
	c.player.Kind = kind
	c.status = AwaitingInput
	c.emit(KindChanged{Kind: kind, Next: next})

	if c.expired {
		c.finish(false, ReasonTimeExpired)
	}
	return c.status
}

// Play is Select followed by Settle.
func (c *Controller) Play(target base.Point) (Resolution, Status, error) {
	res, err := c.Select(target)
	if err != nil {
		return res, c.status, err
	}
	return res, c.Settle(), nil
}

// Expire delivers the countdown signal. A resolution in flight completes
// first; the loss applies if it did not already end the level.
func (c *Controller) Expire() Status {
	switch c.status {
	case AwaitingInput:
		c.finish(false, ReasonTimeExpired)
	case Resolving:
		c.expired = true
	}
	return c.status
}

func (c *Controller) finish(won bool, reason EndReason) {
	if won {
		c.status = Won
	} else {
		c.status = Lost
	}
	c.reason = reason
	c.emit(GameEnded{Won: won, Reason: reason})
}

func (c *Controller) dropEnemy(victim *base.Piece) {
	for i, e := range c.enemies {
		if e == victim {
			c.enemies = append(c.enemies[:i], c.enemies[i+1:]...)
			return
		}
	}
	panic(fmt.Sprintf("turn: captured %s is not a tracked enemy", victim))
}

// must turns occupancy failures into panics: they mean the index and the
// piece positions diverged.
func (c *Controller) must(err error) {
	if err != nil {
		panic(fmt.Sprintf("turn: occupancy invariant violated: %v", err))
	}
}
