// Package board holds the square grid and its cell -> piece occupancy index.
// The index only references pieces; their lifetime belongs to whoever put
// them on the board.
package board

import (
	"errors"
	"fmt"

	"glitchchess/src/base"
)

var (
	ErrBadSize     = errors.New("invalid board size")
	ErrOutOfBounds = errors.New("cell out of bounds")
	ErrOccupied    = errors.New("cell occupied")
	ErrEmptyCell   = errors.New("cell is empty")
	ErrNotOnBoard  = errors.New("piece is not on the board")
)

type Board struct {
	size  int
	cells []*base.Piece // row-major: row*size + col
}

func New(size int) (*Board, error) {
	if size < 2 || size > base.MaxBoardSize {
		return nil, fmt.Errorf("%w: %d (want 2..%d)", ErrBadSize, size, base.MaxBoardSize)
	}
	return &Board{size: size, cells: make([]*base.Piece, size*size)}, nil
}

func (b *Board) Size() int { return b.size }

func (b *Board) InBounds(p base.Point) bool {
	return p.Col >= 0 && p.Col < b.size && p.Row >= 0 && p.Row < b.size
}

func (b *Board) index(p base.Point) int {
	return p.Row*b.size + p.Col
}

// At returns the occupant of p, nil for empty or off-board cells.
func (b *Board) At(p base.Point) *base.Piece {
	if !b.InBounds(p) {
		return nil
	}
	return b.cells[b.index(p)]
}

func (b *Board) IsOccupied(p base.Point) bool {
	return b.At(p) != nil
}

// OccupantSide reports the side of the piece on p, NoSide when empty.
func (b *Board) OccupantSide(p base.Point) base.Side {
	if pc := b.At(p); pc != nil {
		return pc.Side
	}
	return base.NoSide
}

// Place puts pc on its own Pos.
func (b *Board) Place(pc *base.Piece) error {
	if !b.InBounds(pc.Pos) {
		return fmt.Errorf("place %s: %w", pc.Pos, ErrOutOfBounds)
	}
	if other := b.At(pc.Pos); other != nil {
		return fmt.Errorf("place %s: %w by %s", pc.Pos, ErrOccupied, other)
	}
	b.cells[b.index(pc.Pos)] = pc
	return nil
}

// Remove clears p and returns what was there.
func (b *Board) Remove(p base.Point) (*base.Piece, error) {
	if !b.InBounds(p) {
		return nil, fmt.Errorf("remove %s: %w", p, ErrOutOfBounds)
	}
	pc := b.cells[b.index(p)]
	if pc == nil {
		return nil, fmt.Errorf("remove %s: %w", p, ErrEmptyCell)
	}
	b.cells[b.index(p)] = nil
	return pc, nil
}

// Relocate moves pc to an empty cell and updates pc.Pos.
func (b *Board) Relocate(pc *base.Piece, to base.Point) error {
	if b.At(pc.Pos) != pc {
		return fmt.Errorf("relocate %s: %w", pc, ErrNotOnBoard)
	}
	if !b.InBounds(to) {
		return fmt.Errorf("relocate to %s: %w", to, ErrOutOfBounds)
	}
	if other := b.At(to); other != nil {
		return fmt.Errorf("relocate to %s: %w by %s", to, ErrOccupied, other)
	}
	b.cells[b.index(pc.Pos)] = nil
	pc.Pos = to
	b.cells[b.index(to)] = pc
	return nil
}

// Pieces lists the occupants bottom row first, left to right.
func (b *Board) Pieces() []*base.Piece {
	out := make([]*base.Piece, 0, len(b.cells))
	for _, pc := range b.cells {
		if pc != nil {
			out = append(out, pc)
		}
	}
	return out
}

// Clone copies the board and its pieces. The copy shares nothing with b.
func (b *Board) Clone() *Board {
	c := &Board{size: b.size, cells: make([]*base.Piece, len(b.cells))}
	for i, pc := range b.cells {
		if pc != nil {
			cp := *pc
			c.cells[i] = &cp
		}
	}
	return c
}

// Verify checks that the index holds exactly the given pieces, each on the
// cell its Pos names.
func (b *Board) Verify(pieces ...*base.Piece) error {
	for _, pc := range pieces {
		if got := b.At(pc.Pos); got != pc {
			return fmt.Errorf("occupancy mismatch at %s: index has %v, piece is %s", pc.Pos, got, pc)
		}
	}
	if n := len(b.Pieces()); n != len(pieces) {
		return fmt.Errorf("occupancy mismatch: index holds %d pieces, expected %d", n, len(pieces))
	}
	return nil
}
