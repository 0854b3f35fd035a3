package base

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// largest board side the cell notation can address (columns a..p)
const MaxBoardSize = 16

const DefaultBoardSize = 5

var ErrBadNotation = errors.New("invalid cell notation")

// Kind is the movement archetype of a piece. Together with Side it gives
// the twelve player/enemy piece types.
type Kind uint8

const (
	InvalidKind Kind = iota
	Pawn
	Rook
	Knight
	Bishop
	Queen
	King
)

// Kinds is the full catalog, in the order the transformation draws from.
var Kinds = [...]Kind{Pawn, Rook, Knight, Bishop, Queen, King}

func (k Kind) Valid() bool {
	return k >= Pawn && k <= King
}

func (k Kind) String() string {
	switch k {
	case Pawn:
		return "pawn"
	case Rook:
		return "rook"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "invalid"
	}
}

// Rune returns the upper-case letter of the kind (P, R, N, B, Q, K).
func (k Kind) Rune() rune {
	switch k {
	case Pawn:
		return 'P'
	case Rook:
		return 'R'
	case Knight:
		return 'N'
	case Bishop:
		return 'B'
	case Queen:
		return 'Q'
	case King:
		return 'K'
	default:
		return '?'
	}
}

func KindFromString(s string) (Kind, error) {
	for _, k := range Kinds {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	if len(s) == 1 {
		if k := KindFromRune(rune(s[0])); k != InvalidKind {
			return k, nil
		}
	}
	return InvalidKind, fmt.Errorf("unknown piece kind %q", s)
}

// KindFromRune accepts both letter cases.
func KindFromRune(r rune) Kind {
	switch r {
	case 'P', 'p':
		return Pawn
	case 'R', 'r':
		return Rook
	case 'N', 'n':
		return Knight
	case 'B', 'b':
		return Bishop
	case 'Q', 'q':
		return Queen
	case 'K', 'k':
		return King
	default:
		return InvalidKind
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid piece kind %d", k)
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	kind, err := KindFromString(string(b))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// Side is the owner of a piece.
type Side uint8

const (
	NoSide Side = iota
	Player
	Enemy
)

func (s Side) String() string {
	switch s {
	case Player:
		return "player"
	case Enemy:
		return "enemy"
	default:
		return "none"
	}
}

func (s Side) Opposite() Side {
	switch s {
	case Player:
		return Enemy
	case Enemy:
		return Player
	default:
		return NoSide
	}
}

// Forward is the row delta of a pawn step: up the board for the player,
// down for enemies.
func (s Side) Forward() int {
	if s == Enemy {
		return -1
	}
	return 1
}

// Point is a board cell, column first. Row 0 is the bottom row.
type Point struct {
	Col int
	Row int
}

// Offset is a relative step or a sliding direction.
type Offset struct {
	DC int
	DR int
}

func (p Point) Add(o Offset) Point {
	return Point{Col: p.Col + o.DC, Row: p.Row + o.DR}
}

// Scale returns the offset repeated n times.
func (o Offset) Scale(n int) Offset {
	return Offset{DC: o.DC * n, DR: o.DR * n}
}

func (o Offset) IsZero() bool {
	return o.DC == 0 && o.DR == 0
}

// String renders the cell as "a1": column letter, 1-based row.
func (p Point) String() string {
	if p.Col < 0 || p.Col >= MaxBoardSize || p.Row < 0 {
		return fmt.Sprintf("(%d,%d)", p.Col, p.Row)
	}
	return string(rune('a'+p.Col)) + strconv.Itoa(p.Row+1)
}

func ParsePoint(s string) (Point, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) < 2 {
		return Point{}, fmt.Errorf("%w: %q", ErrBadNotation, s)
	}
	col := int(s[0]) - 'a'
	if col < 0 || col >= MaxBoardSize {
		return Point{}, fmt.Errorf("%w: column %q", ErrBadNotation, s[0])
	}
	row, err := strconv.Atoi(s[1:])
	if err != nil || row < 1 || row > MaxBoardSize {
		return Point{}, fmt.Errorf("%w: row %q", ErrBadNotation, s[1:])
	}
	return Point{Col: col, Row: row - 1}, nil
}

func (p Point) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Point) UnmarshalText(b []byte) error {
	pt, err := ParsePoint(string(b))
	if err != nil {
		return err
	}
	*p = pt
	return nil
}

// Cells is an ordered set of board cells, in generation order.
type Cells []Point

func (c Cells) Contains(p Point) bool {
	for _, q := range c {
		if q == p {
			return true
		}
	}
	return false
}

func (c Cells) String() string {
	parts := make([]string, len(c))
	for i, p := range c {
		parts[i] = p.String()
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// Piece is a single board entity. Royal marks the distinguished enemy king
// whose capture wins the level.
type Piece struct {
	ID    string
	Kind  Kind
	Side  Side
	Pos   Point
	Royal bool
}

func NewPiece(kind Kind, side Side, pos Point) *Piece {
	return &Piece{ID: uuid.NewString(), Kind: kind, Side: side, Pos: pos}
}

// Rune is the layout letter of the piece: upper case for the player,
// lower case for enemies.
func (p *Piece) Rune() rune {
	r := p.Kind.Rune()
	if p.Side == Enemy {
		return r + ('a' - 'A')
	}
	return r
}

// PieceFromRune decodes a layout letter into kind and side.
func PieceFromRune(r rune) (Kind, Side) {
	k := KindFromRune(r)
	if k == InvalidKind {
		return InvalidKind, NoSide
	}
	if r >= 'a' && r <= 'z' {
		return k, Enemy
	}
	return k, Player
}

func (p *Piece) String() string {
	return fmt.Sprintf("%s %s at %s", p.Side, p.Kind, p.Pos)
}
