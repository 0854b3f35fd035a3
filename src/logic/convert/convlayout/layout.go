// Package convlayout converts between boards and the compact layout string.
//
// Rows run top (row N-1) to bottom (row 0) separated by '/'. A number is a
// run of empty cells, upper-case letters are the player piece with its
// starting kind, lower-case letters are enemies: "4k/5/2p2/5/R4".
package convlayout

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"glitchchess/src/base"
	"glitchchess/src/logic/board"
)

var (
	ErrSyntax      = errors.New("layout syntax error")
	ErrRowCount    = errors.New("layout row count")
	ErrRowWidth    = errors.New("layout row width")
	ErrPlayerCount = errors.New("layout must hold exactly one player piece")
)

type Placement struct {
	Kind base.Kind
	Cell base.Point
}

type Layout struct {
	Size    int
	Player  Placement
	Enemies []Placement // top row first, left to right
}

func Parse(s string) (*Layout, error) {
	rows := strings.Split(strings.TrimSpace(s), "/")
	n := len(rows)
	if n < 2 || n > base.MaxBoardSize {
		return nil, fmt.Errorf("%w: %d rows (want 2..%d)", ErrRowCount, n, base.MaxBoardSize)
	}

	l := &Layout{Size: n}
	players := 0
	for i, text := range rows {
		row := n - 1 - i
		col := 0
		run := ""
		flush := func() error {
			if run == "" {
				return nil
			}
			empty, err := strconv.Atoi(run)
			if err != nil || run[0] == '0' {
				return fmt.Errorf("%w: bad empty run %q in row %d", ErrSyntax, run, i+1)
			}
			col += empty
			run = ""
			return nil
		}
		for _, ch := range text {
			if ch >= '0' && ch <= '9' {
				run += string(ch)
				continue
			}
			if err := flush(); err != nil {
				return nil, err
			}
			kind, side := base.PieceFromRune(ch)
			if kind == base.InvalidKind {
				return nil, fmt.Errorf("%w: unknown piece %q in row %d", ErrSyntax, ch, i+1)
			}
			if col >= n {
				return nil, fmt.Errorf("%w: row %d overflows %d cells", ErrRowWidth, i+1, n)
			}
			p := Placement{Kind: kind, Cell: base.Point{Col: col, Row: row}}
			if side == base.Player {
				l.Player = p
				players++
			} else {
				l.Enemies = append(l.Enemies, p)
			}
			col++
		}
		if err := flush(); err != nil {
			return nil, err
		}
		if col != n {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrRowWidth, i+1, col, n)
		}
	}
	if players != 1 {
		return nil, fmt.Errorf("%w: found %d", ErrPlayerCount, players)
	}
	return l, nil
}

// Format renders l. Placements outside the board are dropped.
func Format(l Layout) string {
	grid := make([]rune, l.Size*l.Size)
	put := func(p Placement, side base.Side) {
		c := p.Cell
		if c.Col < 0 || c.Col >= l.Size || c.Row < 0 || c.Row >= l.Size {
			return
		}
		pc := base.Piece{Kind: p.Kind, Side: side}
		grid[c.Row*l.Size+c.Col] = pc.Rune()
	}
	put(l.Player, base.Player)
	for _, e := range l.Enemies {
		put(e, base.Enemy)
	}
	return render(l.Size, func(col, row int) rune { return grid[row*l.Size+col] })
}

// FormatBoard renders the current occupancy of b.
func FormatBoard(b *board.Board) string {
	return render(b.Size(), func(col, row int) rune {
		if pc := b.At(base.Point{Col: col, Row: row}); pc != nil {
			return pc.Rune()
		}
		return 0
	})
}

func render(n int, at func(col, row int) rune) string {
	var b strings.Builder
	for row := n - 1; row >= 0; row-- {
		empty := 0
		for col := 0; col < n; col++ {
			r := at(col, row)
			if r == 0 {
				empty++
				continue
			}
			if empty > 0 {
				b.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			b.WriteRune(r)
		}
		if empty > 0 {
			b.WriteString(strconv.Itoa(empty))
		}
		if row > 0 {
			b.WriteByte('/')
		}
	}
	return b.String()
}
