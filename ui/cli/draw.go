package cli

import (
	"fmt"
	"io"
	"strings"

	"glitchchess/src/base"
)

// ANSI-code
const (
	reset    = "\033[0m"
	lightBg  = "\033[47m"
	darkBg   = "\033[100m"
	moveBg   = "\033[42m"
	takeBg   = "\033[43m"
	dangerBg = "\033[41m"
	cursorBg = "\033[44m"
	hintBg   = "\033[45m"
	whiteF   = "\033[97m"
	blackF   = "\033[30m"
	dimF     = "\033[90m"
	redF     = "\033[91m"
)

// Snapshot is everything the board renderer needs.
type Snapshot struct {
	Size     int
	Player   base.Piece
	Enemies  []base.Piece
	Moves    base.Cells // legal destinations of the current kind
	Captures base.Cells
	Hazards  base.Cells // legal but threatened
	Threats  base.Cells // drawn only with Debug
	Cursor   *base.Point
	Hint     *base.Point
	Debug    bool
}

// Piece -> unicode glyph; the player is drawn white, enemies black
func pieceGlyph(k base.Kind, s base.Side) string {
	white := map[base.Kind]string{
		base.Pawn: "♙", base.Rook: "♖", base.Knight: "♘",
		base.Bishop: "♗", base.Queen: "♕", base.King: "♔",
	}
	black := map[base.Kind]string{
		base.Pawn: "♟", base.Rook: "♜", base.Knight: "♞",
		base.Bishop: "♝", base.Queen: "♛", base.King: "♚",
	}
	var g string
	if s == base.Player {
		g = white[k]
	} else {
		g = black[k]
	}
	if g == "" {
		return "?"
	}
	return g
}

func columns(n int) string {
	var b strings.Builder
	b.WriteString("   ")
	for c := 0; c < n; c++ {
		fmt.Fprintf(&b, " %c ", 'a'+c)
	}
	return b.String()
}

// DrawBoard writes the board top row first. Without color, highlights are
// marked with brackets so the output stays readable in plain terminals.
func DrawBoard(w io.Writer, s Snapshot, color bool) {
	occupant := make(map[base.Point]base.Piece, len(s.Enemies)+1)
	occupant[s.Player.Pos] = s.Player
	for _, e := range s.Enemies {
		occupant[e.Pos] = e
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, columns(s.Size))
	for row := s.Size - 1; row >= 0; row-- {
		fmt.Fprintf(w, "%2d ", row+1)
		for col := 0; col < s.Size; col++ {
			p := base.Point{Col: col, Row: row}
			pc, ok := occupant[p]
			g := " "
			if ok {
				g = pieceGlyph(pc.Kind, pc.Side)
			} else if s.Debug && s.Threats.Contains(p) {
				g = "·"
			}

			if !color {
				l, r := " ", " "
				switch {
				case s.Cursor != nil && *s.Cursor == p:
					l, r = "[", "]"
				case s.Hint != nil && *s.Hint == p:
					l, r = "<", ">"
				case s.Hazards.Contains(p):
					l, r = "!", "!"
				case s.Captures.Contains(p):
					l, r = "x", "x"
				case s.Moves.Contains(p) && !ok:
					l, r = "(", ")"
				}
				if g == " " {
					g = "."
				}
				fmt.Fprintf(w, "%s%s%s", l, g, r)
				continue
			}

			bg := darkBg
			if (row+col)%2 == 0 {
				bg = lightBg
			}
			switch {
			case s.Cursor != nil && *s.Cursor == p:
				bg = cursorBg
			case s.Hint != nil && *s.Hint == p:
				bg = hintBg
			case s.Hazards.Contains(p):
				bg = dangerBg
			case s.Captures.Contains(p):
				bg = takeBg
			case s.Moves.Contains(p) && !ok:
				bg = moveBg
			}
			fg := dimF
			switch {
			case ok && pc.Side == base.Player:
				fg = whiteF
			case ok:
				fg = blackF
			case g == "·":
				fg = redF
			}
			fmt.Fprintf(w, "%s%s %s %s", bg, fg, g, reset)
		}
		fmt.Fprintf(w, " %d\n", row+1)
	}
	fmt.Fprintln(w, columns(s.Size))
	fmt.Fprintln(w)
}
