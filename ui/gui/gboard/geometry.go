// Package gboard maps board cells to window pixels and animates moves.
package gboard

import "glitchchess/src/base"

// Geometry places an N x N board in the window, row 0 at the bottom.
type Geometry struct {
	X, Y int // top-left pixel
	Cell int // pixel size per cell
	N    int
}

// Fit centers the largest board that fits between the header and footer.
func Fit(windowW, windowH, n, header, footer int) Geometry {
	avail := min(windowW-40, windowH-header-footer)
	cell := max(avail/max(n, 1), 16)
	size := cell * n
	return Geometry{
		X:    (windowW - size) / 2,
		Y:    header + (windowH-header-footer-size)/2,
		Cell: cell,
		N:    n,
	}
}

func (g Geometry) Size() int { return g.Cell * g.N }

func (g Geometry) Contains(px, py int) bool {
	return px >= g.X && py >= g.Y && px < g.X+g.Size() && py < g.Y+g.Size()
}

// CellAt converts screen coordinates to a board cell.
func (g Geometry) CellAt(px, py int) (base.Point, bool) {
	if !g.Contains(px, py) {
		return base.Point{}, false
	}
	col := (px - g.X) / g.Cell
	fromTop := (py - g.Y) / g.Cell
	return base.Point{Col: col, Row: g.N - 1 - fromTop}, true
}

// Origin is the top-left pixel of cell p.
func (g Geometry) Origin(p base.Point) (int, int) {
	return g.X + p.Col*g.Cell, g.Y + (g.N-1-p.Row)*g.Cell
}
