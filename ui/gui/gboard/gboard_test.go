package gboard

import (
	"testing"
	"time"

	"glitchchess/src/base"
	"glitchchess/src/testutil"
)

func TestFitCentersBoard(t *testing.T) {
	g := Fit(640, 720, 5, 100, 120)
	testutil.AssertEqual(t, g.Cell, 100)
	testutil.AssertEqual(t, g.X, 70)
	testutil.AssertEqual(t, g.Y, 100)
	testutil.AssertEqual(t, g.Size(), 500)
}

func TestCellMapping(t *testing.T) {
	g := Geometry{X: 10, Y: 20, Cell: 50, N: 4}

	p, ok := g.CellAt(10, 20)
	testutil.AssertTrue(t, ok)
	testutil.AssertEqual(t, p, base.Point{Col: 0, Row: 3}, "top-left is the top row")

	p, ok = g.CellAt(209, 219)
	testutil.AssertTrue(t, ok)
	testutil.AssertEqual(t, p, base.Point{Col: 3, Row: 0})

	_, ok = g.CellAt(210, 100)
	testutil.AssertFalse(t, ok)
	_, ok = g.CellAt(9, 100)
	testutil.AssertFalse(t, ok)

	for _, p := range []base.Point{{Col: 0, Row: 0}, {Col: 2, Row: 3}, {Col: 3, Row: 1}} {
		x, y := g.Origin(p)
		back, ok := g.CellAt(x+g.Cell/2, y+g.Cell/2)
		testutil.AssertTrue(t, ok)
		testutil.AssertEqual(t, back, p)
	}
}

func TestTween(t *testing.T) {
	tw := NewTween(0, 0, 100, 50, 200*time.Millisecond)
	x, y := tw.Pos()
	testutil.AssertEqual(t, []float64{x, y}, []float64{0, 0})

	testutil.AssertFalse(t, tw.Update(100*time.Millisecond))
	x, _ = tw.Pos()
	testutil.AssertTrue(t, x > 50 && x < 100, "ease-out runs ahead of linear")

	testutil.AssertTrue(t, tw.Update(time.Second))
	x, y = tw.Pos()
	testutil.AssertEqual(t, []float64{x, y}, []float64{100, 50})

	testutil.AssertTrue(t, NewTween(0, 0, 1, 1, 0).Done())
}
