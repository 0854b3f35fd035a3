package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"glitchchess/src"
	"glitchchess/src/base"
	"glitchchess/src/logic/transform"
	"glitchchess/src/logic/turn"
	"glitchchess/src/logx"
	"glitchchess/src/testutil"
)

func pt(s string) base.Point {
	p, err := base.ParsePoint(s)
	if err != nil {
		panic(err)
	}
	return p
}

func TestReadKey(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("\x1b[A\x1b[D\rh\x03"))
	var got []Key
	for {
		k, err := ReadKey(r)
		if err != nil {
			break
		}
		got = append(got, k)
	}
	testutil.AssertEqual(t, got, []Key{
		{Code: KeyUp},
		{Code: KeyLeft},
		{Code: KeyEnter},
		{Code: KeyRune, Rune: 'h'},
		{Code: KeyInterrupt},
	})
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"b3", Command{Name: "move", Cell: pt("b3")}},
		{"  move C4 ", Command{Name: "move", Cell: pt("c4")}},
		{"h", Command{Name: "hint"}},
		{"RESTART", Command{Name: "restart"}},
		{"exit", Command{Name: "quit"}},
		{"?", Command{Name: "help"}},
	}
	for _, tt := range tests {
		got, err := ParseCommand(tt.line)
		testutil.MustNoError(t, err, tt.line)
		testutil.AssertEqual(t, got, tt.want, tt.line)
	}

	for _, bad := range []string{"", "castle", "z"} {
		_, err := ParseCommand(bad)
		testutil.AssertTrue(t, err != nil, bad)
	}
}

func TestDrawBoardPlain(t *testing.T) {
	cursor := pt("b1")
	s := Snapshot{
		Size:    2,
		Player:  base.Piece{Kind: base.Rook, Side: base.Player, Pos: pt("a1")},
		Enemies: []base.Piece{{Kind: base.King, Side: base.Enemy, Pos: pt("b2"), Royal: true}},
		Moves:   base.Cells{pt("a2"), pt("b1")},
		Hazards: base.Cells{pt("a2")},
		Cursor:  &cursor,
	}
	var buf bytes.Buffer
	DrawBoard(&buf, s, false)
	want := "\n" +
		"    a  b \n" +
		" 2 !.! ♚  2\n" +
		" 1  ♖ [.] 1\n" +
		"    a  b \n" +
		"\n"
	testutil.AssertEqual(t, buf.String(), want)
}

func newCLI(t *testing.T, layout string) (*CLIProcessing, *bytes.Buffer) {
	t.Helper()
	gb := src.NewBuilderGame(logx.Nop())
	gb.SetRandomSource(transform.Seeded(5))
	testutil.MustNoError(t, gb.CreateFromLayout(layout))
	var buf bytes.Buffer
	c := NewCLI(gb, Options{})
	c.out = &buf
	return c, &buf
}

func TestExecuteMoveAndRestart(t *testing.T) {
	ctx := context.Background()
	c, buf := newCLI(t, "4k/5/5/5/Q4")
	testutil.AssertEqual(t, c.cursor, pt("a1"))

	testutil.AssertFalse(t, c.execute(ctx, Command{Name: "move", Cell: pt("b3")}))
	testutil.AssertEqual(t, c.message, "b3 is not reachable by the queen")

	testutil.AssertFalse(t, c.execute(ctx, Command{Name: "move", Cell: pt("e5")}))
	testutil.AssertEqual(t, c.builder.Status(), turn.Won)
	testutil.AssertEqual(t, c.message, "Qa1xe5#")

	c.redraw()
	testutil.AssertTrue(t, strings.Contains(buf.String(), "You won: enemy king captured"))

	testutil.AssertFalse(t, c.execute(ctx, Command{Name: "restart"}))
	testutil.AssertEqual(t, c.builder.Status(), turn.AwaitingInput)
	testutil.AssertEqual(t, c.cursor, pt("a1"))

	testutil.AssertFalse(t, c.execute(ctx, Command{Name: "next"}))
	testutil.AssertEqual(t, c.message, "custom levels have no successor")
	testutil.AssertTrue(t, c.execute(ctx, Command{Name: "quit"}))
}

func TestHandleKeyClampsCursor(t *testing.T) {
	ctx := context.Background()
	c, _ := newCLI(t, "4k/5/5/5/R4")
	c.handleKey(ctx, Key{Code: KeyLeft})
	c.handleKey(ctx, Key{Code: KeyDown})
	testutil.AssertEqual(t, c.cursor, pt("a1"))
	c.handleKey(ctx, Key{Code: KeyUp})
	c.handleKey(ctx, Key{Code: KeyUp})
	testutil.AssertEqual(t, c.cursor, pt("a3"))

	c.handleKey(ctx, Key{Code: KeyEnter})
	testutil.AssertEqual(t, c.builder.History().Len(), 1)
	testutil.AssertTrue(t, c.handleKey(ctx, Key{Code: KeyRune, Rune: 'q'}))
}
