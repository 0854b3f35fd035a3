package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"glitchchess/src"
	"glitchchess/src/base"
	"glitchchess/src/level"
	"glitchchess/src/logic/turn"
)

const (
	tickInterval = 100 * time.Millisecond
	historyFile  = ".glitchchess_history"
)

type Options struct {
	Color bool
	Debug bool
}

type CLIProcessing struct {
	builder *src.GameBuilder
	in      *os.File
	out     io.Writer
	color   bool
	debug   bool
	cursor  base.Point
	hint    *base.Point
	message string
}

func NewCLI(b *src.GameBuilder, opts Options) *CLIProcessing {
	c := &CLIProcessing{builder: b, in: os.Stdin, out: os.Stdout, color: opts.Color, debug: opts.Debug}
	if b.Loaded() {
		c.cursor = b.Player().Pos
	}
	return c
}

// raw processing
// - arrows move the cursor, Enter commits the cell under it
// - h hint, r restart, n next level, d threat overlay
// - q or Ctrl+C to exit
func (c *CLIProcessing) Run(ctx context.Context) error {
	fd := int(c.in.Fd())
	if !term.IsTerminal(fd) {
		return c.RunLineMode(ctx)
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return c.RunLineMode(ctx)
	}
	defer term.Restore(fd, oldState) //nolint:errcheck

	out := c.out
	c.out = crlf{w: out}
	defer func() { c.out = out }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	keys := make(chan Key)
	errs := make(chan error, 1)
	go func() {
		r := bufio.NewReader(c.in)
		for {
			k, err := ReadKey(r)
			if err != nil {
				errs <- err
				return
			}
			select {
			case keys <- k:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	last := time.Now()

	c.redraw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errs:
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		case now := <-ticker.C:
			if c.tick(now.Sub(last)) {
				c.redraw()
			}
			last = now
		case k := <-keys:
			if c.handleKey(ctx, k) {
				fmt.Fprintln(c.out, "\nQuitting")
				return nil
			}
			c.redraw()
		}
	}
}

// tick reports whether the visible clock or the status changed.
func (c *CLIProcessing) tick(dt time.Duration) bool {
	if !c.builder.Loaded() {
		return false
	}
	clock := c.builder.Clock()
	secs, status := clock.Seconds(), c.builder.Status()
	c.builder.Tick(dt)
	return clock.Enabled() && (clock.Seconds() != secs || c.builder.Status() != status)
}

func (c *CLIProcessing) handleKey(ctx context.Context, k Key) (quit bool) {
	size := c.builder.Board().Size()
	switch k.Code {
	case KeyInterrupt:
		return true
	case KeyUp:
		c.cursor.Row = min(c.cursor.Row+1, size-1)
	case KeyDown:
		c.cursor.Row = max(c.cursor.Row-1, 0)
	case KeyRight:
		c.cursor.Col = min(c.cursor.Col+1, size-1)
	case KeyLeft:
		c.cursor.Col = max(c.cursor.Col-1, 0)
	case KeyEnter:
		c.play(c.cursor)
	case KeyRune:
		name, ok := aliases[strings.ToLower(string(k.Rune))]
		if !ok {
			return false
		}
		return c.execute(ctx, Command{Name: name})
	}
	return false
}

func (c *CLIProcessing) RunLineMode(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          c.prompt(),
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return fmt.Errorf("init readline: %w", err)
	}
	defer rl.Close()
	c.out = rl.Stdout()
	c.color = false // the prompt redraw does not cope with ANSI boards

	lines := make(chan string)
	errs := make(chan error, 1)
	go func() {
		for {
			line, err := rl.Readline()
			if err != nil {
				errs <- err
				return
			}
			lines <- line
		}
	}()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	last := time.Now()

	c.redraw()
	fmt.Fprintln(c.out, "Type a cell such as b3 and press Enter; help lists the commands.")
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errs:
			if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
				return nil
			}
			return err
		case now := <-ticker.C:
			before := c.builder.Status()
			c.tick(now.Sub(last))
			last = now
			if c.builder.Loaded() && c.builder.Status() != before {
				c.redraw()
			}
		case line := <-lines:
			if strings.TrimSpace(line) == "" {
				continue
			}
			cmd, err := ParseCommand(line)
			if err != nil {
				fmt.Fprintln(c.out, err)
				continue
			}
			if c.execute(ctx, cmd) {
				return nil
			}
			if cmd.Name != "moves" && cmd.Name != "help" {
				c.redraw()
			}
		}
		rl.SetPrompt(c.prompt())
	}
}

// execute runs one command shared by both input modes.
func (c *CLIProcessing) execute(ctx context.Context, cmd Command) (quit bool) {
	c.message = ""
	switch cmd.Name {
	case "quit":
		return true
	case "move":
		c.cursor = cmd.Cell
		c.play(cmd.Cell)
	case "hint":
		cand, err := c.builder.Hint(ctx)
		if err != nil {
			c.message = fmt.Sprintf("no hint: %v", err)
			return false
		}
		to := cand.To
		c.hint = &to
		c.cursor = to
		c.message = fmt.Sprintf("hint: %s", to)
	case "moves":
		fmt.Fprintf(c.out, "Moves: %s\n", c.builder.History())
	case "board":
	case "restart":
		if err := c.builder.Restart(); err != nil {
			c.message = err.Error()
			return false
		}
		c.reset()
	case "next":
		c.next(ctx)
	case "debug":
		c.debug = !c.debug
	case "help":
		fmt.Fprintln(c.out, "cell (a1..): move or capture | h hint | m moves | b board | r restart | n next level | d threats | q quit")
	}
	return false
}

func (c *CLIProcessing) play(p base.Point) {
	c.hint = nil
	status, err := c.builder.Play(p)
	switch {
	case errors.Is(err, turn.ErrIllegalTarget):
		c.message = fmt.Sprintf("%s is not reachable by the %s", p, c.builder.Kind())
	case err != nil:
		c.message = err.Error()
	default:
		if last, ok := c.builder.History().Last(); ok {
			c.message = last.Notation()
		}
		if status == turn.AwaitingInput {
			c.cursor = c.builder.Player().Pos
		}
	}
}

func (c *CLIProcessing) next(ctx context.Context) {
	l := c.builder.Level()
	if l == nil || l.Number == 0 {
		c.message = "custom levels have no successor"
		return
	}
	n := l.Number + 1
	if n > level.Count() {
		c.message = "that was the last level"
		return
	}
	if err := c.builder.CreateFromNumber(ctx, n); err != nil {
		c.message = err.Error()
		return
	}
	c.reset()
}

func (c *CLIProcessing) reset() {
	c.hint = nil
	c.cursor = c.builder.Player().Pos
}

func (c *CLIProcessing) prompt() string {
	if !c.builder.Loaded() || c.builder.Status().Terminal() {
		return "> "
	}
	return fmt.Sprintf("%s> ", c.builder.Kind())
}

func (c *CLIProcessing) snapshot() Snapshot {
	b := c.builder
	s := Snapshot{
		Size:    b.Board().Size(),
		Player:  b.Player(),
		Enemies: b.Enemies(),
		Debug:   c.debug,
		Hint:    c.hint,
	}
	if b.Status() == turn.AwaitingInput {
		s.Moves, s.Captures, s.Hazards = b.LegalMoves(), b.Captures(), b.Hazards()
		cur := c.cursor
		s.Cursor = &cur
	}
	if c.debug {
		s.Threats = b.Threats()
	}
	return s
}

func (c *CLIProcessing) redraw() {
	if !c.builder.Loaded() {
		fmt.Fprintln(c.out, "no level loaded")
		return
	}
	if _, ok := c.out.(crlf); ok {
		fmt.Fprint(c.out, "\033[H\033[2J")
	}
	fmt.Fprintln(c.out, c.builder.Level().Title())
	DrawBoard(c.out, c.snapshot(), c.color)
	c.printStatus()
}

func (c *CLIProcessing) printStatus() {
	b := c.builder
	fmt.Fprintf(c.out, "Piece: %s   Next: %s", b.Kind(), b.Next())
	if clock := b.Clock(); clock.Enabled() {
		fmt.Fprintf(c.out, "   Time: %ds", clock.Seconds())
	}
	fmt.Fprintln(c.out)
	if b.History().Len() > 0 {
		fmt.Fprintf(c.out, "Moves: %s\n", b.History())
	}
	switch b.Status() {
	case turn.Won:
		fmt.Fprintf(c.out, "You won: %s. r restart, n next level, q quit\n", b.Reason())
	case turn.Lost:
		fmt.Fprintf(c.out, "You lost: %s. r restart, q quit\n", b.Reason())
	}
	if c.message != "" {
		fmt.Fprintln(c.out, c.message)
	}
}
