package cli

import (
	"bufio"
	"fmt"
	"strings"

	"glitchchess/src/base"
)

type KeyCode int

const (
	KeyRune KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyInterrupt
	KeyEscape
)

type Key struct {
	Code KeyCode
	Rune rune
}

// ReadKey decodes one key press from a raw-mode terminal.
func ReadKey(r *bufio.Reader) (Key, error) {
	b, err := r.ReadByte()
	if err != nil {
		return Key{}, err
	}
	switch b {
	case 3: // Ctrl+C
		return Key{Code: KeyInterrupt}, nil
	case '\r', '\n':
		return Key{Code: KeyEnter}, nil
	case 0x1b: // escape sequence, possible arrow
		b1, err := r.ReadByte()
		if err != nil || b1 != '[' {
			return Key{Code: KeyEscape}, nil
		}
		b2, err := r.ReadByte()
		if err != nil {
			return Key{Code: KeyEscape}, nil
		}
		switch b2 {
		case 'A':
			return Key{Code: KeyUp}, nil
		case 'B':
			return Key{Code: KeyDown}, nil
		case 'C':
			return Key{Code: KeyRight}, nil
		case 'D':
			return Key{Code: KeyLeft}, nil
		}
		return Key{Code: KeyEscape}, nil
	}
	return Key{Code: KeyRune, Rune: rune(b)}, nil
}

type Command struct {
	Name string // move, hint, moves, board, restart, next, debug, help, quit
	Cell base.Point
}

var aliases = map[string]string{
	"q": "quit", "exit": "quit", "quit": "quit",
	"h": "hint", "hint": "hint",
	"m": "moves", "moves": "moves",
	"b": "board", "board": "board",
	"r": "restart", "restart": "restart",
	"n": "next", "next": "next",
	"d": "debug", "debug": "debug",
	"?": "help", "help": "help",
}

// ParseCommand reads a line-mode command; a bare cell such as "a3" is a move.
func ParseCommand(line string) (Command, error) {
	s := strings.ToLower(strings.TrimSpace(line))
	if s == "" {
		return Command{}, fmt.Errorf("empty command")
	}
	if name, ok := aliases[s]; ok {
		return Command{Name: name}, nil
	}
	if strings.HasPrefix(s, "move ") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "move "))
	}
	p, err := base.ParsePoint(s)
	if err != nil {
		return Command{}, fmt.Errorf("unknown command %q, type help", line)
	}
	return Command{Name: "move", Cell: p}, nil
}

// crlf turns "\n" into "\r\n" for raw-mode terminals.
type crlf struct {
	w interface{ Write([]byte) (int, error) }
}

func (c crlf) Write(p []byte) (int, error) {
	if _, err := c.w.Write([]byte(strings.ReplaceAll(string(p), "\n", "\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
