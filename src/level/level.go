// Package level turns level documents into validated, immutable level
// configurations and builds fresh engine state from them.
package level

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"glitchchess/src/base"
	"glitchchess/src/logic/board"
	"glitchchess/src/logic/convert/convlayout"
	"glitchchess/src/logic/rules/moves"
	"glitchchess/src/logic/transform"
	"glitchchess/src/logic/turn"
)

const DefaultTimeLimit = 60 * time.Second

var (
	ErrInvalidLevel      = errors.New("invalid level")
	ErrPlayerOutOfBounds = errors.New("player start out of bounds")
	ErrEnemyOutOfBounds  = errors.New("enemy position out of bounds")
	ErrDuplicateCell     = errors.New("duplicate occupied cell")
	ErrMissingKing       = errors.New("level requires an enemy king")
	ErrMultipleKings     = errors.New("more than one enemy king")
	ErrUnsupportedEnemy  = errors.New("sliding enemies are not supported")
	ErrUnknownLevel      = errors.New("unknown level")
)

// Error reports every problem found in one level document.
type Error struct {
	Level    string
	Problems []string
	err      error
}

func (e *Error) Error() string {
	name := e.Level
	if name == "" {
		name = "unnamed"
	}
	return fmt.Sprintf("level %q: %v: %s", name, e.err, strings.Join(e.Problems, "; "))
}

func (e *Error) Unwrap() error { return e.err }

// EnemySpec is one (kind, cell) pair. An enemy of kind king is the Enemy King.
type EnemySpec struct {
	Kind string `json:"kind" validate:"required,kind"`
	Cell string `json:"cell" validate:"required,cell"`
}

// Spec is the document form of a level. Either Layout or Player (with
// Enemies) describes the board.
type Spec struct {
	Name        string      `json:"name" validate:"required,max=64"`
	Size        int         `json:"size,omitempty" validate:"omitempty,min=2,max=16"`
	Start       string      `json:"start,omitempty" validate:"omitempty,kind"`
	Player      string      `json:"player,omitempty" validate:"required_without=Layout,excluded_with=Layout,omitempty,cell"`
	Enemies     []EnemySpec `json:"enemies,omitempty" validate:"excluded_with=Layout,dive"`
	Layout      string      `json:"layout,omitempty"`
	RequireKing *bool       `json:"require_king,omitempty"`
	TimeLimit   *int        `json:"time_limit,omitempty" validate:"omitempty,min=0,max=3600"` // seconds, 0 disables
	Seed        *uint64     `json:"seed,omitempty"`
}

type Enemy struct {
	Kind  base.Kind
	Cell  base.Point
	Royal bool
}

// Level is a validated configuration. It is never mutated after Compile.
type Level struct {
	Number      int // position in the built-in catalog, 0 for loose levels
	Name        string
	Size        int
	Start       base.Kind
	Player      base.Point
	Enemies     []Enemy
	RequireKing bool
	TimeLimit   time.Duration
	Seed        *uint64
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("kind", func(fl validator.FieldLevel) bool {
		_, err := base.KindFromString(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("cell", func(fl validator.FieldLevel) bool {
		_, err := base.ParsePoint(fl.Field().String())
		return err == nil
	})
	return v
}

func describe(errs validator.ValidationErrors) []string {
	out := make([]string, 0, len(errs))
	for _, err := range errs {
		field := strings.TrimPrefix(err.Namespace(), "Spec.")
		switch err.Tag() {
		case "required", "required_without":
			out = append(out, fmt.Sprintf("%s is required", field))
		case "excluded_with":
			out = append(out, fmt.Sprintf("%s cannot be combined with layout", field))
		case "min":
			out = append(out, fmt.Sprintf("%s must be at least %s", field, err.Param()))
		case "max":
			out = append(out, fmt.Sprintf("%s must be at most %s", field, err.Param()))
		case "kind":
			out = append(out, fmt.Sprintf("%s: unknown piece kind %q", field, err.Value()))
		case "cell":
			out = append(out, fmt.Sprintf("%s: bad cell %q", field, err.Value()))
		default:
			out = append(out, fmt.Sprintf("%s failed %s validation", field, err.Tag()))
		}
	}
	return out
}

// Compile validates s and produces the immutable level.
func Compile(s Spec) (*Level, error) {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, &Error{Level: s.Name, Problems: describe(verrs), err: ErrInvalidLevel}
		}
		return nil, &Error{Level: s.Name, Problems: []string{err.Error()}, err: ErrInvalidLevel}
	}

	l := &Level{
		Name:        s.Name,
		Size:        s.Size,
		Start:       base.Pawn,
		RequireKing: s.RequireKing == nil || *s.RequireKing,
		TimeLimit:   DefaultTimeLimit,
		Seed:        s.Seed,
	}
	if s.TimeLimit != nil {
		l.TimeLimit = time.Duration(*s.TimeLimit) * time.Second
	}

	fail := func(sentinel error, format string, args ...any) (*Level, error) {
		return nil, &Error{Level: s.Name, Problems: []string{fmt.Sprintf(format, args...)}, err: sentinel}
	}

	if s.Layout != "" {
		lay, err := convlayout.Parse(s.Layout)
		if err != nil {
			return fail(ErrInvalidLevel, "layout: %v", err)
		}
		if l.Size != 0 && l.Size != lay.Size {
			return fail(ErrInvalidLevel, "size %d does not match the %d-row layout", l.Size, lay.Size)
		}
		l.Size = lay.Size
		l.Start = lay.Player.Kind
		l.Player = lay.Player.Cell
		for _, e := range lay.Enemies {
			l.Enemies = append(l.Enemies, Enemy{Kind: e.Kind, Cell: e.Cell})
		}
	} else {
		// validated above
		l.Player, _ = base.ParsePoint(s.Player)
		for _, e := range s.Enemies {
			kind, _ := base.KindFromString(e.Kind)
			cell, _ := base.ParsePoint(e.Cell)
			l.Enemies = append(l.Enemies, Enemy{Kind: kind, Cell: cell})
		}
	}
	if l.Size == 0 {
		l.Size = base.DefaultBoardSize
	}
	if s.Start != "" {
		l.Start, _ = base.KindFromString(s.Start)
	}

	inBounds := func(p base.Point) bool {
		return p.Col >= 0 && p.Col < l.Size && p.Row >= 0 && p.Row < l.Size
	}
	if !inBounds(l.Player) {
		return fail(ErrPlayerOutOfBounds, "player at %s on a %dx%d board", l.Player, l.Size, l.Size)
	}
	occupied := map[base.Point]string{l.Player: "player"}
	kings := 0
	for i := range l.Enemies {
		e := &l.Enemies[i]
		if !inBounds(e.Cell) {
			return fail(ErrEnemyOutOfBounds, "enemy %s at %s on a %dx%d board", e.Kind, e.Cell, l.Size, l.Size)
		}
		if moves.IsSliding(e.Kind) {
			return fail(ErrUnsupportedEnemy, "enemy %s at %s", e.Kind, e.Cell)
		}
		if who, ok := occupied[e.Cell]; ok {
			return fail(ErrDuplicateCell, "enemy %s at %s overlaps %s", e.Kind, e.Cell, who)
		}
		occupied[e.Cell] = "enemy " + e.Kind.String()
		if e.Kind == base.King {
			e.Royal = true
			kings++
		}
	}
	switch {
	case kings > 1:
		return fail(ErrMultipleKings, "found %d", kings)
	case kings == 0 && l.RequireKing:
		return fail(ErrMissingKing, "no enemy of kind king")
	}
	return l, nil
}

// Load decodes and compiles one JSON level document.
func Load(r io.Reader) (*Level, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var s Spec
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidLevel, err)
	}
	return Compile(s)
}

func LoadFile(path string) (*Level, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// FromLayout compiles a bare layout string with default settings.
func FromLayout(name, layout string) (*Level, error) {
	return Compile(Spec{Name: name, Layout: layout})
}

func (l *Level) Layout() string {
	lay := convlayout.Layout{
		Size:   l.Size,
		Player: convlayout.Placement{Kind: l.Start, Cell: l.Player},
	}
	for _, e := range l.Enemies {
		lay.Enemies = append(lay.Enemies, convlayout.Placement{Kind: e.Kind, Cell: e.Cell})
	}
	return convlayout.Format(lay)
}

func (l *Level) Title() string {
	if l.Number > 0 {
		return fmt.Sprintf("Level %d: %s", l.Number, l.Name)
	}
	return l.Name
}

// Build creates fresh board, pieces and transformation machine for a new
// attempt. src may be nil: the level seed, if any, is used, otherwise the
// process-wide generator.
func (l *Level) Build(src transform.Source) (turn.Config, error) {
	b, err := board.New(l.Size)
	if err != nil {
		return turn.Config{}, err
	}
	player := base.NewPiece(l.Start, base.Player, l.Player)
	if err := b.Place(player); err != nil {
		return turn.Config{}, err
	}
	enemies := make([]*base.Piece, 0, len(l.Enemies))
	for _, e := range l.Enemies {
		pc := base.NewPiece(e.Kind, base.Enemy, e.Cell)
		pc.Royal = e.Royal
		if err := b.Place(pc); err != nil {
			return turn.Config{}, err
		}
		enemies = append(enemies, pc)
	}
	if src == nil && l.Seed != nil {
		src = transform.Seeded(*l.Seed)
	}
	tr, err := transform.New(l.Start, src)
	if err != nil {
		return turn.Config{}, err
	}
	return turn.Config{Board: b, Player: player, Enemies: enemies, Transform: tr}, nil
}
