package engine

import (
	"context"
	"errors"

	"glitchchess/src/base"
	"glitchchess/src/logic/board"
)

var (
	ErrNoPosition = errors.New("position not set")
	ErrNoMoves    = errors.New("no legal destinations")
)

// Position is a snapshot the engine analyses. Next is the announced kind
// the player becomes after the move.
type Position struct {
	Board *board.Board
	Kind  base.Kind
	Next  base.Kind
}

// Candidate is one legal destination with its score (higher is better).
type Candidate struct {
	To      base.Point
	Capture bool
	King    bool // captures the enemy king
	Safe    bool // not inside an attack zone
	Score   int
}

type AnalysisInfo struct {
	Depth  int
	TimeMs int64
	Nodes  int64
	Ranked []Candidate // best first, generation order on ties
	Best   *Candidate
}

type SearchParams struct {
	MaxDepth  int   // 1 looks at the move only, 2 adds the preview kind, deeper assumes the worst kind
	MaxTimeMs int64 // 0 = no limit
}

type HintLevel int

const (
	HintQuick HintLevel = iota
	HintNormal
	HintDeep
)

func LevelToParams(lvl HintLevel) SearchParams {
	switch lvl {
	case HintQuick:
		return SearchParams{MaxDepth: 1, MaxTimeMs: 200}
	case HintDeep:
		return SearchParams{MaxDepth: 3, MaxTimeMs: 2000}
	default:
		return SearchParams{MaxDepth: 2, MaxTimeMs: 500}
	}
}

// Engine ranks the player's legal destinations.
type Engine interface {
	SetPosition(pos Position) error
	Analyse(ctx context.Context, params SearchParams) (AnalysisInfo, error)
}

// HintLevelFromString maps quick/normal/deep, anything else is normal.
func HintLevelFromString(s string) HintLevel {
	switch s {
	case "quick":
		return HintQuick
	case "deep":
		return HintDeep
	default:
		return HintNormal
	}
}
