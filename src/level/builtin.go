package level

import "fmt"

func seconds(n int) *int { return &n }

// builtin is the shipped campaign, easiest first. Enemies are pawns, knights
// and the king; the player letter is the starting kind.
var builtin = []Spec{
	{Name: "Wake Up", Layout: "4k/5/5/5/P4"},
	{Name: "Pawn Wall", Layout: "k4/5/1p1p1/5/2P2"},
	{Name: "Knight Watch", Layout: "2k2/5/n3n/5/2P2"},
	{Name: "Crossfire", Layout: "4k/1p3/3n1/5/P4"},
	{Name: "Guarded Throne", Layout: "1pkp1/5/2n2/5/R4"},
	{Name: "Open Field", Layout: "5k/6/2n3/6/2p2p/N5", TimeLimit: seconds(75)},
	{Name: "The Maze", Layout: "k5/1p4/3n2/1n4/3p2/5B", TimeLimit: seconds(75)},
	{Name: "Last Stand", Layout: "3k3/2p1p2/7/1n3n1/7/7/3P3", TimeLimit: seconds(90)},
}

var catalog = mustCompileAll(builtin)

func mustCompileAll(specs []Spec) []*Level {
	out := make([]*Level, len(specs))
	for i, s := range specs {
		l, err := Compile(s)
		if err != nil {
			panic(fmt.Sprintf("built-in level %d: %v", i+1, err))
		}
		l.Number = i + 1
		out[i] = l
	}
	return out
}

// Count is the number of built-in levels.
func Count() int { return len(catalog) }

// Builtin lists the catalog. Levels are shared and must not be modified.
func Builtin() []*Level {
	out := make([]*Level, len(catalog))
	copy(out, catalog)
	return out
}

// ByNumber returns built-in level n, counting from 1.
func ByNumber(n int) (*Level, error) {
	if n < 1 || n > len(catalog) {
		return nil, fmt.Errorf("%w: %d (have 1..%d)", ErrUnknownLevel, n, len(catalog))
	}
	return catalog[n-1], nil
}
