// Package transform drives the unstable-piece mechanic: after every
// successful move the player becomes a different kind, announced one move
// ahead as the preview.
package transform

import (
	"fmt"
	"math/rand/v2"

	"glitchchess/src/base"
)

// Source yields uniform integers in [0, n). *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// DefaultSource draws from the process-wide generator.
func DefaultSource() Source { return globalSource{} }

// Seeded returns a reproducible source.
func Seeded(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type Machine struct {
	src     Source
	current base.Kind
	next    base.Kind
	changes int
}

// New starts the machine on start and draws the first preview.
func New(start base.Kind, src Source) (*Machine, error) {
	if !start.Valid() {
		return nil, fmt.Errorf("invalid starting kind %v", start)
	}
	if src == nil {
		src = DefaultSource()
	}
	m := &Machine{src: src, current: start}
	m.next = m.draw(start)
	return m, nil
}

func (m *Machine) Current() base.Kind { return m.current }

// Next is the kind the player becomes after the pending move.
func (m *Machine) Next() base.Kind { return m.next }

// Changes counts transitions since start.
func (m *Machine) Changes() int { return m.changes }

// Advance moves the preview into place and draws a new preview excluding it.
// Returns the new current and preview kinds.
func (m *Machine) Advance() (base.Kind, base.Kind) {
	m.current = m.next
	m.next = m.draw(m.current)
	m.changes++
	return m.current, m.next
}

// draw picks uniformly among the five kinds other than exclude.
func (m *Machine) draw(exclude base.Kind) base.Kind {
	var pool [len(base.Kinds)]base.Kind
	n := 0
	for _, k := range base.Kinds {
		if k != exclude {
			pool[n] = k
			n++
		}
	}
	return pool[m.src.IntN(n)]
}
