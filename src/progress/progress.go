// Package progress persists the highest unlocked level and finished runs.
package progress

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FirstLevel is unlocked for every new player.
const FirstLevel = 1

var ErrClosed = errors.New("progress store closed")

// Run is one finished attempt at a level.
type Run struct {
	ID         string
	Level      int // 0 for levels loaded from a file
	Name       string
	Won        bool
	Reason     string
	Moves      int
	Notation   string
	Duration   time.Duration
	FinishedAt time.Time
}

type Store interface {
	// Unlocked is the highest playable level number, at least FirstLevel.
	Unlocked(ctx context.Context) (int, error)
	// UnlockNext raises the unlocked level to current+1 when current is the
	// frontier; replaying an older level changes nothing. Returns the result.
	UnlockNext(ctx context.Context, current int) (int, error)
	Reset(ctx context.Context) error
	RecordRun(ctx context.Context, r Run) error
	// Runs lists the latest runs first, at most limit (0 = all).
	Runs(ctx context.Context, limit int) ([]Run, error)
	Close() error
}

// Memory is a process-local Store.
type Memory struct {
	mu       sync.Mutex
	unlocked int
	runs     []Run
	closed   bool
}

func NewMemory() *Memory {
	return &Memory{unlocked: FirstLevel}
}

func (m *Memory) Unlocked(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, ErrClosed
	}
	return m.unlocked, nil
}

func (m *Memory) UnlockNext(ctx context.Context, current int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, ErrClosed
	}
	if current >= m.unlocked {
		m.unlocked = current + 1
	}
	return m.unlocked, nil
}

func (m *Memory) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.unlocked = FirstLevel
	m.runs = nil
	return nil
}

func (m *Memory) RecordRun(ctx context.Context, r Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	m.runs = append(m.runs, r)
	return nil
}

func (m *Memory) Runs(ctx context.Context, limit int) ([]Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	out := make([]Run, len(m.runs))
	copy(out, m.runs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].FinishedAt.After(out[j].FinishedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}
